package admin

import (
	"time"

	"github.com/shababeek/pos/internal/access"
)

// Admin is a staff account. The password hash and the live token set never
// leave the server, so both are excluded from JSON.
type Admin struct {
	ID           string      `json:"_id"`
	FirstName    string      `json:"firstName"`
	LastName     string      `json:"lastName"`
	PhoneNumber  string      `json:"phoneNumber"`
	Email        string      `json:"email"`
	Role         access.Role `json:"role"`
	PasswordHash string      `json:"-"`
	Tokens       []string    `json:"-"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}
