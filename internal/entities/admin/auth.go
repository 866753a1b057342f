package admin

import (
	"golang.org/x/crypto/bcrypt"
)

// hashCost matches the work factor the rest of the fleet was provisioned
// with.
const hashCost = 8

// SetPassword hashes the raw password and stores only the hash.
func (a *Admin) SetPassword(raw string) error {
	bytes, err := bcrypt.GenerateFromPassword([]byte(raw), hashCost)
	if err != nil {
		return err
	}
	a.PasswordHash = string(bytes)
	return nil
}

// CheckPassword compares a raw password against the stored hash.
func (a *Admin) CheckPassword(raw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(raw)) == nil
}
