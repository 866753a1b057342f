package product

import "time"

// Product is a menu item. Price is a decimal-as-string: it is displayed and
// snapshotted into orders, never computed on.
type Product struct {
	ID             string      `json:"_id"`
	Category       CategoryRef `json:"category"`
	Name           string      `json:"name"`
	Description    string      `json:"description"`
	Price          string      `json:"price"`
	ImageUrl       string      `json:"imageUrl,omitempty"`
	MinimumOrdered int         `json:"minimumOrdered"`
	MaximumOrdered int         `json:"maximumOrdered"`
	IsActive       bool        `json:"isActive"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}

// CategoryRef is the hydrated category reference. Name is filled best-effort
// at read time; a dangling reference still round-trips as the bare id.
type CategoryRef struct {
	ID   string `json:"_id"`
	Name string `json:"name,omitempty"`
}
