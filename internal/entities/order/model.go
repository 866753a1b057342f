package order

import "time"

// Statuses an order moves through. Ordered is the opening state; the rest
// are terminal from the till's point of view.
var statuses = []string{"Ordered", "Paid", "Cancelled", "Refunded"}

// paymentTypes is optional at creation and only set once the order is paid.
var paymentTypes = []string{"Mixed", "Cash", "Card"}

// Order is the till aggregate. Admin, table and category are references
// hydrated best-effort at read time; the products array snapshots prices at
// the moment the order was taken.
type Order struct {
	ID          string     `json:"_id"`
	Admin       AdminRef   `json:"admin"`
	Table       NameRef    `json:"table"`
	Category    NameRef    `json:"category"`
	Status      string     `json:"status"`
	PaymentType string     `json:"paymentType,omitempty"`
	Products    []LineItem `json:"products"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// AdminRef names the identity that took the order.
type AdminRef struct {
	ID        string `json:"_id"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// NameRef is a hydrated table or category reference.
type NameRef struct {
	ID   string `json:"_id"`
	Name string `json:"name,omitempty"`
}

// LineItem is one ordered product with its price snapshot. Price stays a
// string; the backend never does arithmetic on it.
type LineItem struct {
	ID      string `json:"_id"`
	Product string `json:"product"`
	Price   string `json:"price"`
	Count   int    `json:"count"`
}

func isValidStatus(s string) bool {
	for _, v := range statuses {
		if v == s {
			return true
		}
	}
	return false
}

func isValidPaymentType(s string) bool {
	for _, v := range paymentTypes {
		if v == s {
			return true
		}
	}
	return false
}
