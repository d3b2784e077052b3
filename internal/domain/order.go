package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is the server's record of a submitted order. The client never
// mutates an order after creation, only re-fetches it for history display.
type Order struct {
	ID        int             `json:"id"`
	AddressID int             `json:"address_id"`
	OrderDate time.Time       `json:"order_date"`
	Price     decimal.Decimal `json:"price"`
	Status    string          `json:"status,omitempty"`
	Address   *Address        `json:"address,omitempty"`
	Products  []OrderProduct  `json:"products"`
}

// OrderProduct is one purchased line within an order.
type OrderProduct struct {
	ProductID int    `json:"product_id"`
	Count     int    `json:"count"`
	Detail    string `json:"detail"`
}
