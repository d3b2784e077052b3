package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"storefront/internal/domain"
)

// OrderProductPayload is one selected cart line serialized for submission.
type OrderProductPayload struct {
	ProductID int    `json:"product_id" validate:"required"`
	Count     int    `json:"count" validate:"required,gte=1"`
	Detail    string `json:"detail" validate:"required"`
}

// OrderPayload is the order submission body. Card fields are zero-valued
// sentinels for cash payment; the card number travels digits-only. Price
// is the computed checkout total as a 2-decimal number.
type OrderPayload struct {
	AddressID       int                   `json:"address_id" validate:"required"`
	OrderDate       string                `json:"order_date" validate:"required"`
	CardNo          string                `json:"card_no"`
	CardName        string                `json:"card_name"`
	CardExpireMonth int                   `json:"card_expire_month"`
	CardExpireYear  int                   `json:"card_expire_year"`
	CardCCV         int                   `json:"card_ccv"`
	Price           json.Number           `json:"price" validate:"required"`
	Products        []OrderProductPayload `json:"products" validate:"required,min=1,dive"`
}

// CreateOrder submits an order and returns the server's record of it.
func (c *Client) CreateOrder(ctx context.Context, payload OrderPayload) (*domain.Order, error) {
	if err := checkPayload(payload); err != nil {
		return nil, err
	}

	var order domain.Order
	if err := c.do(ctx, http.MethodPost, "/order", nil, payload, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// Orders fetches the account's order history.
func (c *Client) Orders(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	if err := c.do(ctx, http.MethodGet, "/order", nil, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}
