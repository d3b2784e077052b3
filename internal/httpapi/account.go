package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"storefront/internal/domain"
)

// AddressRequest is the create/update payload for delivery addresses. The
// backend owns addresses; the client only checks required-field presence.
type AddressRequest struct {
	ID           int    `json:"id,omitempty"`
	Title        string `json:"title" validate:"required"`
	Name         string `json:"name" validate:"required"`
	Surname      string `json:"surname" validate:"required"`
	Phone        string `json:"phone" validate:"required"`
	City         string `json:"city" validate:"required"`
	District     string `json:"district" validate:"required"`
	Neighborhood string `json:"neighborhood" validate:"required"`
	Line         string `json:"address" validate:"required"`
}

// CardRequest is the create/update payload for stored payment cards. The
// number travels digits-only; display masking happens on the domain type.
type CardRequest struct {
	ID          int    `json:"id,omitempty"`
	No          string `json:"card_no" validate:"required,numeric,min=15,max=16"`
	NameOnCard  string `json:"name_on_card" validate:"required"`
	ExpireMonth int    `json:"expire_month" validate:"required,gte=1,lte=12"`
	ExpireYear  int    `json:"expire_year" validate:"required"`
}

// Addresses fetches the account's saved delivery addresses.
func (c *Client) Addresses(ctx context.Context) ([]domain.Address, error) {
	var addresses []domain.Address
	if err := c.do(ctx, http.MethodGet, "/user/address", nil, nil, &addresses); err != nil {
		return nil, err
	}
	return addresses, nil
}

// CreateAddress saves a new address. The server assigns the id.
func (c *Client) CreateAddress(ctx context.Context, req AddressRequest) error {
	req.ID = 0
	if err := checkPayload(req); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, "/user/address", nil, req, nil)
}

// UpdateAddress edits an existing address in place.
func (c *Client) UpdateAddress(ctx context.Context, req AddressRequest) error {
	if req.ID == 0 {
		return &ValidationError{Fields: []FieldError{{Field: "ID", Message: "This field is required"}}}
	}
	if err := checkPayload(req); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, "/user/address", nil, req, nil)
}

// DeleteAddress removes an address.
func (c *Client) DeleteAddress(ctx context.Context, id int) error {
	path := fmt.Sprintf("/user/address/%d", id)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// Cards fetches the account's stored payment cards.
func (c *Client) Cards(ctx context.Context) ([]domain.Card, error) {
	var cards []domain.Card
	if err := c.do(ctx, http.MethodGet, "/user/card", nil, nil, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

// CreateCard stores a new payment card. The server assigns the id.
func (c *Client) CreateCard(ctx context.Context, req CardRequest) error {
	req.ID = 0
	if err := checkPayload(req); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, "/user/card", nil, req, nil)
}

// UpdateCard edits a stored card in place.
func (c *Client) UpdateCard(ctx context.Context, req CardRequest) error {
	if req.ID == 0 {
		return &ValidationError{Fields: []FieldError{{Field: "ID", Message: "This field is required"}}}
	}
	if err := checkPayload(req); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, "/user/card", nil, req, nil)
}

// DeleteCard removes a stored card.
func (c *Client) DeleteCard(ctx context.Context, id int) error {
	path := fmt.Sprintf("/user/card/%d", id)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}
