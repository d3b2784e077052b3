package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"storefront/internal/domain"
)

// ListParams are the pagination/sort/filter query parameters for the
// product listing endpoint. Zero values are omitted from the query.
type ListParams struct {
	Limit    int
	Offset   int
	Category int
	Filter   string // free-text search
	Sort     string // field:direction, e.g. "price:asc"
}

func (p ListParams) query() url.Values {
	q := url.Values{}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Offset > 0 {
		q.Set("offset", strconv.Itoa(p.Offset))
	}
	if p.Category > 0 {
		q.Set("category", strconv.Itoa(p.Category))
	}
	if p.Filter != "" {
		q.Set("filter", p.Filter)
	}
	if p.Sort != "" {
		q.Set("sort", p.Sort)
	}
	return q
}

// ProductPage is one page of the product listing plus the total count the
// pagination controls need.
type ProductPage struct {
	Total    int              `json:"total"`
	Products []domain.Product `json:"products"`
}

// Categories fetches the full category list.
func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	if err := c.do(ctx, http.MethodGet, "/categories", nil, nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// Products fetches a page of the product listing.
func (c *Client) Products(ctx context.Context, params ListParams) (*ProductPage, error) {
	var page ProductPage
	if err := c.do(ctx, http.MethodGet, "/products", params.query(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ProductByID fetches a single product for the detail view.
func (c *Client) ProductByID(ctx context.Context, id int) (*domain.Product, error) {
	var product domain.Product
	path := fmt.Sprintf("/products/%d", id)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}
