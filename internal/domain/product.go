package domain

import (
	"github.com/shopspring/decimal"
)

func init() {
	// The backend speaks JSON numbers for prices, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product represents a catalog entity as served by the remote backend.
// Products are immutable on the client; the catalog cache replaces them
// wholesale on every fetch.
type Product struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Rating      decimal.Decimal `json:"rating"`
	SellCount   int             `json:"sell_count"`
	Images      []ProductImage  `json:"images"`
	CategoryID  int             `json:"category_id"`
}

// ProductImage is a single catalog image reference.
type ProductImage struct {
	URL   string `json:"url"`
	Index int    `json:"index"`
}

// Category represents a product category.
type Category struct {
	ID     int             `json:"id"`
	Code   string          `json:"code"`
	Title  string          `json:"title"`
	Img    string          `json:"img"`
	Rating decimal.Decimal `json:"rating"`
	Gender string          `json:"gender"`
}

// FetchState tracks the lifecycle of a remote listing fetch.
type FetchState int

const (
	FetchIdle FetchState = iota
	Fetching
	Fetched
	FetchFailed
)

func (s FetchState) String() string {
	switch s {
	case FetchIdle:
		return "IDLE"
	case Fetching:
		return "FETCHING"
	case Fetched:
		return "FETCHED"
	case FetchFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}
