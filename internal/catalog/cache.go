package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/httpapi"
)

// DefaultLimit is the page size the shop listing starts with.
const DefaultLimit = 25

// Snapshot is a read view of the cache for UI consumers.
type Snapshot struct {
	Categories []domain.Category
	Products   []domain.Product
	Total      int
	Params     httpapi.ListParams
	FetchState domain.FetchState

	SelectedProduct    *domain.Product
	SelectedFetchState domain.FetchState
}

// Cache is the client-side holding area for fetched category and product
// data plus the pagination/sort/filter parameters that produced it. The
// remote backend is the source of truth; every fetch replaces the cached
// listing wholesale.
type Cache struct {
	api      *httpapi.Client
	logger   *zap.Logger
	debounce time.Duration

	mu         sync.Mutex
	categories []domain.Category
	products   []domain.Product
	total      int
	params     httpapi.ListParams
	fetchState domain.FetchState

	selected           *domain.Product
	selectedFetchState domain.FetchState

	timer *time.Timer
}

func New(api *httpapi.Client, debounce time.Duration, logger *zap.Logger) *Cache {
	return &Cache{
		api:      api,
		logger:   logger,
		debounce: debounce,
		params:   httpapi.ListParams{Limit: DefaultLimit},
	}
}

// Snapshot returns a copy of the cache state.
func (c *Cache) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		Categories:         append([]domain.Category(nil), c.categories...),
		Products:           append([]domain.Product(nil), c.products...),
		Total:              c.total,
		Params:             c.params,
		FetchState:         c.fetchState,
		SelectedFetchState: c.selectedFetchState,
	}
	if c.selected != nil {
		product := *c.selected
		snap.SelectedProduct = &product
	}
	return snap
}

// FetchCategories refreshes the category list.
func (c *Cache) FetchCategories(ctx context.Context) error {
	categories, err := c.api.Categories(ctx)
	if err != nil {
		c.logger.Warn("Category fetch failed", zap.Error(err))
		return fmt.Errorf("failed to fetch categories: %w", err)
	}

	c.mu.Lock()
	c.categories = categories
	c.mu.Unlock()
	return nil
}

// FetchProducts refreshes the product listing for the current parameters.
// On failure the previous listing is kept and the fetch state becomes
// FAILED so the UI can offer a retry; retries are always user-initiated.
func (c *Cache) FetchProducts(ctx context.Context) error {
	c.mu.Lock()
	c.fetchState = domain.Fetching
	params := c.params
	c.mu.Unlock()

	page, err := c.api.Products(ctx, params)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.fetchState = domain.FetchFailed
		c.logger.Warn("Product fetch failed", zap.Error(err))
		return fmt.Errorf("failed to fetch products: %w", err)
	}

	c.products = page.Products
	c.total = page.Total
	c.fetchState = domain.Fetched
	c.logger.Debug("Products fetched",
		zap.Int("count", len(page.Products)),
		zap.Int("total", page.Total),
	)
	return nil
}

// FetchProductByID loads a single product for the detail view.
func (c *Cache) FetchProductByID(ctx context.Context, id int) error {
	c.mu.Lock()
	c.selectedFetchState = domain.Fetching
	c.mu.Unlock()

	product, err := c.api.ProductByID(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.selectedFetchState = domain.FetchFailed
		c.logger.Warn("Product detail fetch failed", zap.Int("id", id), zap.Error(err))
		return fmt.Errorf("failed to fetch product %d: %w", id, err)
	}

	c.selected = product
	c.selectedFetchState = domain.Fetched
	return nil
}

// SetFilter updates the free-text search and schedules a fetch after the
// quiescence window, coalescing rapid keystrokes into one outgoing call.
// Changing the query resets pagination to the first page.
func (c *Cache) SetFilter(filter string) {
	c.mu.Lock()
	c.params.Filter = filter
	c.params.Offset = 0

	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.debounce, func() {
		// Errors surface through the fetch state; nothing to return to.
		_ = c.FetchProducts(context.Background())
	})
	c.mu.Unlock()
}

// SetSort changes the sort order and refetches immediately from the first
// page.
func (c *Cache) SetSort(ctx context.Context, sort string) error {
	c.mu.Lock()
	c.params.Sort = sort
	c.params.Offset = 0
	c.mu.Unlock()
	return c.FetchProducts(ctx)
}

// SetCategory narrows the listing to a category and refetches from the
// first page. A zero id clears the narrowing.
func (c *Cache) SetCategory(ctx context.Context, categoryID int) error {
	c.mu.Lock()
	c.params.Category = categoryID
	c.params.Offset = 0
	c.mu.Unlock()
	return c.FetchProducts(ctx)
}

// SetPage moves to the given offset and refetches.
func (c *Cache) SetPage(ctx context.Context, offset int) error {
	c.mu.Lock()
	c.params.Offset = offset
	c.mu.Unlock()
	return c.FetchProducts(ctx)
}
