package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/cart"
	"storefront/internal/domain"
	"storefront/internal/httpapi"
)

// Step is the checkout flow position.
type Step int

const (
	SelectingAddress Step = iota
	SelectingPayment
	Submitting
	Succeeded
	Failed
)

func (s Step) String() string {
	switch s {
	case SelectingAddress:
		return "SELECTING_ADDRESS"
	case SelectingPayment:
		return "SELECTING_PAYMENT"
	case Submitting:
		return "SUBMITTING"
	case Succeeded:
		return "SUCCEEDED"
	case Failed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// PaymentMethod distinguishes card payment from pay-on-delivery.
type PaymentMethod string

const (
	MethodCard PaymentMethod = "card"
	MethodCash PaymentMethod = "cash"
)

// DefaultDetail is the variant descriptor used when a line carries none.
const DefaultDetail = "standard"

// SuccessRoute is where the user lands after a successful order.
const SuccessRoute = "/orders"

// Guard violations. These block the offending transition and are surfaced
// inline; they never reach the network.
var (
	ErrWrongStep         = errors.New("operation not available in current checkout step")
	ErrNoAddressSelected = errors.New("a delivery address must be selected")
	ErrNoCardSelected    = errors.New("a payment card must be selected")
	ErrTermsNotAccepted  = errors.New("terms must be accepted")
	ErrNoLinesSelected   = errors.New("no cart lines are selected for purchase")
	ErrUnknownAddress    = errors.New("address is not in the fetched list")
	ErrUnknownCard       = errors.New("card is not in the fetched list")
)

// Snapshot is a read view of the orchestrator for UI consumers.
type Snapshot struct {
	Step              Step
	Addresses         []domain.Address
	Cards             []domain.Card
	SelectedAddressID int
	SelectedCardID    int
	Method            PaymentMethod
	TermsAccepted     bool
	Totals            cart.Totals
}

// Orchestrator sequences address choice, payment choice and order
// submission over the cart engine, the session and the remote API. The
// backend stays the source of truth for addresses and cards: every
// mutation refetches the full list instead of patching locally.
type Orchestrator struct {
	api           *httpapi.Client
	cart          *cart.Engine
	pricing       cart.Pricing
	redirectDelay time.Duration
	logger        *zap.Logger

	mu                sync.Mutex
	step              Step
	addresses         []domain.Address
	cards             []domain.Card
	selectedAddressID int
	selectedCardID    int
	method            PaymentMethod
	termsAccepted     bool
	ccv               int

	onRedirect func(route string)
}

func New(api *httpapi.Client, engine *cart.Engine, pricing cart.Pricing, redirectDelay time.Duration, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		api:           api,
		cart:          engine,
		pricing:       pricing,
		redirectDelay: redirectDelay,
		logger:        logger,
		step:          SelectingAddress,
		method:        MethodCard,
	}
}

// OnRedirect registers the routing collaborator notified after a
// successful submission.
func (o *Orchestrator) OnRedirect(fn func(route string)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.onRedirect = fn
}

// Begin enters the checkout flow: loads addresses and cards from the
// backend and preselects the first of each if nothing is chosen yet.
func (o *Orchestrator) Begin(ctx context.Context) error {
	o.mu.Lock()
	o.step = SelectingAddress
	o.termsAccepted = false
	o.ccv = 0
	o.mu.Unlock()

	if err := o.refreshAddresses(ctx); err != nil {
		return err
	}
	return o.refreshCards(ctx)
}

// Step returns the current flow position.
func (o *Orchestrator) Step() Step {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.step
}

// Snapshot returns a copy of the orchestrator state plus the current order
// summary.
func (o *Orchestrator) Snapshot() Snapshot {
	totals := o.cart.Totals(o.pricing)

	o.mu.Lock()
	defer o.mu.Unlock()

	return Snapshot{
		Step:              o.step,
		Addresses:         append([]domain.Address(nil), o.addresses...),
		Cards:             append([]domain.Card(nil), o.cards...),
		SelectedAddressID: o.selectedAddressID,
		SelectedCardID:    o.selectedCardID,
		Method:            o.method,
		TermsAccepted:     o.termsAccepted,
		Totals:            totals,
	}
}

// SelectAddress chooses a delivery address from the fetched list.
func (o *Orchestrator) SelectAddress(id int) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	for _, a := range o.addresses {
		if a.ID == id {
			o.selectedAddressID = id
			return nil
		}
	}
	return ErrUnknownAddress
}

// SelectCard chooses a payment card from the fetched list.
func (o *Orchestrator) SelectCard(id int) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	for _, c := range o.cards {
		if c.ID == id {
			o.selectedCardID = id
			return nil
		}
	}
	return ErrUnknownCard
}

// SetPaymentMethod switches between card and pay-on-delivery.
func (o *Orchestrator) SetPaymentMethod(method PaymentMethod) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.method = method
}

// SetTermsAccepted records the terms-acceptance flag.
func (o *Orchestrator) SetTermsAccepted(accepted bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.termsAccepted = accepted
}

// SetCardCCV holds the card verification code for the submission request
// only. It is zeroed as soon as the payload is built.
func (o *Orchestrator) SetCardCCV(ccv int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.ccv = ccv
}

// ContinueToPayment advances to payment selection. Guarded: a delivery
// address must be chosen, otherwise the flow stays in place.
func (o *Orchestrator) ContinueToPayment() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.step != SelectingAddress {
		return ErrWrongStep
	}
	if o.selectedAddressID == 0 {
		return ErrNoAddressSelected
	}
	o.step = SelectingPayment
	return nil
}

// BackToAddress returns to address selection without losing choices.
func (o *Orchestrator) BackToAddress() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.step == SelectingPayment {
		o.step = SelectingAddress
	}
}

// Retry re-enters payment selection after a failed submission. Nothing is
// retried automatically.
func (o *Orchestrator) Retry() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.step == Failed {
		o.step = SelectingPayment
	}
}

// Submit serializes the selected cart lines and payment choice into an
// order request. On success the whole cart is cleared, unselected lines
// included, and a redirect is scheduled after a fixed delay. On failure
// the attempt is surfaced and the flow waits for a user-initiated retry.
func (o *Orchestrator) Submit(ctx context.Context) (*domain.Order, error) {
	o.mu.Lock()
	if o.step != SelectingPayment {
		o.mu.Unlock()
		return nil, ErrWrongStep
	}
	if err := o.submitGuardLocked(); err != nil {
		o.mu.Unlock()
		return nil, err
	}

	lines := o.cart.SelectedLines()
	if len(lines) == 0 {
		o.mu.Unlock()
		return nil, ErrNoLinesSelected
	}

	payload := o.buildPayloadLocked(lines)
	o.ccv = 0
	o.step = Submitting
	attemptID := uuid.New()
	o.mu.Unlock()

	o.logger.Info("Submitting order",
		zap.String("attempt_id", attemptID.String()),
		zap.Int("address_id", payload.AddressID),
		zap.Int("lines", len(payload.Products)),
		zap.String("price", payload.Price.String()),
	)

	order, err := o.api.CreateOrder(ctx, payload)
	if err != nil {
		o.mu.Lock()
		o.step = Failed
		o.mu.Unlock()
		o.logger.Warn("Order submission failed",
			zap.String("attempt_id", attemptID.String()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("order submission failed: %w", err)
	}

	o.mu.Lock()
	o.step = Succeeded
	redirect := o.onRedirect
	o.mu.Unlock()

	// The whole cart is cleared, unselected lines included.
	o.cart.Clear()

	o.logger.Info("Order submitted",
		zap.String("attempt_id", attemptID.String()),
		zap.Int("order_id", order.ID),
	)

	if redirect != nil {
		time.AfterFunc(o.redirectDelay, func() { redirect(SuccessRoute) })
	}
	return order, nil
}

// submitGuardLocked checks the three submission conditions: an address, a
// usable payment choice and accepted terms.
func (o *Orchestrator) submitGuardLocked() error {
	if o.selectedAddressID == 0 {
		return ErrNoAddressSelected
	}
	if o.method == MethodCard && o.selectedCardID == 0 && len(o.cards) > 0 {
		return ErrNoCardSelected
	}
	if !o.termsAccepted {
		return ErrTermsNotAccepted
	}
	return nil
}

func (o *Orchestrator) buildPayloadLocked(lines []cart.Line) httpapi.OrderPayload {
	totals := o.pricing.Compute(selectedSubtotal(lines))

	payload := httpapi.OrderPayload{
		AddressID: o.selectedAddressID,
		OrderDate: time.Now().UTC().Format(time.RFC3339),
		Price:     json.Number(totals.Total.StringFixed(2)),
		// Sentinel zero-value card payload for cash or card-less accounts
		CardNo: "0",
	}

	if o.method == MethodCard {
		for _, c := range o.cards {
			if c.ID == o.selectedCardID {
				payload.CardNo = strings.ReplaceAll(c.No, " ", "")
				payload.CardName = c.NameOnCard
				payload.CardExpireMonth = c.ExpireMonth
				payload.CardExpireYear = c.ExpireYear
				payload.CardCCV = o.ccv
				break
			}
		}
	}

	for _, line := range lines {
		payload.Products = append(payload.Products, httpapi.OrderProductPayload{
			ProductID: line.Product.ID,
			Count:     line.Quantity,
			Detail:    DefaultDetail,
		})
	}
	return payload
}

func selectedSubtotal(lines []cart.Line) decimal.Decimal {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.Subtotal())
	}
	return subtotal
}

// Orders fetches the order history, newest first.
func (o *Orchestrator) Orders(ctx context.Context) ([]domain.Order, error) {
	orders, err := o.api.Orders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].OrderDate.After(orders[j].OrderDate)
	})
	return orders, nil
}
