package checkout

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/luxemart/storefront/internal/cart"
	"github.com/luxemart/storefront/internal/orders"
	pkgerrors "github.com/luxemart/storefront/pkg/errors"
	"github.com/luxemart/storefront/pkg/logger"
)

// SuccessDisplayDelay is how long UI surfaces show the success state before
// navigating to the order history.
const SuccessDisplayDelay = 2 * time.Second

type orderPlacer interface {
	Place(ctx context.Context, items []orders.ItemPayload) (*orders.PlacedOrder, error)
}

type credentialSource interface {
	IsAuthenticated() bool
}

// Flow is the checkout submission state machine:
// Idle -> Submitting -> Succeeded | Failed, with Failed -> Submitting on
// retry. The cart is cleared only after the server confirms the order, so
// a failed or interrupted attempt never loses items. No idempotency key is
// sent: a retry after an ambiguous failure can duplicate the order.
type Flow struct {
	mu      sync.Mutex
	state   State
	failure error

	cart   *cart.Service
	orders orderPlacer
	creds  credentialSource
	logg   *logger.Logger
}

func NewFlow(cartSvc *cart.Service, placer orderPlacer, creds credentialSource, logg *logger.Logger) (*Flow, error) {
	if cartSvc == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if placer == nil {
		return nil, fmt.Errorf("order placer required")
	}
	if creds == nil {
		return nil, fmt.Errorf("credential source required")
	}
	return &Flow{state: StateIdle, cart: cartSvc, orders: placer, creds: creds, logg: logg}, nil
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Failure returns the error that moved the flow to Failed, or nil.
func (f *Flow) Failure() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.failure
}

// Reset returns a finished flow to Idle so a new submission can start.
func (f *Flow) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateSubmitting {
		f.state = StateIdle
		f.failure = nil
	}
}

// Submit runs one submission attempt. Preconditions are checked before any
// network traffic: a missing credential or an empty cart fails locally and
// leaves the flow state untouched.
func (f *Flow) Submit(ctx context.Context) (*orders.PlacedOrder, error) {
	f.mu.Lock()
	switch f.state {
	case StateSubmitting:
		f.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "a submission is already in progress")
	case StateSucceeded:
		f.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "submission already completed")
	}

	if !f.creds.IsAuthenticated() {
		f.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeUnauthenticated, "please login to place an order")
	}

	snapshot := f.cart.Load()
	if len(snapshot) == 0 {
		f.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "your cart is empty")
	}

	f.state = StateSubmitting
	f.failure = nil
	f.mu.Unlock()

	placed, err := f.orders.Place(ctx, payloadFrom(snapshot))

	f.mu.Lock()
	defer f.mu.Unlock()

	if err != nil {
		f.state = StateFailed
		f.failure = err
		return nil, err
	}

	if clearErr := f.cart.Clear(); clearErr != nil && f.logg != nil {
		// The order exists server-side; a stale local cart is the lesser
		// problem and the next mutation will overwrite it.
		f.logg.Warn(f.logg.WithField(ctx, "error", clearErr.Error()), "cart clear after checkout failed")
	}

	f.state = StateSucceeded
	return placed, nil
}

// BuyNow places a single-item order without going through the cart: the
// cart contents are neither read nor cleared and no change notification
// fires. The flow state is untouched, so a buy-now never blocks or resets
// an in-progress cart submission.
func (f *Flow) BuyNow(ctx context.Context, item orders.ItemPayload) (*orders.PlacedOrder, error) {
	if !f.creds.IsAuthenticated() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthenticated, "please login to place an order")
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	return f.orders.Place(ctx, []orders.ItemPayload{item})
}

func payloadFrom(items []cart.LineItem) []orders.ItemPayload {
	payload := make([]orders.ItemPayload, 0, len(items))
	for _, item := range items {
		payload = append(payload, orders.ItemPayload{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
	}
	return payload
}
