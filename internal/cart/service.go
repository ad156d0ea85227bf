package cart

import (
	"fmt"
	"strings"

	pkgerrors "github.com/luxemart/storefront/pkg/errors"
	"github.com/luxemart/storefront/pkg/localstore"
	"github.com/luxemart/storefront/pkg/logger"
	"github.com/luxemart/storefront/pkg/types"
)

// SlotName is the local store slot holding the JSON-encoded cart.
const SlotName = "cart"

type notifier interface {
	Notify()
}

// Service mutates the persisted cart. Every mutation runs the same
// sequence: load, mutate in memory, save, notify. The cart slot is the
// single source of truth; UI surfaces re-read it on notification instead
// of caching line items.
type Service struct {
	store *localstore.Store
	bus   notifier
	logg  *logger.Logger
}

// NewService builds a cart service over the given slot store.
func NewService(store *localstore.Store, bus notifier, logg *logger.Logger) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("slot store required")
	}
	if bus == nil {
		return nil, fmt.Errorf("notification bus required")
	}
	return &Service{store: store, bus: bus, logg: logg}, nil
}

// Load returns the current cart. An absent or corrupt slot yields an empty
// cart, never an error.
func (s *Service) Load() []LineItem {
	var items []LineItem
	if !s.store.GetJSON(SlotName, &items) {
		return []LineItem{}
	}
	if items == nil {
		items = []LineItem{}
	}
	return items
}

func (s *Service) save(items []LineItem) error {
	return s.store.SetJSON(SlotName, items)
}

// AddItem appends a new line with quantity 1, or increments the quantity of
// the existing line for the same product. The stored name and price win
// over the arguments when the product is already in the cart.
func (s *Service) AddItem(productID, name string, price types.Money) error {
	if strings.TrimSpace(productID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	items := s.Load()
	found := false
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		items = append(items, LineItem{ProductID: productID, Name: name, Price: price, Quantity: 1})
	}

	if err := s.save(items); err != nil {
		return err
	}
	s.bus.Notify()
	return nil
}

// SetQuantity overwrites the quantity of an existing line. A quantity below
// one removes the line; an absent product is a no-op.
func (s *Service) SetQuantity(productID string, quantity int) error {
	if quantity < 1 {
		return s.RemoveItem(productID)
	}

	items := s.Load()
	changed := false
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity = quantity
			changed = true
			break
		}
	}
	if !changed {
		return nil
	}

	if err := s.save(items); err != nil {
		return err
	}
	s.bus.Notify()
	return nil
}

// RemoveItem drops the line for productID. Absent products are a no-op.
func (s *Service) RemoveItem(productID string) error {
	items := s.Load()
	kept := make([]LineItem, 0, len(items))
	for _, item := range items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(items) {
		return nil
	}

	if err := s.save(kept); err != nil {
		return err
	}
	s.bus.Notify()
	return nil
}

// Clear empties the cart and notifies once. Checkout calls this only after
// the server confirms the order.
func (s *Service) Clear() error {
	if err := s.save([]LineItem{}); err != nil {
		return err
	}
	s.bus.Notify()
	return nil
}

// Count returns the total quantity across all lines, for the navbar badge.
func (s *Service) Count() int {
	total := 0
	for _, item := range s.Load() {
		total += item.Quantity
	}
	return total
}

// Subtotal sums price times quantity over the cart.
func (s *Service) Subtotal() types.Money {
	total := types.MoneyFromInt(0)
	for _, item := range s.Load() {
		total = total.Add(item.Subtotal())
	}
	return total
}
