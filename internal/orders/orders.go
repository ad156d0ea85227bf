package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/luxemart/storefront/internal/api"
	"github.com/luxemart/storefront/pkg/types"
)

// ItemPayload is one line of an order submission: the exact shape POSTed to
// /api/orders.
type ItemPayload struct {
	ProductID string      `json:"productId"`
	Name      string      `json:"name"`
	Price     types.Money `json:"price"`
	Quantity  int         `json:"quantity"`
}

type submission struct {
	Items []ItemPayload `json:"items"`
}

// PlacedOrder is the backend's acknowledgement of a submission.
type PlacedOrder struct {
	ID     string      `json:"id"`
	Total  types.Money `json:"total"`
	Status string      `json:"status"`
}

// OrderItem is one line of a historical order.
type OrderItem struct {
	ProductID       string      `json:"productId"`
	Name            string      `json:"name"`
	Quantity        int         `json:"quantity"`
	PriceAtPurchase types.Money `json:"priceAtPurchase"`
}

// Order is one entry of the authenticated user's history.
type Order struct {
	ID        string      `json:"id"`
	Total     types.Money `json:"total"`
	Status    string      `json:"status"`
	CreatedAt time.Time   `json:"createdAt"`
	Items     []OrderItem `json:"items"`
}

// Service talks to the orders endpoints.
type Service struct {
	client *api.Client
}

func NewService(client *api.Client) (*Service, error) {
	if client == nil {
		return nil, fmt.Errorf("api client required")
	}
	return &Service{client: client}, nil
}

// Place submits the items as one order. The payload is a snapshot: a retry
// after failure builds a fresh one from current cart state rather than
// resending this value.
func (s *Service) Place(ctx context.Context, items []ItemPayload) (*PlacedOrder, error) {
	var placed PlacedOrder
	if err := s.client.Post(ctx, "/api/orders", submission{Items: items}, &placed); err != nil {
		return nil, err
	}
	return &placed, nil
}

// History returns the authenticated user's orders, newest first.
func (s *Service) History(ctx context.Context) ([]Order, error) {
	var out []Order
	if err := s.client.Get(ctx, "/api/orders", &out); err != nil {
		return nil, err
	}
	return out, nil
}
