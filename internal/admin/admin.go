// Package admin is the client surface of the admin console: product CRUD,
// user management, order status changes, and sales reports. Every call
// requires an admin credential; the backend rejects the rest.
package admin

import (
	"context"
	"fmt"
	"net/url"

	"github.com/go-playground/validator/v10"

	"github.com/luxemart/storefront/internal/api"
	"github.com/luxemart/storefront/internal/catalog"
	pkgerrors "github.com/luxemart/storefront/pkg/errors"
	"github.com/luxemart/storefront/pkg/types"
)

// OrderStatuses are the values the admin console may set on an order.
var OrderStatuses = []string{"pending", "processing", "shipped", "delivered", "cancelled"}

// ProductInput is the create/update payload for a catalog entry.
type ProductInput struct {
	Name        string      `json:"name" validate:"required"`
	Price       types.Money `json:"price"`
	Category    string      `json:"category" validate:"required"`
	Description string      `json:"description,omitempty"`
	Images      []string    `json:"images,omitempty"`
}

// User is an account row in the admin users screen.
type User struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

// DailyRevenue is one row of the revenue-per-day report.
type DailyRevenue struct {
	Date    string      `json:"date"`
	Revenue types.Money `json:"revenue"`
	Orders  int         `json:"orders"`
}

// TopCustomer is one row of the biggest-spenders report.
type TopCustomer struct {
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Total types.Money `json:"total"`
}

// CategorySale is one row of the per-category sales report.
type CategorySale struct {
	Category string      `json:"category"`
	Revenue  types.Money `json:"revenue"`
	Units    int         `json:"units"`
}

// Report bundles the three admin reports the backend computes in one call.
type Report struct {
	DailyRevenue  []DailyRevenue `json:"dailyRevenue"`
	TopCustomers  []TopCustomer  `json:"topCustomers"`
	CategorySales []CategorySale `json:"categorySales"`
}

type Service struct {
	client   *api.Client
	validate *validator.Validate
}

func NewService(client *api.Client) (*Service, error) {
	if client == nil {
		return nil, fmt.Errorf("api client required")
	}
	return &Service{client: client, validate: validator.New()}, nil
}

func (s *Service) CreateProduct(ctx context.Context, input ProductInput) (*catalog.Product, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "name and category are required")
	}
	var product catalog.Product
	if err := s.client.Post(ctx, "/api/products", input, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id string, input ProductInput) (*catalog.Product, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "name and category are required")
	}
	var product catalog.Product
	if err := s.client.Put(ctx, "/api/products/"+url.PathEscape(id), input, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	return s.client.Delete(ctx, "/api/products/"+url.PathEscape(id), nil)
}

func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := s.client.Get(ctx, "/api/users", &users); err != nil {
		return nil, err
	}
	return users, nil
}

// SetUserAdmin toggles the admin flag on an account.
func (s *Service) SetUserAdmin(ctx context.Context, id string, isAdmin bool) error {
	body := map[string]bool{"isAdmin": isAdmin}
	return s.client.Put(ctx, "/api/users/"+url.PathEscape(id), body, nil)
}

func (s *Service) DeleteUser(ctx context.Context, id string) error {
	return s.client.Delete(ctx, "/api/users/"+url.PathEscape(id), nil)
}

// SetOrderStatus moves an order through fulfilment.
func (s *Service) SetOrderStatus(ctx context.Context, id, status string) error {
	if err := s.validate.Var(status, "required,oneof=pending processing shipped delivered cancelled"); err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid status %q", status))
	}
	body := map[string]string{"status": status}
	return s.client.Put(ctx, "/api/orders/"+url.PathEscape(id)+"/status", body, nil)
}

func (s *Service) Reports(ctx context.Context) (*Report, error) {
	var report Report
	if err := s.client.Get(ctx, "/api/reports/all", &report); err != nil {
		return nil, err
	}
	return &report, nil
}
