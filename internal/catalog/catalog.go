package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/luxemart/storefront/internal/api"
	"github.com/luxemart/storefront/pkg/types"
)

// Product is a catalog entry as the listing endpoint returns it. Older
// backend deployments expose a Mongo-style `_id`; ID() papers over both.
type Product struct {
	ProductID   string      `json:"id"`
	LegacyID    string      `json:"_id,omitempty"`
	Name        string      `json:"name"`
	Price       types.Money `json:"price"`
	Category    string      `json:"category"`
	Description string      `json:"description,omitempty"`
	Image       string      `json:"image,omitempty"`
	Images      []string    `json:"images,omitempty"`
}

func (p Product) ID() string {
	if p.LegacyID != "" {
		return p.LegacyID
	}
	return p.ProductID
}

// FirstImage mirrors the listing page's images[0] || image fallback.
func (p Product) FirstImage() string {
	if len(p.Images) > 0 {
		return p.Images[0]
	}
	return p.Image
}

// Page is the paginated listing response.
type Page struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	Pages    int       `json:"pages"`
}

// ListParams narrow a listing request; zero values are omitted from the
// query string.
type ListParams struct {
	Category string
	Page     int
	Limit    int
}

// Service reads the product catalog. All endpoints are public; no
// credential is needed to browse.
type Service struct {
	client *api.Client
}

func NewService(client *api.Client) (*Service, error) {
	if client == nil {
		return nil, fmt.Errorf("api client required")
	}
	return &Service{client: client}, nil
}

func (s *Service) List(ctx context.Context, params ListParams) (*Page, error) {
	query := url.Values{}
	if params.Category != "" {
		query.Set("category", params.Category)
	}
	if params.Page > 0 {
		query.Set("page", strconv.Itoa(params.Page))
	}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}

	path := "/api/products"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var page Page
	if err := s.client.Get(ctx, path, &page); err != nil {
		return nil, err
	}
	if page.Products == nil {
		page.Products = []Product{}
	}
	return &page, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Product, error) {
	var product Product
	if err := s.client.Get(ctx, "/api/products/"+url.PathEscape(id), &product); err != nil {
		return nil, err
	}
	return &product, nil
}
