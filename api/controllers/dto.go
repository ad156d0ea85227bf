package controllers

import (
	"time"

	"github.com/luxemart/storefront/pkg/db/models"
	"github.com/luxemart/storefront/pkg/types"
)

// productResponse is the catalog shape the storefront decodes. Image mirrors
// images[0] for older clients that only read the singular field.
type productResponse struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Price       types.Money `json:"price"`
	Category    string      `json:"category"`
	Description string      `json:"description,omitempty"`
	Image       string      `json:"image,omitempty"`
	Images      []string    `json:"images,omitempty"`
}

func toProductResponse(p models.Product) productResponse {
	resp := productResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Price:       p.Price,
		Category:    p.Category,
		Description: p.Description,
		Images:      p.Images,
	}
	if len(p.Images) > 0 {
		resp.Image = p.Images[0]
	}
	return resp
}

type orderItemResponse struct {
	ProductID       string      `json:"productId"`
	Name            string      `json:"name"`
	Quantity        int         `json:"quantity"`
	PriceAtPurchase types.Money `json:"priceAtPurchase"`
}

type orderResponse struct {
	ID        string              `json:"id"`
	Total     types.Money         `json:"total"`
	Status    string              `json:"status"`
	CreatedAt time.Time           `json:"createdAt"`
	UserEmail string              `json:"userEmail,omitempty"`
	Items     []orderItemResponse `json:"items"`
}

func toOrderResponse(o models.Order, includeUser bool) orderResponse {
	items := make([]orderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, orderItemResponse{
			ProductID:       item.ProductID,
			Name:            item.Name,
			Quantity:        item.Quantity,
			PriceAtPurchase: item.PriceAtPurchase,
		})
	}
	resp := orderResponse{
		ID:        o.ID.String(),
		Total:     o.Total,
		Status:    o.Status,
		CreatedAt: o.CreatedAt,
		Items:     items,
	}
	if includeUser {
		resp.UserEmail = o.User.Email
	}
	return resp
}

type userResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

func toUserResponse(u models.User) userResponse {
	return userResponse{
		ID:      u.ID.String(),
		Name:    u.Name,
		Email:   u.Email,
		IsAdmin: u.IsAdmin,
	}
}
