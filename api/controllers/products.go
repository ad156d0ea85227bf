package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/luxemart/storefront/api/responses"
	"github.com/luxemart/storefront/api/validators"
	"github.com/luxemart/storefront/internal/repo"
	"github.com/luxemart/storefront/pkg/db/models"
	pkgerrors "github.com/luxemart/storefront/pkg/errors"
	"github.com/luxemart/storefront/pkg/logger"
	"github.com/luxemart/storefront/pkg/types"
)

const (
	defaultPageSize = 12
	maxPageSize     = 100
)

type productListResponse struct {
	Products []productResponse `json:"products"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	Pages    int               `json:"pages"`
}

type productInput struct {
	Name        string      `json:"name" validate:"required"`
	Price       types.Money `json:"price"`
	Category    string      `json:"category" validate:"required"`
	Description string      `json:"description,omitempty"`
	Images      []string    `json:"images,omitempty"`
}

// ListProducts serves the public paginated catalog.
func ListProducts(store repo.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := validators.ParseQueryInt(r, "page", 1, 1, 1<<30)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", defaultPageSize, 1, maxPageSize)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		category := strings.TrimSpace(r.URL.Query().Get("category"))

		products, total, err := store.ListProducts(r.Context(), category, (page-1)*limit, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products"))
			return
		}

		items := make([]productResponse, 0, len(products))
		for _, p := range products {
			items = append(items, toProductResponse(p))
		}

		pages := int(total) / limit
		if int(total)%limit != 0 {
			pages++
		}

		responses.WriteJSON(w, http.StatusOK, productListResponse{
			Products: items,
			Total:    int(total),
			Page:     page,
			Pages:    pages,
		})
	}
}

// GetProduct serves one catalog entry.
func GetProduct(store repo.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		product, err := findProduct(r, store)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, toProductResponse(*product))
	}
}

// CreateProduct adds a catalog entry. Admin only.
func CreateProduct(store repo.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload productInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product := &models.Product{
			Name:        strings.TrimSpace(payload.Name),
			Price:       payload.Price,
			Category:    strings.TrimSpace(payload.Category),
			Description: payload.Description,
			Images:      payload.Images,
		}
		if _, err := store.CreateProduct(r.Context(), product); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product"))
			return
		}

		responses.WriteJSON(w, http.StatusCreated, toProductResponse(*product))
	}
}

// UpdateProduct replaces the mutable fields of a catalog entry. Admin only.
func UpdateProduct(store repo.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		product, err := findProduct(r, store)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload productInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product.Name = strings.TrimSpace(payload.Name)
		product.Price = payload.Price
		product.Category = strings.TrimSpace(payload.Category)
		product.Description = payload.Description
		product.Images = payload.Images

		if err := store.UpdateProduct(r.Context(), product); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product"))
			return
		}

		responses.WriteJSON(w, http.StatusOK, toProductResponse(*product))
	}
}

// DeleteProduct removes a catalog entry. Admin only.
func DeleteProduct(store repo.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseProductID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := store.DeleteProduct(r.Context(), id); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "product not found"))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product"))
			return
		}
		responses.WriteMessage(w, http.StatusOK, "product removed")
	}
}

func parseProductID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return id, nil
}

func findProduct(r *http.Request, store repo.Repository) (*models.Product, error) {
	id, err := parseProductID(r)
	if err != nil {
		return nil, err
	}
	product, err := store.FindProductByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find product")
	}
	return product, nil
}
