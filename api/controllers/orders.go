package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/luxemart/storefront/api/middleware"
	"github.com/luxemart/storefront/api/responses"
	"github.com/luxemart/storefront/api/validators"
	"github.com/luxemart/storefront/internal/repo"
	"github.com/luxemart/storefront/pkg/db/models"
	pkgerrors "github.com/luxemart/storefront/pkg/errors"
	"github.com/luxemart/storefront/pkg/logger"
	"github.com/luxemart/storefront/pkg/types"
)

type orderItemInput struct {
	ProductID string      `json:"productId" validate:"required"`
	Name      string      `json:"name" validate:"required"`
	Price     types.Money `json:"price"`
	Quantity  int         `json:"quantity" validate:"required,min=1"`
}

type createOrderRequest struct {
	Items []orderItemInput `json:"items" validate:"required,min=1,dive"`
}

type placedOrderResponse struct {
	ID     string      `json:"id"`
	Total  types.Money `json:"total"`
	Status string      `json:"status"`
}

// CreateOrder records a submission from the storefront. Prices and names are
// re-read from the catalog when the product still exists; the submitted
// snapshot is the fallback for entries that were removed since the cart was
// built. The total is always computed server-side.
func CreateOrder(store repo.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]models.OrderItem, 0, len(payload.Items))
		total := types.MoneyFromInt(0)
		for _, line := range payload.Items {
			item := models.OrderItem{
				ProductID:       line.ProductID,
				Name:            line.Name,
				PriceAtPurchase: line.Price,
				Quantity:        line.Quantity,
			}
			if pid, parseErr := uuid.Parse(line.ProductID); parseErr == nil {
				if product, findErr := store.FindProductByID(r.Context(), pid); findErr == nil {
					item.Name = product.Name
					item.Category = product.Category
					item.PriceAtPurchase = product.Price
				}
			}
			total = total.Add(item.PriceAtPurchase.Times(item.Quantity))
			items = append(items, item)
		}

		order := &models.Order{
			UserID: userID,
			Total:  total,
			Status: "pending",
			Items:  items,
		}
		if _, err := store.CreateOrder(r.Context(), order); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order"))
			return
		}

		if logg != nil {
			ctx := logg.WithFields(r.Context(), map[string]any{
				"order_id": order.ID.String(),
				"total":    order.Total.Display(),
			})
			logg.Info(ctx, "order.placed")
		}

		responses.WriteJSON(w, http.StatusCreated, placedOrderResponse{
			ID:     order.ID.String(),
			Total:  order.Total,
			Status: order.Status,
		})
	}
}

// ListOrders returns the caller's order history, newest first. Admin tokens
// see every order with the buyer's email attached.
func ListOrders(store repo.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		isAdmin := middleware.IsAdminFromContext(r.Context())

		var orders []models.Order
		if isAdmin {
			orders, err = store.ListAllOrders(r.Context())
		} else {
			orders, err = store.ListOrdersByUser(r.Context(), userID)
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders"))
			return
		}

		out := make([]orderResponse, 0, len(orders))
		for _, order := range orders {
			out = append(out, toOrderResponse(order, isAdmin))
		}
		responses.WriteJSON(w, http.StatusOK, out)
	}
}

type orderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending processing shipped delivered cancelled"`
}

// UpdateOrderStatus moves an order through fulfilment. Admin only.
func UpdateOrderStatus(store repo.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "order not found"))
			return
		}

		var payload orderStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status := strings.ToLower(strings.TrimSpace(payload.Status))
		if err := store.UpdateOrderStatus(r.Context(), id, status); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "order not found"))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update order status"))
			return
		}
		responses.WriteMessage(w, http.StatusOK, "order status updated")
	}
}

func requireUserID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthenticated, "user context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthenticated, err, "invalid user id")
	}
	return id, nil
}
