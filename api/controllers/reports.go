package controllers

import (
	"net/http"

	"github.com/luxemart/storefront/api/responses"
	"github.com/luxemart/storefront/internal/repo"
	pkgerrors "github.com/luxemart/storefront/pkg/errors"
	"github.com/luxemart/storefront/pkg/logger"
)

const topCustomerLimit = 5

type reportResponse struct {
	DailyRevenue  []repo.DailyRevenueRow `json:"dailyRevenue"`
	TopCustomers  []repo.TopCustomerRow  `json:"topCustomers"`
	CategorySales []repo.CategorySaleRow `json:"categorySales"`
}

// Reports computes the three admin dashboards in one call. Cancelled orders
// are excluded from every aggregate.
func Reports(store repo.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		daily, err := store.DailyRevenue(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "daily revenue"))
			return
		}
		top, err := store.TopCustomers(r.Context(), topCustomerLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "top customers"))
			return
		}
		categories, err := store.CategorySales(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "category sales"))
			return
		}

		if daily == nil {
			daily = []repo.DailyRevenueRow{}
		}
		if top == nil {
			top = []repo.TopCustomerRow{}
		}
		if categories == nil {
			categories = []repo.CategorySaleRow{}
		}

		responses.WriteJSON(w, http.StatusOK, reportResponse{
			DailyRevenue:  daily,
			TopCustomers:  top,
			CategorySales: categories,
		})
	}
}
