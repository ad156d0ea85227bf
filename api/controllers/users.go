package controllers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/luxemart/storefront/api/middleware"
	"github.com/luxemart/storefront/api/responses"
	"github.com/luxemart/storefront/api/validators"
	"github.com/luxemart/storefront/internal/repo"
	pkgerrors "github.com/luxemart/storefront/pkg/errors"
	"github.com/luxemart/storefront/pkg/logger"
)

// ListUsers returns every account. Admin only.
func ListUsers(store repo.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := store.ListUsers(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users"))
			return
		}
		out := make([]userResponse, 0, len(users))
		for _, user := range users {
			out = append(out, toUserResponse(user))
		}
		responses.WriteJSON(w, http.StatusOK, out)
	}
}

type updateUserRequest struct {
	IsAdmin *bool `json:"isAdmin" validate:"required"`
}

// UpdateUser toggles the admin flag on an account. Admin only; an admin
// cannot demote their own account.
func UpdateUser(store repo.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "user not found"))
			return
		}

		var payload updateUserRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if id.String() == middleware.UserIDFromContext(r.Context()) && !*payload.IsAdmin {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeConflict, "cannot remove your own admin access"))
			return
		}

		user, err := store.FindUserByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "user not found"))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find user"))
			return
		}

		user.IsAdmin = *payload.IsAdmin
		if err := store.UpdateUser(r.Context(), user); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update user"))
			return
		}

		responses.WriteJSON(w, http.StatusOK, toUserResponse(*user))
	}
}

// DeleteUser removes an account. Admin only; self-deletion is rejected.
func DeleteUser(store repo.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "user not found"))
			return
		}

		if id.String() == middleware.UserIDFromContext(r.Context()) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeConflict, "cannot delete your own account"))
			return
		}

		if err := store.DeleteUser(r.Context(), id); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "user not found"))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete user"))
			return
		}
		responses.WriteMessage(w, http.StatusOK, "user removed")
	}
}
