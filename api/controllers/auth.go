package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/luxemart/storefront/api/responses"
	"github.com/luxemart/storefront/api/validators"
	"github.com/luxemart/storefront/internal/repo"
	pkgAuth "github.com/luxemart/storefront/pkg/auth"
	"github.com/luxemart/storefront/pkg/config"
	"github.com/luxemart/storefront/pkg/db/models"
	pkgerrors "github.com/luxemart/storefront/pkg/errors"
	"github.com/luxemart/storefront/pkg/logger"
	"github.com/luxemart/storefront/pkg/security"
)

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Register creates a shopper account. The client logs in separately
// afterwards; no token is issued here.
func Register(store repo.Repository, pwCfg config.PasswordConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload registerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		email := strings.ToLower(strings.TrimSpace(payload.Email))
		if _, err := store.FindUserByEmail(r.Context(), email); err == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeConflict, "user already exists"))
			return
		} else if !errors.Is(err, repo.ErrNotFound) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user"))
			return
		}

		hash, err := security.HashPassword(payload.Password, pwCfg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password"))
			return
		}

		user := &models.User{
			Name:         strings.TrimSpace(payload.Name),
			Email:        email,
			PasswordHash: hash,
		}
		if _, err := store.CreateUser(r.Context(), user); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user"))
			return
		}

		if logg != nil {
			logg.Info(logg.WithUserID(r.Context(), user.ID.String()), "user.registered")
		}
		responses.WriteMessage(w, http.StatusCreated, "registered successfully")
	}
}

// Login exchanges email and password for a bearer token.
func Login(store repo.Repository, jwtCfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return loginHandler(store, jwtCfg, logg, false)
}

// AdminLogin is the console entrance: identical to Login, but rejects
// accounts without the admin flag before minting anything.
func AdminLogin(store repo.Repository, jwtCfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return loginHandler(store, jwtCfg, logg, true)
}

func loginHandler(store repo.Repository, jwtCfg config.JWTConfig, logg *logger.Logger, adminOnly bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload loginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		email := strings.ToLower(strings.TrimSpace(payload.Email))
		user, err := store.FindUserByEmail(r.Context(), email)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthenticated, "invalid email or password"))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user"))
			return
		}

		ok, err := security.VerifyPassword(payload.Password, user.PasswordHash)
		if err != nil || !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthenticated, "invalid email or password"))
			return
		}

		if adminOnly && !user.IsAdmin {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "admin access required"))
			return
		}

		token, err := pkgAuth.MintAccessToken(jwtCfg, time.Now(), pkgAuth.AccessTokenPayload{
			UserID:  user.ID,
			Email:   user.Email,
			IsAdmin: user.IsAdmin,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint token"))
			return
		}

		if logg != nil {
			logg.Info(logg.WithUserID(r.Context(), user.ID.String()), "user.logged_in")
		}
		responses.WriteJSON(w, http.StatusOK, tokenResponse{Token: token})
	}
}
