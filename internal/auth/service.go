package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/luxemart/storefront/internal/api"
	pkgerrors "github.com/luxemart/storefront/pkg/errors"
)

// Service drives the login, registration, and logout flows against the
// backend and keeps the credential slot in sync. The token itself is
// opaque to this client; only the backend interprets it.
type Service struct {
	client   *api.Client
	creds    *Credentials
	validate *validator.Validate
}

func NewService(client *api.Client, creds *Credentials) (*Service, error) {
	if client == nil {
		return nil, fmt.Errorf("api client required")
	}
	if creds == nil {
		return nil, fmt.Errorf("credentials required")
	}
	return &Service{client: client, creds: creds, validate: validator.New()}, nil
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Login exchanges credentials for a token and stores it in the token slot.
func (s *Service) Login(ctx context.Context, email, password string) error {
	return s.login(ctx, "/api/auth/login", email, password)
}

// AdminLogin uses the dedicated admin endpoint; the resulting token carries
// the admin claim the reports and admin pages check.
func (s *Service) AdminLogin(ctx context.Context, email, password string) error {
	return s.login(ctx, "/api/auth/admin-login", email, password)
}

func (s *Service) login(ctx context.Context, path, email, password string) error {
	req := loginRequest{Email: strings.TrimSpace(email), Password: password}
	if err := s.validate.Struct(req); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "email and password are required")
	}

	var resp tokenResponse
	if err := s.client.Post(ctx, path, req, &resp); err != nil {
		return err
	}
	if resp.Token == "" {
		return pkgerrors.New(pkgerrors.CodeDependency, "login response carried no token")
	}
	return s.creds.set(resp.Token)
}

// Register creates an account. The backend does not log the user in; the
// caller follows up with Login, matching the original flow.
func (s *Service) Register(ctx context.Context, name, email, password string) error {
	req := registerRequest{Name: strings.TrimSpace(name), Email: strings.TrimSpace(email), Password: password}
	if err := s.validate.Struct(req); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "name, email and a password of 6+ characters are required")
	}
	return s.client.Post(ctx, "/api/auth/register", req, nil)
}

// Logout clears the credential slot. Purely local; there is no server-side
// session to revoke.
func (s *Service) Logout() error {
	return s.creds.clear()
}
