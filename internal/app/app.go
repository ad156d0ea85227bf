// Package app assembles the storefront client: one slot store, one change
// bus, and the services every surface shares.
package app

import (
	"fmt"

	"github.com/luxemart/storefront/internal/admin"
	"github.com/luxemart/storefront/internal/api"
	"github.com/luxemart/storefront/internal/auth"
	"github.com/luxemart/storefront/internal/cart"
	"github.com/luxemart/storefront/internal/catalog"
	"github.com/luxemart/storefront/internal/checkout"
	"github.com/luxemart/storefront/internal/orders"
	"github.com/luxemart/storefront/pkg/bus"
	"github.com/luxemart/storefront/pkg/config"
	"github.com/luxemart/storefront/pkg/localstore"
	"github.com/luxemart/storefront/pkg/logger"
)

type App struct {
	Config *config.Config
	Logger *logger.Logger

	Store       *localstore.Store
	Bus         *bus.Bus
	Credentials *auth.Credentials
	Client      *api.Client

	Cart     *cart.Service
	Auth     *auth.Service
	Catalog  *catalog.Service
	Orders   *orders.Service
	Admin    *admin.Service
	Checkout *checkout.Flow
}

// New wires every service against the shared store and bus. The same
// assembly backs the one-shot CLI commands and the interactive browser.
func New(cfg *config.Config, logg *logger.Logger) (*App, error) {
	store, err := localstore.New(cfg.State.Dir, logg)
	if err != nil {
		return nil, fmt.Errorf("opening state store: %w", err)
	}

	changeBus := bus.New()
	creds := auth.NewCredentials(store)
	client := api.NewClient(cfg.API, creds, logg)

	cartSvc, err := cart.NewService(store, changeBus, logg)
	if err != nil {
		return nil, err
	}
	authSvc, err := auth.NewService(client, creds)
	if err != nil {
		return nil, err
	}
	catalogSvc, err := catalog.NewService(client)
	if err != nil {
		return nil, err
	}
	ordersSvc, err := orders.NewService(client)
	if err != nil {
		return nil, err
	}
	adminSvc, err := admin.NewService(client)
	if err != nil {
		return nil, err
	}
	flow, err := checkout.NewFlow(cartSvc, ordersSvc, creds, logg)
	if err != nil {
		return nil, err
	}

	return &App{
		Config:      cfg,
		Logger:      logg,
		Store:       store,
		Bus:         changeBus,
		Credentials: creds,
		Client:      client,
		Cart:        cartSvc,
		Auth:        authSvc,
		Catalog:     catalogSvc,
		Orders:      ordersSvc,
		Admin:       adminSvc,
		Checkout:    flow,
	}, nil
}
