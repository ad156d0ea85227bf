package repo

import (
	"context"
	"fmt"

	"github.com/luxemart/storefront/pkg/config"
	"github.com/luxemart/storefront/pkg/db/models"
	"github.com/luxemart/storefront/pkg/logger"
	"github.com/luxemart/storefront/pkg/security"
	"github.com/luxemart/storefront/pkg/types"
)

// SeedAdmin creates the bootstrap admin account when no user exists yet.
func SeedAdmin(ctx context.Context, store Repository, srvCfg config.ServerConfig, pwCfg config.PasswordConfig, logg *logger.Logger) error {
	count, err := store.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("counting users: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := security.HashPassword(srvCfg.AdminPass, pwCfg)
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}

	admin := &models.User{
		Name:         srvCfg.AdminName,
		Email:        srvCfg.AdminEmail,
		PasswordHash: hash,
		IsAdmin:      true,
	}
	if _, err := store.CreateUser(ctx, admin); err != nil {
		return fmt.Errorf("creating admin: %w", err)
	}
	if logg != nil {
		logg.Info(logg.WithField(ctx, "email", admin.Email), "seeded admin account")
	}
	return nil
}

// SeedDemoProducts loads a small catalog so a fresh database is browsable.
func SeedDemoProducts(ctx context.Context, store Repository, logg *logger.Logger) error {
	count, err := store.CountProducts(ctx)
	if err != nil {
		return fmt.Errorf("counting products: %w", err)
	}
	if count > 0 {
		return nil
	}

	demo := []models.Product{
		{Name: "Leather Tote", Price: types.MoneyFromFloat(249.00), Category: "bags", Description: "Full-grain leather tote with brass hardware."},
		{Name: "Silk Scarf", Price: types.MoneyFromFloat(89.50), Category: "accessories", Description: "Hand-rolled silk twill scarf."},
		{Name: "Cashmere Sweater", Price: types.MoneyFromFloat(320.00), Category: "knitwear", Description: "Two-ply Mongolian cashmere crewneck."},
		{Name: "Suede Loafers", Price: types.MoneyFromFloat(410.00), Category: "shoes", Description: "Italian suede with leather soles."},
		{Name: "Wool Overcoat", Price: types.MoneyFromFloat(780.00), Category: "outerwear", Description: "Double-breasted virgin wool overcoat."},
		{Name: "Chronograph Watch", Price: types.MoneyFromFloat(1250.00), Category: "accessories", Description: "Automatic chronograph, sapphire crystal."},
	}
	for i := range demo {
		if _, err := store.CreateProduct(ctx, &demo[i]); err != nil {
			return fmt.Errorf("seeding product %q: %w", demo[i].Name, err)
		}
	}
	if logg != nil {
		logg.Info(logg.WithField(ctx, "count", len(demo)), "seeded demo catalog")
	}
	return nil
}
