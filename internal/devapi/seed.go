package devapi

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/wichananm65/online-shop-web/internal/category"
	"github.com/wichananm65/online-shop-web/internal/product"
	"github.com/wichananm65/online-shop-web/internal/user"
)

// Demo accounts created by Seed. Both use DemoPassword.
const (
	DemoSeller   = "seller"
	DemoShopper  = "shopper"
	DemoPassword = "password"
)

var demoProducts = []product.Request{
	{Name: "Desk lamp", Price: decimal.RequireFromString("24.90"), Description: "Warm light with an adjustable arm.", Categories: []category.Category{{ID: 1}, {ID: 2}}},
	{Name: "Garden shovel", Price: decimal.RequireFromString("15.00"), Description: "Steel blade and an ash handle.", Categories: []category.Category{{ID: 3}}},
	{Name: "Linen shirt", Price: decimal.RequireFromString("39.50"), Description: "Loose fit, washed linen.", Categories: []category.Category{{ID: 4}}},
	{Name: "Field guide to birds", Price: decimal.RequireFromString("12.75"), Description: "Pocket sized with colour plates.", Categories: []category.Category{{ID: 5}}},
	{Name: "Wooden train set", Price: decimal.RequireFromString("29.99"), Description: "Twenty pieces of beech track.", Categories: []category.Category{{ID: 6}}},
	{Name: "Bluetooth speaker", Price: decimal.RequireFromString("49.00"), Description: "Twelve hours of play on one charge.", Categories: []category.Category{{ID: 1}}},
}

// Seed registers the demo accounts and, when the seller has none yet,
// the demo products. Running it twice is harmless.
func (s *Server) Seed() error {
	accounts := []user.RegisterRequest{
		{Role: user.RoleSeller.Name, Email: "seller@example.com", Username: DemoSeller, Password: DemoPassword},
		{Role: user.RoleUser.Name, Email: "shopper@example.com", Username: DemoShopper, Password: DemoPassword},
	}
	for _, acc := range accounts {
		if _, err := s.Users.Register(acc); err != nil && !errors.Is(err, user.ErrUsernameExists) {
			return fmt.Errorf("seed user %s: %w", acc.Username, err)
		}
	}

	existing, err := s.Products.ListBySeller(DemoSeller)
	if err != nil {
		return fmt.Errorf("seed products: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}
	for _, req := range demoProducts {
		if _, err := s.Products.Create(DemoSeller, req); err != nil {
			return fmt.Errorf("seed product %q: %w", req.Name, err)
		}
	}
	return nil
}
