// Package bootstrap seeds a fresh database with default accounts and menu.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/warp/pos-engine/auth"
	"github.com/warp/pos-engine/catalog"
	"github.com/warp/pos-engine/pos"
)

// DefaultAccount is a seeded login.
type DefaultAccount struct {
	Username string
	Password string
	Name     string
	Role     pos.Role
}

var DefaultAccounts = []DefaultAccount{
	{Username: "admin", Password: "admin123", Name: "Administrator", Role: pos.RoleAdmin},
	{Username: "kasir", Password: "kasir123", Name: "Kasir Utama", Role: pos.RoleCashier},
}

var DefaultMenu = []catalog.NewItem{
	{Name: "Nasi Goreng Seafood", Description: "Nasi goreng dengan seafood segar, udang, cumi dan telur", Price: pos.NewMoney(25000), Category: "Nasi Goreng", ImageURL: "https://images.unsplash.com/photo-1680674774705-90b4904b3a7f", Available: true},
	{Name: "Nasi Goreng Kambing", Description: "Nasi goreng dengan daging kambing empuk dan bumbu rempah", Price: pos.NewMoney(28000), Category: "Nasi Goreng", ImageURL: "https://images.unsplash.com/photo-1680674814945-7945d913319c", Available: true},
	{Name: "Nasi Goreng Sayuran", Description: "Nasi goreng dengan berbagai macam sayuran segar", Price: pos.NewMoney(18000), Category: "Nasi Goreng", ImageURL: "https://images.unsplash.com/photo-1647093953000-9065ed6f85ef", Available: true},
	{Name: "Nasi Goreng Spesial", Description: "Nasi goreng dengan telur, ayam, dan kerupuk", Price: pos.NewMoney(22000), Category: "Nasi Goreng", ImageURL: "https://images.unsplash.com/photo-1581184953963-d15972933db1", Available: true},
	{Name: "Soto Ayam", Description: "Soto ayam kuning dengan daging ayam, telur dan sayuran", Price: pos.NewMoney(20000), Category: "Soto", ImageURL: "https://images.unsplash.com/photo-1681378128359-a5c2492a3535", Available: true},
	{Name: "Tahu Gejrot", Description: "Tahu goreng dengan kuah asam pedas khas Cirebon", Price: pos.NewMoney(12000), Category: "Snack", ImageURL: "https://images.unsplash.com/photo-1680169590313-9a14f3cd8148", Available: true},
	{Name: "Gado-Gado", Description: "Sayuran rebus dengan bumbu kacang dan kerupuk", Price: pos.NewMoney(15000), Category: "Sayuran", ImageURL: "https://images.unsplash.com/photo-1562607635-4608ff48a859", Available: true},
	{Name: "Ayam Goreng", Description: "Ayam goreng kremes dengan nasi dan lalapan", Price: pos.NewMoney(24000), Category: "Ayam", ImageURL: "https://images.unsplash.com/photo-1539755530862-00f623c00f52", Available: true},
	{Name: "Es Teh Manis", Description: "Es teh manis segar untuk menemani makan", Price: pos.NewMoney(5000), Category: "Minuman", ImageURL: "https://images.pexels.com/photos/29426395/pexels-photo-29426395.jpeg", Available: true},
	{Name: "Es Cendol", Description: "Minuman tradisional dengan cendol dan santan", Price: pos.NewMoney(8000), Category: "Minuman", ImageURL: "https://images.unsplash.com/photo-1603955813288-c89f4ad8b1e1", Available: true},
	{Name: "Jus Alpukat", Description: "Jus alpukat segar dengan susu kental manis", Price: pos.NewMoney(12000), Category: "Minuman", ImageURL: "https://images.unsplash.com/photo-1758250967379-e041e6207190", Available: true},
	{Name: "Kopi Hitam", Description: "Kopi hitam tradisional Indonesia", Price: pos.NewMoney(7000), Category: "Minuman", ImageURL: "https://images.pexels.com/photos/3008740/pexels-photo-3008740.jpeg", Available: true},
}

// Seed creates each default account whose username is free and, when the
// menu is empty, inserts DefaultMenu. Running it again changes nothing.
func Seed(ctx context.Context, users auth.UserStore, menu catalog.Store, log logrus.FieldLogger) error {
	now := time.Now().UTC()

	for _, acct := range DefaultAccounts {
		_, err := users.UserByUsername(ctx, acct.Username)
		if err == nil {
			continue
		}
		if !pos.IsNotFound(err) {
			return fmt.Errorf("seed: look up %s: %w", acct.Username, err)
		}

		hash, err := auth.HashPassword(acct.Password)
		if err != nil {
			return fmt.Errorf("seed: hash password: %w", err)
		}
		err = users.CreateUser(ctx, auth.User{
			ID:           uuid.NewString(),
			Username:     acct.Username,
			Name:         acct.Name,
			Role:         acct.Role,
			PasswordHash: hash,
			CreatedAt:    now,
		})
		if err != nil && !errors.Is(err, pos.ErrDuplicate) {
			return fmt.Errorf("seed: create %s: %w", acct.Username, err)
		}
		log.WithFields(logrus.Fields{"username": acct.Username, "role": acct.Role}).Info("default user created")
	}

	n, err := menu.CountItems(ctx)
	if err != nil {
		return fmt.Errorf("seed: count menu: %w", err)
	}
	if n > 0 {
		return nil
	}
	for _, ni := range DefaultMenu {
		item := catalog.Item{
			ID:          uuid.NewString(),
			Name:        ni.Name,
			Description: ni.Description,
			Price:       ni.Price,
			Category:    ni.Category,
			ImageURL:    ni.ImageURL,
			Available:   ni.Available,
			CreatedAt:   now,
		}
		if err := menu.CreateItem(ctx, item); err != nil {
			return fmt.Errorf("seed: menu item %q: %w", ni.Name, err)
		}
	}
	log.WithField("count", len(DefaultMenu)).Info("default menu inserted")
	return nil
}
