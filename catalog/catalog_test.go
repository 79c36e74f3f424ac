package catalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/pos-engine/catalog"
	"github.com/warp/pos-engine/pos"
)

var (
	admin  = pos.Identity{ID: "u1", Username: "admin", Role: pos.RoleAdmin}
	cashir = pos.Identity{ID: "u2", Username: "kasir", Role: pos.RoleCashier}
)

func newItem(name, category string, price int64, available bool) catalog.NewItem {
	return catalog.NewItem{Name: name, Category: category, Price: pos.NewMoney(price), Available: available}
}

func TestCreate_AdminOnly(t *testing.T) {
	svc := catalog.NewService(catalog.NewMemory())
	ctx := context.Background()

	_, err := svc.Create(ctx, cashir, newItem("Soto Ayam", "Soto", 20000, true))
	assert.ErrorIs(t, err, pos.ErrUnauthorized)

	item, err := svc.Create(ctx, admin, newItem("Soto Ayam", "Soto", 20000, true))
	require.NoError(t, err)
	assert.NotEmpty(t, item.ID)
	assert.True(t, item.Price.Equal(pos.NewMoney(20000)))
}

func TestCreate_Validation(t *testing.T) {
	svc := catalog.NewService(catalog.NewMemory())
	tests := []struct {
		in    catalog.NewItem
		field string
	}{
		{newItem("  ", "Soto", 1000, true), "name"},
		{newItem("Soto", "", 1000, true), "category"},
		{newItem("Soto", "Soto", -1, true), "price"},
	}
	for _, tt := range tests {
		_, err := svc.Create(context.Background(), admin, tt.in)
		var vErr *pos.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, tt.field, vErr.Field)
	}
}

func TestMenuAndCategories_OnlyAvailable(t *testing.T) {
	// GIVEN: four items, one of them off the menu
	svc := catalog.NewService(catalog.NewMemory())
	ctx := context.Background()
	for _, ni := range []catalog.NewItem{
		newItem("Es Teh Manis", "Minuman", 5000, true),
		newItem("Nasi Goreng Spesial", "Nasi Goreng", 22000, true),
		newItem("Kopi Hitam", "Minuman", 7000, true),
		newItem("Es Cendol", "Minuman", 8000, false),
	} {
		_, err := svc.Create(ctx, admin, ni)
		require.NoError(t, err)
	}

	// WHEN / THEN
	menu, err := svc.Menu(ctx)
	require.NoError(t, err)
	assert.Len(t, menu, 3)
	assert.Equal(t, "Es Teh Manis", menu[0].Name)

	cats, err := svc.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []catalog.CategoryCount{
		{Category: "Minuman", Count: 2},
		{Category: "Nasi Goreng", Count: 1},
	}, cats)

	n, err := svc.CountAvailable(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestMenu_EmptyIsNotNil(t *testing.T) {
	svc := catalog.NewService(catalog.NewMemory())

	menu, err := svc.Menu(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, menu)
	assert.Empty(t, menu)
}
