package db_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/db"
	"github.com/Skotchmaster/storefront/internal/db/dbtest"
	"github.com/Skotchmaster/storefront/internal/models"
)

func TestOpen_Validation(t *testing.T) {
	_, err := db.Open(context.Background(), "sqlite", "")
	require.Error(t, err)

	_, err = db.Open(context.Background(), "mysql", "whatever")
	require.Error(t, err)
}

func TestMigrate_CreatesTables(t *testing.T) {
	gdb := dbtest.New(t)

	for _, m := range models.All() {
		assert.True(t, gdb.Migrator().HasTable(m), "%T", m)
	}
	assert.True(t, gdb.Migrator().HasIndex(&models.CartItem{}, "idx_cart_item_cart_product"))
	assert.True(t, gdb.Migrator().HasIndex(&models.Subcategory{}, "idx_subcategory_category_slug"))

	require.NoError(t, db.Ping(context.Background(), gdb))
}
