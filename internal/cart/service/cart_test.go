package service

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/cart/repo"
	"github.com/Skotchmaster/storefront/internal/db/dbtest"
	"github.com/Skotchmaster/storefront/internal/models"
)

func seed(t *testing.T, db *gorm.DB) (userID uint, productID uint) {
	t.Helper()
	user := models.User{Username: "alice", PasswordHash: "x", Role: models.RoleUser}
	require.NoError(t, db.Create(&user).Error)

	cat := models.Category{Name: "Electronics", Slug: "electronics"}
	require.NoError(t, db.Create(&cat).Error)
	sub := models.Subcategory{CategoryID: cat.ID, Name: "Phones", Slug: "electronics-phones"}
	require.NoError(t, db.Create(&sub).Error)
	prod := models.Product{
		SubcategoryID: sub.ID,
		Name:          "X",
		Slug:          "electronics-phones-x",
		Price:         decimal.RequireFromString("10.00"),
	}
	require.NoError(t, db.Create(&prod).Error)
	return user.ID, prod.ID
}

func newService(t *testing.T) (*CartService, uint, uint) {
	t.Helper()
	db := dbtest.New(t)
	userID, productID := seed(t, db)
	return &CartService{Repo: &repo.GormRepo{DB: db}}, userID, productID
}

func TestGetCart_CreatesEmptyCartOnce(t *testing.T) {
	svc, userID, _ := newService(t)
	ctx := context.Background()

	first, err := svc.GetCart(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, first.Items)
	assert.Zero(t, first.TotalItems())
	assert.True(t, first.TotalSum().IsZero())

	second, err := svc.GetCart(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestAddItem_SumsQuantities(t *testing.T) {
	svc, userID, productID := newService(t)
	ctx := context.Background()

	item, err := svc.AddItem(ctx, userID, productID, 2)
	require.NoError(t, err)
	assert.Equal(t, uint(2), item.Quantity)
	require.NotNil(t, item.Product)
	assert.Equal(t, "X", item.Product.Name)

	item, err = svc.AddItem(ctx, userID, productID, 3)
	require.NoError(t, err)
	assert.Equal(t, uint(5), item.Quantity)

	cart, err := svc.GetCart(ctx, userID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, uint(5), cart.TotalItems())
	assert.Equal(t, "50.00", cart.TotalSum().StringFixed(2))
}

func TestAddItem_Errors(t *testing.T) {
	svc, userID, productID := newService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, userID, productID, 0)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.AddItem(ctx, userID, 0, 1)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.AddItem(ctx, userID, 999, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddItem_ConcurrentAddsAreNotLost(t *testing.T) {
	svc, userID, productID := newService(t)
	ctx := context.Background()

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.AddItem(ctx, userID, productID, 1)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	cart, err := svc.GetCart(ctx, userID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, uint(workers), cart.Items[0].Quantity)
}

func TestUpdateItem(t *testing.T) {
	svc, userID, productID := newService(t)
	ctx := context.Background()

	_, err := svc.UpdateItem(ctx, userID, productID, 4)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.AddItem(ctx, userID, productID, 1)
	require.NoError(t, err)

	item, err := svc.UpdateItem(ctx, userID, productID, 4)
	require.NoError(t, err)
	assert.Equal(t, uint(4), item.Quantity)

	_, err = svc.UpdateItem(ctx, userID, productID, 0)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRemoveItem(t *testing.T) {
	svc, userID, productID := newService(t)
	ctx := context.Background()

	assert.ErrorIs(t, svc.RemoveItem(ctx, userID, 0), ErrValidation)
	assert.ErrorIs(t, svc.RemoveItem(ctx, userID, productID), ErrNotFound)

	_, err := svc.AddItem(ctx, userID, productID, 2)
	require.NoError(t, err)
	require.NoError(t, svc.RemoveItem(ctx, userID, productID))

	cart, err := svc.GetCart(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestClear(t *testing.T) {
	svc, userID, productID := newService(t)
	ctx := context.Background()

	removed, err := svc.Clear(ctx, userID)
	require.NoError(t, err)
	assert.Zero(t, removed)

	_, err = svc.AddItem(ctx, userID, productID, 2)
	require.NoError(t, err)

	before, err := svc.GetCart(ctx, userID)
	require.NoError(t, err)

	removed, err = svc.Clear(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	after, err := svc.GetCart(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, after.Items)
	assert.False(t, after.UpdatedAt.Before(before.UpdatedAt))
}

func TestTotalSum_UsesLivePrice(t *testing.T) {
	svc, userID, productID := newService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, userID, productID, 3)
	require.NoError(t, err)

	require.NoError(t, svc.Repo.DB.Model(&models.Product{}).
		Where("id = ?", productID).
		Update("price", decimal.RequireFromString("2.50")).Error)

	cart, err := svc.GetCart(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "7.50", cart.TotalSum().StringFixed(2))
}

func TestAddItem_QuantityLimit(t *testing.T) {
	svc, userID, productID := newService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, userID, productID, models.MaxQuantity+1)
	assert.ErrorIs(t, err, ErrValidation)

	item, err := svc.AddItem(ctx, userID, productID, models.MaxQuantity)
	require.NoError(t, err)
	assert.Equal(t, uint(models.MaxQuantity), item.Quantity)

	_, err = svc.AddItem(ctx, userID, productID, 1)
	assert.ErrorIs(t, err, ErrValidation)

	cart, err := svc.GetCart(ctx, userID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, uint(models.MaxQuantity), cart.Items[0].Quantity)
	assert.Equal(t, uint(models.MaxQuantity), cart.TotalItems())

	_, err = svc.UpdateItem(ctx, userID, productID, models.MaxQuantity+1)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUnknownUser(t *testing.T) {
	svc, _, productID := newService(t)
	ctx := context.Background()

	_, err := svc.GetCart(ctx, 999)
	assert.ErrorIs(t, err, ErrUnknownUser)

	_, err = svc.AddItem(ctx, 999, productID, 1)
	assert.ErrorIs(t, err, ErrUnknownUser)

	_, err = svc.Clear(ctx, 999)
	assert.ErrorIs(t, err, ErrUnknownUser)
}
