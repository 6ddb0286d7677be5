package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/cart/repo"
	"github.com/Skotchmaster/storefront/internal/metrics"
	"github.com/Skotchmaster/storefront/internal/models"
)

var (
	ErrValidation = errors.New("validation")
	ErrNotFound   = errors.New("not found")
	// ErrUnknownUser means the token subject has no user row.
	ErrUnknownUser = errors.New("unknown user")
)

type CartService struct {
	Repo *repo.GormRepo
}

func (s *CartService) GetCart(ctx context.Context, userID uint) (*models.Cart, error) {
	cart, err := cartOf(ctx, s.Repo, userID)
	if err != nil {
		return nil, err
	}
	return s.Repo.LoadCart(ctx, cart.ID)
}

func (s *CartService) AddItem(ctx context.Context, userID, productID, quantity uint) (item *models.CartItem, err error) {
	defer func() { metrics.RecordCartOperation("add", err) }()

	if err := validateItem(productID, quantity); err != nil {
		return nil, err
	}

	err = s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		ok, err := tx.ProductExists(ctx, productID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("product %d: %w", productID, ErrNotFound)
		}

		cart, err := cartOf(ctx, tx, userID)
		if err != nil {
			return err
		}
		if item, err = tx.AddItem(ctx, cart.ID, productID, quantity); err != nil {
			if errors.Is(err, repo.ErrQuantityLimit) {
				return fmt.Errorf("quantity of product %d would exceed %d: %w", productID, models.MaxQuantity, ErrValidation)
			}
			return err
		}
		return tx.Touch(ctx, cart.ID)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *CartService) UpdateItem(ctx context.Context, userID, productID, quantity uint) (item *models.CartItem, err error) {
	defer func() { metrics.RecordCartOperation("update", err) }()

	if err := validateItem(productID, quantity); err != nil {
		return nil, err
	}

	err = s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		cart, err := cartOf(ctx, tx, userID)
		if err != nil {
			return err
		}
		if item, err = tx.UpdateItem(ctx, cart.ID, productID, quantity); err != nil {
			return mapErr(err, productID)
		}
		return tx.Touch(ctx, cart.ID)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, productID uint) (err error) {
	defer func() { metrics.RecordCartOperation("remove", err) }()

	if productID == 0 {
		return fmt.Errorf("product_id is required: %w", ErrValidation)
	}

	return s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		cart, err := cartOf(ctx, tx, userID)
		if err != nil {
			return err
		}
		if err := tx.RemoveItem(ctx, cart.ID, productID); err != nil {
			return mapErr(err, productID)
		}
		return tx.Touch(ctx, cart.ID)
	})
}

// Clear empties the cart and reports how many line items were dropped.
func (s *CartService) Clear(ctx context.Context, userID uint) (removed int64, err error) {
	defer func() { metrics.RecordCartOperation("clear", err) }()

	err = s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		cart, err := cartOf(ctx, tx, userID)
		if err != nil {
			return err
		}
		if removed, err = tx.ClearItems(ctx, cart.ID); err != nil {
			return err
		}
		return tx.Touch(ctx, cart.ID)
	})
	return removed, err
}

func validateItem(productID, quantity uint) error {
	if productID == 0 {
		return fmt.Errorf("product_id is required: %w", ErrValidation)
	}
	if quantity < 1 {
		return fmt.Errorf("quantity must be at least 1: %w", ErrValidation)
	}
	if quantity > models.MaxQuantity {
		return fmt.Errorf("quantity must be at most %d: %w", models.MaxQuantity, ErrValidation)
	}
	return nil
}

// cartOf resolves the user's cart. A missing user surfaces as a foreign key
// violation when the cart row is first inserted.
func cartOf(ctx context.Context, r *repo.GormRepo, userID uint) (*models.Cart, error) {
	cart, err := r.GetOrCreateCart(ctx, userID)
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return nil, fmt.Errorf("user %d: %w", userID, ErrUnknownUser)
	}
	return cart, err
}

func mapErr(err error, productID uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("product %d not in cart: %w", productID, ErrNotFound)
	}
	return err
}
