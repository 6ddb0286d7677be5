package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/catalog/repo"
	"github.com/Skotchmaster/storefront/internal/media"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/slug"
)

var (
	ErrValidation = errors.New("validation")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)

var (
	minPrice = decimal.RequireFromString("0.01")
	maxPrice = decimal.RequireFromString("99999999.99")
)

type CatalogService struct {
	Repo    *repo.GormRepo
	Deriver *media.Deriver
}

type CategoryPatch struct {
	Name  *string
	Image *string
}

type SubcategoryPatch struct {
	CategoryID *uint
	Name       *string
	Image      *string
}

type ProductInput struct {
	SubcategoryID uint
	Name          string
	Price         decimal.Decimal
	Image         string
}

type ProductPatch struct {
	SubcategoryID *uint
	Name          *string
	Price         *decimal.Decimal
	Image         *string
}

func (s *CatalogService) GetCategories(ctx context.Context, offset, limit int) (int64, []models.Category, error) {
	return s.Repo.GetCategories(ctx, offset, limit)
}

func (s *CatalogService) GetProducts(ctx context.Context, offset, limit int) (int64, []models.Product, error) {
	return s.Repo.GetProducts(ctx, offset, limit)
}

func (s *CatalogService) CreateCategory(ctx context.Context, name, image string) (*models.Category, error) {
	c := &models.Category{Name: strings.TrimSpace(name), Image: image}
	if err := validateName(c.Name, 100); err != nil {
		return nil, err
	}
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		return saveCategory(ctx, tx, c)
	})
	if err != nil {
		return nil, mapErr(err)
	}
	return c, nil
}

func (s *CatalogService) PatchCategory(ctx context.Context, id uint, patch CategoryPatch) (*models.Category, error) {
	var c *models.Category
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		var err error
		if c, err = tx.GetCategory(ctx, id); err != nil {
			return err
		}
		if patch.Name != nil {
			c.Name = strings.TrimSpace(*patch.Name)
			if err := validateName(c.Name, 100); err != nil {
				return err
			}
		}
		if patch.Image != nil {
			c.Image = *patch.Image
		}
		return saveCategory(ctx, tx, c)
	})
	if err != nil {
		return nil, mapErr(err)
	}
	return c, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id uint) error {
	return mapErr(s.Repo.DeleteCategory(ctx, id))
}

func (s *CatalogService) CreateSubcategory(ctx context.Context, categoryID uint, name, image string) (*models.Subcategory, error) {
	sub := &models.Subcategory{CategoryID: categoryID, Name: strings.TrimSpace(name), Image: image}
	if err := validateName(sub.Name, 100); err != nil {
		return nil, err
	}
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		return saveSubcategory(ctx, tx, sub)
	})
	if err != nil {
		return nil, mapErr(err)
	}
	return sub, nil
}

func (s *CatalogService) PatchSubcategory(ctx context.Context, id uint, patch SubcategoryPatch) (*models.Subcategory, error) {
	var sub *models.Subcategory
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		var err error
		if sub, err = tx.GetSubcategory(ctx, id); err != nil {
			return err
		}
		if patch.CategoryID != nil && *patch.CategoryID != sub.CategoryID {
			sub.CategoryID = *patch.CategoryID
			sub.Category = nil
		}
		if patch.Name != nil {
			sub.Name = strings.TrimSpace(*patch.Name)
			if err := validateName(sub.Name, 100); err != nil {
				return err
			}
		}
		if patch.Image != nil {
			sub.Image = *patch.Image
		}
		if err := saveSubcategory(ctx, tx, sub); err != nil {
			return err
		}
		return reslugProducts(ctx, tx, sub)
	})
	if err != nil {
		return nil, mapErr(err)
	}
	return sub, nil
}

func (s *CatalogService) DeleteSubcategory(ctx context.Context, id uint) error {
	return mapErr(s.Repo.DeleteSubcategory(ctx, id))
}

func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	p := &models.Product{
		SubcategoryID: in.SubcategoryID,
		Name:          strings.TrimSpace(in.Name),
		Price:         in.Price,
		ImageOriginal: in.Image,
	}
	if err := validateName(p.Name, 255); err != nil {
		return nil, err
	}
	if err := ValidatePrice(p.Price); err != nil {
		return nil, err
	}
	run := &deriveRun{Deriver: s.Deriver}
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		return saveProduct(ctx, tx, run, p)
	})
	if err != nil {
		run.discard()
		return nil, mapErr(err)
	}
	return p, nil
}

func (s *CatalogService) PatchProduct(ctx context.Context, id uint, patch ProductPatch) (*models.Product, error) {
	var p *models.Product
	run := &deriveRun{Deriver: s.Deriver}
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		var err error
		if p, err = tx.GetProduct(ctx, id); err != nil {
			return err
		}
		if patch.SubcategoryID != nil && *patch.SubcategoryID != p.SubcategoryID {
			p.SubcategoryID = *patch.SubcategoryID
			p.Subcategory = nil
		}
		if patch.Name != nil {
			p.Name = strings.TrimSpace(*patch.Name)
			if err := validateName(p.Name, 255); err != nil {
				return err
			}
		}
		if patch.Price != nil {
			if err := ValidatePrice(*patch.Price); err != nil {
				return err
			}
			p.Price = *patch.Price
		}
		if patch.Image != nil {
			p.ImageOriginal = *patch.Image
			p.ImageMedium = nil
			p.ImageThumbnail = nil
		}
		return saveProduct(ctx, tx, run, p)
	})
	if err != nil {
		run.discard()
		return nil, mapErr(err)
	}
	return p, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	return mapErr(s.Repo.DeleteProduct(ctx, id))
}

// DeriveMissingImages generates derived copies for every product that lacks
// them. Each product is saved in its own transaction; the first failure stops
// the run.
func (s *CatalogService) DeriveMissingImages(ctx context.Context) (int, error) {
	items, err := s.Repo.ProductsMissingImages(ctx)
	if err != nil {
		return 0, err
	}
	done := 0
	for i := range items {
		p := &items[i]
		run := &deriveRun{Deriver: s.Deriver}
		err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
			return run.derive(ctx, tx, p)
		})
		if err != nil {
			run.discard()
			return done, err
		}
		done++
	}
	return done, nil
}

func ValidatePrice(p decimal.Decimal) error {
	if p.LessThan(minPrice) {
		return fmt.Errorf("%w: price must be at least %s", ErrValidation, minPrice.StringFixed(2))
	}
	if p.GreaterThan(maxPrice) {
		return fmt.Errorf("%w: price must be at most %s", ErrValidation, maxPrice.StringFixed(2))
	}
	if !p.Equal(p.Truncate(2)) {
		return fmt.Errorf("%w: price must have at most 2 decimal places", ErrValidation)
	}
	return nil
}

func validateName(name string, limit int) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if len([]rune(name)) > limit {
		return fmt.Errorf("%w: name must be at most %d characters", ErrValidation, limit)
	}
	return nil
}

// saveCategory regenerates the slug when it is empty or the name differs from
// the stored one, then pushes a changed slug down to subcategories and products.
func saveCategory(ctx context.Context, tx *repo.GormRepo, c *models.Category) error {
	persisted, err := tx.PersistedCategoryName(ctx, c.ID)
	if err != nil {
		return err
	}

	oldSlug := c.Slug
	if c.Slug == "" || persisted != c.Name {
		c.Slug = slug.Make(c.Name)
	}
	if c.Slug == "" {
		return fmt.Errorf("%w: name must contain letters or digits", ErrValidation)
	}

	isNew := c.ID == 0
	if err := tx.SaveCategory(ctx, c); err != nil {
		return err
	}
	if isNew || oldSlug == c.Slug {
		return nil
	}

	subs, err := tx.SubcategoriesOf(ctx, c.ID)
	if err != nil {
		return err
	}
	for i := range subs {
		sub := &subs[i]
		sub.Category = c
		if err := saveSubcategory(ctx, tx, sub); err != nil {
			return err
		}
		if err := reslugProducts(ctx, tx, sub); err != nil {
			return err
		}
	}
	return nil
}

func ensureCategorySlug(ctx context.Context, tx *repo.GormRepo, c *models.Category) error {
	if c.Slug != "" {
		return nil
	}
	c.Slug = slug.Make(c.Name)
	return tx.UpdateCategorySlug(ctx, c.ID, c.Slug)
}

// saveSubcategory recomputes the slug from the category, loading the category
// when it is not attached.
func saveSubcategory(ctx context.Context, tx *repo.GormRepo, sub *models.Subcategory) error {
	if sub.Category == nil || sub.Category.ID != sub.CategoryID {
		c, err := tx.GetCategory(ctx, sub.CategoryID)
		if err != nil {
			return fmt.Errorf("category %d: %w", sub.CategoryID, err)
		}
		sub.Category = c
	}
	if err := ensureCategorySlug(ctx, tx, sub.Category); err != nil {
		return err
	}
	sub.Slug = slug.Join(sub.Category.Slug, sub.Name)
	return tx.SaveSubcategory(ctx, sub)
}

func ensureSubcategorySlug(ctx context.Context, tx *repo.GormRepo, sub *models.Subcategory) error {
	if sub.Slug != "" {
		return nil
	}
	if sub.Category == nil {
		c, err := tx.GetCategory(ctx, sub.CategoryID)
		if err != nil {
			return err
		}
		sub.Category = c
	}
	if err := ensureCategorySlug(ctx, tx, sub.Category); err != nil {
		return err
	}
	sub.Slug = slug.Join(sub.Category.Slug, sub.Name)
	return tx.UpdateSubcategorySlug(ctx, sub.ID, sub.Slug)
}

// saveProduct recomputes the slug from the subcategory, writes the row and then
// derives missing images. run may be nil when only slugs change.
func saveProduct(ctx context.Context, tx *repo.GormRepo, run *deriveRun, p *models.Product) error {
	if p.Subcategory == nil || p.Subcategory.ID != p.SubcategoryID {
		sub, err := tx.GetSubcategory(ctx, p.SubcategoryID)
		if err != nil {
			return fmt.Errorf("subcategory %d: %w", p.SubcategoryID, err)
		}
		p.Subcategory = sub
	}
	if err := ensureSubcategorySlug(ctx, tx, p.Subcategory); err != nil {
		return err
	}
	p.Slug = slug.Join(p.Subcategory.Slug, p.Name)
	if err := tx.SaveProduct(ctx, p); err != nil {
		return err
	}
	if run == nil {
		return nil
	}
	return run.derive(ctx, tx, p)
}

func reslugProducts(ctx context.Context, tx *repo.GormRepo, sub *models.Subcategory) error {
	products, err := tx.ProductsOf(ctx, sub.ID)
	if err != nil {
		return err
	}
	for i := range products {
		p := &products[i]
		p.Subcategory = sub
		if err := saveProduct(ctx, tx, nil, p); err != nil {
			return err
		}
	}
	return nil
}

// deriveRun remembers the files it wrote so they can be dropped when the
// surrounding transaction does not commit.
type deriveRun struct {
	Deriver *media.Deriver
	written []media.Derived
}

func (r *deriveRun) derive(ctx context.Context, tx *repo.GormRepo, p *models.Product) error {
	if !p.NeedsDerivatives() {
		return nil
	}
	derived, err := r.Deriver.Derive(p.ImageOriginal)
	if err != nil {
		return fmt.Errorf("product %d: %w", p.ID, err)
	}
	r.written = append(r.written, derived)
	if err := tx.UpdateProductImages(ctx, p.ID, derived.Medium, derived.Thumbnail); err != nil {
		return err
	}
	p.ImageMedium = &derived.Medium
	p.ImageThumbnail = &derived.Thumbnail
	return nil
}

func (r *deriveRun) discard() {
	for _, d := range r.written {
		r.Deriver.Discard(d)
	}
	r.written = nil
}

func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	default:
		return err
	}
}
