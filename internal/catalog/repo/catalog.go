package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/storefront/internal/models"
)

type GormRepo struct {
	DB *gorm.DB
}

// Transaction runs fn with a repository bound to a single database transaction.
func (r *GormRepo) Transaction(ctx context.Context, fn func(tx *GormRepo) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormRepo{DB: tx})
	})
}

func (r *GormRepo) GetCategories(ctx context.Context, offset, limit int) (int64, []models.Category, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Category{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Category
	if err := r.DB.WithContext(ctx).
		Preload("Subcategories", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}

	return total, items, nil
}

func (r *GormRepo) GetProducts(ctx context.Context, offset, limit int) (int64, []models.Product, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Product
	if err := r.DB.WithContext(ctx).
		Preload("Subcategory.Category").
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}

	return total, items, nil
}

// ProductsMissingImages returns products whose original is set but a derived
// copy is not, ordered by id.
func (r *GormRepo) ProductsMissingImages(ctx context.Context) ([]models.Product, error) {
	var items []models.Product
	err := r.DB.WithContext(ctx).
		Where("image_original <> ''").
		Where("image_medium IS NULL OR image_medium = '' OR image_thumbnail IS NULL OR image_thumbnail = ''").
		Order("id ASC").
		Find(&items).Error
	return items, err
}

func (r *GormRepo) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	var c models.Category
	if err := r.DB.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormRepo) GetSubcategory(ctx context.Context, id uint) (*models.Subcategory, error) {
	var s models.Subcategory
	if err := r.DB.WithContext(ctx).Preload("Category").First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *GormRepo) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := r.DB.WithContext(ctx).Preload("Subcategory.Category").First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// PersistedCategoryName returns the name currently stored for id, or "" when the
// row does not exist yet.
func (r *GormRepo) PersistedCategoryName(ctx context.Context, id uint) (string, error) {
	if id == 0 {
		return "", nil
	}
	var names []string
	if err := r.DB.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Pluck("name", &names).Error; err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "", nil
	}
	return names[0], nil
}

func (r *GormRepo) SaveCategory(ctx context.Context, c *models.Category) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Save(c).Error
}

func (r *GormRepo) SaveSubcategory(ctx context.Context, s *models.Subcategory) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Save(s).Error
}

func (r *GormRepo) SaveProduct(ctx context.Context, p *models.Product) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Save(p).Error
}

func (r *GormRepo) UpdateCategorySlug(ctx context.Context, id uint, slug string) error {
	return r.DB.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Update("slug", slug).Error
}

func (r *GormRepo) UpdateSubcategorySlug(ctx context.Context, id uint, slug string) error {
	return r.DB.WithContext(ctx).Model(&models.Subcategory{}).Where("id = ?", id).Update("slug", slug).Error
}

// UpdateProductImages writes only the two derived image columns.
func (r *GormRepo) UpdateProductImages(ctx context.Context, id uint, medium, thumbnail string) error {
	return r.DB.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Updates(map[string]any{"image_medium": medium, "image_thumbnail": thumbnail}).Error
}

func (r *GormRepo) SubcategoriesOf(ctx context.Context, categoryID uint) ([]models.Subcategory, error) {
	var items []models.Subcategory
	err := r.DB.WithContext(ctx).Where("category_id = ?", categoryID).Order("id ASC").Find(&items).Error
	return items, err
}

func (r *GormRepo) ProductsOf(ctx context.Context, subcategoryID uint) ([]models.Product, error) {
	var items []models.Product
	err := r.DB.WithContext(ctx).Where("subcategory_id = ?", subcategoryID).Order("id ASC").Find(&items).Error
	return items, err
}

// DeleteCategory removes the category with everything below it, including cart
// lines that reference its products.
func (r *GormRepo) DeleteCategory(ctx context.Context, id uint) error {
	return r.Transaction(ctx, func(tx *GormRepo) error {
		db := tx.DB.WithContext(ctx)
		products := "SELECT p.id FROM products p JOIN subcategories s ON s.id = p.subcategory_id WHERE s.category_id = ?"
		if err := db.Where("product_id IN ("+products+")", id).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		if err := db.Where("subcategory_id IN (SELECT id FROM subcategories WHERE category_id = ?)", id).Delete(&models.Product{}).Error; err != nil {
			return err
		}
		if err := db.Where("category_id = ?", id).Delete(&models.Subcategory{}).Error; err != nil {
			return err
		}
		return deleteByID(db, &models.Category{}, id)
	})
}

func (r *GormRepo) DeleteSubcategory(ctx context.Context, id uint) error {
	return r.Transaction(ctx, func(tx *GormRepo) error {
		db := tx.DB.WithContext(ctx)
		if err := db.Where("product_id IN (SELECT id FROM products WHERE subcategory_id = ?)", id).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		if err := db.Where("subcategory_id = ?", id).Delete(&models.Product{}).Error; err != nil {
			return err
		}
		return deleteByID(db, &models.Subcategory{}, id)
	})
}

func (r *GormRepo) DeleteProduct(ctx context.Context, id uint) error {
	return r.Transaction(ctx, func(tx *GormRepo) error {
		db := tx.DB.WithContext(ctx)
		if err := db.Where("product_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return deleteByID(db, &models.Product{}, id)
	})
}

func deleteByID(db *gorm.DB, model any, id uint) error {
	res := db.Delete(model, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
