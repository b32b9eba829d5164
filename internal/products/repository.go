package product

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stefanobartoli/filiera-backend/pkg/db/models"
	"github.com/stefanobartoli/filiera-backend/pkg/enums"
	"github.com/stefanobartoli/filiera-backend/pkg/pagination"
)

// Repository persists products, variants and supplier price lists.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListFilter narrows the product listing.
type ListFilter struct {
	Category *enums.ProductCategory
	Season   *enums.Season
	Status   *enums.ProductStatus
	Search   string
}

// FindByID loads a product with its variants and price lists (tiers included).
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Variants").
		Preload("PriceLists.Tiers").
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// List pages products newest first.
func (r *Repository) List(ctx context.Context, filter ListFilter, cursor *pagination.Cursor, limit int) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{})
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.Season != nil {
		query = query.Where("season = ?", *filter.Season)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR code ILIKE ?", pattern, pattern)
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Product
	err := query.
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(limit)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

func (r *Repository) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	err := r.db.WithContext(ctx).
		Omit("Variants", "PriceLists").
		Save(product).Error
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error
}

// CreateVariant adds a sellable variant to a product.
func (r *Repository) CreateVariant(ctx context.Context, variant *models.ProductVariant) (*models.ProductVariant, error) {
	if err := r.db.WithContext(ctx).Create(variant).Error; err != nil {
		return nil, err
	}
	return variant, nil
}

// FindVariant loads a variant scoped to its product.
func (r *Repository) FindVariant(ctx context.Context, productID, variantID uuid.UUID) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	err := r.db.WithContext(ctx).
		Where("id = ? AND product_id = ?", variantID, productID).
		First(&variant).Error
	if err != nil {
		return nil, err
	}
	return &variant, nil
}

func (r *Repository) UpdateVariant(ctx context.Context, variant *models.ProductVariant) (*models.ProductVariant, error) {
	if err := r.db.WithContext(ctx).Save(variant).Error; err != nil {
		return nil, err
	}
	return variant, nil
}

func (r *Repository) DeleteVariant(ctx context.Context, productID, variantID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND product_id = ?", variantID, productID).
		Delete(&models.ProductVariant{}).Error
}

// ListVariants returns every variant of a product.
func (r *Repository) ListVariants(ctx context.Context, productID uuid.UUID) ([]models.ProductVariant, error) {
	var rows []models.ProductVariant
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("sku ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CreatePriceList stores a supplier quotation together with its tiers.
func (r *Repository) CreatePriceList(ctx context.Context, list *models.PriceList) (*models.PriceList, error) {
	if err := r.db.WithContext(ctx).Create(list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// ListPriceLists returns a product's quotations with their discount tiers.
func (r *Repository) ListPriceLists(ctx context.Context, productID uuid.UUID) ([]models.PriceList, error) {
	var rows []models.PriceList
	err := r.db.WithContext(ctx).
		Preload("Tiers", func(db *gorm.DB) *gorm.DB {
			return db.Order("minimum_quantity ASC")
		}).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// FindPriceList loads one quotation scoped to its product.
func (r *Repository) FindPriceList(ctx context.Context, productID, priceListID uuid.UUID) (*models.PriceList, error) {
	var list models.PriceList
	err := r.db.WithContext(ctx).
		Preload("Tiers").
		Where("id = ? AND product_id = ?", priceListID, productID).
		First(&list).Error
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// FindTier loads one discount tier scoped to its price list.
func (r *Repository) FindTier(ctx context.Context, priceListID, tierID uuid.UUID) (*models.DiscountTier, error) {
	var tier models.DiscountTier
	err := r.db.WithContext(ctx).
		Where("id = ? AND price_list_id = ?", tierID, priceListID).
		First(&tier).Error
	if err != nil {
		return nil, err
	}
	return &tier, nil
}

// SaveTier persists tier mutations. When tx is non-nil the write joins
// that transaction.
func (r *Repository) SaveTier(ctx context.Context, tx *gorm.DB, tier *models.DiscountTier) (*models.DiscountTier, error) {
	conn := r.db
	if tx != nil {
		conn = tx
	}
	if err := conn.WithContext(ctx).Save(tier).Error; err != nil {
		return nil, err
	}
	return tier, nil
}

// ListExpiredActive returns active price lists whose validity window has
// already closed.
func (r *Repository) ListExpiredActive(ctx context.Context, now time.Time) ([]models.PriceList, error) {
	var rows []models.PriceList
	err := r.db.WithContext(ctx).
		Where("is_active = TRUE AND valid_to IS NOT NULL AND valid_to < ?", now).
		Order("valid_to ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// DeactivatePriceList flips a quotation inactive. When tx is non-nil the
// write joins that transaction.
func (r *Repository) DeactivatePriceList(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	conn := r.db
	if tx != nil {
		conn = tx
	}
	return conn.WithContext(ctx).
		Model(&models.PriceList{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}

// ListOrdersForProduct returns orders holding at least one line for the
// product, with their items preloaded.
func (r *Repository) ListOrdersForProduct(ctx context.Context, productID uuid.UUID) ([]models.Order, error) {
	var rows []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id IN (?)", r.db.Model(&models.OrderItem{}).
			Select("order_id").
			Where("product_id = ?", productID)).
		Order("order_date DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CountOrderItems reports how many order lines reference the product.
func (r *Repository) CountOrderItems(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Where("product_id = ?", productID).
		Count(&count).Error
	return count, err
}
