package supplier

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stefanobartoli/filiera-backend/pkg/db/models"
	"github.com/stefanobartoli/filiera-backend/pkg/enums"
	"github.com/stefanobartoli/filiera-backend/pkg/pagination"
)

// Repository wires together supplier persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads the supplier with contracts and rating history.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	var supplier models.Supplier
	err := r.db.WithContext(ctx).
		Preload("Contracts").
		Preload("RatingHistory").
		First(&supplier, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &supplier, nil
}

// List returns suppliers newest-first using cursor pagination. The returned
// slice may contain one extra row beyond limit so callers can detect the
// next page.
func (r *Repository) List(ctx context.Context, cursor *pagination.Cursor, limit int) ([]models.Supplier, error) {
	query := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(limit))
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Supplier
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Create inserts the supplier.
func (r *Repository) Create(ctx context.Context, supplier *models.Supplier) (*models.Supplier, error) {
	if err := r.db.WithContext(ctx).Create(supplier).Error; err != nil {
		return nil, err
	}
	return supplier, nil
}

// Update saves the full supplier row.
func (r *Repository) Update(ctx context.Context, supplier *models.Supplier) (*models.Supplier, error) {
	if err := r.db.WithContext(ctx).Save(supplier).Error; err != nil {
		return nil, err
	}
	return supplier, nil
}

// Delete removes the supplier; contracts and ratings cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Supplier{}, "id = ?", id).Error
}

// CreateContract inserts a contract for the supplier.
func (r *Repository) CreateContract(ctx context.Context, contract *models.SupplierContract) (*models.SupplierContract, error) {
	if err := r.db.WithContext(ctx).Create(contract).Error; err != nil {
		return nil, err
	}
	return contract, nil
}

// CreateRating appends a rating to the supplier's history. When tx is
// non-nil the insert joins that transaction.
func (r *Repository) CreateRating(ctx context.Context, tx *gorm.DB, rating *models.QualityRating) (*models.QualityRating, error) {
	conn := r.db
	if tx != nil {
		conn = tx
	}
	if err := conn.WithContext(ctx).Create(rating).Error; err != nil {
		return nil, err
	}
	return rating, nil
}

// ListRatings returns the supplier's rating history, newest first.
func (r *Repository) ListRatings(ctx context.Context, supplierID uuid.UUID) ([]models.QualityRating, error) {
	var rows []models.QualityRating
	err := r.db.WithContext(ctx).
		Where("supplier_id = ?", supplierID).
		Order("rating_date DESC").
		Find(&rows).Error
	return rows, err
}

// ListOrders returns every order placed with the supplier, items included.
func (r *Repository) ListOrders(ctx context.Context, supplierID uuid.UUID) ([]models.Order, error) {
	var rows []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("supplier_id = ?", supplierID).
		Order("order_date DESC").
		Find(&rows).Error
	return rows, err
}

// ListActiveIDs returns the ids of every active supplier. The cron worker
// uses it to warm performance snapshots.
func (r *Repository) ListActiveIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.Supplier{}).
		Where("is_active = TRUE").
		Order("created_at ASC").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// CountOpenOrders counts the supplier's orders that are not yet terminal.
func (r *Repository) CountOpenOrders(ctx context.Context, supplierID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("supplier_id = ? AND status NOT IN ?", supplierID,
			[]enums.OrderStatus{enums.OrderStatusCompleted, enums.OrderStatusCancelled}).
		Count(&count).Error
	return count, err
}
