package order

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stefanobartoli/filiera-backend/pkg/db/models"
	"github.com/stefanobartoli/filiera-backend/pkg/enums"
	"github.com/stefanobartoli/filiera-backend/pkg/pagination"
)

// Repository persists orders, their items, milestones and returns.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListFilter narrows the order listing.
type ListFilter struct {
	SupplierID *uuid.UUID
	Status     *enums.OrderStatus
}

// FindByID loads an order with items and milestones.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Milestones", func(db *gorm.DB) *gorm.DB {
			return db.Order("expected_date ASC")
		}).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// List pages orders newest first.
func (r *Repository) List(ctx context.Context, filter ListFilter, cursor *pagination.Cursor, limit int) ([]models.Order, error) {
	query := r.db.WithContext(ctx).Model(&models.Order{}).Preload("Items")
	if filter.SupplierID != nil {
		query = query.Where("supplier_id = ?", *filter.SupplierID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Order
	err := query.
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(limit)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Create stores the order and its items. When tx is non-nil the insert
// joins that transaction.
func (r *Repository) Create(ctx context.Context, tx *gorm.DB, order *models.Order) (*models.Order, error) {
	conn := r.conn(tx)
	if err := conn.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// Update persists order mutations without touching associations.
func (r *Repository) Update(ctx context.Context, tx *gorm.DB, order *models.Order) (*models.Order, error) {
	conn := r.conn(tx)
	err := conn.WithContext(ctx).
		Omit("Items", "Milestones").
		Save(order).Error
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Order{}, "id = ?", id).Error
}

// FindItem loads an order line scoped to its order.
func (r *Repository) FindItem(ctx context.Context, orderID, itemID uuid.UUID) (*models.OrderItem, error) {
	var item models.OrderItem
	err := r.db.WithContext(ctx).
		Where("id = ? AND order_id = ?", itemID, orderID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *Repository) UpdateItem(ctx context.Context, item *models.OrderItem) (*models.OrderItem, error) {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// CreateMilestone adds a production step to an order.
func (r *Repository) CreateMilestone(ctx context.Context, milestone *models.ProductionMilestone) (*models.ProductionMilestone, error) {
	if err := r.db.WithContext(ctx).Create(milestone).Error; err != nil {
		return nil, err
	}
	return milestone, nil
}

// FindMilestone loads a milestone scoped to its order.
func (r *Repository) FindMilestone(ctx context.Context, orderID, milestoneID uuid.UUID) (*models.ProductionMilestone, error) {
	var milestone models.ProductionMilestone
	err := r.db.WithContext(ctx).
		Where("id = ? AND order_id = ?", milestoneID, orderID).
		First(&milestone).Error
	if err != nil {
		return nil, err
	}
	return &milestone, nil
}

func (r *Repository) UpdateMilestone(ctx context.Context, milestone *models.ProductionMilestone) (*models.ProductionMilestone, error) {
	if err := r.db.WithContext(ctx).Save(milestone).Error; err != nil {
		return nil, err
	}
	return milestone, nil
}

// CreateReturn records merchandise going back to the supplier.
func (r *Repository) CreateReturn(ctx context.Context, ret *models.Return) (*models.Return, error) {
	if err := r.db.WithContext(ctx).Create(ret).Error; err != nil {
		return nil, err
	}
	return ret, nil
}

// FindReturn loads a return scoped to its order.
func (r *Repository) FindReturn(ctx context.Context, orderID, returnID uuid.UUID) (*models.Return, error) {
	var ret models.Return
	err := r.db.WithContext(ctx).
		Where("id = ? AND order_id = ?", returnID, orderID).
		First(&ret).Error
	if err != nil {
		return nil, err
	}
	return &ret, nil
}

func (r *Repository) UpdateReturn(ctx context.Context, ret *models.Return) (*models.Return, error) {
	if err := r.db.WithContext(ctx).Save(ret).Error; err != nil {
		return nil, err
	}
	return ret, nil
}

// ListReturns returns an order's returns, newest first.
func (r *Repository) ListReturns(ctx context.Context, orderID uuid.UUID) ([]models.Return, error) {
	var rows []models.Return
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("return_date DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CountByNumberPrefix reports how many order numbers share a prefix. Used
// to derive the next sequential order number.
func (r *Repository) CountByNumberPrefix(ctx context.Context, prefix string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("order_number LIKE ?", prefix+"%").
		Count(&count).Error
	return count, err
}

func (r *Repository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}
