package analytics

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/stefanobartoli/filiera-backend/pkg/db/models"
	pkgerrors "github.com/stefanobartoli/filiera-backend/pkg/errors"
)

// Service exposes the dashboard rollup.
type Service interface {
	Dashboard(ctx context.Context) (*DashboardKPI, error)
}

// Repository loads the full data sets the dashboard reduces over.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListOrders(ctx context.Context) ([]models.Order, error) {
	var rows []models.Order
	err := r.db.WithContext(ctx).Preload("Items").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	var rows []models.Supplier
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) ListReturns(ctx context.Context) ([]models.Return, error) {
	var rows []models.Return
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

type repository interface {
	ListOrders(ctx context.Context) ([]models.Order, error)
	ListSuppliers(ctx context.Context) ([]models.Supplier, error)
	ListReturns(ctx context.Context) ([]models.Return, error)
}

type service struct {
	repo repository
}

// NewService constructs the analytics service.
func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("analytics repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Dashboard(ctx context.Context) (*DashboardKPI, error) {
	orders, err := s.repo.ListOrders(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list orders")
	}
	suppliers, err := s.repo.ListSuppliers(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list suppliers")
	}
	returns, err := s.repo.ListReturns(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list returns")
	}

	kpi := ComputeDashboardKPI(orders, suppliers, returns)
	return &kpi, nil
}
