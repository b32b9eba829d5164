package cron

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/stefanobartoli/filiera-backend/internal/suppliers"
	"github.com/stefanobartoli/filiera-backend/pkg/logger"
)

type activeSupplierLister interface {
	ListActiveIDs(ctx context.Context) ([]uuid.UUID, error)
}

type performanceRefresher interface {
	RefreshPerformance(ctx context.Context, supplierID uuid.UUID) (*supplier.PerformanceDTO, error)
}

// PerformanceSnapshotJobParams configure the snapshot warm job.
type PerformanceSnapshotJobParams struct {
	Logger     *logger.Logger
	Repository activeSupplierLister
	Service    performanceRefresher
}

// NewPerformanceSnapshotJob recomputes the cached performance snapshot
// for every active supplier so dashboard reads stay warm.
func NewPerformanceSnapshotJob(params PerformanceSnapshotJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("supplier repository required")
	}
	if params.Service == nil {
		return nil, fmt.Errorf("supplier service required")
	}
	return &performanceSnapshotJob{
		logg:    params.Logger,
		repo:    params.Repository,
		service: params.Service,
	}, nil
}

type performanceSnapshotJob struct {
	logg    *logger.Logger
	repo    activeSupplierLister
	service performanceRefresher
}

func (j *performanceSnapshotJob) Name() string { return "performance-snapshot" }

func (j *performanceSnapshotJob) Run(ctx context.Context) error {
	ids, err := j.repo.ListActiveIDs(ctx)
	if err != nil {
		return fmt.Errorf("list active suppliers: %w", err)
	}

	var errs error
	refreshed := 0
	for _, id := range ids {
		if _, err := j.service.RefreshPerformance(ctx, id); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("supplier %s: %w", id, err))
			continue
		}
		refreshed++
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"suppliers": len(ids),
		"refreshed": refreshed,
	})
	j.logg.Info(logCtx, "performance snapshot refresh complete")
	return errs
}
