package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stefanobartoli/filiera-backend/pkg/db/models"
	"github.com/stefanobartoli/filiera-backend/pkg/enums"
	"github.com/stefanobartoli/filiera-backend/pkg/logger"
	"github.com/stefanobartoli/filiera-backend/pkg/outbox"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type priceListExpiryRepo interface {
	ListExpiredActive(ctx context.Context, now time.Time) ([]models.PriceList, error)
	DeactivatePriceList(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

// PriceListExpiryJobParams configure the price list expiry job.
type PriceListExpiryJobParams struct {
	Logger     *logger.Logger
	DB         txRunner
	Repository priceListExpiryRepo
	Events     eventEmitter
}

// NewPriceListExpiryJob deactivates supplier quotations whose validity
// window has closed and emits an event per list.
func NewPriceListExpiryJob(params PriceListExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("price list repository required")
	}
	if params.Events == nil {
		return nil, fmt.Errorf("event emitter required")
	}
	return &priceListExpiryJob{
		logg:   params.Logger,
		db:     params.DB,
		repo:   params.Repository,
		events: params.Events,
		now:    time.Now,
	}, nil
}

type priceListExpiryJob struct {
	logg   *logger.Logger
	db     txRunner
	repo   priceListExpiryRepo
	events eventEmitter
	now    func() time.Time
}

func (j *priceListExpiryJob) Name() string { return "price-list-expiry" }

func (j *priceListExpiryJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	expired, err := j.repo.ListExpiredActive(ctx, now)
	if err != nil {
		return fmt.Errorf("list expired price lists: %w", err)
	}
	if len(expired) == 0 {
		j.logg.Info(ctx, "no expired price lists")
		return nil
	}

	deactivated := 0
	for _, list := range expired {
		list := list
		err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
			if err := j.repo.DeactivatePriceList(ctx, tx, list.ID); err != nil {
				return err
			}
			return j.events.Emit(ctx, tx, outbox.DomainEvent{
				EventType:     enums.EventPriceListExpired,
				AggregateType: enums.AggregatePriceList,
				AggregateID:   list.ID,
				Data: map[string]any{
					"product_id":  list.ProductID,
					"supplier_id": list.SupplierID,
					"valid_to":    list.ValidTo,
				},
				Version: 1,
			})
		})
		if err != nil {
			return fmt.Errorf("deactivate price list %s: %w", list.ID, err)
		}
		deactivated++
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"expired":     len(expired),
		"deactivated": deactivated,
	})
	j.logg.Info(logCtx, "price list expiry complete")
	return nil
}
