package supplier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/stefanobartoli/filiera-backend/internal/performance"
	"github.com/stefanobartoli/filiera-backend/pkg/config"
	"github.com/stefanobartoli/filiera-backend/pkg/db"
	"github.com/stefanobartoli/filiera-backend/pkg/db/models"
	"github.com/stefanobartoli/filiera-backend/pkg/enums"
	pkgerrors "github.com/stefanobartoli/filiera-backend/pkg/errors"
	"github.com/stefanobartoli/filiera-backend/pkg/logger"
	"github.com/stefanobartoli/filiera-backend/pkg/outbox"
	"github.com/stefanobartoli/filiera-backend/pkg/pagination"
	"github.com/stefanobartoli/filiera-backend/pkg/redis"
	"github.com/stefanobartoli/filiera-backend/pkg/types"
)

// Service exposes supplier management and performance operations.
type Service interface {
	CreateSupplier(ctx context.Context, input CreateSupplierInput) (*SupplierDTO, error)
	GetSupplier(ctx context.Context, id uuid.UUID) (*SupplierDTO, error)
	ListSuppliers(ctx context.Context, params pagination.Params) (*ListResult, error)
	UpdateSupplier(ctx context.Context, id uuid.UUID, input UpdateSupplierInput) (*SupplierDTO, error)
	DeleteSupplier(ctx context.Context, id uuid.UUID) error
	AddContract(ctx context.Context, supplierID uuid.UUID, input ContractInput) (*SupplierDTO, error)
	RateSupplier(ctx context.Context, supplierID uuid.UUID, input RatingInput) (*SupplierDTO, error)
	Performance(ctx context.Context, supplierID uuid.UUID) (*PerformanceDTO, error)
	RefreshPerformance(ctx context.Context, supplierID uuid.UUID) (*PerformanceDTO, error)
}

// CreateSupplierInput holds the validated payload to register a supplier.
type CreateSupplierInput struct {
	Name            string
	Email           string
	Phone           string
	Address         types.Address
	Specializations []string
	LeadTimeDays    int
	PaymentTerms    string
	Certifications  []string
	Notes           *string
}

// UpdateSupplierInput holds optional mutation values for a supplier.
type UpdateSupplierInput struct {
	Name            *string
	Email           *string
	Phone           *string
	Address         *types.Address
	Specializations *[]string
	LeadTimeDays    *int
	QualityRating   *float64
	PaymentTerms    *string
	Certifications  *[]string
	Notes           *string
	IsActive        *bool
}

// ContractInput holds the payload to attach a contract.
type ContractInput struct {
	Type               enums.ContractType
	StartDate          time.Time
	EndDate            time.Time
	TermsAndConditions string
	MinimumOrderValue  *decimal.Decimal
	DiscountTiers      types.ContractTiers
	PenaltyTerms       *string
	QualityStandards   *string
	DeliveryTerms      string
	RenewalDate        *time.Time
}

// RatingInput holds one post-order supplier evaluation.
type RatingInput struct {
	OrderID            uuid.UUID
	RatingDate         time.Time
	OverallRating      float64
	QualityScore       float64
	DeliveryScore      float64
	CommunicationScore float64
	PriceScore         float64
	Comments           *string
	RatedBy            string
}

// ListResult pages through suppliers.
type ListResult struct {
	Suppliers  []SupplierDTO `json:"suppliers"`
	NextCursor *string       `json:"next_cursor,omitempty"`
}

type repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error)
	List(ctx context.Context, cursor *pagination.Cursor, limit int) ([]models.Supplier, error)
	Create(ctx context.Context, supplier *models.Supplier) (*models.Supplier, error)
	Update(ctx context.Context, supplier *models.Supplier) (*models.Supplier, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CreateContract(ctx context.Context, contract *models.SupplierContract) (*models.SupplierContract, error)
	CreateRating(ctx context.Context, tx *gorm.DB, rating *models.QualityRating) (*models.QualityRating, error)
	ListRatings(ctx context.Context, supplierID uuid.UUID) ([]models.QualityRating, error)
	ListOrders(ctx context.Context, supplierID uuid.UUID) ([]models.Order, error)
	CountOpenOrders(ctx context.Context, supplierID uuid.UUID) (int64, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type snapshotCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	PerformanceSnapshotKey(supplierID string) string
}

type service struct {
	repo    repository
	tx      txRunner
	events  eventEmitter
	cache   snapshotCache
	cfg     config.PerformanceConfig
	logg    *logger.Logger
	nowFunc func() time.Time
}

// NewService constructs a supplier service instance. The cache is optional;
// without it every performance read recomputes from the database.
func NewService(repo repository, tx txRunner, events eventEmitter, cache snapshotCache, cfg config.PerformanceConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("supplier repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if events == nil {
		return nil, fmt.Errorf("event emitter required")
	}
	return &service{
		repo:    repo,
		tx:      tx,
		events:  events,
		cache:   cache,
		cfg:     cfg,
		logg:    logg,
		nowFunc: time.Now,
	}, nil
}

func (s *service) CreateSupplier(ctx context.Context, input CreateSupplierInput) (*SupplierDTO, error) {
	supplier := &models.Supplier{
		Name:            input.Name,
		Email:           strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:           input.Phone,
		Address:         input.Address,
		Specializations: input.Specializations,
		LeadTimeDays:    input.LeadTimeDays,
		PaymentTerms:    input.PaymentTerms,
		Certifications:  input.Certifications,
		Notes:           input.Notes,
		IsActive:        true,
	}

	created, err := s.repo.Create(ctx, supplier)
	if err != nil {
		if db.IsUniqueViolation(err, "idx_suppliers_email") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a supplier with this email already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert supplier")
	}
	return NewSupplierDTO(created), nil
}

func (s *service) GetSupplier(ctx context.Context, id uuid.UUID) (*SupplierDTO, error) {
	supplier, err := s.findSupplier(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewSupplierDTO(supplier), nil
}

func (s *service) ListSuppliers(ctx context.Context, params pagination.Params) (*ListResult, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.List(ctx, cursor, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list suppliers")
	}

	result := &ListResult{}
	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	for i := range rows {
		result.Suppliers = append(result.Suppliers, *NewSupplierDTO(&rows[i]))
	}
	if hasMore {
		last := rows[len(rows)-1]
		next := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		result.NextCursor = &next
	}
	return result, nil
}

func (s *service) UpdateSupplier(ctx context.Context, id uuid.UUID, input UpdateSupplierInput) (*SupplierDTO, error) {
	supplier, err := s.findSupplier(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		supplier.Name = *input.Name
	}
	if input.Email != nil {
		supplier.Email = strings.ToLower(strings.TrimSpace(*input.Email))
	}
	if input.Phone != nil {
		supplier.Phone = *input.Phone
	}
	if input.Address != nil {
		supplier.Address = *input.Address
	}
	if input.Specializations != nil {
		supplier.Specializations = *input.Specializations
	}
	if input.LeadTimeDays != nil {
		supplier.LeadTimeDays = *input.LeadTimeDays
	}
	if input.QualityRating != nil {
		if *input.QualityRating < 0 || *input.QualityRating > 5 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quality rating must be between 0 and 5")
		}
		supplier.QualityRating = *input.QualityRating
	}
	if input.PaymentTerms != nil {
		supplier.PaymentTerms = *input.PaymentTerms
	}
	if input.Certifications != nil {
		supplier.Certifications = *input.Certifications
	}
	if input.Notes != nil {
		supplier.Notes = input.Notes
	}
	if input.IsActive != nil {
		supplier.IsActive = *input.IsActive
	}

	updated, err := s.repo.Update(ctx, supplier)
	if err != nil {
		if db.IsUniqueViolation(err, "idx_suppliers_email") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a supplier with this email already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update supplier")
	}

	s.invalidateSnapshot(ctx, id)
	return NewSupplierDTO(updated), nil
}

func (s *service) DeleteSupplier(ctx context.Context, id uuid.UUID) error {
	if _, err := s.findSupplier(ctx, id); err != nil {
		return err
	}

	open, err := s.repo.CountOpenOrders(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count open orders")
	}
	if open > 0 {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "supplier has orders still in progress").
			WithDetails(map[string]any{"open_orders": open})
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete supplier")
	}
	s.invalidateSnapshot(ctx, id)
	return nil
}

func (s *service) AddContract(ctx context.Context, supplierID uuid.UUID, input ContractInput) (*SupplierDTO, error) {
	if _, err := s.findSupplier(ctx, supplierID); err != nil {
		return nil, err
	}
	if input.EndDate.Before(input.StartDate) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contract end date cannot precede the start date")
	}
	for _, tier := range input.DiscountTiers {
		if tier.MinimumQuantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "tier minimum quantity must be positive")
		}
		if tier.DiscountPercentage < 0 || tier.DiscountPercentage > 100 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "tier discount percentage must be between 0 and 100")
		}
	}

	contract := &models.SupplierContract{
		SupplierID:         supplierID,
		Type:               input.Type,
		StartDate:          input.StartDate,
		EndDate:            input.EndDate,
		TermsAndConditions: input.TermsAndConditions,
		MinimumOrderValue:  input.MinimumOrderValue,
		DiscountTiers:      input.DiscountTiers,
		PenaltyTerms:       input.PenaltyTerms,
		QualityStandards:   input.QualityStandards,
		DeliveryTerms:      input.DeliveryTerms,
		IsActive:           true,
		RenewalDate:        input.RenewalDate,
	}
	if _, err := s.repo.CreateContract(ctx, contract); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert contract")
	}
	return s.GetSupplier(ctx, supplierID)
}

func (s *service) RateSupplier(ctx context.Context, supplierID uuid.UUID, input RatingInput) (*SupplierDTO, error) {
	if _, err := s.findSupplier(ctx, supplierID); err != nil {
		return nil, err
	}
	for name, score := range map[string]float64{
		"overall_rating":      input.OverallRating,
		"quality_score":       input.QualityScore,
		"delivery_score":      input.DeliveryScore,
		"communication_score": input.CommunicationScore,
		"price_score":         input.PriceScore,
	} {
		if score < 0 || score > 5 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating scores must be between 0 and 5").
				WithDetails(map[string]any{"field": name, "value": score})
		}
	}
	if strings.TrimSpace(input.RatedBy) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rated_by is required")
	}

	ratingDate := input.RatingDate
	if ratingDate.IsZero() {
		ratingDate = s.nowFunc()
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		rating := &models.QualityRating{
			SupplierID:         supplierID,
			OrderID:            input.OrderID,
			RatingDate:         ratingDate,
			OverallRating:      input.OverallRating,
			QualityScore:       input.QualityScore,
			DeliveryScore:      input.DeliveryScore,
			CommunicationScore: input.CommunicationScore,
			PriceScore:         input.PriceScore,
			Comments:           input.Comments,
			RatedBy:            input.RatedBy,
		}
		created, err := s.repo.CreateRating(ctx, tx, rating)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert rating")
		}

		return s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventSupplierRated,
			AggregateType: enums.AggregateSupplier,
			AggregateID:   supplierID,
			Data: map[string]any{
				"rating_id":      created.ID,
				"order_id":       input.OrderID,
				"overall_rating": input.OverallRating,
			},
			Version: 1,
		})
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate supplier")
	}

	s.invalidateSnapshot(ctx, supplierID)
	return s.GetSupplier(ctx, supplierID)
}

func (s *service) Performance(ctx context.Context, supplierID uuid.UUID) (*PerformanceDTO, error) {
	if s.cache != nil {
		key := s.cache.PerformanceSnapshotKey(supplierID.String())
		if cached, err := s.cache.Get(ctx, key); err == nil {
			var dto PerformanceDTO
			if jsonErr := json.Unmarshal([]byte(cached), &dto); jsonErr == nil {
				return &dto, nil
			}
		} else if !redis.IsNil(err) && s.logg != nil {
			s.logg.Warn(ctx, "performance snapshot cache read failed")
		}
	}

	dto, err := s.computePerformance(ctx, supplierID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if payload, jsonErr := json.Marshal(dto); jsonErr == nil {
			key := s.cache.PerformanceSnapshotKey(supplierID.String())
			if setErr := s.cache.Set(ctx, key, string(payload), s.cfg.SnapshotTTL); setErr != nil && s.logg != nil {
				s.logg.Warn(ctx, "performance snapshot cache write failed")
			}
		}
	}
	return dto, nil
}

// RefreshPerformance recomputes the snapshot and overwrites the cache entry.
// The cron worker uses it to keep hot suppliers warm.
func (s *service) RefreshPerformance(ctx context.Context, supplierID uuid.UUID) (*PerformanceDTO, error) {
	dto, err := s.computePerformance(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if payload, jsonErr := json.Marshal(dto); jsonErr == nil {
			key := s.cache.PerformanceSnapshotKey(supplierID.String())
			if setErr := s.cache.Set(ctx, key, string(payload), s.cfg.SnapshotTTL); setErr != nil {
				return dto, setErr
			}
		}
	}
	return dto, nil
}

func (s *service) computePerformance(ctx context.Context, supplierID uuid.UUID) (*PerformanceDTO, error) {
	supplier, err := s.findSupplier(ctx, supplierID)
	if err != nil {
		return nil, err
	}

	orders, err := s.repo.ListOrders(ctx, supplierID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list supplier orders")
	}
	ratings, err := s.repo.ListRatings(ctx, supplierID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list supplier ratings")
	}

	snapshot := performance.Compute(orders)
	breakdown := performance.RatingBreakdown(ratings)

	return &PerformanceDTO{
		SupplierID:          supplierID,
		Snapshot:            snapshot,
		RatingBreakdown:     breakdown,
		StoredOverallRating: supplier.QualityRating,
		RatingDivergence:    performance.Divergence(supplier.QualityRating, breakdown),
		ComputedAt:          s.nowFunc().UTC(),
	}, nil
}

func (s *service) findSupplier(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load supplier")
	}
	return supplier, nil
}

func (s *service) invalidateSnapshot(ctx context.Context, supplierID uuid.UUID) {
	if s.cache == nil {
		return
	}
	key := s.cache.PerformanceSnapshotKey(supplierID.String())
	if err := s.cache.Del(ctx, key); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "performance snapshot invalidation failed")
	}
}

func isNotFound(err error) bool {
	return err != nil && (err == gorm.ErrRecordNotFound || strings.Contains(err.Error(), "record not found"))
}
