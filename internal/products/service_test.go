package product

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/stefanobartoli/filiera-backend/pkg/db/models"
	"github.com/stefanobartoli/filiera-backend/pkg/enums"
	pkgerrors "github.com/stefanobartoli/filiera-backend/pkg/errors"
	"github.com/stefanobartoli/filiera-backend/pkg/outbox"
	"github.com/stefanobartoli/filiera-backend/pkg/pagination"
)

type stubRepo struct {
	products   map[uuid.UUID]*models.Product
	variants   map[uuid.UUID]*models.ProductVariant
	priceLists map[uuid.UUID]*models.PriceList
	tiers      map[uuid.UUID]*models.DiscountTier
	orders     map[uuid.UUID][]models.Order
	itemCount  int64

	createErr error
	savedTier *models.DiscountTier
	deleted   []uuid.UUID
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		products:   map[uuid.UUID]*models.Product{},
		variants:   map[uuid.UUID]*models.ProductVariant{},
		priceLists: map[uuid.UUID]*models.PriceList{},
		tiers:      map[uuid.UUID]*models.DiscountTier{},
		orders:     map[uuid.UUID][]models.Order{},
	}
}

func (s *stubRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	product, ok := s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return product, nil
}

func (s *stubRepo) List(_ context.Context, _ ListFilter, _ *pagination.Cursor, limit int) ([]models.Product, error) {
	var rows []models.Product
	for _, product := range s.products {
		rows = append(rows, *product)
		if len(rows) == limit+1 {
			break
		}
	}
	return rows, nil
}

func (s *stubRepo) Create(_ context.Context, product *models.Product) (*models.Product, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	product.ID = uuid.New()
	product.CreatedAt = time.Now()
	s.products[product.ID] = product
	return product, nil
}

func (s *stubRepo) Update(_ context.Context, product *models.Product) (*models.Product, error) {
	s.products[product.ID] = product
	return product, nil
}

func (s *stubRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(s.products, id)
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubRepo) CreateVariant(_ context.Context, variant *models.ProductVariant) (*models.ProductVariant, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	variant.ID = uuid.New()
	s.variants[variant.ID] = variant
	return variant, nil
}

func (s *stubRepo) FindVariant(_ context.Context, productID, variantID uuid.UUID) (*models.ProductVariant, error) {
	variant, ok := s.variants[variantID]
	if !ok || variant.ProductID != productID {
		return nil, gorm.ErrRecordNotFound
	}
	return variant, nil
}

func (s *stubRepo) UpdateVariant(_ context.Context, variant *models.ProductVariant) (*models.ProductVariant, error) {
	s.variants[variant.ID] = variant
	return variant, nil
}

func (s *stubRepo) DeleteVariant(_ context.Context, _, variantID uuid.UUID) error {
	delete(s.variants, variantID)
	return nil
}

func (s *stubRepo) ListVariants(_ context.Context, productID uuid.UUID) ([]models.ProductVariant, error) {
	var rows []models.ProductVariant
	for _, variant := range s.variants {
		if variant.ProductID == productID {
			rows = append(rows, *variant)
		}
	}
	return rows, nil
}

func (s *stubRepo) CreatePriceList(_ context.Context, list *models.PriceList) (*models.PriceList, error) {
	list.ID = uuid.New()
	for i := range list.Tiers {
		list.Tiers[i].ID = uuid.New()
		list.Tiers[i].PriceListID = list.ID
		tier := list.Tiers[i]
		s.tiers[tier.ID] = &tier
	}
	s.priceLists[list.ID] = list
	return list, nil
}

func (s *stubRepo) ListPriceLists(_ context.Context, productID uuid.UUID) ([]models.PriceList, error) {
	var rows []models.PriceList
	for _, list := range s.priceLists {
		if list.ProductID == productID {
			rows = append(rows, *list)
		}
	}
	return rows, nil
}

func (s *stubRepo) FindPriceList(_ context.Context, productID, priceListID uuid.UUID) (*models.PriceList, error) {
	list, ok := s.priceLists[priceListID]
	if !ok || list.ProductID != productID {
		return nil, gorm.ErrRecordNotFound
	}
	return list, nil
}

func (s *stubRepo) FindTier(_ context.Context, priceListID, tierID uuid.UUID) (*models.DiscountTier, error) {
	tier, ok := s.tiers[tierID]
	if !ok || tier.PriceListID != priceListID {
		return nil, gorm.ErrRecordNotFound
	}
	return tier, nil
}

func (s *stubRepo) SaveTier(_ context.Context, _ *gorm.DB, tier *models.DiscountTier) (*models.DiscountTier, error) {
	s.tiers[tier.ID] = tier
	s.savedTier = tier
	return tier, nil
}

func (s *stubRepo) ListOrdersForProduct(_ context.Context, productID uuid.UUID) ([]models.Order, error) {
	return s.orders[productID], nil
}

func (s *stubRepo) CountOrderItems(_ context.Context, _ uuid.UUID) (int64, error) {
	return s.itemCount, nil
}

type stubTx struct{}

func (s *stubTx) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

type stubEmitter struct {
	events []outbox.DomainEvent
}

func (s *stubEmitter) Emit(_ context.Context, _ *gorm.DB, event outbox.DomainEvent) error {
	s.events = append(s.events, event)
	return nil
}

func newTestService(t *testing.T, repo *stubRepo, emitter *stubEmitter) Service {
	t.Helper()
	svc, err := NewService(repo, &stubTx{}, emitter, nil)
	require.NoError(t, err)
	return svc
}

func seedProduct(repo *stubRepo) *models.Product {
	product := &models.Product{
		ID:             uuid.New(),
		Name:           "Cappotto lana double",
		Code:           "CPT-2026-001",
		Category:       enums.ProductCategoryApparel,
		Season:         enums.SeasonFallWinter,
		CollectionYear: 2026,
		Status:         enums.ProductStatusDraft,
		CreatedAt:      time.Now(),
	}
	repo.products[product.ID] = product
	return product
}

func seedPriceList(repo *stubRepo, productID uuid.UUID, basePrice decimal.Decimal, pct float64) (*models.PriceList, *models.DiscountTier) {
	list := &models.PriceList{
		ID:           uuid.New(),
		ProductID:    productID,
		SupplierID:   uuid.New(),
		BasePrice:    basePrice,
		Currency:     enums.CurrencyEUR,
		LeadTimeDays: 30,
		ValidFrom:    time.Now(),
		IsActive:     true,
	}
	tier := &models.DiscountTier{
		ID:                 uuid.New(),
		PriceListID:        list.ID,
		MinimumQuantity:    100,
		DiscountPercentage: pct,
		UnitPrice:          basePrice.Mul(decimal.NewFromFloat(1 - pct/100)),
	}
	repo.priceLists[list.ID] = list
	repo.tiers[tier.ID] = tier
	return list, tier
}

func TestCreateProductNormalizesCode(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo, &stubEmitter{})

	dto, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Name:           "Maglione girocollo",
		Code:           " mgl-2026-014 ",
		Category:       enums.ProductCategoryApparel,
		Season:         enums.SeasonFallWinter,
		CollectionYear: 2026,
		TargetPrice:    decimal.NewFromInt(89),
	})
	require.NoError(t, err)
	assert.Equal(t, "MGL-2026-014", dto.Code)
	assert.Equal(t, string(enums.ProductStatusDraft), dto.Status)
}

func TestCreateProductRejectsUnknownCategory(t *testing.T) {
	svc := newTestService(t, newStubRepo(), &stubEmitter{})

	_, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Name:     "X",
		Code:     "X-1",
		Category: enums.ProductCategory("giocattoli"),
		Season:   enums.SeasonFallWinter,
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestCreateProductDuplicateCode(t *testing.T) {
	repo := newStubRepo()
	repo.createErr = errors.New(`duplicate key value violates unique constraint "idx_products_code"`)
	svc := newTestService(t, repo, &stubEmitter{})

	_, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Name:     "X",
		Code:     "X-1",
		Category: enums.ProductCategoryApparel,
		Season:   enums.SeasonFallWinter,
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestDeleteProductBlockedByOrderReferences(t *testing.T) {
	repo := newStubRepo()
	product := seedProduct(repo)
	repo.itemCount = 2
	svc := newTestService(t, repo, &stubEmitter{})

	err := svc.DeleteProduct(context.Background(), product.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
	assert.Empty(t, repo.deleted)
}

func TestAddPriceListDerivesTierUnitPrices(t *testing.T) {
	repo := newStubRepo()
	product := seedProduct(repo)
	svc := newTestService(t, repo, &stubEmitter{})

	dto, err := svc.AddPriceList(context.Background(), product.ID, PriceListInput{
		SupplierID:   uuid.New(),
		BasePrice:    decimal.NewFromInt(120),
		LeadTimeDays: 30,
		ValidFrom:    time.Now(),
		Tiers: []TierInput{
			{MinimumQuantity: 50, DiscountPercentage: 10},
			{MinimumQuantity: 200, DiscountPercentage: 20},
		},
	})
	require.NoError(t, err)
	require.Len(t, dto.Tiers, 2)
	assert.True(t, dto.Tiers[0].UnitPrice.Equal(decimal.NewFromInt(108)), "unit price %s", dto.Tiers[0].UnitPrice)
	assert.True(t, dto.Tiers[1].UnitPrice.Equal(decimal.NewFromInt(96)), "unit price %s", dto.Tiers[1].UnitPrice)
	assert.Equal(t, "EUR", dto.Currency)
	assert.True(t, dto.IsActive)
}

func TestAddPriceListRejectsDuplicateTierQuantity(t *testing.T) {
	repo := newStubRepo()
	product := seedProduct(repo)
	svc := newTestService(t, repo, &stubEmitter{})

	_, err := svc.AddPriceList(context.Background(), product.ID, PriceListInput{
		SupplierID: uuid.New(),
		BasePrice:  decimal.NewFromInt(100),
		ValidFrom:  time.Now(),
		Tiers: []TierInput{
			{MinimumQuantity: 100, DiscountPercentage: 5},
			{MinimumQuantity: 100, DiscountPercentage: 8},
		},
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestUpdateDiscountTierRequiresExactlyOneField(t *testing.T) {
	repo := newStubRepo()
	product := seedProduct(repo)
	list, tier := seedPriceList(repo, product.ID, decimal.NewFromInt(100), 5)
	svc := newTestService(t, repo, &stubEmitter{})

	_, err := svc.UpdateDiscountTier(context.Background(), product.ID, list.ID, tier.ID, TierUpdateInput{})
	require.Error(t, err)

	pct := 10.0
	unit := decimal.NewFromInt(90)
	_, err = svc.UpdateDiscountTier(context.Background(), product.ID, list.ID, tier.ID, TierUpdateInput{
		DiscountPercentage: &pct,
		UnitPrice:          &unit,
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestUpdateDiscountTierByPercentage(t *testing.T) {
	repo := newStubRepo()
	product := seedProduct(repo)
	list, tier := seedPriceList(repo, product.ID, decimal.NewFromInt(120), 5)
	emitter := &stubEmitter{}
	svc := newTestService(t, repo, emitter)

	pct := 10.0
	dto, err := svc.UpdateDiscountTier(context.Background(), product.ID, list.ID, tier.ID, TierUpdateInput{
		DiscountPercentage: &pct,
	})
	require.NoError(t, err)
	assert.Equal(t, 10.0, dto.DiscountPercentage)
	assert.True(t, dto.UnitPrice.Equal(decimal.NewFromInt(108)), "unit price %s", dto.UnitPrice)

	require.NotNil(t, repo.savedTier)
	require.Len(t, emitter.events, 1)
	assert.Equal(t, enums.EventDiscountTierUpdated, emitter.events[0].EventType)
	assert.Equal(t, enums.AggregatePriceList, emitter.events[0].AggregateType)
	assert.Equal(t, list.ID, emitter.events[0].AggregateID)
}

func TestUpdateDiscountTierByUnitPrice(t *testing.T) {
	repo := newStubRepo()
	product := seedProduct(repo)
	list, tier := seedPriceList(repo, product.ID, decimal.NewFromInt(200), 0)
	svc := newTestService(t, repo, &stubEmitter{})

	unit := decimal.NewFromInt(150)
	dto, err := svc.UpdateDiscountTier(context.Background(), product.ID, list.ID, tier.ID, TierUpdateInput{
		UnitPrice: &unit,
	})
	require.NoError(t, err)
	assert.InDelta(t, 25.0, dto.DiscountPercentage, 1e-9)
	assert.True(t, dto.UnitPrice.Equal(unit))
}

func TestUpdateDiscountTierRejectsUnitPriceAboveBase(t *testing.T) {
	repo := newStubRepo()
	product := seedProduct(repo)
	list, tier := seedPriceList(repo, product.ID, decimal.NewFromInt(100), 0)
	emitter := &stubEmitter{}
	svc := newTestService(t, repo, emitter)

	unit := decimal.NewFromInt(130)
	_, err := svc.UpdateDiscountTier(context.Background(), product.ID, list.ID, tier.ID, TierUpdateInput{
		UnitPrice: &unit,
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Empty(t, emitter.events)
}

func TestPricingSummary(t *testing.T) {
	repo := newStubRepo()
	product := seedProduct(repo)
	seedPriceList(repo, product.ID, decimal.NewFromInt(120), 0)
	seedPriceList(repo, product.ID, decimal.NewFromInt(135), 0)
	inactive, _ := seedPriceList(repo, product.ID, decimal.NewFromInt(90), 0)
	inactive.IsActive = false
	svc := newTestService(t, repo, &stubEmitter{})

	dto, err := svc.PricingSummary(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, dto.Summary.ActiveCount)
	assert.True(t, dto.Summary.BestPrice.Equal(decimal.NewFromInt(120)))
	assert.True(t, dto.Summary.WorstPrice.Equal(decimal.NewFromInt(135)))
	assert.Equal(t, 30, dto.Summary.AverageLeadTimeDays)
}

func TestVariantMargins(t *testing.T) {
	repo := newStubRepo()
	product := seedProduct(repo)
	sellable := &models.ProductVariant{
		ID:        uuid.New(),
		ProductID: product.ID,
		SKU:       "CPT-001-NERO-M",
		Price:     decimal.NewFromFloat(299.99),
		CostPrice: decimal.NewFromInt(120),
	}
	unpriced := &models.ProductVariant{
		ID:        uuid.New(),
		ProductID: product.ID,
		SKU:       "CPT-001-NERO-L",
		Price:     decimal.Zero,
		CostPrice: decimal.NewFromInt(120),
	}
	repo.variants[sellable.ID] = sellable
	repo.variants[unpriced.ID] = unpriced
	svc := newTestService(t, repo, &stubEmitter{})

	report, err := svc.VariantMargins(context.Background(), product.ID)
	require.NoError(t, err)
	require.Len(t, report.Variants, 2)

	byID := map[uuid.UUID]VariantMarginDTO{}
	for _, entry := range report.Variants {
		byID[entry.VariantID] = entry
	}
	require.NotNil(t, byID[sellable.ID].Margin)
	assert.InDelta(t, 59.998666622, *byID[sellable.ID].Margin, 1e-6)
	assert.Nil(t, byID[unpriced.ID].Margin)

	require.NotNil(t, report.AverageMargin)
	assert.InDelta(t, 59.998666622, *report.AverageMargin, 1e-6)
}

func TestStats(t *testing.T) {
	repo := newStubRepo()
	product := seedProduct(repo)
	repo.orders[product.ID] = []models.Order{
		{
			Status: enums.OrderStatusCompleted,
			Items: []models.OrderItem{
				{ProductID: product.ID, Quantity: 60, TotalPrice: decimal.NewFromInt(7200)},
			},
		},
		{
			Status: enums.OrderStatusConfirmed,
			Items: []models.OrderItem{
				{ProductID: product.ID, Quantity: 45, TotalPrice: decimal.NewFromInt(5400)},
				{ProductID: uuid.New(), Quantity: 10, TotalPrice: decimal.NewFromInt(900)},
			},
		},
	}
	svc := newTestService(t, repo, &stubEmitter{})

	dto, err := svc.Stats(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, 105, dto.Stats.TotalQuantityOrdered)
	assert.True(t, dto.Stats.TotalRevenue.Equal(decimal.NewFromInt(12600)))
	assert.Equal(t, 2, dto.Stats.OrderCount)
}

func TestAddVariantRejectsNonPositivePrice(t *testing.T) {
	repo := newStubRepo()
	product := seedProduct(repo)
	svc := newTestService(t, repo, &stubEmitter{})

	_, err := svc.AddVariant(context.Background(), product.ID, VariantInput{
		SKU:       "cpt-001-blu-s",
		Color:     "Blu",
		Size:      "S",
		Price:     decimal.Zero,
		CostPrice: decimal.NewFromInt(50),
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeInvalidPrice, typed.Code())
}

func TestAddVariantNormalizesSKU(t *testing.T) {
	repo := newStubRepo()
	product := seedProduct(repo)
	svc := newTestService(t, repo, &stubEmitter{})

	dto, err := svc.AddVariant(context.Background(), product.ID, VariantInput{
		SKU:       " cpt-001-blu-s ",
		Color:     "Blu",
		Size:      "S",
		Fit:       enums.FitTypeRegular,
		Price:     decimal.NewFromInt(249),
		CostPrice: decimal.NewFromInt(95),
	})
	require.NoError(t, err)
	assert.Equal(t, "CPT-001-BLU-S", dto.SKU)
	assert.Equal(t, 1, dto.MinimumOrderQuantity)
}
