package supplier

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stefanobartoli/filiera-backend/internal/performance"
	"github.com/stefanobartoli/filiera-backend/pkg/db/models"
	"github.com/stefanobartoli/filiera-backend/pkg/types"
)

// SupplierDTO is the supplier payload returned to clients.
type SupplierDTO struct {
	ID              uuid.UUID     `json:"id"`
	Name            string        `json:"name"`
	Email           string        `json:"email"`
	Phone           string        `json:"phone"`
	Address         types.Address `json:"address"`
	Specializations []string      `json:"specializations"`
	LeadTimeDays    int           `json:"lead_time_days"`
	QualityRating   float64       `json:"quality_rating"`
	PaymentTerms    string        `json:"payment_terms"`
	Certifications  []string      `json:"certifications"`
	Notes           *string       `json:"notes,omitempty"`
	IsActive        bool          `json:"is_active"`
	Contracts       []ContractDTO `json:"contracts,omitempty"`
	RatingHistory   []RatingDTO   `json:"rating_history,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// ContractDTO is the commercial agreement payload.
type ContractDTO struct {
	ID                 uuid.UUID           `json:"id"`
	Type               string              `json:"type"`
	StartDate          time.Time           `json:"start_date"`
	EndDate            time.Time           `json:"end_date"`
	TermsAndConditions string              `json:"terms_and_conditions"`
	MinimumOrderValue  *decimal.Decimal    `json:"minimum_order_value,omitempty"`
	DiscountTiers      types.ContractTiers `json:"discount_tiers"`
	PenaltyTerms       *string             `json:"penalty_terms,omitempty"`
	QualityStandards   *string             `json:"quality_standards,omitempty"`
	DeliveryTerms      string              `json:"delivery_terms"`
	IsActive           bool                `json:"is_active"`
	RenewalDate        *time.Time          `json:"renewal_date,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
}

// RatingDTO is one historical supplier evaluation.
type RatingDTO struct {
	ID                 uuid.UUID `json:"id"`
	OrderID            uuid.UUID `json:"order_id"`
	RatingDate         time.Time `json:"rating_date"`
	OverallRating      float64   `json:"overall_rating"`
	QualityScore       float64   `json:"quality_score"`
	DeliveryScore      float64   `json:"delivery_score"`
	CommunicationScore float64   `json:"communication_score"`
	PriceScore         float64   `json:"price_score"`
	Comments           *string   `json:"comments,omitempty"`
	RatedBy            string    `json:"rated_by"`
}

// PerformanceDTO bundles delivery metrics with the rating breakdown. The
// stored overall rating and the breakdown mean are both exposed, along with
// their gap, so callers can flag drift without the backend reconciling it.
type PerformanceDTO struct {
	SupplierID          uuid.UUID             `json:"supplier_id"`
	Snapshot            performance.Snapshot  `json:"snapshot"`
	RatingBreakdown     performance.Breakdown `json:"rating_breakdown"`
	StoredOverallRating float64               `json:"stored_overall_rating"`
	RatingDivergence    float64               `json:"rating_divergence"`
	ComputedAt          time.Time             `json:"computed_at"`
}

// NewSupplierDTO maps the model into the client payload.
func NewSupplierDTO(supplier *models.Supplier) *SupplierDTO {
	dto := &SupplierDTO{
		ID:              supplier.ID,
		Name:            supplier.Name,
		Email:           supplier.Email,
		Phone:           supplier.Phone,
		Address:         supplier.Address,
		Specializations: append([]string{}, supplier.Specializations...),
		LeadTimeDays:    supplier.LeadTimeDays,
		QualityRating:   supplier.QualityRating,
		PaymentTerms:    supplier.PaymentTerms,
		Certifications:  append([]string{}, supplier.Certifications...),
		Notes:           supplier.Notes,
		IsActive:        supplier.IsActive,
		CreatedAt:       supplier.CreatedAt,
		UpdatedAt:       supplier.UpdatedAt,
	}
	for _, contract := range supplier.Contracts {
		dto.Contracts = append(dto.Contracts, NewContractDTO(&contract))
	}
	for _, rating := range supplier.RatingHistory {
		dto.RatingHistory = append(dto.RatingHistory, NewRatingDTO(&rating))
	}
	return dto
}

// NewContractDTO maps a contract row into the client payload.
func NewContractDTO(contract *models.SupplierContract) ContractDTO {
	return ContractDTO{
		ID:                 contract.ID,
		Type:               string(contract.Type),
		StartDate:          contract.StartDate,
		EndDate:            contract.EndDate,
		TermsAndConditions: contract.TermsAndConditions,
		MinimumOrderValue:  contract.MinimumOrderValue,
		DiscountTiers:      contract.DiscountTiers,
		PenaltyTerms:       contract.PenaltyTerms,
		QualityStandards:   contract.QualityStandards,
		DeliveryTerms:      contract.DeliveryTerms,
		IsActive:           contract.IsActive,
		RenewalDate:        contract.RenewalDate,
		CreatedAt:          contract.CreatedAt,
	}
}

// NewRatingDTO maps a rating row into the client payload.
func NewRatingDTO(rating *models.QualityRating) RatingDTO {
	return RatingDTO{
		ID:                 rating.ID,
		OrderID:            rating.OrderID,
		RatingDate:         rating.RatingDate,
		OverallRating:      rating.OverallRating,
		QualityScore:       rating.QualityScore,
		DeliveryScore:      rating.DeliveryScore,
		CommunicationScore: rating.CommunicationScore,
		PriceScore:         rating.PriceScore,
		Comments:           rating.Comments,
		RatedBy:            rating.RatedBy,
	}
}
