package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/stefanobartoli/filiera-backend/pkg/enums"
	"github.com/stefanobartoli/filiera-backend/pkg/types"
)

// Supplier represents a manufacturing partner in the supply network.
type Supplier struct {
	ID              uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name            string             `gorm:"column:name;not null"`
	Email           string             `gorm:"column:email;not null;uniqueIndex:idx_suppliers_email"`
	Phone           string             `gorm:"column:phone;not null"`
	Address         types.Address      `gorm:"column:address;type:jsonb;serializer:json"`
	Specializations pq.StringArray     `gorm:"column:specializations;type:text[];not null;default:ARRAY[]::text[]"`
	LeadTimeDays    int                `gorm:"column:lead_time_days;not null;default:0"`
	QualityRating   float64            `gorm:"column:quality_rating;type:numeric(4,2);not null;default:0"`
	PaymentTerms    string             `gorm:"column:payment_terms;not null;default:''"`
	Certifications  pq.StringArray     `gorm:"column:certifications;type:text[];not null;default:ARRAY[]::text[]"`
	Notes           *string            `gorm:"column:notes"`
	IsActive        bool               `gorm:"column:is_active;not null;default:true"`
	Contracts       []SupplierContract `gorm:"foreignKey:SupplierID;constraint:OnDelete:CASCADE"`
	RatingHistory   []QualityRating    `gorm:"foreignKey:SupplierID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// SupplierContract is a commercial agreement with a supplier.
type SupplierContract struct {
	ID                 uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SupplierID         uuid.UUID           `gorm:"column:supplier_id;type:uuid;not null"`
	Type               enums.ContractType  `gorm:"column:type;type:text;not null;default:'standard'"`
	StartDate          time.Time           `gorm:"column:start_date;not null"`
	EndDate            time.Time           `gorm:"column:end_date;not null"`
	TermsAndConditions string              `gorm:"column:terms_and_conditions;not null;default:''"`
	MinimumOrderValue  *decimal.Decimal    `gorm:"column:minimum_order_value;type:numeric(12,2)"`
	DiscountTiers      types.ContractTiers `gorm:"column:discount_tiers;type:jsonb;serializer:json"`
	PenaltyTerms       *string             `gorm:"column:penalty_terms"`
	QualityStandards   *string             `gorm:"column:quality_standards"`
	DeliveryTerms      string              `gorm:"column:delivery_terms;not null;default:''"`
	IsActive           bool                `gorm:"column:is_active;not null;default:true"`
	RenewalDate        *time.Time          `gorm:"column:renewal_date"`
	CreatedAt          time.Time           `gorm:"column:created_at;autoCreateTime"`
}

// QualityRating is one post-order evaluation of a supplier.
type QualityRating struct {
	ID                 uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SupplierID         uuid.UUID `gorm:"column:supplier_id;type:uuid;not null"`
	OrderID            uuid.UUID `gorm:"column:order_id;type:uuid;not null"`
	RatingDate         time.Time `gorm:"column:rating_date;not null"`
	OverallRating      float64   `gorm:"column:overall_rating;type:numeric(4,2);not null"`
	QualityScore       float64   `gorm:"column:quality_score;type:numeric(4,2);not null"`
	DeliveryScore      float64   `gorm:"column:delivery_score;type:numeric(4,2);not null"`
	CommunicationScore float64   `gorm:"column:communication_score;type:numeric(4,2);not null"`
	PriceScore         float64   `gorm:"column:price_score;type:numeric(4,2);not null"`
	Comments           *string   `gorm:"column:comments"`
	RatedBy            string    `gorm:"column:rated_by;not null"`
	CreatedAt          time.Time `gorm:"column:created_at;autoCreateTime"`
}
