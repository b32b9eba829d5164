package types

// ContractTier grants a percentage discount above a quantity threshold.
// Contract tiers carry no unit price; the reconciled tiers on a price
// list do.
type ContractTier struct {
	MinimumQuantity    int     `json:"minimum_quantity"`
	DiscountPercentage float64 `json:"discount_percentage"`
}

// ContractTiers is stored as JSONB on the supplier contract.
type ContractTiers []ContractTier
