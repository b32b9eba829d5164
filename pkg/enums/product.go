package enums

import "fmt"

// ProductCategory is the top-level merchandise family.
type ProductCategory string

const (
	ProductCategoryApparel     ProductCategory = "abbigliamento"
	ProductCategoryAccessories ProductCategory = "accessori"
	ProductCategoryFootwear    ProductCategory = "calzature"
	ProductCategoryUnderwear   ProductCategory = "intimo"
)

var validProductCategories = []ProductCategory{
	ProductCategoryApparel,
	ProductCategoryAccessories,
	ProductCategoryFootwear,
	ProductCategoryUnderwear,
}

// IsValid reports whether the value is a known ProductCategory.
func (c ProductCategory) IsValid() bool {
	for _, candidate := range validProductCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseProductCategory converts the raw string to ProductCategory.
func ParseProductCategory(value string) (ProductCategory, error) {
	for _, candidate := range validProductCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product category %q", value)
}

// ProductStatus tracks the listing lifecycle of a product.
type ProductStatus string

const (
	ProductStatusDraft        ProductStatus = "bozza"
	ProductStatusActive       ProductStatus = "attivo"
	ProductStatusSuspended    ProductStatus = "sospeso"
	ProductStatusDiscontinued ProductStatus = "discontinuato"
	ProductStatusSoldOut      ProductStatus = "esaurito"
)

var validProductStatuses = []ProductStatus{
	ProductStatusDraft,
	ProductStatusActive,
	ProductStatusSuspended,
	ProductStatusDiscontinued,
	ProductStatusSoldOut,
}

// IsValid reports whether the value is a known ProductStatus.
func (s ProductStatus) IsValid() bool {
	for _, candidate := range validProductStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseProductStatus converts the raw string to ProductStatus.
func ParseProductStatus(value string) (ProductStatus, error) {
	for _, candidate := range validProductStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product status %q", value)
}
