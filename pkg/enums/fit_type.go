package enums

import "fmt"

// FitType describes the silhouette a product is cut for.
type FitType string

const (
	FitTypeSlim     FitType = "slim"
	FitTypeRegular  FitType = "regular"
	FitTypeLoose    FitType = "loose"
	FitTypeOversize FitType = "oversize"
	FitTypeCustom   FitType = "custom"
)

var validFitTypes = []FitType{
	FitTypeSlim,
	FitTypeRegular,
	FitTypeLoose,
	FitTypeOversize,
	FitTypeCustom,
}

// IsValid reports whether the value is a known FitType.
func (f FitType) IsValid() bool {
	for _, candidate := range validFitTypes {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseFitType converts the raw string to FitType.
func ParseFitType(value string) (FitType, error) {
	for _, candidate := range validFitTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid fit type %q", value)
}
