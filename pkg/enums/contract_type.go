package enums

import "fmt"

// ContractType classifies the commercial agreement held with a supplier.
type ContractType string

const (
	ContractTypeStandard    ContractType = "standard"
	ContractTypePreferred   ContractType = "preferenziale"
	ContractTypeExclusive   ContractType = "esclusivo"
	ContractTypeTemporary   ContractType = "temporaneo"
	ContractTypeVolumeBased ContractType = "volume"
)

var validContractTypes = []ContractType{
	ContractTypeStandard,
	ContractTypePreferred,
	ContractTypeExclusive,
	ContractTypeTemporary,
	ContractTypeVolumeBased,
}

// IsValid reports whether the value is a known ContractType.
func (c ContractType) IsValid() bool {
	for _, candidate := range validContractTypes {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseContractType converts the raw string to ContractType.
func ParseContractType(value string) (ContractType, error) {
	for _, candidate := range validContractTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid contract type %q", value)
}
