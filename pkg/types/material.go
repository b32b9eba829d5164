package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// MaterialSpec describes one component of a product's fabric composition.
// Legacy records stored materials as bare strings; the union is resolved
// here, at load time, so downstream code never shape-checks again.
type MaterialSpec struct {
	Name          string   `json:"name"`
	Percentage    float64  `json:"percentage"`
	Origin        *string  `json:"origin,omitempty"`
	Certification *string  `json:"certification,omitempty"`
	Properties    []string `json:"properties,omitempty"`

	// Legacy marks entries that arrived in the bare-string format.
	Legacy bool `json:"-"`
}

// UnmarshalJSON accepts both the structured record and the legacy bare string.
// A legacy entry normalizes to a full-composition spec of the named material.
func (m *MaterialSpec) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*m = MaterialSpec{Name: name, Percentage: 100, Legacy: true}
		return nil
	}

	type alias MaterialSpec
	var decoded alias
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*m = MaterialSpec(decoded)
	return nil
}

// MaterialList persists a product's composition as JSONB.
type MaterialList []MaterialSpec

// Value marshals the list into JSON for Postgres.
func (l MaterialList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Scan decodes JSONB into the list, resolving legacy entries.
func (l *MaterialList) Scan(value interface{}) error {
	raw, err := jsonbBytes("materials", value)
	if err != nil {
		return err
	}
	if raw == nil {
		*l = nil
		return nil
	}
	result := MaterialList{}
	if err := json.Unmarshal(raw, &result); err != nil {
		return err
	}
	*l = result
	return nil
}

// CareInstruction is one washing/handling symbol with its description.
type CareInstruction struct {
	Icon        string  `json:"icon"`
	Description string  `json:"description"`
	Temperature *string `json:"temperature,omitempty"`
	Warning     bool    `json:"warning,omitempty"`

	Legacy bool `json:"-"`
}

// UnmarshalJSON accepts both the structured record and the legacy bare string.
func (c *CareInstruction) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var description string
		if err := json.Unmarshal(data, &description); err != nil {
			return err
		}
		*c = CareInstruction{Description: description, Legacy: true}
		return nil
	}

	type alias CareInstruction
	var decoded alias
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*c = CareInstruction(decoded)
	return nil
}

// CareInstructionList persists the care label as JSONB.
type CareInstructionList []CareInstruction

// Value marshals the list into JSON for Postgres.
func (l CareInstructionList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Scan decodes JSONB into the list, resolving legacy entries.
func (l *CareInstructionList) Scan(value interface{}) error {
	raw, err := jsonbBytes("care instructions", value)
	if err != nil {
		return err
	}
	if raw == nil {
		*l = nil
		return nil
	}
	result := CareInstructionList{}
	if err := json.Unmarshal(raw, &result); err != nil {
		return err
	}
	*l = result
	return nil
}

func jsonbBytes(label string, value interface{}) ([]byte, error) {
	if value == nil {
		return nil, nil
	}
	switch v := value.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	default:
		return nil, fmt.Errorf("%s: unsupported scan type %T", label, value)
	}
}
