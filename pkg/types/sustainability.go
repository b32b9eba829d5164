package types

import (
	"database/sql/driver"
	"encoding/json"
)

// Sustainability carries a product's environmental profile as JSONB.
type Sustainability struct {
	EcoFriendly         bool     `json:"eco_friendly"`
	Certifications      []string `json:"certifications,omitempty"`
	CarbonFootprint     *float64 `json:"carbon_footprint,omitempty"`
	Recyclable          bool     `json:"recyclable"`
	EthicalProduction   bool     `json:"ethical_production"`
	SustainabilityScore float64  `json:"sustainability_score"`
}

func (s Sustainability) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *Sustainability) Scan(value interface{}) error {
	raw, err := jsonbBytes("sustainability", value)
	if err != nil {
		return err
	}
	if raw == nil {
		*s = Sustainability{}
		return nil
	}
	return json.Unmarshal(raw, s)
}
