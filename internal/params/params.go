// Package params holds the static legal parameter table: allowances, tax
// brackets, the usufruct scale and life-insurance limits. The table is
// read-only input to the engine so a simulation computed against the 2025
// figures stays reproducible when a later table ships.
package params

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// BracketGroup selects a progressive scale.
type BracketGroup string

const (
	GroupDirect   BracketGroup = "DIRECT"   // ligne directe, Art. 777 CGI
	GroupSibling  BracketGroup = "SIBLING"  // frères et sœurs
	GroupNephew   BracketGroup = "NEPHEW"   // parents jusqu'au 4e degré: 55%
	GroupStranger BracketGroup = "STRANGER" // au-delà et non-parents: 60%
)

// Bracket is one slice of a progressive scale. Max 0 means unbounded.
type Bracket struct {
	Min  float64 `yaml:"min"`
	Max  float64 `yaml:"max"`
	Rate float64 `yaml:"rate"`
}

// UsufructBand maps usufructuary age to the Art. 669 I rate. A band applies
// to ages strictly below MaxAge.
type UsufructBand struct {
	MaxAge int     `yaml:"max_age"`
	Rate   float64 `yaml:"rate"`
}

type LifeInsurance struct {
	AllowanceBefore70     float64 `yaml:"allowance_before_70"`      // Art. 990 I, per beneficiary
	AllowanceAfter70      float64 `yaml:"allowance_after_70"`       // Art. 757 B, shared
	RateLow               float64 `yaml:"rate_low"`                 // 20% up to threshold
	RateHighThreshold     float64 `yaml:"rate_high_threshold"`      // 700 000
	RateHigh              float64 `yaml:"rate_high"`                // 31.25% above
	VieGenerationReduction float64 `yaml:"vie_generation_reduction"` // 20% premium reduction
}

type LegalParameters struct {
	// Art. 779 / 788 CGI allowances, keyed by relationship group.
	AllowanceChild   float64 `yaml:"allowance_child"`
	AllowanceSibling float64 `yaml:"allowance_sibling"`
	AllowanceNephew  float64 `yaml:"allowance_nephew"`
	AllowanceOther   float64 `yaml:"allowance_other"`

	// Art. 779 II CGI, cumulative with the relationship allowance.
	DisabilityAllowance float64 `yaml:"disability_allowance"`

	Brackets map[BracketGroup][]Bracket `yaml:"brackets"`

	UsufructScale          []UsufructBand `yaml:"usufruct_scale"`
	TemporaryUsufructRate  float64        `yaml:"temporary_usufruct_rate"` // per started decade, Art. 669 II

	LifeInsurance LifeInsurance `yaml:"life_insurance"`

	// Art. 775 CGI: funeral costs deductible without proof.
	FuneralDeductionCap float64 `yaml:"funeral_deduction_cap"`

	// Art. 764 bis CGI: main residence occupied by the spouse.
	MainResidenceReduction float64 `yaml:"main_residence_reduction"`

	// Art. 787 B / 793 CGI professional exemptions.
	DutreilExemptionRate float64 `yaml:"dutreil_exemption_rate"`
	RuralThreshold       float64 `yaml:"rural_threshold"`
	RuralRateLow         float64 `yaml:"rural_rate_low"`
	RuralRateHigh        float64 `yaml:"rural_rate_high"`
	ForestryRate         float64 `yaml:"forestry_rate"`

	// Art. 784 CGI recall window, years.
	RecallYears int `yaml:"recall_years"`
}

// Default returns the 2025 table.
func Default() *LegalParameters {
	return &LegalParameters{
		AllowanceChild:      100_000,
		AllowanceSibling:    15_932,
		AllowanceNephew:     7_967,
		AllowanceOther:      1_594,
		DisabilityAllowance: 159_325,
		Brackets: map[BracketGroup][]Bracket{
			GroupDirect: {
				{Min: 0, Max: 8_072, Rate: 0.05},
				{Min: 8_072, Max: 12_109, Rate: 0.10},
				{Min: 12_109, Max: 15_932, Rate: 0.15},
				{Min: 15_932, Max: 552_324, Rate: 0.20},
				{Min: 552_324, Max: 902_838, Rate: 0.30},
				{Min: 902_838, Max: 1_805_677, Rate: 0.40},
				{Min: 1_805_677, Max: 0, Rate: 0.45},
			},
			GroupSibling: {
				{Min: 0, Max: 24_430, Rate: 0.35},
				{Min: 24_430, Max: 0, Rate: 0.45},
			},
			GroupNephew: {
				{Min: 0, Max: 0, Rate: 0.55},
			},
			GroupStranger: {
				{Min: 0, Max: 0, Rate: 0.60},
			},
		},
		UsufructScale: []UsufructBand{
			{MaxAge: 21, Rate: 0.90},
			{MaxAge: 31, Rate: 0.80},
			{MaxAge: 41, Rate: 0.70},
			{MaxAge: 51, Rate: 0.60},
			{MaxAge: 61, Rate: 0.50},
			{MaxAge: 71, Rate: 0.40},
			{MaxAge: 81, Rate: 0.30},
			{MaxAge: 91, Rate: 0.20},
		},
		TemporaryUsufructRate: 0.23,
		LifeInsurance: LifeInsurance{
			AllowanceBefore70:      152_500,
			AllowanceAfter70:       30_500,
			RateLow:                0.20,
			RateHighThreshold:      700_000,
			RateHigh:               0.3125,
			VieGenerationReduction: 0.20,
		},
		FuneralDeductionCap:    1_500,
		MainResidenceReduction: 0.20,
		DutreilExemptionRate:   0.75,
		RuralThreshold:         300_000,
		RuralRateLow:           0.75,
		RuralRateHigh:          0.50,
		ForestryRate:           0.75,
		RecallYears:            15,
	}
}

// LoadFile reads a YAML parameter file over the defaults, so a partial file
// only overrides what it names.
func LoadFile(path string) (*LegalParameters, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read legal parameters: %w", err)
	}
	p := Default()
	if err := yaml.Unmarshal(raw, p); err != nil {
		return nil, fmt.Errorf("parse legal parameters: %w", err)
	}
	if err := p.Check(); err != nil {
		return nil, err
	}
	return p, nil
}

// Check validates table consistency.
func (p *LegalParameters) Check() error {
	if len(p.Brackets[GroupDirect]) == 0 {
		return fmt.Errorf("legal parameters: direct-line brackets missing")
	}
	for group, brackets := range p.Brackets {
		prev := 0.0
		for i, b := range brackets {
			if b.Rate < 0 || b.Rate > 1 {
				return fmt.Errorf("legal parameters: %s bracket %d rate out of range", group, i)
			}
			if b.Min != prev {
				return fmt.Errorf("legal parameters: %s bracket %d not contiguous", group, i)
			}
			if b.Max != 0 {
				if b.Max <= b.Min {
					return fmt.Errorf("legal parameters: %s bracket %d empty", group, i)
				}
				prev = b.Max
			}
		}
	}
	if len(p.UsufructScale) == 0 {
		return fmt.Errorf("legal parameters: usufruct scale missing")
	}
	for i := 1; i < len(p.UsufructScale); i++ {
		if p.UsufructScale[i].MaxAge <= p.UsufructScale[i-1].MaxAge {
			return fmt.Errorf("legal parameters: usufruct scale not ascending at band %d", i)
		}
	}
	return nil
}
