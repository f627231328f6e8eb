package rules

import (
	"succession-engine/internal/model"
	"succession-engine/internal/params"
)

// GroupFor maps a relationship to its bracket group. Simple adoption without
// continuous care is re-qualified by the caller before reaching here.
func GroupFor(rel model.Relationship) params.BracketGroup {
	switch rel {
	case model.RelChild, model.RelParent, model.RelGrandchild, model.RelGreatGrandchild:
		return params.GroupDirect
	case model.RelSibling:
		return params.GroupSibling
	case model.RelNephewNiece:
		return params.GroupNephew
	default:
		return params.GroupStranger
	}
}

// ApplyBrackets runs a net taxable amount through a progressive scale,
// returning the tax and the per-bracket detail.
func ApplyBrackets(net model.Money, brackets []params.Bracket) (model.Money, []model.BracketDetail) {
	tax := model.Zero()
	var details []model.BracketDetail

	for _, b := range brackets {
		low := model.Euros(b.Min)
		if net.LessThanOrEqual(low) {
			break
		}
		upper := net
		var maxPtr *model.Money
		if b.Max != 0 {
			high := model.Euros(b.Max)
			maxPtr = &high
			if upper.GreaterThan(high) {
				upper = high
			}
		}
		slice := upper.Sub(low)
		if slice.IsNegative() {
			continue
		}
		sliceTax := model.MulFrac(slice, b.Rate)
		tax = tax.Add(sliceTax)
		details = append(details, model.BracketDetail{
			BracketMin:       low,
			BracketMax:       maxPtr,
			Rate:             b.Rate,
			TaxableInBracket: slice,
			TaxForBracket:    sliceTax,
		})
	}
	return tax, details
}

// AllowanceFor returns the relationship allowance (Art. 779/788 CGI).
// Spouse and partner are fully exempt and handled by the caller.
func AllowanceFor(p *params.LegalParameters, rel model.Relationship) float64 {
	switch rel {
	case model.RelChild, model.RelParent, model.RelGrandchild, model.RelGreatGrandchild:
		return p.AllowanceChild
	case model.RelSibling:
		return p.AllowanceSibling
	case model.RelNephewNiece:
		return p.AllowanceNephew
	default:
		return p.AllowanceOther
	}
}

// ProfessionalExemption computes the exempt amount on an asset value
// (Art. 787 B and 793 CGI). The CCA claim is excluded by the caller.
func ProfessionalExemption(p *params.LegalParameters, value model.Money, ex *model.ProfessionalExemption) model.Money {
	if ex == nil {
		return model.Zero()
	}
	switch ex.ExemptionType {
	case model.ExemptionDutreil:
		if ex.DutreilIsCollective && ex.DutreilIsIndividual {
			return model.MulFrac(value, p.DutreilExemptionRate)
		}
	case model.ExemptionRuralLease:
		if ex.LeaseDurationYears >= 18 {
			threshold := model.Euros(p.RuralThreshold)
			if value.LessThanOrEqual(threshold) {
				return model.MulFrac(value, p.RuralRateLow)
			}
			low := model.MulFrac(threshold, p.RuralRateLow)
			high := model.MulFrac(value.Sub(threshold), p.RuralRateHigh)
			return low.Add(high)
		}
	case model.ExemptionForestry:
		return model.MulFrac(value, p.ForestryRate)
	}
	return model.Zero()
}

// ExemptionRate returns the fraction of an asset exempted, for the Art. 769
// pro-rata on linked debts.
func ExemptionRate(p *params.LegalParameters, value model.Money, ex *model.ProfessionalExemption) float64 {
	if ex == nil || value.IsZero() {
		return 0
	}
	exempt := ProfessionalExemption(p, value, ex)
	rate, _ := exempt.Div(value).Float64()
	return rate
}
