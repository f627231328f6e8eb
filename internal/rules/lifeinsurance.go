package rules

import (
	"succession-engine/internal/model"
	"succession-engine/internal/params"
)

// Tax990I taxes a beneficiary's portion of pre-70 premiums after the
// per-beneficiary allowance (Art. 990 I CGI): 20% up to the threshold,
// 31.25% above.
func Tax990I(p *params.LegalParameters, taxable model.Money) model.Money {
	if !taxable.IsPositive() {
		return model.Zero()
	}
	threshold := model.Euros(p.LifeInsurance.RateHighThreshold)
	if taxable.LessThanOrEqual(threshold) {
		return model.MulFrac(taxable, p.LifeInsurance.RateLow)
	}
	low := model.MulFrac(threshold, p.LifeInsurance.RateLow)
	high := model.MulFrac(taxable.Sub(threshold), p.LifeInsurance.RateHigh)
	return low.Add(high)
}

// VieGenerationBase applies the Vie-Génération 20% reduction to premiums
// before any allowance.
func VieGenerationBase(p *params.LegalParameters, premiums model.Money) model.Money {
	return model.MulFrac(premiums, 1-p.LifeInsurance.VieGenerationReduction)
}
