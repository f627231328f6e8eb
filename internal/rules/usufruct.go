// Package rules holds the pure legal arithmetic: usufruct valuation,
// progressive tax scales, life-insurance regimes, reduction ordering and
// kinship degrees. Functions here take the parameter table as input and
// never touch engine state.
package rules

import (
	"time"

	"succession-engine/internal/model"
	"succession-engine/internal/params"
)

// UsufructRate returns the Art. 669 I CGI rate for a usufructuary age.
func UsufructRate(scale []params.UsufructBand, age int) float64 {
	for _, band := range scale {
		if age < band.MaxAge {
			return band.Rate
		}
	}
	return 0.10
}

// TemporaryUsufructRate values a fixed-term usufruct (Art. 669 II CGI):
// 23% of full ownership per started decade, regardless of age.
func TemporaryUsufructRate(ratePerDecade float64, durationYears int) float64 {
	if durationYears <= 0 {
		return 0
	}
	decades := (durationYears + 9) / 10
	rate := float64(decades) * ratePerDecade
	if rate > 1 {
		return 1
	}
	return rate
}

// AgeAt computes full years between birth and a reference date.
func AgeAt(birth, at time.Time) int {
	years := at.Year() - birth.Year()
	if at.Month() < birth.Month() || (at.Month() == birth.Month() && at.Day() < birth.Day()) {
		years--
	}
	return years
}

// UsufructValue splits a full-ownership value into usufruct and bare
// ownership for a life usufruct at the given age.
func UsufructValue(p *params.LegalParameters, total model.Money, age int) (usufruct, bare model.Money, rate float64) {
	rate = UsufructRate(p.UsufructScale, age)
	usufruct = model.MulFrac(total, rate)
	bare = total.Sub(usufruct)
	return usufruct, bare, rate
}
