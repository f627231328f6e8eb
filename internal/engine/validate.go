package engine

import (
	"fmt"
	"strings"

	"succession-engine/internal/model"
)

// InputError reports structural problems that prevent any calculation.
// Domain-level inconsistencies never end up here; they become alerts.
type InputError struct {
	Problems []string
}

func (e *InputError) Error() string {
	return "invalid simulation input: " + strings.Join(e.Problems, "; ")
}

func validateInput(in *model.SimulationInput) error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if !in.MatrimonialRegime.Valid() {
		add("unknown matrimonial regime %q", in.MatrimonialRegime)
	}
	if in.DeathDate == "" {
		add("death_date is required")
	} else if _, err := parseDate(in.DeathDate); err != nil {
		add("death_date %q is not a valid date", in.DeathDate)
	}
	if in.MarriageDate != "" {
		if _, err := parseDate(in.MarriageDate); err != nil {
			add("marriage_date %q is not a valid date", in.MarriageDate)
		}
	}

	if len(in.Heirs) == 0 {
		add("at least one heir is required")
	}
	heirIDs := map[string]bool{}
	renounced := map[string]bool{}
	for i := range in.Heirs {
		h := &in.Heirs[i]
		if h.ID == "" {
			add("heir %d has no id", i)
			continue
		}
		if heirIDs[h.ID] {
			add("duplicate heir id %q", h.ID)
		}
		heirIDs[h.ID] = true
		if h.Renounced() {
			renounced[h.ID] = true
		}
		if !h.Relationship.Valid() {
			add("heir %q has unknown relationship %q", h.ID, h.Relationship)
		}
		if h.BirthDate == "" {
			add("heir %q has no birth_date", h.ID)
		} else if _, err := parseDate(h.BirthDate); err != nil {
			add("heir %q birth_date %q is not a valid date", h.ID, h.BirthDate)
		}
	}

	assetIDs := map[string]bool{}
	for i := range in.Assets {
		a := &in.Assets[i]
		if a.ID == "" {
			add("asset %d has no id", i)
			continue
		}
		if assetIDs[a.ID] {
			add("duplicate asset id %q", a.ID)
		}
		assetIDs[a.ID] = true
		if a.EstimatedValue.IsNegative() {
			add("asset %q has a negative value", a.ID)
		}
		if a.CCAValue.IsNegative() {
			add("asset %q has a negative cca_value", a.ID)
		}
		if a.AssetOrigin != "" && !a.AssetOrigin.Valid() {
			add("asset %q has unknown origin %q", a.ID, a.AssetOrigin)
		}
		if a.OwnershipMode != "" && !a.OwnershipMode.Valid() {
			add("asset %q has unknown ownership mode %q", a.ID, a.OwnershipMode)
		}
		if a.CommunityFundingPercentage < 0 || a.CommunityFundingPercentage > 100 {
			add("asset %q community_funding_percentage out of [0,100]", a.ID)
		}
		if a.AcquisitionDate != "" {
			if _, err := parseDate(a.AcquisitionDate); err != nil {
				add("asset %q acquisition_date %q is not a valid date", a.ID, a.AcquisitionDate)
			}
		}
		if a.PremiumsBefore70 != nil && a.PremiumsBefore70.IsNegative() {
			add("asset %q has negative premiums_before_70", a.ID)
		}
		if a.PremiumsAfter70 != nil && a.PremiumsAfter70.IsNegative() {
			add("asset %q has negative premiums_after_70", a.ID)
		}
		for _, b := range a.LifeInsuranceBeneficiaries {
			if b.BeneficiaryID == "" {
				add("asset %q has a life-insurance beneficiary with no id", a.ID)
			}
			if b.SharePercentage < 0 || b.SharePercentage > 100 {
				add("asset %q beneficiary %q share out of [0,100]", a.ID, b.BeneficiaryID)
			}
		}
	}

	for i := range in.Donations {
		d := &in.Donations[i]
		if d.ID == "" {
			add("donation %d has no id", i)
			continue
		}
		if d.OriginalValue.IsNegative() {
			add("donation %q has a negative original value", d.ID)
		}
		if d.DonationDate == "" {
			add("donation %q has no donation_date", d.ID)
		} else if _, err := parseDate(d.DonationDate); err != nil {
			add("donation %q donation_date %q is not a valid date", d.ID, d.DonationDate)
		}
	}

	for i := range in.Debts {
		d := &in.Debts[i]
		if d.ID == "" {
			add("debt %d has no id", i)
			continue
		}
		if d.Amount.IsNegative() {
			add("debt %q has a negative amount", d.ID)
		}
	}

	if in.Wishes != nil {
		w := in.Wishes
		if w.TestamentDistribution == model.DistributionCustom {
			sum := 0.0
			for _, cs := range w.CustomShares {
				sum += cs.Percentage
				if !heirIDs[cs.BeneficiaryID] {
					add("custom share names unknown heir %q", cs.BeneficiaryID)
				} else if renounced[cs.BeneficiaryID] {
					add("custom share names renouncing heir %q", cs.BeneficiaryID)
				}
			}
			if len(w.CustomShares) == 0 {
				add("CUSTOM distribution requires custom_shares")
			} else if sum < 99.999 || sum > 100.001 {
				add("custom shares sum to %.3f%%, expected 100%%", sum)
			}
		}
		for _, b := range w.SpecificBequests {
			if !assetIDs[b.AssetID] {
				add("bequest names unknown asset %q", b.AssetID)
			}
			if !heirIDs[b.BeneficiaryID] {
				add("bequest names unknown beneficiary %q", b.BeneficiaryID)
			}
		}
	}

	if adv := in.MatrimonialAdvantages; adv != nil {
		if adv.HasPreciput && len(adv.PreciputAssetIDs) == 0 {
			add("preciput clause set without preciput_asset_ids")
		}
		if adv.HasUnequalShare && (adv.SpouseSharePercentage < 51 || adv.SpouseSharePercentage > 99) {
			add("unequal share clause requires spouse_share_percentage in [51,99]")
		}
	}

	if len(problems) > 0 {
		return &InputError{Problems: problems}
	}
	return nil
}
