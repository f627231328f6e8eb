package engine

import (
	"fmt"

	"succession-engine/internal/model"
	"succession-engine/internal/rules"
)

func (s *state) buildOutput() *model.SuccessionOutput {
	attributions := make([]model.AssetAttribution, len(s.attributions))
	for i, at := range s.attributions {
		attributions[i] = model.AssetAttribution{
			AssetID:       at.AssetID,
			DeceasedShare: model.RoundCents(at.DeceasedShare),
			SpouseShare:   model.RoundCents(at.SpouseShare),
			PreciputShare: model.RoundCents(at.PreciputShare),
		}
	}

	out := &model.SuccessionOutput{
		GlobalMetrics: model.GlobalMetrics{
			TotalEstateValue:       model.RoundCents(s.mass),
			LegalReserveValue:      model.RoundCents(s.legalReserve),
			DisposableQuotaValue:   model.RoundCents(s.disposableQuota),
			TotalTaxAmount:         model.RoundCents(s.inheritanceTax.Add(s.liTax)),
			InheritanceTaxAmount:   model.RoundCents(s.inheritanceTax),
			LifeInsuranceTaxAmount: model.RoundCents(s.liTax),
			ExplanationKeys:        s.tr.Keys(),
		},
		HeirsBreakdown: s.heirRows,
		FamilyContext:  s.buildFamilyContext(),
		LiquidationDetails: model.LiquidationDetails{
			Regime:                 s.in.MatrimonialRegime,
			CommunityAssetsTotal:   model.RoundCents(s.communityTotal),
			SpouseCommunityShare:   model.RoundCents(s.spouseCommunity),
			DeceasedCommunityShare: model.RoundCents(s.deceasedCommunity),
			PersonalAssetsDeceased: model.RoundCents(s.personalAssets),
			RewardsToDeceased:      model.RoundCents(s.rewardsDeceased),
			RewardsToSpouse:        model.RoundCents(s.rewardsSpouse),
			HasFullAttribution:     s.hasFullAttribution,
			HasPreciput:            s.preciputValue.IsPositive(),
			PreciputValue:          model.RoundCents(s.preciputValue),
			Attributions:           attributions,
			Details:                s.liquidationLines,
		},
		SpouseDetails:    s.buildSpouseDetails(),
		AssetsBreakdown:  s.buildAssetsBreakdown(),
		LifeInsurance:    s.liLines,
		CalculationSteps: s.tr.Steps(),
		Warnings:         s.tr.Alerts(),
	}
	return out
}

func (s *state) buildFamilyContext() model.FamilyContext {
	fc := model.FamilyContext{
		NumChildren:     len(s.heirsWith(model.RelChild)),
		HasStepchildren: s.hasStepchildren(),
	}
	if spouse := s.spouse(); spouse != nil {
		fc.HasSpouse = true
		age := 0
		if spouse.BirthDate != "" {
			age = rules.AgeAt(mustDate(spouse.BirthDate), s.deathDate)
		}
		fc.SpouseAge = &age
	}
	for i := range s.in.Heirs {
		if s.in.Heirs[i].RepresentedHeirID != "" {
			fc.NumRepresentatives++
		}
	}
	return fc
}

func (s *state) buildSpouseDetails() *model.SpouseDetails {
	var spouse *model.Heir
	for i := range s.in.Heirs {
		if s.in.Heirs[i].Relationship.IsSpouseOrPartner() {
			spouse = &s.in.Heirs[i]
			break
		}
	}
	if spouse == nil {
		return nil
	}
	details := &model.SpouseDetails{ChoiceMade: string(s.spouseChoice)}
	if s.spouseUsufruct != nil {
		usu := model.RoundCents(s.spouseUsufruct.usufructValue)
		bare := model.RoundCents(s.spouseUsufruct.bareValue)
		details.HasUsufruct = true
		details.UsufructValue = &usu
		details.BareOwnershipValue = &bare
		details.UsufructRate = s.spouseUsufruct.rate
	}
	return details
}

func (s *state) buildAssetsBreakdown() []model.AssetBreakdown {
	bequestNotes := map[string][]string{}
	for _, b := range s.bequestList {
		bequestNotes[b.assetID] = append(bequestNotes[b.assetID],
			fmt.Sprintf("légué à %s (%.0f%%)", b.beneficiaryID, b.sharePct))
	}

	out := make([]model.AssetBreakdown, 0, len(s.in.Assets))
	for i := range s.in.Assets {
		a := &s.in.Assets[i]
		var notes []string
		if a.IsLifeInsurance() {
			notes = append(notes, "assurance-vie, hors succession")
		}
		if a.AssetOrigin == model.OriginCommunity {
			notes = append(notes, "bien commun au couple")
		}
		if a.OwnershipMode == model.OwnershipBare {
			notes = append(notes, "nue-propriété, usufruit détenu par un tiers")
		}
		if a.OwnershipMode == model.OwnershipIndivision && a.Indivision != nil {
			notes = append(notes, fmt.Sprintf("indivision, part du défunt %.0f%%", a.Indivision.DeceasedSharePercentage()))
		}
		if a.ReceivedFromParentID != "" {
			notes = append(notes, "reçu par donation d'un parent (droit de retour possible)")
		}
		notes = append(notes, bequestNotes[a.ID]...)
		out = append(out, model.AssetBreakdown{
			AssetID:       a.ID,
			AssetValue:    model.RoundCents(a.EstimatedValue),
			OwnershipMode: a.OwnershipMode,
			AssetOrigin:   a.AssetOrigin,
			Notes:         notes,
		})
	}
	return out
}
