package engine

import (
	"fmt"

	"succession-engine/internal/model"
	"succession-engine/internal/params"
	"succession-engine/internal/rules"
)

// taxInheritance computes the droits de succession per heir: civil share
// plus the Art. 757 B add-back, minus the pro-rata professional exemptions,
// then allowance (with the 15-year recall) and progressive brackets.
// Amounts are rounded half-to-even once per heir, here.
func (s *state) taxInheritance() {
	s.computeProfessionalExemptions()

	for i := range s.in.Heirs {
		h := &s.in.Heirs[i]
		s.heirRows = append(s.heirRows, s.taxHeir(h))
	}

	s.tr.Step(6, "Calcul des droits de succession",
		"Abattements puis barème fiscal pour chaque héritier (Art. 777, 779, 784 CGI).",
		fmt.Sprintf("Droits de succession : %s, droits d'assurance-vie : %s",
			euros(s.inheritanceTax), euros(s.liTax)))
}

func (s *state) computeProfessionalExemptions() {
	for i := range s.in.Assets {
		a := &s.in.Assets[i]
		if a.IsLifeInsurance() || a.ProfessionalExemption == nil {
			continue
		}
		// The exemption base is the asset value alone: the CCA claim stays
		// fully taxable (Art. 787 B CGI).
		exempt := rules.ProfessionalExemption(s.p, a.EstimatedValue, a.ProfessionalExemption)
		if !exempt.IsPositive() {
			continue
		}
		s.exemptionTotal = s.exemptionTotal.Add(exempt)
		key := model.KeyExemptionDutreil
		switch a.ProfessionalExemption.ExemptionType {
		case model.ExemptionRuralLease:
			key = model.KeyExemptionRural
		case model.ExemptionForestry:
			key = model.KeyExemptionForestry
		}
		s.tr.Key(key, map[string]string{"asset_id": a.ID, "exempt": euros(exempt)})
		if a.CCAValue.IsPositive() {
			s.tr.FiscalNote(
				fmt.Sprintf("Compte courant d'associé sur %s hors exonération", a.ID),
				fmt.Sprintf("Le CCA (%s) reste taxable en totalité; seule la valeur des parts bénéficie de l'exonération.", euros(a.CCAValue)))
		}
	}
}

func (s *state) taxHeir(h *model.Heir) model.HeirBreakdown {
	ent, ok := s.entitlement[h.ID]
	if !ok {
		ent = model.Zero()
	}
	ror, ok := s.returnByParent[h.ID]
	if !ok {
		ror = model.Zero()
	}
	addback, ok := s.addback757B[h.ID]
	if !ok {
		addback = model.Zero()
	}
	imputed, ok := s.imputedGift[h.ID]
	if !ok {
		imputed = model.Zero()
	}

	// Civil value net of the imputed gifts: prior donations were taxed when
	// declared; only new money is taxed here.
	newMoney := ent.Sub(imputed)
	if newMoney.IsNegative() {
		newMoney = model.Zero()
	}

	exemptShare := model.MulFrac(s.exemptionTotal, s.shares[h.ID])
	taxable := newMoney.Add(addback).Sub(exemptShare)
	if taxable.IsNegative() {
		taxable = model.Zero()
	}

	sharePct := 0.0
	if s.mass.IsPositive() {
		sharePct, _ = ent.Div(s.mass).Float64()
	}

	row := model.HeirBreakdown{
		ID:                h.ID,
		Name:              heirName(h),
		LegalSharePercent: sharePct * 100,
		GrossShareValue:   model.RoundCents(ent),
		ReceivedAssets:    s.receivedAssets(h, ror),
	}

	if h.Renounced() && !ent.IsPositive() && !addback.IsPositive() {
		row.TaxableBase = model.Zero()
		row.AbatementUsed = model.Zero()
		row.TaxAmount = model.Zero()
		row.NetShareValue = model.Zero()
		row.ExplanationKeys = s.heirKeys[h.ID]
		return row
	}

	if h.Relationship.IsSpouseOrPartner() && !h.Renounced() {
		row.TaxableBase = model.Zero()
		row.AbatementUsed = model.RoundCents(taxable)
		row.TaxAmount = model.Zero()
		row.NetShareValue = model.RoundCents(ent.Add(ror).Add(addback))
		s.heirKey(h.ID, model.KeyTaxSpouseExempt, map[string]string{"heir_id": h.ID})
		row.ExplanationKeys = s.heirKeys[h.ID]
		row.TaxCalculation = &model.TaxCalculation{
			Relationship:    h.Relationship,
			GrossAmount:     model.RoundCents(taxable),
			AllowanceAmount: model.RoundCents(taxable),
			NetTaxable:      model.Zero(),
			BracketsApplied: []model.BracketDetail{},
			TotalTax:        model.Zero(),
		}
		return row
	}

	effRel := h.Relationship
	if h.Relationship == model.RelChild && h.AdoptionType == model.AdoptionSimple && !h.HasReceivedContinuousCare {
		// Adoption simple without continuous care: taxed as a stranger
		// (Art. 786 CGI).
		effRel = model.RelOther
		s.heirKey(h.ID, model.KeyTaxAdoptionSimple60, map[string]string{"heir_id": h.ID})
	}

	baseAllowance := rules.AllowanceFor(s.p, effRel)
	recall := s.fiscalRecall(h.ID)
	remaining := model.Euros(baseAllowance).Sub(recall)
	if remaining.IsNegative() {
		remaining = model.Zero()
	}
	if recall.IsPositive() {
		s.heirKey(h.ID, model.KeyAbatementConsumed15Y, map[string]string{
			"heir_id": h.ID, "recalled": euros(recall), "remaining": euros(remaining),
		})
	}
	allowance := remaining
	if h.IsDisabled {
		allowance = allowance.Add(model.Euros(s.p.DisabilityAllowance))
		s.heirKey(h.ID, model.KeyAbatementDisability, map[string]string{"heir_id": h.ID})
	}
	s.heirKey(h.ID, allowanceKey(effRel), map[string]string{"allowance": euros(allowance)})

	netTaxable := taxable.Sub(allowance)
	if netTaxable.IsNegative() {
		netTaxable = model.Zero()
	}
	allowanceUsed := taxable.Sub(netTaxable)

	group := rules.GroupFor(effRel)
	tax, brackets := rules.ApplyBrackets(netTaxable, s.p.Brackets[group])
	if netTaxable.IsPositive() {
		s.heirKey(h.ID, bracketKey(group), map[string]string{"net_taxable": euros(netTaxable), "tax": euros(tax)})
	}
	if brackets == nil {
		brackets = []model.BracketDetail{}
	}
	for i := range brackets {
		brackets[i].TaxableInBracket = model.RoundCents(brackets[i].TaxableInBracket)
		brackets[i].TaxForBracket = model.RoundCents(brackets[i].TaxForBracket)
	}

	if len(s.heirKeys[h.ID]) == 0 {
		// Heir excluded by a closer order; the zero share still gets its why.
		s.heirKey(h.ID, model.KeyShareExcludedByOrder, map[string]string{"heir_id": h.ID})
	}

	tax = model.RoundCents(tax)
	row.TaxableBase = model.RoundCents(netTaxable)
	row.AbatementUsed = model.RoundCents(allowanceUsed)
	row.TaxAmount = tax
	row.NetShareValue = model.RoundCents(ent.Add(ror).Add(addback).Sub(tax))
	row.ExplanationKeys = s.heirKeys[h.ID]
	row.TaxCalculation = &model.TaxCalculation{
		Relationship:    h.Relationship,
		GrossAmount:     model.RoundCents(taxable),
		AllowanceAmount: model.RoundCents(allowanceUsed),
		NetTaxable:      model.RoundCents(netTaxable),
		BracketsApplied: brackets,
		TotalTax:        tax,
	}
	s.inheritanceTax = s.inheritanceTax.Add(tax)
	return row
}

// fiscalRecall sums the donations declared to the tax authorities within the
// recall window before death (Art. 784 CGI). The declared value is the
// original one retained at declaration.
func (s *state) fiscalRecall(heirID string) model.Money {
	recall := model.Zero()
	windowStart := s.deathDate.AddDate(-s.p.RecallYears, 0, 0)
	for i := range s.in.Donations {
		d := &s.in.Donations[i]
		if d.BeneficiaryID != heirID || !d.IsDeclaredToTax {
			continue
		}
		date, _ := parseDate(d.DonationDate)
		if date.Before(windowStart) || date.After(s.deathDate) {
			continue
		}
		recall = recall.Add(d.OriginalValue)
	}
	return recall
}

func (s *state) receivedAssets(h *model.Heir, ror model.Money) []model.ReceivedAsset {
	var out []model.ReceivedAsset
	for _, b := range s.bequestList {
		if b.beneficiaryID == h.ID {
			out = append(out, model.ReceivedAsset{
				AssetID: b.assetID,
				Value:   model.RoundCents(b.value),
				Note:    fmt.Sprintf("legs particulier (%.0f%%)", b.sharePct),
			})
		}
	}
	if ror.IsPositive() {
		out = append(out, model.ReceivedAsset{
			AssetID: "",
			Value:   model.RoundCents(ror),
			Note:    "droit de retour (Art. 738-2 CC)",
		})
	}
	return out
}

func heirName(h *model.Heir) string {
	if h.Name != "" {
		return h.Name
	}
	return h.ID
}

func allowanceKey(rel model.Relationship) string {
	switch rel {
	case model.RelChild, model.RelParent, model.RelGrandchild, model.RelGreatGrandchild:
		return model.KeyAbatementChild100K
	case model.RelSibling:
		return model.KeyAbatementSibling
	case model.RelNephewNiece:
		return model.KeyAbatementNephew
	default:
		return model.KeyAbatementOther
	}
}

func bracketKey(group params.BracketGroup) string {
	switch group {
	case params.GroupSibling:
		return model.KeyTaxBracketsSibling
	case params.GroupNephew:
		return model.KeyTaxRateCollateral
	case params.GroupStranger:
		return model.KeyTaxRateStranger
	default:
		return model.KeyTaxBracketsDirect
	}
}
