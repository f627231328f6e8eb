package engine

import (
	"fmt"

	"succession-engine/internal/model"
	"succession-engine/internal/rules"
)

// reconstitute builds the succession mass (Art. 843/922 CC): deceased net
// assets plus reportable donations minus deductible debts, then applies the
// statutory right of return of Art. 738-2 CC.
func (s *state) reconstitute() {
	if s.in.ResidenceCountry != "" && s.in.ResidenceCountry != "FR" {
		s.tr.Alert(model.SeverityWarning, model.AudienceNotary, model.CategoryLegal,
			fmt.Sprintf("Défunt résidant à l'étranger (%s)", s.in.ResidenceCountry),
			"La loi successorale française peut ne pas s'appliquer (Règlement UE 650/2012); vérifier une professio juris.",
			model.Explanation{Key: model.KeyAlertInternational, Context: map[string]string{"country": s.in.ResidenceCountry}})
	}

	// Rapport civil (Art. 843 CC).
	reported := 0
	for i := range s.in.Donations {
		d := &s.in.Donations[i]
		v := d.ReportableValue()
		if !v.IsPositive() {
			continue
		}
		reported++
		s.reportableTotal = s.reportableTotal.Add(v)
		prev, ok := s.reportableByHeir[d.BeneficiaryID]
		if !ok {
			prev = model.Zero()
		}
		s.reportableByHeir[d.BeneficiaryID] = prev.Add(v)
		s.tr.Key(model.KeyEstateReportedDonation, map[string]string{
			"donation_id":    d.ID,
			"beneficiary_id": d.BeneficiaryID,
			"value":          euros(v),
		})
	}

	// Passif déductible.
	for i := range s.in.Debts {
		d := &s.in.Debts[i]
		if !d.IsDeductible {
			continue
		}
		amount := d.Amount

		if d.Type == model.DebtTypeFuneral {
			cap := model.Euros(s.p.FuneralDeductionCap)
			if amount.GreaterThan(cap) && !d.ProofProvided {
				s.tr.DataWarning(
					fmt.Sprintf("Frais funéraires plafonnés à %s", euros(cap)),
					fmt.Sprintf("Montant déclaré %s sans justificatif (Art. 775 CGI).", euros(amount)),
					model.Explanation{Key: model.KeyEstateFuneralCap, Context: map[string]string{"debt_id": d.ID, "declared": euros(amount)}})
				amount = cap
			}
		}

		// Dette commune : seule la moitié pèse sur la succession.
		if d.AssetOrigin == model.OriginCommunity {
			amount = model.MulFrac(amount, 0.5)
		}

		// Art. 769 CGI: debt secured by a partially exempt asset is only
		// deductible in proportion of the taxed fraction.
		if d.LinkedAssetID != "" {
			if a, ok := s.assetByID[d.LinkedAssetID]; ok && a.ProfessionalExemption != nil {
				rate := rules.ExemptionRate(s.p, a.EstimatedValue, a.ProfessionalExemption)
				if rate > 0 {
					amount = model.MulFrac(amount, 1-rate)
					s.tr.FiscalNote(
						fmt.Sprintf("Dette %s réduite au prorata de l'exonération du bien %s", d.ID, d.LinkedAssetID),
						fmt.Sprintf("Part déductible limitée à la fraction taxée du bien (%s, Art. 769 CGI).", pct(1-rate)),
						model.Explanation{Key: model.KeyEstateDebtProrata769, Context: map[string]string{"debt_id": d.ID, "asset_id": d.LinkedAssetID, "deductible": euros(amount)}})
				}
			}
		}

		s.deductibleDebts = s.deductibleDebts.Add(amount)
	}

	s.mass = s.deceasedNet.Add(s.reportableTotal).Sub(s.deductibleDebts)
	if s.mass.IsNegative() {
		s.mass = model.Zero()
	}

	s.applyRightOfReturn()

	s.tr.Step(2, "Reconstitution de la masse successorale",
		"Ajout des donations rapportables (rapport civil) et déduction des dettes.",
		fmt.Sprintf("Masse successorale : %s (%d donation(s) rapportée(s) %s, dettes %s, droit de retour %s)",
			euros(s.mass), reported, euros(s.reportableTotal), euros(s.deductibleDebts), euros(s.returnTotal)))
}

// applyRightOfReturn implements Art. 738-2 CC: when the deceased has no
// descendants, an asset received by donation from a living parent heir goes
// back to that parent, within a quarter of the mass per parent. The returned
// value leaves the mass and is allocated outside devolution.
func (s *state) applyRightOfReturn() {
	if len(s.descendantSouches()) > 0 {
		return
	}
	parents := s.acceptingHeirsWith(model.RelParent)
	if len(parents) == 0 {
		return
	}
	parentByID := map[string]*model.Heir{}
	for _, p := range parents {
		parentByID[p.ID] = p
	}

	capPerParent := model.MulFrac(s.mass, 0.25)
	for i := range s.in.Assets {
		a := &s.in.Assets[i]
		if a.ReceivedFromParentID == "" || a.IsLifeInsurance() {
			continue
		}
		parent, ok := parentByID[a.ReceivedFromParentID]
		if !ok {
			continue
		}
		already, ok := s.returnByParent[parent.ID]
		if !ok {
			already = model.Zero()
		}
		room := capPerParent.Sub(already)
		if !room.IsPositive() {
			continue
		}
		value := a.EstimatedValue
		if value.GreaterThan(room) {
			value = room
		}
		s.returnByParent[parent.ID] = already.Add(value)
		s.returnTotal = s.returnTotal.Add(value)
		s.mass = s.mass.Sub(value)
		s.tr.Alert(model.SeverityInfo, model.AudienceNotary, model.CategoryLegal,
			fmt.Sprintf("Droit de retour sur le bien %s", a.ID),
			fmt.Sprintf("Le bien donné par le parent %s lui revient pour %s (plafond 1/4 de la succession par parent, Art. 738-2 CC).", parent.ID, euros(value)),
			model.Explanation{Key: model.KeyEstateRightOfReturn, Context: map[string]string{"asset_id": a.ID, "parent_id": parent.ID, "value": euros(value)}})
		s.heirKey(parent.ID, model.KeyEstateRightOfReturn, map[string]string{"asset_id": a.ID, "value": euros(value)})
	}
}
