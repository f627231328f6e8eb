package engine

import (
	"fmt"

	"succession-engine/internal/model"
	"succession-engine/internal/rules"
)

type liPortion struct {
	asset         *model.Asset
	beneficiaryID string
	before        model.Money
	after         model.Money
	dismembered   bool
}

// taxLifeInsurance applies the dedicated life-insurance regimes: Art. 990 I
// CGI on premiums paid before 70 and Art. 757 B CGI on premiums paid after
// 70, whose taxable remainder re-enters the civil base of the inheritance
// tax stage.
func (s *state) taxLifeInsurance() {
	if len(s.lifeInsuranceAssets) == 0 {
		s.tr.Step(5, "Fiscalité des assurances-vie",
			"Calcul spécifique pour les contrats d'assurance-vie (hors succession).",
			"Aucun contrat d'assurance-vie.")
		return
	}

	var portions []liPortion
	for _, a := range s.lifeInsuranceAssets {
		if a.LifeInsuranceContractType == model.ContractAncien {
			s.liLines = append(s.liLines, model.LifeInsuranceLine{
				AssetID:       a.ID,
				ContractType:  a.LifeInsuranceContractType,
				TaxableBase:   model.Zero(),
				AllowanceUsed: model.Zero(),
				TaxAmount:     model.Zero(),
				AddedToCivil:  model.Zero(),
				ExplanationKeys: []model.Explanation{{
					Key:     model.KeyLIAncienExempt,
					Context: map[string]string{"asset_id": a.ID},
				}},
			})
			continue
		}

		before := model.Zero()
		if a.PremiumsBefore70 != nil {
			before = *a.PremiumsBefore70
		}
		after := model.Zero()
		if a.PremiumsAfter70 != nil {
			after = *a.PremiumsAfter70
		}
		if a.LifeInsuranceContractType == model.ContractVieGeneration {
			reduced := rules.VieGenerationBase(s.p, before)
			s.tr.Key(model.KeyLIVieGeneration, map[string]string{
				"asset_id": a.ID, "premiums": euros(before), "reduced": euros(reduced),
			})
			before = reduced
		}

		bens := a.LifeInsuranceBeneficiaries
		if len(bens) == 0 {
			// No clause in the input: split equally between accepting heirs.
			var accepting []*model.Heir
			for i := range s.in.Heirs {
				if !s.in.Heirs[i].Renounced() {
					accepting = append(accepting, &s.in.Heirs[i])
				}
			}
			if len(accepting) == 0 {
				continue
			}
			s.tr.DataWarning(
				fmt.Sprintf("Clause bénéficiaire absente sur le contrat %s", a.ID),
				"Les capitaux sont répartis par parts égales entre les héritiers acceptants.")
			per := 100.0 / float64(len(accepting))
			for _, h := range accepting {
				bens = append(bens, model.LifeInsuranceBeneficiary{BeneficiaryID: h.ID, SharePercentage: per})
			}
		}

		// Dismembered clause: the usufructuary's age values both portions.
		usuRate := 0.0
		dismembered := false
		for _, b := range bens {
			if b.Ownership == model.BeneficiaryUsufruct {
				dismembered = true
				if h, ok := s.heirByID[b.BeneficiaryID]; ok {
					usuRate = rules.UsufructRate(s.p.UsufructScale, rules.AgeAt(mustDate(h.BirthDate), s.deathDate))
				}
			}
		}
		if dismembered && usuRate == 0 {
			s.tr.DataWarning(
				fmt.Sprintf("Clause démembrée incomplète sur le contrat %s", a.ID),
				"Usufruitier introuvable parmi les héritiers; les parts sont traitées en pleine propriété.")
			dismembered = false
		}

		for _, b := range bens {
			frac := b.SharePercentage / 100
			pBefore := model.MulFrac(before, frac)
			pAfter := model.MulFrac(after, frac)
			if dismembered {
				switch b.Ownership {
				case model.BeneficiaryUsufruct:
					pBefore = model.MulFrac(pBefore, usuRate)
					pAfter = model.MulFrac(pAfter, usuRate)
				case model.BeneficiaryBare:
					pBefore = model.MulFrac(pBefore, 1-usuRate)
					pAfter = model.MulFrac(pAfter, 1-usuRate)
				}
				s.tr.Key(model.KeyLIDismembered, map[string]string{
					"asset_id": a.ID, "beneficiary_id": b.BeneficiaryID, "usufruct_rate": pct(usuRate),
				})
			}
			portions = append(portions, liPortion{
				asset:         a,
				beneficiaryID: b.BeneficiaryID,
				before:        pBefore,
				after:         pAfter,
				dismembered:   dismembered,
			})
		}
	}

	// Art. 990 I: 152 500 € per beneficiary, consumed across contracts in
	// input order, then 20% up to 700 000 € and 31.25% beyond.
	remaining := map[string]model.Money{}
	for _, p := range portions {
		if !p.before.IsPositive() {
			continue
		}
		rel := s.beneficiaryRelationship(p.asset.ID, p.beneficiaryID)
		if rel.IsSpouseOrPartner() {
			s.liLines = append(s.liLines, model.LifeInsuranceLine{
				AssetID:       p.asset.ID,
				ContractType:  p.asset.LifeInsuranceContractType,
				BeneficiaryID: p.beneficiaryID,
				TaxableBase:   model.Zero(),
				AllowanceUsed: model.Zero(),
				TaxAmount:     model.Zero(),
				AddedToCivil:  model.Zero(),
				ExplanationKeys: []model.Explanation{{
					Key:     model.KeyTaxSpouseExempt,
					Context: map[string]string{"asset_id": p.asset.ID, "beneficiary_id": p.beneficiaryID},
				}},
			})
			continue
		}
		rem, ok := remaining[p.beneficiaryID]
		if !ok {
			rem = model.Euros(s.p.LifeInsurance.AllowanceBefore70)
		}
		used := p.before
		if used.GreaterThan(rem) {
			used = rem
		}
		taxable := p.before.Sub(used)
		remaining[p.beneficiaryID] = rem.Sub(used)
		tax := rules.Tax990I(s.p, taxable)
		s.liTax = s.liTax.Add(tax)
		s.liLines = append(s.liLines, model.LifeInsuranceLine{
			AssetID:       p.asset.ID,
			ContractType:  p.asset.LifeInsuranceContractType,
			BeneficiaryID: p.beneficiaryID,
			TaxableBase:   model.RoundCents(taxable),
			AllowanceUsed: model.RoundCents(used),
			TaxAmount:     model.RoundCents(tax),
			AddedToCivil:  model.Zero(),
			ExplanationKeys: []model.Explanation{{
				Key: model.KeyLI990I,
				Context: map[string]string{
					"asset_id":       p.asset.ID,
					"beneficiary_id": p.beneficiaryID,
					"taxable":        euros(taxable),
					"tax":            euros(tax),
				},
			}},
		})
	}

	// Art. 757 B: a single 30 500 € allowance shared proportionally between
	// every beneficiary of post-70 premiums; the remainder re-enters each
	// beneficiary's civil taxable base.
	totalAfter := model.Zero()
	var afterOrder []string
	afterByBen := map[string]model.Money{}
	afterAssets := map[string]string{}
	for _, p := range portions {
		if !p.after.IsPositive() {
			continue
		}
		if _, ok := afterByBen[p.beneficiaryID]; !ok {
			afterOrder = append(afterOrder, p.beneficiaryID)
			afterByBen[p.beneficiaryID] = model.Zero()
			afterAssets[p.beneficiaryID] = p.asset.ID
		}
		afterByBen[p.beneficiaryID] = afterByBen[p.beneficiaryID].Add(p.after)
		totalAfter = totalAfter.Add(p.after)
	}
	if totalAfter.IsPositive() {
		allowance := model.Euros(s.p.LifeInsurance.AllowanceAfter70)
		for _, ben := range afterOrder {
			amount := afterByBen[ben]
			frac, _ := amount.Div(totalAfter).Float64()
			benAllowance := model.MulFrac(allowance, frac)
			if benAllowance.GreaterThan(amount) {
				benAllowance = amount
			}
			addback := amount.Sub(benAllowance)
			s.addback757B[ben] = addback
			s.liLines = append(s.liLines, model.LifeInsuranceLine{
				AssetID:       afterAssets[ben],
				ContractType:  model.ContractStandard,
				BeneficiaryID: ben,
				TaxableBase:   model.Zero(),
				AllowanceUsed: model.RoundCents(benAllowance),
				TaxAmount:     model.Zero(),
				AddedToCivil:  model.RoundCents(addback),
				ExplanationKeys: []model.Explanation{{
					Key: model.KeyLI757B,
					Context: map[string]string{
						"beneficiary_id": ben,
						"premiums":       euros(amount),
						"allowance":      euros(benAllowance),
						"added_to_base":  euros(addback),
					},
				}},
			})
		}
	}

	s.tr.Step(5, "Fiscalité des assurances-vie",
		"Calcul spécifique pour les contrats d'assurance-vie (hors succession).",
		fmt.Sprintf("%d contrat(s), droits : %s, réintégration 757 B : %s",
			len(s.lifeInsuranceAssets), euros(s.liTax), euros(totalAfter)))
}

func (s *state) beneficiaryRelationship(assetID, beneficiaryID string) model.Relationship {
	if h, ok := s.heirByID[beneficiaryID]; ok {
		return h.Relationship
	}
	s.tr.DataWarning(
		fmt.Sprintf("Bénéficiaire %s du contrat %s inconnu de la famille", beneficiaryID, assetID),
		"Le bénéficiaire est traité comme un tiers, sans exonération du conjoint.")
	return model.RelOther
}
