package engine

import (
	"fmt"

	"succession-engine/internal/model"
	"succession-engine/internal/rules"
)

// liquidate splits every asset between the deceased's estate and the
// surviving spouse according to the matrimonial regime (Art. 1400+ CC),
// applies récompenses and the matrimonial advantage clauses, and produces
// the deceased's gross estate.
func (s *state) liquidate() {
	adv := s.in.MatrimonialAdvantages
	preciput := map[string]bool{}
	if adv != nil && adv.HasPreciput {
		for _, id := range adv.PreciputAssetIDs {
			preciput[id] = true
		}
	}

	// Community division fraction for the deceased's side. Full attribution
	// zeroes it per asset; the retranchement excess re-enters at pool level.
	deceasedFrac := 0.5
	switch {
	case adv != nil && adv.HasFullAttribution:
		deceasedFrac = 0
	case adv != nil && adv.HasUnequalShare:
		deceasedFrac = 1 - adv.SpouseSharePercentage/100
	}

	relief := model.Zero()

	for i := range s.in.Assets {
		a := &s.in.Assets[i]

		if a.IsLifeInsurance() {
			s.lifeInsuranceAssets = append(s.lifeInsuranceAssets, a)
			s.liquidationLines = append(s.liquidationLines,
				fmt.Sprintf("%s : assurance-vie, hors succession (%s)", a.ID, euros(a.EstimatedValue)))
			continue
		}
		if a.LocationCountry != "" && a.LocationCountry != "FR" {
			s.tr.Alert(model.SeverityWarning, model.AudienceNotary, model.CategoryFiscal,
				fmt.Sprintf("Bien %s situé à l'étranger (%s)", a.ID, a.LocationCountry),
				"Risque de double imposition, vérifier les conventions fiscales.",
				model.Explanation{Key: model.KeyAlertInternational, Context: map[string]string{"asset_id": a.ID, "country": a.LocationCountry}})
		}

		// Deceased's fraction of the raw asset when held in indivision.
		ownedPct := 100.0
		if a.OwnershipMode == model.OwnershipIndivision && a.Indivision != nil {
			ownedPct = a.Indivision.DeceasedSharePercentage()
			s.liquidationLines = append(s.liquidationLines,
				fmt.Sprintf("%s : part indivise du défunt %.0f%%", a.ID, ownedPct))
		}

		// Dismembered ownership is valued through the Art. 669 scale.
		dismFrac := s.dismembermentFraction(a)

		ownedFrac := ownedPct / 100 * dismFrac
		base := model.MulFrac(a.EstimatedValue, ownedFrac).Add(a.CCAValue)

		origin := a.AssetOrigin
		community := false
		switch origin {
		case model.OriginCommunity:
			switch s.in.MatrimonialRegime {
			case model.RegimeSeparation:
				s.tr.DataWarning(
					fmt.Sprintf("Bien %s déclaré commun sous séparation de biens", a.ID),
					"Un bien commun est impossible sous ce régime; il est traité comme bien propre du défunt.",
					model.Explanation{Key: model.KeyLiquidationSeparation, Context: map[string]string{"asset_id": a.ID}})
			case model.RegimeCommunityLegal:
				community = true
				if s.marriageDate != nil && a.AcquisitionDate != "" {
					acq, _ := parseDate(a.AcquisitionDate)
					if acq.Before(*s.marriageDate) {
						community = false // propre: acquired before the marriage
					}
				}
			case model.RegimeCommunityUniversal:
				community = true
			}
		case model.OriginPersonal, model.OriginInheritance, "":
			// propre du défunt
		}

		if a.AcquisitionDate != "" && s.marriageDate != nil && origin == model.OriginPersonal {
			acq, _ := parseDate(a.AcquisitionDate)
			if !acq.Before(*s.marriageDate) && s.in.MatrimonialRegime.IsCommunity() {
				s.tr.DataWarning(
					fmt.Sprintf("Bien %s déclaré propre mais acquis pendant le mariage", a.ID),
					"Vérifier une clause de remploi ou l'origine des fonds.")
			}
		}

		if preciput[a.ID] {
			s.preciputValue = s.preciputValue.Add(base)
			s.attributions = append(s.attributions, model.AssetAttribution{
				AssetID:       a.ID,
				DeceasedShare: model.Zero(),
				SpouseShare:   model.Zero(),
				PreciputShare: model.MulFrac(a.EstimatedValue, ownedFrac),
			})
			s.liquidationLines = append(s.liquidationLines,
				fmt.Sprintf("%s : préciput, prélevé hors partage par le conjoint (%s)", a.ID, euros(base)))
			s.tr.Key(model.KeyLiquidationPreciput, map[string]string{"asset_id": a.ID, "value": euros(base)})
			continue
		}

		if community {
			deceasedShare := model.MulFrac(base, deceasedFrac)
			s.communityTotal = s.communityTotal.Add(base)
			s.attributions = append(s.attributions, model.AssetAttribution{
				AssetID:       a.ID,
				DeceasedShare: model.MulFrac(a.EstimatedValue, deceasedFrac*ownedFrac),
				SpouseShare:   model.MulFrac(a.EstimatedValue, (1-deceasedFrac)*ownedFrac),
				PreciputShare: model.Zero(),
			})
			s.liquidationLines = append(s.liquidationLines,
				fmt.Sprintf("%s : bien commun, part succession %s", a.ID, euros(deceasedShare)))

			// Récompenses (Art. 1468 CC): community asset partly financed by
			// personal funds. The payer is not identified in the input, so the
			// reward splits 50/50 between the two estates.
			if f := a.CommunityFundingPercentage; f > 0 && f < 100 {
				reward := model.MulFrac(base, (100-f)/100)
				half := model.MulFrac(reward, 0.5)
				s.rewardsDeceased = s.rewardsDeceased.Add(half)
				s.rewardsSpouse = s.rewardsSpouse.Add(half)
				s.tr.DataWarning(
					fmt.Sprintf("Récompense sur le bien %s partagée 50/50", a.ID),
					"Le financement propre ne désigne pas l'époux payeur; la récompense est répartie par moitié entre les deux masses.",
					model.Explanation{Key: model.KeyAlertRewardHeuristic, Context: map[string]string{"asset_id": a.ID, "reward": euros(reward)}})
				s.tr.Key(model.KeyLiquidationReward, map[string]string{"asset_id": a.ID, "reward": euros(reward)})
			}

			if a.IsMainResidence && a.SpouseOccupiesProperty {
				r := model.MulFrac(deceasedShare, s.p.MainResidenceReduction)
				relief = relief.Add(r)
				s.tr.FiscalNote(
					fmt.Sprintf("Abattement résidence principale sur %s", a.ID),
					"Abattement de 20% sur la part du défunt, conjoint occupant (Art. 764 bis CGI).",
					model.Explanation{Key: model.KeyMainResidence20, Context: map[string]string{"asset_id": a.ID, "relief": euros(r)}})
			}
			continue
		}

		// Bien propre du défunt.
		s.personalAssets = s.personalAssets.Add(base)
		s.attributions = append(s.attributions, model.AssetAttribution{
			AssetID:       a.ID,
			DeceasedShare: model.MulFrac(a.EstimatedValue, ownedFrac),
			SpouseShare:   model.Zero(),
			PreciputShare: model.Zero(),
		})
		s.liquidationLines = append(s.liquidationLines,
			fmt.Sprintf("%s : bien propre du défunt (%s)", a.ID, euros(base)))

		if a.IsMainResidence && a.SpouseOccupiesProperty {
			r := model.MulFrac(base, s.p.MainResidenceReduction)
			relief = relief.Add(r)
			s.tr.FiscalNote(
				fmt.Sprintf("Abattement résidence principale sur %s", a.ID),
				"Abattement de 20% sur la part du défunt, conjoint occupant (Art. 764 bis CGI).",
				model.Explanation{Key: model.KeyMainResidence20, Context: map[string]string{"asset_id": a.ID, "relief": euros(r)}})
		}
	}

	// Community pool division.
	if adv != nil && adv.HasFullAttribution {
		s.hasFullAttribution = true
		s.deceasedCommunity = model.Zero()
		advantage := model.MulFrac(s.communityTotal, 0.5)

		// Art. 1527 CC: with stepchildren, the advantage is capped at the
		// special disposable quota; the excess re-enters the succession.
		if s.hasStepchildren() {
			theoretical := s.personalAssets.Add(model.MulFrac(s.communityTotal, 0.5)).Add(s.rewardsDeceased)
			children := len(s.heirsWith(model.RelChild))
			reserveRate := 0.75
			switch children {
			case 1:
				reserveRate = 0.5
			case 2:
				reserveRate = 2.0 / 3.0
			}
			quota := model.MulFrac(theoretical, 1-reserveRate)
			if advantage.GreaterThan(quota) {
				excess := advantage.Sub(quota)
				s.deceasedCommunity = excess
				s.tr.LegalWarning(
					"Action en retranchement (Art. 1527 CC)",
					fmt.Sprintf("Enfants d'un autre lit : l'avantage matrimonial est réduit à la quotité disponible spéciale; excédent réintégré %s.", euros(excess)),
					model.Explanation{Key: model.KeyAlertRetranchement, Context: map[string]string{"excess": euros(excess), "quota": euros(quota)}})
			}
		}
		s.tr.Key(model.KeyLiquidationFullAttrib, map[string]string{"community_total": euros(s.communityTotal)})
	} else {
		s.deceasedCommunity = model.MulFrac(s.communityTotal, deceasedFrac)
		if s.communityTotal.IsPositive() {
			s.tr.Key(model.KeyLiquidationCommunity50, map[string]string{
				"community_total": euros(s.communityTotal),
				"deceased_share":  euros(s.deceasedCommunity),
			})
		}
	}
	s.spouseCommunity = s.communityTotal.Sub(s.deceasedCommunity).Add(s.rewardsSpouse)

	s.deceasedNet = s.personalAssets.Add(s.deceasedCommunity).Add(s.rewardsDeceased).Sub(relief)
	if s.deceasedNet.IsNegative() {
		s.deceasedNet = model.Zero()
	}

	s.tr.Step(1, "Liquidation du régime matrimonial",
		"Séparation des biens entre le défunt et le conjoint survivant selon le régime matrimonial.",
		fmt.Sprintf("Actif brut successoral : %s (communauté %s, préciput %s)",
			euros(s.deceasedNet), euros(s.communityTotal), euros(s.preciputValue)))
}

// dismembermentFraction values the deceased's rights on a dismembered asset
// (Art. 669 CGI). Bare ownership keeps the complement of the usufruct rate;
// a life usufruct of the deceased dies with them; a fixed-term usufruct
// keeps its scale value.
func (s *state) dismembermentFraction(a *model.Asset) float64 {
	switch a.OwnershipMode {
	case model.OwnershipBare:
		if a.UsufructType == model.UsufructTemporaire && a.UsufructDurationYears > 0 {
			rate := rules.TemporaryUsufructRate(s.p.TemporaryUsufructRate, a.UsufructDurationYears)
			s.tr.Key(model.KeyUsufructTemporaire, map[string]string{
				"asset_id": a.ID, "duration_years": fmt.Sprintf("%d", a.UsufructDurationYears), "rate": pct(rate),
			})
			return 1 - rate
		}
		if a.UsufructuaryBirthDate == "" {
			s.tr.DataWarning(
				fmt.Sprintf("Nue-propriété %s sans date de naissance de l'usufruitier", a.ID),
				"Le bien est retenu pour sa pleine valeur faute de barème applicable (Art. 669 CGI).")
			return 1
		}
		age := rules.AgeAt(mustDate(a.UsufructuaryBirthDate), s.deathDate)
		rate := rules.UsufructRate(s.p.UsufructScale, age)
		s.tr.Key(model.KeyUsufructViager, map[string]string{
			"asset_id": a.ID, "usufructuary_age": fmt.Sprintf("%d", age), "bare_rate": pct(1 - rate),
		})
		return 1 - rate
	case model.OwnershipUsufruct:
		if a.UsufructType == model.UsufructTemporaire && a.UsufructDurationYears > 0 {
			rate := rules.TemporaryUsufructRate(s.p.TemporaryUsufructRate, a.UsufructDurationYears)
			s.tr.Key(model.KeyUsufructTemporaire, map[string]string{
				"asset_id": a.ID, "duration_years": fmt.Sprintf("%d", a.UsufructDurationYears), "rate": pct(rate),
			})
			return rate
		}
		s.tr.FiscalNote(
			fmt.Sprintf("Usufruit viager %s éteint au décès", a.ID),
			"L'usufruit viager du défunt s'éteint à son décès et ne transmet aucune valeur (Art. 617 CC).")
		return 0
	}
	return 1
}

func (s *state) hasStepchildren() bool {
	for _, c := range s.heirsWith(model.RelChild) {
		if !c.IsFromCurrentUnion {
			return true
		}
	}
	return false
}
