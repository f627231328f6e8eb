package engine

import (
	"fmt"
	"strings"
	"time"

	"succession-engine/internal/model"
	"succession-engine/internal/rules"
)

// allocate applies the testamentary wishes on top of the legal devolution:
// distribution mode, spouse option, gift imputation and the check for
// excessive liberalities (Art. 920 CC).
func (s *state) allocate() {
	dist := model.DistributionLegal
	if s.in.Wishes != nil && s.in.Wishes.TestamentDistribution != "" {
		dist = s.in.Wishes.TestamentDistribution
	}

	switch dist {
	case model.DistributionCustom:
		for _, cs := range s.in.Wishes.CustomShares {
			s.shares[cs.BeneficiaryID] = cs.Percentage / 100
		}
	case model.DistributionSpecificBequests:
		s.processBequests()
		s.shares = s.legalWithSpouseOption()
	case model.DistributionSpouseAll:
		if spouse := s.spouse(); spouse != nil {
			s.shares[spouse.ID] = 1.0
			s.heirKey(spouse.ID, model.KeyShareSpouseAlone, map[string]string{"share": "100.00%"})
		} else {
			s.tr.DataWarning("Testament en faveur du conjoint sans conjoint acceptant",
				"Répartition légale appliquée.")
			s.shares = s.legalWithSpouseOption()
		}
	case model.DistributionChildrenAll:
		if len(s.souches) > 0 {
			s.splitSouches(s.shares, s.souches, 1.0)
		} else {
			s.tr.DataWarning("Testament en faveur des enfants sans descendant acceptant",
				"Répartition légale appliquée.")
			s.shares = s.legalWithSpouseOption()
		}
	default:
		s.shares = s.legalWithSpouseOption()
	}

	// Entitlements in value. With the usufruct option the spouse receives the
	// fiscal usufruct of the basis and the descendants its bare ownership.
	basis := s.mass.Sub(s.bequestsTotal)
	if basis.IsNegative() {
		basis = model.Zero()
	}
	s.allocBasis = basis
	if s.spouseChoice == model.SpouseChoiceUsufruct {
		spouse := s.spouse()
		age := rules.AgeAt(mustDate(spouse.BirthDate), s.deathDate)
		usu, bare, rate := rules.UsufructValue(s.p, basis, age)
		s.spouseUsufruct = &usufructSplit{usufructValue: usu, bareValue: bare, rate: rate}
		s.entitlement[spouse.ID] = usu
		s.heirKey(spouse.ID, model.KeyUsufructViager, map[string]string{
			"age": fmt.Sprintf("%d", age), "rate": pct(rate), "value": euros(usu),
		})
		for id, share := range s.shares {
			if id == spouse.ID {
				continue
			}
			s.entitlement[id] = model.MulFrac(bare, share)
		}
	} else {
		for id, share := range s.shares {
			s.entitlement[id] = model.MulFrac(basis, share)
		}
	}
	for id, v := range s.bequestsByHeir {
		prev, ok := s.entitlement[id]
		if !ok {
			prev = model.Zero()
		}
		s.entitlement[id] = prev.Add(v)
	}

	// Rapport des donations (Art. 843 CC): prior gifts count toward the
	// heir's share. A gift larger than the share is kept, not restituted.
	for i := range s.in.Heirs {
		h := &s.in.Heirs[i]
		gift, ok := s.reportableByHeir[h.ID]
		if !ok || !gift.IsPositive() {
			continue
		}
		ent, ok := s.entitlement[h.ID]
		if !ok {
			ent = model.Zero()
		}
		if gift.GreaterThan(ent) {
			s.imputedGift[h.ID] = ent
			s.tr.Alert(model.SeverityInfo, model.AudienceNotary, model.CategoryLegal,
				fmt.Sprintf("Donations reçues par %s supérieures à sa part", h.ID),
				fmt.Sprintf("Donations rapportées %s pour une part de %s; l'excédent reste acquis sans créer de dette ici.", euros(gift), euros(ent)),
				model.Explanation{Key: model.KeyAlertGiftExceedsShare, Context: map[string]string{"heir_id": h.ID, "gift": euros(gift), "share": euros(ent)}})
		} else {
			s.imputedGift[h.ID] = gift
		}
	}

	s.checkCustomReserve(dist)
	s.checkExcessiveLiberalities()

	s.tr.Step(4, "Attribution des parts",
		"Application des volontés testamentaires, option du conjoint et imputation des donations.",
		fmt.Sprintf("Répartition %s, legs %s, base répartie %s", dist, euros(s.bequestsTotal), euros(basis)))
}

// legalWithSpouseOption resolves the spouse option of Art. 757 CC before
// computing the legal shares.
func (s *state) legalWithSpouseOption() map[string]float64 {
	spouse := s.spouse()
	if spouse == nil || len(s.souches) == 0 {
		return s.legalShares(0)
	}

	choice := model.SpouseChoiceQuarter
	hasDonation := false
	if s.in.Wishes != nil {
		hasDonation = s.in.Wishes.HasSpouseDonation
		if s.in.Wishes.SpouseChoice != "" {
			choice = s.in.Wishes.SpouseChoice
		}
	}
	if s.in.Wishes == nil || s.in.Wishes.SpouseChoice == "" {
		s.tr.Alert(model.SeverityInfo, model.AudienceUser, model.CategoryLegal,
			"Option du conjoint non renseignée",
			"Le quart en pleine propriété est retenu par défaut (Art. 757 CC).")
	}

	switch choice {
	case model.SpouseChoiceUsufruct:
		// Totality in usufruct requires every child from the current union,
		// unless a donation au dernier vivant opens it (Art. 757 / 1094-1 CC).
		if s.hasStepchildren() && !hasDonation {
			s.tr.LegalWarning("Usufruit total impossible",
				"En présence d'enfants d'une autre union et sans donation au dernier vivant, le conjoint ne peut opter que pour le quart en propriété (Art. 757 CC).")
			choice = model.SpouseChoiceQuarter
		}
	case model.SpouseChoiceDisposableQuota:
		if !hasDonation {
			s.tr.Error("Option quotité disponible sans donation au dernier vivant",
				"Cette option exige une donation entre époux (Art. 1094-1 CC); le quart en propriété est appliqué.")
			choice = model.SpouseChoiceQuarter
		}
	}
	s.spouseChoice = choice

	switch choice {
	case model.SpouseChoiceUsufruct:
		s.heirKey(spouse.ID, model.KeyShareSpouseUsufruct, nil)
		shares := map[string]float64{spouse.ID: 0}
		s.splitSouches(shares, s.souches, 1.0)
		return shares
	case model.SpouseChoiceDisposableQuota:
		spousePP := 0.25
		switch len(s.souches) {
		case 1:
			spousePP = 0.5
		case 2:
			spousePP = 1.0 / 3.0
		}
		s.heirKey(spouse.ID, model.KeyShareSpouseDDV, map[string]string{"share": pct(spousePP)})
		return s.legalShares(spousePP)
	default:
		s.heirKey(spouse.ID, model.KeyShareSpouseQuarter, map[string]string{"share": "25.00%"})
		return s.legalShares(0.25)
	}
}

// processBequests values the legs particuliers and flags assets bequeathed
// beyond 100%.
func (s *state) processBequests() {
	perAsset := map[string]float64{}
	for _, b := range s.in.Wishes.SpecificBequests {
		a := s.assetByID[b.AssetID]
		if a.IsLifeInsurance() {
			s.tr.DataWarning(
				fmt.Sprintf("Legs impossible sur l'assurance-vie %s", b.AssetID),
				"Un contrat d'assurance-vie se transmet par sa clause bénéficiaire, hors succession.")
			continue
		}
		value := model.MulFrac(a.EstimatedValue, b.SharePercentage/100)
		perAsset[b.AssetID] += b.SharePercentage
		prev, ok := s.bequestsByHeir[b.BeneficiaryID]
		if !ok {
			prev = model.Zero()
		}
		s.bequestsByHeir[b.BeneficiaryID] = prev.Add(value)
		s.bequestsTotal = s.bequestsTotal.Add(value)
		s.bequestList = append(s.bequestList, bequestShare{
			assetID:       b.AssetID,
			beneficiaryID: b.BeneficiaryID,
			value:         value,
			sharePct:      b.SharePercentage,
		})
	}
	for i := range s.in.Assets {
		id := s.in.Assets[i].ID
		if total, ok := perAsset[id]; ok && total > 100.0001 {
			s.tr.LegalWarning(
				fmt.Sprintf("Bien %s légué à %.0f%%", id, total),
				"La somme des legs sur ce bien dépasse 100%; les legs seront réduits au marc le franc.",
				model.Explanation{Key: model.KeyAlertOverAllocation, Context: map[string]string{"asset_id": id, "total_percentage": fmt.Sprintf("%.0f", total)}})
		}
	}
	if s.bequestsTotal.GreaterThan(s.mass) {
		s.tr.LegalWarning("Legs supérieurs à la masse successorale",
			fmt.Sprintf("Legs %s pour une masse de %s.", euros(s.bequestsTotal), euros(s.mass)))
	}
}

// checkCustomReserve verifies that a CUSTOM distribution leaves each
// reserved heir at least their individual reserve. The engine warns and
// quantifies the infringement; it never rebalances (Art. 913 CC).
func (s *state) checkCustomReserve(dist model.TestamentDistribution) {
	if dist != model.DistributionCustom && dist != model.DistributionSpouseAll {
		return
	}
	if s.reserveFraction == 0 || len(s.souches) == 0 {
		return
	}
	perSouche := model.MulFrac(s.legalReserve, 1/float64(len(s.souches)))
	for _, sc := range s.souches {
		perLeaf := model.MulFrac(perSouche, 1/float64(len(sc.leaves)))
		for _, leaf := range sc.leaves {
			ent, ok := s.entitlement[leaf.ID]
			if !ok {
				ent = model.Zero()
			}
			received := ent
			if gift, ok := s.reportableByHeir[leaf.ID]; ok {
				received = received.Add(gift)
			}
			if received.LessThan(perLeaf) {
				shortfall := perLeaf.Sub(received)
				s.tr.LegalWarning(
					fmt.Sprintf("Réserve héréditaire entamée pour %s", leaf.ID),
					fmt.Sprintf("Part attribuée %s inférieure à la réserve individuelle %s (manque %s); action en réduction possible.", euros(received), euros(perLeaf), euros(shortfall)),
					model.Explanation{Key: model.KeyAlertReserveExceeded, Context: map[string]string{
						"heir_id": leaf.ID, "reserve": euros(perLeaf), "shortfall": euros(shortfall),
					}})
			}
		}
	}
}

// checkExcessiveLiberalities compares donations and bequests to the
// disposable quota and computes the statutory reduction order when they
// exceed it (Art. 920, 923 CC).
func (s *state) checkExcessiveLiberalities() {
	if s.reserveFraction == 0 {
		return
	}
	total := s.reportableTotal.Add(s.bequestsTotal)
	if !total.GreaterThan(s.disposableQuota) {
		return
	}

	var liberalities []rules.Liberality
	for _, b := range s.bequestList {
		liberalities = append(liberalities, rules.Liberality{
			ID:            "legs:" + b.assetID + ":" + b.beneficiaryID,
			IsBequest:     true,
			BeneficiaryID: b.beneficiaryID,
			Value:         b.value,
			Date:          s.deathDate,
		})
	}
	for i := range s.in.Donations {
		d := &s.in.Donations[i]
		v := d.ReportableValue()
		if !v.IsPositive() {
			continue
		}
		date, _ := parseDate(d.DonationDate)
		liberalities = append(liberalities, rules.Liberality{
			ID:            d.ID,
			BeneficiaryID: d.BeneficiaryID,
			Value:         v,
			Date:          date,
		})
	}

	result := rules.ComputeReduction(liberalities, s.disposableQuota)
	var lines []string
	ctx := map[string]string{
		"excess":           euros(result.TotalExcess),
		"disposable_quota": euros(s.disposableQuota),
	}
	for _, r := range result.Reductions {
		kind := "donation"
		if r.IsBequest {
			kind = "legs"
		}
		lines = append(lines, fmt.Sprintf("%s %s : %s → %s (réduction %s)",
			kind, r.LiberalityID, euros(r.OriginalValue), euros(r.ReducedValue), euros(r.ReductionAmount)))
		ctx["reduction:"+r.LiberalityID] = euros(r.ReductionAmount)
	}
	s.tr.LegalWarning(
		"Libéralités excessives : réserve héréditaire dépassée",
		fmt.Sprintf("Donations et legs (%s) dépassent la quotité disponible (%s). Ordre de réduction (Art. 923 CC) : %s",
			euros(total), euros(s.disposableQuota), strings.Join(lines, "; ")),
		model.Explanation{Key: model.KeyAlertReserveExceeded, Context: ctx})
}

func mustDate(s string) time.Time {
	t, _ := parseDate(s)
	return t
}
