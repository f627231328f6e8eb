package engine

import (
	"fmt"

	"succession-engine/internal/model"
	"succession-engine/internal/rules"
)

// A souche is the line of descent of one original child (Art. 751+ CC).
// Leaves are the accepting members at the deepest populated level; they
// split the souche's single share equally.
type souche struct {
	rootID string
	leaves []*model.Heir
}

// rootOf walks a representation chain up to the original represented heir.
// Chains may pass through members present in the input (renouncing parent)
// or stop at an id that names a predeceased person absent from the list.
func (s *state) rootOf(h *model.Heir) string {
	id := h.RepresentedHeirID
	seen := map[string]bool{h.ID: true}
	for {
		if seen[id] {
			return id
		}
		seen[id] = true
		parent, ok := s.heirByID[id]
		if !ok || parent.RepresentedHeirID == "" {
			return id
		}
		id = parent.RepresentedHeirID
	}
}

// replaced reports whether the heir with the given id is substituted by its
// representatives: absent from the input (predeceased) or renouncing.
func (s *state) replaced(id string) bool {
	h, ok := s.heirByID[id]
	return !ok || h.Renounced()
}

// descendantSouches groups the order-1 heirs by souche, in input order.
// A souche with no accepting leaf is pruned.
func (s *state) descendantSouches() []souche {
	var order []string
	seen := map[string]bool{}
	for _, c := range s.heirsWith(model.RelChild) {
		if c.RepresentedHeirID != "" {
			continue
		}
		if !seen[c.ID] {
			seen[c.ID] = true
			order = append(order, c.ID)
		}
	}
	for i := range s.in.Heirs {
		h := &s.in.Heirs[i]
		if !h.Relationship.IsDescendant() || h.RepresentedHeirID == "" {
			continue
		}
		root := s.rootOf(h)
		if !seen[root] {
			seen[root] = true
			order = append(order, root)
		}
	}

	var out []souche
	for _, root := range order {
		var leaves []*model.Heir
		for i := range s.in.Heirs {
			h := &s.in.Heirs[i]
			if !h.Relationship.IsDescendant() || h.Renounced() {
				continue
			}
			switch {
			case h.ID == root && h.RepresentedHeirID == "":
				leaves = append(leaves, h)
			case h.RepresentedHeirID != "" && s.rootOf(h) == root && s.replaced(h.RepresentedHeirID):
				leaves = append(leaves, h)
			}
		}
		if len(leaves) > 0 {
			out = append(out, souche{rootID: root, leaves: leaves})
		}
	}
	return out
}

// siblingSouches groups siblings and the nephews or nieces representing a
// predeceased or renouncing sibling.
func (s *state) siblingSouches() []souche {
	var order []string
	seen := map[string]bool{}
	for _, sib := range s.heirsWith(model.RelSibling) {
		if !seen[sib.ID] {
			seen[sib.ID] = true
			order = append(order, sib.ID)
		}
	}
	for _, n := range s.heirsWith(model.RelNephewNiece) {
		if n.RepresentedHeirID == "" {
			continue
		}
		root := s.rootOf(n)
		if !seen[root] {
			seen[root] = true
			order = append(order, root)
		}
	}

	var out []souche
	for _, root := range order {
		var leaves []*model.Heir
		for i := range s.in.Heirs {
			h := &s.in.Heirs[i]
			if h.Renounced() {
				continue
			}
			switch h.Relationship {
			case model.RelSibling:
				if h.ID == root && h.RepresentedHeirID == "" {
					leaves = append(leaves, h)
				}
			case model.RelNephewNiece:
				if h.RepresentedHeirID != "" && s.rootOf(h) == root && s.replaced(h.RepresentedHeirID) {
					leaves = append(leaves, h)
				}
			}
		}
		if len(leaves) > 0 {
			out = append(out, souche{rootID: root, leaves: leaves})
		}
	}
	return out
}

// devolve fixes the heir order (Art. 734 CC) and the hereditary reserve
// (Art. 913, 914-1 CC) for the reconstituted mass.
func (s *state) devolve() {
	s.souches = s.descendantSouches()

	reserveDesc := "aucun héritier réservataire"
	switch n := len(s.souches); {
	case n == 1:
		s.reserveFraction = 0.5
		reserveDesc = "1 enfant (ou souche) : réserve de 1/2"
	case n == 2:
		s.reserveFraction = 2.0 / 3.0
		reserveDesc = "2 enfants (ou souches) : réserve de 2/3"
	case n >= 3:
		s.reserveFraction = 0.75
		reserveDesc = fmt.Sprintf("%d enfants (ou souches) : réserve de 3/4", n)
	default:
		parents := s.acceptingHeirsWith(model.RelParent)
		switch len(parents) {
		case 1:
			s.reserveFraction = 0.25
			reserveDesc = "1 parent vivant : réserve de 1/4"
		case 2:
			s.reserveFraction = 0.5
			reserveDesc = "2 parents vivants : réserve de 1/2"
		}
	}

	s.legalReserve = model.MulFrac(s.mass, s.reserveFraction)
	s.disposableQuota = s.mass.Sub(s.legalReserve)

	if len(s.souches) > 0 {
		s.tr.Key(model.KeyReserveChildren, map[string]string{
			"souches": fmt.Sprintf("%d", len(s.souches)),
			"reserve": euros(s.legalReserve),
		})
	} else if s.reserveFraction > 0 {
		s.tr.Key(model.KeyReserveParents, map[string]string{"reserve": euros(s.legalReserve)})
	} else {
		s.tr.Key(model.KeyReserveNone, map[string]string{"disposable_quota": euros(s.disposableQuota)})
	}

	for i := range s.in.Heirs {
		h := &s.in.Heirs[i]
		if h.Renounced() {
			s.heirKey(h.ID, model.KeyShareRenunciation, map[string]string{"heir_id": h.ID})
		}
	}

	s.tr.Step(3, "Détermination de la dévolution",
		"Ordre des héritiers, réserve héréditaire et quotité disponible.",
		fmt.Sprintf("%s. Réserve : %s, quotité disponible : %s",
			reserveDesc, euros(s.legalReserve), euros(s.disposableQuota)))
}

// legalShares computes the default legal distribution as a fraction of the
// mass per heir. spousePP is the spouse's full-ownership fraction decided by
// the spouse option; the descendants split the remainder by souche.
func (s *state) legalShares(spousePP float64) map[string]float64 {
	shares := map[string]float64{}
	spouse := s.spouse()

	if len(s.souches) > 0 {
		if spouse != nil && spousePP > 0 {
			shares[spouse.ID] = spousePP
		}
		per := (1 - spousePP) / float64(len(s.souches))
		for _, sc := range s.souches {
			leafShare := per / float64(len(sc.leaves))
			for _, leaf := range sc.leaves {
				shares[leaf.ID] = leafShare
				if leaf.RepresentedHeirID != "" {
					s.heirKey(leaf.ID, model.KeyShareRepresentation, map[string]string{
						"souche": sc.rootID, "share": pct(leafShare),
					})
				} else {
					s.heirKey(leaf.ID, model.KeyShareChildrenEqual, map[string]string{"share": pct(leafShare)})
				}
			}
		}
		return shares
	}

	parents := s.acceptingHeirsWith(model.RelParent)
	siblings := s.siblingSouches()

	// Order 2: spouse, alone or with the deceased's parents.
	if spouse != nil {
		switch len(parents) {
		case 0:
			shares[spouse.ID] = 1.0
			s.heirKey(spouse.ID, model.KeyShareSpouseAlone, map[string]string{"share": "100.00%"})
		case 1:
			shares[spouse.ID] = 0.75
			shares[parents[0].ID] = 0.25
			s.heirKey(spouse.ID, model.KeyShareSpouseParents, map[string]string{"share": "75.00%"})
			s.heirKey(parents[0].ID, model.KeyShareSpouseParents, map[string]string{"share": "25.00%"})
		default:
			shares[spouse.ID] = 0.5
			s.heirKey(spouse.ID, model.KeyShareSpouseParents, map[string]string{"share": "50.00%"})
			for _, p := range parents[:2] {
				shares[p.ID] = 0.25
				s.heirKey(p.ID, model.KeyShareSpouseParents, map[string]string{"share": "25.00%"})
			}
		}
		return shares
	}

	// Art. 738 CC: parents keep a quarter each, siblings share the rest.
	if len(parents) > 0 && len(siblings) > 0 {
		siblingTotal := 1.0
		for i, p := range parents {
			if i >= 2 {
				break
			}
			shares[p.ID] = 0.25
			siblingTotal -= 0.25
			s.heirKey(p.ID, model.KeyShareParentsSiblings, map[string]string{"share": "25.00%"})
		}
		s.splitSouches(shares, siblings, siblingTotal)
		return shares
	}

	if len(parents) > 0 {
		per := 1.0 / float64(len(parents))
		for _, p := range parents {
			shares[p.ID] = per
			s.heirKey(p.ID, model.KeyShareParentsSiblings, map[string]string{"share": pct(per)})
		}
		return shares
	}

	// Order 3: siblings and their descendants.
	if len(siblings) > 0 {
		s.splitSouches(shares, siblings, 1.0)
		return shares
	}

	return s.fenteShares()
}

func (s *state) splitSouches(shares map[string]float64, souches []souche, total float64) {
	per := total / float64(len(souches))
	for _, sc := range souches {
		leafShare := per / float64(len(sc.leaves))
		for _, leaf := range sc.leaves {
			shares[leaf.ID] = leafShare
			if leaf.RepresentedHeirID != "" {
				s.heirKey(leaf.ID, model.KeyShareRepresentation, map[string]string{"souche": sc.rootID, "share": pct(leafShare)})
			} else {
				s.heirKey(leaf.ID, model.KeyShareChildrenEqual, map[string]string{"share": pct(leafShare)})
			}
		}
	}
}

// fenteShares splits the estate between the paternal and maternal lines
// (Art. 746 CC); inside each line the closest degree takes all (Art. 744 CC).
// Candidates missing the line flag make the cleft impossible: that is an
// ERROR, not a guess.
func (s *state) fenteShares() map[string]float64 {
	shares := map[string]float64{}

	var candidates []*model.Heir
	for i := range s.in.Heirs {
		h := &s.in.Heirs[i]
		if h.Renounced() || h.Relationship.IsSpouseOrPartner() || h.Relationship.IsDescendant() ||
			h.Relationship == model.RelParent || h.Relationship == model.RelSibling {
			continue
		}
		candidates = append(candidates, h)
	}
	if len(candidates) == 0 {
		s.noHeirs = true
		s.tr.Error("Aucun héritier acceptant",
			"Tous les héritiers ont renoncé sans représentation; la succession est en déshérence.")
		return shares
	}

	var paternal, maternal []*model.Heir
	for _, h := range candidates {
		if h.PaternalLine == nil {
			s.noHeirs = true
			s.tr.Error(
				fmt.Sprintf("Fente successorale impossible : ligne inconnue pour %s", h.ID),
				"La répartition paternelle/maternelle (Art. 746 CC) exige paternal_line sur chaque collatéral; aucune ligne n'est présumée.",
				model.Explanation{Key: model.KeyAlertFenteMissingLine, Context: map[string]string{"heir_id": h.ID}})
			return map[string]float64{}
		}
		if *h.PaternalLine {
			paternal = append(paternal, h)
		} else {
			maternal = append(maternal, h)
		}
	}

	closest := func(line []*model.Heir) []*model.Heir {
		if len(line) == 0 {
			return nil
		}
		best := rules.Degree(line[0].Relationship)
		for _, h := range line[1:] {
			if d := rules.Degree(h.Relationship); d < best {
				best = d
			}
		}
		var out []*model.Heir
		for _, h := range line {
			if rules.Degree(h.Relationship) == best {
				out = append(out, h)
			}
		}
		return out
	}
	paternal = closest(paternal)
	maternal = closest(maternal)

	assign := func(line []*model.Heir, total float64) {
		per := total / float64(len(line))
		for _, h := range line {
			shares[h.ID] = per
			s.heirKey(h.ID, model.KeyShareFente, map[string]string{"share": pct(per)})
		}
	}
	switch {
	case len(paternal) > 0 && len(maternal) > 0:
		assign(paternal, 0.5)
		assign(maternal, 0.5)
		s.tr.Key(model.KeyShareFente, map[string]string{"paternal": fmt.Sprintf("%d", len(paternal)), "maternal": fmt.Sprintf("%d", len(maternal))})
	case len(paternal) > 0:
		assign(paternal, 1.0)
	case len(maternal) > 0:
		assign(maternal, 1.0)
	}
	return shares
}
