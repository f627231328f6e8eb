package engine

import (
	"fmt"
	"math"

	"succession-engine/internal/model"
)

// Stage-exit invariant checks. A failure here is an engine defect, never a
// domain condition: the pipeline aborts with a diagnostic naming the stage
// and the broken invariant instead of returning a wrong result.

func internalError(stage, invariant, detail string) error {
	return fmt.Errorf("internal: stage %s violated invariant %s: %s", stage, invariant, detail)
}

// I2: per asset, deceased + spouse + preciput = estimated value (±1 cent).
// Assets held in indivision keep the co-owners' fraction outside the split.
func (s *state) checkLiquidationInvariants() error {
	for _, at := range s.attributions {
		a, ok := s.assetByID[at.AssetID]
		if !ok {
			return internalError("liquidation", "I2", "attribution for unknown asset "+at.AssetID)
		}
		sum := at.DeceasedShare.Add(at.SpouseShare).Add(at.PreciputShare)
		switch a.OwnershipMode {
		case model.OwnershipIndivision, model.OwnershipBare, model.OwnershipUsufruct:
			// Co-owners or the dismembered counterpart hold the rest.
			if sum.Sub(a.EstimatedValue).GreaterThan(model.Euros(0.01)) {
				return internalError("liquidation", "I2",
					fmt.Sprintf("asset %s attribution %s exceeds value %s", at.AssetID, sum, a.EstimatedValue))
			}
			continue
		}
		if !model.CentsEqual(sum, a.EstimatedValue) {
			return internalError("liquidation", "I2",
				fmt.Sprintf("asset %s attribution %s != value %s", at.AssetID, sum, a.EstimatedValue))
		}
	}
	if s.deceasedNet.IsNegative() {
		return internalError("liquidation", "I4", "negative deceased net assets")
	}
	return nil
}

// I6: life-insurance values never enter the succession mass; the mass is
// non-negative.
func (s *state) checkEstateInvariants() error {
	if s.mass.IsNegative() {
		return internalError("estate", "I3", "negative succession mass")
	}
	for _, a := range s.lifeInsuranceAssets {
		for _, at := range s.attributions {
			if at.AssetID == a.ID {
				return internalError("estate", "I6",
					"life-insurance asset "+a.ID+" entered the liquidation split")
			}
		}
	}
	return nil
}

// I3: reserve within the mass, disposable quota non-negative.
func (s *state) checkDevolutionInvariants() error {
	if s.legalReserve.GreaterThan(s.mass.Add(model.Euros(0.01))) {
		return internalError("devolution", "I3", "reserve exceeds mass")
	}
	if s.disposableQuota.IsNegative() {
		return internalError("devolution", "I3", "negative disposable quota")
	}
	return nil
}

// I1: entitlements redistribute the whole mass; I5: a renouncing heir holds
// no share.
func (s *state) checkAllocationInvariants() error {
	for i := range s.in.Heirs {
		h := &s.in.Heirs[i]
		if h.Renounced() && s.shares[h.ID] != 0 {
			return internalError("allocation", "I5",
				"renouncing heir "+h.ID+" holds a share")
		}
	}
	expected := s.allocBasis.Add(s.bequestsTotal)
	if s.noHeirs || !expected.IsPositive() {
		return nil
	}
	total := model.Zero()
	for i := range s.in.Heirs {
		if v, ok := s.entitlement[s.in.Heirs[i].ID]; ok {
			total = total.Add(v)
		}
	}
	ratio, _ := total.Div(expected).Float64()
	if math.Abs(ratio-1) > 1e-6 {
		return internalError("allocation", "I1",
			fmt.Sprintf("entitlements redistribute %.8f of the mass", ratio))
	}
	return nil
}

// I4 and I7: non-negative taxes and net shares, tax within the taxable base,
// and at least one explanation key per heir figure.
func (s *state) checkTaxInvariants() error {
	for _, row := range s.heirRows {
		if row.TaxAmount.IsNegative() {
			return internalError("taxation", "I4", "negative tax for heir "+row.ID)
		}
		if row.NetShareValue.IsNegative() {
			return internalError("taxation", "I4", "negative net share for heir "+row.ID)
		}
		if row.TaxAmount.GreaterThan(row.TaxableBase.Add(model.Euros(0.01))) {
			return internalError("taxation", "I4", "tax exceeds taxable base for heir "+row.ID)
		}
		if len(row.ExplanationKeys) == 0 {
			return internalError("taxation", "I7", "no explanation key for heir "+row.ID)
		}
	}
	return nil
}
