package rules

import (
	"sort"
	"time"

	"succession-engine/internal/model"
)

// Liberality is one donation or bequest subject to reduction (Art. 920 CC).
type Liberality struct {
	ID            string
	IsBequest     bool
	BeneficiaryID string
	Value         model.Money
	Date          time.Time
}

// Reduction records one liberality cut back to restore the reserve.
type Reduction struct {
	LiberalityID    string
	IsBequest       bool
	BeneficiaryID   string
	OriginalValue   model.Money
	ReductionAmount model.Money
	ReducedValue    model.Money
}

// ReductionResult is the outcome of the action en réduction.
type ReductionResult struct {
	TotalExcess model.Money
	Reductions  []Reduction
}

// ComputeReduction absorbs the excess of liberalities over the disposable
// quota, bequests first, then donations from the most recent to the oldest
// (Art. 923 CC). Sorting is stable so equal dates keep input order and
// outputs stay deterministic.
func ComputeReduction(liberalities []Liberality, disposableQuota model.Money) ReductionResult {
	total := model.Zero()
	for _, lib := range liberalities {
		total = total.Add(lib.Value)
	}
	excess := total.Sub(disposableQuota)
	if !excess.IsPositive() {
		return ReductionResult{TotalExcess: model.Zero()}
	}

	ordered := make([]Liberality, len(liberalities))
	copy(ordered, liberalities)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].IsBequest != ordered[j].IsBequest {
			return ordered[i].IsBequest
		}
		return ordered[i].Date.After(ordered[j].Date)
	})

	result := ReductionResult{TotalExcess: excess}
	remaining := excess
	for _, lib := range ordered {
		if !remaining.IsPositive() {
			break
		}
		cut := lib.Value
		if cut.GreaterThan(remaining) {
			cut = remaining
		}
		result.Reductions = append(result.Reductions, Reduction{
			LiberalityID:    lib.ID,
			IsBequest:       lib.IsBequest,
			BeneficiaryID:   lib.BeneficiaryID,
			OriginalValue:   lib.Value,
			ReductionAmount: cut,
			ReducedValue:    lib.Value.Sub(cut),
		})
		remaining = remaining.Sub(cut)
	}
	return result
}
