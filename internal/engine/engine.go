// Package engine implements the succession calculation pipeline:
// matrimonial liquidation, estate reconstitution, devolution, share
// allocation and taxation (life insurance first, inheritance tax second,
// because the Art. 757 B add-back feeds the civil taxable base).
//
// Simulate is the only entry point; the stages are not reachable
// individually and always run in the same order.
package engine

import (
	"fmt"
	"time"

	"succession-engine/internal/model"
	"succession-engine/internal/params"
	"succession-engine/internal/trace"
)

// Simulate computes one succession scenario. It is a pure function of its
// inputs: identical inputs produce identical outputs, including alert order.
// The returned error is non-nil only for structural input problems or an
// internal invariant violation; every domain issue is an alert on the output.
func Simulate(in *model.SimulationInput, p *params.LegalParameters) (*model.SuccessionOutput, error) {
	if p == nil {
		p = params.Default()
	}
	st, err := newState(in, p)
	if err != nil {
		return nil, err
	}

	st.liquidate()
	if err := st.checkLiquidationInvariants(); err != nil {
		return nil, err
	}

	st.reconstitute()
	if err := st.checkEstateInvariants(); err != nil {
		return nil, err
	}

	st.devolve()
	if err := st.checkDevolutionInvariants(); err != nil {
		return nil, err
	}

	st.allocate()
	if err := st.checkAllocationInvariants(); err != nil {
		return nil, err
	}

	st.taxLifeInsurance()
	st.taxInheritance()
	if err := st.checkTaxInvariants(); err != nil {
		return nil, err
	}

	return st.buildOutput(), nil
}

type state struct {
	in *model.SimulationInput
	p  *params.LegalParameters
	tr *trace.Tracer

	deathDate    time.Time
	marriageDate *time.Time
	heirByID     map[string]*model.Heir
	assetByID    map[string]*model.Asset

	// liquidation
	personalAssets      model.Money
	communityTotal      model.Money
	deceasedCommunity   model.Money
	spouseCommunity     model.Money
	rewardsDeceased     model.Money
	rewardsSpouse       model.Money
	preciputValue       model.Money
	hasFullAttribution  bool
	deceasedNet         model.Money
	attributions        []model.AssetAttribution
	liquidationLines    []string
	lifeInsuranceAssets []*model.Asset

	// estate
	reportableTotal  model.Money
	reportableByHeir map[string]model.Money
	deductibleDebts  model.Money
	returnByParent   map[string]model.Money
	returnTotal      model.Money
	mass             model.Money

	// devolution
	souches         []souche
	reserveFraction float64
	legalReserve    model.Money
	disposableQuota model.Money
	noHeirs         bool

	// allocation
	allocBasis     model.Money
	shares         map[string]float64
	spouseUsufruct *usufructSplit
	spouseChoice   model.SpouseChoice
	bequestsByHeir map[string]model.Money
	bequestList    []bequestShare
	bequestsTotal  model.Money
	entitlement    map[string]model.Money
	imputedGift    map[string]model.Money
	heirKeys       map[string][]model.Explanation

	// taxation
	addback757B    map[string]model.Money
	liLines        []model.LifeInsuranceLine
	liTax          model.Money
	heirRows       []model.HeirBreakdown
	inheritanceTax model.Money
	exemptionTotal model.Money
}

type usufructSplit struct {
	usufructValue model.Money
	bareValue     model.Money
	rate          float64
}

type bequestShare struct {
	assetID       string
	beneficiaryID string
	value         model.Money
	sharePct      float64
}

func newState(in *model.SimulationInput, p *params.LegalParameters) (*state, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	st := &state{
		in: in,
		p:  p,
		tr: trace.New(),

		personalAssets:    model.Zero(),
		communityTotal:    model.Zero(),
		deceasedCommunity: model.Zero(),
		spouseCommunity:   model.Zero(),
		rewardsDeceased:   model.Zero(),
		rewardsSpouse:     model.Zero(),
		preciputValue:     model.Zero(),
		deceasedNet:       model.Zero(),

		reportableTotal:  model.Zero(),
		reportableByHeir: map[string]model.Money{},
		deductibleDebts:  model.Zero(),
		returnByParent:   map[string]model.Money{},
		returnTotal:      model.Zero(),
		mass:             model.Zero(),

		shares:         map[string]float64{},
		bequestsByHeir: map[string]model.Money{},
		bequestsTotal:  model.Zero(),
		entitlement:    map[string]model.Money{},
		imputedGift:    map[string]model.Money{},
		heirKeys:       map[string][]model.Explanation{},

		addback757B:    map[string]model.Money{},
		liTax:          model.Zero(),
		inheritanceTax: model.Zero(),
		exemptionTotal: model.Zero(),
	}

	st.deathDate, _ = parseDate(in.DeathDate)
	if in.MarriageDate != "" {
		d, _ := parseDate(in.MarriageDate)
		st.marriageDate = &d
	}
	st.heirByID = make(map[string]*model.Heir, len(in.Heirs))
	for i := range in.Heirs {
		st.heirByID[in.Heirs[i].ID] = &in.Heirs[i]
	}
	st.assetByID = make(map[string]*model.Asset, len(in.Assets))
	for i := range in.Assets {
		st.assetByID[in.Assets[i].ID] = &in.Assets[i]
	}
	return st, nil
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

func (s *state) heirKey(heirID, key string, ctx map[string]string) {
	s.heirKeys[heirID] = append(s.heirKeys[heirID], model.Explanation{Key: key, Context: ctx})
}

func (s *state) spouse() *model.Heir {
	for i := range s.in.Heirs {
		h := &s.in.Heirs[i]
		if h.Relationship.IsSpouseOrPartner() && !h.Renounced() {
			return h
		}
	}
	return nil
}

func (s *state) heirsWith(rel model.Relationship) []*model.Heir {
	var out []*model.Heir
	for i := range s.in.Heirs {
		if s.in.Heirs[i].Relationship == rel {
			out = append(out, &s.in.Heirs[i])
		}
	}
	return out
}

func (s *state) acceptingHeirsWith(rel model.Relationship) []*model.Heir {
	var out []*model.Heir
	for _, h := range s.heirsWith(rel) {
		if !h.Renounced() {
			out = append(out, h)
		}
	}
	return out
}

func euros(m model.Money) string {
	return model.RoundCents(m).StringFixed(2) + " €"
}

func pct(f float64) string {
	return fmt.Sprintf("%.2f%%", f*100)
}
