package engine

import (
	"strings"
	"testing"

	"succession-engine/internal/model"
)

func moneyPtr(v float64) *model.Money {
	m := model.Euros(v)
	return &m
}

func findHeir(t *testing.T, out *model.SuccessionOutput, id string) model.HeirBreakdown {
	t.Helper()
	for _, h := range out.HeirsBreakdown {
		if h.ID == id {
			return h
		}
	}
	t.Fatalf("heir %s not found in breakdown", id)
	return model.HeirBreakdown{}
}

func wantMoney(t *testing.T, name string, got model.Money, want float64) {
	t.Helper()
	if !got.Equal(model.RoundCents(model.Euros(want))) {
		t.Fatalf("%s: expected %.2f, got %s", name, want, got)
	}
}

func hasWarning(out *model.SuccessionOutput, fragment string) bool {
	for _, w := range out.Warnings {
		if strings.Contains(w.Message, fragment) || strings.Contains(w.Details, fragment) {
			return true
		}
	}
	return false
}

func TestStandardFamilyQuarterOwnership(t *testing.T) {
	in := &model.SimulationInput{
		MatrimonialRegime: model.RegimeCommunityLegal,
		MarriageDate:      "1990-06-01",
		DeathDate:         "2025-03-15",
		Assets: []model.Asset{
			{ID: "maison", EstimatedValue: model.Euros(600_000), OwnershipMode: model.OwnershipFull, AssetOrigin: model.OriginCommunity},
		},
		Heirs: []model.Heir{
			{ID: "conjoint", BirthDate: "1962-04-10", Relationship: model.RelSpouse, IsFromCurrentUnion: true},
			{ID: "enfant1", BirthDate: "1992-01-20", Relationship: model.RelChild, IsFromCurrentUnion: true},
			{ID: "enfant2", BirthDate: "1995-09-02", Relationship: model.RelChild, IsFromCurrentUnion: true},
		},
		Wishes: &model.Wishes{SpouseChoice: model.SpouseChoiceQuarter},
	}

	out, err := Simulate(in, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantMoney(t, "mass", out.GlobalMetrics.TotalEstateValue, 300_000)
	wantMoney(t, "deceased community share", out.LiquidationDetails.DeceasedCommunityShare, 300_000)

	spouse := findHeir(t, out, "conjoint")
	wantMoney(t, "spouse gross", spouse.GrossShareValue, 75_000)
	wantMoney(t, "spouse tax", spouse.TaxAmount, 0)

	for _, id := range []string{"enfant1", "enfant2"} {
		child := findHeir(t, out, id)
		wantMoney(t, id+" gross", child.GrossShareValue, 112_500)
		wantMoney(t, id+" taxable", child.TaxableBase, 12_500)
		// 8 072 at 5% + 4 037 at 10% + 391 at 15%
		wantMoney(t, id+" tax", child.TaxAmount, 865.95)
		wantMoney(t, id+" net", child.NetShareValue, 111_634.05)
	}

	wantMoney(t, "total tax", out.GlobalMetrics.TotalTaxAmount, 1_731.90)
}

func TestSingleChildDirectLineBrackets(t *testing.T) {
	in := &model.SimulationInput{
		MatrimonialRegime: model.RegimeSeparation,
		DeathDate:         "2025-01-01",
		Assets: []model.Asset{
			{ID: "portefeuille", EstimatedValue: model.Euros(500_000), OwnershipMode: model.OwnershipFull, AssetOrigin: model.OriginPersonal},
		},
		Heirs: []model.Heir{
			{ID: "enfant", BirthDate: "1990-05-05", Relationship: model.RelChild, IsFromCurrentUnion: true},
		},
	}

	out, err := Simulate(in, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	child := findHeir(t, out, "enfant")
	wantMoney(t, "gross", child.GrossShareValue, 500_000)
	wantMoney(t, "taxable base", child.TaxableBase, 400_000)
	// 403.60 + 403.70 + 573.45 + 76 813.60 across the direct-line brackets
	wantMoney(t, "tax", child.TaxAmount, 78_194.35)
	wantMoney(t, "net", child.NetShareValue, 421_805.65)

	if len(child.TaxCalculation.BracketsApplied) != 4 {
		t.Fatalf("expected 4 brackets applied, got %d", len(child.TaxCalculation.BracketsApplied))
	}
}

func TestSiblingBrackets(t *testing.T) {
	in := &model.SimulationInput{
		MatrimonialRegime: model.RegimeSeparation,
		DeathDate:         "2025-01-01",
		Assets: []model.Asset{
			{ID: "appartement", EstimatedValue: model.Euros(100_000), OwnershipMode: model.OwnershipFull, AssetOrigin: model.OriginPersonal},
		},
		Heirs: []model.Heir{
			{ID: "frere", BirthDate: "1968-11-30", Relationship: model.RelSibling},
		},
	}

	out, err := Simulate(in, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sibling := findHeir(t, out, "frere")
	wantMoney(t, "taxable base", sibling.TaxableBase, 84_068)
	// 24 430 at 35% + 59 638 at 45%
	wantMoney(t, "tax", sibling.TaxAmount, 35_387.60)
}

func TestLifeInsuranceBefore70(t *testing.T) {
	in := &model.SimulationInput{
		MatrimonialRegime: model.RegimeSeparation,
		DeathDate:         "2025-01-01",
		Assets: []model.Asset{
			{
				ID:               "av1",
				EstimatedValue:   model.Euros(300_000),
				PremiumsBefore70: moneyPtr(300_000),
				LifeInsuranceBeneficiaries: []model.LifeInsuranceBeneficiary{
					{BeneficiaryID: "enfant", SharePercentage: 100},
				},
			},
		},
		Heirs: []model.Heir{
			{ID: "enfant", BirthDate: "1990-05-05", Relationship: model.RelChild, IsFromCurrentUnion: true},
		},
	}

	out, err := Simulate(in, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantMoney(t, "mass excludes life insurance", out.GlobalMetrics.TotalEstateValue, 0)
	wantMoney(t, "life-insurance tax", out.GlobalMetrics.LifeInsuranceTaxAmount, 29_500)

	if len(out.LifeInsurance) != 1 {
		t.Fatalf("expected 1 life-insurance line, got %d", len(out.LifeInsurance))
	}
	line := out.LifeInsurance[0]
	wantMoney(t, "taxable", line.TaxableBase, 147_500)
	wantMoney(t, "allowance used", line.AllowanceUsed, 152_500)
	wantMoney(t, "tax", line.TaxAmount, 29_500)
}

func TestRepresentationSplitsSouche(t *testing.T) {
	in := &model.SimulationInput{
		MatrimonialRegime: model.RegimeSeparation,
		DeathDate:         "2025-01-01",
		Assets: []model.Asset{
			{ID: "patrimoine", EstimatedValue: model.Euros(900_000), OwnershipMode: model.OwnershipFull, AssetOrigin: model.OriginPersonal},
		},
		Heirs: []model.Heir{
			{ID: "A", BirthDate: "1980-02-02", Relationship: model.RelChild, IsFromCurrentUnion: true},
			{ID: "PA1", BirthDate: "2005-07-07", Relationship: model.RelGrandchild, RepresentedHeirID: "B", IsFromCurrentUnion: true},
			{ID: "PA2", BirthDate: "2008-03-03", Relationship: model.RelGrandchild, RepresentedHeirID: "B", IsFromCurrentUnion: true},
		},
	}

	out, err := Simulate(in, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantMoney(t, "A share", findHeir(t, out, "A").GrossShareValue, 450_000)
	wantMoney(t, "PA1 share", findHeir(t, out, "PA1").GrossShareValue, 225_000)
	wantMoney(t, "PA2 share", findHeir(t, out, "PA2").GrossShareValue, 225_000)
}

func TestDisposableQuotaOptionOneChild(t *testing.T) {
	in := &model.SimulationInput{
		MatrimonialRegime: model.RegimeSeparation,
		DeathDate:         "2025-01-01",
		Assets: []model.Asset{
			{ID: "patrimoine", EstimatedValue: model.Euros(600_000), OwnershipMode: model.OwnershipFull, AssetOrigin: model.OriginPersonal},
		},
		Heirs: []model.Heir{
			{ID: "conjoint", BirthDate: "1960-01-01", Relationship: model.RelSpouse, IsFromCurrentUnion: true},
			{ID: "enfant", BirthDate: "1990-01-01", Relationship: model.RelChild, IsFromCurrentUnion: true},
		},
		Wishes: &model.Wishes{
			HasSpouseDonation: true,
			SpouseChoice:      model.SpouseChoiceDisposableQuota,
		},
	}

	out, err := Simulate(in, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	spouse := findHeir(t, out, "conjoint")
	wantMoney(t, "spouse gross", spouse.GrossShareValue, 300_000)
	wantMoney(t, "spouse tax", spouse.TaxAmount, 0)

	child := findHeir(t, out, "enfant")
	wantMoney(t, "child gross", child.GrossShareValue, 300_000)
	wantMoney(t, "child taxable", child.TaxableBase, 200_000)
	// 403.60 + 403.70 + 573.45 + 36 813.60
	wantMoney(t, "child tax", child.TaxAmount, 38_194.35)
}

func TestRenunciationWithoutRepresentation(t *testing.T) {
	in := &model.SimulationInput{
		MatrimonialRegime: model.RegimeSeparation,
		DeathDate:         "2025-01-01",
		Assets: []model.Asset{
			{ID: "patrimoine", EstimatedValue: model.Euros(200_000), OwnershipMode: model.OwnershipFull, AssetOrigin: model.OriginPersonal},
		},
		Heirs: []model.Heir{
			{ID: "enfant1", BirthDate: "1990-01-01", Relationship: model.RelChild, IsFromCurrentUnion: true},
			{ID: "enfant2", BirthDate: "1992-01-01", Relationship: model.RelChild, IsFromCurrentUnion: true, AcceptanceOption: model.AcceptRenunciation},
		},
	}

	out, err := Simulate(in, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantMoney(t, "accepting child", findHeir(t, out, "enfant1").GrossShareValue, 200_000)
	wantMoney(t, "renouncing child", findHeir(t, out, "enfant2").GrossShareValue, 0)

	// One child counted for the reserve: half of the mass.
	wantMoney(t, "reserve", out.GlobalMetrics.LegalReserveValue, 100_000)
}

func TestUsufructOption(t *testing.T) {
	in := &model.SimulationInput{
		MatrimonialRegime: model.RegimeSeparation,
		DeathDate:         "2025-01-01",
		Assets: []model.Asset{
			{ID: "patrimoine", EstimatedValue: model.Euros(400_000), OwnershipMode: model.OwnershipFull, AssetOrigin: model.OriginPersonal},
		},
		Heirs: []model.Heir{
			// 73 years old at death: usufruct rate 30%.
			{ID: "conjoint", BirthDate: "1951-06-15", Relationship: model.RelSpouse, IsFromCurrentUnion: true},
			{ID: "enfant", BirthDate: "1980-01-01", Relationship: model.RelChild, IsFromCurrentUnion: true},
		},
		Wishes: &model.Wishes{SpouseChoice: model.SpouseChoiceUsufruct},
	}

	out, err := Simulate(in, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.SpouseDetails == nil || !out.SpouseDetails.HasUsufruct {
		t.Fatal("expected usufruct spouse details")
	}
	if out.SpouseDetails.UsufructRate != 0.30 {
		t.Fatalf("expected usufruct rate 0.30, got %v", out.SpouseDetails.UsufructRate)
	}
	wantMoney(t, "spouse usufruct value", findHeir(t, out, "conjoint").GrossShareValue, 120_000)
	wantMoney(t, "child bare ownership", findHeir(t, out, "enfant").GrossShareValue, 280_000)
}

func TestFullAttributionRetranchement(t *testing.T) {
	in := &model.SimulationInput{
		MatrimonialRegime: model.RegimeCommunityUniversal,
		MarriageDate:      "2000-01-01",
		DeathDate:         "2025-01-01",
		Assets: []model.Asset{
			{ID: "communaute", EstimatedValue: model.Euros(800_000), OwnershipMode: model.OwnershipFull, AssetOrigin: model.OriginCommunity},
		},
		Heirs: []model.Heir{
			{ID: "conjoint", BirthDate: "1970-01-01", Relationship: model.RelSpouse, IsFromCurrentUnion: true},
			{ID: "enfant1", BirthDate: "1995-01-01", Relationship: model.RelChild, IsFromCurrentUnion: true},
			{ID: "enfant2", BirthDate: "1992-01-01", Relationship: model.RelChild, IsFromCurrentUnion: false},
		},
		MatrimonialAdvantages: &model.MatrimonialAdvantages{HasFullAttribution: true},
	}

	out, err := Simulate(in, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !hasWarning(out, "retranchement") {
		t.Fatal("expected an action en retranchement warning")
	}
	// Advantage 400 000 capped at the special quota (1/3 of 400 000):
	// the excess 266 666.67 re-enters the succession.
	wantMoney(t, "mass after retranchement", out.GlobalMetrics.TotalEstateValue, 266_666.67)
}

func TestRightOfReturn(t *testing.T) {
	in := &model.SimulationInput{
		MatrimonialRegime: model.RegimeSeparation,
		DeathDate:         "2025-01-01",
		Assets: []model.Asset{
			{ID: "livret", EstimatedValue: model.Euros(100_000), OwnershipMode: model.OwnershipFull, AssetOrigin: model.OriginPersonal},
			{ID: "terrain", EstimatedValue: model.Euros(40_000), OwnershipMode: model.OwnershipFull, AssetOrigin: model.OriginInheritance, ReceivedFromParentID: "pere"},
		},
		Heirs: []model.Heir{
			{ID: "pere", BirthDate: "1950-01-01", Relationship: model.RelParent},
		},
	}

	out, err := Simulate(in, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Mass 140 000 before return; the return is capped at a quarter: 35 000.
	wantMoney(t, "mass", out.GlobalMetrics.TotalEstateValue, 105_000)
	parent := findHeir(t, out, "pere")
	wantMoney(t, "parent gross", parent.GrossShareValue, 105_000)

	foundReturn := false
	for _, ra := range parent.ReceivedAssets {
		if strings.Contains(ra.Note, "droit de retour") {
			foundReturn = true
			wantMoney(t, "returned value", ra.Value, 35_000)
		}
	}
	if !foundReturn {
		t.Fatal("expected a right-of-return entry for the parent")
	}
}

func TestFenteSplitsLines(t *testing.T) {
	paternal := true
	maternal := false
	in := &model.SimulationInput{
		MatrimonialRegime: model.RegimeSeparation,
		DeathDate:         "2025-01-01",
		Assets: []model.Asset{
			{ID: "patrimoine", EstimatedValue: model.Euros(100_000), OwnershipMode: model.OwnershipFull, AssetOrigin: model.OriginPersonal},
		},
		Heirs: []model.Heir{
			{ID: "cousin-p", BirthDate: "1975-01-01", Relationship: model.RelOther, PaternalLine: &paternal},
			{ID: "cousin-m1", BirthDate: "1978-01-01", Relationship: model.RelOther, PaternalLine: &maternal},
			{ID: "cousin-m2", BirthDate: "1980-01-01", Relationship: model.RelOther, PaternalLine: &maternal},
		},
	}

	out, err := Simulate(in, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantMoney(t, "paternal cousin", findHeir(t, out, "cousin-p").GrossShareValue, 50_000)
	wantMoney(t, "maternal cousin 1", findHeir(t, out, "cousin-m1").GrossShareValue, 25_000)
	wantMoney(t, "maternal cousin 2", findHeir(t, out, "cousin-m2").GrossShareValue, 25_000)
}

func TestFenteMissingLineIsError(t *testing.T) {
	in := &model.SimulationInput{
		MatrimonialRegime: model.RegimeSeparation,
		DeathDate:         "2025-01-01",
		Assets: []model.Asset{
			{ID: "patrimoine", EstimatedValue: model.Euros(100_000), OwnershipMode: model.OwnershipFull, AssetOrigin: model.OriginPersonal},
		},
		Heirs: []model.Heir{
			{ID: "cousin", BirthDate: "1975-01-01", Relationship: model.RelOther},
		},
	}

	out, err := Simulate(in, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found := false
	for _, w := range out.Warnings {
		if w.Severity == model.SeverityError && strings.Contains(w.Message, "Fente") {
			found = true
		}
	}
	if !found {
		t.Fatal("expected an ERROR alert for the missing paternal_line flag")
	}
	wantMoney(t, "cousin share", findHeir(t, out, "cousin").GrossShareValue, 0)
}

func TestFuneralCostCap(t *testing.T) {
	in := &model.SimulationInput{
		MatrimonialRegime: model.RegimeSeparation,
		DeathDate:         "2025-01-01",
		Assets: []model.Asset{
			{ID: "patrimoine", EstimatedValue: model.Euros(50_000), OwnershipMode: model.OwnershipFull, AssetOrigin: model.OriginPersonal},
		},
		Heirs: []model.Heir{
			{ID: "enfant", BirthDate: "1990-01-01", Relationship: model.RelChild, IsFromCurrentUnion: true},
		},
		Debts: []model.Debt{
			{ID: "obseques", Amount: model.Euros(4_000), Type: model.DebtTypeFuneral, IsDeductible: true, AssetOrigin: model.OriginPersonal},
		},
	}

	out, err := Simulate(in, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantMoney(t, "mass", out.GlobalMetrics.TotalEstateValue, 48_500)
	if !hasWarning(out, "plafonnés") {
		t.Fatal("expected a funeral cap warning")
	}
}

func TestCustomSharesReserveViolationWarns(t *testing.T) {
	in := &model.SimulationInput{
		MatrimonialRegime: model.RegimeSeparation,
		DeathDate:         "2025-01-01",
		Assets: []model.Asset{
			{ID: "patrimoine", EstimatedValue: model.Euros(300_000), OwnershipMode: model.OwnershipFull, AssetOrigin: model.OriginPersonal},
		},
		Heirs: []model.Heir{
			{ID: "enfant1", BirthDate: "1990-01-01", Relationship: model.RelChild, IsFromCurrentUnion: true},
			{ID: "enfant2", BirthDate: "1992-01-01", Relationship: model.RelChild, IsFromCurrentUnion: true},
		},
		Wishes: &model.Wishes{
			TestamentDistribution: model.DistributionCustom,
			CustomShares: []model.CustomShare{
				{BeneficiaryID: "enfant1", Percentage: 90},
				{BeneficiaryID: "enfant2", Percentage: 10},
			},
		},
	}

	out, err := Simulate(in, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Shares applied verbatim, reserve infringement only warned.
	wantMoney(t, "enfant1", findHeir(t, out, "enfant1").GrossShareValue, 270_000)
	wantMoney(t, "enfant2", findHeir(t, out, "enfant2").GrossShareValue, 30_000)
	if !hasWarning(out, "Réserve héréditaire") {
		t.Fatal("expected a reserve infringement warning")
	}
}

func TestBequestOverAllocationWarns(t *testing.T) {
	in := &model.SimulationInput{
		MatrimonialRegime: model.RegimeSeparation,
		DeathDate:         "2025-01-01",
		Assets: []model.Asset{
			{ID: "tableau", EstimatedValue: model.Euros(100_000), OwnershipMode: model.OwnershipFull, AssetOrigin: model.OriginPersonal},
			{ID: "reste", EstimatedValue: model.Euros(100_000), OwnershipMode: model.OwnershipFull, AssetOrigin: model.OriginPersonal},
		},
		Heirs: []model.Heir{
			{ID: "enfant", BirthDate: "1990-01-01", Relationship: model.RelChild, IsFromCurrentUnion: true},
			{ID: "ami", BirthDate: "1985-01-01", Relationship: model.RelOther},
		},
		Wishes: &model.Wishes{
			TestamentDistribution: model.DistributionSpecificBequests,
			SpecificBequests: []model.SpecificBequest{
				{AssetID: "tableau", BeneficiaryID: "ami", SharePercentage: 60},
				{AssetID: "tableau", BeneficiaryID: "enfant", SharePercentage: 60},
			},
		},
	}

	out, err := Simulate(in, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !hasWarning(out, "100%") {
		t.Fatal("expected an over-allocation warning")
	}
}

func TestBareOwnershipValuedThroughScale(t *testing.T) {
	in := &model.SimulationInput{
		MatrimonialRegime: model.RegimeSeparation,
		DeathDate:         "2025-06-01",
		Assets: []model.Asset{
			// Usufructuary is 75: usufruct 30%, bare ownership 70%.
			{ID: "np", EstimatedValue: model.Euros(100_000), OwnershipMode: model.OwnershipBare, AssetOrigin: model.OriginPersonal, UsufructuaryBirthDate: "1950-01-01"},
		},
		Heirs: []model.Heir{
			{ID: "enfant", BirthDate: "1990-01-01", Relationship: model.RelChild, IsFromCurrentUnion: true},
		},
	}

	out, err := Simulate(in, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantMoney(t, "mass", out.GlobalMetrics.TotalEstateValue, 70_000)
}

func TestTemporaryUsufructValued(t *testing.T) {
	in := &model.SimulationInput{
		MatrimonialRegime: model.RegimeSeparation,
		DeathDate:         "2025-06-01",
		Assets: []model.Asset{
			// 15 remaining years: two started decades at 23% each.
			{ID: "ut", EstimatedValue: model.Euros(100_000), OwnershipMode: model.OwnershipUsufruct, AssetOrigin: model.OriginPersonal, UsufructType: model.UsufructTemporaire, UsufructDurationYears: 15},
		},
		Heirs: []model.Heir{
			{ID: "enfant", BirthDate: "1990-01-01", Relationship: model.RelChild, IsFromCurrentUnion: true},
		},
	}

	out, err := Simulate(in, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantMoney(t, "mass", out.GlobalMetrics.TotalEstateValue, 46_000)
}

func TestInputValidationRejectsNegativeValue(t *testing.T) {
	in := &model.SimulationInput{
		MatrimonialRegime: model.RegimeSeparation,
		DeathDate:         "2025-01-01",
		Assets: []model.Asset{
			{ID: "bad", EstimatedValue: model.Euros(-5), OwnershipMode: model.OwnershipFull, AssetOrigin: model.OriginPersonal},
		},
		Heirs: []model.Heir{
			{ID: "enfant", BirthDate: "1990-01-01", Relationship: model.RelChild, IsFromCurrentUnion: true},
		},
	}

	if _, err := Simulate(in, nil); err == nil {
		t.Fatal("expected an input validation error")
	}
}

func TestSpouseAloneTakesEverything(t *testing.T) {
	in := &model.SimulationInput{
		MatrimonialRegime: model.RegimeSeparation,
		DeathDate:         "2025-01-01",
		Assets: []model.Asset{
			{ID: "patrimoine", EstimatedValue: model.Euros(250_000), OwnershipMode: model.OwnershipFull, AssetOrigin: model.OriginPersonal},
		},
		Heirs: []model.Heir{
			{ID: "conjoint", BirthDate: "1960-01-01", Relationship: model.RelSpouse, IsFromCurrentUnion: true},
			{ID: "frere", BirthDate: "1958-01-01", Relationship: model.RelSibling},
		},
	}

	out, err := Simulate(in, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantMoney(t, "spouse", findHeir(t, out, "conjoint").GrossShareValue, 250_000)
	wantMoney(t, "sibling", findHeir(t, out, "frere").GrossShareValue, 0)
}

func TestSpouseWithParents(t *testing.T) {
	in := &model.SimulationInput{
		MatrimonialRegime: model.RegimeSeparation,
		DeathDate:         "2025-01-01",
		Assets: []model.Asset{
			{ID: "patrimoine", EstimatedValue: model.Euros(400_000), OwnershipMode: model.OwnershipFull, AssetOrigin: model.OriginPersonal},
		},
		Heirs: []model.Heir{
			{ID: "conjoint", BirthDate: "1960-01-01", Relationship: model.RelSpouse, IsFromCurrentUnion: true},
			{ID: "pere", BirthDate: "1938-01-01", Relationship: model.RelParent},
			{ID: "mere", BirthDate: "1940-01-01", Relationship: model.RelParent},
		},
	}

	out, err := Simulate(in, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantMoney(t, "spouse", findHeir(t, out, "conjoint").GrossShareValue, 200_000)
	wantMoney(t, "father", findHeir(t, out, "pere").GrossShareValue, 100_000)
	wantMoney(t, "mother", findHeir(t, out, "mere").GrossShareValue, 100_000)
}

func TestAdoptionSimpleWithoutCareTaxedAsStranger(t *testing.T) {
	in := &model.SimulationInput{
		MatrimonialRegime: model.RegimeSeparation,
		DeathDate:         "2025-01-01",
		Assets: []model.Asset{
			{ID: "patrimoine", EstimatedValue: model.Euros(100_000), OwnershipMode: model.OwnershipFull, AssetOrigin: model.OriginPersonal},
		},
		Heirs: []model.Heir{
			{ID: "adopte", BirthDate: "1990-01-01", Relationship: model.RelChild, IsFromCurrentUnion: true, AdoptionType: model.AdoptionSimple},
		},
	}

	out, err := Simulate(in, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	h := findHeir(t, out, "adopte")
	// Allowance 1 594, flat 60% on the rest.
	wantMoney(t, "taxable", h.TaxableBase, 98_406)
	wantMoney(t, "tax", h.TaxAmount, 59_043.60)

	in.Heirs[0].HasReceivedContinuousCare = true
	out, err = Simulate(in, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h = findHeir(t, out, "adopte")
	// Continuous care restores the direct line: allowance 100 000.
	wantMoney(t, "taxable with care", h.TaxableBase, 0)
	wantMoney(t, "tax with care", h.TaxAmount, 0)
}

func TestFifteenYearRecallConsumesAllowance(t *testing.T) {
	in := &model.SimulationInput{
		MatrimonialRegime: model.RegimeSeparation,
		DeathDate:         "2025-01-01",
		Assets: []model.Asset{
			{ID: "patrimoine", EstimatedValue: model.Euros(150_000), OwnershipMode: model.OwnershipFull, AssetOrigin: model.OriginPersonal},
		},
		Heirs: []model.Heir{
			{ID: "enfant", BirthDate: "1990-01-01", Relationship: model.RelChild, IsFromCurrentUnion: true},
		},
		Donations: []model.Donation{
			{ID: "don1", Type: model.PresentUsage, BeneficiaryID: "enfant", DonationDate: "2018-06-01", OriginalValue: model.Euros(60_000), IsDeclaredToTax: true},
		},
	}

	out, err := Simulate(in, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	h := findHeir(t, out, "enfant")
	// Allowance 100 000 reduced by the 60 000 declared within 15 years.
	wantMoney(t, "abatement used", h.AbatementUsed, 40_000)
	wantMoney(t, "taxable", h.TaxableBase, 110_000)
}

func TestDonationImputationReducesTaxableNotGross(t *testing.T) {
	in := &model.SimulationInput{
		MatrimonialRegime: model.RegimeSeparation,
		DeathDate:         "2025-01-01",
		Assets: []model.Asset{
			{ID: "patrimoine", EstimatedValue: model.Euros(200_000), OwnershipMode: model.OwnershipFull, AssetOrigin: model.OriginPersonal},
		},
		Heirs: []model.Heir{
			{ID: "enfant1", BirthDate: "1990-01-01", Relationship: model.RelChild, IsFromCurrentUnion: true},
			{ID: "enfant2", BirthDate: "1992-01-01", Relationship: model.RelChild, IsFromCurrentUnion: true},
		},
		Donations: []model.Donation{
			{ID: "don1", Type: model.DonManuel, BeneficiaryID: "enfant1", DonationDate: "2015-06-01", OriginalValue: model.Euros(40_000), CurrentEstimatedValue: moneyPtr(50_000)},
		},
	}

	out, err := Simulate(in, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Mass 250 000 (200 000 + 50 000 reported), 125 000 per child; the
	// donee's taxable share drops by the imputed gift.
	wantMoney(t, "mass", out.GlobalMetrics.TotalEstateValue, 250_000)
	donee := findHeir(t, out, "enfant1")
	wantMoney(t, "donee entitlement", donee.GrossShareValue, 125_000)
	wantMoney(t, "donee taxable", donee.TaxableBase, 0)
	other := findHeir(t, out, "enfant2")
	wantMoney(t, "other entitlement", other.GrossShareValue, 125_000)
	wantMoney(t, "other taxable", other.TaxableBase, 25_000)
}
