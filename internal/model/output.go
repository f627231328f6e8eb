package model

// Explanation pairs a stable key with the values that produced a figure.
// Consumers map keys to localized text; an explanation carries no prose.
type Explanation struct {
	Key     string            `json:"key"`
	Context map[string]string `json:"context,omitempty"`
}

// Explanation keys. Each cites the legal article driving the figure.
const (
	KeyShareChildrenEqual     = "SHARE_CHILDREN_EQUAL"      // Art. 734/735 CC
	KeyShareRepresentation    = "SHARE_REPRESENTATION"      // Art. 751+ CC
	KeyShareSpouseQuarter     = "SHARE_SPOUSE_QUARTER"      // Art. 757 CC
	KeyShareSpouseUsufruct    = "SHARE_SPOUSE_USUFRUCT"     // Art. 757 CC
	KeyShareSpouseDDV         = "SHARE_SPOUSE_DDV"          // Art. 1094-1 CC
	KeyShareSpouseAlone       = "SHARE_SPOUSE_ALONE"        // Art. 757-2 CC
	KeyShareSpouseParents     = "SHARE_SPOUSE_PARENTS"      // Art. 757-1 CC
	KeyShareParentsSiblings   = "SHARE_PARENTS_SIBLINGS"    // Art. 738 CC
	KeyShareFente             = "SHARE_FENTE"               // Art. 746 CC
	KeyShareRenunciation      = "SHARE_RENUNCIATION"        // Art. 805 CC
	KeyShareExcludedByOrder   = "SHARE_EXCLUDED_BY_ORDER"   // Art. 734 CC
	KeyReserveChildren        = "RESERVE_CHILDREN"          // Art. 913 CC
	KeyReserveParents         = "RESERVE_PARENTS"           // Art. 914-1 CC
	KeyReserveNone            = "RESERVE_NONE"              // Art. 916 CC
	KeyAbatementChild100K     = "ABATEMENT_CHILD_100K"      // Art. 779 CGI
	KeyAbatementSibling       = "ABATEMENT_SIBLING"         // Art. 779 CGI
	KeyAbatementNephew        = "ABATEMENT_NEPHEW"          // Art. 779 CGI
	KeyAbatementOther         = "ABATEMENT_OTHER"           // Art. 788 CGI
	KeyAbatementDisability    = "ABATEMENT_DISABILITY"      // Art. 779 II CGI
	KeyAbatementConsumed15Y   = "ABATEMENT_CONSUMED_15Y"    // Art. 784 CGI
	KeyTaxSpouseExempt        = "TAX_SPOUSE_EXEMPT"         // Art. 796-0 bis CGI
	KeyTaxBracketsDirect      = "TAX_BRACKETS_DIRECT"       // Art. 777 CGI
	KeyTaxBracketsSibling     = "TAX_BRACKETS_SIBLING"      // Art. 777 CGI
	KeyTaxRateCollateral      = "TAX_RATE_COLLATERAL_55"    // Art. 777 CGI
	KeyTaxRateStranger        = "TAX_RATE_STRANGER_60"      // Art. 777 CGI
	KeyTaxAdoptionSimple60    = "TAX_ADOPTION_SIMPLE_60"    // Art. 786 CGI
	KeyLiquidationCommunity50 = "LIQUIDATION_COMMUNITY_50"  // Art. 1475 CC
	KeyLiquidationPreciput    = "LIQUIDATION_PRECIPUT"      // Art. 1515 CC
	KeyLiquidationReward      = "LIQUIDATION_REWARD"        // Art. 1468 CC
	KeyLiquidationFullAttrib  = "LIQUIDATION_FULL_ATTRIBUTION" // Art. 1524 CC
	KeyLiquidationSeparation  = "LIQUIDATION_SEPARATION"    // Art. 1536 CC
	KeyEstateDebtProrata769   = "ESTATE_DEBT_PRORATA_769"   // Art. 769 CGI
	KeyEstateFuneralCap       = "ESTATE_FUNERAL_CAP"        // Art. 775 CGI
	KeyEstateRightOfReturn    = "ESTATE_RIGHT_OF_RETURN"    // Art. 738-2 CC
	KeyEstateReportedDonation = "ESTATE_REPORTED_DONATION"  // Art. 843 CC
	KeyMainResidence20        = "MAIN_RESIDENCE_20"         // Art. 764 bis CGI
	KeyExemptionDutreil       = "EXEMPTION_DUTREIL"         // Art. 787 B CGI
	KeyExemptionRural         = "EXEMPTION_RURAL"           // Art. 793 CGI
	KeyExemptionForestry      = "EXEMPTION_FORESTRY"        // Art. 793 CGI
	KeyUsufructViager         = "USUFRUCT_VIAGER"           // Art. 669 I CGI
	KeyUsufructTemporaire     = "USUFRUCT_TEMPORAIRE"       // Art. 669 II CGI
	KeyLI990I                 = "LI_990I"                   // Art. 990 I CGI
	KeyLI757B                 = "LI_757B"                   // Art. 757 B CGI
	KeyLIAncienExempt         = "LI_ANCIEN_EXEMPT"          // contracts before 20/11/1991
	KeyLIVieGeneration        = "LI_VIE_GENERATION"         // Art. 990 I, I bis CGI
	KeyLIDismembered          = "LI_DISMEMBERED"            // Art. 669 CGI
	KeyAlertReserveExceeded   = "ALERT_RESERVE_EXCEEDED"    // Art. 920 CC
	KeyAlertOverAllocation    = "ALERT_OVER_ALLOCATION"
	KeyAlertInternational     = "ALERT_INTERNATIONAL"       // Règlement UE 650/2012
	KeyAlertRetranchement     = "ALERT_RETRANCHEMENT"       // Art. 1527 CC
	KeyAlertRewardHeuristic   = "ALERT_REWARD_HEURISTIC"    // Art. 1468 CC
	KeyAlertFenteMissingLine  = "ALERT_FENTE_MISSING_LINE"  // Art. 746 CC
	KeyAlertGiftExceedsShare  = "ALERT_GIFT_EXCEEDS_SHARE"  // Art. 843 CC
)

type SuccessionOutput struct {
	GlobalMetrics      GlobalMetrics       `json:"global_metrics"`
	HeirsBreakdown     []HeirBreakdown     `json:"heirs_breakdown"`
	FamilyContext      FamilyContext       `json:"family_context"`
	LiquidationDetails LiquidationDetails  `json:"liquidation_details"`
	SpouseDetails      *SpouseDetails      `json:"spouse_details,omitempty"`
	AssetsBreakdown    []AssetBreakdown    `json:"assets_breakdown"`
	LifeInsurance      []LifeInsuranceLine `json:"life_insurance,omitempty"`
	CalculationSteps   []CalculationStep   `json:"calculation_steps"`
	Warnings           []Alert             `json:"warnings"`
}

type FamilyContext struct {
	HasSpouse          bool `json:"has_spouse"`
	SpouseAge          *int `json:"spouse_age,omitempty"`
	NumChildren        int  `json:"num_children"`
	HasStepchildren    bool `json:"has_stepchildren"`
	NumRepresentatives int  `json:"num_representatives"`
}

type GlobalMetrics struct {
	TotalEstateValue      Money         `json:"total_estate_value"`
	LegalReserveValue     Money         `json:"legal_reserve_value"`
	DisposableQuotaValue  Money         `json:"disposable_quota_value"`
	TotalTaxAmount        Money         `json:"total_tax_amount"`
	InheritanceTaxAmount  Money         `json:"inheritance_tax_amount"`
	LifeInsuranceTaxAmount Money        `json:"life_insurance_tax_amount"`
	ExplanationKeys       []Explanation `json:"explanation_keys"`
}

type HeirBreakdown struct {
	ID                string        `json:"id"`
	Name              string        `json:"name"`
	LegalSharePercent float64       `json:"legal_share_percent"`
	GrossShareValue   Money         `json:"gross_share_value"`
	TaxableBase       Money         `json:"taxable_base"`
	AbatementUsed     Money         `json:"abatement_used"`
	TaxAmount         Money         `json:"tax_amount"`
	NetShareValue     Money         `json:"net_share_value"`
	ReceivedAssets    []ReceivedAsset `json:"received_assets,omitempty"`
	TaxCalculation    *TaxCalculation `json:"tax_calculation_details,omitempty"`
	ExplanationKeys   []Explanation `json:"explanation_keys"`
}

type ReceivedAsset struct {
	AssetID string `json:"asset_id"`
	Value   Money  `json:"value"`
	Note    string `json:"note,omitempty"`
}

type TaxCalculation struct {
	Relationship    Relationship    `json:"relationship"`
	GrossAmount     Money           `json:"gross_amount"`
	AllowanceAmount Money           `json:"allowance_amount"`
	NetTaxable      Money           `json:"net_taxable"`
	BracketsApplied []BracketDetail `json:"brackets_applied"`
	TotalTax        Money           `json:"total_tax"`
}

type BracketDetail struct {
	BracketMin       Money   `json:"bracket_min"`
	BracketMax       *Money  `json:"bracket_max,omitempty"`
	Rate             float64 `json:"rate"`
	TaxableInBracket Money   `json:"taxable_in_bracket"`
	TaxForBracket    Money   `json:"tax_for_bracket"`
}

type LiquidationDetails struct {
	Regime                 MatrimonialRegime  `json:"regime"`
	CommunityAssetsTotal   Money              `json:"community_assets_total"`
	SpouseCommunityShare   Money              `json:"spouse_community_share"`
	DeceasedCommunityShare Money              `json:"deceased_community_share"`
	PersonalAssetsDeceased Money              `json:"personal_assets_deceased"`
	RewardsToDeceased      Money              `json:"rewards_to_deceased"`
	RewardsToSpouse        Money              `json:"rewards_to_spouse"`
	HasFullAttribution     bool               `json:"has_full_attribution"`
	HasPreciput            bool               `json:"has_preciput"`
	PreciputValue          Money              `json:"preciput_value"`
	Attributions           []AssetAttribution `json:"attributions"`
	Details                []string           `json:"details"`
}

// AssetAttribution records how one asset's value splits at liquidation.
// For a full-ownership asset deceased + spouse + preciput = estimated value,
// within a cent; for indivision and dismembered assets the sum is lower, the
// co-owners' or counterpart's fraction staying outside the split.
type AssetAttribution struct {
	AssetID       string `json:"asset_id"`
	DeceasedShare Money  `json:"deceased_share"`
	SpouseShare   Money  `json:"spouse_share"`
	PreciputShare Money  `json:"preciput_share"`
}

type SpouseDetails struct {
	HasUsufruct        bool    `json:"has_usufruct"`
	UsufructValue      *Money  `json:"usufruct_value,omitempty"`
	BareOwnershipValue *Money  `json:"bare_ownership_value,omitempty"`
	UsufructRate       float64 `json:"usufruct_rate,omitempty"`
	ChoiceMade         string  `json:"choice_made,omitempty"`
}

type AssetBreakdown struct {
	AssetID       string        `json:"asset_id"`
	AssetValue    Money         `json:"asset_value"`
	OwnershipMode OwnershipMode `json:"ownership_mode"`
	AssetOrigin   AssetOrigin   `json:"asset_origin"`
	Notes         []string      `json:"notes,omitempty"`
}

type LifeInsuranceLine struct {
	AssetID        string                    `json:"asset_id"`
	ContractType   LifeInsuranceContractType `json:"contract_type"`
	BeneficiaryID  string                    `json:"beneficiary_id"`
	TaxableBase    Money                     `json:"taxable_base"`
	AllowanceUsed  Money                     `json:"allowance_used"`
	TaxAmount      Money                     `json:"tax_amount"`
	AddedToCivil   Money                     `json:"added_to_civil_base"`
	ExplanationKeys []Explanation            `json:"explanation_keys"`
}

type CalculationStep struct {
	StepNumber    int    `json:"step_number"`
	StepName      string `json:"step_name"`
	Description   string `json:"description"`
	ResultSummary string `json:"result_summary"`
}

type Alert struct {
	Severity        AlertSeverity `json:"severity"`
	Audience        AlertAudience `json:"audience"`
	Category        AlertCategory `json:"category"`
	Message         string        `json:"message"`
	Details         string        `json:"details,omitempty"`
	ExplanationKeys []Explanation `json:"explanation_keys,omitempty"`
}
