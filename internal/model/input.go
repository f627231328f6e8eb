package model

// Dates are ISO strings ("2006-01-02") at the input boundary; the engine
// validates them before the pipeline runs and parses them where it uses them.

type SimulationInput struct {
	MatrimonialRegime MatrimonialRegime `json:"matrimonial_regime" validate:"required"`
	MarriageDate      string            `json:"marriage_date,omitempty"`
	DeathDate         string            `json:"death_date" validate:"required"`
	ResidenceCountry  string            `json:"residence_country,omitempty"`

	Assets    []Asset    `json:"assets" validate:"dive"`
	Heirs     []Heir     `json:"heirs" validate:"required,min=1,dive"`
	Donations []Donation `json:"donations,omitempty" validate:"dive"`
	Debts     []Debt     `json:"debts,omitempty" validate:"dive"`

	Wishes                *Wishes                `json:"wishes,omitempty"`
	MatrimonialAdvantages *MatrimonialAdvantages `json:"matrimonial_advantages,omitempty"`
}

type Asset struct {
	ID             string        `json:"id" validate:"required"`
	EstimatedValue Money         `json:"estimated_value"`
	OwnershipMode  OwnershipMode `json:"ownership_mode"`
	AssetOrigin    AssetOrigin   `json:"asset_origin"`
	AcquisitionDate string       `json:"acquisition_date,omitempty"`

	// Dismemberment
	UsufructuaryBirthDate string       `json:"usufructuary_birth_date,omitempty"`
	UsufructType          UsufructType `json:"usufruct_type,omitempty"`
	UsufructDurationYears int          `json:"usufruct_duration_years,omitempty"`

	// Récompenses (Art. 1468 CC)
	CommunityFundingPercentage float64 `json:"community_funding_percentage,omitempty" validate:"gte=0,lte=100"`

	Indivision *IndivisionDetails `json:"indivision_details,omitempty"`

	// Art. 764 bis CGI
	IsMainResidence       bool `json:"is_main_residence,omitempty"`
	SpouseOccupiesProperty bool `json:"spouse_occupies_property,omitempty"`

	// Life insurance: an asset with any premium field set is a contract,
	// excluded from the succession mass.
	PremiumsBefore70          *Money                     `json:"premiums_before_70,omitempty"`
	PremiumsAfter70           *Money                     `json:"premiums_after_70,omitempty"`
	LifeInsuranceContractType LifeInsuranceContractType  `json:"life_insurance_contract_type,omitempty"`
	LifeInsuranceBeneficiaries []LifeInsuranceBeneficiary `json:"life_insurance_beneficiaries,omitempty" validate:"dive"`
	SubscriberType            SubscriberType             `json:"subscriber_type,omitempty"`

	// Sociétés: compte courant d'associé, excluded from Dutreil (Art. 787 B CGI)
	CCAValue Money `json:"cca_value,omitempty"`

	ProfessionalExemption *ProfessionalExemption `json:"professional_exemption,omitempty"`

	// Droit de retour légal (Art. 738-2 CC)
	ReceivedFromParentID string `json:"received_from_parent_id,omitempty"`

	LocationCountry string `json:"location_country,omitempty"`
}

// IsLifeInsurance reports whether the asset is a life-insurance contract.
func (a *Asset) IsLifeInsurance() bool {
	return a.PremiumsBefore70 != nil || a.PremiumsAfter70 != nil
}

type LifeInsuranceBeneficiary struct {
	BeneficiaryID   string               `json:"beneficiary_id" validate:"required"`
	SharePercentage float64              `json:"share_percentage" validate:"gte=0,lte=100"`
	Ownership       BeneficiaryOwnership `json:"ownership,omitempty"`
}

type IndivisionDetails struct {
	WithSpouse  bool     `json:"with_spouse,omitempty"`
	SpouseShare float64  `json:"spouse_share,omitempty" validate:"gte=0,lte=100"`
	WithOthers  bool     `json:"with_others,omitempty"`
	OthersShare float64  `json:"others_share,omitempty" validate:"gte=0,lte=100"`
	CoOwners    []string `json:"co_owners,omitempty"`
}

// DeceasedSharePercentage returns the deceased's percentage of the asset.
func (d *IndivisionDetails) DeceasedSharePercentage() float64 {
	others := 0.0
	if d.WithSpouse {
		others += d.SpouseShare
	}
	if d.WithOthers {
		others += d.OthersShare
	}
	if others > 100 {
		return 0
	}
	return 100 - others
}

type ProfessionalExemption struct {
	ExemptionType ExemptionType `json:"exemption_type"`

	// Pacte Dutreil (Art. 787 B CGI): both commitments required
	DutreilIsCollective bool `json:"dutreil_is_collective,omitempty"`
	DutreilIsIndividual bool `json:"dutreil_is_individual,omitempty"`

	// Bail rural long terme (Art. 793 CGI): >= 18 years
	LeaseDurationYears int `json:"lease_duration_years,omitempty"`
}

type Heir struct {
	ID           string       `json:"id" validate:"required"`
	Name         string       `json:"name,omitempty"`
	BirthDate    string       `json:"birth_date" validate:"required"`
	Relationship Relationship `json:"relationship" validate:"required"`

	IsFromCurrentUnion bool `json:"is_from_current_union"`

	// Représentation (Art. 751+ CC): id of the predeceased or renouncing
	// heir this member represents.
	RepresentedHeirID string `json:"represented_heir_id,omitempty"`

	IsDisabled bool `json:"is_disabled,omitempty"`

	AdoptionType             AdoptionType `json:"adoption_type,omitempty"`
	HasReceivedContinuousCare bool        `json:"has_received_continuous_care,omitempty"`

	AcceptanceOption AcceptanceOption `json:"acceptance_option,omitempty"`
	HasRenounced     bool             `json:"has_renounced,omitempty"`

	// Fente successorale (Art. 746 CC): nil when unknown.
	PaternalLine *bool `json:"paternal_line,omitempty"`
}

// Renounced reports whether the heir is out of the succession (Art. 805 CC).
func (h *Heir) Renounced() bool {
	return h.HasRenounced || h.AcceptanceOption == AcceptRenunciation
}

type Donation struct {
	ID                    string       `json:"id" validate:"required"`
	Type                  DonationType `json:"type"`
	BeneficiaryID         string       `json:"beneficiary_id" validate:"required"`
	DonationDate          string       `json:"donation_date" validate:"required"`
	OriginalValue         Money        `json:"original_value"`
	CurrentEstimatedValue *Money       `json:"current_estimated_value,omitempty"`
	IsDeclaredToTax       bool         `json:"is_declared_to_tax,omitempty"`
}

// Reportable reports whether the donation re-enters the civil mass (Art. 843 CC).
func (d *Donation) Reportable() bool {
	return d.Type == DonManuel
}

// ReportableValue is the amount brought back to the mass: don manuel revalued
// at death (original value when no current value is given), zero for the
// other types.
func (d *Donation) ReportableValue() Money {
	if !d.Reportable() {
		return Zero()
	}
	if d.CurrentEstimatedValue != nil && d.CurrentEstimatedValue.IsPositive() {
		return *d.CurrentEstimatedValue
	}
	return d.OriginalValue
}

type Debt struct {
	ID            string      `json:"id" validate:"required"`
	Amount        Money       `json:"amount"`
	Type          string      `json:"type"`
	IsDeductible  bool        `json:"is_deductible"`
	LinkedAssetID string      `json:"linked_asset_id,omitempty"`
	AssetOrigin   AssetOrigin `json:"asset_origin,omitempty"`
	ProofProvided bool        `json:"proof_provided,omitempty"`
}

// DebtTypeFuneral is the debt type capped by Art. 775 CGI.
const DebtTypeFuneral = "frais funéraires"

type Wishes struct {
	HasSpouseDonation    bool                  `json:"has_spouse_donation,omitempty"`
	TestamentDistribution TestamentDistribution `json:"testament_distribution,omitempty"`
	SpecificBequests     []SpecificBequest     `json:"specific_bequests,omitempty" validate:"dive"`
	CustomShares         []CustomShare         `json:"custom_shares,omitempty" validate:"dive"`
	SpouseChoice         SpouseChoice          `json:"spouse_choice,omitempty"`
}

type SpecificBequest struct {
	AssetID         string  `json:"asset_id" validate:"required"`
	BeneficiaryID   string  `json:"beneficiary_id" validate:"required"`
	SharePercentage float64 `json:"share_percentage" validate:"gt=0,lte=100"`
}

type CustomShare struct {
	BeneficiaryID string  `json:"beneficiary_id" validate:"required"`
	Percentage    float64 `json:"percentage" validate:"gte=0,lte=100"`
}

type MatrimonialAdvantages struct {
	HasFullAttribution bool `json:"has_full_attribution,omitempty"`

	HasPreciput     bool     `json:"has_preciput,omitempty"`
	PreciputAssetIDs []string `json:"preciput_asset_ids,omitempty"`

	HasUnequalShare       bool    `json:"has_unequal_share,omitempty"`
	SpouseSharePercentage float64 `json:"spouse_share_percentage,omitempty" validate:"omitempty,gte=51,lte=99"`
}
