package model

type MatrimonialRegime string

const (
	RegimeCommunityLegal     MatrimonialRegime = "COMMUNITY_LEGAL"
	RegimeCommunityUniversal MatrimonialRegime = "COMMUNITY_UNIVERSAL"
	RegimeSeparation         MatrimonialRegime = "SEPARATION"
)

func (r MatrimonialRegime) Valid() bool {
	switch r {
	case RegimeCommunityLegal, RegimeCommunityUniversal, RegimeSeparation:
		return true
	}
	return false
}

// IsCommunity reports whether the regime carries a community pool.
func (r MatrimonialRegime) IsCommunity() bool {
	return r == RegimeCommunityLegal || r == RegimeCommunityUniversal
}

type AssetOrigin string

const (
	OriginPersonal    AssetOrigin = "PERSONAL"
	OriginCommunity   AssetOrigin = "COMMUNITY"
	OriginInheritance AssetOrigin = "INHERITANCE"
)

func (o AssetOrigin) Valid() bool {
	switch o {
	case OriginPersonal, OriginCommunity, OriginInheritance:
		return true
	}
	return false
}

type OwnershipMode string

const (
	OwnershipFull       OwnershipMode = "FULL"
	OwnershipUsufruct   OwnershipMode = "USUFRUCT"
	OwnershipBare       OwnershipMode = "BARE"
	OwnershipIndivision OwnershipMode = "INDIVISION"
)

func (m OwnershipMode) Valid() bool {
	switch m {
	case OwnershipFull, OwnershipUsufruct, OwnershipBare, OwnershipIndivision:
		return true
	}
	return false
}

type UsufructType string

const (
	UsufructViager     UsufructType = "VIAGER"
	UsufructTemporaire UsufructType = "TEMPORAIRE"
)

type Relationship string

const (
	RelChild           Relationship = "CHILD"
	RelSpouse          Relationship = "SPOUSE"
	RelPartner         Relationship = "PARTNER"
	RelParent          Relationship = "PARENT"
	RelSibling         Relationship = "SIBLING"
	RelGrandchild      Relationship = "GRANDCHILD"
	RelGreatGrandchild Relationship = "GREAT_GRANDCHILD"
	RelNephewNiece     Relationship = "NEPHEW_NIECE"
	RelOther           Relationship = "OTHER"
)

func (r Relationship) Valid() bool {
	switch r {
	case RelChild, RelSpouse, RelPartner, RelParent, RelSibling,
		RelGrandchild, RelGreatGrandchild, RelNephewNiece, RelOther:
		return true
	}
	return false
}

// IsDescendant reports whether the relationship belongs to order 1 (Art. 734 CC).
func (r Relationship) IsDescendant() bool {
	return r == RelChild || r == RelGrandchild || r == RelGreatGrandchild
}

// IsSpouseOrPartner covers the total tax exemption of the TEPA law.
func (r Relationship) IsSpouseOrPartner() bool {
	return r == RelSpouse || r == RelPartner
}

type AcceptanceOption string

const (
	AcceptPureSimple       AcceptanceOption = "PURE_SIMPLE"
	AcceptBenefitInventory AcceptanceOption = "BENEFIT_INVENTORY"
	AcceptRenunciation     AcceptanceOption = "RENUNCIATION"
)

type AdoptionType string

const (
	AdoptionNone   AdoptionType = "NONE"
	AdoptionFull   AdoptionType = "FULL"
	AdoptionSimple AdoptionType = "SIMPLE"
)

type DonationType string

const (
	DonManuel       DonationType = "DON_MANUEL"
	DonationPartage DonationType = "DONATION_PARTAGE"
	PresentUsage    DonationType = "PRESENT_USAGE"
)

type TestamentDistribution string

const (
	DistributionLegal            TestamentDistribution = "LEGAL"
	DistributionSpecificBequests TestamentDistribution = "SPECIFIC_BEQUESTS"
	DistributionCustom           TestamentDistribution = "CUSTOM"
	DistributionSpouseAll        TestamentDistribution = "SPOUSE_ALL"
	DistributionChildrenAll      TestamentDistribution = "CHILDREN_ALL"
)

type SpouseChoice string

const (
	SpouseChoiceUsufruct        SpouseChoice = "USUFRUCT"
	SpouseChoiceQuarter         SpouseChoice = "QUARTER_OWNERSHIP"
	SpouseChoiceDisposableQuota SpouseChoice = "DISPOSABLE_QUOTA"
)

type LifeInsuranceContractType string

const (
	ContractStandard      LifeInsuranceContractType = "STANDARD"
	ContractVieGeneration LifeInsuranceContractType = "VIE_GENERATION"
	ContractAncien        LifeInsuranceContractType = "ANCIEN_CONTRAT"
)

type SubscriberType string

const (
	SubscriberDeceased SubscriberType = "DECEASED"
	SubscriberSpouse   SubscriberType = "SPOUSE"
)

type ExemptionType string

const (
	ExemptionNone       ExemptionType = "NONE"
	ExemptionDutreil    ExemptionType = "DUTREIL"
	ExemptionRuralLease ExemptionType = "RURAL_LEASE"
	ExemptionForestry   ExemptionType = "FORESTRY"
)

type AlertSeverity string

const (
	SeverityInfo    AlertSeverity = "INFO"
	SeverityWarning AlertSeverity = "WARNING"
	SeverityError   AlertSeverity = "ERROR"
)

type AlertAudience string

const (
	AudienceUser   AlertAudience = "USER"
	AudienceNotary AlertAudience = "NOTARY"
)

type AlertCategory string

const (
	CategoryLegal        AlertCategory = "LEGAL"
	CategoryFiscal       AlertCategory = "FISCAL"
	CategoryData         AlertCategory = "DATA"
	CategoryOptimization AlertCategory = "OPTIMIZATION"
)

type BeneficiaryOwnership string

const (
	BeneficiaryFull     BeneficiaryOwnership = "FULL"
	BeneficiaryUsufruct BeneficiaryOwnership = "USUFRUCT"
	BeneficiaryBare     BeneficiaryOwnership = "BARE"
)
