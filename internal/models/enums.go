package models

// LandUse is the zoning category of a parcel.
type LandUse string

const (
	LandUseResidential  LandUse = "residential"
	LandUseCommercial   LandUse = "commercial"
	LandUseAgricultural LandUse = "agricultural"
	LandUseIndustrial   LandUse = "industrial"
	LandUseMixed        LandUse = "mixed_use"
)

// AllLandUses returns every land-use category in declaration order.
func AllLandUses() []LandUse {
	return []LandUse{LandUseResidential, LandUseCommercial, LandUseAgricultural, LandUseIndustrial, LandUseMixed}
}

// Valid reports whether u is a known land-use category.
func (u LandUse) Valid() bool { return contains(AllLandUses(), u) }

// ParcelStatus is the lifecycle state of a parcel. ParcelStatusExpropriated is terminal.
type ParcelStatus string

const (
	ParcelStatusActive              ParcelStatus = "active"
	ParcelStatusPendingRegistration ParcelStatus = "pending_registration"
	ParcelStatusUnderDispute        ParcelStatus = "under_dispute"
	ParcelStatusTransferred         ParcelStatus = "transferred"
	ParcelStatusExpropriated        ParcelStatus = "expropriated"
)

// AllParcelStatuses returns every lifecycle status.
func AllParcelStatuses() []ParcelStatus {
	return []ParcelStatus{
		ParcelStatusActive,
		ParcelStatusPendingRegistration,
		ParcelStatusUnderDispute,
		ParcelStatusTransferred,
		ParcelStatusExpropriated,
	}
}

// SeedableParcelStatuses is the subset a freshly registered parcel can start in.
func SeedableParcelStatuses() []ParcelStatus {
	return []ParcelStatus{ParcelStatusActive, ParcelStatusPendingRegistration, ParcelStatusUnderDispute}
}

// Valid reports whether s is a known lifecycle status.
func (s ParcelStatus) Valid() bool { return contains(AllParcelStatuses(), s) }

// IsTerminal reports whether no further lifecycle change is allowed.
func (s ParcelStatus) IsTerminal() bool { return s == ParcelStatusExpropriated }

// ComplianceStatus summarises the latest inspection outcome.
type ComplianceStatus string

const (
	ComplianceCompliant         ComplianceStatus = "compliant"
	ComplianceNonCompliant      ComplianceStatus = "non_compliant"
	CompliancePendingInspection ComplianceStatus = "pending_inspection"
	ComplianceUnderReview       ComplianceStatus = "under_review"
)

// AllComplianceStatuses returns every compliance status.
func AllComplianceStatuses() []ComplianceStatus {
	return []ComplianceStatus{ComplianceCompliant, ComplianceNonCompliant, CompliancePendingInspection, ComplianceUnderReview}
}

// Valid reports whether s is a known compliance status.
func (s ComplianceStatus) Valid() bool { return contains(AllComplianceStatuses(), s) }

// ExpropriationStatus tracks an expropriation case through review.
type ExpropriationStatus string

const (
	ExpropriationFlagged     ExpropriationStatus = "flagged"
	ExpropriationUnderReview ExpropriationStatus = "under_review"
	ExpropriationApproved    ExpropriationStatus = "approved"
	ExpropriationCompensated ExpropriationStatus = "compensated"
	ExpropriationCompleted   ExpropriationStatus = "completed"
	ExpropriationRejected    ExpropriationStatus = "rejected"
)

// AllExpropriationStatuses returns every expropriation status.
func AllExpropriationStatuses() []ExpropriationStatus {
	return []ExpropriationStatus{
		ExpropriationFlagged,
		ExpropriationUnderReview,
		ExpropriationApproved,
		ExpropriationCompensated,
		ExpropriationCompleted,
		ExpropriationRejected,
	}
}

// SeedableExpropriationStatuses is the early-stage subset used for sample cases.
func SeedableExpropriationStatuses() []ExpropriationStatus {
	return []ExpropriationStatus{ExpropriationFlagged, ExpropriationUnderReview, ExpropriationApproved}
}

// Valid reports whether s is a known expropriation status.
func (s ExpropriationStatus) Valid() bool { return contains(AllExpropriationStatuses(), s) }

// ExpropriationReason is the public purpose cited for an expropriation.
type ExpropriationReason string

const (
	ReasonInfrastructure   ExpropriationReason = "infrastructure"
	ReasonUrbanDevelopment ExpropriationReason = "urban_development"
	ReasonEnvironmental    ExpropriationReason = "environmental"
	ReasonPublicFacility   ExpropriationReason = "public_facility"
	ReasonAgriculture      ExpropriationReason = "agriculture"
	ReasonOther            ExpropriationReason = "other"
)

// AllExpropriationReasons returns every expropriation reason.
func AllExpropriationReasons() []ExpropriationReason {
	return []ExpropriationReason{
		ReasonInfrastructure,
		ReasonUrbanDevelopment,
		ReasonEnvironmental,
		ReasonPublicFacility,
		ReasonAgriculture,
		ReasonOther,
	}
}

// SeedableExpropriationReasons is the subset used for sample cases.
func SeedableExpropriationReasons() []ExpropriationReason {
	return []ExpropriationReason{ReasonInfrastructure, ReasonUrbanDevelopment, ReasonEnvironmental}
}

// Valid reports whether r is a known reason.
func (r ExpropriationReason) Valid() bool { return contains(AllExpropriationReasons(), r) }

// HeirRelationship is the heir's relation to the current owner.
type HeirRelationship string

const (
	RelationshipChild   HeirRelationship = "child"
	RelationshipSpouse  HeirRelationship = "spouse"
	RelationshipSibling HeirRelationship = "sibling"
	RelationshipParent  HeirRelationship = "parent"
)

// AllHeirRelationships returns every relationship label.
func AllHeirRelationships() []HeirRelationship {
	return []HeirRelationship{RelationshipChild, RelationshipSpouse, RelationshipSibling, RelationshipParent}
}

// Valid reports whether r is a known relationship label.
func (r HeirRelationship) Valid() bool { return contains(AllHeirRelationships(), r) }

// DocumentType tags a document attached to a parcel.
type DocumentType string

const (
	DocumentTitleDeed  DocumentType = "title_deed"
	DocumentSurveyPlan DocumentType = "survey_plan"
)

// InheritanceRequestStatus is the workflow state of an inheritance request.
//
//	pending -> verified -> executed
//	pending -> rejected
//	pending | verified -> cancelled
type InheritanceRequestStatus string

const (
	InheritancePending   InheritanceRequestStatus = "pending"
	InheritanceVerified  InheritanceRequestStatus = "verified"
	InheritanceRejected  InheritanceRequestStatus = "rejected"
	InheritanceExecuted  InheritanceRequestStatus = "executed"
	InheritanceCancelled InheritanceRequestStatus = "cancelled"
)

// AllInheritanceRequestStatuses returns every workflow state.
func AllInheritanceRequestStatuses() []InheritanceRequestStatus {
	return []InheritanceRequestStatus{
		InheritancePending,
		InheritanceVerified,
		InheritanceRejected,
		InheritanceExecuted,
		InheritanceCancelled,
	}
}

// Valid reports whether s is a known workflow state.
func (s InheritanceRequestStatus) Valid() bool { return contains(AllInheritanceRequestStatuses(), s) }

func contains[T comparable](set []T, v T) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
