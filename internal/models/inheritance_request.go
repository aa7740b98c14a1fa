package models

import (
	"time"

	"gorm.io/datatypes"
)

// InheritanceRequest asks the registry to transfer a parcel from its owner to
// a nominated heir. It is independent of the nomination fields on LandParcel.
type InheritanceRequest struct {
	CreatedAt         time.Time                   `gorm:"column:created_at;index" json:"createdAt"`
	UpdatedAt         time.Time                   `gorm:"column:updated_at" json:"updatedAt"`
	Documents         datatypes.JSONSlice[string] `gorm:"column:documents" json:"documents"`
	EffectiveDate     *time.Time                  `gorm:"column:effective_date" json:"effectiveDate,omitempty"`
	VerifiedAt        *time.Time                  `gorm:"column:verified_at" json:"verifiedAt,omitempty"`
	ExecutedAt        *time.Time                  `gorm:"column:executed_at" json:"executedAt,omitempty"`
	TransferDate      *time.Time                  `gorm:"column:transfer_date" json:"transferDate,omitempty"`
	VerifierAddress   *string                     `gorm:"size:42;column:verifier_address" json:"verifierAddress,omitempty"`
	VerificationNotes *string                     `gorm:"type:text;column:verification_notes" json:"verificationNotes,omitempty"`
	ExecutorAddress   *string                     `gorm:"size:42;column:executor_address" json:"executorAddress,omitempty"`
	ParcelCode        string                      `gorm:"size:32;index;not null;column:parcel_code" json:"parcelId"`
	RequesterAddress  string                      `gorm:"size:42;index;not null;column:requester_address" json:"requesterAddress"`
	HeirAddress       string                      `gorm:"size:42;index;not null;column:heir_address" json:"heirAddress"`
	Relationship      HeirRelationship            `gorm:"size:16;not null;column:relationship" json:"relationship"`
	Reason            string                      `gorm:"type:text;not null;column:reason" json:"reason"`
	Status            InheritanceRequestStatus    `gorm:"size:16;index;not null;column:status" json:"status"`
	ID                uint                        `gorm:"primaryKey" json:"id"`
	LandParcelID      uint                        `gorm:"index;not null;column:land_parcel_id" json:"landParcelId"`
}

// TableName specifies the table name for GORM.
func (InheritanceRequest) TableName() string {
	return "inheritance_requests"
}

// CanTransition reports whether the workflow allows moving to next.
func (r *InheritanceRequest) CanTransition(next InheritanceRequestStatus) bool {
	switch r.Status {
	case InheritancePending:
		return next == InheritanceVerified || next == InheritanceRejected || next == InheritanceCancelled
	case InheritanceVerified:
		return next == InheritanceExecuted || next == InheritanceCancelled
	default:
		return false
	}
}
