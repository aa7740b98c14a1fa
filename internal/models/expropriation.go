package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Expropriation is a government-initiated reclamation case against a parcel.
type Expropriation struct {
	CreatedAt            time.Time                          `gorm:"column:created_at;index" json:"createdAt"`
	UpdatedAt            time.Time                          `gorm:"column:updated_at" json:"updatedAt"`
	ProposedCompensation decimal.Decimal                    `gorm:"type:decimal(22,4);not null;column:proposed_compensation" json:"proposedCompensation"`
	Timeline             datatypes.JSONSlice[TimelineEvent] `gorm:"column:timeline" json:"timeline"`
	Project              datatypes.JSONType[ProjectDetails] `gorm:"column:project" json:"project"`
	Parcel               *LandParcel                        `gorm:"foreignKey:LandParcelID" json:"parcel,omitempty"`
	ParcelCode           string                             `gorm:"size:32;index;not null;column:parcel_code" json:"parcelId"`
	Status               ExpropriationStatus                `gorm:"size:32;index;not null;column:status" json:"status"`
	Reason               ExpropriationReason                `gorm:"size:32;index;not null;column:reason" json:"reason"`
	InitiatedBy          string                             `gorm:"size:42;not null;column:initiated_by" json:"initiatedBy"`
	ID                   uint                               `gorm:"primaryKey" json:"id"`
	LandParcelID         uint                               `gorm:"index;not null;column:land_parcel_id" json:"landParcelId"`
}

// TableName specifies the table name for GORM.
func (Expropriation) TableName() string {
	return "expropriations"
}

// TimelineEvent is one entry in an expropriation case history.
type TimelineEvent struct {
	Timestamp time.Time           `json:"timestamp"`
	Event     string              `json:"event"`
	Actor     string              `json:"actor"`
	Notes     string              `json:"notes,omitempty"`
	Status    ExpropriationStatus `json:"status"`
}

// ProjectDetails describes the public project motivating an expropriation.
type ProjectDetails struct {
	ExpectedCompletionDate time.Time `json:"expectedCompletionDate"`
	Name                   string    `json:"name"`
	Description            string    `json:"description"`
	Authority              string    `json:"authority"`
}
