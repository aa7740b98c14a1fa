package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// LandParcel is a registered land unit with ownership, location, valuation
// and compliance attributes. Documents, compliance reports and metadata are
// embedded JSON columns and never persisted on their own.
type LandParcel struct {
	CreatedAt          time.Time                             `gorm:"column:created_at;index" json:"createdAt"`
	UpdatedAt          time.Time                             `gorm:"column:updated_at" json:"updatedAt"`
	LastInspectionDate time.Time                             `gorm:"column:last_inspection_date" json:"lastInspectionDate"`
	NextInspectionDate time.Time                             `gorm:"column:next_inspection_date;index" json:"nextInspectionDate"`
	EstimatedValue     decimal.Decimal                       `gorm:"type:decimal(20,2);not null;column:estimated_value" json:"estimatedValue"`
	Fines              decimal.Decimal                       `gorm:"type:decimal(20,2);not null;default:0;column:fines" json:"fines"`
	Credits            decimal.Decimal                       `gorm:"type:decimal(20,2);not null;default:0;column:credits" json:"credits"`
	Documents          datatypes.JSONSlice[Document]         `gorm:"column:documents" json:"documents"`
	ComplianceReports  datatypes.JSONSlice[ComplianceReport] `gorm:"column:compliance_reports" json:"complianceReports"`
	Metadata           datatypes.JSONType[ParcelMetadata]    `gorm:"column:metadata" json:"metadata"`
	HeirDetails        HeirSnapshot                          `gorm:"column:heir_details" json:"heirDetails,omitempty"`
	Boundary           Polygon                               `gorm:"not null;column:boundary" json:"boundary"`
	Location           Point                                 `gorm:"not null;column:location" json:"location"`
	OwnerPhone         *string                               `gorm:"size:32;column:owner_phone" json:"ownerPhone,omitempty"`
	HeirAddress        *string                               `gorm:"size:42;index;column:heir_address" json:"heirAddress,omitempty"`
	HeirRelationship   *HeirRelationship                     `gorm:"size:16;column:heir_relationship" json:"heirRelationship,omitempty"`
	ParcelID           string                                `gorm:"size:32;uniqueIndex;not null;column:parcel_id" json:"parcelId"`
	OwnerAddress       string                                `gorm:"size:42;index;not null;column:owner_address" json:"ownerAddress"`
	OwnerName          string                                `gorm:"size:255;column:owner_name" json:"ownerName"`
	OwnerEmail         string                                `gorm:"size:255;column:owner_email" json:"ownerEmail"`
	LandUse            LandUse                               `gorm:"size:32;index;not null;column:land_use" json:"landUse"`
	Status             ParcelStatus                          `gorm:"size:32;index;not null;column:status" json:"status"`
	ComplianceStatus   ComplianceStatus                      `gorm:"size:32;index;not null;column:compliance_status" json:"complianceStatus"`
	District           string                                `gorm:"size:100;index;not null;column:district" json:"district"`
	Sector             string                                `gorm:"size:100;column:sector" json:"sector"`
	Cell               string                                `gorm:"size:100;column:cell" json:"cell"`
	Village            string                                `gorm:"size:100;column:village" json:"village"`
	Area               float64                               `gorm:"not null;column:area" json:"area"`
	Latitude           float64                               `gorm:"index:idx_land_parcels_lat_lng;column:latitude" json:"latitude"`
	Longitude          float64                               `gorm:"index:idx_land_parcels_lat_lng;column:longitude" json:"longitude"`
	ComplianceScore    int                                   `gorm:"not null;column:compliance_score" json:"complianceScore"`
	ID                 uint                                  `gorm:"primaryKey" json:"id"`
	InheritanceActive  bool                                  `gorm:"not null;default:false;column:inheritance_active" json:"inheritanceActive"`
}

// TableName specifies the table name for GORM.
func (LandParcel) TableName() string {
	return "land_parcels"
}

// HasHeir reports whether an heir has been nominated.
func (p *LandParcel) HasHeir() bool {
	return p.HeirAddress != nil && *p.HeirAddress != ""
}

// ClearHeir removes any inheritance nomination.
func (p *LandParcel) ClearHeir() {
	p.HeirAddress = nil
	p.HeirRelationship = nil
	p.HeirDetails = HeirSnapshot{}
	p.InheritanceActive = false
}

// Document is a file reference attached to a parcel.
type Document struct {
	UploadedAt  time.Time    `json:"uploadedAt"`
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Type        DocumentType `json:"type"`
	ContentHash string       `json:"contentHash"`
	Verified    bool         `json:"verified"`
}

// ComplianceReport is a single inspection result attached to a parcel.
type ComplianceReport struct {
	ReportDate      time.Time `json:"reportDate"`
	ID              string    `json:"id"`
	Inspector       string    `json:"inspector"`
	Findings        string    `json:"findings"`
	Recommendations string    `json:"recommendations"`
	Score           int       `json:"score"`
}

// UtilityAccess flags which utilities reach the parcel.
type UtilityAccess struct {
	Water       bool `json:"water"`
	Electricity bool `json:"electricity"`
	Road        bool `json:"road"`
}

// ParcelMetadata holds free-form physical attributes of a parcel.
type ParcelMetadata struct {
	SoilType      string        `json:"soilType"`
	Elevation     string        `json:"elevation"`
	Amenities     []string      `json:"amenities"`
	UtilityAccess UtilityAccess `json:"utilityAccess"`
}

// HeirSnapshot captures the heir's contact details at nomination time.
// The zero value is stored as NULL.
type HeirSnapshot struct {
	Phone        *string          `json:"phone,omitempty"`
	Name         string           `json:"name"`
	Email        string           `json:"email"`
	Address      string           `json:"address"`
	Relationship HeirRelationship `json:"relationship"`
}

// IsZero reports whether the snapshot is empty.
func (h HeirSnapshot) IsZero() bool {
	return h.Address == "" && h.Name == "" && h.Email == "" && h.Phone == nil && h.Relationship == ""
}

// Scan implements sql.Scanner.
func (h *HeirSnapshot) Scan(value interface{}) error {
	if value == nil {
		*h = HeirSnapshot{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("failed to scan HeirSnapshot: expected []byte or string, got %T", value)
	}

	var snapshot HeirSnapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return fmt.Errorf("failed to unmarshal heir snapshot: %w", err)
	}
	*h = snapshot
	return nil
}

// Value implements driver.Valuer.
func (h HeirSnapshot) Value() (driver.Value, error) {
	if h.IsZero() {
		return nil, nil
	}
	data, err := json.Marshal(h)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal heir snapshot: %w", err)
	}
	return string(data), nil
}

// GormDataType implements schema.GormDataTypeInterface.
func (HeirSnapshot) GormDataType() string { return "json" }

// GormDBDataType stores the snapshot as JSONB on postgres and TEXT elsewhere.
func (HeirSnapshot) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	return geometryColumnType(db)
}
