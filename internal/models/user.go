package models

import (
	"strings"
	"time"
)

// User is a registry account. Active users are the pool parcel owners and
// heirs are drawn from.
type User struct {
	CreatedAt     time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"column:updated_at" json:"updatedAt"`
	Profiles      []Profile `gorm:"foreignKey:UserID" json:"profiles,omitempty"`
	WalletAddress string    `gorm:"size:42;uniqueIndex;not null;column:wallet_address" json:"walletAddress"`
	Email         string    `gorm:"size:255;uniqueIndex;not null;column:email" json:"email"`
	Role          string    `gorm:"size:32;not null;default:'citizen';column:role" json:"role"`
	ID            uint      `gorm:"primaryKey" json:"id"`
	IsActive      bool      `gorm:"not null;index;column:is_active" json:"isActive"`
}

// TableName specifies the table name for GORM.
func (User) TableName() string {
	return "users"
}

// Profile holds optional personal details of a user.
type Profile struct {
	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
	Phone     *string   `gorm:"size:32;column:phone" json:"phone,omitempty"`
	FullName  string    `gorm:"size:255;column:full_name" json:"fullName"`
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null;column:user_id" json:"userId"`
}

// TableName specifies the table name for GORM.
func (Profile) TableName() string {
	return "profiles"
}

// OwnerCandidate is the read model of an active user eligible to own or
// inherit a parcel. It carries zero or one profile.
type OwnerCandidate struct {
	Profile *Profile
	Address string
	Email   string
	UserID  uint
}

// NewOwnerCandidate projects a user onto an OwnerCandidate. When several
// profiles are loaded the first one wins.
func NewOwnerCandidate(u User) OwnerCandidate {
	candidate := OwnerCandidate{
		UserID:  u.ID,
		Address: u.WalletAddress,
		Email:   u.Email,
	}
	if len(u.Profiles) > 0 {
		profile := u.Profiles[0]
		candidate.Profile = &profile
	}
	return candidate
}

// DisplayName returns the profile name, falling back to the local part of
// the email address.
func (c OwnerCandidate) DisplayName() string {
	if c.Profile != nil && c.Profile.FullName != "" {
		return c.Profile.FullName
	}
	local, _, _ := strings.Cut(c.Email, "@")
	return local
}

// Phone returns the profile phone number, if any.
func (c OwnerCandidate) Phone() *string {
	if c.Profile == nil {
		return nil
	}
	return c.Profile.Phone
}
