package models

import (
	"time"

	"gorm.io/gorm"
)

type OrgRole string

const (
	RoleOrgAdmin     OrgRole = "org_admin"
	RoleProcessOwner OrgRole = "process_owner"
	RoleViewer       OrgRole = "viewer"
)

// OrgRoles lists every organization role in privilege order.
var OrgRoles = []OrgRole{RoleOrgAdmin, RoleProcessOwner, RoleViewer}

func (r OrgRole) Valid() bool {
	switch r {
	case RoleOrgAdmin, RoleProcessOwner, RoleViewer:
		return true
	}
	return false
}

// OrgUser belongs to exactly one organization. Email is unique across all organizations.
type OrgUser struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	OrganizationID string    `gorm:"index;size:36;not null" json:"organizationId"`
	Email          string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Name           string    `gorm:"size:200;not null" json:"name"`
	Role           OrgRole   `gorm:"size:32;not null" json:"role"`
	PasswordHash   string    `gorm:"size:255;not null" json:"-"`
	EmailVerified  bool      `gorm:"default:false" json:"emailVerified"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (OrgUser) TableName() string { return "org_users" }

func (u *OrgUser) BeforeCreate(*gorm.DB) error {
	ensureID(&u.ID)
	return nil
}
