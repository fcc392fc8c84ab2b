package models

import (
	"time"

	"gorm.io/gorm"
)

// Organization is the tenant root. Users and meetings are removed with it.
type Organization struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:200;not null" json:"name"`
	CreatedAt time.Time `json:"createdAt"`

	Users    []OrgUser `gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE" json:"users,omitempty"`
	Meetings []Meeting `gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Organization) TableName() string { return "organizations" }

func (o *Organization) BeforeCreate(*gorm.DB) error {
	ensureID(&o.ID)
	return nil
}
