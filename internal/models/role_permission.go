package models

import "gorm.io/gorm"

// RolePermission is the static capability row for one organization role.
type RolePermission struct {
	ID      string  `gorm:"primaryKey;size:36" json:"-"`
	Role    OrgRole `gorm:"uniqueIndex;size:32;not null" json:"role"`
	View    bool    `gorm:"default:false" json:"view"`
	Record  bool    `gorm:"default:false" json:"record"`
	Upload  bool    `gorm:"default:false" json:"upload"`
	Approve bool    `gorm:"default:false" json:"approve"`
}

func (RolePermission) TableName() string { return "role_permissions" }

func (p *RolePermission) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}
