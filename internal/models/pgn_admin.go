package models

import (
	"time"

	"gorm.io/gorm"
)

// RolePGNAdmin is the role claim carried by platform administrator tokens.
const RolePGNAdmin = "pgn_admin"

// PGNAdmin is the platform super-admin account that manages all organizations.
type PGNAdmin struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Email        string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	MFAEnabled   bool      `gorm:"default:false" json:"mfaEnabled"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (PGNAdmin) TableName() string { return "pgn_admins" }

func (a *PGNAdmin) BeforeCreate(*gorm.DB) error {
	ensureID(&a.ID)
	return nil
}
