package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditLog records one HTTP exchange. Rows are append-only.
type AuditLog struct {
	ID           string         `gorm:"primaryKey;size:36" json:"id"`
	Timestamp    time.Time      `gorm:"index;not null" json:"timestamp"`
	UserID       *string        `gorm:"index;size:36" json:"user_id"`
	Role         *string        `gorm:"size:32" json:"role"`
	Endpoint     string         `gorm:"type:text;not null" json:"endpoint"`
	Method       string         `gorm:"size:16;not null" json:"method"`
	StatusCode   int            `gorm:"not null" json:"status_code"`
	RequestData  datatypes.JSON `json:"request_data"`
	ResponseData datatypes.JSON `json:"response_data"`
}

func (AuditLog) TableName() string { return "audit_logs" }

func (l *AuditLog) BeforeCreate(*gorm.DB) error {
	ensureID(&l.ID)
	if l.Timestamp.IsZero() {
		l.Timestamp = time.Now().UTC()
	}
	return nil
}

// All lists every persisted model in migration order.
func All() []any {
	return []any{
		&PGNAdmin{},
		&Organization{},
		&OrgUser{},
		&RolePermission{},
		&Meeting{},
		&Recording{},
		&Transcription{},
		&Embedding{},
		&AuditLog{},
	}
}
