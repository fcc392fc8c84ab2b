package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type MeetingStatus string

const (
	MeetingPendingApproval MeetingStatus = "pending_approval"
	MeetingApproved        MeetingStatus = "approved"
	MeetingRecorded        MeetingStatus = "recorded"
	MeetingTranscribed     MeetingStatus = "transcribed"
)

var meetingOrder = map[MeetingStatus]int{
	MeetingPendingApproval: 0,
	MeetingApproved:        1,
	MeetingRecorded:        2,
	MeetingTranscribed:     3,
}

// CanTransition reports whether next is the single forward step after s.
func (s MeetingStatus) CanTransition(next MeetingStatus) bool {
	cur, ok := meetingOrder[s]
	if !ok {
		return false
	}
	n, ok := meetingOrder[next]
	return ok && n == cur+1
}

// Meeting belongs to one organization and is created by one of its users.
type Meeting struct {
	ID             string         `gorm:"primaryKey;size:36" json:"id"`
	OrganizationID string         `gorm:"index;size:36;not null" json:"organizationId"`
	CreatedByID    string         `gorm:"index;size:36;not null" json:"createdById"`
	ApprovedByID   *string        `gorm:"index;size:36" json:"approvedById"`
	Title          string         `gorm:"size:255;not null" json:"title"`
	Description    string         `gorm:"type:text" json:"description"`
	ProcessType    string         `gorm:"size:100" json:"processType"`
	Tags           datatypes.JSON `json:"tags"`
	Status         MeetingStatus  `gorm:"size:32;not null;default:'pending_approval'" json:"status"`
	CreatedAt      time.Time      `json:"createdAt"`
	ApprovedAt     *time.Time     `json:"approvedAt"`

	CreatedBy      *OrgUser        `gorm:"foreignKey:CreatedByID;constraint:OnDelete:CASCADE" json:"-"`
	ApprovedBy     *OrgUser        `gorm:"foreignKey:ApprovedByID;constraint:OnDelete:SET NULL" json:"-"`
	Recordings     []Recording     `gorm:"foreignKey:MeetingID;constraint:OnDelete:CASCADE" json:"-"`
	Transcriptions []Transcription `gorm:"foreignKey:MeetingID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Meeting) TableName() string { return "meetings" }

func (m *Meeting) BeforeCreate(*gorm.DB) error {
	ensureID(&m.ID)
	if m.Status == "" {
		m.Status = MeetingPendingApproval
	}
	return nil
}

// Recording is the stored audio artifact of a meeting.
type Recording struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	MeetingID  string    `gorm:"index;size:36;not null" json:"meetingId"`
	S3URL      string    `gorm:"column:s3_url;size:1024;not null" json:"s3Url"`
	RecordedAt time.Time `gorm:"autoCreateTime" json:"recordedAt"`

	Transcription *Transcription `gorm:"foreignKey:RecordingID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Recording) TableName() string { return "recordings" }

func (r *Recording) BeforeCreate(*gorm.DB) error {
	ensureID(&r.ID)
	return nil
}

type Transcription struct {
	ID                string         `gorm:"primaryKey;size:36" json:"id"`
	MeetingID         string         `gorm:"index;size:36;not null" json:"meetingId"`
	RecordingID       string         `gorm:"uniqueIndex;size:36;not null" json:"recordingId"`
	TranscriptionText string         `gorm:"type:text;not null" json:"transcriptionText"`
	TranscriptionJSON datatypes.JSON `gorm:"column:transcription_json" json:"transcriptionJson"`
	CreatedAt         time.Time      `json:"createdAt"`

	Embeddings []Embedding `gorm:"foreignKey:TranscriptionID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Transcription) TableName() string { return "transcriptions" }

func (t *Transcription) BeforeCreate(*gorm.DB) error {
	ensureID(&t.ID)
	return nil
}

// Embedding points at a vector stored outside the database.
type Embedding struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	TranscriptionID string    `gorm:"index;size:36;not null" json:"transcriptionId"`
	OrganizationID  string    `gorm:"index;size:36;not null" json:"organizationId"`
	MeetingID       string    `gorm:"index;size:36;not null" json:"meetingId"`
	QdrantVectorID  string    `gorm:"size:255;not null" json:"qdrantVectorId"`
	CreatedAt       time.Time `json:"createdAt"`
}

func (Embedding) TableName() string { return "embeddings" }

func (e *Embedding) BeforeCreate(*gorm.DB) error {
	ensureID(&e.ID)
	return nil
}
