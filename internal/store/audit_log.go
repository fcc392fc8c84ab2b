package store

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"pgn_backend/internal/models"
)

const (
	DefaultAuditPage = 20
	MaxAuditPage     = 100
)

var ErrBadCursor = errors.New("invalid audit cursor")

// AuditCursor points at the last record of a page. Records sharing a timestamp
// are ordered by id, so the pair identifies one position.
type AuditCursor struct {
	Timestamp time.Time
	ID        string
}

func (c AuditCursor) String() string {
	raw := c.Timestamp.UTC().Format(time.RFC3339Nano) + "|" + c.ID
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func ParseAuditCursor(s string) (AuditCursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return AuditCursor{}, ErrBadCursor
	}
	tsPart, id, ok := strings.Cut(string(raw), "|")
	if !ok || id == "" {
		return AuditCursor{}, ErrBadCursor
	}
	ts, err := time.Parse(time.RFC3339Nano, tsPart)
	if err != nil {
		return AuditCursor{}, ErrBadCursor
	}
	return AuditCursor{Timestamp: ts.UTC(), ID: id}, nil
}

// AuditFilter selects a page of audit records, newest first.
type AuditFilter struct {
	Limit  int
	Before *AuditCursor
	Method string
	UserID string
}

// AppendAuditLog is the only write path for audit records; they are never updated.
func (s *Store) AppendAuditLog(ctx context.Context, entry *models.AuditLog) error {
	return s.tx(ctx, func(tx *gorm.DB) error {
		return mapError(tx.Create(entry).Error)
	})
}

// ListAuditLogs returns one page and the cursor for the next, nil on the last page.
func (s *Store) ListAuditLogs(ctx context.Context, f AuditFilter) ([]models.AuditLog, *AuditCursor, error) {
	limit := f.Limit
	if limit <= 0 || limit > MaxAuditPage {
		limit = DefaultAuditPage
	}

	query := s.db.WithContext(ctx).Model(&models.AuditLog{}).Order("timestamp DESC, id DESC")
	if f.Before != nil {
		ts := f.Before.Timestamp
		query = query.Where("(timestamp < ? OR (timestamp = ? AND id < ?))", ts, ts, f.Before.ID)
	}
	if f.Method != "" {
		query = query.Where("method = ?", f.Method)
	}
	if f.UserID != "" {
		query = query.Where("user_id = ?", f.UserID)
	}

	var logs []models.AuditLog
	if err := query.Limit(limit + 1).Find(&logs).Error; err != nil {
		return nil, nil, mapError(err)
	}

	var next *AuditCursor
	if len(logs) > limit {
		logs = logs[:limit]
		last := logs[limit-1]
		next = &AuditCursor{Timestamp: last.Timestamp, ID: last.ID}
	}
	return logs, next, nil
}
