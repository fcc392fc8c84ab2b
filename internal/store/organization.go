package store

import (
	"context"

	"gorm.io/gorm"

	"pgn_backend/internal/models"
)

// CreateOrganizationWithUser creates a tenant and its first user as one unit.
// A unique violation raised by a concurrent request is reported exactly like
// the pre-check would have reported it.
func (s *Store) CreateOrganizationWithUser(ctx context.Context, org *models.Organization, user *models.OrgUser) error {
	return s.tx(ctx, func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Organization{}).Where("name = ?", org.Name).Count(&n).Error; err != nil {
			return mapError(err)
		}
		if n > 0 {
			return ErrOrgNameTaken
		}
		if err := tx.Model(&models.OrgUser{}).Where("email = ?", user.Email).Count(&n).Error; err != nil {
			return mapError(err)
		}
		if n > 0 {
			return ErrEmailTaken
		}

		if err := tx.Omit("Users", "Meetings").Create(org).Error; err != nil {
			return duplicateAs(err, ErrOrgNameTaken)
		}
		user.OrganizationID = org.ID
		if err := tx.Create(user).Error; err != nil {
			return duplicateAs(err, ErrEmailTaken)
		}
		return nil
	})
}

func (s *Store) ListOrganizations(ctx context.Context) ([]models.Organization, error) {
	var orgs []models.Organization
	if err := s.db.WithContext(ctx).Order("created_at ASC, name ASC").Find(&orgs).Error; err != nil {
		return nil, mapError(err)
	}
	return orgs, nil
}

// Organization loads one organization together with all of its users.
func (s *Store) Organization(ctx context.Context, id string) (*models.Organization, error) {
	var org models.Organization
	err := s.db.WithContext(ctx).
		Preload("Users", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, email ASC") }).
		Where("id = ?", id).
		First(&org).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &org, nil
}

// DeleteOrganization removes the organization and everything hanging off it,
// leaves first, so the result is the same whether or not the database
// enforces ON DELETE CASCADE.
func (s *Store) DeleteOrganization(ctx context.Context, id string) error {
	return s.tx(ctx, func(tx *gorm.DB) error {
		var org models.Organization
		if err := tx.Select("id").Where("id = ?", id).First(&org).Error; err != nil {
			return mapError(err)
		}

		meetings := func() *gorm.DB {
			return tx.Model(&models.Meeting{}).Select("id").Where("organization_id = ?", id)
		}
		transcriptions := tx.Model(&models.Transcription{}).Select("id").Where("meeting_id IN (?)", meetings())

		steps := []struct {
			model any
			where string
			args  []any
		}{
			{&models.Embedding{}, "organization_id = ? OR transcription_id IN (?)", []any{id, transcriptions}},
			{&models.Transcription{}, "meeting_id IN (?)", []any{meetings()}},
			{&models.Recording{}, "meeting_id IN (?)", []any{meetings()}},
			{&models.Meeting{}, "organization_id = ?", []any{id}},
			{&models.OrgUser{}, "organization_id = ?", []any{id}},
			{&models.Organization{}, "id = ?", []any{id}},
		}
		for _, step := range steps {
			if err := tx.Where(step.where, step.args...).Delete(step.model).Error; err != nil {
				return mapError(err)
			}
		}
		return nil
	})
}
