package store

import (
	"context"

	"gorm.io/gorm"

	"pgn_backend/internal/models"
)

// CreatePGNAdmin inserts an admin. The unique email index backs up the pre-check.
func (s *Store) CreatePGNAdmin(ctx context.Context, email, passwordHash string) (*models.PGNAdmin, error) {
	admin := &models.PGNAdmin{Email: email, PasswordHash: passwordHash}
	err := s.tx(ctx, func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.PGNAdmin{}).Where("email = ?", email).Count(&n).Error; err != nil {
			return mapError(err)
		}
		if n > 0 {
			return ErrAdminEmailTaken
		}
		return duplicateAs(tx.Create(admin).Error, ErrAdminEmailTaken)
	})
	if err != nil {
		return nil, err
	}
	return admin, nil
}

func (s *Store) PGNAdminByEmail(ctx context.Context, email string) (*models.PGNAdmin, error) {
	var admin models.PGNAdmin
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&admin).Error; err != nil {
		return nil, mapError(err)
	}
	return &admin, nil
}
