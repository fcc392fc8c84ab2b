package store

import (
	"context"

	"gorm.io/gorm"

	"pgn_backend/internal/models"
)

// UserPatch carries a partial update. Nil fields are left untouched.
type UserPatch struct {
	Name  *string
	Email *string
	Role  *models.OrgRole
}

func (p UserPatch) columns() map[string]any {
	cols := map[string]any{}
	if p.Name != nil {
		cols["name"] = *p.Name
	}
	if p.Email != nil {
		cols["email"] = *p.Email
	}
	if p.Role != nil {
		cols["role"] = *p.Role
	}
	return cols
}

// OrgUser fetches a user by id regardless of organization.
func (s *Store) OrgUser(ctx context.Context, id string) (*models.OrgUser, error) {
	var user models.OrgUser
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, mapError(err)
	}
	return &user, nil
}

// UpdateOrgUser applies patch to a user that must belong to orgID.
func (s *Store) UpdateOrgUser(ctx context.Context, orgID, userID string, patch UserPatch) (*models.OrgUser, error) {
	var user models.OrgUser
	err := s.tx(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND organization_id = ?", userID, orgID).First(&user).Error; err != nil {
			return mapError(err)
		}

		cols := patch.columns()
		if len(cols) == 0 {
			return nil
		}
		if patch.Email != nil && *patch.Email != user.Email {
			var n int64
			if err := tx.Model(&models.OrgUser{}).Where("email = ? AND id <> ?", *patch.Email, userID).Count(&n).Error; err != nil {
				return mapError(err)
			}
			if n > 0 {
				return ErrEmailTaken
			}
		}

		if err := tx.Model(&user).Updates(cols).Error; err != nil {
			return duplicateAs(err, ErrEmailTaken)
		}
		return mapError(tx.Where("id = ?", userID).First(&user).Error)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}
