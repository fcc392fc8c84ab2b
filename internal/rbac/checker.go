package rbac

import (
	"context"
	"errors"
	"slices"
	"strings"

	"gorm.io/gorm"

	"pgn_backend/internal/models"
)

const (
	ActionView    = "view"
	ActionRecord  = "record"
	ActionUpload  = "upload"
	ActionApprove = "approve"
)

// Actions lists every capability column of role_permissions.
var Actions = []string{ActionView, ActionRecord, ActionUpload, ActionApprove}

func ValidAction(action string) bool {
	return slices.Contains(Actions, strings.ToLower(action))
}

// Checker answers capability questions from the role_permissions table.
type Checker struct{ DB *gorm.DB }

// Has reports whether role may perform action. pgn_admin may do everything;
// unknown roles and actions may do nothing.
func (c Checker) Has(ctx context.Context, role, action string) (bool, error) {
	if role == models.RolePGNAdmin {
		return true, nil
	}
	var p models.RolePermission
	err := c.DB.WithContext(ctx).Where("role = ?", role).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	switch strings.ToLower(action) {
	case ActionView:
		return p.View, nil
	case ActionRecord:
		return p.Record, nil
	case ActionUpload:
		return p.Upload, nil
	case ActionApprove:
		return p.Approve, nil
	}
	return false, nil
}

// Matrix lists every role row in privilege order.
func (c Checker) Matrix(ctx context.Context) ([]models.RolePermission, error) {
	var rows []models.RolePermission
	if err := c.DB.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	rank := func(r models.OrgRole) int {
		if i := slices.Index(models.OrgRoles, r); i >= 0 {
			return i
		}
		return len(models.OrgRoles)
	}
	slices.SortStableFunc(rows, func(a, b models.RolePermission) int {
		return rank(a.Role) - rank(b.Role)
	})
	return rows, nil
}

// Defaults is the capability matrix seeded on first start.
func Defaults() []models.RolePermission {
	return []models.RolePermission{
		{Role: models.RoleOrgAdmin, View: true, Record: true, Upload: true, Approve: true},
		{Role: models.RoleProcessOwner, View: true, Record: true, Upload: true},
		{Role: models.RoleViewer, View: true},
	}
}
