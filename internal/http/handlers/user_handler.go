package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"pgn_backend/internal/models"
	"pgn_backend/internal/store"
)

// Safe response (no password hash).
type userView struct {
	ID            string         `json:"id"`
	Email         string         `json:"email"`
	Name          string         `json:"name"`
	Role          models.OrgRole `json:"role"`
	EmailVerified bool           `json:"emailVerified"`
	CreatedAt     time.Time      `json:"createdAt"`
}

func viewUser(u models.OrgUser) userView {
	return userView{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		Role:          u.Role,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
	}
}

// UpdateOrgUser applies a partial update; absent or null fields stay as they are.
func UpdateOrgUser(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			Name  *string         `json:"name" binding:"omitempty,notblank,max=200"`
			Email *string         `json:"email" binding:"omitempty,email"`
			Role  *models.OrgRole `json:"role" binding:"omitempty,orgrole"`
		}
		if err := c.ShouldBindJSON(&in); err != nil && !errors.Is(err, io.EOF) {
			bindError(c, err)
			return
		}

		patch := store.UserPatch{Role: in.Role}
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			patch.Name = &name
		}
		if in.Email != nil {
			email := normalizeEmail(*in.Email)
			patch.Email = &email
		}

		user, err := s.UpdateOrgUser(c.Request.Context(), c.Param("org_id"), c.Param("user_id"), patch)
		if err != nil {
			writeError(c, err, "User not found in this organization.")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "User updated successfully.",
			"user":    viewUser(*user),
		})
	}
}
