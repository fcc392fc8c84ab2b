package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"pgn_backend/internal/auth"
	"pgn_backend/internal/models"
	"pgn_backend/internal/store"
)

type orgSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type orgDetail struct {
	orgSummary
	Users []userView `json:"users"`
}

func summarize(o models.Organization) orgSummary {
	return orgSummary{ID: o.ID, Name: o.Name, CreatedAt: o.CreatedAt}
}

// CreateOrganization bootstraps a tenant together with its first user.
// Open endpoint: this is how organizations sign up.
func CreateOrganization(s *store.Store, hasher auth.Hasher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			Name string `json:"name" binding:"required,notblank,max=200"`
			User struct {
				Name     string         `json:"name" binding:"required,notblank,max=200"`
				Email    string         `json:"email" binding:"required,email"`
				Password string         `json:"password" binding:"required,max=72"`
				Role     models.OrgRole `json:"role" binding:"required,orgrole"`
			} `json:"user"`
		}
		if err := c.ShouldBindJSON(&in); err != nil {
			bindError(c, err)
			return
		}

		hash, err := hasher.Hash(in.User.Password)
		if err != nil {
			writeError(c, err, "")
			return
		}

		org := &models.Organization{Name: strings.TrimSpace(in.Name)}
		user := &models.OrgUser{
			Name:         strings.TrimSpace(in.User.Name),
			Email:        normalizeEmail(in.User.Email),
			Role:         in.User.Role,
			PasswordHash: hash,
		}
		if err := s.CreateOrganizationWithUser(c.Request.Context(), org, user); err != nil {
			writeError(c, err, "")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"organization_id": org.ID,
			"org_user_id":     user.ID,
			"message":         "Organization and user created successfully.",
		})
	}
}

func ListOrganizations(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		orgs, err := s.ListOrganizations(c.Request.Context())
		if err != nil {
			writeError(c, err, "")
			return
		}
		out := make([]orgSummary, 0, len(orgs))
		for _, o := range orgs {
			out = append(out, summarize(o))
		}
		c.JSON(http.StatusOK, out)
	}
}

// GetOrganization returns the organization with all of its users.
func GetOrganization(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		org, err := s.Organization(c.Request.Context(), c.Param("org_id"))
		if err != nil {
			writeError(c, err, "Organization not found.")
			return
		}
		users := make([]userView, 0, len(org.Users))
		for _, u := range org.Users {
			users = append(users, viewUser(u))
		}
		c.JSON(http.StatusOK, orgDetail{orgSummary: summarize(*org), Users: users})
	}
}

// DeleteOrganization removes the organization and, with it, everything it owns.
func DeleteOrganization(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := s.DeleteOrganization(c.Request.Context(), c.Param("org_id")); err != nil {
			writeError(c, err, "Organization not found.")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Organization and its users deleted successfully."})
	}
}
