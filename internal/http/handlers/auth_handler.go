package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pgn_backend/internal/auth"
	"pgn_backend/internal/models"
	"pgn_backend/internal/store"
)

type credentials struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,max=72"`
}

// RegisterPGNAdmin creates a platform admin. Open endpoint.
func RegisterPGNAdmin(s *store.Store, hasher auth.Hasher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in credentials
		if err := c.ShouldBindJSON(&in); err != nil {
			bindError(c, err)
			return
		}

		hash, err := hasher.Hash(in.Password)
		if err != nil {
			writeError(c, err, "")
			return
		}

		admin, err := s.CreatePGNAdmin(c.Request.Context(), normalizeEmail(in.Email), hash)
		if err != nil {
			writeError(c, err, "")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":  "PGN admin registered successfully.",
			"admin_id": admin.ID,
		})
	}
}

// LoginPGNAdmin authenticates the admin and returns a bearer token.
// Unknown email and wrong password are indistinguishable to the caller.
func LoginPGNAdmin(s *store.Store, hasher auth.Hasher, tokens *auth.TokenService) gin.HandlerFunc {
	// Compared against when the email is unknown so both paths cost one bcrypt run.
	dummyHash, _ := hasher.Hash("pgn-admin-login-placeholder")

	return func(c *gin.Context) {
		var in credentials
		if err := c.ShouldBindJSON(&in); err != nil {
			bindError(c, err)
			return
		}

		admin, err := s.PGNAdminByEmail(c.Request.Context(), normalizeEmail(in.Email))
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			writeError(c, err, "")
			return
		}
		hash := dummyHash
		if admin != nil {
			hash = admin.PasswordHash
		}
		if !hasher.Verify(in.Password, hash) || admin == nil {
			c.Header("WWW-Authenticate", "Bearer")
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "invalid email or password"})
			return
		}

		token, _, err := tokens.Issue(admin.ID, models.RolePGNAdmin)
		if err != nil {
			writeError(c, err, "")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"access_token": token,
			"token_type":   "bearer",
		})
	}
}
