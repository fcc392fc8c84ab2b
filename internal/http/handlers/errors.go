package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"pgn_backend/internal/store"
)

// writeError maps store sentinels to HTTP responses. notFound is the message
// used when the referenced entity does not exist in the expected scope.
func writeError(c *gin.Context, err error, notFound string) {
	switch {
	case errors.Is(err, store.ErrAdminEmailTaken),
		errors.Is(err, store.ErrOrgNameTaken),
		errors.Is(err, store.ErrEmailTaken):
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": notFound})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "internal server error"})
	}
}

func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
