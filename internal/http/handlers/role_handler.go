package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"pgn_backend/internal/rbac"
)

// ListRolePermissions exposes the capability matrix read-only.
func ListRolePermissions(chk rbac.Checker) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := chk.Matrix(c.Request.Context())
		if err != nil {
			writeError(c, err, "")
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

// CheckRolePermission answers whether a role may perform one action.
func CheckRolePermission(chk rbac.Checker) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, action := c.Param("role"), strings.ToLower(c.Param("action"))
		if !rbac.ValidAction(action) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "unknown action"})
			return
		}
		allowed, err := chk.Has(c.Request.Context(), role, action)
		if err != nil {
			writeError(c, err, "")
			return
		}
		c.JSON(http.StatusOK, gin.H{"role": role, "action": action, "allowed": allowed})
	}
}
