package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"pgn_backend/internal/store"
)

// ListAudit pages through the audit trail, newest first. The cursor is the
// opaque next_cursor of the previous page.
func ListAudit(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		f := store.AuditFilter{
			Limit:  store.DefaultAuditPage,
			Method: strings.ToUpper(strings.TrimSpace(c.Query("method"))),
			UserID: strings.TrimSpace(c.Query("user_id")),
		}

		if limitStr := c.Query("limit"); limitStr != "" {
			if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 && parsed <= store.MaxAuditPage {
				f.Limit = parsed
			}
		}

		if cursor := c.Query("before"); cursor != "" {
			pos, err := store.ParseAuditCursor(cursor)
			if err != nil {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "before must be a next_cursor value"})
				return
			}
			f.Before = &pos
		}

		logs, next, err := s.ListAuditLogs(c.Request.Context(), f)
		if err != nil {
			writeError(c, err, "")
			return
		}

		var nextCursor *string
		if next != nil {
			v := next.String()
			nextCursor = &v
		}

		c.JSON(http.StatusOK, gin.H{
			"logs":        logs,
			"next_cursor": nextCursor,
		})
	}
}
