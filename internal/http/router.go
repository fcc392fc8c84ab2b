package httpserver

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"pgn_backend/internal/audit"
	"pgn_backend/internal/auth"
	"pgn_backend/internal/config"
	"pgn_backend/internal/http/handlers"
	"pgn_backend/internal/logger"
	"pgn_backend/internal/metrics"
	"pgn_backend/internal/models"
	"pgn_backend/internal/rbac"
	"pgn_backend/internal/store"
)

// NewRouter wires the middleware chain and the admin API. The audit middleware
// goes first so it wraps logging, recovery, 404s and every route. The caller
// owns rec and must Wait on it after the server has stopped.
func NewRouter(gdb *gorm.DB, cfg *config.Config, log zerolog.Logger, m *metrics.Metrics, rec *audit.Recorder) (*gin.Engine, error) {
	if err := handlers.RegisterValidators(); err != nil {
		return nil, err
	}

	tokens, err := auth.NewTokenService(cfg)
	if err != nil {
		return nil, fmt.Errorf("token service: %w", err)
	}
	gate := auth.NewGate(tokens)
	hasher := auth.NewHasher(cfg.BcryptCost)
	st := store.New(gdb)
	chk := rbac.Checker{DB: gdb}

	r := gin.New()
	r.Use(
		audit.Middleware(rec, gate),
		logger.Requests(log),
		m.Middleware(),
		gin.Recovery(),
	)

	r.GET("/", handlers.Root())
	r.GET("/healthz", handlers.Health(gdb))
	r.GET("/metrics", m.Handler())

	// Public routes
	r.POST("/register_pgnadmin", handlers.RegisterPGNAdmin(st, hasher))
	r.POST("/login_pgnadmin", handlers.LoginPGNAdmin(st, hasher, tokens))

	admin := r.Group("/pgn-admin")
	{
		// Tenant bootstrap stays open.
		admin.POST("/create-organization", handlers.CreateOrganization(st, hasher))

		api := admin.Group("", auth.RequireRole(gate, models.RolePGNAdmin))
		api.GET("/organizations", handlers.ListOrganizations(st))
		api.GET("/organizations/:org_id", handlers.GetOrganization(st))
		api.PUT("/organizations/:org_id/users/:user_id", handlers.UpdateOrgUser(st))
		api.DELETE("/organizations/:org_id", handlers.DeleteOrganization(st))

		api.GET("/audit-logs", handlers.ListAudit(st))
		api.GET("/role-permissions", handlers.ListRolePermissions(chk))
		api.GET("/role-permissions/:role/:action", handlers.CheckRolePermission(chk))
	}

	return r, nil
}
