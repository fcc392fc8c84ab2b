package seed

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"pgn_backend/internal/auth"
	"pgn_backend/internal/config"
	"pgn_backend/internal/models"
	"pgn_backend/internal/rbac"
	"pgn_backend/internal/store"
)

// FirstSetup makes sure the role capability rows exist and, when
// PGN_ADMIN_EMAIL and PGN_ADMIN_PASSWORD are set, that the bootstrap admin exists.
// Running it again changes nothing.
func FirstSetup(ctx context.Context, gdb *gorm.DB, cfg *config.Config, hasher auth.Hasher, log zerolog.Logger) error {
	// -------------------------
	// 1) Role capabilities
	// -------------------------
	for _, p := range rbac.Defaults() {
		row := p
		if err := gdb.WithContext(ctx).Where("role = ?", row.Role).FirstOrCreate(&row).Error; err != nil {
			return err
		}
	}

	// -------------------------
	// 2) Bootstrap admin
	// -------------------------
	if cfg.BootstrapEmail == "" || cfg.BootstrapPasswd == "" {
		log.Info().Int("roles", len(models.OrgRoles)).Msg("seed ok")
		return nil
	}

	hash, err := hasher.Hash(cfg.BootstrapPasswd)
	if err != nil {
		return err
	}
	_, err = store.New(gdb).CreatePGNAdmin(ctx, cfg.BootstrapEmail, hash)
	switch {
	case errors.Is(err, store.ErrAdminEmailTaken):
		log.Debug().Str("email", cfg.BootstrapEmail).Msg("bootstrap admin already present")
	case err != nil:
		return err
	default:
		log.Info().Str("email", cfg.BootstrapEmail).Msg("bootstrap admin created")
	}

	log.Info().Int("roles", len(models.OrgRoles)).Msg("seed ok")
	return nil
}
