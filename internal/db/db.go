package db

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"pgn_backend/internal/config"
	"pgn_backend/internal/models"
)

// Dialector picks the gorm driver for the configured DB_DRIVER.
func Dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "postgres":
		return postgres.Open(dsn), nil
	case "mysql":
		return mysql.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// GormConfig is shared by production and test connections. TranslateError turns
// driver unique/foreign-key violations into gorm.ErrDuplicatedKey and gorm.ErrForeignKeyViolated.
func GormConfig(log zerolog.Logger) *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(printer{log: log}, gormlogger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	}
}

// Connect opens the database and pings it, retrying with exponential backoff
// while the server comes up.
func Connect(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*gorm.DB, error) {
	dialector, err := Dialector(cfg.DBDriver, cfg.DSN)
	if err != nil {
		return nil, err
	}

	open := func() (*gorm.DB, error) {
		gdb, err := gorm.Open(dialector, GormConfig(log))
		if err != nil {
			log.Warn().Err(err).Msg("database connect failed")
			return nil, err
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := sqlDB.PingContext(pingCtx); err != nil {
			_ = sqlDB.Close()
			log.Warn().Err(err).Msg("database ping failed")
			return nil, err
		}
		return gdb, nil
	}

	gdb, err := backoff.Retry(ctx, open,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(cfg.DBConnectTries),
	)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.DBDriver, err)
	}

	log.Info().Str("driver", cfg.DBDriver).Msg("database connected")
	return gdb, nil
}

// AutoMigrate creates or updates every table of the data model.
func AutoMigrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// Ping is used by the health endpoint.
func Ping(ctx context.Context, gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func Close(gdb *gorm.DB) error {
	if gdb == nil {
		return nil
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

type printer struct {
	log zerolog.Logger
}

func (p printer) Printf(format string, args ...any) {
	p.log.Warn().Str("component", "gorm").Msgf(format, args...)
}
