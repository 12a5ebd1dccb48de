// Package postgres contains the GORM implementation of the persistence layer.
// PostgreSQL is the production dialect; SQLite serves local runs and tests.
package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"gamecatalog/config"
	"gamecatalog/internal/domain/lifecycle"
	"gamecatalog/internal/infra/persistence/model"

	"github.com/pkg/errors"
	pgLib "github.com/slighter12/go-lib/database/postgres"
	"go.uber.org/fx"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	dbPoolMonitorInterval       = 5 * time.Second
	dbPoolWarnDurationThreshold = 50 * time.Millisecond
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// New opens the configured database and registers ping, migration and pool monitoring hooks.
func New(params Params) (*gorm.DB, error) {
	dbCfg := params.Config.Database

	db, err := Open(dbCfg, params.Logger, params.Config.Env.Debug)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get sql.DB")
	}

	monitorCtx, cancelMonitor := context.WithCancel(context.Background())

	params.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			if err := sqlDB.PingContext(ctx); err != nil {
				return errors.Wrapf(err, "failed to ping %s", dbCfg.Driver)
			}

			if dbCfg.AutoMigrate {
				if err := Migrate(ctx, db); err != nil {
					return err
				}
			}

			go monitorDBPool(monitorCtx, params.Logger, dbCfg.Driver, sqlDB, dbPoolMonitorInterval)

			return nil
		},
		OnStop: func(_ context.Context) error {
			cancelMonitor()

			return sqlDB.Close()
		},
	})

	return db, nil
}

// Open connects with the dialect named by cfg.Driver. Constraint errors are
// translated to the gorm sentinel errors for both dialects.
func Open(cfg *config.DatabaseConfig, logger *slog.Logger, debug bool) (*gorm.DB, error) {
	if cfg == nil {
		return nil, errors.New("database config is required")
	}

	var db *gorm.DB

	switch cfg.Driver {
	case config.DriverPostgres:
		pgDB, err := pgLib.New(cfg.Postgres)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create PostgreSQL client")
		}
		pgDB.Config.TranslateError = true
		db = pgDB
	case config.DriverSQLite:
		liteDB, err := gorm.Open(sqlite.Open(cfg.SQLite.Path), &gorm.Config{TranslateError: true})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to open SQLite database %s", cfg.SQLite.Path)
		}

		sqlDB, err := liteDB.DB()
		if err != nil {
			return nil, errors.Wrap(err, "failed to get SQLite sql.DB")
		}
		// A single connection keeps ":memory:" databases shared and serialises writers.
		sqlDB.SetMaxOpenConns(1)
		db = liteDB
	default:
		return nil, errors.Errorf("unsupported database driver %q", cfg.Driver)
	}

	return db.Session(&gorm.Session{
		// Multi-step atomic work goes through TransactionManager.Execute.
		SkipDefaultTransaction: true,
		Logger:                 newGormSlogLogger(logger, debug),
	}), nil
}

// Migrate creates or updates every table of the catalog schema.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(model.All()...); err != nil {
		return errors.Wrap(err, "failed to migrate schema")
	}

	return nil
}

func monitorDBPool(ctx context.Context, logger *slog.Logger, driver string, sqlDB *sql.DB, interval time.Duration) {
	if logger == nil || sqlDB == nil {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	prev := sqlDB.Stats()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cur := sqlDB.Stats()
			waitDelta := cur.WaitCount - prev.WaitCount
			waitDurationDelta := cur.WaitDuration - prev.WaitDuration
			prev = cur

			if waitDelta <= 0 {
				continue
			}

			attrs := []slog.Attr{
				slog.String("driver", driver),
				slog.Int64("waitCountDelta", waitDelta),
				slog.Duration("avgWait", waitDurationDelta/time.Duration(waitDelta)),
				slog.Int("maxOpenConns", cur.MaxOpenConnections),
				slog.Int("inUseConns", cur.InUse),
				slog.Int("idleConns", cur.Idle),
			}
			level := slog.LevelDebug
			if waitDurationDelta >= dbPoolWarnDurationThreshold {
				level = slog.LevelWarn
			}
			logger.LogAttrs(ctx, level, "database pool wait", attrs...)
		}
	}
}
