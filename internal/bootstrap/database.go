package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/mail-triage/internal/config"
	"github.com/jonesrussell/mail-triage/internal/database"
	"github.com/jonesrussell/mail-triage/internal/logger"
)

// schemaTimeout bounds history schema creation at startup.
const schemaTimeout = 10 * time.Second

// HistoryComponents holds the classification history connection and
// repository. Both fields are nil when history persistence is disabled.
type HistoryComponents struct {
	DB   *sqlx.DB
	Repo *database.HistoryRepository
}

// SetupHistory connects the classification history database and ensures its
// schema exists. When history is disabled in config the service runs without
// persistence and the stats endpoint reports empty totals.
func SetupHistory(cfg *config.Config, log logger.Logger) (*HistoryComponents, error) {
	if !cfg.Database.Enabled {
		log.Info("Classification history disabled")
		return &HistoryComponents{}, nil
	}

	dbConfig := database.Config{
		Driver:          cfg.Database.Driver,
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.Database,
		SSLMode:         cfg.Database.SSLMode,
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxConnections,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}

	log.Info("Connecting to history database",
		logger.String("driver", cfg.Database.Driver),
		logger.String("host", cfg.Database.Host),
		logger.String("database", cfg.Database.Database),
	)

	db, err := database.Connect(dbConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}

	repo := database.NewHistoryRepository(db)

	ctx, cancel := context.WithTimeout(context.Background(), schemaTimeout)
	defer cancel()
	if err := repo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ensure history schema: %w", err)
	}

	log.Info("History database connected")

	return &HistoryComponents{DB: db, Repo: repo}, nil
}
