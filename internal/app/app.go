package app

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/wicketlabs/scorebook/internal/config"
	"github.com/wicketlabs/scorebook/internal/infrastructure/archive"
	"github.com/wicketlabs/scorebook/internal/infrastructure/repository/postgres"
	"github.com/wicketlabs/scorebook/internal/platform/logging"
	"github.com/wicketlabs/scorebook/internal/usecase"
)

// NewLoader wires the loader service against the archive directory and the
// Postgres store. The returned db handle stays open for the lifetime of the
// run; closing it is the caller's job.
func NewLoader(ctx context.Context, cfg config.Config, logger *logging.Logger) (*usecase.LoaderService, *sqlx.DB, error) {
	if logger == nil {
		logger = logging.Default()
	}

	db, err := openDB(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	source := archive.NewReader(archive.ReaderConfig{
		Dir:    cfg.ArchiveDir,
		Logger: logger,
	})
	store := postgres.NewScorebookRepository(db)

	svc := usecase.NewLoaderService(source, store, usecase.LoaderConfig{
		ParseWorkers: cfg.ParseWorkers,
	}, logger)

	return svc, db, nil
}
