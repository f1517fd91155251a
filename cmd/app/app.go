package app

import (
	"blogapi/internal/config"
	"blogapi/internal/database"
	"blogapi/internal/repository"
	"blogapi/internal/service"
	"blogapi/internal/storage"
	"context"
	"fmt"
)

// App connects the database and File Store and builds the services on top of them.
func App(ctx context.Context, cfg *config.Config) (*database.DB, storage.Storage, *service.Service, error) {
	db, err := database.ConnectDB(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("error connecting to database: %w", err)
	}

	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		db.CloseDB()
		return nil, nil, nil, fmt.Errorf("error initializing %s storage: %w", cfg.Storage.Backend, err)
	}

	repo := repository.NewRepository(db.DB)

	services := service.NewService(repo, cfg, store)

	return db, store, services, nil
}
