package main

import (
	"context"
	"log/slog"

	"github.com/mikepea/boxfinder/pkg/boxfinder/config"
	"github.com/mikepea/boxfinder/pkg/boxfinder/database"
	"github.com/mikepea/boxfinder/pkg/boxfinder/store"
	"github.com/mikepea/boxfinder/pkg/boxfinder/store/firestorestore"
	"github.com/mikepea/boxfinder/pkg/boxfinder/store/gormstore"
	"github.com/mikepea/boxfinder/pkg/boxfinder/store/mongostore"
)

// openStore connects to the configured directory backend
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.Store, error) {
	logger.Info("opening store", "backend", cfg.Store)

	switch cfg.Store {
	case config.StoreMongo:
		s, err := mongostore.Open(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.StoreFirestore:
		s, err := firestorestore.Open(ctx, cfg.FirestoreProject, cfg.FirestoreCredentials)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		db, err := database.Open(cfg.SQLitePath, logger)
		if err != nil {
			return nil, err
		}
		return gormstore.New(db), nil
	}
}
