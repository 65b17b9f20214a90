package main

import (
	"context"
	"fmt"

	"github.com/fadedpez/hatbot/internal/config"
	"github.com/fadedpez/hatbot/pkg/storage"
	"github.com/fadedpez/hatbot/pkg/storage/elasticsearch"
	"github.com/fadedpez/hatbot/pkg/storage/file"
	"github.com/fadedpez/hatbot/pkg/storage/memory"
	"github.com/fadedpez/hatbot/pkg/storage/sqlite"
)

// openStore creates the backend selected by STORAGE_TYPE
func openStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch storage.Type(cfg.StorageType) {
	case storage.TypeFile:
		return file.New(cfg.DataFile), nil
	case storage.TypeMemory:
		return memory.New(), nil
	case storage.TypeSQLite:
		store, err := sqlite.New(cfg.DataFile)
		if err != nil {
			return nil, err
		}
		return store, nil
	case storage.TypeElasticsearch:
		store, err := elasticsearch.New(ctx, &elasticsearch.Config{
			URL:         cfg.Elasticsearch.URL,
			Username:    cfg.Elasticsearch.Username,
			Password:    cfg.Elasticsearch.Password,
			IndexPrefix: cfg.Elasticsearch.IndexPrefix,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.StorageType)
	}
}
