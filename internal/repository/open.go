package repository

import (
	"context"
	"fmt"

	"github.com/yukikurage/pm-assistant-api/internal/config"
	"github.com/yukikurage/pm-assistant-api/internal/database"
)

// Open connects to the backend selected by cfg, prepares its schema and
// returns the Store with a function that releases the connection.
func Open(ctx context.Context, cfg *config.Config) (Store, func(context.Context) error, error) {
	if cfg.UsesMongo() {
		client, db, err := database.ConnectMongo(ctx, cfg)
		if err != nil {
			return Store{}, nil, err
		}
		if err := database.EnsureMongoIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return Store{}, nil, err
		}
		return NewMongoStore(db), client.Disconnect, nil
	}

	if err := database.Connect(cfg); err != nil {
		return Store{}, nil, err
	}
	if err := database.Migrate(database.GetDB()); err != nil {
		return Store{}, nil, err
	}

	sqlDB, err := database.GetDB().DB()
	if err != nil {
		return Store{}, nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	closeFn := func(context.Context) error {
		return sqlDB.Close()
	}
	return NewGormStore(database.GetDB()), closeFn, nil
}
