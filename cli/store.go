package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	mongod "go.mongodb.org/mongo-driver/v2/mongo"
	mongooptions "go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/gantoin/n8n"
	"github.com/gantoin/n8n/store"
	bunstore "github.com/gantoin/n8n/store/bun"
	"github.com/gantoin/n8n/store/memory"
	mongostore "github.com/gantoin/n8n/store/mongo"
	"github.com/gantoin/n8n/store/postgres"
	redisstore "github.com/gantoin/n8n/store/redis"
)

// openStore opens the storage backend selected by cfg.Database.
func openStore(ctx context.Context, cfg n8n.Config, logger *slog.Logger) (store.Store, error) {
	switch cfg.Database {
	case "", "memory":
		return memory.New(), nil

	case "postgres":
		return postgres.New(ctx, cfg.DSN, postgres.WithLogger(logger))

	case "bun":
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.DSN)))
		db := bun.NewDB(sqldb, pgdialect.New())
		return bunstore.New(db, bunstore.WithLogger(logger)), nil

	case "redis":
		opts, err := goredis.ParseURL(cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("n8n: parse redis dsn: %w", err)
		}
		return redisstore.New(goredis.NewClient(opts), redisstore.WithLogger(logger)), nil

	case "mongo":
		client, err := mongod.Connect(mongooptions.Client().ApplyURI(cfg.DSN))
		if err != nil {
			return nil, fmt.Errorf("n8n: connect mongo: %w", err)
		}
		return mongostore.New(client.Database(cfg.MongoDatabase),
			mongostore.WithLogger(logger)), nil

	default:
		return nil, fmt.Errorf("n8n: unknown database type %q", cfg.Database)
	}
}
