// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	recordstore "github.com/dalemusser/modulecredits/internal/app/store/records"
	"github.com/dalemusser/modulecredits/internal/app/system/indexes"
	"github.com/dalemusser/modulecredits/internal/app/system/timeouts"
	"github.com/dalemusser/modulecredits/internal/app/system/validators"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB opens the configured record store.
//
// For the mongo backend it connects a client, verifies it with a ping and
// hands the database to the store. For sqlite it opens (and migrates) the
// database file.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	var deps DBDeps

	if appCfg.StoreBackend == recordstore.BackendMongo {
		client, db, err := connectMongo(ctx, appCfg, logger)
		if err != nil {
			return DBDeps{}, err
		}
		deps.MongoClient = client
		deps.MongoDatabase = db
	}

	store, err := recordstore.Open(ctx, recordstore.Config{
		Backend:    appCfg.StoreBackend,
		SQLitePath: appCfg.SQLitePath,
		MongoDB:    deps.MongoDatabase,
	}, logger)
	if err != nil {
		if deps.MongoClient != nil {
			_ = deps.MongoClient.Disconnect(context.Background())
		}
		return DBDeps{}, fmt.Errorf("open record store: %w", err)
	}
	deps.Records = store

	logger.Info("record store ready",
		zap.String("backend", appCfg.StoreBackend),
		zap.String("sqlite_path", appCfg.SQLitePath),
		zap.String("mongo_database", appCfg.MongoDatabase))
	return deps, nil
}

func connectMongo(ctx context.Context, appCfg AppConfig, logger *zap.Logger) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Long())
	defer cancel()

	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		logger.Error("MongoDB connect failed", zap.Error(err))
		return nil, nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		logger.Error("MongoDB ping failed", zap.Error(err))
		return nil, nil, fmt.Errorf("ping mongo: %w", err)
	}

	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase),
		zap.Uint64("max_pool_size", appCfg.MongoMaxPoolSize),
		zap.Uint64("min_pool_size", appCfg.MongoMinPoolSize))
	return client, client.Database(appCfg.MongoDatabase), nil
}

// EnsureSchema sets up collections, JSON-schema validators and indexes on
// Mongo. The SQLite schema is created when the store is opened.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.MongoDatabase == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Long())
	defer cancel()

	if err := validators.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		logger.Error("ensure collection validators failed", zap.Error(err))
		return err
	}
	if err := indexes.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		logger.Error("ensure indexes failed", zap.Error(err))
		return err
	}
	logger.Info("mongo schema ensured")
	return nil
}
