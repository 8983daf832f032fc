package main

import (
	"context"
	"fmt"
	"os"

	recordstore "github.com/dalemusser/modulecredits/internal/app/store/records"
	"github.com/dalemusser/modulecredits/internal/app/system/indexes"
	"github.com/dalemusser/modulecredits/internal/app/system/timeouts"
	"github.com/dalemusser/modulecredits/internal/app/system/validators"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	backend    string
	sqlitePath string
	mongoURI   string
	mongoDB    string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:           "modulecreditsctl",
		Short:         "Inspect and maintain module credit records",
		Long:          "modulecreditsctl works directly on the record store used by the modulecredits web service.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.backend, "backend", envOr("MODULECREDITS_STORE_BACKEND", recordstore.BackendSQLite), "Record store backend: sqlite or mongo")
	pf.StringVar(&opts.sqlitePath, "sqlite", envOr("MODULECREDITS_SQLITE_PATH", "module_data.db"), "Path to SQLite database file")
	pf.StringVar(&opts.mongoURI, "mongo-uri", envOr("MODULECREDITS_MONGO_URI", "mongodb://localhost:27017"), "MongoDB connection URI")
	pf.StringVar(&opts.mongoDB, "mongo-db", envOr("MODULECREDITS_MONGO_DATABASE", "module_credits"), "MongoDB database name")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "Log store activity to stderr")

	root.AddCommand(newListCmd(opts))
	root.AddCommand(newReportCmd(opts))
	root.AddCommand(newImportCmd(opts))
	root.AddCommand(newClearCmd(opts))
	return root
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func (o *globalOptions) logger() *zap.Logger {
	if !o.verbose {
		return zap.NewNop()
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// openStore opens the selected backend. The returned func releases the
// store and, for Mongo, the client.
func (o *globalOptions) openStore(ctx context.Context) (recordstore.Store, func(), error) {
	logger := o.logger()

	cfg := recordstore.Config{Backend: o.backend, SQLitePath: o.sqlitePath}
	var client *mongo.Client
	if o.backend == recordstore.BackendMongo {
		c, err := connectMongo(ctx, o.mongoURI)
		if err != nil {
			return nil, nil, err
		}
		client = c
		cfg.MongoDB = client.Database(o.mongoDB)

		if err := ensureMongoSchema(ctx, cfg.MongoDB); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, err
		}
	}

	store, err := recordstore.Open(ctx, cfg, logger)
	if err != nil {
		if client != nil {
			_ = client.Disconnect(context.Background())
		}
		return nil, nil, fmt.Errorf("open record store: %w", err)
	}

	closeFn := func() {
		_ = store.Close(context.Background())
		if client != nil {
			_ = client.Disconnect(context.Background())
		}
		_ = logger.Sync()
	}
	return store, closeFn, nil
}

func connectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Long())
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

func ensureMongoSchema(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Long())
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		return fmt.Errorf("ensure validators: %w", err)
	}
	if err := indexes.EnsureAll(ctx, db); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}
	return nil
}
