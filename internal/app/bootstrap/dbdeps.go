// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	recordstore "github.com/dalemusser/modulecredits/internal/app/store/records"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
//
// Records is always set. The Mongo handles are only set when the mongo
// backend is selected.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	Records recordstore.Store
}
