// internal/app/store/records/mongostore.go
package recordstore

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/modulecredits/internal/app/system/timeouts"
	"github.com/dalemusser/modulecredits/internal/app/system/txn"
	"github.com/dalemusser/modulecredits/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Collection names used by MongoStore.
const (
	RecordsCollection  = "module_records"
	CountersCollection = "counters"

	seqCounterID = "module_records"
)

// MongoStore keeps records in the module_records collection. Seq values come
// from an atomic counter document in the counters collection, so they keep
// increasing across ClearAll.
type MongoStore struct {
	c        *mongo.Collection
	counters *mongo.Collection
	log      *zap.Logger
}

// NewMongo creates a MongoStore on db.
func NewMongo(db *mongo.Database, logger *zap.Logger) *MongoStore {
	return &MongoStore{
		c:        db.Collection(RecordsCollection),
		counters: db.Collection(CountersCollection),
		log:      logger,
	}
}

// reserveSeq atomically reserves n sequence numbers and returns the first.
func (s *MongoStore) reserveSeq(ctx context.Context, n int64) (int64, error) {
	var doc struct {
		Seq int64 `bson:"seq"`
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)
	err := s.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": seqCounterID},
		bson.M{"$inc": bson.M{"seq": n}},
		opts,
	).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("reserve sequence: %w", err)
	}
	return doc.Seq - n + 1, nil
}

func (s *MongoStore) Insert(ctx context.Context, rec models.ModuleRecord) (models.ModuleRecord, error) {
	seq, err := s.reserveSeq(ctx, 1)
	if err != nil {
		return models.ModuleRecord{}, err
	}
	rec = prepare(rec, seq, time.Now().UTC().Truncate(time.Millisecond))
	if _, err := s.c.InsertOne(ctx, rec); err != nil {
		return models.ModuleRecord{}, err
	}
	return rec, nil
}

// InsertMany runs inside a transaction when the deployment supports one.
// On standalone servers it falls back to an ordered insert. Either way a
// failed batch is followed by a delete of its ids outside any session: after
// an aborted transaction that matches nothing, after the fallback it removes
// the documents inserted before the failing one.
func (s *MongoStore) InsertMany(ctx context.Context, recs []models.ModuleRecord) ([]models.ModuleRecord, error) {
	if len(recs) == 0 {
		return nil, nil
	}
	first, err := s.reserveSeq(ctx, int64(len(recs)))
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	out := make([]models.ModuleRecord, len(recs))
	docs := make([]interface{}, len(recs))
	ids := make([]string, len(recs))
	for i, rec := range recs {
		out[i] = prepare(rec, first+int64(i), now)
		docs[i] = out[i]
		ids[i] = out[i].ID
	}

	err = txn.Run(ctx, s.c.Database().Client(), s.log, func(ctx context.Context) error {
		_, err := s.c.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
		return err
	})
	if err != nil {
		s.discardBatch(ctx, ids)
		return nil, err
	}
	return out, nil
}

// discardBatch deletes any documents of a failed batch. It runs even when
// ctx is already done, with its own timeout.
func (s *MongoStore) discardBatch(ctx context.Context, ids []string) {
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeouts.Short())
	defer cancel()

	res, err := s.c.DeleteMany(cctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		s.log.Error("rollback of partial record batch failed", zap.Int("batch", len(ids)), zap.Error(err))
		return
	}
	if res.DeletedCount > 0 {
		s.log.Warn("removed partial record batch", zap.Int64("removed", res.DeletedCount), zap.Int("batch", len(ids)))
	}
}

func (s *MongoStore) All(ctx context.Context) ([]models.ModuleRecord, error) {
	return s.find(ctx, bson.M{})
}

func (s *MongoStore) FilterByGroup(ctx context.Context, group string) ([]models.ModuleRecord, error) {
	return s.find(ctx, bson.M{"module_group": group})
}

func (s *MongoStore) find(ctx context.Context, filter bson.M) ([]models.ModuleRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "seq", Value: -1}})

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.ModuleRecord
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoStore) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

func (s *MongoStore) ClearAll(ctx context.Context) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.c.Database().Client().Ping(ctx, readpref.Primary())
}

// Close is a no-op: the Mongo client belongs to whoever connected it.
func (s *MongoStore) Close(ctx context.Context) error { return nil }
