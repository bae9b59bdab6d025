package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/khoahotran/folio/internal/config"
	"github.com/khoahotran/folio/internal/docstore"
	"github.com/khoahotran/folio/pkg/logger"
)

type mongoStore struct {
	client *mongo.Client
	db     *mongo.Database
	logger logger.Logger
	clock  *docstore.Clock
}

func NewMongoClient(cfg config.Config, log logger.Logger) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return nil, fmt.Errorf("can not connect MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping MongoDB failed: %w", err)
	}

	log.Info("Connect MongoDB successfully.")
	return client, nil
}

// NewMongoStore maps each collection to a Mongo collection keyed by _id and
// creates the unique username index.
func NewMongoStore(ctx context.Context, client *mongo.Client, database string, logger logger.Logger) (docstore.Store, error) {
	s := &mongoStore{
		client: client,
		db:     client.Database(database),
		logger: logger,
		clock:  docstore.NewClock(nil),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *mongoStore) ensureIndexes(ctx context.Context) error {
	for coll, field := range uniqueFields {
		model := mongo.IndexModel{
			Keys: bson.D{{Key: field, Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{field: bson.M{"$gt": ""}}),
		}
		if _, err := s.db.Collection(coll).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("create unique index %s.%s: %w", coll, field, err)
		}
	}
	return nil
}

func (s *mongoStore) Collection(name string) docstore.Collection {
	return &mongoCollection{store: s, coll: s.db.Collection(name)}
}

func (s *mongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *mongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

type mongoCollection struct {
	store *mongoStore
	coll  *mongo.Collection
}

func guardFilter(id string, guard docstore.Filter) bson.M {
	f := bson.M{"_id": id}
	for k, v := range guard {
		f[k] = v
	}
	return f
}

func mapWriteErr(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return docstore.ErrConflict
	}
	return err
}

// fromBSON turns a raw Mongo document into a plain Document with the id key.
func fromBSON(m bson.M) docstore.Document {
	doc := make(docstore.Document, len(m))
	for k, v := range m {
		if k == "_id" {
			doc[docstore.FieldID] = fmt.Sprint(v)
			continue
		}
		doc[k] = normalize(v)
	}
	return doc
}

func normalize(v any) any {
	switch t := v.(type) {
	case primitive.D:
		m := make(map[string]any, len(t))
		for _, e := range t {
			m[e.Key] = normalize(e.Value)
		}
		return m
	case primitive.M:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = normalize(e)
		}
		return m
	case primitive.A:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalize(e)
		}
		return out
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	default:
		return v
	}
}

func (c *mongoCollection) Get(ctx context.Context, id string) (docstore.Document, error) {
	var m bson.M
	err := c.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, docstore.ErrNotFound
		}
		return nil, err
	}
	return fromBSON(m), nil
}

func (c *mongoCollection) Find(ctx context.Context, filter docstore.Filter) ([]docstore.Document, error) {
	f := bson.M{}
	for k, v := range filter {
		f[k] = v
	}
	opts := options.Find().SetSort(bson.D{{Key: docstore.FieldCreatedAt, Value: 1}, {Key: "_id", Value: 1}})

	cur, err := c.coll.Find(ctx, f, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	docs := make([]docstore.Document, 0)
	for cur.Next(ctx) {
		var m bson.M
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		docs = append(docs, fromBSON(m))
	}
	return docs, cur.Err()
}

func (c *mongoCollection) Insert(ctx context.Context, doc docstore.Document) (docstore.Document, error) {
	id := docstore.NewID()
	stored := docstore.WritableFields(doc)
	stored[docstore.FieldCreatedAt] = c.store.clock.Stamp()

	record := bson.M{"_id": id}
	for k, v := range stored {
		record[k] = v
	}
	if _, err := c.coll.InsertOne(ctx, record); err != nil {
		return nil, mapWriteErr(err)
	}

	stored[docstore.FieldID] = id
	return stored, nil
}

func (c *mongoCollection) Merge(ctx context.Context, id string, fields docstore.Document) error {
	stamp := c.store.clock.Stamp()
	set := bson.M{docstore.FieldUpdatedAt: stamp}
	for k, v := range docstore.WritableFields(fields) {
		set[k] = v
	}
	update := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{docstore.FieldCreatedAt: stamp},
	}

	_, err := c.coll.UpdateOne(ctx, bson.M{"_id": id}, update, options.Update().SetUpsert(true))
	return mapWriteErr(err)
}

func (c *mongoCollection) Update(ctx context.Context, id string, fields docstore.Document, guard docstore.Filter) error {
	set := bson.M{docstore.FieldUpdatedAt: c.store.clock.Stamp()}
	for k, v := range docstore.WritableFields(fields) {
		set[k] = v
	}

	res, err := c.coll.UpdateOne(ctx, guardFilter(id, guard), bson.M{"$set": set})
	if err != nil {
		return mapWriteErr(err)
	}
	if res.MatchedCount == 0 {
		return docstore.ErrNotFound
	}
	return nil
}

func (c *mongoCollection) Delete(ctx context.Context, id string, guard docstore.Filter) error {
	res, err := c.coll.DeleteOne(ctx, guardFilter(id, guard))
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return docstore.ErrNotFound
	}
	return nil
}
