package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/Ayushprasai11/Valorant/internal/model"
)

// MongoStore implements Store on a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongo connects to uri and pings the primary.
func NewMongo(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, &ConnectionError{Driver: "mongo", Err: err}
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, &ConnectionError{Driver: "mongo", Err: err}
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}, nil
}

// InsertMany writes records with a single insertMany and returns the hex
// ObjectIDs the driver generated. Document keys follow fields.
func (s *MongoStore) InsertMany(ctx context.Context, fields []string, records []model.Record) ([]string, error) {
	if len(records) == 0 {
		return nil, nil
	}
	docs := make([]any, len(records))
	for i, r := range records {
		docs[i] = mongoDoc(fields, r)
	}

	res, err := s.coll.InsertMany(ctx, docs)
	if err != nil {
		return nil, &WriteError{Driver: "mongo", Count: len(records), Err: err}
	}

	ids := make([]string, len(res.InsertedIDs))
	for i, id := range res.InsertedIDs {
		if oid, ok := id.(primitive.ObjectID); ok {
			ids[i] = oid.Hex()
			continue
		}
		ids[i] = fmt.Sprint(id)
	}
	return ids, nil
}

func mongoDoc(fields []string, r model.Record) bson.D {
	keys := orderedKeys(fields, r)
	doc := make(bson.D, 0, len(keys))
	for _, k := range keys {
		doc = append(doc, bson.E{Key: k, Value: r[k]})
	}
	return doc
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(context.Background())
}
