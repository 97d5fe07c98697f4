// Package mongodb reads element records from, and persists built
// matrices to, a MongoDB database. Each category is its own collection
// of documents tagged with an area_id field.
package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ohowland/ybus_core/internal/pkg/model"
)

const areaField = "area_id"

// Connect opens a client and checks the server is reachable
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.NewClient(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Connect(ctx); err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo %v: %w", uri, err)
	}
	return client, nil
}

// Source implements model.Source over one database
type Source struct {
	db *mongo.Database
}

func NewSource(db *mongo.Database) *Source {
	return &Source{db: db}
}

func (s *Source) Records(ctx context.Context, areaID string, c model.Category) ([]model.Record, error) {
	cur, err := s.db.Collection(string(c)).Find(ctx, bson.M{areaField: areaID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []model.Record{}
	for cur.Next(ctx) {
		doc := bson.M{}
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, documentToRecord(doc))
	}
	return out, cur.Err()
}

// Put inserts records of one category for an area
func (s *Source) Put(ctx context.Context, areaID string, c model.Category, records ...model.Record) error {
	if len(records) == 0 {
		return nil
	}
	docs := make([]interface{}, len(records))
	for i, r := range records {
		docs[i] = recordToDocument(areaID, r)
	}
	_, err := s.db.Collection(string(c)).InsertMany(ctx, docs)
	return err
}

func documentToRecord(doc bson.M) model.Record {
	r := make(model.Record, len(doc))
	for k, v := range doc {
		if k == "_id" || k == areaField {
			continue
		}
		r[k] = v
	}
	return r
}

func recordToDocument(areaID string, r model.Record) bson.M {
	doc := bson.M{areaField: areaID}
	for k, v := range r {
		doc[k] = v
	}
	return doc
}
