package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/captiveportal/portal-cms/internal/content"
)

// portalDocID is the fixed _id of the single content record.
const portalDocID = "portal"

type mongoRecord struct {
	ID               string `bson:"_id"`
	content.Document `bson:",inline"`
}

// MongoStore keeps the document as one record in a MongoDB collection.
// Save is a single replace-with-upsert so readers never see a partial write.
type MongoStore struct {
	col *mongo.Collection
}

func NewMongoStore(col *mongo.Collection) *MongoStore {
	return &MongoStore{col: col}
}

func (m *MongoStore) Load(ctx context.Context) (*content.Document, error) {
	var rec mongoRecord
	err := m.col.FindOne(ctx, bson.M{"_id": portalDocID}).Decode(&rec)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return content.Default(), nil
		}
		return nil, fmt.Errorf("find content: %w", err)
	}
	doc := rec.Document
	return &doc, nil
}

func (m *MongoStore) Save(ctx context.Context, doc *content.Document) error {
	stamp(doc)
	rec := mongoRecord{ID: portalDocID, Document: *doc}
	_, err := m.col.ReplaceOne(ctx, bson.M{"_id": portalDocID}, rec, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("replace content: %w", err)
	}
	return nil
}
