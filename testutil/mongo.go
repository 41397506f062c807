package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultTestMongoURL = "mongodb://localhost:27017"

// NewTestDatabase connects to TEST_DATABASE_URL and returns a throwaway
// database dropped on cleanup. The test is skipped when Mongo is unreachable.
func NewTestDatabase(t *testing.T) *mongo.Database {
	t.Helper()
	uri := os.Getenv("TEST_DATABASE_URL")
	if uri == "" {
		uri = defaultTestMongoURL
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	opts := options.Client().ApplyURI(uri).SetServerSelectionTimeout(2 * time.Second)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		t.Skipf("skipping Mongo integration tests: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		t.Skipf("skipping Mongo integration tests: %v", err)
	}

	db := client.Database(fmt.Sprintf("assetscan_test_%d", time.Now().UnixNano()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return db
}

// Insert writes docs into the named collection.
func Insert(t *testing.T, db *mongo.Database, collection string, docs ...any) {
	t.Helper()
	if len(docs) == 0 {
		return
	}
	if _, err := db.Collection(collection).InsertMany(context.Background(), docs); err != nil {
		t.Fatalf("failed to seed %s: %v", collection, err)
	}
}
