package assetRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes used by code lookups.
func (r *mongoAssetRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	assetIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "qrId", Value: 1}},
			Options: options.Index().SetSparse(true).SetName("qr_idx"),
		},
		{
			Keys:    bson.D{{Key: "barcodes", Value: 1}},
			Options: options.Index().SetName("barcodes_idx"),
		},
		{
			Keys:    bson.D{{Key: "kitId", Value: 1}, {Key: "title", Value: 1}},
			Options: options.Index().SetName("kit_title_idx"),
		},
	}
	if _, err := r.assets.Indexes().CreateMany(ctx, assetIndexes); err != nil {
		return fmt.Errorf("failed to create asset indexes: %w", err)
	}

	kitIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "qrId", Value: 1}},
			Options: options.Index().SetSparse(true).SetName("qr_idx"),
		},
	}
	if _, err := r.kits.Indexes().CreateMany(ctx, kitIndexes); err != nil {
		return fmt.Errorf("failed to create kit indexes: %w", err)
	}
	return nil
}
