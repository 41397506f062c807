package assetRepo

import (
	"context"
	"errors"
	"fmt"

	"assetscan/models"
	"assetscan/services/scan"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Resolve looks code up as an asset QR id or barcode first, then as a kit
// QR id. A kit resolves to its members in title order.
func (r *mongoAssetRepo) Resolve(ctx context.Context, code string) ([]models.ResolvedAsset, error) {
	var rec models.AssetRecord
	err := r.assets.FindOne(ctx, bson.M{"$or": bson.A{
		bson.M{"qrId": code},
		bson.M{"barcodes": code},
	}}).Decode(&rec)
	if err == nil {
		return []models.ResolvedAsset{rec.ToResolved()}, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("asset lookup failed: %w", err)
	}

	var kit models.KitRecord
	err = r.kits.FindOne(ctx, bson.M{"qrId": code}).Decode(&kit)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, scan.ErrCodeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("kit lookup failed: %w", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "title", Value: 1}})
	cursor, err := r.assets.Find(ctx, bson.M{"kitId": kit.ID}, opts)
	if err != nil {
		return nil, fmt.Errorf("kit members lookup failed: %w", err)
	}
	defer cursor.Close(ctx)

	var members []models.AssetRecord
	if err := cursor.All(ctx, &members); err != nil {
		return nil, fmt.Errorf("failed to decode kit members: %w", err)
	}
	if len(members) == 0 {
		return nil, scan.ErrCodeNotFound
	}

	out := make([]models.ResolvedAsset, len(members))
	for i, m := range members {
		out[i] = m.ToResolved()
		out[i].KitID = kit.ID
	}
	return out, nil
}

// FindByIDs returns the catalog records for ids. Unknown ids are skipped.
func (r *mongoAssetRepo) FindByIDs(ctx context.Context, ids []string) ([]models.AssetRecord, error) {
	cursor, err := r.assets.Find(ctx, bson.M{"id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []models.AssetRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
