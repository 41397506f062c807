package assetRepo

import (
	"context"

	"assetscan/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// AssetRepository resolves scanned codes against the asset catalog.
type AssetRepository interface {
	Resolve(ctx context.Context, code string) ([]models.ResolvedAsset, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.AssetRecord, error)
	EnsureIndexes() error
}

type mongoAssetRepo struct {
	assets *mongo.Collection
	kits   *mongo.Collection
}

// NewMongoAssetRepo returns an AssetRepository backed by the assets and kits collections.
func NewMongoAssetRepo(db *mongo.Database) AssetRepository {
	return &mongoAssetRepo{
		assets: db.Collection("assets"),
		kits:   db.Collection("kits"),
	}
}
