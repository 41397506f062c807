package bookingRepo

import (
	"context"
	"errors"

	assetRepo "assetscan/database/repository/asset"
	"assetscan/models"
	"assetscan/utils"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrBookingNotFound  = errors.New("booking not found")
	ErrUnknownAsset     = errors.New("unknown asset")
	ErrAssetUnavailable = errors.New("asset is checked out or in custody")
)

// BookingRepository reads booking snapshots and attaches assets to bookings.
type BookingRepository interface {
	GetByID(ctx context.Context, bookingID string) (*models.Booking, error)
	GetSnapshot(ctx context.Context, bookingID string) (models.BookingSnapshot, error)
	AddAssets(ctx context.Context, bookingID string, assetIDs []string) (*models.Booking, error)
}

type mongoBookingRepo struct {
	coll   *mongo.Collection
	assets assetRepo.AssetRepository
	clock  utils.Clock
}

type Option func(*mongoBookingRepo)

// WithClock sets the clock stamping updatedAt.
func WithClock(clk utils.Clock) Option {
	return func(r *mongoBookingRepo) {
		if clk != nil {
			r.clock = clk
		}
	}
}

// NewMongoBookingRepo returns a BookingRepository using MongoDB. The asset
// repository supplies kit membership and status for added assets.
func NewMongoBookingRepo(db *mongo.Database, assets assetRepo.AssetRepository, opts ...Option) BookingRepository {
	r := &mongoBookingRepo{
		coll:   db.Collection("bookings"),
		assets: assets,
		clock:  utils.NewSystemClock(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}
