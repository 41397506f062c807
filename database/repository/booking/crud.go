package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"assetscan/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetByID returns a booking by its ID.
func (r *mongoBookingRepo) GetByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	var booking models.Booking
	err := r.coll.FindOne(ctx, bson.M{"id": bookingID}).Decode(&booking)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// GetSnapshot returns the assets currently attached to the booking.
func (r *mongoBookingRepo) GetSnapshot(ctx context.Context, bookingID string) (models.BookingSnapshot, error) {
	booking, err := r.GetByID(ctx, bookingID)
	if err != nil {
		return models.BookingSnapshot{}, err
	}
	return booking.Snapshot(), nil
}

// AddAssets attaches assetIDs to the booking. Ids already attached are
// accepted and left as they are, so a repeated submit is idempotent.
func (r *mongoBookingRepo) AddAssets(ctx context.Context, bookingID string, assetIDs []string) (*models.Booking, error) {
	if len(assetIDs) == 0 {
		return nil, fmt.Errorf("%w: no asset ids", ErrUnknownAsset)
	}

	records, err := r.assets.FindByIDs(ctx, assetIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load assets: %w", err)
	}
	entries, err := bookingEntries(assetIDs, records)
	if err != nil {
		return nil, err
	}

	update := bson.M{
		"$addToSet": bson.M{"assets": bson.M{"$each": entries}},
		"$set":      bson.M{"updatedAt": r.clock.Now()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Booking
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"id": bookingID}, update, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to add assets to booking: %w", err)
	}
	return &updated, nil
}

// bookingEntries maps ids to booking entries in order, rejecting unknown
// and unavailable assets.
func bookingEntries(assetIDs []string, records []models.AssetRecord) ([]models.BookingAsset, error) {
	byID := make(map[string]models.AssetRecord, len(records))
	for _, rec := range records {
		byID[rec.ID] = rec
	}

	var missing, unavailable []string
	entries := make([]models.BookingAsset, 0, len(assetIDs))
	for _, id := range assetIDs {
		rec, ok := byID[id]
		switch {
		case !ok:
			missing = append(missing, id)
		case rec.Status == models.AssetStatusCheckedOut || rec.Status == models.AssetStatusInCustody:
			unavailable = append(unavailable, id)
		default:
			entries = append(entries, models.BookingAsset{ID: rec.ID, KitID: rec.KitID})
		}
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAsset, strings.Join(missing, ", "))
	}
	if len(unavailable) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrAssetUnavailable, strings.Join(unavailable, ", "))
	}
	return entries, nil
}
