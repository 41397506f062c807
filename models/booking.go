package models

import "time"

// BookingAsset is one asset already attached to a booking.
type BookingAsset struct {
	ID    string `json:"id" bson:"id"`
	KitID string `json:"kitId,omitempty" bson:"kitId,omitempty"`
}

// Booking is the reservation document assets get added to.
type Booking struct {
	ID        string         `json:"id" bson:"id"`
	Name      string         `json:"name" bson:"name"`
	Status    string         `json:"status" bson:"status"`
	Assets    []BookingAsset `json:"assets" bson:"assets"`
	UpdatedAt time.Time      `json:"updatedAt" bson:"updatedAt"`
}

// BookingSnapshot is the read-only view of a booking's attached assets
// taken when a scan session opens.
type BookingSnapshot struct {
	BookingID string         `json:"bookingId"`
	Assets    []BookingAsset `json:"assets"`
}

// Snapshot copies the booking's attached assets.
func (b Booking) Snapshot() BookingSnapshot {
	assets := make([]BookingAsset, len(b.Assets))
	copy(assets, b.Assets)
	return BookingSnapshot{BookingID: b.ID, Assets: assets}
}

// Contains reports whether id is already attached to the booking.
func (s BookingSnapshot) Contains(id string) bool {
	for _, a := range s.Assets {
		if a.ID == id {
			return true
		}
	}
	return false
}

// AddAssetsToBookingInput is the submission payload.
type AddAssetsToBookingInput struct {
	AssetIDs []string `json:"assetIds"`
}
