// Package availability decides whether a staged asset set can be submitted
// to a booking. Everything here is a pure function of its inputs.
package availability

import (
	"errors"

	"assetscan/models"
)

var (
	ErrNoAssets      = errors.New("at least one asset required")
	ErrBlockedAssets = errors.New("some assets are checked out or in custody")
)

// Membership describes how a staged asset relates to the target booking.
// It only drives display badges and never blocks submission.
type Membership struct {
	AlreadyInBooking bool `json:"alreadyInBooking"`
	AddedThroughKit  bool `json:"addedThroughKit"`
}

// ValidationFlags is recomputed from scratch on every call.
type ValidationFlags struct {
	Count           int
	HasBlockedAsset bool
	Blocked         bool
	Membership      map[string]Membership
}

// IsBlockedStatus reports whether status prevents committing the asset to
// another booking.
func IsBlockedStatus(status models.AssetStatus) bool {
	return status == models.AssetStatusCheckedOut || status == models.AssetStatusInCustody
}

// HasBlockedAsset reports whether any asset is checked out or in custody.
func HasBlockedAsset(assets []models.ResolvedAsset) bool {
	for _, a := range assets {
		if IsBlockedStatus(a.Status) {
			return true
		}
	}
	return false
}

// IsBlocked is true for an empty set or a set holding a blocked asset.
func IsBlocked(assets []models.ResolvedAsset) bool {
	return len(assets) == 0 || HasBlockedAsset(assets)
}

// BlockReason returns the error explaining why IsBlocked is true, or nil.
func BlockReason(assets []models.ResolvedAsset) error {
	if len(assets) == 0 {
		return ErrNoAssets
	}
	if HasBlockedAsset(assets) {
		return ErrBlockedAssets
	}
	return nil
}

func MembershipFlags(asset models.ResolvedAsset, snapshot models.BookingSnapshot) Membership {
	inBooking := snapshot.Contains(asset.ID)
	return Membership{
		AlreadyInBooking: inBooking,
		AddedThroughKit:  inBooking && asset.KitID != "",
	}
}

// Evaluate computes every flag for assets against snapshot.
func Evaluate(assets []models.ResolvedAsset, snapshot models.BookingSnapshot) ValidationFlags {
	flags := ValidationFlags{
		Count:           len(assets),
		HasBlockedAsset: HasBlockedAsset(assets),
		Membership:      make(map[string]Membership, len(assets)),
	}
	flags.Blocked = flags.Count == 0 || flags.HasBlockedAsset
	for _, a := range assets {
		flags.Membership[a.ID] = MembershipFlags(a, snapshot)
	}
	return flags
}
