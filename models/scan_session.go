package models

import "time"

// StagedAssetView is a staged asset annotated for display.
type StagedAssetView struct {
	ResolvedAsset
	AlreadyInBooking bool `json:"isAlreadyAdded"`
	AddedThroughKit  bool `json:"isAddedThroughKit"`
	Blocked          bool `json:"isBlocked"`
}

// ScanSessionView is what the operator panel renders for one session.
type ScanSessionView struct {
	SessionID     string            `json:"sessionId"`
	BookingID     string            `json:"bookingId"`
	Assets        []StagedAssetView `json:"assets"`
	Count         int               `json:"count"`
	HasBlocked    bool              `json:"hasBlockedAsset"`
	CanSubmit     bool              `json:"canSubmit"`
	State         string            `json:"state"`
	Error         string            `json:"error,omitempty"`
	OpenedAt      time.Time         `json:"openedAt"`
	LastTouchedAt time.Time         `json:"lastTouchedAt"`
}
