package submission

import (
	"errors"
	"fmt"

	"assetscan/services/availability"
)

var (
	ErrNoAssets           = availability.ErrNoAssets
	ErrBlockedAssets      = availability.ErrBlockedAssets
	ErrInvalidAssetID     = errors.New("asset ids must not be empty")
	ErrDuplicateAssetID   = errors.New("asset ids must be unique")
	ErrPayloadMismatch    = errors.New("submitted assets do not match the scanned list")
	ErrSubmissionInFlight = errors.New("a submission is already in progress")
	ErrSessionClosed      = errors.New("scan session closed")
)

// SubmitError wraps a failure returned by the booking backend.
type SubmitError struct {
	Err error
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("failed to add assets to booking: %v", e.Err)
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}
