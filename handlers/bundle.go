package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Scan session endpoints
	OpenScanSessionHandler    gin.HandlerFunc
	GetScanSessionHandler     gin.HandlerFunc
	ScanCodeHandler           gin.HandlerFunc
	RemoveAssetHandler        gin.HandlerFunc
	ClearAssetsHandler        gin.HandlerFunc
	PollNotificationHandler   gin.HandlerFunc
	ConfirmScanSessionHandler gin.HandlerFunc
	CloseScanSessionHandler   gin.HandlerFunc

	HealthHandler gin.HandlerFunc
}

// NewHandlerBundle wires the scan session and health handlers into a bundle.
func NewHandlerBundle(scans *ScanSessionHandler, health *HealthHandler) *HandlerBundle {
	return &HandlerBundle{
		OpenScanSessionHandler:    scans.OpenSession,
		GetScanSessionHandler:     scans.GetSession,
		ScanCodeHandler:           scans.ScanCode,
		RemoveAssetHandler:        scans.RemoveAsset,
		ClearAssetsHandler:        scans.ClearAssets,
		PollNotificationHandler:   scans.PollNotification,
		ConfirmScanSessionHandler: scans.Confirm,
		CloseScanSessionHandler:   scans.CloseSession,

		HealthHandler: health.Health,
	}
}
