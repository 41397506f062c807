package routes

import (
	"time"

	"assetscan/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterScanSessionRoutes registers the scan-to-booking endpoints.
func RegisterScanSessionRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.POST("/api/bookings/:bookingID/scan-sessions", hb.OpenScanSessionHandler)

	sessions := r.Group("/api/scan-sessions/:sessionID")
	{
		sessions.GET("", hb.GetScanSessionHandler)
		sessions.DELETE("", hb.CloseScanSessionHandler)
		sessions.POST("/scans", hb.ScanCodeHandler)
		sessions.DELETE("/assets/:assetID", hb.RemoveAssetHandler)
		sessions.DELETE("/assets", hb.ClearAssetsHandler)
		sessions.GET("/notifications", hb.PollNotificationHandler)
		sessions.POST("/confirm", hb.ConfirmScanSessionHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, allowOrigins []string) {
	if len(allowOrigins) == 0 {
		allowOrigins = []string{"*"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:  allowOrigins,
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))

	RegisterScanSessionRoutes(r, hb)
	RegisterHealthRoute(r, hb)
}
