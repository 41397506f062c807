package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	bookingRepo "assetscan/database/repository/booking"
	"assetscan/models"
	"assetscan/services/staging"
	"assetscan/services/submission"
	"assetscan/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ScanSessionHandler exposes scan sessions to the operator panel.
type ScanSessionHandler struct {
	Sessions *staging.Manager
}

func NewScanSessionHandler(sessions *staging.Manager) *ScanSessionHandler {
	return &ScanSessionHandler{Sessions: sessions}
}

type scanRequest struct {
	Code string `json:"code" binding:"required"`
}

// Request bodies are a code or a list of asset ids; anything bigger is refused.
const maxBodyBytes = 64 << 10

// OpenSession starts a scan session for the booking in the path.
func (h *ScanSessionHandler) OpenSession(c *gin.Context) {
	bookingID := c.Param("bookingID")
	session, err := h.Sessions.Open(c.Request.Context(), bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			utils.JSONError(c, getLogger(c), http.StatusNotFound, "booking not found", bookingID)
			return
		}
		utils.JSONError(c, getLogger(c), http.StatusInternalServerError, "failed to open scan session", err.Error())
		return
	}
	c.JSON(http.StatusCreated, gin.H{"session": session.View()})
}

func (h *ScanSessionHandler) GetSession(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session.View()})
}

// ScanCode resolves a decoded code and stages the assets it yields.
func (h *ScanSessionHandler) ScanCode(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, getLogger(c), http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	added, err := session.Scan(c.Request.Context(), req.Code)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if added == nil {
		added = []models.ResolvedAsset{}
	}
	c.JSON(http.StatusOK, gin.H{"added": added, "session": session.View()})
}

func (h *ScanSessionHandler) RemoveAsset(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	if err := session.Remove(c.Param("assetID")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session.View()})
}

func (h *ScanSessionHandler) ClearAssets(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	if err := session.Clear(); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session.View()})
}

// PollNotification returns the pending notification, or 204 when there is none.
func (h *ScanSessionHandler) PollNotification(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	n, ok := session.Notifications().Poll()
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notification": n})
}

// Confirm submits the staged assets. A body carrying assetIds is the direct
// form path and is validated against the staged list; an empty body submits
// the staged list as is.
func (h *ScanSessionHandler) Confirm(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	body, err := c.GetRawData()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.JSONError(c, getLogger(c), http.StatusRequestEntityTooLarge, "request body too large", err.Error())
			return
		}
		utils.JSONError(c, getLogger(c), http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	input, direct, err := parseConfirmBody(body)
	if err != nil {
		utils.JSONError(c, getLogger(c), http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	// the request outlives a client that hangs up mid-submit
	ctx := context.WithoutCancel(c.Request.Context())

	var booking *models.Booking
	if direct {
		booking, err = session.ConfirmPayload(ctx, input)
	} else {
		booking, err = session.Confirm(ctx)
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	getLogger(c).Info("scan session submitted",
		zap.String("sessionID", session.ID), zap.String("bookingID", session.BookingID))
	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

// CloseSession ends the session without submitting.
func (h *ScanSessionHandler) CloseSession(c *gin.Context) {
	id := c.Param("sessionID")
	if _, err := h.Sessions.Get(id); err != nil {
		h.respondError(c, err)
		return
	}
	h.Sessions.Close(id)
	c.Status(http.StatusNoContent)
}

// parseConfirmBody reports direct=true whenever the body names assetIds,
// even as null, so such a body is held to the payload schema.
func parseConfirmBody(body []byte) (models.AddAssetsToBookingInput, bool, error) {
	var input models.AddAssetsToBookingInput
	if len(bytes.TrimSpace(body)) == 0 {
		return input, false, nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return input, false, err
	}
	raw, ok := fields["assetIds"]
	if !ok {
		return input, false, nil
	}
	if err := json.Unmarshal(raw, &input.AssetIDs); err != nil {
		return input, false, err
	}
	return input, true, nil
}

func (h *ScanSessionHandler) session(c *gin.Context) (*staging.Session, bool) {
	session, err := h.Sessions.Get(c.Param("sessionID"))
	if err != nil {
		h.respondError(c, err)
		return nil, false
	}
	return session, true
}

func (h *ScanSessionHandler) respondError(c *gin.Context, err error) {
	status, message := statusForError(err)
	utils.JSONError(c, getLogger(c), status, message, err.Error())
}

func statusForError(err error) (int, string) {
	var serr *submission.SubmitError
	switch {
	case errors.Is(err, staging.ErrSessionNotFound):
		return http.StatusNotFound, "scan session not found"
	case errors.Is(err, submission.ErrSessionClosed):
		return http.StatusGone, "scan session closed"
	case errors.Is(err, submission.ErrSubmissionInFlight):
		return http.StatusConflict, "submission in progress"
	case errors.Is(err, submission.ErrNoAssets),
		errors.Is(err, submission.ErrBlockedAssets),
		errors.Is(err, submission.ErrPayloadMismatch),
		errors.Is(err, submission.ErrInvalidAssetID),
		errors.Is(err, submission.ErrDuplicateAssetID):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, bookingRepo.ErrBookingNotFound):
		return http.StatusNotFound, "booking not found"
	case errors.Is(err, bookingRepo.ErrUnknownAsset),
		errors.Is(err, bookingRepo.ErrAssetUnavailable):
		return http.StatusUnprocessableEntity, "booking rejected the assets"
	case errors.As(err, &serr):
		return http.StatusBadGateway, "failed to add assets to booking"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
