package submission

import (
	"context"
	"slices"
	"sync"
	"time"

	"assetscan/models"
	"assetscan/services/availability"

	"go.uber.org/zap"
)

type State string

const (
	StateIdle       State = "IDLE"
	StateInvalid    State = "INVALID"
	StateReady      State = "READY"
	StateSubmitting State = "SUBMITTING"
)

// Submitter hands the payload to the booking backend.
type Submitter interface {
	AddAssets(ctx context.Context, input models.AddAssetsToBookingInput) (*models.Booking, error)
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, input models.AddAssetsToBookingInput) (*models.Booking, error)

func (f SubmitterFunc) AddAssets(ctx context.Context, input models.AddAssetsToBookingInput) (*models.Booking, error) {
	return f(ctx, input)
}

// AssetSource is the staged set the controller reads from. Discard takes
// the submitted ids out after a successful submission.
type AssetSource interface {
	Assets() []models.ResolvedAsset
	Discard(ids []string)
}

// Controller gates submission of one staged set. The SUBMITTING state is
// the mutex: at most one request is in flight at a time.
type Controller struct {
	mu        sync.Mutex
	source    AssetSource
	submitter Submitter
	logger    *zap.Logger
	timeout   time.Duration
	onSuccess func(*models.Booking)
	// held across the snapshot and the move to SUBMITTING
	gate sync.Locker

	state   State
	lastErr error
	epoch   uint64
	closed  bool
}

type Option func(*Controller)

func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTimeout bounds each backend call.
func WithTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithGate sets the lock that writers of the staged set hold around their
// own check and mutation. Confirm holds it while it snapshots the set and
// enters SUBMITTING, so no write can land between the two.
func WithGate(l sync.Locker) Option {
	return func(c *Controller) {
		if l != nil {
			c.gate = l
		}
	}
}

// WithOnSuccess runs fn after a submission succeeded and the submitted
// assets were discarded.
func WithOnSuccess(fn func(*models.Booking)) Option {
	return func(c *Controller) {
		c.onSuccess = fn
	}
}

func NewController(source AssetSource, submitter Submitter, opts ...Option) *Controller {
	c := &Controller{
		source:    source,
		submitter: submitter,
		logger:    zap.NewNop(),
		gate:      &sync.Mutex{},
		state:     StateIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// CanSubmit is true only in READY.
func (c *Controller) CanSubmit() bool {
	return c.State() == StateReady
}

// Submitting reports whether a request is in flight.
func (c *Controller) Submitting() bool {
	return c.State() == StateSubmitting
}

// LastError is set by a failed validation or submission and cleared by the
// next change to the staged set.
func (c *Controller) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Refresh recomputes the state after the staged set changed.
func (c *Controller) Refresh(assets []models.ResolvedAsset) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.state == StateSubmitting {
		return
	}
	c.state = deriveState(assets)
	c.lastErr = nil
}

// Confirm submits the staged set as it stands right now.
func (c *Controller) Confirm(ctx context.Context) (*models.Booking, error) {
	c.gate.Lock()
	assets := c.source.Assets()
	input := BuildPayload(assets)
	epoch, err := c.begin(assets, input)
	c.gate.Unlock()
	if err != nil {
		return nil, err
	}
	return c.dispatch(ctx, epoch, input)
}

// ConfirmPayload submits a client-built payload. It must pass the schema
// and list exactly the staged ids in order.
func (c *Controller) ConfirmPayload(ctx context.Context, input models.AddAssetsToBookingInput) (*models.Booking, error) {
	if err := ValidatePayload(input); err != nil {
		return nil, c.reject(err)
	}

	c.gate.Lock()
	assets := c.source.Assets()
	if !slices.Equal(input.AssetIDs, BuildPayload(assets).AssetIDs) {
		c.gate.Unlock()
		return nil, c.reject(ErrPayloadMismatch)
	}
	epoch, err := c.begin(assets, input)
	c.gate.Unlock()
	if err != nil {
		return nil, err
	}
	return c.dispatch(ctx, epoch, input)
}

// Invalidate tears the controller down. A response arriving afterwards is
// discarded.
func (c *Controller) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch++
	c.closed = true
}

func (c *Controller) reject(err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrSessionClosed
	}
	if c.state == StateSubmitting {
		return ErrSubmissionInFlight
	}
	c.lastErr = err
	return err
}

// begin validates the snapshot and moves to SUBMITTING. It returns the
// epoch the response must still match.
func (c *Controller) begin(assets []models.ResolvedAsset, input models.AddAssetsToBookingInput) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0, ErrSessionClosed
	}
	if c.state == StateSubmitting {
		return 0, ErrSubmissionInFlight
	}

	c.state = deriveState(assets)
	if err := availability.BlockReason(assets); err != nil {
		c.lastErr = err
		return 0, err
	}
	if err := ValidatePayload(input); err != nil {
		c.lastErr = err
		return 0, err
	}

	c.state = StateSubmitting
	c.lastErr = nil
	return c.epoch, nil
}

func (c *Controller) dispatch(ctx context.Context, epoch uint64, input models.AddAssetsToBookingInput) (*models.Booking, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	booking, err := c.submitter.AddAssets(ctx, input)
	if err == nil {
		// still SUBMITTING here, so the Refresh triggered by Discard is a no-op
		c.discardIfLive(epoch, input.AssetIDs)
	}
	// read before c.mu: the store delivers its changes under c.mu
	remaining := c.source.Assets()

	c.mu.Lock()
	if epoch != c.epoch {
		c.mu.Unlock()
		c.logger.Info("discarding submission result for closed session",
			zap.Int("assets", len(input.AssetIDs)), zap.Error(err))
		return nil, ErrSessionClosed
	}
	if err != nil {
		serr := &SubmitError{Err: err}
		c.state = deriveState(remaining)
		c.lastErr = serr
		c.mu.Unlock()
		c.logger.Warn("submission failed", zap.Int("assets", len(input.AssetIDs)), zap.Error(err))
		return nil, serr
	}
	c.mu.Unlock()

	c.logger.Info("assets added to booking", zap.Int("assets", len(input.AssetIDs)))
	// the hook runs while still SUBMITTING so a teardown it starts cannot
	// race a write to the set
	if c.onSuccess != nil {
		c.onSuccess(booking)
	}

	c.mu.Lock()
	if epoch == c.epoch {
		c.state = deriveState(remaining)
	}
	c.mu.Unlock()
	return booking, nil
}

func (c *Controller) discardIfLive(epoch uint64, ids []string) {
	c.mu.Lock()
	live := epoch == c.epoch
	c.mu.Unlock()
	if live {
		c.source.Discard(ids)
	}
}

func deriveState(assets []models.ResolvedAsset) State {
	if availability.IsBlocked(assets) {
		return StateInvalid
	}
	return StateReady
}
