package staging

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"assetscan/models"
	"assetscan/services/availability"
	"assetscan/services/notification"
	"assetscan/services/scan"
	"assetscan/services/submission"
	"assetscan/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionParams wires a Session to its collaborators.
type SessionParams struct {
	BookingID     string
	Snapshot      models.BookingSnapshot
	Resolver      scan.Resolver
	Submitter     submission.Submitter
	Clock         utils.Clock
	Logger        *zap.Logger
	SubmitTimeout time.Duration
	// OnSubmitted runs after a successful submission discarded the submitted assets.
	OnSubmitted func(*Session, *models.Booking)
}

// Session is one operator's staging session against one booking. It owns
// the staged set, its notification channel and its submission controller.
type Session struct {
	ID        string
	BookingID string

	snapshot   models.BookingSnapshot
	store      *Store
	channel    *notification.Channel
	controller *submission.Controller
	resolver   scan.Resolver
	clock      utils.Clock
	logger     *zap.Logger
	openedAt   time.Time

	// scans are applied one at a time in arrival order
	scanMu sync.Mutex
	// held by every write to the staged set from the guard check through
	// the mutation; the controller holds it from snapshot to SUBMITTING
	writeMu sync.Mutex

	mu          sync.Mutex
	lastTouched time.Time
	closed      bool
}

func NewSession(p SessionParams) *Session {
	clk := p.Clock
	if clk == nil {
		clk = utils.NewSystemClock()
	}
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	now := clk.Now()
	s := &Session{
		ID:          uuid.New().String(),
		BookingID:   p.BookingID,
		snapshot:    p.Snapshot,
		channel:     notification.NewChannel(clk),
		resolver:    p.Resolver,
		clock:       clk,
		openedAt:    now,
		lastTouched: now,
	}
	s.logger = logger.With(zap.String("sessionID", s.ID), zap.String("bookingID", p.BookingID))
	s.store = NewStore(s.channel)

	opts := []submission.Option{
		submission.WithLogger(s.logger),
		submission.WithTimeout(p.SubmitTimeout),
		submission.WithGate(&s.writeMu),
	}
	if p.OnSubmitted != nil {
		opts = append(opts, submission.WithOnSuccess(func(b *models.Booking) { p.OnSubmitted(s, b) }))
	}
	s.controller = submission.NewController(s.store, p.Submitter, opts...)
	s.store.Subscribe(func(c Change) { s.controller.Refresh(c.Assets) })
	return s
}

func (s *Session) Store() *Store { return s.store }

func (s *Session) Notifications() notification.Source { return s.channel }

func (s *Session) Controller() *submission.Controller { return s.controller }

func (s *Session) Snapshot() models.BookingSnapshot { return s.snapshot }

// Scan resolves code and stages every asset it yields. An unknown code is
// reported on the notification channel and is not an error.
func (s *Session) Scan(ctx context.Context, code string) ([]models.ResolvedAsset, error) {
	s.scanMu.Lock()
	defer s.scanMu.Unlock()

	if err := s.guard(); err != nil {
		return nil, err
	}

	code = scan.NormalizeCode(code)
	if code == "" {
		s.channel.Notify("Scanned code is empty")
		return nil, nil
	}

	assets, err := s.resolver.Resolve(ctx, code)
	if errors.Is(err, scan.ErrCodeNotFound) {
		s.logger.Debug("scanned code not found", zap.String("code", code))
		s.channel.Notify(fmt.Sprintf("No asset found for code %q", code))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve scanned code: %w", err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	// the lookup may have outlived the session or raced a confirm
	if err := s.guard(); err != nil {
		return nil, err
	}

	added := make([]models.ResolvedAsset, 0, len(assets))
	for _, a := range assets {
		if s.store.Add(a) {
			added = append(added, a)
		}
	}
	return added, nil
}

// Add stages an already resolved asset.
func (s *Session) Add(asset models.ResolvedAsset) (bool, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.guard(); err != nil {
		return false, err
	}
	return s.store.Add(asset), nil
}

func (s *Session) Remove(id string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.guard(); err != nil {
		return err
	}
	s.store.Remove(id)
	return nil
}

func (s *Session) Clear() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.guard(); err != nil {
		return err
	}
	s.store.Clear()
	return nil
}

// Confirm submits the staged set.
func (s *Session) Confirm(ctx context.Context) (*models.Booking, error) {
	s.touch()
	return s.controller.Confirm(ctx)
}

// ConfirmPayload submits a client-built payload after validating it
// against the staged set.
func (s *Session) ConfirmPayload(ctx context.Context, input models.AddAssetsToBookingInput) (*models.Booking, error) {
	s.touch()
	return s.controller.ConfirmPayload(ctx, input)
}

// View renders the session for the operator panel.
func (s *Session) View() models.ScanSessionView {
	assets := s.store.Assets()
	flags := availability.Evaluate(assets, s.snapshot)

	views := make([]models.StagedAssetView, len(assets))
	for i, a := range assets {
		m := flags.Membership[a.ID]
		views[i] = models.StagedAssetView{
			ResolvedAsset:    a,
			AlreadyInBooking: m.AlreadyInBooking,
			AddedThroughKit:  m.AddedThroughKit,
			Blocked:          availability.IsBlockedStatus(a.Status),
		}
	}

	view := models.ScanSessionView{
		SessionID:  s.ID,
		BookingID:  s.BookingID,
		Assets:     views,
		Count:      flags.Count,
		HasBlocked: flags.HasBlockedAsset,
		State:      string(s.controller.State()),
		OpenedAt:   s.openedAt,
	}
	view.CanSubmit = view.State == string(submission.StateReady)
	if err := s.controller.LastError(); err != nil {
		view.Error = err.Error()
	}

	s.mu.Lock()
	view.LastTouchedAt = s.lastTouched
	s.mu.Unlock()
	return view
}

// Close ends the session. A response still in flight is discarded.
func (s *Session) Close() {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.controller.Invalidate()
	s.store.Clear()
	s.channel.Close()
	s.logger.Debug("scan session closed")
}

func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// IdleSince reports the last operator activity.
func (s *Session) IdleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastTouched
}

// guard rejects mutations on a closed session or while submitting, and
// records activity otherwise.
func (s *Session) guard() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return submission.ErrSessionClosed
	}
	if s.controller.Submitting() {
		return submission.ErrSubmissionInFlight
	}
	s.lastTouched = s.clock.Now()
	return nil
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastTouched = s.clock.Now()
	s.mu.Unlock()
}
