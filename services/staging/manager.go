package staging

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"assetscan/models"
	"assetscan/services/scan"
	"assetscan/services/submission"
	"assetscan/utils"

	"go.uber.org/zap"
)

var ErrSessionNotFound = errors.New("scan session not found")

// BookingStore is the booking backend: the snapshot read at open and the
// add-assets mutation used on confirm.
type BookingStore interface {
	GetSnapshot(ctx context.Context, bookingID string) (models.BookingSnapshot, error)
	AddAssets(ctx context.Context, bookingID string, assetIDs []string) (*models.Booking, error)
}

// Manager owns the live sessions of this process.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	bookings      BookingStore
	resolver      scan.Resolver
	clock         utils.Clock
	logger        *zap.Logger
	idleTTL       time.Duration
	submitTimeout time.Duration
}

type ManagerOption func(*Manager)

func WithClock(clk utils.Clock) ManagerOption {
	return func(m *Manager) {
		if clk != nil {
			m.clock = clk
		}
	}
}

func WithLogger(logger *zap.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithIdleTTL sets how long an untouched session survives a Sweep.
func WithIdleTTL(d time.Duration) ManagerOption {
	return func(m *Manager) {
		if d > 0 {
			m.idleTTL = d
		}
	}
}

func WithSubmitTimeout(d time.Duration) ManagerOption {
	return func(m *Manager) {
		if d > 0 {
			m.submitTimeout = d
		}
	}
}

const defaultIdleTTL = 30 * time.Minute

func NewManager(bookings BookingStore, resolver scan.Resolver, opts ...ManagerOption) *Manager {
	m := &Manager{
		sessions: make(map[string]*Session),
		bookings: bookings,
		resolver: resolver,
		clock:    utils.NewSystemClock(),
		logger:   zap.NewNop(),
		idleTTL:  defaultIdleTTL,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Open starts a session for bookingID with the booking's current assets.
func (m *Manager) Open(ctx context.Context, bookingID string) (*Session, error) {
	snapshot, err := m.bookings.GetSnapshot(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking %s: %w", bookingID, err)
	}

	s := NewSession(SessionParams{
		BookingID: bookingID,
		Snapshot:  snapshot,
		Resolver:  m.resolver,
		Submitter: submission.SubmitterFunc(func(ctx context.Context, input models.AddAssetsToBookingInput) (*models.Booking, error) {
			return m.bookings.AddAssets(ctx, bookingID, input.AssetIDs)
		}),
		Clock:         m.clock,
		Logger:        m.logger,
		SubmitTimeout: m.submitTimeout,
		OnSubmitted: func(s *Session, _ *models.Booking) {
			m.Close(s.ID)
		},
	})

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.logger.Info("scan session opened",
		zap.String("sessionID", s.ID), zap.String("bookingID", bookingID),
		zap.Int("bookingAssets", len(snapshot.Assets)))
	return s, nil
}

func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Close ends and forgets the session. Closing an unknown id is a no-op.
func (m *Manager) Close(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok {
		s.Close()
	}
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep closes sessions idle for longer than the idle TTL. Sessions with a
// submission in flight are left alone.
func (m *Manager) Sweep(now time.Time) int {
	m.mu.RLock()
	var stale []string
	for id, s := range m.sessions {
		if s.controller.Submitting() {
			continue
		}
		if now.Sub(s.IdleSince()) > m.idleTTL {
			stale = append(stale, id)
		}
	}
	m.mu.RUnlock()

	for _, id := range stale {
		m.Close(id)
	}
	if len(stale) > 0 {
		m.logger.Info("swept idle scan sessions", zap.Int("count", len(stale)))
	}
	return len(stale)
}

// StartSweeper runs Sweep on every tick until ctx is done.
func (m *Manager) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.Sweep(m.clock.Now())
			}
		}
	}()
}

// CloseAll ends every session, used on shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()
	for _, s := range sessions {
		s.Close()
	}
}
