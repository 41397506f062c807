package staging

import (
	"context"
	"errors"
	"testing"
	"time"

	"assetscan/utils"
)

func TestManager_Open(t *testing.T) {
	t.Parallel()

	m := NewManager(newFakeBookings(), catalogResolver)

	if _, err := m.Open(context.Background(), "missing"); err == nil {
		t.Fatalf("expected error for unknown booking")
	}
	if m.Len() != 0 {
		t.Fatalf("expected no session registered on failure")
	}

	s, err := m.Open(context.Background(), "booking-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if s.ID == "" || s.BookingID != "booking-1" {
		t.Fatalf("unexpected session %s/%s", s.ID, s.BookingID)
	}
	if len(s.Snapshot().Assets) != 2 {
		t.Fatalf("expected booking snapshot loaded at open")
	}
	got, err := m.Get(s.ID)
	if err != nil || got != s {
		t.Fatalf("expected to fetch opened session, got %v", err)
	}

	other, _ := m.Open(context.Background(), "booking-1")
	if other.ID == s.ID {
		t.Fatalf("expected independent sessions")
	}
	mustScan(t, s, "qr-a1")
	if other.Store().Count() != 0 {
		t.Fatalf("expected sessions not to share staged assets")
	}
}

func TestManager_CloseUnknownIsNoop(t *testing.T) {
	t.Parallel()

	m := NewManager(newFakeBookings(), catalogResolver)
	m.Close("nope")

	if _, err := m.Get("nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestManager_Sweep(t *testing.T) {
	t.Parallel()

	m := NewManager(newFakeBookings(), catalogResolver,
		WithClock(utils.NewManualClock(testNow)), WithIdleTTL(10*time.Minute))

	s, err := m.Open(context.Background(), "booking-1")
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if n := m.Sweep(testNow.Add(5 * time.Minute)); n != 0 {
		t.Fatalf("expected fresh session kept, swept %d", n)
	}
	if n := m.Sweep(testNow.Add(11 * time.Minute)); n != 1 {
		t.Fatalf("expected idle session swept, swept %d", n)
	}
	if !s.Closed() {
		t.Fatalf("expected swept session closed")
	}
	if m.Len() != 0 {
		t.Fatalf("expected no live sessions, got %d", m.Len())
	}
}

func TestManager_SweepSparesRecentlyTouched(t *testing.T) {
	t.Parallel()

	clk := utils.NewManualClock(testNow)
	m := NewManager(newFakeBookings(), catalogResolver, WithClock(clk), WithIdleTTL(10*time.Minute))
	idle, _ := m.Open(context.Background(), "booking-1")
	busy, _ := m.Open(context.Background(), "booking-1")

	clk.Advance(8 * time.Minute)
	mustScan(t, busy, "qr-a1")

	if n := m.Sweep(clk.Advance(4 * time.Minute)); n != 1 {
		t.Fatalf("expected only the idle session swept, swept %d", n)
	}
	if !idle.Closed() || busy.Closed() {
		t.Fatalf("expected idle closed and busy kept, got idle=%v busy=%v", idle.Closed(), busy.Closed())
	}
	if got := busy.IdleSince(); !got.Equal(testNow.Add(8 * time.Minute)) {
		t.Fatalf("expected last activity at the scan, got %v", got)
	}
}

func TestManager_CloseAll(t *testing.T) {
	t.Parallel()

	m := NewManager(newFakeBookings(), catalogResolver)
	a, _ := m.Open(context.Background(), "booking-1")
	b, _ := m.Open(context.Background(), "booking-1")

	m.CloseAll()
	if m.Len() != 0 || !a.Closed() || !b.Closed() {
		t.Fatalf("expected every session closed")
	}
}
