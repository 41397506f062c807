package utils

import (
	"testing"
	"time"
)

func TestSystemClockStampsAtBSONPrecision(t *testing.T) {
	t.Parallel()

	now := NewSystemClock().Now()
	if now.Location() != time.UTC {
		t.Fatalf("expected UTC, got %v", now.Location())
	}
	if now.Nanosecond()%int(time.Millisecond) != 0 {
		t.Fatalf("expected millisecond precision, got %v", now)
	}
}

func TestManualClock(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 1, 1, 12, 0, 0, 1500, time.FixedZone("EAT", 3*3600))
	clk := NewManualClock(start)

	if got := clk.Now(); !got.Equal(start.Truncate(time.Millisecond)) || got.Location() != time.UTC {
		t.Fatalf("expected truncated UTC start, got %v", got)
	}
	if got := clk.Advance(90 * time.Second); !got.Equal(clk.Now()) {
		t.Fatalf("expected Advance to return the new time")
	}
	if d := clk.Now().Sub(start.Truncate(time.Millisecond)); d != 90*time.Second {
		t.Fatalf("expected clock advanced 90s, got %v", d)
	}
}
