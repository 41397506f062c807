package notification

import (
	"testing"
	"time"

	"assetscan/utils"
)

func TestChannel(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("poll on empty channel", func(t *testing.T) {
		ch := NewChannel(utils.NewManualClock(now))
		if _, ok := ch.Poll(); ok {
			t.Fatalf("expected no pending notification")
		}
	})

	t.Run("delivers once", func(t *testing.T) {
		ch := NewChannel(utils.NewManualClock(now))
		ch.Notify("Asset was removed from list")

		n, ok := ch.Poll()
		if !ok {
			t.Fatalf("expected pending notification")
		}
		if n.Message != "Asset was removed from list" {
			t.Fatalf("unexpected message %q", n.Message)
		}
		if !n.CreatedAt.Equal(now) {
			t.Fatalf("expected created_at %v, got %v", now, n.CreatedAt)
		}
		if n.ID == "" {
			t.Fatalf("expected notification id to be set")
		}
		if _, ok := ch.Poll(); ok {
			t.Fatalf("expected single delivery")
		}
	})

	t.Run("newer message supersedes pending one", func(t *testing.T) {
		ch := NewChannel(utils.NewManualClock(now))
		ch.Notify("first")
		ch.Notify("second")

		n, ok := ch.Poll()
		if !ok || n.Message != "second" {
			t.Fatalf("expected second message, got %q (ok=%v)", n.Message, ok)
		}
		if _, ok := ch.Poll(); ok {
			t.Fatalf("expected first message to be dropped")
		}
	})

	t.Run("receive side", func(t *testing.T) {
		ch := NewChannel(utils.NewManualClock(now))
		ch.Notify("hello")
		select {
		case n := <-ch.C():
			if n.Message != "hello" {
				t.Fatalf("unexpected message %q", n.Message)
			}
		default:
			t.Fatalf("expected message on channel")
		}
	})

	t.Run("close drops pending and ignores later", func(t *testing.T) {
		ch := NewChannel(utils.NewManualClock(now))
		ch.Notify("pending")
		ch.Close()
		ch.Notify("late")
		if _, ok := ch.Poll(); ok {
			t.Fatalf("expected closed channel to hold nothing")
		}
	})
}
