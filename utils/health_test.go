package utils

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCheckHealth(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	status := CheckHealth(context.Background(), ok, down, now)
	if !status.Mongo || status.Redis {
		t.Fatalf("expected mongo up and redis down, got %+v", status)
	}
	if status.Healthy() {
		t.Fatalf("expected unhealthy status")
	}
	if got := GetHealthStatus(); got != status {
		t.Fatalf("expected stored status %+v, got %+v", status, got)
	}

	status = CheckHealth(context.Background(), ok, ok, now)
	if !status.Healthy() {
		t.Fatalf("expected healthy status, got %+v", status)
	}
}
