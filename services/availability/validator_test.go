package availability

import (
	"fmt"
	"testing"

	"assetscan/models"
)

var allStatuses = []models.AssetStatus{
	models.AssetStatusAvailable,
	models.AssetStatusCheckedOut,
	models.AssetStatusInCustody,
}

func TestIsBlocked_Empty(t *testing.T) {
	t.Parallel()

	if !IsBlocked(nil) {
		t.Fatalf("expected empty set to be blocked")
	}
	if err := BlockReason(nil); err != ErrNoAssets {
		t.Fatalf("expected ErrNoAssets, got %v", err)
	}
}

// Every status combination for sets of one to three assets.
func TestIsBlocked_AllCombinations(t *testing.T) {
	t.Parallel()

	for size := 1; size <= 3; size++ {
		for _, combo := range combinations(size) {
			assets := make([]models.ResolvedAsset, len(combo))
			want := false
			for i, st := range combo {
				assets[i] = models.ResolvedAsset{ID: fmt.Sprintf("asset-%d", i), Status: st}
				if st == models.AssetStatusCheckedOut || st == models.AssetStatusInCustody {
					want = true
				}
			}

			if got := IsBlocked(assets); got != want {
				t.Fatalf("statuses %v: expected blocked=%v, got %v", combo, want, got)
			}
			err := BlockReason(assets)
			if want && err != ErrBlockedAssets {
				t.Fatalf("statuses %v: expected ErrBlockedAssets, got %v", combo, err)
			}
			if !want && err != nil {
				t.Fatalf("statuses %v: expected no block reason, got %v", combo, err)
			}
		}
	}
}

func TestIsBlocked_UnknownStatusDoesNotBlock(t *testing.T) {
	t.Parallel()

	assets := []models.ResolvedAsset{{ID: "a1", Status: models.AssetStatus("IN_MAINTENANCE")}}
	if IsBlocked(assets) {
		t.Fatalf("expected unknown status to pass")
	}
}

func TestMembershipFlags(t *testing.T) {
	t.Parallel()

	snapshot := models.BookingSnapshot{
		BookingID: "booking-1",
		Assets: []models.BookingAsset{
			{ID: "a1"},
			{ID: "a2", KitID: "kit-1"},
		},
	}

	tests := []struct {
		name  string
		asset models.ResolvedAsset
		want  Membership
	}{
		{
			name:  "not in booking",
			asset: models.ResolvedAsset{ID: "a9"},
			want:  Membership{},
		},
		{
			name:  "not in booking with kit",
			asset: models.ResolvedAsset{ID: "a9", KitID: "kit-1"},
			want:  Membership{},
		},
		{
			name:  "already added individually",
			asset: models.ResolvedAsset{ID: "a1"},
			want:  Membership{AlreadyInBooking: true},
		},
		{
			name:  "already added through kit",
			asset: models.ResolvedAsset{ID: "a2", KitID: "kit-1"},
			want:  Membership{AlreadyInBooking: true, AddedThroughKit: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MembershipFlags(tt.asset, snapshot); got != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestEvaluate(t *testing.T) {
	t.Parallel()

	snapshot := models.BookingSnapshot{Assets: []models.BookingAsset{{ID: "a1"}}}
	assets := []models.ResolvedAsset{
		{ID: "a1", Status: models.AssetStatusAvailable},
		{ID: "a2", Status: models.AssetStatusCheckedOut},
	}

	flags := Evaluate(assets, snapshot)
	if flags.Count != 2 {
		t.Fatalf("expected count 2, got %d", flags.Count)
	}
	if !flags.HasBlockedAsset || !flags.Blocked {
		t.Fatalf("expected blocked flags, got %+v", flags)
	}
	if !flags.Membership["a1"].AlreadyInBooking {
		t.Fatalf("expected a1 already in booking")
	}
	if flags.Membership["a2"].AlreadyInBooking {
		t.Fatalf("expected a2 not in booking")
	}

	// already-attached assets never block on their own
	flags = Evaluate(assets[:1], snapshot)
	if flags.Blocked {
		t.Fatalf("expected re-confirming an attached asset to be allowed")
	}
}

func combinations(size int) [][]models.AssetStatus {
	if size == 0 {
		return [][]models.AssetStatus{{}}
	}
	var out [][]models.AssetStatus
	for _, rest := range combinations(size - 1) {
		for _, st := range allStatuses {
			combo := append(append([]models.AssetStatus{}, rest...), st)
			out = append(out, combo)
		}
	}
	return out
}
