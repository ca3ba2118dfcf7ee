package repository

import (
	"testing"
	"time"
)

func TestPrefilterWindowMin(t *testing.T) {
	tests := []struct {
		name       string
		floor      uint32
		maxRuntime uint32
		buffer     uint32
		want       uint32
	}{
		{"floor covers short movies", 360, 90, 15, 360},
		{"long movie widens the window", 360, 400, 0, 400},
		{"long movie plus buffer", 360, 400, 15, 415},
		{"empty catalog keeps the floor", 360, 0, 0, 360},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := prefilterWindowMin(tt.floor, tt.maxRuntime, tt.buffer); got != tt.want {
				t.Errorf("prefilterWindowMin(%d, %d, %d) = %d, want %d",
					tt.floor, tt.maxRuntime, tt.buffer, got, tt.want)
			}
		})
	}
}

// A movie longer than the window floor must still land inside the
// overlap scan: a 400-minute screening starting at 09:59 runs past a
// 16:00 proposal, so the scan's lower bound has to reach back before
// 09:59 or the conflicting show is never examined.
func TestPrefilterWindowCoversLongRuntimes(t *testing.T) {
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	exStart, exEnd := ShowWindow(day.Add(9*time.Hour+59*time.Minute), 400, 0)
	newStart, newEnd := ShowWindow(day.Add(16*time.Hour), 90, 0)

	if !Overlaps(newStart, newEnd, exStart, exEnd) {
		t.Fatal("expected the 09:59 screening to overlap the 16:00 proposal")
	}

	window := prefilterWindowMin(360, 400, 0)
	lo := newStart.Add(-time.Duration(window) * time.Minute)
	if exStart.Before(lo) {
		t.Errorf("scan lower bound %v excludes the overlapping show starting %v", lo, exStart)
	}

	// The bare floor alone would have started the scan at 10:00 and
	// missed it.
	loFloor := newStart.Add(-360 * time.Minute)
	if !exStart.Before(loFloor) {
		t.Errorf("expected %v to fall before the unwidened bound %v", exStart, loFloor)
	}
}
