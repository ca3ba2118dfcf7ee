package sweeper

import (
	"testing"
	"time"

	"github.com/iliyamo/cinema-ticketing/internal/repository"
)

func TestCutoffDecision(t *testing.T) {
	created := time.Date(2026, 9, 1, 16, 0, 0, 0, time.UTC)
	s := New(nil, 15*time.Minute, time.Minute)
	tests := []struct {
		name string
		now  time.Time
		due  bool
	}{
		{"inside the payment window", created.Add(14 * time.Minute), false},
		{"exactly at the deadline", created.Add(15 * time.Minute), true},
		{"well past the deadline", created.Add(20 * time.Minute), true},
		{"just created", created, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cutoff := s.cutoff(tt.now)
			// Mirrors the sweep's created_at <= cutoff comparison on
			// DB-format strings.
			due := repository.FormatDBTime(created) <= repository.FormatDBTime(cutoff)
			if due != tt.due {
				t.Errorf("now=%v cutoff=%v due=%v, want %v", tt.now, cutoff, due, tt.due)
			}
		})
	}
}

func TestCutoffNormalizesToUTC(t *testing.T) {
	warsaw := time.FixedZone("CEST", 2*60*60)
	s := New(nil, 10*time.Minute, time.Minute)
	now := time.Date(2026, 9, 1, 18, 0, 0, 0, warsaw)
	got := s.cutoff(now)
	want := time.Date(2026, 9, 1, 15, 50, 0, 0, time.UTC)
	if !got.Equal(want) || got.Location() != time.UTC {
		t.Errorf("cutoff(%v) = %v, want %v in UTC", now, got, want)
	}
}
