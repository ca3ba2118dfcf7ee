package repository

import (
	"testing"
	"time"
)

func at(hour, min int) time.Time {
	return time.Date(2026, 9, 1, hour, min, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name           string
		s1, e1, s2, e2 time.Time
		want           bool
	}{
		{
			name: "show starting mid-way through another conflicts",
			s1:   at(18, 0), e1: at(20, 0),
			s2: at(19, 0), e2: at(20, 30),
			want: true,
		},
		{
			name: "show starting exactly at the other's end does not conflict",
			s1:   at(18, 0), e1: at(20, 0),
			s2: at(20, 0), e2: at(22, 0),
			want: false,
		},
		{
			name: "show ending exactly at the other's start does not conflict",
			s1:   at(18, 0), e1: at(20, 0),
			s2: at(16, 0), e2: at(18, 0),
			want: false,
		},
		{
			name: "fully contained show conflicts",
			s1:   at(18, 0), e1: at(22, 0),
			s2: at(19, 0), e2: at(20, 0),
			want: true,
		},
		{
			name: "containing show conflicts",
			s1:   at(19, 0), e1: at(20, 0),
			s2: at(18, 0), e2: at(22, 0),
			want: true,
		},
		{
			name: "disjoint shows do not conflict",
			s1:   at(10, 0), e1: at(12, 0),
			s2: at(14, 0), e2: at(16, 0),
			want: false,
		},
		{
			name: "identical intervals conflict",
			s1:   at(18, 0), e1: at(20, 0),
			s2: at(18, 0), e2: at(20, 0),
			want: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.s1, tt.e1, tt.s2, tt.e2); got != tt.want {
				t.Errorf("Overlaps(%v, %v, %v, %v) = %v, want %v", tt.s1, tt.e1, tt.s2, tt.e2, got, tt.want)
			}
			// Overlap is symmetric.
			if got := Overlaps(tt.s2, tt.e2, tt.s1, tt.e1); got != tt.want {
				t.Errorf("Overlaps is not symmetric for %s", tt.name)
			}
		})
	}
}

func TestShowWindow(t *testing.T) {
	start := at(18, 0)

	t.Run("zero buffer", func(t *testing.T) {
		s, e := ShowWindow(start, 120, 0)
		if !s.Equal(start) {
			t.Errorf("start = %v, want %v", s, start)
		}
		if want := at(20, 0); !e.Equal(want) {
			t.Errorf("end = %v, want %v", e, want)
		}
	})

	t.Run("buffer extends the occupied window", func(t *testing.T) {
		_, e := ShowWindow(start, 120, 15)
		if want := at(20, 15); !e.Equal(want) {
			t.Errorf("end = %v, want %v", e, want)
		}
	})

	t.Run("back to back shows with buffer conflict", func(t *testing.T) {
		s1, e1 := ShowWindow(at(18, 0), 120, 15)
		s2, e2 := ShowWindow(at(20, 0), 90, 15)
		if !Overlaps(s1, e1, s2, e2) {
			t.Error("expected 20:00 start to conflict with 18:00+120min show under a 15min buffer")
		}
	})
}

func TestDBTimeRoundTrip(t *testing.T) {
	orig := time.Date(2026, 9, 1, 18, 30, 0, 0, time.UTC)
	s := FormatDBTime(orig)
	if s != "2026-09-01 18:30:00" {
		t.Fatalf("FormatDBTime = %q", s)
	}
	back, err := ParseDBTime(s)
	if err != nil {
		t.Fatalf("ParseDBTime: %v", err)
	}
	if !back.Equal(orig) {
		t.Errorf("round trip = %v, want %v", back, orig)
	}
}

func TestParseDBTimeRejectsGarbage(t *testing.T) {
	if _, err := ParseDBTime("not a time"); err == nil {
		t.Error("expected error for malformed timestamp")
	}
}
