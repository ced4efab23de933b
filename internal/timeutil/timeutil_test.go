// ABOUTME: Tests for lookback window calculations
// ABOUTME: Verifies window bounds and membership including the future allowance

package timeutil

import (
	"testing"
	"time"
)

func TestLookback(t *testing.T) {
	now := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	w := Lookback(now, 7)

	expectedSince := time.Date(2026, 8, 16, 12, 0, 0, 0, time.UTC)
	if !w.Since.Equal(expectedSince) {
		t.Errorf("Lookback(7).Since = %v, expected %v", w.Since, expectedSince)
	}

	if !w.Until.Equal(now.Add(FutureSkew)) {
		t.Errorf("Lookback(7).Until = %v, expected %v", w.Until, now.Add(FutureSkew))
	}
}

func TestWindowContains(t *testing.T) {
	now := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	w := Lookback(now, 7)

	tests := []struct {
		name string
		t    time.Time
		want bool
	}{
		{"inside window", now.AddDate(0, 0, -3), true},
		{"exactly at since", w.Since, true},
		{"just before since", w.Since.Add(-time.Second), false},
		{"now", now, true},
		{"slightly future within skew", now.Add(30 * time.Minute), true},
		{"far future", now.Add(48 * time.Hour), false},
		{"well before window", now.AddDate(0, 0, -30), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := w.Contains(tc.t); got != tc.want {
				t.Errorf("Contains(%v) = %v, expected %v", tc.t, got, tc.want)
			}
		})
	}
}
