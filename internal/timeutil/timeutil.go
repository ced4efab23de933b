// ABOUTME: Time helpers for the scan lookback window
// ABOUTME: Bounds article timestamps to the trailing N days with a small future allowance

package timeutil

import "time"

// FutureSkew is how far ahead of now an entry timestamp may sit before it
// is treated as bogus. Feeds occasionally publish with clocks that run a
// little fast; anything beyond this is dropped.
const FutureSkew = time.Hour

// Window is a time range [Since, Until) bounding one scan.
type Window struct {
	Since time.Time
	Until time.Time
}

// Lookback returns the scan window covering the trailing number of days,
// measured back from now.
func Lookback(now time.Time, days int) Window {
	return Window{
		Since: now.AddDate(0, 0, -days),
		Until: now.Add(FutureSkew),
	}
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Since) && t.Before(w.Until)
}
