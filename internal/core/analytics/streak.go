// Package analytics holds the pure derivation layer: streaks, weekly trend
// classification and trading performance rollups. Nothing here touches a
// repository or clock; callers fetch records and pass them in, which keeps
// every function deterministic and trivially testable.
package analytics

import "time"

// BreakReason explains why the current streak stopped growing. A calendar
// gap and an explicit not-completed record both break a streak, but the UI
// wants to tell them apart.
type BreakReason string

const (
	BreakNone   BreakReason = ""
	BreakGap    BreakReason = "gap"
	BreakMissed BreakReason = "missed"
)

// Record is one day of habit history. Records must be ordered by date
// ascending with at most one record per day; days with no record at all
// count as incomplete.
type Record struct {
	Date      time.Time
	Completed bool
}

type StreakResult struct {
	Current  int
	Longest  int
	BrokenBy BreakReason
}

func day(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour)
}

// Streaks computes the current and longest streak over a habit's history.
// The current streak is the run of consecutive completed days ending at the
// most recent record; it is zero when that record is not completed. Empty
// input yields zeros, not an error.
func Streaks(records []Record) StreakResult {
	if len(records) == 0 {
		return StreakResult{}
	}

	last := records[len(records)-1]
	res := StreakResult{}

	if last.Completed {
		res.Current = 1
		for i := len(records) - 2; i >= 0; i-- {
			gap := day(records[i+1].Date).Sub(day(records[i].Date))
			if gap != 24*time.Hour {
				res.BrokenBy = BreakGap
				break
			}
			if !records[i].Completed {
				res.BrokenBy = BreakMissed
				break
			}
			res.Current++
		}
	} else {
		res.BrokenBy = BreakMissed
	}

	run := 0
	var prev time.Time
	for _, r := range records {
		d := day(r.Date)
		switch {
		case !r.Completed:
			run = 0
		case run > 0 && d.Sub(prev) == 24*time.Hour:
			run++
		default:
			run = 1
		}
		prev = d
		if run > res.Longest {
			res.Longest = run
		}
	}

	return res
}

// CompletionRate returns the percentage of calendar days in [from, to] that
// have a completed record. Days without a record count as incomplete, so the
// denominator is the window length, not the record count. An empty or
// inverted window yields 0.
func CompletionRate(records []Record, from, to time.Time) float64 {
	from, to = day(from), day(to)
	if to.Before(from) {
		return 0
	}

	totalDays := int(to.Sub(from).Hours()/24) + 1
	if totalDays <= 0 {
		return 0
	}

	completed := 0
	for _, r := range records {
		d := day(r.Date)
		if r.Completed && !d.Before(from) && !d.After(to) {
			completed++
		}
	}

	return float64(completed) / float64(totalDays) * 100
}
