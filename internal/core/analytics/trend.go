package analytics

import (
	"errors"
	"math"
)

var ErrTrendWindowSize = errors.New("trend analysis requires exactly 7 daily points")

const (
	TrendUp     = "up"
	TrendDown   = "down"
	TrendStable = "stable"

	// A week counts as moving only when the half-week averages differ by
	// more than this many score points.
	trendThreshold = 5.0
)

// User-facing copy shown next to the trend arrow. Fixed strings, referenced
// by the mobile and web clients.
const (
	MessageTrendUp     = "Great momentum! Your week is trending upward."
	MessageTrendDown   = "Rough patch - be kind to yourself and reset tomorrow."
	MessageTrendStable = "Steady as she goes. Consistency is its own win."
)

// TrendPoint is one day of an analyzed week. Position carries meaning:
// index 0 is the first day of the week regardless of actual dates.
type TrendPoint struct {
	Label   string  `json:"label"`
	Morning float64 `json:"morning"`
	Evening float64 `json:"evening"`
	Health  float64 `json:"health"`
	Overall float64 `json:"overall"`
}

type TrendAnalysis struct {
	CurrentWeekAvg float64 `json:"current_week_avg"`
	Trend          float64 `json:"trend"`
	Direction      string  `json:"trend_direction"`
	Message        string  `json:"message"`
}

func mean(points []TrendPoint) float64 {
	if len(points) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range points {
		sum += p.Overall
	}
	return sum / float64(len(points))
}

// AnalyzeWeek reduces exactly 7 positionally-ordered daily points to a
// single trend signal. Any other length is rejected rather than padded or
// truncated: a mis-sized window would silently mis-average.
//
// The split compares days 1-3 against days 5-7 and leaves the midweek day
// (index 3) out of both halves. That rule shipped to clients long ago and
// is kept as a compatibility constant.
func AnalyzeWeek(points []TrendPoint) (TrendAnalysis, error) {
	if len(points) != 7 {
		return TrendAnalysis{}, ErrTrendWindowSize
	}

	firstHalf := mean(points[0:3])
	secondHalf := mean(points[4:7])
	trend := secondHalf - firstHalf

	res := TrendAnalysis{
		CurrentWeekAvg: math.Round(mean(points)),
		Trend:          trend,
	}

	switch {
	case trend > trendThreshold:
		res.Direction = TrendUp
		res.Message = MessageTrendUp
	case trend < -trendThreshold:
		res.Direction = TrendDown
		res.Message = MessageTrendDown
	default:
		res.Direction = TrendStable
		res.Message = MessageTrendStable
	}

	return res, nil
}
