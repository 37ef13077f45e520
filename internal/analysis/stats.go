package analysis

import (
	"errors"

	"github.com/tgaskin/birdwatch-backend/internal/models"
)

// ErrEmptySeries is returned when there are no points to summarize.
var ErrEmptySeries = errors.New("price series is empty")

// Summarize computes descriptive statistics over a price series in one pass.
// Percent change is measured from the first to the last point; volatility is
// the full price range as a percentage of the mean.
func Summarize(points []models.PricePoint) (*models.PriceStats, error) {
	if len(points) == 0 {
		return nil, ErrEmptySeries
	}

	first := points[0]
	last := points[len(points)-1]

	min := first.Value
	max := first.Value
	var sum float64

	for _, p := range points {
		if p.Value < min {
			min = p.Value
		}
		if p.Value > max {
			max = p.Value
		}
		sum += p.Value
	}

	mean := sum / float64(len(points))
	change := last.Value - first.Value

	var percentChange float64
	if first.Value != 0 {
		percentChange = change / first.Value * 100
	}

	var volatility float64
	if mean != 0 {
		volatility = (max - min) / mean * 100
	}

	return &models.PriceStats{
		Points:        len(points),
		Min:           min,
		Max:           max,
		Mean:          mean,
		First:         first.Value,
		Last:          last.Value,
		Change:        change,
		PercentChange: percentChange,
		Volatility:    volatility,
		FirstTime:     first.Time(),
		LastTime:      last.Time(),
	}, nil
}

type Trend string

const (
	StronglyBullish Trend = "strongly bullish"
	SlightlyBullish Trend = "slightly bullish"
	SlightlyBearish Trend = "slightly bearish"
	StronglyBearish Trend = "strongly bearish"
)

// ClassifyTrend buckets a percent change into a market trend.
func ClassifyTrend(percentChange float64) Trend {
	switch {
	case percentChange > 5:
		return StronglyBullish
	case percentChange > 0:
		return SlightlyBullish
	case percentChange > -5:
		return SlightlyBearish
	default:
		return StronglyBearish
	}
}

type VolatilityLevel string

const (
	HighVolatility     VolatilityLevel = "high"
	ModerateVolatility VolatilityLevel = "moderate"
	LowVolatility      VolatilityLevel = "low"
)

// ClassifyVolatility buckets a range-over-mean percentage.
func ClassifyVolatility(volatility float64) VolatilityLevel {
	switch {
	case volatility > 10:
		return HighVolatility
	case volatility > 5:
		return ModerateVolatility
	default:
		return LowVolatility
	}
}
