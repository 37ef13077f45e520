package models

import "time"

// PricePoint is one observation in a historical price series, as returned
// by the provider's history_price endpoint.
type PricePoint struct {
	UnixTime int64   `json:"unixTime"`
	Value    float64 `json:"value"`
}

func (p PricePoint) Time() time.Time {
	return time.Unix(p.UnixTime, 0).UTC()
}

// PriceStats holds the descriptive statistics computed over one price series.
type PriceStats struct {
	Points        int       `json:"points"`
	Min           float64   `json:"min"`
	Max           float64   `json:"max"`
	Mean          float64   `json:"mean"`
	First         float64   `json:"first"`
	Last          float64   `json:"last"`
	Change        float64   `json:"change"`
	PercentChange float64   `json:"percentChange"`
	Volatility    float64   `json:"volatility"`
	FirstTime     time.Time `json:"firstTime"`
	LastTime      time.Time `json:"lastTime"`
}
