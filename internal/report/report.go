// Package report renders fetched market data for the terminal. The rendered
// string is the command's primary output, so formatting lives here rather
// than inline in the commands.
package report

import (
	"fmt"
	"strings"

	"github.com/tgaskin/birdwatch-backend/internal/analysis"
	"github.com/tgaskin/birdwatch-backend/internal/models"
)

const timeLayout = "2006-01-02 15:04:05"

// PriceSummary renders the statistics for one token's price series.
func PriceSummary(name string, stats *models.PriceStats) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Price Analysis Summary\n")
	fmt.Fprintf(&b, "Token: %s\n", name)
	fmt.Fprintf(&b, "Time Period: %s to %s (UTC)\n",
		stats.FirstTime.Format(timeLayout), stats.LastTime.Format(timeLayout))
	fmt.Fprintf(&b, "Data Points: %d\n", stats.Points)
	b.WriteString("\n")

	fmt.Fprintf(&b, "Starting Price: %s\n", formatPrice(stats.First))
	fmt.Fprintf(&b, "Current Price:  %s\n", formatPrice(stats.Last))
	fmt.Fprintf(&b, "Highest Price:  %s\n", formatPrice(stats.Max))
	fmt.Fprintf(&b, "Lowest Price:   %s\n", formatPrice(stats.Min))
	fmt.Fprintf(&b, "Average Price:  %s\n", formatPrice(stats.Mean))
	b.WriteString("\n")

	fmt.Fprintf(&b, "Total Change: %+.4f (%+.2f%%)\n", stats.Change, stats.PercentChange)
	fmt.Fprintf(&b, "Market Trend: %s\n", analysis.ClassifyTrend(stats.PercentChange))
	fmt.Fprintf(&b, "Volatility: %.1f%% (%s)\n",
		stats.Volatility, volatilityNote(analysis.ClassifyVolatility(stats.Volatility)))

	return b.String()
}

func volatilityNote(level analysis.VolatilityLevel) string {
	switch level {
	case analysis.HighVolatility:
		return "high — significant price swings"
	case analysis.ModerateVolatility:
		return "moderate — normal market conditions"
	default:
		return "low — stable price movement"
	}
}

// TokenTable renders one line per token with the fields a ranking scan cares
// about.
func TokenTable(tokens []models.Token) string {
	if len(tokens) == 0 {
		return "No tokens returned.\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-12s %14s %10s %12s %12s\n", "SYMBOL", "PRICE", "24H CHG", "24H VOLUME", "MARKET CAP")
	for _, t := range tokens {
		symbol := t.Symbol
		if symbol == "" {
			symbol = "?"
		}
		fmt.Fprintf(&b, "%-12s %14s %9.2f%% %12s %12s\n",
			symbol,
			formatPrice(t.Price),
			t.Change24hPercent,
			formatValue(t.Volume24hUSD),
			formatValue(t.MarketCap))
	}
	return b.String()
}

func formatPrice(price float64) string {
	if price == 0 {
		return "N/A"
	}
	if price < 0.01 {
		return fmt.Sprintf("$%.8f", price)
	}
	return fmt.Sprintf("$%.4f", price)
}

func formatValue(value float64) string {
	if value == 0 {
		return "N/A"
	}
	if value >= 1e9 {
		return fmt.Sprintf("%.2f B", value/1e9)
	}
	if value >= 1e6 {
		return fmt.Sprintf("%.2f M", value/1e6)
	}
	return fmt.Sprintf("%.2f", value)
}
