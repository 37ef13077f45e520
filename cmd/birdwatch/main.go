package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tgaskin/birdwatch-backend/internal/analysis"
	"github.com/tgaskin/birdwatch-backend/internal/birdeye"
	"github.com/tgaskin/birdwatch-backend/internal/config"
	"github.com/tgaskin/birdwatch-backend/internal/httputil"
	"github.com/tgaskin/birdwatch-backend/internal/notifications"
	"github.com/tgaskin/birdwatch-backend/internal/report"
	"github.com/urfave/cli/v2"
)

const (
	appName = "birdwatch"
	version = "v0.1.0"
)

const (
	flagSortBy      = "sort-by"
	flagSortType    = "sort-type"
	flagLimit       = "limit"
	flagOffset      = "offset"
	flagAddress     = "address"
	flagName        = "name"
	flagInterval    = "interval"
	flagDays        = "days"
	flagAddressType = "address-type"
	flagNotify      = "notify"
)

func main() {
	app := cli.NewApp()
	app.Name = appName
	app.Version = version
	app.Usage = "Birdeye market-data client: token rankings and price history analysis"

	app.Commands = []*cli.Command{
		{
			Name:   "check-key",
			Usage:  "Verify that the configured Birdeye API key is accepted",
			Action: checkKeyCmd,
		},
		{
			Name:   "tokens",
			Usage:  "Fetch the token list, sorted and paginated",
			Action: tokensCmd,
			Flags: []cli.Flag{
				&cli.StringFlag{Name: flagSortBy, Usage: "Sort field: price, v24hUSD, v24hChangePercent, mc"},
				&cli.StringFlag{Name: flagSortType, Usage: "Sort direction: asc or desc"},
				&cli.IntFlag{Name: flagLimit, Usage: "Number of tokens to fetch"},
				&cli.IntFlag{Name: flagOffset, Usage: "Pagination offset"},
			},
		},
		{
			Name:   "history",
			Usage:  "Fetch a token's price history and print its statistics",
			Action: historyCmd,
			Flags: []cli.Flag{
				&cli.StringFlag{Name: flagAddress, Aliases: []string{"a"}, Usage: "Token contract `ADDRESS`", Required: true},
				&cli.StringFlag{Name: flagName, Usage: "Display name for the report"},
				&cli.StringFlag{Name: flagInterval, Usage: "Candle interval: 1m, 5m, 15m, 30m, 1h, 1d"},
				&cli.IntFlag{Name: flagDays, Usage: "Days of history to fetch"},
				&cli.StringFlag{Name: flagAddressType, Usage: "Address type: token or pair"},
				&cli.BoolFlag{Name: flagNotify, Usage: "Also push the summary to the configured webhook"},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "\nError: %v\n", err)
		os.Exit(1)
	}
}

// setup loads and validates config and builds the API client; shared by all
// commands.
func setup() (*config.Config, *birdeye.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("config load: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	client, err := birdeye.NewClient(cfg.BirdeyeAPIKey, birdeye.Options{
		BaseURL: cfg.BaseURL,
		Chain:   cfg.Chain,
		Timeout: cfg.HTTPTimeout(),
		Retry: httputil.RetryConfig{
			MaxAttempts: cfg.RetryMaxAttempts,
			BaseDelay:   time.Duration(cfg.RetryBaseDelaySecs) * time.Second,
			MaxDelay:    time.Duration(cfg.RetryMaxDelaySecs) * time.Second,
		},
	})
	if err != nil {
		return nil, nil, err
	}

	fmt.Printf("[BIRDEYE] Using API key %s (chain: %s)\n", config.MaskKey(cfg.BirdeyeAPIKey), cfg.Chain)
	return cfg, client, nil
}

func commandContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func checkKeyCmd(*cli.Context) error {
	cfg, client, err := setup()
	if err != nil {
		return err
	}
	cfg.Print()

	ctx, stop := commandContext()
	defer stop()

	fmt.Println("[BIRDEYE] Testing API key...")
	if err := client.ValidateKey(ctx); err != nil {
		return fmt.Errorf("API key test failed: %w", err)
	}
	fmt.Println("[BIRDEYE] API key is working")
	return nil
}

func tokensCmd(c *cli.Context) error {
	cfg, client, err := setup()
	if err != nil {
		return err
	}

	ctx, stop := commandContext()
	defer stop()

	params := birdeye.TokenListParams{
		SortBy:   cfg.TokenSortBy,
		SortType: cfg.TokenSortType,
		Limit:    cfg.TokenLimit,
		Offset:   cfg.TokenOffset,
	}
	if v := c.String(flagSortBy); v != "" {
		params.SortBy = v
	}
	if v := c.String(flagSortType); v != "" {
		params.SortType = v
	}
	if c.IsSet(flagLimit) {
		params.Limit = c.Int(flagLimit)
	}
	if c.IsSet(flagOffset) {
		params.Offset = c.Int(flagOffset)
	}

	fmt.Printf("[BIRDEYE] Fetching token list (sort %s %s, limit %d, offset %d)...\n",
		params.SortBy, params.SortType, params.Limit, params.Offset)

	tokens, err := client.TokenList(ctx, params)
	if err != nil {
		return err
	}

	fmt.Printf("[BIRDEYE] Fetched %d tokens\n\n", len(tokens))
	fmt.Print(report.TokenTable(tokens))
	return nil
}

func historyCmd(c *cli.Context) error {
	cfg, client, err := setup()
	if err != nil {
		return err
	}

	ctx, stop := commandContext()
	defer stop()

	interval := cfg.HistoryInterval
	if v := c.String(flagInterval); v != "" {
		interval = v
	}
	days := cfg.HistoryDaysBack
	if c.IsSet(flagDays) {
		days = c.Int(flagDays)
	}

	params := birdeye.HistoryParamsForDays(c.String(flagAddress), interval, days)
	if v := c.String(flagAddressType); v != "" {
		params.AddressType = v
	}

	name := c.String(flagName)
	if name == "" {
		name = params.Address
	}

	fmt.Printf("[BIRDEYE] Fetching %s data for %s, last %d day(s)...\n", interval, params.Address, days)

	points, err := client.PriceHistory(ctx, params)
	if err != nil {
		return err
	}
	fmt.Printf("[BIRDEYE] Fetched %d data points\n\n", len(points))

	stats, err := analysis.Summarize(points)
	if err != nil {
		return fmt.Errorf("no statistics for %s: %w", params.Address, err)
	}

	summary := report.PriceSummary(name, stats)
	fmt.Print(summary)

	if c.Bool(flagNotify) {
		sender := notifications.NewSender(cfg.WebhookURL, cfg.BotName)
		if !sender.Enabled() {
			fmt.Println("[NOTIFY] --notify set but WEBHOOK_URL is not configured")
		} else {
			sender.Send(ctx, summary)
		}
	}
	return nil
}
