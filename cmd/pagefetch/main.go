// Command pagefetch downloads every page of a paginated items endpoint in
// parallel and reports how many items were collected.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/Sternrassler/pagefetch/pkg/client"
	"github.com/Sternrassler/pagefetch/pkg/config"
	"github.com/Sternrassler/pagefetch/pkg/logging"
	"github.com/Sternrassler/pagefetch/pkg/metrics"
	"github.com/Sternrassler/pagefetch/pkg/pagination"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Stdout, os.Stderr); err != nil {
		logger := logging.NewLogger("cli")
		logger.Error().Err(err).Msg("pagefetch failed")
		os.Exit(1)
	}
}

// run loads configuration, fetches all pages and writes the two progress
// lines to stdout. Structured logs go to logOutput.
func run(ctx context.Context, stdout, logOutput io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logging.Setup(logging.Config{
		Level:   logging.LogLevel(cfg.Log.Level),
		Pretty:  cfg.Log.Pretty,
		Output:  logOutput,
		Service: "pagefetch",
	})
	logger := logging.NewLogger("cli")

	pageClient, err := client.New(client.DefaultConfig(cfg.BaseURL, cfg.UserAgent))
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	defer pageClient.Close()

	logger.Info().
		Str("base_url", cfg.BaseURL).
		Int("concurrency_limit", cfg.ConcurrencyLimit).
		Dur("page_timeout", cfg.PageTimeout).
		Msg("Starting fetch run")

	coordinator := pagination.NewCoordinator[pagination.Item](pageClient, pagination.Config{
		MaxConcurrency: cfg.ConcurrencyLimit,
		PageTimeout:    cfg.PageTimeout,
		Progress: func(fetched, total int) {
			if fetched == 1 {
				fmt.Fprintf(stdout, "Fetched 1st page, totalPages=%d\n", total)
			}
		},
	})

	result, fetchErr := coordinator.FetchAll(ctx)

	// Metrics are pushed for failed runs too
	if cfg.PushgatewayURL != "" {
		if err := metrics.Push(ctx, cfg.PushgatewayURL, metrics.DefaultJob, metrics.Gatherer); err != nil {
			logger.Warn().Err(err).Msg("Failed to push metrics")
		}
	}

	if fetchErr != nil {
		return fetchErr
	}

	fmt.Fprintln(stdout, result.Summary())
	return nil
}
