package loadcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/receipts/internal/domain/scoring"
	"github.com/okian/receipts/pkg/logger"
)

const (
	directoryPermission = 0o750
	filePermission      = 0o600
)

// Run generates receipts, submits them concurrently, fetches the points for
// every returned id and compares them with the locally computed value.
// It returns the report together with ErrMismatch or ErrFailures when the
// service disagreed or requests failed.
func Run(ctx context.Context, cfg Config) (Report, error) {
	log := logger.Named("loadcheck")
	start := time.Now()
	var report Report

	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Seed == 0 {
		cfg.Seed = uint64(start.UnixNano())
	}

	log.Info(ctx, "starting receipt load check",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("receipts", cfg.NumReceipts),
		logger.Int("workers", cfg.Workers),
		logger.Any("seed", cfg.Seed),
		logger.Bool("generatedCodeBonus", cfg.GeneratedCodeBonus),
	)

	c := newClient(cfg.BaseURL, cfg.Timeout)
	if err := c.health(ctx); err != nil {
		return report, err
	}

	engine := scoring.NewEngine(scoring.WithGeneratedCodeBonus(cfg.GeneratedCodeBonus))
	cases, err := NewGenerator(cfg.Seed, engine).Generate(cfg.NumReceipts)
	if err != nil {
		return report, fmt.Errorf("generate receipts: %w", err)
	}
	report.Generated = len(cases)

	if cfg.OutputFile != "" {
		if err := saveCases(cfg.OutputFile, cases); err != nil {
			log.Warn(ctx, "failed to save generated receipts", logger.Error(err))
		}
	}

	var submitted, verified, mismatches, failures atomic.Int64
	jobs := make(chan Case, cfg.Workers*2)
	var wg sync.WaitGroup
	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for tc := range jobs {
				submitted.Add(1)
				got, err := roundTrip(ctx, c, tc.Receipt)
				switch {
				case err != nil:
					failures.Add(1)
					log.Debug(ctx, "request failed", logger.Error(err))
				case got != tc.Expected:
					mismatches.Add(1)
					log.Warn(ctx, "points mismatch",
						logger.String("retailer", tc.Receipt.Retailer),
						logger.Int("expected", tc.Expected),
						logger.Int("got", got),
					)
				default:
					verified.Add(1)
				}
			}
		}()
	}

feed:
	for _, tc := range cases {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- tc:
		}
	}
	close(jobs)
	wg.Wait()

	report.Submitted = int(submitted.Load())
	report.Verified = int(verified.Load())
	report.Mismatches = int(mismatches.Load())
	report.Failures = int(failures.Load())
	report.Duration = time.Since(start)

	log.Info(ctx, "load check finished",
		logger.Int("generated", report.Generated),
		logger.Int("submitted", report.Submitted),
		logger.Int("verified", report.Verified),
		logger.Int("mismatches", report.Mismatches),
		logger.Int("failures", report.Failures),
		logger.String("duration", report.Duration.String()),
		logger.Float64("receiptsPerSecond", report.ReceiptsPerSecond()),
	)

	switch {
	case ctx.Err() != nil:
		return report, ctx.Err()
	case report.Mismatches > 0:
		return report, fmt.Errorf("%w: %d of %d receipts", ErrMismatch, report.Mismatches, report.Submitted)
	case report.Failures > 0:
		return report, fmt.Errorf("%w: %d of %d receipts", ErrFailures, report.Failures, report.Submitted)
	}
	return report, nil
}

func roundTrip(ctx context.Context, c *client, r Receipt) (int, error) {
	id, err := c.process(ctx, r)
	if err != nil {
		return 0, err
	}
	return c.points(ctx, id)
}

// saveCases writes the generated receipts and expected points as a JSON array.
func saveCases(filename string, cases []Case) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(cases, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal receipts: %w", err)
	}
	return os.WriteFile(filename, data, filePermission)
}
