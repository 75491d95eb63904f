package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/okian/receipts/internal/domain/scoring"
	"github.com/okian/receipts/internal/loadcheck"
	"github.com/okian/receipts/pkg/logger"
)

const (
	defaultReceipts = 10_000
	defaultTimeout  = 30 * time.Second
	defaultDeadline = 10 * time.Minute
)

func main() {
	fs := ff.NewFlagSet("receipt-loadcheck")
	var (
		baseURL   = fs.StringLong("url", "http://localhost:8080", "base URL of the receipt processor")
		receipts  = fs.IntLong("receipts", defaultReceipts, "number of receipts to generate and submit")
		workers   = fs.IntLong("workers", runtime.NumCPU()*2, "number of concurrent workers")
		timeout   = fs.DurationLong("timeout", defaultTimeout, "HTTP request timeout")
		deadline  = fs.DurationLong("deadline", defaultDeadline, "overall run deadline")
		seed      = fs.IntLong("seed", 0, "generator seed (0 picks one from the clock)")
		output    = fs.StringLong("output", "", "write generated receipts and expected points to this JSON file")
		logFormat = fs.StringLong("log-format", logger.FormatText, "log format: text or json")
		verbose   = fs.BoolLong("verbose", "enable debug logging")
		generated = fs.BoolLong("generated-code-bonus", "expect the generated-code total rule (must match the server build)")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("RECEIPTS_LOADCHECK"),
	); err != nil {
		if errors.Is(err, ff.ErrHelp) {
			fmt.Fprintf(os.Stdout, "%s\n", ffhelp.Flags(fs))
			return
		}
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(logger.WithFormat(*logFormat)); err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logging:", err)
		os.Exit(1)
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *deadline)
	defer cancel()

	_, err := loadcheck.Run(ctx, loadcheck.Config{
		BaseURL:            *baseURL,
		NumReceipts:        *receipts,
		Workers:            *workers,
		Timeout:            *timeout,
		Seed:               uint64(*seed),
		OutputFile:         *output,
		GeneratedCodeBonus: *generated || scoring.GeneratedBuild(),
	})
	if err != nil {
		logger.Get().Error(ctx, "load check failed", logger.Error(err))
		os.Exit(1)
	}
}
