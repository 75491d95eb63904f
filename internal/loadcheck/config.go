// Package loadcheck drives a running receipt processor with generated
// receipts and verifies the points it returns.
package loadcheck

import (
	"errors"
	"time"
)

// Sentinel errors.
var (
	ErrUnhealthy = errors.New("service health check failed")
	ErrMismatch  = errors.New("points mismatch")
	ErrFailures  = errors.New("requests failed")
)

// Config holds configuration for a load check run.
type Config struct {
	BaseURL     string        // Base URL of the service
	NumReceipts int           // Number of receipts to generate
	Workers     int           // Number of concurrent workers
	Timeout     time.Duration // HTTP request timeout
	Seed        uint64        // Generator seed; 0 picks one from the clock
	OutputFile  string        // Optional JSON dump of generated receipts
	// GeneratedCodeBonus must match the server build for expected points to agree.
	GeneratedCodeBonus bool
}

// Receipt is the wire form posted to /receipts/process.
type Receipt struct {
	Retailer     string `json:"retailer"`
	PurchaseDate string `json:"purchaseDate"`
	PurchaseTime string `json:"purchaseTime"`
	Items        []Item `json:"items"`
	Total        string `json:"total"`
}

// Item is one wire receipt line.
type Item struct {
	ShortDescription string `json:"shortDescription"`
	Price            string `json:"price"`
}

// Case pairs a generated receipt with the points it should earn.
type Case struct {
	Receipt  Receipt `json:"receipt"`
	Expected int     `json:"expected"`
}

// Report summarises a run.
type Report struct {
	Generated  int
	Submitted  int
	Verified   int
	Mismatches int
	Failures   int
	Duration   time.Duration
}

// ReceiptsPerSecond is the end-to-end throughput of the run.
func (r Report) ReceiptsPerSecond() float64 {
	if r.Duration <= 0 {
		return 0
	}
	return float64(r.Submitted) / r.Duration.Seconds()
}
