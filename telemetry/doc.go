// Package telemetry collects per-window simulation statistics, frame timing
// and notable events, and writes them to CSV.
package telemetry
