// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

// Package metrics exposes the Prometheus counters recorded by triagebot.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SweepItems counts sweep items by sweep name and outcome.
	SweepItems = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "triagebot_sweep_items_total",
			Help: "Total number of sweep items processed, by outcome",
		},
		[]string{"sweep", "outcome"},
	)

	// OracleCalls counts oracle calls by purpose and result.
	OracleCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "triagebot_oracle_calls_total",
			Help: "Total number of oracle calls, by purpose and result",
		},
		[]string{"purpose", "result"},
	)

	// LabelsRejected counts oracle label candidates missing from the repository.
	LabelsRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "triagebot_labels_rejected_total",
			Help: "Total number of oracle label candidates not found in the repository",
		},
	)

	// Mutations counts planned mutations by kind and mode (live or dry-run).
	Mutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "triagebot_mutations_total",
			Help: "Total number of repository mutations, by kind and mode",
		},
		[]string{"kind", "mode"},
	)
)

// Mode returns the mode label value for a dry-run flag.
func Mode(dryRun bool) string {
	if dryRun {
		return "dry-run"
	}
	return "live"
}

// WriteFile writes every registered metric to path in the text exposition
// format, for node-exporter textfile collection.
func WriteFile(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}
