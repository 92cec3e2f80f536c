// Package perf holds the benchmarks for lumen's hot paths and the budgets
// they are held to.
package perf

import (
	"slices"
	"testing"
)

// Threshold is the budget for one named benchmark.
type Threshold struct {
	Name     string
	MaxNs    int64 // per op; 0 disables the check
	MaxAlloc int64 // bytes per op; 0 disables the check
}

// Violation is one exceeded budget.
type Violation struct {
	Threshold Threshold
	Actual    int64
	Field     string // "ns" or "alloc"
}

// DefaultThresholds returns the budgets, sorted by name.
//
// The bridge paths run on every UI event and every engine iteration, so
// they must stay allocation-free.
func DefaultThresholds() []Threshold {
	return []Threshold{
		{Name: "bridge_publish", MaxNs: 1_000},
		{Name: "bridge_read", MaxNs: 100},
		{Name: "panel_commit", MaxNs: 20_000, MaxAlloc: 1024},
		{Name: "preview_halfblocks", MaxNs: 20_000_000, MaxAlloc: 4_194_304},
		{Name: "slider_render", MaxNs: 200_000, MaxAlloc: 16384},
		{Name: "tracer_step", MaxNs: 250_000_000, MaxAlloc: 2_097_152},
	}
}

// CheckRegression compares results, keyed by threshold name, against
// thresholds. Results without a threshold and thresholds without a result
// are ignored. Violations come back in threshold name order.
func CheckRegression(results map[string]testing.BenchmarkResult, thresholds []Threshold) []Violation {
	sorted := slices.Clone(thresholds)
	slices.SortFunc(sorted, func(a, b Threshold) int {
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		}
		return 0
	})

	var out []Violation
	for _, t := range sorted {
		r, ok := results[t.Name]
		if !ok || r.N == 0 {
			continue
		}
		if ns := r.NsPerOp(); t.MaxNs > 0 && ns > t.MaxNs {
			out = append(out, Violation{Threshold: t, Actual: ns, Field: "ns"})
		}
		if a := r.AllocedBytesPerOp(); t.MaxAlloc > 0 && a > t.MaxAlloc {
			out = append(out, Violation{Threshold: t, Actual: a, Field: "alloc"})
		}
	}
	return out
}
