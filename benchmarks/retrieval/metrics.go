// ABOUTME: Retrieval metrics for benchmark scenarios
// ABOUTME: Hit rate, recall and reciprocal rank over ranked titles

package retrieval

import (
	"fmt"
	"strings"
)

// MetricsCalculator computes retrieval scores for benchmark scenarios
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// HitAtK is 1 when any expected title appears in the first k retrieved
func (m *MetricsCalculator) HitAtK(retrieved, expected []string, k int) float64 {
	for _, title := range head(retrieved, k) {
		if containsFold(expected, title) {
			return 1.0
		}
	}
	return 0.0
}

// RecallAtK is the share of expected titles found in the first k retrieved
func (m *MetricsCalculator) RecallAtK(retrieved, expected []string, k int) (float64, []string) {
	if len(expected) == 0 {
		return 1.0, nil
	}

	top := head(retrieved, k)
	var missing []string
	for _, want := range expected {
		if !containsFold(top, want) {
			missing = append(missing, want)
		}
	}
	return float64(len(expected)-len(missing)) / float64(len(expected)), missing
}

// ReciprocalRank is 1/rank of the first expected title, or 0 if absent
func (m *MetricsCalculator) ReciprocalRank(retrieved, expected []string) float64 {
	for i, title := range retrieved {
		if containsFold(expected, title) {
			return 1.0 / float64(i+1)
		}
	}
	return 0.0
}

// EvaluateScenario scores the ranked titles retrieved for a scenario.
// A scenario passes when every expected title is within its top K.
func (m *MetricsCalculator) EvaluateScenario(scenario Scenario, retrieved []string) Result {
	recall, missing := m.RecallAtK(retrieved, scenario.Expected, scenario.K)

	status := "FAIL"
	if recall == 1.0 {
		status = "PASS"
	}

	details := map[string]interface{}{
		"k":         scenario.K,
		"retrieved": len(retrieved),
	}
	if len(missing) > 0 {
		details["missing"] = fmt.Sprintf("%v", missing)
	}

	return Result{
		ScenarioID:     scenario.ID,
		ScenarioName:   scenario.Name,
		Query:          scenario.Query,
		HitAtK:         m.HitAtK(retrieved, scenario.Expected, scenario.K),
		RecallAtK:      recall,
		ReciprocalRank: m.ReciprocalRank(retrieved, scenario.Expected),
		Status:         status,
		Retrieved:      retrieved,
		Details:        details,
	}
}

func head(s []string, k int) []string {
	if k < len(s) {
		return s[:k]
	}
	return s
}

func containsFold(s []string, item string) bool {
	for _, v := range s {
		if strings.EqualFold(v, item) {
			return true
		}
	}
	return false
}
