// Package stats computes descriptive statistics over cluster metrics.
package stats

import (
	"sort"

	"gonum.org/v1/gonum/floats"

	clustering "github.com/Nicholas-Eugene/cluster-web-frontend"
)

// Summary holds the descriptive statistics of a sample
type Summary struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Q1     float64 `json:"q1"`
	Q3     float64 `json:"q3"`
}

// Calculate returns the statistics of values. An empty sample yields all
// zeros. values is not modified.
func Calculate(values []float64) Summary {
	n := len(values)
	if n == 0 {
		return Summary{}
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	return Summary{
		Min:    sorted[0],
		Max:    sorted[n-1],
		Mean:   floats.Sum(values) / float64(n),
		Median: Percentile(sorted, 0.5),
		Q1:     Percentile(sorted, 0.25),
		Q3:     Percentile(sorted, 0.75),
	}
}

// Percentile returns the p-th percentile (0 <= p <= 1) of an ascending
// sample, interpolating linearly between the order statistics around
// (n-1)*p. It returns 0 for an empty sample.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}

	index := float64(n-1) * p
	lower := int(index)
	upper := lower
	if index > float64(lower) {
		upper = lower + 1
	}
	weight := index - float64(lower)

	if upper >= n {
		return sorted[n-1]
	}
	if lower < 0 {
		return sorted[0]
	}
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// ClusterStats is the statistics of one metric within one cluster
type ClusterStats struct {
	ID      clustering.ClusterID `json:"id"`
	Label   string               `json:"label"`
	Count   int                  `json:"count"`
	Summary Summary              `json:"summary"`
}

// DescribeClusters computes the statistics of metric for every cluster
// except the noise cluster, in cluster order
func DescribeClusters(clusters []clustering.ClusterSummary, metric string) []ClusterStats {
	valid := clustering.FilterValidClusters(clusters)
	out := make([]ClusterStats, 0, len(valid))
	for _, c := range valid {
		values := clustering.ClusterMetricValues(c, metric)
		out = append(out, ClusterStats{
			ID:      c.ID,
			Label:   c.Label(),
			Count:   len(values),
			Summary: Calculate(values),
		})
	}
	return out
}

// MeanMembership returns the average Fuzzy C-Means membership of the cluster
// members that carry one, and false when none does
func MeanMembership(c clustering.ClusterLike) (float64, bool) {
	values := clustering.ClusterMetricValues(c, clustering.MetricMembership)
	if len(values) == 0 {
		return 0, false
	}
	return floats.Sum(values) / float64(len(values)), true
}
