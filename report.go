package clustering

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/tidwall/gjson"
)

// NormalizedReport is the canonical result shape consumed by charts, tables
// and the PDF generator, whichever variant the backend returned.
type NormalizedReport struct {
	Algorithm     string                `json:"algorithm"`
	YearlyResults map[string]YearReport `json:"yearly_results"`
}

// YearReport is the normalized outcome of one year
type YearReport struct {
	Data       []Row            `json:"data"`
	Evaluation Evaluation       `json:"evaluation"`
	Clusters   []ClusterSummary `json:"clusters"`
}

// ClusterSummary is a normalized cluster. Size always equals len(Members).
type ClusterSummary struct {
	ID             ClusterID          `json:"id"`
	Size           int                `json:"size"`
	Members        []Row              `json:"members"`
	Centroid       map[string]float64 `json:"centroid"`
	Interpretation *Interpretation    `json:"interpretation,omitempty"`
}

// Key returns the cluster id
func (s ClusterSummary) Key() ClusterID { return s.ID }

// Rows returns the cluster members
func (s ClusterSummary) Rows() []Row { return s.Members }

// IsNoise reports whether s is the OPTICS noise pseudo-cluster
func (s ClusterSummary) IsNoise() bool { return IsNoiseCluster(s.ID) }

// Label returns the display label of the cluster, preferring the backend's
// interpretation label
func (s ClusterSummary) Label() string {
	if s.IsNoise() {
		return NoiseClusterLabel
	}
	if s.Interpretation != nil && s.Interpretation.Label != "" {
		return s.Interpretation.Label
	}
	return "Cluster " + s.ID.String()
}

// Years returns the year keys in ascending order
func (r NormalizedReport) Years() []string {
	years := make([]string, 0, len(r.YearlyResults))
	for year := range r.YearlyResults {
		years = append(years, year)
	}
	sort.Strings(years)
	return years
}

// DecodeResult decodes a backend clustering result. The per-year variant is
// chosen when clustering_type is "per_year"; any other body is a single-year
// result.
func DecodeResult(body []byte) (Result, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("clustering result is not valid JSON")
	}

	if gjson.GetBytes(body, "clustering_type").String() == ClusteringTypePerYear {
		var result PerYearResult
		if err := json.Unmarshal(body, &result); err != nil {
			return nil, fmt.Errorf("failed to decode per-year result: %w", err)
		}
		return &result, nil
	}

	var result SingleYearResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode single-year result: %w", err)
	}
	return &result, nil
}
