package clustering

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ClusteringTypePerYear is the clustering_type value of a per-year result
const ClusteringTypePerYear = "per_year"

// Result is a raw clustering result as returned by the backend.
// It is either a *PerYearResult or a *SingleYearResult.
type Result interface {
	header() ResultHeader
}

// ResultHeader holds the fields both result variants may carry
type ResultHeader struct {
	Algorithm      string          `json:"algorithm,omitempty"`
	OverallSummary *OverallSummary `json:"overall_summary,omitempty"`
}

// OverallSummary is the cross-year summary block of a result
type OverallSummary struct {
	Algorithm string `json:"algorithm,omitempty"`
}

// AlgorithmName resolves the algorithm name: overall_summary.algorithm, then
// algorithm, then DefaultAlgorithmName.
func (h ResultHeader) AlgorithmName() string {
	if h.OverallSummary != nil && h.OverallSummary.Algorithm != "" {
		return h.OverallSummary.Algorithm
	}
	if h.Algorithm != "" {
		return h.Algorithm
	}
	return DefaultAlgorithmName
}

// PerYearResult holds one clustering run per year
type PerYearResult struct {
	ResultHeader
	ClusteringType string              `json:"clustering_type"`
	ResultsPerYear map[Year]YearResult `json:"results_per_year"`
}

func (r *PerYearResult) header() ResultHeader { return r.ResultHeader }

// YearResult is the outcome of the clustering run for one year.
// A non-empty Error means the run failed for that year, or that its entry
// could not be decoded.
type YearResult struct {
	Error              string    `json:"error,omitempty"`
	DataWithClusters   []Row     `json:"data_with_clusters,omitempty"`
	DaviesBouldinScore *float64  `json:"davies_bouldin_score,omitempty"`
	SilhouetteScore    *float64  `json:"silhouette_score,omitempty"`
	Clusters           []Cluster `json:"clusters,omitempty"`
}

// SingleYearResult holds a single clustering run
type SingleYearResult struct {
	ResultHeader
	Summary          *Summary    `json:"summary,omitempty"`
	Evaluation       *Evaluation `json:"evaluation,omitempty"`
	Clusters         []Cluster   `json:"clusters,omitempty"`
	DataWithClusters []Row       `json:"data_with_clusters,omitempty"`
	Data             []Row       `json:"data,omitempty"`
}

func (r *SingleYearResult) header() ResultHeader { return r.ResultHeader }

// Summary describes a single-year run
type Summary struct {
	SelectedYear  Year    `json:"selectedYear,omitempty"`
	TotalRegions  int     `json:"total_regions,omitempty"`
	NumClusters   int     `json:"num_clusters,omitempty"`
	Iterations    int     `json:"iterations,omitempty"`
	ExecutionTime float64 `json:"execution_time,omitempty"`
}

// Evaluation holds the backend quality scores. A nil score was not reported.
type Evaluation struct {
	DaviesBouldin   *float64 `json:"davies_bouldin"`
	SilhouetteScore *float64 `json:"silhouette_score"`
}

// Cluster is a raw cluster of a clustering run
type Cluster struct {
	ID             ClusterID          `json:"id"`
	Members        []Row              `json:"members,omitempty"`
	Centroid       map[string]float64 `json:"centroid,omitempty"`
	Interpretation *Interpretation    `json:"interpretation,omitempty"`
}

// Key returns the cluster id
func (c Cluster) Key() ClusterID { return c.ID }

// Rows returns the cluster members
func (c Cluster) Rows() []Row { return c.Members }

// IsNoise reports whether c is the OPTICS noise pseudo-cluster
func (c Cluster) IsNoise() bool { return IsNoiseCluster(c.ID) }

// Interpretation is the backend's description of a cluster
type Interpretation struct {
	Label string `json:"label,omitempty"`
}

// UnmarshalJSON accepts a label of any JSON scalar type. Other labels are
// left empty.
func (i *Interpretation) UnmarshalJSON(data []byte) error {
	var raw struct {
		Label json.RawMessage `json:"label"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	label, err := scalarText(raw.Label)
	if err != nil {
		label = ""
	}
	i.Label = label
	return nil
}

// ClusterID identifies a cluster. The backend sends ids as numbers, except
// that the noise cluster may arrive as the string "-1".
type ClusterID struct {
	value   string
	numeric bool
}

// NoiseClusterID is the id of the OPTICS noise pseudo-cluster
var NoiseClusterID = IntClusterID(-1)

// IntClusterID returns a numeric cluster id
func IntClusterID(n int) ClusterID {
	return ClusterID{value: strconv.Itoa(n), numeric: true}
}

// StringClusterID returns a cluster id that marshals as a JSON string
func StringClusterID(s string) ClusterID {
	return ClusterID{value: s}
}

// String returns the id as text, "-1" for noise
func (id ClusterID) String() string { return id.value }

// Int returns the id as an integer when it has an integer form
func (id ClusterID) Int() (int, bool) {
	n, err := strconv.Atoi(id.value)
	if err != nil {
		return 0, false
	}
	return n, true
}

// MarshalJSON keeps the JSON type the id arrived with
func (id ClusterID) MarshalJSON() ([]byte, error) {
	if id.numeric {
		return []byte(id.value), nil
	}
	return json.Marshal(id.value)
}

// UnmarshalJSON accepts a JSON number or string
func (id *ClusterID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = StringClusterID(s)
		return nil
	}
	if string(data) == "null" {
		*id = ClusterID{}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("cluster id must be a number or string: %w", err)
	}
	*id = ClusterID{value: n.String(), numeric: true}
	return nil
}

// Year is a result year key. The backend sends it as a number or a string.
type Year string

// UnmarshalJSON accepts a JSON number or string
func (y *Year) UnmarshalJSON(data []byte) error {
	s, err := scalarText(data)
	if err != nil {
		return fmt.Errorf("year: %w", err)
	}
	*y = Year(s)
	return nil
}

// Row is one region record with metric fields and an optional membership degree
type Row map[string]any

// Float returns a metric as a finite float64. Missing, null, NaN and
// non-numeric values report false.
func (r Row) Float(metric string) (float64, bool) {
	v, ok := r[metric]
	if !ok || v == nil {
		return 0, false
	}

	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Membership returns the Fuzzy C-Means membership degree when present
func (r Row) Membership() (float64, bool) {
	return r.Float(MetricMembership)
}

// Text returns a field as text, empty when absent
func (r Row) Text(field string) string {
	v, ok := r[field]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// scalarText renders a JSON string, number or bool as text. null is empty.
func scalarText(data []byte) (string, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return "", nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var v any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return "", err
	}
	switch t := v.(type) {
	case json.Number:
		return t.String(), nil
	case bool:
		return strconv.FormatBool(t), nil
	default:
		return "", fmt.Errorf("expected a scalar, got %s", string(data))
	}
}
