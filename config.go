package clustering

import (
	"strconv"
)

const (
	// DefaultAlgorithmName is used when a result does not name its algorithm
	DefaultAlgorithmName = "Fuzzy C-Means"

	// DefaultNumClusters is the default cluster count for Fuzzy C-Means runs
	DefaultNumClusters = 3

	// DefaultFuzzyCoeff is the default fuzziness exponent m
	DefaultFuzzyCoeff = 2.0

	// DefaultMaxIter is the default iteration cap
	DefaultMaxIter = 300

	// DefaultTolerance is the default convergence tolerance
	DefaultTolerance = 0.0001

	// DefaultMinSamples is the default OPTICS min_samples
	DefaultMinSamples = 5

	// DefaultXi is the default OPTICS steepness threshold
	DefaultXi = 0.05

	// DefaultMinClusterSize is the default OPTICS min_cluster_size (fraction of samples)
	DefaultMinClusterSize = 0.05
)

// Parameters holds the clustering parameters sent with an upload or a rerun.
// Zero values are replaced with the defaults above.
type Parameters struct {
	// Algorithm is AlgorithmFCM or AlgorithmOPTICS. If empty, uses AlgorithmFCM.
	Algorithm Algorithm `json:"algorithm"`

	// Fuzzy C-Means
	NumClusters int     `json:"num_clusters"`
	FuzzyCoeff  float64 `json:"fuzzy_coeff"`
	MaxIter     int     `json:"max_iter"`
	Tolerance   float64 `json:"tolerance"`

	// OPTICS
	MinSamples     int     `json:"min_samples"`
	Xi             float64 `json:"xi"`
	MinClusterSize float64 `json:"min_cluster_size"`

	// ClusteringMode is ModePerYear or ModeAllYears. If empty, uses ModePerYear.
	ClusteringMode Mode `json:"clustering_mode"`
}

// DefaultParameters returns the parameters the upload form starts with
func DefaultParameters() Parameters {
	var p Parameters
	p.ApplyDefaults()
	return p
}

// ApplyDefaults fills in default values for unset fields
func (p *Parameters) ApplyDefaults() {
	if p.Algorithm == "" {
		p.Algorithm = AlgorithmFCM
	}
	if p.NumClusters == 0 {
		p.NumClusters = DefaultNumClusters
	}
	if p.FuzzyCoeff == 0 {
		p.FuzzyCoeff = DefaultFuzzyCoeff
	}
	if p.MaxIter == 0 {
		p.MaxIter = DefaultMaxIter
	}
	if p.Tolerance == 0 {
		p.Tolerance = DefaultTolerance
	}
	if p.MinSamples == 0 {
		p.MinSamples = DefaultMinSamples
	}
	if p.Xi == 0 {
		p.Xi = DefaultXi
	}
	if p.MinClusterSize == 0 {
		p.MinClusterSize = DefaultMinClusterSize
	}
	if p.ClusteringMode == "" {
		p.ClusteringMode = ModePerYear
	}
}

// FormValues returns the parameters as multipart form fields.
// Only the fields relevant to the selected algorithm are included.
func (p Parameters) FormValues() map[string]string {
	values := map[string]string{
		"algorithm":       string(p.Algorithm),
		"clustering_mode": string(p.ClusteringMode),
	}

	switch p.Algorithm {
	case AlgorithmOPTICS:
		values["min_samples"] = strconv.Itoa(p.MinSamples)
		values["xi"] = formatFloat(p.Xi)
		values["min_cluster_size"] = formatFloat(p.MinClusterSize)
	default:
		values["num_clusters"] = strconv.Itoa(p.NumClusters)
		values["fuzzy_coeff"] = formatFloat(p.FuzzyCoeff)
		values["max_iter"] = strconv.Itoa(p.MaxIter)
		values["tolerance"] = formatFloat(p.Tolerance)
	}

	return values
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
