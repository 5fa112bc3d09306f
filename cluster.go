package clustering

import "strconv"

// ClusterLike is implemented by raw clusters and normalized cluster summaries
type ClusterLike interface {
	Key() ClusterID
	Rows() []Row
	IsNoise() bool
}

// IsNoiseCluster reports whether id denotes the OPTICS noise pseudo-cluster,
// sent as the number -1 (in any spelling, such as -1.0) or the string "-1".
// Check it before computing a color, label or statistics.
func IsNoiseCluster(id ClusterID) bool {
	if !id.numeric {
		return id.value == "-1"
	}
	n, err := strconv.ParseFloat(id.value, 64)
	return err == nil && n == -1
}

// ClusterColor returns the palette color for a cluster index. Indexes past
// the palette wrap around.
func ClusterColor(index int) string {
	n := len(ClusterPalette)
	return ClusterPalette[((index%n)+n)%n]
}

// ClusterLabel returns the display label of a raw cluster
func ClusterLabel(c *Cluster) string {
	if c == nil {
		return "Unknown"
	}
	if c.IsNoise() {
		return NoiseClusterLabel
	}
	if c.Interpretation != nil && c.Interpretation.Label != "" {
		return c.Interpretation.Label
	}
	return "Cluster " + c.ID.String()
}

// FilterValidClusters returns the clusters without the noise cluster, in
// their original order
func FilterValidClusters[C ClusterLike](clusters []C) []C {
	valid := make([]C, 0, len(clusters))
	for _, c := range clusters {
		if !c.IsNoise() {
			valid = append(valid, c)
		}
	}
	return valid
}

// ClusterMetricValues extracts one metric across the members of a cluster,
// skipping members where it is missing, null or not a number
func ClusterMetricValues(c ClusterLike, metric string) []float64 {
	rows := c.Rows()
	values := make([]float64, 0, len(rows))
	for _, row := range rows {
		if v, ok := row.Float(metric); ok {
			values = append(values, v)
		}
	}
	return values
}
