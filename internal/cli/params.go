package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	clustering "github.com/Nicholas-Eugene/cluster-web-frontend"
)

// addParameterFlags registers the clustering parameter flags on cmd
func addParameterFlags(cmd *cobra.Command) {
	d := clustering.DefaultParameters()
	f := cmd.Flags()

	f.String("algorithm", string(d.Algorithm), "clustering algorithm: fcm or optics")
	f.String("mode", string(d.ClusteringMode), "clustering mode: per_year or all_years")

	f.Int("clusters", d.NumClusters, "number of clusters (fcm)")
	f.Float64("fuzzy", d.FuzzyCoeff, "fuzziness exponent m (fcm)")
	f.Int("max-iter", d.MaxIter, "iteration cap (fcm)")
	f.Float64("tolerance", d.Tolerance, "convergence tolerance (fcm)")

	f.Int("min-samples", d.MinSamples, "min_samples (optics)")
	f.Float64("xi", d.Xi, "steepness threshold (optics)")
	f.Float64("min-cluster-size", d.MinClusterSize, "minimum cluster size as a fraction of samples (optics)")
}

// parametersFromFlags reads the flags registered by addParameterFlags
func parametersFromFlags(cmd *cobra.Command) (clustering.Parameters, error) {
	f := cmd.Flags()

	algorithm, _ := f.GetString("algorithm")
	mode, _ := f.GetString("mode")

	p := clustering.Parameters{
		Algorithm:      clustering.Algorithm(algorithm),
		ClusteringMode: clustering.Mode(mode),
	}
	p.NumClusters, _ = f.GetInt("clusters")
	p.FuzzyCoeff, _ = f.GetFloat64("fuzzy")
	p.MaxIter, _ = f.GetInt("max-iter")
	p.Tolerance, _ = f.GetFloat64("tolerance")
	p.MinSamples, _ = f.GetInt("min-samples")
	p.Xi, _ = f.GetFloat64("xi")
	p.MinClusterSize, _ = f.GetFloat64("min-cluster-size")

	switch p.Algorithm {
	case clustering.AlgorithmFCM, clustering.AlgorithmOPTICS:
	default:
		return p, usageError(fmt.Sprintf("unknown algorithm %q", algorithm), "Use fcm or optics")
	}
	switch p.ClusteringMode {
	case clustering.ModePerYear, clustering.ModeAllYears:
	default:
		return p, usageError(fmt.Sprintf("unknown clustering mode %q", mode), "Use per_year or all_years")
	}
	if p.Algorithm == clustering.AlgorithmFCM && p.NumClusters < 2 {
		return p, usageError("--clusters must be at least 2", "")
	}

	p.ApplyDefaults()
	return p, nil
}
