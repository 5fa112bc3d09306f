package clustering

import (
	"sort"
	"strconv"
	"time"
)

// Normalize converts a raw backend result into a NormalizedReport.
// Undated single-year results are keyed by the current calendar year.
func Normalize(raw Result) NormalizedReport {
	return NormalizeAt(raw, time.Now())
}

// NormalizeAt is Normalize with an explicit clock for the single-year fallback.
//
// Years whose run reported an error are left out of the report. Missing
// members, centroids and data default to empty containers. The input is not
// modified.
func NormalizeAt(raw Result, now time.Time) NormalizedReport {
	report := NormalizedReport{
		Algorithm:     DefaultAlgorithmName,
		YearlyResults: make(map[string]YearReport),
	}

	switch r := raw.(type) {
	case *PerYearResult:
		if r == nil {
			return report
		}
		report.Algorithm = r.AlgorithmName()
		for year, yearData := range r.ResultsPerYear {
			if yearData.Error != "" {
				continue
			}
			report.YearlyResults[string(year)] = YearReport{
				Data: copyRows(yearData.DataWithClusters),
				Evaluation: Evaluation{
					DaviesBouldin:   copyScore(yearData.DaviesBouldinScore),
					SilhouetteScore: copyScore(yearData.SilhouetteScore),
				},
				Clusters: summarizeClusters(yearData.Clusters),
			}
		}

	case *SingleYearResult:
		if r == nil {
			return report
		}
		report.Algorithm = r.AlgorithmName()

		year := strconv.Itoa(now.Year())
		if r.Summary != nil && r.Summary.SelectedYear != "" {
			year = string(r.Summary.SelectedYear)
		}

		data := r.DataWithClusters
		if data == nil {
			data = r.Data
		}

		var evaluation Evaluation
		if r.Evaluation != nil {
			evaluation = Evaluation{
				DaviesBouldin:   copyScore(r.Evaluation.DaviesBouldin),
				SilhouetteScore: copyScore(r.Evaluation.SilhouetteScore),
			}
		}

		report.YearlyResults[year] = YearReport{
			Data:       copyRows(data),
			Evaluation: evaluation,
			Clusters:   summarizeClusters(r.Clusters),
		}
	}

	return report
}

// DroppedYears returns, in ascending order, the years of raw that are missing
// from report because their run reported an error.
func DroppedYears(raw *PerYearResult, report NormalizedReport) []string {
	if raw == nil {
		return nil
	}

	var dropped []string
	for year := range raw.ResultsPerYear {
		if _, ok := report.YearlyResults[string(year)]; !ok {
			dropped = append(dropped, string(year))
		}
	}
	sort.Strings(dropped)
	return dropped
}

func summarizeClusters(clusters []Cluster) []ClusterSummary {
	summaries := make([]ClusterSummary, 0, len(clusters))
	for _, cluster := range clusters {
		members := copyRows(cluster.Members)
		centroid := make(map[string]float64, len(cluster.Centroid))
		for metric, value := range cluster.Centroid {
			centroid[metric] = value
		}
		var interpretation *Interpretation
		if cluster.Interpretation != nil {
			copied := *cluster.Interpretation
			interpretation = &copied
		}
		summaries = append(summaries, ClusterSummary{
			ID:             cluster.ID,
			Size:           len(members),
			Members:        members,
			Centroid:       centroid,
			Interpretation: interpretation,
		})
	}
	return summaries
}

// copyRows returns a shallow copy of each row so callers may edit the report
// without touching the raw result
func copyRows(rows []Row) []Row {
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		copied := make(Row, len(row))
		for k, v := range row {
			copied[k] = v
		}
		out = append(out, copied)
	}
	return out
}

func copyScore(score *float64) *float64 {
	if score == nil {
		return nil
	}
	v := *score
	return &v
}
