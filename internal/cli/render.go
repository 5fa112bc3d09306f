package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"

	clustering "github.com/Nicholas-Eugene/cluster-web-frontend"
	"github.com/Nicholas-Eugene/cluster-web-frontend/format"
	"github.com/Nicholas-Eugene/cluster-web-frontend/internal/output"
	"github.com/Nicholas-Eugene/cluster-web-frontend/stats"
)

// addResultSourceFlags registers --file and --demo for commands that can
// work without a backend session
func addResultSourceFlags(cmd *cobra.Command) {
	cmd.Flags().String("file", "", "read a saved clustering result (JSON) instead of a session")
	cmd.Flags().Bool("demo", false, "use the built-in demo result")
}

// loadResult resolves the result a command works on: --demo, --file or the
// session given as the first argument
func loadResult(cmd *cobra.Command, args []string) (clustering.Result, string, error) {
	demo, _ := cmd.Flags().GetBool("demo")
	file, _ := cmd.Flags().GetString("file")

	switch {
	case demo:
		return clustering.DemoResult(), "demo", nil

	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, "", &output.CLIError{Summary: clustering.MsgDataLoadFailed, Detail: err.Error(), ExitCode: output.ExitGeneral, Err: err}
		}
		result, err := clustering.DecodeResult(data)
		if err != nil {
			return nil, "", &output.CLIError{Summary: clustering.MsgDataLoadFailed, Detail: err.Error(), ExitCode: output.ExitGeneral, Err: err}
		}
		return result, "", nil

	case len(args) == 0:
		return nil, "", usageError("a session ID, --file or --demo is required", "")
	}

	client, err := newClient()
	if err != nil {
		return nil, "", err
	}
	result, err := client.GetResults(cmd.Context(), args[0])
	if err != nil {
		return nil, "", backendError("fetching results", err)
	}
	return result, args[0], nil
}

// selectYears returns the years to show: all of them, or the one asked for
func selectYears(report clustering.NormalizedReport, year string) ([]string, error) {
	years := report.Years()
	if year == "" {
		return years, nil
	}
	if !slices.Contains(years, year) {
		return nil, usageError(fmt.Sprintf("year %s is not in the result", year), fmt.Sprintf("Available years: %v", years))
	}
	return []string{year}, nil
}

// warnDroppedYears reports years whose clustering run failed on the backend
func warnDroppedYears(raw clustering.Result, report clustering.NormalizedReport) {
	perYear, ok := raw.(*clustering.PerYearResult)
	if !ok {
		return
	}
	for _, year := range clustering.DroppedYears(perYear, report) {
		msg := perYear.ResultsPerYear[clustering.Year(year)].Error
		printer.Warning("Year %s skipped: %s", year, msg)
	}
}

// renderReport prints the evaluation and cluster table of each selected year
func renderReport(p *output.Printer, report clustering.NormalizedReport, years []string, metric string) error {
	p.Info("Algorithm: %s", report.Algorithm)
	if len(years) == 0 {
		p.Warning("The result contains no years")
		return nil
	}

	for _, year := range years {
		yr := report.YearlyResults[year]
		p.Header("Tahun " + year)

		db, sil := yr.Evaluation.DaviesBouldin, yr.Evaluation.SilhouetteScore
		p.Print("Davies-Bouldin: %s %s", format.Score(db), p.QualityBadge(format.DaviesBouldinQuality(db)))
		p.Print("Silhouette:     %s %s", format.Score(sil), p.QualityBadge(format.SilhouetteQuality(sil)))
		p.Print("Wilayah:        %d", len(yr.Data))

		table := p.NewTable("Cluster", "Warna", "Jumlah", "Rata-rata "+clustering.FormatMetricLabel(metric), "Median", "Membership")
		index := 0
		for _, c := range yr.Clusters {
			swatch := "-"
			if !c.IsNoise() {
				swatch = p.Swatch(clustering.ClusterColor(index))
				index++
			}

			values := clustering.ClusterMetricValues(c, metric)
			mean, median := format.NotAvailable, format.NotAvailable
			if len(values) > 0 {
				s := stats.Calculate(values)
				mean = format.MetricValue(metric, s.Mean)
				median = format.MetricValue(metric, s.Median)
			}

			membership := "-"
			if m, ok := stats.MeanMembership(c); ok {
				membership = format.Number(m, 2)
			}

			table.AddRow(c.Label(), swatch, strconv.Itoa(c.Size), mean, median, membership)
		}
		if err := table.Render(); err != nil {
			return fmt.Errorf("rendering cluster table: %w", err)
		}
	}
	return nil
}

// writeJSON writes v as indented JSON
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeRawJSON pretty prints a backend JSON body, colored when the printer is
func writeRawJSON(w io.Writer, raw []byte, colored bool) error {
	out := pretty.Pretty(raw)
	if colored {
		out = pretty.Color(out, nil)
	}
	_, err := w.Write(out)
	return err
}
