package cli

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"gonum.org/v1/plot"

	clustering "github.com/Nicholas-Eugene/cluster-web-frontend"
	"github.com/Nicholas-Eugene/cluster-web-frontend/chart"
	"github.com/Nicholas-Eugene/cluster-web-frontend/export"
)

const (
	chartSizes   = "sizes"
	chartBoxPlot = "boxplot"
)

var chartCmd = &cobra.Command{
	Use:   "chart [session-id]",
	Short: "Render PNG charts of a result",
	Long: `Render one PNG per year: cluster sizes, or the spread of a metric per cluster.

Examples:
  clusterctl chart 3f2a9c                              # Cluster sizes, every year
  clusterctl chart 3f2a9c --kind boxplot --metric ipm  # IPM spread per cluster
  clusterctl chart --demo --dir charts`,
	Args: maxArgs(1),
	RunE: runChart,
}

func init() {
	rootCmd.AddCommand(chartCmd)

	chartCmd.Flags().String("kind", chartSizes, "chart kind: sizes or boxplot")
	chartCmd.Flags().String("metric", clustering.MetricIPM, "metric for boxplot charts")
	chartCmd.Flags().String("year", "", "only render this year")
	chartCmd.Flags().String("dir", "", "output directory (default export.dir)")
	addResultSourceFlags(chartCmd)
}

func runChart(cmd *cobra.Command, args []string) error {
	kind, _ := cmd.Flags().GetString("kind")
	metric, _ := cmd.Flags().GetString("metric")
	year, _ := cmd.Flags().GetString("year")
	dir, _ := cmd.Flags().GetString("dir")
	if dir == "" {
		dir = cfg.Export.Dir
	}

	if kind != chartSizes && kind != chartBoxPlot {
		return usageError(fmt.Sprintf("unknown chart kind %q", kind), "Use sizes or boxplot")
	}

	result, _, err := loadResult(cmd, args)
	if err != nil {
		return err
	}
	report := clustering.Normalize(result)
	years, err := selectYears(report, year)
	if err != nil {
		return err
	}

	sink := export.NewFileSink(dir)
	written := 0
	for _, y := range years {
		p, name, err := buildChart(kind, metric, y, report.YearlyResults[y])
		if errors.Is(err, chart.ErrNoData) {
			printer.Warning("Nothing to plot for %s", y)
			continue
		}
		if err != nil {
			return fmt.Errorf("building chart for %s: %w", y, err)
		}

		var buf bytes.Buffer
		if err := chart.WritePNG(p, &buf); err != nil {
			return fmt.Errorf("rendering chart for %s: %w", y, err)
		}
		if err := sink.Save(buf.Bytes(), name); err != nil {
			return fmt.Errorf("saving chart: %w", err)
		}
		printer.Success("Saved %s", sink.Path(name))
		written++
	}

	if written == 0 {
		printer.Warning("No charts written")
	}
	return nil
}

func buildChart(kind, metric, year string, yr clustering.YearReport) (*plot.Plot, string, error) {
	if kind == chartBoxPlot {
		p, err := chart.MetricBoxPlot(year, yr, metric)
		return p, fmt.Sprintf("%s_%s.png", metric, year), err
	}
	p, err := chart.ClusterSizes(year, yr)
	return p, fmt.Sprintf("cluster_sizes_%s.png", year), err
}
