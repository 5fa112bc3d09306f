package cli

import (
	"github.com/spf13/cobra"

	clustering "github.com/Nicholas-Eugene/cluster-web-frontend"
)

var resultsCmd = &cobra.Command{
	Use:   "results [session-id]",
	Short: "Show the clustering result of a session",
	Long: `Fetch a session's result, normalize it and print one cluster table per year.

Examples:
  clusterctl results 3f2a9c                     # All years
  clusterctl results 3f2a9c --year 2022         # One year
  clusterctl results --file result.json --json  # Normalized report as JSON`,
	Args: maxArgs(1),
	RunE: runResults,
}

var rerunCmd = &cobra.Command{
	Use:   "rerun <session-id>",
	Short: "Cluster an uploaded dataset again with new parameters",
	Long: `Run clustering again on the dataset of an existing session.

Examples:
  clusterctl rerun 3f2a9c --clusters 4
  clusterctl rerun 3f2a9c --algorithm optics --min-samples 3`,
	Args: exactArgs(1),
	RunE: runRerun,
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Show the built-in demo result",
	Long:  `Render the demo Fuzzy C-Means result shown before any dataset is uploaded.`,
	Args:  exactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		return showResult(cmd, clustering.DemoResult())
	},
}

func init() {
	rootCmd.AddCommand(resultsCmd, rerunCmd, demoCmd)

	for _, c := range []*cobra.Command{resultsCmd, rerunCmd, demoCmd} {
		c.Flags().String("year", "", "only show this year")
		c.Flags().String("metric", clustering.MetricIPM, "metric summarized per cluster")
		c.Flags().Bool("json", false, "output the normalized report as JSON")
	}
	addResultSourceFlags(resultsCmd)
	addParameterFlags(rerunCmd)
}

func runResults(cmd *cobra.Command, args []string) error {
	result, _, err := loadResult(cmd, args)
	if err != nil {
		return err
	}
	return showResult(cmd, result)
}

func runRerun(cmd *cobra.Command, args []string) error {
	params, err := parametersFromFlags(cmd)
	if err != nil {
		return err
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	printer.Info("Re-running %s on session %s", params.Algorithm.DisplayName(), args[0])
	result, err := client.RerunClustering(cmd.Context(), args[0], params)
	if err != nil {
		return backendError("re-running clustering", err)
	}
	return showResult(cmd, result)
}

// showResult normalizes result and prints it as a table or JSON
func showResult(cmd *cobra.Command, result clustering.Result) error {
	year, _ := cmd.Flags().GetString("year")
	metric, _ := cmd.Flags().GetString("metric")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	report := clustering.Normalize(result)
	years, err := selectYears(report, year)
	if err != nil {
		return err
	}

	if jsonOutput {
		if year != "" {
			report.YearlyResults = map[string]clustering.YearReport{year: report.YearlyResults[year]}
		}
		return writeJSON(cmd.OutOrStdout(), report)
	}

	warnDroppedYears(result, report)
	return renderReport(printer, report, years, metric)
}
