package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	clustering "github.com/Nicholas-Eugene/cluster-web-frontend"
	"github.com/Nicholas-Eugene/cluster-web-frontend/api"
	"github.com/Nicholas-Eugene/cluster-web-frontend/export"
)

// Local formats; everything else goes through the backend export endpoint
const (
	formatPDF  = "pdf"
	formatXLSX = "xlsx"
)

var exportCmd = &cobra.Command{
	Use:   "export [session-id]",
	Short: "Download reports and exports of a result",
	Long: `Save a result as PDF, CSV, JSON or Excel.

pdf    PDF report rendered by the backend
csv    backend CSV export
json   backend JSON export
excel  backend Excel export
xlsx   workbook built locally from the normalized result

With --file or --demo only pdf and xlsx are available.

Examples:
  clusterctl export 3f2a9c                          # PDF report
  clusterctl export 3f2a9c --format csv,json,excel  # Several backend exports
  clusterctl export --demo --format xlsx --dir out  # Local workbook of the demo`,
	Args: maxArgs(1),
	RunE: runExport,
}

var reportCmd = &cobra.Command{
	Use:   "report <session-id>",
	Short: "Ask the backend to generate a report for a session",
	Args:  exactArgs(1),
	RunE:  runReport,
}

func init() {
	rootCmd.AddCommand(exportCmd, reportCmd)

	exportCmd.Flags().StringSliceP("format", "f", nil, "formats: pdf, csv, json, excel, xlsx (default pdf)")
	exportCmd.Flags().String("dir", "", "output directory (default export.dir)")
	exportCmd.Flags().String("mode", "", "report mode used in PDF filenames (default export.mode)")
	addResultSourceFlags(exportCmd)

	reportCmd.Flags().String("report-format", formatPDF, "report format")
	reportCmd.Flags().Bool("charts", true, "include charts")
	reportCmd.Flags().Bool("metrics", true, "include evaluation metrics")
	reportCmd.Flags().StringSlice("year", nil, "only include these years")
	reportCmd.Flags().String("dir", "", "output directory (default export.dir)")
}

type exportPlan struct {
	pdf     bool
	xlsx    bool
	backend []api.ExportFormat
}

func parseFormats(values []string) (exportPlan, error) {
	var plan exportPlan
	for _, v := range values {
		name := strings.ToLower(strings.TrimSpace(v))
		switch name {
		case "":
			continue
		case formatPDF:
			plan.pdf = true
		case formatXLSX:
			plan.xlsx = true
		default:
			f, ok := api.ParseExportFormat(name)
			if !ok {
				return plan, usageError(fmt.Sprintf("unknown export format %q", v), "Use pdf, csv, json, excel or xlsx")
			}
			plan.backend = append(plan.backend, f)
		}
	}
	if !plan.pdf && !plan.xlsx && len(plan.backend) == 0 {
		return plan, usageError("no export format given", "")
	}
	return plan, nil
}

func runExport(cmd *cobra.Command, args []string) error {
	values, _ := cmd.Flags().GetStringSlice("format")
	if !cmd.Flags().Changed("format") {
		values = []string{formatPDF}
	}
	dir, _ := cmd.Flags().GetString("dir")
	mode, _ := cmd.Flags().GetString("mode")
	file, _ := cmd.Flags().GetString("file")
	demo, _ := cmd.Flags().GetBool("demo")
	if mode == "" {
		mode = cfg.Export.Mode
	}

	plan, err := parseFormats(values)
	if err != nil {
		return err
	}
	local := demo || file != ""
	if local && len(plan.backend) > 0 {
		return usageError("backend exports need a session ID", "Drop --file/--demo or export pdf and xlsx only")
	}
	if !local && len(args) == 0 {
		return usageError("a session ID, --file or --demo is required", "")
	}

	client, err := newClient()
	if err != nil {
		return err
	}
	d, sink, err := newDispatcher(client, dir)
	if err != nil {
		return err
	}

	var result clustering.Result
	if local || plan.xlsx {
		if result, _, err = loadResult(cmd, args); err != nil {
			return err
		}
	}

	var saved []string
	if plan.pdf {
		var name string
		if local {
			name, err = d.SaveResultPDF(cmd.Context(), result)
		} else {
			name, err = d.DownloadAndSave(cmd.Context(), args[0], mode)
		}
		if err != nil {
			return backendError("downloading PDF report", err)
		}
		saved = append(saved, name)
	}

	if len(plan.backend) > 0 {
		names, err := d.SaveExports(cmd.Context(), args[0], plan.backend...)
		if err != nil {
			return backendError("exporting results", err)
		}
		saved = append(saved, names...)
	}

	if plan.xlsx {
		name, err := d.SaveWorkbook(result, workbookName(args))
		if err != nil {
			return backendError("writing workbook", err)
		}
		saved = append(saved, name)
	}

	for _, name := range saved {
		printer.Success("Saved %s", sink.Path(name))
	}
	return nil
}

func workbookName(args []string) string {
	if len(args) == 0 {
		return "clustering_results.xlsx"
	}
	return fmt.Sprintf("clustering_results_%s.xlsx", args[0])
}

func runReport(cmd *cobra.Command, args []string) error {
	opts := api.ReportOptions{}
	opts.Format, _ = cmd.Flags().GetString("report-format")
	opts.IncludeCharts, _ = cmd.Flags().GetBool("charts")
	opts.IncludeMetrics, _ = cmd.Flags().GetBool("metrics")
	opts.Years, _ = cmd.Flags().GetStringSlice("year")
	dir, _ := cmd.Flags().GetString("dir")
	if dir == "" {
		dir = cfg.Export.Dir
	}

	client, err := newClient()
	if err != nil {
		return err
	}
	artifact, err := client.GenerateReport(cmd.Context(), args[0], opts)
	if err != nil {
		return backendError("generating report", err)
	}

	sink := export.NewFileSink(dir)
	if err := sink.Save(artifact.Data, artifact.Filename); err != nil {
		return backendError("saving report", err)
	}
	printer.Success("Saved %s", sink.Path(artifact.Filename))
	return nil
}
