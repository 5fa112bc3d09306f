package cli

import (
	"context"
	"errors"
	"sync"

	"github.com/spf13/cobra"

	clustering "github.com/Nicholas-Eugene/cluster-web-frontend"
	"github.com/Nicholas-Eugene/cluster-web-frontend/api"
	"github.com/Nicholas-Eugene/cluster-web-frontend/internal/debounce"
	"github.com/Nicholas-Eugene/cluster-web-frontend/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch <dataset>",
	Short: "Re-upload a dataset every time it is saved",
	Long: `Watch a dataset file and upload it again after each save, printing the
new result. Bursts of writes within --debounce are collapsed into one upload.
Stop with Ctrl-C.

Examples:
  clusterctl watch data.xlsx
  clusterctl watch data.csv --algorithm optics --debounce 1s`,
	Args: exactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	addParameterFlags(watchCmd)
	watchCmd.Flags().Duration("debounce", debounce.DefaultWait, "quiet period after the last write")
	watchCmd.Flags().String("metric", clustering.MetricIPM, "metric summarized per cluster")
	watchCmd.Flags().Bool("now", false, "upload once before waiting for changes")
}

func runWatch(cmd *cobra.Command, args []string) error {
	params, err := parametersFromFlags(cmd)
	if err != nil {
		return err
	}
	wait, _ := cmd.Flags().GetDuration("debounce")
	metric, _ := cmd.Flags().GetString("metric")
	now, _ := cmd.Flags().GetBool("now")

	if err := api.CheckDatasetFile(args[0]); err != nil {
		return backendError("checking dataset", err)
	}
	client, err := newClient()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	var mu sync.Mutex
	upload := func(path string) {
		mu.Lock()
		defer mu.Unlock()

		printer.Info("Uploading %s", path)
		uploaded, err := client.UploadFile(ctx, path, params)
		if err != nil {
			printer.FormatError(backendError("uploading dataset", err))
			return
		}
		if uploaded.SessionID != "" {
			printer.Success("Session: %s", uploaded.SessionID)
		}
		if uploaded.Result == nil {
			return
		}
		report := clustering.Normalize(uploaded.Result)
		warnDroppedYears(uploaded.Result, report)
		if err := renderReport(printer, report, report.Years(), metric); err != nil {
			printer.FormatError(err)
		}
	}

	w, err := watch.New(args[0], wait, upload, logger)
	if err != nil {
		return err
	}
	defer w.Close()

	if now {
		upload(w.Path())
	}

	printer.Info("Watching %s", w.Path())
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
