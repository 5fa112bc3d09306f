package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	clustering "github.com/Nicholas-Eugene/cluster-web-frontend"
	"github.com/Nicholas-Eugene/cluster-web-frontend/api"
	"github.com/Nicholas-Eugene/cluster-web-frontend/internal/output"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <dataset>",
	Short: "Upload a dataset and run clustering",
	Long: `Upload a CSV or Excel dataset (max 10 MB) and cluster it on the backend.

Examples:
  clusterctl upload data.xlsx                          # Fuzzy C-Means, 3 clusters
  clusterctl upload data.csv --algorithm optics --xi 0.1
  clusterctl upload data.xlsx --validate --wait        # Validate first, wait for the result`,
	Args: exactArgs(1),
	RunE: runUpload,
}

var validateCmd = &cobra.Command{
	Use:   "validate <dataset>",
	Short: "Ask the backend to validate a dataset without clustering it",
	Args:  exactArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(uploadCmd, validateCmd)

	addParameterFlags(uploadCmd)
	addWaitFlags(uploadCmd)
	uploadCmd.Flags().Bool("validate", false, "validate the dataset before uploading")
	uploadCmd.Flags().String("metric", clustering.MetricIPM, "metric summarized per cluster")
	uploadCmd.Flags().Bool("json", false, "output the backend reply as JSON")

	validateCmd.Flags().Bool("json", false, "output the backend reply as JSON")
}

func runUpload(cmd *cobra.Command, args []string) error {
	path := args[0]
	validateFirst, _ := cmd.Flags().GetBool("validate")
	wait, _ := cmd.Flags().GetBool("wait")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	params, err := parametersFromFlags(cmd)
	if err != nil {
		return err
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	if validateFirst {
		v, err := validateFile(cmd, client, path)
		if err != nil {
			return err
		}
		if err := reportValidation(v); err != nil {
			return err
		}
	}

	printer.Info("Uploading %s (%s)", filepath.Base(path), params.Algorithm.DisplayName())
	uploaded, err := client.UploadFile(cmd.Context(), path, params)
	if err != nil {
		return backendError("uploading dataset", err)
	}

	result := uploaded.Result
	if result == nil && wait && uploaded.SessionID != "" {
		if _, err := client.WaitForCompletion(cmd.Context(), uploaded.SessionID, waitConfig(cmd)); err != nil {
			return backendError("waiting for clustering", err)
		}
		if result, err = client.GetResults(cmd.Context(), uploaded.SessionID); err != nil {
			return backendError("fetching results", err)
		}
	}

	if jsonOutput {
		return writeRawJSON(cmd.OutOrStdout(), uploaded.Raw, false)
	}

	if uploaded.SessionID != "" {
		printer.Success("Session: %s", uploaded.SessionID)
	} else {
		printer.Success("Dataset processed")
	}
	if result == nil {
		printer.Info("%s", "Processing continues on the backend; check it with 'clusterctl status'")
		return nil
	}

	metric, _ := cmd.Flags().GetString("metric")
	report := clustering.Normalize(result)
	warnDroppedYears(result, report)
	return renderReport(printer, report, report.Years(), metric)
}

func runValidate(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	client, err := newClient()
	if err != nil {
		return err
	}
	v, err := validateFile(cmd, client, args[0])
	if err != nil {
		return err
	}

	if jsonOutput {
		if err := writeRawJSON(cmd.OutOrStdout(), v.Raw, false); err != nil {
			return err
		}
		if !v.Valid {
			return &output.CLIError{Summary: clustering.MsgInvalidFile, ExitCode: output.ExitBackend}
		}
		return nil
	}
	return reportValidation(v)
}

func validateFile(cmd *cobra.Command, client *api.Client, path string) (*api.Validation, error) {
	if err := api.CheckDatasetFile(path); err != nil {
		return nil, backendError("checking dataset", err)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, &output.CLIError{Summary: clustering.MsgFileUploadFailed, Detail: err.Error(), ExitCode: output.ExitGeneral, Err: err}
	}
	defer f.Close()

	v, err := client.ValidateDataset(cmd.Context(), filepath.Base(path), f)
	if err != nil {
		return nil, backendError("validating dataset", err)
	}
	return v, nil
}

func reportValidation(v *api.Validation) error {
	for _, w := range v.Warnings {
		printer.Warning("%s", w)
	}
	for _, e := range v.Errors {
		printer.Error("%s", e)
	}
	if !v.Valid {
		return &output.CLIError{
			Summary:    clustering.MsgInvalidFile,
			Detail:     "the backend rejected the dataset",
			Suggestion: "Fix the listed problems and upload again",
			ExitCode:   output.ExitBackend,
		}
	}
	printer.Success("Dataset is valid")
	return nil
}
