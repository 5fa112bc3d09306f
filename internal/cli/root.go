// Package cli contains the clusterctl command tree
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Nicholas-Eugene/cluster-web-frontend/api"
	"github.com/Nicholas-Eugene/cluster-web-frontend/export"
	"github.com/Nicholas-Eugene/cluster-web-frontend/internal/config"
	"github.com/Nicholas-Eugene/cluster-web-frontend/internal/logging"
	"github.com/Nicholas-Eugene/cluster-web-frontend/internal/output"
)

var (
	cfgFile   string
	apiURL    string
	verbose   bool
	quiet     bool
	colorFlag string
	cfg       *config.Config
	logger    *slog.Logger
	printer   *output.Printer
	version   = "dev"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "clusterctl",
	Short: "Client for the regional clustering analysis backend",
	Long: `clusterctl uploads regional welfare datasets to the clustering backend,
follows the analysis and turns the results into tables, charts and reports.

Example usage:
  clusterctl upload data.xlsx --algorithm optics --wait
  clusterctl results <session-id> --metric garis_kemiskinan
  clusterctl export <session-id> --format pdf,xlsx --dir reports
  clusterctl chart --demo --kind boxplot --metric ipm
  clusterctl watch data.csv`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},
}

// Execute runs the command tree with ctx
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	version = v
}

// PrintError reports err on stderr in the configured style
func PrintError(err error) {
	p := printer
	if p == nil {
		p = output.NewPrinter(nil, nil, false, false)
	}
	p.FormatError(err)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .clusterctl.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "backend API root (overrides api.base_url)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only print results and errors")
	rootCmd.PersistentFlags().StringVar(&colorFlag, "color", "auto", "color output: auto, always or never")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError(err.Error(), "Run '"+cmd.CommandPath()+" --help' for usage")
	})
}

// initConfig loads configuration and sets up the logger and printer
func initConfig(cmd *cobra.Command) error {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		return &output.CLIError{
			Summary:    "Failed to load configuration",
			Detail:     err.Error(),
			Suggestion: "Check .clusterctl.yaml and the CLUSTERCTL_* environment variables",
			ExitCode:   output.ExitConfigError,
			Err:        err,
		}
	}
	if apiURL != "" {
		loaded.API.BaseURL = apiURL
	}
	cfg = loaded

	logger, err = logging.New(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format, verbose)
	if err != nil {
		return &output.CLIError{Summary: "Invalid logging configuration", Detail: err.Error(), ExitCode: output.ExitConfigError, Err: err}
	}

	mode, err := output.ParseColorMode(colorFlag)
	if err != nil {
		return usageError(err.Error(), "")
	}
	printer = output.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.ResolveColors(mode, cfg.Output.Colors), quiet)

	logger.Debug("configuration loaded",
		"base_url", cfg.API.BaseURL,
		"export_dir", cfg.Export.Dir,
		"request_timeout", cfg.API.RequestTimeout,
	)
	return nil
}

// newClient builds an API client from the loaded configuration
func newClient() (*api.Client, error) {
	client, err := api.NewClient(api.Config{
		BaseURL:         cfg.API.BaseURL,
		AuthToken:       cfg.API.AuthToken,
		RequestTimeout:  cfg.API.RequestTimeout,
		ArtifactTimeout: cfg.API.ArtifactTimeout,
		Logger:          logger,
		DumpDir:         cfg.API.DumpDir,
	})
	if err != nil {
		return nil, &output.CLIError{
			Summary:    "Invalid API configuration",
			Detail:     err.Error(),
			Suggestion: "Set api.base_url or " + api.EnvBaseURL + " to an http(s) URL",
			ExitCode:   output.ExitConfigError,
			Err:        err,
		}
	}
	return client, nil
}

// newDispatcher builds an export dispatcher saving into dir, or the
// configured export directory when dir is empty
func newDispatcher(source export.ArtifactSource, dir string) (*export.Dispatcher, *export.FileSink, error) {
	if dir == "" {
		dir = cfg.Export.Dir
	}
	sink := export.NewFileSink(dir)
	d, err := export.NewDispatcher(export.Config{Source: source, Sink: sink, Logger: logger})
	if err != nil {
		return nil, nil, fmt.Errorf("creating export dispatcher: %w", err)
	}
	return d, sink, nil
}
