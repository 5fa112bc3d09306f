package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Nicholas-Eugene/cluster-web-frontend/api"
	"github.com/Nicholas-Eugene/cluster-web-frontend/internal/backoff"
)

var statusCmd = &cobra.Command{
	Use:   "status <session-id>",
	Short: "Show the processing state of a session",
	Long: `Show whether the backend has finished clustering a session.

Examples:
  clusterctl status 3f2a9c            # Current state
  clusterctl status 3f2a9c --wait     # Poll until completed or failed
  clusterctl status 3f2a9c --json     # Raw backend reply`,
	Args: exactArgs(1),
	RunE: runStatus,
}

var yearsCmd = &cobra.Command{
	Use:   "years <session-id>",
	Short: "List the years available in a session",
	Args:  exactArgs(1),
	RunE:  runYears,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a session and its data from the backend",
	Args:  exactArgs(1),
	RunE:  runDelete,
}

func init() {
	rootCmd.AddCommand(statusCmd, yearsCmd, deleteCmd)

	statusCmd.Flags().Bool("json", false, "output the backend reply as JSON")
	addWaitFlags(statusCmd)

	yearsCmd.Flags().Bool("json", false, "output as JSON")
}

// addWaitFlags registers the polling flags used by status and upload
func addWaitFlags(cmd *cobra.Command) {
	d := backoff.DefaultConfig()
	cmd.Flags().Bool("wait", false, "poll until processing completes")
	cmd.Flags().Int("attempts", d.MaxAttempts, "maximum status polls with --wait")
	cmd.Flags().Duration("interval", d.BaseDelay, "initial delay between polls")
	cmd.Flags().Duration("max-interval", d.MaxDelay, "longest delay between polls")
}

func waitConfig(cmd *cobra.Command) backoff.Config {
	c := backoff.DefaultConfig()
	c.MaxAttempts, _ = cmd.Flags().GetInt("attempts")
	c.BaseDelay, _ = cmd.Flags().GetDuration("interval")
	c.MaxDelay, _ = cmd.Flags().GetDuration("max-interval")
	return c
}

func runStatus(cmd *cobra.Command, args []string) error {
	wait, _ := cmd.Flags().GetBool("wait")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	client, err := newClient()
	if err != nil {
		return err
	}

	var status *api.Status
	if wait {
		printer.Info("Waiting for session %s", args[0])
		status, err = client.WaitForCompletion(cmd.Context(), args[0], waitConfig(cmd))
	} else {
		status, err = client.GetStatus(cmd.Context(), args[0])
	}
	if err != nil {
		return backendError("checking status", err)
	}

	if jsonOutput {
		return writeRawJSON(cmd.OutOrStdout(), status.Raw, false)
	}
	printStatus(status)
	if status.Failed() {
		return backendError("clustering failed", &api.APIError{Message: failureMessage(status)})
	}
	return nil
}

func printStatus(status *api.Status) {
	state := status.State
	if state == "" {
		state = "unknown"
	}
	switch {
	case status.Done():
		printer.Success("Status: %s", state)
	case status.Failed():
		printer.Error("Status: %s", state)
	default:
		printer.Info("Status: %s (%.0f%%)", state, status.Progress)
	}
	if status.Message != "" {
		printer.Print("%s", status.Message)
	}
}

func failureMessage(status *api.Status) string {
	if status.Message != "" {
		return status.Message
	}
	return "Clustering failed"
}

func runYears(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	client, err := newClient()
	if err != nil {
		return err
	}
	years, err := client.GetAvailableYears(cmd.Context(), args[0])
	if err != nil {
		return backendError("listing years", err)
	}

	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), years)
	}
	if len(years) == 0 {
		printer.Warning("No years available")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), strings.Join(years, "\n"))
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	start := time.Now()
	if err := client.DeleteSession(cmd.Context(), args[0]); err != nil {
		return backendError("deleting session", err)
	}
	logger.Debug("session deleted", "session_id", args[0], "elapsed", time.Since(start))
	printer.Success("Session %s deleted", args[0])
	return nil
}
