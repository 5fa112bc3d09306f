package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	clustering "github.com/Nicholas-Eugene/cluster-web-frontend"
)

var clusterCmd = &cobra.Command{
	Use:   "cluster <session-id> <cluster-id>",
	Short: "Show the backend details of one cluster",
	Long: `Print the members and statistics the backend keeps for one cluster.
The OPTICS noise cluster is -1; put -- before the arguments so it is not
read as a flag:
  clusterctl cluster -- 3f2a9c -1`,
	Args: exactArgs(2),
	RunE: runCluster,
}

var evaluationCmd = &cobra.Command{
	Use:   "evaluation <session-id>",
	Short: "Show the evaluation metrics of a session",
	Args:  exactArgs(1),
	RunE:  runEvaluation,
}

var geographyCmd = &cobra.Command{
	Use:   "geography <session-id>",
	Short: "Show the map data of a session's regions",
	Args:  exactArgs(1),
	RunE:  runGeography,
}

func init() {
	rootCmd.AddCommand(clusterCmd, evaluationCmd, geographyCmd)
}

func runCluster(cmd *cobra.Command, args []string) error {
	id := clustering.StringClusterID(args[1])
	if n, err := strconv.Atoi(args[1]); err == nil {
		id = clustering.IntClusterID(n)
	}

	client, err := newClient()
	if err != nil {
		return err
	}
	raw, err := client.GetClusterDetails(cmd.Context(), args[0], id)
	if err != nil {
		return backendError("fetching cluster details", err)
	}
	return writeRawJSON(cmd.OutOrStdout(), raw, printer.Colors())
}

func runEvaluation(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	raw, err := client.GetEvaluationMetrics(cmd.Context(), args[0])
	if err != nil {
		return backendError("fetching evaluation metrics", err)
	}
	return writeRawJSON(cmd.OutOrStdout(), raw, printer.Colors())
}

func runGeography(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	raw, err := client.GetGeographicalData(cmd.Context(), args[0])
	if err != nil {
		return backendError("fetching geographical data", err)
	}
	return writeRawJSON(cmd.OutOrStdout(), raw, printer.Colors())
}
