package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	clustering "github.com/Nicholas-Eugene/cluster-web-frontend"
	"github.com/Nicholas-Eugene/cluster-web-frontend/internal/output"
)

var (
	commit    = "unknown"
	buildTime = "unknown"
)

// SetBuildInfo sets the commit hash and build time
func SetBuildInfo(c, bt string) {
	commit = c
	buildTime = bt
}

type versionInfo struct {
	Version    string   `json:"version"`
	Commit     string   `json:"commit"`
	Built      string   `json:"built"`
	GoVersion  string   `json:"goVersion"`
	Platform   string   `json:"platform"`
	APIURL     string   `json:"apiUrl"`
	Algorithms []string `json:"algorithms"`
}

func currentVersion() versionInfo {
	info := versionInfo{
		Version:   version,
		Commit:    commit,
		Built:     buildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if cfg != nil {
		info.APIURL = cfg.API.BaseURL
	}
	for _, a := range []clustering.Algorithm{clustering.AlgorithmFCM, clustering.AlgorithmOPTICS} {
		info.Algorithms = append(info.Algorithms, fmt.Sprintf("%s (%s)", a, a.DisplayName()))
	}
	return info
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and backend information",
	Long:  `Print the clusterctl build, the backend it talks to and the algorithms it can request.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		short, _ := cmd.Flags().GetBool("short")
		jsonOutput, _ := cmd.Flags().GetBool("json")
		info := currentVersion()

		switch {
		case short:
			fmt.Fprintln(cmd.OutOrStdout(), info.Version)
			return nil
		case jsonOutput:
			return writeJSON(cmd.OutOrStdout(), info)
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "clusterctl version %s\n\n", info.Version)

		table := output.NewTableWithWriter(w, "Field", "Value")
		table.AddRow("commit", info.Commit)
		table.AddRow("built", info.Built)
		table.AddRow("go version", info.GoVersion)
		table.AddRow("platform", info.Platform)
		table.AddRow("api url", info.APIURL)
		for _, a := range info.Algorithms {
			table.AddRow("algorithm", a)
		}
		return table.Render()
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().Bool("short", false, "print version string only")
	versionCmd.Flags().Bool("json", false, "output as JSON")
}
