package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clustering "github.com/Nicholas-Eugene/cluster-web-frontend"
	"github.com/Nicholas-Eugene/cluster-web-frontend/internal/output"
	"github.com/Nicholas-Eugene/cluster-web-frontend/pkg/testutil"
)

const perYearBody = `{
	"clustering_type": "per_year",
	"overall_summary": {"algorithm": "OPTICS"},
	"results_per_year": {
		"2021": {
			"data_with_clusters": [{"kabupaten_kota": "Bandung", "ipm": 75.2}],
			"davies_bouldin_score": 1.2,
			"silhouette_score": 0.4,
			"clusters": [
				{"id": 0, "members": [{"kabupaten_kota": "Bandung", "ipm": 75.2}, {"kabupaten_kota": "Cimahi", "ipm": 74.1}]},
				{"id": -1, "members": [{"kabupaten_kota": "Nias", "ipm": 60.1}]}
			]
		},
		"2022": {"error": "Data tidak cukup"}
	}
}`

// resetFlags restores every flag of the tree to its default so state does
// not leak between executions of the shared rootCmd. Slice values remember
// that they were set and append on the next Set, so they are rebuilt.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if f.Value.Type() == "stringSlice" {
			def := strings.Trim(f.DefValue, "[]")
			var values []string
			if def != "" {
				values = strings.Split(def, ",")
			}
			fresh := pflag.NewFlagSet(f.Name, pflag.ContinueOnError)
			fresh.StringSlice(f.Name, values, f.Usage)
			f.Value = fresh.Lookup(f.Name).Value
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("NO_COLOR", "1")

	resetFlags(rootCmd)
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append([]string{"--color", "never"}, args...))

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func newBackend(t *testing.T) *testutil.FakeBackend {
	t.Helper()
	b := testutil.NewFakeBackend()
	t.Cleanup(b.Close)
	return b
}

func writeDataset(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("kabupaten_kota,tahun,ipm\nBandung,2021,75.2\n"), 0o644))
	return path
}

func exitCode(err error) int {
	return output.ExitCodeOf(err)
}

func TestRootCmd_SubcommandsList(t *testing.T) {
	out, _, err := execute(t, "--help")
	require.NoError(t, err)

	for _, name := range []string{"upload", "validate", "status", "results", "years", "rerun", "cluster",
		"evaluation", "geography", "delete", "export", "report", "chart", "watch", "demo", "version"} {
		assert.Contains(t, out, name)
	}
}

func TestRootCmd_UnknownFlag(t *testing.T) {
	_, _, err := execute(t, "demo", "--no-such-flag")
	require.Error(t, err)
	assert.Equal(t, output.ExitUsageError, exitCode(err))
}

func TestRootCmd_MissingConfigFile(t *testing.T) {
	_, _, err := execute(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "demo")
	require.Error(t, err)
	assert.Equal(t, output.ExitConfigError, exitCode(err))
}

func TestDemo(t *testing.T) {
	out, _, err := execute(t, "demo")
	require.NoError(t, err)

	assert.Contains(t, out, "Algorithm: Fuzzy C-Means")
	assert.Contains(t, out, "0,8234 [excellent]")
	assert.Contains(t, out, "0,6789 [good]")
	assert.Contains(t, out, "Cluster 2")
	assert.Contains(t, out, clustering.ClusterColor(0))
}

func TestDemoJSON(t *testing.T) {
	out, _, err := execute(t, "demo", "--json")
	require.NoError(t, err)

	var report clustering.NormalizedReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "Fuzzy C-Means", report.Algorithm)
	require.Len(t, report.YearlyResults, 1)
	for _, yr := range report.YearlyResults {
		assert.Len(t, yr.Clusters, 3)
	}
}

func TestResults(t *testing.T) {
	b := newBackend(t)
	b.JSON(http.MethodGet, "results/abc/", http.StatusOK, perYearBody)

	out, errOut, err := execute(t, "--api-url", b.URL(), "results", "abc")
	require.NoError(t, err)

	assert.Contains(t, out, "Algorithm: OPTICS")
	assert.Contains(t, out, "Tahun 2021")
	assert.NotContains(t, out, "Tahun 2022")
	assert.Contains(t, out, clustering.NoiseClusterLabel)
	assert.Contains(t, out, "1,2000 [good]")
	assert.Contains(t, errOut, "Year 2022 skipped: Data tidak cukup")
}

func TestResults_UnknownYear(t *testing.T) {
	b := newBackend(t)
	b.JSON(http.MethodGet, "results/abc/", http.StatusOK, perYearBody)

	_, _, err := execute(t, "--api-url", b.URL(), "results", "abc", "--year", "1999")
	require.Error(t, err)
	assert.Equal(t, output.ExitUsageError, exitCode(err))
}

func TestResults_NeedsSource(t *testing.T) {
	_, _, err := execute(t, "results")
	require.Error(t, err)
	assert.Equal(t, output.ExitUsageError, exitCode(err))
}

func TestResults_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.json")
	require.NoError(t, os.WriteFile(path, []byte(perYearBody), 0o644))

	out, _, err := execute(t, "results", "--file", path, "--year", "2021", "--json")
	require.NoError(t, err)

	var report clustering.NormalizedReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, []string{"2021"}, report.Years())
}

func TestResults_BackendError(t *testing.T) {
	b := newBackend(t)

	_, _, err := execute(t, "--api-url", b.URL(), "results", "gone")
	require.Error(t, err)
	assert.Equal(t, output.ExitBackend, exitCode(err))

	var cliErr *output.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Contains(t, cliErr.Detail, "HTTP 404")
}

func TestStatus(t *testing.T) {
	b := newBackend(t)
	b.JSON(http.MethodGet, "status/abc/", http.StatusOK, `{"status": "completed", "progress": 100}`)

	out, _, err := execute(t, "--api-url", b.URL(), "status", "abc")
	require.NoError(t, err)
	assert.Contains(t, out, "[OK] Status: completed")
}

func TestStatus_Wait(t *testing.T) {
	b := newBackend(t)
	var polls atomic.Int32
	b.Handle(http.MethodGet, "status/abc/", func(w http.ResponseWriter, r *http.Request) {
		state := "processing"
		if polls.Add(1) >= 3 {
			state = "completed"
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"status": "`+state+`"}`)
	})

	out, _, err := execute(t, "--api-url", b.URL(), "status", "abc", "--wait", "--interval", "1ms", "--max-interval", "2ms")
	require.NoError(t, err)
	assert.Contains(t, out, "Status: completed")
	assert.Equal(t, int32(3), polls.Load())
}

func TestStatus_Failed(t *testing.T) {
	b := newBackend(t)
	b.JSON(http.MethodGet, "status/abc/", http.StatusOK, `{"status": "failed", "error": "Kolom ipm tidak ditemukan"}`)

	_, errOut, err := execute(t, "--api-url", b.URL(), "status", "abc")
	require.Error(t, err)
	assert.Equal(t, output.ExitBackend, exitCode(err))
	assert.Equal(t, "Kolom ipm tidak ditemukan", err.Error())
	assert.Contains(t, errOut, "[ERROR] Status: failed")
}

func TestYears(t *testing.T) {
	b := newBackend(t)
	b.JSON(http.MethodGet, "years/abc/", http.StatusOK, `{"years": [2022, 2020, 2021]}`)

	out, _, err := execute(t, "--api-url", b.URL(), "years", "abc")
	require.NoError(t, err)
	assert.Equal(t, "2020\n2021\n2022\n", out)
}

func TestDelete(t *testing.T) {
	b := newBackend(t)
	b.JSON(http.MethodDelete, "session/abc/", http.StatusOK, `{"message": "deleted"}`)

	out, _, err := execute(t, "--api-url", b.URL(), "delete", "abc")
	require.NoError(t, err)
	assert.Contains(t, out, "Session abc deleted")
	assert.Contains(t, b.Calls(), "DELETE session/abc/")
}

func TestUpload(t *testing.T) {
	b := newBackend(t)
	fields := make(chan map[string]string, 1)
	b.Handle(http.MethodPost, "upload/", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		fields <- map[string]string{
			"algorithm": r.FormValue("algorithm"),
			"xi":        r.FormValue("xi"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"session_id": "s1", "results": `+perYearBody+`}`)
	})

	path := writeDataset(t, "data.csv")
	out, _, err := execute(t, "--api-url", b.URL(), "upload", path, "--algorithm", "optics", "--xi", "0.1")
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"algorithm": "optics", "xi": "0.1"}, <-fields)
	assert.Contains(t, out, "Session: s1")
	assert.Contains(t, out, "Tahun 2021")
}

func TestUpload_WaitsForResult(t *testing.T) {
	b := newBackend(t)
	b.JSON(http.MethodPost, "upload/", http.StatusOK, `{"session_id": "s2"}`)
	b.JSON(http.MethodGet, "status/s2/", http.StatusOK, `{"status": "completed"}`)
	b.JSON(http.MethodGet, "results/s2/", http.StatusOK, perYearBody)

	path := writeDataset(t, "data.csv")
	out, _, err := execute(t, "--api-url", b.URL(), "upload", path, "--wait", "--interval", "1ms")
	require.NoError(t, err)
	assert.Contains(t, out, "Tahun 2021")
	assert.Equal(t, []string{"POST upload/", "GET status/s2/", "GET results/s2/"}, b.Calls())
}

func TestUpload_ValidationFails(t *testing.T) {
	b := newBackend(t)
	b.JSON(http.MethodPost, "validate/", http.StatusOK, `{"valid": false, "errors": ["Kolom ipm tidak ditemukan"]}`)

	path := writeDataset(t, "data.csv")
	_, errOut, err := execute(t, "--api-url", b.URL(), "upload", path, "--validate")
	require.Error(t, err)
	assert.Equal(t, clustering.MsgInvalidFile, err.Error())
	assert.Contains(t, errOut, "Kolom ipm tidak ditemukan")
	assert.NotContains(t, b.Calls(), "POST upload/")
}

func TestUpload_RejectsExtension(t *testing.T) {
	b := newBackend(t)
	path := writeDataset(t, "data.txt")

	_, _, err := execute(t, "--api-url", b.URL(), "upload", path)
	require.Error(t, err)
	assert.Equal(t, clustering.MsgInvalidFile, err.Error())
	assert.Empty(t, b.Calls())
}

func TestUpload_UnknownAlgorithm(t *testing.T) {
	path := writeDataset(t, "data.csv")
	_, _, err := execute(t, "upload", path, "--algorithm", "kmeans")
	require.Error(t, err)
	assert.Equal(t, output.ExitUsageError, exitCode(err))
}

func TestRerun(t *testing.T) {
	b := newBackend(t)
	bodies := make(chan map[string]any, 1)
	b.Handle(http.MethodPost, "rerun/abc/", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		bodies <- body
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, perYearBody)
	})

	out, _, err := execute(t, "--api-url", b.URL(), "rerun", "abc", "--clusters", "4")
	require.NoError(t, err)
	body := <-bodies
	assert.Equal(t, float64(4), body["num_clusters"])
	assert.Equal(t, "fcm", body["algorithm"])
	assert.Contains(t, out, "Tahun 2021")
}

func TestClusterDetails(t *testing.T) {
	b := newBackend(t)
	b.JSON(http.MethodGet, "cluster/abc/-1/", http.StatusOK, `{"cluster_id":-1,"size":1}`)

	out, _, err := execute(t, "--api-url", b.URL(), "cluster", "--", "abc", "-1")
	require.NoError(t, err)
	assert.Contains(t, out, `"size": 1`)
}

func TestEvaluationAndGeography(t *testing.T) {
	b := newBackend(t)
	b.JSON(http.MethodGet, "evaluation/abc/", http.StatusOK, `{"davies_bouldin":0.9}`)
	b.JSON(http.MethodGet, "geography/abc/", http.StatusOK, `{"regions":[]}`)

	out, _, err := execute(t, "--api-url", b.URL(), "evaluation", "abc")
	require.NoError(t, err)
	assert.Contains(t, out, `"davies_bouldin": 0.9`)

	out, _, err = execute(t, "--api-url", b.URL(), "geography", "abc")
	require.NoError(t, err)
	assert.Contains(t, out, `"regions"`)
}
