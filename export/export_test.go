package export

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	clustering "github.com/Nicholas-Eugene/cluster-web-frontend"
	"github.com/Nicholas-Eugene/cluster-web-frontend/api"
	"github.com/Nicholas-Eugene/cluster-web-frontend/pkg/testutil"
)

var reportName = regexp.MustCompile(`^clustering_report_(\w+)_(\d+)\.pdf$`)

func newDispatcher(t *testing.T, source ArtifactSource, sink ArtifactSink, clock func() time.Time) *Dispatcher {
	t.Helper()
	d, err := NewDispatcher(Config{Source: source, Sink: sink, Clock: clock})
	require.NoError(t, err)
	return d
}

func TestNewDispatcherRequiresDependencies(t *testing.T) {
	_, err := NewDispatcher(Config{Sink: testutil.NewMockArtifactSink()})
	assert.Error(t, err)

	_, err = NewDispatcher(Config{Source: &testutil.MockArtifactSource{}})
	assert.Error(t, err)
}

func TestDownloadAndSave(t *testing.T) {
	t.Run("default mode", func(t *testing.T) {
		source := &testutil.MockArtifactSource{}
		sink := testutil.NewMockArtifactSink()
		at := time.UnixMilli(1700000000123)
		d := newDispatcher(t, source, sink, func() time.Time { return at })

		name, err := d.DownloadAndSave(context.Background(), "abc", "")
		require.NoError(t, err)

		assert.Equal(t, "clustering_report_yearly_1700000000123.pdf", name)
		assert.Equal(t, 1, sink.Calls())
		assert.Equal(t, "abc", source.LastSession)
		assert.Equal(t, []byte("%PDF-1.4"), sink.Saved[name])
	})

	t.Run("mode in filename", func(t *testing.T) {
		sink := testutil.NewMockArtifactSink()
		d := newDispatcher(t, &testutil.MockArtifactSource{}, sink, nil)

		name, err := d.DownloadAndSave(context.Background(), "abc", "all_years")
		require.NoError(t, err)

		m := reportName.FindStringSubmatch(name)
		require.NotNil(t, m, "unexpected filename %q", name)
		assert.Equal(t, "all_years", m[1])
	})

	t.Run("backend message", func(t *testing.T) {
		source := &testutil.MockArtifactSource{
			DownloadSessionPDFFunc: func(ctx context.Context, sessionID string) (*api.Artifact, error) {
				return nil, &api.APIError{StatusCode: 404, Message: api.MsgNotFound, BackendMessage: "Session not found"}
			},
		}
		sink := testutil.NewMockArtifactSink()
		d := newDispatcher(t, source, sink, nil)

		_, err := d.DownloadAndSave(context.Background(), "abc", "")
		require.Error(t, err)
		assert.Equal(t, "Session not found", err.Error())
		assert.Equal(t, 0, sink.Calls())

		var exportErr *Error
		assert.True(t, errors.As(err, &exportErr))
	})

	t.Run("generic message", func(t *testing.T) {
		source := &testutil.MockArtifactSource{
			DownloadSessionPDFFunc: func(ctx context.Context, sessionID string) (*api.Artifact, error) {
				return nil, &api.APIError{Message: api.MsgConnection}
			},
		}
		sink := testutil.NewMockArtifactSink()
		d := newDispatcher(t, source, sink, nil)

		_, err := d.DownloadAndSave(context.Background(), "abc", "")
		require.Error(t, err)
		assert.Equal(t, MsgDownloadFailed, err.Error())
		assert.Equal(t, 0, sink.Calls())
	})

	t.Run("sink failure", func(t *testing.T) {
		sink := testutil.NewMockArtifactSink()
		sink.SaveFunc = func(data []byte, filename string) error { return errors.New("disk full") }
		d := newDispatcher(t, &testutil.MockArtifactSource{}, sink, nil)

		_, err := d.DownloadAndSave(context.Background(), "abc", "")
		require.Error(t, err)
		assert.Equal(t, MsgDownloadFailed, err.Error())
		assert.Equal(t, 1, sink.Calls())
	})
}

func TestSaveResultPDF(t *testing.T) {
	var got clustering.Result
	source := &testutil.MockArtifactSource{
		DownloadPDFFunc: func(ctx context.Context, result clustering.Result) (*api.Artifact, error) {
			got = result
			return &api.Artifact{Data: []byte("%PDF"), Filename: "laporan.pdf"}, nil
		},
	}
	sink := testutil.NewMockArtifactSink()
	d := newDispatcher(t, source, sink, nil)

	demo := clustering.DemoResult()
	name, err := d.SaveResultPDF(context.Background(), demo)
	require.NoError(t, err)
	assert.Equal(t, "laporan.pdf", name)
	assert.Same(t, demo, got)
	assert.Equal(t, 1, sink.Calls())
}

func TestSaveExports(t *testing.T) {
	source := &testutil.MockArtifactSource{}
	sink := testutil.NewMockArtifactSink()
	d := newDispatcher(t, source, sink, nil)

	names, err := d.SaveExports(context.Background(), "abc", api.ExportCSV, api.ExportJSON, api.ExportExcel)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"clustering_results_abc.csv",
		"clustering_results_abc.json",
		"clustering_results_abc.xlsx",
	}, names)
	assert.Equal(t, 3, sink.Calls())

	formats := append([]api.ExportFormat(nil), source.Formats...)
	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })
	assert.Equal(t, []api.ExportFormat{api.ExportCSV, api.ExportExcel, api.ExportJSON}, formats)
}

func TestSaveExportsFailure(t *testing.T) {
	source := &testutil.MockArtifactSource{
		ExportResultsFunc: func(ctx context.Context, sessionID string, format api.ExportFormat) (*api.Artifact, error) {
			if format == api.ExportJSON {
				return nil, &api.APIError{Message: api.MsgServerError}
			}
			return &api.Artifact{Data: []byte("x"), Filename: "out." + format.Extension()}, nil
		},
	}
	d := newDispatcher(t, source, testutil.NewMockArtifactSink(), nil)

	_, err := d.SaveExports(context.Background(), "abc", api.ExportCSV, api.ExportJSON)
	require.Error(t, err)
	assert.Equal(t, api.MsgServerError, err.Error())
}

func TestFileSink(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	sink := NewFileSink(dir)

	require.NoError(t, sink.Save([]byte("data"), "../../escape.pdf"))

	data, err := os.ReadFile(filepath.Join(dir, "escape.pdf"))
	require.NoError(t, err)
	assert.Equal(t, []byte("data"), data)

	assert.Error(t, sink.Save([]byte("x"), ""))
	assert.Equal(t, filepath.Join(".", "a.pdf"), NewFileSink("").Path("a.pdf"))
}

func TestWriteWorkbook(t *testing.T) {
	db, sil := 1.2, 0.3
	report := clustering.NormalizedReport{
		Algorithm: "OPTICS",
		YearlyResults: map[string]clustering.YearReport{
			"2022": {
				Data:       []clustering.Row{{"kabupaten_kota": "A"}, {"kabupaten_kota": "B"}},
				Evaluation: clustering.Evaluation{DaviesBouldin: &db, SilhouetteScore: &sil},
				Clusters: []clustering.ClusterSummary{
					{
						ID:       clustering.IntClusterID(0),
						Size:     1,
						Members:  []clustering.Row{{"kabupaten_kota": "A", "ipm": 71.5}},
						Centroid: map[string]float64{"ipm": 71.5},
					},
					{
						ID:       clustering.NoiseClusterID,
						Size:     1,
						Members:  []clustering.Row{{"kabupaten_kota": "B", "ipm": 60.0}},
						Centroid: map[string]float64{},
					},
				},
			},
			"2021": {
				Data:     []clustering.Row{},
				Clusters: []clustering.ClusterSummary{},
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(report, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SummarySheet, "2021", "2022"}, f.GetSheetList())

	algorithm, err := f.GetCellValue(SummarySheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "OPTICS", algorithm)

	// 2021 row has no scores
	missing, err := f.GetCellValue(SummarySheet, "D4")
	require.NoError(t, err)
	assert.Equal(t, "N/A", missing)

	// 2022 row counts only the non-noise cluster
	clusters, err := f.GetCellValue(SummarySheet, "B5")
	require.NoError(t, err)
	assert.Equal(t, "1", clusters)

	quality, err := f.GetCellValue(SummarySheet, "E5")
	require.NoError(t, err)
	assert.Equal(t, "good", quality)

	noiseLabel, err := f.GetCellValue("2022", "B3")
	require.NoError(t, err)
	assert.Equal(t, clustering.NoiseClusterLabel, noiseLabel)

	region, err := f.GetCellValue("2022", "B6")
	require.NoError(t, err)
	assert.Equal(t, "A", region)
}

func TestWriteWorkbookSheetNames(t *testing.T) {
	long := strings.Repeat("9", 40)
	report := clustering.NormalizedReport{
		Algorithm: "K-Means",
		YearlyResults: map[string]clustering.YearReport{
			"2021/22":   {},
			"Ringkasan": {},
			long:        {},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(report, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SummarySheet, "202122", long[:31], "Ringkasan (2)"}, f.GetSheetList())

	// summary keeps the original year keys
	year, err := f.GetCellValue(SummarySheet, "A4")
	require.NoError(t, err)
	assert.Equal(t, "2021/22", year)
}

func TestSheetNames(t *testing.T) {
	got := sheetNames([]string{"2021:", "2021?", "'2022'", "[]", "ringkasan"})
	assert.Equal(t, []string{"2021", "2021 (2)", "2022", "Tahun", "ringkasan (2)"}, got)
}

func TestSaveWorkbook(t *testing.T) {
	sink := testutil.NewMockArtifactSink()
	d := newDispatcher(t, &testutil.MockArtifactSource{}, sink, nil)

	name, err := d.SaveWorkbook(clustering.DemoResult(), "demo.xlsx")
	require.NoError(t, err)
	assert.Equal(t, "demo.xlsx", name)
	assert.NotEmpty(t, sink.Saved["demo.xlsx"])

	_, err = d.SaveWorkbook(nil, "nil.xlsx")
	assert.Error(t, err)
}
