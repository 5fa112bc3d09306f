// Package export downloads report artifacts from the backend and hands them
// to a sink.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	clustering "github.com/Nicholas-Eugene/cluster-web-frontend"
	"github.com/Nicholas-Eugene/cluster-web-frontend/api"
)

const (
	// DefaultMode is used in report filenames when no mode is given
	DefaultMode = "yearly"

	// DefaultMaxConcurrent bounds parallel exports
	DefaultMaxConcurrent = 2

	// MsgDownloadFailed is returned when the backend gave no reason
	MsgDownloadFailed = "Failed to download PDF report. Please try again."
)

// ArtifactSource fetches artifacts from the backend
type ArtifactSource interface {
	DownloadSessionPDF(ctx context.Context, sessionID string) (*api.Artifact, error)
	DownloadPDF(ctx context.Context, result clustering.Result) (*api.Artifact, error)
	ExportResults(ctx context.Context, sessionID string, format api.ExportFormat) (*api.Artifact, error)
}

// Error is a failed download. Message is shown to the user as is.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Config holds configuration for the Dispatcher
type Config struct {
	Source ArtifactSource
	Sink   ArtifactSink

	// Clock stamps report filenames. If nil, uses time.Now.
	Clock func() time.Time

	// MaxConcurrent bounds SaveExports. If zero, uses DefaultMaxConcurrent.
	MaxConcurrent int

	// Logger. If nil, uses slog.Default().
	Logger *slog.Logger
}

// applyDefaults fills in default values for unset config fields
func (c *Config) applyDefaults() {
	if c.Clock == nil {
		c.Clock = time.Now
	}
	if c.MaxConcurrent <= 0 {
		c.MaxConcurrent = DefaultMaxConcurrent
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Dispatcher fetches artifacts and saves each one exactly once
type Dispatcher struct {
	source        ArtifactSource
	sink          ArtifactSink
	clock         func() time.Time
	maxConcurrent int
	logger        *slog.Logger
}

// NewDispatcher creates a new Dispatcher
func NewDispatcher(cfg Config) (*Dispatcher, error) {
	if cfg.Source == nil {
		return nil, fmt.Errorf("artifact source is required")
	}
	if cfg.Sink == nil {
		return nil, fmt.Errorf("artifact sink is required")
	}
	cfg.applyDefaults()

	return &Dispatcher{
		source:        cfg.Source,
		sink:          cfg.Sink,
		clock:         cfg.Clock,
		maxConcurrent: cfg.MaxConcurrent,
		logger:        cfg.Logger,
	}, nil
}

// ReportFilename names a session PDF: clustering_report_<mode>_<epoch ms>.pdf
func ReportFilename(mode string, at time.Time) string {
	if mode == "" {
		mode = DefaultMode
	}
	return fmt.Sprintf("clustering_report_%s_%d.pdf", mode, at.UnixMilli())
}

// DownloadAndSave fetches the session PDF and saves it. It returns the
// filename given to the sink.
func (d *Dispatcher) DownloadAndSave(ctx context.Context, sessionID, mode string) (string, error) {
	artifact, err := d.source.DownloadSessionPDF(ctx, sessionID)
	if err != nil {
		d.logger.Warn("session PDF download failed", "session_id", sessionID, "error", err)
		msg := api.BackendMessage(err)
		if msg == "" {
			msg = MsgDownloadFailed
		}
		return "", &Error{Message: msg, Err: err}
	}

	filename := ReportFilename(mode, d.clock())
	if err := d.sink.Save(artifact.Data, filename); err != nil {
		return "", &Error{Message: MsgDownloadFailed, Err: err}
	}

	d.logger.Info("PDF report saved", "session_id", sessionID, "filename", filename, "bytes", len(artifact.Data))
	return filename, nil
}

// SaveResultPDF renders result as PDF on the backend and saves it under the
// filename the backend chose
func (d *Dispatcher) SaveResultPDF(ctx context.Context, result clustering.Result) (string, error) {
	artifact, err := d.source.DownloadPDF(ctx, result)
	if err != nil {
		return "", err
	}
	return d.save(artifact)
}

// SaveExport downloads one export format of a session and saves it
func (d *Dispatcher) SaveExport(ctx context.Context, sessionID string, format api.ExportFormat) (string, error) {
	artifact, err := d.source.ExportResults(ctx, sessionID, format)
	if err != nil {
		return "", err
	}
	return d.save(artifact)
}

// SaveExports downloads several formats concurrently. Filenames are returned
// in the order of formats. The first failure cancels the remaining downloads.
func (d *Dispatcher) SaveExports(ctx context.Context, sessionID string, formats ...api.ExportFormat) ([]string, error) {
	filenames := make([]string, len(formats))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(d.maxConcurrent)

	for i, format := range formats {
		g.Go(func() error {
			name, err := d.SaveExport(ctx, sessionID, format)
			if err != nil {
				return err
			}
			filenames[i] = name
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return filenames, nil
}

// SaveWorkbook writes the normalized result as an XLSX workbook
func (d *Dispatcher) SaveWorkbook(result clustering.Result, filename string) (string, error) {
	if result == nil {
		return "", errors.New("no clustering result to export")
	}

	var buf bytes.Buffer
	if err := WriteWorkbook(clustering.Normalize(result), &buf); err != nil {
		return "", err
	}
	if err := d.sink.Save(buf.Bytes(), filename); err != nil {
		return "", err
	}
	return filename, nil
}

func (d *Dispatcher) save(artifact *api.Artifact) (string, error) {
	if err := d.sink.Save(artifact.Data, artifact.Filename); err != nil {
		return "", err
	}
	d.logger.Info("artifact saved", "filename", artifact.Filename, "bytes", len(artifact.Data))
	return artifact.Filename, nil
}
