package testutil

import (
	"context"
	"sync"

	clustering "github.com/Nicholas-Eugene/cluster-web-frontend"
	"github.com/Nicholas-Eugene/cluster-web-frontend/api"
)

// MockArtifactSink is a mock implementation of export.ArtifactSink for testing
type MockArtifactSink struct {
	SaveFunc func(data []byte, filename string) error

	mu           sync.Mutex
	CallCount    int
	LastFilename string
	Saved        map[string][]byte
}

func NewMockArtifactSink() *MockArtifactSink {
	return &MockArtifactSink{Saved: make(map[string][]byte)}
}

func (m *MockArtifactSink) Save(data []byte, filename string) error {
	m.mu.Lock()
	m.CallCount++
	m.LastFilename = filename
	m.mu.Unlock()

	if m.SaveFunc != nil {
		if err := m.SaveFunc(data, filename); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Saved == nil {
		m.Saved = make(map[string][]byte)
	}
	m.Saved[filename] = append([]byte(nil), data...)
	return nil
}

// Calls returns the number of Save calls
func (m *MockArtifactSink) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CallCount
}

// MockArtifactSource is a mock implementation of export.ArtifactSource for testing
type MockArtifactSource struct {
	DownloadSessionPDFFunc func(ctx context.Context, sessionID string) (*api.Artifact, error)
	DownloadPDFFunc        func(ctx context.Context, result clustering.Result) (*api.Artifact, error)
	ExportResultsFunc      func(ctx context.Context, sessionID string, format api.ExportFormat) (*api.Artifact, error)

	mu          sync.Mutex
	CallCount   int
	LastSession string
	Formats     []api.ExportFormat
}

func (m *MockArtifactSource) record(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CallCount++
	if sessionID != "" {
		m.LastSession = sessionID
	}
}

func (m *MockArtifactSource) DownloadSessionPDF(ctx context.Context, sessionID string) (*api.Artifact, error) {
	m.record(sessionID)
	if m.DownloadSessionPDFFunc != nil {
		return m.DownloadSessionPDFFunc(ctx, sessionID)
	}
	// Default: a tiny PDF
	return &api.Artifact{Data: []byte("%PDF-1.4"), ContentType: "application/pdf", Filename: api.DefaultPDFFilename}, nil
}

func (m *MockArtifactSource) DownloadPDF(ctx context.Context, result clustering.Result) (*api.Artifact, error) {
	m.record("")
	if m.DownloadPDFFunc != nil {
		return m.DownloadPDFFunc(ctx, result)
	}
	return &api.Artifact{Data: []byte("%PDF-1.4"), ContentType: "application/pdf", Filename: api.DefaultPDFFilename}, nil
}

func (m *MockArtifactSource) ExportResults(ctx context.Context, sessionID string, format api.ExportFormat) (*api.Artifact, error) {
	m.record(sessionID)
	m.mu.Lock()
	m.Formats = append(m.Formats, format)
	m.mu.Unlock()

	if m.ExportResultsFunc != nil {
		return m.ExportResultsFunc(ctx, sessionID, format)
	}
	// Default: filename derived from the format
	return &api.Artifact{
		Data:     []byte(string(format)),
		Filename: "clustering_results_" + sessionID + "." + format.Extension(),
	}, nil
}
