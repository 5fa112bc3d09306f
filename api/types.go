package api

import (
	"encoding/json"
	"strings"

	clustering "github.com/Nicholas-Eugene/cluster-web-frontend"
)

// Artifact is a binary file returned by the backend
type Artifact struct {
	Data        []byte
	ContentType string
	Filename    string
}

// UploadResult is the reply to an upload
type UploadResult struct {
	SessionID string

	// Result holds the initial clustering result, nil when the backend only
	// acknowledged the upload
	Result clustering.Result

	Raw json.RawMessage
}

// Status is the processing state of a session
type Status struct {
	State    string
	Progress float64
	Message  string
	Raw      json.RawMessage
}

// Done reports whether processing finished successfully
func (s Status) Done() bool {
	switch strings.ToLower(s.State) {
	case "completed", "complete", "done", "success":
		return true
	}
	return false
}

// Failed reports whether processing stopped with an error
func (s Status) Failed() bool {
	switch strings.ToLower(s.State) {
	case "failed", "error":
		return true
	}
	return false
}

// Validation is the backend's verdict on a dataset
type Validation struct {
	Valid    bool
	Errors   []string
	Warnings []string
	Raw      json.RawMessage
}

// ExportFormat selects the export endpoint output
type ExportFormat string

const (
	ExportCSV   ExportFormat = "csv"
	ExportJSON  ExportFormat = "json"
	ExportExcel ExportFormat = "excel"
)

// Extension returns the file extension used for the format
func (f ExportFormat) Extension() string {
	switch f {
	case ExportExcel:
		return "xlsx"
	default:
		return string(f)
	}
}

// ParseExportFormat accepts csv, json, excel and xlsx
func ParseExportFormat(s string) (ExportFormat, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return ExportCSV, true
	case "json":
		return ExportJSON, true
	case "excel", "xlsx":
		return ExportExcel, true
	}
	return "", false
}

// ReportOptions are sent to the report endpoint
type ReportOptions struct {
	Format         string   `json:"format,omitempty"`
	IncludeCharts  bool     `json:"include_charts"`
	IncludeMetrics bool     `json:"include_metrics"`
	Years          []string `json:"years,omitempty"`
}
