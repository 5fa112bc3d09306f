package api

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"

	clustering "github.com/Nicholas-Eugene/cluster-web-frontend"
)

// DefaultPDFFilename names a rendered result when the backend sends no filename
const DefaultPDFFilename = "cluster_analysis_report.pdf"

// pdfRequest is the body of a result PDF request
type pdfRequest struct {
	ClusteringResults clustering.NormalizedReport `json:"clustering_results"`
}

// DownloadPDF normalizes result, asks the backend to render it as PDF and
// returns the document
func (c *Client) DownloadPDF(ctx context.Context, result clustering.Result) (*Artifact, error) {
	if result == nil {
		return nil, &APIError{Message: clustering.MsgPDFGenerationFail, Err: fmt.Errorf("no clustering result to render")}
	}

	payload, err := json.Marshal(pdfRequest{ClusteringResults: clustering.Normalize(result)})
	if err != nil {
		return nil, unexpectedError(fmt.Errorf("failed to marshal PDF request: %w", err))
	}

	resp, err := c.send(ctx, request{
		method:      http.MethodPost,
		path:        "download-pdf/",
		body:        payload,
		contentType: "application/json",
		artifact:    true,
	})
	if err != nil {
		return nil, err
	}

	return pdfArtifact(resp, DefaultPDFFilename)
}

// DownloadSessionPDF fetches the PDF report the backend renders for a session
func (c *Client) DownloadSessionPDF(ctx context.Context, sessionID string) (*Artifact, error) {
	path, err := sessionPath("download-pdf", sessionID)
	if err != nil {
		return nil, err
	}

	resp, err := c.send(ctx, request{
		method:   http.MethodGet,
		path:     path,
		artifact: true,
	})
	if err != nil {
		return nil, err
	}

	return pdfArtifact(resp, DefaultPDFFilename)
}

// pdfArtifact rejects a JSON error body sent with a success status in place
// of the document
func pdfArtifact(resp *response, fallback string) (*Artifact, error) {
	contentType := resp.header.Get("Content-Type")
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil && mediaType == "application/json" {
		backend := backendMessage(resp.body)
		return nil, &APIError{
			StatusCode:     resp.status,
			Message:        firstNonEmpty(backend, MsgPDFGeneration),
			BackendMessage: backend,
			Err:            fmt.Errorf("expected a PDF, got %s", contentType),
		}
	}

	return &Artifact{
		Data:        resp.body,
		ContentType: contentType,
		Filename:    FilenameFromDisposition(resp.header.Get("Content-Disposition"), fallback),
	}, nil
}
