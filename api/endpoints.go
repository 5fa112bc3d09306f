package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"

	clustering "github.com/Nicholas-Eugene/cluster-web-frontend"
	"github.com/tidwall/gjson"
)

// UploadAndProcess uploads a dataset and runs clustering with params
func (c *Client) UploadAndProcess(ctx context.Context, filename string, data io.Reader, params clustering.Parameters) (*UploadResult, error) {
	params.ApplyDefaults()

	body, contentType, err := multipartBody(filename, data, params.FormValues())
	if err != nil {
		return nil, unexpectedError(err)
	}

	resp, err := c.send(ctx, request{
		method:      http.MethodPost,
		path:        "upload/",
		body:        body,
		contentType: contentType,
	})
	if err != nil {
		return nil, err
	}

	return parseUploadResult(resp.body)
}

// UploadFile checks a local dataset and uploads it
func (c *Client) UploadFile(ctx context.Context, path string, params clustering.Parameters) (*UploadResult, error) {
	if err := CheckDatasetFile(path); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &APIError{Message: clustering.MsgFileUploadFailed, Err: fmt.Errorf("failed to open dataset: %w", err)}
	}
	defer f.Close()

	return c.UploadAndProcess(ctx, filepath.Base(path), f, params)
}

func parseUploadResult(body []byte) (*UploadResult, error) {
	if !gjson.ValidBytes(body) {
		return nil, unexpectedError(fmt.Errorf("upload response is not valid JSON"))
	}

	out := &UploadResult{
		SessionID: gjson.GetBytes(body, "session_id").String(),
		Raw:       json.RawMessage(body),
	}

	var resultBody []byte
	if nested := gjson.GetBytes(body, "results"); nested.IsObject() {
		resultBody = []byte(nested.Raw)
	} else if gjson.GetBytes(body, "clusters").Exists() || gjson.GetBytes(body, "results_per_year").Exists() {
		resultBody = body
	}

	if resultBody != nil {
		result, err := clustering.DecodeResult(resultBody)
		if err != nil {
			return nil, unexpectedError(fmt.Errorf("failed to decode upload result: %w", err))
		}
		out.Result = result
	}

	return out, nil
}

// GetResults fetches the clustering result of a session
func (c *Client) GetResults(ctx context.Context, sessionID string) (clustering.Result, error) {
	path, err := sessionPath("results", sessionID)
	if err != nil {
		return nil, err
	}
	body, err := c.getJSON(ctx, path)
	if err != nil {
		return nil, err
	}

	result, err := clustering.DecodeResult(body)
	if err != nil {
		return nil, &APIError{Message: clustering.MsgDataLoadFailed, Err: err}
	}
	return result, nil
}

// GetStatus fetches the processing status of a session
func (c *Client) GetStatus(ctx context.Context, sessionID string) (*Status, error) {
	path, err := sessionPath("status", sessionID)
	if err != nil {
		return nil, err
	}
	body, err := c.getJSON(ctx, path)
	if err != nil {
		return nil, err
	}

	return &Status{
		State:    gjson.GetBytes(body, "status").String(),
		Progress: gjson.GetBytes(body, "progress").Float(),
		Message:  firstNonEmpty(gjson.GetBytes(body, "message").String(), gjson.GetBytes(body, "error").String()),
		Raw:      json.RawMessage(body),
	}, nil
}

// ValidateDataset asks the backend to validate a dataset without clustering it
func (c *Client) ValidateDataset(ctx context.Context, filename string, data io.Reader) (*Validation, error) {
	body, contentType, err := multipartBody(filename, data, nil)
	if err != nil {
		return nil, unexpectedError(err)
	}

	resp, err := c.send(ctx, request{
		method:      http.MethodPost,
		path:        "validate/",
		body:        body,
		contentType: contentType,
	})
	if err != nil {
		return nil, err
	}

	v := &Validation{
		Valid: true,
		Raw:   json.RawMessage(resp.body),
	}
	if valid := gjson.GetBytes(resp.body, "valid"); valid.Exists() {
		v.Valid = valid.Bool()
	}
	v.Errors = stringList(gjson.GetBytes(resp.body, "errors"))
	v.Warnings = stringList(gjson.GetBytes(resp.body, "warnings"))
	if len(v.Errors) > 0 {
		v.Valid = false
	}
	return v, nil
}

// GetAvailableYears lists the years present in a session's dataset
func (c *Client) GetAvailableYears(ctx context.Context, sessionID string) ([]string, error) {
	path, err := sessionPath("years", sessionID)
	if err != nil {
		return nil, err
	}
	body, err := c.getJSON(ctx, path)
	if err != nil {
		return nil, err
	}

	list := gjson.ParseBytes(body)
	if !list.IsArray() {
		list = list.Get("years")
	}
	years := stringList(list)
	sort.Strings(years)
	return years, nil
}

// RerunClustering clusters a session's dataset again with new parameters
func (c *Client) RerunClustering(ctx context.Context, sessionID string, params clustering.Parameters) (clustering.Result, error) {
	path, err := sessionPath("rerun", sessionID)
	if err != nil {
		return nil, err
	}
	params.ApplyDefaults()

	body, err := c.postJSON(ctx, path, params)
	if err != nil {
		return nil, err
	}

	result, err := clustering.DecodeResult(body)
	if err != nil {
		return nil, &APIError{Message: clustering.MsgDataLoadFailed, Err: err}
	}
	return result, nil
}

// ExportResults downloads a session's results as CSV, JSON or Excel
func (c *Client) ExportResults(ctx context.Context, sessionID string, format ExportFormat) (*Artifact, error) {
	path, err := sessionPath("export", sessionID)
	if err != nil {
		return nil, err
	}

	resp, err := c.send(ctx, request{
		method:   http.MethodGet,
		path:     path,
		query:    url.Values{"format": {string(format)}},
		artifact: format == ExportExcel,
	})
	if err != nil {
		return nil, err
	}

	fallback := fmt.Sprintf("clustering_results_%s.%s", sessionID, format.Extension())
	return &Artifact{
		Data:        resp.body,
		ContentType: resp.header.Get("Content-Type"),
		Filename:    FilenameFromDisposition(resp.header.Get("Content-Disposition"), fallback),
	}, nil
}

// GetClusterDetails fetches the members and statistics of one cluster
func (c *Client) GetClusterDetails(ctx context.Context, sessionID string, clusterID clustering.ClusterID) (json.RawMessage, error) {
	path, err := sessionPath("cluster", sessionID, clusterID.String())
	if err != nil {
		return nil, err
	}
	return c.getJSON(ctx, path)
}

// GetEvaluationMetrics fetches the evaluation scores of a session
func (c *Client) GetEvaluationMetrics(ctx context.Context, sessionID string) (json.RawMessage, error) {
	path, err := sessionPath("evaluation", sessionID)
	if err != nil {
		return nil, err
	}
	return c.getJSON(ctx, path)
}

// GetGeographicalData fetches map data for the regions of a session
func (c *Client) GetGeographicalData(ctx context.Context, sessionID string) (json.RawMessage, error) {
	path, err := sessionPath("geography", sessionID)
	if err != nil {
		return nil, err
	}
	return c.getJSON(ctx, path)
}

// GenerateReport asks the backend to render a report for a session
func (c *Client) GenerateReport(ctx context.Context, sessionID string, opts ReportOptions) (*Artifact, error) {
	path, err := sessionPath("report", sessionID)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(opts)
	if err != nil {
		return nil, unexpectedError(fmt.Errorf("failed to marshal report options: %w", err))
	}

	resp, err := c.send(ctx, request{
		method:      http.MethodPost,
		path:        path,
		body:        payload,
		contentType: "application/json",
		artifact:    true,
	})
	if err != nil {
		return nil, err
	}

	ext := opts.Format
	if ext == "" {
		ext = "pdf"
	}
	return &Artifact{
		Data:        resp.body,
		ContentType: resp.header.Get("Content-Type"),
		Filename:    FilenameFromDisposition(resp.header.Get("Content-Disposition"), fmt.Sprintf("clustering_report_%s.%s", sessionID, ext)),
	}, nil
}

// DeleteSession removes a session and its data from the backend
func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	path, err := sessionPath("session", sessionID)
	if err != nil {
		return err
	}
	_, err = c.send(ctx, request{method: http.MethodDelete, path: path})
	return err
}

// multipartBody encodes a dataset file plus form fields
func multipartBody(filename string, data io.Reader, fields map[string]string) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create file part: %w", err)
	}
	if _, err := io.Copy(part, data); err != nil {
		return nil, "", fmt.Errorf("failed to read dataset: %w", err)
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := w.WriteField(k, fields[k]); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", k, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart body: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

func stringList(r gjson.Result) []string {
	out := []string{}
	r.ForEach(func(_, v gjson.Result) bool {
		out = append(out, v.String())
		return true
	})
	return out
}
