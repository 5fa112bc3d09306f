package api

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// dumpExchange saves a JSON request/response pair under dumpDir for debugging.
// Failures are logged and otherwise ignored.
func (c *Client) dumpExchange(r request, target string, statusCode int, respBody []byte) {
	timestamp := time.Now().Format("20060102_150405")
	random := uuid.New().String()[:8]
	name := strings.Trim(strings.ReplaceAll(r.path, "/", "_"), "_")
	filename := fmt.Sprintf("%s_%s_%s_%s.json", strings.ToLower(r.method), name, timestamp, random)

	if err := os.MkdirAll(c.dumpDir, 0755); err != nil {
		c.logger.Warn("failed to create dump directory", "dir", c.dumpDir, "error", err)
		return
	}

	reqData := map[string]any{
		"method": r.method,
		"url":    target,
	}
	if r.body != nil {
		if json.Valid(r.body) {
			reqData["body"] = json.RawMessage(r.body)
		} else {
			// multipart uploads
			reqData["body_bytes"] = len(r.body)
		}
	}

	var responseBody any = string(respBody)
	if json.Valid(respBody) {
		responseBody = json.RawMessage(respBody)
	}

	jsonData, err := json.MarshalIndent(map[string]any{
		"request":  reqData,
		"response": responseBody,
		"status":   statusCode,
	}, "", "  ")
	if err != nil {
		c.logger.Warn("failed to marshal dump", "error", err)
		return
	}

	path := filepath.Join(c.dumpDir, filename)
	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		c.logger.Warn("failed to write dump", "path", path, "error", err)
	}
}
