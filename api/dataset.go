package api

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	clustering "github.com/Nicholas-Eugene/cluster-web-frontend"
)

// CheckDatasetFile rejects files the backend would refuse: unknown extensions
// and files over the upload limit
func CheckDatasetFile(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if !slices.Contains(clustering.AcceptedUploadExtensions, ext) {
		return &APIError{Message: clustering.MsgInvalidFile, Err: fmt.Errorf("unsupported extension %q", ext)}
	}

	info, err := os.Stat(path)
	if err != nil {
		return &APIError{Message: clustering.MsgFileUploadFailed, Err: fmt.Errorf("failed to stat dataset: %w", err)}
	}
	if info.IsDir() {
		return &APIError{Message: clustering.MsgInvalidFile, Err: fmt.Errorf("%s is a directory", path)}
	}
	if info.Size() > clustering.MaxUploadSizeBytes {
		return &APIError{Message: clustering.MsgFileTooLarge, Err: fmt.Errorf("dataset is %d bytes", info.Size())}
	}
	return nil
}
