package export

import (
	"fmt"
	"os"
	"path/filepath"
)

// ArtifactSink receives downloaded files
type ArtifactSink interface {
	Save(data []byte, filename string) error
}

// FileSink writes artifacts into a directory
type FileSink struct {
	dir string
}

// NewFileSink creates a sink writing into dir. An empty dir means the
// working directory.
func NewFileSink(dir string) *FileSink {
	if dir == "" {
		dir = "."
	}
	return &FileSink{dir: dir}
}

// Path returns where filename would be written. Directory components of
// filename are dropped so a backend supplied name cannot escape the directory.
func (f *FileSink) Path(filename string) string {
	return filepath.Join(f.dir, filepath.Base(filename))
}

// Save writes data to the directory, creating it when missing
func (f *FileSink) Save(data []byte, filename string) error {
	base := filepath.Base(filename)
	if base == "." || base == string(filepath.Separator) {
		return fmt.Errorf("invalid artifact filename %q", filename)
	}

	if err := os.MkdirAll(f.dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", f.dir, err)
	}

	path := f.Path(filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write artifact to file %s: %w", path, err)
	}

	return nil
}
