package api

import (
	"mime"
	"regexp"
	"strings"
)

// filenamePattern captures the filename parameter of a Content-Disposition
// header, quoted or bare. RE2 has no backreferences, so each quote style gets
// its own alternative.
var filenamePattern = regexp.MustCompile(`filename[^;=\n]*=(?:"([^"]*)"|'([^']*)'|([^;\n]*))`)

// FilenameFromDisposition extracts the filename from a Content-Disposition
// header. It returns fallback when the header is empty or has no filename.
func FilenameFromDisposition(header, fallback string) string {
	if header == "" {
		return fallback
	}

	if _, params, err := mime.ParseMediaType(header); err == nil {
		if name := strings.Trim(strings.TrimSpace(params["filename"]), `"'`); name != "" {
			return name
		}
	}

	m := filenamePattern.FindStringSubmatch(header)
	if m == nil {
		return fallback
	}
	for _, group := range m[1:] {
		if name := strings.Trim(strings.TrimSpace(group), `"'`); name != "" {
			return name
		}
	}
	return fallback
}
