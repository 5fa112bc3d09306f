package api

import (
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	// EnvBaseURL names the environment variable holding the backend base URL
	EnvBaseURL = "CLUSTERING_API_URL"

	// EnvAuthToken names the environment variable holding the bearer token
	EnvAuthToken = "CLUSTERING_AUTH_TOKEN"

	// DefaultBaseURL is used when EnvBaseURL is not set
	DefaultBaseURL = "http://localhost:8000/api"

	// DefaultRequestTimeout bounds JSON requests, including clustering runs
	DefaultRequestTimeout = 30 * time.Second

	// DefaultArtifactTimeout bounds binary downloads rendered on the server (PDF, Excel)
	DefaultArtifactTimeout = 2 * time.Minute
)

// Config holds configuration for the Client
type Config struct {
	// BaseURL is the backend API root, e.g. http://localhost:8000/api. If empty, uses BaseURLFromEnv.
	BaseURL string

	// AuthToken is sent as a bearer token when set
	AuthToken string

	// HTTPClient performs the requests. If nil, uses a client without a global timeout;
	// per-call timeouts come from RequestTimeout and ArtifactTimeout.
	HTTPClient *http.Client

	RequestTimeout  time.Duration
	ArtifactTimeout time.Duration

	// Logger receives request logs. If nil, uses slog.Default().
	Logger *slog.Logger

	// DumpDir, when set, receives a JSON dump of every JSON request/response pair
	DumpDir string
}

// applyDefaults fills in default values for unset config fields
func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = BaseURLFromEnv()
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")

	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{}
	}

	if c.RequestTimeout <= 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}

	if c.ArtifactTimeout <= 0 {
		c.ArtifactTimeout = DefaultArtifactTimeout
	}

	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// BaseURLFromEnv returns the backend base URL from the environment, falling
// back to DefaultBaseURL
func BaseURLFromEnv() string {
	if v := strings.TrimSpace(os.Getenv(EnvBaseURL)); v != "" {
		return v
	}
	return DefaultBaseURL
}
