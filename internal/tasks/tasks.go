package tasks

import (
	"context"
	"io"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/harmony/internal/formatter"
	"github.com/desertthunder/harmony/internal/shared"
)

// Source fetches the listing for one id.
type Source func(ctx context.Context, id string) (formatter.Listing, error)

// ListingResult is the outcome of exporting one listing.
type ListingResult struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Tracks  int      `json:"tracks"`
	Success bool     `json:"success"`
	Files   []string `json:"files,omitempty"`
	Error   error    `json:"-"`
	Reason  string   `json:"error,omitempty"`
}

// BulkExportResult summarizes a [Engine.BulkExport] run. It is also the manifest written to disk.
type BulkExportResult struct {
	Format          formatter.Format `json:"format"`
	OutputDirectory string           `json:"outputDirectory"`
	Total           int              `json:"total"`
	Succeeded       int              `json:"succeeded"`
	Failed          int              `json:"failed"`
	Results         []ListingResult  `json:"results"`
	ManifestPath    string           `json:"-"`
}

// Engine runs exports. The HTTP client is used for cover art downloads.
type Engine struct {
	httpClient *http.Client
	logger     *log.Logger
}

// NewEngine creates an [Engine]. Nil arguments fall back to [http.DefaultClient] and a discarding logger.
func NewEngine(httpClient *http.Client, logger *log.Logger) *Engine {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &Engine{httpClient: httpClient, logger: logger}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
