package tasks

import (
	"cmp"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/desertthunder/harmony/internal/formatter"
	"github.com/desertthunder/harmony/internal/shared"
)

const (
	defaultWorkers   = 5
	maxWorkers       = 10
	defaultRateLimit = 5.0
	manifestName     = "export_manifest.json"
)

// BulkExportOpts contains configuration for bulk exports.
type BulkExportOpts struct {
	Format     formatter.Format // Export format; empty means text
	OutputDir  string           // Base output directory (default: harmony_export_{epoch})
	NumWorkers int              // Concurrent writers (default: 5, max: 10)
	RateLimit  float64          // Fetches per second (default: 5)
}

type exportJob struct {
	id      string
	listing formatter.Listing
}

// BulkExport fetches every id through source and exports each listing into its own
// subdirectory of opts.OutputDir.
//
// Fetches are serialized and throttled; writes fan out to a worker pool. Individual
// failures are recorded in the result and never abort the run.
func (e *Engine) BulkExport(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	source Source,
	ids []string,
	opts BulkExportOpts,
) (*BulkExportResult, error) {
	if source == nil {
		return nil, fmt.Errorf("%w: export source", shared.ErrMissingArgument)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: nothing to export", shared.ErrMissingArgument)
	}

	if opts.Format == "" {
		opts.Format = formatter.FormatText
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("harmony_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = defaultWorkers
	}
	if opts.NumWorkers > maxWorkers {
		opts.NumWorkers = maxWorkers
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = defaultRateLimit
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &BulkExportResult{
		Format:          opts.Format,
		OutputDirectory: opts.OutputDir,
		Total:           len(ids),
		Results:         make([]ListingResult, 0, len(ids)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	jobs := make(chan exportJob, len(ids))
	results := make(chan ListingResult, len(ids))

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, opts)
	}

	go func() {
		defer close(jobs)
		e.sendProgress(prog, fetchingUpdate(len(ids)))
		for i, id := range ids {
			if err := limiter.Wait(ctx); err != nil {
				return
			}

			listing, err := source(ctx, id)
			if err != nil {
				e.logger.Warn("fetch failed", "id", id, "err", err)
				results <- ListingResult{
					ID:     id,
					Name:   fmt.Sprintf("Unknown (%s)", id),
					Error:  fmt.Errorf("failed to fetch: %w", err),
					Reason: err.Error(),
				}
				continue
			}

			jobs <- exportJob{id: id, listing: listing}
			e.sendProgress(prog, fetchedUpdate(i+1, len(ids), listing.Title, len(listing.Tracks)))
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.Succeeded++
			e.sendProgress(prog, exportCompletedUpdate(completed, len(ids), res.Name, len(res.Files)))
		} else {
			result.Failed++
			e.sendProgress(prog, exportFailedUpdate(completed, len(ids), res.Name, res.Error))
		}
	}
	slices.SortFunc(result.Results, func(a, b ListingResult) int { return cmp.Compare(a.ID, b.ID) })

	if err := ctx.Err(); err != nil {
		return result, err
	}

	manifestPath := filepath.Join(opts.OutputDir, manifestName)
	data, err := formatter.ToJSON(result)
	if err != nil {
		return result, err
	}
	if err := os.WriteFile(manifestPath, data, 0644); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	e.sendProgress(prog, manifestUpdate(manifestPath))
	return result, nil
}

func (e *Engine) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan exportJob,
	results chan<- ListingResult,
	opts BulkExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		if ctx.Err() != nil {
			return
		}
		results <- e.exportOne(ctx, job, opts)
	}
}

func (e *Engine) exportOne(ctx context.Context, j exportJob, opts BulkExportOpts) ListingResult {
	res := ListingResult{
		ID:     j.id,
		Name:   j.listing.Title,
		Tracks: len(j.listing.Tracks),
	}

	dir := filepath.Join(opts.OutputDir, dirName(j.id))
	written, err := formatter.WriteExport(ctx, e.httpClient, j.listing, opts.Format, dir)
	if err != nil {
		res.Error = fmt.Errorf("%s export failed: %w", opts.Format, err)
		res.Reason = res.Error.Error()
		return res
	}

	res.Success = true
	res.Files = written.Files
	return res
}

// dirName keeps an id usable as a single path element.
func dirName(id string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '.':
			return '_'
		}
		return r
	}, id)
	if name == "" {
		return "_"
	}
	return name
}
