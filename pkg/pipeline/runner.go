package pipeline

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/labelsheet/pkg/cache"
	"github.com/matzehuels/labelsheet/pkg/errors"
	"github.com/matzehuels/labelsheet/pkg/layout"
	"github.com/matzehuels/labelsheet/pkg/observability"
	"github.com/matzehuels/labelsheet/pkg/render"
	"github.com/matzehuels/labelsheet/pkg/render/sink"
	"github.com/matzehuels/labelsheet/pkg/sheet"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// ArtifactTTL bounds how long rendered artifacts stay cached.
	ArtifactTTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:       c,
		Keyer:       keyer,
		Logger:      logger,
		ArtifactTTL: cache.TTLArtifact,
	}
}

// Execute runs generate → render with caching. Configuration errors are
// returned before any record is looked at, and an empty record list is
// always an EMPTY_INPUT error.
func (r *Runner) Execute(ctx context.Context, records []sheet.Record, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, sheet.ErrEmptyInput
	}

	recordsHash, err := cache.HashJSON(records)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "hash records")
	}
	result := &Result{
		RecordsHash: recordsHash,
		Stats:       Stats{Records: len(records)},
	}

	if !opts.Refresh {
		if arts, ok := r.cachedArtifacts(ctx, recordsHash, &opts); ok {
			result.Artifacts = arts
			result.CacheInfo.RenderHit = true
			result.Stats.Pages, _ = layout.PageCount(len(records), opts.Grid)
			opts.Logger.Debug("artifacts served from cache", "formats", opts.Formats)
			return result, nil
		}
	}

	// Stage 1: Generate
	generateStart := time.Now()
	doc, err := r.Generate(ctx, records, opts)
	if err != nil {
		return nil, err
	}
	result.Document = doc
	result.Stats.Pages = len(doc.Pages)
	result.Stats.GenerateTime = time.Since(generateStart)

	opts.Logger.Info("generated label sheet",
		"records", len(records),
		"pages", len(doc.Pages),
		"duration", result.Stats.GenerateTime)

	// Stage 2: Render
	renderStart := time.Now()
	arts, err := r.Render(ctx, doc, recordsHash, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = arts
	result.Stats.RenderTime = time.Since(renderStart)

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Generate builds the document for records.
func (r *Runner) Generate(ctx context.Context, records []sheet.Record, opts Options) (sheet.Document, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return sheet.Document{}, err
	}
	sheetOpts, err := opts.SheetOptions()
	if err != nil {
		return sheet.Document{}, err
	}

	hooks := observability.Pipeline()
	hooks.OnGenerateStart(ctx, len(records))
	start := time.Now()
	doc, err := sheet.Generate(ctx, records, opts.Grid, sheetOpts...)
	hooks.OnGenerateComplete(ctx, len(records), len(doc.Pages), time.Since(start), err)
	return doc, err
}

// Render writes doc in every requested format and caches the artifacts
// under recordsHash. An empty recordsHash skips the cache.
func (r *Runner) Render(ctx context.Context, doc sheet.Document, recordsHash string, opts Options) (map[string][]render.Artifact, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	arts := make(map[string][]render.Artifact, len(opts.Formats))
	var renderErr error
	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			renderErr = err
			break
		}
		rd, err := render.ForFormat(format, opts.RenderOptions())
		if err != nil {
			renderErr = err
			break
		}
		out, err := rd.Render(doc)
		if err != nil {
			renderErr = err
			break
		}
		arts[format] = out
		opts.Logger.Debug("rendered format", "format", format, "artifacts", len(out))

		if recordsHash != "" {
			r.store(ctx, r.Keyer.ArtifactKey(recordsHash, opts.ArtifactKeyOpts(format)), out)
		}
	}

	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), renderErr)
	if renderErr != nil {
		return nil, renderErr
	}
	return arts, nil
}

// Stream writes a PDF for records to w, generating and rendering one page
// at a time. Every serial number is validated before the first byte is
// written, so an invalid record leaves w untouched.
func (r *Runner) Stream(ctx context.Context, w io.Writer, records []sheet.Record, opts Options) error {
	opts.Formats = []string{render.FormatPDF}
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	if len(records) == 0 {
		return sheet.ErrEmptyInput
	}
	sheetOpts, err := opts.SheetOptions()
	if err != nil {
		return err
	}
	doc, err := sheet.Describe(opts.Grid, sheetOpts...)
	if err != nil {
		return err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	pages := sheet.Pages(ctx, records, opts.Grid, sheetOpts...)
	err = sink.StreamPDF(w, doc, pages, opts.RenderOptions().PDF()...)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return err
	}

	opts.Logger.Info("streamed label sheets",
		"records", len(records),
		"duration", time.Since(start))
	return nil
}

// cachedArtifacts returns every requested format from the cache, or false
// if any format is missing.
func (r *Runner) cachedArtifacts(ctx context.Context, recordsHash string, opts *Options) (map[string][]render.Artifact, bool) {
	hooks := observability.Cache()
	arts := make(map[string][]render.Artifact, len(opts.Formats))
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(recordsHash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil || !hit {
			hooks.OnCacheMiss(ctx, "artifact")
			return nil, false
		}
		var out []render.Artifact
		if err := json.Unmarshal(data, &out); err != nil || len(out) == 0 {
			hooks.OnCacheMiss(ctx, "artifact")
			return nil, false
		}
		hooks.OnCacheHit(ctx, "artifact")
		arts[format] = rename(format, out, opts.RenderOptions())
	}
	return arts, true
}

func (r *Runner) store(ctx context.Context, key string, arts []render.Artifact) {
	data, err := json.Marshal(arts)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, r.ArtifactTTL); err != nil {
		r.Logger.Debug("cache write failed", "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "artifact", len(data))
}

// rename applies the current base name to cached artifacts, which were
// stored under whatever name the first run used.
func rename(format string, arts []render.Artifact, ro render.Options) []render.Artifact {
	for i := range arts {
		switch format {
		case render.FormatPDF, render.FormatJSON:
			arts[i].Name = ro.Name(format)
		default:
			arts[i].Name = ro.PageName(format, i)
		}
	}
	return arts
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
