// Package site orchestrates full catalogue generation: dataset load,
// manifest, listing page, and one detail page per plugin.
package site

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/openimaging/hubsite/internal/catalog"
	"github.com/openimaging/hubsite/internal/listing"
	"github.com/openimaging/hubsite/internal/page"
	"github.com/openimaging/hubsite/internal/renderer"
)

const (
	manifestName = "plugins_manifest.json"
	listingName  = "plugins_list.html"
)

// Options configure a generation run. Empty paths are derived from BuildDir
// the same way the hub's build tree lays them out.
type Options struct {
	BuildDir      string
	DataPath      string
	TemplatePath  string
	StaticDir     string
	PluginDirName string
	MinPython     string
	MaxPython     string
}

func (o *Options) applyDefaults() {
	if o.BuildDir == "" {
		o.BuildDir = "_build"
	}
	if o.DataPath == "" {
		o.DataPath = filepath.Join(o.BuildDir, "data", "final_plugins.csv")
	}
	if o.TemplatePath == "" {
		o.TemplatePath = filepath.Join(o.BuildDir, "templates", "each_plugin_template.html")
	}
	if o.PluginDirName == "" {
		o.PluginDirName = "plugins"
	}
}

// Generator drives the whole pipeline. Construct with New, then call
// Generate for a single batch run or Watch to regenerate on input changes.
type Generator struct {
	renderer *renderer.Service
	listing  *listing.Builder
	logger   *slog.Logger
}

// New constructs a generator. If logger is nil, the default slog logger is
// used.
func New(logger *slog.Logger) (*Generator, error) {
	if logger == nil {
		logger = slog.Default()
	}
	builder, err := listing.New(logger)
	if err != nil {
		return nil, fmt.Errorf("init listing builder: %w", err)
	}
	return &Generator{
		renderer: renderer.NewService(logger),
		listing:  builder,
		logger:   logger.With("component", "site"),
	}, nil
}

// Generate runs one full batch: load and order the dataset, write the
// manifest, the listing page, every detail page, and the static assets.
// Per-field problems inside a record never abort the run; I/O failures do.
// Every write is a full-file overwrite keyed by a deterministic name, so
// re-running after a partial failure is safe.
func (g *Generator) Generate(ctx context.Context, opts Options) error {
	opts.applyDefaults()
	start := time.Now()

	ds, err := catalog.Load(opts.DataPath, g.logger)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	if err := os.MkdirAll(opts.BuildDir, 0o755); err != nil { //nolint:gosec // standard directory permissions
		return fmt.Errorf("create build dir: %w", err)
	}

	if err := g.writeManifest(ds, filepath.Join(opts.BuildDir, manifestName)); err != nil {
		return err
	}

	if err := g.listing.Build(ds, filepath.Join(opts.BuildDir, listingName)); err != nil {
		return err
	}

	rawTemplate, err := os.ReadFile(opts.TemplatePath) //nolint:gosec // path comes from configuration
	if err != nil {
		return fmt.Errorf("read page template: %w", err)
	}

	fragments := page.NewFragments(g.logger, opts.MinPython, opts.MaxPython)
	filler := page.NewFiller(string(rawTemplate), ds.Columns, fragments, g.renderer, g.logger)
	pluginDir := filepath.Join(opts.BuildDir, opts.PluginDirName)

	for _, rec := range ds.Records {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := filler.Fill(rec, pluginDir); err != nil {
			return fmt.Errorf("generate page %s: %w", rec.HTMLFilename, err)
		}
	}

	if err := g.writeStaticAssets(opts); err != nil {
		return err
	}

	g.logger.Info("generation complete",
		slog.Int("plugins", len(ds.Records)),
		slog.String("build_dir", opts.BuildDir),
		slog.Duration("duration", time.Since(start)))
	return nil
}

type manifestEntry struct {
	PluginID     int    `json:"plugin_id"`
	HTMLFilename string `json:"html_filename"`
}

// writeManifest emits the generation's artifact index: (id, filename) pairs
// in dataset order.
func (g *Generator) writeManifest(ds *catalog.Dataset, dest string) error {
	entries := make([]manifestEntry, 0, len(ds.Records))
	for _, rec := range ds.Records {
		entries = append(entries, manifestEntry{
			PluginID:     rec.PluginID,
			HTMLFilename: rec.HTMLFilename,
		})
	}

	raw, err := json.MarshalIndent(entries, "", "    ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.WriteFile(dest, raw, 0o644); err != nil { //nolint:gosec // standard file permissions
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}
