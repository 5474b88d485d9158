// Package listing builds the aggregate page summarizing every plugin.
package listing

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"strings"

	"github.com/openimaging/hubsite/internal/catalog"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

// missingValue substitutes for missing cells on the listing page.
const missingValue = "N/A"

// Builder renders the plugins listing page from an embedded template.
type Builder struct {
	tmpl   *template.Template
	logger *slog.Logger
}

// New constructs a listing builder. If logger is nil, the default slog
// logger is used.
func New(logger *slog.Logger) (*Builder, error) {
	if logger == nil {
		logger = slog.Default()
	}
	tmpl, err := template.ParseFS(templateFS, "templates/*.gohtml")
	if err != nil {
		return nil, fmt.Errorf("parse listing templates: %w", err)
	}
	return &Builder{
		tmpl:   tmpl,
		logger: logger.With("component", "listing"),
	}, nil
}

// cardView is the per-plugin data the listing template consumes.
type cardView struct {
	PluginID      int
	Filename      string
	DisplayName   string
	Name          string
	Summary       string
	Author        string
	FirstReleased string
	LastUpdated   string
	PluginType    string
}

// Build writes the listing page for the dataset to outputPath. Records are
// emitted in their current order; the dataset owner establishes ordering.
func (b *Builder) Build(ds *catalog.Dataset, outputPath string) error {
	cards := make([]cardView, 0, len(ds.Records))
	for _, rec := range ds.Records {
		cards = append(cards, cardFor(rec))
	}

	var buf bytes.Buffer
	if err := b.tmpl.ExecuteTemplate(&buf, "listing", struct{ Cards []cardView }{Cards: cards}); err != nil {
		return fmt.Errorf("render listing: %w", err)
	}
	if err := os.WriteFile(outputPath, buf.Bytes(), 0o644); err != nil { //nolint:gosec // standard file permissions
		return fmt.Errorf("write listing: %w", err)
	}

	b.logger.Info("listing written", slog.Int("plugins", len(cards)), slog.String("path", outputPath))
	return nil
}

func cardFor(rec *catalog.Record) cardView {
	display := firstPresent(rec, catalog.ColDisplayName, catalog.ColName, catalog.ColNormalizedName)
	if display == "" {
		display = "unknown"
	}

	var kinds []string
	for _, kind := range catalog.ContributionKinds {
		if rec.Has(catalog.ContributionCommandColumn(kind)) {
			kinds = append(kinds, strings.TrimSuffix(kind, "s"))
		}
	}
	pluginType := missingValue
	if len(kinds) > 0 {
		pluginType = strings.Join(kinds, ", ")
	}

	return cardView{
		PluginID:      rec.PluginID,
		Filename:      rec.HTMLFilename,
		DisplayName:   display,
		Name:          rec.GetOr(catalog.ColName, missingValue),
		Summary:       rec.GetOr(catalog.ColSummary, missingValue),
		Author:        rec.GetOr(catalog.ColAuthor, missingValue),
		FirstReleased: rec.GetOr(catalog.ColCreatedAt, missingValue),
		LastUpdated:   rec.GetOr(catalog.ColModifiedAt, missingValue),
		PluginType:    pluginType,
	}
}

func firstPresent(rec *catalog.Record, cols ...string) string {
	for _, col := range cols {
		if v, ok := rec.Get(col); ok && strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
