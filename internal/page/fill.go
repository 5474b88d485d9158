package page

import (
	"fmt"
	stdhtml "html"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/openimaging/hubsite/internal/catalog"
	"github.com/openimaging/hubsite/internal/renderer"
)

// missingPlaceholder substitutes for missing dataset cells on detail pages.
const missingPlaceholder = "Not available"

// Filler writes one detail page per record by substituting column values and
// fragment outputs into the page template.
type Filler struct {
	template  string
	columns   []string
	fragments *Fragments
	renderer  *renderer.Service
	logger    *slog.Logger
}

// NewFiller constructs a page filler. columns is the dataset's full column
// superset; every column gets a substitution key even when a record has no
// value for it.
func NewFiller(template string, columns []string, fragments *Fragments, rendererSvc *renderer.Service, logger *slog.Logger) *Filler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Filler{
		template:  template,
		columns:   columns,
		fragments: fragments,
		renderer:  rendererSvc,
		logger:    logger.With("component", "page"),
	}
}

// Fill generates the record's detail page into outputDir, creating the
// directory if needed. The file is named by the record's derived filename
// and fully overwritten, so re-running is idempotent.
func (f *Filler) Fill(rec *catalog.Record, outputDir string) error {
	values := make(map[string]string, len(f.columns)+8)
	for _, col := range f.columns {
		values[col] = rec.GetOr(col, missingPlaceholder)
	}

	values["plugin_types"] = f.fragments.PluginTypes(rec)
	values["open_extension"] = f.fragments.OpenExtensions(rec)
	values["save_extension"] = f.fragments.SaveExtensions(rec)
	values["requirements"] = f.fragments.Requirements(rec)
	values["python_versions"] = f.fragments.PythonVersions(rec)
	values["os"] = f.fragments.OperatingSystems(rec)
	values["home_link"] = f.fragments.HomeLinks(rec)
	values["package_metadata_description"] = f.renderDescription(rec)

	pageText := substitute(f.template, values)

	if err := os.MkdirAll(outputDir, 0o755); err != nil { //nolint:gosec // standard directory permissions
		return fmt.Errorf("create plugin dir: %w", err)
	}
	dest := filepath.Join(outputDir, rec.HTMLFilename)
	if err := os.WriteFile(dest, []byte(pageText), 0o644); err != nil { //nolint:gosec // standard file permissions
		return fmt.Errorf("write %s: %w", rec.HTMLFilename, err)
	}
	return nil
}

// renderDescription converts the record's markdown description to HTML. The
// first leading heading line is stripped first; the page template supplies
// its own heading. Renderer failures degrade to the escaped raw text.
func (f *Filler) renderDescription(rec *catalog.Record) string {
	desc, ok := rec.Get(catalog.ColDescription)
	if !ok {
		return missingPlaceholder
	}

	desc = stripLeadingHeading(desc)
	html, err := f.renderer.Render(desc)
	if err != nil {
		f.logger.Warn("render description failed",
			slog.String("plugin", rec.NormalizedName()),
			slog.Any("err", err))
		return stdhtml.EscapeString(desc)
	}
	return html
}

func stripLeadingHeading(markdown string) string {
	lines := strings.Split(markdown, "\n")
	if len(lines) > 0 && strings.HasPrefix(lines[0], "#") {
		return strings.Join(lines[1:], "\n")
	}
	return markdown
}

// substitute replaces $name and ${name} placeholders with mapped values.
// Placeholders with no mapping stay verbatim, which keeps partial templates
// working and lets templates reference columns added later. $$ escapes a
// literal dollar sign.
func substitute(template string, values map[string]string) string {
	var b strings.Builder
	b.Grow(len(template))

	for i := 0; i < len(template); {
		c := template[i]
		if c != '$' {
			b.WriteByte(c)
			i++
			continue
		}
		if i+1 >= len(template) {
			b.WriteByte('$')
			break
		}

		switch next := template[i+1]; {
		case next == '$':
			b.WriteByte('$')
			i += 2
		case next == '{':
			end := strings.IndexByte(template[i+2:], '}')
			if end < 0 {
				b.WriteString(template[i:])
				return b.String()
			}
			name := template[i+2 : i+2+end]
			if value, ok := values[name]; ok && isIdentifier(name) {
				b.WriteString(value)
			} else {
				b.WriteString(template[i : i+2+end+1])
			}
			i += 2 + end + 1
		default:
			name := identifierAt(template[i+1:])
			if name == "" {
				b.WriteByte('$')
				i++
				continue
			}
			if value, ok := values[name]; ok {
				b.WriteString(value)
			} else {
				b.WriteString(template[i : i+1+len(name)])
			}
			i += 1 + len(name)
		}
	}
	return b.String()
}

func identifierAt(s string) string {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			continue
		}
		if c >= '0' && c <= '9' && i > 0 {
			continue
		}
		return s[:i]
	}
	return s
}

func isIdentifier(s string) bool {
	return s != "" && identifierAt(s) == s
}
