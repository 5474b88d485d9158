// Package page renders per-plugin detail pages: field extraction into HTML
// fragments, then placeholder substitution into the page template.
package page

import (
	"fmt"
	stdhtml "html"
	"log/slog"
	"strings"

	"github.com/openimaging/hubsite/internal/catalog"
)

// CSS class names the hub's page templates and frontend expect on metadata
// fragments.
const (
	inlineListClasses = "MetadataList_list__3DlqI list-none text-sm leading-normal inline space-y-sds-s MetadataList_inline__jHQLo"
	blockListClasses  = "MetadataList_list__3DlqI list-none text-sm leading-normal"
	listItemClass     = "MetadataList_textItem__KKmMN"
)

// homeSentinels are the case-insensitive values an optional homepage column
// carries when the upstream source had nothing to offer.
var homeSentinels = map[string]struct{}{
	"n/a":  {},
	"none": {},
	"nan":  {},
	"":     {},
}

// Fragments builds the per-field HTML fragments of a plugin detail page.
// Every method is pure over the record: identical input yields identical
// output. Malformed input never fails a method; it logs and returns an
// empty fragment.
type Fragments struct {
	logger    *slog.Logger
	minPython string
	maxPython string
}

// NewFragments constructs a fragment builder. minPython and maxPython bound
// the interpreter-version expansion; empty values fall back to 3.6 and 3.11.
func NewFragments(logger *slog.Logger, minPython, maxPython string) *Fragments {
	if logger == nil {
		logger = slog.Default()
	}
	if minPython == "" {
		minPython = "3.6"
	}
	if maxPython == "" {
		maxPython = "3.11"
	}
	return &Fragments{
		logger:    logger.With("component", "page"),
		minPython: minPython,
		maxPython: maxPython,
	}
}

// PluginTypes lists the contribution kinds the plugin declares, each linking
// to the filtered index view. No declared kinds yields an empty fragment.
func (f *Fragments) PluginTypes(rec *catalog.Record) string {
	var kinds []string
	for _, kind := range catalog.ContributionKinds {
		if rec.Has(catalog.ContributionCommandColumn(kind)) {
			kinds = append(kinds, strings.TrimSuffix(kind, "s"))
		}
	}
	if len(kinds) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(`<ul class="` + inlineListClasses + `">`)
	for _, kind := range kinds {
		fmt.Fprintf(&b,
			`<li class="%s"><a class="%s underline" href="../index.html?pluginType=%s">%s</a></li>`,
			listItemClass, listItemClass, stdhtml.EscapeString(kind), stdhtml.EscapeString(capitalize(kind)))
	}
	b.WriteString("</ul>")
	return b.String()
}

// OpenExtensions lists the filename patterns the plugin can read.
func (f *Fragments) OpenExtensions(rec *catalog.Record) string {
	return linkedList(rec.ReaderPatterns, "readerFileExtensions")
}

// SaveExtensions lists the filename extensions the plugin can write. The
// record already carries both writer columns merged in column order,
// duplicates included.
func (f *Fragments) SaveExtensions(rec *catalog.Record) string {
	return linkedList(rec.WriterExtensions, "writerFileExtensions")
}

// Requirements lists the plugin's package requirements as plain items.
func (f *Fragments) Requirements(rec *catalog.Record) string {
	if len(rec.Requirements) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(`<ul class="` + blockListClasses + `">`)
	for _, req := range rec.Requirements {
		fmt.Fprintf(&b, `<li class="%s">%s</li>`, listItemClass, stdhtml.EscapeString(req))
	}
	b.WriteString("</ul>")
	return b.String()
}

// PythonVersions expands the plugin's interpreter version specifier into the
// explicit list of supported minor versions, each linking to the filtered
// index view. A malformed specifier logs a warning and yields an empty
// fragment.
func (f *Fragments) PythonVersions(rec *catalog.Record) string {
	spec, ok := rec.Get(catalog.ColRequiresPython)
	if !ok {
		return ""
	}

	versions, err := expandVersions(spec, f.minPython, f.maxPython)
	if err != nil {
		f.logger.Warn("invalid python version specifier",
			slog.String("plugin", rec.NormalizedName()),
			slog.String("specifier", spec),
			slog.Any("err", err))
		return ""
	}
	return linkedList(versions, "python")
}

// OperatingSystems reports OS compatibility. The dataset carries no usable
// classifier data yet, so this is a fixed placeholder for every plugin.
func (f *Fragments) OperatingSystems(_ *catalog.Record) string {
	return `<ul class="` + blockListClasses + `">` +
		`<li class="flex justify-between items-center"><span ` +
		`class="text-napari-gray font-normal lowercase">Information not ` +
		`submitted</span></li>` +
		`</ul>`
}

// HomeLinks renders the homepage link row: the package-index link always,
// the source-hosting and other links only when present and not a sentinel
// meaning "unset".
func (f *Fragments) HomeLinks(rec *catalog.Record) string {
	var b strings.Builder
	b.WriteString(`<div class="flex items-center" style="gap: 10px; align-items: center;">` + "\n")
	fmt.Fprintf(&b,
		"<a href=%q rel=\"noreferrer\" target=\"_blank\">\n<img src=\"../static/images/PyPI_logo.svg.png\" alt=\"PyPI\" style=\"height: 42px;\" />\n</a>\n",
		rec.GetOr(catalog.ColHomePyPI, ""))

	if home, ok := presentHome(rec, catalog.ColHomeGitHub); ok {
		fmt.Fprintf(&b,
			"<a href=%q rel=\"noreferrer\" target=\"_blank\">\n<img src=\"../static/images/GitHub_Invertocat_Logo.svg.png\" alt=\"GitHub\" style=\"height: 42px;\" />\n</a>\n",
			home)
	}

	if home, ok := presentHome(rec, catalog.ColHomeOther); ok {
		fmt.Fprintf(&b, "<a href=%q rel=\"noreferrer\" target=\"_blank\">\n%s\n</a>\n", home, globeSVG)
	}

	b.WriteString("</div>")
	return b.String()
}

func presentHome(rec *catalog.Record, col string) (string, bool) {
	home, ok := rec.Get(col)
	if !ok {
		return "", false
	}
	if _, sentinel := homeSentinels[strings.ToLower(strings.TrimSpace(home))]; sentinel {
		return "", false
	}
	return home, true
}

// linkedList renders values as an inline list of index-filter links, or an
// empty fragment when there are no values.
func linkedList(values []string, filterParam string) string {
	if len(values) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(`<ul class="` + inlineListClasses + `">`)
	for _, v := range values {
		escaped := stdhtml.EscapeString(v)
		fmt.Fprintf(&b,
			`<li class="%s"><a class="%s underline" href="../index.html?%s=%s">%s</a></li>`,
			listItemClass, listItemClass, filterParam, escaped, escaped)
	}
	b.WriteString("</ul>")
	return b.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

const globeSVG = `<svg width="21" height="21" viewBox="0 0 21 21" fill="none" xmlns="http://www.w3.org/2000/svg">
<circle cx="10.8331" cy="10.0835" r="9.33333" stroke="#000" stroke-width="1.33333"></circle>
<path d="M15.4998 10.0835C15.4998 12.7576 14.9202 15.1456 14.0161 16.8408C13.0967 18.5648 11.9398 19.4168 10.8331 19.4168C9.7264 19.4168 8.56951 18.5648 7.65009 16.8408C6.74594 15.1456 6.16642 12.7576 6.16642 10.0835C6.16642 7.40935 6.74594 5.02142 7.65009 3.32615C8.56951 1.60224 9.7264 0.750163 10.8331 0.750163C11.9398 0.750163 13.0967 1.60224 14.0161 3.32615C14.9202 5.02142 15.4998 7.40935 15.4998 10.0835Z" stroke="#000" stroke-width="1.33333"></path>
<path d="M10.8331 0.270996V19.896" stroke="#000" stroke-width="1.33333"></path>
<path d="M1.02063 10.0835L20.6456 10.0835" stroke="#000" stroke-width="1.33333"></path>
</svg>`
