// Package catalog loads the plugin dataset and exposes it as typed records.
package catalog

// Well-known dataset columns. The dataset carries many more columns than
// these; the named ones are the columns the generator interprets rather than
// passing through verbatim.
const (
	ColNormalizedName = "normalized_name"
	ColName           = "name"
	ColDisplayName    = "display_name"
	ColSummary        = "summary"
	ColAuthor         = "author"
	ColCreatedAt      = "created_at"
	ColModifiedAt     = "modified_at"

	ColDescription    = "package_metadata_description"
	ColRequiresPython = "package_metadata_requires_python"
	ColRequiresDist   = "package_metadata_requires_dist"

	ColReaderPatterns    = "contributions_readers_0_filename_patterns"
	ColWriterExtensions0 = "contributions_writers_0_filename_extensions"
	ColWriterExtensions1 = "contributions_writers_1_filename_extensions"

	ColHomePyPI   = "home_pypi"
	ColHomeGitHub = "home_github"
	ColHomeOther  = "home_other"
)

// ContributionKinds lists the capability kinds a plugin may declare, in the
// order they are reported.
var ContributionKinds = []string{"readers", "writers", "widgets", "sample_data"}

// ContributionCommandColumn returns the indicator column whose presence
// signals that a plugin declares the given contribution kind.
func ContributionCommandColumn(kind string) string {
	return "contributions_" + kind + "_0_command"
}

// Record is one plugin's row of metadata. Columns holds every cell that has
// a value; missing cells are simply absent. The decoded slices are filled at
// load time from the list-literal columns, nil when the column is missing or
// failed to decode.
type Record struct {
	Columns map[string]string

	ReaderPatterns   []string
	WriterExtensions []string
	Requirements     []string

	PluginID     int
	HTMLFilename string
}

// Get returns the raw value of a column and whether it is present.
func (r *Record) Get(col string) (string, bool) {
	v, ok := r.Columns[col]
	return v, ok
}

// GetOr returns the raw value of a column, or fallback when it is missing.
func (r *Record) GetOr(col, fallback string) string {
	if v, ok := r.Columns[col]; ok {
		return v
	}
	return fallback
}

// Has reports whether a column has a value.
func (r *Record) Has(col string) bool {
	_, ok := r.Columns[col]
	return ok
}

// NormalizedName returns the plugin's normalized name, the identity the
// output filename is derived from.
func (r *Record) NormalizedName() string {
	return r.Columns[ColNormalizedName]
}

// Dataset is the loaded plugin table: the full column superset from the CSV
// header plus one record per row, in generation order.
type Dataset struct {
	Columns []string
	Records []*Record
}
