package catalog

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
)

// Load reads the plugin CSV at path and prepares it for generation: rows are
// typed into records, list-literal columns are decoded, the dataset is sorted
// by modification time descending, and every record gets a positional id and
// a derived output filename.
//
// Decode failures on list columns are local: they are logged and leave the
// field empty. Identity problems (missing, empty, unsafe or duplicate
// normalized names) are fatal because they break the one-file-per-plugin
// invariant.
func Load(path string, logger *slog.Logger) (*Dataset, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "catalog")

	f, err := os.Open(path) //nolint:gosec // path comes from configuration
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("dataset %s has no header row", path)
	}

	columns := rows[0]
	hasNormalizedName := false
	for _, col := range columns {
		if col == ColNormalizedName {
			hasNormalizedName = true
			break
		}
	}
	if !hasNormalizedName {
		return nil, fmt.Errorf("dataset %s has no %s column", path, ColNormalizedName)
	}

	records := make([]*Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, buildRecord(columns, row, logger))
	}

	sortRecords(records)

	seen := make(map[string]struct{}, len(records))
	for id, rec := range records {
		rec.PluginID = id

		name := rec.NormalizedName()
		if err := validateNormalizedName(name); err != nil {
			return nil, err
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("duplicate normalized name %q in dataset", name)
		}
		seen[name] = struct{}{}
		rec.HTMLFilename = name + ".html"
	}

	logger.Info("dataset loaded", slog.Int("plugins", len(records)), slog.String("path", path))
	return &Dataset{Columns: columns, Records: records}, nil
}

func buildRecord(columns, row []string, logger *slog.Logger) *Record {
	rec := &Record{Columns: make(map[string]string, len(columns))}
	for i, col := range columns {
		if i >= len(row) {
			break
		}
		if value, ok := cellValue(row[i]); ok {
			rec.Columns[col] = value
		}
	}

	rec.ReaderPatterns = decodeListColumn(rec, ColReaderPatterns, logger)
	rec.Requirements = decodeListColumn(rec, ColRequiresDist, logger)

	// Write extensions come from two columns merged in column order,
	// duplicates kept. A bad cell in one column does not discard the other.
	for _, col := range []string{ColWriterExtensions0, ColWriterExtensions1} {
		rec.WriterExtensions = append(rec.WriterExtensions, decodeListColumn(rec, col, logger)...)
	}

	return rec
}

// cellValue normalizes a raw CSV cell: empty cells and the "nan" markers the
// upstream dataframe dump leaves behind count as missing.
func cellValue(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}
	switch raw {
	case "nan", "NaN":
		return "", false
	}
	return raw, true
}

func decodeListColumn(rec *Record, col string, logger *slog.Logger) []string {
	raw, ok := rec.Get(col)
	if !ok {
		return nil
	}
	items, err := DecodeStringList(raw)
	if err != nil {
		logger.Warn("invalid list value",
			slog.String("column", col),
			slog.String("plugin", rec.NormalizedName()),
			slog.String("value", raw))
		return nil
	}
	return items
}

// sortRecords orders by modified_at descending. The column holds ISO-8601
// timestamps, so lexicographic order equals chronological order. Ties break
// on normalized name so ids stay deterministic.
func sortRecords(records []*Record) {
	sort.SliceStable(records, func(i, j int) bool {
		mi := records[i].GetOr(ColModifiedAt, "")
		mj := records[j].GetOr(ColModifiedAt, "")
		if mi != mj {
			return mi > mj
		}
		return records[i].NormalizedName() < records[j].NormalizedName()
	})
}

func validateNormalizedName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("record has empty %s", ColNormalizedName)
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("normalized name %q is not filesystem-safe", name)
	}
	return nil
}
