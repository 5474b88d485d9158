package site

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/openimaging/hubsite/internal/renderer"
)

// writeStaticAssets populates <build>/static: the chroma stylesheet the
// highlighted code blocks reference, plus an optional user asset directory
// (logo images and the like) copied on top.
func (g *Generator) writeStaticAssets(opts Options) error {
	staticDir := filepath.Join(opts.BuildDir, "static")

	if err := g.writeHighlightCSS(filepath.Join(staticDir, "css", "chroma.css")); err != nil {
		return err
	}

	if opts.StaticDir != "" {
		if err := copyAssets(opts.StaticDir, staticDir); err != nil {
			return fmt.Errorf("copy static assets: %w", err)
		}
		g.logger.Debug("static assets copied", slog.String("source", opts.StaticDir))
	}
	return nil
}

// writeHighlightCSS renders the stylesheet for the highlighter's chroma
// style, since code blocks are emitted with classes rather than inline
// styles.
func (g *Generator) writeHighlightCSS(dest string) error {
	style := styles.Get(renderer.StyleName)
	if style == nil {
		return fmt.Errorf("chroma style %q not found", renderer.StyleName)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil { //nolint:gosec // standard directory permissions
		return fmt.Errorf("create css dir: %w", err)
	}
	f, err := os.Create(dest) //nolint:gosec // dest under the build directory
	if err != nil {
		return fmt.Errorf("create highlight css: %w", err)
	}
	defer func() { _ = f.Close() }()

	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(f, style); err != nil {
		return fmt.Errorf("write highlight css: %w", err)
	}
	return nil
}

func copyAssets(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("assets directory %s does not exist", src)
		}
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("assets path %s is not a directory", src)
	}

	return filepath.WalkDir(src, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755) //nolint:gosec // standard directory permissions
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil { //nolint:gosec // standard directory permissions
			return err
		}
		data, err := os.ReadFile(path) //nolint:gosec // path from validated source directory
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, 0o644) //nolint:gosec // standard file permissions
	})
}
