// Package renderer converts plugin descriptions from markdown to HTML with
// chroma syntax highlighting.
package renderer

import (
	"bytes"
	"fmt"
	"log/slog"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	goldmarkmeta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
	"go.abhg.dev/goldmark/anchor"
)

// StyleName is the chroma style used for highlighted code blocks. The
// matching stylesheet is emitted into the build output by the site package.
const StyleName = "github-dark"

// Service renders markdown into sanitized HTML.
// It uses Goldmark with GitHub-flavored markdown extensions and a custom
// code-block renderer that resolves a chroma lexer per declared language,
// falling back to content-based detection when resolution fails. Raw HTML in
// the input is escaped: descriptions come from an external package index and
// are not trusted.
type Service struct {
	md        goldmark.Markdown
	formatter *chromahtml.Formatter
	logger    *slog.Logger
}

// NewService constructs a markdown renderer with GitHub-flavored markdown
// support. YAML frontmatter, if a description happens to carry any, is
// swallowed rather than rendered. If logger is nil, the default slog logger
// is used.
func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Service{
		formatter: chromahtml.New(chromahtml.WithClasses(true)),
		logger:    logger.With("component", "renderer"),
	}

	s.md = goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			goldmarkmeta.Meta,
			&anchor.Extender{
				Position: anchor.After, // Place anchor link after heading text
			},
			&highlightExtension{service: s},
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			htmlrenderer.WithXHTML(),
		),
	)

	return s
}

// Render converts markdown content to HTML.
func (s *Service) Render(markdown string) (string, error) {
	buf := bytes.NewBuffer(nil)
	if err := s.md.Convert([]byte(markdown), buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}
