package renderer

import (
	"bytes"
	stdhtml "html"
	"log/slog"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// knownUnsupported lists language names descriptions use that chroma has no
// lexer for. Resolution failures on these are expected and log at warning
// level; any other failure logs at error level.
var knownUnsupported = map[string]struct{}{
	"angular2":    {},
	"bitex":       {},
	"commandline": {},
	"math":        {},
	"mermaid":     {},
	"{important}": {},
	"{note}":      {},
	"{warning}":   {},
}

// HighlightCode renders a code block as chroma-highlighted HTML. It never
// fails: when the declared language cannot be resolved the lexer is guessed
// from the code itself, and when highlighting itself breaks the code is
// emitted escaped and unhighlighted.
func (s *Service) HighlightCode(code, lang string) string {
	lexer := chroma.Coalesce(s.resolveLexer(code, lang))

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		s.logger.Warn("tokenise failed, emitting plain code", slog.String("language", lang), slog.Any("err", err))
		return plainCodeBlock(code)
	}

	var buf bytes.Buffer
	if err := s.formatter.Format(&buf, styles.Get(StyleName), iterator); err != nil {
		s.logger.Warn("format failed, emitting plain code", slog.String("language", lang), slog.Any("err", err))
		return plainCodeBlock(code)
	}
	return buf.String()
}

func (s *Service) resolveLexer(code, lang string) chroma.Lexer {
	if lang == "" {
		s.logger.Warn("code block has no declared language, detecting from content")
	} else if lexer := lexers.Get(lang); lexer != nil {
		return lexer
	} else if _, expected := knownUnsupported[strings.ToLower(lang)]; expected {
		s.logger.Warn("no lexer for language, detecting from content", slog.String("language", lang))
	} else {
		s.logger.Error("unexpected language resolution failure, detecting from content", slog.String("language", lang))
	}

	if lexer := lexers.Analyse(code); lexer != nil {
		return lexer
	}
	return lexers.Fallback
}

func plainCodeBlock(code string) string {
	return "<pre><code>" + stdhtml.EscapeString(code) + "</code></pre>\n"
}

// highlightExtension replaces goldmark's code-block rendering with the
// service's chroma-backed highlighter.
type highlightExtension struct {
	service *Service
}

func (e *highlightExtension) Extend(m goldmark.Markdown) {
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&codeBlockRenderer{service: e.service}, 100),
	))
}

type codeBlockRenderer struct {
	service *Service
}

func (r *codeBlockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFenced)
	reg.Register(ast.KindCodeBlock, r.renderIndented)
}

func (r *codeBlockRenderer) renderFenced(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.FencedCodeBlock)
	_, _ = w.WriteString(r.service.HighlightCode(blockCode(n, source), string(n.Language(source))))
	return ast.WalkContinue, nil
}

// renderIndented treats indented code blocks exactly like fences with no
// declared language.
func (r *codeBlockRenderer) renderIndented(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	_, _ = w.WriteString(r.service.HighlightCode(blockCode(node, source), ""))
	return ast.WalkContinue, nil
}

func blockCode(node ast.Node, source []byte) string {
	var sb strings.Builder
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		sb.Write(segment.Value(source))
	}
	return sb.String()
}
