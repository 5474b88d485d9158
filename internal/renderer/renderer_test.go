package renderer_test

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/openimaging/hubsite/internal/renderer"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

func TestRenderGitHubFlavoredMarkdown(t *testing.T) {
	t.Parallel()
	svc := renderer.NewService(discardLogger())

	html, err := svc.Render("# Install\n\nSome *text*.\n\n| A | B |\n|---|---|\n| 1 | 2 |\n")
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	for _, want := range []string{"<h1", "Install", "<em>text</em>", "<table>", "<td>1</td>"} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in HTML, got %s", want, html)
		}
	}
}

func TestRenderHighlightsFencedCode(t *testing.T) {
	t.Parallel()
	svc := renderer.NewService(discardLogger())

	html, err := svc.Render("```go\npackage main\n\nimport \"fmt\"\n\nfunc main() {\n  fmt.Println(\"hello\")\n}\n```\n")
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if !strings.Contains(html, `class="chroma"`) {
		t.Fatalf("expected chroma highlighter output, got %s", html)
	}
	if !strings.Contains(html, `<span class="kn">package</span>`) {
		t.Fatalf("expected go syntax tokens in HTML, got %s", html)
	}
}

func TestRenderIndentedCodeLikeUntaggedFence(t *testing.T) {
	t.Parallel()

	var logBuf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logBuf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	svc := renderer.NewService(logger)

	html, err := svc.Render("intro\n\n    x = compute(1)\n    print(x)\n")
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if !strings.Contains(html, "chroma") {
		t.Fatalf("expected highlighted block for indented code, got %s", html)
	}
	if !strings.Contains(logBuf.String(), "detecting from content") {
		t.Fatalf("expected detection fallback warning, got %q", logBuf.String())
	}
}

func TestHighlightCodeResolutionSeverity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		lang      string
		wantLevel string
	}{
		{name: "known unsupported language warns", lang: "mermaid", wantLevel: "level=WARN"},
		{name: "unknown language errors", lang: "no-such-language", wantLevel: "level=ERROR"},
		{name: "empty language warns", lang: "", wantLevel: "level=WARN"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var logBuf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&logBuf, &slog.HandlerOptions{Level: slog.LevelWarn}))
			svc := renderer.NewService(logger)

			out := svc.HighlightCode("graph TD;\nA-->B;\n", tt.lang)
			if out == "" {
				t.Fatal("highlighter returned empty output")
			}
			if !strings.Contains(logBuf.String(), tt.wantLevel) {
				t.Fatalf("expected %s log, got %q", tt.wantLevel, logBuf.String())
			}
		})
	}
}

func TestHighlightCodeEscapesContent(t *testing.T) {
	t.Parallel()
	svc := renderer.NewService(discardLogger())

	out := svc.HighlightCode("<b>&nope</b>", "")
	if strings.Contains(out, "<b>") {
		t.Fatalf("raw angle brackets leaked into output: %s", out)
	}
}

func TestRenderEscapesRawHTML(t *testing.T) {
	t.Parallel()
	svc := renderer.NewService(discardLogger())

	html, err := svc.Render("hello <script>alert(1)</script> world\n")
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Fatalf("raw HTML passed through unescaped: %s", html)
	}
}

func TestRenderSwallowsFrontmatter(t *testing.T) {
	t.Parallel()
	svc := renderer.NewService(discardLogger())

	html, err := svc.Render("---\ntitle: Stray Frontmatter\n---\n\nbody text\n")
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if strings.Contains(html, "Stray Frontmatter") {
		t.Fatalf("frontmatter leaked into output: %s", html)
	}
	if !strings.Contains(html, "body text") {
		t.Fatalf("body missing from output: %s", html)
	}
}

func TestRenderDeterministic(t *testing.T) {
	t.Parallel()
	svc := renderer.NewService(discardLogger())

	const input = "# Title\n\n```python\nprint('x')\n```\n"
	first, err := svc.Render(input)
	if err != nil {
		t.Fatalf("first render: %v", err)
	}
	second, err := svc.Render(input)
	if err != nil {
		t.Fatalf("second render: %v", err)
	}
	if first != second {
		t.Fatal("expected identical output for identical input")
	}
}
