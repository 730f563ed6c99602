package markdown

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// ParseOptions control goldmark extensions and rendering behaviour.
type ParseOptions struct {
	// Extensions lists named goldmark extensions to enable. Unknown names
	// are ignored. Empty enables the defaults (gfm, linkify, tasklist).
	Extensions []string
	// Sanitize strips raw HTML from the output.
	Sanitize bool
	// HardWraps renders newlines as <br> elements.
	HardWraps bool
	// SafeMode is an alias for Sanitize kept for config compatibility.
	SafeMode bool
}

// GoldmarkParser renders Markdown using the goldmark engine.
type GoldmarkParser struct {
	defaults ParseOptions
}

// NewGoldmarkParser builds a parser with the supplied default options.
func NewGoldmarkParser(defaults ParseOptions) *GoldmarkParser {
	return &GoldmarkParser{defaults: defaults}
}

// Parse renders markdown with the parser defaults.
func (p *GoldmarkParser) Parse(source []byte) ([]byte, error) {
	return p.ParseWithOptions(source, p.defaults)
}

// ParseWithOptions renders markdown with per-call options.
func (p *GoldmarkParser) ParseWithOptions(source []byte, opts ParseOptions) ([]byte, error) {
	engine := newGoldmarkEngine(opts)

	var buf bytes.Buffer
	if err := engine.Convert(source, &buf); err != nil {
		return nil, fmt.Errorf("markdown parse: %w", err)
	}
	return buf.Bytes(), nil
}

func newGoldmarkEngine(opts ParseOptions) goldmark.Markdown {
	rendererOptions := []renderer.Option{}
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}
	if !opts.Sanitize && !opts.SafeMode {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	return goldmark.New(
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(rendererOptions...),
		goldmark.WithExtensions(resolveExtensions(opts.Extensions)...),
	)
}

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"tables":        extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"autolink":      extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
}

func resolveExtensions(names []string) []goldmark.Extender {
	if len(names) == 0 {
		return []goldmark.Extender{extension.GFM, extension.Linkify, extension.TaskList}
	}

	seen := map[string]struct{}{}
	extenders := make([]goldmark.Extender, 0, len(names))
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if extender, ok := extensionRegistry[key]; ok {
			extenders = append(extenders, extender)
		}
	}
	return extenders
}

// Renderer adapts the parser to the catalog's renderer contract so lesson
// bodies are rendered on write.
type Renderer struct {
	parser *GoldmarkParser
}

// NewRenderer wraps a parser; a nil parser gets default options.
func NewRenderer(p *GoldmarkParser) *Renderer {
	if p == nil {
		p = NewGoldmarkParser(ParseOptions{})
	}
	return &Renderer{parser: p}
}

// Render converts markdown source into HTML.
func (r *Renderer) Render(ctx context.Context, source string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}
	rendered, err := r.parser.Parse([]byte(source))
	if err != nil {
		return "", err
	}
	return string(rendered), nil
}
