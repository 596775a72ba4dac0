package yaml

import (
	"bytes"
	"fmt"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/muesli/termenv"
)

// DefaultTheme is the chroma style used when none is configured.
const DefaultTheme = "monokai"

// ChromaRenderer highlights YAML for terminal output.
type ChromaRenderer struct {
	lexer     chroma.Lexer
	formatter chroma.Formatter
	style     *chroma.Style
}

// ChromaOpt configures a [ChromaRenderer].
type ChromaOpt func(*ChromaRenderer)

// WithFormatter forces a chroma formatter, e.g. "terminal16m" or "noop".
func WithFormatter(name string) ChromaOpt {
	return func(cr *ChromaRenderer) {
		cr.formatter = formatters.Get(name)
	}
}

// NewChromaRenderer creates a [ChromaRenderer] for the given chroma style name.
// Unknown style names fall back to [DefaultTheme]. The formatter is picked from
// the terminal's color profile unless set with [WithFormatter].
func NewChromaRenderer(theme string, opts ...ChromaOpt) *ChromaRenderer {
	style := styles.Get(theme)
	if style == styles.Fallback {
		style = styles.Get(DefaultTheme)
	}

	cr := &ChromaRenderer{
		lexer:     chroma.Coalesce(lexers.Get("YAML")),
		formatter: formatters.Get(profileFormatter(termenv.ColorProfile())),
		style:     style,
	}
	for _, opt := range opts {
		opt(cr)
	}

	return cr
}

// RenderContent returns the highlighted YAML.
func (cr *ChromaRenderer) RenderContent(content string) (string, error) {
	it, err := cr.lexer.Tokenise(nil, content)
	if err != nil {
		return "", fmt.Errorf("tokenise: %w", err)
	}

	var buf bytes.Buffer

	err = cr.formatter.Format(&buf, cr.style, it)
	if err != nil {
		return "", fmt.Errorf("format: %w", err)
	}

	return buf.String(), nil
}

func profileFormatter(p termenv.Profile) string {
	switch p {
	case termenv.TrueColor:
		return "terminal16m"
	case termenv.ANSI256:
		return "terminal256"
	case termenv.ANSI:
		return "terminal8"
	case termenv.Ascii:
		return "noop"
	}

	return "noop"
}
