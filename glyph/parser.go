package glyph

import (
	"fmt"
	"os"
)

// Parser turns font file data into a Font.
type Parser interface {
	Parse(data []byte) (Font, error)
}

// ParserFunc adapts a function to the Parser interface.
type ParserFunc func(data []byte) (Font, error)

// Parse calls f.
func (f ParserFunc) Parse(data []byte) (Font, error) { return f(data) }

// defaultParserName is the parser used when none is requested.
const defaultParserName = "sfnt"

// parserRegistry holds registered font parsers.
var parserRegistry = map[string]Parser{
	"sfnt":   ParserFunc(func(data []byte) (Font, error) { return ParseSFNT(data) }),
	"gotext": ParserFunc(func(data []byte) (Font, error) { return ParseGoText(data) }),
}

// RegisterParser registers a font parser under name, replacing any parser
// already registered with that name. It is not safe to call concurrently
// with LoadFont.
func RegisterParser(name string, p Parser) {
	parserRegistry[name] = p
}

// FontOption configures font loading.
type FontOption func(*fontConfig)

type fontConfig struct {
	parserName string
}

// WithParser selects the font parser backend. The default is "sfnt"
// (golang.org/x/image); "gotext" uses github.com/go-text/typesetting.
func WithParser(name string) FontOption {
	return func(c *fontConfig) {
		c.parserName = name
	}
}

// LoadFont parses font data with the configured parser.
func LoadFont(data []byte, opts ...FontOption) (Font, error) {
	cfg := fontConfig{parserName: defaultParserName}
	for _, opt := range opts {
		opt(&cfg)
	}
	p, ok := parserRegistry[cfg.parserName]
	if !ok {
		return nil, fmt.Errorf("%q: %w", cfg.parserName, ErrUnknownParser)
	}
	return p.Parse(data)
}

// LoadFontFile reads and parses a font file.
func LoadFontFile(path string, opts ...FontOption) (Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("glyph: read font: %w", err)
	}
	return LoadFont(data, opts...)
}
