// Package glyph resolves codepoints to atlas-backed glyph records.
//
// A [Font] supplies outlines in font design units. The [Cache] turns each
// (font, codepoint) pair into an immutable [Record] on first use: it
// reduces the outline to quadratic curves, builds the spatial grid,
// allocates space in the shared atlas, and writes the encoded data there.
// Records are memoized for the lifetime of the cache.
//
// Two outline backends are available: golang.org/x/image/font/sfnt
// ("sfnt", the default) and github.com/go-text/typesetting ("gotext").
//
//	f, err := glyph.LoadFontFile("DejaVuSans.ttf")
//	if err != nil {
//	    return err
//	}
//	rec, err := cache.Resolve(f, 'A')
package glyph
