// Command vtext-dump lays out text with vtext and prints what it would
// upload: one line per rune with its atlas placement, followed by cache and
// atlas statistics.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/gogpu/vtext"
	"github.com/gogpu/vtext/glyph"
)

func main() {
	var (
		fontPath = flag.String("font", "", "TrueType or OpenType font file (default Go Regular)")
		parser   = flag.String("parser", "", "font parser: sfnt or gotext (default sfnt)")
		text     = flag.String("text", "Hello, vtext!", "text to lay out")
		preload  = flag.Bool("ascii", false, "preload printable ASCII first")
		verbose  = flag.Bool("v", false, "log atlas and cache activity to stderr")
	)
	flag.Parse()

	if *verbose {
		vtext.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	var opts []vtext.Option
	if *fontPath != "" {
		var fontOpts []glyph.FontOption
		if *parser != "" {
			fontOpts = append(fontOpts, glyph.WithParser(*parser))
		}
		f, err := glyph.LoadFontFile(*fontPath, fontOpts...)
		if err != nil {
			log.Fatalf("Failed to load font: %v", err)
		}
		opts = append(opts, vtext.WithDefaultFont(f))
	}
	opts = append(opts, vtext.WithWarningHandler(func(w glyph.Warning) {
		log.Printf("warning: %s", w)
	}))

	m, err := vtext.NewManager(opts...)
	if err != nil {
		log.Fatalf("Failed to create manager: %v", err)
	}
	defer m.Close()

	if *preload {
		n, err := m.LoadASCII(nil)
		if err != nil {
			log.Fatalf("Failed to preload ASCII: %v", err)
		}
		log.Printf("Preloaded %d glyphs", n)
	}

	l, err := m.NewLabel(vtext.WithLabelName("dump"))
	if err != nil {
		log.Fatalf("Failed to create label: %v", err)
	}
	l.InsertString(0, *text, vtext.CaretColor, nil)

	if _, err := l.Render(0, vtext.Identity()); err != nil {
		log.Fatalf("Failed to render: %v", err)
	}

	dumpLabel(l)
	dumpStats(m.Stats())
}

func dumpLabel(l *vtext.Label) {
	for i, r := range []rune(l.Text()) {
		pos := l.Quad(i)[0].Pos
		g := l.Glyph(i)
		switch {
		case g == nil:
			fmt.Printf("%4d %-8q pos=(%g, %g) no glyph\n", i, r, pos.X, pos.Y)
		case g.Blank():
			fmt.Printf("%4d %-8q pos=(%g, %g) blank advance=%g\n", i, r, pos.X, pos.Y, g.Advance())
		default:
			loc := g.Locator()
			fmt.Printf("%4d %-8q pos=(%g, %g) group=%d offset=%d curves=%d size=%gx%g advance=%g\n",
				i, r, pos.X, pos.Y, loc.Group, loc.Offset, g.Curves(), g.Size().X, g.Size().Y, g.Advance())
		}
	}
}

func dumpStats(s vtext.Stats) {
	fmt.Println(strings.Repeat("-", 40))
	fmt.Printf("records   %d (hits %d, misses %d, blank %d, overflow %d, missing %d)\n",
		s.Cache.Records, s.Cache.Hits, s.Cache.Misses, s.Cache.Blanks, s.Cache.Overflows, s.Cache.Missing)
	fmt.Printf("groups    %d (full %d, dirty %d)\n", s.Atlas.Groups, s.Atlas.FullGroups, s.Atlas.DirtyGroups)
	fmt.Printf("glyphs    %d in %d curve texels\n", s.Atlas.Glyphs, s.Atlas.CurveTexels)
}
