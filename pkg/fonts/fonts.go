// Package fonts provides the font faces used for label measurement.
//
// The Go font family is embedded via golang.org/x/image/font/gofont, so text
// can be measured without any system fonts installed. Additional TrueType or
// OpenType fonts can be registered at startup (for example the fonts a BI host
// actually renders with) so that measured widths match what gets drawn.
//
// Family lookups accept CSS-like font stacks:
//
//	reg := fonts.Default()
//	family := reg.Resolve(`"Segoe UI", wf_segoe-ui_normal, helvetica, sans-serif`)
//	w := reg.Advance(family, 12, "Revenue")
//
// Unknown families resolve to [DefaultFamily], so measurement never fails.
package fonts

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/gofont/gosmallcaps"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/width"
)

// DefaultFamily is the family used when a requested family is not registered.
const DefaultFamily = "Go"

// MonoFamily is the embedded monospace family.
const MonoFamily = "Go Mono"

// builtin lists the embedded Go fonts by family name.
var builtin = []struct {
	name string
	data []byte
}{
	{DefaultFamily, goregular.TTF},
	{"Go Bold", gobold.TTF},
	{"Go Italic", goitalic.TTF},
	{"Go Medium", gomedium.TTF},
	{MonoFamily, gomono.TTF},
	{"Go Mono Bold", gomonobold.TTF},
	{"Go Smallcaps", gosmallcaps.TTF},
}

// aliases maps generic CSS families to embedded fonts. Lookups are case-insensitive.
var aliases = map[string]string{
	"monospace":   MonoFamily,
	"consolas":    MonoFamily,
	"courier":     MonoFamily,
	"courier new": MonoFamily,
	"menlo":       MonoFamily,
	"sans-serif":  DefaultFamily,
	"system-ui":   DefaultFamily,
}

type faceKey struct {
	family string
	size   float64
}

// faceEntry guards a face; opentype faces are not safe for concurrent use.
type faceEntry struct {
	mu   sync.Mutex
	face font.Face
}

// Registry holds parsed fonts and the faces created from them.
// It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	fonts map[string]*opentype.Font // keyed by lower-case family
	names map[string]string         // lower-case family -> display name
	faces map[faceKey]*faceEntry
}

// NewRegistry returns a registry preloaded with the embedded Go fonts.
func NewRegistry() *Registry {
	r := &Registry{
		fonts: make(map[string]*opentype.Font),
		names: make(map[string]string),
		faces: make(map[faceKey]*faceEntry),
	}
	for _, b := range builtin {
		if err := r.Register(b.name, b.data); err != nil {
			panic(err) // embedded fonts always parse
		}
	}
	return r
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// Default returns the process-wide registry.
func Default() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// Register parses TrueType/OpenType data and makes it available under name.
// Registering an existing name replaces the font and drops its cached faces.
func (r *Registry) Register(name string, data []byte) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("register font: empty family name")
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("parse font %q: %w", name, err)
	}

	key := strings.ToLower(name)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fonts[key] = f
	r.names[key] = name
	for k := range r.faces {
		if k.family == key {
			delete(r.faces, k)
		}
	}
	return nil
}

// RegisterFile reads a font file from disk and registers it under name.
func (r *Registry) RegisterFile(name, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read font %s: %w", path, err)
	}
	return r.Register(name, data)
}

// Families returns the registered family names, sorted.
func (r *Registry) Families() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.names))
	for _, n := range r.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Has reports whether family (not a stack) is registered or aliased.
func (r *Registry) Has(family string) bool {
	_, ok := r.lookup(family)
	return ok
}

// Resolve picks the first registered family of a comma-separated font stack.
// Quotes around names are ignored. If nothing matches, DefaultFamily is returned.
func (r *Registry) Resolve(stack string) string {
	for _, part := range strings.Split(stack, ",") {
		if key, ok := r.lookup(part); ok {
			r.mu.RLock()
			name := r.names[key]
			r.mu.RUnlock()
			return name
		}
	}
	return DefaultFamily
}

func (r *Registry) lookup(family string) (string, bool) {
	key := strings.ToLower(strings.Trim(strings.TrimSpace(family), `"'`))
	if key == "" {
		return "", false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.fonts[key]; ok {
		return key, true
	}
	if alias, ok := aliases[key]; ok {
		alias = strings.ToLower(alias)
		if _, ok := r.fonts[alias]; ok {
			return alias, true
		}
	}
	return "", false
}

// Advance returns the horizontal advance of text, in pixels, when set in
// family at size pixels. Kerning pairs are included. family may be a stack.
func (r *Registry) Advance(family string, size float64, text string) float64 {
	if text == "" || size <= 0 {
		return 0
	}
	e := r.face(family, size)
	e.mu.Lock()
	adv := advance(e.face, size, text)
	e.mu.Unlock()
	return float64(adv) / 64
}

// Metrics returns the vertical metrics of family at size pixels.
func (r *Registry) Metrics(family string, size float64) font.Metrics {
	e := r.face(family, size)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.face.Metrics()
}

func (r *Registry) face(family string, size float64) *faceEntry {
	key, ok := r.lookup(family)
	if !ok {
		key, _ = r.lookup(r.Resolve(family))
	}
	fk := faceKey{family: key, size: size}

	r.mu.RLock()
	e, ok := r.faces[fk]
	f := r.fonts[key]
	r.mu.RUnlock()
	if ok {
		return e
	}

	var face font.Face = basicfont.Face7x13
	if f != nil {
		if nf, err := opentype.NewFace(f, &opentype.FaceOptions{
			Size:    size,
			DPI:     72, // 1pt == 1px
			Hinting: font.HintingNone,
		}); err == nil {
			face = nf
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.faces[fk]; ok {
		return existing
	}
	e = &faceEntry{face: face}
	r.faces[fk] = e
	return e
}

// advance sums glyph advances and kerning, which font.MeasureString omits.
// Runes the face has no glyph for are estimated by [missingAdvance].
func advance(face font.Face, size float64, s string) fixed.Int26_6 {
	var total fixed.Int26_6
	prev := rune(-1)
	for _, c := range s {
		a, ok := face.GlyphAdvance(c)
		if !ok {
			total += missingAdvance(face, size, c)
			prev = -1
			continue
		}
		if prev >= 0 {
			total += face.Kern(prev, c)
		}
		total += a
		prev = c
	}
	return total
}

// missingAdvance estimates the width of a rune the face cannot draw, as a
// host would render it from a fallback font. Wide and fullwidth runes (CJK,
// most emoji) take one em, marks and format characters take nothing, and
// everything else takes the width of the face's '0'.
func missingAdvance(face font.Face, size float64, c rune) fixed.Int26_6 {
	em := fixed.Int26_6(size * 64)
	switch width.LookupRune(c).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return em
	}
	if unicode.In(c, unicode.Mn, unicode.Me, unicode.Cf, unicode.Cc) {
		return 0
	}
	if a, ok := face.GlyphAdvance('0'); ok {
		return a
	}
	return em / 2
}
