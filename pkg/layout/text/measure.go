package text

import (
	"sync"
	"sync/atomic"
	"unicode/utf8"

	"github.com/matzehuels/chartlayout/pkg/fonts"
)

// Measurer reports the rendered width of text, in pixels.
//
// Implementations must be deterministic for a fixed font stack and return 0
// for the empty string. There is no error path: unknown fonts fall back to
// default metrics.
type Measurer interface {
	Measure(text string, fontSize float64, fontFamily string) float64
}

// MeasurerFunc adapts a plain function to [Measurer].
type MeasurerFunc func(text string, fontSize float64, fontFamily string) float64

// Measure calls f.
func (f MeasurerFunc) Measure(text string, fontSize float64, fontFamily string) float64 {
	return f(text, fontSize, fontFamily)
}

type cacheKey struct {
	text   string
	size   float64
	family string
}

// CachedMeasurer measures with real font metrics and memoizes every
// (text, size, family) triple. Entries never change once written, so the
// cache only grows. It is safe for concurrent use.
type CachedMeasurer struct {
	fonts *fonts.Registry

	mu     sync.RWMutex
	widths map[cacheKey]float64

	hits   atomic.Int64
	misses atomic.Int64
}

// NewMeasurer returns a measurer backed by reg. A nil reg uses [fonts.Default].
func NewMeasurer(reg *fonts.Registry) *CachedMeasurer {
	if reg == nil {
		reg = fonts.Default()
	}
	return &CachedMeasurer{
		fonts:  reg,
		widths: make(map[cacheKey]float64),
	}
}

var (
	defaultMeasurer     *CachedMeasurer
	defaultMeasurerOnce sync.Once
)

// Default returns the process-wide measurer shared by all charts.
func Default() *CachedMeasurer {
	defaultMeasurerOnce.Do(func() {
		defaultMeasurer = NewMeasurer(fonts.Default())
	})
	return defaultMeasurer
}

// Measure returns the width of text at fontSize pixels in fontFamily.
func (m *CachedMeasurer) Measure(text string, fontSize float64, fontFamily string) float64 {
	if text == "" || fontSize <= 0 {
		return 0
	}
	key := cacheKey{text: text, size: fontSize, family: fontFamily}

	m.mu.RLock()
	w, ok := m.widths[key]
	m.mu.RUnlock()
	if ok {
		m.hits.Add(1)
		return w
	}

	m.misses.Add(1)
	w = m.fonts.Advance(fontFamily, fontSize, text)

	m.mu.Lock()
	m.widths[key] = w
	m.mu.Unlock()
	return w
}

// CacheStats describes measurement cache usage.
type CacheStats struct {
	Entries int   `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

// Stats returns a snapshot of cache usage.
func (m *CachedMeasurer) Stats() CacheStats {
	m.mu.RLock()
	n := len(m.widths)
	m.mu.RUnlock()
	return CacheStats{Entries: n, Hits: m.hits.Load(), Misses: m.misses.Load()}
}

// Fonts returns the registry the measurer reads metrics from.
func (m *CachedMeasurer) Fonts() *fonts.Registry { return m.fonts }

// FixedAdvance measures every rune as Ratio × fontSize, ignoring the family.
// It mirrors the average-character-width heuristic and keeps layouts
// deterministic where real font metrics are unwanted.
type FixedAdvance struct {
	Ratio float64
}

// Measure implements [Measurer].
func (f FixedAdvance) Measure(text string, fontSize float64, _ string) float64 {
	if fontSize <= 0 {
		return 0
	}
	return float64(utf8.RuneCountInString(text)) * f.Ratio * fontSize
}

// Widest returns the largest measured width among texts.
func Widest(m Measurer, texts []string, fontSize float64, fontFamily string) float64 {
	var widest float64
	for _, t := range texts {
		if w := m.Measure(t, fontSize, fontFamily); w > widest {
			widest = w
		}
	}
	return widest
}

// MeasureAll returns the width of every text, in order.
func MeasureAll(m Measurer, texts []string, fontSize float64, fontFamily string) []float64 {
	out := make([]float64, len(texts))
	for i, t := range texts {
		out[i] = m.Measure(t, fontSize, fontFamily)
	}
	return out
}
