// Package text measures label widths and truncates labels to fit.
//
// # Measurement
//
// [Measurer] is the leaf primitive of the layout engine. [CachedMeasurer]
// measures with real glyph advances from [fonts.Registry] and memoizes every
// (text, size, family) triple. The same axis ticks and legend entries are
// measured on every render, so [Default] keeps one cache for the whole process:
//
//	w := text.Default().Measure("September", 11, "Segoe UI, sans-serif")
//
// [FixedAdvance] is a metric-free stand-in that treats every rune as a fixed
// fraction of the font size.
//
// # Truncation
//
// [Formatter] shortens a label to a pixel budget with an ellipsis:
//
//	f := text.NewFormatter(text.Default(), "Segoe UI")
//	display := f.Format("Northern Territories", 60, 11) // "Northern T…"
//	if text.Truncated(label, display) {
//	    // attach a tooltip with the full label
//	}
//
// [fonts.Registry]: github.com/matzehuels/chartlayout/pkg/fonts.Registry
package text
