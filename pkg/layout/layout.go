// Package layout holds the geometry shared by the label layout engine.
//
// # Overview
//
// The engine decides where chart labels go before anything is drawn. It is
// split into leaf-first subpackages:
//
//   - [text]: width measurement with a process-wide cache, and ellipsis truncation
//   - [axis]: label rotation and skip-interval planning for categorical axes
//   - [legend]: legend row wrapping and margin reservation for docked legends
//   - [radial]: inside-wedge fitting and outside-label decluttering for pie/donut charts
//
// Every function is pure: it takes measurements and sizes and returns
// instructions (positions, font sizes, display strings, connector points).
// Nothing here draws, and nothing retains state between calls except the
// measurement cache in [text].
//
// This package defines the small value types the subpackages exchange:
// [Reservation] (margin claimed on chart edges), [Rect] and [Point].
//
// [text]: github.com/matzehuels/chartlayout/pkg/layout/text
// [axis]: github.com/matzehuels/chartlayout/pkg/layout/axis
// [legend]: github.com/matzehuels/chartlayout/pkg/layout/legend
// [radial]: github.com/matzehuels/chartlayout/pkg/layout/radial
package layout

import "math"

// Point is a 2D position in user units (pixels).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Reservation is the margin, in pixels, a subsystem claims on each chart edge.
// Fields are never negative.
type Reservation struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Add returns the edge-wise sum of two reservations.
func (r Reservation) Add(o Reservation) Reservation {
	return Reservation{
		Top:    r.Top + o.Top,
		Right:  r.Right + o.Right,
		Bottom: r.Bottom + o.Bottom,
		Left:   r.Left + o.Left,
	}.Clamp()
}

// Clamp replaces negative or NaN edges with zero.
func (r Reservation) Clamp() Reservation {
	return Reservation{
		Top:    nonNegative(r.Top),
		Right:  nonNegative(r.Right),
		Bottom: nonNegative(r.Bottom),
		Left:   nonNegative(r.Left),
	}
}

// Horizontal returns Left + Right.
func (r Reservation) Horizontal() float64 { return r.Left + r.Right }

// Vertical returns Top + Bottom.
func (r Reservation) Vertical() float64 { return r.Top + r.Bottom }

// IsZero reports whether nothing is reserved.
func (r Reservation) IsZero() bool { return r == Reservation{} }

// Rect is an axis-aligned rectangle with its origin at the top-left corner.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Inset shrinks r by the reservation. Width and height bottom out at zero.
func Inset(r Rect, res Reservation) Rect {
	res = res.Clamp()
	return Rect{
		X:      r.X + res.Left,
		Y:      r.Y + res.Top,
		Width:  nonNegative(r.Width - res.Horizontal()),
		Height: nonNegative(r.Height - res.Vertical()),
	}
}

func nonNegative(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}
