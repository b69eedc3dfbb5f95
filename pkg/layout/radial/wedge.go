package radial

import (
	"math"

	"github.com/matzehuels/chartlayout/pkg/layout"
)

// Wedge is a pie or donut slice. Angles are in radians, measured clockwise
// from 12 o'clock, with y growing downwards.
type Wedge struct {
	StartAngle  float64 `json:"start_angle"`
	EndAngle    float64 `json:"end_angle"`
	InnerRadius float64 `json:"inner_radius"`
	OuterRadius float64 `json:"outer_radius"`
}

// Span returns the angular size of the wedge.
func (w Wedge) Span() float64 { return math.Abs(w.EndAngle - w.StartAngle) }

// MidAngle returns the angle bisecting the wedge.
func (w Wedge) MidAngle() float64 { return (w.StartAngle + w.EndAngle) / 2 }

// Thickness returns the radial depth of the ring.
func (w Wedge) Thickness() float64 { return max(w.OuterRadius-w.InnerRadius, 0) }

// LabelRadius returns the radius inside labels are centred on.
func (w Wedge) LabelRadius() float64 { return (w.InnerRadius + w.OuterRadius) / 2 }

// ChordWidth returns the straight-line width across the wedge at radius r.
// Wedges spanning half the circle or more are as wide as the full diameter.
func (w Wedge) ChordWidth(r float64) float64 {
	span := w.Span()
	if span >= math.Pi {
		return 2 * r
	}
	return 2 * r * math.Sin(span/2)
}

// Centroid returns the label anchor point at the label radius.
func (w Wedge) Centroid() layout.Point { return Polar(w.LabelRadius(), w.MidAngle()) }

// Polar converts a radius and angle to chart coordinates centred on the origin.
func Polar(r, angle float64) layout.Point {
	return layout.Point{X: r * math.Sin(angle), Y: -r * math.Cos(angle)}
}
