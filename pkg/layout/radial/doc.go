// Package radial places pie and donut slice labels inside or outside their
// wedge.
//
// # Overview
//
// [Labeler.Layout] runs three steps for every chart:
//
//  1. Classify: slices narrower than [FitOptions.MinLabelAngle] get no label.
//  2. Fit inside: [Fitter.Fit] checks the label against the discounted chord
//     and ring thickness of the wedge. With AutoFit it drops the secondary
//     line on narrow wedges and shrinks the font, never below MinFontSize.
//     Inside text is never ellipsized.
//  3. Declutter outside: labels that do not fit become [Candidate] values and
//     [Declutter] relaxes them per side with a fixed number of sweeps.
//     Each gets a connector polyline from the slice edge through an elbow to
//     its text column.
//
// All geometry is centred on the origin and uses the d3 angle convention:
// 0 at 12 o'clock, clockwise, y growing downwards. Use [Plan.Translate] to
// move the plan to the chart centre.
//
// # Degradation
//
// A side that cannot hold its labels at the minimum spacing is compressed
// evenly into the vertical window and [DeclutterResult.Overlapping] is set.
// Labels never leave the window.
package radial
