// Package legend wraps legend entries into rows and computes the chart margin
// a docked legend reserves.
//
// # Wrapping
//
// [Engine.Build] places swatch and label items left to right. Each item is
// swatch + gap + label + item gap wide, with the label pre-truncated to
// [Style.MaxLabelWidth]. A new row starts when the next item would overflow
// the available width; the first item of a row is always placed, so a single
// oversized item occupies a row on its own. Row height depends only on the
// font size, never on the item count.
//
// # Docking
//
// Top and bottom docks (including the corners) span the full chart width and
// reserve height for the wrapped rows. Left and right docks render an
// unwrapped column ([Engine.BuildColumn]) and reserve the width of its widest
// item. The two disciplines never share a computation:
//
//	eng := legend.New(text.Default())
//	res := eng.Reserve(categories, 640, legend.DockTopRight, legend.DefaultStyle())
//	plot := layout.Inset(layout.Rect{Width: 640, Height: 400}, res)
package legend
