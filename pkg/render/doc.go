// Package render draws planned chart layouts as SVG previews.
//
// # Overview
//
// A [pipeline.Result] describes where labels go but not what the chart looks
// like. [RenderSVG] turns a result into a standalone SVG so a layout can be
// checked by eye: legend swatches and text at their placed origin, axis tick
// labels at their tick positions (rotated when the planner rotated them), and
// pie or donut labels with their connector lines.
//
//	res, _ := runner.Execute(ctx, req)
//	svg := render.RenderSVG(res, render.WithGuides())
//
// # Guides
//
// [WithGuides] adds the debugging overlay: the plot area outline, the
// reserved margins shaded, and the outermost ring of a radial chart. Without
// guides the preview only contains what a chart plugin would draw as text.
//
// [pipeline.Result]: github.com/matzehuels/chartlayout/pkg/pipeline.Result
package render
