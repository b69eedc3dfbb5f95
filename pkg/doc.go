// Package pkg provides the core libraries for Chartlayout label planning.
//
// # Overview
//
// Chartlayout decides where the text of a chart goes before the chart is
// drawn. Given a viewport, a font and the labels a chart wants to show, it
// returns which axis ticks to keep and whether to rotate them, how a legend
// wraps and how much margin it takes, and where every pie or donut label
// sits. The pkg directory is organized into these areas:
//
//  1. [layout] - Geometry and the three planners ([layout/axis],
//     [layout/legend], [layout/radial]) plus text measurement ([layout/text])
//  2. [fonts] - Registered font faces used to measure label widths
//  3. [pipeline] - Orchestration (request → legend → plot area → axis → radial)
//  4. [cache] - Layout caching (file, Redis, MongoDB)
//  5. [render] - SVG previews of planned layouts
//
// # Architecture
//
// The data flow for one chart:
//
//	Request (viewport, labels, categories, slices)
//	         ↓
//	    [layout/legend] reserve legend margin against the viewport
//	         ↓
//	    plot area = viewport − legend reservation
//	         ↓
//	    [layout/axis] thin and rotate ticks for the plot width
//	         ↓
//	    [layout/radial] place slice labels around the plot centre
//	         ↓
//	    Result (JSON) or SVG preview
//
// # Quick Start
//
// Plan an axis directly:
//
//	import (
//	    "github.com/matzehuels/chartlayout/pkg/layout/axis"
//	    "github.com/matzehuels/chartlayout/pkg/layout/text"
//	)
//
//	d := axis.Plan(text.Default(), months, 320, 12, "Go", axis.ModeAuto, axis.DefaultOptions())
//	for _, i := range axis.Visible(len(months), d.SkipInterval) {
//	    fmt.Println(months[i])
//	}
//
// Plan a whole chart through the pipeline:
//
//	req := pipeline.Request{Width: 400, Height: 300, Axis: &pipeline.AxisRequest{Labels: months}}
//	if err := req.ValidateAndSetDefaults(); err != nil {
//	    return err
//	}
//	res := pipeline.GenerateLayout(text.Default(), pipeline.DefaultSettings(), req)
//	svg := render.RenderSVG(&res, render.WithGuides())
//
// # Main Packages
//
// [layout] - Rectangles, points and the per-edge [layout.Reservation] every
// planner reports so the caller can shrink the plot area.
//
// [layout/text] - The Measurer interface, a concurrency-safe caching
// measurer over [fonts] and an ellipsis formatter that never exceeds the
// available width.
//
// [layout/axis] - Category axis thinning (show every k-th label) and
// rotation in auto, always and never modes.
//
// [layout/legend] - Greedy row wrapping of legend items, docking and the
// margin a docked legend needs.
//
// [layout/radial] - Inside-slice fitting with font shrinking, outside labels
// with leader lines and per-side vertical declutter.
//
// [pipeline] - Request validation, the ordered layout of one chart, JSON
// encoding, and a Runner that adds caching, hooks and batch execution. Used
// by both the CLI and the HTTP server.
//
// [cache] - Byte caches keyed by request hash: FileCache for the CLI,
// RedisCache and MongoCache for shared deployments, NullCache to disable.
//
// [render] - Standalone SVG previews with optional reservation guides.
//
// [config] - TOML configuration for fonts, layout defaults, cache and server.
//
// [observability] - Hook interfaces for pipeline and cache events.
//
// [errors] - Coded errors mapped to user messages and HTTP statuses.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/layout/...             # Planners only
//	go test -run Example                 # Examples only
//
// [layout]: https://pkg.go.dev/github.com/matzehuels/chartlayout/pkg/layout
// [layout/text]: https://pkg.go.dev/github.com/matzehuels/chartlayout/pkg/layout/text
// [layout/axis]: https://pkg.go.dev/github.com/matzehuels/chartlayout/pkg/layout/axis
// [layout/legend]: https://pkg.go.dev/github.com/matzehuels/chartlayout/pkg/layout/legend
// [layout/radial]: https://pkg.go.dev/github.com/matzehuels/chartlayout/pkg/layout/radial
// [layout.Reservation]: https://pkg.go.dev/github.com/matzehuels/chartlayout/pkg/layout#Reservation
// [fonts]: https://pkg.go.dev/github.com/matzehuels/chartlayout/pkg/fonts
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/chartlayout/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/chartlayout/pkg/cache
// [render]: https://pkg.go.dev/github.com/matzehuels/chartlayout/pkg/render
// [config]: https://pkg.go.dev/github.com/matzehuels/chartlayout/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/chartlayout/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/chartlayout/pkg/errors
package pkg
