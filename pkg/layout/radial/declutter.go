package radial

import (
	"math"
	"sort"
)

// Side is the half of the chart an outside label sits on.
type Side string

const (
	Left  Side = "left"
	Right Side = "right"
)

// SideOf returns the side for a wedge bisected by angle.
func SideOf(angle float64) Side {
	if math.Sin(angle) < 0 {
		return Left
	}
	return Right
}

// Candidate is an outside label waiting for a vertical position.
type Candidate struct {
	ID            string  `json:"id"`
	Text          string  `json:"text"`
	SecondaryText string  `json:"secondary_text,omitempty"`
	Side          Side    `json:"side"`
	TargetY       float64 `json:"target_y"`
	Height        float64 `json:"height"`
}

// DeclutterOptions tunes the relaxation.
type DeclutterOptions struct {
	// MaxRadius is the outermost ring radius; labels stay within
	// [-(MaxRadius+Margin), MaxRadius+Margin].
	MaxRadius float64 `json:"max_radius"`
	Margin    float64 `json:"margin" toml:"margin"`

	// Spacing is the minimum gap between two label boxes.
	Spacing float64 `json:"spacing" toml:"spacing"`

	// Passes is the fixed number of relaxation passes.
	Passes int `json:"passes" toml:"passes"`
}

// DefaultPasses is the relaxation pass count.
const DefaultPasses = 3

// Placed is a candidate with its relaxed y.
type Placed struct {
	Candidate
	Y float64 `json:"y"`
}

// DeclutterResult holds the relaxed labels in input order.
type DeclutterResult struct {
	Labels []Placed `json:"labels"`

	// Overlapping is set when a side could not hold all its labels at the
	// minimum spacing; that side was compressed evenly into the window.
	Overlapping bool `json:"overlapping,omitempty"`
}

// Declutter spreads candidates vertically so that, per side, adjacent labels
// are at least (h1+h2)/2 + Spacing apart while staying close to their
// targets. Work is bounded by Passes sweeps per side.
//
// When a side needs more room than the window offers, labels never leave the
// window: they are packed evenly from top to bottom with proportionally
// reduced gaps and the result reports Overlapping.
func Declutter(cands []Candidate, opts DeclutterOptions) DeclutterResult {
	passes := opts.Passes
	if passes <= 0 {
		passes = DefaultPasses
	}
	limit := max(opts.MaxRadius+opts.Margin, 0)

	res := DeclutterResult{Labels: make([]Placed, len(cands))}
	for i, c := range cands {
		res.Labels[i] = Placed{Candidate: c, Y: c.TargetY}
	}

	for _, side := range []Side{Left, Right} {
		var idx []int
		for i, c := range cands {
			if c.Side == side || (side == Right && c.Side != Left) {
				idx = append(idx, i)
			}
		}
		if len(idx) == 0 {
			continue
		}
		sort.SliceStable(idx, func(a, b int) bool {
			return cands[idx[a]].TargetY < cands[idx[b]].TargetY
		})

		c := column{lo: -limit, hi: limit, spacing: opts.Spacing}
		for _, i := range idx {
			c.h = append(c.h, max(cands[i].Height, 0))
			c.y = append(c.y, clamp(cands[i].TargetY, -limit, limit))
		}
		if !c.relax(passes) {
			res.Overlapping = true
		}
		for k, i := range idx {
			res.Labels[i].Y = c.y[k]
		}
	}
	return res
}

// column is one side's labels sorted by target.
type column struct {
	y, h    []float64
	lo, hi  float64
	spacing float64
}

// need returns the minimum centre distance between items i-1 and i.
func (c *column) need(i int) float64 {
	return (c.h[i-1]+c.h[i])/2 + c.spacing
}

// relax runs the sweeps and reports whether all gaps could be honoured.
func (c *column) relax(passes int) bool {
	n := len(c.y)
	var total float64
	for i := 1; i < n; i++ {
		total += c.need(i)
	}
	if total > c.hi-c.lo {
		c.compress(total)
		return false
	}

	for range passes {
		// Forward: push down.
		c.y[0] = max(c.y[0], c.lo)
		for i := 1; i < n; i++ {
			c.y[i] = max(c.y[i], c.y[i-1]+c.need(i))
		}
		// Backward: pull up.
		c.y[n-1] = min(c.y[n-1], c.hi)
		for i := n - 2; i >= 0; i-- {
			c.y[i] = min(c.y[i], c.y[i+1]-c.need(i+1))
		}
		// Block shift back into the window.
		if c.y[0] < c.lo {
			c.shift(c.lo - c.y[0])
		}
		if c.y[n-1] > c.hi {
			c.shift(c.hi - c.y[n-1])
		}
		for i := range c.y {
			c.y[i] = clamp(c.y[i], c.lo, c.hi)
		}
	}
	return true
}

func (c *column) shift(d float64) {
	for i := range c.y {
		c.y[i] += d
	}
}

// compress packs the column from lo to hi, scaling every gap by the same factor.
func (c *column) compress(total float64) {
	scale := (c.hi - c.lo) / total
	c.y[0] = c.lo
	for i := 1; i < len(c.y); i++ {
		c.y[i] = c.y[i-1] + c.need(i)*scale
	}
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return min(max(v, lo), hi)
}
