package radial

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"testing"
)

const eps = 1e-9

func TestDeclutterSeparatesCollisions(t *testing.T) {
	cands := []Candidate{
		{ID: "a", Side: Right, TargetY: 0, Height: 10},
		{ID: "b", Side: Right, TargetY: 0, Height: 10},
		{ID: "c", Side: Right, TargetY: 1, Height: 10},
	}
	res := Declutter(cands, DeclutterOptions{MaxRadius: 100, Margin: 10, Spacing: 2})
	if res.Overlapping {
		t.Fatal("Overlapping = true, want false")
	}
	assertSpaced(t, res, 2)
	if res.Labels[0].ID != "a" || res.Labels[2].ID != "c" {
		t.Errorf("labels not in input order: %v", res.Labels)
	}
}

func TestDeclutterKeepsSpacedTargets(t *testing.T) {
	cands := []Candidate{
		{ID: "a", Side: Left, TargetY: -50, Height: 12},
		{ID: "b", Side: Left, TargetY: 0, Height: 12},
		{ID: "c", Side: Right, TargetY: 0, Height: 12},
		{ID: "d", Side: Right, TargetY: 40, Height: 12},
	}
	res := Declutter(cands, DeclutterOptions{MaxRadius: 100, Spacing: 2})
	for i, p := range res.Labels {
		if p.Y != cands[i].TargetY {
			t.Errorf("%s moved from %v to %v", p.ID, cands[i].TargetY, p.Y)
		}
	}
}

func TestDeclutterSidesAreIndependent(t *testing.T) {
	cands := []Candidate{
		{ID: "l", Side: Left, TargetY: 5, Height: 20},
		{ID: "r", Side: Right, TargetY: 5, Height: 20},
	}
	res := Declutter(cands, DeclutterOptions{MaxRadius: 100, Spacing: 2})
	if res.Labels[0].Y != 5 || res.Labels[1].Y != 5 {
		t.Errorf("labels on different sides interfered: %v", res.Labels)
	}
}

func TestDeclutterClampsToWindow(t *testing.T) {
	cands := []Candidate{
		{ID: "low", Side: Right, TargetY: 500, Height: 10},
		{ID: "high", Side: Left, TargetY: -500, Height: 10},
	}
	res := Declutter(cands, DeclutterOptions{MaxRadius: 80, Margin: 20})
	if res.Labels[0].Y != 100 || res.Labels[1].Y != -100 {
		t.Errorf("Y = %v, %v; want 100, -100", res.Labels[0].Y, res.Labels[1].Y)
	}
}

func TestDeclutterPushesBlockIntoWindow(t *testing.T) {
	// Three labels targeting the bottom edge must stack upwards.
	var cands []Candidate
	for i := range 3 {
		cands = append(cands, Candidate{ID: fmt.Sprint(i), Side: Right, TargetY: 100, Height: 10})
	}
	res := Declutter(cands, DeclutterOptions{MaxRadius: 100, Spacing: 2})
	assertSpaced(t, res, 2)
	for _, p := range res.Labels {
		if p.Y > 100+eps {
			t.Errorf("%s at %v left the window", p.ID, p.Y)
		}
	}
}

func TestDeclutterInfeasibleCompresses(t *testing.T) {
	var cands []Candidate
	for i := range 20 {
		cands = append(cands, Candidate{ID: fmt.Sprint(i), Side: Right, TargetY: float64(i), Height: 20})
	}
	res := Declutter(cands, DeclutterOptions{MaxRadius: 90, Margin: 10, Spacing: 2})
	if !res.Overlapping {
		t.Fatal("Overlapping = false, want true")
	}

	ys := sortedY(res, Right)
	if math.Abs(ys[0]+100) > eps || math.Abs(ys[len(ys)-1]-100) > eps {
		t.Errorf("compressed block spans [%v, %v], want [-100, 100]", ys[0], ys[len(ys)-1])
	}
	step := ys[1] - ys[0]
	for i := 2; i < len(ys); i++ {
		if math.Abs(ys[i]-ys[i-1]-step) > 1e-6 {
			t.Fatalf("uneven compression at %d: %v vs %v", i, ys[i]-ys[i-1], step)
		}
	}
	// Order follows the targets.
	for i, p := range res.Labels {
		if p.Y != ys[i] {
			t.Errorf("label %s reordered", p.ID)
		}
	}
}

func TestDeclutterSpacingProperty(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 5))
	for trial := 0; trial < 300; trial++ {
		opts := DeclutterOptions{MaxRadius: 60 + r.Float64()*140, Margin: r.Float64() * 30, Spacing: r.Float64() * 4}
		limit := opts.MaxRadius + opts.Margin

		n := 1 + r.IntN(30)
		cands := make([]Candidate, n)
		for i := range cands {
			side := Right
			if r.IntN(2) == 0 {
				side = Left
			}
			h := 10 + r.Float64()*14
			cands[i] = Candidate{ID: fmt.Sprint(i), Side: side, TargetY: (r.Float64()*2 - 1) * limit * 1.2, Height: h}
		}

		res := Declutter(cands, opts)
		for _, p := range res.Labels {
			if p.Y < -limit-eps || p.Y > limit+eps {
				t.Fatalf("trial %d: label %s at %v outside ±%v", trial, p.ID, p.Y, limit)
			}
		}
		if !res.Overlapping {
			assertSpaced(t, res, opts.Spacing)
		}
	}
}

func assertSpaced(t *testing.T, res DeclutterResult, spacing float64) {
	t.Helper()
	for _, side := range []Side{Left, Right} {
		var ps []Placed
		for _, p := range res.Labels {
			if p.Side == side {
				ps = append(ps, p)
			}
		}
		sort.SliceStable(ps, func(i, j int) bool { return ps[i].Y < ps[j].Y })
		for i := 1; i < len(ps); i++ {
			need := (ps[i-1].Height+ps[i].Height)/2 + spacing
			if ps[i].Y-ps[i-1].Y < need-1e-6 {
				t.Errorf("%s side: %s and %s are %v apart, need %v",
					side, ps[i-1].ID, ps[i].ID, ps[i].Y-ps[i-1].Y, need)
			}
		}
	}
}

func sortedY(res DeclutterResult, side Side) []float64 {
	var ys []float64
	for _, p := range res.Labels {
		if p.Side == side {
			ys = append(ys, p.Y)
		}
	}
	sort.Float64s(ys)
	return ys
}
