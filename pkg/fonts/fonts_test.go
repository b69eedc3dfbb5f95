package fonts

import (
	"math"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func TestResolve(t *testing.T) {
	reg := NewRegistry()

	tests := []struct {
		name  string
		stack string
		want  string
	}{
		{"exact", "Go Mono", MonoFamily},
		{"case insensitive", "go bold", "Go Bold"},
		{"quoted stack", `"Segoe UI", 'Go Medium', sans-serif`, "Go Medium"},
		{"generic alias", "Segoe UI, monospace", MonoFamily},
		{"unknown", "wf_segoe-ui_normal", DefaultFamily},
		{"empty", "", DefaultFamily},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := reg.Resolve(tt.stack); got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.stack, got, tt.want)
			}
		})
	}
}

func TestAdvance(t *testing.T) {
	reg := NewRegistry()

	if got := reg.Advance(DefaultFamily, 12, ""); got != 0 {
		t.Errorf("empty text advance = %v, want 0", got)
	}
	if got := reg.Advance(DefaultFamily, 0, "abc"); got != 0 {
		t.Errorf("zero size advance = %v, want 0", got)
	}

	short := reg.Advance(DefaultFamily, 12, "Jan")
	long := reg.Advance(DefaultFamily, 12, "January")
	if short <= 0 || long <= short {
		t.Errorf("expected 0 < Jan (%v) < January (%v)", short, long)
	}

	// Widths scale linearly with size when hinting is off.
	double := reg.Advance(DefaultFamily, 24, "January")
	if math.Abs(double-2*long) > 0.5 {
		t.Errorf("24px width %v not ~2x 12px width %v", double, long)
	}

	// Unknown families fall back to the default font.
	if got := reg.Advance("No Such Font", 12, "January"); got != long {
		t.Errorf("fallback advance = %v, want %v", got, long)
	}
}

func TestAdvanceMissingGlyphs(t *testing.T) {
	reg := NewRegistry()
	zero := reg.Advance(DefaultFamily, 12, "0")

	tests := []struct {
		name string
		text string
		want float64
	}{
		{"cjk", "销售额", 36},
		{"fullwidth", "ＡＢ", 24},
		{"emoji", "📈📈📈", 36},
		{"arabic", "مبيعات", 6 * zero},
		{"mixed", "Q1 销售", reg.Advance(DefaultFamily, 12, "Q1 ") + 24},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := reg.Advance(DefaultFamily, 12, tt.text)
			if math.Abs(got-tt.want) > 0.01 {
				t.Errorf("Advance(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}

	// Combining marks and joiners add no width of their own.
	if got, want := reg.Advance(DefaultFamily, 12, "e\u064b"), reg.Advance(DefaultFamily, 12, "e"); got != want {
		t.Errorf("Advance(e + combining fathatan) = %v, want %v", got, want)
	}
}

func TestMonoAdvance(t *testing.T) {
	reg := NewRegistry()
	a := reg.Advance(MonoFamily, 10, "iiii")
	b := reg.Advance(MonoFamily, 10, "MMMM")
	if math.Abs(a-b) > 0.01 {
		t.Errorf("monospace widths differ: %v vs %v", a, b)
	}
}

func TestRegister(t *testing.T) {
	reg := NewRegistry()

	if err := reg.Register("", goregular.TTF); err == nil {
		t.Error("Register with empty name should fail")
	}
	if err := reg.Register("Broken", []byte("not a font")); err == nil {
		t.Error("Register with invalid data should fail")
	}
	if err := reg.Register("Corporate Sans", goregular.TTF); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if !reg.Has("corporate sans") {
		t.Error("registered family not found")
	}
	if got := reg.Resolve("Corporate Sans, sans-serif"); got != "Corporate Sans" {
		t.Errorf("Resolve = %q, want Corporate Sans", got)
	}

	families := reg.Families()
	if len(families) != len(builtin)+1 {
		t.Errorf("Families() len = %d, want %d", len(families), len(builtin)+1)
	}
}

func TestRegisterFileMissing(t *testing.T) {
	reg := NewRegistry()
	if err := reg.RegisterFile("Missing", "/nonexistent/font.ttf"); err == nil {
		t.Error("RegisterFile should fail for a missing file")
	}
}

func TestMetrics(t *testing.T) {
	m := Default().Metrics(DefaultFamily, 12)
	if m.Height <= 0 || m.Ascent <= 0 {
		t.Errorf("unexpected metrics: %+v", m)
	}
}
