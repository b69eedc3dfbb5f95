package buildinfo

import (
	"strings"
	"testing"
)

func TestEngine(t *testing.T) {
	defer func(v, c string) { Version, Commit = v, c }(Version, Commit)

	tests := []struct {
		version, commit string
		want            string
	}{
		{"dev", "none", "dev"},
		{"dev", "0123456789abcdef", "dev+0123456789ab"},
		{"dev", "abc", "dev+abc"},
		{"v1.2.0", "0123456789abcdef", "v1.2.0"},
	}
	for _, tt := range tests {
		Version, Commit = tt.version, tt.commit
		if got := Engine(); got != tt.want {
			t.Errorf("Engine() with %s/%s = %q, want %q", tt.version, tt.commit, got, tt.want)
		}
	}
}

func TestTemplate(t *testing.T) {
	if !strings.HasPrefix(Template(), "{{.Name}} version ") {
		t.Errorf("Template() = %q", Template())
	}
	if !strings.Contains(String(), "commit: ") {
		t.Errorf("String() = %q", String())
	}
}
