package buildinfo

import (
	"strings"
	"testing"
)

func TestCacheScope(t *testing.T) {
	prev := Version
	t.Cleanup(func() { Version = prev })

	for in, want := range map[string]string{"dev": "vdev:", "v1.2.3": "v1.2.3:", "1.2.3": "v1.2.3:"} {
		Version = in
		if got := CacheScope(); got != want {
			t.Errorf("CacheScope() with Version %q = %q, want %q", in, got, want)
		}
	}
}

func TestTemplate(t *testing.T) {
	if got := Template(); !strings.Contains(got, "{{.Name}} version "+Version) {
		t.Errorf("Template() = %q", got)
	}
}
