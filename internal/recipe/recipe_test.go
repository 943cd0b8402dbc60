package recipe

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	r := Default()

	if err := r.Validate(); err != nil {
		t.Fatalf("default recipe invalid: %v", err)
	}
	if r.Bundle.Entrypoint != "main.py" {
		t.Errorf("entrypoint = %q, want main.py", r.Bundle.Entrypoint)
	}
	if r.Browser.Engine != "chromium" {
		t.Errorf("engine = %q, want chromium", r.Browser.Engine)
	}
	if len(r.Libs.Exclude) == 0 || len(r.Libs.NSS) == 0 {
		t.Error("default library lists are empty")
	}
	if r.Smoke.Timeout != 2*time.Minute {
		t.Errorf("timeout = %v, want 2m", r.Smoke.Timeout)
	}
}

func TestLoadMissingDefaultFile(t *testing.T) {
	t.Chdir(t.TempDir())

	r, err := Load(DefaultFile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Bundle.Image != Default().Bundle.Image {
		t.Errorf("image = %q, want default", r.Bundle.Image)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil {
		t.Fatal("expected error for missing explicit recipe file")
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeRecipe(t, `
[bundle]
entrypoint = "run.py"
static = true

[browser]
skip_os_deps = true

[smoke]
timeout = "30s"
`)

	r, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if r.Bundle.Entrypoint != "run.py" {
		t.Errorf("entrypoint = %q, want run.py", r.Bundle.Entrypoint)
	}
	if !r.Bundle.Static {
		t.Error("static not applied")
	}
	if !r.Browser.SkipOSDeps {
		t.Error("skip_os_deps not applied")
	}
	if r.Smoke.Timeout != 30*time.Second {
		t.Errorf("timeout = %v, want 30s", r.Smoke.Timeout)
	}

	// Unset fields keep their defaults.
	if r.Bundle.Image != Default().Bundle.Image {
		t.Errorf("image = %q, want default", r.Bundle.Image)
	}
	if len(r.Libs.NSS) != len(Default().Libs.NSS) {
		t.Error("NSS list changed without override")
	}
}

func TestLoadRejectsBadTimeout(t *testing.T) {
	path := writeRecipe(t, `
[smoke]
timeout = "soon"
`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unparseable timeout")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Recipe)
	}{
		{"empty entrypoint", func(r *Recipe) { r.Bundle.Entrypoint = "" }},
		{"empty image", func(r *Recipe) { r.Bundle.Image = " " }},
		{"empty output", func(r *Recipe) { r.Bundle.Output = "" }},
		{"empty engine", func(r *Recipe) { r.Browser.Engine = "" }},
		{"empty smoke image", func(r *Recipe) { r.Smoke.Image = "" }},
		{"zero timeout", func(r *Recipe) { r.Smoke.Timeout = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Default()
			tt.mutate(&r)
			if err := r.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func writeRecipe(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bindle.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}
