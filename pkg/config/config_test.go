package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/matzehuels/iconsprite/pkg/errors"
)

func write(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(LoadOptions{WorkDir: t.TempDir(), Environ: []string{}})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !slices.Equal(cfg.SourceDirs, []string{"src", "app"}) {
		t.Errorf("SourceDirs = %v", cfg.SourceDirs)
	}
	if !slices.Equal(cfg.Extensions, []string{"js", "jsx", "ts", "tsx"}) {
		t.Errorf("Extensions = %v", cfg.Extensions)
	}
	if cfg.Component != "LucideIcon" || cfg.Attribute != "name" {
		t.Errorf("Component/Attribute = %q/%q", cfg.Component, cfg.Attribute)
	}
	if cfg.CustomDir != "public/custom-icons" || cfg.Output != "public/icons.svg" {
		t.Errorf("CustomDir/Output = %q/%q", cfg.CustomDir, cfg.Output)
	}
	if cfg.Package != "lucide-static" || cfg.IconsDir != "icons" || cfg.Precision != 0 || cfg.NoCache {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, FileName, `
source_dirs = ["components/"]
extensions = [".tsx"]
output = "static/sprite.svg"
custom_dir = "assets/icons"
precision = 2
`)
	write(t, dir, ".env", "ICONSPRITE_OUTPUT=dist/from-dotenv.svg\nICONSPRITE_PRECISION=4\n")

	cfg, err := Load(LoadOptions{
		WorkDir: dir,
		Environ: []string{"ICONSPRITE_PRECISION=5", "ICONSPRITE_NO_CACHE=true", "OUTPUT=ignored"},
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !slices.Equal(cfg.SourceDirs, []string{"components"}) {
		t.Errorf("SourceDirs = %v, want [components]", cfg.SourceDirs)
	}
	if !slices.Equal(cfg.Extensions, []string{"tsx"}) {
		t.Errorf("Extensions = %v, want [tsx]", cfg.Extensions)
	}
	if cfg.CustomDir != "assets/icons" {
		t.Errorf("CustomDir = %q, want from toml", cfg.CustomDir)
	}
	if cfg.Output != "dist/from-dotenv.svg" {
		t.Errorf("Output = %q, want .env value", cfg.Output)
	}
	if cfg.Precision != 5 {
		t.Errorf("Precision = %d, want environment value 5", cfg.Precision)
	}
	if !cfg.NoCache {
		t.Error("NoCache should be set from the environment")
	}
	if got := os.Getenv("ICONSPRITE_OUTPUT"); got != "" {
		t.Errorf(".env leaked into the process environment: %q", got)
	}
}

func TestLoadEnvList(t *testing.T) {
	cfg, err := Load(LoadOptions{
		WorkDir: t.TempDir(),
		Environ: []string{"ICONSPRITE_SOURCE_DIRS=src,pages,lib/"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"src", "pages", "lib"}; !slices.Equal(cfg.SourceDirs, want) {
		t.Errorf("SourceDirs = %v, want %v", cfg.SourceDirs, want)
	}
}

func TestLoadExplicitFile(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "custom.toml", `component = "Icon"`)

	cfg, err := Load(LoadOptions{WorkDir: dir, File: "custom.toml", Environ: []string{}})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Component != "Icon" {
		t.Errorf("Component = %q, want Icon", cfg.Component)
	}

	_, err = Load(LoadOptions{WorkDir: dir, File: "missing.toml", Environ: []string{}})
	if !errors.Is(err, errors.KindInvalidConfig) {
		t.Errorf("missing explicit file: error = %v, want INVALID_CONFIG", err)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		toml    string
		environ []string
	}{
		{"unknown key", `ouput = "typo.svg"`, nil},
		{"bad toml", `output = `, nil},
		{"wrong type", `precision = "high"`, nil},
		{"precision too high", `precision = 11`, nil},
		{"negative precision", `precision = -1`, nil},
		{"custom dir escapes", `custom_dir = "../icons"`, nil},
		{"absolute custom dir", `custom_dir = "/icons"`, nil},
		{"empty component", `component = ""`, nil},
		{"empty extensions", `extensions = []`, nil},
		{"bad env value", ``, []string{"ICONSPRITE_PRECISION=lots"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			write(t, dir, FileName, tt.toml)
			environ := tt.environ
			if environ == nil {
				environ = []string{}
			}

			_, err := Load(LoadOptions{WorkDir: dir, Environ: environ})
			if !errors.Is(err, errors.KindInvalidConfig) {
				t.Errorf("Load() error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestDerivedOptions(t *testing.T) {
	cfg := Default()
	cfg.Precision = 1

	if got := cfg.TransformOptions().Precision; got != 1 {
		t.Errorf("TransformOptions().Precision = %d", got)
	}
	so := cfg.ScanOptions()
	if so.Component != "LucideIcon" || !slices.Equal(so.Dirs, []string{"src", "app"}) {
		t.Errorf("ScanOptions() = %+v", so)
	}
	ro := cfg.ResolveOptions("/work")
	if ro.WorkDir != "/work" || ro.Package != "lucide-static" || ro.IconsDir != "icons" {
		t.Errorf("ResolveOptions() = %+v", ro)
	}

	if got, want := cfg.OutputPath("/work"), filepath.Join("/work", "public", "icons.svg"); got != want {
		t.Errorf("OutputPath() = %q, want %q", got, want)
	}
	cfg.Output = "/tmp/icons.svg"
	if got := cfg.OutputPath("/work"); got != "/tmp/icons.svg" {
		t.Errorf("OutputPath() absolute = %q", got)
	}
}
