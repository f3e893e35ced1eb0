package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadManifestWalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, `
[package]
name = "demo"

[universe]
wit = "wit/resolve.json"

[check]
root = "compose"
jobs = 3
`)
	nested := filepath.Join(root, "compose", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	m, ok, err := LoadManifest(nested)
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	wantRoot, _ := filepath.Abs(root)
	if m.Root != wantRoot {
		t.Fatalf("root = %s, want %s", m.Root, wantRoot)
	}
	if m.Config.Package.Name != "demo" || m.Config.Check.Jobs != 3 {
		t.Fatalf("config = %+v", m.Config)
	}
	if got := m.WitPath(); got != filepath.Join(wantRoot, "wit", "resolve.json") {
		t.Fatalf("wit path = %s", got)
	}
	if got := m.CheckRoot(); got != filepath.Join(wantRoot, "compose") {
		t.Fatalf("check root = %s", got)
	}
	if !m.CacheEnabled() {
		t.Fatal("cache should default to enabled")
	}
}

func TestLoadManifestMissing(t *testing.T) {
	m, ok, err := LoadManifest(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	// где-то выше tmp может лежать чужой waldo.toml, тогда тест бессмысленен
	if ok {
		t.Skipf("found unrelated manifest at %s", m.Path)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"syntax", "[package\n", "failed to parse TOML"},
		{"no package", "[universe]\nwit = \"a.json\"\n", "missing [package]"},
		{"no name", "[package]\nname = \" \"\n[universe]\nwit = \"a.json\"\n", "missing [package].name"},
		{"no wit", "[package]\nname = \"x\"\n", "missing [universe].wit"},
		{"negative jobs", "[package]\nname = \"x\"\n[universe]\nwit = \"a.json\"\n[check]\njobs = -1\n", "jobs must not be negative"},
		{"unknown key", "[package]\nname = \"x\"\nmain = \"y\"\n[universe]\nwit = \"a.json\"\n", "unknown key package.main"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeManifest(t, t.TempDir(), tt.content)
			_, err := LoadConfig(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestManifestDefaults(t *testing.T) {
	off := false
	m := &Manifest{Root: "/p", Config: Config{
		Universe: UniverseConfig{Wit: "/abs/resolve.json"},
		Check:    CheckConfig{Cache: &off},
	}}
	if m.CheckRoot() != "/p" {
		t.Fatalf("check root = %s", m.CheckRoot())
	}
	if m.WitPath() != filepath.FromSlash("/abs/resolve.json") {
		t.Fatalf("wit path = %s", m.WitPath())
	}
	if m.CacheEnabled() {
		t.Fatal("cache = false not honored")
	}
}

func TestCombineOrderMatters(t *testing.T) {
	a, b := Digest{1}, Digest{2}
	if Combine(a, b) == Combine(b, a) {
		t.Fatal("Combine must depend on argument order")
	}
	if Combine(a, b).IsZero() || !(Digest{}).IsZero() {
		t.Fatal("IsZero misreports")
	}
	if len(a.String()) != 64 {
		t.Fatalf("hex digest length = %d", len(a.String()))
	}
}
