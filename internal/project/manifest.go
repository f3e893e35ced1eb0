package project

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Manifest is a loaded waldo.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

type Config struct {
	Package  PackageConfig  `toml:"package"`
	Universe UniverseConfig `toml:"universe"`
	Check    CheckConfig    `toml:"check"`
}

type PackageConfig struct {
	Name string `toml:"name"`
}

type UniverseConfig struct {
	// Wit is the resolved WIT package in JSON form, as printed by
	// `wasm-tools component wit --json`.
	Wit string `toml:"wit"`
}

type CheckConfig struct {
	Root  string `toml:"root"`
	Jobs  int    `toml:"jobs"`
	Cache *bool  `toml:"cache"`
}

// LoadManifest finds and loads waldo.toml starting at startDir.
// ok is false when there is no manifest.
func LoadManifest(startDir string) (m *Manifest, ok bool, err error) {
	path, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Config: cfg,
	}, true, nil
}

// LoadConfig parses and validates the manifest at path.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return Config{}, fmt.Errorf("%s: missing [package]", path)
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return Config{}, fmt.Errorf("%s: missing [package].name", path)
	}
	if !meta.IsDefined("universe", "wit") || strings.TrimSpace(cfg.Universe.Wit) == "" {
		return Config{}, fmt.Errorf("%s: missing [universe].wit", path)
	}
	if cfg.Check.Jobs < 0 {
		return Config{}, fmt.Errorf("%s: [check].jobs must not be negative", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}
	return cfg, nil
}

// WitPath is the absolute path of the universe file.
func (m *Manifest) WitPath() string {
	return m.resolve(m.Config.Universe.Wit)
}

// CheckRoot is the directory of documents; the manifest's directory when
// [check].root is unset.
func (m *Manifest) CheckRoot() string {
	if strings.TrimSpace(m.Config.Check.Root) == "" {
		return m.Root
	}
	return m.resolve(m.Config.Check.Root)
}

// CacheEnabled defaults to true.
func (m *Manifest) CacheEnabled() bool {
	return m.Config.Check.Cache == nil || *m.Config.Check.Cache
}

func (m *Manifest) resolve(rel string) string {
	p := filepath.FromSlash(strings.TrimSpace(rel))
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.Root, p)
}
