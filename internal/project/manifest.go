package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"hush/internal/strip"
)

// ManifestName is the file name looked up by FindManifest.
const ManifestName = "hush.toml"

// ErrManifestExists is returned by WriteDefault when a manifest is already present.
var ErrManifestExists = errors.New("manifest already exists")

// Manifest is a decoded hush.toml together with its location.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors hush.toml.
type Config struct {
	Strip StripConfig `toml:"strip"`
	Log   LogConfig   `toml:"log"`
}

// StripConfig lists the files to process and how.
type StripConfig struct {
	Files []string `toml:"files"`
	Mode  string   `toml:"mode"`
	Jobs  int      `toml:"jobs"`
	Cache bool     `toml:"cache"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level string `toml:"level"`
}

// FindManifest walks up from startDir to locate hush.toml.
func FindManifest(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// LoadManifest finds and decodes the nearest hush.toml. ok is false when none exists.
func LoadManifest(startDir string) (*Manifest, bool, error) {
	manifestPath, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := DecodeConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

// DecodeConfig parses and validates the manifest at path.
func DecodeConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("strip") {
		return Config{}, fmt.Errorf("%s: missing [strip]", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("strip", "files") && len(cfg.Strip.Files) == 0 {
		return Config{}, fmt.Errorf("%s: [strip].files is empty", path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field values.
func (c Config) Validate() error {
	for i, f := range c.Strip.Files {
		if strings.TrimSpace(f) == "" {
			return fmt.Errorf("[strip].files[%d] is empty", i)
		}
	}
	if _, err := strip.ParseMode(c.Strip.Mode); err != nil {
		return fmt.Errorf("[strip].mode: %w", err)
	}
	if c.Strip.Jobs < 0 {
		return fmt.Errorf("[strip].jobs must not be negative, got %d", c.Strip.Jobs)
	}
	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("[log].level: unknown level %q", c.Log.Level)
	}
	return nil
}

// RenderDefault returns the manifest written by `hush init`.
func RenderDefault() string {
	quoted := make([]string, 0, len(DefaultFiles))
	for _, f := range DefaultFiles {
		quoted = append(quoted, fmt.Sprintf("%q", f))
	}
	return fmt.Sprintf(`# hush manifest
[strip]
# files are processed in this order, relative to this manifest
files = [%s]
# regex | line
mode = "regex"
# values above 1 process files concurrently
jobs = 1
cache = false

[log]
level = "info"
`, strings.Join(quoted, ", "))
}

// WriteDefault creates hush.toml in dir. It refuses to overwrite an existing manifest.
func WriteDefault(dir string) (string, error) {
	path := filepath.Join(dir, ManifestName)
	if _, err := os.Stat(path); err == nil {
		return path, fmt.Errorf("%s: %w", path, ErrManifestExists)
	} else if !errors.Is(err, os.ErrNotExist) {
		return path, fmt.Errorf("failed to stat %q: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(RenderDefault()), 0o600); err != nil {
		return path, fmt.Errorf("failed to write manifest: %w", err)
	}
	return path, nil
}
