package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pipesizer/pipesizer/pkg/types"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultCatalogPath   = "catalog.yaml"
	DefaultReportFormat  = "text"
	DefaultLogLevel      = "info"
	DefaultWatchDebounce = 250 * time.Millisecond
)

// Config is the top-level sizer configuration.
// Fields map 1:1 to config.example.yaml.
type Config struct {
	Catalog   CatalogConfig   `yaml:"catalog"`
	Materials MaterialsConfig `yaml:"materials"`
	Checks    []CheckRule     `yaml:"checks"`
	Report    ReportConfig    `yaml:"report"`
	Log       LogConfig       `yaml:"log"`
	Watch     WatchConfig     `yaml:"watch"`
}

// CatalogConfig locates the equipment catalog. Exactly one of Path and Dir
// is used; relative paths are resolved against the config file directory.
type CatalogConfig struct {
	// Path is a single YAML file with pipes, pumps and sprinklers keys.
	Path string `yaml:"path"`

	// Dir holds pipes.yaml, pumps.yaml and sprinklers.yaml.
	Dir string `yaml:"dir"`
}

// MaterialsConfig lists the pipe materials allowed to be Recommended per
// role. An empty list allows every material.
type MaterialsConfig struct {
	Branch    []types.Material `yaml:"branch"`
	Secondary []types.Material `yaml:"secondary"`
	Main      []types.Material `yaml:"main"`
}

// ByRole returns the allow-lists keyed by pipe role.
func (m MaterialsConfig) ByRole() map[types.Role][]types.Material {
	return map[types.Role][]types.Material{
		types.RoleBranch:    m.Branch,
		types.RoleSecondary: m.Secondary,
		types.RoleMain:      m.Main,
	}
}

// CheckRule is a user design rule evaluated against every result.
type CheckRule struct {
	// Name is the human-readable rule identifier.
	Name string `yaml:"name"`

	// Condition is an expression like "main_velocity > 2.5" or
	// "complexity == complex".
	Condition string `yaml:"condition"`

	// Severity is one of: critical | warning | info.
	Severity string `yaml:"severity"`
}

// ReportConfig controls result output.
type ReportConfig struct {
	// Format is one of: text | json.
	Format string `yaml:"format"`

	// MetricsPath, when set, receives the result as a Prometheus textfile.
	MetricsPath string `yaml:"metrics_path"`

	// Candidates is how many ranked candidates per class the text report lists.
	Candidates int `yaml:"candidates"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	// Level is one of: debug | info | warn | error.
	Level string `yaml:"level"`
}

// WatchConfig tunes -watch mode.
type WatchConfig struct {
	// Debounce coalesces bursts of file events into one recomputation.
	Debounce time.Duration `yaml:"debounce"`
}

// Load reads and parses the YAML config file at path.
// Missing optional fields are filled with sensible defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}
	if cfg.Catalog.Path == "" && cfg.Catalog.Dir == "" {
		cfg.Catalog.Path = DefaultCatalogPath
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg.Catalog.Path = resolve(filepath.Dir(path), cfg.Catalog.Path)
	cfg.Catalog.Dir = resolve(filepath.Dir(path), cfg.Catalog.Dir)
	cfg.Report.MetricsPath = resolve(filepath.Dir(path), cfg.Report.MetricsPath)
	return cfg, nil
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	cfg := defaults()
	cfg.Catalog.Path = DefaultCatalogPath
	return cfg
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Materials: MaterialsConfig{
			Branch:    []types.Material{types.MaterialLDPE, types.MaterialPE, types.MaterialHDPE},
			Secondary: []types.Material{types.MaterialHDPE, types.MaterialPVC},
			Main:      []types.Material{types.MaterialPVC, types.MaterialHDPE},
		},
		Report: ReportConfig{
			Format:     DefaultReportFormat,
			Candidates: 3,
		},
		Log:   LogConfig{Level: DefaultLogLevel},
		Watch: WatchConfig{Debounce: DefaultWatchDebounce},
	}
}

// validate checks required fields and structural constraints.
func validate(cfg *Config) error {
	if cfg.Catalog.Path != "" && cfg.Catalog.Dir != "" {
		return fmt.Errorf("catalog: set either path or dir, not both")
	}
	for role, list := range cfg.Materials.ByRole() {
		for _, m := range list {
			switch m {
			case types.MaterialPVC, types.MaterialHDPE, types.MaterialLDPE, types.MaterialPE:
			default:
				return fmt.Errorf("materials.%s: unknown material %q", role, m)
			}
		}
	}
	for i, rule := range cfg.Checks {
		if rule.Name == "" {
			return fmt.Errorf("checks[%d]: name is required", i)
		}
		if rule.Condition == "" {
			return fmt.Errorf("checks[%d] %q: condition is required", i, rule.Name)
		}
		switch rule.Severity {
		case "critical", "warning", "info":
		default:
			return fmt.Errorf("checks[%d] %q: unknown severity %q", i, rule.Name, rule.Severity)
		}
	}
	switch cfg.Report.Format {
	case "text", "json":
	default:
		return fmt.Errorf("report.format: unknown format %q", cfg.Report.Format)
	}
	if cfg.Report.Candidates < 0 {
		return fmt.Errorf("report.candidates must not be negative")
	}
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level: unknown level %q", cfg.Log.Level)
	}
	if cfg.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	return nil
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
