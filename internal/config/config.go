package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	// Discovery settings
	RootDir       string   `yaml:"rootDir"`
	Pattern       string   `yaml:"pattern"`
	PathsToIgnore []string `yaml:"ignore"`

	// Filters
	Filter     string `yaml:"filter"`
	FilterBody string `yaml:"filter_body"`

	// Module loading
	ModuleType string `yaml:"moduleType"`
	ESMBundle  bool   `yaml:"esmBundle"`

	// Output settings
	OutputJSONFile string `yaml:"outputFile"`
	OutputJSONDir  string `yaml:"outputDir"`

	// Extra keys handed through to every case's runtime object
	RuntimeExtras map[string]interface{} `yaml:"runtime"`

	// Command flags
	Flags Flags `yaml:"-"`
}

// Flags holds command-line flags
type Flags struct {
	RootDir    string
	Pattern    string
	Filter     string
	FilterBody string
	ModuleType string
	ESMBundle  bool
	FailFast   bool
	TestCases  bool
	OpenViewer bool
}

// New creates a new Config with defaults
func New() *Config {
	cfg := &Config{
		RootDir:        DefaultRootDir,
		Pattern:        DefaultPattern,
		ModuleType:     DefaultModuleType,
		OutputJSONFile: DefaultOutputJSONFile,
		OutputJSONDir:  DefaultOutputJSONDir,
	}
	cfg.PathsToIgnore = make([]string, len(DefaultPathsToIgnore))
	copy(cfg.PathsToIgnore, DefaultPathsToIgnore)
	return cfg
}

// Load creates a config from defaults, .env, an optional jtl.yaml under
// the root dir, environment variables and finally the given flags, in
// that order of precedence (later wins).
func Load(flags Flags) (*Config, error) {
	// .env is optional; values become visible through os.Getenv below
	_ = godotenv.Load()

	cfg := New()
	cfg.Flags = flags

	root := cfg.RootDir
	if v := os.Getenv("JTL_ROOT_DIR"); v != "" {
		root = v
	}
	if flags.RootDir != "" {
		root = flags.RootDir
	}

	if err := cfg.loadFile(filepath.Join(root, DefaultConfigFile)); err != nil {
		return nil, err
	}

	cfg.applyEnv()
	cfg.applyFlags(flags)
	return cfg, nil
}

// loadFile merges an optional YAML config file; a missing file is fine.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("JTL_ROOT_DIR"); v != "" {
		c.RootDir = v
	}
	if v := os.Getenv("JTL_PATTERN"); v != "" {
		c.Pattern = v
	}
	if v := os.Getenv("JTL_FILTER"); v != "" {
		c.Filter = v
	}
	if v := os.Getenv("JTL_FILTER_BODY"); v != "" {
		c.FilterBody = v
	}
	if v := os.Getenv("JTL_MODULE_TYPE"); v != "" {
		c.ModuleType = v
	}
	if os.Getenv("JTL_ESM_BUNDLE") == "1" {
		c.ESMBundle = true
	}
}

func (c *Config) applyFlags(flags Flags) {
	if flags.RootDir != "" {
		c.RootDir = flags.RootDir
	}
	if flags.Pattern != "" {
		c.Pattern = flags.Pattern
	}
	if flags.Filter != "" {
		c.Filter = flags.Filter
	}
	if flags.FilterBody != "" {
		c.FilterBody = flags.FilterBody
	}
	if flags.ModuleType != "" {
		c.ModuleType = flags.ModuleType
	}
	if flags.ESMBundle {
		c.ESMBundle = true
	}
}

// GetRootDir returns the absolute discovery root.
func (c *Config) GetRootDir() string {
	if abs, err := filepath.Abs(c.RootDir); err == nil {
		return abs
	}
	return c.RootDir
}

// GetOutputPath returns the full path to the results JSON file.
// Resolved to an absolute path so run and failures always read/write
// the same file regardless of cwd.
func (c *Config) GetOutputPath() string {
	p := filepath.Join(c.RootDir, c.OutputJSONDir, c.OutputJSONFile)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// Runtime builds the opaque configuration object handed to every test
// case's run function.
func (c *Config) Runtime() map[string]interface{} {
	rt := map[string]interface{}{
		"rootDir":     c.GetRootDir(),
		"filter":      c.Filter,
		"filter_body": c.FilterBody,
		"moduleType":  c.ModuleType,
	}
	for k, v := range c.RuntimeExtras {
		rt[k] = v
	}
	return rt
}
