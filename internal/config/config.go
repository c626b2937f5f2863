package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/andybalholm/cascadia"
	"gopkg.in/yaml.v3"
)

// Config holds configuration options for the normalization process
type Config struct {
	// RootSelector picks the element whose content is normalized
	RootSelector string `yaml:"root_selector"`

	// FixNesting lifts blocks out of inline elements and moves nested
	// lists into list items
	FixNesting bool `yaml:"fix_nesting"`

	// RemoveWhiteSpace collapses whitespace that does not render
	RemoveWhiteSpace bool `yaml:"remove_whitespace"`

	// PreserveNewLines keeps line breaks while collapsing whitespace
	PreserveNewLines bool `yaml:"preserve_newlines"`

	// IgnoreClass marks editor-internal elements skipped when looking back
	// for preceding text
	IgnoreClass string `yaml:"ignore_class"`

	// UseStylesheets lets <style> blocks decide each element's white-space
	// mode; otherwise only style attributes count
	UseStylesheets bool `yaml:"use_stylesheets"`

	// CodeAsBlock treats <code> as a block element when repairing nesting
	CodeAsBlock bool `yaml:"code_as_block"`
}

// Default returns the configuration an editor applies to pasted content
func Default() Config {
	return Config{
		RootSelector:     "body",              // Editor content lives in the body
		FixNesting:       true,                // Repair structure first
		RemoveWhiteSpace: true,                // Then collapse whitespace
		PreserveNewLines: false,               // Browsers do not render them
		IgnoreClass:      "contentfix-ignore", // Cursor and placeholder markers
		UseStylesheets:   true,                // Honor <style> white-space rules
		CodeAsBlock:      true,                // Code blocks may hold blocks
	}
}

// Profiles lists the names GetProfile accepts.
var Profiles = []string{"default", "preserve-lines", "structure-only", "whitespace-only"}

// GetProfile returns a named preset. Unknown names yield the default
// configuration and false.
func GetProfile(name string) (Config, bool) {
	cfg := Default()
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "default":
	case "preserve-lines", "preserve_lines":
		// Plain-text sources where line breaks carry meaning
		cfg.PreserveNewLines = true
	case "structure-only", "structure_only":
		// Leave text untouched, repair markup only
		cfg.RemoveWhiteSpace = false
	case "whitespace-only", "whitespace_only":
		// Trusted markup, tidy text only
		cfg.FixNesting = false
	default:
		return cfg, false
	}
	return cfg, true
}

// Load reads a YAML configuration file over the defaults. A missing file
// yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return defaults if config file doesn't exist
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}

	// Override with environment variables
	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if sel := os.Getenv("CONTENTFIX_ROOT_SELECTOR"); sel != "" {
		c.RootSelector = sel
	}
	if v, err := strconv.ParseBool(os.Getenv("CONTENTFIX_PRESERVE_NEWLINES")); err == nil {
		c.PreserveNewLines = v
	}
}

// Validate validates the configuration.
func (c Config) Validate() error {
	if strings.TrimSpace(c.RootSelector) == "" {
		return fmt.Errorf("root selector is empty")
	}
	if _, err := cascadia.Compile(c.RootSelector); err != nil {
		return fmt.Errorf("invalid root selector %q: %w", c.RootSelector, err)
	}
	if strings.ContainsAny(c.IgnoreClass, " \t\r\n") {
		return fmt.Errorf("ignore class %q must be a single class name", c.IgnoreClass)
	}
	if !c.FixNesting && !c.RemoveWhiteSpace {
		return fmt.Errorf("nothing to do: both fix_nesting and remove_whitespace are disabled")
	}
	return nil
}
