// Package config loads the optional nifc.yaml project configuration file:
// a project root, a default --stop-after phase, and runtime ABI symbol
// names. The compile command applies only the default --stop-after phase;
// the project root and runtime symbol names are parsed and kept but not
// read by any other package.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// RuntimeSymbols holds runtime ABI symbol names read from nifc.yaml. The code
// generator does not consult them: it always emits the built-in rt_* names.
type RuntimeSymbols struct {
	ThreadState   string `yaml:"thread_state,omitempty"`
	RootFrameInit string `yaml:"root_frame_init,omitempty"`
	PushRoots     string `yaml:"push_roots,omitempty"`
	PopRoots      string `yaml:"pop_roots,omitempty"`
	AllocObj      string `yaml:"alloc_obj,omitempty"`
	CheckedCast   string `yaml:"checked_cast,omitempty"`
}

// Config is the parsed contents of nifc.yaml.
type Config struct {
	ProjectRoot    string         `yaml:"project-root,omitempty"`
	DefaultStop    string         `yaml:"default-stop-after,omitempty"`
	RuntimeSymbols RuntimeSymbols `yaml:"runtime-symbols,omitempty"`
}

var validStopPhases = map[string]bool{
	"lex": true, "parse": true, "check": true, "codegen": true,
}

// Default returns the zero-value configuration used when no nifc.yaml
// exists.
func Default() *Config {
	return &Config{}
}

// Load reads and parses path. A missing file is not an error: Default() is
// returned instead, since nifc.yaml is optional.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &c, nil
}

// LoadFromProjectRoot loads "nifc.yaml" from projectRoot, if present.
func LoadFromProjectRoot(projectRoot string) (*Config, error) {
	return Load(filepath.Join(projectRoot, "nifc.yaml"))
}

func (c *Config) validate() error {
	if c.DefaultStop != "" && !validStopPhases[c.DefaultStop] {
		return fmt.Errorf("invalid default-stop-after %q (want lex, parse, check, or codegen)", c.DefaultStop)
	}
	return nil
}
