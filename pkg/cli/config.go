package cli

import (
	"fmt"
	"path"

	"github.com/adrg/xdg"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

var defaultConfigPath = path.Join(xdg.ConfigHome, "lockaudit", "config.yaml")

// config is the optional configuration file for the audit command. Every
// value it carries can also be set on the command line, and flags win.
type config struct {
	// Output is the default output format (outline or json).
	Output string `yaml:"output,omitempty"`

	// IncludeCVSS turns on CVSS score computation by default.
	IncludeCVSS *bool `yaml:"include-cvss,omitempty"`

	// FailOn is the severity floor at which findings fail the invocation.
	FailOn string `yaml:"fail-on,omitempty"`

	// Ignore lists advisory IDs (or aliases) to always exclude. Command-line
	// --ignore values are added to this list, not replacing it.
	Ignore []string `yaml:"ignore,omitempty"`
}

// loadConfig reads the configuration file at explicitPath, or at the default
// XDG location when no path is given. A missing file at the default location
// is not an error; a missing file at an explicit path is.
func loadConfig(fsys afero.Fs, explicitPath string) (config, error) {
	p := explicitPath
	if p == "" {
		p = defaultConfigPath

		if exists, err := afero.Exists(fsys, p); err != nil || !exists {
			return config{}, err
		}
	}

	f, err := fsys.Open(p)
	if err != nil {
		return config{}, fmt.Errorf("opening configuration file: %w", err)
	}
	defer f.Close()

	cfg := config{}
	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return config{}, fmt.Errorf("reading configuration file %s: %w", p, err)
	}

	return cfg, nil
}

// apply overlays the configuration onto the audit parameters. A flag the user
// set on the command line is never overridden.
func (c config) apply(p *auditParams, flags *pflag.FlagSet) {
	if c.Output != "" && !flags.Changed(flagNameOutput) {
		p.outputFormat = c.Output
	}

	if c.IncludeCVSS != nil && !flags.Changed(flagNameIncludeCVSS) {
		p.includeCVSS = *c.IncludeCVSS
	}

	if c.FailOn != "" && !flags.Changed(flagNameFailOn) {
		p.failOn = c.FailOn
	}

	p.ignore = append(p.ignore, c.Ignore...)
}
