package lockfile

import (
	"errors"
	"fmt"
	"io"

	"github.com/samber/lo"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/lockaudit/lockaudit/pkg/depgraph"
)

// A File is the decoded form of a lockfile: one ecosystem and the resolved
// package set, each package with the parents that pulled it in.
type File struct {
	Ecosystem string    `yaml:"ecosystem"`
	Packages  []Package `yaml:"packages"`
}

// Package is one resolved package entry in a lockfile.
type Package struct {
	Name    string   `yaml:"name"`
	Version string   `yaml:"version"`
	Parents []string `yaml:"parents,omitempty"`
	ID      string   `yaml:"id,omitempty"`
}

// Load reads the lockfile at path and returns its dependency tuples, ready
// for depgraph.Resolve.
func Load(fsys afero.Fs, path string) ([]depgraph.Dependency, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening lockfile: %w", err)
	}
	defer f.Close()

	deps, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("reading lockfile %s: %w", path, err)
	}

	return deps, nil
}

// Parse decodes lockfile YAML from r. Unknown fields are rejected.
func Parse(r io.Reader) ([]depgraph.Dependency, error) {
	file := File{}
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return nil, err
	}

	if file.Ecosystem == "" {
		return nil, errors.New("lockfile must declare an ecosystem")
	}

	return lo.Map(file.Packages, func(pkg Package, _ int) depgraph.Dependency {
		return depgraph.Dependency{
			Ecosystem: file.Ecosystem,
			Name:      pkg.Name,
			Version:   pkg.Version,
			Parents:   pkg.Parents,
			ID:        pkg.ID,
		}
	}), nil
}
