// Package config loads the latency profile: per-kind fetch latencies and
// the boundary timeout, written as YAML duration strings.
//
//	boundary_timeout: 3s
//	latencies:
//	  stats: 200ms
//	  comments: 1.5s
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/application"
	"gopkg.in/yaml.v3"
)

type Profile struct {
	BoundaryTimeout time.Duration            `yaml:"boundary_timeout"`
	Latencies       map[string]time.Duration `yaml:"latencies"`
}

// LoadFile reads and validates a profile from path.
func LoadFile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read latency profile %s: %w", path, err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse latency profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Profile) Validate() error {
	if p.BoundaryTimeout < 0 {
		return fmt.Errorf("boundary_timeout must not be negative, got %s", p.BoundaryTimeout)
	}
	for name, d := range p.Latencies {
		if _, err := application.ParseKind(name); err != nil {
			return fmt.Errorf("latencies: %w", err)
		}
		if d < 0 {
			return fmt.Errorf("latencies.%s must not be negative, got %s", name, d)
		}
	}
	return nil
}

// Options turns the profile into data source options.
func (p *Profile) Options() []application.Option {
	if len(p.Latencies) == 0 {
		return nil
	}
	latencies := make(map[application.Kind]time.Duration, len(p.Latencies))
	for name, d := range p.Latencies {
		kind, err := application.ParseKind(name)
		if err != nil {
			continue
		}
		latencies[kind] = d
	}
	return []application.Option{application.WithLatencies(latencies)}
}

// Marshal renders the profile, used by the CLI to print the defaults.
func Marshal(p *Profile) ([]byte, error) {
	return yaml.Marshal(p)
}

// Default is the stock latency table as a profile.
func Default() *Profile {
	p := &Profile{Latencies: make(map[string]time.Duration)}
	for kind, d := range application.DefaultLatencies() {
		p.Latencies[string(kind)] = d
	}
	return p
}
