package schema

import (
	"fmt"
	"os"
	"path"

	"gopkg.in/yaml.v3"

	"github.com/arborui/arbor/pkg/domain"
)

// ChannelDef declares one channel on a component.
type ChannelDef struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`
	Mode string `yaml:"mode,omitempty"`
}

// Component declares one node of the tree.
type Component struct {
	ID       string       `yaml:"id"`
	Kind     string       `yaml:"kind,omitempty"`
	Disabled bool         `yaml:"disabled,omitempty"`
	Channels []ChannelDef `yaml:"channels,omitempty"`
	Children []Component  `yaml:"children,omitempty"`
}

// Definition is a full declarative session tree.
type Definition struct {
	Session    string      `yaml:"session,omitempty"`
	Components []Component `yaml:"components"`
}

// Parse decodes and validates a YAML definition.
func Parse(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to parse definition: %w", err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// LoadFile reads and parses a definition from disk.
func LoadFile(filename string) (*Definition, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition: %w", err)
	}
	return Parse(data)
}

// Validate checks the whole definition and reports every failure at once.
// Unknown channel kinds and override modes are rejected here, so a definition
// that loads cleanly can always be registered without configuration errors.
func (d *Definition) Validate() error {
	var errs []error
	seen := make(map[string]bool)

	var check func(c *Component, parentPath string)
	check = func(c *Component, parentPath string) {
		p := path.Join(parentPath, c.ID)
		if c.ID == "" {
			errs = append(errs, &ValidationError{Path: path.Join(parentPath, "?"), Reason: "missing id"})
		} else if seen[c.ID] {
			errs = append(errs, &ValidationError{Path: p, Reason: "duplicate id", Value: c.ID})
		}
		seen[c.ID] = true

		names := make(map[string]bool)
		for i := range c.Channels {
			ch := &c.Channels[i]
			if ch.Name == "" {
				errs = append(errs, &ValidationError{Path: p, Reason: "channel missing name"})
				continue
			}
			if names[ch.Name] {
				errs = append(errs, &ValidationError{Path: p, Reason: "duplicate channel", Value: ch.Name})
			}
			names[ch.Name] = true
			if _, err := domain.ParseChannelKind(ch.Kind); err != nil {
				errs = append(errs, &ValidationError{Path: p, Reason: "unknown channel kind", Value: ch.Kind})
			}
			if _, err := domain.ParseOverrideMode(ch.Mode); err != nil {
				errs = append(errs, &ValidationError{Path: p, Reason: "unknown override mode", Value: ch.Mode})
			}
		}

		for i := range c.Children {
			check(&c.Children[i], p)
		}
	}
	for i := range d.Components {
		check(&d.Components[i], "")
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

// Snapshot converts the definition into the snapshot form the engine restores
// from. Call Validate (or Parse/LoadFile, which do) first.
func (d *Definition) Snapshot() *domain.TreeSnapshot {
	snap := &domain.TreeSnapshot{SessionID: d.Session}
	var convert func(c *Component) domain.NodeSnapshot
	convert = func(c *Component) domain.NodeSnapshot {
		n := domain.NodeSnapshot{
			ID:       c.ID,
			Kind:     c.Kind,
			Disabled: c.Disabled,
		}
		for _, ch := range c.Channels {
			n.Channels = append(n.Channels, domain.ChannelSpec{
				Name: ch.Name,
				Kind: ch.Kind,
				Mode: ch.Mode,
			})
		}
		for i := range c.Children {
			n.Children = append(n.Children, convert(&c.Children[i]))
		}
		return n
	}
	for i := range d.Components {
		snap.Roots = append(snap.Roots, convert(&d.Components[i]))
	}
	return snap
}
