package timeline

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed presets.yaml
var presetsYAML []byte

type document struct {
	Timelines []Timeline `yaml:"timelines"`
}

// Load decodes and validates timelines from YAML.
func Load(r io.Reader) ([]Timeline, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode timelines: %w", err)
	}
	seen := map[string]bool{}
	for _, tl := range doc.Timelines {
		if tl.Name == "" {
			return nil, fmt.Errorf("timeline without name")
		}
		if seen[tl.Name] {
			return nil, fmt.Errorf("duplicate timeline %q", tl.Name)
		}
		seen[tl.Name] = true
		if err := tl.Validate(); err != nil {
			return nil, err
		}
	}
	return doc.Timelines, nil
}

// Presets returns the built-in site timelines keyed by name.
func Presets() map[string]Timeline {
	tls, err := Load(bytes.NewReader(presetsYAML))
	if err != nil {
		panic(fmt.Sprintf("timeline presets: %v", err))
	}
	out := make(map[string]Timeline, len(tls))
	for _, tl := range tls {
		out[tl.Name] = tl
	}
	return out
}

// PresetNames lists the built-in timelines in name order.
func PresetNames() []string {
	p := Presets()
	names := make([]string, 0, len(p))
	for n := range p {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
