package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"toolup/pkg/backend"
)

//go:embed default.yaml
var defaultCatalog []byte

// IDList is a list of package identifiers that also accepts a single scalar
// in YAML, so `winget: Git.Git` and `winget: [Git.Git]` mean the same.
type IDList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *IDList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*l = nil
		if s = strings.TrimSpace(s); s != "" {
			*l = IDList{s}
		}
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := node.Decode(&items); err != nil {
			return err
		}
		*l = nil
		for _, s := range items {
			if s = strings.TrimSpace(s); s != "" {
				*l = append(*l, s)
			}
		}
		return nil
	}
	return fmt.Errorf("line %d: package identifiers must be a string or a list", node.Line)
}

// toolEntry is the YAML shape of one tool.
type toolEntry struct {
	Name        string   `yaml:"name"`
	Command     string   `yaml:"command"`
	VersionArgs []string `yaml:"version_args"`
	Description string   `yaml:"description"`
	Category    string   `yaml:"category"`
	ManualURL   string   `yaml:"manual_url"`
	BuiltIn     bool     `yaml:"builtin"`
	Winget      IDList   `yaml:"winget"`
	Chocolatey  IDList   `yaml:"chocolatey"`
	Scoop       IDList   `yaml:"scoop"`
}

type catalogFile struct {
	Tools []toolEntry `yaml:"tools"`
}

func (e toolEntry) definition() ToolDefinition {
	def := NewTool(e.Name, map[backend.Kind][]string{
		backend.Primary:   e.Winget,
		backend.Secondary: e.Chocolatey,
		backend.Tertiary:  e.Scoop,
	})
	def.Command = strings.TrimSpace(e.Command)
	def.VersionArgs = e.VersionArgs
	def.Description = e.Description
	def.Category = e.Category
	def.ManualURL = e.ManualURL
	def.BuiltIn = e.BuiltIn
	return def.withDefaults()
}

// Load parses a YAML catalog.
func Load(r io.Reader) (*Registry, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var file catalogFile
	if err := dec.Decode(&file); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	defs := make([]ToolDefinition, 0, len(file.Tools))
	for _, entry := range file.Tools {
		defs = append(defs, entry.definition())
	}
	return NewRegistry(defs)
}

// LoadFile parses a YAML catalog from disk.
func LoadFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()

	reg, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return reg, nil
}

// Default returns the built-in catalog.
func Default() (*Registry, error) {
	return Load(bytes.NewReader(defaultCatalog))
}
