// Package templates serves the embedded starter projects.
package templates

import (
	"embed"
	"fmt"
	"path"
	"sort"

	"github.com/goccy/go-yaml"

	"github.com/GriffinCanCode/Sandbox/backend/internal/shared/types"
)

//go:embed catalog.yaml files
var content embed.FS

// FrameworkInfo describes a framework for the picker
type FrameworkInfo struct {
	ID          types.Framework `yaml:"id" json:"id"`
	Name        string          `yaml:"name" json:"name"`
	Icon        string          `yaml:"icon" json:"icon"`
	Color       string          `yaml:"color" json:"color"`
	Description string          `yaml:"description" json:"description"`
	Features    []string        `yaml:"features" json:"features"`
}

// Summary is a template without its files
type Summary struct {
	ID          string          `yaml:"id" json:"id"`
	Name        string          `yaml:"name" json:"name"`
	Description string          `yaml:"description" json:"description"`
	Framework   types.Framework `yaml:"framework" json:"framework"`
	Default     bool            `yaml:"default" json:"default"`
	Tags        []string        `yaml:"tags" json:"tags"`
}

// Template is a starter project
type Template struct {
	Summary
	Files types.SourceSet `json:"files"`
}

type manifest struct {
	Frameworks []FrameworkInfo `yaml:"frameworks"`
	Templates  []struct {
		Summary `yaml:",inline"`
		Files   []string `yaml:"files"`
	} `yaml:"templates"`
}

// Catalog holds every template, indexed by id
type Catalog struct {
	frameworks []FrameworkInfo
	templates  []Template
	byID       map[string]int
	defaults   map[types.Framework]int
}

// Load parses the embedded catalog
func Load() (*Catalog, error) {
	data, err := content.ReadFile("catalog.yaml")
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	c := &Catalog{
		frameworks: m.Frameworks,
		byID:       make(map[string]int, len(m.Templates)),
		defaults:   make(map[types.Framework]int),
	}
	for _, entry := range m.Templates {
		if !entry.Framework.Valid() {
			return nil, fmt.Errorf("template %s: %w", entry.ID, types.ErrUnsupportedFramework)
		}
		if _, dup := c.byID[entry.ID]; dup {
			return nil, fmt.Errorf("template %s: duplicate id", entry.ID)
		}

		records := make([]types.FileRecord, 0, len(entry.Files))
		for _, name := range entry.Files {
			body, err := content.ReadFile(path.Join("files", entry.ID, name))
			if err != nil {
				return nil, fmt.Errorf("template %s: %w", entry.ID, err)
			}
			records = append(records, types.NewFile(name, string(body)))
		}
		set, err := types.NewSourceSet(records...)
		if err != nil {
			return nil, fmt.Errorf("template %s: %w", entry.ID, err)
		}

		c.byID[entry.ID] = len(c.templates)
		if entry.Default {
			c.defaults[entry.Framework] = len(c.templates)
		}
		c.templates = append(c.templates, Template{Summary: entry.Summary, Files: set})
	}
	return c, nil
}

// MustLoad is Load for package initialization
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// Frameworks describes the supported frameworks
func (c *Catalog) Frameworks() []FrameworkInfo {
	out := make([]FrameworkInfo, len(c.frameworks))
	copy(out, c.frameworks)
	return out
}

// List returns template summaries, optionally for one framework
func (c *Catalog) List(fw types.Framework) []Summary {
	out := make([]Summary, 0, len(c.templates))
	for _, t := range c.templates {
		if fw == "" || t.Framework == fw {
			out = append(out, t.Summary)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Get returns a template by id
func (c *Catalog) Get(id string) (Template, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return Template{}, false
	}
	return c.templates[idx], true
}

// ForFramework returns the default template of fw, or the vanilla default
// for unknown frameworks
func (c *Catalog) ForFramework(fw types.Framework) Template {
	if idx, ok := c.defaults[fw]; ok {
		return c.templates[idx]
	}
	return c.templates[c.defaults[types.FrameworkVanilla]]
}
