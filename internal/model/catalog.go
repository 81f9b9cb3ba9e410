package model

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Catalog holds the closed sets of project statuses and cloud providers.
// The first status is assigned to projects created without one.
type Catalog struct {
	Statuses  []string `yaml:"statuses" json:"statuses"`
	Providers []string `yaml:"providers" json:"providers"`
}

// DefaultCatalog returns the canonical status and provider sets.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Statuses:  []string{StatusInProgress, StatusProduction, StatusDecommissioned},
		Providers: []string{ProviderAWS, ProviderOVH, ProviderCloudAvenue},
	}
}

// LoadCatalog reads a catalog override from a YAML file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return ParseCatalog(data)
}

// ParseCatalog parses a YAML catalog. Missing lists fall back to the defaults.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	def := DefaultCatalog()
	c.Statuses = cleanValues(c.Statuses)
	c.Providers = cleanValues(c.Providers)
	if len(c.Statuses) == 0 {
		c.Statuses = def.Statuses
	}
	if len(c.Providers) == 0 {
		c.Providers = def.Providers
	}
	return &c, nil
}

// DefaultStatus returns the status given to new projects.
func (c *Catalog) DefaultStatus() string {
	return c.Statuses[0]
}

func (c *Catalog) HasStatus(s string) bool {
	return slices.Contains(c.Statuses, s)
}

func (c *Catalog) HasProvider(p string) bool {
	return slices.Contains(c.Providers, p)
}

func cleanValues(values []string) []string {
	var out []string
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

