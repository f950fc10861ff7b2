package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/shell-ai/assets"
	"github.com/doeshing/shell-ai/internal/domain"
)

// Catalog lists the supported backends and their defaults.
type Catalog struct {
	Providers []domain.ProviderSpec `yaml:"providers"`
}

// DefaultCatalog decodes the embedded provider catalog.
func DefaultCatalog() (Catalog, error) {
	return ParseCatalog(assets.ProvidersYAML)
}

// ParseCatalog decodes a YAML catalog and checks every entry names a
// known provider exactly once.
func ParseCatalog(data []byte) (Catalog, error) {
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return Catalog{}, fmt.Errorf("parse provider catalog: %w", err)
	}
	seen := map[domain.ProviderID]bool{}
	for _, spec := range cat.Providers {
		if !isKnownProvider(spec.ID) {
			return Catalog{}, fmt.Errorf("provider catalog: unknown provider %q", spec.ID)
		}
		if seen[spec.ID] {
			return Catalog{}, fmt.Errorf("provider catalog: duplicate provider %q", spec.ID)
		}
		if spec.Endpoint == "" {
			return Catalog{}, fmt.Errorf("provider catalog: %s has no endpoint", spec.ID)
		}
		seen[spec.ID] = true
	}
	for _, id := range domain.KnownProviders() {
		if !seen[id] {
			return Catalog{}, fmt.Errorf("provider catalog: missing provider %q", id)
		}
	}
	return cat, nil
}

// Lookup returns the catalog entry for id.
func (c Catalog) Lookup(id domain.ProviderID) (domain.ProviderSpec, bool) {
	for _, spec := range c.Providers {
		if spec.ID == id {
			return spec, true
		}
	}
	return domain.ProviderSpec{}, false
}

func isKnownProvider(id domain.ProviderID) bool {
	for _, known := range domain.KnownProviders() {
		if known == id {
			return true
		}
	}
	return false
}
