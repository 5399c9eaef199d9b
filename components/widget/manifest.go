package widget

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

const (
	manifestVersionV1 = "1"
	// ManifestVersion exposes the current manifest format version for tooling.
	ManifestVersion = manifestVersionV1
)

// ContainerManifestDocument models a YAML/JSON manifest describing the
// widget containers a page (or a server-side preview host) mounts.
type ContainerManifestDocument struct {
	Version    string              `json:"version" yaml:"version"`
	Name       string              `json:"name,omitempty" yaml:"name,omitempty"`
	Page       string              `json:"page,omitempty" yaml:"page,omitempty"`
	Containers []ManifestContainer `json:"containers" yaml:"containers"`
	Source     string              `json:"-" yaml:"-"`
}

// ManifestContainer describes a single container entry within a manifest.
type ManifestContainer struct {
	Config   ContainerConfig `json:"config" yaml:"config"`
	Settings map[string]any  `json:"settings,omitempty" yaml:"settings,omitempty"`
	Tags     []string        `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// ReadContainerManifest loads a manifest file from disk.
func ReadContainerManifest(path string) (*ContainerManifestDocument, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("widget: open manifest %s: %w", path, err)
	}
	defer f.Close()
	doc, err := DecodeContainerManifest(f)
	if err != nil {
		return nil, fmt.Errorf("widget: decode manifest %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// DecodeContainerManifest reads a manifest from any reader.
func DecodeContainerManifest(r io.Reader) (*ContainerManifestDocument, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var doc ContainerManifestDocument
	if err := decoder.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("widget: manifest is empty")
		}
		return nil, fmt.Errorf("widget: parse manifest: %w", err)
	}
	doc.applyDefaults()
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate ensures the manifest satisfies required fields.
func (doc *ContainerManifestDocument) Validate() error {
	if doc.Version != manifestVersionV1 {
		return fmt.Errorf("widget: unsupported manifest version %q", doc.Version)
	}
	if len(doc.Containers) == 0 {
		return fmt.Errorf("widget: manifest declares no containers")
	}
	seen := make(map[string]struct{}, len(doc.Containers))
	for idx, container := range doc.Containers {
		cfg := container.Config
		if cfg.Shop == "" {
			return fmt.Errorf("widget: manifest container at index %d is missing config.shop", idx)
		}
		if cfg.WidgetType != "" {
			if _, ok := ParseWidgetType(string(cfg.WidgetType)); !ok {
				return fmt.Errorf("widget: manifest container %s has unknown widget_type %q", cfg.ID, cfg.WidgetType)
			}
		}
		if _, exists := seen[cfg.ID]; exists {
			return fmt.Errorf("widget: manifest duplicates container id %s", cfg.ID)
		}
		seen[cfg.ID] = struct{}{}
	}
	return nil
}

func (doc *ContainerManifestDocument) applyDefaults() {
	if doc.Version == "" {
		doc.Version = manifestVersionV1
	}
	for i := range doc.Containers {
		cfg := &doc.Containers[i].Config
		if cfg.ID == "" {
			cfg.ID = "sv-" + uuid.NewString()
		}
		if cfg.Path == "" {
			cfg.Path = doc.Page
		}
		if t, ok := ParseWidgetType(string(cfg.WidgetType)); ok {
			cfg.WidgetType = t
		}
	}
}

// StaticContainerSource serves a fixed container list, typically decoded
// from a manifest.
type StaticContainerSource struct {
	page       string
	containers []ContainerConfig
}

// NewStaticContainerSource builds a source over an explicit container list.
func NewStaticContainerSource(page string, containers ...ContainerConfig) *StaticContainerSource {
	return &StaticContainerSource{page: page, containers: containers}
}

// ContainerSourceFromManifest adapts a manifest document into a source.
func ContainerSourceFromManifest(doc *ContainerManifestDocument) (*StaticContainerSource, error) {
	if doc == nil {
		return nil, fmt.Errorf("widget: manifest document is nil")
	}
	containers := make([]ContainerConfig, 0, len(doc.Containers))
	for _, container := range doc.Containers {
		containers = append(containers, container.Config)
	}
	return NewStaticContainerSource(doc.Page, containers...), nil
}

// Containers returns the configured container list.
func (s *StaticContainerSource) Containers(context.Context) ([]ContainerConfig, error) {
	out := make([]ContainerConfig, len(s.containers))
	copy(out, s.containers)
	return out, nil
}

// PagePath returns the page path containers default to.
func (s *StaticContainerSource) PagePath() string {
	if s.page == "" {
		return "/"
	}
	return s.page
}
