package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/ettle/strcase"
	"gopkg.in/yaml.v3"

	widget "github.com/shopreels/go-widgets/components/widget"
	"github.com/shopreels/go-widgets/pkg/storefront"
)

type cli struct {
	Scaffold scaffoldCmd `cmd:"" help:"Add a container entry to a page manifest."`
	Validate validateCmd `cmd:"" help:"Validate a container manifest and its display settings."`
	Plan     planCmd     `cmd:"" help:"Render the widget plan for a manifest and print the result."`
}

type scaffoldCmd struct {
	Name         string   `required:"" help:"Human-readable container name (used to derive the id)."`
	Shop         string   `required:"" help:"Shop domain the container fetches widgets for."`
	Type         string   `default:"carousel" help:"Widget type the container is scoped to (story, floating, carousel)."`
	Path         string   `help:"Page path override (defaults to the manifest page)."`
	ManifestPath string   `required:"" type:"path" help:"Path to the container manifest YAML file to update."`
	Tag          []string `help:"Optional tags to include in the manifest (use multiple --tag flags)."`
	Overwrite    bool     `help:"Overwrite an existing container entry with the same id."`
}

type validateCmd struct {
	ManifestPath string `arg:"" type:"path" help:"Path to the container manifest YAML file."`
}

type planCmd struct {
	ManifestPath string `arg:"" type:"path" help:"Path to the container manifest YAML file."`
	APIURL       string `help:"Widget API base URL; omit to render demo fixtures."`
	Locale       string `help:"Locale used for label resolution."`
	Width        int    `default:"1280" help:"Viewport width used for carousel layout."`
	JSON         bool   `help:"Print the raw plan payload as JSON instead of HTML."`
}

func main() {
	ctx := kong.Parse(&cli{},
		kong.Description("Container manifest utility for the shoppable widget engine."),
		kong.UsageOnError(),
	)
	err := ctx.Run(context.Background())
	ctx.FatalIfErrorf(err)
}

func (cmd *scaffoldCmd) Run(_ context.Context) error {
	widgetType, ok := widget.ParseWidgetType(cmd.Type)
	if !ok {
		return fmt.Errorf("reelsctl: unknown widget type %q", cmd.Type)
	}
	manifestPath, err := filepath.Abs(cmd.ManifestPath)
	if err != nil {
		return fmt.Errorf("reelsctl: resolve manifest path: %w", err)
	}
	doc, err := loadOrInitManifest(manifestPath)
	if err != nil {
		return err
	}

	id := deriveContainerID(cmd.Name)
	entry := widget.ManifestContainer{
		Config: widget.ContainerConfig{
			ID:         id,
			Shop:       cmd.Shop,
			Path:       cmd.Path,
			WidgetType: widgetType,
		},
		Tags: cmd.Tag,
	}

	replaced := false
	for idx := range doc.Containers {
		if doc.Containers[idx].Config.ID == id {
			if !cmd.Overwrite {
				return fmt.Errorf("reelsctl: manifest already defines container %s (use --overwrite to replace)", id)
			}
			doc.Containers[idx] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		doc.Containers = append(doc.Containers, entry)
	}
	sort.Slice(doc.Containers, func(i, j int) bool {
		return doc.Containers[i].Config.ID < doc.Containers[j].Config.ID
	})

	if err := writeManifest(manifestPath, doc); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ Added container %s to %s\n", id, manifestPath)
	return nil
}

func (cmd *validateCmd) Run(_ context.Context) error {
	doc, err := widget.ReadContainerManifest(cmd.ManifestPath)
	if err != nil {
		return err
	}
	registry := widget.NewRegistry()
	validator := widget.NewJSONSchemaValidator()
	for _, container := range doc.Containers {
		if len(container.Settings) == 0 {
			continue
		}
		def, ok := registry.Definition(container.Config.WidgetType)
		if !ok {
			continue
		}
		if err := validator.Validate(def, container.Settings); err != nil {
			return fmt.Errorf("reelsctl: container %s: %w", container.Config.ID, err)
		}
	}
	fmt.Fprintf(os.Stdout, "✓ %s is valid (%d containers)\n", cmd.ManifestPath, len(doc.Containers))
	return nil
}

func (cmd *planCmd) Run(ctx context.Context) error {
	doc, err := widget.ReadContainerManifest(cmd.ManifestPath)
	if err != nil {
		return err
	}
	containers, err := widget.ContainerSourceFromManifest(doc)
	if err != nil {
		return err
	}

	var source widget.WidgetSource
	if cmd.APIURL != "" {
		client, err := storefront.NewHTTPClient(storefront.HTTPConfig{BaseURL: cmd.APIURL})
		if err != nil {
			return err
		}
		source = client
	} else {
		source = storefront.NewMockClient(widget.DemoWidgets()...)
	}

	integrator, err := widget.NewIntegrator(widget.IntegratorOptions{
		Source:        source,
		Containers:    containers,
		Locale:        cmd.Locale,
		ViewportWidth: cmd.Width,
	})
	if err != nil {
		return err
	}
	controller := widget.NewController(integrator, nil, nil)
	payload, err := controller.Plan(ctx)
	if err != nil {
		return err
	}

	if cmd.JSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(payload)
	}
	ids := make([]string, 0, len(payload.HTML))
	for id := range payload.HTML {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Fprintf(os.Stdout, "== %s ==\n%s\n\n", id, payload.HTML[id])
	}
	return nil
}

func loadOrInitManifest(path string) (*widget.ContainerManifestDocument, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &widget.ContainerManifestDocument{
				Version:    widget.ManifestVersion,
				Containers: []widget.ManifestContainer{},
				Source:     path,
			}, nil
		}
		return nil, fmt.Errorf("reelsctl: stat manifest: %w", err)
	}
	return widget.ReadContainerManifest(path)
}

func writeManifest(path string, doc *widget.ContainerManifestDocument) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("reelsctl: mkdir %s: %w", filepath.Dir(path), err)
	}
	tmpDoc := *doc
	tmpDoc.Source = ""

	file, err := os.Create(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("reelsctl: create manifest %s: %w", path, err)
	}
	defer file.Close()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	defer encoder.Close()
	if err := encoder.Encode(tmpDoc); err != nil {
		return fmt.Errorf("reelsctl: write manifest: %w", err)
	}
	return nil
}

func deriveContainerID(name string) string {
	slug := strcase.ToKebab(strings.TrimSpace(name))
	if slug == "" {
		slug = "container"
	}
	return "sv-" + slug
}
