package widget

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// PlanPayload is the wire form of a render pass: one entry per container
// surface plus the shared modal scaffold.
type PlanPayload struct {
	Surfaces map[string]*Node  `json:"surfaces"`
	HTML     map[string]string `json:"html"`
	Modal    *Node             `json:"modal,omitempty"`
}

// Controller orchestrates transport-facing render operations over the
// integrator.
type Controller struct {
	integrator *Integrator
	templates  Renderer
	cache      RenderCache
}

// NewController wires the integrator into a controller. Templates and
// cache are optional; without them RenderPreview falls back to raw
// concatenated markup.
func NewController(integrator *Integrator, templates Renderer, cache RenderCache) *Controller {
	return &Controller{integrator: integrator, templates: templates, cache: cache}
}

// Plan runs a full render pass and returns the instruction trees together
// with their encoded HTML.
func (c *Controller) Plan(ctx context.Context) (PlanPayload, error) {
	if c.integrator == nil {
		return PlanPayload{}, fmt.Errorf("widget: controller has no integrator")
	}
	surfaces, err := c.integrator.Plan(ctx)
	if err != nil {
		return PlanPayload{}, err
	}
	payload := PlanPayload{
		Surfaces: surfaces,
		HTML:     make(map[string]string, len(surfaces)),
		Modal:    c.integrator.Modal().View(),
	}
	for id, node := range surfaces {
		html, err := RenderHTML(node)
		if err != nil {
			return PlanPayload{}, fmt.Errorf("widget: encode surface %s: %w", id, err)
		}
		payload.HTML[id] = html
	}
	return payload, nil
}

// RenderPreview renders the full preview page for a shop: every container's
// markup stitched into the preview template. Results are cached per shop
// and settings revision.
func (c *Controller) RenderPreview(ctx context.Context, shop string) (string, error) {
	if c.integrator == nil {
		return "", fmt.Errorf("widget: controller has no integrator")
	}
	key := previewCacheKey(shop, c.integrator.settingsSnapshot())
	render := func() (string, error) {
		payload, err := c.Plan(ctx)
		if err != nil {
			return "", err
		}
		body := stitchSurfaces(payload)
		if c.templates == nil {
			return body, nil
		}
		modal, err := RenderHTML(payload.Modal)
		if err != nil {
			return "", fmt.Errorf("widget: encode modal: %w", err)
		}
		return c.templates.Render("preview.html", map[string]any{
			"shop":  shop,
			"body":  body,
			"modal": modal,
		})
	}
	if c.cache == nil {
		return render()
	}
	return c.cache.GetOrRender(key, render)
}

func (m *Integrator) settingsSnapshot() DisplaySettings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings
}

func previewCacheKey(shop string, settings DisplaySettings) string {
	return "preview:" + shop + ":" + settingsHash(settings)
}

// stitchSurfaces concatenates container markup in a stable order so cached
// previews are deterministic.
func stitchSurfaces(payload PlanPayload) string {
	ids := make([]string, 0, len(payload.HTML))
	for id := range payload.HTML {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var builder strings.Builder
	for _, id := range ids {
		if payload.HTML[id] == "" {
			continue
		}
		builder.WriteString(fmt.Sprintf("<section id=%q>", id))
		builder.WriteString(payload.HTML[id])
		builder.WriteString("</section>\n")
	}
	return builder.String()
}
