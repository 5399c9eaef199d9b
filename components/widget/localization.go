package widget

import (
	"strings"
)

// Label keys for the user-facing strings rendered by the engine.
const (
	LabelNoProducts    = "widget.products.empty"
	LabelAddToCart     = "widget.products.add_to_cart"
	LabelMoreInfo      = "widget.products.more_info"
	LabelCartAdded     = "widget.cart.added"
	LabelCartFailed    = "widget.cart.failed"
	LabelCartNoVariant = "widget.cart.no_variant"
	LabelLoadFailed    = "widget.modal.load_failed"
)

var defaultLabelValues = map[string]map[string]string{
	LabelNoProducts: {
		"default": "No products tagged",
		"es":      "Sin productos etiquetados",
	},
	LabelAddToCart: {
		"default": "Add to cart",
		"es":      "Agregar al carrito",
	},
	LabelMoreInfo: {
		"default": "More info",
		"es":      "Más información",
	},
	LabelCartAdded: {
		"default": "Added to cart!",
		"es":      "¡Agregado al carrito!",
	},
	LabelCartFailed: {
		"default": "Could not add to cart",
		"es":      "No se pudo agregar al carrito",
	},
	LabelCartNoVariant: {
		"default": "This product is unavailable",
		"es":      "Este producto no está disponible",
	},
	LabelLoadFailed: {
		"default": "This content is unavailable right now",
		"es":      "Este contenido no está disponible",
	},
}

// Labels resolves user-facing strings for a locale with graceful fallback.
type Labels struct {
	locale string
	values map[string]map[string]string
}

// NewLabels builds a label set for the locale using the built-in catalog
// merged with overrides (per-key locale maps).
func NewLabels(locale string, overrides map[string]map[string]string) Labels {
	values := make(map[string]map[string]string, len(defaultLabelValues))
	for key, locales := range defaultLabelValues {
		merged := make(map[string]string, len(locales))
		for k, v := range locales {
			merged[k] = v
		}
		for k, v := range overrides[key] {
			if v != "" {
				merged[normalizeLocale(k)] = v
			}
		}
		values[key] = merged
	}
	return Labels{locale: normalizeLocale(locale), values: values}
}

// Get returns the best translation for a label key; unknown keys return
// the key itself so missing catalog entries are visible, not blank.
func (l Labels) Get(key string) string {
	locales, ok := l.values[key]
	if !ok {
		return key
	}
	return ResolveLocalizedValue(locales, l.locale, key)
}

// Locale returns the normalized locale the labels resolve against.
func (l Labels) Locale() string { return l.locale }

// ResolveLocalizedValue selects the best translation for the locale and
// falls back to the supplied value. Keys are matched case-insensitively and
// language-region pairs (`es-mx`) fall back to their base language (`es`).
func ResolveLocalizedValue(values map[string]string, locale, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	for _, candidate := range localeCandidates(locale) {
		if candidate == "" {
			continue
		}
		for key, value := range values {
			if strings.EqualFold(key, candidate) && value != "" {
				return value
			}
		}
	}
	if value, ok := values["default"]; ok && value != "" {
		return value
	}
	return fallback
}

func localeCandidates(locale string) []string {
	locale = normalizeLocale(locale)
	if locale == "" {
		return []string{"default"}
	}
	candidates := []string{locale}
	if idx := strings.Index(locale, "-"); idx > 0 {
		candidates = append(candidates, locale[:idx])
	}
	return append(candidates, "default")
}

func normalizeLocale(locale string) string {
	return strings.TrimSpace(strings.ToLower(locale))
}
