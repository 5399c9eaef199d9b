package widgets

import (
	core "github.com/shopreels/go-widgets/components/widget"
)

// Integrator exposes the underlying components/widget.Integrator type.
type Integrator = core.Integrator

// IntegratorOptions re-export for convenience.
type IntegratorOptions = core.IntegratorOptions

// NewIntegrator proxies to the internal constructor.
func NewIntegrator(opts IntegratorOptions) (*Integrator, error) {
	return core.NewIntegrator(opts)
}
