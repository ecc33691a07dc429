package engine

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/cellgrid/pkg/core/chain"
)

// DefaultSpacing is the gap between cells when no spacing is configured.
const DefaultSpacing = 5.0

// Option configures an Engine.
type Option func(*Engine)

// WithSpacing sets the gap between rows and columns.
func WithSpacing(spacing float64) Option {
	return func(e *Engine) {
		for _, c := range e.chains {
			c.SetSpacing(spacing)
		}
	}
}

// WithLogger sets the logger receiving diagnostics. Nil keeps the default.
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithDefaultAlignment sets the alignment used for item axes without one.
func WithDefaultAlignment(a Alignment) Option {
	return func(e *Engine) { e.defaultAlignment = a }
}

// WithDirection sets the visual direction.
func WithDirection(d Direction) Option {
	return func(e *Engine) { e.direction = d }
}

// WithDefaultDirection sets what [DirectionAuto] resolves to, typically the
// direction of the surrounding locale.
func WithDefaultDirection(d Direction) Option {
	return func(e *Engine) { e.defaultDirection = d }
}

// WithExpansion selects the minimum-to-preferred growth policy of both
// chains.
func WithExpansion(x chain.Expansion) Option {
	return func(e *Engine) {
		for _, c := range e.chains {
			c.SetExpansion(x)
		}
	}
}
