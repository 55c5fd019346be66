package pairing

// Option configures an Engine.
type Option func(*Engine)

// WithOutlierRemoval toggles removal of the single largest-distance candidate.
// The largest candidate is usually the two goalkeepers, but nothing here knows
// player roles, so it is only a heuristic.
func WithOutlierRemoval(enabled bool) Option {
	return func(e *Engine) {
		e.outlierRemoval = enabled
	}
}

// WithOutlierPolicy selects what the removed candidate takes with it.
func WithOutlierPolicy(p OutlierPolicy) Option {
	return func(e *Engine) {
		if p.Valid() {
			e.outlierPolicy = p
		}
	}
}

// WithTieBreak sets the tie-break rule. Only StableByInputOrder exists.
func WithTieBreak(t TieBreak) Option {
	return func(e *Engine) {
		if t == StableByInputOrder {
			e.tieBreak = t
		}
	}
}
