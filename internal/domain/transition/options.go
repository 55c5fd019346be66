package transition

// Option configures a Detector.
type Option func(*Detector)

// WithPredicate selects the possession-change predicate. Unknown values are
// ignored; config validation rejects them earlier.
func WithPredicate(p Predicate) Option {
	return func(d *Detector) {
		if p.Valid() {
			d.predicate = p
		}
	}
}

// WithLookaheadFrames sets the horizon of the Lookahead predicate.
func WithLookaheadFrames(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.lookaheadFrames = n
		}
	}
}

// WithAliveOnly controls whether windows keep only Alive, non-decreasing
// frame numbers. Off by default.
func WithAliveOnly(aliveOnly bool) Option {
	return func(d *Detector) {
		d.aliveOnly = aliveOnly
	}
}
