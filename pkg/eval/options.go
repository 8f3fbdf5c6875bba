package eval

import "log/slog"

// config collects the settings New applies before picking Sharp or Fuzzy.
type config struct {
	fuzzy      bool
	defaultEps float64
	logger     *slog.Logger
}

// Option configures an Evaluator built by New.
type Option func(*config)

// WithFuzzy selects the fuzzy (degree-of-truth) evaluator in place of the
// default sharp (boolean) one.
func WithFuzzy(fuzzy bool) Option {
	return func(c *config) { c.fuzzy = fuzzy }
}

// WithDefaultEps overrides the epsilon a fuzzy comparison falls back to
// when its own node carries none. Has no effect on a sharp evaluator.
func WithDefaultEps(eps float64) Option {
	return func(c *config) { c.defaultEps = eps }
}

// WithLogger attaches a logger; both evaluators emit one Debug record per
// event evaluated.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// New builds the Evaluator selected by opts (spec §4.9/§4.10): Sharp by
// default, or Fuzzy under WithFuzzy(true).
func New(opts ...Option) Evaluator {
	var c config
	for _, o := range opts {
		o(&c)
	}
	if c.fuzzy {
		return Fuzzy{DefaultEps: c.defaultEps, Logger: c.logger}
	}
	return Sharp{Logger: c.logger}
}
