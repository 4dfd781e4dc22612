package walk

// config collects the per-walk settings applied by Options.
type config struct {
	logger Logger
	data   map[string]any
}

// Option configures one walk started by [Handle] or [HandleItem].
type Option func(*config)

// WithLogger sets the logger the walk reports to. The default discards all
// output. Every record carries the walk's ID under "walk_id".
func WithLogger(l Logger) Option {
	return func(cfg *config) {
		if l != nil {
			cfg.logger = l
		}
	}
}

// WithContextData seeds the context-scoped data store. The map is copied;
// later mutations of the argument do not affect the walk.
func WithContextData(data map[string]any) Option {
	return func(cfg *config) {
		cfg.data = data
	}
}
