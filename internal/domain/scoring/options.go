package scoring

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithGeneratedCodeBonus overrides the link-time generated-code flag.
func WithGeneratedCodeBonus(enabled bool) Option {
	return func(e *Engine) {
		e.generatedCode = enabled
	}
}
