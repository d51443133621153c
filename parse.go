package manview

import "go.uber.org/zap"

// ParseOption configures Parse.
type ParseOption func(*parseConfig)

type parseConfig struct {
	log *zap.Logger
}

// WithLogger routes parse diagnostics to log. Unknown macros are logged at
// debug level and every other diagnostic at warn level.
func WithLogger(log *zap.Logger) ParseOption {
	return func(cfg *parseConfig) {
		cfg.log = log
	}
}

// Parse interprets text as a macro document. It never fails: conditions it
// recovers from are recorded in Document.Diagnostics.
func Parse(text string, opts ...ParseOption) *Document {
	cfg := parseConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.log == nil {
		cfg.log = zap.NewNop()
	}
	return newInterpreter(cfg.log).run(Classify(text))
}
