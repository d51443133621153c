package manview

// RenderOption configures Reflow and WriteANSI.
type RenderOption func(*renderConfig)

type renderConfig struct {
	osc8       bool
	titleLines bool
	tabWidth   int
}

func newRenderConfig(opts []RenderOption) renderConfig {
	cfg := renderConfig{tabWidth: defaultTabWidth}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.tabWidth < 1 {
		cfg.tabWidth = defaultTabWidth
	}
	return cfg
}

const defaultTabWidth = 8

// WithOSC8 enables or disables OSC 8 hyperlinks in WriteANSI.
func WithOSC8(enabled bool) RenderOption {
	return func(cfg *renderConfig) {
		cfg.osc8 = enabled
	}
}

// WithTitleLines adds the header line built from .TH before the body and
// the footer line after it.
func WithTitleLines(enabled bool) RenderOption {
	return func(cfg *renderConfig) {
		cfg.titleLines = enabled
	}
}

// WithTabWidth sets the tab stop distance used when expanding tabs in prose.
// Values below 1 select the default of 8.
func WithTabWidth(width int) RenderOption {
	return func(cfg *renderConfig) {
		cfg.tabWidth = width
	}
}
