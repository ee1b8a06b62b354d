package poetrade

import "log/slog"

type Option func(p *Provider)

// WithLogger specifies the logger for the provider
func WithLogger(l *slog.Logger) Option {
	return func(p *Provider) {
		p.logger = l
	}
}

// WithStrictParsing makes a single malformed listing fail the whole
// acquisition. By default, malformed listings are logged and skipped
func WithStrictParsing() Option {
	return func(p *Provider) {
		p.strict = true
	}
}
