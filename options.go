package docparse

import (
	"net/http"

	"github.com/sirupsen/logrus"
)

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithCache sets the document cache (default: a new unbounded cache).
func WithCache(cache *DocumentCache) Option {
	return func(p *Pipeline) {
		p.cache = cache
	}
}

// WithLogger sets the logger used for pipeline progress and diagnostics.
func WithLogger(log *logrus.Logger) Option {
	return func(p *Pipeline) {
		p.log = log
	}
}

// WithMaxChunkSize sets the segmentation bound (default: DefaultMaxChunkSize).
func WithMaxChunkSize(size int) Option {
	return func(p *Pipeline) {
		p.maxChunkSize = size
	}
}

// WithTargetFormat sets the output format requested from the backend
// (default: "markdown").
func WithTargetFormat(format string) Option {
	return func(p *Pipeline) {
		p.targetFormat = format
	}
}

// WithHTTPClient sets the HTTP client used to download source documents
// from URLs. This is separate from the conversion backend's client.
func WithHTTPClient(client *http.Client) Option {
	return func(p *Pipeline) {
		p.httpClient = client
	}
}
