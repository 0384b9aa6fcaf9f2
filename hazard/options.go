package hazard

import (
	"github.com/joeycumines/logiface"
)

// DefaultScanThreshold is the number of retired objects that triggers a
// reclaim pass when the domain has few slots. The effective threshold is at
// least twice the number of slots.
const DefaultScanThreshold = 256

type domainOptions struct {
	logger        *logiface.Logger[logiface.Event]
	scanThreshold int
}

// Option configures a Domain.
type Option interface {
	applyDomain(*domainOptions)
}

type optionImpl struct {
	applyDomainFunc func(*domainOptions)
}

func (o *optionImpl) applyDomain(opts *domainOptions) {
	o.applyDomainFunc(opts)
}

// WithLogger sets the logger used to report reclaim passes.
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return &optionImpl{func(opts *domainOptions) {
		opts.logger = logger
	}}
}

// WithScanThreshold sets the number of retired objects that triggers a
// reclaim pass. Values below 1 keep the default.
func WithScanThreshold(n int) Option {
	return &optionImpl{func(opts *domainOptions) {
		opts.scanThreshold = n
	}}
}

func resolveOptions(opts []Option) *domainOptions {
	cfg := &domainOptions{
		scanThreshold: DefaultScanThreshold,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.applyDomain(cfg)
	}
	if cfg.scanThreshold < 1 {
		cfg.logger.Warning().
			Int("scan_threshold", cfg.scanThreshold).
			Log("hazard: ignoring invalid scan threshold")
		cfg.scanThreshold = DefaultScanThreshold
	}
	return cfg
}
