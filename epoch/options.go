package epoch

import (
	"github.com/joeycumines/logiface"
)

const (
	// DefaultBagSize is the number of deferred objects a participant
	// buffers before sealing them into the collector's garbage stack.
	DefaultBagSize = 64

	// DefaultCollectEvery is the number of pins of one participant between
	// two collection attempts.
	DefaultCollectEvery = 128
)

type collectorOptions struct {
	logger       *logiface.Logger[logiface.Event]
	bagSize      int
	collectEvery int
}

// Option configures a Collector.
type Option interface {
	applyCollector(*collectorOptions)
}

type optionImpl struct {
	applyCollectorFunc func(*collectorOptions)
}

func (o *optionImpl) applyCollector(opts *collectorOptions) {
	o.applyCollectorFunc(opts)
}

// WithLogger sets the logger used to report collections.
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return &optionImpl{func(opts *collectorOptions) {
		opts.logger = logger
	}}
}

// WithBagSize sets how many deferred objects a participant buffers before
// sealing them. Values below 1 keep the default.
func WithBagSize(n int) Option {
	return &optionImpl{func(opts *collectorOptions) {
		opts.bagSize = n
	}}
}

// WithCollectEvery sets how many pins of a participant happen between two
// collection attempts. Values below 1 keep the default.
func WithCollectEvery(n int) Option {
	return &optionImpl{func(opts *collectorOptions) {
		opts.collectEvery = n
	}}
}

func resolveOptions(opts []Option) *collectorOptions {
	cfg := &collectorOptions{
		bagSize:      DefaultBagSize,
		collectEvery: DefaultCollectEvery,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.applyCollector(cfg)
	}
	if cfg.bagSize < 1 {
		cfg.logger.Warning().
			Int("bag_size", cfg.bagSize).
			Log("epoch: ignoring invalid bag size")
		cfg.bagSize = DefaultBagSize
	}
	if cfg.collectEvery < 1 {
		cfg.logger.Warning().
			Int("collect_every", cfg.collectEvery).
			Log("epoch: ignoring invalid collect interval")
		cfg.collectEvery = DefaultCollectEvery
	}
	return cfg
}
