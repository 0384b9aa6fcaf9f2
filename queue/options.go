package queue

import (
	"github.com/joeycumines/logiface"
	"github.com/min1324/dlq/epoch"
	"github.com/min1324/dlq/hazard"
)

type queueOptions struct {
	logger    *logiface.Logger[logiface.Event]
	nodeCache bool
	collector *epoch.Collector
	domain    *hazard.Domain
	rejected  []string
}

// Option configures an EBR or HP queue.
type Option interface {
	applyQueue(*queueOptions)
}

type optionImpl struct {
	applyQueueFunc func(*queueOptions)
}

func (o *optionImpl) applyQueue(opts *queueOptions) {
	o.applyQueueFunc(opts)
}

// WithLogger sets the logger used for teardown and option warnings.
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return &optionImpl{func(opts *queueOptions) {
		opts.logger = logger
	}}
}

// WithNodeCache controls whether reclaimed nodes are recycled by later
// enqueues. It is enabled by default; when disabled reclaimed nodes are
// left to the garbage collector.
func WithNodeCache(enabled bool) Option {
	return &optionImpl{func(opts *queueOptions) {
		opts.nodeCache = enabled
	}}
}

// WithCollector sets the collector returned by EBR.Pin. Guards passed to
// an EBR queue must come from this collector; a foreign guard panics.
// Defaults to epoch.Default. HP queues ignore it.
func WithCollector(c *epoch.Collector) Option {
	return &optionImpl{func(opts *queueOptions) {
		if c == nil {
			opts.rejected = append(opts.rejected, "collector")
			return
		}
		opts.collector = c
	}}
}

// WithDomain sets the hazard domain an HP queue retires nodes to. Holders
// passed to the queue must come from this domain; a foreign holder panics.
// Defaults to hazard.Global. EBR queues ignore it.
func WithDomain(d *hazard.Domain) Option {
	return &optionImpl{func(opts *queueOptions) {
		if d == nil {
			opts.rejected = append(opts.rejected, "domain")
			return
		}
		opts.domain = d
	}}
}

func resolveOptions(opts []Option) *queueOptions {
	cfg := &queueOptions{nodeCache: true}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.applyQueue(cfg)
	}
	for _, name := range cfg.rejected {
		cfg.logger.Warning().
			Str("option", name).
			Log("queue: ignoring nil option")
	}
	if cfg.collector == nil {
		cfg.collector = epoch.Default()
	}
	if cfg.domain == nil {
		cfg.domain = hazard.Global()
	}
	return cfg
}
