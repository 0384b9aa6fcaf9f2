// Package metrics exports queue and reclamation statistics as Prometheus
// metrics.
package metrics

import (
	"sync"

	"github.com/min1324/dlq/epoch"
	"github.com/min1324/dlq/hazard"
	"github.com/min1324/dlq/queue"
	"github.com/prometheus/client_golang/prometheus"
)

// QueueSource is implemented by queue.EBR and queue.HP.
type QueueSource interface {
	Stats() queue.Stats
}

// Collector is a prometheus.Collector reading the Stats of every
// registered queue, epoch collector and hazard domain on each scrape.
type Collector struct {
	mu      sync.RWMutex
	queues  map[string]QueueSource
	epochs  map[string]*epoch.Collector
	domains map[string]*hazard.Domain

	queueLen       *prometheus.Desc
	queueAllocated *prometheus.Desc
	queueRecycled  *prometheus.Desc
	queueFreed     *prometheus.Desc
	queueLive      *prometheus.Desc

	epochCurrent      *prometheus.Desc
	epochParticipants *prometheus.Desc
	epochPinned       *prometheus.Desc
	epochPending      *prometheus.Desc
	epochReclaimed    *prometheus.Desc

	hazardSlots     *prometheus.Desc
	hazardActive    *prometheus.Desc
	hazardRetired   *prometheus.Desc
	hazardReclaimed *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector returns an empty Collector whose metric names are prefixed
// with namespace.
func NewCollector(namespace string) *Collector {
	queueDesc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "queue", name), help, []string{"queue"}, nil)
	}
	epochDesc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "epoch", name), help, []string{"collector"}, nil)
	}
	hazardDesc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "hazard", name), help, []string{"domain"}, nil)
	}
	return &Collector{
		queues:  make(map[string]QueueSource),
		epochs:  make(map[string]*epoch.Collector),
		domains: make(map[string]*hazard.Domain),

		queueLen:       queueDesc("length", "Number of queued items."),
		queueAllocated: queueDesc("nodes_allocated_total", "Nodes handed out, sentinels included."),
		queueRecycled:  queueDesc("nodes_recycled_total", "Node allocations served from the node cache."),
		queueFreed:     queueDesc("nodes_freed_total", "Nodes reclaimed."),
		queueLive:      queueDesc("nodes_live", "Nodes linked or awaiting reclamation."),

		epochCurrent:      epochDesc("current", "Current global epoch."),
		epochParticipants: epochDesc("participants", "Registered participants."),
		epochPinned:       epochDesc("pinned", "Participants currently pinned."),
		epochPending:      epochDesc("pending", "Sealed objects awaiting reclamation."),
		epochReclaimed:    epochDesc("reclaimed_total", "Objects reclaimed."),

		hazardSlots:     hazardDesc("slots", "Registered hazard slots."),
		hazardActive:    hazardDesc("slots_active", "Hazard slots currently acquired."),
		hazardRetired:   hazardDesc("retired", "Retired objects awaiting a reclaim pass."),
		hazardReclaimed: hazardDesc("reclaimed_total", "Objects reclaimed."),
	}
}

// AddQueue registers q under name, replacing any queue of the same name.
func (c *Collector) AddQueue(name string, q QueueSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queues[name] = q
}

// AddEpoch registers an epoch collector under name.
func (c *Collector) AddEpoch(name string, ec *epoch.Collector) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epochs[name] = ec
}

// AddDomain registers a hazard domain under name.
func (c *Collector) AddDomain(name string, d *hazard.Domain) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.domains[name] = d
}

// Remove unregisters every source named name.
func (c *Collector) Remove(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.queues, name)
	delete(c.epochs, name)
	delete(c.domains, name)
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range [...]*prometheus.Desc{
		c.queueLen, c.queueAllocated, c.queueRecycled, c.queueFreed, c.queueLive,
		c.epochCurrent, c.epochParticipants, c.epochPinned, c.epochPending, c.epochReclaimed,
		c.hazardSlots, c.hazardActive, c.hazardRetired, c.hazardReclaimed,
	} {
		ch <- d
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for name, q := range c.queues {
		st := q.Stats()
		ch <- prometheus.MustNewConstMetric(c.queueLen, prometheus.GaugeValue, float64(st.Len), name)
		ch <- prometheus.MustNewConstMetric(c.queueAllocated, prometheus.CounterValue, float64(st.Allocated), name)
		ch <- prometheus.MustNewConstMetric(c.queueRecycled, prometheus.CounterValue, float64(st.Recycled), name)
		ch <- prometheus.MustNewConstMetric(c.queueFreed, prometheus.CounterValue, float64(st.Freed), name)
		ch <- prometheus.MustNewConstMetric(c.queueLive, prometheus.GaugeValue, float64(st.Live), name)
	}
	for name, ec := range c.epochs {
		st := ec.Stats()
		ch <- prometheus.MustNewConstMetric(c.epochCurrent, prometheus.GaugeValue, float64(st.Epoch), name)
		ch <- prometheus.MustNewConstMetric(c.epochParticipants, prometheus.GaugeValue, float64(st.Participants), name)
		ch <- prometheus.MustNewConstMetric(c.epochPinned, prometheus.GaugeValue, float64(st.Pinned), name)
		ch <- prometheus.MustNewConstMetric(c.epochPending, prometheus.GaugeValue, float64(st.Pending), name)
		ch <- prometheus.MustNewConstMetric(c.epochReclaimed, prometheus.CounterValue, float64(st.Reclaimed), name)
	}
	for name, d := range c.domains {
		st := d.Stats()
		ch <- prometheus.MustNewConstMetric(c.hazardSlots, prometheus.GaugeValue, float64(st.Slots), name)
		ch <- prometheus.MustNewConstMetric(c.hazardActive, prometheus.GaugeValue, float64(st.Active), name)
		ch <- prometheus.MustNewConstMetric(c.hazardRetired, prometheus.GaugeValue, float64(st.Retired), name)
		ch <- prometheus.MustNewConstMetric(c.hazardReclaimed, prometheus.CounterValue, float64(st.Reclaimed), name)
	}
}
