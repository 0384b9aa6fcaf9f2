package metrics_test

import (
	"strings"
	"testing"

	"github.com/min1324/dlq/epoch"
	"github.com/min1324/dlq/hazard"
	"github.com/min1324/dlq/metrics"
	"github.com/min1324/dlq/queue"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestQueueMetrics(t *testing.T) {
	d := hazard.NewDomain()
	q := queue.NewHP[int](queue.WithDomain(d), queue.WithNodeCache(false))
	h := q.AcquireHolder()
	for i := 0; i < 3; i++ {
		q.Enqueue(i, h)
	}
	_, ok := q.Dequeue(h)
	require.True(t, ok)

	c := metrics.NewCollector("dlq")
	c.AddQueue("jobs", q)
	c.AddDomain("jobs", d)

	const want = `
# HELP dlq_queue_length Number of queued items.
# TYPE dlq_queue_length gauge
dlq_queue_length{queue="jobs"} 2
# HELP dlq_queue_nodes_allocated_total Nodes handed out, sentinels included.
# TYPE dlq_queue_nodes_allocated_total counter
dlq_queue_nodes_allocated_total{queue="jobs"} 4
# HELP dlq_queue_nodes_live Nodes linked or awaiting reclamation.
# TYPE dlq_queue_nodes_live gauge
dlq_queue_nodes_live{queue="jobs"} 4
# HELP dlq_hazard_slots_active Hazard slots currently acquired.
# TYPE dlq_hazard_slots_active gauge
dlq_hazard_slots_active{domain="jobs"} 2
# HELP dlq_hazard_retired Retired objects awaiting a reclaim pass.
# TYPE dlq_hazard_retired gauge
dlq_hazard_retired{domain="jobs"} 1
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(want),
		"dlq_queue_length",
		"dlq_queue_nodes_allocated_total",
		"dlq_queue_nodes_live",
		"dlq_hazard_slots_active",
		"dlq_hazard_retired",
	))

	h.Release()
	require.NoError(t, q.Destroy())

	const after = `
# HELP dlq_queue_nodes_live Nodes linked or awaiting reclamation.
# TYPE dlq_queue_nodes_live gauge
dlq_queue_nodes_live{queue="jobs"} 0
# HELP dlq_hazard_reclaimed_total Objects reclaimed.
# TYPE dlq_hazard_reclaimed_total counter
dlq_hazard_reclaimed_total{domain="jobs"} 3
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(after),
		"dlq_queue_nodes_live",
		"dlq_hazard_reclaimed_total",
	))
}

func TestEpochMetrics(t *testing.T) {
	ec := epoch.NewCollector()
	g := ec.Pin()

	c := metrics.NewCollector("dlq")
	c.AddEpoch("default", ec)

	const want = `
# HELP dlq_epoch_participants Registered participants.
# TYPE dlq_epoch_participants gauge
dlq_epoch_participants{collector="default"} 1
# HELP dlq_epoch_pinned Participants currently pinned.
# TYPE dlq_epoch_pinned gauge
dlq_epoch_pinned{collector="default"} 1
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(want),
		"dlq_epoch_participants", "dlq_epoch_pinned"))
	g.Unpin()

	c.Remove("default")
	require.Zero(t, testutil.CollectAndCount(c))
}

func TestRegister(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	c := metrics.NewCollector("dlq")
	c.AddQueue("a", queue.NewEBR[string](queue.WithCollector(epoch.NewCollector())))
	require.NoError(t, reg.Register(c))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	require.ElementsMatch(t, []string{
		"dlq_queue_length",
		"dlq_queue_nodes_allocated_total",
		"dlq_queue_nodes_recycled_total",
		"dlq_queue_nodes_freed_total",
		"dlq_queue_nodes_live",
	}, names)
}
