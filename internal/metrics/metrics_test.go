package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilReceiversAreNoops(t *testing.T) {
	var p *Pipeline
	p.IncEnqueued()
	p.IncCoalesced()
	p.ObserveBuild(time.Millisecond)
	p.AddDiscarded(3)
	p.SetPending(2)

	var m *Meshes
	m.IncRealized()
	m.SetResident(1)
}

func TestPipelineCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPipeline(reg)

	p.IncEnqueued()
	p.IncEnqueued()
	p.IncCoalesced()
	p.ObserveBuild(2 * time.Millisecond)
	p.AddDiscarded(0)
	p.AddDiscarded(2)
	p.SetPending(5)

	assert.Equal(t, 2.0, testutil.ToFloat64(p.Enqueued))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.Coalesced))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.Builds))
	assert.Equal(t, 2.0, testutil.ToFloat64(p.Discarded))
	assert.Equal(t, 5.0, testutil.ToFloat64(p.Pending))

	n, err := testutil.GatherAndCount(reg, "chunkview_pipeline_build_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMeshesRegisterOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMeshes(reg)
	m.IncStale()
	m.SetDrawn(7)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Stale))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.Drawn))

	assert.Panics(t, func() { NewMeshes(reg) })
	assert.NotPanics(t, func() { NewMeshes(nil) })
}
