package clientnet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rtype/arcade/internal/protocol"
)

func state(id uint32, x, y float32) protocol.EntityState {
	return protocol.EntityState{EntityID: id, PositionX: x, PositionY: y}
}

func TestInterpolatorIgnoresLocalEntity(t *testing.T) {
	ip := NewInterpolator()
	ip.Ingest(10, state(1, 5, 5), 1)

	_, ok := ip.Sample(1)
	assert.False(t, ok, "samples for the locally controlled entity id must never be buffered")
}

func TestInterpolatorSingleSampleHoldsUntilDelayElapses(t *testing.T) {
	ip := NewInterpolator()
	ip.Ingest(1, state(2, 10, 20), 1)

	rs, ok := ip.Sample(2)
	require.True(t, ok)
	assert.Equal(t, float32(10), rs.X)
	assert.Equal(t, float32(20), rs.Y)
}

func TestInterpolatorBracketsBetweenTwoSamples(t *testing.T) {
	ip := NewInterpolator()
	ip.Ingest(1, state(2, 0, 0), 1)
	ip.Ingest(2, state(2, 10, 0), 1)
	ip.Ingest(3, state(2, 20, 0), 1)

	// latest=3, delay=2 -> render tick 1, exactly the first sample.
	rs, ok := ip.Sample(2)
	require.True(t, ok)
	assert.Equal(t, float32(0), rs.X)

	ip.Ingest(4, state(2, 30, 0), 1)
	// latest=4, render tick 2, exactly the second sample.
	rs, ok = ip.Sample(2)
	require.True(t, ok)
	assert.Equal(t, float32(10), rs.X)
}

func TestInterpolatorRendersNewestWhenNoSamplesBracket(t *testing.T) {
	ip := NewInterpolator()
	ip.Ingest(1, state(2, 0, 0), 1)
	ip.Ingest(2, state(2, 10, 0), 1)

	rs, ok := ip.Sample(2)
	require.True(t, ok)
	assert.Equal(t, float32(10), rs.X, "render tick 0 precedes every sample, so nothing brackets it and the newest sample is rendered")
}

func TestInterpolatorForgetAndClear(t *testing.T) {
	ip := NewInterpolator()
	ip.Ingest(1, state(2, 0, 0), 1)
	ip.Forget(2)
	_, ok := ip.Sample(2)
	assert.False(t, ok)

	ip.Ingest(1, state(3, 0, 0), 1)
	ip.Clear()
	_, ok = ip.Sample(3)
	assert.False(t, ok)
}
