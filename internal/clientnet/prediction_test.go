package clientnet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rtype/arcade/internal/ecs"
)

func TestPredictorApplyInputMovesImmediately(t *testing.T) {
	p := NewPredictor(ecs.Position{X: 0, Y: 0})
	in := p.ApplyInput(ecs.InputRight, 1000, 0.05)

	require.EqualValues(t, 1, in.Sequence)
	assert.Greater(t, p.Position.X, 0.0)
	assert.Equal(t, 0.0, p.Position.Y)
}

func TestPredictorApplyInputQueuesPending(t *testing.T) {
	p := NewPredictor(ecs.Position{})
	p.ApplyInput(ecs.InputRight, 1, 0.05)
	p.ApplyInput(ecs.InputRight, 2, 0.05)
	p.ApplyInput(ecs.InputRight, 3, 0.05)

	pending := p.Pending()
	require.Len(t, pending, 3)
	assert.EqualValues(t, 1, pending[0].Sequence)
	assert.EqualValues(t, 3, pending[len(pending)-1].Sequence)
}

func TestPredictorApplyInputSaturatesBuffer(t *testing.T) {
	p := NewPredictor(ecs.Position{})
	for i := 0; i < maxPending+10; i++ {
		p.ApplyInput(ecs.InputUp, uint32(i), 0.05)
	}
	assert.Len(t, p.Pending(), maxPending)
	assert.EqualValues(t, maxPending+10, p.Pending()[len(p.Pending())-1].Sequence)
}

func TestPredictorReconcileDropsAcknowledgedInputs(t *testing.T) {
	p := NewPredictor(ecs.Position{})
	p.ApplyInput(ecs.InputRight, 1, 0.05)
	afterFirst := p.Position
	p.ApplyInput(ecs.InputRight, 2, 0.05)

	// Server confirms the exact position the client predicted after
	// input 1, so no snap or replay should occur.
	p.Reconcile(1, afterFirst, 0.05)

	require.Len(t, p.Pending(), 1)
	assert.EqualValues(t, 2, p.Pending()[0].Sequence)
}

func TestPredictorReconcileSnapsAndReplaysOnMismatch(t *testing.T) {
	p := NewPredictor(ecs.Position{})
	p.ApplyInput(ecs.InputRight, 1, 0.05)
	p.ApplyInput(ecs.InputRight, 2, 0.05)
	p.ApplyInput(ecs.InputRight, 3, 0.05)

	// Server says after input 1 the entity was still at the origin (a
	// large mismatch versus the client's predicted drift), so the
	// predictor must snap and replay inputs 2 and 3.
	p.Reconcile(1, ecs.Position{X: 0, Y: 0}, 0.05)

	require.Len(t, p.Pending(), 2)
	assert.Greater(t, p.Position.X, 0.0, "replaying the remaining inputs should move the entity forward from the snapped position")
}

func TestPredictorReset(t *testing.T) {
	p := NewPredictor(ecs.Position{})
	p.ApplyInput(ecs.InputUp, 1, 0.05)
	p.Reset()
	assert.Empty(t, p.Pending())
}
