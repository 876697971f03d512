// Package clientnet implements the client-side networking core:
// local-player prediction with server reconciliation, and fixed-delay
// interpolation of remote entities. Neither half touches rendering,
// audio, or input capture directly — those remain swappable backends
// per internal/backend — clientnet only consumes Input snapshots and
// produces/consumes protocol payloads.
package clientnet

import (
	"github.com/rtype/arcade/internal/ecs"
	"github.com/rtype/arcade/internal/systems"
)

// maxPending is the prediction buffer's saturation point: the oldest
// unacknowledged input is dropped once the buffer is full, and sequence
// numbering continues monotonically.
const maxPending = 64

// PendingInput is one unacknowledged input record kept until the server
// acknowledges its sequence number.
type PendingInput struct {
	Sequence        uint32
	Flags           ecs.InputFlags
	ClientTimestamp uint32
}

// Predictor tracks the locally controlled entity's predicted state and
// the FIFO of inputs sent but not yet acknowledged by the server.
type Predictor struct {
	pending  []PendingInput
	sequence uint32

	Position ecs.Position
	Velocity ecs.Velocity
}

// NewPredictor returns a predictor seeded at a starting position.
func NewPredictor(start ecs.Position) *Predictor {
	return &Predictor{Position: start}
}

// ApplyInput is called once per locally generated input: it assigns the
// next sequence number, applies the deterministic movement rule
// immediately (the "predict ahead of confirmation" behavior that gives
// local input its responsiveness), and records the input in the pending
// FIFO for later reconciliation.
func (p *Predictor) ApplyInput(flags ecs.InputFlags, clientTimestamp uint32, dt float64) PendingInput {
	p.sequence++
	in := PendingInput{Sequence: p.sequence, Flags: flags, ClientTimestamp: clientTimestamp}

	vx, vy := systems.ApplyMovementRule(flags)
	p.Velocity = ecs.Velocity{X: vx, Y: vy}
	p.Position.X += p.Velocity.X * dt
	p.Position.Y += p.Velocity.Y * dt

	p.pending = append(p.pending, in)
	if len(p.pending) > maxPending {
		p.pending = p.pending[len(p.pending)-maxPending:]
	}
	return in
}

// Reconcile drops every pending input at or before
// lastProcessedInputSequence, then — if the server's authoritative
// position at that sequence differs from what was predicted — snaps to
// the server state and replays the remaining pending inputs in FIFO
// order to re-derive the current predicted position. dt is the fixed
// per-input integration step (one server tick).
func (p *Predictor) Reconcile(lastProcessedInputSequence uint32, serverPosition ecs.Position, dt float64) {
	idx := 0
	for idx < len(p.pending) && p.pending[idx].Sequence <= lastProcessedInputSequence {
		idx++
	}
	p.pending = p.pending[idx:]

	// Predicted position at lastProcessedInputSequence: the current
	// prediction with the still-pending inputs' movement taken back out.
	predicted := p.Position
	for _, in := range p.pending {
		vx, vy := systems.ApplyMovementRule(in.Flags)
		predicted.X -= vx * dt
		predicted.Y -= vy * dt
	}
	if positionsDiffer(predicted, serverPosition) {
		p.Position = serverPosition
		p.Velocity = ecs.Velocity{}
		for _, in := range p.pending {
			vx, vy := systems.ApplyMovementRule(in.Flags)
			p.Velocity = ecs.Velocity{X: vx, Y: vy}
			p.Position.X += p.Velocity.X * dt
			p.Position.Y += p.Velocity.Y * dt
		}
	}
}

// Reset clears the pending-input buffer; used on respawn, session
// change, or after a long disconnect. It does not reset
// Position/Velocity — callers re-seed those from the next snapshot.
func (p *Predictor) Reset() {
	p.pending = p.pending[:0]
}

// Pending exposes a read-only view of the unacknowledged input buffer,
// for diagnostics and tests.
func (p *Predictor) Pending() []PendingInput {
	return append([]PendingInput(nil), p.pending...)
}

const epsilon = 1e-3

func positionsDiffer(a, b ecs.Position) bool {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx+dy*dy > epsilon*epsilon
}
