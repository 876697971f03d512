package clientnet

import "github.com/rtype/arcade/internal/protocol"

// interpolationDelayTicks is the fixed render-time offset behind the
// newest received snapshot, expressed in server ticks: two ticks at
// 20Hz is ~100ms, enough buffer to bracket-interpolate
// between two real samples under ordinary jitter without adding
// perceptible input lag to remote entities.
const interpolationDelayTicks = 2

// maxSamples bounds the per-entity sample buffer. Snapshots arrive at
// most once per tick, so three samples comfortably covers one bracket
// plus one spare for an out-of-order arrival.
const maxSamples = 3

// sample is one received (server_tick, position, velocity) observation
// for a single remote entity.
type sample struct {
	tick     uint32
	position protocol.EntityState
}

// Interpolator buffers recent snapshot samples per remote entity and
// produces a smoothed render position a fixed delay behind the latest
// confirmed server tick. It never touches the locally
// controlled entity, which is driven by Predictor instead.
type Interpolator struct {
	buffers map[uint32][]sample
	latest  uint32 // highest server_tick observed across any entity
}

// NewInterpolator returns an empty interpolator.
func NewInterpolator() *Interpolator {
	return &Interpolator{buffers: make(map[uint32][]sample)}
}

// Ingest records one entity's state from a received snapshot.
// localEntityID is the locally controlled player's entity id, if known; samples for
// it are ignored since the predictor already owns that entity's state.
func (ip *Interpolator) Ingest(tick uint32, state protocol.EntityState, localEntityID uint32) {
	if state.EntityID == localEntityID {
		return
	}
	if tick > ip.latest {
		ip.latest = tick
	}

	buf := ip.buffers[state.EntityID]
	buf = append(buf, sample{tick: tick, position: state})
	if len(buf) > maxSamples {
		buf = buf[len(buf)-maxSamples:]
	}
	ip.buffers[state.EntityID] = buf
}

// Forget drops a remote entity's buffered samples, called once its
// entity_destroy event arrives.
func (ip *Interpolator) Forget(entityID uint32) {
	delete(ip.buffers, entityID)
}

// Clear empties every buffered entity, called on session change so a
// new session's entity ids never interpolate against stale samples.
func (ip *Interpolator) Clear() {
	ip.buffers = make(map[uint32][]sample)
	ip.latest = 0
}

// RenderState is the position/velocity clientnet hands to a rendering
// backend for one remote entity this frame.
type RenderState struct {
	X, Y   float32
	VX, VY float32
}

// Sample returns the interpolated render state for entityID at the
// current render time (latest received tick minus the fixed delay). It
// reports ok=false if no samples have been buffered yet.
//
// When the render time falls between two buffered samples (inclusive)
// it linearly interpolates between them. When no two samples bracket it
// (render time before the oldest sample, or at or after the newest),
// it returns the newest sample rather than extrapolating.
func (ip *Interpolator) Sample(entityID uint32) (RenderState, bool) {
	buf := ip.buffers[entityID]
	if len(buf) == 0 {
		return RenderState{}, false
	}
	if ip.latest < interpolationDelayTicks {
		return fromEntityState(buf[len(buf)-1].position), true
	}
	renderTick := ip.latest - interpolationDelayTicks

	last := buf[len(buf)-1]
	if renderTick < buf[0].tick || renderTick >= last.tick {
		return fromEntityState(last.position), true
	}

	for i := 0; i < len(buf)-1; i++ {
		a, b := buf[i], buf[i+1]
		if renderTick >= a.tick && renderTick <= b.tick {
			if b.tick == a.tick {
				return fromEntityState(b.position), true
			}
			t := float32(renderTick-a.tick) / float32(b.tick-a.tick)
			return lerp(fromEntityState(a.position), fromEntityState(b.position), t), true
		}
	}
	return fromEntityState(last.position), true
}

func fromEntityState(s protocol.EntityState) RenderState {
	return RenderState{
		X: s.PositionX, Y: s.PositionY,
		VX: float32(s.VelocityX) / 10, VY: float32(s.VelocityY) / 10,
	}
}

func lerp(a, b RenderState, t float32) RenderState {
	return RenderState{
		X:  a.X + (b.X-a.X)*t,
		Y:  a.Y + (b.Y-a.Y)*t,
		VX: a.VX + (b.VX-a.VX)*t,
		VY: a.VY + (b.VY-a.VY)*t,
	}
}
