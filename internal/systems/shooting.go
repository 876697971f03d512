package systems

import (
	"time"

	"github.com/rtype/arcade/internal/ecs"
)

// shootCooldown is the minimum interval between two shots fired by the
// same entity. Not replicated; purely a server-side rate limit.
const shootCooldown = 250 * time.Millisecond

const projectileSpeed = 500.0

// ShootingSystem spawns a Projectile entity for every Input-carrying
// entity whose Shoot flag is set and whose cooldown has elapsed.
type ShootingSystem struct {
	inputs     *ecs.ComponentStore[ecs.Input]
	positions  *ecs.ComponentStore[ecs.Position]
	velocities *ecs.ComponentStore[ecs.Velocity]
	colliders  *ecs.ComponentStore[ecs.Collider]
	networkIDs *ecs.ComponentStore[ecs.NetworkID]
	projectile *ecs.ComponentStore[ecs.Projectile]
	bus        *ecs.EventBus

	lastShot map[ecs.EntityID]time.Duration
	elapsed  time.Duration
}

func NewShootingSystem(
	inputs *ecs.ComponentStore[ecs.Input],
	positions *ecs.ComponentStore[ecs.Position],
	velocities *ecs.ComponentStore[ecs.Velocity],
	colliders *ecs.ComponentStore[ecs.Collider],
	networkIDs *ecs.ComponentStore[ecs.NetworkID],
	projectile *ecs.ComponentStore[ecs.Projectile],
	bus *ecs.EventBus,
) *ShootingSystem {
	return &ShootingSystem{
		inputs: inputs, positions: positions, velocities: velocities,
		colliders: colliders, networkIDs: networkIDs, projectile: projectile,
		bus: bus, lastShot: make(map[ecs.EntityID]time.Duration),
	}
}

func (s *ShootingSystem) Init(w *ecs.World) {}

func (s *ShootingSystem) Update(w *ecs.World, dt time.Duration) {
	s.elapsed += dt
	s.inputs.ForEach(func(owner ecs.EntityID, in ecs.Input) {
		if in.Flags&ecs.InputShoot == 0 {
			return
		}
		if last, ok := s.lastShot[owner]; ok && s.elapsed-last < shootCooldown {
			return
		}
		s.lastShot[owner] = s.elapsed

		ownerPos, ok := s.positions.Get(owner)
		if !ok {
			return
		}
		projectileEntity := w.Spawn()
		s.positions.Add(projectileEntity, ownerPos)
		s.velocities.Add(projectileEntity, ecs.Velocity{X: projectileSpeed, Y: 0})
		s.colliders.Add(projectileEntity, ecs.Collider{W: 8, H: 4})
		s.networkIDs.Add(projectileEntity, ecs.NetworkID{ID: projectileEntity})
		s.projectile.Add(projectileEntity, ecs.Projectile{})

		ecs.Publish(s.bus, ProjectileSpawnedEvent{Entity: projectileEntity, Owner: owner})
	})
}

func (s *ShootingSystem) Shutdown(w *ecs.World) {}
