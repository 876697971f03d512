package systems

import (
	"time"

	"github.com/rtype/arcade/internal/ecs"
)

// cellKey is a coarse grid cell coordinate used for broad-phase
// collision partitioning.
type cellKey struct{ X, Y int64 }

// CollisionSystem buckets collidable entities into coarse grid cells,
// then pairwise-checks only entities sharing a cell neighborhood,
// keyed by ecs.EntityID and driven by component lookups.
type CollisionSystem struct {
	positions  *ecs.ComponentStore[ecs.Position]
	colliders  *ecs.ComponentStore[ecs.Collider]
	healths    *ecs.ComponentStore[ecs.Health]
	players    *ecs.ComponentStore[ecs.Player]
	enemies    *ecs.ComponentStore[ecs.Enemy]
	walls      *ecs.ComponentStore[ecs.Wall]
	projectile *ecs.ComponentStore[ecs.Projectile]
	toDestroy  *ecs.ComponentStore[ecs.ToDestroy]
	invuln     *ecs.ComponentStore[ecs.Invulnerability]
	bus        *ecs.EventBus

	cellSize float64
	cells    map[cellKey][]ecs.EntityID

	projectileOwner map[ecs.EntityID]ecs.EntityID
}

// NewCollisionSystem wires the system to every component store a
// collision resolution rule needs, plus the event bus explosions are
// published to.
func NewCollisionSystem(
	positions *ecs.ComponentStore[ecs.Position],
	colliders *ecs.ComponentStore[ecs.Collider],
	healths *ecs.ComponentStore[ecs.Health],
	players *ecs.ComponentStore[ecs.Player],
	enemies *ecs.ComponentStore[ecs.Enemy],
	walls *ecs.ComponentStore[ecs.Wall],
	projectile *ecs.ComponentStore[ecs.Projectile],
	toDestroy *ecs.ComponentStore[ecs.ToDestroy],
	invuln *ecs.ComponentStore[ecs.Invulnerability],
	bus *ecs.EventBus,
) *CollisionSystem {
	cs := &CollisionSystem{
		positions: positions, colliders: colliders, healths: healths,
		players: players, enemies: enemies, walls: walls,
		projectile: projectile, toDestroy: toDestroy, invuln: invuln,
		bus: bus, cellSize: 64, cells: make(map[cellKey][]ecs.EntityID),
		projectileOwner: make(map[ecs.EntityID]ecs.EntityID),
	}
	ecs.Subscribe(bus, func(ev ProjectileSpawnedEvent) {
		cs.projectileOwner[ev.Entity] = ev.Owner
	})
	return cs
}

func (s *CollisionSystem) Init(w *ecs.World) {}

func (s *CollisionSystem) keyFor(p ecs.Position) cellKey {
	return cellKey{X: int64(p.X / s.cellSize), Y: int64(p.Y / s.cellSize)}
}

func (s *CollisionSystem) Update(w *ecs.World, dt time.Duration) {
	s.cells = make(map[cellKey][]ecs.EntityID)
	s.colliders.ForEach(func(e ecs.EntityID, _ ecs.Collider) {
		pos, ok := s.positions.Get(e)
		if !ok {
			return
		}
		key := s.keyFor(pos)
		s.cells[key] = append(s.cells[key], e)
	})

	checked := make(map[uint64]bool)
	for key, bucket := range s.cells {
		for dx := int64(-1); dx <= 1; dx++ {
			for dy := int64(-1); dy <= 1; dy++ {
				other, ok := s.cells[cellKey{X: key.X + dx, Y: key.Y + dy}]
				if !ok {
					continue
				}
				for _, a := range bucket {
					for _, b := range other {
						if a == b {
							continue
						}
						pairKey := pairKey(a, b)
						if checked[pairKey] {
							continue
						}
						checked[pairKey] = true
						s.resolvePair(w, a, b)
					}
				}
			}
		}
	}
}

func pairKey(a, b ecs.EntityID) uint64 {
	if a > b {
		a, b = b, a
	}
	return uint64(a)<<32 | uint64(b)
}

func (s *CollisionSystem) overlaps(a, b ecs.EntityID) bool {
	pa, ok := s.positions.Get(a)
	if !ok {
		return false
	}
	pb, ok := s.positions.Get(b)
	if !ok {
		return false
	}
	ca, _ := s.colliders.Get(a)
	cb, _ := s.colliders.Get(b)
	return pa.X < pb.X+cb.W && pa.X+ca.W > pb.X &&
		pa.Y < pb.Y+cb.H && pa.Y+ca.H > pb.Y
}

// resolvePair applies the only rules this server cares about:
// projectile-vs-{enemy,wall} damages/destroys, and enemy-vs-player
// damages the player unless it carries Invulnerability (a Shield
// component is not consulted). Anything else is
// a no-op collision (e.g. two enemies overlapping).
func (s *CollisionSystem) resolvePair(w *ecs.World, a, b ecs.EntityID) {
	if !s.overlaps(a, b) {
		return
	}
	if s.projectile.Has(a) && (s.enemies.Has(b) || s.walls.Has(b)) {
		s.resolveProjectileHit(a, b)
		return
	}
	if s.projectile.Has(b) && (s.enemies.Has(a) || s.walls.Has(a)) {
		s.resolveProjectileHit(b, a)
		return
	}
	if s.enemies.Has(a) && s.players.Has(b) {
		s.damagePlayer(b, a)
		return
	}
	if s.enemies.Has(b) && s.players.Has(a) {
		s.damagePlayer(a, b)
		return
	}
}

func (s *CollisionSystem) resolveProjectileHit(projectile, target ecs.EntityID) {
	s.toDestroy.Add(projectile, ecs.ToDestroy{})
	pos, _ := s.positions.Get(projectile)
	ecs.Publish(s.bus, ExplosionEvent{X: pos.X, Y: pos.Y, Kind: 0})

	if !s.enemies.Has(target) {
		return
	}
	health, ok := s.healths.Get(target)
	if !ok {
		return
	}
	health.Current -= 10
	if health.Current <= 0 {
		s.toDestroy.Add(target, ecs.ToDestroy{})
		if owner, ok := s.projectileOwner[projectile]; ok {
			ecs.Publish(s.bus, EnemyKilledEvent{Killer: owner})
			delete(s.projectileOwner, projectile)
		}
		return
	}
	s.healths.Set(target, health)
}

func (s *CollisionSystem) damagePlayer(player, enemy ecs.EntityID) {
	if s.invuln.Has(player) {
		return
	}
	health, ok := s.healths.Get(player)
	if !ok {
		return
	}
	health.Current -= 10
	if health.Current < 0 {
		health.Current = 0
	}
	s.healths.Set(player, health)
	s.invuln.Add(player, ecs.Invulnerability{RemainingTicks: 20})
	if health.Current == 0 {
		s.toDestroy.Add(player, ecs.ToDestroy{})
	}
}

func (s *CollisionSystem) Shutdown(w *ecs.World) {}
