package systems

import (
	"math"
	"time"

	"github.com/rtype/arcade/internal/ecs"
)

// blobEatRatio is how much larger (by radius) an eating blob must be
// over its victim before a collision becomes a player_eaten event,
// mirroring Agar.io's traditional "need to be ~25% bigger" rule.
const blobEatRatio = 1.25

// blobGrowthPerEat is the radius gained per entity eaten.
const blobGrowthPerEat = 4.0

// BlobGrowthSystem slowly grows every blob over time up to a soft cap,
// the passive growth rule of the blob game (distinct from the burst
// growth BlobEatSystem applies on a kill).
type BlobGrowthSystem struct {
	radii *ecs.ComponentStore[ecs.BlobRadius]

	growthPerSecond float64
	maxRadius       float64
}

func NewBlobGrowthSystem(radii *ecs.ComponentStore[ecs.BlobRadius], growthPerSecond, maxRadius float64) *BlobGrowthSystem {
	return &BlobGrowthSystem{radii: radii, growthPerSecond: growthPerSecond, maxRadius: maxRadius}
}

func (s *BlobGrowthSystem) Init(w *ecs.World) {}

func (s *BlobGrowthSystem) Update(w *ecs.World, dt time.Duration) {
	delta := s.growthPerSecond * dt.Seconds()
	s.radii.ForEach(func(e ecs.EntityID, r ecs.BlobRadius) {
		if r.Radius >= s.maxRadius {
			return
		}
		r.Radius = math.Min(s.maxRadius, r.Radius+delta)
		s.radii.Set(e, r)
	})
}

func (s *BlobGrowthSystem) Shutdown(w *ecs.World) {}

// BlobEatSystem checks every pair of blob-owning entities for overlap
// and resolves eat outcomes: the larger blob grows by blobGrowthPerEat
// and the eaten entity is tagged ToDestroy.
type BlobEatSystem struct {
	positions *ecs.ComponentStore[ecs.Position]
	radii     *ecs.ComponentStore[ecs.BlobRadius]
	owners    *ecs.ComponentStore[ecs.BlobOwner]
	toDestroy *ecs.ComponentStore[ecs.ToDestroy]
	bus       *ecs.EventBus
}

func NewBlobEatSystem(
	positions *ecs.ComponentStore[ecs.Position],
	radii *ecs.ComponentStore[ecs.BlobRadius],
	owners *ecs.ComponentStore[ecs.BlobOwner],
	toDestroy *ecs.ComponentStore[ecs.ToDestroy],
	bus *ecs.EventBus,
) *BlobEatSystem {
	return &BlobEatSystem{positions: positions, radii: radii, owners: owners, toDestroy: toDestroy, bus: bus}
}

func (s *BlobEatSystem) Init(w *ecs.World) {}

func (s *BlobEatSystem) Update(w *ecs.World, dt time.Duration) {
	entities, radii := s.radii.All()
	eaten := make(map[ecs.EntityID]bool)

	for i := 0; i < len(entities); i++ {
		for j := i + 1; j < len(entities); j++ {
			a, b := entities[i], entities[j]
			if eaten[a] || eaten[b] {
				continue
			}
			bigger, smaller := a, b
			if radii[j].Radius > radii[i].Radius {
				bigger, smaller = b, a
			}
			bigR := radii[i].Radius
			smallR := radii[j].Radius
			if bigger == b {
				bigR, smallR = radii[j].Radius, radii[i].Radius
			}
			if bigR < smallR*blobEatRatio {
				continue
			}
			if !s.overlapping(bigger, smaller, bigR) {
				continue
			}
			s.resolveEat(bigger, smaller)
			eaten[smaller] = true
		}
	}
}

func (s *BlobEatSystem) overlapping(bigger, smaller ecs.EntityID, bigRadius float64) bool {
	pb, ok := s.positions.Get(bigger)
	if !ok {
		return false
	}
	ps, ok := s.positions.Get(smaller)
	if !ok {
		return false
	}
	dist := math.Hypot(pb.X-ps.X, pb.Y-ps.Y)
	return dist < bigRadius
}

func (s *BlobEatSystem) resolveEat(bigger, smaller ecs.EntityID) {
	r, ok := s.radii.Get(bigger)
	if ok {
		r.Radius += blobGrowthPerEat
		s.radii.Set(bigger, r)
	}
	s.toDestroy.Add(smaller, ecs.ToDestroy{})

	eaterOwner, _ := s.owners.Get(bigger)
	eatenOwner, _ := s.owners.Get(smaller)
	ecs.Publish(s.bus, PlayerEatenEvent{
		EatenPlayerID: eatenOwner.PlayerID,
		EaterPlayerID: eaterOwner.PlayerID,
	})
}

func (s *BlobEatSystem) Shutdown(w *ecs.World) {}
