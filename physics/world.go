package physics

import (
	"github.com/jakecoffman/cp/v2"
	"github.com/oliverbestmann/blueprint"
	"github.com/oliverbestmann/blueprint/descriptors"
	"github.com/oliverbestmann/blueprint/spoke"
)

var _ SpaceProvider = (*World)(nil)

// World is a blueprint.World with a chipmunk space. Bodies created by
// RigidBody descriptors are simulated within that space.
type World struct {
	*blueprint.World
	space *cp.Space
}

func NewWorld(gravity cp.Vector, opts ...blueprint.WorldOption) *World {
	space := cp.NewSpace()
	space.SetGravity(gravity)

	return &World{
		World: blueprint.NewWorld(opts...),
		space: space,
	}
}

func (w *World) Space() *cp.Space {
	return w.space
}

// Step advances the simulation and copies the state of every
// body back into the entities Position, Rotation and Velocity.
func (w *World) Step(dt float64) {
	w.space.Step(dt)
	w.sync()
}

// Despawn removes the entity and its body from the space.
func (w *World) Despawn(entityId blueprint.EntityId) bool {
	removeFromSpace(w, entityId)

	return w.World.Despawn(entityId)
}

func (w *World) sync() {
	bodyType := spoke.ComponentTypeOf[Body]()

	for _, archetype := range w.Storage().Archetypes() {
		if !archetype.ContainsType(bodyType) {
			continue
		}

		for _, entityId := range archetype.Entities() {
			body, ok := blueprint.ReadAs[Body](w.World, entityId)
			if !ok || body.Body == nil {
				continue
			}

			if position, ok := blueprint.ReadAs[descriptors.Position](w.World, entityId); ok {
				position.Value = body.Body.Position()
			}

			if rotation, ok := blueprint.ReadAs[descriptors.Rotation](w.World, entityId); ok {
				rotation.Angle = body.Body.Angle()
			}

			if velocity, ok := blueprint.ReadAs[descriptors.Velocity](w.World, entityId); ok {
				velocity.Linear = body.Body.Velocity()
				velocity.Angular = body.Body.AngularVelocity()
			}
		}
	}
}
