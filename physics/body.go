package physics

import (
	"fmt"

	"github.com/jakecoffman/cp/v2"
	"github.com/oliverbestmann/blueprint"
	"github.com/oliverbestmann/blueprint/descriptors"
	"github.com/oliverbestmann/blueprint/spoke"
)

// SpaceProvider is implemented by contexts that simulate a cp.Space.
type SpaceProvider interface {
	Space() *cp.Space
}

// removeFromSpace removes the body and collider of an entity from the space of the
// context, if any. Missing components are skipped.
func removeFromSpace(ctx blueprint.Context, entityId blueprint.EntityId) {
	provider, ok := ctx.(SpaceProvider)
	if !ok {
		return
	}

	space := provider.Space()

	if collider, ok := blueprint.ReadAs[Collider](ctx, entityId); ok && collider.Shape != nil {
		if space.ContainsShape(collider.Shape) {
			space.RemoveShape(collider.Shape)
		}
	}

	if body, ok := blueprint.ReadAs[Body](ctx, entityId); ok && body.Body != nil {
		if space.ContainsBody(body.Body) {
			space.RemoveBody(body.Body)
		}
	}
}

// RigidBody creates a circular chipmunk body for the entity. A body with a mass of
// zero is static.
//
// The body starts at the entities Position and Velocity, so RigidBody must come after
// the Transform and Motion descriptors in the blueprint. If the context is a
// SpaceProvider, the body and its collider are added to the space. Applying it to
// an entity that already has a body replaces the previous body in the space.
type RigidBody struct {
	blueprint.Kind[*RigidBody]
	Mass     float64
	Radius   float64
	Friction float64
}

func (d *RigidBody) Requirements() []*spoke.ComponentType {
	return []*spoke.ComponentType{
		spoke.ComponentTypeOf[Body](),
		spoke.ComponentTypeOf[Collider](),
	}
}

func (d *RigidBody) Apply(ctx blueprint.Context, entityId blueprint.EntityId, data any) error {
	if d.Radius <= 0 {
		return fmt.Errorf("radius must be positive, got %f", d.Radius)
	}

	var body *cp.Body
	if d.Mass > 0 {
		moment := cp.MomentForCircle(d.Mass, 0, d.Radius, cp.Vector{})
		body = cp.NewBody(d.Mass, moment)
	} else {
		body = cp.NewStaticBody()
	}

	if position, ok := blueprint.ReadAs[descriptors.Position](ctx, entityId); ok {
		body.SetPosition(position.Value)
	}

	if rotation, ok := blueprint.ReadAs[descriptors.Rotation](ctx, entityId); ok {
		body.SetAngle(rotation.Angle)
	}

	if velocity, ok := blueprint.ReadAs[descriptors.Velocity](ctx, entityId); ok && d.Mass > 0 {
		body.SetVelocityVector(velocity.Linear)
		body.SetAngularVelocity(velocity.Angular)
	}

	shape := cp.NewCircle(body, d.Radius, cp.Vector{})
	shape.SetFriction(d.Friction)

	removeFromSpace(ctx, entityId)

	if provider, ok := ctx.(SpaceProvider); ok {
		space := provider.Space()
		space.AddBody(body)
		space.AddShape(shape)
	}

	if err := ctx.Write(entityId, Body{Body: body}); err != nil {
		return err
	}

	return ctx.Write(entityId, Collider{Shape: shape})
}
