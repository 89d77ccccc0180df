package blueprint

import (
	"github.com/google/uuid"
	"github.com/oliverbestmann/blueprint/spoke"
)

type EntityId = spoke.EntityId

// Shape is an opaque handle for a set of component types, created by a Context.
// Entities allocated in a shape have exactly those component types.
type Shape interface {
	ContainsType(componentType *spoke.ComponentType) bool
	String() string
}

// Context is the target blueprints are constructed into, e.g. a World.
type Context interface {
	// ContextId identifies the context. Shapes are cached per ContextId.
	ContextId() uuid.UUID

	// CreateShape returns the shape for the given component types. Calling it
	// again with the same set of types returns the same shape.
	CreateShape(types []*spoke.ComponentType) (Shape, error)

	// Allocate creates a new entity in the given shape.
	Allocate(shape Shape) (EntityId, error)

	// ShapeOf returns the current shape of an entity.
	ShapeOf(entityId EntityId) (Shape, bool)

	// Write replaces the value of a component the entity already has.
	Write(entityId EntityId, value spoke.ErasedComponent) error

	// Read returns a pointer to the value of a component of the entity.
	Read(entityId EntityId, componentType *spoke.ComponentType) (spoke.ErasedComponent, bool)
}

// Despawner is implemented by contexts that can remove entities again.
// The Engine uses it to remove partially constructed entities.
type Despawner interface {
	Despawn(entityId EntityId) bool
}

// ReadAs is a typed version of Context.Read.
func ReadAs[C spoke.IsComponent[C]](ctx Context, entityId EntityId) (*C, bool) {
	value, ok := ctx.Read(entityId, spoke.ComponentTypeOf[C]())
	if !ok {
		return nil, false
	}

	typed, ok := value.(*C)
	return typed, ok
}
