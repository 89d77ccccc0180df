// Package descriptors provides descriptors for commonly used components.
package descriptors

import (
	"fmt"
	"maps"

	"github.com/jakecoffman/cp/v2"
	"github.com/oliverbestmann/blueprint"
	"github.com/oliverbestmann/blueprint/spoke"
)

// Placement can be passed as construction data to spawn an entity
// relative to a position.
type Placement struct {
	Position cp.Vector
	Angle    float64
}

func placementOf(data any) (Placement, bool) {
	switch data := data.(type) {
	case Placement:
		return data, true
	case *Placement:
		if data != nil {
			return *data, true
		}
	}

	return Placement{}, false
}

type Named struct {
	blueprint.Kind[*Named]
	Name string
}

func (d *Named) Requirements() []*spoke.ComponentType {
	return []*spoke.ComponentType{spoke.ComponentTypeOf[Name]()}
}

func (d *Named) Apply(ctx blueprint.Context, entityId blueprint.EntityId, data any) error {
	return ctx.Write(entityId, Name{Name: d.Name})
}

// Transform places the entity. The position is relative to
// the Placement passed as construction data, if any.
type Transform struct {
	blueprint.Kind[*Transform]
	Position cp.Vector
	Angle    float64
}

func (d *Transform) Requirements() []*spoke.ComponentType {
	return []*spoke.ComponentType{
		spoke.ComponentTypeOf[Position](),
		spoke.ComponentTypeOf[Rotation](),
	}
}

func (d *Transform) Apply(ctx blueprint.Context, entityId blueprint.EntityId, data any) error {
	position, angle := d.Position, d.Angle

	if placement, ok := placementOf(data); ok {
		position = position.Add(placement.Position)
		angle += placement.Angle
	}

	if err := ctx.Write(entityId, Position{Value: position}); err != nil {
		return err
	}

	return ctx.Write(entityId, Rotation{Angle: angle})
}

type Motion struct {
	blueprint.Kind[*Motion]
	Linear  cp.Vector
	Angular float64
}

func (d *Motion) Requirements() []*spoke.ComponentType {
	return []*spoke.ComponentType{spoke.ComponentTypeOf[Velocity]()}
}

func (d *Motion) Apply(ctx blueprint.Context, entityId blueprint.EntityId, data any) error {
	return ctx.Write(entityId, Velocity{Linear: d.Linear, Angular: d.Angular})
}

// Vitality starts the entity at full health.
type Vitality struct {
	blueprint.Kind[*Vitality]
	Max int
}

func (d *Vitality) Requirements() []*spoke.ComponentType {
	return []*spoke.ComponentType{spoke.ComponentTypeOf[Health]()}
}

func (d *Vitality) Apply(ctx blueprint.Context, entityId blueprint.EntityId, data any) error {
	if d.Max <= 0 {
		return fmt.Errorf("max health must be positive, got %d", d.Max)
	}

	return ctx.Write(entityId, Health{Current: d.Max, Max: d.Max})
}

// Tag sets a single key in the Tags of an entity. A Tag only overrides
// an inherited Tag with the same key, so a derived blueprint can change
// single tags while keeping all others.
type Tag struct {
	Key   string
	Value string
}

func (d *Tag) Requirements() []*spoke.ComponentType {
	return []*spoke.ComponentType{spoke.ComponentTypeOf[Tags]()}
}

func (d *Tag) Overrides(other blueprint.Descriptor) bool {
	otherTag, ok := other.(*Tag)
	return ok && otherTag.Key == d.Key
}

func (d *Tag) Apply(ctx blueprint.Context, entityId blueprint.EntityId, data any) error {
	current, ok := blueprint.ReadAs[Tags](ctx, entityId)
	if !ok {
		return fmt.Errorf("entity %s has no tags", entityId)
	}

	// copy the map, the previous value might be shared
	values := maps.Clone(current.Values)
	if values == nil {
		values = map[string]string{}
	}

	values[d.Key] = d.Value

	return ctx.Write(entityId, Tags{Values: values})
}
