package blueprint

import (
	"reflect"

	"github.com/oliverbestmann/blueprint/spoke"
)

// Descriptor describes one logical group of components of an entity
// and how to initialize it.
//
// Descriptors are owned by exactly one Blueprint. A resolved descriptor list
// references the descriptors of the blueprint or one of its ancestors, it never copies them.
type Descriptor interface {
	// Requirements returns the component types this descriptor needs
	// on the entity before Apply can be called.
	Requirements() []*spoke.ComponentType

	// Overrides is called with an inherited descriptor and reports
	// whether this descriptor replaces it.
	Overrides(other Descriptor) bool

	// Apply writes the initial component values to the entity. The entity
	// already has every component type returned by Requirements.
	Apply(ctx Context, entityId EntityId, data any) error
}

// Kind implements the default override rule: a descriptor overrides another
// descriptor if both have the same concrete type. Embed it into a descriptor
// and parameterize it with the type used in the blueprint, usually a pointer
// to the descriptor:
//
//	type Transform struct {
//		blueprint.Kind[*Transform]
//		Position cp.Vector
//	}
type Kind[D any] struct{}

func (Kind[D]) Overrides(other Descriptor) bool {
	_, ok := other.(D)
	return ok
}

// KindOf returns a readable name of the descriptors concrete type.
func KindOf(descriptor Descriptor) string {
	return reflect.TypeOf(descriptor).String()
}

// RequirementsOf collects the requirements of all descriptors in order. Duplicates
// are kept, they are collapsed by the Context when creating a shape.
func RequirementsOf(descriptors []Descriptor) []*spoke.ComponentType {
	var types []*spoke.ComponentType
	for _, descriptor := range descriptors {
		types = append(types, descriptor.Requirements()...)
	}

	return types
}
