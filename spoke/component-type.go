package spoke

import (
	"fmt"
	"maps"
	"reflect"
	"sync/atomic"
)

type ComponentTypeId uint16

type ComponentType struct {
	// The Id of the type, unique within the process. Ids are handed out
	// in registration order starting at one.
	Id ComponentTypeId

	Name string
	Type reflect.Type
}

func ComponentTypeOf[C IsComponent[C]]() *ComponentType {
	var zeroValue C

	//goland:noinspection GoDfaNilDereference
	return zeroValue.ComponentType()
}

// New allocates a zero value of the component type on the heap.
func (c *ComponentType) New() ErasedComponent {
	return reflect.New(c.Type).Interface().(ErasedComponent)
}

// CopyOf returns a heap allocated copy of the given component value. The value may
// either be a pointer to the component, or the component itself.
func (c *ComponentType) CopyOf(value ErasedComponent) ErasedComponent {
	source := reflect.ValueOf(value)
	if source.Kind() == reflect.Pointer {
		source = source.Elem()
	}

	if source.Type() != c.Type {
		panic(fmt.Sprintf("can not copy %s into component type %s", source.Type(), c))
	}

	target := reflect.New(c.Type)
	target.Elem().Set(source)
	return target.Interface().(ErasedComponent)
}

func (c *ComponentType) String() string {
	return c.Name
}

var componentTypes atomic.Pointer[map[reflect.Type]*ComponentType]

func init() {
	// initialize the lookup table
	componentTypes.Store(&map[reflect.Type]*ComponentType{})
}

func componentTypeOf[C IsComponent[C]]() *ComponentType {
	reflectType := reflect.TypeFor[C]()

	if reflectType.Kind() == reflect.Pointer {
		panic(fmt.Sprintf("expected non pointer component type, got %s", reflectType))
	}

	for {
		previousTypes := componentTypes.Load()
		if cached, ok := (*previousTypes)[reflectType]; ok {
			return cached
		}

		newType := &ComponentType{
			Id:   ComponentTypeId(len(*previousTypes) + 1),
			Name: reflectType.String(),
			Type: reflectType,
		}

		newTypes := maps.Clone(*previousTypes)
		newTypes[reflectType] = newType

		if componentTypes.CompareAndSwap(previousTypes, &newTypes) {
			return newType
		}
	}
}
