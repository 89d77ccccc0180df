package spoke

type IsComponent[T any] interface {
	ErasedComponent
	IsComponent(T)
}

// Component marks a struct as a component. Embed it into the struct
// and parameterize it with the struct itself:
//
//	type Position struct {
//		spoke.Component[Position]
//		X, Y float64
//	}
type Component[C IsComponent[C]] struct{}

func (Component[C]) IsComponent(C) {}

func (Component[C]) isComponent(isComponentMarker) {}

func (Component[C]) ComponentType() *ComponentType {
	return componentTypeOf[C]()
}
