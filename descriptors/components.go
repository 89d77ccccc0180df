package descriptors

import (
	"github.com/jakecoffman/cp/v2"
	"github.com/oliverbestmann/blueprint/spoke"
)

// Name assigns a non unique name to an entity.
// Adding a name can be helpful for debugging.
type Name struct {
	spoke.Component[Name]
	Name string
}

func (n Name) String() string {
	return n.Name
}

type Position struct {
	spoke.Component[Position]
	Value cp.Vector
}

type Rotation struct {
	spoke.Component[Rotation]
	Angle float64
}

type Velocity struct {
	spoke.Component[Velocity]
	Linear  cp.Vector
	Angular float64
}

type Health struct {
	spoke.Component[Health]
	Current, Max int
}

// Tags holds key value pairs assigned by Tag descriptors.
type Tags struct {
	spoke.Component[Tags]
	Values map[string]string
}

func (t Tags) Get(key string) (string, bool) {
	value, ok := t.Values[key]
	return value, ok
}
