package physics

import (
	"github.com/jakecoffman/cp/v2"
	"github.com/oliverbestmann/blueprint/spoke"
)

// Body holds the chipmunk body of an entity.
type Body struct {
	spoke.Component[Body]
	Body *cp.Body
}

// Collider holds the collision shape attached to the body.
type Collider struct {
	spoke.Component[Collider]
	Shape *cp.Shape
}
