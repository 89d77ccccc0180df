package blueprint

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// ShapeCache memoizes the shape of a resolved descriptor list per Context.
// Entries are never evicted, the number of contexts is expected to be small.
// The zero value is ready to use and safe for concurrent use.
type ShapeCache struct {
	mu     sync.Mutex
	shapes map[uuid.UUID]Shape
}

// GetOrCreate returns the cached shape for the context or derives it
// from the requirements of the given descriptors.
func (c *ShapeCache) GetOrCreate(ctx Context, descriptors []Descriptor) (Shape, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	contextId := ctx.ContextId()

	if shape, ok := c.shapes[contextId]; ok {
		return shape, nil
	}

	shape, err := ctx.CreateShape(RequirementsOf(descriptors))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnresolvedContextShape, err)
	}

	if shape == nil {
		return nil, fmt.Errorf("%w: context %s returned no shape", ErrUnresolvedContextShape, contextId)
	}

	if c.shapes == nil {
		c.shapes = map[uuid.UUID]Shape{}
	}

	c.shapes[contextId] = shape

	return shape, nil
}

// Len returns the number of contexts a shape is cached for.
func (c *ShapeCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.shapes)
}

func (c *ShapeCache) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.shapes)
}
