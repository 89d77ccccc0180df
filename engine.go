package blueprint

import (
	"fmt"
	"sync"
	"time"

	"github.com/oliverbestmann/blueprint/spoke"
	"go.uber.org/zap"
)

// Engine constructs entities from blueprints.
type Engine struct {
	log *zap.Logger

	mu    sync.Mutex
	stats EngineStats
}

type EngineOption func(e *Engine)

func WithLogger(log *zap.Logger) EngineOption {
	return func(e *Engine) {
		e.log = log
	}
}

func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{log: zap.NewNop()}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// ShapeOf resolves the blueprint and returns its shape within the given context.
func (e *Engine) ShapeOf(ctx Context, bp *Blueprint) (Shape, error) {
	descriptors, err := bp.Resolve()
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", bp, err)
	}

	return e.shapeOf(ctx, bp, descriptors)
}

func (e *Engine) shapeOf(ctx Context, bp *Blueprint, descriptors []Descriptor) (Shape, error) {
	shape, err := bp.shapes.GetOrCreate(ctx, descriptors)
	if err != nil {
		return nil, fmt.Errorf("shape of %s: %w", bp, err)
	}

	return shape, nil
}

// ConstructInto applies the resolved descriptors of the blueprint to an existing entity.
// The entity must already have every component the descriptors require; ConstructInto
// does not add components.
func (e *Engine) ConstructInto(ctx Context, bp *Blueprint, entityId EntityId, data any) error {
	startTime := time.Now()

	err := e.constructInto(ctx, bp, entityId, data)
	e.record(startTime, err)

	return err
}

func (e *Engine) constructInto(ctx Context, bp *Blueprint, entityId EntityId, data any) error {
	descriptors, err := bp.Resolve()
	if err != nil {
		return fmt.Errorf("resolve %s: %w", bp, err)
	}

	shape, ok := ctx.ShapeOf(entityId)
	if !ok {
		return fmt.Errorf("construct %s: %w: %s", bp, ErrEntityNotFound, entityId)
	}

	for _, ty := range RequirementsOf(descriptors) {
		if !shape.ContainsType(ty) {
			return fmt.Errorf("construct %s: %w: entity %s in %s has no %s",
				bp, ErrTargetNotInCompatibleShape, entityId, shape, ty)
		}
	}

	return e.apply(ctx, bp, descriptors, entityId, data)
}

// ConstructNew allocates a new entity in the shape of the blueprint and applies
// the resolved descriptors to it. If a descriptor fails and the context implements
// Despawner, the entity is removed again.
func (e *Engine) ConstructNew(ctx Context, bp *Blueprint, data any) (EntityId, error) {
	startTime := time.Now()

	entityId, err := e.constructNew(ctx, bp, data)
	e.record(startTime, err)

	return entityId, err
}

func (e *Engine) constructNew(ctx Context, bp *Blueprint, data any) (EntityId, error) {
	descriptors, err := bp.Resolve()
	if err != nil {
		return spoke.NoEntityId, fmt.Errorf("resolve %s: %w", bp, err)
	}

	shape, err := e.shapeOf(ctx, bp, descriptors)
	if err != nil {
		return spoke.NoEntityId, err
	}

	entityId, err := ctx.Allocate(shape)
	if err != nil {
		return spoke.NoEntityId, fmt.Errorf("allocate %s in %s: %w", bp, shape, err)
	}

	if err := e.apply(ctx, bp, descriptors, entityId, data); err != nil {
		if despawner, ok := ctx.(Despawner); ok {
			despawner.Despawn(entityId)
		}

		return spoke.NoEntityId, err
	}

	return entityId, nil
}

// apply runs the descriptors in resolved order
func (e *Engine) apply(ctx Context, bp *Blueprint, descriptors []Descriptor, entityId EntityId, data any) error {
	for _, descriptor := range descriptors {
		if err := descriptor.Apply(ctx, entityId, data); err != nil {
			return fmt.Errorf("construct %s: apply %s: %w", bp, KindOf(descriptor), err)
		}
	}

	e.log.Debug("Entity constructed",
		zap.Stringer("blueprint", bp),
		zap.Stringer("entity", entityId),
		zap.Int("descriptors", len(descriptors)),
	)

	return nil
}

func (e *Engine) record(startTime time.Time, err error) {
	duration := time.Since(startTime)

	e.mu.Lock()
	defer e.mu.Unlock()

	if err != nil {
		e.stats.Failed += 1
		e.log.Debug("Construction failed", zap.Error(err))
		return
	}

	e.stats.Constructed += 1
	e.stats.Construct = e.stats.Construct.Add(duration)
}

// Stats returns a snapshot of the engine counters.
func (e *Engine) Stats() EngineStats {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.stats
}
