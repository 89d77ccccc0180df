package blueprint

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/oliverbestmann/blueprint/spoke"
	"go.uber.org/zap"
)

var _ Context = (*World)(nil)
var _ Despawner = (*World)(nil)

// World is a Context backed by a spoke.Storage. Shapes of a world are its archetypes.
type World struct {
	id      uuid.UUID
	storage *spoke.Storage
	log     *zap.Logger
}

type WorldOption func(w *World)

// WithWorldLogger sets the logger of the world. Worlds log nothing by default.
func WithWorldLogger(log *zap.Logger) WorldOption {
	return func(w *World) {
		w.log = log
	}
}

// WithWorldId sets a fixed id instead of a random one. Blueprints cache shapes
// by context id, so the id must be unique among all contexts constructed from
// the same blueprints. A second world with the same id receives the shapes of
// the first one and fails to allocate them with ErrForeignShape.
func WithWorldId(id uuid.UUID) WorldOption {
	return func(w *World) {
		w.id = id
	}
}

// NewWorld creates a new empty world with a random id.
func NewWorld(opts ...WorldOption) *World {
	w := &World{
		id:      uuid.New(),
		storage: spoke.NewStorage(),
		log:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(w)
	}

	w.log = w.log.With(zap.Stringer("world", w.id))

	return w
}

func (w *World) ContextId() uuid.UUID {
	return w.id
}

func (w *World) CreateShape(types []*spoke.ComponentType) (Shape, error) {
	archetype, created, err := w.storage.Lookup(types)
	if err != nil {
		return nil, err
	}

	if created {
		w.log.Debug("New archetype created",
			zap.Stringer("archetype", archetype),
			zap.Uint64("id", uint64(archetype.Id)),
		)
	}

	return archetype, nil
}

func (w *World) Allocate(shape Shape) (EntityId, error) {
	archetype, ok := shape.(*spoke.Archetype)
	if !ok {
		return spoke.NoEntityId, fmt.Errorf("%w: %T", ErrForeignShape, shape)
	}

	entityId, err := w.storage.Spawn(archetype)
	if err != nil {
		return spoke.NoEntityId, fmt.Errorf("%w: %w", ErrForeignShape, err)
	}

	return entityId, nil
}

func (w *World) ShapeOf(entityId EntityId) (Shape, bool) {
	archetype, ok := w.storage.ArchetypeOf(entityId)
	if !ok {
		return nil, false
	}

	return archetype, true
}

func (w *World) Write(entityId EntityId, value spoke.ErasedComponent) error {
	return w.storage.Set(entityId, value)
}

func (w *World) Read(entityId EntityId, componentType *spoke.ComponentType) (spoke.ErasedComponent, bool) {
	return w.storage.Get(entityId, componentType)
}

func (w *World) Despawn(entityId EntityId) bool {
	return w.storage.Despawn(entityId)
}

// Storage gives access to the underlying storage, e.g. to iterate over archetypes.
func (w *World) Storage() *spoke.Storage {
	return w.storage
}

func (w *World) EntityCount() int {
	return w.storage.EntityCount()
}

func (w *World) String() string {
	return fmt.Sprintf("World(%s)", w.id)
}
