package spoke

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrEntityNotFound       = errors.New("entity not found")
	ErrTypeNotInArchetype   = errors.New("component type not in archetype")
	ErrInvalidComponentType = errors.New("invalid component type")
	ErrForeignArchetype     = errors.New("archetype does not belong to this storage")
	ErrArchetypeCollision   = errors.New("archetype id collision")
)

// Storage holds entities grouped by archetype. Archetypes are interned: looking up
// the same set of component types twice yields the same *Archetype.
type Storage struct {
	entityIdSeq       EntityId
	entityToArchetype map[EntityId]*Archetype

	archetypes map[ArchetypeId]*Archetype

	// archetypes in creation order
	ordered []*Archetype
}

func NewStorage() *Storage {
	return &Storage{
		entityToArchetype: map[EntityId]*Archetype{},
		archetypes:        map[ArchetypeId]*Archetype{},
	}
}

// Lookup finds or creates the archetype for the given component types.
// The order of types does not matter, duplicates are collapsed.
func (s *Storage) Lookup(types []*ComponentType) (archetype *Archetype, created bool, err error) {
	id, sortedTypes, err := ArchetypeIdOf(types)
	if err != nil {
		return nil, false, err
	}

	if archetype, ok := s.archetypes[id]; ok {
		if !slices.Equal(archetype.Types, sortedTypes) {
			return nil, false, fmt.Errorf("%w: %s and %v", ErrArchetypeCollision, archetype, sortedTypes)
		}

		return archetype, false, nil
	}

	archetype = makeArchetype(id, sortedTypes)

	s.archetypes[id] = archetype
	s.ordered = append(s.ordered, archetype)

	return archetype, true, nil
}

// Spawn reserves a new entity id and places the entity into the given archetype.
// Every component of the new entity is initialized to its zero value.
func (s *Storage) Spawn(archetype *Archetype) (EntityId, error) {
	if s.archetypes[archetype.Id] != archetype {
		return NoEntityId, fmt.Errorf("%w: %s", ErrForeignArchetype, archetype)
	}

	s.entityIdSeq += 1
	entityId := s.entityIdSeq

	archetype.insert(entityId)

	// remember where we put the entity
	s.entityToArchetype[entityId] = archetype

	return entityId, nil
}

func (s *Storage) Despawn(entityId EntityId) bool {
	archetype, ok := s.entityToArchetype[entityId]
	if !ok {
		return false
	}

	archetype.remove(entityId)

	delete(s.entityToArchetype, entityId)

	return true
}

// Set replaces the value of a component of an entity. The entity must already
// have a component of the values type, Set never moves an entity to a different archetype.
func (s *Storage) Set(entityId EntityId, value ErasedComponent) error {
	archetype, ok := s.entityToArchetype[entityId]
	if !ok {
		return fmt.Errorf("%w: %s", ErrEntityNotFound, entityId)
	}

	return archetype.set(entityId, value)
}

// Get returns a pointer to the value of a component of the entity.
func (s *Storage) Get(entityId EntityId, componentType *ComponentType) (ErasedComponent, bool) {
	archetype, ok := s.entityToArchetype[entityId]
	if !ok {
		return nil, false
	}

	return archetype.get(entityId, componentType)
}

func (s *Storage) ArchetypeOf(entityId EntityId) (*Archetype, bool) {
	archetype, ok := s.entityToArchetype[entityId]
	return archetype, ok
}

func (s *Storage) HasComponent(entityId EntityId, componentType *ComponentType) bool {
	archetype, ok := s.entityToArchetype[entityId]
	if !ok {
		// the entity itself does not exist
		return false
	}

	return archetype.ContainsType(componentType)
}

// Archetypes returns all archetypes in the order they were created.
func (s *Storage) Archetypes() []*Archetype {
	return s.ordered
}

func (s *Storage) EntityCount() int {
	return len(s.entityToArchetype)
}
