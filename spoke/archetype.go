package spoke

import (
	"cmp"
	"encoding/binary"
	"fmt"
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"
)

type ArchetypeId uint64

type Row uint32

// Archetype is a set of component types. All entities within an archetype
// have exactly the components of the archetype.
type Archetype struct {
	Id    ArchetypeId
	Types []*ComponentType

	entities []EntityId
	index    map[EntityId]Row

	// one column per entry in Types
	columns [][]ErasedComponent
}

func makeArchetype(id ArchetypeId, sortedTypes []*ComponentType) *Archetype {
	return &Archetype{
		Id:      id,
		Types:   sortedTypes,
		index:   map[EntityId]Row{},
		columns: make([][]ErasedComponent, len(sortedTypes)),
	}
}

func (a *Archetype) String() string {
	var value strings.Builder

	value.WriteString("Archetype(")
	for idx, ty := range a.Types {
		if idx > 0 {
			value.WriteString(", ")
		}

		value.WriteString(ty.String())
	}

	value.WriteString(")")

	return value.String()
}

func (a *Archetype) ContainsType(componentType *ComponentType) bool {
	return a.columnOf(componentType) >= 0
}

// ContainsAll returns true, if every given component type is part of this archetype.
func (a *Archetype) ContainsAll(types []*ComponentType) bool {
	for _, ty := range types {
		if !a.ContainsType(ty) {
			return false
		}
	}

	return true
}

func (a *Archetype) Len() int {
	return len(a.entities)
}

// Entities returns the entities in this archetype. The slice must not be modified and
// is only valid until the archetype changes.
func (a *Archetype) Entities() []EntityId {
	return a.entities
}

func (a *Archetype) columnOf(componentType *ComponentType) int {
	if componentType == nil {
		return -1
	}

	idx, found := slices.BinarySearchFunc(a.Types, componentType, compareComponentTypes)
	if !found || a.Types[idx] != componentType {
		return -1
	}

	return idx
}

// insert adds the entity with zero values for each component
func (a *Archetype) insert(entityId EntityId) {
	defer a.assertInvariants()

	if _, exists := a.index[entityId]; exists {
		panic(fmt.Sprintf("archetype %s already contains entity %s", a, entityId))
	}

	for idx, ty := range a.Types {
		a.columns[idx] = append(a.columns[idx], ty.New())
	}

	a.index[entityId] = Row(len(a.entities))
	a.entities = append(a.entities, entityId)
}

func (a *Archetype) get(entityId EntityId, componentType *ComponentType) (ErasedComponent, bool) {
	row, ok := a.index[entityId]
	if !ok {
		return nil, false
	}

	column := a.columnOf(componentType)
	if column < 0 {
		return nil, false
	}

	return a.columns[column][row], true
}

func (a *Archetype) set(entityId EntityId, value ErasedComponent) error {
	row, ok := a.index[entityId]
	if !ok {
		return fmt.Errorf("%w: %s", ErrEntityNotFound, entityId)
	}

	componentType := value.ComponentType()

	column := a.columnOf(componentType)
	if column < 0 {
		return fmt.Errorf("%w: %s not in %s", ErrTypeNotInArchetype, componentType, a)
	}

	a.columns[column][row] = componentType.CopyOf(value)

	return nil
}

func (a *Archetype) remove(entityId EntityId) {
	defer a.assertInvariants()

	row, exists := a.index[entityId]
	if !exists {
		panic(fmt.Sprintf("entity %s does not exist", entityId))
	}

	delete(a.index, entityId)

	// to remove a value, we move the last element into the
	// spot of the one to remove
	rowSwap := Row(len(a.entities) - 1)

	if row != rowSwap {
		a.entities[row] = a.entities[rowSwap]

		for idx := range a.columns {
			a.columns[idx][row] = a.columns[idx][rowSwap]
		}

		a.index[a.entities[row]] = row
	}

	a.entities = a.entities[:rowSwap]

	for idx := range a.columns {
		// clear the reference so the value can be collected
		a.columns[idx][rowSwap] = nil
		a.columns[idx] = a.columns[idx][:rowSwap]
	}
}

func (a *Archetype) assertInvariants() {
	entityCount := len(a.entities)

	for idx, column := range a.columns {
		if len(column) != entityCount {
			panic(fmt.Sprintf("%s: expected %d values in column %s, got %d", a, entityCount, a.Types[idx], len(column)))
		}
	}

	if len(a.index) != entityCount {
		panic("entity count/index mismatch")
	}
}

// ArchetypeIdOf returns the ArchetypeId for the given ComponentType slice.
// The returned slice contains the provided types in a deterministic order with
// duplicates removed. It is freshly allocated and owned by the caller.
func ArchetypeIdOf(types []*ComponentType) (ArchetypeId, []*ComponentType, error) {
	for idx, ty := range types {
		if ty == nil {
			return 0, nil, fmt.Errorf("%w: nil component type at index %d", ErrInvalidComponentType, idx)
		}
	}

	sortedTypes := slices.Clone(types)

	// sort slices by id to have a deterministic ordering
	slices.SortFunc(sortedTypes, compareComponentTypes)
	sortedTypes = slices.Compact(sortedTypes)

	return ArchetypeId(hashTypes(sortedTypes)), sortedTypes, nil
}

func hashTypes(types []*ComponentType) uint64 {
	hash := xxhash.New()

	var buf [2]byte
	for _, ty := range types {
		binary.LittleEndian.PutUint16(buf[:], uint16(ty.Id))
		_, _ = hash.Write(buf[:])
	}

	return hash.Sum64()
}

func compareComponentTypes(lhs, rhs *ComponentType) int {
	return cmp.Compare(lhs.Id, rhs.Id)
}
