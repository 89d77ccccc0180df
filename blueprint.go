package blueprint

import (
	"slices"

	"github.com/oliverbestmann/blueprint/internal/set"
)

type resolveState uint8

const (
	stale resolveState = iota
	resolved
)

// Blueprint describes how to construct an entity from a list of descriptors.
// A blueprint may derive from an ancestor and replace some of the descriptors
// it inherits, see Flatten for the exact rules.
//
// A Blueprint is not safe for concurrent modification. Once resolved, Resolve
// only reads and may be called from multiple goroutines as long as no blueprint
// in the chain is modified at the same time.
type Blueprint struct {
	name string

	own      []Descriptor
	ancestor *Blueprint

	state    resolveState
	resolved []Descriptor

	// incremented every time resolved is recomputed
	version uint64

	// version of the ancestor that resolved was computed from
	ancestorVersion uint64

	// number of times the descriptors were flattened
	flattenCount int

	shapes ShapeCache
}

// New creates a root blueprint without an ancestor.
func New(name string, own ...Descriptor) *Blueprint {
	return &Blueprint{
		name: name,
		own:  own,
	}
}

// Derive creates a blueprint that inherits from the given ancestor.
func Derive(name string, ancestor *Blueprint, own ...Descriptor) *Blueprint {
	return &Blueprint{
		name:     name,
		own:      own,
		ancestor: ancestor,
	}
}

func (bp *Blueprint) Name() string {
	return bp.name
}

func (bp *Blueprint) String() string {
	return "Blueprint(" + bp.name + ")"
}

// Ancestor returns the ancestor of this blueprint, or nil for a root blueprint.
func (bp *Blueprint) Ancestor() *Blueprint {
	return bp.ancestor
}

// Own returns a copy of the descriptors declared on this blueprint itself.
func (bp *Blueprint) Own() []Descriptor {
	return slices.Clone(bp.own)
}

// SetData replaces the own descriptors and the ancestor of the blueprint.
// Pass a nil ancestor to turn the blueprint into a root blueprint.
func (bp *Blueprint) SetData(own []Descriptor, ancestor *Blueprint) {
	bp.own = own
	bp.ancestor = ancestor
	bp.Invalidate()
}

// Invalidate drops the resolved descriptors and cached shapes. They are
// recomputed the next time they are needed.
func (bp *Blueprint) Invalidate() {
	bp.state = stale
	bp.resolved = nil
	bp.shapes.reset()
}

// Resolve returns the effective descriptors of this blueprint, accounting
// for the full ancestor chain. The result is cached until the blueprint or
// any of its ancestors is modified. The returned slice must not be modified.
func (bp *Blueprint) Resolve() ([]Descriptor, error) {
	if bp.isWarm() {
		return bp.resolved, nil
	}

	var path resolvePath
	return bp.resolve(&path)
}

// isWarm reports whether the blueprint and all of its ancestors are resolved and
// up to date. It does not allocate. The loop always ends: a cycle can only be
// introduced by SetData, which leaves the blueprint stale until the cycle is gone.
func (bp *Blueprint) isWarm() bool {
	current := bp

	for current.ancestor != nil {
		if current.state != resolved || current.ancestorVersion != current.ancestor.version {
			return false
		}

		current = current.ancestor
	}

	return current.state == resolved
}

func (bp *Blueprint) resolve(path *resolvePath) ([]Descriptor, error) {
	if err := path.enter(bp); err != nil {
		return nil, err
	}

	defer path.leave(bp)

	if bp.ancestor == nil {
		if bp.state != resolved {
			bp.store(FlattenRoot(nil, bp.own), 0)
		}

		return bp.resolved, nil
	}

	// always walk up to the root, an ancestor might have changed
	// since we've resolved our descriptors
	inherited, err := bp.ancestor.resolve(path)
	if err != nil {
		return nil, err
	}

	if bp.state == resolved && bp.ancestorVersion == bp.ancestor.version {
		return bp.resolved, nil
	}

	descriptors := Flatten(make([]Descriptor, 0, len(inherited)), bp.own, inherited)
	bp.store(descriptors, bp.ancestor.version)

	return bp.resolved, nil
}

func (bp *Blueprint) store(descriptors []Descriptor, ancestorVersion uint64) {
	bp.shapes.reset()

	bp.resolved = descriptors
	bp.ancestorVersion = ancestorVersion
	bp.state = resolved

	bp.version += 1
	bp.flattenCount += 1
}

// Chain returns the ancestor chain of this blueprint, starting at the root
// and ending with the blueprint itself.
func (bp *Blueprint) Chain() ([]*Blueprint, error) {
	var path resolvePath

	for current := bp; current != nil; current = current.ancestor {
		if err := path.enter(current); err != nil {
			return nil, err
		}
	}

	chain := slices.Clone(path.order)
	slices.Reverse(chain)

	return chain, nil
}

// TryGetOwn returns the first descriptor of type K declared on the
// blueprint itself. Inherited descriptors are not considered.
func TryGetOwn[K Descriptor](bp *Blueprint) (K, bool) {
	for _, descriptor := range bp.own {
		if typed, ok := descriptor.(K); ok {
			return typed, true
		}
	}

	var zero K
	return zero, false
}

// resolvePath tracks the blueprints currently being resolved
type resolvePath struct {
	members set.Set[*Blueprint]
	order   []*Blueprint
}

func (p *resolvePath) enter(bp *Blueprint) error {
	if !p.members.Insert(bp) {
		var chain []string
		for _, member := range p.order {
			chain = append(chain, member.name)
		}

		return &CycleError{Chain: append(chain, bp.name)}
	}

	p.order = append(p.order, bp)

	return nil
}

func (p *resolvePath) leave(bp *Blueprint) {
	p.members.Remove(bp)
	p.order = p.order[:len(p.order)-1]
}
