package blueprint

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolve_RootReturnsOwnDescriptors(t *testing.T) {
	a, b := &alpha{label: "a"}, &beta{label: "b"}

	bp := New("root", a, b)

	resolved, err := bp.Resolve()
	require.NoError(t, err)
	require.Equal(t, []Descriptor{a, b}, resolved)
}

func TestResolve_IsMemoized(t *testing.T) {
	root := New("root", &alpha{label: "a1"}, &beta{label: "b1"})
	child := Derive("child", root, &alpha{label: "a2"})

	first, err := child.Resolve()
	require.NoError(t, err)

	second, err := child.Resolve()
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, 1, child.flattenCount)
	require.Equal(t, 1, root.flattenCount)
}

func TestResolve_OverrideReplacement(t *testing.T) {
	a1, b1 := &alpha{label: "a1"}, &beta{label: "b1"}
	a2 := &alpha{label: "a2"}

	child := Derive("child", New("root", a1, b1), a2)

	resolved, err := child.Resolve()
	require.NoError(t, err)
	require.Equal(t, []Descriptor{a2, b1}, resolved)
}

func TestResolve_NonOverridingAdditionIsDropped(t *testing.T) {
	a1 := &alpha{label: "a1"}
	a2 := &alpha{label: "a2"}
	c2 := &gamma{label: "c2"}

	child := Derive("child", New("root", a1), a2, c2)

	resolved, err := child.Resolve()
	require.NoError(t, err)
	require.Equal(t, []Descriptor{a2}, resolved)
}

func TestResolve_FirstMatchWins(t *testing.T) {
	a2 := &alpha{label: "a2"}
	a3 := &alpha{label: "a3"}

	child := Derive("child", New("root", &alpha{label: "a1"}), a2, a3)

	resolved, err := child.Resolve()
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	require.Same(t, a2, resolved[0])
}

func TestResolve_DeepChain(t *testing.T) {
	a1, b1, c1 := &alpha{label: "a1"}, &beta{label: "b1"}, &gamma{label: "c1"}
	b2 := &beta{label: "b2"}
	a3 := &alpha{label: "a3"}

	root := New("root", a1, b1, c1)
	middle := Derive("middle", root, b2)
	leaf := Derive("leaf", middle, a3)

	resolved, err := leaf.Resolve()
	require.NoError(t, err)
	require.Equal(t, []Descriptor{a3, b2, c1}, resolved)

	chain, err := leaf.Chain()
	require.NoError(t, err)
	require.Equal(t, []*Blueprint{root, middle, leaf}, chain)
}

func TestResolve_DetectsCycle(t *testing.T) {
	x := New("x", &alpha{label: "x"})
	y := Derive("y", x, &alpha{label: "y"})

	x.SetData(x.Own(), y)

	_, err := x.Resolve()
	require.ErrorIs(t, err, ErrCyclicInheritance)

	var cycleErr *CycleError
	require.ErrorAs(t, err, &cycleErr)
	require.Equal(t, []string{"x", "y", "x"}, cycleErr.Chain)

	_, err = y.Resolve()
	require.ErrorIs(t, err, ErrCyclicInheritance)

	_, err = x.Chain()
	require.ErrorIs(t, err, ErrCyclicInheritance)
}

func TestResolve_DetectsSelfCycle(t *testing.T) {
	x := New("x")
	x.SetData(nil, x)

	_, err := x.Resolve()
	require.ErrorIs(t, err, ErrCyclicInheritance)
}

func TestResolve_DetectsCycleAfterResolving(t *testing.T) {
	x := New("x", &alpha{label: "x"})
	y := Derive("y", x)

	_, err := y.Resolve()
	require.NoError(t, err)

	// y is resolved and cached, but walking the chain still finds the cycle
	x.SetData(x.Own(), y)

	_, err = y.Resolve()
	require.ErrorIs(t, err, ErrCyclicInheritance)
}

func TestSetData_Invalidates(t *testing.T) {
	a1, a2 := &alpha{label: "a1"}, &alpha{label: "a2"}

	bp := New("bp", a1)

	resolved, err := bp.Resolve()
	require.NoError(t, err)
	require.Equal(t, []Descriptor{a1}, resolved)

	bp.SetData([]Descriptor{a2}, nil)

	resolved, err = bp.Resolve()
	require.NoError(t, err)
	require.Equal(t, []Descriptor{a2}, resolved)
	require.Equal(t, 2, bp.flattenCount)
}

func TestSetData_OnAncestorInvalidatesDescendants(t *testing.T) {
	a1, b1, b2 := &alpha{label: "a1"}, &beta{label: "b1"}, &beta{label: "b2"}

	root := New("root", a1)
	child := Derive("child", root, b2)

	resolved, err := child.Resolve()
	require.NoError(t, err)
	require.Equal(t, []Descriptor{a1}, resolved)

	// the root now declares a beta, which the child overrides
	root.SetData([]Descriptor{a1, b1}, nil)

	resolved, err = child.Resolve()
	require.NoError(t, err)
	require.Equal(t, []Descriptor{a1, b2}, resolved)
	require.Equal(t, 2, child.flattenCount)
}

func TestSetData_ChangesAncestor(t *testing.T) {
	a1, a2, a3 := &alpha{label: "a1"}, &alpha{label: "a2"}, &alpha{label: "a3"}
	b2 := &beta{label: "b2"}

	first := New("first", a1)
	second := New("second", a2, b2)

	child := Derive("child", first, a3)

	resolved, err := child.Resolve()
	require.NoError(t, err)
	require.Equal(t, []Descriptor{a3}, resolved)

	child.SetData(child.Own(), second)
	require.Same(t, second, child.Ancestor())

	resolved, err = child.Resolve()
	require.NoError(t, err)
	require.Equal(t, []Descriptor{a3, b2}, resolved)

	// detach from the ancestor
	child.SetData(child.Own(), nil)

	resolved, err = child.Resolve()
	require.NoError(t, err)
	require.Equal(t, []Descriptor{a3}, resolved)
}

func TestResolve_EmptyRoot(t *testing.T) {
	child := Derive("child", New("root"), &alpha{label: "a"})

	resolved, err := child.Resolve()
	require.NoError(t, err)
	require.Empty(t, resolved)
}

func TestTryGetOwn(t *testing.T) {
	a1, b1 := &alpha{label: "a1"}, &beta{label: "b1"}
	a2 := &alpha{label: "a2"}

	child := Derive("child", New("root", a1, b1), a2)

	own, ok := TryGetOwn[*alpha](child)
	require.True(t, ok)
	require.Same(t, a2, own)

	// inherited descriptors are not visible
	_, ok = TryGetOwn[*beta](child)
	require.False(t, ok)
}

func TestBlueprint_Own(t *testing.T) {
	a := &alpha{label: "a"}
	bp := New("bp", a)

	own := bp.Own()
	own[0] = &beta{}

	resolved, err := bp.Resolve()
	require.NoError(t, err)
	require.Equal(t, []Descriptor{a}, resolved)
	require.Equal(t, "Blueprint(bp)", bp.String())
}

func TestResolve_WarmDoesNotAllocate(t *testing.T) {
	root := New("root", &alpha{label: "a1"}, &beta{label: "b1"})
	middle := Derive("middle", root, &alpha{label: "a2"})
	leaf := Derive("leaf", middle, &beta{label: "b3"})

	expected, err := leaf.Resolve()
	require.NoError(t, err)

	allocs := testing.AllocsPerRun(100, func() {
		resolved, err := leaf.Resolve()
		if err != nil || len(resolved) != len(expected) {
			t.Fatal("unexpected resolve result")
		}
	})

	require.Zero(t, allocs)
	require.Equal(t, 1, leaf.flattenCount)
}

func TestResolve_WarmChainNoticesStaleAncestor(t *testing.T) {
	root := New("root", &alpha{label: "a1"})
	middle := Derive("middle", root)
	leaf := Derive("leaf", middle)

	_, err := leaf.Resolve()
	require.NoError(t, err)

	a2 := &alpha{label: "a2"}
	root.SetData([]Descriptor{a2}, nil)

	resolved, err := leaf.Resolve()
	require.NoError(t, err)
	require.Equal(t, []Descriptor{a2}, resolved)
	require.Equal(t, 2, leaf.flattenCount)
}

func BenchmarkResolveWarm(b *testing.B) {
	bp := New("root", &alpha{label: "a"}, &beta{label: "b"})
	for idx := range 4 {
		bp = Derive(fmt.Sprintf("level-%d", idx), bp, &alpha{label: "a"})
	}

	_, err := bp.Resolve()
	require.NoError(b, err)

	b.ReportAllocs()

	for b.Loop() {
		_, _ = bp.Resolve()
	}
}
