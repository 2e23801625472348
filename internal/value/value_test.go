package value

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry_RoundTrip(t *testing.T) {
	r := NewRegistry()

	r.Set("score", NewInt(100))
	v, k, ok := r.GetTyped("score")
	require.True(t, ok)
	require.Equal(t, Int, k)
	require.Equal(t, int64(100), v.IntVal)

	require.True(t, r.Remove("score"))
	_, _, ok = r.GetTyped("score")
	require.False(t, ok)

	require.False(t, r.Remove("score"))
}

func TestRegistry_CaseInsensitiveLookupCasePreservingStorage(t *testing.T) {
	r := NewRegistry()
	r.Set("Counter", NewInt(1))

	v, _, ok := r.GetTyped("COUNTER")
	require.True(t, ok)
	require.Equal(t, int64(1), v.IntVal)

	require.Contains(t, r.Dump(), "Counter")
}

func TestRegistry_CompoundRemovalDropsChildren(t *testing.T) {
	r := NewRegistry()
	r.SetList("items", []Value{NewInt(1), NewInt(2), NewInt(3)})

	elems, ok := r.GetList("items")
	require.True(t, ok)
	require.Len(t, elems, 3)

	require.True(t, r.Remove("items"))
	_, ok = r.GetList("items")
	require.False(t, ok)
}

func TestRegistry_ClearAllEmptiesBothStores(t *testing.T) {
	r := NewRegistry()
	r.Set("x", NewInt(1))
	r.SetList("xs", []Value{NewInt(1)})

	r.ClearAll()

	require.Equal(t, 0, r.Len())
	_, _, ok := r.GetTyped("x")
	require.False(t, ok)
	require.Empty(t, r.store)
}

func TestRegistry_ReplaceVariables(t *testing.T) {
	r := NewRegistry()
	r.Set("x", NewInt(10))
	r.Set("y", NewDouble(2.5))

	got := r.ReplaceVariables("x + y * 2")
	require.Equal(t, "10 + 2.5 * 2", got)
}

func TestRegistry_ReplaceVariablesDoesNotMatchSubstring(t *testing.T) {
	r := NewRegistry()
	r.Set("x", NewInt(99))

	got := r.ReplaceVariables("max + xy")
	require.Equal(t, "max + xy", got)
}

func TestRegistry_DerefFollowsOneHop(t *testing.T) {
	r := NewRegistry()
	r.Set("target", NewInt(5))
	r.Set("ptr", NewPointer("target"))

	v, k, ok := r.Deref("ptr")
	require.True(t, ok)
	require.Equal(t, Int, k)
	require.Equal(t, int64(5), v.IntVal)
}

func TestRegistry_DerefCycleReportsAbsent(t *testing.T) {
	r := NewRegistry()
	r.Set("a", NewPointer("b"))
	r.Set("b", NewPointer("a"))

	_, _, ok := r.Deref("a")
	require.False(t, ok)
}

func TestValue_Truthy(t *testing.T) {
	require.True(t, NewBool(true).Truthy())
	require.True(t, NewInt(1).Truthy())
	require.False(t, NewInt(0).Truthy())
	require.True(t, NewString("x").Truthy())
	require.False(t, NewString("").Truthy())
}

func TestKindFromTypeName(t *testing.T) {
	k, ok := KindFromTypeName("Wint")
	require.True(t, ok)
	require.Equal(t, Int, k)

	_, ok = KindFromTypeName("Wnope")
	require.False(t, ok)
}
