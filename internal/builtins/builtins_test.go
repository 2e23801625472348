package builtins

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/weave-lang/weave/internal/command"
	"github.com/weave-lang/weave/internal/value"
)

func newRuntime() (*command.Runtime, *value.Registry) {
	reg := value.NewRegistry()
	rt := command.New(reg, nil)
	RegisterAll(rt)
	return rt, reg
}

func TestSetValueAndGetValue(t *testing.T) {
	rt, _ := newRuntime()

	result := rt.ProcessInput(`setValue(score,100,Wint)`)
	require.True(t, result.Success)
	require.Contains(t, result.Message, "Registered")

	result = rt.ProcessInput(`getValue(score)`)
	require.True(t, result.Success)
	require.Contains(t, result.Message, "Retrieved key 'score'")
	require.Contains(t, result.Message, "100")
}

func TestSetValueInvalidForType(t *testing.T) {
	rt, _ := newRuntime()
	result := rt.ProcessInput(`setValue(score,notanumber,Wint)`)
	require.False(t, result.Success)
}

func TestDeleteValue(t *testing.T) {
	rt, _ := newRuntime()
	_ = rt.ProcessInput(`setValue(score,1,Wint)`)

	result := rt.ProcessInput(`deleteValue(score)`)
	require.True(t, result.Success)
	require.Contains(t, result.Message, "Deleted")

	result = rt.ProcessInput(`deleteValue(score)`)
	require.False(t, result.Success)
	require.Contains(t, result.Message, "not found")
}

func TestMemoryEmptyAndPopulated(t *testing.T) {
	rt, _ := newRuntime()

	result := rt.ProcessInput(`memory()`)
	require.True(t, result.Success)
	require.Contains(t, result.Message, "empty")

	_ = rt.ProcessInput(`setValue(x,1,Wint)`)
	result = rt.ProcessInput(`memory()`)
	require.True(t, result.Success)
	require.NotContains(t, result.Message, "empty")
}

func TestPrintEmptyFails(t *testing.T) {
	rt, _ := newRuntime()
	result := rt.ProcessInput(`Print()`)
	require.False(t, result.Success)
}

func TestEvaluateStoresTarget(t *testing.T) {
	rt, reg := newRuntime()
	reg.Set("x", value.NewInt(2))

	result := rt.ProcessInput(`Evaluate(x+3,y)`)
	require.True(t, result.Success)

	y, _, ok := reg.GetTyped("y")
	require.True(t, ok)
	n, _ := y.AsDouble()
	require.Equal(t, 5.0, n)
}

func TestEvaluateCommandRewriteForm(t *testing.T) {
	rt, reg := newRuntime()
	result := rt.ProcessInput(`EvaluateCommand(2+3,total)`)
	require.True(t, result.Success)

	total, _, ok := reg.GetTyped("total")
	require.True(t, ok)
	n, _ := total.AsDouble()
	require.Equal(t, 5.0, n)
}

func TestStoreBindsInnerCallResult(t *testing.T) {
	rt, reg := newRuntime()
	_ = rt.ProcessInput(`setValue(score,42,Wint)`)

	result := rt.ProcessInput(`Store(copy,getValue(score))`)
	require.True(t, result.Success)

	copied, _, ok := reg.GetTyped("copy")
	require.True(t, ok)
	require.Equal(t, value.Int, copied.Kind)
}

func TestHelpListsCommands(t *testing.T) {
	rt, _ := newRuntime()
	result := rt.ProcessInput(`help()`)
	require.True(t, result.Success)
	require.Contains(t, result.Message, "getValue")
}

func TestListCommand(t *testing.T) {
	rt, _ := newRuntime()
	result := rt.ProcessInput(`list()`)
	require.True(t, result.Success)
	require.Contains(t, result.Message, "setValue")
}
