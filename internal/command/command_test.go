package command

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/weave-lang/weave/internal/value"
)

type stubCommand struct {
	ns, name string
	arity    int
	calls    *[]string
}

func (c stubCommand) Namespace() string          { return c.ns }
func (c stubCommand) Name() string               { return c.name }
func (c stubCommand) Description() string        { return "stub command" }
func (c stubCommand) ParameterCount() int        { return c.arity }
func (c stubCommand) Extensions() map[string]int { return nil }

func (c stubCommand) Execute(args []string) Result {
	*c.calls = append(*c.calls, "exec")
	v := value.NewString("ok")
	r := Ok("done")
	r.Value = &v
	return r
}

func (c stubCommand) InvokeExtension(name string, args []string) Result {
	return Fail("no extensions")
}

func (c stubCommand) TryRun(args []string) (Result, bool) {
	return Ok("would run with " + args[0]), true
}

func TestRuntime_RegisterAndExactArityDispatch(t *testing.T) {
	var calls []string
	rt := New(value.NewRegistry(), nil)
	rt.Register(stubCommand{name: "greet", arity: 1, calls: &calls})

	result := rt.ProcessInput(`greet(world)`)
	require.True(t, result.Success)
	require.Equal(t, []string{"exec"}, calls)
}

func TestRuntime_NamespacedExactThenVariadicFallback(t *testing.T) {
	var calls []string
	rt := New(value.NewRegistry(), nil)
	rt.Register(stubCommand{ns: "sys", name: "run", arity: 0, calls: &calls})

	result := rt.ProcessInput(`sys:run(a,b,c)`)
	require.True(t, result.Success)
}

func TestRuntime_UnknownCommandFails(t *testing.T) {
	rt := New(value.NewRegistry(), nil)
	result := rt.ProcessInput(`missing(1)`)
	require.False(t, result.Success)
}

func TestRuntime_StoreExtensionBindsValue(t *testing.T) {
	var calls []string
	reg := value.NewRegistry()
	rt := New(reg, nil)
	rt.Register(stubCommand{name: "fetch", arity: 0, calls: &calls})

	result := rt.ProcessInput(`fetch().store(outcome)`)
	require.True(t, result.Success)

	got, _, ok := reg.GetTyped("outcome")
	require.True(t, ok)
	str, ok := got.AsString()
	require.True(t, ok)
	require.Equal(t, "ok", str)
}

func TestRuntime_HelpExtensionDescribesCommand(t *testing.T) {
	var calls []string
	rt := New(value.NewRegistry(), nil)
	rt.Register(stubCommand{name: "fetch", arity: 0, calls: &calls})

	result := rt.ProcessInput(`fetch().help()`)
	require.True(t, result.Success)
	require.Contains(t, result.Message, "stub command")
}

func TestRuntime_TryrunRequiresConfirmationThenExecutes(t *testing.T) {
	var calls []string
	rt := New(value.NewRegistry(), nil)
	rt.Register(stubCommand{name: "fetch", arity: 1, calls: &calls})

	preview := rt.ProcessInput(`fetch(x).tryrun()`)
	require.True(t, preview.RequiresConfirmation)
	require.Empty(t, calls)

	confirmed := rt.ProcessInput("yes")
	require.True(t, confirmed.Success)
	require.Equal(t, []string{"exec"}, calls)
}

func TestRuntime_TryrunRejectsThenCancels(t *testing.T) {
	var calls []string
	rt := New(value.NewRegistry(), nil)
	rt.Register(stubCommand{name: "fetch", arity: 1, calls: &calls})

	_ = rt.ProcessInput(`fetch(x).tryrun()`)
	result := rt.ProcessInput("no")
	require.False(t, result.Success)
	require.Empty(t, calls)
}

func TestRuntime_ReRegisterReplacesCommand(t *testing.T) {
	var calls1, calls2 []string
	rt := New(value.NewRegistry(), nil)
	rt.Register(stubCommand{name: "fetch", arity: 0, calls: &calls1})
	rt.Register(stubCommand{name: "fetch", arity: 0, calls: &calls2})

	_ = rt.ProcessInput(`fetch()`)
	require.Empty(t, calls1)
	require.Equal(t, []string{"exec"}, calls2)
}

func TestRuntime_DescriptorsFiltersByNamespace(t *testing.T) {
	var calls []string
	rt := New(value.NewRegistry(), nil)
	rt.Register(stubCommand{ns: "sys", name: "a", arity: 0, calls: &calls})
	rt.Register(stubCommand{ns: "other", name: "b", arity: 0, calls: &calls})

	descs := rt.Descriptors("sys")
	require.Len(t, descs, 1)
	require.Equal(t, "a", descs[0].Name)
}
