// Package builtins implements the core command set the executor relies
// on to dispatch assignments and evaluated expressions through the
// command runtime: setValue, getValue, deleteValue, memory, Print,
// Evaluate, Store, EvaluateCommand, help and list.
package builtins

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/weave-lang/weave/internal/command"
	"github.com/weave-lang/weave/internal/eval"
	"github.com/weave-lang/weave/internal/value"
)

// RegisterAll installs the full built-in command set onto rt, backed by
// rt's own registry, with Print writing to os.Stdout.
func RegisterAll(rt *command.Runtime) {
	RegisterAllWithOutput(rt, os.Stdout)
}

// RegisterAllWithOutput is RegisterAll with an explicit writer for
// Print, used by internal/engine to honor WithOutput.
func RegisterAllWithOutput(rt *command.Runtime, out io.Writer) {
	reg := rt.Registry()

	rt.Register(setValueCmd{registry: reg})
	rt.Register(getValueCmd{registry: reg})
	rt.Register(deleteValueCmd{registry: reg})
	rt.Register(memoryCmd{registry: reg})
	rt.Register(printCmd{out: out})
	rt.Register(evaluateCmd{registry: reg, arity: 1})
	rt.Register(evaluateCmd{registry: reg, arity: 2})
	rt.Register(storeCmd{registry: reg, runtime: rt})
	rt.Register(evaluateCommandCmd{registry: reg})
	rt.Register(helpCmd{runtime: rt})
	rt.Register(listCmd{runtime: rt, arity: 0})
	rt.Register(listCmd{runtime: rt, arity: 1})
}

// noExtensions is embedded by built-ins that expose no extensions of
// their own, so they inherit a uniform "no extensions" InvokeExtension
// and an empty Extensions() map without repeating the boilerplate.
type noExtensions struct{}

func (noExtensions) Extensions() map[string]int { return nil }

func (noExtensions) InvokeExtension(name string, _ []string) command.Result {
	return command.Fail(fmt.Sprintf("no extensions: %q", name))
}

// noPreview is embedded by built-ins that do not support tryrun.
type noPreview struct{}

func (noPreview) TryRun(_ []string) (command.Result, bool) { return command.Result{}, false }

// ---- setValue(key, value, type) ----

type setValueCmd struct {
	noExtensions
	registry *value.Registry
}

func (setValueCmd) Namespace() string   { return "" }
func (setValueCmd) Name() string        { return "setValue" }
func (setValueCmd) Description() string { return "store a typed value under a key" }
func (setValueCmd) ParameterCount() int { return 3 }

func (c setValueCmd) Execute(args []string) command.Result {
	key, raw, typeName := args[0], args[1], args[2]

	kind, ok := value.KindFromTypeName(typeName)
	if !ok {
		return command.Fail(fmt.Sprintf("setValue: unknown type %q", typeName))
	}

	v, err := parseTyped(raw, kind)
	if err != nil {
		return command.Fail(fmt.Sprintf("setValue: %s", err))
	}

	c.registry.Set(key, v)
	return command.Ok(fmt.Sprintf("Registered %s = %s (%s)", key, v.DisplayText(), kind))
}

// TryRun previews the registration without mutating the registry.
func (setValueCmd) TryRun(args []string) (command.Result, bool) {
	if len(args) != 3 {
		return command.Fail("setValue: expected 3 arguments"), true
	}
	key, raw, typeName := args[0], args[1], args[2]
	kind, ok := value.KindFromTypeName(typeName)
	if !ok {
		return command.Fail(fmt.Sprintf("setValue: unknown type %q", typeName)), true
	}
	v, err := parseTyped(raw, kind)
	if err != nil {
		return command.Fail(fmt.Sprintf("setValue: %s", err)), true
	}
	return command.Ok(fmt.Sprintf("would register %s = %s (%s)", key, v.DisplayText(), kind)), true
}

func parseTyped(raw string, kind value.Kind) (value.Value, error) {
	switch kind {
	case value.Int:
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return value.Value{}, fmt.Errorf("invalid Wint value %q", raw)
		}
		return value.NewInt(n), nil
	case value.Double:
		n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return value.Value{}, fmt.Errorf("invalid Wdouble value %q", raw)
		}
		return value.NewDouble(n), nil
	case value.Bool:
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return value.Value{}, fmt.Errorf("invalid Wbool value %q", raw)
		}
		return value.NewBool(b), nil
	default:
		return value.NewString(raw), nil
	}
}

// ---- getValue(key) ----

type getValueCmd struct {
	noExtensions
	noPreview
	registry *value.Registry
}

func (getValueCmd) Namespace() string   { return "" }
func (getValueCmd) Name() string        { return "getValue" }
func (getValueCmd) Description() string { return "retrieve a stored value" }
func (getValueCmd) ParameterCount() int { return 1 }

func (c getValueCmd) Execute(args []string) command.Result {
	key := args[0]
	v, _, ok := c.registry.GetTyped(key)
	if !ok {
		return command.Fail(fmt.Sprintf("getValue: key '%s' not found", key))
	}
	r := command.Ok(fmt.Sprintf("Retrieved key '%s': %s", key, v.DisplayText()))
	r.Value = &v
	r.Type = v.Kind.String()
	return r
}

// ---- deleteValue(key) ----

type deleteValueCmd struct {
	noExtensions
	noPreview
	registry *value.Registry
}

func (deleteValueCmd) Namespace() string   { return "" }
func (deleteValueCmd) Name() string        { return "deleteValue" }
func (deleteValueCmd) Description() string { return "remove a stored value" }
func (deleteValueCmd) ParameterCount() int { return 1 }

func (c deleteValueCmd) Execute(args []string) command.Result {
	key := args[0]
	if c.registry.Remove(key) {
		return command.Ok(fmt.Sprintf("Deleted key '%s'", key))
	}
	return command.Fail(fmt.Sprintf("key '%s' not found", key))
}

// ---- memory() ----

type memoryCmd struct {
	noExtensions
	noPreview
	registry *value.Registry
}

func (memoryCmd) Namespace() string   { return "" }
func (memoryCmd) Name() string        { return "memory" }
func (memoryCmd) Description() string { return "dump all stored variables" }
func (memoryCmd) ParameterCount() int { return 0 }

func (c memoryCmd) Execute(_ []string) command.Result {
	if c.registry.Len() == 0 {
		return command.Ok("memory: empty")
	}
	return command.Ok(c.registry.Dump())
}

// ---- Print(msg) ----

type printCmd struct {
	noExtensions
	noPreview
	out io.Writer
}

func (printCmd) Namespace() string   { return "" }
func (printCmd) Name() string        { return "Print" }
func (printCmd) Description() string { return "echo a message" }
func (printCmd) ParameterCount() int { return 1 }

func (c printCmd) Execute(args []string) command.Result {
	msg := args[0]
	if msg == "" {
		return command.Fail("Print: empty message")
	}
	if c.out != nil {
		fmt.Fprintln(c.out, msg)
	}
	return command.Ok(msg)
}

// ---- Evaluate(expr[, target]) ----

type evaluateCmd struct {
	noExtensions
	noPreview
	registry *value.Registry
	arity    int
}

func (evaluateCmd) Namespace() string   { return "" }
func (evaluateCmd) Name() string        { return "Evaluate" }
func (evaluateCmd) Description() string { return "evaluate an expression, optionally binding the result" }
func (c evaluateCmd) ParameterCount() int { return c.arity }

func (c evaluateCmd) Execute(args []string) command.Result {
	expr := args[0]

	v, err := evaluateExpr(expr, c.registry)
	if err != nil {
		return command.Fail(fmt.Sprintf("Evaluate: %s", err))
	}

	if len(args) == 2 {
		target := args[1]
		c.registry.Set(target, v)
	}

	r := command.Ok(fmt.Sprintf("Evaluated %q = %s", expr, v.DisplayText()))
	r.Value = &v
	r.Type = v.Kind.String()
	return r
}

// evaluateExpr picks Evaluate vs EvaluateNumeric per IsBooleanExpression's
// dispatch rule and wraps the numeric result back into a Value, always
// stored as Wdouble (see the ledger entry for this package).
func evaluateExpr(expr string, reg *value.Registry) (value.Value, error) {
	if eval.IsBooleanExpression(expr) {
		b, err := eval.Evaluate(expr, reg)
		if err != nil {
			return value.Value{}, err
		}
		return value.NewDouble(boolToFloat(b)), nil
	}
	n, err := eval.EvaluateNumeric(expr, reg)
	if err != nil {
		return value.Value{}, err
	}
	return value.NewDouble(n), nil
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// ---- EvaluateCommand(expr, key) ----

type evaluateCommandCmd struct {
	noExtensions
	noPreview
	registry *value.Registry
}

func (evaluateCommandCmd) Namespace() string   { return "" }
func (evaluateCommandCmd) Name() string        { return "EvaluateCommand" }
func (evaluateCommandCmd) Description() string { return "evaluate an expression and bind the result (lowerer rewrite form)" }
func (evaluateCommandCmd) ParameterCount() int { return 2 }

func (c evaluateCommandCmd) Execute(args []string) command.Result {
	expr, key := args[0], args[1]

	v, err := evaluateExpr(expr, c.registry)
	if err != nil {
		return command.Fail(fmt.Sprintf("EvaluateCommand: %s", err))
	}
	c.registry.Set(key, v)

	r := command.Ok(fmt.Sprintf("%s = %s", key, v.DisplayText()))
	r.Value = &v
	return r
}

// ---- Store(key, ...call) ----

type storeCmd struct {
	noExtensions
	noPreview
	registry *value.Registry
	runtime  *command.Runtime
}

func (storeCmd) Namespace() string   { return "" }
func (storeCmd) Name() string        { return "Store" }
func (storeCmd) Description() string { return "run an inner command call and bind its result to a key" }
func (storeCmd) ParameterCount() int { return 0 }

func (c storeCmd) Execute(args []string) command.Result {
	if len(args) < 2 {
		return command.Fail("Store: expected a key and an inner call")
	}
	key := args[0]
	inner := strings.Join(args[1:], ",")

	result := c.runtime.Invoke(inner)
	if !result.Success {
		return result
	}
	if result.Value == nil {
		return command.Fail("Store: inner call produced no value")
	}

	c.registry.Set(key, *result.Value)
	return command.Ok(fmt.Sprintf("%s (bound to %s)", result.Message, key))
}

// ---- help / list ----

type helpCmd struct {
	noExtensions
	noPreview
	runtime *command.Runtime
}

func (helpCmd) Namespace() string   { return "" }
func (helpCmd) Name() string        { return "help" }
func (helpCmd) Description() string { return "list every registered command" }
func (helpCmd) ParameterCount() int { return 0 }

func (c helpCmd) Execute(_ []string) command.Result {
	descs := c.runtime.Descriptors("")
	if len(descs) == 0 {
		return command.Ok("no commands registered")
	}
	var sb strings.Builder
	for i, d := range descs {
		if i > 0 {
			sb.WriteString("; ")
		}
		fmt.Fprintf(&sb, "%s/%d: %s", d.Name, d.ParameterCount, d.Description)
	}
	return command.Ok(sb.String())
}

type listCmd struct {
	noExtensions
	noPreview
	runtime *command.Runtime
	arity   int
}

func (listCmd) Namespace() string     { return "" }
func (listCmd) Name() string          { return "list" }
func (listCmd) Description() string   { return "list registered commands, optionally filtered by namespace" }
func (c listCmd) ParameterCount() int { return c.arity }

func (c listCmd) Execute(args []string) command.Result {
	ns := ""
	if len(args) == 1 {
		ns = args[0]
	}
	descs := c.runtime.Descriptors(ns)
	if len(descs) == 0 {
		return command.Ok("no commands")
	}
	names := make([]string, len(descs))
	for i, d := range descs {
		names[i] = d.Name
	}
	return command.Ok(strings.Join(names, ", "))
}
