// Package command implements the command runtime: registration,
// overload resolution by (namespace, name, arity), the `help`/`tryrun`/
// `store` global extensions, and feedback-driven confirmation loops.
package command

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/weave-lang/weave/internal/cmdsyntax"
	"github.com/weave-lang/weave/internal/value"
)

// Result is the outcome of executing or extending a command. If
// Feedback is non-nil, RequiresConfirmation must be true.
type Result struct {
	Success              bool
	Message              string
	Value                *value.Value
	Type                 string
	RequiresConfirmation bool
	Feedback             *FeedbackRequest
	Suggestions          []string
}

// Ok builds a successful Result carrying message.
func Ok(message string) Result { return Result{Success: true, Message: message} }

// Fail builds a failing Result carrying message.
func Fail(message string) Result { return Result{Success: false, Message: message} }

// WithFeedback attaches fb to r and marks it as requiring confirmation.
func (r Result) WithFeedback(fb *FeedbackRequest) Result {
	r.RequiresConfirmation = true
	r.Feedback = fb
	return r
}

// Command is the embedding interface external tools implement to extend
// the engine.
type Command interface {
	Namespace() string
	Name() string
	Description() string
	// ParameterCount returns the command's arity; 0 denotes variadic.
	ParameterCount() int
	// Extensions lists this command's own extensions (name -> arity);
	// nil or empty if it has none beyond the global set.
	Extensions() map[string]int
	Execute(args []string) Result
	// InvokeExtension dispatches one of this command's own extensions.
	// Commands with no custom extensions return a failing Result
	// ("no extensions").
	InvokeExtension(name string, args []string) Result
	// TryRun previews Execute without side effects. Returning ok=false
	// means the command does not support preview.
	TryRun(args []string) (result Result, ok bool)
}

// Extension is a named modifier applied to a command call. The runtime
// wires the three built-in global extensions (help, tryrun, store)
// through this interface; exec invokes the underlying command's
// Execute.
type Extension interface {
	Name() string
	Description() string
	ExtensionParameterCount() int
	Invoke(cmd Command, extArgs []string, exec func(args []string) Result, cmdArgs []string) Result
}

// Descriptor is read-only metadata about a registered command, used by
// `help`/`list`.
type Descriptor struct {
	Namespace      string
	Name           string
	Description    string
	ParameterCount int
	Extensions     map[string]int
}

func describe(c Command) Descriptor {
	return Descriptor{
		Namespace:      c.Namespace(),
		Name:           c.Name(),
		Description:    c.Description(),
		ParameterCount: c.ParameterCount(),
		Extensions:     c.Extensions(),
	}
}

type key struct {
	ns    string
	name  string
	arity int
}

func normKey(ns, name string, arity int) key {
	return key{ns: strings.ToLower(ns), name: strings.ToLower(name), arity: arity}
}

// Runtime owns the command table, the variable registry commands read
// and write, and the single pending feedback slot: one engine instance
// owns all of this, with no process-wide state.
type Runtime struct {
	mu         sync.RWMutex
	commands   map[key]Command
	order      []key // registration order, for deterministic ambiguous-overload resolution
	registry   *value.Registry
	pending    *FeedbackRequest
	logger     *logrus.Logger
	globalExts map[string]Extension
}

// New creates a Runtime backed by reg. log may be nil, in which case a
// logger with output discarded is used.
func New(reg *value.Registry, log *logrus.Logger) *Runtime {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	rt := &Runtime{
		commands: make(map[key]Command),
		registry: reg,
		logger:   log,
	}
	rt.globalExts = map[string]Extension{
		"help":   helpExtension{},
		"tryrun": tryrunExtension{},
		"store":  storeExtension{registry: reg},
	}
	return rt
}

// Register adds cmd to the table under (namespace, name, parameter
// count). Re-registering the same triple replaces the earlier command.
func (rt *Runtime) Register(cmd Command) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	k := normKey(cmd.Namespace(), cmd.Name(), cmd.ParameterCount())
	if _, exists := rt.commands[k]; !exists {
		rt.order = append(rt.order, k)
	}
	rt.commands[k] = cmd
}

// FindCommand resolves name/argc/ns to a registered Command. With a
// namespace, it tries that namespace's exact-arity entry, then its
// variadic entry, and otherwise fails; other namespaces are not searched.
// Without one, it searches every namespace for an exact-arity match,
// then a variadic one; when several match, the first registered wins.
func (rt *Runtime) FindCommand(name string, argc int, ns string) (Command, error) {
	rt.mu.RLock()
	defer rt.mu.RUnlock()

	if ns != "" {
		if c, ok := rt.commands[normKey(ns, name, argc)]; ok {
			return c, nil
		}
		if c, ok := rt.commands[normKey(ns, name, 0)]; ok {
			return c, nil
		}
		return nil, fmt.Errorf("command not found: %s:%s/%d", ns, name, argc)
	}

	var exact, variadic []Command
	lname := strings.ToLower(name)
	for _, k := range rt.order {
		if k.name != lname {
			continue
		}
		c := rt.commands[k]
		if k.arity == argc {
			exact = append(exact, c)
		}
		if k.arity == 0 {
			variadic = append(variadic, c)
		}
	}

	switch {
	case len(exact) == 1:
		return exact[0], nil
	case len(exact) > 1:
		rt.logger.WithFields(logrus.Fields{"command": name, "arity": argc}).
			Warn("ambiguous overload, using first registered match")
		return exact[0], nil
	case len(variadic) == 1:
		return variadic[0], nil
	case len(variadic) > 1:
		return variadic[0], nil
	default:
		return nil, fmt.Errorf("command not found: %s/%d", name, argc)
	}
}

// ProcessInput parses and dispatches one surface command call, or routes
// raw to the pending feedback responder if one is installed.
func (rt *Runtime) ProcessInput(raw string) Result {
	rt.mu.Lock()
	pending := rt.pending
	rt.mu.Unlock()

	if pending != nil {
		result := pending.Respond(raw)
		rt.mu.Lock()
		if !result.RequiresConfirmation {
			rt.pending = nil
		} else if result.Feedback != nil {
			rt.pending = result.Feedback
		}
		rt.mu.Unlock()
		return result
	}

	result := rt.Invoke(raw)

	rt.mu.Lock()
	if result.Feedback != nil {
		rt.pending = result.Feedback
	}
	rt.mu.Unlock()

	return result
}

// Invoke parses and runs one surface command call directly, bypassing
// the pending-feedback slot. Built-in commands that dispatch an inner
// call (e.g. Store) use this to re-enter the runtime without touching
// feedback state or re-acquiring locks held by ProcessInput.
func (rt *Runtime) Invoke(raw string) Result {
	inv, err := cmdsyntax.Parse(raw)
	if err != nil {
		return Fail(err.Error())
	}

	cmd, err := rt.FindCommand(inv.Name, len(inv.Args), inv.Namespace)
	if err != nil {
		return Fail(err.Error())
	}

	if inv.HasExtension {
		return rt.dispatchExtension(cmd, inv)
	}
	return cmd.Execute(inv.Args)
}

func (rt *Runtime) dispatchExtension(cmd Command, inv cmdsyntax.Invocation) Result {
	exec := func(args []string) Result { return cmd.Execute(args) }
	argc := len(inv.ExtensionArgs)

	if ext, ok := rt.globalExts[strings.ToLower(inv.Extension)]; ok {
		if n := ext.ExtensionParameterCount(); n != 0 && argc != n {
			return Fail(fmt.Sprintf("extension %s expects %d argument(s), got %d", inv.Extension, n, argc))
		}
		return ext.Invoke(cmd, inv.ExtensionArgs, exec, inv.Args)
	}
	if n, ok := cmd.Extensions()[inv.Extension]; ok && n != 0 && argc != n {
		return Fail(fmt.Sprintf("extension %s expects %d argument(s), got %d", inv.Extension, n, argc))
	}
	return cmd.InvokeExtension(inv.Extension, inv.ExtensionArgs)
}

// Descriptors returns the metadata of every registered command,
// optionally filtered to one namespace (case-insensitive; "" = all).
func (rt *Runtime) Descriptors(namespace string) []Descriptor {
	rt.mu.RLock()
	defer rt.mu.RUnlock()

	var out []Descriptor
	seen := map[key]bool{}
	for _, k := range rt.order {
		if seen[k] {
			continue
		}
		seen[k] = true
		c := rt.commands[k]
		if namespace != "" && !strings.EqualFold(c.Namespace(), namespace) {
			continue
		}
		out = append(out, describe(c))
	}
	return out
}

// Registry exposes the backing variable registry so built-in commands
// constructed outside this package (e.g. in internal/builtins) can share
// it with the runtime that dispatches them.
func (rt *Runtime) Registry() *value.Registry { return rt.registry }

// ---- global extensions ----

type helpExtension struct{}

func (helpExtension) Name() string                 { return "help" }
func (helpExtension) Description() string          { return "describe a command and its extensions" }
func (helpExtension) ExtensionParameterCount() int { return 0 }

func (helpExtension) Invoke(cmd Command, _ []string, _ func([]string) Result, _ []string) Result {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s", cmd.Name(), cmd.Description())
	exts := cmd.Extensions()
	if len(exts) > 0 {
		sb.WriteString(" [extensions:")
		for name := range exts {
			fmt.Fprintf(&sb, " %s", name)
		}
		sb.WriteString("]")
	}
	return Ok(sb.String())
}

type tryrunExtension struct{}

func (tryrunExtension) Name() string                { return "tryrun" }
func (tryrunExtension) Description() string         { return "preview a command, then confirm to run it" }
func (tryrunExtension) ExtensionParameterCount() int { return 0 }

func (tryrunExtension) Invoke(cmd Command, _ []string, exec func([]string) Result, cmdArgs []string) Result {
	preview, ok := cmd.TryRun(cmdArgs)
	if !ok {
		return Fail("tryrun not supported by this command")
	}

	var fb *FeedbackRequest
	fb = NewFeedback(preview.Message, []string{"yes", "no"}, func(input string) Result {
		switch strings.ToLower(strings.TrimSpace(input)) {
		case "yes", "y":
			return exec(cmdArgs)
		case "no", "n":
			return Fail("cancelled")
		default:
			return Fail("please answer yes or no").WithFeedback(fb)
		}
	})
	return Fail(preview.Message).WithFeedback(fb)
}

type storeExtension struct {
	registry *value.Registry
}

func (storeExtension) Name() string                { return "store" }
func (storeExtension) Description() string         { return "run a command and bind its result into a variable" }
func (storeExtension) ExtensionParameterCount() int { return 0 }

func (s storeExtension) Invoke(_ Command, extArgs []string, exec func([]string) Result, cmdArgs []string) Result {
	key := "result"
	if len(extArgs) > 0 && strings.TrimSpace(extArgs[0]) != "" {
		key = strings.TrimSpace(extArgs[0])
	}

	result := exec(cmdArgs)
	if !result.Success || result.Value == nil {
		return result
	}

	s.registry.Set(key, *result.Value)
	return Ok(fmt.Sprintf("%s (bound to %s)", result.Message, key))
}
