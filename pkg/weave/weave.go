// Package weave is the public embedding facade for the Weave scripting
// engine: construct an Engine, Compile a script, then Run or Step it.
package weave

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/weave-lang/weave/internal/command"
	"github.com/weave-lang/weave/internal/engine"
	"github.com/weave-lang/weave/internal/value"
)

// Option configures an Engine. See WithOutput, WithSafetyCounter,
// WithLogger, and WithRegistry.
type Option = engine.Option

// WithOutput sets the writer Print-family commands write to.
func WithOutput(w io.Writer) Option { return engine.WithOutput(w) }

// WithSafetyCounter bounds the number of steps a script may take before
// it is considered finished, guarding against runaway loops.
func WithSafetyCounter(n int) Option { return engine.WithSafetyCounter(n) }

// WithLogger sets the logrus logger used for structured diagnostics.
func WithLogger(log *logrus.Logger) Option { return engine.WithLogger(log) }

// WithRegistry seeds the engine with a pre-populated variable registry.
func WithRegistry(reg *value.Registry) Option { return engine.WithRegistry(reg) }

// Result is the outcome of one command dispatch or script step.
type Result = command.Result

// Command is the interface external hosts implement to extend the
// engine with their own commands.
type Command = command.Command

// CompileError reports the stage (parse or lower) a Compile call failed
// at, along with the underlying error.
type CompileError = engine.CompileError

// Engine owns one variable registry and command runtime; it can compile
// any number of independent Scripts that share that state.
type Engine struct {
	inner *engine.Engine
}

// New constructs an Engine with the built-in command set registered.
func New(opts ...Option) *Engine {
	return &Engine{inner: engine.New(opts...)}
}

// Registry exposes the variable registry backing this Engine.
func (e *Engine) Registry() *value.Registry { return e.inner.Registry() }

// RegisterCommand installs a host-defined command, usable from any
// Script subsequently compiled on this Engine.
func (e *Engine) RegisterCommand(cmd Command) { e.inner.Runtime().Register(cmd) }

// Compile lexes, parses, and lowers src into a runnable Script.
func (e *Engine) Compile(src string) (*Script, error) {
	s, err := e.inner.Compile(src)
	if err != nil {
		return nil, err
	}
	return &Script{inner: s}, nil
}

// Script is one compiled, independently steppable program.
type Script struct {
	inner *engine.Script
}

// Step advances the script by one instruction. Pass the user's response
// when Finished() is false and the previous Step's Result required
// confirmation; pass "" otherwise.
func (s *Script) Step(input string) Result { return s.inner.Step(input) }

// Run drives the script to completion. It stops early if a step
// requires confirmation, since Run has no way to collect input; use
// Step in a loop for scripts that may pause.
func (s *Script) Run() Result { return s.inner.Run() }

// Finished reports whether the script has completed or exhausted its
// safety counter.
func (s *Script) Finished() bool { return s.inner.Finished() }

// Reset rewinds the script to its first instruction.
func (s *Script) Reset() { s.inner.Reset() }
