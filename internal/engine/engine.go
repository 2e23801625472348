// Package engine wires the lexer, script parser, lowerer, command
// runtime, and executor into a single embeddable unit, the way
// pkg/weave's facade expects to drive a script end to end.
package engine

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/weave-lang/weave/internal/builtins"
	"github.com/weave-lang/weave/internal/command"
	"github.com/weave-lang/weave/internal/executor"
	"github.com/weave-lang/weave/internal/lexer"
	"github.com/weave-lang/weave/internal/lower"
	"github.com/weave-lang/weave/internal/scriptparser"
	"github.com/weave-lang/weave/internal/value"
)

// Option configures an Engine at construction time, following the
// functional-options pattern.
type Option func(*Engine)

// WithOutput sets the writer Print-family commands write to. Defaults
// to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(e *Engine) { e.output = w }
}

// WithSafetyCounter overrides the executor's step budget for every
// script compiled by this Engine.
func WithSafetyCounter(n int) Option {
	return func(e *Engine) { e.safetyCounter = n }
}

// WithLogger sets the logrus logger used for structured diagnostics.
func WithLogger(log *logrus.Logger) Option {
	return func(e *Engine) { e.logger = log }
}

// WithRegistry seeds the Engine's variable registry instead of starting
// from an empty one, letting a host pre-populate state before running a
// script.
func WithRegistry(reg *value.Registry) Option {
	return func(e *Engine) { e.registry = reg }
}

// Engine owns one registry and one command runtime for its lifetime;
// each Compile call produces an independent Script sharing that state.
type Engine struct {
	registry      *value.Registry
	runtime       *command.Runtime
	logger        *logrus.Logger
	output        io.Writer
	safetyCounter int
}

// New builds an Engine with the built-in command set registered.
func New(opts ...Option) *Engine {
	e := &Engine{
		output:        os.Stdout,
		safetyCounter: executor.DefaultSafetyCounter,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.registry == nil {
		e.registry = value.NewRegistry()
	}
	if e.logger == nil {
		e.logger = logrus.New()
	}

	e.runtime = command.New(e.registry, e.logger)
	builtins.RegisterAllWithOutput(e.runtime, e.output)
	return e
}

// Registry exposes the Engine's backing variable registry.
func (e *Engine) Registry() *value.Registry { return e.registry }

// Runtime exposes the Engine's command runtime, so hosts can register
// their own commands before compiling scripts.
func (e *Engine) Runtime() *command.Runtime { return e.runtime }

// CompileError reports the stage a script failed at and the underlying
// error, mirroring the teacher's Stage/Errors shape for host-facing
// compile failures.
type CompileError struct {
	Stage string
	Err   error
}

func (c *CompileError) Error() string {
	return fmt.Sprintf("weave: %s: %v", c.Stage, c.Err)
}

func (c *CompileError) Unwrap() error { return c.Err }

// Compile lexes, parses, and lowers src, returning a Script ready to
// run against this Engine's registry and command runtime.
func (e *Engine) Compile(src string) (*Script, error) {
	toks := lexer.Lex(src)

	nodes, err := scriptparser.Parse(toks)
	if err != nil {
		e.logger.WithField("component", "scriptparser").Error(err)
		return nil, &CompileError{Stage: "parse", Err: err}
	}

	instrs, labels, err := lower.Lower(nodes, lower.Rewrite)
	if err != nil {
		e.logger.WithField("component", "lower").Error(err)
		return nil, &CompileError{Stage: "lower", Err: err}
	}

	ex := executor.New(instrs, labels, e.runtime, e.registry)
	ex.SetSafetyCounter(e.safetyCounter)

	return &Script{exec: ex, engine: e}, nil
}

// Script is one compiled, independently steppable program.
type Script struct {
	exec   *executor.Executor
	engine *Engine
}

// Step advances the script by one instruction, routing input to a
// pending feedback request if one exists.
func (s *Script) Step(input string) command.Result {
	return s.exec.ExecuteNext(input)
}

// Finished reports whether the script has run to completion or
// exhausted its safety counter.
func (s *Script) Finished() bool { return s.exec.IsFinished() }

// Run drives the script to completion, feeding empty input to every
// step (suitable for scripts that never request feedback). It stops
// early, logging a warning, at a step that requires confirmation. It
// returns the last command.Result produced, or a zero Result if the
// script had no instructions.
func (s *Script) Run() command.Result {
	var last command.Result
	for !s.exec.IsFinished() {
		last = s.exec.ExecuteNext("")
		if last.RequiresConfirmation {
			s.engine.logger.WithField("component", "executor").
				Warn("script paused awaiting confirmation; Run() cannot resume it, use Step()")
			break
		}
	}
	return last
}

// Reset rewinds the script to its first instruction.
func (s *Script) Reset() { s.exec.Reset() }
