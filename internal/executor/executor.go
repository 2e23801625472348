// Package executor runs a lowered instruction list against a command
// runtime. One Executor owns its instruction pointer, its label
// table, and a safety counter bounding loop iteration so a misbehaving
// script cannot hang the host.
package executor

import (
	"fmt"

	"github.com/weave-lang/weave/internal/ast"
	"github.com/weave-lang/weave/internal/command"
	"github.com/weave-lang/weave/internal/eval"
	"github.com/weave-lang/weave/internal/lower"
	"github.com/weave-lang/weave/internal/value"
)

// DefaultSafetyCounter bounds the number of steps an Executor will take
// before reporting itself finished, guarding against runaway loops.
const DefaultSafetyCounter = 100_000

// Executor walks a lowered instruction list, dispatching Command,
// Command_Rewrite, and Assignment statements through a command.Runtime
// and resolving structured-block jumps directly via each instruction's
// precomputed Match index.
type Executor struct {
	instructions []lower.Instruction
	labels       lower.LabelTable
	runtime      *command.Runtime
	registry     *value.Registry

	ip               int
	finished         bool
	safetyCounter    int
	stepsTaken       int
	awaitingFeedback bool
}

// New builds an Executor over instrs/labels, dispatching commands
// through rt and evaluating conditions against reg.
func New(instrs []lower.Instruction, labels lower.LabelTable, rt *command.Runtime, reg *value.Registry) *Executor {
	return &Executor{
		instructions:  instrs,
		labels:        labels,
		runtime:       rt,
		registry:      reg,
		safetyCounter: DefaultSafetyCounter,
	}
}

// SetSafetyCounter overrides the default step budget.
func (e *Executor) SetSafetyCounter(n int) { e.safetyCounter = n }

// Reset rewinds execution to the first instruction and clears any
// pending feedback continuation.
func (e *Executor) Reset() {
	e.ip = 0
	e.finished = false
	e.stepsTaken = 0
	e.awaitingFeedback = false
}

// IsFinished reports whether execution has reached the end of the
// instruction list or exhausted its safety counter.
func (e *Executor) IsFinished() bool {
	return e.finished || e.ip >= len(e.instructions) || e.stepsTaken >= e.safetyCounter
}

// IP returns the current instruction pointer, mostly for tests and
// diagnostics.
func (e *Executor) IP() int { return e.ip }

// ExecuteNext advances execution by one step. If a feedback
// request is pending on the runtime, input is routed to it instead of
// advancing ip. Pass "" when no feedback is pending.
func (e *Executor) ExecuteNext(input string) command.Result {
	if e.IsFinished() {
		return command.Fail("executor: finished")
	}
	e.stepsTaken++

	if e.awaitingFeedback {
		result := e.runtime.ProcessInput(input)
		if result.Feedback == nil {
			e.awaitingFeedback = false
			e.ip++
		}
		return result
	}

	inst := e.instructions[e.ip]

	switch inst.Category {
	case ast.Label:
		e.ip++
		return command.Ok("label")

	case ast.Goto:
		target, ok := e.labels[inst.Statement]
		if !ok {
			e.finished = true
			return command.Fail(fmt.Sprintf("executor: label not found: %q", inst.Statement))
		}
		e.ip = target + 1
		return command.Ok("goto " + inst.Statement)

	case ast.IfCondition:
		cond, err := eval.Evaluate(inst.Statement, e.registry)
		if err != nil {
			e.finished = true
			return command.Fail(fmt.Sprintf("executor: %s", err))
		}
		if cond {
			e.ip++
		} else {
			e.ip = inst.Match + 1
		}
		return command.Ok("if")

	case ast.ElseOpen:
		e.ip = inst.Match + 1
		return command.Ok("else")

	case ast.BlockClose:
		e.ip++
		return command.Ok("block close")

	case ast.DoOpen:
		e.ip++
		return command.Ok("do open")

	case ast.DoEnd:
		e.ip++
		return command.Ok("do end")

	case ast.WhileCondition:
		cond, err := eval.Evaluate(inst.Statement, e.registry)
		if err != nil {
			e.finished = true
			return command.Fail(fmt.Sprintf("executor: %s", err))
		}
		if cond {
			e.ip = inst.Match + 1
		} else {
			e.ip++
		}
		return command.Ok("while")

	case ast.Command, ast.CommandRewrite, ast.Assignment:
		result := e.runtime.ProcessInput(inst.Statement)
		if result.Feedback != nil {
			e.awaitingFeedback = true
		} else {
			e.ip++
		}
		return result

	default:
		e.finished = true
		return command.Fail(fmt.Sprintf("executor: unhandled category %s", inst.Category))
	}
}
