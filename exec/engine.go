// Package exec is the AST Executor: it walks a parsed script against an
// execution context, dispatching to the expansion/arithmetic/
// conditional evaluators and a builtin registry, and orchestrating
// pipelines and file bridging against a host shell facade.
package exec

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shellwalk/shellcore/arith"
	"github.com/shellwalk/shellcore/ast"
	"github.com/shellwalk/shellcore/cond"
	"github.com/shellwalk/shellcore/errtrace"
	"github.com/shellwalk/shellcore/expand"
	"github.com/shellwalk/shellcore/host"
	"github.com/shellwalk/shellcore/invariant"
	"github.com/shellwalk/shellcore/shellcontext"
	"github.com/shellwalk/shellcore/signal"
)

// Engine is an executor bound to one host facade and an optional
// builtin registry. It is safe to reuse across many Execute calls but
// is not itself safe for concurrent Execute calls (the Execution
// Context it's handed is single-threaded per spec.md §5).
type Engine struct {
	Host     host.Shell
	Builtins Registry
	Config   Config

	// Parse is the parser black box (spec.md §1): optional, but
	// required for eval/source/. to re-enter the executor against
	// fresh source text. A nil Parse makes those builtins fail with a
	// usage error instead of panicking.
	Parse ParseFunc

	trace     []TraceEvent
	telemetry ExecutionTelemetry
}

// ParseFunc turns source text into a script AST. The core never
// implements this itself; embedders wire in whatever parser they use.
type ParseFunc func(source string) (*ast.Script, error)

// NewEngine constructs an Engine bound to h, with an optional builtin
// registry (nil is legal: every command dispatches straight to
// function-or-external).
func NewEngine(h host.Shell, builtins Registry, cfg Config) *Engine {
	invariant.NotNil(h, "host")
	return &Engine{Host: h, Builtins: builtins, Config: cfg}
}

// CaptureResult is ExecuteAndCapture's return value.
type CaptureResult struct {
	Code   int
	Stdout string
	Stderr string
}

// Trace returns the events recorded by the most recent Execute/
// ExecuteAndCapture call, when Config.Trace is not TraceOff.
func (e *Engine) Trace() []TraceEvent { return e.trace }

// Telemetry returns the summary of the most recent Execute/
// ExecuteAndCapture call, when Config.Telemetry is TelemetryOn.
func (e *Engine) Telemetry() ExecutionTelemetry { return e.telemetry }

func (e *Engine) recordTrace(node ast.Node, note string) {
	if e.Config.Trace == TraceOff {
		return
	}
	if e.Config.Trace != TraceDetailed && note == "" {
		return
	}
	kind := "script"
	if node != nil {
		kind = fmt.Sprintf("%T", node)
	}
	e.trace = append(e.trace, TraceEvent{Node: kind, Note: note})
}

// Execute parses nothing itself (the parser is a black box external
// collaborator, per spec.md §1): it runs an already-parsed script
// against sc and returns the script's terminal status code.
func (e *Engine) Execute(goCtx context.Context, sc *shellcontext.Context, script *ast.Script) (int, error) {
	invariant.NotNil(sc, "execution context")
	invariant.NotNil(script, "script")

	start := time.Now()
	e.trace = nil
	e.telemetry = ExecutionTelemetry{}
	e.recordTrace(nil, "script:enter")

	status, err := e.runScriptRecovered(goCtx, sc, script)

	e.recordTrace(nil, "script:exit")
	if e.Config.Telemetry == TelemetryOn {
		e.telemetry.Duration = time.Since(start)
	}
	if err != nil {
		return 1, err
	}
	return finalCode(status), nil
}

// ExecuteAndCapture behaves like Execute but redirects sc's stdout and
// stderr to fresh host pipes for the duration of the run and returns
// their captured contents alongside the status code.
func (e *Engine) ExecuteAndCapture(goCtx context.Context, sc *shellcontext.Context, script *ast.Script) (CaptureResult, error) {
	outPipe, err := e.Host.PipeOpen(goCtx)
	if err != nil {
		return CaptureResult{}, err
	}
	errPipe, err := e.Host.PipeOpen(goCtx)
	if err != nil {
		_ = e.Host.PipeRemove(goCtx, outPipe)
		return CaptureResult{}, err
	}
	defer func() {
		_ = e.Host.PipeRemove(goCtx, outPipe)
		_ = e.Host.PipeRemove(goCtx, errPipe)
	}()

	captureCtx := sc.Child()
	captureCtx.SetStdout(shellcontext.Endpoint{Name: outPipe})
	captureCtx.SetStderr(shellcontext.Endpoint{Name: errPipe})

	code, err := e.Execute(goCtx, captureCtx, script)
	if err != nil {
		return CaptureResult{}, err
	}

	_ = e.Host.PipeClose(goCtx, outPipe)
	_ = e.Host.PipeClose(goCtx, errPipe)
	stdout, _ := e.Host.PipeRead(goCtx, outPipe)
	stderr, _ := e.Host.PipeRead(goCtx, errPipe)

	return CaptureResult{Code: code, Stdout: stdout, Stderr: stderr}, nil
}

// RunCapture executes node (typically a *ast.Script produced for a
// command substitution) against a fresh pipe-backed stdout and returns
// its captured text plus terminal status. This satisfies
// expand.Runner, arith.Runner, and is used internally for command
// substitution inside arithmetic and word expansion.
func (e *Engine) RunCapture(sc *shellcontext.Context, node ast.Node) (string, signal.Status) {
	goCtx := context.Background()

	outPipe, err := e.Host.PipeOpen(goCtx)
	if err != nil {
		return "", signal.Ok(1)
	}
	defer func() { _ = e.Host.PipeRemove(goCtx, outPipe) }()

	child := sc.Child()
	child.SetStdout(shellcontext.Endpoint{Name: outPipe})

	status := e.executeNode(goCtx, child, node)
	_ = e.Host.PipeClose(goCtx, outPipe)
	out, _ := e.Host.PipeRead(goCtx, outPipe)
	return out, status
}

func (e *Engine) runScriptRecovered(goCtx context.Context, sc *shellcontext.Context, script *ast.Script) (status signal.Status, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errtrace.Recover(r)
		}
	}()
	status = e.runScript(goCtx, sc, script)
	return status, nil
}

// runScript is the Script dispatch: commands in source order,
// params["?"] updated after each, no abort-on-nonzero by default,
// exit-signal terminal, return-signal propagated outward unchanged.
func (e *Engine) runScript(goCtx context.Context, sc *shellcontext.Context, script *ast.Script) signal.Status {
	var last signal.Status
	for _, cmd := range script.Commands {
		last = e.executeNode(goCtx, sc, cmd)
		e.afterCommand(sc, cmd, last)
		if last.Kind == signal.KindExit || last.Kind == signal.KindReturn {
			return last
		}
	}
	return last
}

func (e *Engine) afterCommand(sc *shellcontext.Context, node ast.Node, status signal.Status) {
	if e.Config.Telemetry == TelemetryOn {
		e.telemetry.NodesRun++
		if status.Kind == signal.KindNormal && status.Code != 0 && e.telemetry.FailedNode == "" {
			e.telemetry.FailedNode = fmt.Sprintf("%T", node)
		}
	}
	_ = sc.SetParam("?", fmt.Sprintf("%d", finalCode(status)))
}

// finalCode resolves a Status to the integer a caller outside the
// executor should see: ordinary/exit/return codes pass through,
// break/continue (which should never escape their loop) surface as 0.
func finalCode(s signal.Status) int {
	switch s.Kind {
	case signal.KindNormal, signal.KindExit, signal.KindReturn:
		return s.Code
	default:
		return 0
	}
}

// expander builds a fresh expand.Expander bound to this engine, used
// by every dispatch site that needs word expansion.
func (e *Engine) expander() *expand.Expander {
	return &expand.Expander{Host: e.Host, Runner: e}
}

// arithEvaluator builds an arith.Evaluator targeting params, the
// variant the ArithmeticCommand dispatch and `(( ))` always use.
func (e *Engine) arithEvaluator(sc *shellcontext.Context) *arith.Evaluator {
	return &arith.Evaluator{Ctx: sc, Runner: e, Target: arith.AssignParams}
}

// runString implements RunStringFunc: it feeds source back through
// Parse and the executor against sc, the caller's own context, for
// eval/source/. (§4.5).
func (e *Engine) runString(sc *shellcontext.Context, source string) signal.Status {
	if e.Parse == nil {
		return signal.Ok(2)
	}
	script, err := e.Parse(source)
	if err != nil {
		e.reportSyntaxError(context.Background(), sc, source, err)
		return signal.Ok(2)
	}
	return e.runScript(context.Background(), sc, script)
}

// reportSyntaxError writes a rendered parse failure to sc's current
// stderr endpoint. The parser collaborator's error already carries
// position information when it builds one via errtrace.NewSyntaxError;
// otherwise it's surfaced verbatim.
func (e *Engine) reportSyntaxError(goCtx context.Context, sc *shellcontext.Context, source string, parseErr error) {
	io, err := e.resolveIO(goCtx, sc)
	if err != nil {
		return
	}
	defer io.release(goCtx, e.Host)
	if io.stderr == "" {
		return
	}
	var se *errtrace.SyntaxError
	msg := parseErr.Error()
	if errors.As(parseErr, &se) {
		msg = se.Error()
	}
	_ = e.Host.PipeWrite(goCtx, io.stderr, msg+"\n")
}

// condEvaluator builds a cond.Evaluator for one ConditionalCommand.
func (e *Engine) condEvaluator(goCtx context.Context, sc *shellcontext.Context) *cond.Evaluator {
	return &cond.Evaluator{GoCtx: goCtx, Sc: sc, Host: e.Host, Expander: e.expander()}
}
