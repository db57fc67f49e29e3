package exec

import (
	"context"
	"strconv"
	"strings"

	"github.com/shellwalk/shellcore/ast"
	"github.com/shellwalk/shellcore/errtrace"
	"github.com/shellwalk/shellcore/expand"
	"github.com/shellwalk/shellcore/host"
	"github.com/shellwalk/shellcore/shellcontext"
	"github.com/shellwalk/shellcore/signal"
)

// executeCommand implements spec.md §4.2's Command dispatch: spawn a
// child, apply prefix assignments and redirections, expand the
// argument vector and command name, then dispatch builtin -> function
// -> external, finally applying bang negation.
func (e *Engine) executeCommand(goCtx context.Context, sc *shellcontext.Context, n *ast.Command) signal.Status {
	child := sc.Child()
	exp := e.expander()

	if status := e.applyPrefixAssignments(goCtx, sc, child, n.Name == nil, n.Assignments, exp); status.IsSignal() || status.Code != 0 {
		return status
	}

	if status := applyRedirects(goCtx, child, n.Redirects, exp); status.IsSignal() || status.Code != 0 {
		return status
	}

	if n.Name == nil {
		// Bare assignment command: nothing to run.
		return negateStatus(n.Bang, signal.Ok(0))
	}

	argv, status := e.expandArgs(goCtx, child, n.Args, exp)
	if status.IsSignal() || status.Code != 0 {
		return status
	}

	name, status := exp.ExpandCommandName(goCtx, child, *n.Name)
	if status.IsSignal() || status.Code != 0 {
		return status
	}
	if name == "" {
		return negateStatus(n.Bang, signal.Ok(0))
	}

	// Control-flow words: a bare (unexpanded) "break"/"continue" is
	// recognized directly rather than dispatched as a builtin (§4.3).
	if len(n.Name.Expansions) == 0 {
		switch name {
		case "break":
			return negateStatus(n.Bang, signal.Break())
		case "continue":
			return negateStatus(n.Bang, signal.Continue())
		}
	}

	if fn, ok := e.lookupBuiltin(name); ok {
		return negateStatus(n.Bang, e.dispatchBuiltin(goCtx, child, fn, argv))
	}
	if def, ok := child.GetFunction(name); ok {
		return negateStatus(n.Bang, e.dispatchFunction(goCtx, child, def, argv))
	}
	return negateStatus(n.Bang, e.dispatchExternal(goCtx, child, name, argv, n.Async))
}

// negateStatus applies a Command's bang flag: 0<->nonzero inversion,
// but only for ordinary statuses — control-flow signals (break,
// continue, exit, return) are not exit codes and pass through intact.
func negateStatus(bang bool, s signal.Status) signal.Status {
	if !bang || s.Kind != signal.KindNormal {
		return s
	}
	if s.Code == 0 {
		return signal.Ok(1)
	}
	return signal.Ok(0)
}

// applyPrefixAssignments implements the scoping rule from spec.md
// §4.2 step 2: with a command name present, assignments are scoped to
// the child only (SetLocalParam); absent (a bare "FOO=bar" statement),
// they land permanently via a plain (non-local) write on sc.
func (e *Engine) applyPrefixAssignments(goCtx context.Context, sc, child *shellcontext.Context, bare bool, assignments []ast.AssignmentWord, exp *expand.Expander) signal.Status {
	for _, aw := range assignments {
		value, status := exp.ExpandAssignment(goCtx, child, aw)
		if status.IsSignal() || status.Code != 0 {
			return status
		}
		var err error
		if bare {
			err = sc.SetParam(aw.Name, value)
		} else {
			err = child.SetLocalParam(aw.Name, value)
		}
		if err != nil {
			return signal.Ok(1)
		}
	}
	return signal.Ok(0)
}

// expandArgs fully expands every argument word; one Word may yield
// zero, one, or many argv entries after splitting and path expansion.
func (e *Engine) expandArgs(goCtx context.Context, sc *shellcontext.Context, words []ast.Word, exp *expand.Expander) ([]string, signal.Status) {
	var argv []string
	for _, w := range words {
		fields, status := exp.Expand(goCtx, sc, w)
		if status.IsSignal() || status.Code != 0 {
			return nil, status
		}
		argv = append(argv, fields...)
	}
	return argv, signal.Ok(0)
}

func (e *Engine) lookupBuiltin(name string) (BuiltinFunc, bool) {
	if e.Builtins == nil {
		return nil, false
	}
	return e.Builtins.Lookup(name)
}

// dispatchBuiltin runs a registered builtin, bridging I/O as needed
// and writing any returned stdout/stderr to the command's endpoints.
func (e *Engine) dispatchBuiltin(goCtx context.Context, sc *shellcontext.Context, fn BuiltinFunc, argv []string) signal.Status {
	io, err := e.resolveIO(goCtx, sc)
	if err != nil {
		return signal.Ok(1)
	}
	defer io.release(goCtx, e.Host)

	result := fn(&BuiltinContext{GoCtx: goCtx, Sc: sc, Run: e.runString, Host: e.Host, Stdin: io.stdin}, argv)
	if result.Stdout != "" && io.stdout != "" {
		_ = e.Host.PipeWrite(goCtx, io.stdout, result.Stdout)
	}
	if result.Stderr != "" && io.stderr != "" {
		_ = e.Host.PipeWrite(goCtx, io.stderr, result.Stderr)
	}
	return result.Status
}

// dispatchFunction runs a user-defined function: positional params are
// set in a local frame of a child of the function's captured
// definition context (spec.md §4.1 invariant v), while I/O is
// inherited from the call site, not the definition site.
func (e *Engine) dispatchFunction(goCtx context.Context, caller *shellcontext.Context, def shellcontext.FunctionDef, argv []string) signal.Status {
	body, ok := def.Body.(*ast.CompoundList)
	if !ok {
		return signal.Ok(1)
	}

	bodyCtx := def.DefinitionCtx.Child()
	setPositionalParams(bodyCtx, argv)
	if ep := caller.Stdin(); ep != nil {
		bodyCtx.SetStdin(*ep)
	}
	if ep := caller.Stdout(); ep != nil {
		bodyCtx.SetStdout(*ep)
	}
	if ep := caller.Stderr(); ep != nil {
		bodyCtx.SetStderr(*ep)
	}

	status := e.executeNode(goCtx, bodyCtx, body)
	if status.Kind == signal.KindReturn {
		return signal.Ok(status.Code)
	}
	return status
}

// setPositionalParams binds "1".."N", "#", "@", "*" in ctx's own
// frame for a function call.
func setPositionalParams(ctx *shellcontext.Context, argv []string) {
	_ = ctx.SetLocalParam("#", strconv.Itoa(len(argv)))
	_ = ctx.SetLocalParam("@", strings.Join(argv, " "))
	_ = ctx.SetLocalParam("*", strings.Join(argv, " "))
	for i, v := range argv {
		_ = ctx.SetLocalParam(strconv.Itoa(i+1), v)
	}
}

// dispatchExternal hands off to the host facade, bridging any
// filesystem-path I/O endpoint to a pipe first.
func (e *Engine) dispatchExternal(goCtx context.Context, sc *shellcontext.Context, name string, argv []string, async bool) signal.Status {
	io, err := e.resolveIO(goCtx, sc)
	if err != nil {
		return signal.Ok(1)
	}
	defer io.release(goCtx, e.Host)

	code, err := e.Host.Execute(goCtx, name, argv, host.ExecOptions{
		Async:  async,
		Stdin:  io.stdin,
		Stdout: io.stdout,
		Stderr: io.stderr,
	})
	if err != nil {
		cmdErr := &errtrace.CommandError{Name: name, Kind: errtrace.CommandNotFound, Err: err}
		if io.stderr != "" {
			_ = e.Host.PipeWrite(goCtx, io.stderr, cmdErr.Error()+"\n")
		}
		return signal.Ok(cmdErr.Code())
	}
	return signal.Ok(code)
}
