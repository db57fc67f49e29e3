package exec

import (
	"context"

	"github.com/shellwalk/shellcore/ast"
	"github.com/shellwalk/shellcore/shellcontext"
	"github.com/shellwalk/shellcore/signal"
)

// executeSubshell runs n.List in an isolated child so writes never
// leak to the enclosing scope, bridging file-backed I/O endpoints
// once around the whole subshell (§5 "This bridging applies uniformly
// to subshells (wrapped once)").
func (e *Engine) executeSubshell(goCtx context.Context, sc *shellcontext.Context, n *ast.Subshell) signal.Status {
	child := sc.ChildIsolated()

	var io ioHandles
	stdin, err := e.bridgeEndpoint(goCtx, &io, sc.Stdin(), false)
	if err != nil {
		return signal.Ok(1)
	}
	stdout, err := e.bridgeEndpoint(goCtx, &io, sc.Stdout(), true)
	if err != nil {
		io.release(goCtx, e.Host)
		return signal.Ok(1)
	}
	stderr, err := e.bridgeEndpoint(goCtx, &io, sc.Stderr(), true)
	if err != nil {
		io.release(goCtx, e.Host)
		return signal.Ok(1)
	}
	defer io.release(goCtx, e.Host)

	if stdin != "" {
		child.SetStdin(shellcontext.Endpoint{Name: stdin})
	}
	if stdout != "" {
		child.SetStdout(shellcontext.Endpoint{Name: stdout})
	}
	if stderr != "" {
		child.SetStderr(shellcontext.Endpoint{Name: stderr})
	}

	status := e.executeNode(goCtx, child, n.List)
	if status.Kind == signal.KindReturn {
		// No enclosing function frame inside a bare subshell; treat a
		// stray return like an ordinary exit code.
		return signal.Ok(status.Code)
	}
	return status
}
