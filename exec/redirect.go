package exec

import (
	"context"

	"github.com/shellwalk/shellcore/ast"
	"github.com/shellwalk/shellcore/expand"
	"github.com/shellwalk/shellcore/shellcontext"
	"github.com/shellwalk/shellcore/signal"
)

// applyRedirects expands each redirect's target (scalar, no splitting
// or path expansion, matching assignment-RHS convention) and applies
// it to ctx's own frame. Returns the first non-normal status, if any,
// from a failing command substitution inside a target word.
func applyRedirects(goCtx context.Context, ctx *shellcontext.Context, redirects []ast.Redirect, exp *expand.Expander) signal.Status {
	for _, r := range redirects {
		target, status := exp.ExpandCondWord(goCtx, ctx, r.Target)
		if status.IsSignal() || status.Code != 0 {
			return status
		}
		ep := shellcontext.Endpoint{Name: target, Append: r.Kind == ast.RedirectAppend}
		switch r.Endpoint {
		case ast.EndpointStdin:
			ctx.SetStdin(ep)
		case ast.EndpointStdout:
			ctx.SetStdout(ep)
		case ast.EndpointStderr:
			ctx.SetStderr(ep)
		}
	}
	return signal.Ok(0)
}
