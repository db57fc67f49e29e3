package exec

import (
	"context"

	"github.com/shellwalk/shellcore/host"
	"github.com/shellwalk/shellcore/shellcontext"
	"github.com/shellwalk/shellcore/signal"
)

// BuiltinResult is what a builtin hands back to the dispatcher: a
// status plus whatever it wants written to the current stdout/stderr
// endpoints.
type BuiltinResult struct {
	Status signal.Status
	Stdout string
	Stderr string
}

// BuiltinContext is the collaborator set a builtin needs beyond its
// argv: the running context, a cancellation-aware Go context, and a
// callback into the engine for builtins that re-enter the
// parser+executor (eval, source/.).
type BuiltinContext struct {
	GoCtx context.Context
	Sc    *shellcontext.Context
	Run   RunStringFunc

	// Host is the facade a builtin reaches for host-owned state that
	// shellcontext doesn't model itself: path existence/type tests
	// (cd, test -e/-f/-d), and the resolved stdin pipe below.
	Host host.Shell

	// Stdin is the resolved pipe token feeding the command's standard
	// input, already bridged from a filesystem path if needed ("" when
	// nothing is attached). A builtin reads it directly with
	// Host.PipeRead; the dispatcher owns closing/removing the pipe.
	Stdin string
}

// RunStringFunc feeds source text back through the parser and
// executor against the caller's own context, the "run-string-callback"
// spec.md's Builtin Runtime section requires for eval/source/.
type RunStringFunc func(sc *shellcontext.Context, source string) signal.Status

// BuiltinFunc is the shape every builtin implements.
type BuiltinFunc func(bc *BuiltinContext, args []string) BuiltinResult

// Registry resolves a command name to a builtin implementation. The
// builtin/ package provides the concrete implementation; exec/ only
// depends on this interface to avoid importing it.
type Registry interface {
	Lookup(name string) (BuiltinFunc, bool)
}
