package expand

import (
	"context"

	"github.com/shellwalk/shellcore/ast"
	"github.com/shellwalk/shellcore/host"
	"github.com/shellwalk/shellcore/shellcontext"
	"github.com/shellwalk/shellcore/signal"
)

// Expand fully expands w: parameter/command/arithmetic substitution,
// tilde expansion, word splitting and quote removal, and finally
// deferred path (glob) expansion. One Word may yield zero, one, or
// many argv strings.
func (e *Expander) Expand(goCtx context.Context, sc *shellcontext.Context, w ast.Word) ([]string, signal.Status) {
	asm, status := e.stitch(goCtx, sc, w)
	if status.Kind != signal.KindNormal || status.Code != 0 {
		return nil, status
	}

	fields := splitFields(asm.text, asm.protected, IFS(sc), hasEmptyQuotedPair(w.Text))

	if !asm.hasPath {
		return withTilde(goCtx, e.Host, fields), signal.Ok(0)
	}

	resolver, ok := e.Host.(host.PathResolver)
	if !ok {
		return withTilde(goCtx, e.Host, fields), signal.Ok(0)
	}

	var out []string
	for _, f := range fields {
		if !hasGlobMeta(f) {
			out = append(out, expandTilde(goCtx, e.Host, f))
			continue
		}
		matches, err := resolver.ResolvePath(goCtx, f)
		if err != nil || len(matches) == 0 {
			out = append(out, f)
			continue
		}
		out = append(out, matches...)
	}
	return out, signal.Ok(0)
}

func withTilde(goCtx context.Context, h host.Shell, fields []string) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = expandTilde(goCtx, h, f)
	}
	return out
}

// ExpandCondWord expands w for `[[ ]]` context: no word splitting, no
// path expansion, single scalar result.
func (e *Expander) ExpandCondWord(goCtx context.Context, sc *shellcontext.Context, w ast.Word) (string, signal.Status) {
	asm, status := e.stitch(goCtx, sc, w)
	if status.Kind != signal.KindNormal || status.Code != 0 {
		return "", status
	}
	return asm.text, signal.Ok(0)
}

// ExpandAssignment expands an AssignmentWord's value for a plain
// "NAME=value" assignment: no splitting, no path expansion (matching
// `[[ ]]`-style scalar-only semantics, per assignment-RHS convention).
func (e *Expander) ExpandAssignment(goCtx context.Context, sc *shellcontext.Context, aw ast.AssignmentWord) (string, signal.Status) {
	asm, status := e.stitch(goCtx, sc, aw.Value)
	if status.Kind != signal.KindNormal || status.Code != 0 {
		return "", status
	}
	return asm.text, signal.Ok(0)
}

// ExpandCommandName expands w the way a command name is resolved: the
// first resulting field after splitting is the resolved name (path
// expansion never applies to a command name).
func (e *Expander) ExpandCommandName(goCtx context.Context, sc *shellcontext.Context, w ast.Word) (string, signal.Status) {
	asm, status := e.stitch(goCtx, sc, w)
	if status.Kind != signal.KindNormal || status.Code != 0 {
		return "", status
	}
	fields := splitFields(asm.text, asm.protected, IFS(sc), hasEmptyQuotedPair(w.Text))
	if len(fields) == 0 {
		return "", signal.Ok(0)
	}
	return expandTilde(goCtx, e.Host, fields[0]), signal.Ok(0)
}
