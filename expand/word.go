// Package expand implements word expansion: parameter, command, and
// arithmetic substitution; tilde and glob (path) expansion; and the
// word-splitting/quote-removal pass that turns one Word into zero or
// more argv strings.
package expand

import (
	"context"
	"sort"

	"github.com/shellwalk/shellcore/ast"
	"github.com/shellwalk/shellcore/host"
	"github.com/shellwalk/shellcore/invariant"
	"github.com/shellwalk/shellcore/shellcontext"
	"github.com/shellwalk/shellcore/signal"
)

// Runner executes a sub-AST for command substitution and returns its
// captured stdout and final status.
type Runner interface {
	RunCapture(sc *shellcontext.Context, node ast.Node) (string, signal.Status)
}

// Expander holds the collaborators word expansion needs beyond the
// execution context itself.
type Expander struct {
	Host   host.Shell
	Runner Runner
}

// assembled is the result of applying parameter/command/arithmetic
// expansions to one Word, before splitting.
type assembled struct {
	text      string
	protected []bool
	hasPath   bool // word carries at least one unresolved ExpPath marker
}

// stitch applies every non-path expansion in a single left-to-right
// pass, replacing spans with resolved values and tracking, per output
// byte, whether it is protected from splitting/globbing (quoted
// literal text, or a double-quoted expansion result).
func (e *Expander) stitch(goCtx context.Context, sc *shellcontext.Context, w ast.Word) (assembled, signal.Status) {
	expansions := make([]ast.Expansion, 0, len(w.Expansions))
	hasPath := false
	for _, exp := range w.Expansions {
		if exp.Kind == ast.ExpPath {
			hasPath = true
			continue
		}
		expansions = append(expansions, exp)
	}
	sort.Slice(expansions, func(i, j int) bool { return expansions[i].Start < expansions[j].Start })

	var outText []byte
	var outProt []bool
	pos := 0
	state := unquoted

	appendLiteral := func(from, to int) {
		if from >= to {
			return
		}
		content, mask, next := processLiteral(w.Text[from:to], state)
		outText = append(outText, content...)
		outProt = append(outProt, mask...)
		state = next
	}

	for _, exp := range expansions {
		invariant.InRange(exp.Start, 0, len(w.Text), "expansion start")
		if exp.Start < pos {
			continue // overlapping/out-of-order marker, skip defensively
		}
		appendLiteral(pos, exp.Start)

		value, status := e.resolveExpansion(goCtx, sc, exp)
		if status.Kind != signal.KindNormal || status.Code != 0 {
			return assembled{}, status
		}
		quoted := state != unquoted
		for i := 0; i < len(value); i++ {
			outText = append(outText, value[i])
			outProt = append(outProt, quoted)
		}
		pos = exp.End
	}
	appendLiteral(pos, len(w.Text))

	return assembled{text: string(outText), protected: outProt, hasPath: hasPath}, signal.Ok(0)
}

func (e *Expander) resolveExpansion(goCtx context.Context, sc *shellcontext.Context, exp ast.Expansion) (string, signal.Status) {
	switch exp.Kind {
	case ast.ExpParameter:
		v, _ := sc.Get(exp.Parameter)
		return v, signal.Ok(0)
	case ast.ExpCommand:
		return e.runCommandSub(sc, exp.Command)
	case ast.ExpArithmetic:
		return e.runArithmetic(goCtx, sc, exp.Arithmetic)
	default:
		invariant.Invariant(false, "unsupported expansion kind %v", exp.Kind)
		return "", signal.Ok(0)
	}
}
