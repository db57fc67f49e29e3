package exec

import (
	"context"

	"github.com/shellwalk/shellcore/ast"
	"github.com/shellwalk/shellcore/expand"
	"github.com/shellwalk/shellcore/shellcontext"
	"github.com/shellwalk/shellcore/signal"
)

// executeIf evaluates n.Clause and runs Then on success, Else (which
// may itself be another *ast.If for an elif chain, or a
// *ast.CompoundList for a final else) otherwise. No branch taken
// yields 0.
func (e *Engine) executeIf(goCtx context.Context, sc *shellcontext.Context, n *ast.If) signal.Status {
	clause := e.executeNode(goCtx, sc, n.Clause)
	if clause.IsSignal() {
		return clause
	}
	if clause.Code == 0 {
		return e.executeNode(goCtx, sc, n.Then)
	}
	if n.Else != nil {
		return e.executeNode(goCtx, sc, n.Else)
	}
	return signal.Ok(0)
}

// loopOutcome interprets one loop-body iteration's status: whether the
// loop should keep going, and if not, what status the loop yields.
type loopOutcome int

const (
	loopContinueIterating loopOutcome = iota
	loopBreakOut
	loopPropagate
)

func interpretLoopBody(s signal.Status) (loopOutcome, signal.Status) {
	switch {
	case s.Kind == signal.KindBreak:
		return loopBreakOut, signal.Ok(0)
	case s.Kind == signal.KindContinue:
		return loopContinueIterating, signal.Ok(0)
	case s.Kind == signal.KindExit, s.Kind == signal.KindReturn:
		return loopPropagate, s
	case s.Code != 0:
		return loopPropagate, s
	default:
		return loopContinueIterating, s
	}
}

// executeWhile re-evaluates n.Clause before each iteration, running
// Body while it yields 0.
func (e *Engine) executeWhile(goCtx context.Context, sc *shellcontext.Context, n *ast.While) signal.Status {
	return e.runLoop(goCtx, sc, n.Clause, n.Body, func(s signal.Status) bool { return s.Code == 0 })
}

// executeUntil re-evaluates n.Clause before each iteration, running
// Body while it yields non-zero.
func (e *Engine) executeUntil(goCtx context.Context, sc *shellcontext.Context, n *ast.Until) signal.Status {
	return e.runLoop(goCtx, sc, n.Clause, n.Body, func(s signal.Status) bool { return s.Code != 0 })
}

func (e *Engine) runLoop(goCtx context.Context, sc *shellcontext.Context, clause ast.Node, body *ast.CompoundList, shouldRun func(signal.Status) bool) signal.Status {
	last := signal.Ok(0)
	for {
		clauseStatus := e.executeNode(goCtx, sc, clause)
		if clauseStatus.IsSignal() {
			return clauseStatus
		}
		if !shouldRun(clauseStatus) {
			return last
		}
		bodyStatus := e.executeNode(goCtx, sc, body)
		outcome, status := interpretLoopBody(bodyStatus)
		switch outcome {
		case loopBreakOut:
			return status
		case loopPropagate:
			return status
		case loopContinueIterating:
			last = status
		}
	}
}

// executeFor binds n.Variable, in the caller's own context (per
// spec.md §9's documented divergence: the loop variable leaks past the
// loop, matching the source's choice rather than scoping it to a
// per-iteration child), to each expanded value of n.Words in turn.
func (e *Engine) executeFor(goCtx context.Context, sc *shellcontext.Context, n *ast.For) signal.Status {
	exp := e.expander()
	values, status := e.expandForWordlist(goCtx, sc, n.Words, exp)
	if status.IsSignal() || status.Code != 0 {
		return status
	}

	last := signal.Ok(0)
	for _, v := range values {
		if err := sc.SetParam(n.Variable, v); err != nil {
			return signal.Ok(1)
		}
		bodyStatus := e.executeNode(goCtx, sc, n.Body)
		outcome, outStatus := interpretLoopBody(bodyStatus)
		switch outcome {
		case loopBreakOut:
			return outStatus
		case loopPropagate:
			return outStatus
		case loopContinueIterating:
			last = outStatus
		}
	}
	return last
}

func (e *Engine) expandForWordlist(goCtx context.Context, sc *shellcontext.Context, words []ast.Word, exp *expand.Expander) ([]string, signal.Status) {
	var values []string
	for _, w := range words {
		fields, status := exp.Expand(goCtx, sc, w)
		if status.IsSignal() || status.Code != 0 {
			return nil, status
		}
		values = append(values, fields...)
	}
	return values, signal.Ok(0)
}

// executeCase expands n.Word to its first value, then tries each
// item's patterns in order with glob-match semantics; the first match
// wins with no fall-through.
func (e *Engine) executeCase(goCtx context.Context, sc *shellcontext.Context, n *ast.Case) signal.Status {
	exp := e.expander()
	fields, status := exp.Expand(goCtx, sc, n.Word)
	if status.IsSignal() || status.Code != 0 {
		return status
	}
	clause := ""
	if len(fields) > 0 {
		clause = fields[0]
	}

	for _, item := range n.Items {
		for _, pat := range item.Patterns {
			patText, status := exp.ExpandCondWord(goCtx, sc, pat)
			if status.IsSignal() || status.Code != 0 {
				return status
			}
			if expand.MatchPattern(patText, clause) {
				return e.executeNode(goCtx, sc, item.Body)
			}
		}
	}
	return signal.Ok(0)
}
