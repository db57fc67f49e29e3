package expand

import (
	"context"
	"strconv"
	"strings"

	"github.com/shellwalk/shellcore/arith"
	"github.com/shellwalk/shellcore/ast"
	"github.com/shellwalk/shellcore/shellcontext"
	"github.com/shellwalk/shellcore/signal"
)

func (e *Expander) runCommandSub(sc *shellcontext.Context, node ast.Node) (string, signal.Status) {
	out, status := e.Runner.RunCapture(sc, node)
	return strings.TrimRight(out, "\n"), status
}

func (e *Expander) runArithmetic(_ context.Context, sc *shellcontext.Context, expr ast.ArithExpr) (string, signal.Status) {
	ev := &arith.Evaluator{Ctx: sc, Runner: arithRunnerAdapter{e.Runner}}
	v := ev.Eval(expr)
	return strconv.FormatInt(v, 10), signal.Ok(0)
}

// arithRunnerAdapter bridges expand.Runner to arith.Runner (same
// shape, different packages so neither imports the other).
type arithRunnerAdapter struct{ r Runner }

func (a arithRunnerAdapter) RunCapture(sc *shellcontext.Context, node ast.Node) (string, signal.Status) {
	return a.r.RunCapture(sc, node)
}
