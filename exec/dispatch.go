package exec

import (
	"context"
	"fmt"

	"github.com/shellwalk/shellcore/ast"
	"github.com/shellwalk/shellcore/errtrace"
	"github.com/shellwalk/shellcore/invariant"
	"github.com/shellwalk/shellcore/shellcontext"
	"github.com/shellwalk/shellcore/signal"
)

// executeNode dispatches on node's concrete kind. Every branch returns
// a signal.Status; break/continue/exit/return propagate through the
// call chain until the frame that owns them (loop, function, script)
// unwraps them, per spec.md §4.2/§6.5.
func (e *Engine) executeNode(goCtx context.Context, sc *shellcontext.Context, node ast.Node) signal.Status {
	invariant.NotNil(sc, "execution context")
	invariant.NotNil(node, "node")
	e.recordTrace(node, "")

	switch n := node.(type) {
	case *ast.Script:
		return e.runScript(goCtx, sc, n)

	case *ast.Command:
		return e.executeCommand(goCtx, sc, n)

	case *ast.Function:
		return e.executeFunctionDef(sc, n)

	case *ast.If:
		return e.executeIf(goCtx, sc, n)

	case *ast.While:
		return e.executeWhile(goCtx, sc, n)

	case *ast.Until:
		return e.executeUntil(goCtx, sc, n)

	case *ast.For:
		return e.executeFor(goCtx, sc, n)

	case *ast.Case:
		return e.executeCase(goCtx, sc, n)

	case *ast.Subshell:
		return e.executeSubshell(goCtx, sc, n)

	case *ast.Pipeline:
		return e.executePipeline(goCtx, sc, n)

	case *ast.LogicalExpression:
		return e.executeLogical(goCtx, sc, n)

	case *ast.CompoundList:
		return e.executeCompoundList(goCtx, sc, n)

	case *ast.ArithmeticCommand:
		return e.executeArithmeticCommand(goCtx, sc, n)

	case *ast.ConditionalCommand:
		return e.executeConditionalCommand(goCtx, sc, n)

	default:
		errtrace.Structural(node.Pos(), "node", fmt.Sprintf("%T", node))
		return signal.Ok(1) // unreachable
	}
}

// executeFunctionDef registers n in the parent's function table,
// capturing a child of sc as the definition context (§4.1 invariant v,
// §4.2 "Function definition").
func (e *Engine) executeFunctionDef(sc *shellcontext.Context, n *ast.Function) signal.Status {
	sc.SetFunction(shellcontext.FunctionDef{
		Name:          n.Name,
		Body:          n.Body,
		DefinitionCtx: sc.Child(),
	})
	return signal.Ok(0)
}

// executeLogical evaluates n.Left, then short-circuits on n.Op before
// evaluating n.Right, yielding the surviving side's status.
func (e *Engine) executeLogical(goCtx context.Context, sc *shellcontext.Context, n *ast.LogicalExpression) signal.Status {
	left := e.executeNode(goCtx, sc, n.Left)
	if left.IsSignal() {
		return left
	}
	switch n.Op {
	case ast.LogicalAnd:
		if left.Code != 0 {
			return left
		}
	case ast.LogicalOr:
		if left.Code == 0 {
			return left
		}
	default:
		errtrace.Structural(n.Pos(), "operator", fmt.Sprintf("%v", n.Op))
	}
	return e.executeNode(goCtx, sc, n.Right)
}

// executeCompoundList runs n.Commands in order, stopping on a
// control-flow signal or the first nonzero status.
func (e *Engine) executeCompoundList(goCtx context.Context, sc *shellcontext.Context, n *ast.CompoundList) signal.Status {
	child := sc.Child()
	if status := applyRedirects(goCtx, child, n.Redirects, e.expander()); status.IsSignal() || status.Code != 0 {
		return status
	}
	var last signal.Status
	for _, cmd := range n.Commands {
		last = e.executeNode(goCtx, child, cmd)
		if last.IsSignal() || last.Code != 0 {
			return last
		}
	}
	return last
}

// executeArithmeticCommand evaluates n.Expr and inverts shell
// truthiness: nonzero result -> status 0, zero result -> status 1.
func (e *Engine) executeArithmeticCommand(_ context.Context, sc *shellcontext.Context, n *ast.ArithmeticCommand) signal.Status {
	v := e.arithEvaluator(sc).Eval(n.Expr)
	if v != 0 {
		return signal.Ok(0)
	}
	return signal.Ok(1)
}

// executeConditionalCommand evaluates n.Expr ([[ ]]).
func (e *Engine) executeConditionalCommand(goCtx context.Context, sc *shellcontext.Context, n *ast.ConditionalCommand) signal.Status {
	ok, status := e.condEvaluator(goCtx, sc).Eval(n.Expr)
	if status.IsSignal() {
		return status
	}
	if ok {
		return signal.Ok(0)
	}
	return signal.Ok(1)
}
