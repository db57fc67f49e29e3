// Package arith evaluates integer arithmetic-expression ASTs against
// an execution context: the semantics behind `$(( ))`, `(( ))`, and
// the `let` builtin.
package arith

import (
	"strconv"
	"strings"

	"github.com/shellwalk/shellcore/ast"
	"github.com/shellwalk/shellcore/invariant"
	"github.com/shellwalk/shellcore/shellcontext"
	"github.com/shellwalk/shellcore/signal"
)

// Runner executes a sub-AST for command substitution embedded in an
// arithmetic expression and returns its captured stdout plus status.
type Runner interface {
	RunCapture(ctx *shellcontext.Context, node ast.Node) (string, signal.Status)
}

// AssignTarget selects which namespace ArithAssignment/ArithUpdate
// write into: the executor's arithmetic-command variant always writes
// params, while the `let` builtin may be configured either way.
type AssignTarget int

const (
	AssignParams AssignTarget = iota
	AssignEnv
)

// Evaluator evaluates ArithExpr trees against one execution context.
type Evaluator struct {
	Ctx    *shellcontext.Context
	Runner Runner
	Target AssignTarget
}

// Eval evaluates expr, returning its integer result.
func (e *Evaluator) Eval(expr ast.ArithExpr) int64 {
	invariant.NotNil(expr, "arithmetic expression")
	switch n := expr.(type) {
	case *ast.ArithNumber:
		return n.Value
	case *ast.ArithIdentifier:
		return e.lookup(n.Name)
	case *ast.ArithUnary:
		return e.evalUnary(n)
	case *ast.ArithBinary:
		return e.evalBinary(n)
	case *ast.ArithLogical:
		return e.evalLogical(n)
	case *ast.ArithConditional:
		if e.Eval(n.Cond) != 0 {
			return e.Eval(n.Then)
		}
		return e.Eval(n.Else)
	case *ast.ArithSequence:
		var last int64
		for _, sub := range n.Exprs {
			last = e.Eval(sub)
		}
		return last
	case *ast.ArithAssignment:
		return e.evalAssignment(n)
	case *ast.ArithUpdate:
		return e.evalUpdate(n)
	case *ast.ArithCommandSub:
		return e.evalCommandSub(n)
	default:
		invariant.Invariant(false, "unsupported arithmetic node kind %T", expr)
		return 0
	}
}

func (e *Evaluator) lookup(name string) int64 {
	v, ok := e.Ctx.Get(name)
	if !ok {
		return 0
	}
	return parseIntOrZero(v)
}

func parseIntOrZero(s string) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func (e *Evaluator) evalUnary(n *ast.ArithUnary) int64 {
	v := e.Eval(n.Expr)
	switch n.Op {
	case ast.ArithNeg:
		return -v
	case ast.ArithPos:
		return v
	case ast.ArithNot:
		return boolToInt(v == 0)
	case ast.ArithBitNot:
		return ^v
	default:
		invariant.Invariant(false, "unsupported arithmetic unary operator %v", n.Op)
		return 0
	}
}

func (e *Evaluator) evalBinary(n *ast.ArithBinary) int64 {
	l := e.Eval(n.Left)
	r := e.Eval(n.Right)
	switch n.Op {
	case ast.ArithAdd:
		return l + r
	case ast.ArithSub:
		return l - r
	case ast.ArithMul:
		return l * r
	case ast.ArithDiv:
		if r == 0 {
			return 0
		}
		return l / r
	case ast.ArithMod:
		if r == 0 {
			return 0
		}
		return l % r
	case ast.ArithPow:
		return intPow(l, r)
	case ast.ArithBitAnd:
		return l & r
	case ast.ArithBitOr:
		return l | r
	case ast.ArithBitXor:
		return l ^ r
	case ast.ArithShl:
		return l << uint(r)
	case ast.ArithShr:
		return l >> uint(r)
	case ast.ArithLt:
		return boolToInt(l < r)
	case ast.ArithGt:
		return boolToInt(l > r)
	case ast.ArithLe:
		return boolToInt(l <= r)
	case ast.ArithGe:
		return boolToInt(l >= r)
	case ast.ArithEq:
		return boolToInt(l == r)
	case ast.ArithNe:
		return boolToInt(l != r)
	default:
		invariant.Invariant(false, "unsupported arithmetic binary operator %v", n.Op)
		return 0
	}
}

func intPow(base, exp int64) int64 {
	if exp < 0 {
		return 0
	}
	var result int64 = 1
	for i := int64(0); i < exp; i++ {
		result *= base
	}
	return result
}

func (e *Evaluator) evalLogical(n *ast.ArithLogical) int64 {
	l := e.Eval(n.Left)
	switch n.Op {
	case ast.ArithLogAnd:
		if l == 0 {
			return 0
		}
		return boolToInt(e.Eval(n.Right) != 0)
	case ast.ArithLogOr:
		if l != 0 {
			return 1
		}
		return boolToInt(e.Eval(n.Right) != 0)
	default:
		invariant.Invariant(false, "unsupported arithmetic logical operator %v", n.Op)
		return 0
	}
}

func (e *Evaluator) evalAssignment(n *ast.ArithAssignment) int64 {
	current := e.lookup(n.Name)
	value := e.Eval(n.Value)
	var result int64
	switch n.Op {
	case ast.ArithAssign:
		result = value
	case ast.ArithAssignAdd:
		result = current + value
	case ast.ArithAssignSub:
		result = current - value
	case ast.ArithAssignMul:
		result = current * value
	case ast.ArithAssignDiv:
		if value == 0 {
			result = 0
		} else {
			result = current / value
		}
	case ast.ArithAssignMod:
		if value == 0 {
			result = 0
		} else {
			result = current % value
		}
	case ast.ArithAssignAnd:
		result = current & value
	case ast.ArithAssignOr:
		result = current | value
	case ast.ArithAssignXor:
		result = current ^ value
	case ast.ArithAssignShl:
		result = current << uint(value)
	case ast.ArithAssignShr:
		result = current >> uint(value)
	default:
		invariant.Invariant(false, "unsupported arithmetic assignment operator %v", n.Op)
	}
	e.store(n.Name, result)
	return result
}

func (e *Evaluator) evalUpdate(n *ast.ArithUpdate) int64 {
	current := e.lookup(n.Name)
	var next int64
	if n.Incr {
		next = current + 1
	} else {
		next = current - 1
	}
	e.store(n.Name, next)
	if n.Postfix {
		return current
	}
	return next
}

func (e *Evaluator) store(name string, value int64) {
	s := strconv.FormatInt(value, 10)
	if e.Target == AssignEnv {
		e.Ctx.SetEnv(name, s)
		return
	}
	e.Ctx.SetParam(name, s)
}

func (e *Evaluator) evalCommandSub(n *ast.ArithCommandSub) int64 {
	invariant.NotNil(e.Runner, "arithmetic command-substitution runner")
	out, _ := e.Runner.RunCapture(e.Ctx, n.Command)
	return parseIntOrZero(out)
}
