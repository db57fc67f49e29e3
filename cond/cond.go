// Package cond evaluates `[[ ]]` conditional expressions: string and
// numeric comparisons, pattern and regex matching, and file-test
// operators delegated to the host facade.
package cond

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/shellwalk/shellcore/ast"
	"github.com/shellwalk/shellcore/expand"
	"github.com/shellwalk/shellcore/host"
	"github.com/shellwalk/shellcore/invariant"
	"github.com/shellwalk/shellcore/shellcontext"
	"github.com/shellwalk/shellcore/signal"
)

// WordExpander resolves a CondWord's Value to its scalar string, with
// no splitting and no path expansion. *expand.Expander satisfies this.
type WordExpander interface {
	ExpandCondWord(ctx context.Context, sc *shellcontext.Context, w ast.Word) (string, signal.Status)
}

// Evaluator evaluates one `[[ ]]` expression tree against an execution
// context and a host facade for file-test operators.
type Evaluator struct {
	GoCtx    context.Context
	Sc       *shellcontext.Context
	Host     host.Shell
	Expander WordExpander
}

func halts(status signal.Status) bool {
	return status.Kind != signal.KindNormal || status.Code != 0
}

// Eval evaluates expr, returning its truth value. A non-normal status
// (a propagating signal, or a failed command substitution inside an
// operand) aborts evaluation immediately.
func (e *Evaluator) Eval(expr ast.CondExpr) (bool, signal.Status) {
	switch n := expr.(type) {
	case *ast.CondWord:
		v, status := e.word(n)
		if halts(status) {
			return false, status
		}
		return v != "", signal.Ok(0)

	case *ast.CondNegation:
		v, status := e.Eval(n.Expr)
		if halts(status) {
			return false, status
		}
		return !v, signal.Ok(0)

	case *ast.CondLogicalExpression:
		return e.evalLogical(n)

	case *ast.CondUnary:
		return e.evalUnary(n)

	case *ast.CondBinary:
		return e.evalBinary(n)

	default:
		invariant.Invariant(false, "unsupported conditional expression kind %T", expr)
		return false, signal.Ok(0)
	}
}

func (e *Evaluator) evalLogical(n *ast.CondLogicalExpression) (bool, signal.Status) {
	l, status := e.Eval(n.Left)
	if halts(status) {
		return false, status
	}
	switch n.Op {
	case ast.CondLogAnd:
		if !l {
			return false, signal.Ok(0)
		}
		return e.Eval(n.Right)
	case ast.CondLogOr:
		if l {
			return true, signal.Ok(0)
		}
		return e.Eval(n.Right)
	default:
		invariant.Invariant(false, "unsupported conditional logical operator %v", n.Op)
		return false, signal.Ok(0)
	}
}

// word expands a CondExpr operand, which the grammar always produces
// as a *ast.CondWord leaf.
func (e *Evaluator) word(expr ast.CondExpr) (string, signal.Status) {
	w, ok := expr.(*ast.CondWord)
	invariant.Precondition(ok, "conditional operand must be a word, got %T", expr)
	return e.Expander.ExpandCondWord(e.GoCtx, e.Sc, w.Value)
}

func (e *Evaluator) evalUnary(n *ast.CondUnary) (bool, signal.Status) {
	v, status := e.word(n.Operand)
	if halts(status) {
		return false, status
	}

	switch n.Op {
	case ast.CondUnaryStrEmpty:
		return v == "", signal.Ok(0)
	case ast.CondUnaryStrNonEmpty:
		return v != "", signal.Ok(0)
	case ast.CondUnaryVarBound:
		_, bound := e.Sc.Get(v)
		return bound, signal.Ok(0)
	}

	op, ok := unaryFileOps[n.Op]
	invariant.Invariant(ok, "unsupported conditional unary operator %v", n.Op)
	return e.testPath(v, op, "")
}

var unaryFileOps = map[ast.CondUnaryOp]host.PathTestOp{
	ast.CondUnaryExists:       host.OpExists,
	ast.CondUnaryRegularFile:  host.OpRegularFile,
	ast.CondUnaryDirectory:    host.OpDirectory,
	ast.CondUnaryReadable:     host.OpReadable,
	ast.CondUnaryWritable:     host.OpWritable,
	ast.CondUnaryExecutable:   host.OpExecutable,
	ast.CondUnaryNonEmptyFile: host.OpNonEmpty,
	ast.CondUnarySymlink:      host.OpSymlink,
	ast.CondUnarySymlinkH:     host.OpSymlink,
	ast.CondUnaryBlockDevice:  host.OpBlockDevice,
	ast.CondUnaryCharDevice:   host.OpCharDevice,
	ast.CondUnaryNamedPipe:    host.OpNamedPipe,
	ast.CondUnarySocket:       host.OpSocket,
	ast.CondUnarySetgid:       host.OpSetgid,
	ast.CondUnarySetuid:       host.OpSetuid,
	ast.CondUnarySticky:       host.OpSticky,
	ast.CondUnaryOwnedByEUID:  host.OpOwnedByEUID,
	ast.CondUnaryOwnedByEGID:  host.OpOwnedByEGID,
	ast.CondUnaryModifiedSLR:  host.OpModifiedSinceLastRead,
	ast.CondUnaryIsTerminal:   host.OpFDIsTerminal,
}

var binaryFileOps = map[ast.CondBinaryOp]host.PathTestOp{
	ast.CondBinNewerThan: host.OpNewerThan,
	ast.CondBinOlderThan: host.OpOlderThan,
	ast.CondBinSameFile:  host.OpSameDeviceAndInode,
}

func (e *Evaluator) testPath(path string, op host.PathTestOp, path2 string) (bool, signal.Status) {
	tester, ok := e.Host.(host.PathTester)
	if !ok {
		return false, signal.Ok(0)
	}
	ok2, err := tester.TestPath(e.GoCtx, path, op, path2)
	if err != nil {
		return false, signal.Ok(0)
	}
	return ok2, signal.Ok(0)
}

func (e *Evaluator) evalBinary(n *ast.CondBinary) (bool, signal.Status) {
	l, status := e.word(n.Left)
	if halts(status) {
		return false, status
	}
	r, status := e.word(n.Right)
	if halts(status) {
		return false, status
	}

	switch n.Op {
	case ast.CondBinEq, ast.CondBinEqShort:
		return expand.MatchPattern(r, l), signal.Ok(0)
	case ast.CondBinNe:
		return !expand.MatchPattern(r, l), signal.Ok(0)
	case ast.CondBinLt:
		return l < r, signal.Ok(0)
	case ast.CondBinGt:
		return l > r, signal.Ok(0)
	case ast.CondBinRegex:
		return matchRegex(r, l), signal.Ok(0)
	case ast.CondBinNumEq, ast.CondBinNumNe, ast.CondBinNumLt, ast.CondBinNumLe, ast.CondBinNumGt, ast.CondBinNumGe:
		return evalNumericCompare(n.Op, l, r), signal.Ok(0)
	}

	op, ok := binaryFileOps[n.Op]
	invariant.Invariant(ok, "unsupported conditional binary operator %v", n.Op)
	return e.testPath(l, op, r)
}

func matchRegex(pattern, value string) bool {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(value)
}

func evalNumericCompare(op ast.CondBinaryOp, ls, rs string) bool {
	l := parseIntOrZero(ls)
	r := parseIntOrZero(rs)
	switch op {
	case ast.CondBinNumEq:
		return l == r
	case ast.CondBinNumNe:
		return l != r
	case ast.CondBinNumLt:
		return l < r
	case ast.CondBinNumLe:
		return l <= r
	case ast.CondBinNumGt:
		return l > r
	case ast.CondBinNumGe:
		return l >= r
	default:
		invariant.Invariant(false, "unsupported conditional numeric operator %v", op)
		return false
	}
}

func parseIntOrZero(s string) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return v
}
