package exec

import (
	"context"
	"testing"

	"github.com/shellwalk/shellcore/ast"
	"github.com/shellwalk/shellcore/shellcontext"
	"github.com/shellwalk/shellcore/signal"
	"github.com/stretchr/testify/assert"
)

func TestArithmeticCommandTruthyNonZero(t *testing.T) {
	h := newMemHost()
	e := newTestEngine(h)
	sc := shellcontext.NewRoot("/tmp")

	n := &ast.ArithmeticCommand{Expr: &ast.ArithNumber{Value: 3}}
	status := e.executeNode(context.Background(), sc, n)
	assert.Equal(t, 0, status.Code, "a non-zero arithmetic result is shell-true (status 0)")
}

func TestArithmeticCommandFalsyZero(t *testing.T) {
	h := newMemHost()
	e := newTestEngine(h)
	sc := shellcontext.NewRoot("/tmp")

	n := &ast.ArithmeticCommand{Expr: &ast.ArithNumber{Value: 0}}
	status := e.executeNode(context.Background(), sc, n)
	assert.Equal(t, 1, status.Code)
}

func TestArithmeticCommandAssignsIntoParams(t *testing.T) {
	h := newMemHost()
	e := newTestEngine(h)
	sc := shellcontext.NewRoot("/tmp")

	n := &ast.ArithmeticCommand{Expr: &ast.ArithAssignment{
		Name:  "x",
		Op:    ast.ArithAssign,
		Value: &ast.ArithBinary{Op: ast.ArithAdd, Left: &ast.ArithNumber{Value: 3}, Right: &ast.ArithNumber{Value: 4}},
	}}
	status := e.executeNode(context.Background(), sc, n)
	assert.Equal(t, 0, status.Code)
	v, ok := sc.GetParam("x")
	assert.True(t, ok)
	assert.Equal(t, "7", v)
}

func TestConditionalCommandStringEquality(t *testing.T) {
	h := newMemHost()
	e := newTestEngine(h)
	sc := shellcontext.NewRoot("/tmp")

	n := &ast.ConditionalCommand{Expr: &ast.CondBinary{
		Op:    ast.CondBinEq,
		Left:  &ast.CondWord{Value: lit("abc")},
		Right: &ast.CondWord{Value: lit("abc")},
	}}
	status := e.executeNode(context.Background(), sc, n)
	assert.Equal(t, 0, status.Code)
}

func TestSubshellIsolatesWrites(t *testing.T) {
	h := newMemHost()
	e := newTestEngine(h)
	sc := shellcontext.NewRoot("/tmp")
	_ = sc.SetParam("X", "outer")

	assign := &ast.Command{Assignments: []ast.AssignmentWord{{Name: "X", Value: lit("inner")}}}
	n := &ast.Subshell{List: compound(assign)}
	status := e.executeNode(context.Background(), sc, n)
	assert.Equal(t, 0, status.Code)

	v, _ := sc.GetParam("X")
	assert.Equal(t, "outer", v, "a write inside a subshell must never leak to the enclosing context")
}

func TestSubshellReadsAmbientValues(t *testing.T) {
	h := newMemHost()
	e := newTestEngine(h)
	sc := shellcontext.NewRoot("/tmp")
	_ = sc.SetParam("Y", "visible")

	reg := registryMap{}
	var seen string
	reg["peek"] = func(bc *BuiltinContext, args []string) BuiltinResult {
		seen, _ = bc.Sc.GetParam("Y")
		return BuiltinResult{Status: signal.Ok(0)}
	}
	e.Builtins = reg

	n := &ast.Subshell{List: compound(cmd("peek"))}
	_ = e.executeNode(context.Background(), sc, n)
	assert.Equal(t, "visible", seen, "a subshell still reads ambient bindings, only writes are isolated")
}
