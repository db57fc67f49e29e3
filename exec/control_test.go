package exec

import (
	"context"
	"testing"

	"github.com/shellwalk/shellcore/ast"
	"github.com/shellwalk/shellcore/shellcontext"
	"github.com/shellwalk/shellcore/signal"
	"github.com/stretchr/testify/assert"
)

func compound(nodes ...ast.Node) *ast.CompoundList {
	return &ast.CompoundList{Commands: nodes}
}

func TestIfRunsThenOnZeroClause(t *testing.T) {
	h := newMemHost()
	e := newTestEngine(h)
	sc := shellcontext.NewRoot("/tmp")

	n := &ast.If{Clause: cmd("true"), Then: compound(cmd("false")), Else: compound(cmd("true"))}
	status := e.executeNode(context.Background(), sc, n)
	assert.Equal(t, 1, status.Code)
}

func TestIfRunsElseOnNonZeroClause(t *testing.T) {
	h := newMemHost()
	e := newTestEngine(h)
	sc := shellcontext.NewRoot("/tmp")

	n := &ast.If{Clause: cmd("false"), Then: compound(cmd("false")), Else: compound(cmd("true"))}
	status := e.executeNode(context.Background(), sc, n)
	assert.Equal(t, 0, status.Code)
}

func TestIfWithNoElseAndFailingClauseYieldsZero(t *testing.T) {
	h := newMemHost()
	e := newTestEngine(h)
	sc := shellcontext.NewRoot("/tmp")

	n := &ast.If{Clause: cmd("false"), Then: compound(cmd("false"))}
	status := e.executeNode(context.Background(), sc, n)
	assert.Equal(t, 0, status.Code)
}

func TestWhileLoopBreaksOut(t *testing.T) {
	h := newMemHost()
	iterations := 0
	reg := registryMap{
		"tick": func(bc *BuiltinContext, args []string) BuiltinResult {
			iterations++
			return BuiltinResult{Status: signal.Ok(0)}
		},
	}
	e := NewEngine(h, reg, Config{})
	sc := shellcontext.NewRoot("/tmp")

	body := compound(cmd("tick"), cmd("break"))
	n := &ast.While{Clause: cmd("true"), Body: body}
	status := e.executeNode(context.Background(), sc, n)
	assert.Equal(t, 0, status.Code)
	assert.Equal(t, 1, iterations, "break must stop after the first iteration")
}

func TestUntilLoopRunsWhileClauseIsNonZero(t *testing.T) {
	h := newMemHost()
	e := newTestEngine(h)
	sc := shellcontext.NewRoot("/tmp")

	n := &ast.Until{Clause: cmd("true"), Body: compound(cmd("false"))}
	status := e.executeNode(context.Background(), sc, n)
	assert.Equal(t, 0, status.Code, "clause already true means the loop body never runs")
}

func TestForLoopLeaksVariableToCallerScope(t *testing.T) {
	h := newMemHost()
	e := newTestEngine(h)
	sc := shellcontext.NewRoot("/tmp")

	n := &ast.For{
		Variable: "i",
		Words:    []ast.Word{lit("a"), lit("b"), lit("c")},
		Body:     compound(cmd("true")),
	}
	status := e.executeNode(context.Background(), sc, n)
	assert.Equal(t, 0, status.Code)

	v, ok := sc.GetParam("i")
	assert.True(t, ok)
	assert.Equal(t, "c", v, "the loop variable is left bound to its final value")
}

func TestCaseMatchesFirstPatternWithNoFallthrough(t *testing.T) {
	h := newMemHost()
	e := newTestEngine(h)
	sc := shellcontext.NewRoot("/tmp")

	n := &ast.Case{
		Word: lit("hello.txt"),
		Items: []ast.CaseItem{
			{Patterns: []ast.Word{lit("*.md")}, Body: compound(cmd("false"))},
			{Patterns: []ast.Word{lit("*.txt"), lit("*.log")}, Body: compound(cmd("true"))},
			{Patterns: []ast.Word{lit("*")}, Body: compound(cmd("false"))},
		},
	}
	status := e.executeNode(context.Background(), sc, n)
	assert.Equal(t, 0, status.Code)
}

func TestCaseWithNoMatchYieldsZero(t *testing.T) {
	h := newMemHost()
	e := newTestEngine(h)
	sc := shellcontext.NewRoot("/tmp")

	n := &ast.Case{
		Word:  lit("hello.txt"),
		Items: []ast.CaseItem{{Patterns: []ast.Word{lit("*.md")}, Body: compound(cmd("false"))}},
	}
	status := e.executeNode(context.Background(), sc, n)
	assert.Equal(t, 0, status.Code)
}
