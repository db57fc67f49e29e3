package expand

import (
	"context"
	"testing"

	"github.com/shellwalk/shellcore/ast"
	"github.com/shellwalk/shellcore/shellcontext"
	"github.com/shellwalk/shellcore/signal"
	"github.com/stretchr/testify/assert"
)

type noopRunner struct{}

func (noopRunner) RunCapture(sc *shellcontext.Context, node ast.Node) (string, signal.Status) {
	return "", signal.Ok(0)
}

func newExpander() *Expander {
	return &Expander{Host: nil, Runner: noopRunner{}}
}

func paramWord(text string, paramStart, paramEnd int, name string) ast.Word {
	return ast.Word{
		Text: text,
		Expansions: []ast.Expansion{
			{Kind: ast.ExpParameter, Start: paramStart, End: paramEnd, Parameter: name},
		},
	}
}

func TestExpandPlainLiteral(t *testing.T) {
	t.Parallel()

	e := newExpander()
	sc := shellcontext.NewRoot("/tmp")
	fields, status := e.Expand(context.Background(), sc, ast.Word{Text: "hello"})
	assert.Equal(t, signal.Ok(0), status)
	assert.Equal(t, []string{"hello"}, fields)
}

func TestExpandUnquotedParameterSplits(t *testing.T) {
	t.Parallel()

	e := newExpander()
	sc := shellcontext.NewRoot("/tmp")
	sc.SetParam("X", "a b")

	w := paramWord("$X", 0, 2, "X")
	fields, status := e.Expand(context.Background(), sc, w)
	assert.Equal(t, signal.Ok(0), status)
	assert.Equal(t, []string{"a", "b"}, fields)
}

func TestExpandQuotedParameterDoesNotSplit(t *testing.T) {
	t.Parallel()

	e := newExpander()
	sc := shellcontext.NewRoot("/tmp")
	sc.SetParam("X", "a b")

	w := paramWord(`"$X"`, 1, 3, "X")
	fields, status := e.Expand(context.Background(), sc, w)
	assert.Equal(t, signal.Ok(0), status)
	assert.Equal(t, []string{"a b"}, fields)
}

func TestExpandUnknownParameterIsEmpty(t *testing.T) {
	t.Parallel()

	e := newExpander()
	sc := shellcontext.NewRoot("/tmp")

	w := paramWord("$NOPE", 0, 5, "NOPE")
	fields, status := e.Expand(context.Background(), sc, w)
	assert.Equal(t, signal.Ok(0), status)
	assert.Empty(t, fields, "unquoted empty expansion yields zero argv entries")
}

func TestExpandEmptyQuotedStringYieldsOneEmptyField(t *testing.T) {
	t.Parallel()

	e := newExpander()
	sc := shellcontext.NewRoot("/tmp")

	fields, status := e.Expand(context.Background(), sc, ast.Word{Text: `""`})
	assert.Equal(t, signal.Ok(0), status)
	assert.Equal(t, []string{""}, fields)
}

func TestExpandSingleQuotedLiteralKeepsContent(t *testing.T) {
	t.Parallel()

	e := newExpander()
	sc := shellcontext.NewRoot("/tmp")

	fields, status := e.Expand(context.Background(), sc, ast.Word{Text: `'a $X b'`})
	assert.Equal(t, signal.Ok(0), status)
	assert.Equal(t, []string{"a $X b"}, fields)
}

func TestExpandCondWordDoesNotSplit(t *testing.T) {
	t.Parallel()

	e := newExpander()
	sc := shellcontext.NewRoot("/tmp")
	sc.SetParam("X", "a b")

	w := paramWord("$X", 0, 2, "X")
	v, status := e.ExpandCondWord(context.Background(), sc, w)
	assert.Equal(t, signal.Ok(0), status)
	assert.Equal(t, "a b", v)
}

func TestExpandArithmetic(t *testing.T) {
	t.Parallel()

	e := newExpander()
	sc := shellcontext.NewRoot("/tmp")

	w := ast.Word{
		Text: "$((1+2))",
		Expansions: []ast.Expansion{
			{
				Kind:  ast.ExpArithmetic,
				Start: 0,
				End:   len("$((1+2))"),
				Arithmetic: &ast.ArithBinary{
					Op:    ast.ArithAdd,
					Left:  &ast.ArithNumber{Value: 1},
					Right: &ast.ArithNumber{Value: 2},
				},
			},
		},
	}
	fields, status := e.Expand(context.Background(), sc, w)
	assert.Equal(t, signal.Ok(0), status)
	assert.Equal(t, []string{"3"}, fields)
}

type commandSubRunner struct {
	out    string
	status signal.Status
}

func (r commandSubRunner) RunCapture(sc *shellcontext.Context, node ast.Node) (string, signal.Status) {
	return r.out, r.status
}

func TestExpandCommandSubstitutionStripsTrailingNewlines(t *testing.T) {
	t.Parallel()

	e := &Expander{Runner: commandSubRunner{out: "hello\n\n", status: signal.Ok(0)}}
	sc := shellcontext.NewRoot("/tmp")

	w := ast.Word{
		Text: "$(cmd)",
		Expansions: []ast.Expansion{
			{Kind: ast.ExpCommand, Start: 0, End: 6, Command: &ast.Command{}},
		},
	}
	fields, status := e.Expand(context.Background(), sc, w)
	assert.Equal(t, signal.Ok(0), status)
	assert.Equal(t, []string{"hello"}, fields)
}

func TestExpandCommandSubstitutionNonZeroHaltsExpansion(t *testing.T) {
	t.Parallel()

	e := &Expander{Runner: commandSubRunner{out: "partial", status: signal.Ok(3)}}
	sc := shellcontext.NewRoot("/tmp")

	w := ast.Word{
		Text: "$(cmd)",
		Expansions: []ast.Expansion{
			{Kind: ast.ExpCommand, Start: 0, End: 6, Command: &ast.Command{}},
		},
	}
	_, status := e.Expand(context.Background(), sc, w)
	assert.Equal(t, signal.Ok(3), status)
}

func TestMatchPatternGlob(t *testing.T) {
	t.Parallel()

	assert.True(t, MatchPattern("*.txt", "a.txt"))
	assert.False(t, MatchPattern("*.txt", "a.sh"))
	assert.True(t, MatchPattern("file.?sh", "file.bsh"))
}
