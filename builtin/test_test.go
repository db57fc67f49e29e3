package builtin

import (
	"testing"

	"github.com/shellwalk/shellcore/internal/testhost"
	"github.com/stretchr/testify/assert"
)

func TestTestStringNonEmptyIsTrue(t *testing.T) {
	bc, _ := newCtx(nil)
	result := testBuiltin(bc, []string{"nonempty"})
	assert.Equal(t, 0, result.Status.Code)
}

func TestTestStringEmptyIsFalse(t *testing.T) {
	bc, _ := newCtx(nil)
	result := testBuiltin(bc, []string{""})
	assert.Equal(t, 1, result.Status.Code)
}

func TestTestDashZAndDashN(t *testing.T) {
	bc, _ := newCtx(nil)
	assert.Equal(t, 0, testBuiltin(bc, []string{"-z", ""}).Status.Code)
	assert.Equal(t, 1, testBuiltin(bc, []string{"-n", ""}).Status.Code)
}

func TestTestStringEquality(t *testing.T) {
	bc, _ := newCtx(nil)
	assert.Equal(t, 0, testBuiltin(bc, []string{"abc", "=", "abc"}).Status.Code)
	assert.Equal(t, 1, testBuiltin(bc, []string{"abc", "!=", "abc"}).Status.Code)
}

func TestTestNumericComparison(t *testing.T) {
	bc, _ := newCtx(nil)
	assert.Equal(t, 0, testBuiltin(bc, []string{"3", "-lt", "10"}).Status.Code)
	assert.Equal(t, 1, testBuiltin(bc, []string{"3", "-gt", "10"}).Status.Code)
}

func TestTestRegexMatch(t *testing.T) {
	bc, _ := newCtx(nil)
	result := testBuiltin(bc, []string{"hello123", "=~", "^[a-z]+[0-9]+$"})
	assert.Equal(t, 0, result.Status.Code)
}

func TestTestAndOrPrecedence(t *testing.T) {
	bc, _ := newCtx(nil)
	// -a binds tighter than -o: "" -a "" -o nonempty == (empty-and-empty) -o nonempty == true
	result := testBuiltin(bc, []string{"", "-a", "", "-o", "x"})
	assert.Equal(t, 0, result.Status.Code)
}

func TestTestNegation(t *testing.T) {
	bc, _ := newCtx(nil)
	result := testBuiltin(bc, []string{"!", "", "=", "x"})
	assert.Equal(t, 0, result.Status.Code)
}

func TestTestParenGrouping(t *testing.T) {
	bc, _ := newCtx(nil)
	result := testBuiltin(bc, []string{"(", "x", "=", "x", ")"})
	assert.Equal(t, 0, result.Status.Code)
}

func TestTestDashVChecksBoundParam(t *testing.T) {
	bc, sc := newCtx(nil)
	_ = sc.SetParam("FOO", "bar")
	assert.Equal(t, 0, testBuiltin(bc, []string{"-v", "FOO"}).Status.Code)
	assert.Equal(t, 1, testBuiltin(bc, []string{"-v", "MISSING"}).Status.Code)
}

func TestTestDashFChecksRegularFile(t *testing.T) {
	h := testhost.New().WithFile("/tmp/a.txt", "hi")
	bc, _ := newCtx(h)
	assert.Equal(t, 0, testBuiltin(bc, []string{"-f", "/tmp/a.txt"}).Status.Code)
	assert.Equal(t, 1, testBuiltin(bc, []string{"-f", "/tmp/missing"}).Status.Code)
}

func TestTestWithNoArgsIsFalse(t *testing.T) {
	bc, _ := newCtx(nil)
	result := testBuiltin(bc, nil)
	assert.Equal(t, 1, result.Status.Code)
}

func TestBracketRequiresClosingBracket(t *testing.T) {
	bc, _ := newCtx(nil)
	result := bracketBuiltin(bc, []string{"x"})
	assert.Equal(t, 2, result.Status.Code)
}

func TestBracketStripsClosingBracketBeforeEvaluating(t *testing.T) {
	bc, _ := newCtx(nil)
	result := bracketBuiltin(bc, []string{"x", "=", "x", "]"})
	assert.Equal(t, 0, result.Status.Code)
}
