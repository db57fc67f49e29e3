package builtin

import (
	"context"
	"testing"

	"github.com/shellwalk/shellcore/exec"
	"github.com/shellwalk/shellcore/internal/testhost"
	"github.com/stretchr/testify/assert"
)

func stdinPipe(t *testing.T, bc *exec.BuiltinContext, h *testhost.Host, line string) {
	t.Helper()
	pipe, err := h.PipeOpen(context.Background())
	assert.NoError(t, err)
	assert.NoError(t, h.PipeWrite(context.Background(), pipe, line))
	assert.NoError(t, h.PipeClose(context.Background(), pipe))
	bc.Stdin = pipe
}

func TestReadSplitsLineIntoNamesOnIFS(t *testing.T) {
	h := testhost.New()
	bc, sc := newCtx(h)
	stdinPipe(t, bc, h, "alice 30\n")

	result := readBuiltin(bc, []string{"name", "age"})
	assert.Equal(t, 0, result.Status.Code)

	name, _ := sc.GetParam("name")
	age, _ := sc.GetParam("age")
	assert.Equal(t, "alice", name)
	assert.Equal(t, "30", age)
}

func TestReadWithNoNamesUsesReply(t *testing.T) {
	h := testhost.New()
	bc, sc := newCtx(h)
	stdinPipe(t, bc, h, "hello world\n")

	readBuiltin(bc, nil)
	reply, ok := sc.GetParam("REPLY")
	assert.True(t, ok)
	assert.Equal(t, "hello world", reply)
}

func TestReadLastNameAbsorbsRemainder(t *testing.T) {
	h := testhost.New()
	bc, sc := newCtx(h)
	stdinPipe(t, bc, h, "one two three four\n")

	readBuiltin(bc, []string{"a", "rest"})
	a, _ := sc.GetParam("a")
	rest, _ := sc.GetParam("rest")
	assert.Equal(t, "one", a)
	assert.Equal(t, "two three four", rest)
}

func TestReadDashDUsesCustomDelimiter(t *testing.T) {
	h := testhost.New()
	bc, sc := newCtx(h)
	stdinPipe(t, bc, h, "a:b:c\n")

	readBuiltin(bc, []string{"-d", ":", "x", "y"})
	x, _ := sc.GetParam("x")
	y, _ := sc.GetParam("y")
	assert.Equal(t, "a", x)
	assert.Equal(t, "b:c", y)
}

func TestReadWithoutStdinFails(t *testing.T) {
	bc, _ := newCtx(nil)
	result := readBuiltin(bc, nil)
	assert.Equal(t, 1, result.Status.Code)
}

func TestReadEmptyLineReturnsFailureStatus(t *testing.T) {
	h := testhost.New()
	bc, _ := newCtx(h)
	stdinPipe(t, bc, h, "")

	result := readBuiltin(bc, nil)
	assert.Equal(t, 1, result.Status.Code)
}

func TestReadDashNTruncatesToNChars(t *testing.T) {
	h := testhost.New()
	bc, sc := newCtx(h)
	stdinPipe(t, bc, h, "abcdef\n")

	readBuiltin(bc, []string{"-n", "3"})
	reply, _ := sc.GetParam("REPLY")
	assert.Equal(t, "abc", reply)
}
