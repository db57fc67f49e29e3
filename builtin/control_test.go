package builtin

import (
	"testing"

	"github.com/shellwalk/shellcore/signal"
	"github.com/stretchr/testify/assert"
)

func TestExitWithExplicitCode(t *testing.T) {
	bc, _ := newCtx(nil)
	result := exitBuiltin(bc, []string{"3"})
	assert.Equal(t, signal.Exit(3), result.Status)
}

func TestExitWithNoArgsUsesLastStatus(t *testing.T) {
	bc, sc := newCtx(nil)
	_ = sc.SetParam("?", "9")
	result := exitBuiltin(bc, nil)
	assert.Equal(t, signal.Exit(9), result.Status)
}

func TestExitWithNonNumericArgYields2(t *testing.T) {
	bc, _ := newCtx(nil)
	result := exitBuiltin(bc, []string{"nope"})
	assert.Equal(t, signal.Exit(2), result.Status)
}

func TestReturnWithExplicitCode(t *testing.T) {
	bc, _ := newCtx(nil)
	result := returnBuiltin(bc, []string{"5"})
	assert.Equal(t, signal.Return(5), result.Status)
}

func TestShiftDefaultsToOne(t *testing.T) {
	bc, sc := newCtx(nil)
	_ = sc.SetParam("1", "a")
	_ = sc.SetParam("2", "b")
	_ = sc.SetParam("3", "c")
	_ = sc.SetParam("#", "3")

	result := shiftBuiltin(bc, nil)
	assert.Equal(t, 0, result.Status.Code)

	one, _ := sc.GetParam("1")
	two, _ := sc.GetParam("2")
	_, threeStillSet := sc.GetParam("3")
	count, _ := sc.GetParam("#")
	assert.Equal(t, "b", one)
	assert.Equal(t, "c", two)
	assert.False(t, threeStillSet)
	assert.Equal(t, "2", count)
}

func TestShiftWithExplicitCount(t *testing.T) {
	bc, sc := newCtx(nil)
	_ = sc.SetParam("1", "a")
	_ = sc.SetParam("2", "b")
	_ = sc.SetParam("3", "c")
	_ = sc.SetParam("#", "3")

	shiftBuiltin(bc, []string{"2"})
	one, _ := sc.GetParam("1")
	count, _ := sc.GetParam("#")
	assert.Equal(t, "c", one)
	assert.Equal(t, "1", count)
}

func TestShiftPastCountFails(t *testing.T) {
	bc, sc := newCtx(nil)
	_ = sc.SetParam("#", "2")
	result := shiftBuiltin(bc, []string{"5"})
	assert.Equal(t, 1, result.Status.Code)
}

func TestShiftWithNegativeCountFails(t *testing.T) {
	bc, _ := newCtx(nil)
	result := shiftBuiltin(bc, []string{"-1"})
	assert.Equal(t, 1, result.Status.Code)
}
