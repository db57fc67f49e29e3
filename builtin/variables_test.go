package builtin

import (
	"testing"

	"github.com/shellwalk/shellcore/shellcontext"
	"github.com/stretchr/testify/assert"
)

func TestExportSetsEnvBinding(t *testing.T) {
	bc, sc := newCtx(nil)
	result := exportBuiltin(bc, []string{"FOO=bar"})
	assert.Equal(t, 0, result.Status.Code)

	v, ok := sc.GetEnv("FOO")
	assert.True(t, ok)
	assert.Equal(t, "bar", v)
}

func TestExportWithoutValueExportsExistingParam(t *testing.T) {
	bc, sc := newCtx(nil)
	_ = sc.SetParam("FOO", "already")
	exportBuiltin(bc, []string{"FOO"})

	v, ok := sc.GetEnv("FOO")
	assert.True(t, ok)
	assert.Equal(t, "already", v)
}

func TestExportDashNUnexports(t *testing.T) {
	bc, sc := newCtx(nil)
	exportBuiltin(bc, []string{"FOO=bar"})
	exportBuiltin(bc, []string{"-n", "FOO"})

	_, ok := sc.GetEnv("FOO")
	assert.False(t, ok)
}

func TestExportWithNoArgsPrintsDeclareDashX(t *testing.T) {
	bc, _ := newCtx(nil)
	exportBuiltin(bc, []string{"FOO=bar"})
	result := exportBuiltin(bc, nil)
	assert.Contains(t, result.Stdout, `declare -x FOO="bar"`)
}

func TestUnsetRemovesParam(t *testing.T) {
	bc, sc := newCtx(nil)
	_ = sc.SetParam("FOO", "bar")
	unsetBuiltin(bc, []string{"FOO"})

	_, ok := sc.GetParam("FOO")
	assert.False(t, ok)
}

func TestUnsetDashFTargetsFunctionOnly(t *testing.T) {
	bc, sc := newCtx(nil)
	sc.SetFunction(shellcontext.FunctionDef{Name: "greet"})
	unsetBuiltin(bc, []string{"-f", "greet"})

	_, ok := sc.GetFunction("greet")
	assert.False(t, ok)
}

func TestUnsetPrefersFunctionWhenNameIsBothFunctionAndVar(t *testing.T) {
	bc, sc := newCtx(nil)
	_ = sc.SetParam("greet", "val")
	sc.SetFunction(shellcontext.FunctionDef{Name: "greet"})
	unsetBuiltin(bc, []string{"greet"})

	_, fnOk := sc.GetFunction("greet")
	_, varOk := sc.GetParam("greet")
	assert.False(t, fnOk)
	assert.True(t, varOk, "unset without -v/-f only targets the function when both exist")
}

func TestLocalSetsParamInCurrentFrame(t *testing.T) {
	bc, sc := newCtx(nil)
	result := localBuiltin(bc, []string{"x=1"})
	assert.Equal(t, 0, result.Status.Code)

	v, ok := sc.GetParam("x")
	assert.True(t, ok)
	assert.Equal(t, "1", v)
}

func TestReadonlyMarksParamReadonly(t *testing.T) {
	bc, sc := newCtx(nil)
	readonlyBuiltin(bc, []string{"x=1"})
	assert.True(t, sc.IsReadonly("x"))
}

func TestDeclareDashIMarksInteger(t *testing.T) {
	bc, sc := newCtx(nil)
	declareBuiltin(bc, []string{"-i", "n=5"})
	assert.True(t, sc.IsInteger("n"))
}

func TestDeclarePlusRRemovesReadonly(t *testing.T) {
	bc, sc := newCtx(nil)
	declareBuiltin(bc, []string{"-r", "x=1"})
	declareBuiltin(bc, []string{"+r", "x"})
	assert.False(t, sc.IsReadonly("x"))
}

func TestDeclareDashPPrintsOneBinding(t *testing.T) {
	bc, _ := newCtx(nil)
	declareBuiltin(bc, []string{"x=1"})
	result := declareBuiltin(bc, []string{"-p", "x"})
	assert.Contains(t, result.Stdout, `declare - x="1"`)
}

func TestDeclareDashFListsFunctionNames(t *testing.T) {
	bc, sc := newCtx(nil)
	sc.SetFunction(shellcontext.FunctionDef{Name: "greet"})
	result := declareBuiltin(bc, []string{"-F"})
	assert.Equal(t, "declare -f greet\n", result.Stdout)
}
