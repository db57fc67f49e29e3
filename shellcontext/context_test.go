package shellcontext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChildInheritsParentParams(t *testing.T) {
	t.Parallel()

	root := NewRoot("/tmp")
	root.SetParam("FOO", "bar")

	child := root.Child()
	v, ok := child.GetParam("FOO")
	assert.True(t, ok)
	assert.Equal(t, "bar", v)
}

func TestLocalWriteDoesNotLeakToParent(t *testing.T) {
	t.Parallel()

	root := NewRoot("/tmp")
	root.SetParam("FOO", "outer")

	child := root.Child()
	child.SetLocalParam("FOO", "inner")

	v, _ := child.GetParam("FOO")
	assert.Equal(t, "inner", v)

	v, _ = root.GetParam("FOO")
	assert.Equal(t, "outer", v)
}

func TestPlainWriteInChildUpdatesOwningAncestor(t *testing.T) {
	t.Parallel()

	root := NewRoot("/tmp")
	root.SetParam("FOO", "outer")

	child := root.Child()
	child.SetParam("FOO", "updated")

	v, _ := root.GetParam("FOO")
	assert.Equal(t, "updated", v, "a plain write from a child finds the owning ancestor frame")
}

func TestPlainWriteWithNoOwnerLandsAtWriteRoot(t *testing.T) {
	t.Parallel()

	root := NewRoot("/tmp")
	child := root.Child()
	grandchild := child.Child()

	grandchild.SetParam("NEW", "value")

	v, ok := root.GetParam("NEW")
	assert.True(t, ok)
	assert.Equal(t, "value", v)
}

func TestUnsetTombstoneHidesAncestorValue(t *testing.T) {
	t.Parallel()

	root := NewRoot("/tmp")
	root.SetParam("FOO", "outer")

	child := root.Child()
	child.UnsetParam("FOO")

	_, ok := child.GetParam("FOO")
	assert.False(t, ok)

	v, ok := root.GetParam("FOO")
	assert.True(t, ok)
	assert.Equal(t, "outer", v, "unset from a child must not delete the ancestor's binding")
}

func TestSubshellIsolationBlocksWritePropagation(t *testing.T) {
	t.Parallel()

	root := NewRoot("/tmp")
	root.SetParam("FOO", "outer")

	sub := root.ChildIsolated()
	v, ok := sub.GetParam("FOO")
	assert.True(t, ok, "subshell reads still see ambient state")
	assert.Equal(t, "outer", v)

	sub.SetParam("FOO", "changed-in-subshell")
	sub.SetParam("NEW", "only-in-subshell")

	v, _ = root.GetParam("FOO")
	assert.Equal(t, "outer", v, "writes inside a subshell never escape it")

	_, ok = root.GetParam("NEW")
	assert.False(t, ok)
}

func TestSubshellIsolationSeedsCwdAndDirStackSnapshot(t *testing.T) {
	t.Parallel()

	root := NewRoot("/a")
	root.PushDir("/b")

	sub := root.ChildIsolated()
	assert.Equal(t, "/b", sub.Cwd())
	assert.Equal(t, []string{"/a"}, sub.DirStack())

	sub.SetCwd("/c")
	assert.Equal(t, "/b", root.Cwd(), "cwd changes inside a subshell do not leak to the parent")
}

func TestReadonlyRejectsWrite(t *testing.T) {
	t.Parallel()

	root := NewRoot("/tmp")
	root.SetParam("FOO", "bar")
	root.MarkReadonly("FOO")

	err := root.SetParam("FOO", "changed")
	assert.Error(t, err)

	var roErr *ReadonlyError
	assert.ErrorAs(t, err, &roErr)
	assert.Equal(t, "FOO", roErr.Name)

	v, _ := root.GetParam("FOO")
	assert.Equal(t, "bar", v, "a rejected write leaves state unchanged")
}

func TestExportPromotesParamIntoEnv(t *testing.T) {
	t.Parallel()

	root := NewRoot("/tmp")
	root.SetParam("FOO", "bar")

	err := root.Export("FOO", "", false)
	assert.NoError(t, err)

	_, ok := root.GetParam("FOO")
	assert.False(t, ok, "export removes the plain-params binding")

	v, ok := root.GetEnv("FOO")
	assert.True(t, ok)
	assert.Equal(t, "bar", v)
}

func TestExportWithValueOverridesCurrent(t *testing.T) {
	t.Parallel()

	root := NewRoot("/tmp")
	root.SetParam("FOO", "bar")

	err := root.Export("FOO", "baz", true)
	assert.NoError(t, err)

	v, _ := root.GetEnv("FOO")
	assert.Equal(t, "baz", v)
}

func TestUnexportMovesEnvBackToParams(t *testing.T) {
	t.Parallel()

	root := NewRoot("/tmp")
	root.SetEnv("FOO", "bar")

	err := root.Unexport("FOO")
	assert.NoError(t, err)

	_, ok := root.GetEnv("FOO")
	assert.False(t, ok)

	v, ok := root.GetParam("FOO")
	assert.True(t, ok)
	assert.Equal(t, "bar", v)
}

func TestGetPrefersParamsOverEnvOnCollision(t *testing.T) {
	t.Parallel()

	root := NewRoot("/tmp")
	root.SetEnv("FOO", "from-env")
	root.SetParam("FOO", "from-params")

	v, ok := root.Get("FOO")
	assert.True(t, ok)
	assert.Equal(t, "from-params", v)
}

func TestFunctionsAndAliasesAreAmbient(t *testing.T) {
	t.Parallel()

	root := NewRoot("/tmp")
	root.SetFunction(FunctionDef{Name: "greet", Body: "echo hi"})
	root.SetAlias("ll", "ls -l")

	child := root.Child().Child()

	def, ok := child.GetFunction("greet")
	assert.True(t, ok)
	assert.Equal(t, "echo hi", def.Body)

	alias, ok := child.GetAlias("ll")
	assert.True(t, ok)
	assert.Equal(t, "ls -l", alias)
}

func TestPushdPopdRoundTrip(t *testing.T) {
	t.Parallel()

	root := NewRoot("/a")
	root.PushDir("/b")
	root.PushDir("/c")

	assert.Equal(t, "/c", root.Cwd())
	assert.Equal(t, []string{"/b", "/a"}, root.DirStack())

	dir, err := root.PopDir()
	assert.NoError(t, err)
	assert.Equal(t, "/b", dir)
	assert.Equal(t, "/b", root.Cwd())
	assert.Equal(t, []string{"/a"}, root.DirStack())
}

func TestPopDirOnEmptyStackErrors(t *testing.T) {
	t.Parallel()

	root := NewRoot("/a")
	_, err := root.PopDir()
	assert.Error(t, err)
}

func TestRotateDirStack(t *testing.T) {
	t.Parallel()

	root := NewRoot("/a")
	root.PushDir("/b")
	root.PushDir("/c")

	// full = [/c, /b, /a]; rotating to index 1 brings /b to front
	err := root.RotateDirStack(1)
	assert.NoError(t, err)
	assert.Equal(t, "/b", root.Cwd())
	assert.Equal(t, []string{"/a", "/c"}, root.DirStack())
}

func TestRemoveDirAtLeavesCwdUntouched(t *testing.T) {
	t.Parallel()

	root := NewRoot("/a")
	root.PushDir("/b")
	root.PushDir("/c")

	err := root.RemoveDirAt(0)
	assert.NoError(t, err)
	assert.Equal(t, "/c", root.Cwd())
	assert.Equal(t, []string{"/a"}, root.DirStack())
}

func TestIOEndpointsInheritUntilOverridden(t *testing.T) {
	t.Parallel()

	root := NewRoot("/tmp")
	root.SetStdout(Endpoint{Name: "pipe-root"})

	child := root.Child()
	assert.Equal(t, "pipe-root", child.Stdout().Name)

	child.SetStdout(Endpoint{Name: "pipe-child", Append: true})
	assert.Equal(t, "pipe-child", child.Stdout().Name)
	assert.Equal(t, "pipe-root", root.Stdout().Name, "redirection is scoped to the frame it's applied on")
}

func TestArgRegistryIsPerContextNotInherited(t *testing.T) {
	t.Parallel()

	root := NewRoot("/tmp")
	reg := root.ArgRegistryFor()
	reg.Specs = append(reg.Specs, ArgSpec{Kind: ArgNamedOption, Name: "verbose"})

	child := root.Child()
	childReg := child.ArgRegistryFor()
	assert.Empty(t, childReg.Specs, "a child frame gets its own empty registry")

	root.ClearArgRegistry()
	assert.Empty(t, root.ArgRegistryFor().Specs)
}

func TestIntegerAttributeTracksFlagOnly(t *testing.T) {
	t.Parallel()

	root := NewRoot("/tmp")
	assert.False(t, root.IsInteger("N"))

	root.MarkInteger("N")
	assert.True(t, root.IsInteger("N"))

	root.UnmarkInteger("N")
	assert.False(t, root.IsInteger("N"))
}
