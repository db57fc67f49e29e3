package builtin

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllRegistersEveryAliasName(t *testing.T) {
	all := All()
	for _, name := range []string{":", "true", "false", "echo", "printf", "cd", "pwd", "pushd", "popd", "dirs",
		"export", "unset", "local", "readonly", "declare", "typeset", "eval", "source", ".", "let", "read",
		"exit", "return", "shift", "test", "[", "set", "type", "command", "builtin", "alias", "unalias", "arg"} {
		_, ok := all.Lookup(name)
		assert.True(t, ok, "expected %q to be registered", name)
	}
}

func TestTypesetIsAnAliasForDeclare(t *testing.T) {
	bc, sc := newCtx(nil)
	all := All()
	declare, _ := all.Lookup("declare")
	typeset, _ := all.Lookup("typeset")

	declare(bc, []string{"-i", "n=1"})
	assert.True(t, sc.IsInteger("n"))

	typeset(bc, []string{"-i", "m=2"})
	assert.True(t, sc.IsInteger("m"))
}

func TestLookupMissingNameReportsFalse(t *testing.T) {
	all := All()
	_, ok := all.Lookup("nonexistent")
	assert.False(t, ok)
}
