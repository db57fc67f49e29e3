package builtin

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColonAlwaysSucceeds(t *testing.T) {
	bc, _ := newCtx(nil)
	all := All()
	fn, ok := all.Lookup(":")
	assert.True(t, ok)
	assert.Equal(t, 0, fn(bc, []string{"ignored", "args"}).Status.Code)
}

func TestTrueAliasesColon(t *testing.T) {
	all := All()
	bc, _ := newCtx(nil)
	fn, _ := all.Lookup("true")
	assert.Equal(t, 0, fn(bc, nil).Status.Code)
}

func TestFalseAlwaysFails(t *testing.T) {
	all := All()
	bc, _ := newCtx(nil)
	fn, _ := all.Lookup("false")
	assert.Equal(t, 1, fn(bc, nil).Status.Code)
}
