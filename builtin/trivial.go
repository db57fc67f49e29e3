package builtin

import (
	"github.com/shellwalk/shellcore/exec"
	"github.com/shellwalk/shellcore/signal"
)

func registerTrivial(t Table) {
	t[":"] = func(bc *exec.BuiltinContext, args []string) exec.BuiltinResult {
		return exec.BuiltinResult{Status: signal.Ok(0)}
	}
	t["true"] = t[":"]
	t["false"] = func(bc *exec.BuiltinContext, args []string) exec.BuiltinResult {
		return exec.BuiltinResult{Status: signal.Ok(1)}
	}
}
