package builtin

import (
	"strconv"

	"github.com/shellwalk/shellcore/exec"
	"github.com/shellwalk/shellcore/signal"
)

func registerControl(t Table) {
	t["exit"] = exitBuiltin
	t["return"] = returnBuiltin
	t["shift"] = shiftBuiltin
}

func exitBuiltin(bc *exec.BuiltinContext, args []string) exec.BuiltinResult {
	code := exitCodeArg(bc, args)
	return exec.BuiltinResult{Status: signal.Exit(code)}
}

func returnBuiltin(bc *exec.BuiltinContext, args []string) exec.BuiltinResult {
	code := exitCodeArg(bc, args)
	return exec.BuiltinResult{Status: signal.Return(code)}
}

// exitCodeArg resolves the optional numeric argument both exit and
// return accept, falling back to the last command's status ($?) when
// absent, exactly as bash does.
func exitCodeArg(bc *exec.BuiltinContext, args []string) int {
	if len(args) > 0 {
		if n, err := strconv.Atoi(args[0]); err == nil {
			return n
		}
		return 2
	}
	if v, ok := bc.Sc.GetParam("?"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return 0
}

// shiftBuiltin implements `shift [n]`: positional parameters 1..N
// become (n+1)..N renumbered from 1, and "#" is updated to match.
func shiftBuiltin(bc *exec.BuiltinContext, args []string) exec.BuiltinResult {
	n := 1
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v < 0 {
			return exec.BuiltinResult{Status: signal.Ok(1), Stderr: "shift: bad shift count\n"}
		}
		n = v
	}

	count := 0
	if v, ok := bc.Sc.GetParam("#"); ok {
		count, _ = strconv.Atoi(v)
	}
	if n > count {
		return exec.BuiltinResult{Status: signal.Ok(1)}
	}

	values := make([]string, 0, count-n)
	for i := n + 1; i <= count; i++ {
		v, _ := bc.Sc.GetParam(strconv.Itoa(i))
		values = append(values, v)
	}
	for i := 1; i <= count; i++ {
		bc.Sc.UnsetParam(strconv.Itoa(i))
	}
	for i, v := range values {
		_ = bc.Sc.SetParam(strconv.Itoa(i+1), v)
	}
	_ = bc.Sc.SetParam("#", strconv.Itoa(len(values)))
	return exec.BuiltinResult{Status: signal.Ok(0)}
}
