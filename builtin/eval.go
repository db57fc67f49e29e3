package builtin

import (
	"fmt"
	"strings"

	"github.com/shellwalk/shellcore/exec"
	"github.com/shellwalk/shellcore/host"
	"github.com/shellwalk/shellcore/signal"
)

func registerEval(t Table) {
	t["eval"] = evalBuiltin
	t["source"] = sourceBuiltin
	t["."] = sourceBuiltin
	t["let"] = letBuiltin
}

// evalBuiltin implements `eval args...`: the args are joined with
// spaces and fed back through the parser+executor against the
// caller's own context, per §4.5.
func evalBuiltin(bc *exec.BuiltinContext, args []string) exec.BuiltinResult {
	status := bc.Run(bc.Sc, strings.Join(args, " "))
	return exec.BuiltinResult{Status: status}
}

// sourceBuiltin implements `source file`/`. file`: the host reads the
// file's text (host.FileReader) and it is fed back through the parser
// +executor against the caller's own context.
func sourceBuiltin(bc *exec.BuiltinContext, args []string) exec.BuiltinResult {
	if len(args) == 0 {
		return exec.BuiltinResult{Status: signal.Ok(2), Stderr: "source: filename argument required\n"}
	}
	reader, ok := bc.Host.(host.FileReader)
	if !ok {
		return exec.BuiltinResult{Status: signal.Ok(1), Stderr: "source: host does not support reading files\n"}
	}
	text, err := reader.ReadFile(bc.GoCtx, args[0])
	if err != nil {
		return exec.BuiltinResult{Status: signal.Ok(1), Stderr: fmt.Sprintf("source: %s: %v\n", args[0], err)}
	}
	status := bc.Run(bc.Sc, text)
	return exec.BuiltinResult{Status: status}
}

// letBuiltin implements `let expr...`: each argument is an arithmetic
// expression (bash's sugar `let "a = b"` == `(( a = b ))`), evaluated
// in source order via the same run-string callback eval/source use,
// since parsing an arithmetic expression is the parser's job, not
// this package's. Status is 0 iff the last expression is nonzero.
func letBuiltin(bc *exec.BuiltinContext, args []string) exec.BuiltinResult {
	if len(args) == 0 {
		return exec.BuiltinResult{Status: signal.Ok(2), Stderr: "let: usage: let expr [expr...]\n"}
	}
	var last signal.Status
	for _, a := range args {
		last = bc.Run(bc.Sc, "(( "+a+" ))")
		if last.IsSignal() {
			return exec.BuiltinResult{Status: last}
		}
	}
	return exec.BuiltinResult{Status: last}
}
