package builtin

import (
	"strings"

	"github.com/shellwalk/shellcore/exec"
	"github.com/shellwalk/shellcore/signal"
)

func registerOutput(t Table) {
	t["echo"] = echoBuiltin
	t["printf"] = printfBuiltin
}

// echoBuiltin implements `echo -n -e -E ...args`: -n suppresses the
// trailing newline, -e turns on backslash-escape interpretation
// (default off), -E forces it back off.
func echoBuiltin(bc *exec.BuiltinContext, args []string) exec.BuiltinResult {
	noNewline := false
	escapes := false

	i := 0
	for i < len(args) {
		a := args[i]
		if len(a) < 2 || a[0] != '-' || !isAllFlagChars(a[1:], "neE") {
			break
		}
		for _, f := range a[1:] {
			switch f {
			case 'n':
				noNewline = true
			case 'e':
				escapes = true
			case 'E':
				escapes = false
			}
		}
		i++
	}

	parts := args[i:]
	if escapes {
		for k, p := range parts {
			parts[k] = interpretEscapes(p)
		}
	}
	out := strings.Join(parts, " ")
	if !noNewline {
		out += "\n"
	}
	return exec.BuiltinResult{Status: signal.Ok(0), Stdout: out}
}

func isAllFlagChars(s, allowed string) bool {
	for _, c := range s {
		if !strings.ContainsRune(allowed, c) {
			return false
		}
	}
	return true
}

// printfBuiltin implements `printf format args...`: the format string
// is escape-processed once, then its conversions are applied against
// args, recycling the format when more args remain than specifiers
// consumed in one pass (POSIX printf's reuse rule).
func printfBuiltin(bc *exec.BuiltinContext, args []string) exec.BuiltinResult {
	if len(args) == 0 {
		return exec.BuiltinResult{Status: signal.Ok(2), Stderr: "printf: usage: printf format [arguments]\n"}
	}
	format := interpretEscapes(args[0])
	rest := args[1:]

	if len(rest) == 0 {
		return exec.BuiltinResult{Status: signal.Ok(0), Stdout: formatPrintf(format, nil)}
	}

	var out strings.Builder
	for len(rest) > 0 {
		consumed := countSpecifiers(format)
		if consumed == 0 {
			out.WriteString(formatPrintf(format, nil))
			break
		}
		n := consumed
		if n > len(rest) {
			n = len(rest)
		}
		out.WriteString(formatPrintf(format, rest[:n]))
		rest = rest[n:]
	}
	return exec.BuiltinResult{Status: signal.Ok(0), Stdout: out.String()}
}

func countSpecifiers(format string) int {
	n := 0
	for i := 0; i < len(format); i++ {
		if format[i] != '%' || i == len(format)-1 {
			continue
		}
		j := i + 1
		for j < len(format) && strings.ContainsRune("-+ 0#123456789.", rune(format[j])) {
			j++
		}
		if j < len(format) && format[j] != '%' {
			n++
		}
		i = j
	}
	return n
}
