package builtin

import (
	"strconv"
	"strings"

	"github.com/shellwalk/shellcore/exec"
	"github.com/shellwalk/shellcore/expand"
	"github.com/shellwalk/shellcore/signal"
)

func registerInput(t Table) {
	t["read"] = readBuiltin
}

// readBuiltin implements `read -p prompt -d delim -r -s -n nchars
// name...`. One PipeRead against the command's resolved stdin is
// treated as yielding the next record (the host owns how much of the
// underlying stream that is, same as any other pipe read); the record
// is split on IFS (or -d's delimiter) into as many fields as there are
// variable names, the last variable absorbing any remainder, and bound
// with SetParam. With no names, the whole record goes into REPLY.
func readBuiltin(bc *exec.BuiltinContext, args []string) exec.BuiltinResult {
	var prompt, delim string
	raw := false
	nchars := -1

	i := 0
loop:
	for i < len(args) {
		switch args[i] {
		case "-p":
			i++
			if i < len(args) {
				prompt = args[i]
			}
		case "-d":
			i++
			if i < len(args) {
				delim = args[i]
			}
		case "-r":
			raw = true
		case "-s":
			// silent mode: no local echo concept in this model, accepted.
		case "-n":
			i++
			if i < len(args) {
				nchars, _ = strconv.Atoi(args[i])
			}
		default:
			break loop
		}
		i++
	}
	names := args[i:]
	if len(names) == 0 {
		names = []string{"REPLY"}
	}

	if bc.Stdin == "" {
		return exec.BuiltinResult{Status: signal.Ok(1), Stderr: prompt}
	}

	line, err := bc.Host.PipeRead(bc.GoCtx, bc.Stdin)
	if err != nil {
		return exec.BuiltinResult{Status: signal.Ok(1), Stderr: prompt}
	}
	if !raw {
		line = strings.ReplaceAll(line, "\\\n", "")
	}
	line = strings.TrimRight(line, "\n")
	if nchars >= 0 && nchars < len(line) {
		line = line[:nchars]
	}

	sep := delim
	if sep == "" {
		sep = expand.IFS(bc.Sc)
	}
	fields := splitOn(line, sep, len(names))
	for idx, name := range names {
		var v string
		if idx < len(fields) {
			v = fields[idx]
		}
		_ = bc.Sc.SetParam(name, v)
	}

	status := 0
	if line == "" {
		status = 1
	}
	return exec.BuiltinResult{Status: signal.Ok(status), Stderr: prompt}
}

// splitOn splits s on any byte in sep, collapsing runs, and stops
// early (leaving the remainder in the final field) once maxFields
// have been produced — the shell `read`'s "extra words go to the last
// variable" rule.
func splitOn(s, sep string, maxFields int) []string {
	if sep == "" || maxFields <= 1 {
		return []string{s}
	}
	var fields []string
	start := -1
	for i := 0; i < len(s); i++ {
		if strings.ContainsRune(sep, rune(s[i])) {
			if start >= 0 {
				fields = append(fields, s[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
		if len(fields) == maxFields-1 {
			fields = append(fields, s[start:])
			return fields
		}
	}
	if start >= 0 {
		fields = append(fields, s[start:])
	}
	return fields
}
