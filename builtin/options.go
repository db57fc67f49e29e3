package builtin

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shellwalk/shellcore/exec"
	"github.com/shellwalk/shellcore/signal"
)

func registerOptions(t Table) {
	t["set"] = setBuiltin
}

// recognizedFlags is the set `set` accepts, spelled out by their long
// (`-o name`) form per §4.5; most also have a short single-letter
// form, tracked alongside.
var recognizedFlags = map[string]string{
	"errexit":     "e",
	"nounset":     "u",
	"xtrace":      "x",
	"verbose":     "v",
	"noclobber":   "C",
	"noglob":      "f",
	"allexport":   "a",
	"notify":      "b",
	"ignoreeof":   "",
	"monitor":     "m",
	"noexec":      "n",
	"pipefail":    "",
}

var shortToLong = func() map[string]string {
	m := map[string]string{}
	for long, short := range recognizedFlags {
		if short != "" {
			m[short] = long
		}
	}
	return m
}()

// setBuiltin implements `set [-o name|+o name|-c|+c|--] [args...]`:
// options are stored as params under "SHELLOPT_<NAME>"="1"/"0" so
// they survive like any other shell variable; `set --` (or any
// operand list after option processing) replaces the positional
// parameters; `set` alone lists every variable.
func setBuiltin(bc *exec.BuiltinContext, args []string) exec.BuiltinResult {
	if len(args) == 0 {
		return exec.BuiltinResult{Status: signal.Ok(0), Stdout: formatDeclaredParams(bc)}
	}

	i := 0
	for i < len(args) {
		a := args[i]
		switch {
		case a == "--":
			i++
			return applyPositional(bc, args[i:])
		case a == "-o":
			i++
			if i >= len(args) {
				return listOptions(bc)
			}
			if err := setNamedOption(bc, args[i], true); err != "" {
				return exec.BuiltinResult{Status: signal.Ok(1), Stderr: err}
			}
		case a == "+o":
			i++
			if i >= len(args) {
				return listOptions(bc)
			}
			if err := setNamedOption(bc, args[i], false); err != "" {
				return exec.BuiltinResult{Status: signal.Ok(1), Stderr: err}
			}
		case strings.HasPrefix(a, "-") && len(a) > 1 && a[1] != '-':
			if err := setShortFlags(bc, a[1:], true); err != "" {
				return exec.BuiltinResult{Status: signal.Ok(1), Stderr: err}
			}
		case strings.HasPrefix(a, "+") && len(a) > 1:
			if err := setShortFlags(bc, a[1:], false); err != "" {
				return exec.BuiltinResult{Status: signal.Ok(1), Stderr: err}
			}
		default:
			return applyPositional(bc, args[i:])
		}
		i++
	}
	return exec.BuiltinResult{Status: signal.Ok(0)}
}

func setNamedOption(bc *exec.BuiltinContext, name string, on bool) string {
	if _, ok := recognizedFlags[name]; !ok {
		return fmt.Sprintf("set: %s: invalid option name\n", name)
	}
	_ = bc.Sc.SetParam(optionVar(name), boolFlag(on))
	return ""
}

func setShortFlags(bc *exec.BuiltinContext, flags string, on bool) string {
	for _, f := range flags {
		long, ok := shortToLong[string(f)]
		if !ok {
			return fmt.Sprintf("set: -%c: invalid option\n", f)
		}
		_ = bc.Sc.SetParam(optionVar(long), boolFlag(on))
	}
	return ""
}

func optionVar(name string) string {
	return "SHELLOPT_" + strings.ToUpper(name)
}

func boolFlag(on bool) string {
	if on {
		return "1"
	}
	return "0"
}

// listOptions prints `set -o`'s table: every recognized flag and its
// current on/off state.
func listOptions(bc *exec.BuiltinContext) exec.BuiltinResult {
	names := make([]string, 0, len(recognizedFlags))
	for name := range recognizedFlags {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		state := "off"
		if v, ok := bc.Sc.GetParam(optionVar(name)); ok && v == "1" {
			state = "on"
		}
		fmt.Fprintf(&b, "%-15s%s\n", name, state)
	}
	return exec.BuiltinResult{Status: signal.Ok(0), Stdout: b.String()}
}

func applyPositional(bc *exec.BuiltinContext, args []string) exec.BuiltinResult {
	old := 0
	if v, ok := bc.Sc.GetParam("#"); ok {
		old, _ = strconv.Atoi(v)
	}
	for i := 1; i <= old; i++ {
		bc.Sc.UnsetParam(strconv.Itoa(i))
	}
	for i, v := range args {
		_ = bc.Sc.SetParam(strconv.Itoa(i+1), v)
	}
	_ = bc.Sc.SetParam("#", strconv.Itoa(len(args)))
	_ = bc.Sc.SetParam("@", strings.Join(args, " "))
	_ = bc.Sc.SetParam("*", strings.Join(args, " "))
	return exec.BuiltinResult{Status: signal.Ok(0)}
}
