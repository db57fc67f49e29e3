package builtin

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shellwalk/shellcore/exec"
	"github.com/shellwalk/shellcore/signal"
)

func registerVariables(t Table) {
	t["export"] = exportBuiltin
	t["unset"] = unsetBuiltin
	t["local"] = localBuiltin
	t["readonly"] = readonlyBuiltin
	t["declare"] = declareBuiltin
	t["typeset"] = t["declare"]
}

// exportBuiltin implements `export [-n] [-p] [name[=value]...]`.
// -n moves names back into plain params instead of exporting them;
// -p (or no operands at all) prints every exported binding as
// `declare -x NAME="VALUE"`.
func exportBuiltin(bc *exec.BuiltinContext, args []string) exec.BuiltinResult {
	remove := false
	print := len(args) == 0
	var names []string
	for _, a := range args {
		switch {
		case a == "-n":
			remove = true
		case a == "-p":
			print = true
		default:
			names = append(names, a)
		}
	}

	if print {
		return exec.BuiltinResult{Status: signal.Ok(0), Stdout: formatExportedEnv(bc.Sc.EnvSnapshot())}
	}

	for _, n := range names {
		name, value, hasValue := splitAssignment(n)
		var err error
		if remove {
			err = bc.Sc.Unexport(name)
		} else {
			err = bc.Sc.Export(name, value, hasValue)
		}
		if err != nil {
			return exec.BuiltinResult{Status: signal.Ok(1), Stderr: "export: " + err.Error() + "\n"}
		}
	}
	return exec.BuiltinResult{Status: signal.Ok(0)}
}

func formatExportedEnv(env map[string]string) string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "declare -x %s=%q\n", k, env[k])
	}
	return b.String()
}

func splitAssignment(s string) (name, value string, hasValue bool) {
	if i := strings.IndexByte(s, '='); i >= 0 {
		return s[:i], s[i+1:], true
	}
	return s, "", false
}

// unsetBuiltin implements `unset [-f] [-v] name...`: -f targets only
// function bindings, -v only variable (params+env) bindings; with
// neither flag, a name is unset from whichever namespace owns it.
func unsetBuiltin(bc *exec.BuiltinContext, args []string) exec.BuiltinResult {
	funcOnly, varOnly := false, false
	var names []string
	for _, a := range args {
		switch a {
		case "-f":
			funcOnly = true
		case "-v":
			varOnly = true
		default:
			names = append(names, a)
		}
	}
	for _, n := range names {
		switch {
		case funcOnly:
			bc.Sc.UnsetFunction(n)
		case varOnly:
			bc.Sc.Unset(n)
		default:
			if _, ok := bc.Sc.GetFunction(n); ok {
				bc.Sc.UnsetFunction(n)
			} else {
				bc.Sc.Unset(n)
			}
		}
	}
	return exec.BuiltinResult{Status: signal.Ok(0)}
}

// localBuiltin implements `local name[=value]...`: bindings are scoped
// to the calling command's own context frame only.
func localBuiltin(bc *exec.BuiltinContext, args []string) exec.BuiltinResult {
	for _, a := range args {
		name, value, _ := splitAssignment(a)
		if err := bc.Sc.SetLocalParam(name, value); err != nil {
			return exec.BuiltinResult{Status: signal.Ok(1), Stderr: "local: " + err.Error() + "\n"}
		}
	}
	return exec.BuiltinResult{Status: signal.Ok(0)}
}

// readonlyBuiltin aliases to `declare -r` (§4.5).
func readonlyBuiltin(bc *exec.BuiltinContext, args []string) exec.BuiltinResult {
	return declareBuiltin(bc, append([]string{"-r"}, args...))
}

// declareBuiltin implements `declare`/`typeset -p -r -x -i -a -A -f -F`
// plus their `+r +x +i` removal forms. -a/-A (array attributes) and
// -f/-F (function listing) are accepted for compatibility but arrays
// have no dedicated storage in this model, so -a/-A are no-ops beyond
// plain assignment.
func declareBuiltin(bc *exec.BuiltinContext, args []string) exec.BuiltinResult {
	var readonly, export, integer, print, listFuncs, listFuncNames bool
	var unreadonly, unexport, uninteger bool
	var rest []string

	for _, a := range args {
		switch a {
		case "-r":
			readonly = true
		case "+r":
			unreadonly = true
		case "-x":
			export = true
		case "+x":
			unexport = true
		case "-i":
			integer = true
		case "+i":
			uninteger = true
		case "-p":
			print = true
		case "-a", "-A":
			// no dedicated array storage; accepted, see doc comment.
		case "-f":
			listFuncs = true
		case "-F":
			listFuncNames = true
		default:
			rest = append(rest, a)
		}
	}

	if listFuncNames {
		return exec.BuiltinResult{Status: signal.Ok(0), Stdout: formatFunctionNames(bc)}
	}
	if listFuncs || (print && len(rest) == 0 && !export && !readonly && !integer) {
		return exec.BuiltinResult{Status: signal.Ok(0), Stdout: formatFunctionBodies(bc) + formatDeclaredParams(bc)}
	}
	if print && len(rest) == 0 {
		return exec.BuiltinResult{Status: signal.Ok(0), Stdout: formatDeclaredParams(bc)}
	}

	var printed strings.Builder
	for _, a := range rest {
		name, value, hasValue := splitAssignment(a)
		if hasValue {
			if err := bc.Sc.SetLocalParam(name, value); err != nil {
				return exec.BuiltinResult{Status: signal.Ok(1), Stderr: "declare: " + err.Error() + "\n"}
			}
		} else if _, ok := bc.Sc.GetParam(name); !ok {
			_ = bc.Sc.SetLocalParam(name, "")
		}

		if readonly {
			bc.Sc.MarkReadonly(name)
		}
		if unreadonly {
			bc.Sc.UnmarkReadonly(name)
		}
		if integer {
			bc.Sc.MarkInteger(name)
		}
		if uninteger {
			bc.Sc.UnmarkInteger(name)
		}
		if export {
			_ = bc.Sc.Export(name, value, hasValue)
		}
		if unexport {
			_ = bc.Sc.Unexport(name)
		}
		if print {
			printed.WriteString(formatOneDeclaredParam(bc, name))
		}
	}
	return exec.BuiltinResult{Status: signal.Ok(0), Stdout: printed.String()}
}

func formatOneDeclaredParam(bc *exec.BuiltinContext, name string) string {
	v, _ := bc.Sc.GetParam(name)
	attrs := "-"
	if bc.Sc.IsReadonly(name) {
		attrs += "r"
	}
	if bc.Sc.IsInteger(name) {
		attrs += "i"
	}
	return fmt.Sprintf("declare %s %s=%q\n", attrs, name, v)
}

func formatDeclaredParams(bc *exec.BuiltinContext) string {
	params := bc.Sc.ParamsSnapshot()
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		attrs := "-"
		if bc.Sc.IsReadonly(k) {
			attrs += "r"
		}
		if bc.Sc.IsInteger(k) {
			attrs += "i"
		}
		fmt.Fprintf(&b, "declare %s %s=%q\n", attrs, k, params[k])
	}
	return b.String()
}

func knownFunctionNames(bc *exec.BuiltinContext) []string {
	fns := bc.Sc.Functions()
	names := make([]string, 0, len(fns))
	for name := range fns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func formatFunctionNames(bc *exec.BuiltinContext) string {
	var b strings.Builder
	for _, name := range knownFunctionNames(bc) {
		fmt.Fprintf(&b, "declare -f %s\n", name)
	}
	return b.String()
}

// formatFunctionBodies prints each function's signature line only
// (`declare -f` with a real source-text pretty-printer belongs to the
// parser, an external collaborator this package doesn't have access
// to), one `name ()` line per defined function, sorted by name.
func formatFunctionBodies(bc *exec.BuiltinContext) string {
	var b strings.Builder
	for _, name := range knownFunctionNames(bc) {
		fmt.Fprintf(&b, "%s ()\n", name)
	}
	return b.String()
}
