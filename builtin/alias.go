package builtin

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shellwalk/shellcore/exec"
	"github.com/shellwalk/shellcore/signal"
)

func registerAlias(t Table) {
	t["alias"] = aliasBuiltin
	t["unalias"] = unaliasBuiltin
}

// aliasBuiltin implements `alias [name[=value]...]`: with no operands,
// prints every alias; a bare name prints that one alias; a
// name=value defines it.
func aliasBuiltin(bc *exec.BuiltinContext, args []string) exec.BuiltinResult {
	if len(args) == 0 {
		return exec.BuiltinResult{Status: signal.Ok(0), Stdout: formatAliases(bc.Sc.Aliases())}
	}

	var b strings.Builder
	status := 0
	for _, a := range args {
		name, value, hasValue := splitAssignment(a)
		if hasValue {
			bc.Sc.SetAlias(name, value)
			continue
		}
		v, ok := bc.Sc.GetAlias(name)
		if !ok {
			fmt.Fprintf(&b, "alias: %s: not found\n", name)
			status = 1
			continue
		}
		fmt.Fprintf(&b, "alias %s=%q\n", name, v)
	}
	return exec.BuiltinResult{Status: signal.Ok(status), Stdout: b.String(), Stderr: ""}
}

func formatAliases(aliases map[string]string) string {
	keys := make([]string, 0, len(aliases))
	for k := range aliases {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "alias %s=%q\n", k, aliases[k])
	}
	return b.String()
}

// unaliasBuiltin implements `unalias [-a] name...`: -a clears every
// alias instead of naming them individually.
func unaliasBuiltin(bc *exec.BuiltinContext, args []string) exec.BuiltinResult {
	for _, a := range args {
		if a == "-a" {
			for name := range bc.Sc.Aliases() {
				bc.Sc.UnsetAlias(name)
			}
			return exec.BuiltinResult{Status: signal.Ok(0)}
		}
	}
	for _, name := range args {
		bc.Sc.UnsetAlias(name)
	}
	return exec.BuiltinResult{Status: signal.Ok(0)}
}
