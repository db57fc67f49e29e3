package builtin

import (
	"fmt"
	"strings"

	"github.com/shellwalk/shellcore/exec"
	"github.com/shellwalk/shellcore/signal"
)

func registerIntrospection(t Table) {
	t["type"] = typeBuiltinFunc(t)
	t["command"] = commandBuiltinFunc(t)
	t["builtin"] = builtinBuiltinFunc(t)
}

// classify reports what dispatch would do with name: "alias",
// "function", "builtin", or "" (presumed external, since this
// package has no visibility into the host's PATH).
func classify(bc *exec.BuiltinContext, all Table, name string) string {
	if _, ok := bc.Sc.GetAlias(name); ok {
		return "alias"
	}
	if _, ok := bc.Sc.GetFunction(name); ok {
		return "function"
	}
	if _, ok := all.Lookup(name); ok {
		return "builtin"
	}
	return ""
}

// typeBuiltin implements `type [-t] [-a] name...`. -t prints only the
// one-word classification; -a reports every match instead of the
// first (here, at most one since aliases/functions/builtins are
// mutually exclusive namespaces plus the unverifiable "external"
// fallback).
func typeBuiltinFunc(all Table) exec.BuiltinFunc {
	return func(bc *exec.BuiltinContext, args []string) exec.BuiltinResult {
		return typeLike(bc, all, args)
	}
}

func typeLike(bc *exec.BuiltinContext, all Table, args []string) exec.BuiltinResult {
	terseOnly := false
	var names []string
	for _, a := range args {
		switch a {
		case "-t", "-a":
			terseOnly = terseOnly || a == "-t"
		default:
			names = append(names, a)
		}
	}

	var b strings.Builder
	for _, name := range names {
		kind := classify(bc, all, name)
		if kind == "" {
			kind = "external command"
		}
		if terseOnly {
			fmt.Fprintf(&b, "%s\n", strings.Fields(kind)[0])
			continue
		}
		fmt.Fprintf(&b, "%s is a shell %s\n", name, kind)
	}
	return exec.BuiltinResult{Status: signal.Ok(0), Stdout: b.String()}
}

// commandBuiltinFunc implements `command -v -V -p name [args...]`: -v
// prints the resolved name (or nothing + exit 1 if unknown), -V is
// the verbose `name is a ...` form, -p restricts to a default PATH
// search (no effect here beyond accepting the flag, since the host
// owns PATH resolution). Only these introspection forms are
// implemented: without -v or -V, `command` does not run name; it
// reports a usage error and returns status 1.
func commandBuiltinFunc(all Table) exec.BuiltinFunc {
	return func(bc *exec.BuiltinContext, args []string) exec.BuiltinResult {
		mode := ""
		i := 0
		for i < len(args) {
			switch args[i] {
			case "-v", "-V":
				mode = args[i]
			case "-p":
				// accepted, see doc comment.
			default:
				goto resolved
			}
			i++
		}
	resolved:
		if mode == "" || i >= len(args) {
			return exec.BuiltinResult{Status: signal.Ok(1), Stderr: "command: usage: command [-v|-V] name\n"}
		}
		name := args[i]
		kind := classify(bc, all, name)
		if kind == "" {
			return exec.BuiltinResult{Status: signal.Ok(1)}
		}
		if mode == "-v" {
			return exec.BuiltinResult{Status: signal.Ok(0), Stdout: name + "\n"}
		}
		return exec.BuiltinResult{Status: signal.Ok(0), Stdout: fmt.Sprintf("%s is a shell %s\n", name, kind)}
	}
}

// builtinBuiltinFunc implements `builtin name [args...]`: runs name
// as a builtin even if a function of the same name exists, bypassing
// the function-dispatch step entirely.
func builtinBuiltinFunc(all Table) exec.BuiltinFunc {
	return func(bc *exec.BuiltinContext, args []string) exec.BuiltinResult {
		if len(args) == 0 {
			return exec.BuiltinResult{Status: signal.Ok(1), Stderr: "builtin: usage: builtin name [args...]\n"}
		}
		fn, ok := all.Lookup(args[0])
		if !ok {
			return exec.BuiltinResult{Status: signal.Ok(1), Stderr: fmt.Sprintf("builtin: %s: not a shell builtin\n", args[0])}
		}
		return fn(bc, args[1:])
	}
}
