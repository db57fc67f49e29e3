// Package builtin implements the shell's built-in commands: the
// concrete exec.BuiltinFunc values an embedder wires into exec.Registry.
// Every builtin here is grounded on the shellcontext.Context API
// (vars.go, attributes.go, dirstack.go, namespaces.go, argspec.go) for
// its actual state, and on exec.BuiltinContext for host/I/O access.
package builtin

import "github.com/shellwalk/shellcore/exec"

// Table is the simplest exec.Registry: a plain name->func map.
type Table map[string]exec.BuiltinFunc

// Lookup satisfies exec.Registry.
func (t Table) Lookup(name string) (exec.BuiltinFunc, bool) {
	fn, ok := t[name]
	return fn, ok
}

// All returns the full default registry: every builtin this package
// implements, under every name it answers to (aliases like `.` for
// `source`, `[` for `test` included).
func All() Table {
	t := Table{}
	registerTrivial(t)
	registerOutput(t)
	registerDirectory(t)
	registerVariables(t)
	registerEval(t)
	registerInput(t)
	registerControl(t)
	registerTest(t)
	registerOptions(t)
	registerIntrospection(t)
	registerAlias(t)
	registerArg(t)
	return t
}
