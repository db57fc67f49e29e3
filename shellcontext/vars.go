package shellcontext

import "fmt"

var envTable = scopedTable[string]{
	get: func(c *Context) map[string]*string { return c.envLocal },
	set: func(c *Context, m map[string]*string) { c.envLocal = m },
}

var paramsTable = scopedTable[string]{
	get: func(c *Context) map[string]*string { return c.paramsLocal },
	set: func(c *Context, m map[string]*string) { c.paramsLocal = m },
}

// ReadonlyError is returned when a write targets a readonly variable.
// The attempt leaves state unchanged.
type ReadonlyError struct {
	Name string
}

func (e *ReadonlyError) Error() string {
	return fmt.Sprintf("%s: readonly variable", e.Name)
}

// GetEnv looks up an exported variable, composing ancestors with local
// overrides (local wins).
func (c *Context) GetEnv(name string) (string, bool) { return envTable.lookup(c, name) }

// GetParam looks up a shell parameter (positional, special, or plain).
func (c *Context) GetParam(name string) (string, bool) { return paramsTable.lookup(c, name) }

// Get looks up name in the union of {env, params}: params takes
// precedence over env on collision.
func (c *Context) Get(name string) (string, bool) {
	if v, ok := paramsTable.lookup(c, name); ok {
		return v, true
	}
	return envTable.lookup(c, name)
}

// SetEnv performs a plain (non-local) export-namespace write.
func (c *Context) SetEnv(name, value string) error {
	if c.IsReadonly(name) {
		return &ReadonlyError{Name: name}
	}
	envTable.set(c, name, &value)
	return nil
}

// SetParam performs a plain (non-local) params-namespace write.
func (c *Context) SetParam(name, value string) error {
	if c.IsReadonly(name) {
		return &ReadonlyError{Name: name}
	}
	paramsTable.set(c, name, &value)
	return nil
}

// SetLocalParam binds name only in c's own frame ("local NAME=value").
func (c *Context) SetLocalParam(name, value string) error {
	if c.IsReadonly(name) {
		return &ReadonlyError{Name: name}
	}
	paramsTable.setLocal(c, name, &value)
	return nil
}

// UnsetEnv removes an exported binding wherever it's owned.
func (c *Context) UnsetEnv(name string) { envTable.unset(c, name) }

// UnsetParam removes a params binding wherever it's owned.
func (c *Context) UnsetParam(name string) { paramsTable.unset(c, name) }

// Unset removes name from both namespaces (the `unset` builtin's
// default, name-ambiguous form).
func (c *Context) Unset(name string) {
	c.UnsetParam(name)
	c.UnsetEnv(name)
}

// Export promotes a params binding into the exported env namespace, so
// external commands can inherit it. If hasValue is false, the current
// params or env binding (in that order) is reused, supporting bare
// `export NAME` against an already-set variable as well as `export
// NAME=value`.
func (c *Context) Export(name string, value string, hasValue bool) error {
	if c.IsReadonly(name) {
		return &ReadonlyError{Name: name}
	}
	if !hasValue {
		if v, ok := paramsTable.lookup(c, name); ok {
			value = v
		} else if v, ok := envTable.lookup(c, name); ok {
			value = v
		}
	}
	envTable.set(c, name, &value)
	paramsTable.unset(c, name)
	return nil
}

// Unexport moves an exported binding back into params (`export -n`).
func (c *Context) Unexport(name string) error {
	if c.IsReadonly(name) {
		return &ReadonlyError{Name: name}
	}
	if v, ok := envTable.lookup(c, name); ok {
		paramsTable.set(c, name, &v)
	}
	envTable.unset(c, name)
	return nil
}

// EnvSnapshot returns the full merged env view as of c, suitable for
// handing to the host facade as an external command's environment.
func (c *Context) EnvSnapshot() map[string]string { return envTable.snapshot(c) }

// ParamsSnapshot returns the full merged params view as of c.
func (c *Context) ParamsSnapshot() map[string]string { return paramsTable.snapshot(c) }
