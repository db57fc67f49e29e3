package shellcontext

var funcTable = scopedTable[FunctionDef]{
	get: func(c *Context) map[string]*FunctionDef { return c.funcLocal },
	set: func(c *Context, m map[string]*FunctionDef) { c.funcLocal = m },
}

var aliasTable = scopedTable[string]{
	get: func(c *Context) map[string]*string { return c.aliasLocal },
	set: func(c *Context, m map[string]*string) { c.aliasLocal = m },
}

// GetFunction looks up a function definition, searching locally then
// up the parent chain. Functions and aliases are ambient: once defined
// they are visible everywhere below the defining frame.
func (c *Context) GetFunction(name string) (FunctionDef, bool) { return funcTable.lookup(c, name) }

// SetFunction registers name; defining in a child context is
// equivalent to defining in the root (ambient), so this delegates to
// whichever frame already owns the name, or the write-root for a new
// definition.
func (c *Context) SetFunction(def FunctionDef) { funcTable.set(c, def.Name, &def) }

// UnsetFunction removes a function definition wherever it's bound.
func (c *Context) UnsetFunction(name string) { funcTable.unset(c, name) }

// Functions returns a full merged snapshot of every defined function,
// for `declare -f`/`declare -F` with no names.
func (c *Context) Functions() map[string]FunctionDef { return funcTable.snapshot(c) }

// GetAlias looks up an alias expansion string.
func (c *Context) GetAlias(name string) (string, bool) { return aliasTable.lookup(c, name) }

// SetAlias registers an alias (ambient, like functions).
func (c *Context) SetAlias(name, value string) { aliasTable.set(c, name, &value) }

// UnsetAlias removes an alias wherever it's bound.
func (c *Context) UnsetAlias(name string) { aliasTable.unset(c, name) }

// Aliases returns a full merged snapshot, for `alias` with no
// arguments.
func (c *Context) Aliases() map[string]string { return aliasTable.snapshot(c) }
