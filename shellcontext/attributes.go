package shellcontext

var readonlyTable = scopedTable[bool]{
	get: func(c *Context) map[string]*bool { return c.readonlyLocal },
	set: func(c *Context, m map[string]*bool) { c.readonlyLocal = m },
}

var integerTable = scopedTable[bool]{
	get: func(c *Context) map[string]*bool { return c.integerLocal },
	set: func(c *Context, m map[string]*bool) { c.integerLocal = m },
}

// IsReadonly reports whether name is marked readonly anywhere visible
// from c.
func (c *Context) IsReadonly(name string) bool {
	v, ok := readonlyTable.lookup(c, name)
	return ok && v
}

// MarkReadonly marks name readonly (`declare -r` / `readonly`).
func (c *Context) MarkReadonly(name string) { t := true; readonlyTable.set(c, name, &t) }

// UnmarkReadonly clears the readonly attribute (`declare +r`).
func (c *Context) UnmarkReadonly(name string) { readonlyTable.unset(c, name) }

// IsInteger reports whether name is marked as an integer attribute
// variable (`declare -i`). Values remain scalar strings; only the
// attribute flag is tracked.
func (c *Context) IsInteger(name string) bool {
	v, ok := integerTable.lookup(c, name)
	return ok && v
}

// MarkInteger marks name with the integer attribute.
func (c *Context) MarkInteger(name string) { t := true; integerTable.set(c, name, &t) }

// UnmarkInteger clears the integer attribute (`declare +i`).
func (c *Context) UnmarkInteger(name string) { integerTable.unset(c, name) }
