// Package shellcontext implements the execution context: a
// parent-linked tree of scopes for cwd, env, positional parameters,
// functions, aliases, variable attributes, the directory stack, and
// I/O endpoints.
//
// Each slot holds, per context, an entry keyed {absent=inherit,
// present-with-value, present-as-tombstone}. A read composes the
// parent's view with the child's local overrides, child winning. A
// plain (non-local) write walks up to whichever ancestor already owns
// the name, creating the binding at the global root when no ancestor
// owns it yet. A `local` write only ever touches the current frame.
// Subshell isolation is a construction-time flag: it caps how far
// plain writes can walk upward, without affecting how far reads can
// see. The delta-over-shared-parent structure is adapted from an
// immutable-snapshot context threaded through Clone/With*-style
// constructors, reworked here to store only the per-frame delta rather
// than a full copy at every step.
package shellcontext

import "github.com/shellwalk/shellcore/invariant"

// Context is one frame in the scope tree.
type Context struct {
	parent   *Context
	isolated bool // subshell isolation: writes never cross this boundary

	envLocal    map[string]*string
	paramsLocal map[string]*string
	funcLocal   map[string]*FunctionDef
	aliasLocal  map[string]*string

	readonlyLocal map[string]*bool
	integerLocal  map[string]*bool

	// cwd and the directory stack are only meaningful at a write-root
	// frame (the true global root, or a subshell's isolation root);
	// non-write-root frames leave these nil and delegate via
	// writeRoot().
	cwd      string
	dirStack []string

	stdin  *Endpoint
	stdout *Endpoint
	stderr *Endpoint

	// argRegistry is associated with this exact context identity and is
	// never inherited by children.
	argRegistry *ArgRegistry
}

// Endpoint is a symbolic I/O endpoint: either a host pipe token or a
// filesystem path, plus the append flag for stdout/stderr.
type Endpoint struct {
	Name   string
	Append bool
}

// FunctionDef is a registered shell function.
type FunctionDef struct {
	Name          string
	Body          interface{} // *ast.CompoundList; interface{} avoids an import cycle with ast's Node
	DefinitionCtx *Context    // the lexical ancestor for body execution
}

// NewRoot creates the root context for an embedded interpreter
// instance, seeded with an initial working directory.
func NewRoot(cwd string) *Context {
	invariant.Precondition(cwd != "", "initial cwd must not be empty")
	return &Context{
		cwd:      cwd,
		dirStack: nil,
	}
}

// Child spawns a non-isolated child context: a new frame for a
// Command, CompoundList/Function body, pipeline stage, or
// command/arithmetic substitution.
func (c *Context) Child() *Context {
	invariant.NotNil(c, "parent context")
	return &Context{parent: c}
}

// ChildIsolated spawns a subshell-isolated child: writes never
// propagate past this frame.
func (c *Context) ChildIsolated() *Context {
	invariant.NotNil(c, "parent context")
	child := &Context{parent: c, isolated: true}
	// Seed the isolated root's cwd/dir-stack from the current ambient
	// view so reads inside the subshell see the parent's state, while
	// subsequent writes stay local to this frame.
	child.cwd = c.Cwd()
	child.dirStack = append([]string(nil), c.DirStack()...)
	return child
}

// writeRoot returns the frame at which a plain (non-local) write
// lands when no ancestor already owns the binding: the true global
// root, or the nearest enclosing subshell-isolation boundary.
func (c *Context) writeRoot() *Context {
	cur := c
	for {
		if cur.isolated || cur.parent == nil {
			return cur
		}
		cur = cur.parent
	}
}

// IsRoot reports whether c has no parent.
func (c *Context) IsRoot() bool { return c.parent == nil }
