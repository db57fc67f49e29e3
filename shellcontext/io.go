package shellcontext

// Stdin returns the effective stdin endpoint, composing local
// overrides with the parent chain (redirection is scoped to the frame
// it was applied on and everything spawned beneath it).
func (c *Context) Stdin() *Endpoint { return resolveEndpoint(c, func(c *Context) *Endpoint { return c.stdin }) }

// Stdout returns the effective stdout endpoint.
func (c *Context) Stdout() *Endpoint { return resolveEndpoint(c, func(c *Context) *Endpoint { return c.stdout }) }

// Stderr returns the effective stderr endpoint.
func (c *Context) Stderr() *Endpoint { return resolveEndpoint(c, func(c *Context) *Endpoint { return c.stderr }) }

func resolveEndpoint(c *Context, get func(*Context) *Endpoint) *Endpoint {
	for cur := c; cur != nil; cur = cur.parent {
		if ep := get(cur); ep != nil {
			return ep
		}
	}
	return nil
}

// SetStdin applies a redirection to c's own frame only.
func (c *Context) SetStdin(ep Endpoint) { c.stdin = &ep }

// SetStdout applies a redirection to c's own frame only.
func (c *Context) SetStdout(ep Endpoint) { c.stdout = &ep }

// SetStderr applies a redirection to c's own frame only.
func (c *Context) SetStderr(ep Endpoint) { c.stderr = &ep }
