package shellcontext

import "fmt"

// Cwd returns the single, process-wide current working directory.
func (c *Context) Cwd() string { return c.writeRoot().cwd }

// SetCwd updates the current working directory. Always lands at the
// write-root, so every context observes the change (except across a
// subshell isolation boundary, which owns its own copy).
func (c *Context) SetCwd(dir string) {
	c.writeRoot().cwd = dir
}

// DirStack returns a copy of the directory stack, index 0 = top.
func (c *Context) DirStack() []string {
	return append([]string(nil), c.writeRoot().dirStack...)
}

// PushDir pushes the current cwd onto the stack and makes newDir the
// cwd (`pushd`'s default form).
func (c *Context) PushDir(newDir string) {
	root := c.writeRoot()
	root.dirStack = append([]string{root.cwd}, root.dirStack...)
	root.cwd = newDir
}

// PopDir pops the top of the stack and makes it the cwd. Returns an
// error if the stack is empty.
func (c *Context) PopDir() (string, error) {
	root := c.writeRoot()
	if len(root.dirStack) == 0 {
		return "", fmt.Errorf("directory stack empty")
	}
	top := root.dirStack[0]
	root.dirStack = root.dirStack[1:]
	root.cwd = top
	return top, nil
}

// RotateDirStack implements pushd ±N / dirs +N rotation: index i of
// the full cwd-plus-stack list (0 = cwd) becomes the new cwd, and the
// list is rotated so the entries before i, starting with the previous
// cwd, move to the bottom of the stack in order.
func (c *Context) RotateDirStack(i int) error {
	root := c.writeRoot()
	full := append([]string{root.cwd}, root.dirStack...)
	if i < 0 || i >= len(full) {
		return fmt.Errorf("index %d out of range", i)
	}
	rotated := append(append([]string{}, full[i:]...), full[:i]...)
	root.cwd = rotated[0]
	root.dirStack = rotated[1:]
	return nil
}

// RemoveDirAt removes the entry at stack index i (0 = top of the
// stack proper, not counting cwd) without changing cwd (`popd +N`/`-N`
// on a non-top entry).
func (c *Context) RemoveDirAt(i int) error {
	root := c.writeRoot()
	if i < 0 || i >= len(root.dirStack) {
		return fmt.Errorf("index %d out of range", i)
	}
	root.dirStack = append(root.dirStack[:i], root.dirStack[i+1:]...)
	return nil
}

// ClearDirStack empties the stack (`dirs -c`).
func (c *Context) ClearDirStack() {
	c.writeRoot().dirStack = nil
}
