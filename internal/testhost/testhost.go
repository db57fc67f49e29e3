// Package testhost is a realistic in-memory host.Shell fake: pipes are
// buffered strings, the filesystem is a plain path->contents map, and
// external command execution is driven by a small per-name table
// instead of the real OS. It behaves like a real host closely enough to
// exercise builtins, the executor, and pipelines in package tests
// without touching the filesystem or spawning processes.
//
// Construct one with New and configure it with the With* builder
// methods before handing it to an exec.Engine or a builtin under test:
//
//	h := testhost.New().
//	    WithFile("/tmp/greeting.txt", "hello\n").
//	    WithDir("/tmp/work")
//	e := exec.NewEngine(h, builtin.All(), exec.Config{})
package testhost

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/shellwalk/shellcore/host"
)

// CommandFunc is a stubbed external command: given argv and the text
// already read from stdin (empty if none attached), it returns what
// would have been written to stdout and the process's exit code.
type CommandFunc func(args []string, stdin string) (stdout string, code int)

// ExecutedCall records one Execute invocation for later assertions.
type ExecutedCall struct {
	Name string
	Args []string
	Opts host.ExecOptions
}

// Host is the fake itself. Zero value is not usable; build one with
// New.
type Host struct {
	mu       sync.Mutex
	cond     *sync.Cond
	pipes    map[string]*strings.Builder
	closed   map[string]bool
	files    map[string]string
	dirs     map[string]bool
	mtimes   map[string]time.Time
	homes    map[string]string
	commands map[string]CommandFunc
	next     int

	Executed []ExecutedCall
}

// New constructs an empty Host: no files, no directories besides /, no stubbed
// commands beyond the handful every script assumes exist (true, false,
// echo).
func New() *Host {
	h := &Host{
		pipes:    map[string]*strings.Builder{},
		closed:   map[string]bool{},
		files:    map[string]string{},
		dirs:     map[string]bool{"/": true},
		mtimes:   map[string]time.Time{},
		homes:    map[string]string{},
		commands: map[string]CommandFunc{},
	}
	h.cond = sync.NewCond(&h.mu)
	h.commands["true"] = func([]string, string) (string, int) { return "", 0 }
	h.commands["false"] = func([]string, string) (string, int) { return "", 1 }
	h.commands["echo"] = func(args []string, _ string) (string, int) {
		return strings.Join(args, " ") + "\n", 0
	}
	return h
}

// WithFile registers a regular file and its contents, creating any
// missing parent directories implicitly (as a real filesystem would).
func (h *Host) WithFile(path, contents string) *Host {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.files[path] = contents
	h.mtimes[path] = time.Now()
	for dir := filepath.Dir(path); dir != "." && dir != "/"; dir = filepath.Dir(dir) {
		h.dirs[dir] = true
	}
	return h
}

// WithDir registers an (empty) directory.
func (h *Host) WithDir(path string) *Host {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dirs[path] = true
	return h
}

// WithHome registers the home directory ResolveHomeUser should answer
// for username ("" meaning the invoking user).
func (h *Host) WithHome(username, dir string) *Host {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.homes[username] = dir
	return h
}

// WithCommand stubs an external command's behavior, overriding any
// built-in default (true/false/echo included).
func (h *Host) WithCommand(name string, fn CommandFunc) *Host {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.commands[name] = fn
	return h
}

// FileContents returns what's currently stored at path, for asserting
// on a builtin's effects (e.g. `>` redirection, `pushd`'s interaction
// with a script that writes a marker file).
func (h *Host) FileContents(path string) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	v, ok := h.files[path]
	return v, ok
}

// Execute implements host.Shell.
func (h *Host) Execute(goCtx context.Context, name string, args []string, opts host.ExecOptions) (int, error) {
	h.mu.Lock()
	h.Executed = append(h.Executed, ExecutedCall{Name: name, Args: append([]string(nil), args...), Opts: opts})
	fn, ok := h.commands[name]
	h.mu.Unlock()
	if !ok {
		return 127, fmt.Errorf("%s: no such command", name)
	}

	stdin := ""
	if opts.Stdin != "" {
		stdin, _ = h.PipeRead(goCtx, opts.Stdin)
	}
	out, code := fn(args, stdin)
	if out != "" && opts.Stdout != "" {
		_ = h.PipeWrite(goCtx, opts.Stdout, out)
	}
	return code, nil
}

// PipeOpen implements host.Shell.
func (h *Host) PipeOpen(context.Context) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.next++
	name := fmt.Sprintf("pipe:%d", h.next)
	h.pipes[name] = &strings.Builder{}
	return name, nil
}

// PipeClose implements host.Shell: marks name as EOF, waking any reader
// blocked in PipeRead.
func (h *Host) PipeClose(_ context.Context, name string) error {
	h.mu.Lock()
	h.closed[name] = true
	h.mu.Unlock()
	h.cond.Broadcast()
	return nil
}

// PipeRemove implements host.Shell.
func (h *Host) PipeRemove(_ context.Context, name string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.pipes, name)
	delete(h.closed, name)
	return nil
}

// PipeRead implements host.Shell: blocks until the pipe has been
// closed, then returns everything ever written to it, mirroring a real
// pipe's read-to-EOF semantics closely enough for sequential tests.
func (h *Host) PipeRead(_ context.Context, name string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for !h.closed[name] {
		h.cond.Wait()
	}
	if b, ok := h.pipes[name]; ok {
		return b.String(), nil
	}
	return "", nil
}

// PipeWrite implements host.Shell.
func (h *Host) PipeWrite(_ context.Context, name, data string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if b, ok := h.pipes[name]; ok {
		b.WriteString(data)
	}
	return nil
}

// IsPipe implements host.Shell.
func (h *Host) IsPipe(name string) bool {
	return strings.HasPrefix(name, "pipe:")
}

// PipeFromFile implements host.Shell: streams a registered file's
// contents into pipe synchronously, returning a no-op wait func.
func (h *Host) PipeFromFile(_ context.Context, path, pipe string) (func() error, error) {
	h.mu.Lock()
	data, ok := h.files[path]
	h.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%s: no such file", path)
	}
	_ = h.PipeWrite(context.Background(), pipe, data)
	_ = h.PipeClose(context.Background(), pipe)
	return func() error { return nil }, nil
}

// PipeToFile implements host.Shell: the returned wait func drains pipe
// into the virtual filesystem, honoring append like a real `>>`.
func (h *Host) PipeToFile(_ context.Context, pipe, path string, append bool) (func() error, error) {
	return func() error {
		h.mu.Lock()
		defer h.mu.Unlock()
		var data string
		if b, ok := h.pipes[pipe]; ok {
			data = b.String()
		}
		if append {
			h.files[path] += data
		} else {
			h.files[path] = data
		}
		h.mtimes[path] = time.Now()
		return nil
	}, nil
}

// ResolvePath implements host.PathResolver with filepath.Match against
// every registered file and directory; unmatched patterns pass through
// unexpanded, per the interface's documented convention.
func (h *Host) ResolvePath(_ context.Context, pattern string) ([]string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	var matches []string
	for p := range h.files {
		if ok, _ := filepath.Match(pattern, p); ok {
			matches = append(matches, p)
		}
	}
	for p := range h.dirs {
		if ok, _ := filepath.Match(pattern, p); ok {
			matches = append(matches, p)
		}
	}
	if len(matches) == 0 {
		return []string{pattern}, nil
	}
	return matches, nil
}

// ResolveHomeUser implements host.HomeResolver.
func (h *Host) ResolveHomeUser(_ context.Context, username string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.homes[username], nil
}

// ReadFile implements host.FileReader.
func (h *Host) ReadFile(_ context.Context, path string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	v, ok := h.files[path]
	if !ok {
		return "", fmt.Errorf("%s: no such file", path)
	}
	return v, nil
}

// TestPath implements host.PathTester over the virtual filesystem.
// Readable/writable/executable all answer true for anything that
// exists, since this fake has no permission model of its own.
func (h *Host) TestPath(_ context.Context, path string, op host.PathTestOp, path2 string) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	_, isFile := h.files[path]
	_, isDir := h.dirs[path]
	exists := isFile || isDir

	switch op {
	case host.OpExists:
		return exists, nil
	case host.OpRegularFile:
		return isFile, nil
	case host.OpDirectory:
		return isDir, nil
	case host.OpReadable, host.OpWritable, host.OpExecutable:
		return exists, nil
	case host.OpNonEmpty:
		return len(h.files[path]) > 0, nil
	case host.OpSymlink, host.OpBlockDevice, host.OpCharDevice, host.OpNamedPipe,
		host.OpSocket, host.OpSetgid, host.OpSetuid, host.OpSticky,
		host.OpModifiedSinceLastRead, host.OpFDIsTerminal:
		return false, nil
	case host.OpOwnedByEUID, host.OpOwnedByEGID:
		return exists, nil
	case host.OpNewerThan:
		return h.mtimes[path].After(h.mtimes[path2]), nil
	case host.OpOlderThan:
		return h.mtimes[path].Before(h.mtimes[path2]), nil
	case host.OpSameDeviceAndInode:
		return path == path2 && exists, nil
	default:
		return false, fmt.Errorf("testhost: unsupported path test %q", op)
	}
}

// ExecutedNames returns the name of every Execute call recorded so far,
// in call order.
func (h *Host) ExecutedNames() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	names := make([]string, len(h.Executed))
	for i, c := range h.Executed {
		names[i] = c.Name
	}
	return names
}

var (
	_ host.Shell        = (*Host)(nil)
	_ host.PathResolver = (*Host)(nil)
	_ host.HomeResolver = (*Host)(nil)
	_ host.FileReader   = (*Host)(nil)
	_ host.PathTester   = (*Host)(nil)
)
