// Package oshost is the real host.Shell: external commands run through
// os/exec, pipes are buffered strings guarded by a condition variable
// (mirroring internal/testhost's fake closely enough that the two are
// interchangeable from the executor's point of view), and filesystem
// predicates hit the real OS.
package oshost

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/user"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/shellwalk/shellcore/host"
)

// Host is the production host.Shell. Zero value is not usable; build
// one with New.
type Host struct {
	mu     sync.Mutex
	cond   *sync.Cond
	pipes  map[string]*strings.Builder
	closed map[string]bool
	next   int

	// Stdin/Stdout/Stderr are the process streams commands inherit when
	// an ExecOptions field is empty (no redirection in effect). They
	// default to the real os.Std* handles but are overridable for
	// embedding.
	Stdin  *os.File
	Stdout *os.File
	Stderr *os.File
}

// New constructs a Host wired to the real process's standard streams.
func New() *Host {
	h := &Host{
		pipes:  map[string]*strings.Builder{},
		closed: map[string]bool{},
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
	h.cond = sync.NewCond(&h.mu)
	return h
}

// Execute implements host.Shell by spawning a real child process. An
// empty Stdin/Stdout/Stderr in opts means that stream was never
// redirected anywhere in the context chain, so the child inherits the
// real terminal stream directly rather than bridging through a pipe.
func (h *Host) Execute(goCtx context.Context, name string, args []string, opts host.ExecOptions) (int, error) {
	cmd := exec.CommandContext(goCtx, name, args...)

	if opts.Stdin == "" {
		cmd.Stdin = h.Stdin
	} else {
		data, err := h.PipeRead(goCtx, opts.Stdin)
		if err != nil {
			return 1, err
		}
		cmd.Stdin = strings.NewReader(data)
	}

	var outBuf, errBuf bytes.Buffer
	if opts.Stdout == "" {
		cmd.Stdout = h.Stdout
	} else {
		cmd.Stdout = &outBuf
	}
	if opts.Stderr == "" {
		cmd.Stderr = h.Stderr
	} else {
		cmd.Stderr = &errBuf
	}

	runErr := cmd.Run()

	if opts.Stdout != "" {
		_ = h.PipeWrite(goCtx, opts.Stdout, outBuf.String())
	}
	if opts.Stderr != "" {
		_ = h.PipeWrite(goCtx, opts.Stderr, errBuf.String())
	}

	if runErr == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return 127, runErr
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
// closed, then returns everything ever written to it. A real pipe
// would stream incrementally; since every consumer here reads in a
// single call (commands are run to completion before their output is
// consumed), reading to EOF in one shot is equivalent and far simpler.
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

// PipeFromFile implements host.Shell: reads path in full and writes it
// into pipe, closing pipe immediately since the copy is synchronous.
func (h *Host) PipeFromFile(_ context.Context, path, pipe string) (func() error, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	_ = h.PipeWrite(context.Background(), pipe, string(data))
	_ = h.PipeClose(context.Background(), pipe)
	return func() error { return nil }, nil
}

// PipeToFile implements host.Shell: the returned wait func drains pipe
// into path once the writer side has closed it, honoring append like a
// real `>>`.
func (h *Host) PipeToFile(goCtx context.Context, pipe, path string, append bool) (func() error, error) {
	flags := os.O_WRONLY | os.O_CREATE
	if append {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, err
	}
	return func() error {
		defer f.Close()
		data, err := h.PipeRead(goCtx, pipe)
		if err != nil {
			return err
		}
		_, err = f.WriteString(data)
		return err
	}, nil
}

// ResolvePath implements host.PathResolver with filepath.Glob.
// Unmatched patterns pass through unexpanded, per the interface's
// documented convention, and filepath.Glob's only error (a malformed
// pattern) is treated the same way.
func (h *Host) ResolvePath(_ context.Context, pattern string) ([]string, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil || len(matches) == 0 {
		return []string{pattern}, nil
	}
	return matches, nil
}

// ResolveHomeUser implements host.HomeResolver.
func (h *Host) ResolveHomeUser(_ context.Context, username string) (string, error) {
	if username == "" {
		if dir, err := os.UserHomeDir(); err == nil {
			return dir, nil
		}
		return "", nil
	}
	u, err := user.Lookup(username)
	if err != nil {
		return "", nil
	}
	return u.HomeDir, nil
}

// ReadFile implements host.FileReader.
func (h *Host) ReadFile(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// TestPath implements host.PathTester against the real filesystem.
// Device/socket/setuid-family predicates are answered from the file
// mode bits and ownership from the raw stat result; modified-since-
// last-read and fd-is-terminal always answer false.
func (h *Host) TestPath(_ context.Context, path string, op host.PathTestOp, path2 string) (bool, error) {
	info, statErr := os.Lstat(path)
	exists := statErr == nil

	switch op {
	case host.OpExists:
		return exists, nil
	case host.OpSymlink:
		return exists && info.Mode()&os.ModeSymlink != 0, nil
	}

	// Every remaining predicate needs the target of a symlink, not the
	// link itself.
	info, statErr = os.Stat(path)
	exists = statErr == nil

	switch op {
	case host.OpRegularFile:
		return exists && info.Mode().IsRegular(), nil
	case host.OpDirectory:
		return exists && info.IsDir(), nil
	case host.OpReadable:
		return exists && canOpen(path, os.O_RDONLY), nil
	case host.OpWritable:
		return exists && canOpen(path, os.O_WRONLY), nil
	case host.OpExecutable:
		return exists && (info.IsDir() || info.Mode()&0o111 != 0), nil
	case host.OpNonEmpty:
		return exists && info.Size() > 0, nil
	case host.OpNamedPipe:
		return exists && info.Mode()&os.ModeNamedPipe != 0, nil
	case host.OpSocket:
		return exists && info.Mode()&os.ModeSocket != 0, nil
	case host.OpSetuid:
		return exists && info.Mode()&os.ModeSetuid != 0, nil
	case host.OpSetgid:
		return exists && info.Mode()&os.ModeSetgid != 0, nil
	case host.OpSticky:
		return exists && info.Mode()&os.ModeSticky != 0, nil
	case host.OpBlockDevice:
		return exists && info.Mode()&os.ModeDevice != 0 && info.Mode()&os.ModeCharDevice == 0, nil
	case host.OpCharDevice:
		return exists && info.Mode()&os.ModeCharDevice != 0, nil
	case host.OpOwnedByEUID:
		return exists && statUID(info) == os.Geteuid(), nil
	case host.OpOwnedByEGID:
		return exists && statGID(info) == os.Getegid(), nil
	case host.OpModifiedSinceLastRead, host.OpFDIsTerminal:
		return false, nil
	case host.OpNewerThan:
		other, err := os.Stat(path2)
		if err != nil || !exists {
			return false, nil
		}
		return info.ModTime().After(other.ModTime()), nil
	case host.OpOlderThan:
		other, err := os.Stat(path2)
		if err != nil || !exists {
			return false, nil
		}
		return info.ModTime().Before(other.ModTime()), nil
	case host.OpSameDeviceAndInode:
		other, err := os.Stat(path2)
		if err != nil || !exists {
			return false, nil
		}
		return os.SameFile(info, other), nil
	default:
		return false, fmt.Errorf("oshost: unsupported path test %q", op)
	}
}

// canOpen reports whether path can be opened with flag, the simplest
// portable stand-in for a real access(2) check: it actually attempts
// the open rather than interpreting permission bits, so it agrees with
// the OS even under ACLs or a non-matching euid/egid.
func canOpen(path string, flag int) bool {
	f, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return false
	}
	_ = f.Close()
	return true
}

// statUID and statGID reach into the raw stat result for the owning
// uid/gid; os.FileInfo has no portable accessor for either.
func statUID(info os.FileInfo) int {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return int(st.Uid)
	}
	return -1
}

func statGID(info os.FileInfo) int {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return int(st.Gid)
	}
	return -1
}

var (
	_ host.Shell        = (*Host)(nil)
	_ host.PathResolver = (*Host)(nil)
	_ host.HomeResolver = (*Host)(nil)
	_ host.FileReader   = (*Host)(nil)
	_ host.PathTester   = (*Host)(nil)
)
