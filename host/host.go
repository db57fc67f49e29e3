// Package host declares the interfaces the core consumes from its
// embedder. The core never implements these itself — external command
// execution, pipe primitives, filesystem predicates, and tilde/glob
// resolution are all the host's responsibility.
package host

import "context"

// ExecOptions carries per-invocation flags and I/O wiring for
// Shell.Execute. Stdin/Stdout/Stderr are always pipe tokens (never
// filesystem paths) — the executor bridges any file endpoint to a
// pipe before dispatching to Execute, so the host never has to
// special-case a path here.
type ExecOptions struct {
	Async  bool // forwarded from ast.Command.Async; not awaited beyond Execute's own return
	Stdin  string
	Stdout string
	Stderr string
}

// Shell is the facade a host must implement to embed the executor.
// Every method may be called from the single-threaded cooperative
// scheduler; none are expected to be called concurrently with each
// other by the core itself (the pipeline
// orchestrator is the one place several calls are in flight at once,
// and that concurrency is the host's problem to serialize internally
// if its pipes are shared state).
type Shell interface {
	// Execute runs an external command (never a builtin or function —
	// those are dispatched internally) and returns its exit code.
	Execute(ctx context.Context, name string, args []string, opts ExecOptions) (int, error)

	// Pipe primitives. PipeClose is the EOF signal: PipeRead blocks
	// until the pipe is closed. The executor always ends input with
	// PipeClose; the hosts in this module treat a PipeWrite with empty
	// data as an ordinary empty write, not as EOF.
	PipeOpen(ctx context.Context) (string, error)
	PipeClose(ctx context.Context, name string) error
	PipeRemove(ctx context.Context, name string) error
	PipeRead(ctx context.Context, name string) (string, error)
	PipeWrite(ctx context.Context, name string, data string) error

	// IsPipe reports whether name denotes a host-managed pipe (true)
	// or a filesystem path (false).
	IsPipe(name string) bool

	// File bridging: stream a file into/out of a pipe in the
	// background. The returned wait func lets the executor await
	// completion.
	PipeFromFile(ctx context.Context, path string, pipe string) (wait func() error, err error)
	PipeToFile(ctx context.Context, pipe string, path string, append bool) (wait func() error, err error)
}

// PathResolver is an optional capability for glob (path) expansion.
// A host that doesn't implement it simply leaves globs unexpanded.
// Tilde expansion uses HomeResolver instead.
type PathResolver interface {
	// ResolvePath expands a glob pattern to matching paths. By
	// convention, return []string{pattern} when there are no matches.
	ResolvePath(ctx context.Context, pattern string) ([]string, error)
}

// HomeResolver is an optional capability for `~user` expansion.
type HomeResolver interface {
	// ResolveHomeUser returns the home directory for username, or for
	// the invoking user when username is empty. An empty return value
	// means "unknown, keep original".
	ResolveHomeUser(ctx context.Context, username string) (string, error)
}

// FileReader is an optional capability used by the `source`/`.`
// builtin.
type FileReader interface {
	ReadFile(ctx context.Context, path string) (string, error)
}

// PathTester is an optional capability backing `[[ ]]` and `test`/`[`
// file-test operators.
type PathTester interface {
	TestPath(ctx context.Context, path string, op PathTestOp, path2 string) (bool, error)
}

// PathTestOp enumerates the supported path-test operations.
type PathTestOp string

const (
	OpExists                PathTestOp = "EXISTS"
	OpRegularFile           PathTestOp = "REGULAR_FILE"
	OpDirectory             PathTestOp = "DIRECTORY"
	OpReadable              PathTestOp = "READABLE"
	OpWritable              PathTestOp = "WRITABLE"
	OpExecutable            PathTestOp = "EXECUTABLE"
	OpNonEmpty              PathTestOp = "NON_EMPTY"
	OpSymlink               PathTestOp = "SYMLINK"
	OpBlockDevice           PathTestOp = "BLOCK_DEVICE"
	OpCharDevice            PathTestOp = "CHAR_DEVICE"
	OpNamedPipe             PathTestOp = "NAMED_PIPE"
	OpSocket                PathTestOp = "SOCKET"
	OpSetgid                PathTestOp = "SETGID"
	OpSetuid                PathTestOp = "SETUID"
	OpSticky                PathTestOp = "STICKY"
	OpOwnedByEUID           PathTestOp = "OWNED_BY_EUID"
	OpOwnedByEGID           PathTestOp = "OWNED_BY_EGID"
	OpModifiedSinceLastRead PathTestOp = "MODIFIED_SINCE_LAST_READ"
	OpFDIsTerminal          PathTestOp = "FD_IS_TERMINAL"
	OpNewerThan             PathTestOp = "NEWER_THAN"
	OpOlderThan             PathTestOp = "OLDER_THAN"
	OpSameDeviceAndInode    PathTestOp = "SAME_DEVICE_AND_INODE"
)
