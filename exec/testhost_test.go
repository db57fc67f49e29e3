package exec

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/shellwalk/shellcore/host"
)

// memHost is an in-memory host.Shell fake for exec's own tests: pipes
// are buffers guarded by a condition variable so a reader blocks until
// the writer side closes, mirroring a real pipe's EOF semantics well
// enough to exercise the pipeline fan-out concurrently.
type memHost struct {
	mu     sync.Mutex
	cond   *sync.Cond
	pipes  map[string]*strings.Builder
	closed map[string]bool
	files  map[string]string
	next   int
}

func newMemHost() *memHost {
	h := &memHost{
		pipes:  map[string]*strings.Builder{},
		closed: map[string]bool{},
		files:  map[string]string{},
	}
	h.cond = sync.NewCond(&h.mu)
	return h
}

func (h *memHost) PipeOpen(context.Context) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.next++
	name := fmt.Sprintf("pipe:%d", h.next)
	h.pipes[name] = &strings.Builder{}
	return name, nil
}

func (h *memHost) PipeWrite(_ context.Context, name, data string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if b, ok := h.pipes[name]; ok {
		b.WriteString(data)
	}
	return nil
}

func (h *memHost) PipeClose(_ context.Context, name string) error {
	h.mu.Lock()
	h.closed[name] = true
	h.mu.Unlock()
	h.cond.Broadcast()
	return nil
}

func (h *memHost) PipeRead(_ context.Context, name string) (string, error) {
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

func (h *memHost) PipeRemove(_ context.Context, name string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.pipes, name)
	delete(h.closed, name)
	return nil
}

func (h *memHost) IsPipe(name string) bool {
	return strings.HasPrefix(name, "pipe:")
}

func (h *memHost) PipeFromFile(_ context.Context, path, pipe string) (func() error, error) {
	h.mu.Lock()
	data := h.files[path]
	h.mu.Unlock()
	_ = h.PipeWrite(context.Background(), pipe, data)
	_ = h.PipeClose(context.Background(), pipe)
	return func() error { return nil }, nil
}

func (h *memHost) PipeToFile(_ context.Context, pipe, path string, append bool) (func() error, error) {
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
		return nil
	}, nil
}

func (h *memHost) Execute(goCtx context.Context, name string, args []string, opts host.ExecOptions) (int, error) {
	switch name {
	case "true":
		return 0, nil
	case "false":
		return 1, nil
	case "echo":
		h.writeStdout(goCtx, opts, strings.Join(args, " ")+"\n")
		return 0, nil
	case "cat":
		h.writeStdout(goCtx, opts, h.readStdin(goCtx, opts))
		return 0, nil
	case "wc":
		n := len(strings.Fields(h.readStdin(goCtx, opts)))
		h.writeStdout(goCtx, opts, fmt.Sprintf("%d\n", n))
		return 0, nil
	case "missing-command":
		return 127, fmt.Errorf("not found")
	default:
		return 127, fmt.Errorf("unknown command %q", name)
	}
}

func (h *memHost) readStdin(goCtx context.Context, opts host.ExecOptions) string {
	if opts.Stdin == "" {
		return ""
	}
	data, _ := h.PipeRead(goCtx, opts.Stdin)
	return data
}

func (h *memHost) writeStdout(goCtx context.Context, opts host.ExecOptions, data string) {
	if opts.Stdout == "" {
		return
	}
	_ = h.PipeWrite(goCtx, opts.Stdout, data)
}
