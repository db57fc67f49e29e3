package exec

import (
	"context"

	"github.com/shellwalk/shellcore/host"
	"github.com/shellwalk/shellcore/shellcontext"
)

// ioBridge is one file<->pipe bridge the executor opened to satisfy a
// filesystem-path I/O endpoint: isWrite bridges need an explicit EOF
// close before the background copy will ever see end-of-input.
type ioBridge struct {
	pipe    string
	wait    func() error
	isWrite bool
}

// ioHandles is the resolved set of pipe tokens a command actually
// reads/writes, after bridging any filesystem-path endpoint (§5 "File
// bridging").
type ioHandles struct {
	stdin, stdout, stderr string
	bridges               []ioBridge
}

func (e *Engine) resolveIO(goCtx context.Context, ctx *shellcontext.Context) (ioHandles, error) {
	var h ioHandles
	var err error
	if h.stdin, err = e.bridgeEndpoint(goCtx, &h, ctx.Stdin(), false); err != nil {
		h.release(goCtx, e.Host)
		return ioHandles{}, err
	}
	if h.stdout, err = e.bridgeEndpoint(goCtx, &h, ctx.Stdout(), true); err != nil {
		h.release(goCtx, e.Host)
		return ioHandles{}, err
	}
	if h.stderr, err = e.bridgeEndpoint(goCtx, &h, ctx.Stderr(), true); err != nil {
		h.release(goCtx, e.Host)
		return ioHandles{}, err
	}
	return h, nil
}

// bridgeEndpoint resolves one endpoint to the pipe token a command
// should actually be wired to: a passthrough of an existing host pipe,
// or a freshly opened pipe backed by a file-streaming goroutine.
func (e *Engine) bridgeEndpoint(goCtx context.Context, h *ioHandles, ep *shellcontext.Endpoint, isWrite bool) (string, error) {
	if ep == nil {
		return "", nil
	}
	if e.Host.IsPipe(ep.Name) {
		return ep.Name, nil
	}
	p, err := e.Host.PipeOpen(goCtx)
	if err != nil {
		return "", err
	}
	var wait func() error
	if isWrite {
		wait, err = e.Host.PipeToFile(goCtx, p, ep.Name, ep.Append)
	} else {
		wait, err = e.Host.PipeFromFile(goCtx, ep.Name, p)
	}
	if err != nil {
		_ = e.Host.PipeRemove(goCtx, p)
		return "", err
	}
	h.bridges = append(h.bridges, ioBridge{pipe: p, wait: wait, isWrite: isWrite})
	return p, nil
}

// release signals EOF on every write-bridge pipe, awaits every bridge's
// background copy, then removes the pipes the executor opened. Pipes
// that were a pass-through of an existing endpoint are left untouched
// — the frame that owns them tears them down.
func (h ioHandles) release(goCtx context.Context, sh host.Shell) {
	for _, b := range h.bridges {
		if b.isWrite {
			_ = sh.PipeClose(goCtx, b.pipe)
		}
		if b.wait != nil {
			_ = b.wait()
		}
		_ = sh.PipeRemove(goCtx, b.pipe)
	}
}
