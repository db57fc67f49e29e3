package builtin

import (
	"context"

	"github.com/shellwalk/shellcore/exec"
	"github.com/shellwalk/shellcore/internal/testhost"
	"github.com/shellwalk/shellcore/shellcontext"
	"github.com/shellwalk/shellcore/signal"
)

// newCtx returns a fresh BuiltinContext rooted at /home/work, backed by
// h (a new testhost.Host if nil), with sc available for assertions.
// Run defaults to doing nothing and reporting success, since most
// builtin tests never exercise eval/source/let's re-entry path; tests
// that do override it explicitly.
func newCtx(h *testhost.Host) (*exec.BuiltinContext, *shellcontext.Context) {
	if h == nil {
		h = testhost.New()
	}
	sc := shellcontext.NewRoot("/home/work")
	bc := &exec.BuiltinContext{
		GoCtx: context.Background(),
		Sc:    sc,
		Host:  h,
		Run:   func(*shellcontext.Context, string) signal.Status { return signal.Ok(0) },
	}
	return bc, sc
}
