package exec

import (
	"context"
	"sync"

	"github.com/shellwalk/shellcore/ast"
	"github.com/shellwalk/shellcore/invariant"
	"github.com/shellwalk/shellcore/shellcontext"
	"github.com/shellwalk/shellcore/signal"
)

// executePipeline implements spec.md §5's pipeline orchestration: every
// stage starts concurrently, inner stages are chained through
// freshly-opened pipes, and the pipeline's status is the last stage's
// status. Adapted from the teacher's goroutine+WaitGroup fan-out, with
// host-managed pipe tokens in place of raw os.Pipe file descriptors.
func (e *Engine) executePipeline(goCtx context.Context, sc *shellcontext.Context, n *ast.Pipeline) signal.Status {
	invariant.Precondition(len(n.Stages) > 0, "pipeline must have at least one stage")
	if len(n.Stages) == 1 {
		return e.executeNode(goCtx, sc, n.Stages[0])
	}

	numStages := len(n.Stages)
	innerPipes := make([]string, numStages-1)
	for i := range innerPipes {
		p, err := e.Host.PipeOpen(goCtx)
		if err != nil {
			for j := 0; j < i; j++ {
				_ = e.Host.PipeRemove(goCtx, innerPipes[j])
			}
			return signal.Ok(1)
		}
		innerPipes[i] = p
	}
	defer func() {
		for _, p := range innerPipes {
			_ = e.Host.PipeRemove(goCtx, p)
		}
	}()

	var endpoints ioHandles
	firstStdin, err := e.bridgeEndpoint(goCtx, &endpoints, sc.Stdin(), false)
	if err != nil {
		return signal.Ok(1)
	}
	lastStdout, err := e.bridgeEndpoint(goCtx, &endpoints, sc.Stdout(), true)
	if err != nil {
		endpoints.release(goCtx, e.Host)
		return signal.Ok(1)
	}
	defer endpoints.release(goCtx, e.Host)

	statuses := make([]signal.Status, numStages)
	var wg sync.WaitGroup
	wg.Add(numStages)

	for i := 0; i < numStages; i++ {
		stageIndex := i
		go func() {
			defer wg.Done()

			child := sc.Child()
			if stageIndex == 0 {
				if firstStdin != "" {
					child.SetStdin(shellcontext.Endpoint{Name: firstStdin})
				}
			} else {
				child.SetStdin(shellcontext.Endpoint{Name: innerPipes[stageIndex-1]})
			}

			if stageIndex < numStages-1 {
				child.SetStdout(shellcontext.Endpoint{Name: innerPipes[stageIndex]})
			} else if lastStdout != "" {
				child.SetStdout(shellcontext.Endpoint{Name: lastStdout})
			}

			statuses[stageIndex] = e.executeNode(goCtx, child, n.Stages[stageIndex])

			if stageIndex < numStages-1 {
				_ = e.Host.PipeClose(goCtx, innerPipes[stageIndex])
			}
		}()
	}

	wg.Wait()
	return statuses[numStages-1]
}
