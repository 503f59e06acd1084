package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/chazu/sdfkit/pkg/scene"
)

// DefaultTimeout is the limit for a single evaluation.
const DefaultTimeout = 5 * time.Second

type evalResult struct {
	scene  *scene.Scene
	errors []EvalError
	err    error
}

// waitWithTimeout waits for a result from ch for at most timeout. A result
// whose generation is no longer current is discarded.
//
// On timeout the evaluating goroutine may still be running; its result is
// dropped into the buffered channel and never read.
func waitWithTimeout(
	ch <-chan evalResult,
	gen uint64,
	timeout time.Duration,
	mu *sync.Mutex,
	currentGen *uint64,
) (*scene.Scene, []EvalError, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		mu.Lock()
		current := *currentGen
		mu.Unlock()

		if gen != current {
			return nil, nil, fmt.Errorf("evaluation superseded by newer request")
		}
		return res.scene, res.errors, res.err

	case <-timer.C:
		return nil, nil, fmt.Errorf("evaluation timed out after %s", timeout)
	}
}
