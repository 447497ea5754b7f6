package engine

import (
	"fmt"
	"sync"
	"time"
)

// DefaultTimeout is the evaluation limit of an Engine built without
// WithTimeout.
const DefaultTimeout = 5 * time.Second

// evalResult carries one evaluation's output back from its goroutine.
type evalResult struct {
	result *Result
	errors []EvalError
	err    error
}

// waitWithTimeout waits for a result from ch, but returns a timeout error
// if the evaluation exceeds timeout. Results of evaluations that were
// superseded by a newer call are discarded.
//
// On timeout the goroutine keeps running against its own model; nothing
// else observes that model, so it is simply dropped.
func waitWithTimeout(
	ch <-chan evalResult,
	gen uint64,
	timeout time.Duration,
	mu *sync.Mutex,
	currentGen *uint64,
) (*Result, []EvalError, error) {
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
		return res.result, res.errors, res.err

	case <-timer.C:
		return nil, nil, fmt.Errorf("evaluation timed out after %s", timeout)
	}
}
