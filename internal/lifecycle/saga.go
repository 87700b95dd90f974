package lifecycle

import (
	"context"
	"fmt"
)

// Step is one independently retryable, idempotent stage of a mutation
// sequence. The façade expresses primary-write → reconcile → rollup →
// activity-append as an ordered step list rather than implicit call
// order.
type Step struct {
	Name string
	Run  func(ctx context.Context) error
}

// RunSteps executes steps in order and stops at the first failure,
// naming the failed step in the returned error. There is no automatic
// compensation: recovery from a mid-sequence failure is re-running the
// idempotent repair operations.
func RunSteps(ctx context.Context, steps ...Step) error {
	for _, s := range steps {
		if s.Run == nil {
			continue
		}
		if err := s.Run(ctx); err != nil {
			return fmt.Errorf("step %s: %w", s.Name, err)
		}
	}
	return nil
}
