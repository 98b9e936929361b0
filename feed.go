package settle

import (
	"context"
	"sync"
)

// Verdict pairs a submitted value with its outcome.
type Verdict[T comparable] struct {
	Value T
	Valid bool
}

// Feed submits every value received from values and emits a Verdict for each
// one as it resolves. Verdicts from one window are emitted together; their
// relative order is unspecified.
//
// The returned channel is closed once values is closed and every pending
// verdict has been delivered, or when ctx is canceled.
func (v *Validator[T]) Feed(ctx context.Context, values <-chan T) <-chan Verdict[T] {
	out := make(chan Verdict[T])

	go func() {
		var wg sync.WaitGroup
		defer func() {
			wg.Wait()
			close(out)
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case value, ok := <-values:
				if !ok {
					return
				}
				result := v.Submit(value)
				wg.Add(1)
				go func() {
					defer wg.Done()
					select {
					case valid := <-result:
						select {
						case out <- Verdict[T]{Value: value, Valid: valid}:
						case <-ctx.Done():
						}
					case <-ctx.Done():
					}
				}()
			}
		}
	}()

	return out
}
