package ode

import (
	"context"
	"sync"
)

// Problem is one independent integration in a batch. Each problem must
// own its values; nothing is shared between concurrent runs.
type Problem struct {
	Sys     System
	Stepper Stepper
	X0      State
	Config  Config
	Events  []Event
}

// Batch runs every problem concurrently and returns the results in
// input order. The first run error aborts the batch.
func Batch(ctx context.Context, problems []Problem) ([]*Result, error) {
	results := make([]*Result, len(problems))
	errs := make([]error, len(problems))

	var wg sync.WaitGroup
	for i := range problems {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			p := problems[idx]
			drv := New(p.Sys, p.Stepper)
			for _, ev := range p.Events {
				drv.AddEvent(ev)
			}
			results[idx], errs[idx] = drv.Run(ctx, p.X0, p.Config)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
