// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package jobs runs batches of independent tasks on a bounded worker pool.
// The ingestion pipeline uses it to parallelize per-file reads without
// affecting the deterministic assembly order, which is fixed by the task
// slice itself.
package jobs

import (
	"context"
	"runtime"
	"sync"

	"github.com/hashicorp/go-multierror"
)

// Worker processes one task.
type Worker interface {
	Work(ctx context.Context, task interface{}) error
}

// WorkerFunc adapts a function to the Worker interface.
type WorkerFunc func(ctx context.Context, task interface{}) error

// Work calls f(ctx, task).
func (f WorkerFunc) Work(ctx context.Context, task interface{}) error {
	return f(ctx, task)
}

// Job dispatches tasks to a pool of workers.
type Job struct {
	// MaxWorkers caps the pool size; non-positive selects DefaultWorkers().
	MaxWorkers int
	// Worker processes the tasks.
	Worker Worker
	// FailFast aborts the batch on the first error instead of collecting
	// all failures into a multierror.
	FailFast bool
}

// DefaultWorkers is the pool size used when none is configured:
// min(16, 2 x number of CPUs).
func DefaultWorkers() int {
	n := 2 * runtime.NumCPU()
	if n > 16 {
		n = 16
	}
	if n < 1 {
		n = 1
	}
	return n
}

// Dispatch feeds tasks to the pool and blocks until all are processed, the
// context is cancelled or, with FailFast, the first error occurs.
func (j *Job) Dispatch(ctx context.Context, tasks []interface{}) error {
	if len(tasks) == 0 {
		return nil
	}
	workers := j.MaxWorkers
	if workers <= 0 {
		workers = DefaultWorkers()
	}
	if workers > len(tasks) {
		workers = len(tasks)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	taskCh := make(chan interface{})
	errCh := make(chan error, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			var werrs *multierror.Error
			for task := range taskCh {
				if err := j.Worker.Work(ctx, task); err != nil {
					if j.FailFast {
						errCh <- err
						cancel()
						return
					}
					werrs = multierror.Append(werrs, err)
				}
			}
			if err := werrs.ErrorOrNil(); err != nil {
				errCh <- err
			}
		}()
	}

feed:
	for _, task := range tasks {
		select {
		case taskCh <- task:
		case <-ctx.Done():
			break feed
		}
	}
	close(taskCh)
	wg.Wait()
	close(errCh)

	var errs *multierror.Error
	for err := range errCh {
		if j.FailFast {
			return err
		}
		errs = multierror.Append(errs, err)
	}
	if err := ctx.Err(); err != nil && errs.ErrorOrNil() == nil {
		return err
	}
	return errs.ErrorOrNil()
}
