// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/gardener/repoingest/pkg/errkind"
	"github.com/google/uuid"
	"k8s.io/klog/v2"
)

// DeleteRepoAfter is how long a job record and its scratch directory are
// kept after the last state transition before the reaper removes them.
const DeleteRepoAfter = time.Hour

type record struct {
	id      uuid.UUID
	scratch string
	state   State
	updated time.Time
}

// Registry tracks active and recently finished jobs. Long-running callers
// embed one registry and run a Reaper against it; one-shot callers rely on
// the pipeline cleaning its own scratch directory.
type Registry struct {
	mu   sync.Mutex
	jobs map[uuid.UUID]*record
	now  func() time.Time
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{jobs: map[uuid.UUID]*record{}, now: time.Now}
}

// DefaultRegistry tracks jobs of callers that do not bring their own
// registry.
var DefaultRegistry = NewRegistry()

// Release drops a job from the default registry and deletes its scratch
// directory.
func Release(id uuid.UUID) error {
	return DefaultRegistry.Release(id)
}

func (r *Registry) register(id uuid.UUID, scratch string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[id] = &record{id: id, scratch: scratch, state: StateCreated, updated: r.now()}
}

func (r *Registry) setScratch(id uuid.UUID, scratch string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if job, ok := r.jobs[id]; ok {
		job.scratch = scratch
	}
}

func (r *Registry) scratchOf(id uuid.UUID) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if job, ok := r.jobs[id]; ok {
		return job.scratch
	}
	return ""
}

func (r *Registry) setState(id uuid.UUID, state State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if job, ok := r.jobs[id]; ok {
		job.state = state
		job.updated = r.now()
	}
}

// StateOf returns the recorded state of a job. The second result is false
// for unknown or released jobs.
func (r *Registry) StateOf(id uuid.UUID) (State, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return "", false
	}
	return job.state, true
}

// Release drops the job record and deletes its scratch directory.
// Releasing an unknown job is an error; releasing twice is.
func (r *Registry) Release(id uuid.UUID) error {
	r.mu.Lock()
	job, ok := r.jobs[id]
	delete(r.jobs, id)
	r.mu.Unlock()
	if !ok {
		return errkind.New(errkind.NotFound, "unknown job %s", id)
	}
	if job.scratch == "" {
		return nil
	}
	if err := os.RemoveAll(job.scratch); err != nil {
		return errkind.Wrap(errkind.IOError, err, "cannot remove scratch dir %s", job.scratch)
	}
	return nil
}

// sweep releases every job whose last transition is older than ttl.
func (r *Registry) sweep(ttl time.Duration) {
	r.mu.Lock()
	var stale []uuid.UUID
	cutoff := r.now().Add(-ttl)
	for id, job := range r.jobs {
		if job.updated.Before(cutoff) {
			stale = append(stale, id)
		}
	}
	r.mu.Unlock()
	for _, id := range stale {
		if err := r.Release(id); err != nil {
			klog.Warningf("reaping job %s: %v", id, err)
		} else {
			klog.V(4).Infof("reaped stale job %s", id)
		}
	}
}

// Reaper periodically releases registry entries that outlived their TTL.
type Reaper struct {
	Registry *Registry
	// Interval between sweeps; defaults to one minute.
	Interval time.Duration
	// TTL after the last state transition; defaults to DeleteRepoAfter.
	TTL time.Duration
}

// Run sweeps until the context is cancelled.
func (r *Reaper) Run(ctx context.Context) {
	interval := r.Interval
	if interval <= 0 {
		interval = time.Minute
	}
	ttl := r.TTL
	if ttl <= 0 {
		ttl = DeleteRepoAfter
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Registry.sweep(ttl)
		}
	}
}
