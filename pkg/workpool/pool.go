// Package workpool bounds how many functions run at once.
package workpool

import "context"

// Pool limits concurrent execution to a fixed number of slots.
type Pool struct {
	sem chan struct{}
}

// New creates a pool with the given size. A size <= 0 means 4.
func New(size int) *Pool {
	if size <= 0 {
		size = 4
	}
	return &Pool{
		sem: make(chan struct{}, size),
	}
}

// Acquire blocks until a slot is available.
func (p *Pool) Acquire() {
	p.sem <- struct{}{}
}

// Release returns a slot to the pool.
func (p *Pool) Release() {
	<-p.sem
}

// Run executes fn with a slot held.
func (p *Pool) Run(fn func()) {
	p.Acquire()
	defer p.Release()
	fn()
}

// RunContext executes fn with a slot held, respecting context cancellation.
// Returns ctx.Err() if the context is cancelled while waiting for a slot.
func (p *Pool) RunContext(ctx context.Context, fn func()) error {
	select {
	case p.sem <- struct{}{}:
		defer p.Release()
		fn()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
