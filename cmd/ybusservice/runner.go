package main

import (
	"sync"
	"time"
)

// runner owns the Process loops of the message handlers
type runner struct {
	wg    sync.WaitGroup
	stops []func()
}

func (r *runner) start(process func(), stop func()) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		process()
	}()
	r.stops = append(r.stops, stop)
}

// shutdown signals every loop and waits for all of them to return. It
// reports false when timeout elapses first.
func (r *runner) shutdown(timeout time.Duration) bool {
	for _, stop := range r.stops {
		go stop()
	}
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}
