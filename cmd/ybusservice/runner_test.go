package main

import (
	"sync/atomic"
	"testing"
	"time"

	"gotest.tools/v3/assert"
)

type loop struct {
	stop     chan bool
	finished *int32
}

func newLoop(finished *int32) loop {
	return loop{stop: make(chan bool), finished: finished}
}

func (l loop) Process() {
	<-l.stop
	time.Sleep(10 * time.Millisecond)
	atomic.AddInt32(l.finished, 1)
}

func (l loop) Stop() { l.stop <- true }

func TestShutdownWaitsForEveryLoop(t *testing.T) {
	var finished int32
	r := &runner{}
	for i := 0; i < 3; i++ {
		l := newLoop(&finished)
		r.start(l.Process, l.Stop)
	}
	assert.Assert(t, r.shutdown(time.Second))
	assert.Equal(t, atomic.LoadInt32(&finished), int32(3))
}

func TestShutdownTimesOut(t *testing.T) {
	r := &runner{}
	stuck := make(chan struct{})
	defer close(stuck)
	r.start(func() { <-stuck }, func() {})
	assert.Assert(t, !r.shutdown(20*time.Millisecond))
}
