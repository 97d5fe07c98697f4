// Package service serves the static Ybus of one distributed area: it
// builds the matrix at most once per process and answers the area's
// request protocol.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/ohowland/ybus_core/internal/pkg/area"
	"github.com/ohowland/ybus_core/internal/pkg/calculator"
	"github.com/ohowland/ybus_core/internal/pkg/metrics"
	"github.com/ohowland/ybus_core/internal/pkg/model"
	"github.com/ohowland/ybus_core/internal/pkg/msg"
	"github.com/ohowland/ybus_core/internal/pkg/ybus"
)

// ErrMalformedArea is returned for a service without an area or an
// element set
var ErrMalformedArea = errors.New("service is malformed")

// Publisher receives build results and status changes
type Publisher interface {
	Publish(msg.Topic, interface{})
}

// Options are the optional collaborators of a Service
type Options struct {
	Publisher Publisher
	Metrics   *metrics.Metrics
	// Timeout bounds one build. Zero means no bound.
	Timeout time.Duration
}

// Result is published on msg.Ybus after every successful build
type Result struct {
	AreaID  string             `json:"area_id"`
	Ybus    *ybus.Matrix       `json:"ybus"`
	Summary calculator.Summary `json:"summary"`
}

// Status is published on msg.Status after every build attempt
type Status struct {
	AreaID        string `json:"area_id"`
	IsInitialized bool   `json:"is_initialized"`
	Built         bool   `json:"built"`
	Error         string `json:"error,omitempty"`
}

type Service struct {
	mux         *sync.Mutex
	pid         uuid.UUID
	area        area.Area
	query       *model.Query
	opts        Options
	initialized bool

	group   singleflight.Group
	built   bool
	ybus    *ybus.Matrix
	summary calculator.Summary
}

// New binds a service to an area and probes its element set once. An
// empty element set leaves the service uninitialized.
func New(ctx context.Context, a *area.Area, q *model.Query, opts Options) (*Service, error) {
	if a == nil || q == nil {
		return nil, ErrMalformedArea
	}
	pid, err := uuid.NewUUID()
	if err != nil {
		return nil, err
	}
	q.SetObserver(opts.Metrics)

	s := &Service{
		mux:   &sync.Mutex{},
		pid:   pid,
		area:  *a,
		query: q,
		opts:  opts,
	}
	n, err := q.Probe(ctx)
	switch {
	case err == nil:
		s.initialized = true
		log.Printf("[Service] %v %v: %d element records", a.Level, a.ID, n)
	case errors.Is(err, model.ErrNoElements):
		log.Printf("[Service] %v %v has no elements", a.Level, a.ID)
	default:
		log.Printf("[Service] %v %v: probe failed: %v", a.Level, a.ID, err)
	}
	return s, nil
}

// PID returns the service's PID
func (s *Service) PID() uuid.UUID {
	return s.pid
}

// Area is an accessor for the served area
func (s *Service) Area() area.Area {
	return s.area
}

// IsInitialized reports whether the area had elements at construction
func (s *Service) IsInitialized() bool {
	return s.initialized
}

// Built reports whether a valid matrix is cached
func (s *Service) Built() bool {
	s.mux.Lock()
	defer s.mux.Unlock()
	return s.built
}

// Summary returns the summary of the cached build
func (s *Service) Summary() (calculator.Summary, bool) {
	s.mux.Lock()
	defer s.mux.Unlock()
	return s.summary, s.built
}

func (s *Service) cached() (*ybus.Matrix, bool) {
	s.mux.Lock()
	defer s.mux.Unlock()
	return s.ybus, s.built
}

// Ybus returns the area's matrix, building it if absent. Concurrent
// callers share one build; a failed build is not cached and the next
// call retries. The build itself is not bound to any caller's context.
func (s *Service) Ybus(ctx context.Context) (*ybus.Matrix, error) {
	if !s.initialized {
		return nil, fmt.Errorf("%v %v: %w", s.area.Level, s.area.ID, ErrMalformedArea)
	}
	if m, ok := s.cached(); ok {
		return m, nil
	}

	ch := s.group.DoChan(s.area.ID, func() (interface{}, error) {
		if m, ok := s.cached(); ok {
			return m, nil
		}
		return s.build()
	})
	select {
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.(*ybus.Matrix), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Service) build() (*ybus.Matrix, error) {
	ctx := context.Background()
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	start := time.Now()
	log.Printf("[Service] %v %v: building Ybus", s.area.Level, s.area.ID)
	m, summary, err := calculator.Calculate(ctx, s.query)
	s.opts.Metrics.RecordBuild(s.area.ID, err, time.Since(start))
	if err != nil {
		log.Printf("[Service] %v %v: build failed: %v", s.area.Level, s.area.ID, err)
		s.publish(msg.Status, Status{s.area.ID, s.initialized, false, err.Error()})
		return nil, fmt.Errorf("area %v: %w", s.area.ID, err)
	}
	s.opts.Metrics.RecordAnomalies(summary.Anomalies)
	s.opts.Metrics.RecordSkipped(summary.Skipped)

	s.mux.Lock()
	s.ybus = m
	s.summary = summary
	s.built = true
	s.mux.Unlock()

	s.publish(msg.Ybus, Result{s.area.ID, m, summary})
	s.publish(msg.Status, Status{s.area.ID, s.initialized, true, ""})
	return m, nil
}

func (s *Service) publish(topic msg.Topic, payload interface{}) {
	if s.opts.Publisher == nil {
		return
	}
	s.opts.Publisher.Publish(topic, payload)
}
