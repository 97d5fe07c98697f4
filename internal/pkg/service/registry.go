package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
)

// Registry holds one service per area id
type Registry struct {
	mux      *sync.RWMutex
	services map[string]*Service
}

func NewRegistry() *Registry {
	return &Registry{mux: &sync.RWMutex{}, services: make(map[string]*Service)}
}

// Add registers s under its area id
func (r *Registry) Add(s *Service) error {
	r.mux.Lock()
	defer r.mux.Unlock()
	id := s.Area().ID
	if _, ok := r.services[id]; ok {
		return fmt.Errorf("service for area %v already registered", id)
	}
	r.services[id] = s
	return nil
}

// Get is an accessor for the service of an area
func (r *Registry) Get(id string) (*Service, bool) {
	r.mux.RLock()
	defer r.mux.RUnlock()
	s, ok := r.services[id]
	return s, ok
}

// Services returns every service in area id order
func (r *Registry) Services() []*Service {
	r.mux.RLock()
	defer r.mux.RUnlock()
	ids := make([]string, 0, len(r.services))
	for id := range r.services {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]*Service, len(ids))
	for i, id := range ids {
		out[i] = r.services[id]
	}
	return out
}

// BuildAll builds every initialized area concurrently. Failures are
// logged per area and returned keyed by area id; they never stop the
// other builds.
func (r *Registry) BuildAll(ctx context.Context) map[string]error {
	services := r.Services()
	errs := make(map[string]error)
	var mux sync.Mutex
	var wg sync.WaitGroup
	for _, s := range services {
		if !s.IsInitialized() {
			continue
		}
		wg.Add(1)
		go func(s *Service) {
			defer wg.Done()
			if _, err := s.Ybus(ctx); err != nil {
				log.Printf("[Registry] %v: %v", s.Area().ID, err)
				mux.Lock()
				errs[s.Area().ID] = err
				mux.Unlock()
			}
		}(s)
	}
	wg.Wait()
	return errs
}
