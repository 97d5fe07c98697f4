// Package fixture is a Source backed by a JSON document of the form
// {"<area id>": {"<category>": [records]}}.
package fixture

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"sort"
	"sync"

	"github.com/ohowland/ybus_core/internal/pkg/model"
)

// Store holds every record in memory
type Store struct {
	mux   *sync.RWMutex
	areas map[string]map[model.Category][]model.Record
}

// New wraps records already in memory
func New(areas map[string]map[model.Category][]model.Record) *Store {
	if areas == nil {
		areas = make(map[string]map[model.Category][]model.Record)
	}
	return &Store{mux: &sync.RWMutex{}, areas: areas}
}

// Load reads a fixture file
func Load(path string) (*Store, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	areas := make(map[string]map[model.Category][]model.Record)
	if err := json.Unmarshal(data, &areas); err != nil {
		return nil, fmt.Errorf("fixture %v: %w", path, err)
	}
	return New(areas), nil
}

// Records implements model.Source. An unknown area or category yields
// no records.
func (s *Store) Records(ctx context.Context, areaID string, c model.Category) ([]model.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mux.RLock()
	defer s.mux.RUnlock()
	return s.areas[areaID][c], nil
}

// Put appends records to one category of an area
func (s *Store) Put(areaID string, c model.Category, records ...model.Record) {
	s.mux.Lock()
	defer s.mux.Unlock()
	if s.areas[areaID] == nil {
		s.areas[areaID] = make(map[model.Category][]model.Record)
	}
	s.areas[areaID][c] = append(s.areas[areaID][c], records...)
}

// Areas lists the area ids present, sorted
func (s *Store) Areas() []string {
	s.mux.RLock()
	defer s.mux.RUnlock()
	ids := make([]string, 0, len(s.areas))
	for id := range s.areas {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
