package area

import (
	"fmt"
	"sort"
)

// Graph is an adjacency list from each area to the areas beneath it
type Graph struct {
	areas         map[string]Area
	adjacencyList map[string][]string
}

func NewGraph() *Graph {
	return &Graph{
		areas:         make(map[string]Area),
		adjacencyList: make(map[string][]string),
	}
}

// AddNode registers an area
func (g *Graph) AddNode(a Area) error {
	if _, exists := g.areas[a.ID]; exists {
		return fmt.Errorf("area %v already exists in graph", a.ID)
	}
	g.areas[a.ID] = a
	g.adjacencyList[a.ID] = make([]string, 0)
	return nil
}

// AddDirectedEdge links a parent to a child. Both must be registered.
func (g *Graph) AddDirectedEdge(from, to string) error {
	edges, exists := g.adjacencyList[from]
	if !exists {
		return fmt.Errorf("start area %v: %w", from, ErrMissingParent)
	}
	if _, exists := g.adjacencyList[to]; !exists {
		return fmt.Errorf("end area %v does not exist in graph", to)
	}
	g.adjacencyList[from] = append(edges, to)
	return nil
}

// Add registers an area and links it under its parent
func (g *Graph) Add(a Area) error {
	if a.Level != Feeder {
		if _, ok := g.areas[a.Parent]; !ok {
			return fmt.Errorf("%v %v: parent %v: %w", a.Level, a.ID, a.Parent, ErrMissingParent)
		}
	}
	if err := g.AddNode(a); err != nil {
		return err
	}
	if a.Level == Feeder {
		return nil
	}
	return g.AddDirectedEdge(a.Parent, a.ID)
}

// Get is an accessor for a registered area
func (g *Graph) Get(id string) (Area, bool) {
	a, ok := g.areas[id]
	return a, ok
}

// Children returns the areas directly beneath id
func (g *Graph) Children(id string) []Area {
	out := make([]Area, 0)
	for _, c := range g.adjacencyList[id] {
		out = append(out, g.areas[c])
	}
	return out
}

// Len is the number of registered areas
func (g *Graph) Len() int {
	return len(g.areas)
}

// Walk visits every area breadth first from the feeders, in id order
// within each level.
func (g *Graph) Walk(visit func(Area)) {
	roots := make([]string, 0)
	for id, a := range g.areas {
		if a.Level == Feeder {
			roots = append(roots, id)
		}
	}
	sort.Strings(roots)

	queue := roots
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		visit(g.areas[id])
		children := append([]string(nil), g.adjacencyList[id]...)
		sort.Strings(children)
		queue = append(queue, children...)
	}
}
