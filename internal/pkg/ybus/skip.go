package ybus

import (
	"log"
	"sort"
)

// Skipped counts elements that were left out of the matrix, keyed by reason
type Skipped map[string]int

// Note logs one skipped element and counts it. A nil Skipped only logs.
func (s Skipped) Note(component, reason, element string, detail interface{}) {
	log.Printf("[%v] skipping %v (%v): %v", component, element, reason, detail)
	if s != nil {
		s[reason]++
	}
}

// Reasons returns the recorded reasons in sorted order
func (s Skipped) Reasons() []string {
	out := make([]string, 0, len(s))
	for r := range s {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

// Total is the number of skipped elements across all reasons
func (s Skipped) Total() int {
	n := 0
	for _, c := range s {
		n += c
	}
	return n
}
