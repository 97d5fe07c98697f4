package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rivo/tview"
	"gotest.tools/v3/assert"

	"github.com/ohowland/ybus_core/internal/pkg/ybus"
)

func TestRowsOrderByBusThenPhase(t *testing.T) {
	s := ybus.Serializable{
		"n2.1":  {"n2.1": {1, -1}},
		"n10.1": {"n10.1": {3, -3}},
		"n1.2":  {"n1.1": {-2, 2}, "n1.2": {2, -2}},
	}
	rs := rows(s)
	got := []string{}
	for _, r := range rs {
		got = append(got, r.From+"/"+r.To)
	}
	assert.DeepEqual(t, got, []string{"n1.2/n1.1", "n1.2/n1.2", "n10.1/n10.1", "n2.1/n2.1"})
	assert.Equal(t, rs[0].G, -2.0)
	assert.Equal(t, rs[0].B, 2.0)
}

func TestFill(t *testing.T) {
	table := tview.NewTable()
	fill(table, []Row{{"a.1", "a.1", 1, -1}, {"a.1", "b.1", -1, 1}})
	assert.Equal(t, table.GetRowCount(), 3)
	assert.Equal(t, table.GetCell(0, 2).Text, "G (S)")
	assert.Equal(t, table.GetCell(2, 1).Text, "b.1")
	assert.Equal(t, table.GetCell(2, 3).Text, "1")
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/areas/_F1/ybus" {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "unknown area"})
			return
		}
		json.NewEncoder(w).Encode(ybus.Serializable{"a.1": {"a.1": {1, -1}}})
	}))
	defer srv.Close()

	s, err := fetch(context.Background(), srv.URL, "_F1")
	assert.NilError(t, err)
	assert.Equal(t, s["a.1"]["a.1"], [2]float64{1, -1})

	_, err = fetch(context.Background(), srv.URL, "_F9")
	assert.ErrorContains(t, err, "unknown area")
}
