package webservice

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"gotest.tools/assert"

	"github.com/ohowland/ybus_core/internal/lib/fixture"
	"github.com/ohowland/ybus_core/internal/pkg/area"
	"github.com/ohowland/ybus_core/internal/pkg/metrics"
	"github.com/ohowland/ybus_core/internal/pkg/model"
	"github.com/ohowland/ybus_core/internal/pkg/service"
	"github.com/ohowland/ybus_core/internal/pkg/ybus"
)

func newApp(t *testing.T) *App {
	store := fixture.New(nil)
	store.Put("_F1", model.SwitchingEquipmentSwitchNames, model.Record{
		"sw_name": "sw1", "is_Open": "false", "bus1": "n1", "bus2": "n2", "phases_side1": "A",
	})
	// the line has no config so the area builds to an empty matrix
	store.Put("_F1.0", model.SequenceImpedanceLineNames, model.Record{
		"line_name": "l1", "bus1": "n1", "bus2": "n2", "length": "1", "line_config": "missing",
	})

	m := metrics.New()
	registry := service.NewRegistry()
	for _, a := range []struct {
		id    string
		level area.Level
	}{{"_F1", area.Feeder}, {"_F1.0", area.SwitchArea}, {"_F1.1", area.SwitchArea}} {
		ar, err := area.New(a.id, a.level)
		assert.NilError(t, err)
		svc, err := service.New(context.Background(), &ar, model.NewQuery(store, a.id), service.Options{Metrics: m})
		assert.NilError(t, err)
		assert.NilError(t, registry.Add(svc))
	}
	return &App{Registry: registry, Metrics: m}
}

func get(app *App, url string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "http://example.com"+url, nil)
	app.Router().ServeHTTP(w, r)
	return w
}

func TestBaseGet(t *testing.T) {
	w := get(newApp(t), "/")
	assert.Equal(t, http.StatusOK, w.Code, "get returned 200")
	assert.Equal(t, "application/json; charset=UTF-8", w.Header().Get("Content-Type"), "got expected Content-Type in response")
}

func TestAreasGet(t *testing.T) {
	w := get(newApp(t), "/areas")
	assert.Equal(t, http.StatusOK, w.Code)

	areas := []AreaInfo{}
	assert.NilError(t, json.Unmarshal(w.Body.Bytes(), &areas))
	assert.Equal(t, len(areas), 3)
	assert.Equal(t, areas[1].ID, "_F1.0")
	assert.Equal(t, areas[1].Level, "switch_area")
	assert.Equal(t, areas[1].Parent, "_F1")
	assert.Assert(t, !areas[2].IsInitialized)
}

func TestYbusGet(t *testing.T) {
	app := newApp(t)
	w := get(app, "/areas/_F1/ybus")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=UTF-8", w.Header().Get("Content-Type"))

	m := ybus.NewMatrix()
	assert.NilError(t, json.Unmarshal(w.Body.Bytes(), m))
	assert.Equal(t, m.Count(), 3)

	w = get(app, "/areas/_F1/summary")
	assert.Equal(t, http.StatusOK, w.Code)
	summary := map[string]interface{}{}
	assert.NilError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, summary["switch_entries"], 3.0)
}

func TestYbusGetUnknownArea(t *testing.T) {
	w := get(newApp(t), "/areas/_NOPE/ybus")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestYbusGetUninitializedArea(t *testing.T) {
	w := get(newApp(t), "/areas/_F1.1/ybus")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestSummaryBeforeBuild(t *testing.T) {
	w := get(newApp(t), "/areas/_F1.0/summary")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInitializedGet(t *testing.T) {
	app := newApp(t)
	w := get(app, "/areas/_F1.0/initialized")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, w.Body.String(), `{"is_initialized":true}`)

	w = get(app, "/areas/_F1.1/initialized")
	assert.Equal(t, w.Body.String(), `{"is_initialized":false}`)
}

func TestMetricsGet(t *testing.T) {
	app := newApp(t)
	get(app, "/areas/_F1/ybus")
	w := get(app, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
}
