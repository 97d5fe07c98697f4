// Package webservice is the HTTP surface of the area services
package webservice

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ohowland/ybus_core/internal/pkg/metrics"
	"github.com/ohowland/ybus_core/internal/pkg/service"
)

type Config struct {
	Addr string
}

type App struct {
	Registry *service.Registry
	Metrics  *metrics.Metrics
	Config   Config
}

// AreaInfo is one entry of GET /areas
type AreaInfo struct {
	ID            string `json:"id"`
	Level         string `json:"level"`
	Parent        string `json:"parent,omitempty"`
	IsInitialized bool   `json:"is_initialized"`
	Built         bool   `json:"built"`
}

func (app *App) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/", app.BaseHandler)
	r.HandleFunc("/areas", app.AreasHandler).Methods("GET")
	r.HandleFunc("/areas/{id}/ybus", app.YbusHandler).Methods("GET")
	r.HandleFunc("/areas/{id}/initialized", app.InitializedHandler).Methods("GET")
	r.HandleFunc("/areas/{id}/summary", app.SummaryHandler).Methods("GET")
	r.Handle("/metrics", app.Metrics.Handler()).Methods("GET")
	return r
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	body, err := json.Marshal(v)
	if err != nil {
		log.Println("[Webservice] malformed JSON:", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(code)
	w.Write(body)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func (app *App) service(w http.ResponseWriter, r *http.Request) (*service.Service, bool) {
	id := mux.Vars(r)["id"]
	svc, ok := app.Registry.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, errors.New("unknown area "+id))
	}
	return svc, ok
}

func (app *App) BaseHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(http.StatusOK)
}

func (app *App) AreasHandler(w http.ResponseWriter, r *http.Request) {
	out := []AreaInfo{}
	for _, svc := range app.Registry.Services() {
		a := svc.Area()
		out = append(out, AreaInfo{
			ID:            a.ID,
			Level:         a.Level.String(),
			Parent:        a.Parent,
			IsInitialized: svc.IsInitialized(),
			Built:         svc.Built(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (app *App) YbusHandler(w http.ResponseWriter, r *http.Request) {
	svc, ok := app.service(w, r)
	if !ok {
		return
	}
	m, err := svc.Ybus(r.Context())
	if err != nil {
		log.Printf("[Webservice] %v: %v", svc.Area().ID, err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (app *App) InitializedHandler(w http.ResponseWriter, r *http.Request) {
	svc, ok := app.service(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, svc.Handle(r.Context(), service.Request{RequestType: service.RequestIsInitialized}))
}

func (app *App) SummaryHandler(w http.ResponseWriter, r *http.Request) {
	svc, ok := app.service(w, r)
	if !ok {
		return
	}
	summary, built := svc.Summary()
	if !built {
		writeError(w, http.StatusNotFound, errors.New("area "+svc.Area().ID+" has not been built"))
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// ListenAndServe blocks serving the router on the configured address
func (app *App) ListenAndServe() error {
	log.Println("[Webservice] Starting Server on", app.Config.Addr)
	return http.ListenAndServe(app.Config.Addr, app.Router())
}
