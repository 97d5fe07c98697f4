package sqldb

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ohowland/ybus_core/internal/pkg/msg"
	"github.com/ohowland/ybus_core/internal/pkg/service"
)

// Handler upserts every published build result into ybus_results
type Handler struct {
	mux    *sync.Mutex
	inbox  <-chan msg.Msg
	pid    uuid.UUID
	config config
	stop   chan bool
}

type config struct {
	Driver string `json:"Driver"`
	DSN    string `json:"DSN"`
}

func New(driver, dsn string, system msg.Publisher) (Handler, error) {
	pid, err := uuid.NewUUID()
	if err != nil {
		return Handler{}, err
	}
	inbox, err := system.Subscribe(pid, msg.Ybus)
	if err != nil {
		return Handler{}, err
	}
	return Handler{
		mux:    &sync.Mutex{},
		inbox:  inbox,
		pid:    pid,
		config: config{Driver: driver, DSN: dsn},
		stop:   make(chan bool),
	}, nil
}

func (h Handler) PID() uuid.UUID {
	return h.pid
}

func (h *Handler) Stop() {
	h.stop <- true
}

func upsert(driver string) string {
	if driver == MySQL {
		return `INSERT INTO ybus_results (area_id, ybus, summary) VALUES (?, ?, ?)
			ON DUPLICATE KEY UPDATE ybus = VALUES(ybus), summary = VALUES(summary)`
	}
	return `INSERT INTO ybus_results (area_id, ybus, summary) VALUES ($1, $2, $3)
		ON CONFLICT (area_id) DO UPDATE SET ybus = EXCLUDED.ybus, summary = EXCLUDED.summary`
}

func (h Handler) write(db *sql.DB, r service.Result) error {
	y, err := json.Marshal(r.Ybus)
	if err != nil {
		return err
	}
	s, err := json.Marshal(r.Summary)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err = db.ExecContext(ctx, upsert(h.config.Driver), r.AreaID, string(y), string(s))
	return err
}

func (h Handler) Process() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := Open(ctx, h.config.Driver, h.config.DSN)
	if err == nil {
		err = InitDB(ctx, db, h.config.Driver)
	}
	cancel()
	if err != nil {
		log.Println("[SQL]", err)
		return
	}
	defer db.Close()

loop:
	for {
		select {
		case m := <-h.inbox:
			r, ok := m.Payload().(service.Result)
			if !ok {
				continue
			}
			if err := h.write(db, r); err != nil {
				log.Printf("[SQL] error %s updating db for %v", err, r.AreaID)
			}

		case <-h.stop:
			break loop
		}
	}
	log.Println("[SQL] Process Shutdown")
}
