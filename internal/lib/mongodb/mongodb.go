package mongodb

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ohowland/ybus_core/internal/pkg/msg"
	"github.com/ohowland/ybus_core/internal/pkg/service"
)

// Collections written by the Handler
const (
	YbusCollection   = "ybus"
	StatusCollection = "status"
)

// Handler persists every published build result and status change
type Handler struct {
	mux    *sync.Mutex
	inbox  <-chan msg.Msg
	pid    uuid.UUID
	config config
	stop   chan bool
}

type config struct {
	URI      string `json:"URI"`
	Database string `json:"Database"`
}

func redirectMsg(chIn <-chan msg.Msg, chOut chan<- msg.Msg) {
	for m := range chIn {
		chOut <- m
	}
}

func New(uri, database string, system msg.Publisher) (Handler, error) {
	pid, err := uuid.NewUUID()
	if err != nil {
		return Handler{}, err
	}

	inbox := make(chan msg.Msg, 50)

	chYbus, err := system.Subscribe(pid, msg.Ybus)
	if err != nil {
		return Handler{}, err
	}
	go redirectMsg(chYbus, inbox)

	chStatus, err := system.Subscribe(pid, msg.Status)
	if err != nil {
		return Handler{}, err
	}
	go redirectMsg(chStatus, inbox)

	return Handler{
		mux:    &sync.Mutex{},
		inbox:  inbox,
		pid:    pid,
		config: config{URI: uri, Database: database},
		stop:   make(chan bool),
	}, nil
}

func (h Handler) PID() uuid.UUID {
	return h.pid
}

// resultToBSON stores the matrix as JSON text since bus.phase keys
// contain dots
func resultToBSON(r service.Result) (bson.D, error) {
	data, err := json.Marshal(r.Ybus)
	if err != nil {
		return nil, err
	}
	return bson.D{
		{Key: "$set", Value: bson.M{
			areaField:  r.AreaID,
			"ybus":     string(data),
			"summary":  r.Summary,
			"built_at": time.Now().UTC(),
		}},
	}, nil
}

func statusToBSON(s service.Status) bson.D {
	return bson.D{
		{Key: "$set", Value: bson.M{
			areaField:        s.AreaID,
			"is_initialized": s.IsInitialized,
			"built":          s.Built,
			"error":          s.Error,
		}},
	}
}

func (h *Handler) StopProcess() {
	h.stop <- true
}

func (h Handler) Process() {
	ctx := context.TODO()
	client, err := Connect(ctx, h.config.URI)
	if err != nil {
		log.Println("[Mongo]", err)
		return
	}
	defer client.Disconnect(ctx)
	db := client.Database(h.config.Database)
	opts := options.Update().SetUpsert(true)

loop:
	for {
		select {
		case m := <-h.inbox:
			switch m.Topic() {
			case msg.Ybus:
				r, ok := m.Payload().(service.Result)
				if !ok {
					continue
				}
				update, err := resultToBSON(r)
				if err != nil {
					log.Println("[Mongo]", r.AreaID, err)
					continue
				}
				_, err = db.Collection(YbusCollection).UpdateOne(ctx, bson.M{areaField: r.AreaID}, update, opts)
				if err != nil {
					log.Println("[Mongo]", r.AreaID, err)
				}

			case msg.Status:
				s, ok := m.Payload().(service.Status)
				if !ok {
					continue
				}
				_, err = db.Collection(StatusCollection).UpdateOne(ctx, bson.M{areaField: s.AreaID}, statusToBSON(s), opts)
				if err != nil {
					log.Println("[Mongo]", s.AreaID, err)
				}
			}
		case <-h.stop:
			break loop
		}
	}
	log.Println("[Mongo] Process Shutdown")
}
