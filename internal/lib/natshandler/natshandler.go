// Package natshandler serves the area request protocol over NATS and
// forwards service status events to the message bus.
package natshandler

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	nats "github.com/nats-io/nats.go"

	"github.com/ohowland/ybus_core/internal/pkg/msg"
	"github.com/ohowland/ybus_core/internal/pkg/service"
)

type Handler struct {
	mux      *sync.Mutex
	inbox    <-chan msg.Msg
	pid      uuid.UUID
	config   Config
	registry *service.Registry
	stop     chan bool
}

// Config names the subject prefix and the NATS server of each area. An
// area without a server uses nats.DefaultURL.
type Config struct {
	Prefix         string
	Servers        map[string]string
	RequestTimeout time.Duration
}

func (h Handler) PID() uuid.UUID {
	return h.pid
}

func New(cfg Config, registry *service.Registry, system msg.Publisher) (Handler, error) {
	pid, err := uuid.NewUUID()
	if err != nil {
		return Handler{}, err
	}
	chStatus, err := system.Subscribe(pid, msg.Status)
	if err != nil {
		return Handler{}, err
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "ybus"
	}
	return Handler{
		mux:      &sync.Mutex{},
		inbox:    chStatus,
		pid:      pid,
		config:   cfg,
		registry: registry,
		stop:     make(chan bool),
	}, nil
}

// Subject is the NATS subject of one area and kind, e.g.
// ybus.<area id>.request
func Subject(prefix, areaID, kind string) string {
	return prefix + "." + areaID + "." + kind
}

func (h Handler) server(areaID string) string {
	if url, ok := h.config.Servers[areaID]; ok && url != "" {
		return url
	}
	return nats.DefaultURL
}

// reply decodes one request and encodes the service's response
func reply(ctx context.Context, svc *service.Service, data []byte) []byte {
	req := service.Request{}
	var resp service.Response
	if err := json.Unmarshal(data, &req); err != nil {
		resp = service.Response{Error: "malformed request: " + err.Error()}
	} else {
		resp = svc.Handle(ctx, req)
	}
	out, err := json.Marshal(resp)
	if err != nil {
		out, _ = json.Marshal(service.Response{Error: err.Error()})
	}
	return out
}

func (h *Handler) Stop() {
	h.stop <- true
}

func (h Handler) connect() (map[string]*nats.Conn, error) {
	conns := make(map[string]*nats.Conn)
	for _, svc := range h.registry.Services() {
		url := h.server(svc.Area().ID)
		if _, ok := conns[url]; ok {
			continue
		}
		nc, err := nats.Connect(url, nats.Name("ybus-"+h.pid.String()))
		if err != nil {
			for _, c := range conns {
				c.Close()
			}
			return nil, err
		}
		conns[url] = nc
	}
	return conns, nil
}

func (h Handler) subscribe(conns map[string]*nats.Conn) error {
	for _, svc := range h.registry.Services() {
		svc := svc
		id := svc.Area().ID
		nc := conns[h.server(id)]
		subject := Subject(h.config.Prefix, id, "request")
		_, err := nc.Subscribe(subject, func(m *nats.Msg) {
			ctx := context.Background()
			if h.config.RequestTimeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, h.config.RequestTimeout)
				defer cancel()
			}
			if err := m.Respond(reply(ctx, svc, m.Data)); err != nil {
				log.Printf("[NATS client] %v: unable to respond: %v", id, err)
			}
		})
		if err != nil {
			return err
		}
		log.Printf("[NATS client] %v listening on %v", id, subject)
	}
	return nil
}

func (h Handler) Process() {
	log.Println("[NATS client] Process Started")
	conns, err := h.connect()
	if err != nil {
		log.Printf("[NATS client] unable to connect: %v", err)
		return
	}
	defer func() {
		for _, nc := range conns {
			nc.Close()
		}
	}()
	if err := h.subscribe(conns); err != nil {
		log.Printf("[NATS client] unable to subscribe: %v", err)
		return
	}

loop:
	for {
		select {
		case m, ok := <-h.inbox:
			if !ok {
				break loop
			}
			status, ok := m.Payload().(service.Status)
			if !ok {
				continue
			}
			data, err := json.Marshal(status)
			if err != nil {
				continue
			}
			nc := conns[h.server(status.AreaID)]
			if nc == nil {
				continue
			}
			if err = nc.Publish(Subject(h.config.Prefix, status.AreaID, "status"), data); err != nil {
				log.Printf("[NATS client] unable to publish to nats server: %v", err)
			}

		case <-h.stop:
			break loop
		}
	}
	log.Println("[NATS client] Process Shutdown")
}
