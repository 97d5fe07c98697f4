package natshandler

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	nats "github.com/nats-io/nats.go"
	"gotest.tools/v3/assert"

	"github.com/ohowland/ybus_core/internal/lib/fixture"
	"github.com/ohowland/ybus_core/internal/pkg/area"
	"github.com/ohowland/ybus_core/internal/pkg/model"
	"github.com/ohowland/ybus_core/internal/pkg/msg"
	"github.com/ohowland/ybus_core/internal/pkg/service"
)

func newService(t *testing.T) *service.Service {
	t.Helper()
	store := fixture.New(nil)
	store.Put("_F1", model.SwitchingEquipmentSwitchNames, model.Record{
		"sw_name": "sw1", "is_Open": "false", "bus1": "n1", "bus2": "n2", "phases_side1": "A",
	})
	a, err := area.New("_F1", area.Feeder)
	assert.NilError(t, err)
	svc, err := service.New(context.Background(), &a, model.NewQuery(store, "_F1"), service.Options{})
	assert.NilError(t, err)
	return svc
}

func TestSubject(t *testing.T) {
	assert.Equal(t, Subject("ybus", "_F1.0", "request"), "ybus._F1.0.request")
}

func TestReply(t *testing.T) {
	svc := newService(t)

	resp := service.Response{}
	assert.NilError(t, json.Unmarshal(reply(context.Background(), svc, []byte(`{"requestType": "is_initialized"}`)), &resp))
	assert.Assert(t, *resp.IsInitialized)

	resp = service.Response{}
	assert.NilError(t, json.Unmarshal(reply(context.Background(), svc, []byte(`{"requestType": "LocalYbus"}`)), &resp))
	assert.Equal(t, len(*resp.Ybus), 2)

	resp = service.Response{}
	assert.NilError(t, json.Unmarshal(reply(context.Background(), svc, []byte(`not json`)), &resp))
	assert.Assert(t, strings.HasPrefix(resp.Error, "malformed request"))
}

func TestServerDefaultsToLocal(t *testing.T) {
	h := Handler{config: Config{Servers: map[string]string{"_F1.0": "nats://bus:4222"}}}
	assert.Equal(t, h.server("_F1"), nats.DefaultURL)
	assert.Equal(t, h.server("_F1.0"), "nats://bus:4222")
}

// Needs a running server named by YBUS_TEST_NATS_URL
func TestRequestReply(t *testing.T) {
	url := os.Getenv("YBUS_TEST_NATS_URL")
	if url == "" {
		t.Skip("YBUS_TEST_NATS_URL not set")
	}
	registry := service.NewRegistry()
	assert.NilError(t, registry.Add(newService(t)))
	pub := msg.NewPublisher(uuid.New())

	h, err := New(Config{Servers: map[string]string{"_F1": url}}, registry, pub)
	assert.NilError(t, err)
	go h.Process()
	defer h.Stop()
	time.Sleep(500 * time.Millisecond)

	nc, err := nats.Connect(url)
	assert.NilError(t, err)
	defer nc.Close()

	m, err := nc.Request(Subject("ybus", "_F1", "request"), []byte(`{"requestType": "is_initialized"}`), 2*time.Second)
	assert.NilError(t, err)
	resp := service.Response{}
	assert.NilError(t, json.Unmarshal(m.Data, &resp))
	assert.Assert(t, *resp.IsInitialized)
}
