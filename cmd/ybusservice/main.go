package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/ohowland/ybus_core/internal/lib/mongodb"
	"github.com/ohowland/ybus_core/internal/lib/natshandler"
	"github.com/ohowland/ybus_core/internal/lib/sqldb"
	"github.com/ohowland/ybus_core/internal/lib/webservice"
	"github.com/ohowland/ybus_core/internal/pkg/config"
	"github.com/ohowland/ybus_core/internal/pkg/logging"
	"github.com/ohowland/ybus_core/internal/pkg/metrics"
	"github.com/ohowland/ybus_core/internal/pkg/msg"
	"github.com/ohowland/ybus_core/internal/pkg/service"
)

func main() {
	log.Println("[Main] Starting ybus_core v0.1.0")
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	args, err := parseArgs(os.Args[1:])
	if err != nil {
		log.Fatal("[Main] ", err)
	}
	cfg, err := config.Load(args[ServiceConfigFile])
	if err != nil {
		log.Fatal("[Main] ", err)
	}
	logging.SetDebug(cfg.Debug)

	log.Println("[Main] Loading Bus Definitions")
	graph, servers, err := loadBuses(args)
	if err != nil {
		log.Fatal("[Main] ", err)
	}

	ctx := context.Background()
	log.Println("[Main] Connecting Element Store:", cfg.Store)
	src, closeSource, err := openSource(ctx, cfg)
	if err != nil {
		log.Fatal("[Main] ", err)
	}
	defer closeSource()

	pid, _ := uuid.NewUUID()
	system := msg.NewPublisher(pid)
	m := metrics.New()
	system.SetDropObserver(m)

	log.Println("[Main] Building Area Services")
	registry, err := buildRegistry(ctx, graph, src, service.Options{
		Publisher: system,
		Metrics:   m,
		Timeout:   time.Duration(cfg.BuildTimeout) * time.Second,
	})
	if err != nil {
		log.Fatal("[Main] ", err)
	}

	handlers := &runner{}
	switch cfg.Store {
	case config.StoreMongoDB:
		log.Println("[Main] Connecting MongoDB Service")
		h, err := mongodb.New(cfg.URI, cfg.Database, system)
		if err != nil {
			log.Fatal("[Main] ", err)
		}
		handlers.start(h.Process, h.StopProcess)
	case config.StorePostgres, config.StoreMySQL:
		log.Println("[Main] Connecting SQL Service")
		h, err := sqldb.New(cfg.Store, cfg.URI, system)
		if err != nil {
			log.Fatal("[Main] ", err)
		}
		handlers.start(h.Process, h.Stop)
	}

	prefix := cfg.SubjectPrefix
	if sim, ok := args[SimulationID]; ok {
		prefix += "." + sim
	}
	log.Println("[Main] Connecting NATS Service")
	nh, err := natshandler.New(natshandler.Config{
		Prefix:         prefix,
		Servers:        servers,
		RequestTimeout: time.Duration(cfg.BuildTimeout) * time.Second,
	}, registry, system)
	if err != nil {
		log.Fatal("[Main] ", err)
	}
	handlers.start(nh.Process, nh.Stop)

	app := webservice.App{Registry: registry, Metrics: m, Config: webservice.Config{Addr: cfg.HTTPAddr}}
	go func() {
		if err := app.ListenAndServe(); err != nil {
			log.Println("[Main] webservice:", err)
		}
	}()

	log.Println("[Main] Building Ybus for every area")
	failed := registry.BuildAll(ctx)
	log.Printf("[Main] Ybus services are running: %d areas, %d failed", len(registry.Services()), len(failed))

	<-sigs
	log.Println("[Main] Stopping services")
	if !handlers.shutdown(5 * time.Second) {
		log.Println("[Main] timed out waiting for services to stop")
	}
}
