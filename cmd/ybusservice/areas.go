package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ohowland/ybus_core/internal/lib/fixture"
	"github.com/ohowland/ybus_core/internal/lib/mongodb"
	"github.com/ohowland/ybus_core/internal/lib/sqldb"
	"github.com/ohowland/ybus_core/internal/pkg/area"
	"github.com/ohowland/ybus_core/internal/pkg/config"
	"github.com/ohowland/ybus_core/internal/pkg/model"
	"github.com/ohowland/ybus_core/internal/pkg/service"
)

// loadBuses reads the bus definitions named on the command line into an
// area graph. The server URL of every area is returned by area id. The
// system bus carries no Ybus of its own; its server is used by every area
// whose definition names none.
func loadBuses(args map[string]string) (*area.Graph, map[string]string, error) {
	g := area.NewGraph()
	servers := make(map[string]string)
	systemURL := ""

	add := func(def config.BusDefinition, level area.Level) error {
		a, err := area.New(def.ID, level)
		if err != nil {
			return err
		}
		if err := g.Add(a); err != nil {
			return err
		}
		servers[a.ID] = def.ServerURL()
		log.Printf("[Main] %v area %v", level, a.ID)
		return nil
	}

	if path, ok := args[SystemBusConfigFile]; ok {
		def, err := config.LoadBusDefinition(path)
		if err != nil {
			return nil, nil, err
		}
		systemURL = def.ServerURL()
		log.Printf("[Main] system bus %v at %v", def.ID, systemURL)
	}
	if path, ok := args[FeederBusConfigFile]; ok {
		def, err := config.LoadBusDefinition(path)
		if err != nil {
			return nil, nil, err
		}
		if err := add(def, area.Feeder); err != nil {
			return nil, nil, err
		}
	}
	for _, level := range []struct {
		key   string
		level area.Level
	}{
		{SwitchBusConfigFileDir, area.SwitchArea},
		{SecondaryBusConfigFileDir, area.SecondaryArea},
	} {
		dir, ok := args[level.key]
		if !ok {
			continue
		}
		defs, err := config.LoadBusDirectory(dir)
		if err != nil {
			return nil, nil, err
		}
		for _, def := range defs {
			if err := add(def, level.level); err != nil {
				return nil, nil, err
			}
		}
	}
	if g.Len() == 0 {
		return nil, nil, fmt.Errorf("no areas defined; pass %v", FeederBusConfigFile)
	}
	for id, url := range servers {
		if url == "" {
			servers[id] = systemURL
		}
	}
	return g, servers, nil
}

// openSource connects the configured element store. The returned closer
// releases it.
func openSource(ctx context.Context, cfg config.Config) (model.Source, func(), error) {
	switch cfg.Store {
	case config.StoreFixture:
		store, err := fixture.Load(cfg.URI)
		return store, func() {}, err
	case config.StoreMongoDB:
		client, err := mongodb.Connect(ctx, cfg.URI)
		if err != nil {
			return nil, nil, err
		}
		return mongodb.NewSource(client.Database(cfg.Database)), func() { disconnect(client) }, nil
	case config.StorePostgres, config.StoreMySQL:
		db, err := sqldb.Open(ctx, cfg.Store, cfg.URI)
		if err != nil {
			return nil, nil, err
		}
		if err := sqldb.InitDB(ctx, db, cfg.Store); err != nil {
			db.Close()
			return nil, nil, err
		}
		return sqldb.NewSource(db, cfg.Store), func() { closeDB(db) }, nil
	}
	return nil, nil, fmt.Errorf("unknown store %q", cfg.Store)
}

func disconnect(c *mongo.Client) {
	if err := c.Disconnect(context.Background()); err != nil {
		log.Println("[Main]", err)
	}
}

func closeDB(db *sql.DB) {
	if err := db.Close(); err != nil {
		log.Println("[Main]", err)
	}
}

// buildRegistry creates one service per area, top down. Secondary areas
// without elements are left out.
func buildRegistry(ctx context.Context, g *area.Graph, src model.Source, opts service.Options) (*service.Registry, error) {
	registry := service.NewRegistry()
	var err error
	g.Walk(func(a area.Area) {
		if err != nil {
			return
		}
		var svc *service.Service
		svc, err = service.New(ctx, &a, model.NewQuery(src, a.ID), opts)
		if err != nil {
			return
		}
		if a.Level == area.SecondaryArea && !svc.IsInitialized() {
			log.Printf("[Main] secondary area %v has no elements, not serving it", a.ID)
			return
		}
		err = registry.Add(svc)
	})
	return registry, err
}
