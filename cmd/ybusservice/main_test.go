package main

import (
	"context"
	"errors"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/ohowland/ybus_core/internal/lib/fixture"
	"github.com/ohowland/ybus_core/internal/pkg/area"
	"github.com/ohowland/ybus_core/internal/pkg/model"
	"github.com/ohowland/ybus_core/internal/pkg/service"
)

func TestParseArgs(t *testing.T) {
	args, err := parseArgs([]string{"FEEDER_BUS_CONFIG_FILE=/etc/feeder.yml", "SIMULATION_ID=1234"})
	assert.NilError(t, err)
	assert.Equal(t, args[FeederBusConfigFile], "/etc/feeder.yml")
	assert.Equal(t, args[SimulationID], "1234")
	assert.Equal(t, args[ServiceConfigFile], defaultServiceConfigFile)

	_, err = parseArgs(nil)
	assert.ErrorContains(t, err, "no arguments")

	_, err = parseArgs([]string{"MODEL=abc"})
	assert.ErrorContains(t, err, "invalid keyword argument, MODEL")

	_, err = parseArgs([]string{"SIMULATION_ID"})
	assert.ErrorContains(t, err, "has no value")
}

func TestLoadBuses(t *testing.T) {
	g, servers, err := loadBuses(map[string]string{
		FeederBusConfigFile:    "./testdata/feeder.yml",
		SwitchBusConfigFileDir: "./testdata/switch_level",
	})
	assert.NilError(t, err)
	assert.Equal(t, g.Len(), 2)
	assert.Equal(t, servers["_F1.0"], "nats://switch0:4222")
	assert.Equal(t, servers["_F1"], "")
}

func TestSystemBusServerIsTheDefault(t *testing.T) {
	_, servers, err := loadBuses(map[string]string{
		SystemBusConfigFile:    "./testdata/system.yml",
		FeederBusConfigFile:    "./testdata/feeder.yml",
		SwitchBusConfigFileDir: "./testdata/switch_level",
	})
	assert.NilError(t, err)
	assert.Equal(t, servers["_F1"], "nats://system:4222")
	assert.Equal(t, servers["_F1.0"], "nats://switch0:4222")
	_, ok := servers["_SYSTEM"]
	assert.Assert(t, !ok)
}

func TestLoadBusesMissingParent(t *testing.T) {
	_, _, err := loadBuses(map[string]string{
		FeederBusConfigFile:       "./testdata/feeder.yml",
		SwitchBusConfigFileDir:    "./testdata/switch_level",
		SecondaryBusConfigFileDir: "./testdata/secondary_level",
	})
	// _F1.1.0 names a switch area that is not defined
	assert.Assert(t, errors.Is(err, area.ErrMissingParent))
}

func TestBuildRegistryDropsEmptySecondaryAreas(t *testing.T) {
	g := area.NewGraph()
	for _, a := range []struct {
		id    string
		level area.Level
	}{{"_F1", area.Feeder}, {"_F1.0", area.SwitchArea}, {"_F1.0.0", area.SecondaryArea}, {"_F1.0.1", area.SecondaryArea}} {
		ar, err := area.New(a.id, a.level)
		assert.NilError(t, err)
		assert.NilError(t, g.Add(ar))
	}
	store := fixture.New(nil)
	store.Put("_F1.0.1", model.ShuntElementCapNames, model.Record{"cap_name": "c1", "b_per_section": "0.01", "bus": "n1"})

	registry, err := buildRegistry(context.Background(), g, store, service.Options{})
	assert.NilError(t, err)
	_, ok := registry.Get("_F1.0.0")
	assert.Assert(t, !ok)
	_, ok = registry.Get("_F1.0.1")
	assert.Assert(t, ok)
	// empty feeder and switch areas are still served
	assert.Equal(t, len(registry.Services()), 3)
}
