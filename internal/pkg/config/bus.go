package config

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Connection arguments that may be overridden from the environment
var envOverrides = []string{
	"GRIDAPPSD_ADDRESS",
	"GRIDAPPSD_USER",
	"GRIDAPPSD_PASSWORD",
	"GRIDAPPSD_APPLICATION_ID",
	"NATS_URL",
}

// BusDefinition is one message-bus definition file
type BusDefinition struct {
	ID             string            `yaml:"id" validate:"required"`
	IsOTBus        bool              `yaml:"is_ot_bus"`
	ConnectionType string            `yaml:"connection_type"`
	ConnectionArgs map[string]string `yaml:"connection_args"`
}

type busFile struct {
	Connections BusDefinition `yaml:"connections"`
}

// ServerURL is the NATS server of the bus, empty when unset
func (b BusDefinition) ServerURL() string {
	return b.ConnectionArgs["NATS_URL"]
}

// LoadBusDefinition reads a YAML definition and applies environment
// overrides to its connection args.
func LoadBusDefinition(path string) (BusDefinition, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return BusDefinition{}, err
	}
	f := busFile{}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return BusDefinition{}, fmt.Errorf("bus definition %v: %w", path, err)
	}
	def := f.Connections
	if err := validate.Struct(def); err != nil {
		return BusDefinition{}, fmt.Errorf("bus definition %v: %w", path, err)
	}
	if def.ConnectionArgs == nil {
		def.ConnectionArgs = make(map[string]string)
	}
	for _, key := range envOverrides {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			def.ConnectionArgs[key] = v
		}
	}
	return def, nil
}

// LoadBusDirectory reads every *.yml definition in dir, in file name order
func LoadBusDirectory(dir string) ([]BusDefinition, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	defs := make([]BusDefinition, 0, len(paths))
	for _, p := range paths {
		def, err := LoadBusDefinition(p)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}
