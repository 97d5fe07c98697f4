package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Keyword arguments accepted on the command line
const (
	SystemBusConfigFile       = "SYSTEM_BUS_CONFIG_FILE"
	FeederBusConfigFile       = "FEEDER_BUS_CONFIG_FILE"
	SwitchBusConfigFileDir    = "SWITCH_BUS_CONFIG_FILE_DIR"
	SecondaryBusConfigFileDir = "SECONDARY_BUS_CONFIG_FILE_DIR"
	SimulationID              = "SIMULATION_ID"
	ServiceConfigFile         = "SERVICE_CONFIG_FILE"
	defaultServiceConfigFile  = "./config.json"
)

var validKeywords = map[string]bool{
	SystemBusConfigFile:       true,
	FeederBusConfigFile:       true,
	SwitchBusConfigFileDir:    true,
	SecondaryBusConfigFileDir: true,
	SimulationID:              true,
	ServiceConfigFile:         true,
}

func keywords() []string {
	out := make([]string, 0, len(validKeywords))
	for k := range validKeywords {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// parseArgs reads KEYWORD=value arguments. An unknown keyword or an empty
// argument list is an error.
func parseArgs(args []string) (map[string]string, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("no arguments were provided. Valid keywords are %v", keywords())
	}
	out := make(map[string]string, len(args))
	for _, arg := range args {
		split := strings.SplitN(arg, "=", 2)
		if !validKeywords[split[0]] {
			return nil, fmt.Errorf("invalid keyword argument, %v. Valid keywords are %v", split[0], keywords())
		}
		if len(split) != 2 || split[1] == "" {
			return nil, errors.New(split[0] + " has no value")
		}
		out[split[0]] = split[1]
	}
	if _, ok := out[ServiceConfigFile]; !ok {
		out[ServiceConfigFile] = defaultServiceConfigFile
	}
	return out, nil
}
