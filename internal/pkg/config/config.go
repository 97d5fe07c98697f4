// Package config loads the service configuration and the message-bus
// definitions of every distributed area.
package config

import (
	"encoding/json"
	"fmt"
	"io/ioutil"

	"github.com/go-playground/validator/v10"
)

// Store backends
const (
	StoreFixture  = "fixture"
	StoreMongoDB  = "mongodb"
	StorePostgres = "postgres"
	StoreMySQL    = "mysql"
)

var validate = validator.New()

// Config is the service configuration file
type Config struct {
	Store         string `json:"Store" validate:"required,oneof=fixture mongodb postgres mysql"`
	URI           string `json:"URI" validate:"required"`
	Database      string `json:"Database" validate:"required_if=Store mongodb"`
	HTTPAddr      string `json:"HTTPAddr" validate:"required"`
	SubjectPrefix string `json:"SubjectPrefix"`
	BuildTimeout  int    `json:"BuildTimeout" validate:"gte=0"`
	Debug         bool   `json:"Debug"`
}

// Load reads and validates a JSON config file. SubjectPrefix defaults
// to "ybus".
func Load(path string) (Config, error) {
	jsonConfig, err := ioutil.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Config{}
	if err := json.Unmarshal(jsonConfig, &cfg); err != nil {
		return Config{}, fmt.Errorf("config %v: %w", path, err)
	}
	if cfg.SubjectPrefix == "" {
		cfg.SubjectPrefix = "ybus"
	}
	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("config %v: %w", path, err)
	}
	return cfg, nil
}
