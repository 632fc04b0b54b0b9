/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package strata wires the database, logging and repository packages
// together from a single YAML configuration.
package strata

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/tomoncle/strata/database"
	"github.com/tomoncle/strata/utils"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Database   database.Config  `json:"database" yaml:"database"`
	Repository RepositoryConfig `json:"repository" yaml:"repository"`
	Log        LogConfig        `json:"log" yaml:"log"`
}

// RepositoryConfig holds the defaults applied by NewRepository.
type RepositoryConfig struct {
	Transactional bool `json:"transactional" yaml:"transactional"`
	PageSize      int  `json:"page_size" yaml:"page_size"`
	EachBatchSize int  `json:"each_batch_size" yaml:"each_batch_size"`
}

type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"` // text or json
}

// DefaultConfig returns the configuration used for keys absent from a file.
func DefaultConfig() *Config {
	return &Config{
		Database: *database.DefaultConfig(),
		Log:      LogConfig{Level: "info", Format: "text"},
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

var (
	settingsMu sync.RWMutex
	settings   RepositoryConfig
)

// Init configures logging, connects the global database and records the
// repository defaults.
func Init(ctx context.Context, cfg *Config) error {
	if cfg == nil {
		return errors.New("strata: configuration cannot be empty")
	}
	if cfg.Log.Level != "" {
		utils.ConfigureLogLevel(cfg.Log.Level)
	}
	if cfg.Log.Format != "" {
		utils.ConfigureConsoleLogFormat(cfg.Log.Format)
	}
	if _, err := database.InitDB(ctx, &cfg.Database); err != nil {
		return err
	}

	settingsMu.Lock()
	settings = cfg.Repository
	settingsMu.Unlock()
	utils.NewLogger("STRATA").WithField("type", cfg.Database.ConnectionConfig.Type).Info("Initialized")
	return nil
}

// Close disconnects the global database.
func Close() error {
	return database.CloseDB()
}
