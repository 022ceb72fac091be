// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package configuration loads the optional at-rest config file merged
// beneath command-line flags.
package configuration

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	defaultConfigFileName = "config"
	// RepoingestHomeDir is the per-user directory holding the config file
	// and the probe cache.
	RepoingestHomeDir = ".repoingest"
	// ConfigPathEnv overrides the config file location.
	ConfigPathEnv = "REPOINGESTCONFIG"
)

// Loader yields the at-rest configuration.
type Loader interface {
	Load() (*Config, error)
}

// DefaultLoader reads the config file from REPOINGESTCONFIG or from
// ~/.repoingest/config. A missing file yields an empty configuration.
type DefaultLoader struct{}

// Load implements Loader.
func (DefaultLoader) Load() (*Config, error) {
	if configFilePath, found := os.LookupEnv(ConfigPathEnv); found {
		if configFilePath == "" {
			return nil, fmt.Errorf("the environment variable %s is set to an empty string", ConfigPathEnv)
		}
		return load(configFilePath)
	}

	userHomeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %v", err)
	}
	configFilePath := filepath.Join(userHomeDir, RepoingestHomeDir, defaultConfigFileName)
	if _, err := os.Stat(configFilePath); os.IsNotExist(err) {
		return &Config{}, nil
	}
	return load(configFilePath)
}

func load(configFilePath string) (*Config, error) {
	stat, err := os.Stat(configFilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to get file info for configuration file path %s: %v", configFilePath, err)
	}
	if stat.IsDir() {
		return nil, fmt.Errorf("the config file path %s is a directory, not a file", configFilePath)
	}
	configFile, err := os.ReadFile(configFilePath)
	if err != nil {
		return nil, err
	}

	config := &Config{}
	if err := yaml.Unmarshal(configFile, config); err != nil {
		return nil, err
	}
	return config, nil
}
