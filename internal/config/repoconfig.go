// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Embr Contributors

package config

import (
	"encoding/json"
	stderrors "errors"
	"io/fs"
	"os"

	"github.com/embr-dev/embr/pkg/errors"
)

// RepoConfig is the per-repository configuration at .embr/config.json.
// Only default_model is recognized; other keys are tolerated and ignored.
type RepoConfig struct {
	DefaultModel string `json:"default_model"`
}

// LoadRepoConfig reads the repo config from path. A missing file yields the
// zero config.
func LoadRepoConfig(path string) (RepoConfig, error) {
	data, err := os.ReadFile(path)
	if stderrors.Is(err, fs.ErrNotExist) {
		return RepoConfig{}, nil
	}
	if err != nil {
		return RepoConfig{}, errors.Wrapf(err, errors.CodeConfigLoadReadFailure,
			"reading repo config %s", path)
	}

	var cfg RepoConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return RepoConfig{}, errors.Wrapf(err, errors.CodeConfigParseInvalidFormat,
			"parsing repo config %s", path)
	}
	return cfg, nil
}

// SaveRepoConfig rewrites the repo config at path, preserving only the
// recognized keys.
func SaveRepoConfig(path string, cfg RepoConfig) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return errors.Wrapf(err, errors.CodeConfigParseInvalidFormat, "encoding repo config")
	}

	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return errors.Wrapf(err, errors.CodeConfigLoadReadFailure,
			"writing repo config %s", path)
	}
	return nil
}
