// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Embr Contributors

// Package config resolves process-level settings from the environment and
// per-repository settings from .embr/config.json.
package config

import (
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Recognized environment variables.
const (
	EnvDir        = "EB_DIR"
	EnvDebug      = "EB_DEBUG"
	EnvDebugAlias = "DEBUG"
	EnvDebugLevel = "EB_DEBUG_LEVEL"
	EnvTestMode   = "EB_TEST_MODE"
)

// MaxDebugLevel caps EB_DEBUG_LEVEL.
const MaxDebugLevel = 5

// Settings carries the process-level knobs shared by every command.
type Settings struct {
	// Dir overrides repository discovery when non-empty (EB_DIR).
	Dir string

	// DebugLevel is the effective verbosity, 0 (silent) through 5.
	DebugLevel int

	// TestMode selects machine-readable CLI output (EB_TEST_MODE).
	TestMode bool
}

// SetDefaults installs the baseline values so viper lookups never miss.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("dir", "")
	v.SetDefault("debug", "")
	v.SetDefault("debug_level", "")
	v.SetDefault("test_mode", "")
}

// SetupEnv binds the viper keys to their environment variables.
func SetupEnv(v *viper.Viper) {
	_ = v.BindEnv("dir", EnvDir)
	_ = v.BindEnv("debug", EnvDebug, EnvDebugAlias)
	_ = v.BindEnv("debug_level", EnvDebugLevel)
	_ = v.BindEnv("test_mode", EnvTestMode)
}

// FromViper resolves the effective settings from a configured viper.
func FromViper(v *viper.Viper) Settings {
	return Settings{
		Dir:        v.GetString("dir"),
		DebugLevel: debugLevel(v),
		TestMode:   v.GetString("test_mode") != "",
	}
}

// debugLevel folds EB_DEBUG_LEVEL, EB_DEBUG, and DEBUG into one verbosity.
// An explicit level wins; the boolean-style variables map to level 1.
// Unparseable or out-of-range levels clamp rather than fail.
func debugLevel(v *viper.Viper) int {
	if raw := strings.TrimSpace(v.GetString("debug_level")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err == nil {
			if n < 0 {
				return 0
			}
			if n > MaxDebugLevel {
				return MaxDebugLevel
			}
			return n
		}
	}

	if v.GetString("debug") != "" {
		return 1
	}
	return 0
}

// SetupLogging installs the process-wide slog default. Level 0 keeps only
// warnings and errors; any higher level enables debug output.
func SetupLogging(w io.Writer, level int) {
	slogLevel := slog.LevelWarn
	if level > 0 {
		slogLevel = slog.LevelDebug
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: slogLevel})
	slog.SetDefault(slog.New(handler))
}
