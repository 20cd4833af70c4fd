/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.

type GeneralConfig struct {
	TelemetryOptIn bool   `yaml:"telemetry_opt_in"`
	Host           string `yaml:"host"` // "tui" | "ui"
}

// EditorConfig holds the defaults used when elements are created.
type EditorConfig struct {
	DefaultText string  `yaml:"default_text"`
	DefaultX    float64 `yaml:"default_x"`
	DefaultY    float64 `yaml:"default_y"`
	ImageWidth  float64 `yaml:"image_width"`
}

type PickerConfig struct {
	// Extensions limits which files the picker offers, lower-case with dot.
	Extensions []string `yaml:"extensions"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	General       GeneralConfig `yaml:"general"`
	Editor        EditorConfig  `yaml:"editor"`
	Picker        PickerConfig  `yaml:"picker"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		General:       GeneralConfig{TelemetryOptIn: false, Host: "tui"},
		Editor:        EditorConfig{DefaultText: "New text", DefaultX: 50, DefaultY: 100, ImageWidth: 300},
		Picker:        PickerConfig{Extensions: []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp"}},
		Logging:       LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
	}
}

// Env var names used as overrides.
const (
	EnvConfigPath     = "SCB_CONFIG"
	EnvTelemetryOptIn = "SCB_TELEMETRY_OPT_IN"
	EnvHost           = "SCB_HOST"
	EnvImageWidth     = "SCB_IMAGE_WIDTH"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "SCB_LOG_LEVEL"
	EnvLogFormat = "SCB_LOG_FORMAT"
	EnvLogSource = "SCB_LOG_SOURCE"
	EnvLogFile   = "SCB_LOG_FILE"
)

// Path returns the per-user config file path. SCB_CONFIG wins when set.
func Path() (string, error) {
	if v := strings.TrimSpace(os.Getenv(EnvConfigPath)); v != "" {
		return v, nil
	}
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "Scrapbook")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "Scrapbook")
	default: // linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = filepath.Join(xdg, "scrapbook")
		} else {
			base = filepath.Join(os.Getenv("HOME"), ".config", "scrapbook")
		}
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, and merges environment overrides.
// A missing file is not an error; a malformed one is, and the returned config
// is then the defaults with environment overrides applied.
func Load() (AppConfig, error) {
	cfg := Defaults()
	path, err := Path()
	if err != nil {
		applyEnvOverrides(&cfg)
		return cfg, err
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		// keys missing from the file keep their defaults; explicit zeros stay zero
		fileCfg := Defaults()
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			applyEnvOverrides(&cfg)
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
		mergeInto(&cfg, &fileCfg)
	case !errors.Is(err, os.ErrNotExist):
		applyEnvOverrides(&cfg)
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	// booleans: copy directly from src (file) so user preferences persist
	dst.General.TelemetryOptIn = src.General.TelemetryOptIn
	if h := strings.ToLower(strings.TrimSpace(src.General.Host)); h != "" {
		dst.General.Host = h
	}
	// editor
	if src.Editor.DefaultText != "" {
		dst.Editor.DefaultText = src.Editor.DefaultText
	}
	// src is seeded with defaults before decoding, so (0, 0) is a real choice
	dst.Editor.DefaultX = src.Editor.DefaultX
	dst.Editor.DefaultY = src.Editor.DefaultY
	if src.Editor.ImageWidth > 0 {
		dst.Editor.ImageWidth = src.Editor.ImageWidth
	}
	if len(src.Picker.Extensions) > 0 {
		exts := make([]string, 0, len(src.Picker.Extensions))
		for _, e := range src.Picker.Extensions {
			e = strings.ToLower(strings.TrimSpace(e))
			if e == "" {
				continue
			}
			if !strings.HasPrefix(e, ".") {
				e = "." + e
			}
			exts = append(exts, e)
		}
		if len(exts) > 0 {
			dst.Picker.Extensions = exts
		}
	}
	// logging
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

// envBinding ties a YAML key to the variable that overrides it.
type envBinding struct {
	key   string
	env   string
	apply func(cfg *AppConfig, v string)
}

var envBindings = []envBinding{
	{"general.telemetry_opt_in", EnvTelemetryOptIn, func(c *AppConfig, v string) { c.General.TelemetryOptIn = parseBool(v) }},
	{"general.host", EnvHost, func(c *AppConfig, v string) { c.General.Host = strings.ToLower(v) }},
	{"editor.image_width", EnvImageWidth, func(c *AppConfig, v string) {
		if n, err := strconv.ParseFloat(v, 64); err == nil && n > 0 {
			c.Editor.ImageWidth = n
		}
	}},
	{"logging.level", EnvLogLevel, func(c *AppConfig, v string) { c.Logging.Level = strings.ToLower(v) }},
	{"logging.format", EnvLogFormat, func(c *AppConfig, v string) { c.Logging.Format = strings.ToLower(v) }},
	{"logging.source", EnvLogSource, func(c *AppConfig, v string) { c.Logging.Source = parseBool(v) }},
	{"logging.file", EnvLogFile, func(c *AppConfig, v string) { c.Logging.File = v }},
}

func applyEnvOverrides(cfg *AppConfig) {
	for _, b := range envBindings {
		if v := strings.TrimSpace(os.Getenv(b.env)); v != "" {
			b.apply(cfg, v)
		}
	}
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	for _, b := range envBindings {
		if b.key != key {
			continue
		}
		if strings.TrimSpace(os.Getenv(b.env)) != "" {
			return b.env, true
		}
		return "", false
	}
	return "", false
}

// Validate reports settings the editor cannot start with.
func (c AppConfig) Validate() error {
	var errs []error
	switch c.General.Host {
	case "tui", "ui":
	default:
		errs = append(errs, fmt.Errorf("general.host: unknown host %q (want tui or ui)", c.General.Host))
	}
	if c.Editor.ImageWidth <= 0 {
		errs = append(errs, fmt.Errorf("editor.image_width: must be positive, got %v", c.Editor.ImageWidth))
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format: unknown format %q", c.Logging.Format))
	}
	return errors.Join(errs...)
}
