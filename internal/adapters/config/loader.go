// Package config provides the configuration loader for carve.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"go.trai.ch/carve/internal/core/domain"
	"go.trai.ch/carve/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// SupportedVersion is the configuration schema version this loader reads.
const SupportedVersion = "1"

var exportFormats = []string{"stl", "obj", "json"}

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
	FS     FileSystem
}

// NewLoader creates a new Loader with the given logger reading the OS filesystem.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger, FS: NewOSFS()}
}

// Load walks up from dir to the nearest carve.yaml and resolves it on top of
// the defaults. Without a config file the defaults are returned, with the
// worker socket placed under dir.
func (l *Loader) Load(dir string) (*domain.Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to resolve config directory")
	}

	cfg := domain.DefaultConfig()
	configPath, found := l.findConfiguration(absDir)
	if !found {
		cfg.SocketPath = filepath.Join(absDir, cfg.SocketPath)
		return cfg, nil
	}

	var file Carvefile
	if err := l.readAndUnmarshalYAML(configPath, &file); err != nil {
		return nil, err
	}
	if file.Version != "" && file.Version != SupportedVersion {
		l.Logger.Warn(fmt.Sprintf("%s declares version %q, reading it as version %s",
			configPath, file.Version, SupportedVersion))
	}

	cfg.Path = configPath
	if err := apply(cfg, &file, filepath.Dir(configPath)); err != nil {
		return nil, zerr.With(err, "config", configPath)
	}
	return cfg, nil
}

// findConfiguration returns the first carve.yaml found in dir or one of its parents.
func (l *Loader) findConfiguration(dir string) (string, bool) {
	current := dir
	for {
		candidate := filepath.Join(current, domain.ConfigFileName)
		if info, err := l.FS.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", false
		}
		current = parent
	}
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
func (l *Loader) readAndUnmarshalYAML(configPath string, target *Carvefile) error {
	data, err := l.FS.ReadFile(configPath)
	if err != nil {
		return zerr.With(errors.Join(domain.ErrConfigReadFailed, err), "path", configPath)
	}
	if err := yaml.Unmarshal(data, target); err != nil {
		return zerr.With(errors.Join(domain.ErrConfigParseFailed, err), "path", configPath)
	}
	return nil
}

func invalid(field string, value any, reason string) error {
	return zerr.With(zerr.With(zerr.Wrap(domain.ErrInvalidConfig, reason), "field", field), "value", value)
}

// apply overlays the file onto cfg. Relative paths are resolved against base.
func apply(cfg *domain.Config, file *Carvefile, base string) error {
	if file.Cache != nil && file.Cache.Enabled != nil {
		cfg.CacheEnabled = *file.Cache.Enabled
	}

	if file.Render != nil && file.Render.MaxDeviation != nil {
		if *file.Render.MaxDeviation <= 0 {
			return invalid("render.maxDeviation", *file.Render.MaxDeviation, "must be positive")
		}
		cfg.MaxDeviation = *file.Render.MaxDeviation
	}

	if w := file.Worker; w != nil {
		switch w.Mode {
		case "":
		case domain.WorkerInProcess, domain.WorkerDaemon:
			cfg.WorkerMode = w.Mode
		default:
			return invalid("worker.mode", w.Mode, "must be 'inprocess' or 'daemon'")
		}
		if w.Socket != "" {
			cfg.SocketPath = w.Socket
		}
		if w.IdleTimeout != "" {
			d, err := time.ParseDuration(w.IdleTimeout)
			if err != nil || d <= 0 {
				return invalid("worker.idleTimeout", w.IdleTimeout, "must be a positive duration")
			}
			cfg.IdleTimeout = d
		}
	}
	if !filepath.IsAbs(cfg.SocketPath) {
		cfg.SocketPath = filepath.Join(base, cfg.SocketPath)
	}

	for name, v := range file.GUI {
		value, err := guiValue(v)
		if err != nil {
			return invalid("gui."+name, v, err.Error())
		}
		cfg.GUI[name] = value
	}

	if file.Export != nil && file.Export.Format != "" {
		if !slices.Contains(exportFormats, file.Export.Format) {
			return invalid("export.format", file.Export.Format, "must be 'stl', 'obj' or 'json'")
		}
		cfg.ExportFormat = file.Export.Format
	}
	return nil
}

// guiValue converts a YAML scalar to the value types GUI state holds.
func guiValue(v any) (any, error) {
	switch v := v.(type) {
	case bool, string, float64:
		return v, nil
	case int:
		return float64(v), nil
	default:
		return nil, fmt.Errorf("unsupported value of type %T", v)
	}
}
