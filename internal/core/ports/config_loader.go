package ports

import "go.trai.ch/carve/internal/core/domain"

// ConfigLoader defines the interface for loading the project configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load walks up from dir to find carve.yaml and returns the resolved
	// configuration. Defaults are returned when no file exists.
	Load(dir string) (*domain.Config, error)
}
