package config

// Carvefile represents the structure of the carve.yaml configuration file.
// Pointer fields distinguish an absent value from a zero value.
type Carvefile struct {
	Version string         `yaml:"version"`
	Cache   *CacheDTO      `yaml:"cache"`
	Render  *RenderDTO     `yaml:"render"`
	Worker  *WorkerDTO     `yaml:"worker"`
	GUI     map[string]any `yaml:"gui"`
	Export  *ExportDTO     `yaml:"export"`
}

// CacheDTO configures the operation cache.
type CacheDTO struct {
	Enabled *bool `yaml:"enabled"`
}

// RenderDTO configures tessellation.
type RenderDTO struct {
	MaxDeviation *float64 `yaml:"maxDeviation"`
}

// WorkerDTO configures where scripts are evaluated.
type WorkerDTO struct {
	Mode        string `yaml:"mode"`
	Socket      string `yaml:"socket"`
	IdleTimeout string `yaml:"idleTimeout"`
}

// ExportDTO configures mesh export.
type ExportDTO struct {
	Format string `yaml:"format"`
}
