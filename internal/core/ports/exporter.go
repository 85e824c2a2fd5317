package ports

import (
	"io"

	"go.trai.ch/carve/internal/core/domain"
)

// Exporter writes meshes in an interchange format.
//
//go:generate mockgen -source=exporter.go -destination=mocks/mock_exporter.go -package=mocks
type Exporter interface {
	// Export writes mesh to w in the given format ("stl", "obj" or "json").
	Export(w io.Writer, mesh domain.Mesh, format string) error
	// WriteFile replaces the file at path with mesh in the given format.
	WriteFile(path string, mesh domain.Mesh, format string) error
}
