// Package export writes tessellated scenes as STL, OBJ or JSON.
package export

import (
	"bufio"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"go.trai.ch/carve/internal/core/domain"
	"go.trai.ch/carve/internal/core/ports"
	"go.trai.ch/zerr"
)

// Supported formats.
const (
	FormatSTL  = "stl"
	FormatOBJ  = "obj"
	FormatJSON = "json"
)

var _ ports.Exporter = (*Exporter)(nil)

// Exporter implements ports.Exporter.
type Exporter struct{}

// New creates an Exporter.
func New() *Exporter {
	return &Exporter{}
}

// ResolveFormat returns explicit when set, otherwise the format named by
// path's extension.
func ResolveFormat(path, explicit string) (string, error) {
	format := strings.ToLower(explicit)
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}
	switch format {
	case FormatSTL, FormatOBJ, FormatJSON:
		return format, nil
	default:
		err := zerr.Wrap(domain.ErrUnknownExportFormat, "cannot pick export format")
		return "", zerr.With(zerr.With(err, "path", path), "format", format)
	}
}

// Export writes mesh to w in format.
func (e *Exporter) Export(w io.Writer, mesh domain.Mesh, format string) error {
	bw := bufio.NewWriter(w)

	var err error
	switch format {
	case FormatSTL:
		err = writeSTL(bw, mesh)
	case FormatOBJ:
		err = writeOBJ(bw, mesh)
	case FormatJSON:
		enc := json.NewEncoder(bw)
		enc.SetIndent("", "  ")
		err = enc.Encode(mesh)
	default:
		return zerr.With(zerr.Wrap(domain.ErrUnknownExportFormat, "cannot export"), "format", format)
	}
	if err == nil {
		err = bw.Flush()
	}
	if err != nil {
		return zerr.With(errors.Join(domain.ErrExportFailed, err), "format", format)
	}
	return nil
}

// WriteFile exports mesh to path. The file is written next to its final
// location and renamed into place, so a failed export never leaves a
// truncated file behind.
func (e *Exporter) WriteFile(path string, mesh domain.Mesh, format string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(errors.Join(domain.ErrExportFailed, err), "path", path)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return zerr.With(errors.Join(domain.ErrExportFailed, err), "path", path)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := e.Export(tmp, mesh, format); err != nil {
		_ = tmp.Close()
		return zerr.With(err, "path", path)
	}
	if err := tmp.Close(); err != nil {
		return zerr.With(errors.Join(domain.ErrExportFailed, err), "path", path)
	}
	if err := os.Chmod(tmp.Name(), domain.FilePerm); err != nil {
		return zerr.With(errors.Join(domain.ErrExportFailed, err), "path", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return zerr.With(errors.Join(domain.ErrExportFailed, err), "path", path)
	}
	return nil
}

// errWriter keeps the first write error so the format writers stay linear.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) print(parts ...string) {
	if ew.err != nil {
		return
	}
	for _, p := range parts {
		if _, ew.err = io.WriteString(ew.w, p); ew.err != nil {
			return
		}
	}
}

func writeSTL(w io.Writer, mesh domain.Mesh) error {
	ew := &errWriter{w: w}
	ew.print("solid carve\n")
	for _, face := range mesh.Faces {
		for t := 0; t+2 < len(face.Triangles); t += 3 {
			a := vertex(face.Vertices, face.Triangles[t])
			b := vertex(face.Vertices, face.Triangles[t+1])
			c := vertex(face.Vertices, face.Triangles[t+2])
			n := facetNormal(a, b, c)

			ew.print("  facet normal ", triple(n), "\n    outer loop\n")
			for _, v := range [][3]float64{a, b, c} {
				ew.print("      vertex ", triple(v), "\n")
			}
			ew.print("    endloop\n  endfacet\n")
		}
	}
	ew.print("endsolid carve\n")
	return ew.err
}

func writeOBJ(w io.Writer, mesh domain.Mesh) error {
	ew := &errWriter{w: w}
	ew.print("# carve\n")

	offset := 1
	for _, face := range mesh.Faces {
		ew.print("o face", strconv.Itoa(face.FaceIndex), "\n")
		count := len(face.Vertices) / 3
		for i := range count {
			ew.print("v ", triple(vertex(face.Vertices, i)), "\n")
		}
		hasNormals := len(face.Normals) == len(face.Vertices)
		if hasNormals {
			for i := range count {
				ew.print("vn ", triple(vertex(face.Normals, i)), "\n")
			}
		}
		for t := 0; t+2 < len(face.Triangles); t += 3 {
			ew.print("f")
			for _, idx := range face.Triangles[t : t+3] {
				ref := strconv.Itoa(offset + idx)
				if hasNormals {
					ref += "//" + ref
				}
				ew.print(" ", ref)
			}
			ew.print("\n")
		}
		offset += count
	}

	for _, edge := range mesh.Edges {
		count := len(edge.Vertices) / 3
		if count < 2 {
			continue
		}
		ew.print("o edge", strconv.Itoa(edge.EdgeIndex), "\n")
		for i := range count {
			ew.print("v ", triple(vertex(edge.Vertices, i)), "\n")
		}
		ew.print("l")
		for i := range count {
			ew.print(" ", strconv.Itoa(offset+i))
		}
		ew.print("\n")
		offset += count
	}

	return ew.err
}

func vertex(flat []float64, i int) [3]float64 {
	return [3]float64{flat[3*i], flat[3*i+1], flat[3*i+2]}
}

func facetNormal(a, b, c [3]float64) [3]float64 {
	u := [3]float64{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
	v := [3]float64{c[0] - a[0], c[1] - a[1], c[2] - a[2]}
	n := [3]float64{
		u[1]*v[2] - u[2]*v[1],
		u[2]*v[0] - u[0]*v[2],
		u[0]*v[1] - u[1]*v[0],
	}
	length := math.Sqrt(n[0]*n[0] + n[1]*n[1] + n[2]*n[2])
	if length == 0 {
		return [3]float64{}
	}
	return [3]float64{n[0] / length, n[1] / length, n[2] / length}
}

func triple(v [3]float64) string {
	return formatFloat(v[0]) + " " + formatFloat(v[1]) + " " + formatFloat(v[2])
}

func formatFloat(f float64) string {
	if f == 0 {
		f = 0 // drops negative zero
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
