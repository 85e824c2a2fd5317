package modeling

import "go.trai.ch/carve/internal/core/domain"

// FilletEdges rounds the edges with the given indices.
func (c *Context) FilletEdges(shape domain.Shape, radius float64, edges []int, keep bool) (domain.Shape, error) {
	op := domain.FilletOp{Shape: shape, Radius: radius, Edges: edges}
	return c.produce(op, []domain.Shape{shape}, keep)
}

// ChamferEdges bevels the edges with the given indices.
func (c *Context) ChamferEdges(shape domain.Shape, distance float64, edges []int, keep bool) (domain.Shape, error) {
	op := domain.ChamferOp{Shape: shape, Distance: distance, Edges: edges}
	return c.produce(op, []domain.Shape{shape}, keep)
}

// Extrude sweeps face along direction.
func (c *Context) Extrude(face domain.Shape, direction domain.Vec3, keep bool) (domain.Shape, error) {
	return c.produce(domain.ExtrudeOp{Face: face, Direction: direction}, []domain.Shape{face}, keep)
}

// Revolve sweeps shape by degrees around axis.
func (c *Context) Revolve(shape domain.Shape, degrees float64, axis domain.Vec3, keep bool) (domain.Shape, error) {
	return c.produce(domain.RevolveOp{Shape: shape, Degrees: degrees, Axis: axis}, []domain.Shape{shape}, keep)
}

// Loft builds a solid through wires in order.
func (c *Context) Loft(wires []domain.Shape, keep bool) (domain.Shape, error) {
	if len(wires) < 2 {
		return domain.Shape{}, invalidArg("loft needs at least 2 wires, got %d", len(wires))
	}
	return c.produce(domain.LoftOp{Wires: wires}, wires, keep)
}

// Pipe sweeps profile along path.
func (c *Context) Pipe(profile, path domain.Shape, keep bool) (domain.Shape, error) {
	return c.produce(domain.PipeOp{Profile: profile, Path: path}, []domain.Shape{profile, path}, keep)
}

// Offset grows shape by distance, or shrinks it for a negative distance.
func (c *Context) Offset(shape domain.Shape, distance float64, keep bool) (domain.Shape, error) {
	return c.produce(domain.OffsetOp{Shape: shape, Distance: distance}, []domain.Shape{shape}, keep)
}

// RemoveInternalEdges merges coplanar neighbouring faces of shape.
func (c *Context) RemoveInternalEdges(shape domain.Shape, keep bool) (domain.Shape, error) {
	return c.produce(domain.RemoveInternalEdgesOp{Shape: shape}, []domain.Shape{shape}, keep)
}
