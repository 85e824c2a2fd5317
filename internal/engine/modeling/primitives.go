package modeling

import "go.trai.ch/carve/internal/core/domain"

// Box builds an x by y by z box, with its corner or, when centered, its
// center at the origin.
func (c *Context) Box(x, y, z float64, centered bool) (domain.Shape, error) {
	return c.produce(domain.BoxOp{X: x, Y: y, Z: z, Centered: centered}, nil, false)
}

// Sphere builds a sphere of the given radius.
func (c *Context) Sphere(radius float64) (domain.Shape, error) {
	return c.produce(domain.SphereOp{Radius: radius}, nil, false)
}

// Cylinder builds a Z-aligned cylinder.
func (c *Context) Cylinder(radius, height float64, centered bool) (domain.Shape, error) {
	return c.produce(domain.CylinderOp{Radius: radius, Height: height, Centered: centered}, nil, false)
}

// Cone builds a Z-aligned cone from radius1 at z=0 to radius2 at z=height.
func (c *Context) Cone(radius1, radius2, height float64) (domain.Shape, error) {
	return c.produce(domain.ConeOp{Radius1: radius1, Radius2: radius2, Height: height}, nil, false)
}

// Polygon builds a face through points, or an open wire when wire is set.
func (c *Context) Polygon(points []domain.Vec3, wire bool) (domain.Shape, error) {
	if len(points) < 2 || (!wire && len(points) < 3) {
		return domain.Shape{}, invalidArg("polygon needs at least 3 points, got %d", len(points))
	}
	return c.produce(domain.PolygonOp{Points: points, Wire: wire}, nil, false)
}

// Circle builds a disc in the XY plane, or its boundary when wire is set.
func (c *Context) Circle(radius float64, wire bool) (domain.Shape, error) {
	return c.produce(domain.CircleOp{Radius: radius, Wire: wire}, nil, false)
}
