package domain

// Op is the closed configuration of one modeling operation. Its canonical JSON
// form, together with OpName, determines the operation's Signature.
type Op interface {
	OpName() string
}

// BoxOp builds an axis-aligned box.
type BoxOp struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Z        float64 `json:"z"`
	Centered bool    `json:"centered"`
}

// SphereOp builds a sphere centered at the origin.
type SphereOp struct {
	Radius float64 `json:"radius"`
}

// CylinderOp builds a Z-aligned cylinder.
type CylinderOp struct {
	Radius   float64 `json:"radius"`
	Height   float64 `json:"height"`
	Centered bool    `json:"centered"`
}

// ConeOp builds a Z-aligned truncated cone.
type ConeOp struct {
	Radius1 float64 `json:"radius1"`
	Radius2 float64 `json:"radius2"`
	Height  float64 `json:"height"`
}

// PolygonOp builds a planar face through the points, or the open polyline
// through them when Wire is set.
type PolygonOp struct {
	Points []Vec3 `json:"points"`
	Wire   bool   `json:"wire"`
}

// CircleOp builds a disc in the XY plane, or its boundary wire.
type CircleOp struct {
	Radius float64 `json:"radius"`
	Wire   bool    `json:"wire"`
}

// UnionOp fuses shapes together.
type UnionOp struct {
	Shapes []Shape `json:"shapes"`
}

// DifferenceOp cuts every tool out of the main shape.
type DifferenceOp struct {
	Main  Shape   `json:"main"`
	Tools []Shape `json:"tools"`
}

// IntersectionOp keeps the volume common to all shapes.
type IntersectionOp struct {
	Shapes []Shape `json:"shapes"`
}

// TranslateOp moves a shape by an offset.
type TranslateOp struct {
	Offset Vec3  `json:"offset"`
	Shape  Shape `json:"shape"`
}

// RotateOp rotates a shape around an axis through the origin.
type RotateOp struct {
	Axis    Vec3    `json:"axis"`
	Degrees float64 `json:"degrees"`
	Shape   Shape   `json:"shape"`
}

// ScaleOp scales a shape uniformly about the origin.
type ScaleOp struct {
	Factor float64 `json:"factor"`
	Shape  Shape   `json:"shape"`
}

// MirrorOp reflects a shape across the plane through the origin with the given normal.
type MirrorOp struct {
	Normal Vec3  `json:"normal"`
	Shape  Shape `json:"shape"`
}

// FilletOp rounds the selected edges of a shape.
type FilletOp struct {
	Shape  Shape   `json:"shape"`
	Radius float64 `json:"radius"`
	Edges  []int   `json:"edges"`
}

// ChamferOp bevels the selected edges of a shape.
type ChamferOp struct {
	Shape    Shape   `json:"shape"`
	Distance float64 `json:"distance"`
	Edges    []int   `json:"edges"`
}

// ExtrudeOp sweeps a face along a direction vector into a solid.
type ExtrudeOp struct {
	Face      Shape `json:"face"`
	Direction Vec3  `json:"direction"`
}

// RevolveOp sweeps a shape around an axis through the origin.
type RevolveOp struct {
	Shape   Shape   `json:"shape"`
	Degrees float64 `json:"degrees"`
	Axis    Vec3    `json:"axis"`
}

// LoftOp builds a solid through a sequence of wires.
type LoftOp struct {
	Wires []Shape `json:"wires"`
}

// PipeOp sweeps a profile along a path wire.
type PipeOp struct {
	Profile Shape `json:"profile"`
	Path    Shape `json:"path"`
}

// OffsetOp grows or shrinks a shape by a distance.
type OffsetOp struct {
	Shape    Shape   `json:"shape"`
	Distance float64 `json:"distance"`
}

// RemoveInternalEdgesOp merges coplanar faces of a shape.
type RemoveInternalEdgesOp struct {
	Shape Shape `json:"shape"`
}

// CompoundOp groups shapes into one container without combining them.
type CompoundOp struct {
	Shapes []Shape `json:"shapes"`
}

// OpName implements Op.
func (BoxOp) OpName() string { return "Box" }

// OpName implements Op.
func (SphereOp) OpName() string { return "Sphere" }

// OpName implements Op.
func (CylinderOp) OpName() string { return "Cylinder" }

// OpName implements Op.
func (ConeOp) OpName() string { return "Cone" }

// OpName implements Op.
func (PolygonOp) OpName() string { return "Polygon" }

// OpName implements Op.
func (CircleOp) OpName() string { return "Circle" }

// OpName implements Op.
func (UnionOp) OpName() string { return "Union" }

// OpName implements Op.
func (DifferenceOp) OpName() string { return "Difference" }

// OpName implements Op.
func (IntersectionOp) OpName() string { return "Intersection" }

// OpName implements Op.
func (TranslateOp) OpName() string { return "Translate" }

// OpName implements Op.
func (RotateOp) OpName() string { return "Rotate" }

// OpName implements Op.
func (ScaleOp) OpName() string { return "Scale" }

// OpName implements Op.
func (MirrorOp) OpName() string { return "Mirror" }

// OpName implements Op.
func (FilletOp) OpName() string { return "FilletEdges" }

// OpName implements Op.
func (ChamferOp) OpName() string { return "ChamferEdges" }

// OpName implements Op.
func (ExtrudeOp) OpName() string { return "Extrude" }

// OpName implements Op.
func (RevolveOp) OpName() string { return "Revolve" }

// OpName implements Op.
func (LoftOp) OpName() string { return "Loft" }

// OpName implements Op.
func (PipeOp) OpName() string { return "Pipe" }

// OpName implements Op.
func (OffsetOp) OpName() string { return "Offset" }

// OpName implements Op.
func (RemoveInternalEdgesOp) OpName() string { return "RemoveInternalEdges" }

// OpName implements Op.
func (CompoundOp) OpName() string { return "Compound" }
