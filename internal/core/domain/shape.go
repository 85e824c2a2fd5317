package domain

// Handle identifies an object owned by the geometry kernel.
// Handles are process-local identities and never take part in hashing.
type Handle uint64

// NoHandle is the zero Handle and never refers to a kernel object.
const NoHandle Handle = 0

// ShapeKind is the topological type of a kernel object.
type ShapeKind uint8

const (
	// KindInvalid marks an object that is not a proper topological shape.
	KindInvalid ShapeKind = iota
	// KindVertex is a single point.
	KindVertex
	// KindEdge is a single curve segment.
	KindEdge
	// KindWire is a connected chain of edges.
	KindWire
	// KindFace is a bounded surface.
	KindFace
	// KindShell is a set of connected faces.
	KindShell
	// KindSolid is a closed volume.
	KindSolid
	// KindCompound is a collection of other shapes.
	KindCompound
)

// String returns the lower-case name of the kind.
func (k ShapeKind) String() string {
	switch k {
	case KindVertex:
		return "vertex"
	case KindEdge:
		return "edge"
	case KindWire:
		return "wire"
	case KindFace:
		return "face"
	case KindShell:
		return "shell"
	case KindSolid:
		return "solid"
	case KindCompound:
		return "compound"
	default:
		return "invalid"
	}
}

// Shape is an opaque kernel object annotated with the Signature of the
// operation that produced it.
//
// Only the Signature is serialized: the handle is a per-process identity and
// is stripped from every canonical form used for hashing.
type Shape struct {
	Handle    Handle    `json:"-"`
	Signature Signature `json:"hash"`
}

// IsNull reports whether the shape refers to no kernel object.
func (s Shape) IsNull() bool {
	return s.Handle == NoHandle
}

// Same reports whether s and o are the same scene entry. Both the signature
// and the kernel identity must match, since unrelated shapes may collide on
// the signature.
func (s Shape) Same(o Shape) bool {
	return s.Handle == o.Handle && s.Signature == o.Signature
}
