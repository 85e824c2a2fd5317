// Package refkernel is a polyhedral geometry kernel. Curved primitives are
// faceted, booleans select faces by bounding volume instead of intersecting
// surfaces, and fillets and chamfers validate their edges but keep geometry.
// It stands in for a full B-rep kernel in the worker and in tests.
package refkernel

import (
	"context"
	"fmt"
	"sync"

	"go.trai.ch/carve/internal/core/domain"
	"go.trai.ch/zerr"
)

// Kernel implements ports.Kernel, ports.Tessellator and ports.Reclaimer.
// Objects live until a Retain call leaves them out.
type Kernel struct {
	mu      sync.Mutex
	next    domain.Handle
	objects map[domain.Handle]*body
}

// New creates an empty Kernel.
func New() *Kernel {
	return &Kernel{objects: make(map[domain.Handle]*body)}
}

// Init prepares the kernel. The reference kernel has nothing to load.
func (k *Kernel) Init(ctx context.Context) error {
	return ctx.Err()
}

// Len returns the number of live objects.
func (k *Kernel) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.objects)
}

// Retain frees every object whose handle is not in live. Handles are never
// reused, so a freed handle stays invalid.
func (k *Kernel) Retain(live []domain.Handle) int {
	keep := make(map[domain.Handle]struct{}, len(live))
	for _, h := range live {
		keep[h] = struct{}{}
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	freed := 0
	for h := range k.objects {
		if _, ok := keep[h]; !ok {
			delete(k.objects, h)
			freed++
		}
	}
	return freed
}

// Build constructs the object op describes.
func (k *Kernel) Build(op domain.Op) (domain.Handle, error) {
	b, err := k.build(op)
	if err != nil {
		return domain.NoHandle, err
	}
	return k.store(b), nil
}

// Duplicate copies the object behind h.
func (k *Kernel) Duplicate(h domain.Handle) (domain.Handle, error) {
	b, err := k.lookup(h)
	if err != nil {
		return domain.NoHandle, err
	}
	return k.store(b.clone()), nil
}

// Explore walks the boundary of the object behind h.
func (k *Kernel) Explore(h domain.Handle) (domain.Topology, error) {
	b, err := k.lookup(h)
	if err != nil {
		return domain.Topology{}, err
	}
	return b.topology(), nil
}

func (k *Kernel) store(b *body) domain.Handle {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.next++
	k.objects[k.next] = b
	return k.next
}

func (k *Kernel) lookup(h domain.Handle) (*body, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	b, ok := k.objects[h]
	if !ok {
		return nil, zerr.With(zerr.Wrap(domain.ErrUnknownHandle, "lookup failed"), "handle", uint64(h))
	}
	return b, nil
}

func (k *Kernel) shape(s domain.Shape) (*body, error) {
	return k.lookup(s.Handle)
}

func (k *Kernel) shapes(ss []domain.Shape) ([]*body, error) {
	out := make([]*body, len(ss))
	for i, s := range ss {
		b, err := k.lookup(s.Handle)
		if err != nil {
			return nil, err
		}
		out[i] = b
	}
	return out, nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{domain.ErrInvalidGeometry}, args...)...)
}

func (k *Kernel) build(op domain.Op) (*body, error) {
	switch op := op.(type) {
	case domain.BoxOp:
		return boxBody(op)
	case domain.SphereOp:
		return sphereBody(op)
	case domain.CylinderOp:
		return frustumBody(op.Radius, op.Radius, op.Height, op.Centered)
	case domain.ConeOp:
		return frustumBody(op.Radius1, op.Radius2, op.Height, false)
	case domain.PolygonOp:
		return polygonBody(op)
	case domain.CircleOp:
		return circleBody(op)
	case domain.CompoundOp:
		return k.compound(op)
	case domain.UnionOp:
		return k.union(op)
	case domain.DifferenceOp:
		return k.difference(op)
	case domain.IntersectionOp:
		return k.intersection(op)
	case domain.TranslateOp:
		return k.translate(op)
	case domain.RotateOp:
		return k.rotate(op)
	case domain.ScaleOp:
		return k.scale(op)
	case domain.MirrorOp:
		return k.mirror(op)
	case domain.FilletOp:
		return k.edgeFeature(op.Shape, op.Radius, op.Edges)
	case domain.ChamferOp:
		return k.edgeFeature(op.Shape, op.Distance, op.Edges)
	case domain.ExtrudeOp:
		return k.extrude(op)
	case domain.RevolveOp:
		return k.revolve(op)
	case domain.LoftOp:
		return k.loft(op)
	case domain.PipeOp:
		return k.pipe(op)
	case domain.OffsetOp:
		return k.offset(op)
	case domain.RemoveInternalEdgesOp:
		return k.removeInternal(op)
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrUnsupportedOperation, "build failed"), "op", op.OpName())
	}
}
