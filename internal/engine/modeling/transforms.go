package modeling

import "go.trai.ch/carve/internal/core/domain"

// Translate moves every shape by offset.
func (c *Context) Translate(offset domain.Vec3, shapes []domain.Shape, keep bool) ([]domain.Shape, error) {
	return c.each(shapes, keep, func(s domain.Shape) domain.Op {
		return domain.TranslateOp{Offset: offset, Shape: s}
	})
}

// Rotate turns every shape by degrees around axis.
func (c *Context) Rotate(axis domain.Vec3, degrees float64, shapes []domain.Shape, keep bool) ([]domain.Shape, error) {
	if axis.Len() == 0 {
		return nil, invalidArg("rotation axis must not be zero")
	}
	return c.each(shapes, keep, func(s domain.Shape) domain.Op {
		return domain.RotateOp{Axis: axis, Degrees: degrees, Shape: s}
	})
}

// Scale scales every shape by factor about the origin.
func (c *Context) Scale(factor float64, shapes []domain.Shape, keep bool) ([]domain.Shape, error) {
	return c.each(shapes, keep, func(s domain.Shape) domain.Op {
		return domain.ScaleOp{Factor: factor, Shape: s}
	})
}

// Mirror reflects every shape across the plane with the given normal.
func (c *Context) Mirror(normal domain.Vec3, shapes []domain.Shape, keep bool) ([]domain.Shape, error) {
	if normal.Len() == 0 {
		return nil, invalidArg("mirror normal must not be zero")
	}
	return c.each(shapes, keep, func(s domain.Shape) domain.Op {
		return domain.MirrorOp{Normal: normal, Shape: s}
	})
}
