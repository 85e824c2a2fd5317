package modeling

import "go.trai.ch/carve/internal/core/domain"

// Union fuses shapes. Unless keep is set the inputs leave the scene.
func (c *Context) Union(shapes []domain.Shape, keep bool) (domain.Shape, error) {
	if len(shapes) == 0 {
		return domain.Shape{}, invalidArg("nothing to join")
	}
	return c.produce(domain.UnionOp{Shapes: shapes}, shapes, keep)
}

// Difference cuts tools out of main. Unless keep is set main and the tools
// leave the scene.
func (c *Context) Difference(main domain.Shape, tools []domain.Shape, keep bool) (domain.Shape, error) {
	inputs := append([]domain.Shape{main}, tools...)
	return c.produce(domain.DifferenceOp{Main: main, Tools: tools}, inputs, keep)
}

// Intersection keeps the volume shared by all shapes.
func (c *Context) Intersection(shapes []domain.Shape, keep bool) (domain.Shape, error) {
	if len(shapes) < 2 {
		return domain.Shape{}, invalidArg("intersection needs at least 2 shapes, got %d", len(shapes))
	}
	return c.produce(domain.IntersectionOp{Shapes: shapes}, shapes, keep)
}
