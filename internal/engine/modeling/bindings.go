package modeling

import (
	"strings"

	"go.trai.ch/carve/internal/core/domain"
	"go.trai.ch/carve/internal/engine/script"
)

var zAxis = domain.Vec3{0, 0, 1}

// Library returns the global functions user scripts can call.
func (c *Context) Library() map[string]script.Func {
	return map[string]script.Func{
		"Box":                 c.box,
		"Sphere":              c.sphere,
		"Cylinder":            c.cylinder,
		"Cone":                c.cone,
		"Polygon":             c.polygon,
		"Circle":              c.circle,
		"Union":               c.union,
		"Difference":          c.difference,
		"Intersection":        c.intersection,
		"Translate":           c.translate,
		"Rotate":              c.rotate,
		"Scale":               c.scale,
		"Mirror":              c.mirror,
		"FilletEdges":         c.filletEdges,
		"ChamferEdges":        c.chamferEdges,
		"Extrude":             c.extrude,
		"Revolve":             c.revolve,
		"Loft":                c.loft,
		"Pipe":                c.pipe,
		"Offset":              c.offset,
		"RemoveInternalEdges": c.removeInternalEdges,
		"Sketch":              c.sketch,
		"Edges":               c.edges,
		"Print":               c.print,
		"Slider":              c.slider,
		"Checkbox":            c.checkbox,
		"TextInput":           c.textInput,
		"Dropdown":            c.dropdown,
		"Button":              c.button,
	}
}

func (c *Context) box(v []script.Value) (script.Value, error) {
	a := args(v)
	x, err := a.number(0, "x")
	if err != nil {
		return nil, err
	}
	y, err := a.number(1, "y")
	if err != nil {
		return nil, err
	}
	z, err := a.number(2, "z")
	if err != nil {
		return nil, err
	}
	centered, err := a.optBool(3, "centered", false)
	if err != nil {
		return nil, err
	}
	return c.Box(x, y, z, centered)
}

func (c *Context) sphere(v []script.Value) (script.Value, error) {
	r, err := args(v).number(0, "radius")
	if err != nil {
		return nil, err
	}
	return c.Sphere(r)
}

func (c *Context) cylinder(v []script.Value) (script.Value, error) {
	a := args(v)
	r, err := a.number(0, "radius")
	if err != nil {
		return nil, err
	}
	h, err := a.number(1, "height")
	if err != nil {
		return nil, err
	}
	centered, err := a.optBool(2, "centered", false)
	if err != nil {
		return nil, err
	}
	return c.Cylinder(r, h, centered)
}

func (c *Context) cone(v []script.Value) (script.Value, error) {
	a := args(v)
	r1, err := a.number(0, "radius1")
	if err != nil {
		return nil, err
	}
	r2, err := a.number(1, "radius2")
	if err != nil {
		return nil, err
	}
	h, err := a.number(2, "height")
	if err != nil {
		return nil, err
	}
	return c.Cone(r1, r2, h)
}

func (c *Context) polygon(v []script.Value) (script.Value, error) {
	a := args(v)
	pts, err := a.points(0, "points")
	if err != nil {
		return nil, err
	}
	wire, err := a.optBool(1, "wire", false)
	if err != nil {
		return nil, err
	}
	return c.Polygon(pts, wire)
}

func (c *Context) circle(v []script.Value) (script.Value, error) {
	a := args(v)
	r, err := a.number(0, "radius")
	if err != nil {
		return nil, err
	}
	wire, err := a.optBool(1, "wire", false)
	if err != nil {
		return nil, err
	}
	return c.Circle(r, wire)
}

func (c *Context) union(v []script.Value) (script.Value, error) {
	a := args(v)
	shapes, err := a.shapes(0, "shapes")
	if err != nil {
		return nil, err
	}
	keep, err := a.optBool(1, "keepObjects", false)
	if err != nil {
		return nil, err
	}
	return c.Union(shapes, keep)
}

func (c *Context) difference(v []script.Value) (script.Value, error) {
	a := args(v)
	main, err := a.shape(0, "main")
	if err != nil {
		return nil, err
	}
	tools, err := a.shapes(1, "tools")
	if err != nil {
		return nil, err
	}
	keep, err := a.optBool(2, "keepObjects", false)
	if err != nil {
		return nil, err
	}
	return c.Difference(main, tools, keep)
}

func (c *Context) intersection(v []script.Value) (script.Value, error) {
	a := args(v)
	shapes, err := a.shapes(0, "shapes")
	if err != nil {
		return nil, err
	}
	keep, err := a.optBool(1, "keepObjects", false)
	if err != nil {
		return nil, err
	}
	return c.Intersection(shapes, keep)
}

// transformed unwraps a single-shape argument back to a single result.
func transformed(single bool, out []domain.Shape, err error) (script.Value, error) {
	if err != nil {
		return nil, err
	}
	if single && len(out) == 1 {
		return out[0], nil
	}
	return shapeValues(out), nil
}

func (c *Context) translate(v []script.Value) (script.Value, error) {
	a := args(v)
	offset, err := a.vec3(0, "offset")
	if err != nil {
		return nil, err
	}
	shapes, err := a.shapes(1, "shapes")
	if err != nil {
		return nil, err
	}
	keep, err := a.optBool(2, "keepOriginal", false)
	if err != nil {
		return nil, err
	}
	_, single := a.get(1).(domain.Shape)
	out, err := c.Translate(offset, shapes, keep)
	return transformed(single, out, err)
}

func (c *Context) rotate(v []script.Value) (script.Value, error) {
	a := args(v)
	axis, err := a.vec3(0, "axis")
	if err != nil {
		return nil, err
	}
	degrees, err := a.number(1, "degrees")
	if err != nil {
		return nil, err
	}
	shapes, err := a.shapes(2, "shapes")
	if err != nil {
		return nil, err
	}
	keep, err := a.optBool(3, "keepOriginal", false)
	if err != nil {
		return nil, err
	}
	_, single := a.get(2).(domain.Shape)
	out, err := c.Rotate(axis, degrees, shapes, keep)
	return transformed(single, out, err)
}

func (c *Context) scale(v []script.Value) (script.Value, error) {
	a := args(v)
	factor, err := a.number(0, "factor")
	if err != nil {
		return nil, err
	}
	shapes, err := a.shapes(1, "shapes")
	if err != nil {
		return nil, err
	}
	keep, err := a.optBool(2, "keepOriginal", false)
	if err != nil {
		return nil, err
	}
	_, single := a.get(1).(domain.Shape)
	out, err := c.Scale(factor, shapes, keep)
	return transformed(single, out, err)
}

func (c *Context) mirror(v []script.Value) (script.Value, error) {
	a := args(v)
	normal, err := a.vec3(0, "normal")
	if err != nil {
		return nil, err
	}
	shapes, err := a.shapes(1, "shapes")
	if err != nil {
		return nil, err
	}
	keep, err := a.optBool(2, "keepOriginal", false)
	if err != nil {
		return nil, err
	}
	_, single := a.get(1).(domain.Shape)
	out, err := c.Mirror(normal, shapes, keep)
	return transformed(single, out, err)
}

func (c *Context) filletEdges(v []script.Value) (script.Value, error) {
	a := args(v)
	shape, err := a.shape(0, "shape")
	if err != nil {
		return nil, err
	}
	r, err := a.number(1, "radius")
	if err != nil {
		return nil, err
	}
	edges, err := a.ints(2, "edges")
	if err != nil {
		return nil, err
	}
	keep, err := a.optBool(3, "keepOriginal", false)
	if err != nil {
		return nil, err
	}
	return c.FilletEdges(shape, r, edges, keep)
}

func (c *Context) chamferEdges(v []script.Value) (script.Value, error) {
	a := args(v)
	shape, err := a.shape(0, "shape")
	if err != nil {
		return nil, err
	}
	d, err := a.number(1, "distance")
	if err != nil {
		return nil, err
	}
	edges, err := a.ints(2, "edges")
	if err != nil {
		return nil, err
	}
	keep, err := a.optBool(3, "keepOriginal", false)
	if err != nil {
		return nil, err
	}
	return c.ChamferEdges(shape, d, edges, keep)
}

func (c *Context) extrude(v []script.Value) (script.Value, error) {
	a := args(v)
	face, err := a.shape(0, "face")
	if err != nil {
		return nil, err
	}
	dir, err := a.vec3(1, "direction")
	if err != nil {
		return nil, err
	}
	keep, err := a.optBool(2, "keepFace", false)
	if err != nil {
		return nil, err
	}
	return c.Extrude(face, dir, keep)
}

func (c *Context) revolve(v []script.Value) (script.Value, error) {
	a := args(v)
	shape, err := a.shape(0, "shape")
	if err != nil {
		return nil, err
	}
	degrees, err := a.optNumber(1, "degrees", 360)
	if err != nil {
		return nil, err
	}
	axis, err := a.optVec3(2, "axis", zAxis)
	if err != nil {
		return nil, err
	}
	keep, err := a.optBool(3, "keepShape", false)
	if err != nil {
		return nil, err
	}
	return c.Revolve(shape, degrees, axis, keep)
}

func (c *Context) loft(v []script.Value) (script.Value, error) {
	a := args(v)
	wires, err := a.shapes(0, "wires")
	if err != nil {
		return nil, err
	}
	keep, err := a.optBool(1, "keepWires", false)
	if err != nil {
		return nil, err
	}
	return c.Loft(wires, keep)
}

func (c *Context) pipe(v []script.Value) (script.Value, error) {
	a := args(v)
	profile, err := a.shape(0, "profile")
	if err != nil {
		return nil, err
	}
	path, err := a.shape(1, "path")
	if err != nil {
		return nil, err
	}
	keep, err := a.optBool(2, "keepInputs", false)
	if err != nil {
		return nil, err
	}
	return c.Pipe(profile, path, keep)
}

func (c *Context) offset(v []script.Value) (script.Value, error) {
	a := args(v)
	shape, err := a.shape(0, "shape")
	if err != nil {
		return nil, err
	}
	d, err := a.number(1, "distance")
	if err != nil {
		return nil, err
	}
	keep, err := a.optBool(2, "keepShape", false)
	if err != nil {
		return nil, err
	}
	return c.Offset(shape, d, keep)
}

func (c *Context) removeInternalEdges(v []script.Value) (script.Value, error) {
	a := args(v)
	shape, err := a.shape(0, "shape")
	if err != nil {
		return nil, err
	}
	keep, err := a.optBool(1, "keepShape", false)
	if err != nil {
		return nil, err
	}
	return c.RemoveInternalEdges(shape, keep)
}

func (c *Context) sketch(v []script.Value) (script.Value, error) {
	start, err := args(v).vec2(0, "start")
	if err != nil {
		return nil, err
	}
	return sketchObject{c.Sketch(start)}, nil
}

func (c *Context) edges(v []script.Value) (script.Value, error) {
	shape, err := args(v).shape(0, "shape")
	if err != nil {
		return nil, err
	}
	n, err := c.Edges(shape)
	if err != nil {
		return nil, err
	}
	return float64(n), nil
}

func (c *Context) print(v []script.Value) (script.Value, error) {
	parts := make([]string, len(v))
	for i, e := range v {
		parts[i] = script.Format(e)
	}
	c.Print(strings.Join(parts, " "))
	return nil, nil
}

func (c *Context) slider(v []script.Value) (script.Value, error) {
	a := args(v)
	p := domain.SliderPayload{Step: 1, Precision: 2}
	var err error
	if p.Name, err = a.str(0, "name"); err != nil {
		return nil, err
	}
	if p.Default, err = a.number(1, "default"); err != nil {
		return nil, err
	}
	if p.Min, err = a.number(2, "min"); err != nil {
		return nil, err
	}
	if p.Max, err = a.number(3, "max"); err != nil {
		return nil, err
	}
	if p.RealTime, err = a.optBool(4, "realTime", false); err != nil {
		return nil, err
	}
	if p.Step, err = a.optNumber(5, "step", p.Step); err != nil {
		return nil, err
	}
	precision, err := a.optNumber(6, "precision", float64(p.Precision))
	if err != nil {
		return nil, err
	}
	p.Precision = int(precision)
	if p.Min > p.Max {
		return nil, invalidArg("slider %q has min %g above max %g", p.Name, p.Min, p.Max)
	}
	return c.Slider(p), nil
}

func (c *Context) checkbox(v []script.Value) (script.Value, error) {
	a := args(v)
	name, err := a.str(0, "name")
	if err != nil {
		return nil, err
	}
	def, err := a.optBool(1, "default", false)
	if err != nil {
		return nil, err
	}
	return c.Checkbox(domain.CheckboxPayload{Name: name, Default: def}), nil
}

func (c *Context) textInput(v []script.Value) (script.Value, error) {
	a := args(v)
	name, err := a.str(0, "name")
	if err != nil {
		return nil, err
	}
	def, err := a.optStr(1, "default", "")
	if err != nil {
		return nil, err
	}
	realTime, err := a.optBool(2, "realTime", false)
	if err != nil {
		return nil, err
	}
	return c.TextInput(domain.TextboxPayload{Name: name, Default: def, RealTime: realTime}), nil
}

func (c *Context) dropdown(v []script.Value) (script.Value, error) {
	a := args(v)
	name, err := a.str(0, "name")
	if err != nil {
		return nil, err
	}
	def, err := a.str(1, "default")
	if err != nil {
		return nil, err
	}
	options, err := a.strs(2, "options")
	if err != nil {
		return nil, err
	}
	return c.Dropdown(domain.DropdownPayload{Name: name, Default: def, Options: options}), nil
}

func (c *Context) button(v []script.Value) (script.Value, error) {
	name, err := args(v).str(0, "name")
	if err != nil {
		return nil, err
	}
	return c.Button(domain.ButtonPayload{Name: name}), nil
}

// sketchObject exposes a Sketch to scripts.
type sketchObject struct {
	s *Sketch
}

func (o sketchObject) TypeName() string { return "sketch" }

func (o sketchObject) CallMethod(name string, v []script.Value) (script.Value, error) {
	a := args(v)
	switch name {
	case "LineTo":
		p, err := a.vec2(0, "point")
		if err != nil {
			return nil, err
		}
		o.s.LineTo(p)
		return o, nil
	case "ArcTo":
		mid, err := a.vec2(0, "mid")
		if err != nil {
			return nil, err
		}
		end, err := a.vec2(1, "end")
		if err != nil {
			return nil, err
		}
		o.s.ArcTo(mid, end)
		return o, nil
	case "Fillet":
		r, err := a.number(0, "radius")
		if err != nil {
			return nil, err
		}
		o.s.Fillet(r)
		return o, nil
	case "End":
		closed, err := a.optBool(0, "closed", false)
		if err != nil {
			return nil, err
		}
		return o.s.End(closed)
	default:
		return nil, invalidArg("sketch has no method %s", name)
	}
}
