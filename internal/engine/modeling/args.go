package modeling

import (
	"go.trai.ch/carve/internal/core/domain"
	"go.trai.ch/carve/internal/engine/script"
)

// args reads positional script arguments.
type args []script.Value

func (a args) has(i int) bool {
	return i < len(a) && a[i] != nil
}

func (a args) number(i int, name string) (float64, error) {
	if !a.has(i) {
		return 0, invalidArg("missing %s", name)
	}
	v, ok := a[i].(float64)
	if !ok {
		return 0, invalidArg("%s must be a number, got %s", name, script.TypeName(a[i]))
	}
	return v, nil
}

func (a args) optNumber(i int, name string, def float64) (float64, error) {
	if !a.has(i) {
		return def, nil
	}
	return a.number(i, name)
}

func (a args) optBool(i int, name string, def bool) (bool, error) {
	if !a.has(i) {
		return def, nil
	}
	v, ok := a[i].(bool)
	if !ok {
		return false, invalidArg("%s must be a boolean, got %s", name, script.TypeName(a[i]))
	}
	return v, nil
}

func (a args) str(i int, name string) (string, error) {
	if !a.has(i) {
		return "", invalidArg("missing %s", name)
	}
	v, ok := a[i].(string)
	if !ok {
		return "", invalidArg("%s must be a string, got %s", name, script.TypeName(a[i]))
	}
	return v, nil
}

func (a args) optStr(i int, name, def string) (string, error) {
	if !a.has(i) {
		return def, nil
	}
	return a.str(i, name)
}

func (a args) strs(i int, name string) ([]string, error) {
	list, ok := a.list(i)
	if !ok {
		return nil, invalidArg("%s must be an array of strings", name)
	}
	out := make([]string, len(list))
	for j, v := range list {
		s, ok := v.(string)
		if !ok {
			return nil, invalidArg("%s[%d] must be a string, got %s", name, j, script.TypeName(v))
		}
		out[j] = s
	}
	return out, nil
}

func (a args) list(i int) ([]script.Value, bool) {
	if !a.has(i) {
		return nil, false
	}
	v, ok := a[i].([]script.Value)
	return v, ok
}

func (a args) shape(i int, name string) (domain.Shape, error) {
	if !a.has(i) {
		return domain.Shape{}, invalidArg("missing %s", name)
	}
	v, ok := a[i].(domain.Shape)
	if !ok {
		return domain.Shape{}, invalidArg("%s must be a shape, got %s", name, script.TypeName(a[i]))
	}
	return v, nil
}

// shapes accepts a single shape or an array of shapes.
func (a args) shapes(i int, name string) ([]domain.Shape, error) {
	if s, ok := a.get(i).(domain.Shape); ok {
		return []domain.Shape{s}, nil
	}
	list, ok := a.list(i)
	if !ok {
		return nil, invalidArg("%s must be a shape or an array of shapes, got %s", name, script.TypeName(a.get(i)))
	}
	out := make([]domain.Shape, len(list))
	for j, v := range list {
		s, ok := v.(domain.Shape)
		if !ok {
			return nil, invalidArg("%s[%d] must be a shape, got %s", name, j, script.TypeName(v))
		}
		out[j] = s
	}
	return out, nil
}

func (a args) get(i int) script.Value {
	if i < len(a) {
		return a[i]
	}
	return nil
}

func (a args) numbers(i int, name string) ([]float64, error) {
	list, ok := a.list(i)
	if !ok {
		return nil, invalidArg("%s must be an array of numbers, got %s", name, script.TypeName(a.get(i)))
	}
	out := make([]float64, len(list))
	for j, v := range list {
		f, ok := v.(float64)
		if !ok {
			return nil, invalidArg("%s[%d] must be a number, got %s", name, j, script.TypeName(v))
		}
		out[j] = f
	}
	return out, nil
}

// vec3 accepts [x, y] or [x, y, z].
func (a args) vec3(i int, name string) (domain.Vec3, error) {
	nums, err := a.numbers(i, name)
	if err != nil {
		return domain.Vec3{}, err
	}
	if len(nums) < 2 || len(nums) > 3 {
		return domain.Vec3{}, invalidArg("%s must have 2 or 3 components, got %d", name, len(nums))
	}
	var v domain.Vec3
	copy(v[:], nums)
	return v, nil
}

func (a args) optVec3(i int, name string, def domain.Vec3) (domain.Vec3, error) {
	if !a.has(i) {
		return def, nil
	}
	return a.vec3(i, name)
}

func (a args) vec2(i int, name string) ([2]float64, error) {
	nums, err := a.numbers(i, name)
	if err != nil {
		return [2]float64{}, err
	}
	if len(nums) != 2 {
		return [2]float64{}, invalidArg("%s must have 2 components, got %d", name, len(nums))
	}
	return [2]float64{nums[0], nums[1]}, nil
}

func (a args) points(i int, name string) ([]domain.Vec3, error) {
	list, ok := a.list(i)
	if !ok {
		return nil, invalidArg("%s must be an array of points, got %s", name, script.TypeName(a.get(i)))
	}
	out := make([]domain.Vec3, len(list))
	for j := range list {
		v, err := args(list).vec3(j, name)
		if err != nil {
			return nil, err
		}
		out[j] = v
	}
	return out, nil
}

func (a args) ints(i int, name string) ([]int, error) {
	nums, err := a.numbers(i, name)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(nums))
	for j, f := range nums {
		if f != float64(int(f)) || f < 0 {
			return nil, invalidArg("%s[%d] must be a non-negative integer, got %g", name, j, f)
		}
		out[j] = int(f)
	}
	return out, nil
}

func shapeValues(shapes []domain.Shape) []script.Value {
	out := make([]script.Value, len(shapes))
	for i, s := range shapes {
		out[i] = s
	}
	return out
}
