package script

import (
	"fmt"
	"strconv"
	"strings"

	"go.trai.ch/carve/internal/core/domain"
)

// Value is a runtime value: float64, string, bool, []Value, domain.Shape or
// an Object.
type Value any

// Object is a value with methods, such as a sketch builder.
type Object interface {
	// CallMethod invokes the named method.
	CallMethod(name string, args []Value) (Value, error)
	// TypeName names the object in error messages.
	TypeName() string
}

// Func is a global function callable from scripts.
type Func func(args []Value) (Value, error)

// TypeName returns the script-facing name of the type of v.
func TypeName(v Value) string {
	switch v := v.(type) {
	case nil:
		return "nothing"
	case float64:
		return "number"
	case string:
		return "string"
	case bool:
		return "boolean"
	case []Value:
		return "array"
	case domain.Shape:
		return "shape"
	case Object:
		return v.TypeName()
	default:
		return fmt.Sprintf("%T", v)
	}
}

// Format renders v the way Print shows it.
func Format(v Value) string {
	switch v := v.(type) {
	case nil:
		return "undefined"
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case []Value:
		parts := make([]string, len(v))
		for i, e := range v {
			parts[i] = Format(e)
		}
		return "[" + strings.Join(parts, ",") + "]"
	case domain.Shape:
		return "Shape#" + v.Signature.String()
	default:
		return TypeName(v)
	}
}
