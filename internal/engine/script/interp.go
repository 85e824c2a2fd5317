package script

import (
	"errors"
	"fmt"
	"maps"

	"go.trai.ch/carve/internal/core/domain"
	"go.trai.ch/zerr"
)

// CallHook is invoked before every function or method call with the callee
// name and the call's position.
type CallHook func(name string, at Pos)

// Interpreter runs programs against a set of global functions. Variables live
// for one Run.
type Interpreter struct {
	funcs  map[string]Func
	consts map[string]Value
	onCall CallHook
}

// New creates an Interpreter exposing funcs and constants.
func New(funcs map[string]Func, consts map[string]Value) *Interpreter {
	return &Interpreter{funcs: funcs, consts: consts}
}

// OnCall registers a hook that observes every call before it runs.
func (in *Interpreter) OnCall(hook CallHook) {
	in.onCall = hook
}

// Run parses and executes src. Failures are returned as *domain.EvalError.
func (in *Interpreter) Run(src string) error {
	prog, err := Parse(src)
	if err != nil {
		return err
	}
	return in.Exec(prog)
}

// Exec executes a parsed program.
func (in *Interpreter) Exec(prog *Program) error {
	vars := maps.Clone(in.consts)
	if vars == nil {
		vars = make(map[string]Value)
	}
	f := &frame{in: in, vars: vars}
	for _, stmt := range prog.Stmts {
		if _, err := f.eval(stmt); err != nil {
			return err
		}
	}
	return nil
}

type frame struct {
	in   *Interpreter
	vars map[string]Value
}

func (f *frame) eval(n Node) (Value, error) {
	switch n := n.(type) {
	case *NumberLit:
		return n.Value, nil
	case *StringLit:
		return n.Value, nil
	case *BoolLit:
		return n.Value, nil
	case *ArrayLit:
		return f.evalList(n.Elems)
	case *Ident:
		v, ok := f.vars[n.Name]
		if !ok {
			return nil, undefined(n.Name, n.At, n.Name+" is not defined")
		}
		return v, nil
	case *Assign:
		v, err := f.eval(n.Value)
		if err != nil {
			return nil, err
		}
		f.vars[n.Name] = v
		return v, nil
	case *Unary:
		return f.evalUnary(n)
	case *Binary:
		return f.evalBinary(n)
	case *Call:
		return f.evalCall(n)
	case *MethodCall:
		return f.evalMethod(n)
	default:
		return nil, zerr.With(zerr.New("unknown syntax node"), "type", fmt.Sprintf("%T", n))
	}
}

func (f *frame) evalList(nodes []Node) ([]Value, error) {
	out := make([]Value, len(nodes))
	for i, e := range nodes {
		v, err := f.eval(e)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (f *frame) evalCall(n *Call) (Value, error) {
	fn, ok := f.in.funcs[n.Name]
	if !ok {
		return nil, undefined(n.Name, n.At, n.Name+" is not a function")
	}
	args, err := f.evalList(n.Args)
	if err != nil {
		return nil, err
	}
	if f.in.onCall != nil {
		f.in.onCall(n.Name, n.At)
	}
	v, err := fn(args)
	if err != nil {
		return nil, attribute(n.Name, n.At, err)
	}
	return v, nil
}

func (f *frame) evalMethod(n *MethodCall) (Value, error) {
	recv, err := f.eval(n.Recv)
	if err != nil {
		return nil, err
	}
	obj, ok := recv.(Object)
	if !ok {
		return nil, undefined(n.Name, n.At, fmt.Sprintf("%s has no method %s", TypeName(recv), n.Name))
	}
	args, err := f.evalList(n.Args)
	if err != nil {
		return nil, err
	}
	if f.in.onCall != nil {
		f.in.onCall(n.Name, n.At)
	}
	v, err := obj.CallMethod(n.Name, args)
	if err != nil {
		return nil, attribute(n.Name, n.At, err)
	}
	return v, nil
}

func (f *frame) evalUnary(n *Unary) (Value, error) {
	v, err := f.eval(n.X)
	if err != nil {
		return nil, err
	}
	x, ok := v.(float64)
	if !ok {
		err := zerr.With(zerr.Wrap(domain.ErrInvalidArgument, "operand must be a number"), "operand", TypeName(v))
		return nil, attribute(string(n.Op), n.At, err)
	}
	if n.Op == '-' {
		return -x, nil
	}
	return x, nil
}

func (f *frame) evalBinary(n *Binary) (Value, error) {
	l, err := f.eval(n.L)
	if err != nil {
		return nil, err
	}
	r, err := f.eval(n.R)
	if err != nil {
		return nil, err
	}

	if n.Op == '+' {
		ls, lok := l.(string)
		rs, rok := r.(string)
		if lok || rok {
			if !lok {
				ls = Format(l)
			}
			if !rok {
				rs = Format(r)
			}
			return ls + rs, nil
		}
	}

	a, aok := l.(float64)
	b, bok := r.(float64)
	if !aok || !bok {
		err := zerr.Wrap(domain.ErrInvalidArgument, "operands must be numbers")
		err = zerr.With(zerr.With(err, "left", TypeName(l)), "right", TypeName(r))
		return nil, attribute(string(n.Op), n.At, err)
	}
	switch n.Op {
	case '+':
		return a + b, nil
	case '-':
		return a - b, nil
	case '*':
		return a * b, nil
	default:
		return a / b, nil
	}
}

// attribute annotates err with the operation and position that raised it.
// Errors that already carry an attribution are kept as they are.
func attribute(op string, at Pos, err error) error {
	var evalErr *domain.EvalError
	if errors.As(err, &evalErr) {
		return err
	}
	return &domain.EvalError{
		Operation: op,
		Line:      at.Line,
		Column:    at.Column,
		Cause:     err,
	}
}

func undefined(op string, at Pos, msg string) error {
	return &domain.EvalError{
		Operation: op,
		Line:      at.Line,
		Column:    at.Column,
		Message:   msg,
		Cause:     domain.ErrUndefinedName,
	}
}
