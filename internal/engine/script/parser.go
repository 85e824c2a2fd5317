package script

import (
	"errors"
	"fmt"
	"strconv"
	"text/scanner"

	"go.trai.ch/carve/internal/core/domain"
)

// Declaration keywords accepted, and ignored, before an assignment.
var declKeywords = map[string]bool{"let": true, "const": true, "var": true}

// Binding powers of infix operators.
var infixPower = map[rune]int{
	'+': 10,
	'-': 10,
	'*': 20,
	'/': 20,
}

const prefixPower = 30

type parser struct {
	toks []token
	i    int
	err  *domain.EvalError
}

// Parse parses src into a Program. Syntax errors are returned as
// *domain.EvalError carrying the offending position.
func Parse(src string) (*Program, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}

	prog := &Program{}
	for {
		p.skipSeparators()
		if p.peek().kind == scanner.EOF {
			return prog, nil
		}
		stmt := p.statement()
		if p.err == nil {
			switch p.peek().kind {
			case ';', '\n', scanner.EOF:
			default:
				p.fail("unexpected %s after statement", p.describe())
			}
		}
		if p.err != nil {
			return nil, p.err
		}
		prog.Stmts = append(prog.Stmts, stmt)
	}
}

func syntaxError(at Pos, msg string) *domain.EvalError {
	return &domain.EvalError{
		Line:    at.Line,
		Column:  at.Column,
		Message: msg,
		Cause:   errors.Join(domain.ErrScriptSyntax, errors.New(msg)),
	}
}

func (p *parser) peek() token { return p.toks[p.i] }

// peekPast returns the first token after any newlines.
func (p *parser) peekPast() token {
	j := p.i
	for p.toks[j].kind == '\n' {
		j++
	}
	return p.toks[j]
}

func (p *parser) next() token {
	t := p.toks[p.i]
	if t.kind != scanner.EOF {
		p.i++
	}
	return t
}

func (p *parser) fail(format string, args ...any) {
	if p.err == nil {
		p.err = syntaxError(p.peek().at, fmt.Sprintf(format, args...))
	}
}

func (p *parser) describe() string {
	t := p.peek()
	switch t.kind {
	case scanner.EOF:
		return "end of input"
	case '\n':
		return "newline"
	default:
		return strconv.Quote(t.text)
	}
}

func (p *parser) expect(kind rune) {
	if p.peek().kind != kind {
		p.fail("expected %q, found %s", string(kind), p.describe())
		return
	}
	p.next()
}

func (p *parser) skipSeparators() {
	for k := p.peek().kind; k == ';' || k == '\n'; k = p.peek().kind {
		p.next()
	}
}

// skipNewlines lets bracketed lists and operators span lines.
func (p *parser) skipNewlines() {
	for p.peek().kind == '\n' {
		p.next()
	}
}

func (p *parser) statement() Node {
	if t := p.peek(); t.kind == scanner.Ident && declKeywords[t.text] {
		p.next()
		if p.peek().kind != scanner.Ident {
			p.fail("expected name after %s, found %s", t.text, p.describe())
			return nil
		}
	}
	n := p.expr(0)
	if id, ok := n.(*Ident); ok && p.peek().kind == '=' {
		p.next()
		p.skipNewlines()
		return &Assign{At: id.At, Name: id.Name, Value: p.expr(0)}
	}
	return n
}

func (p *parser) expr(minPower int) Node {
	left := p.unary()
	for p.err == nil {
		t := p.peek()
		power, ok := infixPower[t.kind]
		if !ok || power <= minPower {
			return left
		}
		p.next()
		p.skipNewlines()
		right := p.expr(power)
		left = &Binary{At: t.at, Op: t.kind, L: left, R: right}
	}
	return left
}

func (p *parser) unary() Node {
	if t := p.peek(); t.kind == '-' || t.kind == '+' {
		p.next()
		return &Unary{At: t.at, Op: t.kind, X: p.expr(prefixPower)}
	}
	return p.postfix(p.primary())
}

func (p *parser) postfix(n Node) Node {
	for p.err == nil {
		// Method chains may continue on the following line.
		if p.peekPast().kind != '.' {
			return n
		}
		p.skipNewlines()
		p.next()
		p.skipNewlines()
		t := p.peek()
		if t.kind != scanner.Ident {
			p.fail("expected method name, found %s", p.describe())
			return n
		}
		p.next()
		n = &MethodCall{At: t.at, Recv: n, Name: t.text, Args: p.args()}
	}
	return n
}

func (p *parser) primary() Node {
	t := p.peek()
	switch t.kind {
	case scanner.Int, scanner.Float:
		v, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			p.fail("invalid number %s", t.text)
			return nil
		}
		p.next()
		return &NumberLit{At: t.at, Value: v}
	case scanner.String, scanner.RawString, scanner.Char:
		v, err := strconv.Unquote(t.text)
		if err != nil {
			p.fail("invalid string %s", t.text)
			return nil
		}
		p.next()
		return &StringLit{At: t.at, Value: v}
	case scanner.Ident:
		p.next()
		switch {
		case t.text == "true" || t.text == "false":
			return &BoolLit{At: t.at, Value: t.text == "true"}
		case p.peek().kind == '(':
			return &Call{At: t.at, Name: t.text, Args: p.args()}
		default:
			return &Ident{At: t.at, Name: t.text}
		}
	case '[':
		p.next()
		return &ArrayLit{At: t.at, Elems: p.list(']')}
	case '(':
		p.next()
		p.skipNewlines()
		n := p.expr(0)
		p.skipNewlines()
		p.expect(')')
		return n
	default:
		p.fail("unexpected %s", p.describe())
		return nil
	}
}

func (p *parser) args() []Node {
	p.expect('(')
	if p.err != nil {
		return nil
	}
	return p.list(')')
}

// list parses comma separated expressions up to and including end.
// A trailing comma is allowed.
func (p *parser) list(end rune) []Node {
	var out []Node
	p.skipNewlines()
	for p.err == nil && p.peek().kind != end {
		out = append(out, p.expr(0))
		p.skipNewlines()
		if p.peek().kind != ',' {
			break
		}
		p.next()
		p.skipNewlines()
	}
	p.expect(end)
	return out
}
