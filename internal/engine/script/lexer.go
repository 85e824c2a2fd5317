package script

import (
	"strings"
	"text/scanner"

	"go.trai.ch/carve/internal/core/domain"
)

type token struct {
	kind rune
	text string
	at   Pos
}

// lex splits src into tokens. Newlines are tokens because they separate
// statements; comments are dropped.
func lex(src string) ([]token, error) {
	var (
		s   scanner.Scanner
		err *domain.EvalError
	)
	s.Init(strings.NewReader(src))
	s.Mode = scanner.GoTokens
	s.Whitespace = scanner.GoWhitespace &^ (1 << '\n')
	s.Error = func(s *scanner.Scanner, msg string) {
		if err == nil {
			err = syntaxError(posOf(s.Pos()), msg)
		}
	}

	var toks []token
	for {
		kind := s.Scan()
		if err != nil {
			return nil, err
		}
		toks = append(toks, token{kind: kind, text: s.TokenText(), at: posOf(s.Position)})
		if kind == scanner.EOF {
			return toks, nil
		}
	}
}
