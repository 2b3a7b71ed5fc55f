package parser

import (
	"fmt"

	"github.com/dprr/rocker/ir"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokInt

	tokSemicolon // ;
	tokComma     // ,
	tokColon     // :
	tokDefine    // :=
	tokAssign    // =
	tokLParen    // (
	tokRParen    // )
	tokLBrace    // {
	tokRBrace    // }

	tokAdd // +
	tokSub // -
	tokMul // *
	tokDiv // /
	tokMod // %
	tokEq  // ==
	tokNeq // !=
	tokLss // <
	tokLeq // <=
	tokGtr // >
	tokGeq // >=
	tokAnd // &&
	tokOr  // ||
	tokNot // !
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of file"
	case tokIdent:
		return "identifier"
	case tokInt:
		return "integer"
	case tokSemicolon:
		return "';'"
	case tokComma:
		return "','"
	case tokColon:
		return "':'"
	case tokDefine:
		return "':='"
	case tokAssign:
		return "'='"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	case tokLBrace:
		return "'{'"
	case tokRBrace:
		return "'}'"
	case tokAdd:
		return "'+'"
	case tokSub:
		return "'-'"
	case tokMul:
		return "'*'"
	case tokDiv:
		return "'/'"
	case tokMod:
		return "'%'"
	case tokEq:
		return "'=='"
	case tokNeq:
		return "'!='"
	case tokLss:
		return "'<'"
	case tokLeq:
		return "'<='"
	case tokGtr:
		return "'>'"
	case tokGeq:
		return "'>='"
	case tokAnd:
		return "'&&'"
	case tokOr:
		return "'||'"
	case tokNot:
		return "'!'"
	default:
		panic(fmt.Errorf("unknown tokenKind: %d", int(k)))
	}
}

type token struct {
	kind tokenKind
	lit  string
	pos  ir.Pos
}

func (t token) String() string {
	if t.kind == tokIdent || t.kind == tokInt {
		return fmt.Sprintf("%s %q", t.kind, t.lit)
	}
	return t.kind.String()
}

// lexer turns litmus source text into a token stream. Identifiers start with
// a letter; a leading underscore is reserved for names the translator
// synthesizes.
type lexer struct {
	src []byte
	off int

	line, col int
}

func newLexer(src []byte) *lexer {
	l := new(lexer)
	l.src = src
	l.line = 1
	l.col = 1

	return l
}

func (l *lexer) pos() ir.Pos {
	return ir.Pos{Line: l.line, Column: l.col}
}

func (l *lexer) peekByte() byte {
	if l.off >= len(l.src) {
		return 0
	}
	return l.src[l.off]
}

func (l *lexer) nextByte() byte {
	b := l.peekByte()
	l.off++
	if b == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return b
}

func (l *lexer) skipSpaceAndComments() {
	for {
		b := l.peekByte()
		switch {
		case b == ' ' || b == '\t' || b == '\r' || b == '\n':
			l.nextByte()
		case b == '/' && l.off+1 < len(l.src) && l.src[l.off+1] == '/':
			for l.peekByte() != '\n' && l.peekByte() != 0 {
				l.nextByte()
			}
		default:
			return
		}
	}
}

// next returns the next token of the source.
func (l *lexer) next() (token, error) {
	l.skipSpaceAndComments()
	pos := l.pos()
	b := l.peekByte()
	switch {
	case b == 0:
		return token{kind: tokEOF, pos: pos}, nil
	case isLetter(b):
		start := l.off
		for isLetter(l.peekByte()) || isDigit(l.peekByte()) {
			l.nextByte()
		}
		return token{kind: tokIdent, lit: string(l.src[start:l.off]), pos: pos}, nil
	case isDigit(b):
		start := l.off
		for isDigit(l.peekByte()) {
			l.nextByte()
		}
		return token{kind: tokInt, lit: string(l.src[start:l.off]), pos: pos}, nil
	}

	l.nextByte()
	switch b {
	case ';':
		return token{kind: tokSemicolon, pos: pos}, nil
	case ',':
		return token{kind: tokComma, pos: pos}, nil
	case '(':
		return token{kind: tokLParen, pos: pos}, nil
	case ')':
		return token{kind: tokRParen, pos: pos}, nil
	case '{':
		return token{kind: tokLBrace, pos: pos}, nil
	case '}':
		return token{kind: tokRBrace, pos: pos}, nil
	case '+':
		return token{kind: tokAdd, pos: pos}, nil
	case '-':
		return token{kind: tokSub, pos: pos}, nil
	case '*':
		return token{kind: tokMul, pos: pos}, nil
	case '/':
		return token{kind: tokDiv, pos: pos}, nil
	case '%':
		return token{kind: tokMod, pos: pos}, nil
	case ':':
		if l.peekByte() == '=' {
			l.nextByte()
			return token{kind: tokDefine, pos: pos}, nil
		}
		return token{kind: tokColon, pos: pos}, nil
	case '=':
		if l.peekByte() == '=' {
			l.nextByte()
			return token{kind: tokEq, pos: pos}, nil
		}
		return token{kind: tokAssign, pos: pos}, nil
	case '!':
		if l.peekByte() == '=' {
			l.nextByte()
			return token{kind: tokNeq, pos: pos}, nil
		}
		return token{kind: tokNot, pos: pos}, nil
	case '<':
		if l.peekByte() == '=' {
			l.nextByte()
			return token{kind: tokLeq, pos: pos}, nil
		}
		return token{kind: tokLss, pos: pos}, nil
	case '>':
		if l.peekByte() == '=' {
			l.nextByte()
			return token{kind: tokGeq, pos: pos}, nil
		}
		return token{kind: tokGtr, pos: pos}, nil
	case '&':
		if l.peekByte() == '&' {
			l.nextByte()
			return token{kind: tokAnd, pos: pos}, nil
		}
	case '|':
		if l.peekByte() == '|' {
			l.nextByte()
			return token{kind: tokOr, pos: pos}, nil
		}
	}
	return token{}, &Error{Pos: pos, msg: fmt.Sprintf("unexpected character %q", b)}
}

func isLetter(b byte) bool {
	return 'a' <= b && b <= 'z' || 'A' <= b && b <= 'Z'
}

func isDigit(b byte) bool {
	return '0' <= b && b <= '9'
}
