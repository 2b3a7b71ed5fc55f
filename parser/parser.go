// Package parser turns litmus source text into an ir.Program. It only
// guarantees the shape of the tree; all semantic checks (scoping, bounds,
// shared variable discipline) happen in the translator.
package parser

import (
	"fmt"
	"os"
	"strconv"

	"github.com/dprr/rocker/ir"
)

// Error is a positioned parse error.
type Error struct {
	File string
	Pos  ir.Pos

	msg string
}

func (e *Error) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%s: %s", e.File, e.Pos, e.msg)
	}
	return fmt.Sprintf("%s: %s", e.Pos, e.msg)
}

// ParseFile reads and parses the litmus program at the given path.
func ParseFile(path string) (*ir.Program, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	prog, err := Parse(src)
	if err != nil {
		if perr, ok := err.(*Error); ok {
			perr.File = path
		}
		return nil, err
	}
	return prog, nil
}

// Parse parses a litmus program from source text.
func Parse(src []byte) (*ir.Program, error) {
	p := new(parser)
	p.lex = newLexer(src)
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p.parseProgram()
}

var keywords = map[string]bool{
	"bound": true, "atomic": true, "nonatomic": true, "thread": true,
	"local": true, "store": true, "storena": true, "wait": true,
	"bcas": true, "lock": true, "unlock": true, "fence": true,
	"skip": true, "assume": true, "assert": true, "goto": true,
	"if": true, "else": true, "while": true, "choice": true, "or": true,
	"load": true, "loadna": true, "cas": true, "fadd": true, "xchg": true,
}

type parser struct {
	lex *lexer
	tok token
}

func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) errorf(pos ir.Pos, format string, args ...interface{}) error {
	return &Error{Pos: pos, msg: fmt.Sprintf(format, args...)}
}

// atKeyword reports whether the current token is the given keyword.
func (p *parser) atKeyword(kw string) bool {
	return p.tok.kind == tokIdent && p.tok.lit == kw
}

func (p *parser) expect(kind tokenKind) (token, error) {
	if p.tok.kind != kind {
		return token{}, p.errorf(p.tok.pos, "expected %s, found %s", kind, p.tok)
	}
	tok := p.tok
	if err := p.advance(); err != nil {
		return token{}, err
	}
	return tok, nil
}

// expectName expects a non-keyword identifier.
func (p *parser) expectName() (token, error) {
	tok, err := p.expect(tokIdent)
	if err != nil {
		return token{}, err
	}
	if keywords[tok.lit] {
		return token{}, p.errorf(tok.pos, "%q is a keyword, not a name", tok.lit)
	}
	return tok, nil
}

func (p *parser) expectInt() (int, ir.Pos, error) {
	tok, err := p.expect(tokInt)
	if err != nil {
		return 0, ir.NoPos, err
	}
	v, err := strconv.Atoi(tok.lit)
	if err != nil {
		return 0, ir.NoPos, p.errorf(tok.pos, "cannot parse integer %q", tok.lit)
	}
	return v, tok.pos, nil
}

func (p *parser) parseProgram() (*ir.Program, error) {
	prog := ir.NewProgram()

	seenBound, seenAtomic, seenNonAtomic := false, false, false
	for p.tok.kind == tokIdent {
		switch p.tok.lit {
		case "bound":
			if seenBound {
				return nil, p.errorf(p.tok.pos, "duplicate bound declaration")
			}
			seenBound = true
			if err := p.advance(); err != nil {
				return nil, err
			}
			v, _, err := p.expectInt()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(tokSemicolon); err != nil {
				return nil, err
			}
			prog.SetBound(v)
		case "atomic":
			if seenAtomic {
				return nil, p.errorf(p.tok.pos, "duplicate atomic declaration section")
			}
			seenAtomic = true
			if err := p.parseSharedVars(prog.AddAtomic); err != nil {
				return nil, err
			}
		case "nonatomic":
			if seenNonAtomic {
				return nil, p.errorf(p.tok.pos, "duplicate nonatomic declaration section")
			}
			seenNonAtomic = true
			if err := p.parseSharedVars(prog.AddNonAtomic); err != nil {
				return nil, err
			}
		case "thread":
			f, err := p.parseFunc()
			if err != nil {
				return nil, err
			}
			prog.AddFunc(f)
		default:
			return nil, p.errorf(p.tok.pos, "expected declaration or thread, found %s", p.tok)
		}
	}
	if p.tok.kind != tokEOF {
		return nil, p.errorf(p.tok.pos, "expected declaration or thread, found %s", p.tok)
	}
	return prog, nil
}

func (p *parser) parseSharedVars(add func(*ir.SharedVar)) error {
	if err := p.advance(); err != nil { // section keyword
		return err
	}
	for {
		name, err := p.expectName()
		if err != nil {
			return err
		}
		v := ir.NewSharedVar(name.pos, name.lit)
		if p.tok.kind == tokAssign {
			if err := p.advance(); err != nil {
				return err
			}
			value, _, err := p.expectInt()
			if err != nil {
				return err
			}
			v.SetInitialValue(value)
		}
		add(v)
		if p.tok.kind != tokComma {
			break
		}
		if err := p.advance(); err != nil {
			return err
		}
	}
	_, err := p.expect(tokSemicolon)
	return err
}

func (p *parser) parseFunc() (*ir.Func, error) {
	pos := p.tok.pos
	if err := p.advance(); err != nil { // thread
		return nil, err
	}
	name, err := p.expectName()
	if err != nil {
		return nil, err
	}
	f := ir.NewFunc(pos, name.lit)
	if _, err := p.expect(tokLBrace); err != nil {
		return nil, err
	}
	if p.atKeyword("local") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		for {
			local, err := p.expectName()
			if err != nil {
				return nil, err
			}
			f.AddLocal(local.lit)
			if p.tok.kind != tokComma {
				break
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
		if _, err := p.expect(tokSemicolon); err != nil {
			return nil, err
		}
	}
	for p.tok.kind != tokRBrace {
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		f.AddStmt(stmt)
	}
	if _, err := p.expect(tokRBrace); err != nil {
		return nil, err
	}
	return f, nil
}
