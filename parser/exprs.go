package parser

import "github.com/dprr/rocker/ir"

// Binary operator precedence, loosest first. Unary '!' binds tighter than
// every binary operator.
func binaryPrec(kind tokenKind) (ir.Op, int, bool) {
	switch kind {
	case tokOr:
		return ir.LOr, 1, true
	case tokAnd:
		return ir.LAnd, 2, true
	case tokEq:
		return ir.Eq, 3, true
	case tokNeq:
		return ir.Neq, 3, true
	case tokLss:
		return ir.Lss, 3, true
	case tokLeq:
		return ir.Leq, 3, true
	case tokGtr:
		return ir.Gtr, 3, true
	case tokGeq:
		return ir.Geq, 3, true
	case tokAdd:
		return ir.Add, 4, true
	case tokSub:
		return ir.Sub, 4, true
	case tokMul:
		return ir.Mul, 5, true
	case tokDiv:
		return ir.Div, 5, true
	case tokMod:
		return ir.Mod, 5, true
	default:
		return 0, 0, false
	}
}

func (p *parser) parseExpr() (ir.Expr, error) {
	return p.parseBinaryExpr(1)
}

func (p *parser) parseBinaryExpr(minPrec int) (ir.Expr, error) {
	x, err := p.parseUnaryExpr()
	if err != nil {
		return nil, err
	}
	for {
		op, prec, ok := binaryPrec(p.tok.kind)
		if !ok || prec < minPrec {
			return x, nil
		}
		pos := p.tok.pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		y, err := p.parseBinaryExpr(prec + 1)
		if err != nil {
			return nil, err
		}
		x = ir.NewBinaryExpr(pos, op, x, y)
	}
}

func (p *parser) parseUnaryExpr() (ir.Expr, error) {
	if p.tok.kind == tokNot {
		pos := p.tok.pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		x, err := p.parseUnaryExpr()
		if err != nil {
			return nil, err
		}
		return ir.NewUnaryExpr(pos, ir.LNot, x), nil
	}
	return p.parsePrimaryExpr()
}

func (p *parser) parsePrimaryExpr() (ir.Expr, error) {
	pos := p.tok.pos
	switch p.tok.kind {
	case tokInt:
		value, _, err := p.expectInt()
		if err != nil {
			return nil, err
		}
		return ir.NewIntLit(pos, value), nil
	case tokIdent:
		name, err := p.expectName()
		if err != nil {
			return nil, err
		}
		return ir.NewIdent(pos, name.lit), nil
	case tokLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		x, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen); err != nil {
			return nil, err
		}
		return x, nil
	default:
		return nil, p.errorf(pos, "expected expression, found %s", p.tok)
	}
}
