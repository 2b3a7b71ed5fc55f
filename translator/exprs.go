package translator

import (
	"fmt"
	"strconv"

	"github.com/dprr/rocker/ir"
)

// renderExpr returns the Promela text of the given expression, checking that
// every identifier is declared and every literal lies within [0, modulus).
func (t *translator) renderExpr(expr ir.Expr, ctx *context) (string, error) {
	switch expr := expr.(type) {
	case *ir.Ident:
		if !ctx.isLocal(expr.Name()) && !t.cfg.IsShared(expr.Name()) {
			return "", newValidationError(UndeclaredVariable, expr.Pos(),
				"reference to undeclared variable %q", expr.Name())
		}
		return expr.Name(), nil
	case *ir.IntLit:
		if err := t.checkLiteral(expr.Value(), expr.Pos()); err != nil {
			return "", err
		}
		return strconv.Itoa(expr.Value()), nil
	case *ir.UnaryExpr:
		x, err := t.renderExpr(expr.X(), ctx)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s(%s)", expr.Op(), x), nil
	case *ir.BinaryExpr:
		x, err := t.renderExpr(expr.X(), ctx)
		if err != nil {
			return "", err
		}
		y, err := t.renderExpr(expr.Y(), ctx)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s %s %s)", x, expr.Op(), y), nil
	default:
		panic(fmt.Errorf("unexpected expression type: %T", expr))
	}
}

// renderBoundedExpr renders the expression and wraps it in the wraparound
// modulus. Every store value, compare-and-swap operand, read-modify-write
// result, wait set member, and asserted expression passes through here.
func (t *translator) renderBoundedExpr(expr ir.Expr, ctx *context) (string, error) {
	s, err := t.renderExpr(expr, ctx)
	if err != nil {
		return "", err
	}
	return t.bounded(s), nil
}

// bounded wraps already-rendered expression text in an explicit modulo
// operation against the modulus of the current translation.
func (t *translator) bounded(s string) string {
	return fmt.Sprintf("(%s) %% %d", s, t.cfg.Modulus())
}

// checkLiteral validates that a surface literal lies within [0, modulus).
func (t *translator) checkLiteral(value int, pos ir.Pos) error {
	if value < 0 || value >= t.cfg.Modulus() {
		return newValidationError(ValueOutOfRange, pos,
			"literal %d outside [0, %d)", value, t.cfg.Modulus())
	}
	return nil
}
