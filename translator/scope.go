package translator

import (
	"fmt"

	"github.com/dprr/rocker/ir"
)

// validateFuncScope checks local-name uniqueness and the three-way
// disjointness between locals and the two shared variable sets as a function
// scope is entered.
func (t *translator) validateFuncScope(f *ir.Func) error {
	seen := make(map[string]bool)
	for _, name := range f.Locals() {
		if seen[name] {
			return newValidationError(DuplicateName, f.Pos(),
				"local %q declared twice in thread %q", name, f.Name())
		}
		seen[name] = true
		if t.cfg.IsSharedAtomic(name) {
			return newValidationError(ScopeOverlap, f.Pos(),
				"local %q in thread %q collides with a shared atomic variable", name, f.Name())
		}
		if t.cfg.IsSharedNonAtomic(name) {
			return newValidationError(ScopeOverlap, f.Pos(),
				"local %q in thread %q collides with a shared non-atomic variable", name, f.Name())
		}
	}
	return nil
}

// validateControlExpr walks a branch, loop, or goto guard expression and
// rejects any shared variable leaf: control flow must be a function of
// thread-local state only.
func (t *translator) validateControlExpr(expr ir.Expr, ctx *context, fragment fmt.Stringer) error {
	return walkIdents(expr, func(id *ir.Ident) error {
		if t.cfg.IsShared(id.Name()) {
			return newValidationError(SharedInControlExpr, id.Pos(),
				"shared variable %q in control expression of %q", id.Name(), fragment)
		}
		if !ctx.isLocal(id.Name()) {
			return newValidationError(UndeclaredVariable, id.Pos(),
				"undeclared variable %q in %q", id.Name(), fragment)
		}
		return nil
	})
}

// validateRMWOperand walks an operand expression of a read-modify-write
// operation and rejects any shared variable leaf.
func (t *translator) validateRMWOperand(expr ir.Expr, ctx *context, fragment fmt.Stringer) error {
	return walkIdents(expr, func(id *ir.Ident) error {
		if t.cfg.IsShared(id.Name()) {
			return newValidationError(SharedInRMWOperand, id.Pos(),
				"shared variable %q in read-modify-write operand of %q", id.Name(), fragment)
		}
		if !ctx.isLocal(id.Name()) {
			return newValidationError(UndeclaredVariable, id.Pos(),
				"undeclared variable %q in %q", id.Name(), fragment)
		}
		return nil
	})
}

// walkIdents visits every identifier leaf of the expression tree.
func walkIdents(expr ir.Expr, visit func(*ir.Ident) error) error {
	switch expr := expr.(type) {
	case *ir.Ident:
		return visit(expr)
	case *ir.IntLit:
		return nil
	case *ir.UnaryExpr:
		return walkIdents(expr.X(), visit)
	case *ir.BinaryExpr:
		if err := walkIdents(expr.X(), visit); err != nil {
			return err
		}
		return walkIdents(expr.Y(), visit)
	default:
		panic(fmt.Errorf("unexpected expression type: %T", expr))
	}
}
