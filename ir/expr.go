package ir

import "fmt"

// Expr is the interface describing all expressions. Expressions range over
// thread-local variables, shared-variable reads, and integer literals.
type Expr interface {
	fmt.Stringer

	Pos() Pos

	// exprNode ensures only expression types conform to the Expr interface.
	exprNode()
}

func (e *Ident) exprNode()      {}
func (e *IntLit) exprNode()     {}
func (e *UnaryExpr) exprNode()  {}
func (e *BinaryExpr) exprNode() {}

// Op is a unary or binary operator.
type Op int

const (
	// Add is the addition operator.
	Add Op = iota
	// Sub is the subtraction operator.
	Sub
	// Mul is the multiplication operator.
	Mul
	// Div is the division operator.
	Div
	// Mod is the remainder operator.
	Mod
	// Eq is the equality operator.
	Eq
	// Neq is the inequality operator.
	Neq
	// Lss is the less-than operator.
	Lss
	// Leq is the less-than-or-equal operator.
	Leq
	// Gtr is the greater-than operator.
	Gtr
	// Geq is the greater-than-or-equal operator.
	Geq
	// LAnd is the logical-and operator.
	LAnd
	// LOr is the logical-or operator.
	LOr
	// LNot is the logical-not operator.
	LNot
)

func (o Op) String() string {
	switch o {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	case Mod:
		return "%"
	case Eq:
		return "=="
	case Neq:
		return "!="
	case Lss:
		return "<"
	case Leq:
		return "<="
	case Gtr:
		return ">"
	case Geq:
		return ">="
	case LAnd:
		return "&&"
	case LOr:
		return "||"
	case LNot:
		return "!"
	default:
		panic(fmt.Errorf("unknown Op: %d", int(o)))
	}
}

// Ident represents a variable reference, either thread-local or shared.
type Ident struct {
	Node

	name string
}

// NewIdent creates a new variable reference.
func NewIdent(pos Pos, name string) *Ident {
	e := new(Ident)
	e.initNode(pos)
	e.name = name

	return e
}

// Name returns the referenced name.
func (e *Ident) Name() string {
	return e.name
}

func (e *Ident) String() string {
	return e.name
}

// IntLit represents an integer literal.
type IntLit struct {
	Node

	value int
}

// NewIntLit creates a new integer literal.
func NewIntLit(pos Pos, value int) *IntLit {
	e := new(IntLit)
	e.initNode(pos)
	e.value = value

	return e
}

// Value returns the literal value.
func (e *IntLit) Value() int {
	return e.value
}

func (e *IntLit) String() string {
	return fmt.Sprintf("%d", e.value)
}

// UnaryExpr represents an expression with a unary operator.
type UnaryExpr struct {
	Node

	op Op
	x  Expr
}

// NewUnaryExpr creates a new unary expression.
func NewUnaryExpr(pos Pos, op Op, x Expr) *UnaryExpr {
	e := new(UnaryExpr)
	e.initNode(pos)
	e.op = op
	e.x = x

	return e
}

// Op returns the operator of the expression.
func (e *UnaryExpr) Op() Op {
	return e.op
}

// X returns the operand of the expression.
func (e *UnaryExpr) X() Expr {
	return e.x
}

func (e *UnaryExpr) String() string {
	return fmt.Sprintf("%s(%s)", e.op, e.x)
}

// BinaryExpr represents an expression with a binary operator.
type BinaryExpr struct {
	Node

	op   Op
	x, y Expr
}

// NewBinaryExpr creates a new binary expression.
func NewBinaryExpr(pos Pos, op Op, x, y Expr) *BinaryExpr {
	e := new(BinaryExpr)
	e.initNode(pos)
	e.op = op
	e.x = x
	e.y = y

	return e
}

// Op returns the operator of the expression.
func (e *BinaryExpr) Op() Op {
	return e.op
}

// X returns the left operand of the expression.
func (e *BinaryExpr) X() Expr {
	return e.x
}

// Y returns the right operand of the expression.
func (e *BinaryExpr) Y() Expr {
	return e.y
}

func (e *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", e.x, e.op, e.y)
}
