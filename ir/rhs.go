package ir

import "fmt"

// RHS is the interface describing the right hand side variants of an
// assignment to a thread-local variable: a plain expression, a
// read-modify-write operation, an atomic or non-atomic load, or a wait with
// result capture.
type RHS interface {
	fmt.Stringer

	Pos() Pos

	// rhsNode ensures only right hand side types conform to the RHS
	// interface.
	rhsNode()
}

func (e *Ident) rhsNode()         {}
func (e *IntLit) rhsNode()        {}
func (e *UnaryExpr) rhsNode()     {}
func (e *BinaryExpr) rhsNode()    {}
func (r *CasRHS) rhsNode()        {}
func (r *FaddRHS) rhsNode()       {}
func (r *XchgRHS) rhsNode()       {}
func (r *LoadRHS) rhsNode()       {}
func (r *NonAtomicLoadRHS) rhsNode() {}
func (r *WaitRHS) rhsNode()       {}

// CasRHS represents a compare-and-swap on a shared variable. The assigned
// local receives the pre-swap value.
type CasRHS struct {
	Node

	loc         string
	expected    Expr
	replacement Expr
}

// NewCasRHS creates a new compare-and-swap right hand side.
func NewCasRHS(pos Pos, loc string, expected, replacement Expr) *CasRHS {
	r := new(CasRHS)
	r.initNode(pos)
	r.loc = loc
	r.expected = expected
	r.replacement = replacement

	return r
}

// Loc returns the name of the swapped memory location.
func (r *CasRHS) Loc() string {
	return r.loc
}

// Expected returns the expression the current value is compared against.
func (r *CasRHS) Expected() Expr {
	return r.expected
}

// Replacement returns the expression written on a successful swap.
func (r *CasRHS) Replacement() Expr {
	return r.replacement
}

func (r *CasRHS) String() string {
	return fmt.Sprintf("cas(%s, %s, %s)", r.loc, r.expected, r.replacement)
}

// FaddRHS represents a fetch-and-add on a shared variable. The assigned
// local receives the pre-add value.
type FaddRHS struct {
	Node

	loc   string
	delta Expr
}

// NewFaddRHS creates a new fetch-and-add right hand side.
func NewFaddRHS(pos Pos, loc string, delta Expr) *FaddRHS {
	r := new(FaddRHS)
	r.initNode(pos)
	r.loc = loc
	r.delta = delta

	return r
}

// Loc returns the name of the modified memory location.
func (r *FaddRHS) Loc() string {
	return r.loc
}

// Delta returns the added expression.
func (r *FaddRHS) Delta() Expr {
	return r.delta
}

func (r *FaddRHS) String() string {
	return fmt.Sprintf("fadd(%s, %s)", r.loc, r.delta)
}

// XchgRHS represents an atomic exchange on a shared variable. The assigned
// local receives the pre-exchange value.
type XchgRHS struct {
	Node

	loc   string
	value Expr
}

// NewXchgRHS creates a new exchange right hand side.
func NewXchgRHS(pos Pos, loc string, value Expr) *XchgRHS {
	r := new(XchgRHS)
	r.initNode(pos)
	r.loc = loc
	r.value = value

	return r
}

// Loc returns the name of the exchanged memory location.
func (r *XchgRHS) Loc() string {
	return r.loc
}

// Value returns the written expression.
func (r *XchgRHS) Value() Expr {
	return r.value
}

func (r *XchgRHS) String() string {
	return fmt.Sprintf("xchg(%s, %s)", r.loc, r.value)
}

// LoadRHS represents an atomic load of a shared variable.
type LoadRHS struct {
	Node

	loc string
}

// NewLoadRHS creates a new atomic load right hand side.
func NewLoadRHS(pos Pos, loc string) *LoadRHS {
	r := new(LoadRHS)
	r.initNode(pos)
	r.loc = loc

	return r
}

// Loc returns the name of the loaded memory location.
func (r *LoadRHS) Loc() string {
	return r.loc
}

func (r *LoadRHS) String() string {
	return fmt.Sprintf("load(%s)", r.loc)
}

// NonAtomicLoadRHS represents a non-atomic (unsynchronized) load of a shared
// variable.
type NonAtomicLoadRHS struct {
	Node

	loc string
}

// NewNonAtomicLoadRHS creates a new non-atomic load right hand side.
func NewNonAtomicLoadRHS(pos Pos, loc string) *NonAtomicLoadRHS {
	r := new(NonAtomicLoadRHS)
	r.initNode(pos)
	r.loc = loc

	return r
}

// Loc returns the name of the loaded memory location.
func (r *NonAtomicLoadRHS) Loc() string {
	return r.loc
}

func (r *NonAtomicLoadRHS) String() string {
	return fmt.Sprintf("loadna(%s)", r.loc)
}

// WaitRHS represents a blocking wait that captures the observed value into
// the assigned local.
type WaitRHS struct {
	Node

	loc    string
	values []int
}

// NewWaitRHS creates a new wait-with-result right hand side.
func NewWaitRHS(pos Pos, loc string, values []int) *WaitRHS {
	r := new(WaitRHS)
	r.initNode(pos)
	r.loc = loc
	r.values = values

	return r
}

// Loc returns the name of the awaited memory location.
func (r *WaitRHS) Loc() string {
	return r.loc
}

// Values returns the set of values the wait unblocks on.
func (r *WaitRHS) Values() []int {
	return r.values
}

func (r *WaitRHS) String() string {
	return fmt.Sprintf("wait(%s, %s)", r.loc, valueSetString(r.values))
}
