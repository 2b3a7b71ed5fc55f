package ir

import (
	"fmt"
	"strings"
)

// Pos describes the source position of a construct in a litmus program.
type Pos struct {
	Line, Column int
}

// NoPos is the zero position, used for synthesized constructs.
var NoPos = Pos{}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Node holds the source position shared by all IR entities.
type Node struct {
	pos Pos
}

func (n *Node) initNode(pos Pos) {
	n.pos = pos
}

// Pos returns the source position of the entity.
func (n *Node) Pos() Pos {
	return n.pos
}

// Program represents an entire litmus program: the shared variable
// declarations, the optional wraparound bound, and one function per
// concurrent thread.
type Program struct {
	bound    int
	hasBound bool

	atomics    []*SharedVar
	nonAtomics []*SharedVar

	funcs []*Func
}

// NewProgram creates a new blank program.
func NewProgram() *Program {
	p := new(Program)
	p.atomics = nil
	p.nonAtomics = nil
	p.funcs = nil

	return p
}

// Bound returns the declared wraparound bound and whether one was declared.
func (p *Program) Bound() (int, bool) {
	return p.bound, p.hasBound
}

// SetBound sets the declared wraparound bound.
func (p *Program) SetBound(bound int) {
	p.bound = bound
	p.hasBound = true
}

// Atomics returns the shared atomic variable declarations in program order.
func (p *Program) Atomics() []*SharedVar {
	return p.atomics
}

// AddAtomic appends a shared atomic variable declaration.
func (p *Program) AddAtomic(v *SharedVar) {
	p.atomics = append(p.atomics, v)
}

// NonAtomics returns the shared non-atomic variable declarations in program
// order.
func (p *Program) NonAtomics() []*SharedVar {
	return p.nonAtomics
}

// AddNonAtomic appends a shared non-atomic variable declaration.
func (p *Program) AddNonAtomic(v *SharedVar) {
	p.nonAtomics = append(p.nonAtomics, v)
}

// Funcs returns all functions of the program in declaration order. The index
// of a function is the index of the thread executing it.
func (p *Program) Funcs() []*Func {
	return p.funcs
}

// AddFunc appends the given function to the program.
func (p *Program) AddFunc(f *Func) {
	p.funcs = append(p.funcs, f)
}

func (p *Program) String() string {
	str := "prog{\n"
	if p.hasBound {
		str += fmt.Sprintf("  bound: %d\n", p.bound)
	}
	for _, v := range p.atomics {
		str += "  atomic " + v.String() + "\n"
	}
	for _, v := range p.nonAtomics {
		str += "  nonatomic " + v.String() + "\n"
	}
	for _, f := range p.funcs {
		str += "  " + strings.ReplaceAll(f.String(), "\n", "\n  ") + "\n"
	}
	str += "}"
	return str
}

// SharedVar represents a shared memory location declaration, with an optional
// explicit initial value.
type SharedVar struct {
	Node

	name            string
	initialValue    int
	hasInitialValue bool
}

// NewSharedVar creates a new shared variable declaration with the default
// initial value.
func NewSharedVar(pos Pos, name string) *SharedVar {
	v := new(SharedVar)
	v.initNode(pos)
	v.name = name

	return v
}

// Name returns the name of the shared variable.
func (v *SharedVar) Name() string {
	return v.name
}

// InitialValue returns the value the shared variable holds initially.
// Variables without an explicit initializer start at zero.
func (v *SharedVar) InitialValue() int {
	return v.initialValue
}

// HasInitialValue returns whether the declaration carries an explicit
// initial value.
func (v *SharedVar) HasInitialValue() bool {
	return v.hasInitialValue
}

// SetInitialValue sets the explicit initial value of the shared variable.
func (v *SharedVar) SetInitialValue(value int) {
	v.initialValue = value
	v.hasInitialValue = true
}

func (v *SharedVar) String() string {
	if v.hasInitialValue {
		return fmt.Sprintf("%s = %d", v.name, v.initialValue)
	}
	return v.name
}

// Func represents the code executed by one concurrent thread.
type Func struct {
	Node

	name   string
	locals []string
	body   []Stmt
}

// NewFunc creates a new function with the given name.
func NewFunc(pos Pos, name string) *Func {
	f := new(Func)
	f.initNode(pos)
	f.name = name
	f.locals = nil
	f.body = nil

	return f
}

// Name returns the name of the function.
func (f *Func) Name() string {
	return f.name
}

// Locals returns the declared local variable names in declaration order.
func (f *Func) Locals() []string {
	return f.locals
}

// AddLocal appends a local variable declaration to the function.
func (f *Func) AddLocal(name string) {
	f.locals = append(f.locals, name)
}

// Body returns the statements of the function body.
func (f *Func) Body() []Stmt {
	return f.body
}

// AddStmt appends the given statement at the end of the function body.
func (f *Func) AddStmt(stmt Stmt) {
	f.body = append(f.body, stmt)
}

func (f *Func) String() string {
	str := "thread " + f.name + "{\n"
	if len(f.locals) > 0 {
		str += "  local " + strings.Join(f.locals, ", ") + "\n"
	}
	for _, stmt := range f.body {
		str += "  " + strings.ReplaceAll(stmt.String(), "\n", "\n  ") + "\n"
	}
	str += "}"
	return str
}
