package ir

import (
	"fmt"
	"strings"
)

// BlockStmt represents a sequential block of statements.
type BlockStmt struct {
	Node

	stmts []Stmt
}

// NewBlockStmt creates a new, empty sequential block.
func NewBlockStmt(pos Pos) *BlockStmt {
	s := new(BlockStmt)
	s.initNode(pos)
	s.stmts = nil

	return s
}

// Stmts returns the statements inside the block.
func (s *BlockStmt) Stmts() []Stmt {
	return s.stmts
}

// AddStmt appends the given statement at the end of the block.
func (s *BlockStmt) AddStmt(stmt Stmt) {
	s.stmts = append(s.stmts, stmt)
}

func (s *BlockStmt) String() string {
	str := "{\n"
	for _, stmt := range s.stmts {
		str += "  " + strings.ReplaceAll(stmt.String(), "\n", "\n  ") + "\n"
	}
	str += "}"
	return str
}

// WhileStmt represents a conditional loop. The condition may only reference
// thread-local state.
type WhileStmt struct {
	Node

	cond Expr
	body *BlockStmt
}

// NewWhileStmt creates a new loop with the given condition and body.
func NewWhileStmt(pos Pos, cond Expr, body *BlockStmt) *WhileStmt {
	s := new(WhileStmt)
	s.initNode(pos)
	s.cond = cond
	s.body = body

	return s
}

// Cond returns the loop condition.
func (s *WhileStmt) Cond() Expr {
	return s.cond
}

// Body returns the loop body.
func (s *WhileStmt) Body() *BlockStmt {
	return s.body
}

func (s *WhileStmt) String() string {
	return fmt.Sprintf("while (%s) %s", s.cond, s.body)
}

// StoreStmt represents an atomic store to a shared variable.
type StoreStmt struct {
	Node

	loc   string
	value Expr
}

// NewStoreStmt creates a new atomic store of the given value to the given
// memory location.
func NewStoreStmt(pos Pos, loc string, value Expr) *StoreStmt {
	s := new(StoreStmt)
	s.initNode(pos)
	s.loc = loc
	s.value = value

	return s
}

// Loc returns the name of the stored-to memory location.
func (s *StoreStmt) Loc() string {
	return s.loc
}

// Value returns the stored value expression.
func (s *StoreStmt) Value() Expr {
	return s.value
}

func (s *StoreStmt) String() string {
	return fmt.Sprintf("store(%s, %s)", s.loc, s.value)
}

// NonAtomicStoreStmt represents a non-atomic store to a shared variable. A
// racing thread may observe the store before the write commits.
type NonAtomicStoreStmt struct {
	Node

	loc   string
	value Expr
}

// NewNonAtomicStoreStmt creates a new non-atomic store of the given value to
// the given memory location.
func NewNonAtomicStoreStmt(pos Pos, loc string, value Expr) *NonAtomicStoreStmt {
	s := new(NonAtomicStoreStmt)
	s.initNode(pos)
	s.loc = loc
	s.value = value

	return s
}

// Loc returns the name of the stored-to memory location.
func (s *NonAtomicStoreStmt) Loc() string {
	return s.loc
}

// Value returns the stored value expression.
func (s *NonAtomicStoreStmt) Value() Expr {
	return s.value
}

func (s *NonAtomicStoreStmt) String() string {
	return fmt.Sprintf("storena(%s, %s)", s.loc, s.value)
}

// WaitStmt represents a blocking wait until a shared variable holds one of
// the given values.
type WaitStmt struct {
	Node

	loc    string
	values []int
}

// NewWaitStmt creates a new wait on the given memory location for any of the
// given values.
func NewWaitStmt(pos Pos, loc string, values []int) *WaitStmt {
	s := new(WaitStmt)
	s.initNode(pos)
	s.loc = loc
	s.values = values

	return s
}

// Loc returns the name of the awaited memory location.
func (s *WaitStmt) Loc() string {
	return s.loc
}

// Values returns the set of values the wait unblocks on.
func (s *WaitStmt) Values() []int {
	return s.values
}

func (s *WaitStmt) String() string {
	return fmt.Sprintf("wait(%s, %s)", s.loc, valueSetString(s.values))
}

// BcasStmt represents a bounded (blocking) compare-and-swap over 0/1 values,
// the building block of the lock encoding.
type BcasStmt struct {
	Node

	loc         string
	expected    int
	replacement int
}

// NewBcasStmt creates a new bounded compare-and-swap on the given location.
func NewBcasStmt(pos Pos, loc string, expected, replacement int) *BcasStmt {
	s := new(BcasStmt)
	s.initNode(pos)
	s.loc = loc
	s.expected = expected
	s.replacement = replacement

	return s
}

// Loc returns the name of the swapped memory location.
func (s *BcasStmt) Loc() string {
	return s.loc
}

// Expected returns the value the swap blocks on.
func (s *BcasStmt) Expected() int {
	return s.expected
}

// Replacement returns the value written once the swap succeeds.
func (s *BcasStmt) Replacement() int {
	return s.replacement
}

func (s *BcasStmt) String() string {
	return fmt.Sprintf("bcas(%s, %d, %d)", s.loc, s.expected, s.replacement)
}

// AssignStmt represents an assignment to a thread-local variable. The right
// hand side is one of the RHS variants: a plain expression, a read-modify-
// write operation, an atomic or non-atomic load, or a wait with result.
type AssignStmt struct {
	Node

	local string
	rhs   RHS
}

// NewAssignStmt creates a new assignment of the given right hand side to the
// given local variable.
func NewAssignStmt(pos Pos, local string, rhs RHS) *AssignStmt {
	s := new(AssignStmt)
	s.initNode(pos)
	s.local = local
	s.rhs = rhs

	return s
}

// Local returns the name of the assigned local variable.
func (s *AssignStmt) Local() string {
	return s.local
}

// RHS returns the right hand side of the assignment.
func (s *AssignStmt) RHS() RHS {
	return s.rhs
}

func (s *AssignStmt) String() string {
	return fmt.Sprintf("%s := %s", s.local, s.rhs)
}

// LabeledStmt represents a statement carrying a label.
type LabeledStmt struct {
	Node

	label string
	stmt  Stmt
}

// NewLabeledStmt creates a new labeled statement.
func NewLabeledStmt(pos Pos, label string, stmt Stmt) *LabeledStmt {
	s := new(LabeledStmt)
	s.initNode(pos)
	s.label = label
	s.stmt = stmt

	return s
}

// Label returns the label text.
func (s *LabeledStmt) Label() string {
	return s.label
}

// Stmt returns the labeled statement.
func (s *LabeledStmt) Stmt() Stmt {
	return s.stmt
}

func (s *LabeledStmt) String() string {
	return fmt.Sprintf("%s: %s", s.label, s.stmt)
}

// GotoStmt represents an unconditional jump to a label.
type GotoStmt struct {
	Node

	target string
}

// NewGotoStmt creates a new jump to the given label.
func NewGotoStmt(pos Pos, target string) *GotoStmt {
	s := new(GotoStmt)
	s.initNode(pos)
	s.target = target

	return s
}

// Target returns the jumped-to label.
func (s *GotoStmt) Target() string {
	return s.target
}

func (s *GotoStmt) String() string {
	return "goto " + s.target
}

// CondGotoStmt represents a jump to a label taken only if the guard holds.
// The guard may only reference thread-local state.
type CondGotoStmt struct {
	Node

	cond   Expr
	target string
}

// NewCondGotoStmt creates a new conditional jump to the given label.
func NewCondGotoStmt(pos Pos, cond Expr, target string) *CondGotoStmt {
	s := new(CondGotoStmt)
	s.initNode(pos)
	s.cond = cond
	s.target = target

	return s
}

// Cond returns the jump guard.
func (s *CondGotoStmt) Cond() Expr {
	return s.cond
}

// Target returns the jumped-to label.
func (s *CondGotoStmt) Target() string {
	return s.target
}

func (s *CondGotoStmt) String() string {
	return fmt.Sprintf("if (%s) goto %s", s.cond, s.target)
}

// IfStmt represents an if statement with an optional else branch. The
// condition may only reference thread-local state.
type IfStmt struct {
	Node

	cond       Expr
	ifBranch   *BlockStmt
	elseBranch *BlockStmt
}

// NewIfStmt creates a new if statement. The else branch may be nil.
func NewIfStmt(pos Pos, cond Expr, ifBranch, elseBranch *BlockStmt) *IfStmt {
	s := new(IfStmt)
	s.initNode(pos)
	s.cond = cond
	s.ifBranch = ifBranch
	s.elseBranch = elseBranch

	return s
}

// Cond returns the branch condition.
func (s *IfStmt) Cond() Expr {
	return s.cond
}

// IfBranch returns the body of the if branch.
func (s *IfStmt) IfBranch() *BlockStmt {
	return s.ifBranch
}

// ElseBranch returns the body of the else branch, or nil if there is none.
func (s *IfStmt) ElseBranch() *BlockStmt {
	return s.elseBranch
}

func (s *IfStmt) String() string {
	str := fmt.Sprintf("if (%s) %s", s.cond, s.ifBranch)
	if s.elseBranch != nil {
		str += " else " + s.elseBranch.String()
	}
	return str
}

// FenceStmt represents a memory fence.
type FenceStmt struct {
	Node
}

// NewFenceStmt creates a new memory fence.
func NewFenceStmt(pos Pos) *FenceStmt {
	s := new(FenceStmt)
	s.initNode(pos)

	return s
}

func (s *FenceStmt) String() string {
	return "fence"
}

// LockStmt represents acquiring a lock encoded in a shared variable.
type LockStmt struct {
	Node

	loc string
}

// NewLockStmt creates a new lock acquisition on the given location.
func NewLockStmt(pos Pos, loc string) *LockStmt {
	s := new(LockStmt)
	s.initNode(pos)
	s.loc = loc

	return s
}

// Loc returns the name of the lock variable.
func (s *LockStmt) Loc() string {
	return s.loc
}

func (s *LockStmt) String() string {
	return "lock(" + s.loc + ")"
}

// UnlockStmt represents releasing a lock encoded in a shared variable.
type UnlockStmt struct {
	Node

	loc string
}

// NewUnlockStmt creates a new lock release on the given location.
func NewUnlockStmt(pos Pos, loc string) *UnlockStmt {
	s := new(UnlockStmt)
	s.initNode(pos)
	s.loc = loc

	return s
}

// Loc returns the name of the lock variable.
func (s *UnlockStmt) Loc() string {
	return s.loc
}

func (s *UnlockStmt) String() string {
	return "unlock(" + s.loc + ")"
}

// ChoiceStmt represents a non-deterministic choice among its branches.
type ChoiceStmt struct {
	Node

	branches []*BlockStmt
}

// NewChoiceStmt creates a new non-deterministic choice over the given
// branches.
func NewChoiceStmt(pos Pos, branches []*BlockStmt) *ChoiceStmt {
	s := new(ChoiceStmt)
	s.initNode(pos)
	s.branches = branches

	return s
}

// Branches returns the branches of the choice.
func (s *ChoiceStmt) Branches() []*BlockStmt {
	return s.branches
}

func (s *ChoiceStmt) String() string {
	strs := make([]string, len(s.branches))
	for i, b := range s.branches {
		strs[i] = b.String()
	}
	return "choice " + strings.Join(strs, " or ")
}

// AssumeStmt represents an assumption: if the condition does not hold, the
// thread halts without failing.
type AssumeStmt struct {
	Node

	cond Expr
}

// NewAssumeStmt creates a new assumption of the given condition.
func NewAssumeStmt(pos Pos, cond Expr) *AssumeStmt {
	s := new(AssumeStmt)
	s.initNode(pos)
	s.cond = cond

	return s
}

// Cond returns the assumed condition.
func (s *AssumeStmt) Cond() Expr {
	return s.cond
}

func (s *AssumeStmt) String() string {
	return fmt.Sprintf("assume(%s)", s.cond)
}

// SkipStmt represents a statement without effect.
type SkipStmt struct {
	Node
}

// NewSkipStmt creates a new skip statement.
func NewSkipStmt(pos Pos) *SkipStmt {
	s := new(SkipStmt)
	s.initNode(pos)

	return s
}

func (s *SkipStmt) String() string {
	return "skip"
}

// AssertStmt represents an assertion the model checker verifies.
type AssertStmt struct {
	Node

	cond Expr
}

// NewAssertStmt creates a new assertion of the given condition.
func NewAssertStmt(pos Pos, cond Expr) *AssertStmt {
	s := new(AssertStmt)
	s.initNode(pos)
	s.cond = cond

	return s
}

// Cond returns the asserted condition.
func (s *AssertStmt) Cond() Expr {
	return s.cond
}

func (s *AssertStmt) String() string {
	return fmt.Sprintf("assert(%s)", s.cond)
}

func valueSetString(values []int) string {
	strs := make([]string, len(values))
	for i, v := range values {
		strs[i] = fmt.Sprintf("%d", v)
	}
	return "{" + strings.Join(strs, ", ") + "}"
}
