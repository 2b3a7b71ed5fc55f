package translator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dprr/rocker/ir"
	"github.com/dprr/rocker/promela"
)

func (t *translator) translateStmt(stmt ir.Stmt, ctx *context) error {
	switch stmt := stmt.(type) {
	case *ir.BlockStmt:
		return t.translateStmts(stmt.Stmts(), ctx)
	case *ir.WhileStmt:
		return t.translateWhileStmt(stmt, ctx)
	case *ir.StoreStmt:
		return t.translateStoreStmt(stmt, ctx)
	case *ir.NonAtomicStoreStmt:
		return t.translateNonAtomicStoreStmt(stmt, ctx)
	case *ir.WaitStmt:
		return t.translateWait(stmt.Loc(), stmt.Values(), "", ctx, stmt)
	case *ir.BcasStmt:
		return t.translateStmts(t.desugarBcas(stmt), ctx)
	case *ir.AssignStmt:
		return t.translateAssignStmt(stmt, ctx)
	case *ir.LabeledStmt:
		ctx.addLine(stmt.Label() + ":")
		return t.translateStmt(stmt.Stmt(), ctx)
	case *ir.GotoStmt:
		ctx.addLine("goto " + stmt.Target() + ";")
		return nil
	case *ir.CondGotoStmt:
		return t.translateCondGotoStmt(stmt, ctx)
	case *ir.IfStmt:
		return t.translateIfStmt(stmt, ctx)
	case *ir.FenceStmt:
		return t.translateStmts(t.desugarFence(stmt), ctx)
	case *ir.LockStmt:
		return t.translateStmts(t.desugarLock(stmt), ctx)
	case *ir.UnlockStmt:
		return t.translateStmts(t.desugarUnlock(stmt), ctx)
	case *ir.ChoiceStmt:
		return t.translateChoiceStmt(stmt, ctx)
	case *ir.AssumeStmt:
		return t.translateAssumeStmt(stmt, ctx)
	case *ir.SkipStmt:
		ctx.addLine("skip;")
		return nil
	case *ir.AssertStmt:
		return t.translateAssertStmt(stmt, ctx)
	default:
		panic(fmt.Errorf("unexpected statement type: %T", stmt))
	}
}

func (t *translator) translateStmts(stmts []ir.Stmt, ctx *context) error {
	for _, stmt := range stmts {
		if err := t.translateStmt(stmt, ctx); err != nil {
			return err
		}
	}
	return nil
}

// translateBody translates a block into a fresh line buffer, for bodies that
// are indented into an enclosing guarded construct. Empty bodies become a
// single skip.
func (t *translator) translateBody(body *ir.BlockStmt, ctx *context) ([]string, error) {
	sub := ctx.subContext()
	if err := t.translateStmts(body.Stmts(), sub); err != nil {
		return nil, err
	}
	if len(sub.lines) == 0 {
		sub.addLine("skip;")
	}
	return sub.lines, nil
}

func (t *translator) translateWhileStmt(stmt *ir.WhileStmt, ctx *context) error {
	if err := t.validateControlExpr(stmt.Cond(), ctx, stmt); err != nil {
		return err
	}
	cond, err := t.renderExpr(stmt.Cond(), ctx)
	if err != nil {
		return err
	}
	body, err := t.translateBody(stmt.Body(), ctx)
	if err != nil {
		return err
	}
	ctx.addLine("do")
	ctx.addLine(":: " + cond + " ->")
	ctx.addLines(promela.Indent(body))
	ctx.addLine(":: else -> break;")
	ctx.addLine("od;")
	return nil
}

func (t *translator) translateIfStmt(stmt *ir.IfStmt, ctx *context) error {
	if err := t.validateControlExpr(stmt.Cond(), ctx, stmt); err != nil {
		return err
	}
	cond, err := t.renderExpr(stmt.Cond(), ctx)
	if err != nil {
		return err
	}
	ifBody, err := t.translateBody(stmt.IfBranch(), ctx)
	if err != nil {
		return err
	}
	elseBody := []string{"skip;"}
	if stmt.ElseBranch() != nil {
		elseBody, err = t.translateBody(stmt.ElseBranch(), ctx)
		if err != nil {
			return err
		}
	}
	ctx.addLine("if")
	ctx.addLine(":: " + cond + " ->")
	ctx.addLines(promela.Indent(ifBody))
	ctx.addLine(":: else ->")
	ctx.addLines(promela.Indent(elseBody))
	ctx.addLine("fi;")
	return nil
}

func (t *translator) translateCondGotoStmt(stmt *ir.CondGotoStmt, ctx *context) error {
	if err := t.validateControlExpr(stmt.Cond(), ctx, stmt); err != nil {
		return err
	}
	cond, err := t.renderExpr(stmt.Cond(), ctx)
	if err != nil {
		return err
	}
	ctx.addLine("if")
	ctx.addLine(":: " + cond + " -> goto " + stmt.Target() + ";")
	ctx.addLine(":: else -> skip;")
	ctx.addLine("fi;")
	return nil
}

// translateChoiceStmt emits a guarded choice whose every branch guard is
// literally true, leaving the pick to the model checker.
func (t *translator) translateChoiceStmt(stmt *ir.ChoiceStmt, ctx *context) error {
	ctx.addLine("if")
	for _, branch := range stmt.Branches() {
		body, err := t.translateBody(branch, ctx)
		if err != nil {
			return err
		}
		ctx.addLine(":: true ->")
		ctx.addLines(promela.Indent(body))
	}
	ctx.addLine("fi;")
	return nil
}

// translateAssumeStmt emits a guarded choice: if the condition holds the
// thread continues, otherwise it jumps to its terminal label and halts
// without failing.
func (t *translator) translateAssumeStmt(stmt *ir.AssumeStmt, ctx *context) error {
	if err := t.validateControlExpr(stmt.Cond(), ctx, stmt); err != nil {
		return err
	}
	cond, err := t.renderExpr(stmt.Cond(), ctx)
	if err != nil {
		return err
	}
	ctx.addLine("if")
	ctx.addLine(":: " + cond + " -> skip;")
	ctx.addLine(":: else -> goto " + terminalLabel + ";")
	ctx.addLine("fi;")
	return nil
}

// translateAssertStmt bound-encodes the asserted expression into the fixed
// assertion temporary and asserts that temporary. The local assignment is
// not wrapped atomic; the temporary is otherwise private to the thread.
func (t *translator) translateAssertStmt(stmt *ir.AssertStmt, ctx *context) error {
	value, err := t.renderBoundedExpr(stmt.Cond(), ctx)
	if err != nil {
		return err
	}
	ctx.addLine(assertTempName + " = " + value + ";")
	ctx.addLine("assert(" + assertTempName + ");")
	return nil
}

// translateStoreStmt emits an atomic store as a single indivisible unit:
// the pre-store hook, then the bounded assignment.
func (t *translator) translateStoreStmt(stmt *ir.StoreStmt, ctx *context) error {
	if err := t.checkAtomicLoc(stmt.Loc(), stmt.Pos(), stmt); err != nil {
		return err
	}
	value, err := t.renderBoundedExpr(stmt.Value(), ctx)
	if err != nil {
		return err
	}
	lines := hookLines(t.instr.PreStore(ctx.thread, stmt.Loc(), value))
	lines = append(lines, stmt.Loc()+" = "+value+";")
	ctx.addLines(promela.Atomic(lines))
	return nil
}

// translateNonAtomicStoreStmt emits the instrumentation hook outside any
// atomic unit, then one atomic unit containing a second pre-store hook and
// the assignment: a racing thread may observe the store before the write
// commits.
func (t *translator) translateNonAtomicStoreStmt(stmt *ir.NonAtomicStoreStmt, ctx *context) error {
	if err := t.checkNonAtomicLoc(stmt.Loc(), stmt.Pos(), stmt); err != nil {
		return err
	}
	value, err := t.renderBoundedExpr(stmt.Value(), ctx)
	if err != nil {
		return err
	}
	ctx.addLines(hookLines(t.instr.PreNonAtomicStore(ctx.thread, stmt.Loc())))
	lines := hookLines(t.instr.PreStore(ctx.thread, stmt.Loc(), value))
	lines = append(lines, stmt.Loc()+" = "+value+";")
	ctx.addLines(promela.Atomic(lines))
	return nil
}

// translateWait emits the two sequential atomic units of a wait: the
// pre-wait hook, then the disjunctive guard over the wrapped value set with
// the optional result capture and the post-wait hook. The gap between the
// units is an explicit scheduling point where other threads may interleave.
func (t *translator) translateWait(loc string, values []int, result string, ctx *context, fragment fmt.Stringer) error {
	pos := fragment.(ir.Stmt).Pos()
	if err := t.checkAtomicLoc(loc, pos, fragment); err != nil {
		return err
	}

	unit1 := hookLines(t.instr.PreWait(ctx.thread, loc))
	if len(unit1) == 0 {
		unit1 = []string{"skip;"}
	}
	ctx.addLines(promela.Atomic(unit1))

	guards := make([]string, len(values))
	for i, v := range values {
		if err := t.checkLiteral(v, pos); err != nil {
			return err
		}
		guards[i] = "(" + loc + " == " + t.bounded(strconv.Itoa(v)) + ")"
	}
	guard := strings.Join(guards, " || ")
	if len(values) > 1 {
		guard = "(" + guard + ")"
	}
	unit2 := []string{guard + ";"}
	if result != "" {
		unit2 = append(unit2, result+" = "+loc+";")
	}
	unit2 = append(unit2, hookLines(t.instr.PostWait(ctx.thread, loc))...)
	ctx.addLines(promela.Atomic(unit2))
	return nil
}

func (t *translator) translateAssignStmt(stmt *ir.AssignStmt, ctx *context) error {
	if t.cfg.IsShared(stmt.Local()) {
		return newValidationError(AssignmentIntoShared, stmt.Pos(),
			"assignment into shared variable %q", stmt.Local())
	}
	if !ctx.isLocal(stmt.Local()) {
		return newValidationError(UndeclaredVariable, stmt.Pos(),
			"assignment into undeclared variable %q", stmt.Local())
	}

	switch rhs := stmt.RHS().(type) {
	case ir.Expr:
		// Plain expression: a local assignment, not wrapped atomic.
		value, err := t.renderBoundedExpr(rhs, ctx)
		if err != nil {
			return err
		}
		ctx.addLine(stmt.Local() + " = " + value + ";")
		return nil
	case *ir.LoadRHS:
		if err := t.checkAtomicLoc(rhs.Loc(), rhs.Pos(), stmt); err != nil {
			return err
		}
		lines := hookLines(t.instr.PreLoad(ctx.thread, rhs.Loc()))
		lines = append(lines, stmt.Local()+" = "+rhs.Loc()+";")
		ctx.addLines(promela.Atomic(lines))
		return nil
	case *ir.NonAtomicLoadRHS:
		if err := t.checkNonAtomicLoc(rhs.Loc(), rhs.Pos(), stmt); err != nil {
			return err
		}
		ctx.addLines(hookLines(t.instr.PreLoad(ctx.thread, rhs.Loc())))
		ctx.addLine(stmt.Local() + " = " + rhs.Loc() + ";")
		return nil
	case *ir.CasRHS:
		return t.translateCasRHS(stmt, rhs, ctx)
	case *ir.FaddRHS:
		return t.translateFaddRHS(stmt, rhs, ctx)
	case *ir.XchgRHS:
		return t.translateXchgRHS(stmt, rhs, ctx)
	case *ir.WaitRHS:
		return t.translateWait(rhs.Loc(), rhs.Values(), stmt.Local(), ctx, stmt)
	default:
		return newValidationError(MalformedRHS, stmt.Pos(),
			"cannot interpret right hand side of %q", stmt)
	}
}

// translateCasRHS emits the entire read-compare-write sequence as one
// indivisible unit: the pre-CAS hook, the conditional branch on the expected
// value (update hook on success, read hook on failure), the capture of the
// pre-swap value into the result register, and the conditional write.
func (t *translator) translateCasRHS(stmt *ir.AssignStmt, rhs *ir.CasRHS, ctx *context) error {
	if err := t.checkAtomicLoc(rhs.Loc(), rhs.Pos(), stmt); err != nil {
		return err
	}
	if err := t.validateRMWOperand(rhs.Expected(), ctx, stmt); err != nil {
		return err
	}
	if err := t.validateRMWOperand(rhs.Replacement(), ctx, stmt); err != nil {
		return err
	}
	expected, err := t.renderBoundedExpr(rhs.Expected(), ctx)
	if err != nil {
		return err
	}
	replacement, err := t.renderBoundedExpr(rhs.Replacement(), ctx)
	if err != nil {
		return err
	}

	lines := hookLines(t.instr.PreCas(ctx.thread, rhs.Loc(), expected, replacement))
	lines = append(lines, "if")
	lines = append(lines, ":: ("+rhs.Loc()+" == "+expected+") ->")
	success := hookLines(t.instr.CasUpdate(ctx.thread, rhs.Loc(), replacement))
	success = append(success,
		stmt.Local()+" = "+rhs.Loc()+";",
		rhs.Loc()+" = "+replacement+";")
	lines = append(lines, promela.Indent(success)...)
	lines = append(lines, ":: else ->")
	failure := hookLines(t.instr.CasRead(ctx.thread, rhs.Loc()))
	failure = append(failure, stmt.Local()+" = "+rhs.Loc()+";")
	lines = append(lines, promela.Indent(failure)...)
	lines = append(lines, "fi;")
	ctx.addLines(promela.Atomic(lines))
	return nil
}

// translateFaddRHS emits an indivisible read-modify-write: the pre-RMW hook,
// the capture of the old value into the result register, then the write of
// the bounded sum.
func (t *translator) translateFaddRHS(stmt *ir.AssignStmt, rhs *ir.FaddRHS, ctx *context) error {
	if err := t.checkAtomicLoc(rhs.Loc(), rhs.Pos(), stmt); err != nil {
		return err
	}
	if err := t.validateRMWOperand(rhs.Delta(), ctx, stmt); err != nil {
		return err
	}
	delta, err := t.renderExpr(rhs.Delta(), ctx)
	if err != nil {
		return err
	}
	value := t.bounded(rhs.Loc() + " + " + delta)

	lines := hookLines(t.instr.PreRMW(ctx.thread, rhs.Loc(), value))
	lines = append(lines,
		stmt.Local()+" = "+rhs.Loc()+";",
		rhs.Loc()+" = "+value+";")
	ctx.addLines(promela.Atomic(lines))
	return nil
}

// translateXchgRHS emits an indivisible exchange: the pre-RMW hook, the
// capture of the old value into the result register, then the write of the
// bounded replacement.
func (t *translator) translateXchgRHS(stmt *ir.AssignStmt, rhs *ir.XchgRHS, ctx *context) error {
	if err := t.checkAtomicLoc(rhs.Loc(), rhs.Pos(), stmt); err != nil {
		return err
	}
	if err := t.validateRMWOperand(rhs.Value(), ctx, stmt); err != nil {
		return err
	}
	value, err := t.renderBoundedExpr(rhs.Value(), ctx)
	if err != nil {
		return err
	}

	lines := hookLines(t.instr.PreRMW(ctx.thread, rhs.Loc(), value))
	lines = append(lines,
		stmt.Local()+" = "+rhs.Loc()+";",
		rhs.Loc()+" = "+value+";")
	ctx.addLines(promela.Atomic(lines))
	return nil
}

// checkAtomicLoc validates that an atomic operation targets a declared
// shared atomic variable.
func (t *translator) checkAtomicLoc(loc string, pos ir.Pos, fragment fmt.Stringer) error {
	if !t.cfg.IsSharedAtomic(loc) {
		return newValidationError(UndeclaredVariable, pos,
			"%q in %q is not a declared shared atomic variable", loc, fragment)
	}
	return nil
}

// checkNonAtomicLoc validates that a non-atomic operation targets a declared
// shared non-atomic variable.
func (t *translator) checkNonAtomicLoc(loc string, pos ir.Pos, fragment fmt.Stringer) error {
	if !t.cfg.IsSharedNonAtomic(loc) {
		return newValidationError(UndeclaredVariable, pos,
			"%q in %q is not a declared shared non-atomic variable", loc, fragment)
	}
	return nil
}

// hookLines splits an instrumentation fragment into statement lines,
// dropping empty ones.
func hookLines(fragment string) []string {
	if fragment == "" {
		return nil
	}
	var lines []string
	for _, line := range strings.Split(fragment, "\n") {
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
