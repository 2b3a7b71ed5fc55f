package translator

import "github.com/dprr/rocker/ir"

// Statement desugaring: lock, unlock, fence, and the bounded compare-and-swap
// are constructively lowered to equivalent statement trees in the same sum
// type and fed back into the one translator entry point. This keeps the lock
// encoding consistent with directly-written compare-and-swap code and the
// fence encoding consistent with the ordinary read-modify-write contract.

// desugarBcas lowers a bounded (blocking) compare-and-swap to a spin over the
// plain compare-and-swap primitive: a fresh retry label, a swap capturing the
// pre-swap value into the hidden lock-helper bit, and a retry jump while the
// swap keeps failing.
func (t *translator) desugarBcas(stmt *ir.BcasStmt) []ir.Stmt {
	pos := stmt.Pos()
	label := t.names.lockLabel()
	swap := ir.NewAssignStmt(pos, lockHelperName,
		ir.NewCasRHS(pos, stmt.Loc(),
			ir.NewIntLit(pos, stmt.Expected()),
			ir.NewIntLit(pos, stmt.Replacement())))
	retry := ir.NewCondGotoStmt(pos,
		ir.NewBinaryExpr(pos, ir.Neq,
			ir.NewIdent(pos, lockHelperName),
			ir.NewIntLit(pos, stmt.Expected())),
		label)
	return []ir.Stmt{
		ir.NewLabeledStmt(pos, label, swap),
		retry,
	}
}

// desugarLock lowers a lock acquisition to a bounded compare-and-swap of the
// lock variable from 0 to 1.
func (t *translator) desugarLock(stmt *ir.LockStmt) []ir.Stmt {
	return []ir.Stmt{
		ir.NewBcasStmt(stmt.Pos(), stmt.Loc(), 0, 1),
	}
}

// desugarUnlock lowers a lock release to an atomic store of 0 into the lock
// variable.
func (t *translator) desugarUnlock(stmt *ir.UnlockStmt) []ir.Stmt {
	return []ir.Stmt{
		ir.NewStoreStmt(stmt.Pos(), stmt.Loc(), ir.NewIntLit(stmt.Pos(), 0)),
	}
}

// desugarFence lowers a fence to a fetch-and-add of 1 against the hidden
// shared fence counter, captured into the hidden per-thread fence
// participation bit.
func (t *translator) desugarFence(stmt *ir.FenceStmt) []ir.Stmt {
	pos := stmt.Pos()
	return []ir.Stmt{
		ir.NewAssignStmt(pos, fenceBitName,
			ir.NewFaddRHS(pos, fenceCounterName, ir.NewIntLit(pos, 1))),
	}
}
