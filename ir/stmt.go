package ir

import "fmt"

// Stmt is the interface describing all statements.
type Stmt interface {
	fmt.Stringer

	Pos() Pos

	// stmtNode ensures only statement types conform to the Stmt interface.
	stmtNode()
}

func (s *BlockStmt) stmtNode()          {}
func (s *WhileStmt) stmtNode()          {}
func (s *StoreStmt) stmtNode()          {}
func (s *NonAtomicStoreStmt) stmtNode() {}
func (s *WaitStmt) stmtNode()           {}
func (s *BcasStmt) stmtNode()           {}
func (s *AssignStmt) stmtNode()         {}
func (s *LabeledStmt) stmtNode()        {}
func (s *GotoStmt) stmtNode()           {}
func (s *CondGotoStmt) stmtNode()       {}
func (s *IfStmt) stmtNode()             {}
func (s *FenceStmt) stmtNode()          {}
func (s *LockStmt) stmtNode()           {}
func (s *UnlockStmt) stmtNode()         {}
func (s *ChoiceStmt) stmtNode()         {}
func (s *AssumeStmt) stmtNode()         {}
func (s *SkipStmt) stmtNode()           {}
func (s *AssertStmt) stmtNode()         {}
