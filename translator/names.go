package translator

import "fmt"

// Names of the hidden per-thread locals every proctype declares, and of the
// hidden shared counter backing the fence encoding. The surface language
// cannot produce identifiers with a leading underscore, so these never
// collide with program names.
const (
	fenceBitName     = "_fnb"
	assertTempName   = "_ast"
	lockHelperName   = "_lkb"
	fenceCounterName = "_fnc"
)

// terminalLabel is the label of the terminal skip statement of every
// proctype. The "end" prefix marks it as a valid end state for SPIN.
const terminalLabel = "end_thread"

// nameAllocator hands out collision-free labels for synthesized control
// constructs. The assertion temporary is deliberately not counter-driven:
// every thread reuses the single fixed local declared at function entry.
type nameAllocator struct {
	lockLabelCount int
}

// lockLabel returns a fresh lock retry label.
func (a *nameAllocator) lockLabel() string {
	a.lockLabelCount++
	return fmt.Sprintf("lock_%d", a.lockLabelCount)
}
