package translator

// LocalDecl describes an extra per-thread local variable an instrumentation
// strategy needs declared in every proctype.
type LocalDecl struct {
	Name         string
	Type         string
	InitialValue string
}

// Instrument is the capability interface of a memory-model verification
// strategy. The translator invokes the hooks at fixed points around every
// primitive memory operation; the returned text is spliced verbatim into the
// surrounding atomic or non-atomic context, one statement per line. An empty
// return emits nothing. The strategy never decides atomicity boundaries;
// that is always the translator's responsibility.
//
// Hooks are parameterized by the index of the executing thread, the name of
// the memory location operated on, and, where applicable, the
// already-bound-encoded text of the written expression.
type Instrument interface {
	// Globals returns one-time global metadata declarations, emitted after
	// the shared atomic variable declarations.
	Globals() string

	// Locals returns the extra per-thread locals the strategy needs.
	Locals() []LocalDecl

	// PreStore is invoked inside the atomic unit of a store, before the
	// assignment. For non-atomic stores it is the second, inside hook.
	PreStore(thread int, loc, value string) string

	// PreNonAtomicStore is invoked outside any atomic unit, before the
	// committing unit of a non-atomic store.
	PreNonAtomicStore(thread int, loc string) string

	// PreLoad is invoked before the read of an atomic or non-atomic load.
	PreLoad(thread int, loc string) string

	// PreWait is invoked as the first atomic unit of a wait.
	PreWait(thread int, loc string) string

	// PostWait is invoked inside the second atomic unit of a wait, after
	// the guard and the optional result capture.
	PostWait(thread int, loc string) string

	// PreCas is invoked inside the atomic unit of a compare-and-swap,
	// before the conditional branch.
	PreCas(thread int, loc, expected, replacement string) string

	// CasUpdate is invoked on the success path of a compare-and-swap.
	CasUpdate(thread int, loc, value string) string

	// CasRead is invoked on the failure path of a compare-and-swap.
	CasRead(thread int, loc string) string

	// PreRMW is invoked inside the atomic unit of a fetch-and-add or
	// exchange, before the old value is captured.
	PreRMW(thread int, loc, value string) string
}
