// Package instrument provides the built-in memory-model verification
// strategies selectable on the command line.
package instrument

import (
	"fmt"

	"github.com/dprr/rocker/translator"
)

// ForModel returns the verification strategy registered under the given
// name. The empty name selects the sequential-consistency baseline.
func ForModel(name string) (translator.Instrument, error) {
	switch name {
	case "", "sc":
		return SC{}, nil
	case "trace":
		return Trace{}, nil
	default:
		return nil, fmt.Errorf("unknown memory model: %q", name)
	}
}

// SC is the sequential-consistency baseline. It adds no metadata and no
// hook statements; the emitted model checks the program under interleaving
// semantics only.
type SC struct{}

// Globals returns no declarations.
func (SC) Globals() string { return "" }

// Locals returns no extra locals.
func (SC) Locals() []translator.LocalDecl { return nil }

func (SC) PreStore(thread int, loc, value string) string { return "" }

func (SC) PreNonAtomicStore(thread int, loc string) string { return "" }

func (SC) PreLoad(thread int, loc string) string { return "" }

func (SC) PreWait(thread int, loc string) string { return "" }

func (SC) PostWait(thread int, loc string) string { return "" }

func (SC) PreCas(thread int, loc, expected, repl string) string { return "" }

func (SC) CasUpdate(thread int, loc, value string) string { return "" }

func (SC) CasRead(thread int, loc string) string { return "" }

func (SC) PreRMW(thread int, loc, value string) string { return "" }

// Trace emits a printf at every hook point, tagging each memory operation
// with the executing thread and the touched location. It is useful for
// inspecting interleavings in SPIN simulation runs.
type Trace struct{}

// Globals returns no declarations.
func (Trace) Globals() string { return "" }

// Locals returns no extra locals.
func (Trace) Locals() []translator.LocalDecl { return nil }

func (Trace) PreStore(thread int, loc, value string) string {
	return fmt.Sprintf("printf(\"t%d: store %s = %%d\\n\", %s);", thread, loc, value)
}

func (Trace) PreNonAtomicStore(thread int, loc string) string {
	return fmt.Sprintf("printf(\"t%d: storena %s begins\\n\");", thread, loc)
}

func (Trace) PreLoad(thread int, loc string) string {
	return fmt.Sprintf("printf(\"t%d: load %s = %%d\\n\", %s);", thread, loc, loc)
}

func (Trace) PreWait(thread int, loc string) string {
	return fmt.Sprintf("printf(\"t%d: wait %s begins\\n\");", thread, loc)
}

func (Trace) PostWait(thread int, loc string) string {
	return fmt.Sprintf("printf(\"t%d: wait %s = %%d\\n\", %s);", thread, loc, loc)
}

func (Trace) PreCas(thread int, loc, expected, repl string) string {
	return fmt.Sprintf("printf(\"t%d: cas %s %%d -> %%d\\n\", %s, %s);", thread, loc, expected, repl)
}

func (Trace) CasUpdate(thread int, loc, value string) string {
	return fmt.Sprintf("printf(\"t%d: cas %s succeeds\\n\");", thread, loc)
}

func (Trace) CasRead(thread int, loc string) string {
	return fmt.Sprintf("printf(\"t%d: cas %s fails\\n\");", thread, loc)
}

func (Trace) PreRMW(thread int, loc, value string) string {
	return fmt.Sprintf("printf(\"t%d: rmw %s = %%d\\n\", %s);", thread, loc, value)
}
