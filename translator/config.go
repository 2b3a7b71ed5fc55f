package translator

import "github.com/dprr/rocker/ir"

const (
	// maxBound is the largest declarable wraparound bound.
	maxBound = 255
	// defaultModulus is the wraparound modulus used when no bound is
	// declared. Note the asymmetry with the explicit path, where a bound b
	// yields modulus b+1.
	defaultModulus = 255
)

// Config is the read-only aggregate derived from a program once before code
// generation: the wraparound modulus, the shared variable name sets, and the
// thread count. It is consumed by the translator and by instrumentation.
type Config struct {
	modulus int

	sharedAtomic    map[string]bool
	sharedNonAtomic map[string]bool

	threadCount int
}

// Modulus returns the wraparound modulus all shared values are kept under.
func (c *Config) Modulus() int {
	return c.modulus
}

// ThreadCount returns the number of concurrent threads of the program.
func (c *Config) ThreadCount() int {
	return c.threadCount
}

// IsSharedAtomic returns whether the given name is a shared atomic variable.
func (c *Config) IsSharedAtomic(name string) bool {
	return c.sharedAtomic[name]
}

// IsSharedNonAtomic returns whether the given name is a shared non-atomic
// variable.
func (c *Config) IsSharedNonAtomic(name string) bool {
	return c.sharedNonAtomic[name]
}

// IsShared returns whether the given name is a shared variable of either
// kind.
func (c *Config) IsShared(name string) bool {
	return c.sharedAtomic[name] || c.sharedNonAtomic[name]
}

// ExtractConfig walks the top of the program once and derives its Config,
// validating the bound, the shared declaration sections, and all declared
// initial values.
func ExtractConfig(prog *ir.Program) (*Config, error) {
	c := new(Config)
	c.sharedAtomic = make(map[string]bool)
	c.sharedNonAtomic = make(map[string]bool)

	c.modulus = defaultModulus
	if bound, ok := prog.Bound(); ok {
		if bound < 1 || bound > maxBound {
			return nil, newValidationError(BoundOutOfRange, ir.NoPos,
				"declared bound %d outside 1..%d", bound, maxBound)
		}
		c.modulus = bound + 1
	}

	if len(prog.Atomics()) == 0 {
		return nil, newValidationError(MissingSection, ir.NoPos,
			"program declares no shared atomic variables")
	}
	for _, v := range prog.Atomics() {
		if c.sharedAtomic[v.Name()] {
			return nil, newValidationError(DuplicateName, v.Pos(),
				"shared atomic variable %q declared twice", v.Name())
		}
		if err := c.checkInitialValue(v); err != nil {
			return nil, err
		}
		c.sharedAtomic[v.Name()] = true
	}
	for _, v := range prog.NonAtomics() {
		if c.sharedAtomic[v.Name()] {
			return nil, newValidationError(ScopeOverlap, v.Pos(),
				"%q declared as both shared atomic and shared non-atomic", v.Name())
		}
		if c.sharedNonAtomic[v.Name()] {
			return nil, newValidationError(DuplicateName, v.Pos(),
				"shared non-atomic variable %q declared twice", v.Name())
		}
		if err := c.checkInitialValue(v); err != nil {
			return nil, err
		}
		c.sharedNonAtomic[v.Name()] = true
	}

	// The hidden fence counter participates as a shared atomic location so
	// that fence desugaring flows through the ordinary RMW contract.
	c.sharedAtomic[fenceCounterName] = true

	if len(prog.Funcs()) == 0 {
		return nil, newValidationError(MissingSection, ir.NoPos,
			"program declares no threads")
	}
	c.threadCount = len(prog.Funcs())

	return c, nil
}

func (c *Config) checkInitialValue(v *ir.SharedVar) error {
	if v.InitialValue() < 0 || v.InitialValue() >= c.modulus {
		return newValidationError(ValueOutOfRange, v.Pos(),
			"initial value %d of %q outside [0, %d)", v.InitialValue(), v.Name(), c.modulus)
	}
	return nil
}
