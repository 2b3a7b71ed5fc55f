package translator

import "github.com/dprr/rocker/ir"

// context carries the per-thread translation environment: the translated
// function, its thread index, and the set of names usable as thread-local
// state (surface locals, hidden locals, instrumentation locals).
type context struct {
	f      *ir.Func
	thread int
	locals map[string]bool

	lines []string
}

func newContext(f *ir.Func, thread int) *context {
	ctx := new(context)
	ctx.f = f
	ctx.thread = thread
	ctx.locals = make(map[string]bool)

	return ctx
}

// subContext returns a context sharing the thread environment but collecting
// emitted lines separately, for statement bodies that are indented into an
// enclosing construct.
func (c *context) subContext() *context {
	ctx := new(context)
	ctx.f = c.f
	ctx.thread = c.thread
	ctx.locals = c.locals

	return ctx
}

func (c *context) isLocal(name string) bool {
	return c.locals[name]
}

func (c *context) addLine(line string) {
	c.lines = append(c.lines, line)
}

func (c *context) addLines(lines []string) {
	c.lines = append(c.lines, lines...)
}
