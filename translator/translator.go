// Package translator turns litmus programs into Promela models. The
// translation is a single deterministic top-down pass: the same program and
// the same instrumentation strategy always yield byte-identical output.
package translator

import (
	"strconv"

	"github.com/dprr/rocker/ir"
	"github.com/dprr/rocker/promela"
)

// TranslateProgram translates an ir.Program to a promela.Document using the
// given instrumentation strategy. Any invariant violation aborts the
// translation with a *ValidationError describing the offending construct.
func TranslateProgram(prog *ir.Program, instr Instrument) (*promela.Document, error) {
	cfg, err := ExtractConfig(prog)
	if err != nil {
		return nil, err
	}

	t := new(translator)
	t.prog = prog
	t.cfg = cfg
	t.instr = instr
	t.names = new(nameAllocator)
	t.doc = promela.NewDocument()

	if err := t.translateProgram(); err != nil {
		return nil, err
	}
	return t.doc, nil
}

type translator struct {
	prog  *ir.Program
	cfg   *Config
	instr Instrument
	names *nameAllocator

	doc *promela.Document
}

func (t *translator) translateProgram() error {
	// Duplicate function names fail before any process block is emitted.
	seen := make(map[string]bool)
	for _, f := range t.prog.Funcs() {
		if seen[f.Name()] {
			return newValidationError(DuplicateName, f.Pos(),
				"thread %q declared twice", f.Name())
		}
		seen[f.Name()] = true
	}

	decls := t.doc.Declarations()
	for _, v := range t.prog.Atomics() {
		decls.AddVariable(v.Name(), "byte", strconv.Itoa(v.InitialValue()))
	}
	decls.AddVariable(fenceCounterName, "byte", "0")
	decls.AddBlock(t.instr.Globals())
	for _, v := range t.prog.NonAtomics() {
		decls.AddVariable(v.Name(), "byte", strconv.Itoa(v.InitialValue()))
	}

	for i, f := range t.prog.Funcs() {
		if err := t.translateFunc(f, i); err != nil {
			return err
		}
	}
	return nil
}

func (t *translator) translateFunc(f *ir.Func, thread int) error {
	if err := t.validateFuncScope(f); err != nil {
		return err
	}

	proc := t.doc.AddProctype(f.Name())
	ctx := newContext(f, thread)

	decls := proc.Declarations()
	decls.AddVariable(fenceBitName, "byte", "0")
	ctx.locals[fenceBitName] = true
	for _, l := range t.instr.Locals() {
		decls.AddVariable(l.Name, l.Type, l.InitialValue)
		ctx.locals[l.Name] = true
	}
	decls.AddVariable(assertTempName, "byte", "0")
	ctx.locals[assertTempName] = true
	decls.AddVariable(lockHelperName, "byte", "0")
	ctx.locals[lockHelperName] = true
	for _, name := range f.Locals() {
		decls.AddVariable(name, "byte", "0")
		ctx.locals[name] = true
	}

	for _, stmt := range f.Body() {
		if err := t.translateStmt(stmt, ctx); err != nil {
			return err
		}
	}
	ctx.addLine(terminalLabel + ": skip;")

	proc.AddStmts(ctx.lines)
	return nil
}
