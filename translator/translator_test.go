package translator_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/dprr/rocker/ir"
	"github.com/dprr/rocker/translator"
)

// noopInstrument is the neutral strategy used by tests that only care about
// the core translation.
type noopInstrument struct{}

func (noopInstrument) Globals() string                           { return "" }
func (noopInstrument) Locals() []translator.LocalDecl            { return nil }
func (noopInstrument) PreStore(int, string, string) string       { return "" }
func (noopInstrument) PreNonAtomicStore(int, string) string      { return "" }
func (noopInstrument) PreLoad(int, string) string                { return "" }
func (noopInstrument) PreWait(int, string) string                { return "" }
func (noopInstrument) PostWait(int, string) string               { return "" }
func (noopInstrument) PreCas(int, string, string, string) string { return "" }
func (noopInstrument) CasUpdate(int, string, string) string      { return "" }
func (noopInstrument) CasRead(int, string) string                { return "" }
func (noopInstrument) PreRMW(int, string, string) string         { return "" }

// singleThreadProgram builds a program with bound 2, shared atomic x, shared
// non-atomic y, and one thread t0 with locals r and s running the given
// statements.
func singleThreadProgram(stmts ...ir.Stmt) *ir.Program {
	prog := ir.NewProgram()
	prog.SetBound(2)
	prog.AddAtomic(ir.NewSharedVar(ir.NoPos, "x"))
	prog.AddNonAtomic(ir.NewSharedVar(ir.NoPos, "y"))
	f := ir.NewFunc(ir.NoPos, "t0")
	f.AddLocal("r")
	f.AddLocal("s")
	for _, stmt := range stmts {
		f.AddStmt(stmt)
	}
	prog.AddFunc(f)
	return prog
}

func translate(t *testing.T, prog *ir.Program) string {
	t.Helper()
	doc, err := translator.TranslateProgram(prog, noopInstrument{})
	if err != nil {
		t.Fatalf("TranslateProgram failed: %v", err)
	}
	return doc.AsPML()
}

func wantValidationError(t *testing.T, err error, kind translator.ErrorKind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got none", kind)
	}
	var verr *translator.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T: %v", err, err)
	}
	if verr.Kind != kind {
		t.Errorf("expected error kind %v, got %v (%v)", kind, verr.Kind, verr)
	}
}

func TestStoreAndLoad(t *testing.T) {
	prog := ir.NewProgram()
	prog.SetBound(2)
	prog.AddAtomic(ir.NewSharedVar(ir.NoPos, "x"))

	writer := ir.NewFunc(ir.NoPos, "writer")
	writer.AddStmt(ir.NewStoreStmt(ir.NoPos, "x", ir.NewIntLit(ir.NoPos, 1)))
	prog.AddFunc(writer)

	reader := ir.NewFunc(ir.NoPos, "reader")
	reader.AddLocal("r")
	reader.AddStmt(ir.NewAssignStmt(ir.NoPos, "r", ir.NewLoadRHS(ir.NoPos, "x")))
	prog.AddFunc(reader)

	want := `byte x = 0;
byte _fnc = 0;

proctype writer() {
    byte _fnb = 0;
    byte _ast = 0;
    byte _lkb = 0;
    atomic {
        x = (1) % 3;
    }
    end_thread: skip;
}

proctype reader() {
    byte _fnb = 0;
    byte _ast = 0;
    byte _lkb = 0;
    byte r = 0;
    atomic {
        r = x;
    }
    end_thread: skip;
}

init {
    atomic {
        run writer();
        run reader();
    }
}
`
	if got := translate(t, prog); got != want {
		t.Errorf("unexpected output:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestDeterministicOutput(t *testing.T) {
	build := func() *ir.Program {
		return singleThreadProgram(
			ir.NewLockStmt(ir.NoPos, "x"),
			ir.NewStoreStmt(ir.NoPos, "x", ir.NewIntLit(ir.NoPos, 1)),
			ir.NewFenceStmt(ir.NoPos),
			ir.NewUnlockStmt(ir.NoPos, "x"),
		)
	}
	first := translate(t, build())
	second := translate(t, build())
	if first != second {
		t.Errorf("two translations of the same program differ:\n%s\n---\n%s", first, second)
	}
}

func TestSharedSectionOverlap(t *testing.T) {
	prog := ir.NewProgram()
	prog.AddAtomic(ir.NewSharedVar(ir.NoPos, "x"))
	prog.AddNonAtomic(ir.NewSharedVar(ir.NoPos, "x"))
	prog.AddFunc(ir.NewFunc(ir.NoPos, "t0"))

	_, err := translator.TranslateProgram(prog, noopInstrument{})
	wantValidationError(t, err, translator.ScopeOverlap)
	if !strings.Contains(err.Error(), `"x"`) {
		t.Errorf("error does not name the overlapping variable: %v", err)
	}
}

func TestSharedVariableInLoopCondition(t *testing.T) {
	body := ir.NewBlockStmt(ir.NoPos)
	body.AddStmt(ir.NewSkipStmt(ir.NoPos))
	cond := ir.NewBinaryExpr(ir.NoPos, ir.Lss, ir.NewIdent(ir.NoPos, "x"), ir.NewIntLit(ir.NoPos, 2))
	prog := singleThreadProgram(ir.NewWhileStmt(ir.NoPos, cond, body))

	_, err := translator.TranslateProgram(prog, noopInstrument{})
	wantValidationError(t, err, translator.SharedInControlExpr)
}

func TestLockMatchesExplicitBoundedCas(t *testing.T) {
	lockProg := singleThreadProgram(ir.NewLockStmt(ir.NoPos, "x"))
	bcasProg := singleThreadProgram(ir.NewBcasStmt(ir.NoPos, "x", 0, 1))

	lockOut := translate(t, lockProg)
	bcasOut := translate(t, bcasProg)
	if lockOut != bcasOut {
		t.Errorf("lock and bcas(x, 0, 1) disagree:\n%s\n---\n%s", lockOut, bcasOut)
	}
}

func TestDuplicateThreadNames(t *testing.T) {
	prog := ir.NewProgram()
	prog.AddAtomic(ir.NewSharedVar(ir.NoPos, "x"))
	prog.AddFunc(ir.NewFunc(ir.NoPos, "t"))
	prog.AddFunc(ir.NewFunc(ir.NoPos, "t"))

	doc, err := translator.TranslateProgram(prog, noopInstrument{})
	wantValidationError(t, err, translator.DuplicateName)
	if doc != nil {
		t.Errorf("expected no document on duplicate thread names, got one")
	}
}

func TestDefaultModulus(t *testing.T) {
	prog := singleThreadProgram(ir.NewStoreStmt(ir.NoPos, "x", ir.NewIntLit(ir.NoPos, 7)))
	// Drop the explicit bound: rebuild without SetBound.
	unbounded := ir.NewProgram()
	unbounded.AddAtomic(ir.NewSharedVar(ir.NoPos, "x"))
	unbounded.AddFunc(prog.Funcs()[0])

	out := translate(t, unbounded)
	if !strings.Contains(out, "x = (7) % 255;") {
		t.Errorf("expected default modulus 255 in output:\n%s", out)
	}
}

func TestWaitEmitsTwoAtomicUnits(t *testing.T) {
	prog := singleThreadProgram(ir.NewWaitStmt(ir.NoPos, "x", []int{0, 1}))
	doc, err := translator.TranslateProgram(prog, noopInstrument{})
	if err != nil {
		t.Fatalf("TranslateProgram failed: %v", err)
	}

	stmts := doc.Proctypes()[0].Stmts()
	var atomics int
	for _, line := range stmts {
		if line == "atomic {" {
			atomics++
		}
	}
	if atomics != 2 {
		t.Errorf("expected 2 atomic units for wait, got %d:\n%s", atomics, strings.Join(stmts, "\n"))
	}

	out := doc.AsPML()
	if !strings.Contains(out, "((x == (0) % 3) || (x == (1) % 3));") {
		t.Errorf("missing disjunctive wait guard:\n%s", out)
	}
}

func TestWaitResultCapture(t *testing.T) {
	prog := singleThreadProgram(
		ir.NewAssignStmt(ir.NoPos, "r", ir.NewWaitRHS(ir.NoPos, "x", []int{1})))
	out := translate(t, prog)
	if !strings.Contains(out, "(x == (1) % 3);") {
		t.Errorf("missing single-value wait guard:\n%s", out)
	}
	if !strings.Contains(out, "r = x;") {
		t.Errorf("missing wait result capture:\n%s", out)
	}
}

func TestFenceTranslation(t *testing.T) {
	prog := singleThreadProgram(ir.NewFenceStmt(ir.NoPos))
	out := translate(t, prog)
	if !strings.Contains(out, "_fnb = _fnc;") {
		t.Errorf("missing fence counter capture:\n%s", out)
	}
	if !strings.Contains(out, "_fnc = (_fnc + 1) % 3;") {
		t.Errorf("missing fence counter increment:\n%s", out)
	}
	if !strings.Contains(out, "byte _fnc = 0;") {
		t.Errorf("missing fence counter declaration:\n%s", out)
	}
}

func TestBcasSpinsOverCas(t *testing.T) {
	prog := singleThreadProgram(ir.NewBcasStmt(ir.NoPos, "x", 0, 1))
	out := translate(t, prog)
	for _, want := range []string{
		"lock_1:",
		":: (x == (0) % 3) ->",
		"_lkb = x;",
		"x = (1) % 3;",
		":: (_lkb != 0) -> goto lock_1;",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in bcas output:\n%s", want, out)
		}
	}
}

func TestUnlockStoresZero(t *testing.T) {
	prog := singleThreadProgram(ir.NewUnlockStmt(ir.NoPos, "x"))
	out := translate(t, prog)
	if !strings.Contains(out, "x = (0) % 3;") {
		t.Errorf("unlock did not compile to an atomic store of 0:\n%s", out)
	}
}

func TestCasBranches(t *testing.T) {
	prog := singleThreadProgram(
		ir.NewAssignStmt(ir.NoPos, "r",
			ir.NewCasRHS(ir.NoPos, "x",
				ir.NewIntLit(ir.NoPos, 1),
				ir.NewIntLit(ir.NoPos, 2))))
	out := translate(t, prog)
	for _, want := range []string{
		":: (x == (1) % 3) ->",
		"r = x;",
		"x = (2) % 3;",
		":: else ->",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in cas output:\n%s", want, out)
		}
	}
}

func TestFaddCapturesOldValue(t *testing.T) {
	prog := singleThreadProgram(
		ir.NewAssignStmt(ir.NoPos, "r",
			ir.NewFaddRHS(ir.NoPos, "x", ir.NewIntLit(ir.NoPos, 2))))
	doc, err := translator.TranslateProgram(prog, noopInstrument{})
	if err != nil {
		t.Fatalf("TranslateProgram failed: %v", err)
	}
	stmts := doc.Proctypes()[0].Stmts()
	joined := strings.Join(stmts, "\n")
	capture := strings.Index(joined, "r = x;")
	update := strings.Index(joined, "x = (x + 2) % 3;")
	if capture < 0 || update < 0 {
		t.Fatalf("missing fadd capture or update:\n%s", joined)
	}
	if capture > update {
		t.Errorf("old value captured after the update:\n%s", joined)
	}
}

func TestXchg(t *testing.T) {
	prog := singleThreadProgram(
		ir.NewAssignStmt(ir.NoPos, "r",
			ir.NewXchgRHS(ir.NoPos, "x", ir.NewIntLit(ir.NoPos, 2))))
	out := translate(t, prog)
	if !strings.Contains(out, "r = x;") || !strings.Contains(out, "x = (2) % 3;") {
		t.Errorf("missing xchg capture or update:\n%s", out)
	}
}

func TestNonAtomicStoreHookOutsideAtomicUnit(t *testing.T) {
	instr := &recordingInstrument{}
	prog := singleThreadProgram(
		ir.NewNonAtomicStoreStmt(ir.NoPos, "y", ir.NewIntLit(ir.NoPos, 1)))
	doc, err := translator.TranslateProgram(prog, instr)
	if err != nil {
		t.Fatalf("TranslateProgram failed: %v", err)
	}

	stmts := doc.Proctypes()[0].Stmts()
	joined := strings.Join(stmts, "\n")
	outside := strings.Index(joined, "PRE_NA;")
	atomic := strings.Index(joined, "atomic {")
	inside := strings.Index(joined, "PRE_STORE;")
	if outside < 0 || atomic < 0 || inside < 0 {
		t.Fatalf("missing non-atomic store hooks:\n%s", joined)
	}
	if !(outside < atomic && atomic < inside) {
		t.Errorf("hooks not placed around the atomic unit:\n%s", joined)
	}
}

func TestNonAtomicLoadIsNotAtomic(t *testing.T) {
	prog := singleThreadProgram(
		ir.NewAssignStmt(ir.NoPos, "r", ir.NewNonAtomicLoadRHS(ir.NoPos, "y")))
	doc, err := translator.TranslateProgram(prog, noopInstrument{})
	if err != nil {
		t.Fatalf("TranslateProgram failed: %v", err)
	}
	stmts := doc.Proctypes()[0].Stmts()
	for _, line := range stmts {
		if line == "atomic {" {
			t.Errorf("non-atomic load wrapped in an atomic unit:\n%s", strings.Join(stmts, "\n"))
		}
	}
}

func TestAssertBoundEncodesExpression(t *testing.T) {
	cond := ir.NewBinaryExpr(ir.NoPos, ir.Eq, ir.NewIdent(ir.NoPos, "r"), ir.NewIntLit(ir.NoPos, 1))
	prog := singleThreadProgram(ir.NewAssertStmt(ir.NoPos, cond))
	out := translate(t, prog)
	if !strings.Contains(out, "_ast = ((r == 1)) % 3;") {
		t.Errorf("missing bound-encoded assertion temporary:\n%s", out)
	}
	if !strings.Contains(out, "assert(_ast);") {
		t.Errorf("missing assertion on the temporary:\n%s", out)
	}
}

func TestAssumeHaltsThread(t *testing.T) {
	cond := ir.NewBinaryExpr(ir.NoPos, ir.Eq, ir.NewIdent(ir.NoPos, "r"), ir.NewIntLit(ir.NoPos, 1))
	prog := singleThreadProgram(ir.NewAssumeStmt(ir.NoPos, cond))
	out := translate(t, prog)
	if !strings.Contains(out, ":: else -> goto end_thread;") {
		t.Errorf("assume does not jump to the terminal label:\n%s", out)
	}
	if !strings.Contains(out, "end_thread: skip;") {
		t.Errorf("missing terminal label:\n%s", out)
	}
}

func TestChoiceBranches(t *testing.T) {
	left := ir.NewBlockStmt(ir.NoPos)
	left.AddStmt(ir.NewStoreStmt(ir.NoPos, "x", ir.NewIntLit(ir.NoPos, 1)))
	right := ir.NewBlockStmt(ir.NoPos)
	right.AddStmt(ir.NewStoreStmt(ir.NoPos, "x", ir.NewIntLit(ir.NoPos, 2)))
	prog := singleThreadProgram(ir.NewChoiceStmt(ir.NoPos, []*ir.BlockStmt{left, right}))

	out := translate(t, prog)
	if strings.Count(out, ":: true ->") != 2 {
		t.Errorf("expected two nondeterministic branches:\n%s", out)
	}
}

func TestIfWithoutElseGetsSkip(t *testing.T) {
	branch := ir.NewBlockStmt(ir.NoPos)
	branch.AddStmt(ir.NewStoreStmt(ir.NoPos, "x", ir.NewIntLit(ir.NoPos, 1)))
	cond := ir.NewBinaryExpr(ir.NoPos, ir.Eq, ir.NewIdent(ir.NoPos, "r"), ir.NewIntLit(ir.NoPos, 0))
	prog := singleThreadProgram(ir.NewIfStmt(ir.NoPos, cond, branch, nil))

	out := translate(t, prog)
	if !strings.Contains(out, ":: else ->\n        skip;") {
		t.Errorf("missing synthesized else branch:\n%s", out)
	}
}

func TestValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		prog func() *ir.Program
		kind translator.ErrorKind
	}{
		{
			name: "bound zero",
			prog: func() *ir.Program {
				p := singleThreadProgram()
				p.SetBound(0)
				return p
			},
			kind: translator.BoundOutOfRange,
		},
		{
			name: "bound too large",
			prog: func() *ir.Program {
				p := singleThreadProgram()
				p.SetBound(256)
				return p
			},
			kind: translator.BoundOutOfRange,
		},
		{
			name: "no shared atomics",
			prog: func() *ir.Program {
				p := ir.NewProgram()
				p.AddFunc(ir.NewFunc(ir.NoPos, "t0"))
				return p
			},
			kind: translator.MissingSection,
		},
		{
			name: "no threads",
			prog: func() *ir.Program {
				p := ir.NewProgram()
				p.AddAtomic(ir.NewSharedVar(ir.NoPos, "x"))
				return p
			},
			kind: translator.MissingSection,
		},
		{
			name: "initial value out of range",
			prog: func() *ir.Program {
				p := ir.NewProgram()
				p.SetBound(2)
				v := ir.NewSharedVar(ir.NoPos, "x")
				v.SetInitialValue(5)
				p.AddAtomic(v)
				p.AddFunc(ir.NewFunc(ir.NoPos, "t0"))
				return p
			},
			kind: translator.ValueOutOfRange,
		},
		{
			name: "duplicate shared atomic",
			prog: func() *ir.Program {
				p := ir.NewProgram()
				p.AddAtomic(ir.NewSharedVar(ir.NoPos, "x"))
				p.AddAtomic(ir.NewSharedVar(ir.NoPos, "x"))
				p.AddFunc(ir.NewFunc(ir.NoPos, "t0"))
				return p
			},
			kind: translator.DuplicateName,
		},
		{
			name: "duplicate local",
			prog: func() *ir.Program {
				p := ir.NewProgram()
				p.AddAtomic(ir.NewSharedVar(ir.NoPos, "x"))
				f := ir.NewFunc(ir.NoPos, "t0")
				f.AddLocal("r")
				f.AddLocal("r")
				p.AddFunc(f)
				return p
			},
			kind: translator.DuplicateName,
		},
		{
			name: "local shadows shared",
			prog: func() *ir.Program {
				p := ir.NewProgram()
				p.AddAtomic(ir.NewSharedVar(ir.NoPos, "x"))
				f := ir.NewFunc(ir.NoPos, "t0")
				f.AddLocal("x")
				p.AddFunc(f)
				return p
			},
			kind: translator.ScopeOverlap,
		},
		{
			name: "assignment into shared",
			prog: func() *ir.Program {
				return singleThreadProgram(
					ir.NewAssignStmt(ir.NoPos, "x", ir.NewIntLit(ir.NoPos, 1)))
			},
			kind: translator.AssignmentIntoShared,
		},
		{
			name: "assignment into undeclared local",
			prog: func() *ir.Program {
				return singleThreadProgram(
					ir.NewAssignStmt(ir.NoPos, "q", ir.NewIntLit(ir.NoPos, 1)))
			},
			kind: translator.UndeclaredVariable,
		},
		{
			name: "store to undeclared location",
			prog: func() *ir.Program {
				return singleThreadProgram(
					ir.NewStoreStmt(ir.NoPos, "z", ir.NewIntLit(ir.NoPos, 1)))
			},
			kind: translator.UndeclaredVariable,
		},
		{
			name: "atomic store to non-atomic location",
			prog: func() *ir.Program {
				return singleThreadProgram(
					ir.NewStoreStmt(ir.NoPos, "y", ir.NewIntLit(ir.NoPos, 1)))
			},
			kind: translator.UndeclaredVariable,
		},
		{
			name: "non-atomic store to atomic location",
			prog: func() *ir.Program {
				return singleThreadProgram(
					ir.NewNonAtomicStoreStmt(ir.NoPos, "x", ir.NewIntLit(ir.NoPos, 1)))
			},
			kind: translator.UndeclaredVariable,
		},
		{
			name: "store value out of range",
			prog: func() *ir.Program {
				return singleThreadProgram(
					ir.NewStoreStmt(ir.NoPos, "x", ir.NewIntLit(ir.NoPos, 3)))
			},
			kind: translator.ValueOutOfRange,
		},
		{
			name: "shared in rmw operand",
			prog: func() *ir.Program {
				return singleThreadProgram(
					ir.NewAssignStmt(ir.NoPos, "r",
						ir.NewFaddRHS(ir.NoPos, "x", ir.NewIdent(ir.NoPos, "x"))))
			},
			kind: translator.SharedInRMWOperand,
		},
		{
			name: "shared in goto guard",
			prog: func() *ir.Program {
				cond := ir.NewBinaryExpr(ir.NoPos, ir.Eq,
					ir.NewIdent(ir.NoPos, "x"), ir.NewIntLit(ir.NoPos, 1))
				return singleThreadProgram(
					ir.NewLabeledStmt(ir.NoPos, "again", ir.NewSkipStmt(ir.NoPos)),
					ir.NewCondGotoStmt(ir.NoPos, cond, "again"))
			},
			kind: translator.SharedInControlExpr,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := translator.TranslateProgram(test.prog(), noopInstrument{})
			wantValidationError(t, err, test.kind)
		})
	}
}

// recordingInstrument marks every hook point with a distinct statement and
// records the hook arguments it saw.
type recordingInstrument struct {
	noopInstrument

	calls []string
}

func (r *recordingInstrument) record(format string, args ...interface{}) {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

func (r *recordingInstrument) Globals() string {
	return "byte _log = 0;"
}

func (r *recordingInstrument) Locals() []translator.LocalDecl {
	return []translator.LocalDecl{{Name: "_view", Type: "byte", InitialValue: "0"}}
}

func (r *recordingInstrument) PreStore(thread int, loc, value string) string {
	r.record("PreStore %d %s %s", thread, loc, value)
	return "PRE_STORE;"
}

func (r *recordingInstrument) PreNonAtomicStore(thread int, loc string) string {
	r.record("PreNonAtomicStore %d %s", thread, loc)
	return "PRE_NA;"
}

func (r *recordingInstrument) PreLoad(thread int, loc string) string {
	r.record("PreLoad %d %s", thread, loc)
	return "PRE_LOAD;"
}

func TestInstrumentReceivesThreadAndBoundedValue(t *testing.T) {
	prog := ir.NewProgram()
	prog.SetBound(2)
	prog.AddAtomic(ir.NewSharedVar(ir.NoPos, "x"))
	t0 := ir.NewFunc(ir.NoPos, "t0")
	t0.AddStmt(ir.NewStoreStmt(ir.NoPos, "x", ir.NewIntLit(ir.NoPos, 1)))
	prog.AddFunc(t0)
	t1 := ir.NewFunc(ir.NoPos, "t1")
	t1.AddLocal("r")
	t1.AddStmt(ir.NewAssignStmt(ir.NoPos, "r", ir.NewLoadRHS(ir.NoPos, "x")))
	prog.AddFunc(t1)

	instr := &recordingInstrument{}
	if _, err := translator.TranslateProgram(prog, instr); err != nil {
		t.Fatalf("TranslateProgram failed: %v", err)
	}

	want := []string{
		"PreStore 0 x (1) % 3",
		"PreLoad 1 x",
	}
	if len(instr.calls) != len(want) {
		t.Fatalf("expected calls %v, got %v", want, instr.calls)
	}
	for i := range want {
		if instr.calls[i] != want[i] {
			t.Errorf("call %d: expected %q, got %q", i, want[i], instr.calls[i])
		}
	}
}

func TestInstrumentGlobalsAndLocalsDeclared(t *testing.T) {
	prog := singleThreadProgram(ir.NewSkipStmt(ir.NoPos))
	doc, err := translator.TranslateProgram(prog, &recordingInstrument{})
	if err != nil {
		t.Fatalf("TranslateProgram failed: %v", err)
	}
	out := doc.AsPML()
	if !strings.Contains(out, "byte _log = 0;") {
		t.Errorf("instrumentation globals not emitted:\n%s", out)
	}
	if !strings.Contains(out, "byte _view = 0;") {
		t.Errorf("instrumentation locals not declared:\n%s", out)
	}
}
