package parser_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/dprr/rocker/ir"
	"github.com/dprr/rocker/parser"
)

const messagePassingSrc = `
// message passing with a fence on the producer side
bound 2;
atomic x, f = 1;
nonatomic d;

thread producer {
    local r;
    storena(d, 1);
    store(x, 1);
    fence;
    r := fadd(x, 1);
}

thread consumer {
    local r, v;
    wait(x, {1, 2});
    r := loadna(d);
    if (r == 1) goto done;
    while (v < 2) {
        v := v + 1;
    }
    choice {
        lock(f);
        unlock(f);
    } or {
        skip;
    }
    done: assert(r == 1);
}
`

func TestParseProgram(t *testing.T) {
	prog, err := parser.Parse([]byte(messagePassingSrc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	bound, ok := prog.Bound()
	if !ok || bound != 2 {
		t.Errorf("expected bound 2, got %d (declared: %t)", bound, ok)
	}

	atomics := prog.Atomics()
	if len(atomics) != 2 || atomics[0].Name() != "x" || atomics[1].Name() != "f" {
		t.Fatalf("unexpected atomic declarations: %v", atomics)
	}
	if atomics[0].HasInitialValue() {
		t.Errorf("x should have no explicit initial value")
	}
	if !atomics[1].HasInitialValue() || atomics[1].InitialValue() != 1 {
		t.Errorf("f should have initial value 1")
	}
	if nas := prog.NonAtomics(); len(nas) != 1 || nas[0].Name() != "d" {
		t.Fatalf("unexpected non-atomic declarations: %v", nas)
	}

	funcs := prog.Funcs()
	if len(funcs) != 2 {
		t.Fatalf("expected 2 threads, got %d", len(funcs))
	}

	producer := funcs[0]
	if producer.Name() != "producer" {
		t.Errorf("expected first thread producer, got %q", producer.Name())
	}
	if locals := producer.Locals(); len(locals) != 1 || locals[0] != "r" {
		t.Errorf("unexpected producer locals: %v", locals)
	}
	body := producer.Body()
	if len(body) != 4 {
		t.Fatalf("expected 4 producer statements, got %d", len(body))
	}
	if stmt, ok := body[0].(*ir.NonAtomicStoreStmt); !ok || stmt.Loc() != "d" {
		t.Errorf("statement 0: expected non-atomic store to d, got %v", body[0])
	}
	if stmt, ok := body[1].(*ir.StoreStmt); !ok || stmt.Loc() != "x" {
		t.Errorf("statement 1: expected store to x, got %v", body[1])
	}
	if _, ok := body[2].(*ir.FenceStmt); !ok {
		t.Errorf("statement 2: expected fence, got %v", body[2])
	}
	assign, ok := body[3].(*ir.AssignStmt)
	if !ok || assign.Local() != "r" {
		t.Fatalf("statement 3: expected assignment to r, got %v", body[3])
	}
	if fadd, ok := assign.RHS().(*ir.FaddRHS); !ok || fadd.Loc() != "x" {
		t.Errorf("statement 3: expected fadd on x, got %v", assign.RHS())
	}

	consumer := funcs[1]
	cbody := consumer.Body()
	if len(cbody) != 6 {
		t.Fatalf("expected 6 consumer statements, got %d", len(cbody))
	}
	wait, ok := cbody[0].(*ir.WaitStmt)
	if !ok || wait.Loc() != "x" {
		t.Fatalf("statement 0: expected wait on x, got %v", cbody[0])
	}
	if vs := wait.Values(); len(vs) != 2 || vs[0] != 1 || vs[1] != 2 {
		t.Errorf("unexpected wait value set: %v", vs)
	}
	if assign, ok := cbody[1].(*ir.AssignStmt); !ok {
		t.Errorf("statement 1: expected assignment, got %v", cbody[1])
	} else if _, ok := assign.RHS().(*ir.NonAtomicLoadRHS); !ok {
		t.Errorf("statement 1: expected non-atomic load, got %v", assign.RHS())
	}
	if cg, ok := cbody[2].(*ir.CondGotoStmt); !ok || cg.Target() != "done" {
		t.Errorf("statement 2: expected conditional goto done, got %v", cbody[2])
	}
	if _, ok := cbody[3].(*ir.WhileStmt); !ok {
		t.Errorf("statement 3: expected while, got %v", cbody[3])
	}
	if choice, ok := cbody[4].(*ir.ChoiceStmt); !ok {
		t.Errorf("statement 4: expected choice, got %v", cbody[4])
	} else if len(choice.Branches()) != 2 {
		t.Errorf("expected 2 choice branches, got %d", len(choice.Branches()))
	}
	labeled, ok := cbody[5].(*ir.LabeledStmt)
	if !ok || labeled.Label() != "done" {
		t.Fatalf("statement 5: expected labeled statement done, got %v", cbody[5])
	}
	if _, ok := labeled.Stmt().(*ir.AssertStmt); !ok {
		t.Errorf("statement 5: expected labeled assert, got %v", labeled.Stmt())
	}
}

func TestParseExprPrecedence(t *testing.T) {
	tests := []struct {
		rhs  string
		want string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"!a || b && c", "(!(a) || (b && c))"},
		{"a + 1 == b", "((a + 1) == b)"},
		{"a < b || b >= c", "((a < b) || (b >= c))"},
		{"10 % 4 - 1", "((10 % 4) - 1)"},
	}
	for _, test := range tests {
		t.Run(test.rhs, func(t *testing.T) {
			src := "atomic x; thread t { local a, b, c, r; r := " + test.rhs + "; }"
			prog, err := parser.Parse([]byte(src))
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			body := prog.Funcs()[0].Body()
			assign := body[0].(*ir.AssignStmt)
			expr, ok := assign.RHS().(ir.Expr)
			if !ok {
				t.Fatalf("expected expression right hand side, got %T", assign.RHS())
			}
			if got := expr.String(); got != test.want {
				t.Errorf("expected %s, got %s", test.want, got)
			}
		})
	}
}

func TestParseRHSKinds(t *testing.T) {
	src := `
atomic x;
thread t {
    local a, b, c, d, e, f;
    a := load(x);
    b := loadna(x);
    c := cas(x, 0, 1);
    d := fadd(x, 1);
    e := xchg(x, 2);
    f := wait(x, {1});
}
`
	prog, err := parser.Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	body := prog.Funcs()[0].Body()
	wantKinds := []string{
		"*ir.LoadRHS", "*ir.NonAtomicLoadRHS", "*ir.CasRHS",
		"*ir.FaddRHS", "*ir.XchgRHS", "*ir.WaitRHS",
	}
	if len(body) != len(wantKinds) {
		t.Fatalf("expected %d statements, got %d", len(wantKinds), len(body))
	}
	for i, stmt := range body {
		assign := stmt.(*ir.AssignStmt)
		if got := fmt.Sprintf("%T", assign.RHS()); got != wantKinds[i] {
			t.Errorf("statement %d: expected %s, got %s", i, wantKinds[i], got)
		}
	}
}

func TestParseBcasAndIfElse(t *testing.T) {
	src := `
atomic m;
thread t {
    local r;
    bcas(m, 0, 1);
    if (r == 0) {
        store(m, 1);
    } else {
        skip;
    }
}
`
	prog, err := parser.Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	body := prog.Funcs()[0].Body()
	bcas, ok := body[0].(*ir.BcasStmt)
	if !ok || bcas.Loc() != "m" || bcas.Expected() != 0 || bcas.Replacement() != 1 {
		t.Errorf("unexpected bcas: %v", body[0])
	}
	ifStmt, ok := body[1].(*ir.IfStmt)
	if !ok {
		t.Fatalf("expected if statement, got %v", body[1])
	}
	if ifStmt.ElseBranch() == nil {
		t.Errorf("else branch dropped")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "duplicate bound",
			src:  "bound 2; bound 3; atomic x;",
			want: "duplicate bound",
		},
		{
			name: "duplicate atomic section",
			src:  "atomic x; atomic y;",
			want: "duplicate atomic",
		},
		{
			name: "keyword as variable name",
			src:  "atomic store;",
			want: "keyword",
		},
		{
			name: "leading underscore identifier",
			src:  "atomic _x;",
			want: "unexpected character",
		},
		{
			name: "missing semicolon",
			src:  "atomic x",
			want: "expected ';'",
		},
		{
			name: "statement without keyword or name",
			src:  "atomic x; thread t { 1; }",
			want: "expected statement",
		},
		{
			name: "single choice branch",
			src:  "atomic x; thread t { choice { skip; } }",
			want: "at least two branches",
		},
		{
			name: "assignment without define",
			src:  "atomic x; thread t { local r; r = 1; }",
			want: "expected ':=' or ':'",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := parser.Parse([]byte(test.src))
			if err == nil {
				t.Fatalf("expected parse error, got none")
			}
			if !strings.Contains(err.Error(), test.want) {
				t.Errorf("expected error containing %q, got %q", test.want, err)
			}
		})
	}
}

func TestParseErrorPosition(t *testing.T) {
	src := "atomic x;\nthread t {\n    store(y 1);\n}\n"
	_, err := parser.Parse([]byte(src))
	if err == nil {
		t.Fatalf("expected parse error, got none")
	}
	perr, ok := err.(*parser.Error)
	if !ok {
		t.Fatalf("expected *parser.Error, got %T", err)
	}
	if perr.Pos.Line != 3 {
		t.Errorf("expected error on line 3, got %v", perr.Pos)
	}
}

func TestParseComments(t *testing.T) {
	src := "// a comment\natomic x; // trailing\nthread t { skip; }\n"
	if _, err := parser.Parse([]byte(src)); err != nil {
		t.Errorf("comments not skipped: %v", err)
	}
}
