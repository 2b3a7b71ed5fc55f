// Package promela models Promela documents for the SPIN model checker and
// renders them as text.
package promela

import (
	"strings"
)

// Tab is the indentation unit of rendered Promela text.
const Tab = "    "

// Document represents a complete Promela model: global declarations, one
// proctype per translated thread, and an init block that launches one
// instance of every proctype in order.
type Document struct {
	decls     Declarations
	proctypes []*Proctype
}

// NewDocument creates a new, empty document.
func NewDocument() *Document {
	d := new(Document)
	d.proctypes = nil

	return d
}

// Declarations returns the global declarations of the document.
func (d *Document) Declarations() *Declarations {
	return &d.decls
}

// Proctypes returns the proctypes of the document in order of addition.
func (d *Document) Proctypes() []*Proctype {
	return d.proctypes
}

// AddProctype adds a new, empty proctype with the given name to the document
// and returns it.
func (d *Document) AddProctype(name string) *Proctype {
	p := newProctype(name)
	d.proctypes = append(d.proctypes, p)
	return p
}

// AsPML returns the Promela representation of the entire document.
func (d *Document) AsPML() string {
	var b strings.Builder
	if !d.decls.IsEmpty() {
		b.WriteString(d.decls.AsPML())
		b.WriteString("\n")
	}
	for _, p := range d.proctypes {
		b.WriteString("\n")
		b.WriteString(p.AsPML())
		b.WriteString("\n")
	}
	b.WriteString("\ninit {\n")
	b.WriteString(Tab + "atomic {\n")
	for _, p := range d.proctypes {
		b.WriteString(Tab + Tab + "run " + p.Name() + "();\n")
	}
	b.WriteString(Tab + "}\n")
	b.WriteString("}\n")
	return b.String()
}

// Proctype represents one Promela process type.
type Proctype struct {
	name string

	decls Declarations
	stmts []string
}

func newProctype(name string) *Proctype {
	p := new(Proctype)
	p.name = name
	p.stmts = nil

	return p
}

// Name returns the name of the proctype.
func (p *Proctype) Name() string {
	return p.name
}

// Declarations returns the local declarations of the proctype.
func (p *Proctype) Declarations() *Declarations {
	return &p.decls
}

// AddStmt appends a statement line to the proctype body.
func (p *Proctype) AddStmt(line string) {
	p.stmts = append(p.stmts, line)
}

// AddStmts appends the given statement lines to the proctype body.
func (p *Proctype) AddStmts(lines []string) {
	p.stmts = append(p.stmts, lines...)
}

// Stmts returns the statement lines of the proctype body.
func (p *Proctype) Stmts() []string {
	return p.stmts
}

// AsPML returns the Promela representation of the proctype.
func (p *Proctype) AsPML() string {
	var b strings.Builder
	b.WriteString("proctype " + p.name + "() {\n")
	if !p.decls.IsEmpty() {
		for _, line := range strings.Split(p.decls.AsPML(), "\n") {
			b.WriteString(Tab + line + "\n")
		}
	}
	for _, line := range p.stmts {
		if line == "" {
			b.WriteString("\n")
			continue
		}
		b.WriteString(Tab + line + "\n")
	}
	b.WriteString("}")
	return b.String()
}

// Atomic wraps the given statement lines in an atomic block, indenting them
// one level. Callers are responsible for the block never being empty.
func Atomic(lines []string) []string {
	out := make([]string, 0, len(lines)+2)
	out = append(out, "atomic {")
	out = append(out, Indent(lines)...)
	out = append(out, "}")
	return out
}

// Indent indents the given lines by one level.
func Indent(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		if line == "" {
			continue
		}
		out[i] = Tab + line
	}
	return out
}
