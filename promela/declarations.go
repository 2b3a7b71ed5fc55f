package promela

import (
	"fmt"
	"strings"
)

type declEntry struct {
	// Exactly one of block and name is set.
	block string

	name         string
	_type        string
	initialValue string
}

// Declarations stores an ordered list of variable declarations and verbatim
// declaration blocks, either at the global level of a Document or at the top
// of a Proctype.
type Declarations struct {
	entries []declEntry
}

// AddVariable adds a variable declaration to the list of declarations.
func (d *Declarations) AddVariable(name, _type, initialValue string) {
	d.entries = append(d.entries, declEntry{
		name:         name,
		_type:        _type,
		initialValue: initialValue,
	})
}

// AddBlock adds a verbatim declaration block (for example instrumentation
// metadata) after the declarations added so far. Empty blocks are dropped.
func (d *Declarations) AddBlock(block string) {
	if block == "" {
		return
	}
	d.entries = append(d.entries, declEntry{block: block})
}

// IsEmpty returns whether the declarations contain no entries.
func (d *Declarations) IsEmpty() bool {
	return len(d.entries) == 0
}

// AsPML returns the Promela representation of the declarations, one
// declaration per line.
func (d *Declarations) AsPML() string {
	var b strings.Builder
	for i, entry := range d.entries {
		if i > 0 {
			b.WriteString("\n")
		}
		if entry.block != "" {
			b.WriteString(entry.block)
			continue
		}
		fmt.Fprintf(&b, "%s %s", entry._type, entry.name)
		if entry.initialValue != "" {
			fmt.Fprintf(&b, " = %s", entry.initialValue)
		}
		b.WriteString(";")
	}
	return b.String()
}
