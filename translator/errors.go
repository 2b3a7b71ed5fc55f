package translator

import (
	"fmt"

	"github.com/dprr/rocker/ir"
)

// ErrorKind classifies the ways a translation can fail.
type ErrorKind int

const (
	// MissingSection indicates a missing mandatory program section.
	MissingSection ErrorKind = iota
	// BoundOutOfRange indicates a declared wraparound bound outside 1..255.
	BoundOutOfRange
	// DuplicateName indicates a function or local variable name declared
	// twice.
	DuplicateName
	// ScopeOverlap indicates a name declared in more than one of the
	// shared-atomic, shared-non-atomic, and local scopes.
	ScopeOverlap
	// ValueOutOfRange indicates an initial value or literal outside
	// [0, modulus).
	ValueOutOfRange
	// SharedInControlExpr indicates a shared variable referenced in a
	// branch, loop, or goto guard expression.
	SharedInControlExpr
	// SharedInRMWOperand indicates a shared variable referenced in a
	// read-modify-write operand expression.
	SharedInRMWOperand
	// UndeclaredVariable indicates a reference to a variable that is
	// neither a local nor a declared shared variable.
	UndeclaredVariable
	// AssignmentIntoShared indicates an assignment statement targeting a
	// shared variable.
	AssignmentIntoShared
	// MalformedRHS indicates an assignment right hand side the translator
	// cannot interpret.
	MalformedRHS
)

func (k ErrorKind) String() string {
	switch k {
	case MissingSection:
		return "missing mandatory section"
	case BoundOutOfRange:
		return "bound out of range"
	case DuplicateName:
		return "duplicate name"
	case ScopeOverlap:
		return "illegal scope overlap"
	case ValueOutOfRange:
		return "value out of range"
	case SharedInControlExpr:
		return "shared variable in control expression"
	case SharedInRMWOperand:
		return "shared variable in read-modify-write operand"
	case UndeclaredVariable:
		return "reference to undeclared variable"
	case AssignmentIntoShared:
		return "assignment into shared variable"
	case MalformedRHS:
		return "malformed right hand side"
	default:
		panic(fmt.Errorf("unknown ErrorKind: %d", int(k)))
	}
}

// ValidationError is the fatal error raised when a program violates a
// translation invariant. It is raised at the point of detection and unwound
// to the translation entry point without being caught or downgraded.
type ValidationError struct {
	Kind ErrorKind
	Pos  ir.Pos

	msg string
}

func newValidationError(kind ErrorKind, pos ir.Pos, format string, args ...interface{}) *ValidationError {
	return &ValidationError{
		Kind: kind,
		Pos:  pos,
		msg:  fmt.Sprintf(format, args...),
	}
}

func (e *ValidationError) Error() string {
	if e.Pos == ir.NoPos {
		return fmt.Sprintf("%s: %s", e.Kind, e.msg)
	}
	return fmt.Sprintf("%s: %s: %s", e.Pos, e.Kind, e.msg)
}
