package mathdef

import "errors"

// Typesetting failures. Callers usually degrade to the literal TeX
// source, so these carry enough detail to point at the bad construct.
var (
	ErrUnbalancedBraces = errors.New("unbalanced braces")
	ErrUnknownCommand   = errors.New("unknown command")
	ErrMissingOperand   = errors.New("missing operand")
	ErrMacroRecursion   = errors.New("macro expansion too deep")
)
