// Package errors is the presentation layer over the compiler core's errors:
// it turns an ssa.RuntimeError, or a diagnostic raised while lowering the
// front end's AST, into a CompilerError with an error code, a location, and
// Rust-style suggestions, then renders it with the same "-->", "│", "^^^"
// framing kanso's reporter used.
package errors

// Error codes.
//
// Error code ranges:
// E0001-E0099: Name resolution and front-end lowering errors
// E0600-E0699: Flow control errors
// E0700-E0799: Core (ssa package) runtime errors, mirroring ssa.ErrorKind
// W0001-W0099: Warning codes

const (
	// E0001: Variable resolution errors
	ErrorUndefinedVariable = "E0001"

	// E0002: Function resolution errors
	ErrorUndefinedFunction = "E0002"

	// E0003: Type compatibility errors
	ErrorTypeMismatch = "E0003"

	// E0008: Binary/unary operation type errors
	ErrorInvalidOperation = "E0008"

	// E0009: Duplicate declaration errors
	ErrorDuplicateDeclaration = "E0009"

	// E0014: Assignment validation errors
	ErrorInvalidAssignment = "E0014"

	// Flow control errors (E0600-E0699)

	// E0600: Missing return statement
	ErrorMissingReturn = "E0600"

	// E0601: Unreachable code
	ErrorUnreachableCode = "E0601"

	// Core errors (E0700-E0799): these mirror ssa.ErrorKind (§7) one for one.

	// E0700: ssa.ErrUnstructured — a generic core violation (division by a
	// constant zero, "Constraint is always false", an unsupported integer
	// width).
	ErrorCoreUnstructured = "E0700"

	// E0701: ssa.ErrUnimplementedConversion — a front-end type with no IR
	// representation.
	ErrorCoreUnimplementedConversion = "E0701"

	// E0702: ssa.ErrArithmeticUnreachable — a bitwise/shift operation reached
	// folding over a NativeField operand, a front-end bug.
	ErrorCoreArithmeticUnreachable = "E0702"

	// Warning codes (W0001-W0099)

	// W0001: Unused variable warning
	WarningUnusedVariable = "W0001"

	// W0002: Unreachable code warning
	WarningUnreachableCode = "W0002"
)

// GetErrorDescription returns a human-readable description of the error code.
func GetErrorDescription(code string) string {
	switch code {
	case ErrorUndefinedVariable:
		return "Variable is used but not defined in the current scope"
	case ErrorUndefinedFunction:
		return "Function is called but not declared"
	case ErrorTypeMismatch:
		return "Expression type does not match expected type"
	case ErrorInvalidOperation:
		return "Operation not supported for these types"
	case ErrorDuplicateDeclaration:
		return "Duplicate declaration found"
	case ErrorInvalidAssignment:
		return "Invalid assignment operation"
	case ErrorMissingReturn:
		return "Function declares a return type but has no return statement"
	case ErrorUnreachableCode:
		return "Code is unreachable"
	case ErrorCoreUnstructured:
		return "Core compiler error"
	case ErrorCoreUnimplementedConversion:
		return "Front-end type has no IR representation"
	case ErrorCoreArithmeticUnreachable:
		return "Bitwise/shift operation reached folding over a field operand"
	case WarningUnusedVariable:
		return "Variable is declared but never used"
	case WarningUnreachableCode:
		return "Code is unreachable"
	default:
		return "Unknown error code"
	}
}

// IsWarning reports whether code represents a warning rather than an error.
func IsWarning(code string) bool {
	return len(code) > 0 && code[0] == 'W'
}
