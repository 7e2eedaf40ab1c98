package errors

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"acircore/internal/ssa"
)

func TestErrorReporter(t *testing.T) {
	source := `fn test() -> Field {
    let x = unknownVar;
    return x;
}`

	reporter := NewErrorReporter("test.ac", source)

	err := UndefinedVariable("unknownVar", Position{Line: 2, Column: 13}, []string{"knownVar", "anotherVar"})
	formatted := reporter.FormatError(err)

	assert.Contains(t, formatted, "error["+ErrorUndefinedVariable+"]")
	assert.Contains(t, formatted, "undefined variable")
	assert.Contains(t, formatted, "unknownVar")

	assert.Contains(t, formatted, "test.ac:2:13")

	assert.Contains(t, formatted, "did you mean")
	assert.Contains(t, formatted, "knownVar")
}

func TestUndefinedVariableError(t *testing.T) {
	pos := Position{Line: 1, Column: 5}

	err := UndefinedVariable("balace", pos, []string{"balance"})
	assert.Equal(t, ErrorUndefinedVariable, err.Code)
	assert.Contains(t, err.Message, "balace")
	assert.Len(t, err.Suggestions, 1)
	assert.Contains(t, err.Suggestions[0].Message, "did you mean 'balance'")

	err = UndefinedVariable("xyz", pos, []string{})
	assert.Len(t, err.Suggestions, 1)
	assert.Contains(t, err.Suggestions[0].Message, "make sure the variable is declared")
}

func TestUndefinedFunctionError(t *testing.T) {
	pos := Position{Line: 1, Column: 5}

	err := UndefinedFunction("sende", pos, []string{"sender"})
	assert.Equal(t, ErrorUndefinedFunction, err.Code)
	assert.Contains(t, err.Message, "sende")
	assert.Len(t, err.Suggestions, 1)
	assert.Contains(t, err.Suggestions[0].Message, "did you mean 'sender'")
}

func TestTypeMismatchError(t *testing.T) {
	pos := Position{Line: 1, Column: 5}

	err := TypeMismatch("u64", "u32", pos)
	assert.Equal(t, ErrorTypeMismatch, err.Code)
	assert.Contains(t, err.Message, "expected u64, found u32")
	assert.Len(t, err.Suggestions, 1)
	assert.Contains(t, err.Suggestions[0].Message, "compatible")

	err = TypeMismatch("bool", "u64", pos)
	assert.Contains(t, err.Suggestions[0].Message, "comparison operator")
}

func TestWarningFormatting(t *testing.T) {
	source := `let unused = 42;`
	reporter := NewErrorReporter("test.ac", source)

	err := UnusedVariable("unused", Position{Line: 1, Column: 5})
	formatted := reporter.FormatError(err)

	assert.Contains(t, formatted, "warning[W0001]")
	assert.Contains(t, formatted, "never used")
	assert.Contains(t, formatted, "prefix with underscore")
}

func TestErrorMarkerCreation(t *testing.T) {
	source := `let variable = value;`
	reporter := NewErrorReporter("test.ac", source)

	marker := reporter.createMarker(5, 8, Error) // "variable" is 8 chars at column 5

	spaces := strings.Count(marker, " ")
	assert.Equal(t, 4, spaces) // column 5 means 4 spaces before
	carets := strings.Count(marker, "^")
	assert.Equal(t, 8, carets) // 8 character length
}

func TestLevenshteinDistance(t *testing.T) {
	assert.Equal(t, 0, levenshteinDistance("hello", "hello"))
	assert.Equal(t, 1, levenshteinDistance("hello", "hallo"))
	assert.Equal(t, 1, levenshteinDistance("hello", "helo")) // deletion is 1, not 2
	assert.Equal(t, 5, levenshteinDistance("hello", ""))
	assert.Equal(t, 3, levenshteinDistance("kitten", "sitting"))
}

func TestSimilarNameFinding(t *testing.T) {
	candidates := []string{"balance", "amount", "total", "balanceOf", "xyz"}

	similar := findSimilarNames("balace", candidates)
	assert.Contains(t, similar, "balance")
	assert.NotContains(t, similar, "xyz") // too different

	similar = findSimilarNames("verydifferent", candidates)
	assert.Empty(t, similar)
}

func TestErrorLevels(t *testing.T) {
	source := `test`
	reporter := NewErrorReporter("test.ac", source)
	pos := Position{Line: 1, Column: 1}

	errorErr := CompilerError{Level: Error, Message: "test error", Position: pos}
	warningErr := CompilerError{Level: Warning, Message: "test warning", Position: pos}

	errorFormatted := reporter.FormatError(errorErr)
	warningFormatted := reporter.FormatError(warningErr)

	assert.Contains(t, errorFormatted, "error:")
	assert.Contains(t, warningFormatted, "warning:")
}

func TestFromRuntimeErrorMapsKindToCode(t *testing.T) {
	runtimeErr := ssa.NewUnstructuredError("division by constant zero").
		WithLocation(ssa.Location{Line: 4, Column: 9})

	err := FromRuntimeError(runtimeErr)
	assert.Equal(t, ErrorCoreUnstructured, err.Code)
	assert.Equal(t, "division by constant zero", err.Message)
	assert.Equal(t, 4, err.Position.Line)
	assert.Equal(t, 9, err.Position.Column)
}
