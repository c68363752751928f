package pattern

import (
	"fmt"
	"regexp"

	"github.com/dlclark/regexp2"
)

// Dialect selects which regex grammar serialized patterns must compile
// under. One dialect is active per run.
type Dialect string

const (
	// DialectGo is RE2 syntax as accepted by the standard library.
	DialectGo Dialect = "go"
	// DialectECMAScript is JavaScript-style syntax.
	DialectECMAScript Dialect = "ecmascript"
	// DialectDotNet is .NET-style syntax with backtracking semantics.
	DialectDotNet Dialect = "dotnet"
)

// IsValid checks if the dialect value is supported.
func (d Dialect) IsValid() bool {
	switch d {
	case DialectGo, DialectECMAScript, DialectDotNet:
		return true
	}
	return false
}

// CompileError reports that serialized pattern text was rejected by the
// active dialect's compiler.
type CompileError struct {
	Text    string
	Dialect Dialect
	Err     error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("pattern %q does not compile under dialect %s: %v", e.Text, e.Dialect, e.Err)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// CheckCompile verifies that text compiles under the dialect. The Go
// dialect uses the standard library; the backtracking dialects use
// regexp2, which accepts their grammars natively.
func (d Dialect) CheckCompile(text string) error {
	switch d {
	case DialectGo:
		if _, err := regexp.Compile(text); err != nil {
			return &CompileError{Text: text, Dialect: d, Err: err}
		}
	case DialectECMAScript:
		if _, err := regexp2.Compile(text, regexp2.ECMAScript); err != nil {
			return &CompileError{Text: text, Dialect: d, Err: err}
		}
	case DialectDotNet:
		if _, err := regexp2.Compile(text, regexp2.None); err != nil {
			return &CompileError{Text: text, Dialect: d, Err: err}
		}
	default:
		return fmt.Errorf("unknown dialect %q", d)
	}
	return nil
}
