package compiler

import (
	"fmt"

	"github.com/fatih/color"
)

// CompileError is the single error type the compiler ever returns.
// Every diagnostic (lexical, syntactic, semantic) is fatal and carries
// exactly one position — there is no recovery and no multi-error
// reporting.
type CompileError struct {
	Pos Pos
	Msg string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

func errAt(pos Pos, format string, args ...any) *CompileError {
	return &CompileError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

var errPrefix = color.New(color.FgRed, color.Bold).SprintFunc()

// Render formats a CompileError the way the `bcc` driver prints it to
// stderr: "bcc: error: file:line: message", colorized when stdout is a
// terminal. Color degrades automatically on non-tty output because
// fatih/color checks isatty for us.
func Render(progName string, err error) string {
	if ce, ok := err.(*CompileError); ok {
		return fmt.Sprintf("%s: %s: %s: %s", progName, errPrefix("error"), ce.Pos, ce.Msg)
	}
	return fmt.Sprintf("%s: %s: %s", progName, errPrefix("error"), err)
}
