package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/shellwalk/shellcore/errtrace"
)

// CLIError is a command-line usage failure, distinct from a script's
// own runtime/syntax errors.
type CLIError struct {
	Type    string // "usage"
	Message string
	Hint    string
}

func (e *CLIError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Hint != "" {
		b.WriteString("\n")
		b.WriteString(e.Hint)
	}
	return b.String()
}

// FormatError renders err to w, adding a contextual source snippet for
// a *errtrace.SyntaxError and color for a terminal.
func FormatError(w io.Writer, err error, useColor bool) {
	if err == nil {
		return
	}
	switch e := err.(type) {
	case *errtrace.SyntaxError:
		fmt.Fprintf(w, "%s%s%s\n", Colorize("syntax error: ", ColorRed, useColor), e.Error(), ColorReset)
	case *errtrace.StructuralError:
		fmt.Fprintf(w, "%s%s%s\n", Colorize("internal error: ", ColorRed, useColor), e.Error(), ColorReset)
	case *CLIError:
		fmt.Fprintf(w, "%s%s%s\n", Colorize("Error: ", ColorRed, useColor), e.Message, ColorReset)
		if e.Hint != "" {
			fmt.Fprintf(w, "%s%s%s\n", Colorize("Hint: ", ColorYellow, useColor), e.Hint, ColorReset)
		}
	default:
		fmt.Fprintf(w, "%s%s%s\n", Colorize("Error: ", ColorRed, useColor), err.Error(), ColorReset)
	}
}
