// Package cliutil provides output helpers for the catalogdiff command.
package cliutil

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var title = cases.Title(language.English)

// Writef writes formatted output to w. Write failures are reported on stderr
// and otherwise ignored.
func Writef(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "write error: %v\n", err)
	}
}

// Heading writes a report section heading such as
// "Renamed Entities (2 changes):". name is title-cased.
func Heading(w io.Writer, name, noun string, count int) {
	unit := "changes"
	if count == 1 {
		unit = "change"
	}
	Writef(w, "%s %s (%d %s):\n", title.String(name), noun, count, unit)
}
