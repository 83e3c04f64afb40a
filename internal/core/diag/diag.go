// Package diag renders pipeline failures as build-time diagnostics anchored
// to the source position of the embed directive that caused them.
package diag

import (
	"fmt"
	"go/token"
	"strings"
)

// Diagnostic is a terminal failure for one embed invocation. It does not
// affect sibling invocations in the same run.
type Diagnostic struct {
	Pos token.Position
	Err error
}

// New builds a Diagnostic for the invocation anchored at pos.
func New(pos token.Position, err error) Diagnostic {
	return Diagnostic{Pos: pos, Err: err}
}

func (d Diagnostic) String() string {
	if d.Pos.Filename == "" {
		return d.Err.Error()
	}
	return fmt.Sprintf("%s: %v", d.Pos, d.Err)
}

// List accumulates diagnostics across the independent invocations of a run.
type List []Diagnostic

// Add appends a diagnostic for the invocation at pos.
func (l *List) Add(pos token.Position, err error) {
	*l = append(*l, New(pos, err))
}

// Err returns an error summarizing the list, or nil when it is empty.
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	msgs := make([]string, len(l))
	for i, d := range l {
		msgs[i] = d.String()
	}
	return fmt.Errorf("%s", strings.Join(msgs, "\n"))
}
