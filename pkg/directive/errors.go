package directive

import (
	"fmt"

	"github.com/vango-dev/vbind/pkg/dom"
)

// UnknownDirectiveError is returned when a template uses a directive name
// that is neither built in nor registered.
type UnknownDirectiveError struct {
	Name string
	Node *dom.Node
}

// Error implements the error interface.
func (e *UnknownDirectiveError) Error() string {
	if e.Node != nil {
		return fmt.Sprintf("directive: unknown directive %q at %s", e.Name, e.Node.Path())
	}
	return fmt.Sprintf("directive: unknown directive %q", e.Name)
}

// InvalidDirectiveError is returned when a known directive is used with a
// missing or malformed part, such as v-on without an event name.
type InvalidDirectiveError struct {
	Name   string
	Reason string
	Node   *dom.Node
}

// Error implements the error interface.
func (e *InvalidDirectiveError) Error() string {
	if e.Node != nil {
		return fmt.Sprintf("directive: invalid v-%s at %s: %s", e.Name, e.Node.Path(), e.Reason)
	}
	return fmt.Sprintf("directive: invalid v-%s: %s", e.Name, e.Reason)
}
