package errors

import (
	"sort"
	"strings"
)

// Validation is a user-input error. Fields maps an input field name to the
// message to render next to it; commit is blocked and nothing is mutated.
type Validation struct {
	Fields map[string]string
}

func (e *Validation) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	sort.Strings(parts)
	return "validation failed: " + strings.Join(parts, "; ")
}
