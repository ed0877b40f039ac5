package errors

import "net/http"

// ErrDanglingDependency marks a dependency id with no matching task. It is a
// data-integrity fault, not bad user input, so it maps to a server error.
var ErrDanglingDependency = &Exception{
	Message:    "dependency references a missing task",
	StatusCode: http.StatusInternalServerError,
}
