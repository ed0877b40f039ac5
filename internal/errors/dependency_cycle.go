package errors

import "net/http"

var ErrDependencyCycle = &Exception{
	Message:    "dependencies would form a cycle",
	StatusCode: http.StatusUnprocessableEntity,
}
