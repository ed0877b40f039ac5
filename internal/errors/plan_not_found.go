package errors

import "net/http"

var ErrPlanNotFound = &Exception{
	Message:    "no pending reschedule plan for this token",
	StatusCode: http.StatusNotFound,
}
