// Package apperr defines the structured error taxonomy of the planner.
// Errors carry a machine-readable code, the offending field when one
// exists, and a human-readable message. Codes are uppercase,
// underscore-separated, and stable.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for callers that map failures to transport
// responses.
type Kind int

const (
	// KindValidation marks malformed or semantically invalid input,
	// always detectable before any mutation.
	KindValidation Kind = iota
	// KindConflict marks a well-formed request that violates current
	// entity state.
	KindConflict
	// KindNotFound marks a referenced entity id that does not resolve.
	KindNotFound
)

// Validation error codes.
const (
	PertMissing        = "PERT_MISSING"
	PertOrder          = "PERT_ORDER"
	InvalidStatus      = "INVALID_STATUS"
	SprintTasksReq     = "SPRINT_TASKS_REQUIRED"
	TaskIDsRequired    = "TASK_IDS_REQUIRED"
	BlockInfoRequired  = "BLOCK_INFO_REQUIRED"
	AssigneeNotFound   = "ASSIGNEE_NOT_FOUND"
	BlockRespNotFound  = "BLOCK_RESP_NOT_FOUND"
	SprintNotFound     = "SPRINT_NOT_FOUND"
	TaskSprintNotFound = "TASK_SPRINT_NOT_FOUND"
	TasksNotInSprint   = "TASKS_NOT_IN_SPRINT"
	TitleRequired      = "TITLE_REQUIRED"
)

// Conflict error codes.
const (
	InvalidTransition       = "INVALID_TRANSITION"
	SprintAlreadyStarted    = "SPRINT_ALREADY_STARTED"
	SprintNotStarted        = "SPRINT_NOT_STARTED"
	SprintHasUnfinished     = "SPRINT_HAS_UNFINISHED_TASKS"
	SprintNotEditable       = "SPRINT_NOT_EDITABLE"
	TaskAlreadyInSprint     = "TASK_ALREADY_IN_SPRINT"
	SprintNotStartedForTask = "SPRINT_NOT_STARTED_FOR_TASK"
	MissingAssignee         = "MISSING_ASSIGNEE"
	SprintTasksReqToStart   = "SPRINT_TASKS_REQUIRED_TO_START"
	StatusWithoutSprint     = "STATUS_INVALID_WITHOUT_SPRINT"
)

// Not-found code used by presentation layers.
const NotFound = "NOT_FOUND"

// Error is a structured planner error.
type Error struct {
	Kind    Kind
	Code    string
	Field   string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string { return e.Message }

// Validationf creates a validation error with a formatted message.
// field names the offending input (a phase name, "status", ...).
func Validationf(code, field, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Code: code, Field: field, Message: fmt.Sprintf(format, args...)}
}

// Conflictf creates a conflict error with a formatted message.
func Conflictf(code, field, format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Code: code, Field: field, Message: fmt.Sprintf(format, args...)}
}

// NotFoundf creates a not-found error with a formatted message.
func NotFoundf(field, format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Code: NotFound, Field: field, Message: fmt.Sprintf(format, args...)}
}

// CodeOf returns the structured code of err, or "" if err is not an
// *Error.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// HasCode reports whether err is an *Error carrying the given code.
func HasCode(err error, code string) bool {
	return CodeOf(err) == code
}
