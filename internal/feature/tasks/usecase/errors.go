package usecase

import "errors"

var (
	// ErrInvalidInput is returned when a title is empty or a status is unknown.
	ErrInvalidInput = errors.New("invalid task input")

	// ErrNotFound covers both a missing task and a task owned by someone else.
	ErrNotFound = errors.New("task not found")
)
