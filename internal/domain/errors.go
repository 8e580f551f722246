package domain

import "errors"

var (
	ErrInvalidID       = errors.New("invalid id")
	ErrInvalidName     = errors.New("invalid name")
	ErrInvalidTitle    = errors.New("invalid title")
	ErrInvalidPriority = errors.New("invalid priority")
	ErrInvalidColumnID = errors.New("invalid column id")
	ErrInvalidDueDate  = errors.New("invalid due date")
)
