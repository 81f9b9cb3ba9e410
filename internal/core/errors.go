package core

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when no project has the requested ID.
var ErrNotFound = errors.New("project not found")

// ErrValidation is wrapped by every error caused by bad caller input.
var ErrValidation = errors.New("validation failed")

var (
	ErrInvalidName     = fmt.Errorf("%w: project name must not be empty", ErrValidation)
	ErrDuplicateName   = fmt.Errorf("%w: a project with this name already exists", ErrValidation)
	ErrInvalidStatus   = fmt.Errorf("%w: unknown status", ErrValidation)
	ErrInvalidProvider = fmt.Errorf("%w: unknown provider", ErrValidation)
)
