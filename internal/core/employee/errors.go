package employee

import "errors"

var (
	ErrInvalidID        = errors.New("employee: invalid id")
	ErrEmployeeNotFound = errors.New("employee: not found")
	ErrUnknownFormType  = errors.New("employee: unknown form type")
)
