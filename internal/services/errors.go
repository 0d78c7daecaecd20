package services

import (
	"errors"
	"fmt"
)

var (
	ErrBadCreds        = errors.New("invalid email or password")
	ErrDuplicateEmail  = errors.New("an account with that email already exists")
	ErrProductNotFound = errors.New("product does not exist")
)

// FieldError is a user-correctable problem with one form field.
type FieldError struct {
	Field string
	Msg   string
}

func (e *FieldError) Error() string { return fmt.Sprintf("%s: %s", e.Field, e.Msg) }

func fieldErr(field, msg string) error { return &FieldError{Field: field, Msg: msg} }
