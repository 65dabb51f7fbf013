package service

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"dossierportal-backend/repository"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// HTTPError is implemented by every error the services return on purpose
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors, use with errors.Is
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrStorage      = errors.New("storage failure")
)

type (
	// ValidationError indicates invalid input. Fields maps input names to problems.
	ValidationError struct {
		Message string
		Fields  map[string]string
	}

	// NotFoundError indicates a resource was not found or is not visible to the caller
	NotFoundError struct {
		Message string
	}

	// ConflictError indicates a uniqueness violation
	ConflictError struct {
		Message string
	}

	// UnauthorizedError indicates missing or failed authentication
	UnauthorizedError struct {
		Message string
	}

	// ForbiddenError indicates the caller's role does not allow the operation
	ForbiddenError struct {
		Message string
	}

	// StorageError wraps a persistence or object store failure
	StorageError struct {
		Op  string
		Err error
	}
)

func (e *ValidationError) Error() string   { return e.Message }
func (e *NotFoundError) Error() string     { return e.Message }
func (e *ConflictError) Error() string     { return e.Message }
func (e *UnauthorizedError) Error() string { return e.Message }
func (e *ForbiddenError) Error() string    { return e.Message }
func (e *StorageError) Error() string      { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *ValidationError) StatusCode() int   { return http.StatusBadRequest }
func (e *NotFoundError) StatusCode() int     { return http.StatusNotFound }
func (e *ConflictError) StatusCode() int     { return http.StatusConflict }
func (e *UnauthorizedError) StatusCode() int { return http.StatusUnauthorized }
func (e *ForbiddenError) StatusCode() int    { return http.StatusForbidden }
func (e *StorageError) StatusCode() int      { return http.StatusInternalServerError }

func (e *ValidationError) Is(target error) bool   { return target == ErrValidation }
func (e *NotFoundError) Is(target error) bool     { return target == ErrNotFound }
func (e *ConflictError) Is(target error) bool     { return target == ErrConflict }
func (e *UnauthorizedError) Is(target error) bool { return target == ErrUnauthorized }
func (e *ForbiddenError) Is(target error) bool    { return target == ErrForbidden }
func (e *StorageError) Is(target error) bool      { return target == ErrStorage }

func (e *StorageError) Unwrap() error { return e.Err }

func notFound(resource string) error {
	return &NotFoundError{Message: resource + " not found"}
}

func invalid(field, problem string) error {
	return &ValidationError{
		Message: fmt.Sprintf("%s: %s", field, problem),
		Fields:  map[string]string{field: problem},
	}
}

func forbidden(msg string) error {
	return &ForbiddenError{Message: msg}
}

// fromValidation turns ozzo field errors into a ValidationError.
// Internal rule errors are passed through untouched.
func fromValidation(err error) error {
	if err == nil {
		return nil
	}
	var internal validation.InternalError
	if errors.As(err, &internal) {
		return err
	}

	var errs validation.Errors
	if !errors.As(err, &errs) {
		return &ValidationError{Message: err.Error()}
	}

	fields := make(map[string]string, len(errs))
	names := make([]string, 0, len(errs))
	for name, fe := range errs {
		if fe == nil {
			continue
		}
		fields[name] = fe.Error()
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + ": " + fields[name]
	}
	return &ValidationError{Message: strings.Join(parts, "; "), Fields: fields}
}

// fromRepository maps repository sentinels onto service errors. Anything else
// becomes a StorageError.
func fromRepository(op, resource string, err error) error {
	if err == nil {
		return nil
	}
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return err
	}
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return notFound(resource)
	case errors.Is(err, repository.ErrConflict):
		return &ConflictError{Message: resource + " already exists"}
	}
	return &StorageError{Op: op, Err: err}
}
