// Package apperr holds the domain error taxonomy shared by all services.
// Handlers convert these into fiber errors; anything unrecognized surfaces
// as a 500 with a generic message.
package apperr

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return e.Entity + " not found"
}

// ReferentialError signals a foreign-key style violation, e.g. a set
// pointing at an exercise that does not exist.
type ReferentialError struct {
	Entity string
}

func (e *ReferentialError) Error() string {
	return e.Entity + " does not exist"
}

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

type ForbiddenError struct {
	Msg string
}

func (e *ForbiddenError) Error() string {
	return e.Msg
}

type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string {
	return e.Msg
}

func NotFound(entity string) error {
	return &NotFoundError{Entity: entity}
}

func Referential(entity string) error {
	return &ReferentialError{Entity: entity}
}

func Validation(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...any) error {
	return &ForbiddenError{Msg: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) error {
	return &ConflictError{Msg: fmt.Sprintf(format, args...)}
}

// ToFiber maps a service error to its HTTP representation.
func ToFiber(err error) error {
	var (
		notFound    *NotFoundError
		referential *ReferentialError
		validation  *ValidationError
		forbidden   *ForbiddenError
		conflict    *ConflictError
	)
	switch {
	case errors.As(err, &notFound):
		return fiber.NewError(fiber.StatusNotFound, notFound.Error())
	case errors.As(err, &referential):
		return fiber.NewError(fiber.StatusNotFound, referential.Error())
	case errors.As(err, &validation):
		return fiber.NewError(fiber.StatusBadRequest, validation.Error())
	case errors.As(err, &forbidden):
		return fiber.NewError(fiber.StatusForbidden, forbidden.Error())
	case errors.As(err, &conflict):
		return fiber.NewError(fiber.StatusConflict, conflict.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}
}
