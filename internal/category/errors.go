// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package category

import (
	"errors"
	"fmt"
)

// Kind identifies a class of category failure. The string value is the
// stable code exposed over the API.
type Kind string

const (
	KindInvalidCategory   Kind = "INVALID_CATEGORY"
	KindCircularReference Kind = "CIRCULAR_REFERENCE"
	KindBuildTree         Kind = "BUILD_TREE_ERROR"
	KindFetch             Kind = "FETCH_CATEGORIES_ERROR"
	KindCreate            Kind = "CREATE_CATEGORY_ERROR"
	KindUpdate            Kind = "UPDATE_CATEGORY_ERROR"
	KindDelete            Kind = "DELETE_CATEGORY_ERROR"
	KindUnknown           Kind = "UNKNOWN_ERROR"
)

// Error is a typed category failure. CategoryID is zero when the failure is
// not tied to a single record.
type Error struct {
	Kind       Kind
	Message    string
	CategoryID int64
	Err        error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := string(e.Kind)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrCircularReference)
// holds regardless of message or category id.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// ErrNotFound is returned by sources when the addressed category does not
// exist. It is not part of the kind taxonomy.
var ErrNotFound = errors.New("category not found")

// Sentinels for errors.Is checks.
var (
	ErrInvalidCategory   = &Error{Kind: KindInvalidCategory}
	ErrCircularReference = &Error{Kind: KindCircularReference}
	ErrBuildTree         = &Error{Kind: KindBuildTree}
	ErrFetch             = &Error{Kind: KindFetch}
	ErrCreate            = &Error{Kind: KindCreate}
	ErrUpdate            = &Error{Kind: KindUpdate}
	ErrDelete            = &Error{Kind: KindDelete}
	ErrUnknown           = &Error{Kind: KindUnknown}
)

func newError(kind Kind, id int64, format string, args ...any) *Error {
	return &Error{Kind: kind, CategoryID: id, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns err unchanged if it already is a category error, otherwise it
// wraps it with the given kind.
func Wrap(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	var ce *Error
	if errors.As(err, &ce) {
		return err
	}
	return &Error{Kind: kind, Err: err}
}

// KindOf reports the kind of err, or KindUnknown for errors outside the
// category taxonomy.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindUnknown
}
