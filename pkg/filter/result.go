package filter

import (
	"time"

	"github.com/google/uuid"
)

type Result[T any] struct {
	id        uuid.UUID
	createdAt time.Time
	result    T
	err       error
	isSuccess bool
	isCancel  bool
	hasResult bool
}

func Success[T any](r T) Result[T] {
	return Result[T]{
		id:        uuid.New(),
		createdAt: time.Now().UTC(),
		result:    r,
		isSuccess: true,
		hasResult: true,
	}
}

func Fail[T any](err error) Result[T] {
	return Result[T]{
		id:        uuid.New(),
		createdAt: time.Now().UTC(),
		err:       err,
	}
}

// FailWith is a failure that still carries a (partially updated) value.
func FailWith[T any](r T, err error) Result[T] {
	res := Fail[T](err)
	res.result = r
	res.hasResult = true
	return res
}

func Cancel[T any](err error) Result[T] {
	return Result[T]{
		id:        uuid.New(),
		createdAt: time.Now().UTC(),
		err:       err,
		isCancel:  true,
	}
}

// CancelWith is a cancellation that still carries a (partially updated) value.
func CancelWith[T any](r T, err error) Result[T] {
	res := Cancel[T](err)
	res.result = r
	res.hasResult = true
	return res
}

func (r Result[T]) Result() T {
	return r.result
}

// Unwrap returns the value and error as a Go-style pair.
func (r Result[T]) Unwrap() (T, error) {
	return r.result, r.err
}

func (r Result[T]) Err() error {
	return r.err
}

func (r Result[T]) IsSuccess() bool {
	return r.isSuccess
}

func (r Result[T]) IsFailure() bool {
	return !r.isSuccess && !r.isCancel && r.err != nil
}

func (r Result[T]) IsCancel() bool {
	return r.isCancel
}

func (r Result[T]) HasResult() bool {
	return r.hasResult
}

func (r Result[T]) CreatedAt() time.Time {
	return r.createdAt
}

func (r Result[T]) Id() uuid.UUID {
	return r.id
}
