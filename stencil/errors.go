package stencil

import (
	"errors"
	"fmt"
)

// ErrorKind classifies pipeline failures.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindValidation
	KindDecode
	KindFilter
	KindEncode
	KindInternal
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindDecode:
		return "decode"
	case KindFilter:
		return "filter"
	case KindEncode:
		return "encode"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// ErrNotImage is returned when the content type does not start with image/.
var ErrNotImage = errors.New("上传的文件不是图片")

// Error is the single error type returned by Generate and PlanFor.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string { return e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the kind of err, or KindUnknown if err is not an *Error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func IsValidation(err error) bool { return KindOf(err) == KindValidation }
func IsDecode(err error) bool     { return KindOf(err) == KindDecode }
func IsFilter(err error) bool     { return KindOf(err) == KindFilter }
func IsEncode(err error) bool     { return KindOf(err) == KindEncode }

// ErrorResult is the structured {"error": message} object handed to callers
// instead of a document.
type ErrorResult struct {
	Error string `json:"error"`
}

// ResultOf converts err into an ErrorResult.
func ResultOf(err error) ErrorResult {
	if err == nil {
		return ErrorResult{}
	}
	return ErrorResult{Error: err.Error()}
}
