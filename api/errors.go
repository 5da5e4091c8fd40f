package api

import (
	"errors"
	"fmt"
)

// Kind discriminates the error categories every engine operation can return.
// The engine never flattens errors to text; callers that need to render them
// (protocol adapters) do the flattening themselves.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindInvalidPath
	KindNotFound
	KindNotADirectory
	KindNotAFile
	KindPathConflict
	KindNotEmpty
	KindInvalidRange
	KindInvalidPattern
	KindVersionConflict
)

func (k Kind) String() string {
	switch k {
	case KindInvalidPath:
		return "invalid path"
	case KindNotFound:
		return "not found"
	case KindNotADirectory:
		return "not a directory"
	case KindNotAFile:
		return "not a file"
	case KindPathConflict:
		return "path conflict"
	case KindNotEmpty:
		return "directory not empty"
	case KindInvalidRange:
		return "invalid range"
	case KindInvalidPattern:
		return "invalid pattern"
	case KindVersionConflict:
		return "version conflict"
	default:
		return "unknown"
	}
}

// Error is the discriminated result type for failed engine operations.
// Path holds the canonical path the operation was addressing, when there
// is one.
type Error struct {
	Kind Kind
	Path string
	Msg  string
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Path, e.Msg)
}

// Errf builds an *Error with a formatted message.
func Errf(kind Kind, path, format string, args ...any) *Error {
	return &Error{Kind: kind, Path: path, Msg: fmt.Sprintf(format, args...)}
}

// KindOf extracts the Kind from err. Returns KindUnknown if err is nil or
// does not wrap an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
