package model

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindDirectoryNotFound
	KindSourceNotFound
	KindSourceUnreadable
	KindSourceNotDeletable
	KindDestinationExists
	KindPathInvalid
	KindClipboardWriteFailed
	KindClipboardEmpty
	KindClipboardUnavailable
	KindNotEnoughArguments
	KindTooManyArguments
)

var kindNames = map[Kind]string{
	KindUnknown:              "Unknown",
	KindDirectoryNotFound:    "DirectoryNotFound",
	KindSourceNotFound:       "SourceNotFound",
	KindSourceUnreadable:     "SourceUnreadable",
	KindSourceNotDeletable:   "SourceNotDeletable",
	KindDestinationExists:    "DestinationExists",
	KindPathInvalid:          "PathInvalid",
	KindClipboardWriteFailed: "ClipboardWriteFailed",
	KindClipboardEmpty:       "ClipboardEmpty",
	KindClipboardUnavailable: "ClipboardUnavailable",
	KindNotEnoughArguments:   "NotEnoughArguments",
	KindTooManyArguments:     "TooManyArguments",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Sentinels for errors.Is. Any *Error matches the sentinel of its kind.
var (
	ErrDirectoryNotFound    = &Error{Kind: KindDirectoryNotFound}
	ErrSourceNotFound       = &Error{Kind: KindSourceNotFound}
	ErrSourceUnreadable     = &Error{Kind: KindSourceUnreadable}
	ErrSourceNotDeletable   = &Error{Kind: KindSourceNotDeletable}
	ErrDestinationExists    = &Error{Kind: KindDestinationExists}
	ErrPathInvalid          = &Error{Kind: KindPathInvalid}
	ErrClipboardWriteFailed = &Error{Kind: KindClipboardWriteFailed}
	ErrClipboardEmpty       = &Error{Kind: KindClipboardEmpty}
	ErrClipboardUnavailable = &Error{Kind: KindClipboardUnavailable}
	ErrNotEnoughArguments   = &Error{Kind: KindNotEnoughArguments}
	ErrTooManyArguments     = &Error{Kind: KindTooManyArguments}
)

type Error struct {
	Kind Kind
	Path string
	Msg  string
	Err  error
}

func NewError(kind Kind, path, msg string) *Error {
	return &Error{Kind: kind, Path: path, Msg: msg}
}

func WrapError(kind Kind, path string, err error) *Error {
	return &Error{Kind: kind, Path: path, Err: err}
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.defaultMessage()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) defaultMessage() string {
	switch e.Kind {
	case KindDirectoryNotFound:
		return fmt.Sprintf("%s does not exist", e.Path)
	case KindSourceNotFound:
		return fmt.Sprintf("%s: no such file", e.Path)
	case KindSourceUnreadable:
		return fmt.Sprintf("%s is not readable", e.Path)
	case KindSourceNotDeletable:
		return fmt.Sprintf("%s cannot be deleted", e.Path)
	case KindDestinationExists:
		return fmt.Sprintf("%s already exists, try enable --force (-f) option", e.Path)
	case KindPathInvalid:
		return fmt.Sprintf("%s is not a valid file path", e.Path)
	case KindClipboardWriteFailed:
		return "failed to write clipboard"
	case KindClipboardEmpty:
		return "no files in clipboard"
	case KindClipboardUnavailable:
		return "clipboard unavailable"
	case KindNotEnoughArguments:
		return "not enough arguments"
	case KindTooManyArguments:
		return "too many arguments"
	}
	if e.Path != "" {
		return e.Path
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
