package dirstat

import "errors"

var (
	// ErrRootUnreadable is returned when the root of a walk cannot be stat'ed.
	ErrRootUnreadable = errors.New("root path unreadable")
	// ErrNotDirectory is returned when the root of a walk is not a directory.
	ErrNotDirectory = errors.New("not a directory")
	// ErrEntryMetadata is returned by the strict walk when an enumerated entry cannot be stat'ed.
	ErrEntryMetadata = errors.New("reading entry metadata")
)
