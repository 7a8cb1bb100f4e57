package reactive

import "errors"

var (
	// ErrDropped is reported to a pending one-shot subscriber whose cell was
	// closed before the value ever matched.
	ErrDropped = errors.New("reactive: cell dropped before the value matched")

	// ErrCanceled is reported by a Waiter that was canceled by its receiver.
	ErrCanceled = errors.New("reactive: waiter canceled")

	// ErrEnded is returned by Stream.Next once the stream is closed and its
	// backlog has been drained.
	ErrEnded = errors.New("reactive: stream ended")
)
