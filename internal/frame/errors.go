package frame

import "errors"

// ErrConnectionClosed is returned when the peer closes the connection
// mid-read.
var ErrConnectionClosed = errors.New("frame: connection closed by peer")

// ErrTimeout is returned when a read deadline elapses before a full
// frame arrives. Callers that treat this as "try again later" (the
// dispatch worker's receive loop) should check errors.Is against
// this value rather than a raw net.Error timeout, since partial reads
// across the length prefix and body are collapsed into one signal.
var ErrTimeout = errors.New("frame: read timeout")
