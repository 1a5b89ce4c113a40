package benor

import "errors"

// Protocol error taxonomy. All are boundary rejections or swallowed internal
// faults; none is fatal to the process.
var (
	// ErrNodeKilled rejects any operation after Stop. Permanent.
	ErrNodeKilled = errors.New("node has been killed")
	// ErrMalformedMessage rejects a message whose value field is missing or
	// not one of "0", "1", "?". No state change.
	ErrMalformedMessage = errors.New("malformed message value")
	// ErrClusterNotReady rejects Start before every node has announced
	// readiness. Retryable.
	ErrClusterNotReady = errors.New("cluster not ready")
	// ErrEmptyVoteSet is returned by Majority when no usable votes remain
	// after discarding invalid entries. Never crosses the node boundary.
	ErrEmptyVoteSet = errors.New("empty vote set")
	// ErrNodeFaulty marks the status of a node configured as faulty.
	ErrNodeFaulty = errors.New("node is faulty")
)
