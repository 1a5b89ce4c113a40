package network

// Request is one inbound command delivered to a node, already decoded from
// whatever transport carried it.
type Request struct {
	Command string
	Sender  int32
	Value   string
}

// HandlerFunc serves one command. The returned string is the response body on
// success; the error is mapped to a transport-level rejection by the caller.
type HandlerFunc func(*Request) (string, error)
