package benor

// VoteCollector accumulates the votes of the in-flight round. Votes are
// anonymous: the buffer is an ordered sequence, not a set keyed by sender,
// so repeated votes from the same sender are counted again. The quorum
// threshold is purely a count of received values.
//
// The collector is not safe for concurrent use; the owning Machine serializes
// access under its lock.
type VoteCollector struct {
	n     int
	votes []Value
}

// NewVoteCollector creates a collector for a cluster of n nodes.
func NewVoteCollector(n int) *VoteCollector {
	return &VoteCollector{n: n}
}

// Record appends one vote to the current round's buffer.
func (c *VoteCollector) Record(v Value) {
	c.votes = append(c.votes, v)
}

// HasQuorum reports whether strictly more than half of the cluster's votes
// have been buffered.
func (c *VoteCollector) HasQuorum() bool {
	return len(c.votes) > c.n/2
}

// Drain returns the buffered votes and clears the buffer.
func (c *VoteCollector) Drain() []Value {
	out := c.votes
	c.votes = nil
	return out
}

// Len returns the number of buffered votes.
func (c *VoteCollector) Len() int {
	return len(c.votes)
}
