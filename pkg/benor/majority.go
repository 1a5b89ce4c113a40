package benor

// Majority returns the plurality value among the given votes. Entries that
// are not valid protocol values are discarded before counting. Ties resolve
// deterministically to whichever tied value occurs first in the input.
// Returns ErrEmptyVoteSet when nothing usable remains.
func Majority(votes []Value) (Value, error) {
	counts := make(map[Value]int, 3)
	order := make([]Value, 0, 3)
	for _, v := range votes {
		if !v.Valid() {
			continue
		}
		if _, seen := counts[v]; !seen {
			order = append(order, v)
		}
		counts[v]++
	}
	if len(order) == 0 {
		return "", ErrEmptyVoteSet
	}
	best := order[0]
	for _, v := range order[1:] {
		if counts[v] > counts[best] {
			best = v
		}
	}
	return best, nil
}
