package benor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMajorityStrict(t *testing.T) {
	maj, err := Majority([]Value{Zero, One, Zero, Zero})
	assert.Nil(t, err)
	assert.Equal(t, Zero, maj)

	maj, err = Majority([]Value{One, One, Zero})
	assert.Nil(t, err)
	assert.Equal(t, One, maj)
}

func TestMajorityTieBreaksOnFirstOccurrence(t *testing.T) {
	maj, err := Majority([]Value{One, Zero, Zero, One})
	assert.Nil(t, err)
	assert.Equal(t, One, maj)

	maj, err = Majority([]Value{Zero, One})
	assert.Nil(t, err)
	assert.Equal(t, Zero, maj)
}

func TestMajorityDiscardsInvalidEntries(t *testing.T) {
	maj, err := Majority([]Value{"", "x", One, "", One, Zero})
	assert.Nil(t, err)
	assert.Equal(t, One, maj)
}

func TestMajorityCountsUndecided(t *testing.T) {
	maj, err := Majority([]Value{Undecided, Undecided, One})
	assert.Nil(t, err)
	assert.Equal(t, Undecided, maj)
}

func TestMajorityEmptyVoteSet(t *testing.T) {
	_, err := Majority(nil)
	assert.ErrorIs(t, err, ErrEmptyVoteSet)

	_, err = Majority([]Value{"", "bogus"})
	assert.ErrorIs(t, err, ErrEmptyVoteSet)
}
