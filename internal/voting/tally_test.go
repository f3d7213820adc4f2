// internal/voting/tally_test.go
package voting

import (
	"testing"

	"github.com/google/uuid"
	"github.com/knockvote/knockvote/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vote(player, item uuid.UUID, weight float64) models.Vote {
	return models.Vote{ID: uuid.New(), PlayerID: player, ItemID: item, Weight: weight}
}

func TestTallyZeroFill(t *testing.T) {
	itemA, itemB := uuid.New(), uuid.New()

	counts := Tally(nil, []uuid.UUID{itemA, itemB})
	require.Len(t, counts, 2, "unvoted candidates must be present, not omitted")
	assert.Equal(t, 0.0, counts[itemA])
	assert.Equal(t, 0.0, counts[itemB])
}

func TestTallyIgnoresNonCandidates(t *testing.T) {
	itemA, itemB, stray := uuid.New(), uuid.New(), uuid.New()
	votes := []models.Vote{
		vote(uuid.New(), itemA, 1.0),
		vote(uuid.New(), stray, 1.0),
	}

	counts := Tally(votes, []uuid.UUID{itemA, itemB})
	assert.Equal(t, 1.0, counts[itemA])
	assert.Equal(t, 0.0, counts[itemB])
	assert.NotContains(t, counts, stray)
}

// TestOrganizerWeightBreaksTie: 2 regular votes for A vs 1 regular plus the
// organizer's 1.5x vote for B gives B the win at 2.5 over 2.0.
func TestOrganizerWeightBreaksTie(t *testing.T) {
	itemA, itemB := uuid.New(), uuid.New()
	votes := []models.Vote{
		vote(uuid.New(), itemA, WeightFor(false)),
		vote(uuid.New(), itemA, WeightFor(false)),
		vote(uuid.New(), itemB, WeightFor(false)),
		vote(uuid.New(), itemB, WeightFor(true)),
	}

	counts := Tally(votes, []uuid.UUID{itemA, itemB})
	assert.Equal(t, 2.0, counts[itemA])
	assert.Equal(t, 2.5, counts[itemB])

	winner, tied := Winner(counts)
	assert.Equal(t, itemB, winner)
	assert.Nil(t, tied)
}

func TestTrueTieReported(t *testing.T) {
	itemA, itemB := uuid.New(), uuid.New()
	votes := []models.Vote{
		vote(uuid.New(), itemA, 1.0),
		vote(uuid.New(), itemB, 1.0),
	}

	counts := Tally(votes, []uuid.UUID{itemA, itemB})
	winner, tied := Winner(counts)
	assert.Equal(t, uuid.Nil, winner)
	assert.ElementsMatch(t, []uuid.UUID{itemA, itemB}, tied)
}

func TestWinnerEmptyTally(t *testing.T) {
	winner, tied := Winner(nil)
	assert.Equal(t, uuid.Nil, winner)
	assert.Nil(t, tied)
}

func TestAllVotedDistinctVoters(t *testing.T) {
	itemA := uuid.New()
	p1, p2 := uuid.New(), uuid.New()

	votes := []models.Vote{vote(p1, itemA, 1.0)}
	assert.False(t, AllVoted(votes, 2))

	// same player again does not count twice
	votes = append(votes, vote(p1, itemA, 1.0))
	assert.False(t, AllVoted(votes, 2))

	votes = append(votes, vote(p2, itemA, 1.0))
	assert.True(t, AllVoted(votes, 2))

	assert.Len(t, DistinctVoters(votes), 2)
	assert.False(t, AllVoted(votes, 0), "zero connected players never finalizes")
}
