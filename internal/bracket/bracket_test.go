// internal/bracket/bracket_test.go
package bracket

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/knockvote/knockvote/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeItems(n int) []uuid.UUID {
	items := make([]uuid.UUID, n)
	for i := range items {
		items[i] = uuid.New()
	}
	return items
}

// TestBuildRoundCoversAllItems checks that every item lands in exactly one
// pair or the bye slot, shuffled or not.
func TestBuildRoundCoversAllItems(t *testing.T) {
	for _, n := range []int{2, 3, 4, 5, 7, 8, 16, 17} {
		for _, shuffle := range []bool{false, true} {
			t.Run(fmt.Sprintf("n=%d shuffle=%v", n, shuffle), func(t *testing.T) {
				items := makeItems(n)
				pairs, bye := BuildRound(items, shuffle)

				byeCount := 0
				if bye != nil {
					byeCount = 1
				}
				assert.Equal(t, n, len(pairs)*2+byeCount, "pairs plus bye must consume all items")
				assert.Equal(t, n%2 == 1, bye != nil, "bye exists iff item count is odd")

				seen := map[uuid.UUID]int{}
				for _, p := range pairs {
					seen[p.Item1]++
					seen[p.Item2]++
				}
				if bye != nil {
					seen[*bye]++
				}
				for _, item := range items {
					assert.Equal(t, 1, seen[item], "item must appear exactly once")
				}
			})
		}
	}
}

func TestBuildRoundDoesNotMutateInput(t *testing.T) {
	items := makeItems(8)
	original := make([]uuid.UUID, len(items))
	copy(original, items)

	BuildRound(items, true)
	assert.Equal(t, original, items)
}

// TestTotalRoundsMatchesReduction plays out BuildRound repeatedly (all
// winners chosen arbitrarily) and checks TotalRounds predicts the count.
func TestTotalRoundsMatchesReduction(t *testing.T) {
	for _, n := range []int{2, 3, 4, 5, 7, 8, 16, 17} {
		items := makeItems(n)
		rounds := 0
		for len(items) > 1 {
			pairs, bye := BuildRound(items, true)
			next := make([]uuid.UUID, 0, len(pairs)+1)
			for _, p := range pairs {
				next = append(next, p.Item1) // arbitrary winner
			}
			if bye != nil {
				next = append(next, *bye)
			}
			items = next
			rounds++
		}
		assert.Equal(t, TotalRounds(n), rounds, "item count %d", n)
	}
}

func TestRoundWinnersAndCompletion(t *testing.T) {
	a, b, c, d, e := uuid.New(), uuid.New(), uuid.New(), uuid.New(), uuid.New()
	r := &models.Round{
		Number:  1,
		Pairs:   []models.Pair{{Item1: a, Item2: b}, {Item1: c, Item2: d}},
		ByeItem: &e,
	}

	require.False(t, IsComplete(r))
	assert.Equal(t, 0, NextUnresolved(r))
	// bye counts as a winner even before any pair resolves
	assert.Equal(t, []uuid.UUID{e}, RoundWinners(r))

	r.Pairs[0].Winner = &a
	require.False(t, IsComplete(r))
	assert.Equal(t, 1, NextUnresolved(r))

	r.Pairs[1].Winner = &d
	require.True(t, IsComplete(r))
	assert.Equal(t, -1, NextUnresolved(r))
	assert.ElementsMatch(t, []uuid.UUID{a, d, e}, RoundWinners(r))
}

func TestRoundName(t *testing.T) {
	assert.Equal(t, "Final", RoundName(4, 4))
	assert.Equal(t, "Semi-Final", RoundName(3, 4))
	assert.Equal(t, "Quarter-Final", RoundName(2, 4))
	assert.Equal(t, "Round 1", RoundName(1, 4))
	assert.Equal(t, "Final", RoundName(1, 1))
}
