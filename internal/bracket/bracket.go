// internal/bracket/bracket.go

// Package bracket implements single-elimination bracket construction and
// round analysis. It operates purely on in-memory item lists and round
// structures; persistence and event delivery live elsewhere.
package bracket

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/knockvote/knockvote/internal/models"
)

// BuildRound pairs items two at a time. When shuffle is true the order is
// randomized first. With an odd item count the single unconsumed item
// becomes the bye and advances without a vote. Every input item ends up in
// exactly one pair or as the bye.
func BuildRound(items []uuid.UUID, shuffle bool) ([]models.Pair, *uuid.UUID) {
	ordered := make([]uuid.UUID, len(items))
	copy(ordered, items)

	if shuffle {
		rand.Shuffle(len(ordered), func(i, j int) {
			ordered[i], ordered[j] = ordered[j], ordered[i]
		})
	}

	pairs := make([]models.Pair, 0, len(ordered)/2)
	for i := 0; i+1 < len(ordered); i += 2 {
		pairs = append(pairs, models.Pair{Item1: ordered[i], Item2: ordered[i+1]})
	}

	var bye *uuid.UUID
	if len(ordered)%2 == 1 {
		last := ordered[len(ordered)-1]
		bye = &last
	}
	return pairs, bye
}

// RoundWinners returns the union of every resolved pair's winner plus the
// bye item. Unresolved pairs contribute nothing; for a completed round the
// result is exactly the input set of the next round.
func RoundWinners(r *models.Round) []uuid.UUID {
	winners := make([]uuid.UUID, 0, len(r.Pairs)+1)
	for _, p := range r.Pairs {
		if p.Winner != nil {
			winners = append(winners, *p.Winner)
		}
	}
	if r.ByeItem != nil {
		winners = append(winners, *r.ByeItem)
	}
	return winners
}

// IsComplete reports whether every pair in the round has a winner. The bye
// item requires no decision.
func IsComplete(r *models.Round) bool {
	for _, p := range r.Pairs {
		if p.Winner == nil {
			return false
		}
	}
	return true
}

// NextUnresolved returns the index of the first pair without a winner, or
// -1 when the round is complete.
func NextUnresolved(r *models.Round) int {
	for i, p := range r.Pairs {
		if p.Winner == nil {
			return i
		}
	}
	return -1
}

// TotalRounds simulates the pair/bye reduction until one item remains and
// returns the number of steps. It matches BuildRound applied repeatedly.
func TotalRounds(itemCount int) int {
	rounds := 0
	remaining := itemCount
	for remaining > 1 {
		rounds++
		remaining = remaining/2 + remaining%2
	}
	return rounds
}

// RoundName returns the display label for a round, counting backward from
// the final.
func RoundName(roundNumber, totalRounds int) string {
	switch totalRounds - roundNumber {
	case 0:
		return "Final"
	case 1:
		return "Semi-Final"
	case 2:
		return "Quarter-Final"
	default:
		return fmt.Sprintf("Round %d", roundNumber)
	}
}
