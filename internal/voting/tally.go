// internal/voting/tally.go

// Package voting holds the pure vote-counting logic: weighted tallies,
// winner/tie determination and the all-voted check. Vote persistence and
// the surrounding state machine live in internal/session.
package voting

import (
	"github.com/google/uuid"
	"github.com/knockvote/knockvote/internal/models"
)

// OrganizerWeight is the vote weight applied to the session organizer.
// Regular players vote with WeightFor(false) = 1.0.
const OrganizerWeight = 1.5

// WeightFor returns the weight a vote carries at cast time.
func WeightFor(isOrganizer bool) float64 {
	if isOrganizer {
		return OrganizerWeight
	}
	return 1.0
}

// Tally sums weighted votes per candidate. Every candidate is present in
// the result, zero-filled when unvoted; votes for non-candidates are
// ignored.
func Tally(votes []models.Vote, candidates []uuid.UUID) map[uuid.UUID]float64 {
	counts := make(map[uuid.UUID]float64, len(candidates))
	for _, id := range candidates {
		counts[id] = 0
	}
	for _, v := range votes {
		if _, ok := counts[v.ItemID]; ok {
			counts[v.ItemID] += v.Weight
		}
	}
	return counts
}

// Winner inspects a tally. If exactly one item holds the maximum weighted
// count it is returned with tied == nil. Otherwise winner is uuid.Nil and
// tied holds every item sharing the maximum, requiring an organizer
// decision.
func Winner(counts map[uuid.UUID]float64) (winner uuid.UUID, tied []uuid.UUID) {
	if len(counts) == 0 {
		return uuid.Nil, nil
	}

	max := 0.0
	first := true
	for _, c := range counts {
		if first || c > max {
			max = c
			first = false
		}
	}

	var top []uuid.UUID
	for id, c := range counts {
		if c == max {
			top = append(top, id)
		}
	}
	if len(top) == 1 {
		return top[0], nil
	}
	return uuid.Nil, top
}

// AllVoted reports whether the number of distinct players who voted has
// reached playerCount. This, not a timeout, triggers tally finalization.
func AllVoted(votes []models.Vote, playerCount int) bool {
	if playerCount <= 0 {
		return false
	}
	voters := make(map[uuid.UUID]struct{}, len(votes))
	for _, v := range votes {
		voters[v.PlayerID] = struct{}{}
	}
	return len(voters) >= playerCount
}

// DistinctVoters returns the ids of players who voted, in no particular
// order.
func DistinctVoters(votes []models.Vote) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(votes))
	voters := make([]uuid.UUID, 0, len(votes))
	for _, v := range votes {
		if _, ok := seen[v.PlayerID]; !ok {
			seen[v.PlayerID] = struct{}{}
			voters = append(voters, v.PlayerID)
		}
	}
	return voters
}
