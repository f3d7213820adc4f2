// internal/session/service.go

// Package session implements the tournament session orchestrator: the
// lifecycle state machine (waiting -> in_progress -> completed), vote
// intake and the auto-advance loop that moves play from pair to pair and
// round to round, emitting realtime events along the way.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/knockvote/knockvote/internal/bracket"
	"github.com/knockvote/knockvote/internal/config"
	"github.com/knockvote/knockvote/internal/models"
	"github.com/knockvote/knockvote/internal/voting"
	"github.com/knockvote/knockvote/internal/ws"
)

// Service coordinates sessions end to end. It owns no state of its own;
// everything durable lives in Store and everything live in Broadcaster,
// which keeps the orchestrator safe to call from any goroutine.
type Service struct {
	cfg   config.GameConfig
	store Store
	items ItemSource
	rt    Broadcaster
	log   *logrus.Logger
}

// New wires the orchestrator to its dependencies.
func New(cfg config.GameConfig, store Store, items ItemSource, rt Broadcaster, log *logrus.Logger) *Service {
	return &Service{cfg: cfg, store: store, items: items, rt: rt, log: log}
}

// PairInfo describes the pair currently awaiting votes.
type PairInfo struct {
	RoundNumber int         `json:"round_number"`
	RoundName   string      `json:"round_name"`
	PairIndex   int         `json:"pair_index"`
	TotalPairs  int         `json:"total_pairs"`
	Item1       ws.ItemInfo `json:"item1"`
	Item2       ws.ItemInfo `json:"item2"`
}

// Results is the final outcome of a completed session.
type Results struct {
	Winner          *ws.ItemInfo   `json:"winner"`
	Bracket         ws.BracketView `json:"bracket"`
	TotalRounds     int            `json:"total_rounds"`
	TotalVotes      int            `json:"total_votes"`
	DurationSeconds int            `json:"duration_seconds"`
}

// PairResult is one pair's outcome within a round summary.
type PairResult struct {
	Index  int                `json:"index"`
	Item1  ws.ItemInfo        `json:"item1"`
	Item2  ws.ItemInfo        `json:"item2"`
	Winner *uuid.UUID         `json:"winner,omitempty"`
	Counts map[string]float64 `json:"vote_counts"`
}

// RoundSummary is the per-round view served over HTTP.
type RoundSummary struct {
	RoundNumber int                `json:"round_number"`
	RoundName   string             `json:"round_name"`
	Status      models.RoundStatus `json:"status"`
	ByeItem     *uuid.UUID         `json:"bye_item,omitempty"`
	Pairs       []PairResult       `json:"pairs"`
}

// CreateSession allocates a session for a competition, reserving a unique
// join code. When the creator is an identified user they are recorded as
// the organizer and seated as the first player.
func (s *Service) CreateSession(ctx context.Context, competitionID uuid.UUID, organizerID *uuid.UUID, organizerName string) (*models.Session, error) {
	items, err := s.items.CompetitionItems(ctx, competitionID)
	if err != nil {
		return nil, fmt.Errorf("load competition items: %w", err)
	}
	if len(items) < s.cfg.MinItems {
		return nil, ErrNotEnoughItems
	}
	if len(items) > s.cfg.MaxItems {
		return nil, ErrTooManyItems
	}

	code, err := s.allocateCode(ctx)
	if err != nil {
		return nil, err
	}

	sess := &models.Session{
		ID:            uuid.New(),
		Code:          code,
		CompetitionID: competitionID,
		OrganizerID:   organizerID,
		OrganizerName: organizerName,
		Status:        models.SessionWaiting,
		CreatedAt:     time.Now(),
	}
	if err := s.store.CreateSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	if organizerID != nil {
		organizer := &models.Player{
			ID:          uuid.New(),
			SessionID:   sess.ID,
			UserID:      organizerID,
			Nickname:    organizerName,
			IsOrganizer: true,
			JoinedAt:    time.Now(),
		}
		if err := s.store.AddPlayer(ctx, organizer); err != nil {
			return nil, fmt.Errorf("seat organizer: %w", err)
		}
	}

	s.log.WithFields(logrus.Fields{
		"session_id": sess.ID,
		"code":       sess.Code,
	}).Info("session created")
	return sess, nil
}

// allocateCode generates join codes until one is unused, bounded by the
// configured attempt count.
func (s *Service) allocateCode(ctx context.Context) (string, error) {
	for i := 0; i < s.cfg.CodeAttempts; i++ {
		code, err := generateCode(s.cfg.CodeAlphabet, s.cfg.CodeLength)
		if err != nil {
			return "", fmt.Errorf("generate code: %w", err)
		}
		_, err = s.store.SessionByCode(ctx, code)
		if errors.Is(err, ErrSessionNotFound) {
			return code, nil
		}
		if err != nil {
			return "", fmt.Errorf("check code: %w", err)
		}
	}
	return "", ErrCodeExhausted
}

// Session returns the session by id.
func (s *Service) Session(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	return s.store.SessionByID(ctx, id)
}

// SessionByCode returns the session behind a join code.
func (s *Service) SessionByCode(ctx context.Context, code string) (*models.Session, error) {
	return s.store.SessionByCode(ctx, code)
}

// Player returns a seated player, verifying session membership.
func (s *Service) Player(ctx context.Context, sessionID, playerID uuid.UUID) (*models.Player, error) {
	p, err := s.store.PlayerByID(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if p.SessionID != sessionID {
		return nil, ErrPlayerNotFound
	}
	return p, nil
}

// Players lists the session's seated players.
func (s *Service) Players(ctx context.Context, sessionID uuid.UUID) ([]models.Player, error) {
	return s.store.Players(ctx, sessionID)
}

// JoinSession seats a player in a waiting session. Identified users may
// join once; guests are never deduplicated.
func (s *Service) JoinSession(ctx context.Context, sessionID uuid.UUID, userID *uuid.UUID, nickname string) (*models.Player, error) {
	sess, err := s.store.SessionByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Status != models.SessionWaiting {
		return nil, ErrSessionStarted
	}

	if userID != nil {
		if _, err := s.store.PlayerByUser(ctx, sessionID, *userID); err == nil {
			return nil, ErrAlreadyJoined
		} else if !errors.Is(err, ErrPlayerNotFound) {
			return nil, fmt.Errorf("check membership: %w", err)
		}
	}

	count, err := s.store.PlayerCount(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("count players: %w", err)
	}
	if count >= s.cfg.MaxPlayers {
		return nil, ErrSessionFull
	}

	isOrganizer := userID != nil && sess.OrganizerID != nil && *userID == *sess.OrganizerID
	player := &models.Player{
		ID:          uuid.New(),
		SessionID:   sessionID,
		UserID:      userID,
		Nickname:    nickname,
		IsOrganizer: isOrganizer,
		JoinedAt:    time.Now(),
	}
	if err := s.store.AddPlayer(ctx, player); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"session_id": sessionID,
		"player_id":  player.ID,
		"nickname":   nickname,
	}).Info("player joined")
	return player, nil
}

// StartSession moves a waiting session to in_progress: it computes the
// round count, builds the shuffled first round and announces the first
// pair. Only the organizer may start.
func (s *Service) StartSession(ctx context.Context, sessionID uuid.UUID, actor Identity) (*models.Session, error) {
	sess, err := s.store.SessionByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.requireOrganizer(sess, actor); err != nil {
		return nil, err
	}
	if sess.Status != models.SessionWaiting {
		return nil, ErrSessionStarted
	}

	count, err := s.store.PlayerCount(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("count players: %w", err)
	}
	if count < s.cfg.MinPlayers {
		return nil, ErrNotEnoughPlayers
	}

	items, err := s.items.CompetitionItems(ctx, sess.CompetitionID)
	if err != nil {
		return nil, fmt.Errorf("load competition items: %w", err)
	}
	if len(items) < s.cfg.MinItems {
		return nil, ErrNotEnoughItems
	}

	ids := make([]uuid.UUID, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	total := bracket.TotalRounds(len(ids))
	pairs, bye := bracket.BuildRound(ids, true)

	now := time.Now()
	round := &models.Round{
		ID:        uuid.New(),
		SessionID: sessionID,
		Number:    1,
		Pairs:     pairs,
		ByeItem:   bye,
		Status:    models.RoundInProgress,
		CreatedAt: now,
	}
	if err := s.store.CreateRound(ctx, round); err != nil {
		return nil, fmt.Errorf("create first round: %w", err)
	}
	if err := s.store.MarkStarted(ctx, sessionID, total, now); err != nil {
		return nil, fmt.Errorf("mark started: %w", err)
	}

	one := 1
	sess.Status = models.SessionInProgress
	sess.CurrentRound = &one
	sess.TotalRounds = &total
	sess.StartedAt = &now

	s.log.WithFields(logrus.Fields{
		"session_id":   sessionID,
		"total_rounds": total,
		"items":        len(ids),
	}).Info("session started")

	s.rt.Broadcast(sessionID, ws.GameStartedEvent{TotalRounds: total, TotalItems: len(ids)})
	if err := s.announcePair(ctx, sessionID, round, 0, total); err != nil {
		return nil, err
	}
	return sess, nil
}

// SubmitVote records one player's vote on the given pair, broadcasts the
// running tally and finalizes the pair once every connected player has
// voted. A vote that lands after the pair resolved is recorded but never
// re-triggers winner assignment.
func (s *Service) SubmitVote(ctx context.Context, sessionID, playerID, itemID uuid.UUID, roundNumber, pairIndex int) error {
	sess, err := s.store.SessionByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if sess.Status != models.SessionInProgress {
		return ErrSessionNotInProgress
	}

	player, err := s.store.PlayerByID(ctx, playerID)
	if err != nil {
		return err
	}
	if player.SessionID != sessionID {
		return ErrPlayerNotFound
	}

	round, err := s.store.Round(ctx, sessionID, roundNumber)
	if err != nil {
		return err
	}
	if pairIndex < 0 || pairIndex >= len(round.Pairs) {
		return ErrInvalidVote
	}
	pair := round.Pairs[pairIndex]
	if !pair.Contains(itemID) {
		return ErrInvalidVote
	}
	alreadyResolved := pair.Resolved()

	vote := &models.Vote{
		ID:          uuid.New(),
		SessionID:   sessionID,
		PlayerID:    playerID,
		ItemID:      itemID,
		RoundNumber: roundNumber,
		PairIndex:   pairIndex,
		Weight:      voting.WeightFor(player.IsOrganizer),
		CreatedAt:   time.Now(),
	}
	if err := s.store.AddVote(ctx, vote); err != nil {
		return err
	}

	votes, err := s.store.VotesForPair(ctx, sessionID, roundNumber, pairIndex)
	if err != nil {
		return fmt.Errorf("load pair votes: %w", err)
	}
	counts := voting.Tally(votes, []uuid.UUID{pair.Item1, pair.Item2})
	s.rt.Broadcast(sessionID, voteUpdateEvent(roundNumber, pairIndex, votes, counts))

	// A straggler vote on a resolved pair counts in the record but the
	// winner stands.
	if alreadyResolved {
		return nil
	}
	if !voting.AllVoted(votes, s.rt.ConnectedCount(sessionID)) {
		return nil
	}
	return s.finalizePair(ctx, sessionID, roundNumber, pairIndex, counts)
}

// finalizePair decides a pair from its tally: a unique leader is written
// as winner (exactly once, even under races) and play advances; a tie is
// escalated to the organizer.
func (s *Service) finalizePair(ctx context.Context, sessionID uuid.UUID, roundNumber, pairIndex int, counts map[uuid.UUID]float64) error {
	winner, tied := voting.Winner(counts)
	if len(tied) > 0 {
		infos, err := s.itemInfos(ctx, tied)
		if err != nil {
			return err
		}
		s.rt.SendToOrganizer(sessionID, ws.TieBreakerRequestEvent{
			RoundNumber: roundNumber,
			PairIndex:   pairIndex,
			TiedItems:   infos,
			VoteCounts:  stringCounts(counts),
		})
		s.log.WithFields(logrus.Fields{
			"session_id": sessionID,
			"round":      roundNumber,
			"pair":       pairIndex,
		}).Info("tie detected, organizer decision requested")
		return nil
	}
	if winner == uuid.Nil {
		s.log.WithFields(logrus.Fields{
			"session_id": sessionID,
			"round":      roundNumber,
			"pair":       pairIndex,
		}).Error("pair finalized with empty tally")
		return ErrInternal
	}
	return s.applyWinner(ctx, sessionID, roundNumber, pairIndex, winner, counts)
}

// ResolveTie applies the organizer's decision for a tied pair. Resolving
// an already-resolved pair is a no-op, which makes redelivered tie-break
// requests harmless.
func (s *Service) ResolveTie(ctx context.Context, sessionID uuid.UUID, roundNumber, pairIndex int, chosen uuid.UUID, actor Identity) error {
	sess, err := s.store.SessionByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := s.requireOrganizer(sess, actor); err != nil {
		return err
	}
	if sess.Status != models.SessionInProgress {
		return ErrSessionNotInProgress
	}

	round, err := s.store.Round(ctx, sessionID, roundNumber)
	if err != nil {
		return err
	}
	if pairIndex < 0 || pairIndex >= len(round.Pairs) {
		return ErrInvalidTieChoice
	}
	pair := round.Pairs[pairIndex]
	if !pair.Contains(chosen) {
		return ErrInvalidTieChoice
	}
	if pair.Resolved() {
		return nil
	}

	votes, err := s.store.VotesForPair(ctx, sessionID, roundNumber, pairIndex)
	if err != nil {
		return fmt.Errorf("load pair votes: %w", err)
	}
	counts := voting.Tally(votes, []uuid.UUID{pair.Item1, pair.Item2})
	return s.applyWinner(ctx, sessionID, roundNumber, pairIndex, chosen, counts)
}

// applyWinner performs the single compare-and-set that resolves a pair,
// then announces the result and advances play. Losing the race is not an
// error; the first writer's outcome stands.
func (s *Service) applyWinner(ctx context.Context, sessionID uuid.UUID, roundNumber, pairIndex int, winner uuid.UUID, counts map[uuid.UUID]float64) error {
	applied, err := s.store.SetPairWinner(ctx, sessionID, roundNumber, pairIndex, winner, time.Now())
	if err != nil {
		return fmt.Errorf("set pair winner: %w", err)
	}
	if !applied {
		return nil
	}
	s.rt.ClearOrganizerPending(sessionID)

	infos, err := s.itemInfos(ctx, []uuid.UUID{winner})
	if err != nil {
		return err
	}
	var winnerName string
	if len(infos) > 0 {
		winnerName = infos[0].Name
	}
	s.rt.Broadcast(sessionID, ws.VoteCompleteEvent{
		RoundNumber: roundNumber,
		PairIndex:   pairIndex,
		WinnerID:    winner,
		WinnerName:  winnerName,
		FinalCounts: stringCounts(counts),
	})
	s.log.WithFields(logrus.Fields{
		"session_id": sessionID,
		"round":      roundNumber,
		"pair":       pairIndex,
		"winner":     winner,
	}).Info("pair resolved")

	return s.advance(ctx, sessionID)
}

// advance looks at the current round after a pair resolved and pushes play
// forward: next pair, next round, or game over.
func (s *Service) advance(ctx context.Context, sessionID uuid.UUID) error {
	sess, err := s.store.SessionByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if sess.Status != models.SessionInProgress || sess.CurrentRound == nil {
		return nil
	}
	current := *sess.CurrentRound
	total := 0
	if sess.TotalRounds != nil {
		total = *sess.TotalRounds
	}

	round, err := s.store.Round(ctx, sessionID, current)
	if err != nil {
		return err
	}
	if idx := bracket.NextUnresolved(round); idx >= 0 {
		return s.announcePair(ctx, sessionID, round, idx, total)
	}

	now := time.Now()
	if err := s.store.CompleteRound(ctx, sessionID, current, now); err != nil {
		return fmt.Errorf("complete round: %w", err)
	}
	winners := bracket.RoundWinners(round)
	winnerInfos, err := s.itemInfos(ctx, winners)
	if err != nil {
		return err
	}

	switch len(winners) {
	case 0:
		// A completed round always carries at least its bye or one winner;
		// reaching this means stored state is corrupt.
		s.log.WithField("session_id", sessionID).Error("completed round produced no winners")
		return ErrInternal

	case 1:
		if err := s.store.MarkCompleted(ctx, sessionID, now); err != nil {
			return fmt.Errorf("mark completed: %w", err)
		}
		s.rt.Broadcast(sessionID, ws.RoundCompleteEvent{
			RoundNumber:       current,
			Winners:           winnerInfos,
			NextRoundStarting: false,
		})
		results, err := s.FinalResults(ctx, sessionID)
		if err != nil {
			return err
		}
		s.rt.Broadcast(sessionID, ws.GameCompleteEvent{
			Winner:          results.Winner,
			FinalBracket:    results.Bracket,
			TotalRounds:     results.TotalRounds,
			TotalVotes:      results.TotalVotes,
			DurationSeconds: results.DurationSeconds,
		})
		s.log.WithFields(logrus.Fields{
			"session_id": sessionID,
			"winner":     winners[0],
		}).Info("game complete")
		return nil

	default:
		next := current + 1
		pairs, bye := bracket.BuildRound(winners, true)
		nextRound := &models.Round{
			ID:        uuid.New(),
			SessionID: sessionID,
			Number:    next,
			Pairs:     pairs,
			ByeItem:   bye,
			Status:    models.RoundInProgress,
			CreatedAt: now,
		}
		if err := s.store.CreateRound(ctx, nextRound); err != nil {
			return fmt.Errorf("create round %d: %w", next, err)
		}
		if err := s.store.AdvanceRound(ctx, sessionID, next); err != nil {
			return fmt.Errorf("advance round: %w", err)
		}
		s.rt.Broadcast(sessionID, ws.RoundCompleteEvent{
			RoundNumber:       current,
			Winners:           winnerInfos,
			NextRoundStarting: true,
			NextRoundPairs:    len(pairs),
		})
		s.log.WithFields(logrus.Fields{
			"session_id": sessionID,
			"round":      next,
			"pairs":      len(pairs),
		}).Info("round advanced")
		return s.announcePair(ctx, sessionID, nextRound, 0, total)
	}
}

// announcePair broadcasts the next_pair event for round.Pairs[idx].
func (s *Service) announcePair(ctx context.Context, sessionID uuid.UUID, round *models.Round, idx, totalRounds int) error {
	pair := round.Pairs[idx]
	infos, err := s.itemInfoMap(ctx, []uuid.UUID{pair.Item1, pair.Item2})
	if err != nil {
		return err
	}
	s.rt.Broadcast(sessionID, ws.NextPairEvent{
		RoundNumber: round.Number,
		RoundName:   bracket.RoundName(round.Number, totalRounds),
		PairIndex:   idx,
		TotalPairs:  len(round.Pairs),
		Item1:       infos[pair.Item1],
		Item2:       infos[pair.Item2],
	})
	return nil
}

// CurrentPair returns the pair awaiting votes in an in_progress session.
func (s *Service) CurrentPair(ctx context.Context, sessionID uuid.UUID) (*PairInfo, error) {
	sess, err := s.store.SessionByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Status != models.SessionInProgress || sess.CurrentRound == nil {
		return nil, ErrSessionNotInProgress
	}
	round, err := s.store.Round(ctx, sessionID, *sess.CurrentRound)
	if err != nil {
		return nil, err
	}
	idx := bracket.NextUnresolved(round)
	if idx < 0 {
		// All pairs resolved but the session has not advanced yet; the
		// caller retries after the in-flight advance lands.
		return nil, ErrRoundNotFound
	}
	total := 0
	if sess.TotalRounds != nil {
		total = *sess.TotalRounds
	}
	pair := round.Pairs[idx]
	infos, err := s.itemInfoMap(ctx, []uuid.UUID{pair.Item1, pair.Item2})
	if err != nil {
		return nil, err
	}
	return &PairInfo{
		RoundNumber: round.Number,
		RoundName:   bracket.RoundName(round.Number, total),
		PairIndex:   idx,
		TotalPairs:  len(round.Pairs),
		Item1:       infos[pair.Item1],
		Item2:       infos[pair.Item2],
	}, nil
}

// FinalResults assembles the outcome of a completed session: champion,
// full bracket, vote volume and duration.
func (s *Service) FinalResults(ctx context.Context, sessionID uuid.UUID) (*Results, error) {
	sess, err := s.store.SessionByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Status != models.SessionCompleted {
		return nil, ErrSessionNotCompleted
	}

	rounds, err := s.store.Rounds(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load rounds: %w", err)
	}
	view := bracketView(rounds)

	var winner *ws.ItemInfo
	if len(rounds) > 0 {
		last := rounds[len(rounds)-1]
		if finalists := bracket.RoundWinners(&last); len(finalists) == 1 {
			infos, err := s.itemInfos(ctx, finalists)
			if err != nil {
				return nil, err
			}
			if len(infos) > 0 {
				winner = &infos[0]
			}
		}
	}

	totalVotes, err := s.store.TotalVotes(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("count votes: %w", err)
	}

	duration := 0
	if sess.StartedAt != nil && sess.CompletedAt != nil {
		duration = int(sess.CompletedAt.Sub(*sess.StartedAt).Seconds())
	}
	total := len(rounds)
	if sess.TotalRounds != nil {
		total = *sess.TotalRounds
	}
	return &Results{
		Winner:          winner,
		Bracket:         view,
		TotalRounds:     total,
		TotalVotes:      totalVotes,
		DurationSeconds: duration,
	}, nil
}

// RoundResults summarizes one round with per-pair tallies.
func (s *Service) RoundResults(ctx context.Context, sessionID uuid.UUID, number int) (*RoundSummary, error) {
	sess, err := s.store.SessionByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	round, err := s.store.Round(ctx, sessionID, number)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(round.Pairs)*2)
	for _, p := range round.Pairs {
		ids = append(ids, p.Item1, p.Item2)
	}
	infos, err := s.itemInfoMap(ctx, ids)
	if err != nil {
		return nil, err
	}

	pairs := make([]PairResult, len(round.Pairs))
	for i, p := range round.Pairs {
		votes, err := s.store.VotesForPair(ctx, sessionID, number, i)
		if err != nil {
			return nil, fmt.Errorf("load pair votes: %w", err)
		}
		pairs[i] = PairResult{
			Index:  i,
			Item1:  infos[p.Item1],
			Item2:  infos[p.Item2],
			Winner: p.Winner,
			Counts: stringCounts(voting.Tally(votes, []uuid.UUID{p.Item1, p.Item2})),
		}
	}

	total := 0
	if sess.TotalRounds != nil {
		total = *sess.TotalRounds
	}
	return &RoundSummary{
		RoundNumber: number,
		RoundName:   bracket.RoundName(number, total),
		Status:      round.Status,
		ByeItem:     round.ByeItem,
		Pairs:       pairs,
	}, nil
}

// DeleteSession removes the session and all dependent rows, then tears
// down its live connections. Organizer only.
func (s *Service) DeleteSession(ctx context.Context, sessionID uuid.UUID, actor Identity) error {
	sess, err := s.store.SessionByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := s.requireOrganizer(sess, actor); err != nil {
		return err
	}
	if err := s.store.DeleteSession(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	s.rt.CloseSession(sessionID)
	s.log.WithField("session_id", sessionID).Info("session deleted")
	return nil
}

// requireOrganizer accepts either an organizer-attributed connection or a
// user id matching the session's organizer.
func (s *Service) requireOrganizer(sess *models.Session, actor Identity) error {
	if actor.IsOrganizer {
		return nil
	}
	if actor.UserID != nil && sess.OrganizerID != nil && *actor.UserID == *sess.OrganizerID {
		return nil
	}
	return ErrNotOrganizer
}

// itemInfos resolves item ids to client-facing infos, preserving order.
func (s *Service) itemInfos(ctx context.Context, ids []uuid.UUID) ([]ws.ItemInfo, error) {
	byID, err := s.itemInfoMap(ctx, ids)
	if err != nil {
		return nil, err
	}
	infos := make([]ws.ItemInfo, 0, len(ids))
	for _, id := range ids {
		infos = append(infos, byID[id])
	}
	return infos, nil
}

func (s *Service) itemInfoMap(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]ws.ItemInfo, error) {
	items, err := s.items.ItemsByID(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	byID := make(map[uuid.UUID]ws.ItemInfo, len(items))
	for _, it := range items {
		byID[it.ID] = ws.ItemInfo{ID: it.ID, Name: it.Name, ImageURL: it.ImageURL}
	}
	// Unknown ids still render with their id so events never lose a slot.
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			byID[id] = ws.ItemInfo{ID: id}
		}
	}
	return byID, nil
}

func voteUpdateEvent(roundNumber, pairIndex int, votes []models.Vote, counts map[uuid.UUID]float64) ws.VoteUpdateEvent {
	total := 0.0
	for _, c := range counts {
		total += c
	}
	voters := voting.DistinctVoters(votes)
	voted := make([]string, len(voters))
	for i, id := range voters {
		voted[i] = id.String()
	}
	return ws.VoteUpdateEvent{
		RoundNumber:  roundNumber,
		PairIndex:    pairIndex,
		VoteCounts:   stringCounts(counts),
		TotalVotes:   total,
		VotersCount:  len(voters),
		PlayersVoted: voted,
	}
}

func stringCounts(counts map[uuid.UUID]float64) map[string]float64 {
	out := make(map[string]float64, len(counts))
	for id, c := range counts {
		out[id.String()] = c
	}
	return out
}

// bracketView flattens stored rounds into the client bracket tree.
func bracketView(rounds []models.Round) ws.BracketView {
	view := ws.BracketView{TotalRounds: len(rounds), Rounds: make([]ws.BracketRound, len(rounds))}
	for i, r := range rounds {
		br := ws.BracketRound{
			RoundNumber: r.Number,
			Status:      string(r.Status),
			ByeItem:     r.ByeItem,
			Pairs:       make([]ws.BracketPair, len(r.Pairs)),
		}
		for j, p := range r.Pairs {
			br.Pairs[j] = ws.BracketPair{
				Index:     j,
				Item1ID:   p.Item1,
				Item2ID:   p.Item2,
				WinnerID:  p.Winner,
				Completed: p.Resolved(),
			}
		}
		view.Rounds[i] = br
	}
	return view
}
