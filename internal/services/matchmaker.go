package services

import (
	"context"
	"time"

	"nearmeet-server/internal/logger"
	"nearmeet-server/internal/models"
	"nearmeet-server/internal/repository"
)

// MatchResult is returned when a reciprocal like produces a match.
type MatchResult struct {
	MatchID string `json:"match_id"`
	ChatID  string `json:"chat_id"`
}

// Matchmaker turns reciprocal likes into Match + Conversation pairs. The two
// rows share a deterministic id and are written in one transaction, so the
// same pair can never end up with a match but no thread, or duplicates of
// either.
type Matchmaker struct {
	matches   *repository.MatchRepository
	decisions *repository.DecisionRepository
	profiles  *repository.ProfileRepository
	push      PushSender
}

func NewMatchmaker(
	matches *repository.MatchRepository,
	decisions *repository.DecisionRepository,
	profiles *repository.ProfileRepository,
	push PushSender,
) *Matchmaker {
	return &Matchmaker{
		matches:   matches,
		decisions: decisions,
		profiles:  profiles,
		push:      push,
	}
}

// OnReciprocalLike creates (or re-reads) the match and thread for a pair and
// notifies both users. Notification is fire-and-forget outside the atomic
// unit: failures are logged and never fail match creation.
func (m *Matchmaker) OnReciprocalLike(ctx context.Context, userA, userB string) (*MatchResult, error) {
	match, err := m.matches.EnsureMatch(ctx, userA, userB)
	if err != nil {
		return nil, err
	}

	m.notifyMatched(match.Members())

	return &MatchResult{MatchID: match.ID, ChatID: match.ID}, nil
}

func (m *Matchmaker) notifyMatched(members []string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		tokens, err := m.profiles.PushTokens(ctx, members...)
		if err != nil {
			logger.L().WithError(err).Warn("could not load push tokens for match notification")
			return
		}
		m.push.Send(ctx, tokens, "It's a match!", "You matched with someone. Start chatting!")
	}()
}

// ReconcileStrandedMatches scans for mutual like pairs that have no match
// row and repairs them. A crash between "like persisted" and "match checked"
// can strand a mutual pair forever, because reciprocity is otherwise only
// checked at the moment of the second like. Run periodically.
func (m *Matchmaker) ReconcileStrandedMatches(ctx context.Context, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 500
	}
	pairs, err := m.decisions.MutualLikePairs(ctx, batchSize)
	if err != nil {
		return 0, err
	}

	repaired := 0
	for _, pair := range pairs {
		exists, err := m.matches.Exists(ctx, pair[0], pair[1])
		if err != nil {
			return repaired, err
		}
		if exists {
			continue
		}
		if _, err := m.OnReciprocalLike(ctx, pair[0], pair[1]); err != nil {
			return repaired, err
		}
		logger.L().WithField("match_id", models.PairID(pair[0], pair[1])).Info("repaired stranded mutual like")
		repaired++
	}
	return repaired, nil
}

// RunReconcileLoop triggers the sweep on the given interval until ctx is
// cancelled.
func (m *Matchmaker) RunReconcileLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := m.ReconcileStrandedMatches(ctx, 500); err != nil {
				logger.L().WithError(err).Warn("match reconciliation sweep failed")
			}
		}
	}
}
