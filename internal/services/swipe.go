package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"nearmeet-server/internal/apperrors"
	"nearmeet-server/internal/logger"
	"nearmeet-server/internal/models"
	"nearmeet-server/internal/repository"
)

// SwipeResult is the outcome of a like or super-like.
type SwipeResult struct {
	Matched   bool   `json:"matched"`
	ChatID    string `json:"chat_id,omitempty"`
	QuotaLeft int    `json:"quota_left"`
}

// SwipeService records directional decisions and drives the quota check and
// mutual-match detection around them.
type SwipeService struct {
	decisions  *repository.DecisionRepository
	profiles   *repository.ProfileRepository
	quota      *QuotaTracker
	matchmaker *Matchmaker
	push       PushSender
}

func NewSwipeService(
	decisions *repository.DecisionRepository,
	profiles *repository.ProfileRepository,
	quota *QuotaTracker,
	matchmaker *Matchmaker,
	push PushSender,
) *SwipeService {
	return &SwipeService{
		decisions:  decisions,
		profiles:   profiles,
		quota:      quota,
		matchmaker: matchmaker,
		push:       push,
	}
}

func validatePair(actorID, targetID string) error {
	if actorID == "" {
		return apperrors.ErrNotAuthenticated
	}
	if targetID == "" {
		return apperrors.InvalidArgument("target user id is required")
	}
	if actorID == targetID {
		return apperrors.InvalidArgument("cannot swipe on yourself")
	}
	return nil
}

// RecordPass writes a pass marker. No quota check, no match check;
// repeating a pass is a no-op.
func (s *SwipeService) RecordPass(ctx context.Context, actorID, targetID string) error {
	if err := validatePair(actorID, targetID); err != nil {
		return err
	}
	_, err := s.decisions.Record(ctx, actorID, targetID, models.VerdictPass)
	return err
}

// RecordLike consumes a like from the actor's quota, persists the decision
// and checks for reciprocity. A denied quota returns Matched=false,
// QuotaLeft=0 without writing the decision.
func (s *SwipeService) RecordLike(ctx context.Context, actorID, targetID string) (*SwipeResult, error) {
	return s.recordPositive(ctx, actorID, targetID, models.VerdictLike)
}

// RecordSuperLike behaves like RecordLike against the super-like budget and
// additionally pings the target that someone super-liked them.
func (s *SwipeService) RecordSuperLike(ctx context.Context, actorID, targetID string) (*SwipeResult, error) {
	return s.recordPositive(ctx, actorID, targetID, models.VerdictSuperLike)
}

func (s *SwipeService) recordPositive(ctx context.Context, actorID, targetID string, verdict models.Verdict) (*SwipeResult, error) {
	if err := validatePair(actorID, targetID); err != nil {
		return nil, err
	}

	// A repeat swipe on the same target is a no-op: the first verdict stands
	// and no quota is consumed.
	existing, err := s.decisions.Get(ctx, actorID, targetID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return s.replayOutcome(ctx, actorID, targetID, existing.Verdict, verdict)
	}

	allowed, remaining, err := s.quota.CheckAndConsume(ctx, actorID, verdict)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return &SwipeResult{Matched: false, QuotaLeft: 0}, nil
	}

	inserted, err := s.decisions.Record(ctx, actorID, targetID, verdict)
	if err != nil {
		return nil, err
	}
	if !inserted {
		// Lost the insert race to a concurrent duplicate; hand the unit back.
		if err := s.quota.Refund(ctx, actorID, verdict); err != nil {
			return nil, err
		}
		winner, err := s.decisions.Get(ctx, actorID, targetID)
		if err != nil {
			return nil, err
		}
		return s.replayOutcome(ctx, actorID, targetID, winner.Verdict, verdict)
	}

	if verdict == models.VerdictSuperLike {
		s.notifySuperLiked(targetID)
	}

	reciprocal, err := s.decisions.HasLiked(ctx, targetID, actorID)
	if err != nil {
		return nil, err
	}
	if !reciprocal {
		return &SwipeResult{Matched: false, QuotaLeft: remaining}, nil
	}

	match, err := s.matchmaker.OnReciprocalLike(ctx, actorID, targetID)
	if err != nil {
		return nil, err
	}
	return &SwipeResult{Matched: true, ChatID: match.ChatID, QuotaLeft: remaining}, nil
}

// replayOutcome reports the current state for a duplicate positive swipe
// without consuming quota or re-notifying. QuotaLeft reflects the verdict the
// caller attempted; a recorded pass never turns into a match here.
func (s *SwipeService) replayOutcome(ctx context.Context, actorID, targetID string, recorded, attempted models.Verdict) (*SwipeResult, error) {
	likes, superlikes, err := s.quota.Remaining(ctx, actorID)
	if err != nil {
		return nil, err
	}
	remaining := likes
	if attempted == models.VerdictSuperLike {
		remaining = superlikes
	}

	if recorded == models.VerdictPass {
		return &SwipeResult{Matched: false, QuotaLeft: remaining}, nil
	}

	reciprocal, err := s.decisions.HasLiked(ctx, targetID, actorID)
	if err != nil {
		return nil, err
	}
	if !reciprocal {
		return &SwipeResult{Matched: false, QuotaLeft: remaining}, nil
	}
	match, err := s.matchmaker.OnReciprocalLike(ctx, actorID, targetID)
	if err != nil {
		return nil, err
	}
	return &SwipeResult{Matched: true, ChatID: match.ChatID, QuotaLeft: remaining}, nil
}

func (s *SwipeService) notifySuperLiked(targetID string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		tokens, err := s.profiles.PushTokens(ctx, targetID)
		if err != nil {
			logger.L().WithError(err).Warn("could not load push token for super-like notification")
			return
		}
		s.push.Send(ctx, tokens, "Super like", "Someone super-liked your profile")
	}()
}

// Candidates returns up to max ranked, unseen profiles for the user.
func (s *SwipeService) Candidates(ctx context.Context, userID string, max int) ([]models.User, error) {
	if userID == "" {
		return nil, apperrors.ErrNotAuthenticated
	}
	if max <= 0 {
		max = 10
	}

	decided, err := s.decisions.DecidedTargets(ctx, userID)
	if err != nil {
		return nil, err
	}

	pool, err := s.profiles.CandidatePool(ctx, userID, decided, 100)
	if err != nil {
		return nil, err
	}

	// Absent profile degrades to neutral scoring, not an error.
	self, err := s.profiles.Get(ctx, userID)
	if err != nil {
		self = nil
	}

	return RankCandidates(self, pool, max), nil
}
