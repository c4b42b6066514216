package models

import (
	"sort"
	"strings"
	"time"
)

type Verdict string

const (
	VerdictLike      Verdict = "like"
	VerdictPass      Verdict = "pass"
	VerdictSuperLike Verdict = "superlike"
)

// SwipeDecision is a one-directional decision of actor about target.
// At most one row exists per ordered (actor, target) pair; the first verdict
// recorded for a pair is kept and later submissions are no-ops, so a pass
// can never silently replace an earlier super-like.
type SwipeDecision struct {
	ActorID   string    `json:"actor_id" gorm:"primaryKey;size:64"`
	TargetID  string    `json:"target_id" gorm:"primaryKey;size:64"`
	Verdict   Verdict   `json:"verdict" gorm:"not null;size:16"`
	CreatedAt time.Time `json:"created_at"`
}

// QuotaSnapshot tracks per-user daily like/super-like consumption. The date
// field determines validity: a stored date other than today means all
// counters are zero. Reset happens lazily on the next swipe, never by a job.
type QuotaSnapshot struct {
	UserID     string    `json:"user_id" gorm:"primaryKey;size:64"`
	Date       string    `json:"date" gorm:"not null;size:10"` // UTC day, YYYY-MM-DD
	Likes      int       `json:"likes" gorm:"not null;default:0"`
	SuperLikes int       `json:"superlikes" gorm:"not null;default:0"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// PairID derives the deterministic identifier shared by a Match and its
// Conversation: the two member ids sorted and joined. Both sides of a mutual
// like compute the same id without coordination, which is what makes match
// creation idempotent by construction.
func PairID(a, b string) string {
	pair := []string{a, b}
	sort.Strings(pair)
	return strings.Join(pair, "_")
}

// Match records mutual interest between two users. Created only by the
// matchmaker, never by direct user action. UserAID < UserBID always.
type Match struct {
	ID        string    `json:"id" gorm:"primaryKey;size:129"`
	UserAID   string    `json:"user_a_id" gorm:"not null;size:64;index"`
	UserBID   string    `json:"user_b_id" gorm:"not null;size:64;index"`
	CreatedAt time.Time `json:"created_at"`
}

// Members returns both member ids.
func (m *Match) Members() []string { return []string{m.UserAID, m.UserBID} }

// Other returns the member that is not uid.
func (m *Match) Other(uid string) string {
	if m.UserAID == uid {
		return m.UserBID
	}
	return m.UserAID
}

// Conversation is the message thread created atomically with its Match.
// Its id equals the match id.
type Conversation struct {
	ID        string    `json:"id" gorm:"primaryKey;size:129"`
	UserAID   string    `json:"user_a_id" gorm:"not null;size:64;index"`
	UserBID   string    `json:"user_b_id" gorm:"not null;size:64;index"`
	LastText  string    `json:"last_text"`
	LastAt    time.Time `json:"last_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Message struct {
	ID             string    `json:"id" gorm:"primaryKey;size:36"`
	ConversationID string    `json:"conversation_id" gorm:"not null;size:129;index"`
	AuthorID       string    `json:"author_id" gorm:"not null;size:64"`
	Text           string    `json:"text" gorm:"not null"`
	CreatedAt      time.Time `json:"created_at" gorm:"index"`
}
