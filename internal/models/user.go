package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// StringList is an order-preserving list of strings stored as a JSON column.
// Used for interests, intents and photo references; no uniqueness is
// enforced.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type for StringList: %T", value)
	}
}

type Mood string

const (
	MoodHappy   Mood = "happy"
	MoodChill   Mood = "chill"
	MoodActive  Mood = "active"
	MoodSerious Mood = "serious"
	MoodParty   Mood = "party"
)

type Goal string

const (
	GoalDating    Goal = "dating"
	GoalFriends   Goal = "friends"
	GoalChat      Goal = "chat"
	GoalLongTerm  Goal = "long_term"
	GoalShortTerm Goal = "short_term"
)

type User struct {
	ID           string     `json:"id" gorm:"primaryKey;size:64"`
	Email        string     `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string     `json:"-" gorm:"not null"`
	DisplayName  string     `json:"display_name" gorm:"not null"`
	BirthDate    time.Time  `json:"birth_date" gorm:"not null"`
	Gender       string     `json:"gender" gorm:"not null"` // male, female, other
	Bio          *string    `json:"bio,omitempty"`
	Interests    StringList `json:"interests" gorm:"type:text"`
	Intents      StringList `json:"intents" gorm:"type:text"`
	Photos       StringList `json:"photos" gorm:"type:text"`
	Mood         *Mood      `json:"mood,omitempty" gorm:"size:16"`
	Goal         *Goal      `json:"goal,omitempty" gorm:"size:16"`
	AdultOptIn   bool       `json:"adult_opt_in" gorm:"default:false"`
	MysteryMode  bool       `json:"mystery_mode" gorm:"default:false"`
	Latitude     *float64   `json:"latitude,omitempty"`
	Longitude    *float64   `json:"longitude,omitempty"`
	Geohash      *string    `json:"geohash,omitempty" gorm:"size:12;index"`
	PushToken    *string    `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// HasCoords reports whether the user has a usable location.
func (u *User) HasCoords() bool {
	return u.Latitude != nil && u.Longitude != nil
}

type BlockedUser struct {
	BlockerID string    `json:"blocker_id" gorm:"primaryKey;size:64"`
	BlockedID string    `json:"blocked_id" gorm:"primaryKey;size:64"`
	CreatedAt time.Time `json:"created_at"`
}

type Report struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	ReporterID  string    `json:"reporter_id" gorm:"not null;size:64"`
	ReportedID  string    `json:"reported_id" gorm:"not null;size:64"`
	Reason      string    `json:"reason" gorm:"not null"`
	Description *string   `json:"description,omitempty"`
	Status      string    `json:"status" gorm:"default:pending"` // pending, reviewed, resolved, dismissed
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
