package models

import "time"

type RoomKind string

const (
	RoomWork RoomKind = "work"
	RoomBar  RoomKind = "bar"
	RoomCafe RoomKind = "cafe"
	RoomGym  RoomKind = "gym"
	RoomPark RoomKind = "park"
	RoomHome RoomKind = "home"
)

// Room is a synthetic chat scope shared by everyone whose location hashes to
// the same truncated geohash cell. Its id is a pure function of kind and
// coordinates, so independent clients in the same physical cell converge on
// the same room without any lobby service.
type Room struct {
	ID           string    `json:"id" gorm:"primaryKey;size:32"`
	Kind         RoomKind  `json:"kind" gorm:"not null;size:16"`
	Title        string    `json:"title" gorm:"not null"`
	Latitude     float64   `json:"latitude" gorm:"not null"`
	Longitude    float64   `json:"longitude" gorm:"not null"`
	Geohash      string    `json:"geohash" gorm:"not null;size:12"`
	Precision    int       `json:"precision" gorm:"not null"`
	RadiusM      int       `json:"radius_m" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
	LastActiveAt time.Time `json:"last_active_at"`
}

// RoomMember is an implicit presence record: a member counts as present only
// while LastSeen falls inside the presence window. No leave events exist.
type RoomMember struct {
	RoomID   string    `json:"room_id" gorm:"primaryKey;size:32"`
	UserID   string    `json:"user_id" gorm:"primaryKey;size:64"`
	Nickname string    `json:"nickname" gorm:"not null"`
	LastSeen time.Time `json:"last_seen" gorm:"index"`
}

type RoomMessage struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	RoomID    string    `json:"room_id" gorm:"not null;size:32;index"`
	UserID    string    `json:"user_id" gorm:"not null;size:64"`
	Nickname  string    `json:"nickname" gorm:"not null"`
	Text      string    `json:"text" gorm:"not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

type NowMood string

const (
	NowChill NowMood = "chill"
	NowTalk  NowMood = "talk"
	NowDrink NowMood = "drink"
	NowWalk  NowMood = "walk"
	NowFun   NowMood = "fun"
	NowOther NowMood = "other"
)

// NowPost is a short "available right now" announcement scoped to a coarse
// geohash region; readers filter by exact distance client-side.
type NowPost struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	UserID    string    `json:"user_id" gorm:"not null;size:64"`
	Nickname  string    `json:"nickname" gorm:"not null"`
	Text      string    `json:"text" gorm:"not null"`
	Mood      NowMood   `json:"mood" gorm:"not null;size:16"`
	Region    string    `json:"region" gorm:"not null;size:8;index"`
	Latitude  *float64  `json:"latitude,omitempty"`
	Longitude *float64  `json:"longitude,omitempty"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}
