package models

import "time"

// AdCategory is who-seeks-whom for a personal ad. AdAll is a listing filter
// only and is never stored.
type AdCategory string

const (
	AdF4M   AdCategory = "F4M"
	AdM4F   AdCategory = "M4F"
	AdM4M   AdCategory = "M4M"
	AdF4F   AdCategory = "F4F"
	AdOther AdCategory = "Other"
	AdAll   AdCategory = "ALL"
)

// PersonalAd is a classifieds-style post scoped by country and city rather
// than live coordinates. Ads stay listed while IsActive; nothing expires them
// automatically.
type PersonalAd struct {
	ID          string     `json:"id" gorm:"primaryKey;size:36"`
	AuthorID    string     `json:"author_id" gorm:"not null;size:64;index"`
	Title       string     `json:"title" gorm:"not null"`
	Text        string     `json:"text" gorm:"not null"`
	Category    AdCategory `json:"category" gorm:"not null;size:8;index"`
	CountryCode string     `json:"country_code" gorm:"not null;size:2;index"`
	CountryName string     `json:"country_name" gorm:"not null"`
	City        string     `json:"city" gorm:"not null"`
	IsActive    bool       `json:"is_active" gorm:"not null;default:true;index"`
	CreatedAt   time.Time  `json:"created_at" gorm:"index"`
}
