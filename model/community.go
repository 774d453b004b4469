// model/community.go
package model

import "time"

// BlogPost doubles as the notice board: Kind separates long-form posts from
// short notices.
type BlogPost struct {
	ID          string     `json:"id" gorm:"primaryKey"`
	AuthorID    string     `json:"author_id" gorm:"not null;index"`
	Kind        string     `json:"kind" gorm:"default:post"` // post, notice
	Title       string     `json:"title" gorm:"not null"`
	Body        string     `json:"body" gorm:"type:text"`
	CoverURL    string     `json:"cover_url"`
	IsPublished bool       `json:"is_published" gorm:"default:false"`
	PublishedAt *time.Time `json:"published_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type SupportTicket struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"not null;index"`
	Subject   string    `json:"subject" gorm:"not null"`
	Body      string    `json:"body" gorm:"type:text"`
	Status    string    `json:"status" gorm:"default:open"` // open, pending, closed
	Response  string    `json:"response" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EmailCampaign is authored and targeted here; delivery is handled by an
// external system that drains queued campaigns.
type EmailCampaign struct {
	ID             string     `json:"id" gorm:"primaryKey"`
	Title          string     `json:"title" gorm:"not null"`
	Subject        string     `json:"subject" gorm:"not null"`
	Body           string     `json:"body" gorm:"type:text"`
	TargetRole     string     `json:"target_role"`                 // empty targets everyone
	TargetMinLevel int        `json:"target_min_level"`            // 0 targets every level
	Status         string     `json:"status" gorm:"default:draft"` // draft, queued
	RecipientCount int        `json:"recipient_count"`
	QueuedAt       *time.Time `json:"queued_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
