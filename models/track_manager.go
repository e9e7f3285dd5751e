package models

import "time"

// TrackManager assigns one user as the responsible manager of a track.
// At most one manager per track should be active at a time.
type TrackManager struct {
	TrackManagerID int        `gorm:"primaryKey;column:track_manager_id" json:"track_manager_id"`
	UserID         int        `gorm:"column:user_id" json:"user_id"`
	Track          string     `gorm:"column:track" json:"track"`
	IsActive       bool       `gorm:"column:is_active" json:"is_active"`
	CreateAt       time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt       *time.Time `gorm:"column:update_at" json:"update_at,omitempty"`
	DeleteAt       *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	User           *User           `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
	TrackReviewers []TrackReviewer `gorm:"foreignKey:TrackManagerID" json:"track_reviewers,omitempty"`
}

func (TrackManager) TableName() string {
	return "track_managers"
}

// TrackReviewer is a reviewer pre-approved by a track manager for one track.
// The manager/reviewer/track triple is unique.
type TrackReviewer struct {
	TrackReviewerID int        `gorm:"primaryKey;column:track_reviewer_id" json:"track_reviewer_id"`
	TrackManagerID  int        `gorm:"column:track_manager_id;uniqueIndex:uq_track_reviewer" json:"track_manager_id"`
	ReviewerID      int        `gorm:"column:reviewer_id;uniqueIndex:uq_track_reviewer" json:"reviewer_id"`
	Track           string     `gorm:"column:track;uniqueIndex:uq_track_reviewer" json:"track"`
	CreateAt        time.Time  `gorm:"column:create_at" json:"create_at"`
	DeleteAt        *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	Reviewer *User `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
}

func (TrackReviewer) TableName() string {
	return "track_reviewers"
}
