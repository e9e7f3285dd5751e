package models

import "time"

// ResearchStatusHistory tracks historical status changes for researches.
// Rows are append-only.
type ResearchStatusHistory struct {
	HistoryID  int       `gorm:"primaryKey;column:history_id" json:"history_id"`
	ResearchID int       `gorm:"column:research_id" json:"research_id"`
	OldStatus  *string   `gorm:"column:old_status" json:"old_status"`
	NewStatus  string    `gorm:"column:new_status" json:"new_status"`
	ChangedBy  int       `gorm:"column:changed_by" json:"changed_by"`
	Reason     *string   `gorm:"column:reason" json:"reason"`
	Notes      *string   `gorm:"column:notes" json:"notes"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
}

func (ResearchStatusHistory) TableName() string {
	return "research_status_history"
}

// ResearchTrackHistory tracks track (re)assignments. Rows are append-only.
type ResearchTrackHistory struct {
	HistoryID  int       `gorm:"primaryKey;column:history_id" json:"history_id"`
	ResearchID int       `gorm:"column:research_id" json:"research_id"`
	FromTrack  *string   `gorm:"column:from_track" json:"from_track"`
	ToTrack    string    `gorm:"column:to_track" json:"to_track"`
	ChangedBy  int       `gorm:"column:changed_by" json:"changed_by"`
	Notes      *string   `gorm:"column:notes" json:"notes"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
}

func (ResearchTrackHistory) TableName() string {
	return "research_track_history"
}
