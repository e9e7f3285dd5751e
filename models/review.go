package models

import "time"

// Reviewer decisions.
const (
	DecisionAccept         = "accept"
	DecisionMinorRevisions = "minor_revisions"
	DecisionMajorRevisions = "major_revisions"
	DecisionReject         = "reject"
)

// Review is one reviewer's assessment of a research. The five component
// scores are integers in [1,10]; OverallScore is always the weighted sum of
// the components and is recomputed on every write, never set directly.
// After completion the review is immutable except for the re-review flag.
type Review struct {
	ReviewID               int        `gorm:"primaryKey;column:review_id" json:"review_id"`
	ResearchID             int        `gorm:"column:research_id;uniqueIndex:uq_review_research_reviewer" json:"research_id"`
	ReviewerID             int        `gorm:"column:reviewer_id;uniqueIndex:uq_review_research_reviewer" json:"reviewer_id"`
	OriginalityScore       *int       `gorm:"column:originality_score" json:"originality_score,omitempty"`
	MethodologyScore       *int       `gorm:"column:methodology_score" json:"methodology_score,omitempty"`
	ClarityScore           *int       `gorm:"column:clarity_score" json:"clarity_score,omitempty"`
	SignificanceScore      *int       `gorm:"column:significance_score" json:"significance_score,omitempty"`
	ReferencesScore        *int       `gorm:"column:references_score" json:"references_score,omitempty"`
	OverallScore           *float64   `gorm:"column:overall_score;type:decimal(4,2)" json:"overall_score,omitempty"`
	Decision               *string    `gorm:"column:decision" json:"decision,omitempty"`
	CommentsToAuthor       *string    `gorm:"column:comments_to_author" json:"comments_to_author,omitempty"`
	CommentsToTrackManager *string    `gorm:"column:comments_to_track_manager" json:"comments_to_track_manager,omitempty"`
	AssignedAt             time.Time  `gorm:"column:assigned_at" json:"assigned_at"`
	Deadline               *time.Time `gorm:"column:deadline" json:"deadline,omitempty"`
	CompletedAt            *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	IsCompleted            bool       `gorm:"column:is_completed" json:"is_completed"`
	RequiresReReview       bool       `gorm:"column:requires_re_review" json:"requires_re_review"`
	ReminderSentAt         *time.Time `gorm:"column:reminder_sent_at" json:"-"`
	CreateAt               time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt               *time.Time `gorm:"column:update_at" json:"update_at,omitempty"`

	// Relations
	Research *Research `gorm:"foreignKey:ResearchID" json:"research,omitempty"`
	Reviewer *User     `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
}

func (Review) TableName() string {
	return "reviews"
}

// IsValidDecision reports whether decision is one of the reviewer decisions.
func IsValidDecision(decision string) bool {
	switch decision {
	case DecisionAccept, DecisionMinorRevisions, DecisionMajorRevisions, DecisionReject:
		return true
	}
	return false
}
