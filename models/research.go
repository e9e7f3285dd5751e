package models

import "time"

// Research status values. Each status change is recorded in
// research_status_history and validated by the workflow service.
const (
	StatusSubmitted              = "submitted"
	StatusUnderInitialReview     = "under_initial_review"
	StatusAssignedForReview      = "assigned_for_review"
	StatusUnderReview            = "under_review"
	StatusUnderEvaluation        = "under_evaluation"
	StatusRequiresMinorRevisions = "requires_minor_revisions"
	StatusRequiresMajorRevisions = "requires_major_revisions"
	StatusAccepted               = "accepted"
	StatusRejected               = "rejected"
	StatusAwaitingFourthReviewer = "awaiting_fourth_reviewer"
	StatusRevisionsSubmitted     = "revisions_submitted"
	StatusRevisionsUnderReview   = "revisions_under_review"
	StatusWithdrawn              = "withdrawn"
)

// Conference tracks. Each track is overseen by one active track manager.
const (
	TrackArtificialIntelligence   = "artificial_intelligence"
	TrackSoftwareEngineering      = "software_engineering"
	TrackInformationSystems       = "information_systems"
	TrackCyberSecurity            = "cyber_security"
	TrackDataScience              = "data_science"
	TrackComputerNetworks         = "computer_networks"
	TrackHumanComputerInteraction = "human_computer_interaction"
)

// Research types accepted by the conference.
const (
	TypeOriginalResearch = "original_research"
	TypeReviewArticle    = "review_article"
	TypeCaseStudy        = "case_study"
	TypeShortPaper       = "short_paper"
)

// Submission languages.
const (
	LanguageThai    = "th"
	LanguageEnglish = "en"
)

// AllTracks lists the valid track values in display order.
var AllTracks = []string{
	TrackArtificialIntelligence,
	TrackSoftwareEngineering,
	TrackInformationSystems,
	TrackCyberSecurity,
	TrackDataScience,
	TrackComputerNetworks,
	TrackHumanComputerInteraction,
}

// IsValidTrack reports whether track is one of the conference tracks.
func IsValidTrack(track string) bool {
	for _, t := range AllTracks {
		if t == track {
			return true
		}
	}
	return false
}

type Research struct {
	ResearchID             int        `gorm:"primaryKey;column:research_id" json:"research_id"`
	Title                  string     `gorm:"column:title" json:"title"`
	TitleEn                *string    `gorm:"column:title_en" json:"title_en,omitempty"`
	Abstract               string     `gorm:"column:abstract" json:"abstract"`
	AbstractEn             *string    `gorm:"column:abstract_en" json:"abstract_en,omitempty"`
	Keywords               string     `gorm:"column:keywords" json:"keywords"`
	KeywordsEn             *string    `gorm:"column:keywords_en" json:"keywords_en,omitempty"`
	ResearchType           string     `gorm:"column:research_type" json:"research_type"`
	Language               string     `gorm:"column:language" json:"language"`
	Status                 string     `gorm:"column:status" json:"status"`
	Track                  string     `gorm:"column:track" json:"track"`
	SubmittedAt            *time.Time `gorm:"column:submitted_at" json:"submitted_at,omitempty"`
	ReviewDeadline         *time.Time `gorm:"column:review_deadline" json:"review_deadline,omitempty"`
	DecidedAt              *time.Time `gorm:"column:decided_at" json:"decided_at,omitempty"`
	RejectionReason        *string    `gorm:"column:rejection_reason" json:"rejection_reason,omitempty"`
	SubmittedByID          int        `gorm:"column:submitted_by" json:"submitted_by"`
	AssignedTrackManagerID *int       `gorm:"column:assigned_track_manager_id" json:"assigned_track_manager_id,omitempty"`
	CreateAt               time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt               time.Time  `gorm:"column:update_at" json:"update_at"`
	DeleteAt               *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	SubmittedBy          *User                  `gorm:"foreignKey:SubmittedByID" json:"submitted_by_user,omitempty"`
	AssignedTrackManager *TrackManager          `gorm:"foreignKey:AssignedTrackManagerID" json:"assigned_track_manager,omitempty"`
	Authors              []ResearchAuthor       `gorm:"foreignKey:ResearchID;constraint:OnDelete:CASCADE" json:"authors,omitempty"`
	Files                []ResearchFile         `gorm:"foreignKey:ResearchID;constraint:OnDelete:CASCADE" json:"files,omitempty"`
	Reviews              []Review               `gorm:"foreignKey:ResearchID;constraint:OnDelete:CASCADE" json:"reviews,omitempty"`
	StatusHistory        []ResearchStatusHistory `gorm:"foreignKey:ResearchID;constraint:OnDelete:CASCADE" json:"status_history,omitempty"`
}

func (Research) TableName() string {
	return "researches"
}

// IsTerminal reports whether the research has reached a final status.
func (r *Research) IsTerminal() bool {
	switch r.Status {
	case StatusAccepted, StatusRejected, StatusWithdrawn:
		return true
	}
	return false
}
