package services

import (
	"errors"
	"fmt"
	"time"

	"research-conference-api/config"
	"research-conference-api/models"

	"gorm.io/gorm"
)

// ErrInvalidTransition is returned when a status change is not allowed by the
// transition table.
var ErrInvalidTransition = errors.New("invalid status transition")

// validTransitions is the single authority on legal status moves. Every
// status write goes through Transition; handlers never update the column
// directly.
var validTransitions = map[string][]string{
	models.StatusSubmitted:              {models.StatusUnderInitialReview},
	models.StatusUnderInitialReview:     {models.StatusAssignedForReview, models.StatusRejected},
	models.StatusAssignedForReview:      {models.StatusUnderReview},
	models.StatusUnderReview:            {models.StatusUnderEvaluation},
	models.StatusUnderEvaluation: {
		models.StatusRequiresMinorRevisions,
		models.StatusRequiresMajorRevisions,
		models.StatusAccepted,
		models.StatusRejected,
		models.StatusAwaitingFourthReviewer,
	},
	models.StatusAwaitingFourthReviewer: {models.StatusUnderEvaluation},
	models.StatusRequiresMinorRevisions: {models.StatusRevisionsSubmitted},
	models.StatusRequiresMajorRevisions: {models.StatusRevisionsSubmitted},
	models.StatusRevisionsSubmitted:     {models.StatusRevisionsUnderReview},
	models.StatusRevisionsUnderReview:   {models.StatusAccepted, models.StatusRejected},
}

// A track reassignment restarts the review pipeline, so assigned_for_review
// is additionally reachable from the states where a manager may still move
// the research between tracks.
var reassignableStatuses = map[string]bool{
	models.StatusSubmitted:          true,
	models.StatusUnderInitialReview: true,
	models.StatusAssignedForReview:  true,
	models.StatusUnderReview:        true,
}

type WorkflowService struct {
	db *gorm.DB
}

func NewWorkflowService(db *gorm.DB) *WorkflowService {
	if db == nil {
		db = config.DB
	}
	return &WorkflowService{db: db}
}

// CanTransition reports whether moving from one status to another is legal.
// Withdrawal is allowed from any non-terminal status.
func CanTransition(from, to string) bool {
	if to == models.StatusWithdrawn {
		switch from {
		case models.StatusAccepted, models.StatusRejected, models.StatusWithdrawn:
			return false
		}
		return true
	}
	if to == models.StatusAssignedForReview && reassignableStatuses[from] {
		return true
	}
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition validates the move, writes the new status onto the research row
// and appends the status-history record. It must run inside the caller's
// transaction when the caller performs further writes.
func (s *WorkflowService) Transition(tx *gorm.DB, research *models.Research, newStatus string, actorID int, reason, notes *string) error {
	if tx == nil {
		tx = s.db
	}

	if !CanTransition(research.Status, newStatus) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, research.Status, newStatus)
	}

	now := time.Now()
	oldStatus := research.Status

	updates := map[string]interface{}{
		"status":    newStatus,
		"update_at": now,
	}
	switch newStatus {
	case models.StatusAccepted, models.StatusRejected:
		updates["decided_at"] = now
	}

	if err := tx.Model(&models.Research{}).
		Where("research_id = ?", research.ResearchID).
		Updates(updates).Error; err != nil {
		return err
	}

	history := models.ResearchStatusHistory{
		ResearchID: research.ResearchID,
		OldStatus:  &oldStatus,
		NewStatus:  newStatus,
		ChangedBy:  actorID,
		Reason:     reason,
		Notes:      notes,
		CreatedAt:  now,
	}
	if err := tx.Create(&history).Error; err != nil {
		return err
	}

	research.Status = newStatus
	research.UpdateAt = now
	if _, ok := updates["decided_at"]; ok {
		research.DecidedAt = &now
	}
	return nil
}
