package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"research-conference-api/config"
	"research-conference-api/models"

	"gorm.io/gorm"
)

var ErrSameTrack = errors.New("research is already in the requested track")

type TrackService struct {
	db            *gorm.DB
	workflow      *WorkflowService
	notifications *NotificationService
}

func NewTrackService(db *gorm.DB) *TrackService {
	if db == nil {
		db = config.DB
	}
	return &TrackService{
		db:            db,
		workflow:      NewWorkflowService(db),
		notifications: NewNotificationService(db),
	}
}

type ReassignTrackInput struct {
	ResearchID int
	NewTrack   string
	ActorID    int
	Notes      *string
}

// ReassignTrack moves a research to another track inside one transaction:
// write the new track, bind the new track's active manager when one exists,
// append the track-history row and notify the people involved. Without an
// active manager the research keeps its previous manager binding unset and
// only the history row and submitter notification are written.
func (s *TrackService) ReassignTrack(input *ReassignTrackInput) error {
	if input == nil {
		return errors.New("input is nil")
	}
	if !models.IsValidTrack(input.NewTrack) {
		return fmt.Errorf("unknown track %q", input.NewTrack)
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var research models.Research
	if err := tx.Preload("Authors").
		Where("research_id = ? AND delete_at IS NULL", input.ResearchID).
		First(&research).Error; err != nil {
		tx.Rollback()
		return err
	}

	oldTrack := research.Track
	if oldTrack == input.NewTrack {
		tx.Rollback()
		return ErrSameTrack
	}

	now := time.Now()
	updates := map[string]interface{}{
		"track":     input.NewTrack,
		"update_at": now,
	}

	var manager models.TrackManager
	managerFound := true
	if err := tx.Preload("User").
		Where("track = ? AND is_active = ? AND delete_at IS NULL", input.NewTrack, true).
		First(&manager).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			tx.Rollback()
			return err
		}
		managerFound = false
		log.Printf("no active track manager for track %s, research %d left unassigned", input.NewTrack, research.ResearchID)
	}

	if managerFound {
		updates["assigned_track_manager_id"] = manager.TrackManagerID
	}

	if err := tx.Model(&models.Research{}).
		Where("research_id = ?", research.ResearchID).
		Updates(updates).Error; err != nil {
		tx.Rollback()
		return err
	}
	research.Track = input.NewTrack
	if managerFound {
		id := manager.TrackManagerID
		research.AssignedTrackManagerID = &id
	}

	if managerFound && research.Status != models.StatusAssignedForReview {
		if err := s.workflow.Transition(tx, &research, models.StatusAssignedForReview, input.ActorID, nil, input.Notes); err != nil {
			tx.Rollback()
			return err
		}
	}

	history := models.ResearchTrackHistory{
		ResearchID: research.ResearchID,
		FromTrack:  &oldTrack,
		ToTrack:    input.NewTrack,
		ChangedBy:  input.ActorID,
		Notes:      input.Notes,
		CreatedAt:  now,
	}
	if err := tx.Create(&history).Error; err != nil {
		tx.Rollback()
		return err
	}

	if managerFound {
		if err := s.notifications.NotifyTrackManagerAssigned(tx, &manager, &research); err != nil {
			tx.Rollback()
			return err
		}
	}
	if err := s.notifications.NotifyTrackChange(tx, &research, oldTrack, input.NewTrack); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
