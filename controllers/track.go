package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"research-conference-api/config"
	"research-conference-api/models"
	"research-conference-api/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type reassignTrackRequest struct {
	Track string `json:"track" binding:"required"`
	Notes string `json:"notes"`
}

// ReassignTrack moves a research to another track. The whole move runs in
// one transaction inside the track service; the caller only sees success or
// a generic failure.
func ReassignTrack(c *gin.Context) {
	userID, _ := getCurrentUserID(c)
	roleID, _ := getCurrentRoleID(c)

	researchID, err := strconv.Atoi(c.Param("id"))
	if err != nil || researchID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid research ID"})
		return
	}

	var req reassignTrackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	// Track managers may only move researches assigned to them.
	if roleID == models.RoleTrackManager {
		research, err := loadResearchWithDetails(config.DB, researchID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Research not found"})
			return
		}
		if research.AssignedTrackManager == nil || research.AssignedTrackManager.UserID != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}
	}

	svc := services.NewTrackService(nil)
	if err := svc.ReassignTrack(&services.ReassignTrackInput{
		ResearchID: researchID,
		NewTrack:   strings.TrimSpace(req.Track),
		ActorID:    userID,
		Notes:      ptr(strings.TrimSpace(req.Notes)),
	}); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Research not found"})
		case errors.Is(err, services.ErrSameTrack):
			c.JSON(http.StatusConflict, gin.H{"error": "Research is already in this track"})
		case errors.Is(err, services.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{"error": "Research can no longer change track"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reassign track"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Track reassigned"})
}

// GetTrackHistory returns the append-only track trail for a research,
// gated by the same read-access predicate as the research itself.
func GetTrackHistory(c *gin.Context) {
	userID, _ := getCurrentUserID(c)
	roleID, _ := getCurrentRoleID(c)

	researchID, err := strconv.Atoi(c.Param("id"))
	if err != nil || researchID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid research ID"})
		return
	}

	research, err := loadResearchWithDetails(config.DB, researchID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Research not found"})
		return
	}
	if !services.CanAccessResearch(research, userID, roleID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Research not found"})
		return
	}

	var history []models.ResearchTrackHistory
	if err := config.DB.Where("research_id = ?", researchID).
		Order("created_at ASC").
		Find(&history).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "history": history})
}

// GetTracks lists the conference tracks with their active managers.
func GetTracks(c *gin.Context) {
	var managers []models.TrackManager
	if err := config.DB.Preload("User").
		Where("is_active = ? AND delete_at IS NULL", true).
		Find(&managers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load tracks"})
		return
	}

	byTrack := make(map[string]*models.TrackManager, len(managers))
	for i := range managers {
		byTrack[managers[i].Track] = &managers[i]
	}

	tracks := make([]gin.H, 0, len(models.AllTracks))
	for _, track := range models.AllTracks {
		entry := gin.H{"track": track}
		if m, ok := byTrack[track]; ok {
			entry["manager"] = m
		}
		tracks = append(tracks, entry)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "tracks": tracks})
}

type addTrackReviewerRequest struct {
	ReviewerID int `json:"reviewer_id" binding:"required"`
}

// AddTrackReviewer pre-approves a reviewer for the caller's track. The
// unique manager/reviewer/track index rejects duplicates.
func AddTrackReviewer(c *gin.Context) {
	userID, _ := getCurrentUserID(c)

	var req addTrackReviewerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var manager models.TrackManager
	if err := config.DB.Where("user_id = ? AND is_active = ? AND delete_at IS NULL", userID, true).
		First(&manager).Error; err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "No active track assignment"})
		return
	}

	var reviewer models.User
	if err := config.DB.Where("user_id = ? AND delete_at IS NULL", req.ReviewerID).
		First(&reviewer).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Reviewer not found"})
		return
	}
	if reviewer.RoleID != models.RoleReviewer {
		c.JSON(http.StatusConflict, gin.H{"error": "User is not a reviewer"})
		return
	}

	entry := models.TrackReviewer{
		TrackManagerID: manager.TrackManagerID,
		ReviewerID:     req.ReviewerID,
		Track:          manager.Track,
		CreateAt:       time.Now(),
	}
	if err := config.DB.Create(&entry).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Reviewer is already approved for this track"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "track_reviewer": entry})
}

// ListTrackReviewers returns the caller's approved reviewer roster.
func ListTrackReviewers(c *gin.Context) {
	userID, _ := getCurrentUserID(c)

	var manager models.TrackManager
	if err := config.DB.Where("user_id = ? AND is_active = ? AND delete_at IS NULL", userID, true).
		First(&manager).Error; err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "No active track assignment"})
		return
	}

	var reviewers []models.TrackReviewer
	if err := config.DB.Preload("Reviewer").
		Where("track_manager_id = ? AND delete_at IS NULL", manager.TrackManagerID).
		Find(&reviewers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load reviewers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"track":     manager.Track,
		"reviewers": reviewers,
	})
}

// RemoveTrackReviewer soft-deletes a roster entry.
func RemoveTrackReviewer(c *gin.Context) {
	userID, _ := getCurrentUserID(c)

	entryID, err := strconv.Atoi(c.Param("id"))
	if err != nil || entryID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return
	}

	var manager models.TrackManager
	if err := config.DB.Where("user_id = ? AND is_active = ? AND delete_at IS NULL", userID, true).
		First(&manager).Error; err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "No active track assignment"})
		return
	}

	result := config.DB.Model(&models.TrackReviewer{}).
		Where("track_reviewer_id = ? AND track_manager_id = ? AND delete_at IS NULL", entryID, manager.TrackManagerID).
		Update("delete_at", time.Now())
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove reviewer"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Reviewer entry not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
