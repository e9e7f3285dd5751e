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
	"research-conference-api/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Abstract length limits, in words.
const (
	abstractMinWords = 100
	abstractMaxWords = 500
)

type authorPayload struct {
	FirstName       string  `json:"first_name" binding:"required"`
	LastName        string  `json:"last_name" binding:"required"`
	NameEn          *string `json:"name_en"`
	Email           string  `json:"email" binding:"required,email"`
	Institution     *string `json:"institution"`
	Degree          *string `json:"degree"`
	ORCID           *string `json:"orcid"`
	IsCorresponding bool    `json:"is_corresponding"`
	UserID          *int    `json:"user_id"`
}

type createResearchRequest struct {
	Title        string          `json:"title" binding:"required"`
	TitleEn      *string         `json:"title_en"`
	Abstract     string          `json:"abstract" binding:"required"`
	AbstractEn   *string         `json:"abstract_en"`
	Keywords     string          `json:"keywords" binding:"required"`
	KeywordsEn   *string         `json:"keywords_en"`
	ResearchType string          `json:"research_type" binding:"required,oneof=original_research review_article case_study short_paper"`
	Language     string          `json:"language" binding:"required,oneof=th en"`
	Track        string          `json:"track" binding:"required"`
	Authors      []authorPayload `json:"authors" binding:"required,min=1,dive"`
}

// CreateResearch submits a new paper. The submitter, authors and the initial
// status-history row are written in one transaction.
func CreateResearch(c *gin.Context) {
	userID, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req createResearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !models.IsValidTrack(req.Track) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown track"})
		return
	}
	if ok, msg := utils.ValidateAbstractWordCount(req.Abstract, abstractMinWords, abstractMaxWords); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	for _, a := range req.Authors {
		if a.ORCID != nil && *a.ORCID != "" && !utils.ValidateORCID(*a.ORCID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid author ORCID format"})
			return
		}
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	now := time.Now()
	research := models.Research{
		Title:         utils.SanitizeInput(req.Title),
		TitleEn:       req.TitleEn,
		Abstract:      utils.SanitizeInput(req.Abstract),
		AbstractEn:    req.AbstractEn,
		Keywords:      utils.SanitizeInput(req.Keywords),
		KeywordsEn:    req.KeywordsEn,
		ResearchType:  req.ResearchType,
		Language:      req.Language,
		Status:        models.StatusSubmitted,
		Track:         req.Track,
		SubmittedAt:   &now,
		SubmittedByID: userID,
		CreateAt:      now,
		UpdateAt:      now,
	}
	if err := tx.Create(&research).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create research"})
		return
	}

	for i, a := range req.Authors {
		author := models.ResearchAuthor{
			ResearchID:      research.ResearchID,
			FirstName:       utils.SanitizeInput(a.FirstName),
			LastName:        utils.SanitizeInput(a.LastName),
			NameEn:          a.NameEn,
			Email:           strings.ToLower(strings.TrimSpace(a.Email)),
			Institution:     a.Institution,
			Degree:          a.Degree,
			ORCID:           a.ORCID,
			AuthorOrder:     i + 1,
			IsCorresponding: a.IsCorresponding,
			UserID:          a.UserID,
			CreateAt:        now,
		}
		if err := tx.Create(&author).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save authors"})
			return
		}
	}

	history := models.ResearchStatusHistory{
		ResearchID: research.ResearchID,
		NewStatus:  models.StatusSubmitted,
		ChangedBy:  userID,
		CreatedAt:  now,
	}
	if err := tx.Create(&history).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log status history"})
		return
	}

	notifications := services.NewNotificationService(tx)
	var owner models.User
	if err := tx.Where("user_id = ? AND delete_at IS NULL", userID).First(&owner).Error; err == nil {
		rid := uint(research.ResearchID)
		title := "ได้รับบทความของท่านแล้ว"
		message := "บทความ \"" + research.Title + "\" เข้าสู่ขั้นตอนการพิจารณาเบื้องต้น"
		if err := notifications.NotifyWithEmail(tx, &owner, title, message, "success", &rid); err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create research"})
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create research"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"research": research,
	})
}

// GetResearch returns one research, gated by the read-access predicate.
// Denied callers get 404 so the endpoint does not leak existence.
func GetResearch(c *gin.Context) {
	userID, _ := getCurrentUserID(c)
	roleID, _ := getCurrentRoleID(c)

	researchID, err := strconv.Atoi(c.Param("id"))
	if err != nil || researchID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid research ID"})
		return
	}

	research, err := loadResearchWithDetails(config.DB, researchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Research not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load research"})
		return
	}

	if !services.CanAccessResearch(research, userID, roleID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Research not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"research": research,
	})
}

type updateResearchRequest struct {
	Title      *string `json:"title"`
	TitleEn    *string `json:"title_en"`
	Abstract   *string `json:"abstract"`
	AbstractEn *string `json:"abstract_en"`
	Keywords   *string `json:"keywords"`
	KeywordsEn *string `json:"keywords_en"`
}

// Statuses in which the submitter may still edit the manuscript metadata.
var editableStatuses = map[string]bool{
	models.StatusSubmitted:              true,
	models.StatusRequiresMinorRevisions: true,
	models.StatusRequiresMajorRevisions: true,
}

// UpdateResearch lets the submitter edit fields while the research is still
// editable.
func UpdateResearch(c *gin.Context) {
	userID, _ := getCurrentUserID(c)

	researchID, err := strconv.Atoi(c.Param("id"))
	if err != nil || researchID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid research ID"})
		return
	}

	var req updateResearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var research models.Research
	if err := config.DB.Where("research_id = ? AND delete_at IS NULL", researchID).
		First(&research).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Research not found"})
		return
	}
	if research.SubmittedByID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Research not found"})
		return
	}
	if !editableStatuses[research.Status] {
		c.JSON(http.StatusConflict, gin.H{"error": "Research can no longer be edited"})
		return
	}

	updates := map[string]interface{}{"update_at": time.Now()}
	if req.Title != nil {
		updates["title"] = utils.SanitizeInput(*req.Title)
	}
	if req.TitleEn != nil {
		updates["title_en"] = *req.TitleEn
	}
	if req.Abstract != nil {
		if ok, msg := utils.ValidateAbstractWordCount(*req.Abstract, abstractMinWords, abstractMaxWords); !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": msg})
			return
		}
		updates["abstract"] = utils.SanitizeInput(*req.Abstract)
	}
	if req.AbstractEn != nil {
		updates["abstract_en"] = *req.AbstractEn
	}
	if req.Keywords != nil {
		updates["keywords"] = utils.SanitizeInput(*req.Keywords)
	}
	if req.KeywordsEn != nil {
		updates["keywords_en"] = *req.KeywordsEn
	}

	if err := config.DB.Model(&models.Research{}).
		Where("research_id = ?", research.ResearchID).
		Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update research"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Research updated"})
}

// SubmitRevisions moves a research that required revisions back into the
// pipeline after the submitter uploaded the revised manuscript.
func SubmitRevisions(c *gin.Context) {
	userID, _ := getCurrentUserID(c)

	researchID, err := strconv.Atoi(c.Param("id"))
	if err != nil || researchID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid research ID"})
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var research models.Research
	if err := tx.Where("research_id = ? AND delete_at IS NULL", researchID).
		First(&research).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusNotFound, gin.H{"error": "Research not found"})
		return
	}
	if research.SubmittedByID != userID {
		tx.Rollback()
		c.JSON(http.StatusNotFound, gin.H{"error": "Research not found"})
		return
	}

	workflow := services.NewWorkflowService(tx)
	if err := workflow.Transition(tx, &research, models.StatusRevisionsSubmitted, userID, nil, nil); err != nil {
		tx.Rollback()
		if errors.Is(err, services.ErrInvalidTransition) {
			c.JSON(http.StatusConflict, gin.H{"error": "Research is not awaiting revisions"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit revisions"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit revisions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "status": research.Status})
}

type withdrawRequest struct {
	Reason string `json:"reason"`
}

// WithdrawResearch soft-deletes the research and records the withdrawn
// status. The row stays in place for audit and restore.
func WithdrawResearch(c *gin.Context) {
	userID, _ := getCurrentUserID(c)

	researchID, err := strconv.Atoi(c.Param("id"))
	if err != nil || researchID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid research ID"})
		return
	}

	var req withdrawRequest
	_ = c.ShouldBindJSON(&req)

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var research models.Research
	if err := tx.Where("research_id = ? AND delete_at IS NULL", researchID).
		First(&research).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusNotFound, gin.H{"error": "Research not found"})
		return
	}
	if research.SubmittedByID != userID {
		tx.Rollback()
		c.JSON(http.StatusNotFound, gin.H{"error": "Research not found"})
		return
	}

	workflow := services.NewWorkflowService(tx)
	reason := strings.TrimSpace(req.Reason)
	if err := workflow.Transition(tx, &research, models.StatusWithdrawn, userID, ptr(reason), nil); err != nil {
		tx.Rollback()
		if errors.Is(err, services.ErrInvalidTransition) {
			c.JSON(http.StatusConflict, gin.H{"error": "Research can no longer be withdrawn"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to withdraw research"})
		return
	}

	if err := tx.Model(&models.Research{}).
		Where("research_id = ?", research.ResearchID).
		Update("delete_at", time.Now()).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to withdraw research"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to withdraw research"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Research withdrawn"})
}

type statusChangeRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
	Notes  string `json:"notes"`
}

// ChangeResearchStatus is the manager-facing status endpoint. Every move
// goes through the workflow transition table; illegal moves return 409.
func ChangeResearchStatus(c *gin.Context) {
	userID, _ := getCurrentUserID(c)
	roleID, _ := getCurrentRoleID(c)

	researchID, err := strconv.Atoi(c.Param("id"))
	if err != nil || researchID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid research ID"})
		return
	}

	var req statusChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	research, err := loadResearchWithDetails(tx, researchID)
	if err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Research not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load research"})
		return
	}

	// Track managers may only act on researches assigned to them.
	if roleID == models.RoleTrackManager {
		if research.AssignedTrackManager == nil || research.AssignedTrackManager.UserID != userID {
			tx.Rollback()
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}
	}

	oldStatus := research.Status
	workflow := services.NewWorkflowService(tx)
	if err := workflow.Transition(tx, research, req.Status, userID, ptr(strings.TrimSpace(req.Reason)), ptr(strings.TrimSpace(req.Notes))); err != nil {
		tx.Rollback()
		if errors.Is(err, services.ErrInvalidTransition) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change status"})
		return
	}

	if req.Status == models.StatusRejected && strings.TrimSpace(req.Reason) != "" {
		if err := tx.Model(&models.Research{}).
			Where("research_id = ?", research.ResearchID).
			Update("rejection_reason", strings.TrimSpace(req.Reason)).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change status"})
			return
		}
	}

	if err := writeAuditLog(tx, c, userID, "status_change", "research", research.ResearchID,
		map[string]interface{}{"old_status": oldStatus, "new_status": req.Status, "reason": req.Reason},
		"Research status changed"); err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write audit log"})
		return
	}

	notifications := services.NewNotificationService(tx)
	var owner models.User
	if err := tx.Where("user_id = ? AND delete_at IS NULL", research.SubmittedByID).First(&owner).Error; err == nil {
		rid := uint(research.ResearchID)
		title := "สถานะบทความ #" + strconv.Itoa(research.ResearchID) + " มีการเปลี่ยนแปลง"
		message := "บทความ \"" + research.Title + "\" เปลี่ยนสถานะเป็น " + req.Status
		if err := notifications.NotifyWithEmail(tx, &owner, title, message, "info", &rid); err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change status"})
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"status":  req.Status,
	})
}

// GetResearchStatusHistory returns the append-only status trail.
func GetResearchStatusHistory(c *gin.Context) {
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

	var history []models.ResearchStatusHistory
	if err := config.DB.Where("research_id = ?", researchID).
		Order("created_at ASC").
		Find(&history).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "history": history})
}
