package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"research-conference-api/config"
	"research-conference-api/models"
	"research-conference-api/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type assignReviewerRequest struct {
	ReviewerID int `json:"reviewer_id" binding:"required"`
}

// AssignReviewer lets a track manager assign a pre-approved reviewer to a
// research in their track.
func AssignReviewer(c *gin.Context) {
	userID, _ := getCurrentUserID(c)
	roleID, _ := getCurrentRoleID(c)

	researchID, err := strconv.Atoi(c.Param("id"))
	if err != nil || researchID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid research ID"})
		return
	}

	var req assignReviewerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

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

	svc := services.NewReviewService(nil)
	review, err := svc.AssignReviewer(&services.AssignReviewerInput{
		ResearchID: researchID,
		ReviewerID: req.ReviewerID,
		AssignedBy: userID,
	})
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Research not found"})
		case errors.Is(err, services.ErrReviewerNotApproved):
			c.JSON(http.StatusConflict, gin.H{"error": "Reviewer is not approved for this track"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign reviewer"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"review":  review,
	})
}

type submitReviewRequest struct {
	OriginalityScore       int     `json:"originality_score" binding:"required,min=1,max=10"`
	MethodologyScore       int     `json:"methodology_score" binding:"required,min=1,max=10"`
	ClarityScore           int     `json:"clarity_score" binding:"required,min=1,max=10"`
	SignificanceScore      int     `json:"significance_score" binding:"required,min=1,max=10"`
	ReferencesScore        int     `json:"references_score" binding:"required,min=1,max=10"`
	Decision               string  `json:"decision" binding:"required,oneof=accept minor_revisions major_revisions reject"`
	CommentsToAuthor       *string `json:"comments_to_author"`
	CommentsToTrackManager *string `json:"comments_to_track_manager"`
}

// SubmitReview completes the caller's pending review with scores and a
// decision.
func SubmitReview(c *gin.Context) {
	userID, _ := getCurrentUserID(c)

	reviewID, err := strconv.Atoi(c.Param("review_id"))
	if err != nil || reviewID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review ID"})
		return
	}

	var req submitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svc := services.NewReviewService(nil)
	review, err := svc.CompleteReview(&services.CompleteReviewInput{
		ReviewID:               reviewID,
		ReviewerID:             userID,
		OriginalityScore:       req.OriginalityScore,
		MethodologyScore:       req.MethodologyScore,
		ClarityScore:           req.ClarityScore,
		SignificanceScore:      req.SignificanceScore,
		ReferencesScore:        req.ReferencesScore,
		Decision:               req.Decision,
		CommentsToAuthor:       req.CommentsToAuthor,
		CommentsToTrackManager: req.CommentsToTrackManager,
	})
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		case errors.Is(err, services.ErrNotAssignedReviewer):
			c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		case errors.Is(err, services.ErrReviewAlreadyCompleted):
			c.JSON(http.StatusConflict, gin.H{"error": "Review is already completed"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit review"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"review":  review,
	})
}

// GetMyReviews lists the caller's review assignments.
func GetMyReviews(c *gin.Context) {
	userID, _ := getCurrentUserID(c)

	status := strings.TrimSpace(c.Query("status")) // pending|completed

	query := config.DB.Preload("Research", "delete_at IS NULL").
		Where("reviewer_id = ?", userID)
	switch status {
	case "pending":
		query = query.Where("is_completed = ?", false)
	case "completed":
		query = query.Where("is_completed = ?", true)
	}

	var reviews []models.Review
	if err := query.Order("assigned_at DESC").Find(&reviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"reviews": reviews,
		"total":   len(reviews),
	})
}

// GetResearchReviews lists the reviews of one research for its track
// manager or a conference-level role.
func GetResearchReviews(c *gin.Context) {
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

	if roleID == models.RoleTrackManager {
		if research.AssignedTrackManager == nil || research.AssignedTrackManager.UserID != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}
	}

	var reviews []models.Review
	if err := config.DB.Preload("Reviewer").
		Where("research_id = ?", researchID).
		Order("assigned_at ASC").
		Find(&reviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"reviews": reviews,
		"total":   len(reviews),
	})
}

type reReviewRequest struct {
	Required bool `json:"required"`
}

// FlagReReview toggles the re-review flag on a completed review.
func FlagReReview(c *gin.Context) {
	reviewID, err := strconv.Atoi(c.Param("review_id"))
	if err != nil || reviewID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review ID"})
		return
	}

	var req reReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	svc := services.NewReviewService(nil)
	if err := svc.FlagReReview(reviewID, req.Required); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		case errors.Is(err, services.ErrReviewNotCompleted):
			c.JSON(http.StatusConflict, gin.H{"error": "Review is not completed"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update review"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
