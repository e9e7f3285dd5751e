package services

import (
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"strconv"
	"time"

	"research-conference-api/config"
	"research-conference-api/models"

	"gorm.io/gorm"
)

// Weights of the five review criteria. They sum to 1.0, so the overall
// score stays inside [1,10] for component scores in [1,10].
const (
	WeightOriginality  = 0.20
	WeightMethodology  = 0.25
	WeightClarity      = 0.20
	WeightSignificance = 0.20
	WeightReferences   = 0.15
)

var (
	ErrReviewAlreadyCompleted = errors.New("review is already completed")
	ErrReviewNotCompleted     = errors.New("review is not completed yet")
	ErrNotAssignedReviewer    = errors.New("user is not the assigned reviewer")
	ErrReviewerNotApproved    = errors.New("reviewer is not approved for this track")
)

// ComputeOverallScore returns the weighted aggregate of the five component
// scores, rounded to two decimals for the decimal(4,2) column.
func ComputeOverallScore(originality, methodology, clarity, significance, references int) float64 {
	sum := float64(originality)*WeightOriginality +
		float64(methodology)*WeightMethodology +
		float64(clarity)*WeightClarity +
		float64(significance)*WeightSignificance +
		float64(references)*WeightReferences
	return math.Round(sum*100) / 100
}

type ReviewService struct {
	db            *gorm.DB
	workflow      *WorkflowService
	notifications *NotificationService
	threshold     int
	deadlineDays  int
}

func NewReviewService(db *gorm.DB) *ReviewService {
	if db == nil {
		db = config.DB
	}
	threshold, _ := strconv.Atoi(os.Getenv("REVIEW_COMPLETION_THRESHOLD"))
	if threshold <= 0 {
		threshold = 3
	}
	deadlineDays, _ := strconv.Atoi(os.Getenv("REVIEW_DEADLINE_DAYS"))
	if deadlineDays <= 0 {
		deadlineDays = 21
	}
	return &ReviewService{
		db:            db,
		workflow:      NewWorkflowService(db),
		notifications: NewNotificationService(db),
		threshold:     threshold,
		deadlineDays:  deadlineDays,
	}
}

type AssignReviewerInput struct {
	ResearchID int
	ReviewerID int
	AssignedBy int
}

// AssignReviewer creates a pending review for a reviewer pre-approved on the
// research's track and moves the research into under_review on the first
// assignment.
func (s *ReviewService) AssignReviewer(input *AssignReviewerInput) (*models.Review, error) {
	if input == nil {
		return nil, errors.New("input is nil")
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var research models.Research
	if err := tx.Where("research_id = ? AND delete_at IS NULL", input.ResearchID).
		First(&research).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	var approved int64
	if err := tx.Model(&models.TrackReviewer{}).
		Where("reviewer_id = ? AND track = ? AND delete_at IS NULL", input.ReviewerID, research.Track).
		Count(&approved).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if approved == 0 {
		tx.Rollback()
		return nil, ErrReviewerNotApproved
	}

	now := time.Now()
	deadline := now.AddDate(0, 0, s.deadlineDays)
	review := models.Review{
		ResearchID: input.ResearchID,
		ReviewerID: input.ReviewerID,
		AssignedAt: now,
		Deadline:   &deadline,
		CreateAt:   now,
	}
	if err := tx.Create(&review).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if research.Status == models.StatusAssignedForReview {
		if err := s.workflow.Transition(tx, &research, models.StatusUnderReview, input.AssignedBy, nil, nil); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	var reviewer models.User
	if err := tx.Where("user_id = ? AND delete_at IS NULL", input.ReviewerID).First(&reviewer).Error; err == nil {
		rid := uint(research.ResearchID)
		title := fmt.Sprintf("ได้รับมอบหมายให้ประเมินบทความ #%d", research.ResearchID)
		message := fmt.Sprintf("บทความ \"%s\" กำหนดส่งผลประเมินภายใน %s", research.Title, deadline.Format("02/01/2006"))
		if err := s.notifications.NotifyWithEmail(tx, &reviewer, title, message, "info", &rid); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &review, nil
}

type CompleteReviewInput struct {
	ReviewID               int
	ReviewerID             int
	OriginalityScore       int
	MethodologyScore       int
	ClarityScore           int
	SignificanceScore      int
	ReferencesScore        int
	Decision               string
	CommentsToAuthor       *string
	CommentsToTrackManager *string
}

// CompleteReview stores the scores and decision, derives the overall score,
// marks the review completed and advances the research to under_evaluation
// once enough reviews are in. A missing research row skips the status
// advancement without failing the review save.
func (s *ReviewService) CompleteReview(input *CompleteReviewInput) (*models.Review, error) {
	if input == nil {
		return nil, errors.New("input is nil")
	}
	if !models.IsValidDecision(input.Decision) {
		return nil, fmt.Errorf("unknown decision %q", input.Decision)
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var review models.Review
	if err := tx.Where("review_id = ?", input.ReviewID).First(&review).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if review.ReviewerID != input.ReviewerID {
		tx.Rollback()
		return nil, ErrNotAssignedReviewer
	}
	if review.IsCompleted {
		tx.Rollback()
		return nil, ErrReviewAlreadyCompleted
	}

	now := time.Now()
	overall := ComputeOverallScore(
		input.OriginalityScore,
		input.MethodologyScore,
		input.ClarityScore,
		input.SignificanceScore,
		input.ReferencesScore,
	)

	updates := map[string]interface{}{
		"originality_score":         input.OriginalityScore,
		"methodology_score":         input.MethodologyScore,
		"clarity_score":             input.ClarityScore,
		"significance_score":        input.SignificanceScore,
		"references_score":          input.ReferencesScore,
		"overall_score":             overall,
		"decision":                  input.Decision,
		"comments_to_author":        input.CommentsToAuthor,
		"comments_to_track_manager": input.CommentsToTrackManager,
		"completed_at":              now,
		"is_completed":              true,
		"update_at":                 now,
	}
	if err := tx.Model(&models.Review{}).
		Where("review_id = ?", review.ReviewID).
		Updates(updates).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	review.OriginalityScore = &input.OriginalityScore
	review.MethodologyScore = &input.MethodologyScore
	review.ClarityScore = &input.ClarityScore
	review.SignificanceScore = &input.SignificanceScore
	review.ReferencesScore = &input.ReferencesScore
	review.OverallScore = &overall
	review.Decision = &input.Decision
	review.CommentsToAuthor = input.CommentsToAuthor
	review.CommentsToTrackManager = input.CommentsToTrackManager
	review.CompletedAt = &now
	review.IsCompleted = true
	review.UpdateAt = &now

	if err := s.advanceAfterCompletion(tx, &review); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// advanceAfterCompletion recounts completed reviews and moves the research
// to under_evaluation when the threshold is reached. Any decision counts
// equally toward the threshold; beyond the first trigger the status check
// makes the rule a no-op.
func (s *ReviewService) advanceAfterCompletion(tx *gorm.DB, review *models.Review) error {
	var research models.Research
	if err := tx.Where("research_id = ? AND delete_at IS NULL", review.ResearchID).
		First(&research).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("review %d completed for missing research %d, skipping status update", review.ReviewID, review.ResearchID)
			return nil
		}
		return err
	}

	var completed int64
	if err := tx.Model(&models.Review{}).
		Where("research_id = ? AND is_completed = ?", review.ResearchID, true).
		Count(&completed).Error; err != nil {
		return err
	}

	if completed >= int64(s.threshold) && research.Status == models.StatusUnderReview {
		if err := s.workflow.Transition(tx, &research, models.StatusUnderEvaluation, review.ReviewerID, nil, nil); err != nil {
			return err
		}
	}

	return s.notifications.NotifyReviewCompleted(tx, &research, int(completed))
}

// FlagReReview marks a completed review as requiring re-review. This is the
// only mutation allowed after completion.
func (s *ReviewService) FlagReReview(reviewID int, required bool) error {
	var review models.Review
	if err := s.db.Where("review_id = ?", reviewID).First(&review).Error; err != nil {
		return err
	}
	if !review.IsCompleted {
		return ErrReviewNotCompleted
	}
	now := time.Now()
	return s.db.Model(&models.Review{}).
		Where("review_id = ?", reviewID).
		Updates(map[string]interface{}{
			"requires_re_review": required,
			"update_at":          now,
		}).Error
}
