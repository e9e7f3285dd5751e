package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"research-conference-api/config"
	"research-conference-api/models"

	"gorm.io/gorm"
)

// DeadlineService reminds reviewers of upcoming review deadlines. It runs on
// a timer next to the outbox dispatcher and touches only incomplete,
// not-yet-reminded reviews, so the two workers never contend on rows.
type DeadlineService struct {
	db            *gorm.DB
	notifications *NotificationService
	windowHours   int
}

func NewDeadlineService(db *gorm.DB) *DeadlineService {
	if db == nil {
		db = config.DB
	}
	windowHours, _ := strconv.Atoi(os.Getenv("REVIEW_REMINDER_WINDOW_HOURS"))
	if windowHours <= 0 {
		windowHours = 72
	}
	return &DeadlineService{
		db:            db,
		notifications: NewNotificationService(db),
		windowHours:   windowHours,
	}
}

// RemindUpcoming sends one reminder per review whose deadline falls inside
// the reminder window.
func (s *DeadlineService) RemindUpcoming(ctx context.Context) (int, error) {
	now := time.Now()
	cutoff := now.Add(time.Duration(s.windowHours) * time.Hour)

	var due []models.Review
	if err := s.db.WithContext(ctx).
		Preload("Reviewer").
		Preload("Research").
		Where("is_completed = ? AND reminder_sent_at IS NULL AND deadline IS NOT NULL AND deadline BETWEEN ? AND ?",
			false, now, cutoff).
		Find(&due).Error; err != nil {
		return 0, err
	}

	reminded := 0
	for i := range due {
		review := &due[i]
		if review.Reviewer == nil || review.Research == nil {
			continue
		}

		rid := uint(review.ResearchID)
		title := fmt.Sprintf("ใกล้ครบกำหนดประเมินบทความ #%d", review.ResearchID)
		message := fmt.Sprintf("บทความ \"%s\" ครบกำหนดส่งผลประเมินวันที่ %s",
			review.Research.Title, review.Deadline.Format("02/01/2006"))

		tx := s.db.WithContext(ctx).Begin()
		if err := s.notifications.NotifyWithEmail(tx, review.Reviewer, title, message, "warning", &rid); err != nil {
			tx.Rollback()
			log.Printf("deadline reminder for review %d failed: %v", review.ReviewID, err)
			continue
		}
		if err := tx.Model(&models.Review{}).
			Where("review_id = ?", review.ReviewID).
			Update("reminder_sent_at", now).Error; err != nil {
			tx.Rollback()
			log.Printf("deadline reminder for review %d failed: %v", review.ReviewID, err)
			continue
		}
		if err := tx.Commit().Error; err != nil {
			log.Printf("deadline reminder for review %d failed: %v", review.ReviewID, err)
			continue
		}
		reminded++
	}
	return reminded, nil
}

// RunReminder polls for upcoming deadlines until the context is canceled.
func (s *DeadlineService) RunReminder(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := s.RemindUpcoming(ctx); err != nil {
				log.Printf("deadline reminder run failed: %v", err)
			} else if n > 0 {
				log.Printf("deadline reminder: notified %d reviewers", n)
			}
		}
	}
}
