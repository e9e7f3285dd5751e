package services

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"research-conference-api/config"
	"research-conference-api/models"

	"gorm.io/gorm"
)

// NotificationService writes in-app notification rows and enqueues outbox
// emails. Both writes join the caller's transaction so a rolled-back
// operation leaves no stray notifications behind.
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	if db == nil {
		db = config.DB
	}
	return &NotificationService{db: db}
}

func (s *NotificationService) Notify(tx *gorm.DB, userID uint, title, message, ntype string, researchID *uint) error {
	if tx == nil {
		tx = s.db
	}
	n := models.Notification{
		UserID:            userID,
		Title:             title,
		Message:           message,
		Type:              ntype,
		RelatedResearchID: researchID,
		IsRead:            false,
		CreateAt:          time.Now(),
	}
	return tx.Create(&n).Error
}

// NotifyWithEmail writes the in-app row and enqueues an email for the same
// recipient. An empty email address skips the outbox row.
func (s *NotificationService) NotifyWithEmail(tx *gorm.DB, user *models.User, title, message, ntype string, researchID *uint) error {
	if tx == nil {
		tx = s.db
	}
	if err := s.Notify(tx, uint(user.UserID), title, message, ntype, researchID); err != nil {
		return err
	}
	if strings.TrimSpace(user.Email) == "" {
		return nil
	}
	body := BuildFormalEmailHTML(title, user.FullName(), message)
	return EnqueueEmail(tx, user.Email, title, body)
}

// NotifyReviewCompleted tells the submitter and the assigned track manager
// that one more review came in for their research.
func (s *NotificationService) NotifyReviewCompleted(tx *gorm.DB, research *models.Research, completedCount int) error {
	if tx == nil {
		tx = s.db
	}
	rid := uint(research.ResearchID)
	title := fmt.Sprintf("ผลการประเมินบทความ #%d", research.ResearchID)
	message := fmt.Sprintf("บทความ \"%s\" ได้รับการประเมินแล้ว %d รายการ", research.Title, completedCount)

	var owner models.User
	if err := tx.Where("user_id = ? AND delete_at IS NULL", research.SubmittedByID).First(&owner).Error; err == nil {
		if err := s.NotifyWithEmail(tx, &owner, title, message, "info", &rid); err != nil {
			return err
		}
	}

	if research.AssignedTrackManagerID == nil {
		return nil
	}
	var manager models.TrackManager
	if err := tx.Preload("User").
		Where("track_manager_id = ? AND delete_at IS NULL", *research.AssignedTrackManagerID).
		First(&manager).Error; err != nil {
		return nil
	}
	if manager.User == nil {
		return nil
	}
	return s.NotifyWithEmail(tx, manager.User, title, message, "info", &rid)
}

// NotifyTrackChange tells the submitter that the research moved tracks.
func (s *NotificationService) NotifyTrackChange(tx *gorm.DB, research *models.Research, fromTrack, toTrack string) error {
	if tx == nil {
		tx = s.db
	}
	var owner models.User
	if err := tx.Where("user_id = ? AND delete_at IS NULL", research.SubmittedByID).First(&owner).Error; err != nil {
		return nil
	}
	rid := uint(research.ResearchID)
	title := fmt.Sprintf("เปลี่ยนสาขาบทความ #%d", research.ResearchID)
	message := fmt.Sprintf("บทความ \"%s\" ถูกย้ายจากสาขา %s ไปยังสาขา %s", research.Title, fromTrack, toTrack)
	return s.NotifyWithEmail(tx, &owner, title, message, "info", &rid)
}

// NotifyTrackManagerAssigned tells a track manager a research landed in
// their queue.
func (s *NotificationService) NotifyTrackManagerAssigned(tx *gorm.DB, manager *models.TrackManager, research *models.Research) error {
	if tx == nil {
		tx = s.db
	}
	if manager.User == nil {
		var user models.User
		if err := tx.Where("user_id = ? AND delete_at IS NULL", manager.UserID).First(&user).Error; err != nil {
			return nil
		}
		manager.User = &user
	}
	rid := uint(research.ResearchID)
	title := fmt.Sprintf("บทความใหม่ในสาขาของท่าน #%d", research.ResearchID)
	message := fmt.Sprintf("บทความ \"%s\" ถูกมอบหมายให้สาขา %s รอการจัดผู้ประเมิน", research.Title, research.Track)
	return s.NotifyWithEmail(tx, manager.User, title, message, "info", &rid)
}

// BuildFormalEmailHTML wraps a plain message in the formal email layout.
func BuildFormalEmailHTML(subject, recipientName, message string) string {
	name := strings.TrimSpace(recipientName)
	if name == "" {
		name = "ผู้รับ"
	}

	escapedSubject := template.HTMLEscapeString(subject)
	escapedGreeting := template.HTMLEscapeString(fmt.Sprintf("เรียน %s", name))
	escapedMessage := template.HTMLEscapeString(strings.TrimSpace(message))
	escapedMessage = strings.ReplaceAll(strings.ReplaceAll(escapedMessage, "\r\n", "\n"), "\r", "\n")
	escapedMessage = strings.ReplaceAll(escapedMessage, "\n", "<br />")

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="th">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
</head>
<body style="margin:0;padding:0;background-color:#f9fafb;font-family:'Segoe UI',Tahoma,Arial,sans-serif;">
<div style="max-width:640px;margin:0 auto;padding:24px 20px;">
  <div style="background-color:#ffffff;border:1px solid #e5e7eb;border-radius:12px;padding:24px 24px 28px 24px;">
    <p style="margin:0 0 16px 0;font-size:16px;line-height:1.7;color:#111827;">%s</p>
    <p style="margin:0 0 0 0;font-size:16px;line-height:1.7;color:#111827;word-break:break-word;">%s</p>
  </div>
</div>
</body>
</html>`, escapedSubject, escapedGreeting, escapedMessage)
}
