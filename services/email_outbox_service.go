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

const outboxLockName = "email_outbox_dispatch"

// EnqueueEmail writes a pending outbox row inside the caller's transaction.
// Delivery happens later in the dispatcher, so a failing SMTP relay can
// never fail the business operation that triggered the email.
func EnqueueEmail(tx *gorm.DB, recipient, subject, body string) error {
	if tx == nil {
		tx = config.DB
	}
	row := models.EmailOutbox{
		Recipient:     recipient,
		Subject:       subject,
		Body:          body,
		Status:        models.OutboxPending,
		NextAttemptAt: time.Now(),
		CreateAt:      time.Now(),
	}
	return tx.Create(&row).Error
}

type EmailOutboxService struct {
	db          *gorm.DB
	maxAttempts int
	batchSize   int
	send        func(to []string, subject, html string) error
}

func NewEmailOutboxService(db *gorm.DB) *EmailOutboxService {
	if db == nil {
		db = config.DB
	}
	maxAttempts, _ := strconv.Atoi(os.Getenv("OUTBOX_MAX_ATTEMPTS"))
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	return &EmailOutboxService{
		db:          db,
		maxAttempts: maxAttempts,
		batchSize:   50,
		send:        config.SendMail,
	}
}

// DispatchPending delivers due pending rows. A MySQL named lock keeps
// concurrent instances from double-sending.
func (s *EmailOutboxService) DispatchPending(ctx context.Context) (int, error) {
	release, err := s.acquireLock(ctx)
	if err != nil {
		return 0, err
	}
	if release == nil {
		// Another instance holds the lock.
		return 0, nil
	}
	defer func() {
		if relErr := release(); relErr != nil {
			log.Printf("failed to release outbox lock: %v", relErr)
		}
	}()

	var due []models.EmailOutbox
	if err := s.db.WithContext(ctx).
		Where("status = ? AND next_attempt_at <= ?", models.OutboxPending, time.Now()).
		Order("next_attempt_at ASC").
		Limit(s.batchSize).
		Find(&due).Error; err != nil {
		return 0, err
	}

	sent := 0
	for i := range due {
		if ctx.Err() != nil {
			return sent, ctx.Err()
		}
		row := &due[i]
		now := time.Now()
		row.Attempts++

		if err := s.send([]string{row.Recipient}, row.Subject, row.Body); err != nil {
			msg := err.Error()
			row.LastError = &msg
			if row.Attempts >= s.maxAttempts {
				row.Status = models.OutboxFailed
				log.Printf("outbox: giving up on email to %s after %d attempts: %v", row.Recipient, row.Attempts, err)
			} else {
				// Exponential backoff: 2m, 4m, 8m, ...
				backoff := time.Duration(1<<uint(row.Attempts)) * time.Minute
				row.NextAttemptAt = now.Add(backoff)
			}
		} else {
			row.Status = models.OutboxSent
			row.SentAt = &now
			row.LastError = nil
			sent++
		}
		row.UpdateAt = &now

		if err := s.db.WithContext(ctx).Model(&models.EmailOutbox{}).
			Where("outbox_id = ?", row.OutboxID).
			Updates(map[string]interface{}{
				"status":          row.Status,
				"attempts":        row.Attempts,
				"last_error":      row.LastError,
				"next_attempt_at": row.NextAttemptAt,
				"sent_at":         row.SentAt,
				"update_at":       now,
			}).Error; err != nil {
			return sent, err
		}
	}
	return sent, nil
}

// RunDispatcher polls the outbox until the context is canceled.
func (s *EmailOutboxService) RunDispatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := s.DispatchPending(ctx); err != nil {
				log.Printf("outbox dispatch failed: %v", err)
			} else if n > 0 {
				log.Printf("outbox: delivered %d emails", n)
			}
		}
	}
}

func (s *EmailOutboxService) acquireLock(ctx context.Context) (func() error, error) {
	var status int
	if err := s.db.WithContext(ctx).
		Raw("SELECT GET_LOCK(?, 0)", outboxLockName).
		Scan(&status).Error; err != nil {
		return nil, err
	}
	if status != 1 {
		return nil, nil
	}
	return func() error {
		var released int
		if err := s.db.Raw("SELECT RELEASE_LOCK(?)", outboxLockName).Scan(&released).Error; err != nil {
			return err
		}
		if released != 1 {
			return fmt.Errorf("outbox lock was not held")
		}
		return nil
	}, nil
}
