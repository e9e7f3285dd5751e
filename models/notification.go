package models

import "time"

type Notification struct {
	NotificationID    uint       `gorm:"primaryKey;column:notification_id" json:"notification_id"`
	UserID            uint       `gorm:"column:user_id" json:"user_id"`
	Title             string     `gorm:"column:title" json:"title"`
	Message           string     `gorm:"column:message" json:"message"`
	Type              string     `gorm:"column:type" json:"type"` // info|success|warning|error
	RelatedResearchID *uint      `gorm:"column:related_research_id" json:"related_research_id,omitempty"`
	IsRead            bool       `gorm:"column:is_read" json:"is_read"`
	CreateAt          time.Time  `gorm:"column:create_at" json:"created_at"`
	UpdateAt          *time.Time `gorm:"column:update_at" json:"-"`
}

func (Notification) TableName() string { return "notifications" }

// Email outbox statuses.
const (
	OutboxPending = "pending"
	OutboxSent    = "sent"
	OutboxFailed  = "failed"
)

// EmailOutbox is a persisted pending email. Rows are written inside the
// transaction that triggered them and delivered later by the outbox
// dispatcher, so delivery failures are observable and retryable.
type EmailOutbox struct {
	OutboxID      uint       `gorm:"primaryKey;column:outbox_id" json:"outbox_id"`
	Recipient     string     `gorm:"column:recipient" json:"recipient"`
	Subject       string     `gorm:"column:subject" json:"subject"`
	Body          string     `gorm:"column:body" json:"body"`
	Status        string     `gorm:"column:status" json:"status"` // pending|sent|failed
	Attempts      int        `gorm:"column:attempts" json:"attempts"`
	LastError     *string    `gorm:"column:last_error" json:"last_error,omitempty"`
	NextAttemptAt time.Time  `gorm:"column:next_attempt_at" json:"next_attempt_at"`
	SentAt        *time.Time `gorm:"column:sent_at" json:"sent_at,omitempty"`
	CreateAt      time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt      *time.Time `gorm:"column:update_at" json:"-"`
}

func (EmailOutbox) TableName() string { return "email_outbox" }
