package services

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"

	"gorm.io/gorm"
)

func TestDispatchPendingSkipsWhenLockHeld(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`SELECT GET_LOCK`),
			args:    []driver.Value{outboxLockName},
			columns: []string{"status"},
			rows:    [][]driver.Value{{int64(0)}},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := &EmailOutboxService{
		db:          db,
		maxAttempts: 5,
		batchSize:   50,
		send: func(to []string, subject, html string) error {
			t.Fatal("send must not be called when the lock is held elsewhere")
			return nil
		},
	}

	sent, err := svc.DispatchPending(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sent != 0 {
		t.Fatalf("got %d sent, want 0", sent)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unexpected remaining steps: %v", err)
	}
}

func TestDispatchPendingDeliversDueEmail(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`SELECT GET_LOCK`),
			args:    []driver.Value{outboxLockName},
			columns: []string{"status"},
			rows:    [][]driver.Value{{int64(1)}},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `email_outbox`"),
			columns: []string{"outbox_id", "recipient", "subject", "body", "status", "attempts"},
			rows: [][]driver.Value{{
				int64(4), "author@example.ac.th", "ผลการพิจารณาบทความ", "<p>...</p>", "pending", int64(0),
			}},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE `email_outbox`"),
			result:  scriptedResult{rowsAffected: 1},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`SELECT RELEASE_LOCK`),
			args:    []driver.Value{outboxLockName},
			columns: []string{"status"},
			rows:    [][]driver.Value{{int64(1)}},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	var sentTo []string
	svc := &EmailOutboxService{
		db:          db.Session(&gorm.Session{SkipDefaultTransaction: true}),
		maxAttempts: 5,
		batchSize:   50,
		send: func(to []string, subject, html string) error {
			sentTo = to
			return nil
		},
	}

	sent, err := svc.DispatchPending(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sent != 1 {
		t.Fatalf("got %d sent, want 1", sent)
	}
	if len(sentTo) != 1 || sentTo[0] != "author@example.ac.th" {
		t.Fatalf("sent to %v, want the outbox recipient", sentTo)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unexpected remaining steps: %v", err)
	}
}

func TestDispatchPendingKeepsFailedEmailForRetry(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`SELECT GET_LOCK`),
			args:    []driver.Value{outboxLockName},
			columns: []string{"status"},
			rows:    [][]driver.Value{{int64(1)}},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `email_outbox`"),
			columns: []string{"outbox_id", "recipient", "subject", "body", "status", "attempts"},
			rows: [][]driver.Value{{
				int64(4), "author@example.ac.th", "subject", "body", "pending", int64(0),
			}},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE `email_outbox`"),
			result:  scriptedResult{rowsAffected: 1},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`SELECT RELEASE_LOCK`),
			args:    []driver.Value{outboxLockName},
			columns: []string{"status"},
			rows:    [][]driver.Value{{int64(1)}},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := &EmailOutboxService{
		db:          db.Session(&gorm.Session{SkipDefaultTransaction: true}),
		maxAttempts: 5,
		batchSize:   50,
		send: func(to []string, subject, html string) error {
			return errors.New("smtp relay down")
		},
	}

	sent, err := svc.DispatchPending(context.Background())
	if err != nil {
		t.Fatalf("delivery failure must not fail the dispatch cycle: %v", err)
	}
	if sent != 0 {
		t.Fatalf("got %d sent, want 0", sent)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unexpected remaining steps: %v", err)
	}
}
