package controllers

import (
	"database/sql/driver"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"research-conference-api/models"
)

func TestGetTrackHistoryHiddenFromOutsideUser(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM `researches` WHERE research_id = \\? AND delete_at IS NULL"),
			args:    []driver.Value{int64(3)},
			columns: []string{"research_id", "title", "status", "track", "submitted_by"},
			rows: [][]driver.Value{
				{int64(3), "การจัดตารางสอบอัตโนมัติ", "under_review", "data_science", int64(10)},
			},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("FROM `research_authors`"),
			columns: []string{"research_author_id", "research_id", "user_id"},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("FROM `research_files`"),
			columns: []string{"file_id", "research_id"},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("FROM `reviews`"),
			columns: []string{"review_id", "research_id", "reviewer_id"},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("FROM `research_status_history`"),
			columns: []string{"history_id", "research_id"},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("FROM `users`"),
			args:    []driver.Value{int64(10)},
			columns: []string{"user_id", "email"},
		},
	}
	state, restore := withScriptedDB(t, steps)
	defer restore()

	// User 99 is neither submitter, author, reviewer nor assigned manager.
	router := newAuthedRouter(99, models.RoleResearcher)
	router.GET("/researches/:id/track-history", GetTrackHistory)

	req := httptest.NewRequest(http.MethodGet, "/researches/3/track-history", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Research not found") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet script steps: %v", err)
	}
}

func TestReassignTrackRejectsUnassignedManager(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM `researches` WHERE research_id = \\? AND delete_at IS NULL"),
			args:    []driver.Value{int64(3)},
			columns: []string{"research_id", "title", "status", "track", "submitted_by", "assigned_track_manager_id"},
			rows: [][]driver.Value{
				{int64(3), "การจัดตารางสอบอัตโนมัติ", "under_review", "data_science", int64(10), int64(7)},
			},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("FROM `track_managers`"),
			args:    []driver.Value{int64(7)},
			columns: []string{"track_manager_id", "user_id", "track", "is_active"},
			rows: [][]driver.Value{
				{int64(7), int64(20), "data_science", int64(1)},
			},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("FROM `users`"),
			args:    []driver.Value{int64(20)},
			columns: []string{"user_id", "email"},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("FROM `research_authors`"),
			columns: []string{"research_author_id", "research_id", "user_id"},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("FROM `research_files`"),
			columns: []string{"file_id", "research_id"},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("FROM `reviews`"),
			columns: []string{"review_id", "research_id", "reviewer_id"},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("FROM `research_status_history`"),
			columns: []string{"history_id", "research_id"},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("FROM `users`"),
			args:    []driver.Value{int64(10)},
			columns: []string{"user_id", "email"},
		},
	}
	state, restore := withScriptedDB(t, steps)
	defer restore()

	// Research 3 is assigned to the manager with user id 20; user 50 is a
	// track manager elsewhere and must not be able to move it.
	router := newAuthedRouter(50, models.RoleTrackManager)
	router.POST("/researches/:id/reassign-track", ReassignTrack)

	req := httptest.NewRequest(http.MethodPost, "/researches/3/reassign-track",
		strings.NewReader(`{"track":"software_engineering"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Insufficient permissions") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet script steps: %v", err)
	}
}

func TestReassignTrackConflictAfterEvaluationStarts(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM `researches` WHERE research_id = \\? AND delete_at IS NULL"),
			args:    []driver.Value{int64(3)},
			columns: []string{"research_id", "title", "status", "track", "submitted_by"},
			rows: [][]driver.Value{
				{int64(3), "การจัดตารางสอบอัตโนมัติ", "under_evaluation", "artificial_intelligence", int64(10)},
			},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("FROM `research_authors`"),
			columns: []string{"research_author_id", "research_id", "user_id"},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM `track_managers` WHERE track = \\? AND is_active = \\? AND delete_at IS NULL"),
			args:    []driver.Value{"software_engineering", true},
			columns: []string{"track_manager_id", "user_id", "track", "is_active"},
			rows: [][]driver.Value{
				{int64(7), int64(20), "software_engineering", int64(1)},
			},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("FROM `users`"),
			args:    []driver.Value{int64(20)},
			columns: []string{"user_id", "email"},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE `researches` SET `assigned_track_manager_id`="),
			result:  scriptedResult{rowsAffected: 1},
		},
	}
	state, restore := withScriptedDB(t, steps)
	defer restore()

	router := newAuthedRouter(1, models.RoleSystemAdmin)
	router.POST("/researches/:id/reassign-track", ReassignTrack)

	req := httptest.NewRequest(http.MethodPost, "/researches/3/reassign-track",
		strings.NewReader(`{"track":"software_engineering"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// Moving an evaluated research back to assigned_for_review is an
	// illegal transition, reported as a conflict rather than a 500.
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Research can no longer change track") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet script steps: %v", err)
	}
}
