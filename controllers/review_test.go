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

// The reviewer routes carry the review id in the review_id path parameter.
// These tests exercise the handlers through the same paths the router
// registers, so a handler reading the wrong parameter name fails here.

func TestSubmitReviewResolvesReviewIDParam(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM `reviews` WHERE review_id = \\?"),
			args:    []driver.Value{int64(42)},
			columns: []string{"review_id", "research_id", "reviewer_id", "is_completed"},
		},
	}
	state, restore := withScriptedDB(t, steps)
	defer restore()

	router := newAuthedRouter(12, models.RoleReviewer)
	router.PUT("/reviews/:review_id", SubmitReview)

	body := `{"originality_score":8,"methodology_score":6,"clarity_score":7,` +
		`"significance_score":9,"references_score":5,"decision":"accept"}`
	req := httptest.NewRequest(http.MethodPut, "/reviews/42", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// The id must reach the lookup query; a handler that cannot see the
	// parameter rejects the request as a bad id before any query runs.
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Review not found") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("expected lookup for review 42 to run: %v", err)
	}
}

func TestFlagReReviewResolvesReviewIDParam(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM `reviews` WHERE review_id = \\?"),
			args:    []driver.Value{int64(9)},
			columns: []string{"review_id", "research_id", "reviewer_id", "is_completed"},
			rows: [][]driver.Value{
				{int64(9), int64(3), int64(12), int64(1)},
			},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE `reviews` SET `requires_re_review`="),
			result:  scriptedResult{rowsAffected: 1},
		},
	}
	state, restore := withScriptedDB(t, steps)
	defer restore()

	router := newAuthedRouter(7, models.RoleTrackManager)
	router.POST("/reviews/:review_id/re-review", FlagReReview)

	req := httptest.NewRequest(http.MethodPost, "/reviews/9/re-review", strings.NewReader(`{"required":true}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"success":true`) {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet script steps: %v", err)
	}
}
