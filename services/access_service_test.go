package services

import (
	"strings"
	"testing"

	"research-conference-api/models"

	"gorm.io/gorm"
)

func intPtr(v int) *int { return &v }

func TestCanAccessResearch(t *testing.T) {
	research := &models.Research{
		ResearchID:    1,
		SubmittedByID: 10,
		Authors: []models.ResearchAuthor{
			{AuthorOrder: 1, UserID: intPtr(10)},
			{AuthorOrder: 2, UserID: intPtr(11)},
			{AuthorOrder: 3, UserID: nil},
		},
		AssignedTrackManager: &models.TrackManager{UserID: 20},
		Reviews: []models.Review{
			{ReviewerID: 30},
			{ReviewerID: 31},
		},
	}

	cases := []struct {
		name   string
		userID int
		roleID int
		want   bool
	}{
		{"submitter", 10, models.RoleResearcher, true},
		{"co-author", 11, models.RoleResearcher, true},
		{"assigned track manager", 20, models.RoleTrackManager, true},
		{"assigned reviewer", 30, models.RoleReviewer, true},
		{"system admin sees everything", 99, models.RoleSystemAdmin, true},
		{"unrelated researcher", 12, models.RoleResearcher, false},
		{"other track manager", 21, models.RoleTrackManager, false},
		{"unassigned reviewer", 32, models.RoleReviewer, false},
		{"conference manager needs listing scope, not detail access", 40, models.RoleConferenceManager, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanAccessResearch(research, tc.userID, tc.roleID); got != tc.want {
				t.Errorf("got %v want %v", got, tc.want)
			}
		})
	}
}

func TestCanAccessResearchNil(t *testing.T) {
	if CanAccessResearch(nil, 1, models.RoleSystemAdmin) {
		t.Error("expected nil research to deny access")
	}
}

func TestCanAccessResearchNoManagerAssigned(t *testing.T) {
	research := &models.Research{
		ResearchID:    2,
		SubmittedByID: 10,
	}
	if CanAccessResearch(research, 20, models.RoleTrackManager) {
		t.Error("expected access denied when no manager is assigned")
	}
}

func scopedSQL(t *testing.T, userID, roleID int) string {
	t.Helper()
	db, _, cleanup := newScriptedGormDB(t, nil)
	defer cleanup()

	dry := db.Session(&gorm.Session{DryRun: true}).Model(&models.Research{})
	tx := ScopeResearchQuery(dry, userID, roleID).Find(&[]models.Research{})
	if tx.Statement == nil {
		t.Fatal("no statement built")
	}
	return tx.Statement.SQL.String()
}

func TestScopeResearchQueryPredicates(t *testing.T) {
	cases := []struct {
		name   string
		roleID int
		want   string
	}{
		{"researcher limited to own and co-authored", models.RoleResearcher, "researches.submitted_by = ?"},
		{"reviewer limited to assignments", models.RoleReviewer, "SELECT research_id FROM reviews"},
		{"track manager limited to own tracks", models.RoleTrackManager, "SELECT track FROM track_managers"},
		{"unknown role sees nothing", 42, "1 = 0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sql := scopedSQL(t, 5, tc.roleID)
			if !strings.Contains(sql, tc.want) {
				t.Errorf("expected predicate %q in %q", tc.want, sql)
			}
		})
	}
}

func TestScopeResearchQueryManagersListEverything(t *testing.T) {
	for _, roleID := range []int{models.RoleConferenceManager, models.RoleSystemAdmin} {
		sql := scopedSQL(t, 5, roleID)
		if strings.Contains(sql, "submitted_by = ?") || strings.Contains(sql, "1 = 0") {
			t.Errorf("expected no scoping predicate for role %d, got %q", roleID, sql)
		}
	}
}
