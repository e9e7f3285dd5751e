package services

import (
	"research-conference-api/models"

	"gorm.io/gorm"
)

// CanAccessResearch decides whether a user may read a single research:
// the submitter, a listed co-author, the assigned track manager, an
// assigned reviewer or a system admin. The research must be loaded with
// Authors, Reviews and AssignedTrackManager.
func CanAccessResearch(research *models.Research, userID, roleID int) bool {
	if research == nil {
		return false
	}
	if roleID == models.RoleSystemAdmin {
		return true
	}
	if research.SubmittedByID == userID {
		return true
	}
	for _, author := range research.Authors {
		if author.UserID != nil && *author.UserID == userID {
			return true
		}
	}
	if research.AssignedTrackManager != nil && research.AssignedTrackManager.UserID == userID {
		return true
	}
	for _, review := range research.Reviews {
		if review.ReviewerID == userID {
			return true
		}
	}
	return false
}

// ScopeResearchQuery narrows a research query to what the role may list.
// The predicates run in SQL before Count/Offset/Limit so pagination stays
// consistent with the visible result set.
func ScopeResearchQuery(query *gorm.DB, userID, roleID int) *gorm.DB {
	switch roleID {
	case models.RoleResearcher:
		return query.Where(
			"researches.submitted_by = ? OR researches.research_id IN (SELECT research_id FROM research_authors WHERE user_id = ?)",
			userID, userID,
		)
	case models.RoleReviewer:
		return query.Where(
			"researches.research_id IN (SELECT research_id FROM reviews WHERE reviewer_id = ?)",
			userID,
		)
	case models.RoleTrackManager:
		return query.Where(
			"researches.track IN (SELECT track FROM track_managers WHERE user_id = ? AND is_active = 1 AND delete_at IS NULL)",
			userID,
		)
	case models.RoleConferenceManager, models.RoleSystemAdmin:
		return query
	default:
		// Unknown roles see nothing.
		return query.Where("1 = 0")
	}
}
