// controllers/research_listing.go - Research Listing Controllers

package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"research-conference-api/config"
	"research-conference-api/models"
	"research-conference-api/services"

	"github.com/gin-gonic/gin"
)

// GetResearches returns a paginated list of researches with filters. Role
// scoping runs in SQL before Count/Offset/Limit so a page always holds up
// to `limit` visible rows and the totals match what the caller may see.
func GetResearches(c *gin.Context) {
	userID, _ := getCurrentUserID(c)
	roleID, _ := getCurrentRoleID(c)

	// Parse query parameters
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	status := c.Query("status")
	track := c.Query("track")
	researchType := c.Query("type")
	dateFrom := c.Query("date_from")
	dateTo := c.Query("date_to")
	search := c.Query("search")
	sortBy := c.DefaultQuery("sort_by", "create_at")
	sortOrder := c.DefaultQuery("sort_order", "desc")

	// Validate pagination
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	// Validate sort parameters
	allowedSortFields := map[string]bool{
		"create_at":    true,
		"update_at":    true,
		"submitted_at": true,
		"decided_at":   true,
		"title":        true,
		"status":       true,
		"track":        true,
	}
	if !allowedSortFields[sortBy] {
		sortBy = "create_at"
	}
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}

	var researches []models.Research
	query := config.DB.Model(&models.Research{}).
		Preload("SubmittedBy").
		Preload("Authors").
		Where("researches.delete_at IS NULL")

	query = services.ScopeResearchQuery(query, userID, roleID)

	// Apply filters
	if status != "" {
		query = query.Where("researches.status = ?", status)
	}
	if track != "" {
		query = query.Where("researches.track = ?", track)
	}
	if researchType != "" {
		query = query.Where("researches.research_type = ?", researchType)
	}
	if dateFrom != "" {
		query = query.Where("DATE(researches.submitted_at) >= ?", dateFrom)
	}
	if dateTo != "" {
		query = query.Where("DATE(researches.submitted_at) <= ?", dateTo)
	}

	// Search bilingual titles, abstracts, keywords and author names
	if search != "" {
		searchTerm := "%" + search + "%"
		query = query.Where(
			`researches.title LIKE ? OR researches.title_en LIKE ? OR
			 researches.abstract LIKE ? OR researches.abstract_en LIKE ? OR
			 researches.keywords LIKE ? OR researches.keywords_en LIKE ? OR
			 researches.research_id IN (
			     SELECT research_id FROM research_authors
			     WHERE CONCAT(first_name, ' ', last_name) LIKE ? OR name_en LIKE ? OR email LIKE ?
			 )`,
			searchTerm, searchTerm, searchTerm, searchTerm, searchTerm,
			searchTerm, searchTerm, searchTerm, searchTerm,
		)
	}

	// Get total count for pagination
	var totalCount int64
	query.Count(&totalCount)

	// Apply sorting and pagination
	orderClause := "researches." + sortBy + " " + strings.ToUpper(sortOrder)
	if err := query.Order(orderClause).Offset(offset).Limit(limit).Find(&researches).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch researches"})
		return
	}

	totalPages := (totalCount + int64(limit) - 1) / int64(limit)

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"researches": researches,
		"pagination": gin.H{
			"current_page": page,
			"per_page":     limit,
			"total_count":  totalCount,
			"total_pages":  totalPages,
			"has_next":     page < int(totalPages),
			"has_prev":     page > 1,
		},
		"filters": gin.H{
			"status":    status,
			"track":     track,
			"type":      researchType,
			"date_from": dateFrom,
			"date_to":   dateTo,
			"search":    search,
		},
		"sorting": gin.H{
			"sort_by":    sortBy,
			"sort_order": sortOrder,
		},
	})
}
