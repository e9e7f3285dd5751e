package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"research-conference-api/config"
	"research-conference-api/models"
	"research-conference-api/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// loadOwnedResearch fetches a live research the caller submitted.
func loadOwnedResearch(c *gin.Context, researchID int) (*models.Research, bool) {
	userID, _ := getCurrentUserID(c)

	var research models.Research
	if err := config.DB.Where("research_id = ? AND delete_at IS NULL", researchID).
		First(&research).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Research not found"})
		return nil, false
	}
	if research.SubmittedByID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Research not found"})
		return nil, false
	}
	if !editableStatuses[research.Status] {
		c.JSON(http.StatusConflict, gin.H{"error": "Research can no longer be edited"})
		return nil, false
	}
	return &research, true
}

// AddAuthor appends a co-author at the next order position.
func AddAuthor(c *gin.Context) {
	researchID, err := strconv.Atoi(c.Param("id"))
	if err != nil || researchID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid research ID"})
		return
	}

	research, ok := loadOwnedResearch(c, researchID)
	if !ok {
		return
	}

	var req authorPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ORCID != nil && *req.ORCID != "" && !utils.ValidateORCID(*req.ORCID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ORCID format"})
		return
	}

	var maxOrder int
	config.DB.Model(&models.ResearchAuthor{}).
		Where("research_id = ?", research.ResearchID).
		Select("COALESCE(MAX(author_order), 0)").
		Scan(&maxOrder)

	author := models.ResearchAuthor{
		ResearchID:      research.ResearchID,
		FirstName:       utils.SanitizeInput(req.FirstName),
		LastName:        utils.SanitizeInput(req.LastName),
		NameEn:          req.NameEn,
		Email:           strings.ToLower(strings.TrimSpace(req.Email)),
		Institution:     req.Institution,
		Degree:          req.Degree,
		ORCID:           req.ORCID,
		AuthorOrder:     maxOrder + 1,
		IsCorresponding: req.IsCorresponding,
		UserID:          req.UserID,
		CreateAt:        time.Now(),
	}
	if err := config.DB.Create(&author).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add author"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "author": author})
}

// UpdateAuthor edits one co-author row.
func UpdateAuthor(c *gin.Context) {
	researchID, err := strconv.Atoi(c.Param("id"))
	if err != nil || researchID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid research ID"})
		return
	}
	authorID, err := strconv.Atoi(c.Param("author_id"))
	if err != nil || authorID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid author ID"})
		return
	}

	research, ok := loadOwnedResearch(c, researchID)
	if !ok {
		return
	}

	var req authorPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ORCID != nil && *req.ORCID != "" && !utils.ValidateORCID(*req.ORCID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ORCID format"})
		return
	}

	now := time.Now()
	result := config.DB.Model(&models.ResearchAuthor{}).
		Where("author_id = ? AND research_id = ?", authorID, research.ResearchID).
		Updates(map[string]interface{}{
			"first_name":       utils.SanitizeInput(req.FirstName),
			"last_name":        utils.SanitizeInput(req.LastName),
			"name_en":          req.NameEn,
			"email":            strings.ToLower(strings.TrimSpace(req.Email)),
			"institution":      req.Institution,
			"degree":           req.Degree,
			"orcid":            req.ORCID,
			"is_corresponding": req.IsCorresponding,
			"user_id":          req.UserID,
			"update_at":        now,
		})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update author"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Author not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteAuthor removes a co-author and closes the order gap so the
// per-research order stays contiguous.
func DeleteAuthor(c *gin.Context) {
	researchID, err := strconv.Atoi(c.Param("id"))
	if err != nil || researchID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid research ID"})
		return
	}
	authorID, err := strconv.Atoi(c.Param("author_id"))
	if err != nil || authorID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid author ID"})
		return
	}

	research, ok := loadOwnedResearch(c, researchID)
	if !ok {
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var author models.ResearchAuthor
	if err := tx.Where("author_id = ? AND research_id = ?", authorID, research.ResearchID).
		First(&author).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusNotFound, gin.H{"error": "Author not found"})
		return
	}

	var remaining int64
	tx.Model(&models.ResearchAuthor{}).Where("research_id = ?", research.ResearchID).Count(&remaining)
	if remaining <= 1 {
		tx.Rollback()
		c.JSON(http.StatusConflict, gin.H{"error": "A research must keep at least one author"})
		return
	}

	if err := tx.Delete(&author).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete author"})
		return
	}

	if err := tx.Model(&models.ResearchAuthor{}).
		Where("research_id = ? AND author_order > ?", research.ResearchID, author.AuthorOrder).
		Update("author_order", gorm.Expr("author_order - 1")).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reorder authors"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete author"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

type reorderAuthorsRequest struct {
	AuthorIDs []int `json:"author_ids" binding:"required,min=1"`
}

// ReorderAuthors rewrites author_order to match the given id sequence.
// Orders are staged past the current maximum first so the unique index
// never sees a duplicate mid-update.
func ReorderAuthors(c *gin.Context) {
	researchID, err := strconv.Atoi(c.Param("id"))
	if err != nil || researchID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid research ID"})
		return
	}

	research, ok := loadOwnedResearch(c, researchID)
	if !ok {
		return
	}

	var req reorderAuthorsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var authors []models.ResearchAuthor
	if err := config.DB.Where("research_id = ?", research.ResearchID).
		Find(&authors).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load authors"})
		return
	}
	if len(req.AuthorIDs) != len(authors) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Author list is incomplete"})
		return
	}
	known := make(map[int]bool, len(authors))
	for _, a := range authors {
		known[a.AuthorID] = true
	}
	for _, id := range req.AuthorIDs {
		if !known[id] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown author in list"})
			return
		}
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	offset := len(authors)
	for i, id := range req.AuthorIDs {
		if err := tx.Model(&models.ResearchAuthor{}).
			Where("author_id = ?", id).
			Update("author_order", offset+i+1).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reorder authors"})
			return
		}
	}
	for i, id := range req.AuthorIDs {
		if err := tx.Model(&models.ResearchAuthor{}).
			Where("author_id = ?", id).
			Update("author_order", i+1).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reorder authors"})
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reorder authors"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
