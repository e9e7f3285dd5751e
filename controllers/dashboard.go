package controllers

import (
	"net/http"
	"time"

	"research-conference-api/models"

	"github.com/gin-gonic/gin"
)

type statusCountRow struct {
	Status string `gorm:"column:status" json:"status"`
	Count  int64  `gorm:"column:count" json:"count"`
}

type trackCountRow struct {
	Track string `gorm:"column:track" json:"track"`
	Count int64  `gorm:"column:count" json:"count"`
}

// GetDashboardStats summarizes the submission pipeline for conference
// managers: counts per status, per track, review progress and recent
// decisions.
func GetDashboardStats(c *gin.Context) {
	db := getDB()

	var byStatus []statusCountRow
	if err := db.Model(&models.Research{}).
		Select("status, COUNT(*) AS count").
		Where("delete_at IS NULL").
		Group("status").
		Scan(&byStatus).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load statistics"})
		return
	}

	var byTrack []trackCountRow
	if err := db.Model(&models.Research{}).
		Select("track, COUNT(*) AS count").
		Where("delete_at IS NULL").
		Group("track").
		Scan(&byTrack).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load statistics"})
		return
	}

	var totalResearches int64
	if err := db.Model(&models.Research{}).
		Where("delete_at IS NULL").
		Count(&totalResearches).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load statistics"})
		return
	}

	var pendingReviews int64
	if err := db.Model(&models.Review{}).
		Where("is_completed = 0").
		Count(&pendingReviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load statistics"})
		return
	}

	var overdueReviews int64
	if err := db.Model(&models.Review{}).
		Where("is_completed = 0 AND deadline < ?", time.Now()).
		Count(&overdueReviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load statistics"})
		return
	}

	var recentDecisions []models.Research
	if err := db.Preload("SubmittedBy").
		Where("delete_at IS NULL AND status IN ? AND decided_at IS NOT NULL",
			[]string{models.StatusAccepted, models.StatusRejected}).
		Order("decided_at DESC").
		Limit(10).
		Find(&recentDecisions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load statistics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats": gin.H{
			"total_researches": totalResearches,
			"by_status":        byStatus,
			"by_track":         byTrack,
			"pending_reviews":  pendingReviews,
			"overdue_reviews":  overdueReviews,
			"recent_decisions": recentDecisions,
		},
	})
}
