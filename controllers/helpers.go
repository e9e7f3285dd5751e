package controllers

import (
	"encoding/json"
	"strings"

	"research-conference-api/config"
	"research-conference-api/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func getDB() *gorm.DB { return config.DB }

func getCurrentUserID(c *gin.Context) (int, bool) {
	if v, ok := c.Get("userID"); ok {
		switch t := v.(type) {
		case int:
			return t, true
		case int64:
			return int(t), true
		case float64:
			return int(t), true
		}
	}
	return 0, false
}

func getCurrentRoleID(c *gin.Context) (int, bool) {
	if v, ok := c.Get("roleID"); ok {
		switch t := v.(type) {
		case int:
			return t, true
		case int64:
			return int(t), true
		case float64:
			return int(t), true
		}
	}
	return 0, false
}

func ptr(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

// loadResearchWithDetails fetches one live research with the relations the
// access predicate needs.
func loadResearchWithDetails(db *gorm.DB, researchID int) (*models.Research, error) {
	var research models.Research
	err := db.Preload("SubmittedBy").
		Preload("AssignedTrackManager").
		Preload("AssignedTrackManager.User").
		Preload("Authors", func(db *gorm.DB) *gorm.DB {
			return db.Order("author_order ASC")
		}).
		Preload("Files", "delete_at IS NULL").
		Preload("Reviews").
		Preload("Reviews.Reviewer").
		Preload("StatusHistory").
		Where("research_id = ? AND delete_at IS NULL", researchID).
		First(&research).Error
	if err != nil {
		return nil, err
	}
	return &research, nil
}

// writeAuditLog records an action in the audit trail inside the given
// transaction. Marshal failures fall back to a nil payload.
func writeAuditLog(tx *gorm.DB, c *gin.Context, userID int, action, entityType string, entityID int, values map[string]interface{}, description string) error {
	var newValues *string
	if values != nil {
		if serialized, err := json.Marshal(values); err == nil {
			s := string(serialized)
			newValues = &s
		}
	}

	audit := models.AuditLog{
		UserID:      userID,
		Action:      action,
		EntityType:  entityType,
		EntityID:    &entityID,
		NewValues:   newValues,
		Description: ptr(description),
		IPAddress:   c.ClientIP(),
	}
	if ua := strings.TrimSpace(c.GetHeader("User-Agent")); ua != "" {
		audit.UserAgent = &ua
	}
	return tx.Create(&audit).Error
}
