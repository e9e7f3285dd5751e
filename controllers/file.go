package controllers

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"research-conference-api/config"
	"research-conference-api/models"
	"research-conference-api/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxUploadSizeMB = 20

var allowedFileKinds = map[string]bool{
	"manuscript":    true,
	"revision":      true,
	"supplementary": true,
}

func uploadRoot() string {
	root := os.Getenv("UPLOAD_PATH")
	if root == "" {
		root = "./uploads"
	}
	return root
}

func generateFileHash(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	h := sha256.New()
	if _, err := io.Copy(h, src); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// UploadResearchFile stores a manuscript or supplementary file for a
// research the caller may access. Files are stored under a uuid name so
// user-supplied filenames never touch the filesystem.
func UploadResearchFile(c *gin.Context) {
	userID, _ := getCurrentUserID(c)
	roleID, _ := getCurrentRoleID(c)

	researchID, err := strconv.Atoi(c.Param("id"))
	if err != nil || researchID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid research ID"})
		return
	}

	research, err := loadResearchWithDetails(config.DB, researchID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Research not found"})
		return
	}
	if research.SubmittedByID != userID && !services.CanAccessResearch(research, userID, roleID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Research not found"})
		return
	}

	fileKind := strings.TrimSpace(c.DefaultPostForm("file_kind", "manuscript"))
	if !allowedFileKinds[fileKind] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file kind"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
		return
	}
	if file.Size > maxUploadSizeMB*1024*1024 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File exceeds the size limit"})
		return
	}

	mimeType := file.Header.Get("Content-Type")
	probe := models.ResearchFile{MimeType: mimeType}
	if !probe.IsValidDocumentType() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only PDF and Word documents are accepted"})
		return
	}

	hash, err := generateFileHash(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		return
	}

	storedName := uuid.New().String() + strings.ToLower(filepath.Ext(file.Filename))
	relPath := filepath.Join("researches", strconv.Itoa(researchID), storedName)
	absPath := filepath.Join(uploadRoot(), relPath)

	if err := os.MkdirAll(filepath.Dir(absPath), os.ModePerm); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}
	if err := c.SaveUploadedFile(file, absPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}

	now := time.Now()
	record := models.ResearchFile{
		ResearchID:   researchID,
		OriginalName: filepath.Base(file.Filename),
		StoredPath:   relPath,
		FileSize:     file.Size,
		MimeType:     mimeType,
		FileHash:     hash,
		FileKind:     fileKind,
		UploadedBy:   userID,
		UploadedAt:   now,
		CreateAt:     now,
		UpdateAt:     now,
	}
	if err := config.DB.Create(&record).Error; err != nil {
		_ = os.Remove(absPath)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "file": record})
}

// ListResearchFiles returns the live files of a research.
func ListResearchFiles(c *gin.Context) {
	userID, _ := getCurrentUserID(c)
	roleID, _ := getCurrentRoleID(c)

	researchID, err := strconv.Atoi(c.Param("id"))
	if err != nil || researchID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid research ID"})
		return
	}

	research, err := loadResearchWithDetails(config.DB, researchID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Research not found"})
		return
	}
	if !services.CanAccessResearch(research, userID, roleID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Research not found"})
		return
	}

	var files []models.ResearchFile
	if err := config.DB.Where("research_id = ? AND delete_at IS NULL", researchID).
		Order("uploaded_at DESC").
		Find(&files).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load files"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "files": files})
}

// DownloadResearchFile streams one stored file to an authorized caller.
func DownloadResearchFile(c *gin.Context) {
	userID, _ := getCurrentUserID(c)
	roleID, _ := getCurrentRoleID(c)

	fileID, err := strconv.Atoi(c.Param("file_id"))
	if err != nil || fileID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file ID"})
		return
	}

	var record models.ResearchFile
	if err := config.DB.Where("file_id = ? AND delete_at IS NULL", fileID).
		First(&record).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	research, err := loadResearchWithDetails(config.DB, record.ResearchID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}
	if !services.CanAccessResearch(research, userID, roleID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	absPath := filepath.Join(uploadRoot(), record.StoredPath)
	if _, err := os.Stat(absPath); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File missing from storage"})
		return
	}

	c.FileAttachment(absPath, record.OriginalName)
}

// DeleteResearchFile soft-deletes a file record. The bytes stay on disk
// for audit/restore, matching the soft-delete rule on the parent research.
func DeleteResearchFile(c *gin.Context) {
	userID, _ := getCurrentUserID(c)

	fileID, err := strconv.Atoi(c.Param("file_id"))
	if err != nil || fileID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file ID"})
		return
	}

	var record models.ResearchFile
	if err := config.DB.Where("file_id = ? AND delete_at IS NULL", fileID).
		First(&record).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	var research models.Research
	if err := config.DB.Where("research_id = ? AND delete_at IS NULL", record.ResearchID).
		First(&research).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}
	if research.SubmittedByID != userID && record.UploadedBy != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	if err := config.DB.Model(&models.ResearchFile{}).
		Where("file_id = ?", fileID).
		Update("delete_at", time.Now()).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete file"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
