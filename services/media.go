package services

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/rebooto/rebooto_api/dto"
	"github.com/rebooto/rebooto_api/model"
	"github.com/rebooto/rebooto_api/shared"
	log "github.com/sirupsen/logrus"
)

type MediaService struct {
	context.DefaultService
	postgresSvc *PostgresService
	minioSvc    *MinIOService
	baseURL     string
}

const MEDIA_SVC = "media_svc"

func (svc MediaService) Id() string {
	return MEDIA_SVC
}

func (svc *MediaService) Configure(ctx *context.Context) error {
	svc.baseURL = os.Getenv("BASE_URL")
	if svc.baseURL == "" {
		svc.baseURL = "http://localhost:8000"
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *MediaService) Start() error {
	svc.postgresSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	svc.minioSvc = svc.Service(MINIO_SVC).(*MinIOService)
	return nil
}

// ==================== MEDIA UPLOAD METHODS ====================

func (svc *MediaService) UploadCourseImage(courseID string, file *multipart.FileHeader) (*dto.MediaUploadResponse, error) {
	if _, err := svc.postgresSvc.GetCourse(courseID); err != nil {
		return nil, err
	}

	if !svc.isValidImageFile(file.Filename) {
		return nil, shared.NewBadRequestError(nil, "Invalid image file format. Supported: JPG, PNG, WEBP")
	}

	if file.Size > 5*1024*1024 {
		return nil, shared.NewBadRequestError(nil, "Image file too large. Maximum size: 5MB")
	}

	resp, err := svc.uploadFile(file, "course", courseID)
	if err != nil {
		return nil, err
	}

	course, err := svc.postgresSvc.GetCourse(courseID)
	if err != nil {
		return nil, err
	}
	course.ImageURL = resp.URL
	if err := svc.postgresSvc.UpdateCourse(course); err != nil {
		return nil, err
	}

	return resp, nil
}

func (svc *MediaService) UploadBlogCover(postID string, file *multipart.FileHeader) (*dto.MediaUploadResponse, error) {
	if _, err := svc.postgresSvc.GetBlogPost(postID); err != nil {
		return nil, err
	}

	if !svc.isValidImageFile(file.Filename) {
		return nil, shared.NewBadRequestError(nil, "Invalid image file format. Supported: JPG, PNG, WEBP")
	}

	if file.Size > 5*1024*1024 {
		return nil, shared.NewBadRequestError(nil, "Image file too large. Maximum size: 5MB")
	}

	resp, err := svc.uploadFile(file, "blog_post", postID)
	if err != nil {
		return nil, err
	}

	post, err := svc.postgresSvc.GetBlogPost(postID)
	if err != nil {
		return nil, err
	}
	post.CoverURL = resp.URL
	if err := svc.postgresSvc.UpdateBlogPost(post); err != nil {
		return nil, err
	}

	return resp, nil
}

func (svc *MediaService) uploadFile(file *multipart.FileHeader, ownerType, ownerID string) (*dto.MediaUploadResponse, error) {
	// Generate unique filename
	ext := filepath.Ext(file.Filename)
	fileName := fmt.Sprintf("%s_%s_%d%s", ownerID, ownerType, time.Now().Unix(), ext)

	var subDir string
	switch ownerType {
	case "course":
		subDir = "courses"
	case "lesson":
		subDir = "lessons"
	case "blog_post":
		subDir = "blog"
	default:
		subDir = "misc"
	}

	// Create object name for MinIO
	objectName := fmt.Sprintf("%s/%s", subDir, fileName)

	// Open uploaded file
	src, err := file.Open()
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to open uploaded file")
	}
	defer src.Close()

	// Upload to MinIO
	uploadInfo, err := svc.minioSvc.UploadFile(objectName, src, file.Size, file.Header.Get("Content-Type"))
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to upload file to storage")
	}

	// Generate presigned URL (valid for 24 hours)
	fileURL, err := svc.minioSvc.GetFileURL(objectName, 24*time.Hour)
	if err != nil {
		log.Printf("Failed to generate presigned URL: %v", err)
		fileURL = fmt.Sprintf("%s/%s/%s", svc.baseURL, svc.minioSvc.GetBucketName(), objectName)
	}

	// Create media asset record
	mediaAsset := &model.MediaAsset{
		OwnerType:  ownerType,
		OwnerID:    ownerID,
		FileName:   fileName,
		ObjectName: objectName,
		FileType:   file.Header.Get("Content-Type"),
		FileSize:   file.Size,
		PublicURL:  fileURL,
	}

	// Save to database
	if err := svc.postgresSvc.CreateMediaAsset(mediaAsset); err != nil {
		// Clean up file if database save fails
		svc.minioSvc.DeleteFile(objectName)
		return nil, err
	}

	log.Printf("Successfully uploaded file %s to MinIO: %s", fileName, uploadInfo.Key)

	return &dto.MediaUploadResponse{
		ID:       mediaAsset.ID,
		URL:      mediaAsset.PublicURL,
		FileName: mediaAsset.FileName,
		FileType: mediaAsset.FileType,
		FileSize: mediaAsset.FileSize,
	}, nil
}

// ==================== MEDIA DELETION ====================

func (svc *MediaService) DeleteMediaAsset(assetID string) error {
	asset, err := svc.postgresSvc.GetMediaAsset(assetID)
	if err != nil {
		return err
	}

	if err := svc.minioSvc.DeleteFile(asset.ObjectName); err != nil {
		log.Printf("Failed to delete object %s from MinIO: %v", asset.ObjectName, err)
	}

	return svc.postgresSvc.DeleteMediaAsset(assetID)
}

// ==================== FILE VALIDATION METHODS ====================

func (svc *MediaService) isValidImageFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	validExts := []string{".jpg", ".jpeg", ".png", ".webp"}

	for _, validExt := range validExts {
		if ext == validExt {
			return true
		}
	}
	return false
}
