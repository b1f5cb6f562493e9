package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"rl_academy_backend/internal/config"
	"rl_academy_backend/internal/model"
	"rl_academy_backend/internal/repository"
	"rl_academy_backend/internal/util"
	"rl_academy_backend/pkg/logger"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ContentService 课时媒体上传：视频走ffmpeg探测+缩略图，附件直传
type ContentService struct {
	AssetRepo      *repository.AssetRepository
	CurriculumRepo *repository.CurriculumRepository
	StorageService *StorageService
	Cfg            *config.Config
}

func NewContentService(assetRepo *repository.AssetRepository, curriculumRepo *repository.CurriculumRepository, storageService *StorageService, cfg *config.Config) *ContentService {
	return &ContentService{
		AssetRepo:      assetRepo,
		CurriculumRepo: curriculumRepo,
		StorageService: storageService,
		Cfg:            cfg,
	}
}

// UploadVideo 上传课时讲解视频：临时落盘后探测时长、抓帧做缩略图，再推到存储后端
func (s *ContentService) UploadVideo(ctx context.Context, file *multipart.FileHeader, lessonSlug, title, description string, uploaderID uint) (*model.LessonAsset, error) {
	if _, err := s.CurriculumRepo.FindLessonBySlug(lessonSlug); err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	isValidType := false
	for _, e := range util.AllowedVideoExtensions {
		if ext == e {
			isValidType = true
			break
		}
	}
	if !isValidType {
		return nil, util.ErrInvalidVideoExt
	}

	videoFilename := "videos/" + time.Now().Format("20060102150405") + "-" +
		strings.ReplaceAll(file.Filename, " ", "-")

	tempDir := filepath.Join(s.Cfg.Storage.LocalPath, "temp")
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return nil, err
	}

	tempFilename := fmt.Sprintf("temp_video_%d%s", time.Now().UnixNano(), ext)
	videoPath := filepath.Join(tempDir, tempFilename)
	defer os.Remove(videoPath)

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	// 深度验证 MIME 类型，扩展名可以伪造
	if _, err := util.ValidateMimeType(src, []string{util.MimeVideo}); err != nil {
		return nil, fmt.Errorf("非法的文件内容，仅允许视频格式: %v", err)
	}
	if seeker, ok := src.(io.Seeker); ok {
		seeker.Seek(0, io.SeekStart)
	}

	dst, err := os.Create(videoPath)
	if err != nil {
		return nil, err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return nil, err
	}

	videoURL, err := s.StorageService.UploadFile(ctx, videoFilename, videoPath, file.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}

	thumbnailFilename := "thumbnails/" + time.Now().Format("20060102150405") + "-" +
		strings.ReplaceAll(strings.TrimSuffix(file.Filename, ext), " ", "-") + ".jpg"

	thumbnailDir := filepath.Join(s.Cfg.Storage.LocalPath, "thumbnails")
	if err := os.MkdirAll(thumbnailDir, 0755); err != nil {
		return nil, err
	}
	thumbnailPath := filepath.Join(thumbnailDir, filepath.Base(thumbnailFilename))
	defer os.Remove(thumbnailPath)

	var thumbnailURL string
	if err := util.GenerateThumbnail(videoPath, thumbnailPath, "3"); err != nil {
		logger.Log.Error("生成缩略图失败", zap.Error(err))
		thumbnailURL = s.StorageService.GetURL("thumbnails/default-video-thumbnail.jpg")
	} else {
		thumbnailURL, err = s.StorageService.UploadFile(ctx, thumbnailFilename, thumbnailPath, "image/jpeg")
		if err != nil {
			thumbnailURL = s.StorageService.GetURL("thumbnails/default-video-thumbnail.jpg")
		}
	}

	var duration float64
	format := strings.TrimPrefix(ext, ".")
	if videoInfo, err := util.GetVideoInfo(videoPath); err == nil {
		duration = videoInfo.Duration
		if videoInfo.Format != "unknown" {
			format = videoInfo.Format
		}
	}

	asset := &model.LessonAsset{
		Title:       title,
		Description: description,
		Type:        model.AssetVideo,
		LessonSlug:  lessonSlug,
		URL:         videoURL,
		UploaderID:  uploaderID,
		Duration:    duration,
		Size:        file.Size,
		Format:      format,
		Thumbnail:   thumbnailURL,
	}

	if err := s.AssetRepo.Create(asset); err != nil {
		return nil, err
	}
	return asset, nil
}

// UploadAttachment 上传课时附件（PDF、图片等），流式直传存储后端
func (s *ContentService) UploadAttachment(ctx context.Context, file *multipart.FileHeader, lessonSlug, title string, uploaderID uint) (*model.LessonAsset, error) {
	if _, err := s.CurriculumRepo.FindLessonBySlug(lessonSlug); err != nil {
		return nil, err
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	mimeType, err := util.ValidateMimeType(src, []string{util.MimeImage, util.MimePDF, util.MimeOctetStream, "text/"})
	if err != nil {
		return nil, err
	}
	if seeker, ok := src.(io.Seeker); ok {
		seeker.Seek(0, io.SeekStart)
	}

	assetType := model.AssetAttachment
	if strings.HasPrefix(mimeType, util.MimeImage) {
		assetType = model.AssetImage
	}

	filename := "attachments/" + util.GenerateRandomString(8) + "-" +
		strings.ReplaceAll(file.Filename, " ", "-")

	url, err := s.StorageService.Upload(ctx, filename, src, file.Size, mimeType)
	if err != nil {
		return nil, err
	}

	asset := &model.LessonAsset{
		Title:      title,
		Type:       assetType,
		LessonSlug: lessonSlug,
		URL:        url,
		UploaderID: uploaderID,
		Size:       file.Size,
		Format:     strings.TrimPrefix(strings.ToLower(filepath.Ext(file.Filename)), "."),
	}

	if err := s.AssetRepo.Create(asset); err != nil {
		return nil, err
	}
	return asset, nil
}

func (s *ContentService) ListLessonAssets(lessonSlug string) ([]model.LessonAsset, error) {
	return s.AssetRepo.ListByLesson(lessonSlug)
}

// DeleteAsset 删除资源记录并清理存储后端的文件
func (s *ContentService) DeleteAsset(ctx context.Context, id uint) error {
	asset, err := s.AssetRepo.FindByID(id)
	if err != nil {
		return err
	}
	if err := s.AssetRepo.Delete(id); err != nil {
		return err
	}

	// 存储清理失败只记日志，数据库记录已删
	filename := strings.TrimPrefix(asset.URL, "/uploads/")
	if err := s.StorageService.Delete(ctx, filename); err != nil {
		logger.Log.Warn("清理存储文件失败", zap.String("url", asset.URL), zap.Error(err))
	}
	return nil
}
