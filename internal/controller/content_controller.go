package controller

import (
	"errors"
	"rl_academy_backend/internal/service"
	"rl_academy_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ContentController struct {
	ContentService *service.ContentService
}

func NewContentController(contentService *service.ContentService) *ContentController {
	return &ContentController{ContentService: contentService}
}

// UploadVideo godoc
// @Summary 上传课时讲解视频
// @Description 探测视频时长并生成缩略图
// @Tags 课时媒体
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   file formData file true "视频文件"
// @Param   lessonSlug formData string true "课时slug"
// @Param   title formData string true "标题"
// @Param   description formData string false "描述"
// @Success 201 {object} util.Response{data=model.LessonAsset}
// @Failure 400 {object} util.Response "文件类型不合法"
// @Router /api/admin/assets/video [post]
func (c *ContentController) UploadVideo(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}
	lessonSlug := ctx.PostForm("lessonSlug")
	title := ctx.PostForm("title")
	if lessonSlug == "" || title == "" {
		util.BadRequest(ctx, "lessonSlug and title are required")
		return
	}

	asset, err := c.ContentService.UploadVideo(ctx.Request.Context(), file, lessonSlug, title, ctx.PostForm("description"), claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrLessonNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrInvalidVideoExt):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, asset)
}

// UploadAttachment godoc
// @Summary 上传课时附件
// @Tags 课时媒体
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   file formData file true "附件文件"
// @Param   lessonSlug formData string true "课时slug"
// @Param   title formData string true "标题"
// @Success 201 {object} util.Response{data=model.LessonAsset}
// @Router /api/admin/assets/attachment [post]
func (c *ContentController) UploadAttachment(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}
	lessonSlug := ctx.PostForm("lessonSlug")
	title := ctx.PostForm("title")
	if lessonSlug == "" || title == "" {
		util.BadRequest(ctx, "lessonSlug and title are required")
		return
	}

	asset, err := c.ContentService.UploadAttachment(ctx.Request.Context(), file, lessonSlug, title, claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrLessonNotFound) {
			util.NotFound(ctx)
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}
	util.Created(ctx, asset)
}

// ListAssets godoc
// @Summary 课时媒体列表
// @Tags 课时媒体
// @Produce  json
// @Param   slug path string true "课时slug"
// @Success 200 {object} util.Response{data=[]model.LessonAsset}
// @Router /api/lessons/{slug}/assets [get]
func (c *ContentController) ListAssets(ctx *gin.Context) {
	assets, err := c.ContentService.ListLessonAssets(ctx.Param("slug"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, assets)
}

// DeleteAsset godoc
// @Summary 删除课时媒体
// @Tags 课时媒体
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "资源ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/assets/{id} [delete]
func (c *ContentController) DeleteAsset(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "invalid asset id")
		return
	}

	if err := c.ContentService.DeleteAsset(ctx.Request.Context(), uint(id)); err != nil {
		if errors.Is(err, util.ErrAssetNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}
