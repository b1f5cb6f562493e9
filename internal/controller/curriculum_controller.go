package controller

import (
	"errors"
	"rl_academy_backend/internal/model"
	"rl_academy_backend/internal/service"
	"rl_academy_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CurriculumController struct {
	CurriculumService *service.CurriculumService
}

func NewCurriculumController(curriculumService *service.CurriculumService) *CurriculumController {
	return &CurriculumController{CurriculumService: curriculumService}
}

// ListModules godoc
// @Summary 课程模块列表
// @Tags 课程
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.Module}
// @Router /api/modules [get]
func (c *CurriculumController) ListModules(ctx *gin.Context) {
	modules, err := c.CurriculumService.ListModules()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, modules)
}

// GetModule godoc
// @Summary 模块详情（含课时列表）
// @Tags 课程
// @Produce  json
// @Param   slug path string true "模块slug"
// @Success 200 {object} util.Response{data=model.Module}
// @Failure 404 {object} util.Response
// @Router /api/modules/{slug} [get]
func (c *CurriculumController) GetModule(ctx *gin.Context) {
	module, err := c.CurriculumService.GetModule(ctx.Param("slug"))
	if err != nil {
		if errors.Is(err, util.ErrModuleNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, module)
}

// GetLesson godoc
// @Summary 课时详情
// @Tags 课程
// @Produce  json
// @Param   slug path string true "课时slug"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Failure 404 {object} util.Response
// @Router /api/lessons/{slug} [get]
func (c *CurriculumController) GetLesson(ctx *gin.Context) {
	lesson, err := c.CurriculumService.GetLesson(ctx.Param("slug"))
	if err != nil {
		if errors.Is(err, util.ErrLessonNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, lesson)
}

// CreateModule godoc
// @Summary 创建课程模块
// @Tags 课程管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body model.Module true "模块内容"
// @Success 201 {object} util.Response{data=model.Module}
// @Router /api/admin/modules [post]
func (c *CurriculumController) CreateModule(ctx *gin.Context) {
	var module model.Module
	if err := ctx.ShouldBindJSON(&module); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if module.Slug == "" || module.Title == "" {
		util.BadRequest(ctx, "slug and title are required")
		return
	}

	if err := c.CurriculumService.CreateModule(&module); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, module)
}

// UpdateModule godoc
// @Summary 更新课程模块
// @Tags 课程管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   slug path string true "模块slug"
// @Param   body body model.Module true "模块内容"
// @Success 200 {object} util.Response{data=model.Module}
// @Failure 404 {object} util.Response
// @Router /api/admin/modules/{slug} [put]
func (c *CurriculumController) UpdateModule(ctx *gin.Context) {
	var update model.Module
	if err := ctx.ShouldBindJSON(&update); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	module, err := c.CurriculumService.UpdateModule(ctx.Param("slug"), &update)
	if err != nil {
		if errors.Is(err, util.ErrModuleNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, module)
}

// CreateLesson godoc
// @Summary 在模块下创建课时
// @Tags 课程管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   slug path string true "模块slug"
// @Param   body body model.Lesson true "课时内容"
// @Success 201 {object} util.Response{data=model.Lesson}
// @Failure 404 {object} util.Response
// @Router /api/admin/modules/{slug}/lessons [post]
func (c *CurriculumController) CreateLesson(ctx *gin.Context) {
	var lesson model.Lesson
	if err := ctx.ShouldBindJSON(&lesson); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if lesson.Slug == "" || lesson.Title == "" {
		util.BadRequest(ctx, "slug and title are required")
		return
	}

	if err := c.CurriculumService.CreateLesson(ctx.Param("slug"), &lesson); err != nil {
		if errors.Is(err, util.ErrModuleNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, lesson)
}

// UpdateLesson godoc
// @Summary 更新课时
// @Tags 课程管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   slug path string true "课时slug"
// @Param   body body model.Lesson true "课时内容"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Failure 404 {object} util.Response
// @Router /api/admin/lessons/{slug} [put]
func (c *CurriculumController) UpdateLesson(ctx *gin.Context) {
	var update model.Lesson
	if err := ctx.ShouldBindJSON(&update); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.CurriculumService.UpdateLesson(ctx.Param("slug"), &update)
	if err != nil {
		if errors.Is(err, util.ErrLessonNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, lesson)
}

// DeleteLesson godoc
// @Summary 删除课时
// @Tags 课程管理
// @Produce  json
// @Security BearerAuth
// @Param   slug path string true "课时slug"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/lessons/{slug} [delete]
func (c *CurriculumController) DeleteLesson(ctx *gin.Context) {
	if err := c.CurriculumService.DeleteLesson(ctx.Param("slug")); err != nil {
		if errors.Is(err, util.ErrLessonNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

type CheckpointSubmission struct {
	Answers []string `json:"answers" binding:"required"`
}

// SubmitCheckpoint godoc
// @Summary 提交模块检查点答卷
// @Description 逐题评阅并取平均分，结果写入学员进度
// @Tags 课程
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   slug path string true "模块slug"
// @Param   body body CheckpointSubmission true "按题目顺序的答案列表"
// @Success 200 {object} util.Response{data=service.CheckpointResult}
// @Failure 400 {object} util.Response "答案数量与题目不符"
// @Failure 404 {object} util.Response
// @Router /api/modules/{slug}/checkpoint [post]
func (c *CurriculumController) SubmitCheckpoint(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req CheckpointSubmission
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.CurriculumService.SubmitCheckpoint(ctx.Request.Context(), claims.UserID, ctx.Param("slug"), req.Answers)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrModuleNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrNoCheckpoint), errors.Is(err, util.ErrAnswerCountWrong):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, result)
}
