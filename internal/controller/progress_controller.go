package controller

import (
	"rl_academy_backend/internal/model"
	"rl_academy_backend/internal/service"
	"rl_academy_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

func currentUserID(ctx *gin.Context) (uint, bool) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return 0, false
	}
	return claims.UserID, true
}

// Overview godoc
// @Summary 学习进度总览
// @Description 返回完成课时、测验得分、检查点得分与整体完成百分比
// @Tags 进度
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.ProgressOverview}
// @Router /api/progress [get]
func (c *ProgressController) Overview(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	overview, err := c.ProgressService.Overview(ctx.Request.Context(), userID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, overview)
}

type CompleteLessonRequest struct {
	LessonID string `json:"lessonId" binding:"required"`
}

// CompleteLesson godoc
// @Summary 标记课时完成
// @Description 幂等操作，重复标记不产生变化
// @Tags 进度
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body CompleteLessonRequest true "课时ID"
// @Success 200 {object} util.Response
// @Router /api/progress/lessons/complete [post]
func (c *ProgressController) CompleteLesson(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req CompleteLessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.ProgressService.MarkLessonComplete(ctx.Request.Context(), userID, req.LessonID); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

type QuizScoreRequest struct {
	LessonID string `json:"lessonId" binding:"required"`
	Score    *int   `json:"score" binding:"required,min=0,max=100"`
}

// UpdateQuizScore godoc
// @Summary 记录测验得分
// @Description 覆盖写最新得分，达标分自动标记课时完成
// @Tags 进度
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body QuizScoreRequest true "课时ID与得分"
// @Success 200 {object} util.Response
// @Router /api/progress/quiz-score [post]
func (c *ProgressController) UpdateQuizScore(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req QuizScoreRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.ProgressService.UpdateQuizScore(ctx.Request.Context(), userID, req.LessonID, *req.Score); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

type QuizResponseRequest struct {
	LessonID   string `json:"lessonId" binding:"required"`
	QuestionID string `json:"questionId" binding:"required"`
	UserAnswer string `json:"userAnswer" binding:"required"`
	Feedback   string `json:"feedback"`
	Score      int    `json:"score" binding:"min=0,max=100"`
}

// SaveQuizResponse godoc
// @Summary 保存一次作答记录
// @Description 追加写入，历史记录不可变
// @Tags 进度
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body QuizResponseRequest true "作答内容与评阅结果"
// @Success 200 {object} util.Response
// @Router /api/progress/quiz-response [post]
func (c *ProgressController) SaveQuizResponse(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req QuizResponseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	resp := model.QuizResponse{
		QuestionID: req.QuestionID,
		UserAnswer: req.UserAnswer,
		Feedback:   req.Feedback,
		Score:      req.Score,
	}
	if err := c.ProgressService.SaveQuizResponse(ctx.Request.Context(), userID, req.LessonID, resp); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

type ExerciseAttemptRequest struct {
	LessonID string `json:"lessonId" binding:"required"`
}

// RecordExerciseAttempt godoc
// @Summary 累加练习尝试次数
// @Tags 进度
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body ExerciseAttemptRequest true "课时ID"
// @Success 200 {object} util.Response{data=object} "最新尝试次数"
// @Router /api/progress/exercise-attempt [post]
func (c *ProgressController) RecordExerciseAttempt(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req ExerciseAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	attempts, err := c.ProgressService.UpdateExerciseAttempts(ctx.Request.Context(), userID, req.LessonID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"attempts": attempts})
}

type SaveCodeRequest struct {
	LessonID string `json:"lessonId" binding:"required"`
	Code     string `json:"code" binding:"required"`
}

// SaveCode godoc
// @Summary 保存练习代码
// @Description 按课时覆盖写，只保留最近一份
// @Tags 进度
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body SaveCodeRequest true "课时ID与代码"
// @Success 200 {object} util.Response
// @Router /api/progress/code [post]
func (c *ProgressController) SaveCode(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req SaveCodeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.ProgressService.SaveUserCode(ctx.Request.Context(), userID, req.LessonID, req.Code); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// GetCode godoc
// @Summary 读取练习代码
// @Tags 进度
// @Produce  json
// @Security BearerAuth
// @Param   lessonId path string true "课时ID"
// @Success 200 {object} util.Response{data=object}
// @Failure 404 {object} util.Response "没有保存过代码"
// @Router /api/progress/code/{lessonId} [get]
func (c *ProgressController) GetCode(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	code, found, err := c.ProgressService.GetUserCode(ctx.Request.Context(), userID, ctx.Param("lessonId"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if !found {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, gin.H{"code": code})
}

type PositionRequest struct {
	ModuleID string `json:"moduleId" binding:"required"`
	LessonID string `json:"lessonId" binding:"required"`
}

// UpdatePosition godoc
// @Summary 记录当前学习位置
// @Tags 进度
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body PositionRequest true "模块与课时ID"
// @Success 200 {object} util.Response
// @Router /api/progress/position [post]
func (c *ProgressController) UpdatePosition(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req PositionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.ProgressService.UpdateCurrentPosition(ctx.Request.Context(), userID, req.ModuleID, req.LessonID); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

type LearningTimeRequest struct {
	Minutes int `json:"minutes" binding:"required,min=1"`
}

// AddLearningTime godoc
// @Summary 累计学习时长
// @Description 只增不减，负值或零被拒绝
// @Tags 进度
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body LearningTimeRequest true "本次学习分钟数"
// @Success 200 {object} util.Response
// @Router /api/progress/learning-time [post]
func (c *ProgressController) AddLearningTime(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req LearningTimeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.ProgressService.UpdateLearningTime(ctx.Request.Context(), userID, req.Minutes); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// LessonStatus godoc
// @Summary 单个课时的完成状态与得分
// @Tags 进度
// @Produce  json
// @Security BearerAuth
// @Param   lessonId path string true "课时ID"
// @Success 200 {object} util.Response{data=object}
// @Router /api/progress/lessons/{lessonId} [get]
func (c *ProgressController) LessonStatus(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	lessonID := ctx.Param("lessonId")

	completed, err := c.ProgressService.IsLessonCompleted(ctx.Request.Context(), userID, lessonID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	score, hasScore, err := c.ProgressService.GetLessonScore(ctx.Request.Context(), userID, lessonID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	resp := gin.H{"lessonId": lessonID, "completed": completed}
	if hasScore {
		resp["score"] = score
	}
	util.Success(ctx, resp)
}
