package controller

import (
	"rl_academy_backend/internal/service"
	"rl_academy_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type EvaluationController struct {
	EvaluationService *service.EvaluationService
}

func NewEvaluationController(evaluationService *service.EvaluationService) *EvaluationController {
	return &EvaluationController{EvaluationService: evaluationService}
}

// EvaluateAnswer godoc
// @Summary 评阅开放式问题的答案
// @Description 优先调用外部大模型评阅，不可用时降级到本地规则打分
// @Tags 评阅
// @Accept  json
// @Produce  json
// @Param   body body service.EvaluateRequest true "问题与学员答案"
// @Success 200 {object} util.Response{data=service.EvaluateResponse}
// @Failure 400 {object} util.Response "问题或答案为空"
// @Router /api/evaluate-answer [post]
func (c *EvaluationController) EvaluateAnswer(ctx *gin.Context) {
	var req service.EvaluateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result := c.EvaluationService.Evaluate(ctx.Request.Context(), req)
	util.Success(ctx, result)
}
