package service

import (
	"context"
	"math"
	"rl_academy_backend/internal/model"
	"rl_academy_backend/internal/repository"
	"rl_academy_backend/internal/util"
	"time"
)

// CurriculumService 课程树读写 + 模块检查点判卷
type CurriculumService struct {
	CurriculumRepo *repository.CurriculumRepository
	Evaluation     *EvaluationService
	Progress       *ProgressService
}

func NewCurriculumService(curriculumRepo *repository.CurriculumRepository, evaluation *EvaluationService, progress *ProgressService) *CurriculumService {
	return &CurriculumService{
		CurriculumRepo: curriculumRepo,
		Evaluation:     evaluation,
		Progress:       progress,
	}
}

func (s *CurriculumService) ListModules() ([]model.Module, error) {
	return s.CurriculumRepo.ListModules()
}

func (s *CurriculumService) GetModule(slug string) (*model.Module, error) {
	return s.CurriculumRepo.FindModuleBySlug(slug)
}

func (s *CurriculumService) GetLesson(slug string) (*model.Lesson, error) {
	return s.CurriculumRepo.FindLessonBySlug(slug)
}

// ensureQuestionIDs 作者漏填的题目ID自动补齐，进度记录按题目ID关联作答历史
func ensureQuestionIDs(questions model.QuestionList) {
	for i := range questions {
		if questions[i].ID == "" {
			questions[i].ID = model.GenerateUUID()
		}
	}
}

func (s *CurriculumService) CreateModule(module *model.Module) error {
	ensureQuestionIDs(module.CheckpointQuestions)
	return s.CurriculumRepo.CreateModule(module)
}

func (s *CurriculumService) UpdateModule(slug string, update *model.Module) (*model.Module, error) {
	module, err := s.CurriculumRepo.FindModuleBySlug(slug)
	if err != nil {
		return nil, err
	}
	module.Title = update.Title
	module.Description = update.Description
	module.Number = update.Number
	module.Prerequisites = update.Prerequisites
	module.EstimatedHours = update.EstimatedHours
	ensureQuestionIDs(update.CheckpointQuestions)
	module.CheckpointQuestions = update.CheckpointQuestions
	return module, s.CurriculumRepo.UpdateModule(module)
}

func (s *CurriculumService) CreateLesson(moduleSlug string, lesson *model.Lesson) error {
	module, err := s.CurriculumRepo.FindModuleBySlug(moduleSlug)
	if err != nil {
		return err
	}
	lesson.ModuleID = module.ID
	ensureQuestionIDs(lesson.Questions)
	return s.CurriculumRepo.CreateLesson(lesson)
}

func (s *CurriculumService) UpdateLesson(slug string, update *model.Lesson) (*model.Lesson, error) {
	lesson, err := s.CurriculumRepo.FindLessonBySlug(slug)
	if err != nil {
		return nil, err
	}
	lesson.Title = update.Title
	lesson.Description = update.Description
	lesson.Type = update.Type
	lesson.Order = update.Order
	lesson.EstimatedMinutes = update.EstimatedMinutes
	lesson.Content = update.Content
	ensureQuestionIDs(update.Questions)
	lesson.Questions = update.Questions
	lesson.StarterCode = update.StarterCode
	lesson.Solution = update.Solution
	lesson.Hints = update.Hints
	lesson.PlaygroundConfig = update.PlaygroundConfig
	return lesson, s.CurriculumRepo.UpdateLesson(lesson)
}

func (s *CurriculumService) DeleteLesson(slug string) error {
	lesson, err := s.CurriculumRepo.FindLessonBySlug(slug)
	if err != nil {
		return err
	}
	return s.CurriculumRepo.DeleteLesson(lesson.ID)
}

// CheckpointResult 检查点判卷结果：逐题讲评 + 取整后的平均分
type CheckpointResult struct {
	ModuleSlug string             `json:"moduleSlug"`
	Score      int                `json:"score"`
	Passed     bool               `json:"passed"`
	Results    []EvaluateResponse `json:"results"`
}

// SubmitCheckpoint 逐题评阅检查点答案，总分为各题平均分（四舍五入），
// 达标线与测验一致，结果写入学员进度
func (s *CurriculumService) SubmitCheckpoint(ctx context.Context, userID uint, moduleSlug string, answers []string) (*CheckpointResult, error) {
	module, err := s.CurriculumRepo.FindModuleBySlug(moduleSlug)
	if err != nil {
		return nil, err
	}
	if len(module.CheckpointQuestions) == 0 {
		return nil, util.ErrNoCheckpoint
	}
	if len(answers) != len(module.CheckpointQuestions) {
		return nil, util.ErrAnswerCountWrong
	}

	results := make([]EvaluateResponse, 0, len(answers))
	responses := make([]model.QuizResponse, 0, len(answers))
	total := 0
	now := time.Now()
	for i, q := range module.CheckpointQuestions {
		resp := s.Evaluation.Evaluate(ctx, EvaluateRequest{
			Question:         q.Prompt,
			Context:          q.Context,
			Answer:           answers[i],
			ExpectedConcepts: q.ExpectedConcepts,
		})
		results = append(results, resp)
		total += resp.Score
		responses = append(responses, model.QuizResponse{
			QuestionID: q.ID,
			UserAnswer: answers[i],
			Feedback:   resp.Feedback,
			Score:      resp.Score,
			Timestamp:  now,
		})
	}
	score := int(math.Round(float64(total) / float64(len(answers))))

	// 作答历史挂在模块的checkpoint课时下
	checkpointLesson := ""
	for _, lesson := range module.Lessons {
		if lesson.Type == model.Checkpoint {
			checkpointLesson = lesson.Slug
			break
		}
	}

	if err := s.Progress.RecordCheckpointResult(ctx, userID, moduleSlug, checkpointLesson, score, responses); err != nil {
		return nil, err
	}

	return &CheckpointResult{
		ModuleSlug: moduleSlug,
		Score:      score,
		Passed:     score >= PassingScore,
		Results:    results,
	}, nil
}
