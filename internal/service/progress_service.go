package service

import (
	"context"
	"rl_academy_backend/internal/model"
	"rl_academy_backend/internal/repository"
	"time"
)

// ProgressService 进度编排：每次写操作都是 读快照→内存修改→整体回写，
// 同一学员的请求串行处理（单写者），所以不需要跨请求锁
type ProgressService struct {
	ProgressRepo   *repository.ProgressRepository
	CurriculumRepo *repository.CurriculumRepository
}

func NewProgressService(progressRepo *repository.ProgressRepository, curriculumRepo *repository.CurriculumRepository) *ProgressService {
	return &ProgressService{
		ProgressRepo:   progressRepo,
		CurriculumRepo: curriculumRepo,
	}
}

// ProgressOverview 进度查询的聚合视图
type ProgressOverview struct {
	CompletedLessons     []string                     `json:"completedLessons"`
	QuizScores           []model.LessonScoreEntry     `json:"quizScores"`
	QuizResponses        []model.ResponseHistoryEntry `json:"quizResponses"`
	ExerciseAttempts     []model.AttemptEntry         `json:"exerciseAttempts"`
	CheckpointScores     []model.ModuleScoreEntry     `json:"checkpointScores"`
	CurrentModule        string                       `json:"currentModule"`
	CurrentLesson        string                       `json:"currentLesson"`
	LastActive           time.Time                    `json:"lastActive"`
	TotalLearningMinutes int                          `json:"totalLearningMinutes"`
	OverallProgress      int                          `json:"overallProgress"`
}

// loadStore 读取学员进度，没有快照时返回全新进度
func (s *ProgressService) loadStore(ctx context.Context, userID uint) (*ProgressStore, error) {
	snap, err := s.ProgressRepo.LoadSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return NewProgressStore(userID), nil
	}
	return RestoreProgressStore(snap), nil
}

// mutate 读-改-写，写失败时本次修改不落盘
func (s *ProgressService) mutate(ctx context.Context, userID uint, fn func(store *ProgressStore)) (*ProgressStore, error) {
	store, err := s.loadStore(ctx, userID)
	if err != nil {
		return nil, err
	}
	fn(store)
	if err := s.ProgressRepo.SaveSnapshot(ctx, store.Snapshot()); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *ProgressService) MarkLessonComplete(ctx context.Context, userID uint, lessonID string) error {
	_, err := s.mutate(ctx, userID, func(store *ProgressStore) {
		store.MarkLessonComplete(lessonID)
	})
	return err
}

func (s *ProgressService) UpdateQuizScore(ctx context.Context, userID uint, lessonID string, score int) error {
	_, err := s.mutate(ctx, userID, func(store *ProgressStore) {
		store.UpdateQuizScore(lessonID, score)
	})
	return err
}

func (s *ProgressService) SaveQuizResponse(ctx context.Context, userID uint, lessonID string, resp model.QuizResponse) error {
	if resp.Timestamp.IsZero() {
		resp.Timestamp = time.Now()
	}
	_, err := s.mutate(ctx, userID, func(store *ProgressStore) {
		store.SaveQuizResponse(lessonID, resp)
	})
	return err
}

// UpdateExerciseAttempts 累加尝试次数并返回最新值
func (s *ProgressService) UpdateExerciseAttempts(ctx context.Context, userID uint, lessonID string) (int, error) {
	var attempts int
	_, err := s.mutate(ctx, userID, func(store *ProgressStore) {
		attempts = store.UpdateExerciseAttempts(lessonID)
	})
	return attempts, err
}

func (s *ProgressService) UpdateCheckpointScore(ctx context.Context, userID uint, moduleID string, score int) error {
	_, err := s.mutate(ctx, userID, func(store *ProgressStore) {
		store.UpdateCheckpointScore(moduleID, score)
	})
	return err
}

// RecordCheckpointResult 检查点判卷落盘：模块得分、检查点课时得分与逐题作答历史
// 在一次快照写入中完成
func (s *ProgressService) RecordCheckpointResult(ctx context.Context, userID uint, moduleID, lessonID string, score int, responses []model.QuizResponse) error {
	_, err := s.mutate(ctx, userID, func(store *ProgressStore) {
		store.UpdateCheckpointScore(moduleID, score)
		if lessonID != "" {
			store.UpdateQuizScore(lessonID, score)
			for _, resp := range responses {
				store.SaveQuizResponse(lessonID, resp)
			}
		}
	})
	return err
}

func (s *ProgressService) SaveUserCode(ctx context.Context, userID uint, lessonID, code string) error {
	_, err := s.mutate(ctx, userID, func(store *ProgressStore) {
		store.SaveUserCode(lessonID, code)
	})
	return err
}

func (s *ProgressService) GetUserCode(ctx context.Context, userID uint, lessonID string) (string, bool, error) {
	store, err := s.loadStore(ctx, userID)
	if err != nil {
		return "", false, err
	}
	code, ok := store.GetUserCode(lessonID)
	return code, ok, nil
}

func (s *ProgressService) UpdateCurrentPosition(ctx context.Context, userID uint, moduleID, lessonID string) error {
	_, err := s.mutate(ctx, userID, func(store *ProgressStore) {
		store.UpdateCurrentPosition(moduleID, lessonID)
	})
	return err
}

func (s *ProgressService) UpdateLearningTime(ctx context.Context, userID uint, minutes int) error {
	_, err := s.mutate(ctx, userID, func(store *ProgressStore) {
		store.UpdateLearningTime(minutes)
	})
	return err
}

func (s *ProgressService) IsLessonCompleted(ctx context.Context, userID uint, lessonID string) (bool, error) {
	store, err := s.loadStore(ctx, userID)
	if err != nil {
		return false, err
	}
	return store.IsLessonCompleted(lessonID), nil
}

func (s *ProgressService) GetLessonScore(ctx context.Context, userID uint, lessonID string) (int, bool, error) {
	store, err := s.loadStore(ctx, userID)
	if err != nil {
		return 0, false, err
	}
	score, ok := store.GetLessonScore(lessonID)
	return score, ok, nil
}

// Overview 聚合进度视图，完成百分比的分母取当前课程树的课时总数
func (s *ProgressService) Overview(ctx context.Context, userID uint) (*ProgressOverview, error) {
	store, err := s.loadStore(ctx, userID)
	if err != nil {
		return nil, err
	}
	totalLessons, err := s.CurriculumRepo.CountLessons()
	if err != nil {
		return nil, err
	}

	snap := store.Snapshot()
	return &ProgressOverview{
		CompletedLessons:     snap.CompletedLessons,
		QuizScores:           snap.QuizScores,
		QuizResponses:        snap.QuizResponses,
		ExerciseAttempts:     snap.ExerciseAttempts,
		CheckpointScores:     snap.CheckpointScores,
		CurrentModule:        snap.CurrentModule,
		CurrentLesson:        snap.CurrentLesson,
		LastActive:           snap.LastActive,
		TotalLearningMinutes: snap.TotalLearningMinutes,
		OverallProgress:      store.OverallProgress(int(totalLessons)),
	}, nil
}

// Reset 清空学员进度（管理用途）
func (s *ProgressService) Reset(ctx context.Context, userID uint) error {
	return s.ProgressRepo.DeleteSnapshot(ctx, userID)
}
