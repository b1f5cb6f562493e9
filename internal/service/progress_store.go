package service

import (
	"math"
	"rl_academy_backend/internal/model"
	"sort"
	"time"
)

// PassingScore 测验达标线，达到即视为完成该课时
const PassingScore = 70

// ProgressStore 单个学员进度的可注入存取对象。
// 单写者模型：同一学员的修改操作串行执行，操作全部同步完成且不失败；
// 缺失的键按零值/空集合处理。
type ProgressStore struct {
	Record   *model.ProgressRecord
	UserCode map[string]model.UserCode
}

func NewProgressStore(userID uint) *ProgressStore {
	return &ProgressStore{
		Record:   model.NewProgressRecord(userID),
		UserCode: make(map[string]model.UserCode),
	}
}

// RestoreProgressStore 从快照回填：关联列表重建为键唯一映射（后写覆盖），
// 作答历史保持原有顺序
func RestoreProgressStore(snap *model.ProgressSnapshot) *ProgressStore {
	s := NewProgressStore(snap.UserID)
	r := s.Record

	for _, id := range snap.CompletedLessons {
		r.CompletedLessons[id] = struct{}{}
	}
	for _, e := range snap.QuizScores {
		r.QuizScores[e.LessonID] = e.Score
	}
	for _, e := range snap.QuizResponses {
		r.QuizResponses[e.LessonID] = append([]model.QuizResponse(nil), e.Responses...)
	}
	for _, e := range snap.ExerciseAttempts {
		r.ExerciseAttempts[e.LessonID] = e.Attempts
	}
	for _, e := range snap.CheckpointScores {
		r.CheckpointScores[e.ModuleID] = e.Score
	}
	for _, uc := range snap.UserCode {
		s.UserCode[uc.LessonID] = uc
	}

	r.CurrentModule = snap.CurrentModule
	r.CurrentLesson = snap.CurrentLesson
	r.LastActive = snap.LastActive
	r.TotalLearningMinutes = snap.TotalLearningMinutes
	return s
}

// MarkLessonComplete 幂等：重复标记不改变完成集合大小
func (s *ProgressStore) MarkLessonComplete(lessonID string) {
	s.Record.CompletedLessons[lessonID] = struct{}{}
	s.Record.LastActive = time.Now()
}

// UpdateQuizScore 覆盖写最新得分；达标分自动标记课时完成
func (s *ProgressStore) UpdateQuizScore(lessonID string, score int) {
	s.Record.QuizScores[lessonID] = score
	s.Record.LastActive = time.Now()
	if score >= PassingScore {
		s.Record.CompletedLessons[lessonID] = struct{}{}
	}
}

// SaveQuizResponse 追加作答历史，不覆盖既有记录
func (s *ProgressStore) SaveQuizResponse(lessonID string, resp model.QuizResponse) {
	s.Record.QuizResponses[lessonID] = append(s.Record.QuizResponses[lessonID], resp)
	s.Record.LastActive = time.Now()
}

// UpdateExerciseAttempts 计数器单调递增，缺失时从0起
func (s *ProgressStore) UpdateExerciseAttempts(lessonID string) int {
	s.Record.ExerciseAttempts[lessonID]++
	s.Record.LastActive = time.Now()
	return s.Record.ExerciseAttempts[lessonID]
}

func (s *ProgressStore) UpdateCheckpointScore(moduleID string, score int) {
	s.Record.CheckpointScores[moduleID] = score
	s.Record.LastActive = time.Now()
}

func (s *ProgressStore) SaveUserCode(lessonID, code string) {
	s.UserCode[lessonID] = model.UserCode{
		LessonID:     lessonID,
		Code:         code,
		LastModified: time.Now(),
	}
}

func (s *ProgressStore) GetUserCode(lessonID string) (string, bool) {
	uc, ok := s.UserCode[lessonID]
	return uc.Code, ok
}

func (s *ProgressStore) UpdateCurrentPosition(moduleID, lessonID string) {
	s.Record.CurrentModule = moduleID
	s.Record.CurrentLesson = lessonID
	s.Record.LastActive = time.Now()
}

// UpdateLearningTime 累计学习时长只增不减，负值忽略
func (s *ProgressStore) UpdateLearningTime(minutes int) {
	if minutes <= 0 {
		return
	}
	s.Record.TotalLearningMinutes += minutes
}

func (s *ProgressStore) IsLessonCompleted(lessonID string) bool {
	_, ok := s.Record.CompletedLessons[lessonID]
	return ok
}

func (s *ProgressStore) GetLessonScore(lessonID string) (int, bool) {
	score, ok := s.Record.QuizScores[lessonID]
	return score, ok
}

// OverallProgress 完成百分比，分母为当前课程树的课时总数
func (s *ProgressStore) OverallProgress(totalLessons int) int {
	if totalLessons <= 0 {
		return 0
	}
	return int(math.Round(float64(len(s.Record.CompletedLessons)) / float64(totalLessons) * 100))
}

// Snapshot 导出序列化快照，键排序保证输出稳定
func (s *ProgressStore) Snapshot() *model.ProgressSnapshot {
	r := s.Record
	snap := &model.ProgressSnapshot{
		UserID:               r.UserID,
		CompletedLessons:     make([]string, 0, len(r.CompletedLessons)),
		QuizScores:           make([]model.LessonScoreEntry, 0, len(r.QuizScores)),
		QuizResponses:        make([]model.ResponseHistoryEntry, 0, len(r.QuizResponses)),
		ExerciseAttempts:     make([]model.AttemptEntry, 0, len(r.ExerciseAttempts)),
		CurrentModule:        r.CurrentModule,
		CurrentLesson:        r.CurrentLesson,
		LastActive:           r.LastActive,
		TotalLearningMinutes: r.TotalLearningMinutes,
		CheckpointScores:     make([]model.ModuleScoreEntry, 0, len(r.CheckpointScores)),
		UserCode:             make([]model.UserCode, 0, len(s.UserCode)),
	}

	for id := range r.CompletedLessons {
		snap.CompletedLessons = append(snap.CompletedLessons, id)
	}
	sort.Strings(snap.CompletedLessons)

	for _, id := range sortedKeys(r.QuizScores) {
		snap.QuizScores = append(snap.QuizScores, model.LessonScoreEntry{LessonID: id, Score: r.QuizScores[id]})
	}
	for _, id := range sortedKeys(r.QuizResponses) {
		snap.QuizResponses = append(snap.QuizResponses, model.ResponseHistoryEntry{LessonID: id, Responses: r.QuizResponses[id]})
	}
	for _, id := range sortedKeys(r.ExerciseAttempts) {
		snap.ExerciseAttempts = append(snap.ExerciseAttempts, model.AttemptEntry{LessonID: id, Attempts: r.ExerciseAttempts[id]})
	}
	for _, id := range sortedKeys(r.CheckpointScores) {
		snap.CheckpointScores = append(snap.CheckpointScores, model.ModuleScoreEntry{ModuleID: id, Score: r.CheckpointScores[id]})
	}
	for _, id := range sortedKeys(s.UserCode) {
		snap.UserCode = append(snap.UserCode, s.UserCode[id])
	}

	return snap
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
