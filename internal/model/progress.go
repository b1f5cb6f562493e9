package model

import (
	"time"
)

// ProgressRecord 单个学员的学习进度，单写者（学员本人的请求串行写入）。
// 内存态使用集合/映射，持久化时转为快照（见 ProgressSnapshot）。
type ProgressRecord struct {
	UserID               uint
	CompletedLessons     map[string]struct{}
	QuizScores           map[string]int
	QuizResponses        map[string][]QuizResponse
	ExerciseAttempts     map[string]int
	CurrentModule        string
	CurrentLesson        string
	LastActive           time.Time
	TotalLearningMinutes int
	CheckpointScores     map[string]int
}

// QuizResponse 一次作答记录，写入后不可变
type QuizResponse struct {
	QuestionID string    `json:"questionId"`
	UserAnswer string    `json:"userAnswer"`
	Feedback   string    `json:"feedback"`
	Score      int       `json:"score"`
	Timestamp  time.Time `json:"timestamp"`
}

// UserCode 学员最近一次保存的练习代码，按课时覆盖写
type UserCode struct {
	LessonID     string    `json:"lessonId"`
	Code         string    `json:"code"`
	LastModified time.Time `json:"lastModified"`
}

func NewProgressRecord(userID uint) *ProgressRecord {
	return &ProgressRecord{
		UserID:           userID,
		CompletedLessons: make(map[string]struct{}),
		QuizScores:       make(map[string]int),
		QuizResponses:    make(map[string][]QuizResponse),
		ExerciseAttempts: make(map[string]int),
		CheckpointScores: make(map[string]int),
		LastActive:       time.Now(),
	}
}

// ProgressSnapshot 进度的序列化形态：集合/映射展开为关联列表，
// 恢复时按键去重回填（后写覆盖），时间戳按RFC3339还原。
type ProgressSnapshot struct {
	UserID               uint                   `json:"userId"`
	CompletedLessons     []string               `json:"completedLessons"`
	QuizScores           []LessonScoreEntry     `json:"quizScores"`
	QuizResponses        []ResponseHistoryEntry `json:"quizResponses"`
	ExerciseAttempts     []AttemptEntry         `json:"exerciseAttempts"`
	CurrentModule        string                 `json:"currentModule"`
	CurrentLesson        string                 `json:"currentLesson"`
	LastActive           time.Time              `json:"lastActive"`
	TotalLearningMinutes int                    `json:"totalLearningMinutes"`
	CheckpointScores     []ModuleScoreEntry     `json:"checkpointScores"`
	UserCode             []UserCode             `json:"userCode"`
}

type LessonScoreEntry struct {
	LessonID string `json:"lessonId"`
	Score    int    `json:"score"`
}

type ModuleScoreEntry struct {
	ModuleID string `json:"moduleId"`
	Score    int    `json:"score"`
}

type AttemptEntry struct {
	LessonID string `json:"lessonId"`
	Attempts int    `json:"attempts"`
}

type ResponseHistoryEntry struct {
	LessonID  string         `json:"lessonId"`
	Responses []QuizResponse `json:"responses"`
}
