package service

import (
	"encoding/json"
	"rl_academy_backend/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkLessonCompleteIdempotent(t *testing.T) {
	s := NewProgressStore(1)

	s.MarkLessonComplete("lesson-1-1")
	s.MarkLessonComplete("lesson-1-1")
	s.MarkLessonComplete("lesson-1-1")

	assert.True(t, s.IsLessonCompleted("lesson-1-1"))
	assert.Len(t, s.Record.CompletedLessons, 1)
}

func TestUpdateQuizScorePassingMarksComplete(t *testing.T) {
	tests := []struct {
		name      string
		score     int
		completed bool
	}{
		{"below passing", 69, false},
		{"exactly passing", 70, true},
		{"above passing", 100, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewProgressStore(1)
			s.UpdateQuizScore("lesson-1-2", tt.score)

			score, ok := s.GetLessonScore("lesson-1-2")
			require.True(t, ok)
			assert.Equal(t, tt.score, score)
			assert.Equal(t, tt.completed, s.IsLessonCompleted("lesson-1-2"))
		})
	}
}

func TestUpdateQuizScoreDoesNotUncomplete(t *testing.T) {
	s := NewProgressStore(1)

	s.UpdateQuizScore("lesson-1-2", 90)
	require.True(t, s.IsLessonCompleted("lesson-1-2"))

	// 低分重考覆盖得分，但完成状态保留
	s.UpdateQuizScore("lesson-1-2", 40)
	score, _ := s.GetLessonScore("lesson-1-2")
	assert.Equal(t, 40, score)
	assert.True(t, s.IsLessonCompleted("lesson-1-2"))
}

func TestSaveQuizResponseAppendOnly(t *testing.T) {
	s := NewProgressStore(1)

	s.SaveQuizResponse("lesson-1-2", model.QuizResponse{QuestionID: "q-1", UserAnswer: "first", Score: 40, Timestamp: time.Now()})
	s.SaveQuizResponse("lesson-1-2", model.QuizResponse{QuestionID: "q-1", UserAnswer: "second", Score: 85, Timestamp: time.Now()})

	responses := s.Record.QuizResponses["lesson-1-2"]
	require.Len(t, responses, 2)
	assert.Equal(t, "first", responses[0].UserAnswer)
	assert.Equal(t, "second", responses[1].UserAnswer)
}

func TestUpdateExerciseAttemptsMonotone(t *testing.T) {
	s := NewProgressStore(1)

	assert.Equal(t, 1, s.UpdateExerciseAttempts("lesson-1-3"))
	assert.Equal(t, 2, s.UpdateExerciseAttempts("lesson-1-3"))
	assert.Equal(t, 3, s.UpdateExerciseAttempts("lesson-1-3"))
	assert.Equal(t, 1, s.UpdateExerciseAttempts("lesson-2-1"))
}

func TestUpdateLearningTimeNeverSubtracts(t *testing.T) {
	s := NewProgressStore(1)

	s.UpdateLearningTime(25)
	s.UpdateLearningTime(-10)
	s.UpdateLearningTime(0)
	s.UpdateLearningTime(5)

	assert.Equal(t, 30, s.Record.TotalLearningMinutes)
}

func TestUserCodeOverwrite(t *testing.T) {
	s := NewProgressStore(1)

	_, ok := s.GetUserCode("lesson-1-3")
	assert.False(t, ok)

	s.SaveUserCode("lesson-1-3", "epsilon = 0.1")
	s.SaveUserCode("lesson-1-3", "epsilon = 0.3")

	code, ok := s.GetUserCode("lesson-1-3")
	require.True(t, ok)
	assert.Equal(t, "epsilon = 0.3", code)
}

func TestOverallProgress(t *testing.T) {
	tests := []struct {
		name      string
		completed int
		total     int
		want      int
	}{
		{"no lessons defined", 0, 0, 0},
		{"nothing completed", 0, 7, 0},
		{"rounds to nearest", 1, 7, 14},
		{"rounds up", 5, 7, 71},
		{"all completed", 7, 7, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewProgressStore(1)
			for i := 0; i < tt.completed; i++ {
				s.MarkLessonComplete(string(rune('a' + i)))
			}
			assert.Equal(t, tt.want, s.OverallProgress(tt.total))
		})
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := NewProgressStore(42)
	s.MarkLessonComplete("lesson-1-1")
	s.UpdateQuizScore("lesson-1-2", 85)
	s.SaveQuizResponse("lesson-1-2", model.QuizResponse{
		QuestionID: "q-1-2-1",
		UserAnswer: "greedy all the way",
		Feedback:   "not quite",
		Score:      55,
		Timestamp:  time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	})
	s.UpdateExerciseAttempts("lesson-1-3")
	s.UpdateExerciseAttempts("lesson-1-3")
	s.UpdateCheckpointScore("module-1", 78)
	s.SaveUserCode("lesson-1-3", "agent.act()")
	s.UpdateCurrentPosition("module-1", "lesson-1-3")
	s.UpdateLearningTime(45)

	// 快照走一遍JSON，模拟持久化
	data, err := json.Marshal(s.Snapshot())
	require.NoError(t, err)
	var snap model.ProgressSnapshot
	require.NoError(t, json.Unmarshal(data, &snap))

	restored := RestoreProgressStore(&snap)

	assert.Equal(t, uint(42), restored.Record.UserID)
	assert.True(t, restored.IsLessonCompleted("lesson-1-1"))
	assert.True(t, restored.IsLessonCompleted("lesson-1-2"))
	score, ok := restored.GetLessonScore("lesson-1-2")
	require.True(t, ok)
	assert.Equal(t, 85, score)
	assert.Equal(t, 2, restored.Record.ExerciseAttempts["lesson-1-3"])
	assert.Equal(t, 78, restored.Record.CheckpointScores["module-1"])
	assert.Equal(t, "module-1", restored.Record.CurrentModule)
	assert.Equal(t, "lesson-1-3", restored.Record.CurrentLesson)
	assert.Equal(t, 45, restored.Record.TotalLearningMinutes)

	code, ok := restored.GetUserCode("lesson-1-3")
	require.True(t, ok)
	assert.Equal(t, "agent.act()", code)

	responses := restored.Record.QuizResponses["lesson-1-2"]
	require.Len(t, responses, 1)
	assert.Equal(t, "q-1-2-1", responses[0].QuestionID)
	assert.True(t, responses[0].Timestamp.Equal(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)))
}

func TestSnapshotDeterministicOrder(t *testing.T) {
	s := NewProgressStore(1)
	s.MarkLessonComplete("lesson-2-1")
	s.MarkLessonComplete("lesson-1-1")
	s.MarkLessonComplete("lesson-1-2")

	snap := s.Snapshot()
	assert.Equal(t, []string{"lesson-1-1", "lesson-1-2", "lesson-2-1"}, snap.CompletedLessons)
}
