package service

import (
	"context"
	"errors"
	"rl_academy_backend/pkg/logger"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	logger.Log = zap.NewNop()
}

func fixedPicker(i int) FollowUpPicker {
	return func(n int) int { return i % n }
}

func TestScoreAnswerBriefAnswer(t *testing.T) {
	e := NewHeuristicEvaluator(fixedPicker(0))

	ev := e.Evaluate("What is a Markov decision process?", "It is a model.", []string{"states", "transitions"})

	assert.Equal(t, EvaluationScored, ev.Kind)
	assert.Equal(t, 30, ev.Score)
	assert.Equal(t, "Your answer is too brief. RL concepts require detailed explanation.", ev.Message)
	assert.Equal(t, []string{
		"Expand on your reasoning",
		"Include examples or scenarios",
		"Explain the 'why' behind your answer",
	}, ev.Suggestions)
	assert.Empty(t, ev.FollowUp)
}

func TestScoreAnswerMediumLengthPartialCoverage(t *testing.T) {
	e := NewHeuristicEvaluator(fixedPicker(0))

	// 50-99字符，两个概念命中一个，覆盖率0.5
	answer := "The agent tries new arms sometimes, which is a form of trying things out blindly."
	require.GreaterOrEqual(t, len(answer), 50)
	require.Less(t, len(answer), 100)

	ev := e.Evaluate("Why does an agent try new arms?", answer, []string{"arms", "regret"})

	assert.Equal(t, 60, ev.Score)
	assert.Equal(t, "You're on the right track but could elaborate more.", ev.Message)
	assert.Len(t, ev.Suggestions, 2)
	assert.Empty(t, ev.FollowUp)
}

func TestScoreAnswerFullCoverage(t *testing.T) {
	e := NewHeuristicEvaluator(fixedPicker(0))

	answer := "A policy maps each state to an action, and the agent updates its value estimates " +
		"using the reward signal it observes after every interaction with the environment."
	require.GreaterOrEqual(t, len(answer), 100)

	ev := e.Evaluate("How does an agent improve its behaviour?", answer, []string{"policy", "reward", "value"})

	assert.Equal(t, 100, ev.Score)
	assert.Equal(t, "Excellent! You've covered all the key concepts thoroughly.", ev.Message)
	// 基础两条建议 + 术语加分建议
	assert.Len(t, ev.Suggestions, 3)
	assert.Contains(t, ev.Suggestions, "Good use of RL terminology")
	// 命中policy概念时追问固定
	assert.Equal(t, "How would this policy perform in a stochastic environment?", ev.FollowUp)
}

func TestScoreAnswerMissingConceptSuggestion(t *testing.T) {
	e := NewHeuristicEvaluator(fixedPicker(0))

	answer := "The discounted return matters because future reward is worth less than immediate " +
		"reward, and the reward signal drives all learning updates over every episode we run."
	require.GreaterOrEqual(t, len(answer), 100)

	// 三个概念命中两个，覆盖率约0.67
	ev := e.Evaluate("Explain the return.", answer, []string{"reward", "episode", "horizon"})

	assert.Equal(t, "Good answer! You've grasped the main ideas.", ev.Message)
	assert.Contains(t, ev.Suggestions, "Consider also discussing: horizon")
}

func TestScoreAnswerLowCoverageNamesFirstConcept(t *testing.T) {
	e := NewHeuristicEvaluator(fixedPicker(0))

	answer := strings.Repeat("This explanation talks about something else entirely and at length. ", 3)
	require.GreaterOrEqual(t, len(answer), 100)

	ev := e.Evaluate("Explain the Bellman equation.", answer, []string{"bootstrapping", "recursion", "expectation"})

	assert.Equal(t, 60, ev.Score)
	assert.Equal(t, "Your answer shows some understanding but misses key points.", ev.Message)
	assert.Contains(t, ev.Suggestions, "Important concept to consider: bootstrapping")
}

func TestScoreAnswerEmptyConceptList(t *testing.T) {
	e := NewHeuristicEvaluator(fixedPicker(0))

	answer := strings.Repeat("A long free-form reflection on the topic without any target list. ", 3)
	require.GreaterOrEqual(t, len(answer), 100)

	ev := e.Evaluate("Reflect on the lesson.", answer, nil)

	// 空概念列表不会崩，覆盖率按0处理
	assert.Equal(t, 60, ev.Score)
	assert.Equal(t, []string{"Think about how this relates to the broader RL framework"}, ev.Suggestions)
}

func TestScoreAnswerKeywordBonus(t *testing.T) {
	e := NewHeuristicEvaluator(fixedPicker(0))

	// 中等长度、零覆盖，但命中policy/value/reward三个术语
	answer := "The policy uses value estimates derived from the reward signal over time here."
	require.GreaterOrEqual(t, len(answer), 50)
	require.Less(t, len(answer), 100)

	ev := e.Evaluate("Describe learning.", answer, []string{"bandit"})

	assert.Equal(t, 60, ev.Score)
	assert.Contains(t, ev.Suggestions, "Good use of RL terminology")
}

func TestScoreAnswerSuggestionsCappedAtThree(t *testing.T) {
	e := NewHeuristicEvaluator(fixedPicker(0))

	// 简短回答给3条固定建议，术语加分的第4条被截断
	ev := e.Evaluate("Describe learning.", "policy value reward state action", []string{"bandit"})

	assert.Equal(t, 40, ev.Score)
	assert.Len(t, ev.Suggestions, 3)
}

func TestScoreAnswerMonotoneInCoverage(t *testing.T) {
	e := NewHeuristicEvaluator(fixedPicker(0))
	concepts := []string{"alpha", "beta", "gamma", "delta"}

	base := strings.Repeat("Here is a sufficiently long answer body used for the comparison test. ", 2)
	require.GreaterOrEqual(t, len(base), 100)

	prev := -1
	for i := 0; i <= len(concepts); i++ {
		answer := base + strings.Join(concepts[:i], " ")
		ev := e.Evaluate("Compare things.", answer, concepts)
		assert.GreaterOrEqual(t, ev.Score, prev, "coverage %d", i)
		prev = ev.Score
	}
}

func TestGenericFollowUpUsesPicker(t *testing.T) {
	e := NewHeuristicEvaluator(fixedPicker(2))

	answer := "The agent accumulates reward from each state it visits, and the total reward over " +
		"the whole trajectory determines how good the behaviour was in every single state."
	require.GreaterOrEqual(t, len(answer), 100)

	ev := e.Evaluate("What drives learning?", answer, []string{"reward", "state"})

	require.GreaterOrEqual(t, ev.Score, FollowUpScore)
	assert.Equal(t, genericFollowUps[2], ev.FollowUp)
}

func TestNarrativePatterns(t *testing.T) {
	tests := []struct {
		name     string
		question string
		answer   string
		passage  string
	}{
		{
			name:     "epsilon zero correct",
			question: "What happens if we set epsilon to 0?",
			answer:   "The agent becomes greedy and only exploits what it already knows.",
			passage:  epsilonZeroCorrect,
		},
		{
			name:     "epsilon zero backwards",
			question: "What happens if we set epsilon to 0?",
			answer:   "It would explore all the time.",
			passage:  epsilonZeroBackwards,
		},
		{
			name:     "epsilon one correct",
			question: "And what if epsilon is 1?",
			answer:   "Every action is random, the agent never uses its estimates.",
			passage:  epsilonOneCorrect,
		},
		{
			name:     "epsilon one backwards",
			question: "And what if epsilon is 1?",
			answer:   "The agent becomes fully greedy.",
			passage:  epsilonOneBackwards,
		},
		{
			name:     "generic epsilon tradeoff",
			question: "How does epsilon shape behaviour?",
			answer:   "It controls the balance between trying new things and using knowledge.",
			passage:  epsilonTradeoff,
		},
		{
			name:     "q value meaning",
			question: "What does a Q-value represent?",
			answer:   "It is the expected reward for taking that action.",
			passage:  qValueExplained,
		},
	}

	e := NewHeuristicEvaluator(fixedPicker(0))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := e.Evaluate(tt.question, tt.answer, nil)
			assert.Equal(t, EvaluationNarrative, ev.Kind)
			assert.Equal(t, 100, ev.Score)
			assert.Equal(t, tt.passage, ev.Message)
			assert.Empty(t, ev.Suggestions)
			assert.Empty(t, ev.FollowUp)
		})
	}
}

func TestNarrativeNotMatchedWithoutKeywords(t *testing.T) {
	e := NewHeuristicEvaluator(fixedPicker(0))

	// 问题含epsilon但答案没有任何关键词时走打分路径
	ev := e.Evaluate("How does epsilon shape behaviour?", "I do not know.", nil)
	assert.Equal(t, EvaluationScored, ev.Kind)
}

type fakeProvider struct {
	configured bool
	text       string
	err        error
	block      bool
}

func (f *fakeProvider) Configured() bool { return f.configured }

func (f *fakeProvider) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.text, f.err
}

func TestEvaluateUsesProviderWhenAvailable(t *testing.T) {
	svc := NewEvaluationService(
		&fakeProvider{configured: true, text: "Thoughtful answer, well done."},
		NewHeuristicEvaluator(fixedPicker(0)),
		time.Second,
	)

	resp := svc.Evaluate(context.Background(), EvaluateRequest{
		Question: "What is a policy?",
		Answer:   "short",
	})

	assert.Equal(t, 100, resp.Score)
	assert.Equal(t, "Thoughtful answer, well done.", resp.Feedback)
	assert.Empty(t, resp.Suggestions)
}

func TestEvaluateFallsBackOnProviderError(t *testing.T) {
	svc := NewEvaluationService(
		&fakeProvider{configured: true, err: errors.New("upstream down")},
		NewHeuristicEvaluator(fixedPicker(0)),
		time.Second,
	)

	resp := svc.Evaluate(context.Background(), EvaluateRequest{
		Question: "What is a policy?",
		Answer:   "short",
	})

	// 静默降级到本地打分
	assert.Equal(t, 30, resp.Score)
	assert.Equal(t, "Your answer is too brief. RL concepts require detailed explanation.", resp.Feedback)
}

func TestEvaluateFallsBackOnProviderTimeout(t *testing.T) {
	svc := NewEvaluationService(
		&fakeProvider{configured: true, block: true},
		NewHeuristicEvaluator(fixedPicker(0)),
		10*time.Millisecond,
	)

	start := time.Now()
	resp := svc.Evaluate(context.Background(), EvaluateRequest{
		Question: "What is a policy?",
		Answer:   "short",
	})

	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, 30, resp.Score)
}

func TestEvaluateSkipsUnconfiguredProvider(t *testing.T) {
	svc := NewEvaluationService(
		&fakeProvider{configured: false, text: "should not be used"},
		NewHeuristicEvaluator(fixedPicker(0)),
		time.Second,
	)

	resp := svc.Evaluate(context.Background(), EvaluateRequest{
		Question: "What is a policy?",
		Answer:   "short",
	})

	assert.Equal(t, 30, resp.Score)
}

func TestEvaluateEmptyProviderTextFallsBack(t *testing.T) {
	svc := NewEvaluationService(
		&fakeProvider{configured: true, text: ""},
		NewHeuristicEvaluator(fixedPicker(0)),
		time.Second,
	)

	resp := svc.Evaluate(context.Background(), EvaluateRequest{
		Question: "What is a policy?",
		Answer:   "short",
	})

	assert.Equal(t, 30, resp.Score)
}
