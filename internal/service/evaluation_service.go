package service

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"rl_academy_backend/pkg/logger"
	"rl_academy_backend/pkg/monitoring"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
)

// FollowUpScore 达到该分数才附带追问
const FollowUpScore = 70

// 体现RL理解深度的术语表，命中3个及以上加10分
var rlKeywords = []string{
	"policy", "value", "reward", "state", "action",
	"exploration", "exploitation", "convergence", "optimal",
	"bellman", "discount", "episode",
}

// 通用追问池，答案未命中特定概念时随机选取
var genericFollowUps = []string{
	"How would this change if we considered a continuous action space instead?",
	"What would happen in a non-stationary environment?",
	"How does this relate to the exploration-exploitation tradeoff?",
	"Can you think of a real-world scenario where this would apply?",
	"What are the computational implications of this approach?",
	"How would you modify this for a multi-agent setting?",
}

type EvaluationKind string

const (
	EvaluationScored    EvaluationKind = "scored"
	EvaluationNarrative EvaluationKind = "narrative"
)

// Evaluation 评阅结果。Kind为narrative时Message是整段讲评，
// Suggestions与FollowUp为空；scored时为打分+建议列表。
type Evaluation struct {
	Kind        EvaluationKind `json:"kind"`
	Score       int            `json:"score"`
	Message     string         `json:"message"`
	Suggestions []string       `json:"suggestions,omitempty"`
	FollowUp    string         `json:"followUp,omitempty"`
}

// FollowUpPicker 从n个候选追问里选一个，注入以便测试固定结果
type FollowUpPicker func(n int) int

// HeuristicEvaluator 本地规则评阅器：先尝试手写讲评模式，
// 未命中则按答案长度+概念覆盖率打分
type HeuristicEvaluator struct {
	pick FollowUpPicker
}

func NewHeuristicEvaluator(pick FollowUpPicker) *HeuristicEvaluator {
	if pick == nil {
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		pick = func(n int) int { return rng.Intn(n) }
	}
	return &HeuristicEvaluator{pick: pick}
}

func (e *HeuristicEvaluator) Evaluate(question, answer string, concepts []string) Evaluation {
	if passage, ok := matchNarrativePattern(question, answer); ok {
		return Evaluation{
			Kind:    EvaluationNarrative,
			Score:   100,
			Message: passage,
		}
	}
	return e.scoreAnswer(question, answer, concepts)
}

func (e *HeuristicEvaluator) scoreAnswer(question, answer string, concepts []string) Evaluation {
	answerLower := strings.ToLower(answer)
	answerLength := utf8.RuneCountInString(answer)

	var mentioned []string
	for _, concept := range concepts {
		if strings.Contains(answerLower, strings.ToLower(concept)) {
			mentioned = append(mentioned, concept)
		}
	}
	// 空概念列表时分母取1，覆盖率恒为0
	denominator := len(concepts)
	if denominator < 1 {
		denominator = 1
	}
	coverage := float64(len(mentioned)) / float64(denominator)

	var score float64
	var feedback string
	var suggestions []string

	switch {
	case answerLength < 50:
		score = 30
		feedback = "Your answer is too brief. RL concepts require detailed explanation."
		suggestions = []string{
			"Expand on your reasoning",
			"Include examples or scenarios",
			"Explain the 'why' behind your answer",
		}
	case answerLength < 100:
		score = 50 + coverage*20
		feedback = "You're on the right track but could elaborate more."
		suggestions = []string{
			"Provide more detail on the implications",
			"Consider edge cases or variations",
		}
	default:
		score = 60 + coverage*40
		switch {
		case coverage == 1:
			feedback = "Excellent! You've covered all the key concepts thoroughly."
			suggestions = []string{
				"Great understanding of the core concepts",
				"Well-reasoned explanation",
			}
		case coverage >= 0.5:
			feedback = "Good answer! You've grasped the main ideas."
			suggestions = []string{
				"You correctly identified key aspects",
				fmt.Sprintf("Consider also discussing: %s", firstMissing(concepts, mentioned)),
			}
		default:
			feedback = "Your answer shows some understanding but misses key points."
			suggestions = []string{"Think about how this relates to the broader RL framework"}
			if len(concepts) > 0 {
				suggestions = append([]string{
					fmt.Sprintf("Important concept to consider: %s", concepts[0]),
				}, suggestions...)
			}
		}
	}

	usedKeywords := 0
	for _, keyword := range rlKeywords {
		if strings.Contains(answerLower, keyword) {
			usedKeywords++
		}
	}
	if usedKeywords >= 3 {
		score = math.Min(100, score+10)
		suggestions = append(suggestions, "Good use of RL terminology")
	}

	if len(suggestions) > 3 {
		suggestions = suggestions[:3]
	}

	rounded := int(math.Round(score))
	var followUp string
	if rounded >= FollowUpScore {
		followUp = e.generateFollowUp(mentioned)
	}

	return Evaluation{
		Kind:        EvaluationScored,
		Score:       rounded,
		Message:     feedback,
		Suggestions: suggestions,
		FollowUp:    followUp,
	}
}

// generateFollowUp 优先按命中的概念给定向追问，否则从通用池选取
func (e *HeuristicEvaluator) generateFollowUp(mentioned []string) string {
	if conceptMentioned(mentioned, "exploration") || conceptMentioned(mentioned, "exploitation") {
		return "How would you balance this tradeoff in practice?"
	}
	if conceptMentioned(mentioned, "convergence") {
		return "What conditions need to be met for convergence?"
	}
	if conceptMentioned(mentioned, "policy") {
		return "How would this policy perform in a stochastic environment?"
	}
	return genericFollowUps[e.pick(len(genericFollowUps))]
}

func conceptMentioned(mentioned []string, name string) bool {
	for _, c := range mentioned {
		if strings.EqualFold(c, name) {
			return true
		}
	}
	return false
}

func firstMissing(concepts, mentioned []string) string {
	for _, c := range concepts {
		if !conceptMentioned(mentioned, c) {
			return c
		}
	}
	return ""
}

// CompletionProvider 外部评阅服务的能力接口，实现方自行声明是否可用
type CompletionProvider interface {
	Configured() bool
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// EvaluateRequest 评阅入参。Question与Answer必填，其余为出题时的辅助信息。
type EvaluateRequest struct {
	Question         string   `json:"question" binding:"required"`
	Context          string   `json:"context"`
	Answer           string   `json:"userAnswer" binding:"required"`
	ExpectedConcepts []string `json:"concepts"`
}

// EvaluateResponse 评阅出参，narrative路径下Suggestions与FollowUp为空
type EvaluateResponse struct {
	Score       int      `json:"score"`
	Feedback    string   `json:"feedback"`
	Suggestions []string `json:"suggestions,omitempty"`
	FollowUp    string   `json:"followUp,omitempty"`
}

// EvaluationService 评阅编排：优先走外部大模型（单次尝试、有超时），
// 失败静默降级到本地启发式，学员无感知
type EvaluationService struct {
	Provider  CompletionProvider
	Evaluator *HeuristicEvaluator
	Timeout   time.Duration
}

func NewEvaluationService(provider CompletionProvider, evaluator *HeuristicEvaluator, timeout time.Duration) *EvaluationService {
	return &EvaluationService{
		Provider:  provider,
		Evaluator: evaluator,
		Timeout:   timeout,
	}
}

const evaluateSystemPrompt = `You are an expert RL teacher evaluating student answers.
Evaluate based on understanding, not just correctness.
Score 0-100 based on comprehension depth.
Provide constructive feedback and suggestions.`

func buildEvaluatePrompt(req EvaluateRequest) string {
	ctx := req.Context
	if ctx == "" {
		ctx = "None"
	}
	return fmt.Sprintf(`Question: %s
Context: %s
Key Concepts: %s
Student Answer: %s

Evaluate this answer and provide:
1. Score (0-100)
2. Feedback message
3. Specific suggestions for improvement
4. Optional follow-up question if score > 70`,
		req.Question, ctx, strings.Join(req.ExpectedConcepts, ", "), req.Answer)
}

// Evaluate 单次答案评阅，永不对外报错：外部服务不可用时降级到本地规则
func (s *EvaluationService) Evaluate(ctx context.Context, req EvaluateRequest) EvaluateResponse {
	if s.Provider != nil && s.Provider.Configured() {
		providerCtx, cancel := context.WithTimeout(ctx, s.Timeout)
		defer cancel()

		text, err := s.Provider.Complete(providerCtx, evaluateSystemPrompt, buildEvaluatePrompt(req))
		if err == nil && text != "" {
			monitoring.EvaluationCounter.WithLabelValues("provider").Inc()
			// 外部讲评不拆分打分，按通过处理
			return EvaluateResponse{Score: 100, Feedback: text}
		}
		logger.Log.Warn("AI评阅失败，降级到本地规则",
			zap.Error(err),
		)
	}

	ev := s.Evaluator.Evaluate(req.Question, req.Answer, req.ExpectedConcepts)
	monitoring.EvaluationCounter.WithLabelValues(string(ev.Kind)).Inc()
	return EvaluateResponse{
		Score:       ev.Score,
		Feedback:    ev.Message,
		Suggestions: ev.Suggestions,
		FollowUp:    ev.FollowUp,
	}
}
