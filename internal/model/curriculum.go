package model

// LessonType 课时类型，对应前端五种学习形态
type LessonType string

const (
	Theory     LessonType = "theory"
	Quiz       LessonType = "quiz"
	Exercise   LessonType = "exercise"
	Playground LessonType = "playground"
	Checkpoint LessonType = "checkpoint"
)

// swagger:model Module
type Module struct {
	BaseModel
	Slug           string     `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Number         int        `gorm:"default:0" json:"number"`
	Title          string     `gorm:"size:255;not null" json:"title"`
	Description    string     `gorm:"type:text" json:"description"`
	Prerequisites  StringList `gorm:"type:json;serializer:json" json:"prerequisites"`
	EstimatedHours float64    `gorm:"default:0" json:"estimatedHours"`
	Lessons        []Lesson   `gorm:"foreignKey:ModuleID" json:"lessons,omitempty"`
	// 模块级检查点测验，开放式问题，由评阅服务打分
	CheckpointQuestions QuestionList `gorm:"type:json;serializer:json" json:"checkpointQuestions,omitempty"`
}

func (Module) TableName() string {
	return "modules"
}

// swagger:model Lesson
type Lesson struct {
	BaseModel
	Slug             string     `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	ModuleID         uint       `gorm:"index;type:bigint unsigned" json:"moduleId"`
	Type             LessonType `gorm:"type:enum('theory','quiz','exercise','playground','checkpoint');not null" json:"type"`
	Title            string     `gorm:"size:255;not null" json:"title"`
	Description      string     `gorm:"type:text" json:"description"`
	EstimatedMinutes int        `gorm:"default:0" json:"estimatedMinutes"`
	Order            int        `gorm:"default:0" json:"order"`

	// theory 课时：markdown正文
	Content string `gorm:"type:longtext" json:"content,omitempty"`

	// quiz 课时：开放式问题集
	Questions QuestionList `gorm:"type:json;serializer:json" json:"questions,omitempty"`

	// exercise 课时
	StarterCode string     `gorm:"type:text" json:"starterCode,omitempty"`
	Solution    string     `gorm:"type:text" json:"solution,omitempty"`
	Hints       StringList `gorm:"type:json;serializer:json" json:"hints,omitempty"`

	// playground 课时：仿真参数（epsilon范围、臂数等），前端直接消费
	PlaygroundConfig JSONMap `gorm:"type:json;serializer:json" json:"playgroundConfig,omitempty"`
}

func (Lesson) TableName() string {
	return "lessons"
}

// Question 作者定义的开放式问题，答案由评阅服务打分
type Question struct {
	ID               string   `json:"id"`
	Prompt           string   `json:"prompt"`
	Context          string   `json:"context,omitempty"`
	ExpectedConcepts []string `json:"expectedConcepts,omitempty"`
	Hints            []string `json:"hints,omitempty"`
	Rubric           *Rubric  `json:"rubric,omitempty"`
	FollowUp         string   `json:"followUp,omitempty"`
	SampleAnswers    JSONMap  `json:"sampleAnswers,omitempty"`
}

// Rubric 评分量表的三档描述
type Rubric struct {
	Excellent []string `json:"excellent,omitempty"`
	Good      []string `json:"good,omitempty"`
	NeedsWork []string `json:"needsWork,omitempty"`
}

type StringList []string

type QuestionList []Question

type JSONMap map[string]interface{}
