package database

import (
	"fmt"
	"log"
	"rl_academy_backend/internal/config"
	"rl_academy_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.Module{},
		&model.Lesson{},
		&model.LessonAsset{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	// 课程树为空时写入默认强化学习入门课程
	var count int64
	db.Model(&model.Module{}).Count(&count)
	if count == 0 {
		seedCurriculum(db)
	}

	return db, nil
}

// seedCurriculum 默认课程：多臂老虎机入门模块，覆盖五种课时类型
func seedCurriculum(db *gorm.DB) {
	bandits := &model.Module{
		Slug:           "module-1",
		Number:         1,
		Title:          "Multi-Armed Bandits",
		Description:    "探索与利用的平衡：从老虎机问题入门强化学习",
		Prerequisites:  model.StringList{},
		EstimatedHours: 3,
		CheckpointQuestions: model.QuestionList{
			{
				ID:               "checkpoint-1-1",
				Prompt:           "Explain the exploration-exploitation tradeoff and how epsilon-greedy addresses it.",
				ExpectedConcepts: []string{"exploration", "exploitation", "epsilon"},
			},
			{
				ID:               "checkpoint-1-2",
				Prompt:           "What does a Q-value represent in the multi-armed bandit setting, and how is it updated?",
				ExpectedConcepts: []string{"value", "reward", "action"},
			},
		},
		Lessons: []model.Lesson{
			{
				Slug:             "lesson-1-1",
				Type:             model.Theory,
				Title:            "What is Reinforcement Learning?",
				Description:      "Agents, environments, rewards",
				EstimatedMinutes: 20,
				Order:            1,
				Content:          "# What is Reinforcement Learning?\n\nAn agent interacts with an environment, observes states, takes actions and receives rewards...",
			},
			{
				Slug:             "lesson-1-2",
				Type:             model.Quiz,
				Title:            "Epsilon-Greedy Intuition",
				Description:      "Open questions on the exploration parameter",
				EstimatedMinutes: 15,
				Order:            2,
				Questions: model.QuestionList{
					{
						ID:               "q-1-2-1",
						Prompt:           "What would happen if we set epsilon to 0 from the very beginning?",
						Context:          "The agent has just started learning and its value estimates are based on very few samples.",
						ExpectedConcepts: []string{"exploitation", "greedy", "exploration"},
						Hints:            []string{"Think about what the agent knows at the start", "Epsilon is the probability of exploring"},
					},
					{
						ID:               "q-1-2-2",
						Prompt:           "Why do Q-value estimates improve as the agent pulls an arm more often?",
						ExpectedConcepts: []string{"average", "reward", "estimate"},
					},
				},
			},
			{
				Slug:             "lesson-1-3",
				Type:             model.Exercise,
				Title:            "Implement Epsilon-Greedy",
				Description:      "Fill in the action-selection function",
				EstimatedMinutes: 30,
				Order:            3,
				StarterCode:      "def select_action(q_values, epsilon):\n    # TODO: with probability epsilon pick a random arm,\n    # otherwise pick the greedy arm\n    pass\n",
				Solution:         "import random\n\ndef select_action(q_values, epsilon):\n    if random.random() < epsilon:\n        return random.randrange(len(q_values))\n    return max(range(len(q_values)), key=lambda a: q_values[a])\n",
				Hints:            model.StringList{"random.random() gives a float in [0,1)", "The greedy arm has the highest Q-value"},
			},
			{
				Slug:             "lesson-1-4",
				Type:             model.Playground,
				Title:            "Bandit Playground",
				Description:      "Tune epsilon and watch cumulative reward",
				EstimatedMinutes: 15,
				Order:            4,
				PlaygroundConfig: model.JSONMap{
					"arms":         10,
					"pulls":        1000,
					"epsilonMin":   0.0,
					"epsilonMax":   1.0,
					"epsilonStep":  0.05,
					"rewardStddev": 1.0,
				},
			},
			{
				Slug:             "lesson-1-5",
				Type:             model.Checkpoint,
				Title:            "Module Checkpoint",
				Description:      "Summative quiz for the bandits module",
				EstimatedMinutes: 20,
				Order:            5,
			},
		},
	}

	mdp := &model.Module{
		Slug:           "module-2",
		Number:         2,
		Title:          "Markov Decision Processes",
		Description:    "状态、转移与贝尔曼方程",
		Prerequisites:  model.StringList{"module-1"},
		EstimatedHours: 4,
		Lessons: []model.Lesson{
			{
				Slug:             "lesson-2-1",
				Type:             model.Theory,
				Title:            "States, Actions and Transitions",
				Description:      "The MDP formalism",
				EstimatedMinutes: 25,
				Order:            1,
				Content:          "# Markov Decision Processes\n\nAn MDP is a tuple (S, A, P, R, gamma)...",
			},
			{
				Slug:             "lesson-2-2",
				Type:             model.Quiz,
				Title:            "Value Functions",
				Description:      "Open questions on state and action values",
				EstimatedMinutes: 15,
				Order:            2,
				Questions: model.QuestionList{
					{
						ID:               "q-2-2-1",
						Prompt:           "How does the discount factor change what an optimal policy looks like?",
						ExpectedConcepts: []string{"discount", "policy", "reward"},
					},
				},
			},
		},
	}

	for _, m := range []*model.Module{bandits, mdp} {
		if err := db.Create(m).Error; err != nil {
			log.Printf("seed curriculum: %v", err)
		}
	}
}
