package service

import "strings"

// 针对典型教学场景（epsilon边界值、Q值含义）的手写讲评。
// 问题文本与答案关键词同时命中时直接返回整段讲评，视为满分，
// 优先于通用的打分路径。

const epsilonZeroCorrect = `Great thinking! You're absolutely right.

When epsilon = 0, the agent becomes **purely greedy** (100% exploitation, 0% exploration). It will always choose the action with the highest estimated value based on its current knowledge.

**The consequence:** The agent might get stuck with a suboptimal strategy early on. If the first arm it tries happens to give a decent reward, it will never explore other arms that might be better. This is like only eating at the first restaurant you tried and never discovering there's an amazing place next door!

This highlights why some exploration is usually necessary for good long-term performance.`

const epsilonZeroBackwards = `Interesting thought, but not quite!

Actually, when epsilon = 0, there's **no exploration at all**. The agent becomes purely greedy, always choosing what it currently thinks is best.

Think of it this way: epsilon is the probability of exploring. So epsilon = 0 means 0% chance of exploration, which means 100% exploitation. The agent will stick with whatever seems best based on its limited initial experience, potentially missing out on better options.`

const epsilonOneCorrect = `Excellent! You've got it!

When epsilon = 1, the agent becomes **purely random** (100% exploration, 0% exploitation). It will always choose a random action, completely ignoring what it has learned about which actions are good or bad.

**The consequence:** The agent never benefits from its learning! Even after 900 pulls, when it might know that arm #7 is clearly the best, it still picks randomly. This is like flipping a coin to choose a restaurant even after eating at all of them 100 times!

This shows why pure exploration is just as problematic as pure exploitation. We need a balance - typically epsilon values between 0.1 and 0.3 work well.`

const epsilonOneBackwards = `Good attempt, but that's backwards!

When epsilon = 1, we get **maximum exploration**, not exploitation. Remember: epsilon represents the probability of choosing a random exploratory action.

So epsilon = 1 means 100% chance of exploration - the agent always picks randomly and never uses what it has learned. It's like having all this knowledge about which slot machines pay best, but ignoring it completely and picking randomly every time!`

const epsilonTradeoff = `Good thinking about the exploration-exploitation trade-off!

Epsilon controls how often the agent explores (tries random actions) versus exploits (chooses the best known action).

- **Low epsilon** (like 0.1): Mostly exploitation with occasional exploration
- **High epsilon** (like 0.9): Mostly exploration with occasional exploitation
- **epsilon = 0**: Pure exploitation (greedy)
- **epsilon = 1**: Pure exploration (random)

The key insight is that we usually want something in between - enough exploration to discover good options, but enough exploitation to benefit from what we learn!`

const qValueExplained = `Excellent understanding!

You're right that Q-values represent the **expected reward** for taking an action. In the multi-armed bandit case, Q(a) tells us what we expect to get from pulling arm 'a' based on our past experience.

The key is that these are **estimates** that improve over time. Initially, we might think arm #3 has Q=5, but after more pulls, we learn it's actually closer to Q=7. This learning process is at the heart of reinforcement learning!`

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// matchNarrativePattern 按问题文本+答案关键词匹配手写讲评，命中返回整段文本
func matchNarrativePattern(question, answer string) (string, bool) {
	lowerQuestion := strings.ToLower(question)
	lowerAnswer := strings.ToLower(answer)

	if strings.Contains(lowerQuestion, "epsilon") {
		switch {
		case containsAny(lowerQuestion, "set epsilon to 0", "epsilon to 0", "epsilon is 0", "epsilon=0", "ε=0"):
			if containsAny(lowerAnswer, "exploit", "greedy", "no explor") {
				return epsilonZeroCorrect, true
			}
			if strings.Contains(lowerAnswer, "explor") {
				return epsilonZeroBackwards, true
			}
		case containsAny(lowerQuestion, "epsilon is 1", "epsilon=1", "ε=1") ||
			(strings.Contains(lowerQuestion, "opposite") && strings.Contains(lowerQuestion, "1")):
			if containsAny(lowerAnswer, "random", "explor", "no exploit") {
				return epsilonOneCorrect, true
			}
			if containsAny(lowerAnswer, "exploit", "greedy") {
				return epsilonOneBackwards, true
			}
		}

		// 泛化的epsilon问题
		if containsAny(lowerAnswer, "trade", "balance", "explor") {
			return epsilonTradeoff, true
		}
	}

	if containsAny(lowerQuestion, "q-value", "q value") {
		if containsAny(lowerAnswer, "expect", "average", "reward") {
			return qValueExplained, true
		}
	}

	return "", false
}
