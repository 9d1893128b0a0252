package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Reward credit bounds for generated tasks.
const (
	MinReward = 50
	MaxReward = 500
)

// TaskDraft is one task produced by the breakdown call, before
// persistence assigns it to a project.
type TaskDraft struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Difficulty     string   `json:"difficulty"`
	EstimatedHours string   `json:"estimated_hours"`
	Skills         []string `json:"skills"`
	RewardCredits  int64    `json:"reward_credits"`
}

// GenerateTasks turns the problem statement plus transcript into 4-6
// actionable task drafts. Any remote failure, unparseable output, or
// schema violation degrades to three fixed tasks spanning the three
// difficulty levels. Reward credits are clamped to [MinReward, MaxReward].
func (e *Engine) GenerateTasks(ctx context.Context, problem string, history []QA) (tasks []TaskDraft, degraded bool) {
	out, err := e.generate(ctx, generateTasksTemplate, map[string]any{
		"Problem": problem,
		"History": formatHistory(history),
	})
	if err != nil {
		e.degrade("generate_tasks", err)
		return fallbackTasks(problem), true
	}

	drafts, err := e.parseTaskBatch(ctx, out)
	if err != nil {
		e.degrade("generate_tasks", err)
		return fallbackTasks(problem), true
	}
	return drafts, false
}

func (e *Engine) parseTaskBatch(ctx context.Context, out string) ([]TaskDraft, error) {
	doc := extractJSONArray(out)
	if doc == "" {
		return nil, fmt.Errorf("no JSON array found in response")
	}

	if msg, err := e.taskSchema.validate(ctx, []byte(doc)); err != nil {
		return nil, fmt.Errorf("schema validate error: %w", err)
	} else if msg != "" {
		return nil, fmt.Errorf("response does not match schema: %s", msg)
	}

	var drafts []TaskDraft
	if err := json.Unmarshal([]byte(doc), &drafts); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}

	for i := range drafts {
		if drafts[i].RewardCredits < MinReward {
			drafts[i].RewardCredits = MinReward
		}
		if drafts[i].RewardCredits > MaxReward {
			drafts[i].RewardCredits = MaxReward
		}
	}
	return drafts, nil
}

// fallbackTasks returns the fixed generic breakdown used whenever the
// model cannot produce a valid batch.
func fallbackTasks(problem string) []TaskDraft {
	topic := problem
	if fields := strings.Fields(problem); len(fields) > 3 {
		topic = strings.Join(fields[:3], " ")
	}

	return []TaskDraft{
		{
			Title:          "Research Phase: " + topic,
			Description:    "Conduct comprehensive research on existing solutions, technologies, and methodologies.",
			Difficulty:     "Beginner",
			EstimatedHours: "8-12 hours",
			Skills:         []string{"Research", "Analysis", "Documentation"},
			RewardCredits:  150,
		},
		{
			Title:          "Design & Planning: System Architecture",
			Description:    "Create detailed system design, specifications, and implementation roadmap.",
			Difficulty:     "Intermediate",
			EstimatedHours: "15-20 hours",
			Skills:         []string{"System Design", "Planning", "Technical Writing"},
			RewardCredits:  250,
		},
		{
			Title:          "Prototype Development",
			Description:    "Build initial prototype or proof-of-concept based on research and design.",
			Difficulty:     "Advanced",
			EstimatedHours: "20-30 hours",
			Skills:         []string{"Programming", "Engineering", "Problem Solving"},
			RewardCredits:  400,
		},
	}
}
