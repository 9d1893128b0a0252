package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/garnizeh/nova/pkg/models"
)

// LearningPlanInputs are the knobs the user supplies for plan generation.
type LearningPlanInputs struct {
	Interests      string   `json:"interests"`
	TargetSkills   []string `json:"target_skills"`
	TimeframeWeeks int      `json:"timeframe_weeks"`
	HoursPerWeek   int      `json:"hours_per_week"`
	StartingLevel  string   `json:"starting_level"`
	Modality       string   `json:"modality"`
}

// Normalize applies the documented defaults and floors.
func (in *LearningPlanInputs) Normalize() {
	if in.TimeframeWeeks < 1 {
		in.TimeframeWeeks = 4
	}
	if in.HoursPerWeek < 1 {
		in.HoursPerWeek = 5
	}
	if in.StartingLevel == "" {
		in.StartingLevel = "beginner"
	}
	if in.Modality == "" {
		in.Modality = "mixed"
	}
}

// LearningPlan builds a structured week-by-week plan. The result is the
// raw plan JSON; on any failure a minimal fallback plan derived from the
// inputs is returned instead.
func (e *Engine) LearningPlan(ctx context.Context, inputs LearningPlanInputs) (plan json.RawMessage, degraded bool) {
	inputs.Normalize()

	out, err := e.generate(ctx, learningPlanTemplate, map[string]any{
		"Interests":      inputs.Interests,
		"TargetSkills":   strings.Join(inputs.TargetSkills, ", "),
		"TimeframeWeeks": inputs.TimeframeWeeks,
		"HoursPerWeek":   inputs.HoursPerWeek,
		"StartingLevel":  inputs.StartingLevel,
		"Modality":       inputs.Modality,
	})
	if err == nil {
		if doc := extractJSON(out); doc != "" && json.Valid([]byte(doc)) {
			return json.RawMessage(doc), false
		}
		err = fmt.Errorf("no valid JSON object in response")
	}

	e.degrade("learning_plan", err)
	return fallbackLearningPlan(inputs), true
}

func fallbackLearningPlan(in LearningPlanInputs) json.RawMessage {
	stack := in.TargetSkills
	if len(stack) > 3 {
		stack = stack[:3]
	}
	sessionHours := in.HoursPerWeek
	if sessionHours > 2 {
		sessionHours = 2
	}

	plan := map[string]any{
		"summary": map[string]any{
			"objective":         "Focused upskilling plan",
			"duration_weeks":    in.TimeframeWeeks,
			"weekly_hours":      in.HoursPerWeek,
			"recommended_stack": stack,
		},
		"weeks": []any{
			map[string]any{
				"week":  1,
				"theme": "Foundations",
				"sessions": []any{
					map[string]any{
						"title":          "Core Concepts",
						"duration_hours": sessionHours,
						"tasks":          []string{"Read a primer", "Complete a quick tutorial"},
						"resources": []any{
							map[string]string{"title": "Free Intro Resource", "url": "https://developer.mozilla.org/"},
						},
					},
				},
				"mini_assessment": []string{"Explain core ideas in your own words"},
				"project": map[string]any{
					"title":               "Mini Project 1",
					"description":         "Apply the basics.",
					"acceptance_criteria": []string{"Runs", "Meets basic spec"},
				},
			},
		},
		"capstone": map[string]any{
			"title":               "Capstone",
			"description":         "Integrate everything.",
			"acceptance_criteria": []string{"Meets brief", "Deployed/demoable"},
		},
	}

	b, _ := json.Marshal(plan)
	return b
}

// ReportInputs are the survey answers accompanying a character report
// request.
type ReportInputs struct {
	About           string `json:"about"`
	Interests       string `json:"interests"`
	YearsExperience string `json:"years_experience"`
	PreferredRoles  string `json:"preferred_roles"`
	Projects        string `json:"projects"`
}

// CharacterReport produces a pairing/skills snapshot for the user,
// validated against the embedded report schema.
func (e *Engine) CharacterReport(ctx context.Context, user *models.User, inputs ReportInputs) (report json.RawMessage, degraded bool) {
	name := user.FullName
	if name == "" {
		name = user.Username
	}
	profile, _ := json.Marshal(map[string]any{
		"name":    name,
		"bio":     user.Bio,
		"skills":  user.Skills,
		"credits": user.Credits,
	})

	out, err := e.generate(ctx, characterReportTemplate, map[string]any{
		"Profile":         string(profile),
		"About":           inputs.About,
		"Interests":       inputs.Interests,
		"YearsExperience": inputs.YearsExperience,
		"PreferredRoles":  inputs.PreferredRoles,
		"Projects":        inputs.Projects,
	})
	if err == nil {
		doc := extractJSON(out)
		if doc == "" {
			err = fmt.Errorf("no JSON object found in response")
		} else if msg, verr := e.reportSchema.validate(ctx, []byte(doc)); verr != nil {
			err = fmt.Errorf("schema validate error: %w", verr)
		} else if msg != "" {
			err = fmt.Errorf("response does not match schema: %s", msg)
		} else {
			return json.RawMessage(doc), false
		}
	}

	e.degrade("character_report", err)
	return fallbackCharacterReport(user, inputs), true
}

func fallbackCharacterReport(user *models.User, inputs ReportInputs) json.RawMessage {
	skills := user.Skills
	strengths := skills
	if len(strengths) > 5 {
		strengths = strengths[:5]
	}
	if len(strengths) == 0 {
		strengths = []string{"Curious", "Self-starter"}
	}
	primary := skills
	if len(primary) > 3 {
		primary = primary[:3]
	}
	secondary := []string{}
	if len(skills) > 3 {
		secondary = skills[3:]
		if len(secondary) > 3 {
			secondary = secondary[:3]
		}
	}
	interests := []string{}
	for _, w := range strings.Split(inputs.Interests, ",") {
		if w = strings.TrimSpace(w); w != "" {
			interests = append(interests, w)
		}
	}

	report := map[string]any{
		"strengths":    strengths,
		"growth_areas": []string{"Structured problem decomposition", "Testing discipline"},
		"technical_profile": map[string]any{
			"primary_stack":   primary,
			"secondary_stack": secondary,
			"seniority":       "junior",
		},
		"interests":             interests,
		"estimated_age_bracket": "unknown",
		"character_traits":      []string{"collaborative", "analytical"},
		"pairing_recommendations": map[string]any{
			"education": []string{"Project-led learning with weekly checkpoints"},
			"tasks":     []string{"Well-scoped beginner/intermediate issues"},
			"teammates": []string{"Pair with a mid/senior mentor"},
		},
		"confidence": 0.35,
	}

	b, _ := json.Marshal(report)
	return b
}

// fallbackChatReplies rotate when the tutor call fails.
var fallbackChatReplies = []string{
	"I'm here to help! Can you tell me more about what you're trying to do?",
	"That's a great question! Let's break this down step by step.",
	"Don't worry, coding can be tricky at first. What specific part is confusing?",
	"You're doing great! Programming takes practice. What would you like to work on?",
	"I'm having trouble right now, but keep going! You can also try the hint button for help.",
}

var chatFallbackCounter uint32

// ChatContext carries the optional editor state sent with a chat message.
type ChatContext struct {
	ProjectTitle       string `json:"project_title"`
	ProjectDescription string `json:"project_description"`
	CurrentStep        string `json:"current_step"`
	CurrentCode        string `json:"current_code"`
	FileName           string `json:"file_name"`
}

// ChatReply answers a tutoring question with editor context folded into
// the prompt.
func (e *Engine) ChatReply(ctx context.Context, message string, cc ChatContext) (reply string, degraded bool) {
	var sb strings.Builder
	if cc.ProjectTitle != "" {
		fmt.Fprintf(&sb, "Working on project: %s\n", cc.ProjectTitle)
		fmt.Fprintf(&sb, "Project description: %s\n", cc.ProjectDescription)
	}
	if cc.CurrentStep != "" {
		fmt.Fprintf(&sb, "Current step: %s\n", cc.CurrentStep)
	}
	if code := strings.TrimSpace(cc.CurrentCode); code != "" {
		if len(code) > 500 {
			code = code[:500]
		}
		fmt.Fprintf(&sb, "Current code in %s:\n```\n%s...\n```\n", cc.FileName, code)
	}

	out, err := e.generate(ctx, chatReplyTemplate, map[string]any{
		"Context": sb.String(),
		"Message": message,
	})
	if err == nil {
		if r := strings.TrimSpace(out); r != "" {
			return r, false
		}
		err = fmt.Errorf("empty model output")
	}

	e.degrade("chat_reply", err)
	n := atomic.AddUint32(&chatFallbackCounter, 1)
	return fallbackChatReplies[int(n-1)%len(fallbackChatReplies)], true
}
