package ai

import (
	"strings"

	"github.com/garnizeh/nova/pkg/ollama"
)

const initialQuestionTemplate = `You are an AI assistant helping to decompose complex engineering problems into actionable tasks.

A user has submitted this engineering problem:
"{{.Problem}}"

Generate ONE highly relevant, insightful question that will help you understand the most critical aspect of this problem first. This should be the most important question to ask to start understanding the scope, context, or core challenge.

Return ONLY the question text, no additional formatting or explanation.

Make the question specific to this particular engineering problem.`

const nextQuestionTemplate = `You are an AI assistant helping to decompose complex engineering problems into actionable tasks.

Original engineering problem:
"{{.Problem}}"

Previous questions and answers:
{{.History}}

Based on the conversation so far, generate ONE follow-up question that will help you gain deeper insight into this engineering problem. The question should:
- Build on what you've already learned
- Explore aspects not yet covered
- Help understand technical requirements, constraints, users, or implementation details
- Be specific and actionable

Return ONLY the question text, no additional formatting or explanation.`

const shouldAskMoreTemplate = `Engineering problem: "{{.Problem}}"

Questions and answers so far:
{{.History}}

Based on this conversation, do you have enough information to break this engineering problem into 4-6 specific, actionable tasks? Consider if you understand:
- The scope and scale
- Key constraints and requirements
- Target users and success criteria
- Available resources
- Technical approach needed

Respond with only "YES" if you have enough information, or "NO" if you need more context.`

const generateTasksTemplate = `You are an AI assistant that decomposes complex engineering problems into specific, actionable tasks.

Engineering Problem:
"{{.Problem}}"

Additional Context from Q&A:
{{.History}}

Based on this information, generate 4-6 specific, actionable tasks that different people could work on to solve this engineering problem.

For each task, provide:
- title: Clear, specific task title
- description: Detailed description of what needs to be done
- difficulty: "Beginner", "Intermediate", or "Advanced"
- estimated_hours: Time range like "8-12 hours"
- skills: Array of 2-4 required skills
- reward_credits: Number between 50-500 based on difficulty and time

Return ONLY a JSON array of task objects, no additional text.
Example format:
[
  {
    "title": "Research existing solutions",
    "description": "Conduct comprehensive research on...",
    "difficulty": "Beginner",
    "estimated_hours": "8-12 hours",
    "skills": ["Research", "Analysis", "Documentation"],
    "reward_credits": 150
  }
]

Make sure tasks are:
- Specific and actionable
- Can be done independently
- Cover different aspects of the problem
- Suitable for different skill levels`

const learningPlanTemplate = `You are an elite learning architect. Build a SPOON-FED, step-by-step plan to upskill a learner.

Constraints and preferences:
- Interests: {{.Interests}}
- Target skills: {{.TargetSkills}}
- Timeframe (weeks): {{.TimeframeWeeks}}
- Hours per week: {{.HoursPerWeek}}
- Starting level: {{.StartingLevel}}
- Preferred modality: {{.Modality}}

Requirements:
- Split into weeks (Week 1..N) with daily or session-sized tasks.
- Each task must be short, explicit and actionable (no vague study).
- Include concrete resources per task (URL titles with short descriptions; generic if unsure).
- Include quick checks/mini-assessments at the end of each week.
- Include 1 small project per week that compounds toward a capstone in the final week.
- Keep language concise, directive, and motivating.
- Assume typical web-accessible free resources when possible.

Return ONLY valid JSON with this schema:
{
  "summary": {
    "objective": str,
    "duration_weeks": int,
    "weekly_hours": int,
    "recommended_stack": [str]
  },
  "weeks": [
    {
      "week": int,
      "theme": str,
      "sessions": [
        {
          "title": str,
          "duration_hours": number,
          "tasks": [str],
          "resources": [{"title": str, "url": str}]
        }
      ],
      "mini_assessment": [str],
      "project": {"title": str, "description": str, "acceptance_criteria": [str]}
    }
  ],
  "capstone": {"title": str, "description": str, "acceptance_criteria": [str]}
}`

const characterReportTemplate = `You are matching learners and contributors to the best projects, peers and study tracks.
Given this profile and answers, produce a concise JSON report with:
- strengths: 4-6 short bullet strings
- growth_areas: 3-5 short bullet strings
- technical_profile: { primary_stack: [str], secondary_stack: [str], seniority: one of ['junior','mid','senior'] }
- interests: [str]
- estimated_age_bracket: one of ['<18','18-24','25-34','35-44','45+','unknown'] (do not guess if unclear)
- character_traits: [str] (e.g., 'analytical', 'collaborative', 'self-directed')
- pairing_recommendations: { education: [str], tasks: [str], teammates: [str] }
- confidence: number 0-1 representing confidence in the assessment

Profile:
{{.Profile}}

Answers:
about: {{.About}}
interests: {{.Interests}}
years_experience: {{.YearsExperience}}
preferred_roles: {{.PreferredRoles}}
projects: {{.Projects}}

Return ONLY valid JSON matching the schema.`

const chatReplyTemplate = `You are a patient, encouraging AI tutor helping someone learn to code.

Context:
{{.Context}}

User's question: "{{.Message}}"

Guidelines:
- Be extremely beginner-friendly and encouraging
- Explain concepts simply, like you're talking to someone new to programming
- Give specific, actionable advice
- If they're stuck, provide a small hint or next step, not the full solution
- If they ask about errors, help them understand what went wrong
- Always be positive and supportive
- Keep responses concise but helpful (2-3 sentences max)
- Use simple language, avoid jargon

Respond as a helpful tutor:`

func renderPrompt(tmpl string, data any) (string, error) {
	return ollama.RenderTemplate(tmpl, data)
}

// formatHistory renders a question/answer transcript the way the prompt
// templates expect it.
func formatHistory(history []QA) string {
	var sb strings.Builder
	for i, qa := range history {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("Q: ")
		sb.WriteString(qa.Question)
		sb.WriteString("\nA: ")
		sb.WriteString(qa.Answer)
	}
	return sb.String()
}
