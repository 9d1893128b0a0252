package ai

import (
	"context"
	"fmt"
	"strings"
)

// Question policy constants. A project always gets at least MinQuestions
// and never more than MaxQuestions; in between, the model decides.
const (
	MinQuestions = 3
	MaxQuestions = 6

	// fallbackContinueBelow is the cutoff used when the YES/NO call
	// fails: keep asking while fewer than this many answers exist.
	fallbackContinueBelow = 4
)

// fallbackInitialQuestion is returned when the model cannot produce the
// first question.
const fallbackInitialQuestion = "What is the primary goal you're trying to achieve with this engineering solution?"

// fallbackFollowUps are generic follow-up questions used when the model
// cannot produce one; the index is clamped to the list length.
var fallbackFollowUps = []string{
	"What specific constraints or limitations do you need to work within?",
	"Who are the end users of this solution and what are their needs?",
	"What resources (budget, time, materials, skills) are available?",
	"What would success look like for this project?",
	"Are there existing solutions that don't meet your needs? Why not?",
}

// InitialQuestion generates the first clarifying question for a problem
// statement. Always returns non-empty text; degraded reports fallback use.
func (e *Engine) InitialQuestion(ctx context.Context, problem string) (question string, degraded bool) {
	out, err := e.generate(ctx, initialQuestionTemplate, map[string]any{"Problem": problem})
	if err != nil {
		e.degrade("initial_question", err)
		return fallbackInitialQuestion, true
	}

	q := cleanLine(out)
	if q == "" {
		e.degrade("initial_question", fmt.Errorf("empty model output"))
		return fallbackInitialQuestion, true
	}
	return q, false
}

// NextQuestion generates a follow-up question from the transcript so far.
func (e *Engine) NextQuestion(ctx context.Context, problem string, history []QA) (question string, degraded bool) {
	out, err := e.generate(ctx, nextQuestionTemplate, map[string]any{
		"Problem": problem,
		"History": formatHistory(history),
	})
	if err == nil {
		if q := cleanLine(out); q != "" {
			return q, false
		}
		err = fmt.Errorf("empty model output")
	}

	e.degrade("next_question", err)
	idx := len(history)
	if idx > len(fallbackFollowUps)-1 {
		idx = len(fallbackFollowUps) - 1
	}
	return fallbackFollowUps[idx], true
}

// ShouldAskMore decides whether the transcript needs another question.
// Fewer than MinQuestions answers always continues and MaxQuestions or
// more always stops, without consulting the model.
func (e *Engine) ShouldAskMore(ctx context.Context, problem string, history []QA) (more bool, degraded bool) {
	if len(history) >= MaxQuestions {
		return false, false
	}
	if len(history) < MinQuestions {
		return true, false
	}

	out, err := e.generate(ctx, shouldAskMoreTemplate, map[string]any{
		"Problem": problem,
		"History": formatHistory(history),
	})
	if err == nil {
		switch parseYesNo(out) {
		case "YES":
			// model has enough context to break the problem down
			return false, false
		case "NO":
			return true, false
		}
		err = fmt.Errorf("response is not YES/NO: %q", cleanLine(out))
	}

	e.degrade("should_ask_more", err)
	return len(history) < fallbackContinueBelow, true
}

// cleanLine strips whitespace and surrounding quotes from a single-line
// model answer.
func cleanLine(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "\"'`")
	return strings.TrimSpace(s)
}

// parseYesNo extracts a YES or NO verdict from the first word of the
// response; returns "" otherwise.
func parseYesNo(s string) string {
	fields := strings.Fields(strings.ToUpper(cleanLine(s)))
	if len(fields) == 0 {
		return ""
	}
	switch strings.Trim(fields[0], ".,!:") {
	case "YES":
		return "YES"
	case "NO":
		return "NO"
	}
	return ""
}
