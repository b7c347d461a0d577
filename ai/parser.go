package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mbeleck/eduquiz/models"
)

// Raw response shapes, before validation. Field names follow the schema the
// prompt asks for; anything else is untrusted input.
type rawQuizOutput struct {
	QuizTitle       string        `json:"quiz_title"`
	QuizDescription string        `json:"quiz_description"`
	EstimatedTime   int           `json:"estimated_time"`
	Questions       []rawQuestion `json:"questions"`
}

type rawQuestion struct {
	QuestionText string        `json:"question_text"`
	QuestionType string        `json:"question_type"`
	Difficulty   string        `json:"difficulty"`
	Points       int           `json:"points"`
	Choices      []ChoiceDraft `json:"choices"`
	Explanation  string        `json:"explanation"`
}

// ParseDraftResponse turns the free text returned by the model into validated
// question drafts. Invalid drafts are discarded individually and reported;
// the call only fails as a whole when the JSON is unparseable or nothing
// valid remains.
func ParseDraftResponse(raw string) (*GenerationResult, error) {
	cleaned := stripCodeFences(raw)

	var out rawQuizOutput
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	result := &GenerationResult{
		QuizTitle:       strings.TrimSpace(out.QuizTitle),
		QuizDescription: strings.TrimSpace(out.QuizDescription),
		EstimatedTime:   out.EstimatedTime,
		Drafts:          []QuestionDraft{},
		Discarded:       []Discard{},
	}

	for i, q := range out.Questions {
		draft, err := validateRawQuestion(q)
		if err != nil {
			result.Discarded = append(result.Discarded, Discard{Index: i, Reason: err.Error()})
			continue
		}
		result.Drafts = append(result.Drafts, draft)
	}

	if len(result.Drafts) == 0 {
		return nil, fmt.Errorf("%w: %d questions discarded", ErrNoValidQuestions, len(result.Discarded))
	}
	return result, nil
}

func validateRawQuestion(q rawQuestion) (QuestionDraft, error) {
	text := strings.TrimSpace(q.QuestionText)
	if text == "" {
		return QuestionDraft{}, fmt.Errorf("empty question text")
	}

	variant := models.QuestionVariant(strings.ToLower(strings.TrimSpace(q.QuestionType)))
	if !variant.Valid() {
		return QuestionDraft{}, fmt.Errorf("unrecognized question type %q", q.QuestionType)
	}

	difficulty := strings.ToLower(strings.TrimSpace(q.Difficulty))
	switch difficulty {
	case "easy", "medium", "hard":
	default:
		return QuestionDraft{}, fmt.Errorf("unrecognized difficulty %q", q.Difficulty)
	}

	draft := QuestionDraft{
		QuestionText: text,
		Variant:      variant,
		Difficulty:   difficulty,
		Points:       clampPoints(q.Points),
		Explanation:  strings.TrimSpace(q.Explanation),
	}

	switch variant {
	case models.VariantMultipleChoice:
		if len(q.Choices) < 2 || len(q.Choices) > 4 {
			return QuestionDraft{}, fmt.Errorf("mcq question needs 2-4 choices, got %d", len(q.Choices))
		}
		if err := checkChoices(q.Choices); err != nil {
			return QuestionDraft{}, err
		}
		draft.Choices = q.Choices
	case models.VariantTrueFalse:
		if len(q.Choices) != 2 {
			return QuestionDraft{}, fmt.Errorf("true/false question needs exactly 2 choices, got %d", len(q.Choices))
		}
		if err := checkChoices(q.Choices); err != nil {
			return QuestionDraft{}, err
		}
		draft.Choices = q.Choices
	case models.VariantOpenEnded:
		// open questions carry no choices
	}

	return draft, nil
}

func checkChoices(choices []ChoiceDraft) error {
	correct := 0
	for _, ch := range choices {
		if strings.TrimSpace(ch.Text) == "" {
			return fmt.Errorf("choice with empty text")
		}
		if ch.IsCorrect {
			correct++
		}
	}
	if correct != 1 {
		return fmt.Errorf("expected exactly one correct choice, got %d", correct)
	}
	return nil
}

func clampPoints(p int) int {
	if p == 0 {
		return defaultDraftPoints
	}
	if p < MinDraftPoints {
		return MinDraftPoints
	}
	if p > MaxDraftPoints {
		return MaxDraftPoints
	}
	return p
}

// ValidateDraft re-checks a draft at the approval boundary, where drafts
// arrive back from the API layer and are untrusted again.
func ValidateDraft(d QuestionDraft) error {
	_, err := validateRawQuestion(rawQuestion{
		QuestionText: d.QuestionText,
		QuestionType: string(d.Variant),
		Difficulty:   d.Difficulty,
		Points:       d.Points,
		Choices:      d.Choices,
		Explanation:  d.Explanation,
	})
	return err
}

// stripCodeFences removes the markdown code fences models sometimes wrap
// around the JSON payload.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = s[len("```json"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[len("```"):]
	}
	if strings.HasSuffix(s, "```") {
		s = s[:len(s)-len("```")]
	}
	return strings.TrimSpace(s)
}
