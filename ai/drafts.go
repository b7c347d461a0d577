package ai

import "github.com/mbeleck/eduquiz/models"

const (
	MinDraftPoints     = 1
	MaxDraftPoints     = 20
	defaultDraftPoints = 5
)

// ChoiceDraft is one candidate answer option inside a question draft.
type ChoiceDraft struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

// QuestionDraft is an AI-generated candidate question. Drafts are transient:
// they only become canonical Questions/Choices through teacher approval.
type QuestionDraft struct {
	QuestionText string                 `json:"question_text"`
	Variant      models.QuestionVariant `json:"variant"`
	Difficulty   string                 `json:"difficulty"`
	Points       int                    `json:"points"`
	Choices      []ChoiceDraft          `json:"choices,omitempty"`
	Explanation  string                 `json:"explanation"`
}

// Discard explains why one draft from the model response was rejected.
type Discard struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// GenerationResult is the outcome of one generation call: the drafts that
// survived validation plus diagnostics for the ones that did not.
type GenerationResult struct {
	QuizTitle       string          `json:"quiz_title"`
	QuizDescription string          `json:"quiz_description"`
	EstimatedTime   int             `json:"estimated_time"`
	Drafts          []QuestionDraft `json:"drafts"`
	Discarded       []Discard       `json:"discarded"`
}
