package services

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/mbeleck/eduquiz/models"
)

// TruthyValue accepts the heterogeneous encodings a true/false answer can
// arrive in (JSON bool, string, number) and keeps the raw textual form for
// normalization.
type TruthyValue struct {
	raw string
}

func TruthyFromString(s string) TruthyValue { return TruthyValue{raw: s} }

func TruthyFromBool(b bool) TruthyValue {
	return TruthyValue{raw: strconv.FormatBool(b)}
}

func (v *TruthyValue) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		v.raw = s
		return nil
	}
	var t bool
	if err := json.Unmarshal(b, &t); err == nil {
		v.raw = strconv.FormatBool(t)
		return nil
	}
	var n float64
	if err := json.Unmarshal(b, &n); err == nil {
		v.raw = strconv.FormatFloat(n, 'f', -1, 64)
		return nil
	}
	return fmt.Errorf("unsupported true/false encoding: %s", b)
}

func (v TruthyValue) String() string { return v.raw }

// truthyTokens are the representations, across the languages the platform
// serves, that count as "true". Both the student's answer and the stored
// canonical choice text go through the same normalization, so matching stays
// symmetric.
var truthyTokens = map[string]bool{
	"true": true,
	"vrai": true,
	"1":    true,
	"oui":  true,
	"yes":  true,
}

func normalizeTruthy(s string) bool {
	return truthyTokens[strings.ToLower(strings.TrimSpace(s))]
}

// AnswerInput is one raw submitted answer. Which field is meaningful depends
// on the question's variant; extra fields are ignored.
type AnswerInput struct {
	ChoiceID *uuid.UUID   `json:"choice_id"`
	Value    *TruthyValue `json:"value"`
	Text     string       `json:"text"`
}

// Evaluation is the outcome of grading one answer, ready to be persisted by
// the caller. The evaluator itself never writes anything.
type Evaluation struct {
	IsCorrect        bool
	PointsEarned     int
	SelectedChoiceID *uuid.UUID
	BooleanValue     *bool
	OpenAnswer       string
}

// OpenEndedGrader decides correctness and points for an open-ended answer.
// The default grants full credit; a real grading strategy can be injected.
type OpenEndedGrader func(question models.Question, answer string) (bool, int)

func FullCreditGrader(question models.Question, _ string) (bool, int) {
	return true, question.Points
}

// Evaluator grades a single submitted answer against a question. It is
// state-free: callers persist the result.
type Evaluator struct {
	GradeOpenEnded OpenEndedGrader
}

func NewEvaluator() *Evaluator {
	return &Evaluator{GradeOpenEnded: FullCreditGrader}
}

// Evaluate routes on the question's variant. The question must have its
// Choices loaded for mcq and true/false variants.
func (e *Evaluator) Evaluate(question models.Question, input AnswerInput) (Evaluation, error) {
	switch question.Variant {
	case models.VariantMultipleChoice:
		return evaluateMultipleChoice(question, input), nil
	case models.VariantTrueFalse:
		return evaluateTrueFalse(question, input), nil
	case models.VariantOpenEnded:
		correct, points := e.GradeOpenEnded(question, input.Text)
		return Evaluation{
			IsCorrect:    correct,
			PointsEarned: points,
			OpenAnswer:   input.Text,
		}, nil
	default:
		return Evaluation{}, fmt.Errorf("%w: %q", ErrUnknownVariant, question.Variant)
	}
}

// A missing or foreign choice id is an incorrect answer, never an error.
func evaluateMultipleChoice(question models.Question, input AnswerInput) Evaluation {
	if input.ChoiceID == nil {
		return Evaluation{}
	}
	for _, choice := range question.Choices {
		if choice.ID == *input.ChoiceID {
			ev := Evaluation{SelectedChoiceID: input.ChoiceID}
			if choice.IsCorrect {
				ev.IsCorrect = true
				ev.PointsEarned = question.Points
			}
			return ev
		}
	}
	return Evaluation{}
}

func evaluateTrueFalse(question models.Question, input AnswerInput) Evaluation {
	submitted := false
	if input.Value != nil {
		submitted = normalizeTruthy(input.Value.String())
	}

	ev := Evaluation{BooleanValue: &submitted}
	for _, choice := range question.Choices {
		if choice.IsCorrect {
			if normalizeTruthy(choice.ChoiceText) == submitted {
				ev.IsCorrect = true
				ev.PointsEarned = question.Points
			}
			return ev
		}
	}
	// No canonical choice recorded: nothing to match against.
	return ev
}
