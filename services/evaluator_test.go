package services_test

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/mbeleck/eduquiz/models"
	"github.com/mbeleck/eduquiz/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mcqQuestion(points int) models.Question {
	q := models.Question{
		ID:      uuid.New(),
		Variant: models.VariantMultipleChoice,
		Points:  points,
		Choices: []models.Choice{
			{ID: uuid.New(), ChoiceText: "Paris", IsCorrect: true},
			{ID: uuid.New(), ChoiceText: "Lyon", IsCorrect: false},
			{ID: uuid.New(), ChoiceText: "Marseille", IsCorrect: false},
		},
	}
	for i := range q.Choices {
		q.Choices[i].QuestionID = q.ID
	}
	return q
}

func tfQuestion(canonical string, points int) models.Question {
	q := models.Question{
		ID:      uuid.New(),
		Variant: models.VariantTrueFalse,
		Points:  points,
		Choices: []models.Choice{
			{ID: uuid.New(), ChoiceText: canonical, IsCorrect: true},
			{ID: uuid.New(), ChoiceText: "Autre", IsCorrect: false},
		},
	}
	return q
}

func TestEvaluateMultipleChoice(t *testing.T) {
	ev := services.NewEvaluator()
	q := mcqQuestion(10)

	t.Run("correct choice earns full points", func(t *testing.T) {
		res, err := ev.Evaluate(q, services.AnswerInput{ChoiceID: &q.Choices[0].ID})
		require.NoError(t, err)
		assert.True(t, res.IsCorrect)
		assert.Equal(t, 10, res.PointsEarned)
		require.NotNil(t, res.SelectedChoiceID)
		assert.Equal(t, q.Choices[0].ID, *res.SelectedChoiceID)
	})

	t.Run("wrong choice earns nothing", func(t *testing.T) {
		res, err := ev.Evaluate(q, services.AnswerInput{ChoiceID: &q.Choices[1].ID})
		require.NoError(t, err)
		assert.False(t, res.IsCorrect)
		assert.Equal(t, 0, res.PointsEarned)
		require.NotNil(t, res.SelectedChoiceID)
	})

	t.Run("missing choice is incorrect, not an error", func(t *testing.T) {
		res, err := ev.Evaluate(q, services.AnswerInput{})
		require.NoError(t, err)
		assert.False(t, res.IsCorrect)
		assert.Equal(t, 0, res.PointsEarned)
		assert.Nil(t, res.SelectedChoiceID)
	})

	t.Run("choice from another question is incorrect and not recorded", func(t *testing.T) {
		foreign := uuid.New()
		res, err := ev.Evaluate(q, services.AnswerInput{ChoiceID: &foreign})
		require.NoError(t, err)
		assert.False(t, res.IsCorrect)
		assert.Nil(t, res.SelectedChoiceID)
	})
}

func TestEvaluateTrueFalse(t *testing.T) {
	ev := services.NewEvaluator()

	t.Run("string and bool encodings grade identically", func(t *testing.T) {
		q := tfQuestion("Vrai", 5)

		asString := services.TruthyFromString("Vrai")
		asBool := services.TruthyFromBool(true)

		r1, err := ev.Evaluate(q, services.AnswerInput{Value: &asString})
		require.NoError(t, err)
		r2, err := ev.Evaluate(q, services.AnswerInput{Value: &asBool})
		require.NoError(t, err)

		assert.Equal(t, r1.IsCorrect, r2.IsCorrect)
		assert.Equal(t, r1.PointsEarned, r2.PointsEarned)
		assert.True(t, r1.IsCorrect)
		assert.Equal(t, 5, r1.PointsEarned)
	})

	t.Run("truthy spellings", func(t *testing.T) {
		q := tfQuestion("true", 5)
		for _, raw := range []string{"1", "oui", "yes", "VRAI", " true "} {
			v := services.TruthyFromString(raw)
			res, err := ev.Evaluate(q, services.AnswerInput{Value: &v})
			require.NoError(t, err)
			assert.True(t, res.IsCorrect, "spelling %q", raw)
		}
	})

	t.Run("absent value counts as false", func(t *testing.T) {
		q := tfQuestion("Faux", 5)
		res, err := ev.Evaluate(q, services.AnswerInput{})
		require.NoError(t, err)
		assert.True(t, res.IsCorrect, "canonical answer is false, so no value matches")
		require.NotNil(t, res.BooleanValue)
		assert.False(t, *res.BooleanValue)
	})

	t.Run("no canonical choice means incorrect", func(t *testing.T) {
		q := models.Question{ID: uuid.New(), Variant: models.VariantTrueFalse, Points: 5}
		v := services.TruthyFromBool(true)
		res, err := ev.Evaluate(q, services.AnswerInput{Value: &v})
		require.NoError(t, err)
		assert.False(t, res.IsCorrect)
	})
}

func TestTruthyValueUnmarshal(t *testing.T) {
	var payload struct {
		Value *services.TruthyValue `json:"value"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"value":"Vrai"}`), &payload))
	assert.Equal(t, "Vrai", payload.Value.String())

	require.NoError(t, json.Unmarshal([]byte(`{"value":true}`), &payload))
	assert.Equal(t, "true", payload.Value.String())

	require.NoError(t, json.Unmarshal([]byte(`{"value":1}`), &payload))
	assert.Equal(t, "1", payload.Value.String())

	assert.Error(t, json.Unmarshal([]byte(`{"value":["vrai"]}`), &payload))
}

func TestEvaluateOpenEnded(t *testing.T) {
	q := models.Question{ID: uuid.New(), Variant: models.VariantOpenEnded, Points: 8}

	t.Run("default grader grants full credit", func(t *testing.T) {
		ev := services.NewEvaluator()
		res, err := ev.Evaluate(q, services.AnswerInput{Text: "La photosynthèse transforme la lumière."})
		require.NoError(t, err)
		assert.True(t, res.IsCorrect)
		assert.Equal(t, 8, res.PointsEarned)
		assert.Equal(t, "La photosynthèse transforme la lumière.", res.OpenAnswer)
	})

	t.Run("injected grader decides", func(t *testing.T) {
		ev := &services.Evaluator{
			GradeOpenEnded: func(question models.Question, answer string) (bool, int) {
				return false, 0
			},
		}
		res, err := ev.Evaluate(q, services.AnswerInput{Text: "aucune idée"})
		require.NoError(t, err)
		assert.False(t, res.IsCorrect)
		assert.Equal(t, 0, res.PointsEarned)
	})
}

func TestEvaluateUnknownVariant(t *testing.T) {
	ev := services.NewEvaluator()
	q := models.Question{ID: uuid.New(), Variant: "matching", Points: 5}

	_, err := ev.Evaluate(q, services.AnswerInput{})
	assert.ErrorIs(t, err, services.ErrUnknownVariant)
}
