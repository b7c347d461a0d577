package ai

import "errors"

var (
	// ErrInvalidQuestionCount is returned before any external call when the
	// requested count is outside [1, 50].
	ErrInvalidQuestionCount = errors.New("requested question count must be between 1 and 50")

	// ErrEmptyDocument is returned when no extracted text is available to
	// build a prompt from.
	ErrEmptyDocument = errors.New("no extracted course text available for generation")

	// ErrMalformedOutput means the model response could not be parsed as JSON.
	// The call is never retried here; retry policy belongs to the caller.
	ErrMalformedOutput = errors.New("model response is not valid JSON")

	// ErrNoValidQuestions means the response parsed but every draft failed
	// structural validation.
	ErrNoValidQuestions = errors.New("model response contained no valid questions")

	// ErrGenerationUnavailable covers transport failures and non-2xx replies
	// from the generation service.
	ErrGenerationUnavailable = errors.New("generation service unavailable")

	// ErrGenerationTimeout is surfaced distinctly so callers can tell a slow
	// upstream from a broken one.
	ErrGenerationTimeout = errors.New("generation service timed out")
)
