package services

import "errors"

var (
	// ErrNotFound covers lookups of quizzes, attempts or users that do not
	// exist (or are hidden from the caller, e.g. unpublished quizzes).
	ErrNotFound = errors.New("resource not found")

	// ErrForbidden means the resource exists but belongs to someone else.
	ErrForbidden = errors.New("resource belongs to another user")

	// ErrAttemptCompleted rejects submissions to an already-finalized
	// attempt. Surfaced distinctly from validation errors so the caller can
	// show "already submitted" instead of "bad request".
	ErrAttemptCompleted = errors.New("attempt has already been submitted")

	// ErrInvalidQuestionReference aborts a whole submission when any answer
	// references a question outside the attempt's quiz.
	ErrInvalidQuestionReference = errors.New("answer references a question outside this quiz")

	// ErrUnknownVariant rejects questions whose variant is not in the closed
	// set instead of falling through.
	ErrUnknownVariant = errors.New("unknown question variant")

	// ErrNoQuestions rejects publishing or starting a quiz with an empty
	// question set.
	ErrNoQuestions = errors.New("quiz has no questions")
)
