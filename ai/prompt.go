package ai

import (
	"fmt"
	"unicode/utf8"
)

// maxPromptChars caps the amount of course text sent upstream so the request
// stays under the model's token limit.
const maxPromptChars = 8000

const promptTemplate = `You are an educational expert in %s for the %s school level.

Analyze the following course content and generate %d varied and relevant quiz questions.

COURSE CONTENT:
%s

INSTRUCTIONS:
1. Allowed question types: "mcq" (4 choices), "true_false" (2 choices), "open"
2. Vary difficulty levels: easy, medium, hard
3. Make sure the questions cover the key concepts of the course
4. For mcq and true_false questions exactly one choice must be correct
5. Add a detailed explanation for every answer
6. Points per question must be between 1 and 20

EXPECTED RESPONSE (strict JSON format):
{
    "quiz_title": "Suggested quiz title",
    "quiz_description": "Quiz description",
    "estimated_time": 15,
    "questions": [
        {
            "question_text": "The question text",
            "question_type": "mcq|true_false|open",
            "difficulty": "easy|medium|hard",
            "points": 5,
            "choices": [
                {"text": "Choice A", "is_correct": false},
                {"text": "Choice B", "is_correct": true}
            ],
            "explanation": "Detailed explanation of the correct answer"
        }
    ]
}

IMPORTANT: Reply ONLY with the JSON, without any additional text.`

// BuildPrompt renders the deterministic instruction template for one
// generation request. Course text beyond maxPromptChars is dropped.
func BuildPrompt(courseText, subject, level string, count int) string {
	if len(courseText) > maxPromptChars {
		// Back up to a rune boundary so accented course text is never cut
		// mid-character.
		cut := maxPromptChars
		for cut > 0 && !utf8.RuneStart(courseText[cut]) {
			cut--
		}
		courseText = courseText[:cut]
	}
	return fmt.Sprintf(promptTemplate, subject, level, count, courseText)
}
