package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	config "github.com/mbeleck/eduquiz/configs"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	defaultModel   = "gemini-2.0-flash-exp"
	defaultTimeout = 60 * time.Second

	MinQuestionCount = 1
	MaxQuestionCount = 50
)

// Client calls the Gemini generateContent endpoint and turns the reply into
// validated question drafts. It never touches persistent storage.
type Client struct {
	http   *resty.Client
	apiKey string
	model  string
}

func NewClient() *Client {
	timeout := defaultTimeout
	if s := config.Config("GENERATION_TIMEOUT_SECONDS"); s != "" {
		if secs, err := strconv.Atoi(s); err == nil && secs > 0 {
			timeout = time.Duration(secs) * time.Second
		}
	}
	baseURL := config.Config("GEMINI_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := config.Config("GEMINI_MODEL")
	if model == "" {
		model = defaultModel
	}
	return NewClientWith(baseURL, config.Config("GEMINI_API_KEY"), model, timeout)
}

// NewClientWith builds a client against an explicit endpoint. Tests point it
// at a local server with canned responses.
func NewClientWith(baseURL, apiKey, model string, timeout time.Duration) *Client {
	return &Client{
		http:   resty.New().SetBaseURL(baseURL).SetTimeout(timeout),
		apiKey: apiKey,
		model:  model,
	}
}

// Gemini REST envelope, request and response.
type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// GenerateQuestions runs one generation round-trip: validate inputs, render
// the prompt, call the service, parse and validate the untrusted reply.
func (c *Client) GenerateQuestions(ctx context.Context, courseText, subject, level string, count int) (*GenerationResult, error) {
	if count < MinQuestionCount || count > MaxQuestionCount {
		return nil, ErrInvalidQuestionCount
	}
	if strings.TrimSpace(courseText) == "" {
		return nil, ErrEmptyDocument
	}

	prompt := BuildPrompt(courseText, subject, level, count)

	var out geminiResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(geminiRequest{Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}}}).
		SetQueryParam("key", c.apiKey).
		SetResult(&out).
		Post(fmt.Sprintf("/v1beta/models/%s:generateContent", c.model))
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %v", ErrGenerationTimeout, err)
		}
		// A decode failure means the HTTP exchange succeeded but the
		// envelope is not the documented shape.
		if isDecodeError(err) {
			return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrGenerationUnavailable, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: status %d", ErrGenerationUnavailable, resp.StatusCode())
	}

	if len(out.Candidates) == 0 {
		return nil, fmt.Errorf("%w: response has no candidates", ErrMalformedOutput)
	}

	var text strings.Builder
	for _, part := range out.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}

	return ParseDraftResponse(text.String())
}

func isDecodeError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ue *url.Error
	if errors.As(err, &ue) && ue.Timeout() {
		return true
	}
	return false
}
