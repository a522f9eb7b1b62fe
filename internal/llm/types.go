package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

const (
	PartText     = "text"
	PartImageURL = "image_url"
)

var (
	// ErrNoChoices is returned when the provider answers without any choice.
	ErrNoChoices = errors.New("llmclient: provider returned no choices")

	// ErrNoContent is returned by ChatResponse.Text when the first choice
	// carries "content": null, as refusals and filtered replies do.
	ErrNoContent = errors.New("llmclient: provider returned null content")
)

type ImageURL struct {
	URL string `json:"url"`
}

// ContentPart is one element of a multi-part (vision) message.
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// TextPart builds a text content part.
func TextPart(text string) ContentPart {
	return ContentPart{Type: PartText, Text: text}
}

// ImagePart builds an image content part from a URL or data URI.
func ImagePart(url string) ContentPart {
	return ContentPart{Type: PartImageURL, ImageURL: &ImageURL{URL: url}}
}

// ChatMessage is a single chat turn. When Parts is non-empty it is sent as
// the content array and Content is ignored.
type ChatMessage struct {
	Role    string
	Content string
	Parts   []ContentPart

	// Refusal is the provider's refusal text, set only on received messages.
	Refusal string

	// nullContent records a received "content": null.
	nullContent bool
}

type wireMessage struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
	Refusal string          `json:"refusal,omitempty"`
}

func (m ChatMessage) MarshalJSON() ([]byte, error) {
	var (
		content []byte
		err     error
	)
	switch {
	case len(m.Parts) > 0:
		content, err = json.Marshal(m.Parts)
	case m.nullContent && m.Content == "":
		content = []byte("null")
	default:
		content, err = json.Marshal(m.Content)
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(wireMessage{Role: m.Role, Content: content, Refusal: m.Refusal})
}

func (m *ChatMessage) UnmarshalJSON(data []byte) error {
	var w wireMessage
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	m.Role = w.Role
	m.Content = ""
	m.Parts = nil
	m.Refusal = w.Refusal
	m.nullContent = false

	raw := bytes.TrimSpace(w.Content)
	switch {
	case len(raw) == 0 || bytes.Equal(raw, []byte("null")):
		m.nullContent = true
		return nil
	case raw[0] == '[':
		return json.Unmarshal(raw, &m.Parts)
	default:
		return json.Unmarshal(raw, &m.Content)
	}
}

// size returns the number of text bytes carried by the message.
func (m ChatMessage) size() int {
	n := len(m.Content)
	for _, p := range m.Parts {
		n += len(p.Text)
	}
	return n
}

type ChatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float32       `json:"temperature,omitempty"`
	TopP        float32       `json:"top_p,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Stop        []string      `json:"stop,omitempty"`
}

func (r *ChatRequest) Validate() error {
	if r.Model == "" {
		return errors.New("model is required")
	}

	if len(r.Messages) == 0 {
		return errors.New("at least one message is required")
	}

	for i, m := range r.Messages {
		if m.Role != RoleSystem && m.Role != RoleUser && m.Role != RoleAssistant {
			return fmt.Errorf("invalid role %q in messages[%d]", m.Role, i)
		}
		for j, p := range m.Parts {
			switch p.Type {
			case PartText:
			case PartImageURL:
				if p.ImageURL == nil || p.ImageURL.URL == "" {
					return fmt.Errorf("image_url is required for messages[%d].parts[%d]", i, j)
				}
			default:
				return fmt.Errorf("invalid part type %q in messages[%d].parts[%d]", p.Type, i, j)
			}
		}
	}

	if r.Temperature < 0 || r.Temperature > 2 {
		return errors.New("temperature must be between 0 and 2")
	}
	if r.TopP < 0 || r.TopP > 1 {
		return errors.New("top_p must be between 0 and 1")
	}
	if r.MaxTokens < 0 {
		return errors.New("max_tokens must not be negative")
	}

	return nil
}

type ChatChoice struct {
	Index        int         `json:"index"`
	Message      ChatMessage `json:"message"`
	FinishReason string      `json:"finish_reason,omitempty"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type ChatResponse struct {
	ID      string       `json:"id,omitempty"`
	Created time.Time    `json:"created,omitempty"`
	Model   string       `json:"model,omitempty"`
	Choices []ChatChoice `json:"choices"`
	Usage   *Usage       `json:"usage,omitempty"`
}

// Text returns the content of the first choice exactly as received. A
// missing or null content is an error wrapping ErrNoContent, with the
// refusal text when the provider sent one.
func (r *ChatResponse) Text() (string, error) {
	if r == nil || len(r.Choices) == 0 {
		return "", ErrNoChoices
	}
	msg := r.Choices[0].Message
	if msg.nullContent {
		if msg.Refusal != "" {
			return "", fmt.Errorf("%w: refusal: %s", ErrNoContent, msg.Refusal)
		}
		return "", ErrNoContent
	}
	return msg.Content, nil
}

type Client interface {
	ChatCompletion(ctx context.Context, req *ChatRequest) (*ChatResponse, error)
}
