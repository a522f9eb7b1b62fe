package llm

import "encoding/json"

// ChatRequest already has the provider's request shape and is sent as is.

// wireResponse is the provider's chat completion body. Created is unix
// seconds on the wire.
type wireResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []ChatChoice `json:"choices"`
	Usage   *Usage       `json:"usage,omitempty"`
}

// wireError is the provider's error envelope. Code is a string on OpenAI
// and a number on some compatible servers.
type wireError struct {
	Error struct {
		Message string          `json:"message"`
		Type    string          `json:"type"`
		Code    json.RawMessage `json:"code"`
	} `json:"error"`
}
