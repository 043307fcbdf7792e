package llm

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrQuotaExceeded - the inference provider rate-limited the token
var ErrQuotaExceeded = errors.New("inference quota exceeded")

// Config - ...
type Config struct {
	Endpoint string
	Model    string
	Token    string
	Timeout  time.Duration
}

// Client interface for text generation
type Client interface {
	Generate(prompt string) (string, error)
}

// HFClient - Hugging Face Inference API implementation
type HFClient struct {
	rest *resty.Client
	url  string
}

// InitHFClient - ...
func InitHFClient(cfg Config) *HFClient {
	rest := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("Authorization", "Bearer "+cfg.Token)
	return &HFClient{
		rest: rest,
		url:  fmt.Sprintf("%s/%s", cfg.Endpoint, cfg.Model),
	}
}

type generateParameters struct {
	MaxNewTokens int     `json:"max_new_tokens"`
	Temperature  float64 `json:"temperature"`
}

type generateRequest struct {
	Inputs     string             `json:"inputs"`
	Parameters generateParameters `json:"parameters"`
}

type generateResponse struct {
	GeneratedText string `json:"generated_text"`
}

// Generate - run the prompt through the model. Some models echo the
// prompt back at the head of the completion, strip it.
func (c *HFClient) Generate(prompt string) (string, error) {
	payload := &generateRequest{
		Inputs: prompt,
		Parameters: generateParameters{
			MaxNewTokens: 500,
			Temperature:  0.7,
		},
	}
	var out []generateResponse
	resp, err := c.rest.R().
		SetBody(payload).
		SetResult(&out).
		Post(c.url)
	if err != nil {
		return "", err
	}
	if resp.StatusCode() == http.StatusTooManyRequests {
		return "", ErrQuotaExceeded
	}
	if resp.IsError() {
		return "", fmt.Errorf("inference request failed: %s", resp.Status())
	}
	if len(out) == 0 {
		return "", errors.New("empty inference response")
	}
	text := out[0].GeneratedText
	if strings.HasPrefix(text, prompt) {
		text = strings.TrimSpace(text[len(prompt):])
	}
	return text, nil
}
