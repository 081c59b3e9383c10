package ollama

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/a11yrank/a11yrank/internal/core/domain"
)

// Client talks to a local Ollama instance. Feedback generation is the
// only LLM-backed feature; everything in the scoring path stays
// deterministic.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

func New(baseURL, model string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

// Generator turns a finished analysis into narrative remediation
// advice for the site owner.
type Generator struct {
	client *Client
}

func NewGenerator(client *Client) *Generator {
	return &Generator{client: client}
}

func (g *Generator) Generate(ctx context.Context, result *domain.AnalysisResult) (string, error) {
	if result == nil || result.Failed() {
		return "", domain.WrapError(domain.ErrInvalidInput, "feedback",
			errNoResult)
	}
	return g.client.generateText(ctx, buildFeedbackPrompt(result))
}

func (c *Client) generateText(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]any{
		"model":  c.model,
		"prompt": prompt,
		"stream": false,
	}

	var response struct {
		Response string `json:"response"`
	}
	if err := c.postJSON(ctx, "/api/generate", reqBody, &response, "generate"); err != nil {
		return "", err
	}
	return strings.TrimSpace(response.Response), nil
}
