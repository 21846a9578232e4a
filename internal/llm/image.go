package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

type imageRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size"`
	Quality        string `json:"quality"`
	ResponseFormat string `json:"response_format"`
}

type imageResponse struct {
	Created int64 `json:"created"`
	Data    []struct {
		URL           string `json:"url,omitempty"`
		RevisedPrompt string `json:"revised_prompt,omitempty"`
	} `json:"data"`
}

// ImageClient requests images from the image generation endpoint
type ImageClient struct {
	client *resty.Client
	opts   Options
	logger *zap.Logger
}

// NewImageClient creates an image client with its own request timeout
func NewImageClient(opts Options, timeout time.Duration, logger *zap.Logger) *ImageClient {
	return &ImageClient{
		client: newRestyClient(opts, timeout),
		opts:   opts,
		logger: logger.Named("llm.image"),
	}
}

// GenerateImage returns the URL of a freshly generated image
func (c *ImageClient) GenerateImage(ctx context.Context, prompt string) (string, error) {
	size := c.opts.ImageSize
	if size == "" {
		size = "1024x1024"
	}

	req := imageRequest{
		Model:          c.opts.ImageModel,
		Prompt:         prompt,
		N:              1,
		Size:           size,
		Quality:        "standard",
		ResponseFormat: "url",
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/images/generations")
	if err != nil {
		return "", fmt.Errorf("failed to send image request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("image API returned status %d: %s", resp.StatusCode(), truncate(resp.String(), 300))
	}

	var result imageResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("failed to decode image response: %w", err)
	}
	if len(result.Data) == 0 {
		return "", fmt.Errorf("no image data in API response")
	}

	url := strings.TrimSpace(result.Data[0].URL)
	if url == "" {
		return "", fmt.Errorf("empty image URL in API response")
	}

	c.logger.Debug("image generated", zap.String("url", url))
	return url, nil
}
