package wahaclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/eportaro/langchain-waha-flaskapi/pkg/logging"
)

const (
	defaultBaseURL = "http://localhost:3000"
	defaultSession = "default"
)

// Config controls how the WAHA client behaves.
type Config struct {
	BaseURL    string
	APIKey     string
	Session    string
	Timeout    time.Duration
	MaxRetries int
	Backoff    time.Duration
	HTTPClient *http.Client
	Logger     *logging.Logger
}

// Client wraps the WAHA REST endpoints the bot needs: sending text and
// toggling the typing indicator.
type Client struct {
	baseURL    string
	apiKey     string
	session    string
	httpClient *http.Client
	maxRetries int
	backoff    time.Duration
	logger     *logging.Logger
}

// New creates a configured Client with sane defaults.
func New(cfg Config) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")
	session := strings.TrimSpace(cfg.Session)
	if session == "" {
		session = defaultSession
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	backoff := cfg.Backoff
	if backoff <= 0 {
		backoff = 250 * time.Millisecond
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		session:    session,
		httpClient: httpClient,
		maxRetries: maxRetries,
		backoff:    backoff,
		logger:     logger,
	}, nil
}

// SendMessage delivers a text reply to a chat.
func (c *Client) SendMessage(ctx context.Context, chatID, text string) error {
	if strings.TrimSpace(chatID) == "" {
		return errors.New("wahaclient: chat id required")
	}
	body, err := json.Marshal(struct {
		Session string `json:"session"`
		ChatID  string `json:"chatId"`
		Text    string `json:"text"`
	}{
		Session: c.session,
		ChatID:  chatID,
		Text:    text,
	})
	if err != nil {
		return fmt.Errorf("wahaclient: marshal send body: %w", err)
	}
	return c.invoke(ctx, "/api/sendText", body)
}

// StartTyping shows the "typing..." indicator in the chat.
func (c *Client) StartTyping(ctx context.Context, chatID string) error {
	return c.typing(ctx, "/api/startTyping", chatID)
}

// StopTyping clears the typing indicator.
func (c *Client) StopTyping(ctx context.Context, chatID string) error {
	return c.typing(ctx, "/api/stopTyping", chatID)
}

func (c *Client) typing(ctx context.Context, path, chatID string) error {
	if strings.TrimSpace(chatID) == "" {
		return errors.New("wahaclient: chat id required")
	}
	body, err := json.Marshal(struct {
		Session string `json:"session"`
		ChatID  string `json:"chatId"`
	}{
		Session: c.session,
		ChatID:  chatID,
	})
	if err != nil {
		return fmt.Errorf("wahaclient: marshal typing body: %w", err)
	}
	return c.invoke(ctx, path, body)
}

func (c *Client) invoke(ctx context.Context, path string, body []byte) error {
	fullURL := c.baseURL + "/" + strings.TrimLeft(path, "/")
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, fullURL, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("wahaclient: build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		if c.apiKey != "" {
			req.Header.Set("X-Api-Key", c.apiKey)
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if !shouldRetry(0, err) || attempt == c.maxRetries {
				return fmt.Errorf("wahaclient: http error: %w", err)
			}
			lastErr = err
			c.logRetry(path, attempt, 0, err)
			if sleepErr := c.sleep(ctx, attempt); sleepErr != nil {
				return sleepErr
			}
			continue
		}
		data, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return fmt.Errorf("wahaclient: read response: %w", readErr)
		}
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil
		}
		apiErr := &apiError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
		if attempt < c.maxRetries && shouldRetry(resp.StatusCode, nil) {
			lastErr = apiErr
			c.logRetry(path, attempt, resp.StatusCode, apiErr)
			if sleepErr := c.sleep(ctx, attempt); sleepErr != nil {
				return sleepErr
			}
			continue
		}
		return apiErr
	}
	if lastErr != nil {
		return lastErr
	}
	return errors.New("wahaclient: request failed without response")
}

func (c *Client) sleep(ctx context.Context, attempt int) error {
	delay := c.backoff * time.Duration(1<<attempt)
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *Client) logRetry(path string, attempt int, status int, err error) {
	if c.logger == nil {
		return
	}
	c.logger.Warn("waha retry",
		"path", path,
		"attempt", attempt+1,
		"status", status,
		"error", err,
	)
}

func shouldRetry(status int, err error) bool {
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return true
		}
		return !errors.Is(err, context.Canceled)
	}
	if status == http.StatusTooManyRequests {
		return true
	}
	return status >= 500 && status <= 599
}

type apiError struct {
	StatusCode int
	Body       string
}

func (e *apiError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("wahaclient: %s (status=%d)", e.Body, e.StatusCode)
	}
	return fmt.Sprintf("wahaclient: http status %d", e.StatusCode)
}
