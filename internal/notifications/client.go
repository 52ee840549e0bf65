package notifications

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"eudamed_scraper/internal/retry"

	"github.com/rs/zerolog/log"
)

type Client struct {
	httpClient  *http.Client
	baseURL     string
	topic       string
	enabled     bool
	priority    string
	retryConfig retry.Config
}

// RunReport describes a finished scrape for the summary notification.
type RunReport struct {
	Pages        int
	Records      int
	DroppedPages []int
	Outcome      string
	Duration     time.Duration
	OutputPath   string
	Err          error
}

type NotificationError struct {
	Type       string
	StatusCode int
	Underlying error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("notification failed [%s]: %v", e.Type, e.Underlying)
}

func (e *NotificationError) Unwrap() error {
	return e.Underlying
}

func (e *NotificationError) IsRetryable() bool {
	switch e.Type {
	case "network", "server", "timeout":
		return true
	case "rate_limit":
		return true
	case "auth", "client":
		return false
	default:
		return e.StatusCode >= 500
	}
}

func NewClient(baseURL, topic string, enabled bool, priority string, retryConfig retry.Config) *Client {
	retryConfig.Retryable = isRetryable
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		topic:       topic,
		enabled:     enabled,
		priority:    priority,
		retryConfig: retryConfig,
	}
}

func isRetryable(err error) bool {
	var notifErr *NotificationError
	if errors.As(err, &notifErr) {
		return notifErr.IsRetryable()
	}
	return true
}

func (c *Client) SendNotification(ctx context.Context, title, message string) error {
	if !c.enabled {
		log.Debug().Msg("Notifications disabled, skipping")
		return nil
	}

	return retry.Do(ctx, c.retryConfig, func(ctx context.Context) error {
		return c.sendSingleNotification(ctx, title, message)
	})
}

func (c *Client) sendSingleNotification(ctx context.Context, title, message string) error {
	url := fmt.Sprintf("%s/%s", c.baseURL, c.topic)

	log.Debug().
		Str("url", url).
		Str("title", title).
		Msg("Sending notification")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBufferString(message))
	if err != nil {
		return &NotificationError{Type: "client", Underlying: err}
	}

	req.Header.Set("Content-Type", "text/plain")
	if title != "" {
		req.Header.Set("Title", title)
	}
	if c.priority != "" {
		req.Header.Set("Priority", c.priority)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NotificationError{Type: "network", Underlying: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &NotificationError{
			Type:       categorizeHTTPError(resp.StatusCode),
			StatusCode: resp.StatusCode,
			Underlying: fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status),
		}
	}

	log.Debug().
		Int("status_code", resp.StatusCode).
		Msg("Notification sent successfully")

	return nil
}

// NotifyRunComplete sends the run summary. Delivery problems are only logged.
func (c *Client) NotifyRunComplete(ctx context.Context, report RunReport) {
	if !c.enabled {
		return
	}

	title := "EUDAMED scrape finished"
	if report.Err != nil {
		title = "EUDAMED scrape failed"
	}

	if err := c.SendNotification(ctx, title, formatRunMessage(report)); err != nil {
		log.Warn().Err(err).Msg("Failed to send run summary notification")
		return
	}
	log.Info().Str("topic", c.topic).Msg("Sent run summary notification")
}

func formatRunMessage(report RunReport) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%d manufacturers from %d pages", report.Records, report.Pages))
	if report.Duration > 0 {
		sb.WriteString(fmt.Sprintf(" in %s", report.Duration.Round(time.Second)))
	}
	sb.WriteString("\n")

	switch {
	case report.Err != nil:
		sb.WriteString(fmt.Sprintf("Error: %v\n", report.Err))
	case report.Outcome != "":
		sb.WriteString(fmt.Sprintf("Stopped: %s\n", report.Outcome))
	}

	if len(report.DroppedPages) > 0 {
		pages := make([]string, len(report.DroppedPages))
		for i, p := range report.DroppedPages {
			pages[i] = fmt.Sprintf("%d", p)
		}
		sb.WriteString(fmt.Sprintf("Skipped pages: %s\n", strings.Join(pages, ", ")))
	}

	if report.OutputPath != "" {
		sb.WriteString(fmt.Sprintf("Saved to %s\n", report.OutputPath))
	}

	return strings.TrimSuffix(sb.String(), "\n")
}

func categorizeHTTPError(statusCode int) string {
	switch {
	case statusCode == 401 || statusCode == 403:
		return "auth"
	case statusCode == 429:
		return "rate_limit"
	case statusCode >= 400 && statusCode < 500:
		return "client"
	case statusCode >= 500:
		return "server"
	default:
		return "unknown"
	}
}
