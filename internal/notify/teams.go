// Package notify posts sweeper events to a Microsoft Teams incoming webhook.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spiffcs/prsweep/internal/constants"
	"github.com/spiffcs/prsweep/internal/log"
)

// Teams sends MessageCards to a webhook URL. A Teams with an empty URL
// sends nothing.
type Teams struct {
	url    string
	client *http.Client
	dryRun io.Writer
}

// Option configures a Teams notifier.
type Option func(*Teams)

// WithHTTPClient overrides the HTTP client used for delivery.
func WithHTTPClient(c *http.Client) Option {
	return func(t *Teams) {
		t.client = c
	}
}

// WithDryRun makes the notifier print payloads to w instead of posting them.
func WithDryRun(w io.Writer) Option {
	return func(t *Teams) {
		t.dryRun = w
	}
}

// NewTeams returns a notifier for url with an explicit request timeout.
func NewTeams(url string, timeout time.Duration, opts ...Option) *Teams {
	if timeout <= 0 {
		timeout = constants.DefaultHTTPTimeout
	}
	t := &Teams{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Enabled reports whether a webhook URL is configured.
func (t *Teams) Enabled() bool {
	return t.url != ""
}

// NotifyClosure sends the closure card for c.
func (t *Teams) NotifyClosure(ctx context.Context, c Closure) error {
	return t.send(ctx, ClosureCard(c))
}

// NotifyReport sends the aggregate report card.
func (t *Teams) NotifyReport(ctx context.Context, r Report) error {
	return t.send(ctx, ReportCard(r))
}

// send posts card once. Only transport failures are returned; the response
// status is logged and otherwise ignored.
func (t *Teams) send(ctx context.Context, card MessageCard) error {
	if !t.Enabled() {
		log.Debug("webhook not configured, skipping notification", "summary", card.Summary)
		return nil
	}

	body, err := json.Marshal(card)
	if err != nil {
		return fmt.Errorf("failed to marshal %q card: %w", card.Summary, err)
	}

	if t.dryRun != nil {
		_, err := fmt.Fprintf(t.dryRun, "[DRY RUN] Would send Teams payload:\n%s\n", body)
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post %q card: %w", card.Summary, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	log.Debug("webhook delivered", "summary", card.Summary, "status", resp.StatusCode)
	return nil
}
