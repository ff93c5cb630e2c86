package notify

import (
	"context"
	"df-boss-monitor/internal/config"
	"df-boss-monitor/internal/constants"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

// Payload is the Slack incoming-webhook body.
type Payload struct {
	Channel   string `json:"channel"`
	Username  string `json:"username"`
	IconEmoji string `json:"icon_emoji"`
	Text      string `json:"text"`
}

type Slack struct {
	webhookURL string
	username   string
	iconEmoji  string
	client     *fasthttp.Client
	logger     zerolog.Logger
}

func NewSlack(cfg *config.Config, logger zerolog.Logger) *Slack {
	return &Slack{
		webhookURL: cfg.SlackWebhookURL,
		username:   cfg.SlackUsername,
		iconEmoji:  cfg.SlackIconEmoji,
		client: &fasthttp.Client{
			MaxConnsPerHost:     4,
			ReadTimeout:         constants.WebhookTimeout,
			WriteTimeout:        constants.WebhookTimeout,
			MaxIdleConnDuration: 1 * time.Minute,
		},
		logger: logger,
	}
}

// Send posts text to channel once. Failures are returned, never retried.
func (s *Slack) Send(ctx context.Context, channel, text string) error {
	body, err := json.Marshal(Payload{
		Channel:   channel,
		Username:  s.username,
		IconEmoji: s.iconEmoji,
		Text:      text,
	})
	if err != nil {
		return fmt.Errorf("failed to encode slack payload: %w", err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(s.webhookURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(body)

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(constants.WebhookTimeout)
	}
	if err := s.client.DoDeadline(req, resp, deadline); err != nil {
		return fmt.Errorf("failed to post slack message: %w", err)
	}

	if code := resp.StatusCode(); code < 200 || code >= 300 {
		return fmt.Errorf("slack webhook error: %d %s", code, resp.Body())
	}

	s.logger.Info().Str("channel", channel).Int("bytes", len(text)).Msg("slack notification sent")
	return nil
}
