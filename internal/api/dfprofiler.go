package api

import (
	"context"
	"df-boss-monitor/internal/config"
	"df-boss-monitor/internal/constants"
	"df-boss-monitor/internal/domain"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

var ErrNoLocation = errors.New("profile has no usable gpscoords")

// Client talks to the dfprofiler boss map and profile JSON endpoints.
type Client struct {
	bossMapURL string
	siteURL    string
	client     *fasthttp.Client
	logger     zerolog.Logger
	now        func() time.Time
}

func NewClient(cfg *config.Config, logger zerolog.Logger) (*Client, error) {
	u, err := url.Parse(cfg.BossMapURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid BOSS_MAP_URL %q", cfg.BossMapURL)
	}

	return &Client{
		bossMapURL: cfg.BossMapURL,
		siteURL:    u.Scheme + "://" + u.Host,
		client: &fasthttp.Client{
			Name:                constants.UserAgent,
			MaxConnsPerHost:     4,
			ReadTimeout:         constants.ExternalAPITimeout,
			WriteTimeout:        constants.ExternalAPITimeout,
			MaxIdleConnDuration: 1 * time.Minute,
		},
		logger: logger,
		now:    time.Now,
	}, nil
}

// FetchSnapshot returns every record currently on the boss map.
func (c *Client) FetchSnapshot(ctx context.Context) ([]domain.SpawnRecord, error) {
	u := fmt.Sprintf("%s/json/?_=%d", c.bossMapURL, c.now().UnixMilli())
	c.logger.Info().Str("url", u).Msg("requesting boss map")

	body, err := c.doRequest(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch boss map: %w", err)
	}

	records, skipped, err := ParseSnapshot(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse boss map: %w", err)
	}
	if skipped > 0 {
		c.logger.Debug().Int("skipped", skipped).Msg("skipped malformed boss map records")
	}
	return records, nil
}

// FetchPlayerLocation reads the live coordinates of one account.
func (c *Client) FetchPlayerLocation(ctx context.Context, account domain.Account) (*domain.PlayerLocation, error) {
	u := fmt.Sprintf("%s/profile/json/%s?_=%d", c.siteURL, url.PathEscape(account.ProfileID), c.now().UnixMilli())
	c.logger.Info().Str("url", u).Str("account", account.Name).Msg("requesting player location")

	body, err := c.doRequest(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile %s: %w", account.ProfileID, err)
	}

	player, err := ParseProfile(body, account.ProfileID)
	if err != nil {
		return nil, err
	}

	c.logger.Info().
		Str("account", account.Name).
		Str("username", player.Username).
		Stringer("location", player.Location).
		Msg("player location fetched")
	return player, nil
}

func (c *Client) doRequest(ctx context.Context, u string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(u)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json, text/javascript, */*; q=0.01")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Referer", c.bossMapURL)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(constants.ExternalAPITimeout)
	}
	if err := c.client.DoDeadline(req, resp, deadline); err != nil {
		return nil, err
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("API error: %d", resp.StatusCode())
	}

	return append([]byte(nil), resp.Body()...), nil
}
