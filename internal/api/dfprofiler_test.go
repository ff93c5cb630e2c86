package api

import (
	"context"
	"df-boss-monitor/internal/config"
	"df-boss-monitor/internal/domain"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(&config.Config{BossMapURL: srv.URL + "/bossmap"}, zerolog.Nop())
	require.NoError(t, err)
	c.now = func() time.Time { return time.UnixMilli(1748772000123) }
	return c
}

func TestClient_FetchSnapshot(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bossmap/json/", r.URL.Path)
		assert.Equal(t, "1748772000123", r.URL.Query().Get("_"))
		assert.Equal(t, "XMLHttpRequest", r.Header.Get("X-Requested-With"))
		assert.Contains(t, r.Header.Get("Referer"), "/bossmap")
		w.Write([]byte(`{"1": {"locations": [[1, 2]], "special_enemy_type": "Boss", "start_time": 10, "end_time": 20}}`))
	})

	records, err := c.FetchSnapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Boss", records[0].EnemyType)
}

func TestClient_FetchSnapshot_StatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.FetchSnapshot(context.Background())
	assert.ErrorContains(t, err, "502")
}

func TestClient_FetchPlayerLocation(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/profile/json/14008279", r.URL.Path)
		w.Write([]byte(`{"gpscoords": [1000, 900], "override": {"account_name": "tommy660"}}`))
	})

	player, err := c.FetchPlayerLocation(context.Background(), domain.Account{Name: "tommy660", ProfileID: "14008279"})
	require.NoError(t, err)
	assert.Equal(t, domain.Point{X: 1000, Y: 900}, player.Location)
	assert.Equal(t, "tommy660", player.Username)
}

func TestNewClient_InvalidURL(t *testing.T) {
	_, err := NewClient(&config.Config{BossMapURL: "bossmap"}, zerolog.Nop())
	assert.Error(t, err)
}
