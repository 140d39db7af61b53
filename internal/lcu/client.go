package lcu

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var ErrStatus = fmt.Errorf("lcu: unexpected status")

// Client talks to the League client's private HTTPS API. The client uses
// a self-signed certificate, so verification is disabled; the socket only
// listens on loopback.
type Client struct {
	base string
	user string // always "riot"; the token is the basic-auth password
	pass string
	http *http.Client
}

func insecureTransport() *http.Transport {
	return &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
	}
}

// NewClient builds a client for the given base URL ("https://127.0.0.1:<port>")
// and remoting auth token.
func NewClient(base, token string) *Client {
	return &Client{
		base: strings.TrimRight(base, "/"),
		user: "riot",
		pass: token,
		http: &http.Client{
			Transport: insecureTransport(),
			Timeout:   5 * time.Second,
		},
	}
}

// Close releases the client's idle connections. A reconnect always builds
// a fresh Client rather than mutating this one.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.user, c.pass)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d on %s", ErrStatus, resp.StatusCode, path)
	}
	return io.ReadAll(resp.Body)
}

// GetJSON fetches path and decodes into v.
func (c *Client) GetJSON(ctx context.Context, path string, v any) error {
	body, err := c.get(ctx, path)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, v)
}

// GetRaw fetches path and returns the raw body. Used where the caller
// wants to parse permissively.
func (c *Client) GetRaw(ctx context.Context, path string) ([]byte, error) {
	return c.get(ctx, path)
}

func (c *Client) CurrentSummoner(ctx context.Context) (*Summoner, error) {
	var s Summoner
	if err := c.GetJSON(ctx, "/lol-summoner/v1/current-summoner", &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// GameflowPhase returns the raw phase string ("Lobby", "ChampSelect",
// "InProgress", ...). The endpoint returns a bare JSON string.
func (c *Client) GameflowPhase(ctx context.Context) (string, error) {
	body, err := c.get(ctx, "/lol-gameflow/v1/gameflow-phase")
	if err != nil {
		return "", err
	}
	var phase string
	if err := json.Unmarshal(body, &phase); err != nil {
		// Some client builds return the string unquoted.
		phase = strings.Trim(strings.TrimSpace(string(body)), `"`)
	}
	return phase, nil
}

func (c *Client) GameflowSession(ctx context.Context) ([]byte, error) {
	return c.get(ctx, "/lol-gameflow/v1/session")
}

func (c *Client) ChampSelectSession(ctx context.Context) (*ChampSelectSession, error) {
	var s ChampSelectSession
	if err := c.GetJSON(ctx, "/lol-champ-select/v1/session", &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) SummonerByID(ctx context.Context, summonerID int64) (*Summoner, error) {
	var s Summoner
	if err := c.GetJSON(ctx, fmt.Sprintf("/lol-summoner/v1/summoners/%d", summonerID), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) SummonerByPUUID(ctx context.Context, puuid string) (*Summoner, error) {
	var s Summoner
	if err := c.GetJSON(ctx, "/lol-summoner/v2/summoners/by-puuid/"+url.PathEscape(puuid), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// SummonerByName resolves a summoner via the search-by-name endpoint.
func (c *Client) SummonerByName(ctx context.Context, name string) (*Summoner, error) {
	var s Summoner
	if err := c.GetJSON(ctx, "/lol-summoner/v1/summoners?name="+url.QueryEscape(name), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// SummonerSpellsByID fetches the selected spells for a summoner. Only
// populated in some game modes; callers treat a failure as "unknown".
func (c *Client) SummonerSpellsByID(ctx context.Context, summonerID int64) (*SummonerSpells, error) {
	var sp SummonerSpells
	if err := c.GetJSON(ctx, fmt.Sprintf("/lol-summoner/v1/summoners/%d/summoner-spells", summonerID), &sp); err != nil {
		return nil, err
	}
	return &sp, nil
}
