package lcu

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultLiveBase is the live client data API exposed by the running game
// process itself. Distinct port from the LCU, no auth, self-signed TLS.
const DefaultLiveBase = "https://127.0.0.1:2999"

// LiveClient reads the in-game live client data endpoints. Unlike the LCU
// client it is long-lived: the endpoint either answers (a game is running)
// or refuses the connection.
type LiveClient struct {
	base string
	http *http.Client
}

func NewLiveClient(base string) *LiveClient {
	if base == "" {
		base = DefaultLiveBase
	}
	return &LiveClient{
		base: base,
		http: &http.Client{
			Transport: insecureTransport(),
			Timeout:   4 * time.Second,
		},
	}
}

func (c *LiveClient) get(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %d on %s", ErrStatus, resp.StatusCode, path)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, v)
}

func (c *LiveClient) PlayerList(ctx context.Context) ([]LivePlayer, error) {
	var players []LivePlayer
	if err := c.get(ctx, "/liveclientdata/playerlist", &players); err != nil {
		return nil, err
	}
	return players, nil
}

func (c *LiveClient) ActivePlayer(ctx context.Context) (*ActivePlayer, error) {
	var p ActivePlayer
	if err := c.get(ctx, "/liveclientdata/activeplayer", &p); err != nil {
		return nil, err
	}
	return &p, nil
}
