package twitch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

const (
	// DefaultBaseURL is the Helix API root.
	DefaultBaseURL = "https://api.twitch.tv/helix"
	// batchSize is the most user_login parameters Helix accepts per request.
	batchSize      = 100
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 512
)

// Client queries the Twitch Helix API with an app access token.
type Client struct {
	httpClient  *http.Client
	BaseURL     string
	clientID    string
	accessToken string
}

var _ StreamClient = (*Client)(nil)

// NewClient creates a Helix client.
func NewClient(clientID, accessToken string) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: defaultTimeout},
		BaseURL:     DefaultBaseURL,
		clientID:    clientID,
		accessToken: accessToken,
	}
}

// Configured reports whether credentials were supplied.
func (c *Client) Configured() bool {
	return c != nil && c.clientID != "" && c.accessToken != ""
}

// LiveStreams returns the live streams among logins, keyed by lower-case login.
// Logins that are offline are absent from the result.
func (c *Client) LiveStreams(ctx context.Context, logins []string) (map[string]Stream, error) {
	live := map[string]Stream{}
	for start := 0; start < len(logins); start += batchSize {
		end := min(start+batchSize, len(logins))
		query := url.Values{}
		for _, login := range logins[start:end] {
			query.Add("user_login", strings.ToLower(login))
		}
		query.Set("first", fmt.Sprint(batchSize))

		streams, err := c.streams(ctx, query)
		if err != nil {
			return nil, err
		}
		for _, s := range streams {
			live[strings.ToLower(s.UserLogin)] = s
		}
	}
	return live, nil
}

func (c *Client) streams(ctx context.Context, query url.Values) ([]Stream, error) {
	endpoint := strings.TrimSuffix(c.BaseURL, "/") + "/streams?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Client-ID", c.clientID)
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		log.Error("Received non-OK HTTP status from Twitch", "status", resp.StatusCode, "body", string(snippet))
		return nil, fmt.Errorf("twitch streams returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var body struct {
		Data []Stream `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode streams: %w", err)
	}
	return body.Data, nil
}
