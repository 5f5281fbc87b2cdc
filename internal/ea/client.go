package ea

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

const (
	defaultTimeout = 15 * time.Second
	maxErrorBody   = 512
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0 Safari/537.36"
)

// APIClient talks to the public EA Pro Clubs endpoints.
type APIClient struct {
	httpClient *http.Client
	BaseURL    string
	Platform   string
	MatchType  string
}

// NewClient creates a new EA Pro Clubs client.
func NewClient(baseURL, platform, matchType string) *APIClient {
	return &APIClient{
		httpClient: &http.Client{Timeout: defaultTimeout},
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		Platform:   platform,
		MatchType:  matchType,
	}
}

// Ensure APIClient implements the EAClient interface.
var _ EAClient = (*APIClient)(nil)

// GetClubMatches fetches the most recent matches of a club. Every match keeps
// its raw JSON so it can be archived alongside the normalized rows.
func (c *APIClient) GetClubMatches(ctx context.Context, clubID string) ([]RawMatch, error) {
	query := url.Values{}
	query.Set("clubIds", clubID)
	query.Set("platform", c.Platform)
	query.Set("matchType", c.MatchType)

	body, err := c.get(ctx, "/clubs/matches", query)
	if err != nil {
		return nil, err
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode matches for club %s: %w", clubID, err)
	}

	matches := make([]RawMatch, 0, len(entries))
	for _, entry := range entries {
		var m RawMatch
		if err := json.Unmarshal(entry, &m); err != nil {
			log.Warn("Skipping undecodable EA match", "clubID", clubID, "error", err)
			continue
		}
		m.Raw = entry
		matches = append(matches, m)
	}
	log.Info("Fetched EA club matches", "clubID", clubID, "count", len(matches))
	return matches, nil
}

// SearchClubs looks clubs up by name. EA answers with either a list or an
// object keyed by club id, both are handled.
func (c *APIClient) SearchClubs(ctx context.Context, name string) ([]ClubInfo, error) {
	query := url.Values{}
	query.Set("platform", c.Platform)
	query.Set("clubName", name)

	body, err := c.get(ctx, "/clubs/search", query)
	if err != nil {
		return nil, err
	}

	var raw []rawClubInfo
	trimmed := bytes.TrimSpace(body)
	switch {
	case len(trimmed) == 0, bytes.Equal(trimmed, []byte("null")):
	case trimmed[0] == '[':
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil, fmt.Errorf("failed to decode club search: %w", err)
		}
	default:
		var keyed map[string]rawClubInfo
		if err := json.Unmarshal(trimmed, &keyed); err != nil {
			return nil, fmt.Errorf("failed to decode club search: %w", err)
		}
		for id, info := range keyed {
			if info.ClubID == "" {
				info.ClubID = Value(id)
			}
			raw = append(raw, info)
		}
	}

	clubs := make([]ClubInfo, 0, len(raw))
	for _, r := range raw {
		clubs = append(clubs, ClubInfo{
			ClubID:   r.ClubID.String(),
			Name:     r.Name,
			Platform: r.Platform,
			RegionID: r.RegionID.Int(),
		})
	}
	sort.Slice(clubs, func(i, j int) bool { return clubs[i].Name < clubs[j].Name })
	return clubs, nil
}

func (c *APIClient) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	endpoint := c.BaseURL + path + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Referer", "https://www.ea.com/")
	req.Header.Set("Origin", "https://www.ea.com")
	log.Debug("Requesting EA API", "url", endpoint)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		log.Error("Received non-OK HTTP status from EA API", "status", resp.StatusCode, "body", string(snippet))
		return nil, fmt.Errorf("ea api %s returned status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}
